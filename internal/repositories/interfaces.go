package repositories

import (
	"context"

	domain "github.com/docfield/api/internal/domain"
)

// RepositoryError wraps low-level persistence failures with categorisation used by services.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
	IsUnavailable() bool
}

// BasketRepository persists the per-user basket document. The basket document
// id is the user id.
type BasketRepository interface {
	Upsert(ctx context.Context, basket domain.Basket) (domain.Basket, error)
	FindByUser(ctx context.Context, userID string) (domain.Basket, error)
}

// CheckoutRepository persists checkout snapshots. Insert fails with a conflict
// when a checkout already exists under the same id.
type CheckoutRepository interface {
	Insert(ctx context.Context, checkout domain.Checkout) error
	Update(ctx context.Context, checkout domain.Checkout) error
	FindByID(ctx context.Context, checkoutID string) (domain.Checkout, error)
}

// OrderRepository persists finalized orders. Insert is insert-if-absent: a
// second insert under an existing order id fails with a conflict, backing the
// materializer's idempotency guard against concurrent requests.
type OrderRepository interface {
	Insert(ctx context.Context, order domain.Order) error
	FindByID(ctx context.Context, orderID string) (domain.Order, error)
}
