package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "github.com/docfield/api/internal/domain"
	pfirestore "github.com/docfield/api/internal/platform/firestore"
	"github.com/docfield/api/internal/repositories"
)

const orderCollection = "orders"

// OrderRepository persists finalized orders within Firestore.
type OrderRepository struct {
	base *pfirestore.BaseRepository[orderDocument]
}

// NewOrderRepository constructs a Firestore-backed order repository.
func NewOrderRepository(provider *pfirestore.Provider) (*OrderRepository, error) {
	if provider == nil {
		return nil, errors.New("order repository requires firestore provider")
	}
	base := pfirestore.NewBaseRepository[orderDocument](provider, orderCollection, nil, nil)
	return &OrderRepository{base: base}, nil
}

// Insert writes a new order document. The write is insert-if-absent: a second
// insert under the same id fails with a conflict, which keeps duplicate
// submissions out even under concurrent requests.
func (r *OrderRepository) Insert(ctx context.Context, order domain.Order) error {
	if r == nil || r.base == nil {
		return errors.New("order repository not initialised")
	}

	orderID := strings.TrimSpace(order.ID)
	if orderID == "" {
		return errors.New("order repository: order id is required")
	}

	items, err := encodeItems(order.Items)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	createdAt := order.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = now
	}

	doc := orderDocument{
		OrderedAt: order.OrderedAt.UTC(),
		OrderedBy: actionedByDocument{
			ID:    order.OrderedBy.ID,
			Email: order.OrderedBy.Email,
		},
		DeliveryDetails:  encodeDeliveryDetails(order.DeliveryDetails),
		Items:            items,
		Links:            orderLinksDocument{Self: order.Links.Self},
		PaymentReference: order.PaymentReference,
		Reference:        order.Reference,
		TotalOrderCost:   order.TotalOrderCost,
		Etag:             order.Etag,
		CreatedAt:        createdAt,
		UpdatedAt:        now,
	}

	_, err = r.base.Create(ctx, orderID, doc)
	return err
}

// FindByID loads an order by its identifier.
func (r *OrderRepository) FindByID(ctx context.Context, orderID string) (domain.Order, error) {
	if r == nil || r.base == nil {
		return domain.Order{}, errors.New("order repository not initialised")
	}
	id := strings.TrimSpace(orderID)
	if id == "" {
		return domain.Order{}, errors.New("order repository: order id is required")
	}

	doc, err := r.base.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}

	items, err := decodeItems(doc.Data.Items)
	if err != nil {
		return domain.Order{}, err
	}

	return domain.Order{
		ID:        doc.ID,
		OrderedAt: doc.Data.OrderedAt,
		OrderedBy: domain.ActionedBy{
			ID:    doc.Data.OrderedBy.ID,
			Email: doc.Data.OrderedBy.Email,
		},
		DeliveryDetails:  decodeDeliveryDetails(doc.Data.DeliveryDetails),
		Items:            items,
		Links:            domain.OrderLinks{Self: doc.Data.Links.Self},
		PaymentReference: doc.Data.PaymentReference,
		Reference:        doc.Data.Reference,
		TotalOrderCost:   doc.Data.TotalOrderCost,
		Etag:             doc.Data.Etag,
		CreatedAt:        doc.Data.CreatedAt,
		UpdatedAt:        doc.Data.UpdatedAt,
	}, nil
}

var _ repositories.OrderRepository = (*OrderRepository)(nil)
