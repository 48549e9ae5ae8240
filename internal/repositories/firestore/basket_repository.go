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

const basketCollection = "baskets"

// BasketRepository persists per-user baskets within Firestore.
type BasketRepository struct {
	base *pfirestore.BaseRepository[basketDocument]
}

// NewBasketRepository constructs a Firestore-backed basket repository.
func NewBasketRepository(provider *pfirestore.Provider) (*BasketRepository, error) {
	if provider == nil {
		return nil, errors.New("basket repository requires firestore provider")
	}
	base := pfirestore.NewBaseRepository[basketDocument](provider, basketCollection, nil, nil)
	return &BasketRepository{base: base}, nil
}

// Upsert writes the basket document keyed by the owning user's id.
func (r *BasketRepository) Upsert(ctx context.Context, basket domain.Basket) (domain.Basket, error) {
	if r == nil || r.base == nil {
		return domain.Basket{}, errors.New("basket repository not initialised")
	}

	basketID := strings.TrimSpace(basket.ID)
	if basketID == "" {
		return domain.Basket{}, errors.New("basket repository: basket id is required")
	}

	items, err := encodeItems(basket.Items)
	if err != nil {
		return domain.Basket{}, err
	}

	now := time.Now().UTC()
	createdAt := basket.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = now
	}

	doc := basketDocument{
		DeliveryDetails: encodeDeliveryDetails(basket.DeliveryDetails),
		Items:           items,
		Etag:            basket.Etag,
		CreatedAt:       createdAt,
		UpdatedAt:       now,
	}

	result, err := r.base.Set(ctx, basketID, doc)
	if err != nil {
		return domain.Basket{}, err
	}

	saved := basket
	saved.ID = basketID
	saved.CreatedAt = createdAt
	saved.UpdatedAt = result.UpdateTime
	return saved, nil
}

// FindByUser loads the basket owned by the given user.
func (r *BasketRepository) FindByUser(ctx context.Context, userID string) (domain.Basket, error) {
	if r == nil || r.base == nil {
		return domain.Basket{}, errors.New("basket repository not initialised")
	}
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return domain.Basket{}, errors.New("basket repository: user id is required")
	}

	doc, err := r.base.Get(ctx, uid)
	if err != nil {
		return domain.Basket{}, err
	}

	items, err := decodeItems(doc.Data.Items)
	if err != nil {
		return domain.Basket{}, err
	}

	return domain.Basket{
		ID:              doc.ID,
		DeliveryDetails: decodeDeliveryDetails(doc.Data.DeliveryDetails),
		Items:           items,
		Etag:            doc.Data.Etag,
		CreatedAt:       doc.Data.CreatedAt,
		UpdatedAt:       doc.Data.UpdatedAt,
	}, nil
}

var _ repositories.BasketRepository = (*BasketRepository)(nil)
