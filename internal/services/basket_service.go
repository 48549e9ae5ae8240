package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	domain "github.com/docfield/api/internal/domain"
	"github.com/docfield/api/internal/repositories"
)

var (
	// ErrBasketInvalidInput signals the caller provided invalid data.
	ErrBasketInvalidInput = errors.New("basket: invalid input")
	// ErrBasketNotFound indicates the basket could not be located.
	ErrBasketNotFound = errors.New("basket: not found")
)

// BasketServiceDeps bundles collaborators required to construct the basket service.
type BasketServiceDeps struct {
	Baskets repositories.BasketRepository
	Links   LinkBuilder
	Clock   func() time.Time
	Logger  func(ctx context.Context, event string, fields map[string]any)
}

type basketService struct {
	baskets repositories.BasketRepository
	links   LinkBuilder
	clock   func() time.Time
	logger  func(context.Context, string, map[string]any)
}

// NewBasketService wires dependencies into a concrete BasketService implementation.
func NewBasketService(deps BasketServiceDeps) (BasketService, error) {
	if deps.Baskets == nil {
		return nil, errors.New("basket service: basket repository is required")
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &basketService{
		baskets: deps.Baskets,
		links:   deps.Links,
		clock: func() time.Time {
			return clock().UTC()
		},
		logger: logger,
	}, nil
}

func (s *basketService) GetOrCreateBasket(ctx context.Context, userID string) (Basket, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return Basket{}, fmt.Errorf("%w: user id is required", ErrBasketInvalidInput)
	}

	basket, err := s.baskets.FindByUser(ctx, uid)
	if err == nil {
		return basket, nil
	}
	mapped := s.mapRepositoryError(err)
	if !errors.Is(mapped, ErrBasketNotFound) {
		return Basket{}, mapped
	}

	now := s.clock()
	fresh := Basket{
		ID:        uid,
		Etag:      newEtag(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	saved, err := s.baskets.Upsert(ctx, fresh)
	if err != nil {
		return Basket{}, s.mapRepositoryError(err)
	}

	s.logger(ctx, "basket.created", map[string]any{"basket": saved.ID})
	return saved, nil
}

// AddItem replaces the basket's contents with the supplied item. Later adds
// win outright; there is no merge.
func (s *basketService) AddItem(ctx context.Context, cmd AddItemCommand) (Basket, error) {
	uid := strings.TrimSpace(cmd.UserID)
	if uid == "" {
		return Basket{}, fmt.Errorf("%w: user id is required", ErrBasketInvalidInput)
	}

	item := cmd.Item
	if strings.TrimSpace(item.ID) == "" {
		return Basket{}, fmt.Errorf("%w: item id is required", ErrBasketInvalidInput)
	}
	if _, err := domain.ResolveItemOptions(item.Kind); err != nil {
		return Basket{}, fmt.Errorf("%w: %v", ErrBasketInvalidInput, err)
	}
	if item.Options != nil && item.Options.ItemKind() != item.Kind {
		return Basket{}, fmt.Errorf("%w: item options do not match kind %q", ErrBasketInvalidInput, item.Kind)
	}
	if item.Quantity <= 0 {
		item.Quantity = 1
	}

	itemTotal, err := CalculateTotalItemCost(item)
	if err != nil {
		return Basket{}, fmt.Errorf("%w: %v", ErrBasketInvalidInput, err)
	}
	item.TotalItemCost = strconv.Itoa(itemTotal)
	item.Links = s.links.ItemLink(item.ID)
	if item.Etag == "" {
		item.Etag = newEtag()
	}

	basket, err := s.GetOrCreateBasket(ctx, uid)
	if err != nil {
		return Basket{}, err
	}

	basket.Items = []domain.Item{item}
	basket.Etag = newEtag()
	basket.UpdatedAt = s.clock()

	saved, err := s.baskets.Upsert(ctx, basket)
	if err != nil {
		return Basket{}, s.mapRepositoryError(err)
	}

	s.logger(ctx, "basket.item.added", map[string]any{
		"basket": saved.ID,
		"item":   item.ID,
		"kind":   item.Kind,
	})
	return saved, nil
}

func (s *basketService) UpdateDeliveryDetails(ctx context.Context, cmd UpdateDeliveryDetailsCommand) (Basket, error) {
	uid := strings.TrimSpace(cmd.UserID)
	if uid == "" {
		return Basket{}, fmt.Errorf("%w: user id is required", ErrBasketInvalidInput)
	}
	if strings.TrimSpace(cmd.DeliveryDetails.AddressLine1) == "" {
		return Basket{}, fmt.Errorf("%w: address line 1 is required", ErrBasketInvalidInput)
	}

	basket, err := s.GetOrCreateBasket(ctx, uid)
	if err != nil {
		return Basket{}, err
	}

	details := cmd.DeliveryDetails
	basket.DeliveryDetails = &details
	basket.Etag = newEtag()
	basket.UpdatedAt = s.clock()

	saved, err := s.baskets.Upsert(ctx, basket)
	if err != nil {
		return Basket{}, s.mapRepositoryError(err)
	}

	s.logger(ctx, "basket.delivery.updated", map[string]any{"basket": saved.ID})
	return saved, nil
}

func (s *basketService) mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) {
		switch {
		case repoErr.IsNotFound():
			return fmt.Errorf("%w: %v", ErrBasketNotFound, err)
		case repoErr.IsUnavailable():
			return fmt.Errorf("basket: repository unavailable: %w", err)
		}
	}

	return err
}
