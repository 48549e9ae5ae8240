package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	domain "github.com/docfield/api/internal/domain"
	"github.com/docfield/api/internal/repositories"
)

const checkoutIDPrefix = "chk_"

var (
	// ErrCheckoutInvalidInput signals the caller provided invalid data.
	ErrCheckoutInvalidInput = errors.New("checkout: invalid input")
	// ErrCheckoutNotFound indicates the checkout could not be located.
	ErrCheckoutNotFound = errors.New("checkout: not found")
	// ErrCheckoutBasketEmpty indicates a checkout was attempted on an empty basket.
	ErrCheckoutBasketEmpty = errors.New("checkout: basket is empty")
	// ErrCheckoutInvalidState indicates an illegal payment status transition.
	ErrCheckoutInvalidState = errors.New("checkout: invalid payment transition")
	// ErrCheckoutConflict indicates a conflicting write.
	ErrCheckoutConflict = errors.New("checkout: conflict")
)

// CheckoutServiceDeps bundles collaborators required to construct the checkout service.
type CheckoutServiceDeps struct {
	Baskets     repositories.BasketRepository
	Checkouts   repositories.CheckoutRepository
	Links       LinkBuilder
	Clock       func() time.Time
	IDGenerator func() string
	Logger      func(ctx context.Context, event string, fields map[string]any)
}

type checkoutService struct {
	baskets   repositories.BasketRepository
	checkouts repositories.CheckoutRepository
	links     LinkBuilder
	clock     func() time.Time
	newID     func() string
	logger    func(context.Context, string, map[string]any)
}

// NewCheckoutService wires dependencies into a concrete CheckoutService implementation.
func NewCheckoutService(deps CheckoutServiceDeps) (CheckoutService, error) {
	if deps.Baskets == nil {
		return nil, errors.New("checkout service: basket repository is required")
	}
	if deps.Checkouts == nil {
		return nil, errors.New("checkout service: checkout repository is required")
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = func() string {
			return checkoutIDPrefix + ulid.Make().String()
		}
	}

	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &checkoutService{
		baskets:   deps.Baskets,
		checkouts: deps.Checkouts,
		links:     deps.Links,
		clock: func() time.Time {
			return clock().UTC()
		},
		newID:  idGen,
		logger: logger,
	}, nil
}

// CheckoutBasket freezes the caller's basket into a new checkout pending
// payment, then clears the basket. Delivery details survive the clear.
func (s *checkoutService) CheckoutBasket(ctx context.Context, cmd CheckoutBasketCommand) (Checkout, error) {
	uid := strings.TrimSpace(cmd.UserID)
	if uid == "" {
		return Checkout{}, fmt.Errorf("%w: user id is required", ErrCheckoutInvalidInput)
	}

	basket, err := s.baskets.FindByUser(ctx, uid)
	if err != nil {
		return Checkout{}, s.mapRepositoryError(err)
	}
	if len(basket.Items) == 0 {
		return Checkout{}, ErrCheckoutBasketEmpty
	}

	totalCost, err := CalculateTotalOrderCost(basket.Items)
	if err != nil {
		return Checkout{}, err
	}

	now := s.clock()
	checkout := Checkout{
		ID: s.newID(),
		CheckedOutBy: domain.ActionedBy{
			ID:    uid,
			Email: strings.TrimSpace(cmd.UserEmail),
		},
		DeliveryDetails: basket.DeliveryDetails,
		Items:           cloneItems(basket.Items),
		PaymentStatus:   domain.PaymentStatusPending,
		Reference:       newReference(),
		TotalOrderCost:  totalCost,
		Etag:            newEtag(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	checkout.Links = s.links.CheckoutLinks(checkout.ID)

	if err := s.checkouts.Insert(ctx, checkout); err != nil {
		return Checkout{}, s.mapRepositoryError(err)
	}

	s.logger(ctx, "checkout.created", map[string]any{
		"checkout": checkout.ID,
		"user":     uid,
		"total":    checkout.TotalOrderCost,
	})

	cleared := basket
	cleared.Items = nil
	cleared.Etag = newEtag()
	cleared.UpdatedAt = now
	if _, err := s.baskets.Upsert(ctx, cleared); err != nil {
		s.logger(ctx, "checkout.basket.clear.failed", map[string]any{
			"checkout": checkout.ID,
			"basket":   basket.ID,
			"error":    err.Error(),
		})
	}

	return checkout, nil
}

func (s *checkoutService) GetCheckout(ctx context.Context, checkoutID string) (Checkout, error) {
	id := strings.TrimSpace(checkoutID)
	if id == "" {
		return Checkout{}, fmt.Errorf("%w: checkout id is required", ErrCheckoutInvalidInput)
	}

	checkout, err := s.checkouts.FindByID(ctx, id)
	if err != nil {
		return Checkout{}, s.mapRepositoryError(err)
	}
	return checkout, nil
}

// RecordPaymentOutcome applies an externally observed payment outcome to the
// checkout. Only the payment fields mutate; everything else in the snapshot
// stays frozen.
func (s *checkoutService) RecordPaymentOutcome(ctx context.Context, cmd RecordPaymentOutcomeCommand) (Checkout, error) {
	id := strings.TrimSpace(cmd.CheckoutID)
	if id == "" {
		return Checkout{}, fmt.Errorf("%w: checkout id is required", ErrCheckoutInvalidInput)
	}
	if !isKnownPaymentStatus(cmd.Status) {
		return Checkout{}, fmt.Errorf("%w: unknown payment status %q", ErrCheckoutInvalidInput, cmd.Status)
	}

	checkout, err := s.checkouts.FindByID(ctx, id)
	if err != nil {
		return Checkout{}, s.mapRepositoryError(err)
	}

	if !checkout.PaymentStatus.CanTransitionTo(cmd.Status) {
		return Checkout{}, fmt.Errorf("%w: %s -> %s", ErrCheckoutInvalidState, checkout.PaymentStatus, cmd.Status)
	}

	now := s.clock()
	checkout.PaymentStatus = cmd.Status
	if ref := strings.TrimSpace(cmd.PaymentReference); ref != "" {
		checkout.PaymentReference = ref
	}
	if cmd.Status == domain.PaymentStatusPaid {
		paidAt := now
		if cmd.PaidAt != nil && !cmd.PaidAt.IsZero() {
			paidAt = cmd.PaidAt.UTC()
		}
		checkout.PaidAt = &paidAt
	}
	checkout.Etag = newEtag()
	checkout.UpdatedAt = now

	if err := s.checkouts.Update(ctx, checkout); err != nil {
		return Checkout{}, s.mapRepositoryError(err)
	}

	s.logger(ctx, "checkout.payment.recorded", map[string]any{
		"checkout": checkout.ID,
		"status":   string(checkout.PaymentStatus),
	})
	return checkout, nil
}

func (s *checkoutService) mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) {
		switch {
		case repoErr.IsNotFound():
			return fmt.Errorf("%w: %v", ErrCheckoutNotFound, err)
		case repoErr.IsConflict():
			return fmt.Errorf("%w: %v", ErrCheckoutConflict, err)
		case repoErr.IsUnavailable():
			return fmt.Errorf("checkout: repository unavailable: %w", err)
		}
	}

	return err
}

func isKnownPaymentStatus(status domain.PaymentStatus) bool {
	switch status {
	case domain.PaymentStatusPending,
		domain.PaymentStatusInProgress,
		domain.PaymentStatusPaid,
		domain.PaymentStatusFailed,
		domain.PaymentStatusExpired,
		domain.PaymentStatusNoFunds:
		return true
	}
	return false
}

func cloneItems(items []domain.Item) []domain.Item {
	if len(items) == 0 {
		return nil
	}
	out := make([]domain.Item, len(items))
	copy(out, items)
	return out
}
