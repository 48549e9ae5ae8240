package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/docfield/api/internal/domain"
	"github.com/docfield/api/internal/repositories"
)

var (
	// ErrOrderInvalidInput signals the caller provided invalid data.
	ErrOrderInvalidInput = errors.New("order: invalid input")
	// ErrOrderNotFound indicates the order or its checkout could not be located.
	ErrOrderNotFound = errors.New("order: not found")
	// ErrOrderNotPaid indicates the checkout has not completed payment.
	ErrOrderNotPaid = errors.New("order: checkout not paid")
	// ErrOrderConflict indicates an order already exists for the checkout.
	ErrOrderConflict = errors.New("order: conflict")
	// ErrOrderStoreFailed indicates the order document could not be written.
	ErrOrderStoreFailed = errors.New("order: store failed")
)

// OrderServiceDeps bundles collaborators required to construct the order service.
type OrderServiceDeps struct {
	Orders    repositories.OrderRepository
	Checkouts repositories.CheckoutRepository
	Publisher OrderReceivedPublisher
	Links     LinkBuilder
	Clock     func() time.Time
	Logger    func(ctx context.Context, event string, fields map[string]any)
}

type orderService struct {
	orders    repositories.OrderRepository
	checkouts repositories.CheckoutRepository
	publisher OrderReceivedPublisher
	links     LinkBuilder
	clock     func() time.Time
	logger    func(context.Context, string, map[string]any)
}

// NewOrderService wires dependencies into a concrete OrderService implementation.
func NewOrderService(deps OrderServiceDeps) (OrderService, error) {
	if deps.Orders == nil {
		return nil, errors.New("order service: order repository is required")
	}
	if deps.Checkouts == nil {
		return nil, errors.New("order service: checkout repository is required")
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &orderService{
		orders:    deps.Orders,
		checkouts: deps.Checkouts,
		publisher: deps.Publisher,
		links:     deps.Links,
		clock: func() time.Time {
			return clock().UTC()
		},
		logger: logger,
	}, nil
}

// CreateFromCheckout materializes a paid checkout into an order sharing the
// checkout's id. An order that already exists under that id is a conflict and
// stays untouched; a failed announcement never blocks persistence.
func (s *orderService) CreateFromCheckout(ctx context.Context, cmd CreateOrderFromCheckoutCommand) (Order, error) {
	id := strings.TrimSpace(cmd.CheckoutID)
	if id == "" {
		return Order{}, fmt.Errorf("%w: checkout id is required", ErrOrderInvalidInput)
	}

	checkout, err := s.checkouts.FindByID(ctx, id)
	if err != nil {
		return Order{}, s.mapRepositoryError(err)
	}
	if checkout.PaymentStatus != domain.PaymentStatusPaid {
		return Order{}, fmt.Errorf("%w: payment status is %s", ErrOrderNotPaid, checkout.PaymentStatus)
	}

	if _, err := s.orders.FindByID(ctx, checkout.ID); err == nil {
		return Order{}, fmt.Errorf("%w: order %s already exists", ErrOrderConflict, checkout.ID)
	} else if mapped := s.mapRepositoryError(err); !errors.Is(mapped, ErrOrderNotFound) {
		return Order{}, mapped
	}

	now := s.clock()
	orderedAt := now
	if checkout.PaidAt != nil && !checkout.PaidAt.IsZero() {
		orderedAt = checkout.PaidAt.UTC()
	}

	order := Order{
		ID:        checkout.ID,
		OrderedAt: orderedAt,
		OrderedBy: domain.ActionedBy{
			ID:    checkout.CheckedOutBy.ID,
			Email: checkout.CheckedOutBy.Email,
		},
		DeliveryDetails:  checkout.DeliveryDetails,
		Items:            cloneItems(checkout.Items),
		Links:            s.links.OrderLinks(checkout.ID),
		PaymentReference: checkout.PaymentReference,
		Reference:        checkout.Reference,
		TotalOrderCost:   checkout.TotalOrderCost,
		Etag:             newEtag(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	s.publishOrderReceived(ctx, order)

	if err := s.orders.Insert(ctx, order); err != nil {
		var repoErr repositories.RepositoryError
		if errors.As(err, &repoErr) && repoErr.IsConflict() {
			return Order{}, fmt.Errorf("%w: order %s already exists", ErrOrderConflict, order.ID)
		}
		return Order{}, fmt.Errorf("%w: %v", ErrOrderStoreFailed, err)
	}

	s.logger(ctx, "order.created", map[string]any{
		"order":     order.ID,
		"reference": order.Reference,
		"total":     order.TotalOrderCost,
	})
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID string) (Order, error) {
	id := strings.TrimSpace(orderID)
	if id == "" {
		return Order{}, fmt.Errorf("%w: order id is required", ErrOrderInvalidInput)
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return Order{}, s.mapRepositoryError(err)
	}
	return order, nil
}

func (s *orderService) publishOrderReceived(ctx context.Context, order Order) {
	if s.publisher == nil {
		return
	}

	message := OrderReceivedMessage{
		OrderID:   order.ID,
		OrderURI:  s.links.OrderURI(order.ID),
		Reference: order.Reference,
		OrderedAt: order.OrderedAt,
	}
	if _, err := s.publisher.PublishOrderReceived(ctx, message); err != nil {
		s.logger(ctx, "order.publish.failed", map[string]any{
			"order": order.ID,
			"error": err.Error(),
		})
	}
}

func (s *orderService) mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) {
		switch {
		case repoErr.IsNotFound():
			return fmt.Errorf("%w: %v", ErrOrderNotFound, err)
		case repoErr.IsConflict():
			return fmt.Errorf("%w: %v", ErrOrderConflict, err)
		case repoErr.IsUnavailable():
			return fmt.Errorf("order: repository unavailable: %w", err)
		}
	}

	return err
}
