package services

import (
	"context"
	"time"

	domain "github.com/docfield/api/internal/domain"
)

// Service layer aliases for domain aggregates.
type (
	Basket          = domain.Basket
	Checkout        = domain.Checkout
	Order           = domain.Order
	Item            = domain.Item
	DeliveryDetails = domain.DeliveryDetails
)

// AddItemCommand replaces the basket's contents with a single item.
type AddItemCommand struct {
	UserID string
	Item   domain.Item
}

// UpdateDeliveryDetailsCommand sets the basket's delivery destination.
type UpdateDeliveryDetailsCommand struct {
	UserID          string
	DeliveryDetails domain.DeliveryDetails
}

// BasketService manages the mutable pre-checkout basket.
type BasketService interface {
	GetOrCreateBasket(ctx context.Context, userID string) (Basket, error)
	AddItem(ctx context.Context, cmd AddItemCommand) (Basket, error)
	UpdateDeliveryDetails(ctx context.Context, cmd UpdateDeliveryDetailsCommand) (Basket, error)
}

// CheckoutBasketCommand freezes the caller's basket into a checkout.
type CheckoutBasketCommand struct {
	UserID    string
	UserEmail string
}

// RecordPaymentOutcomeCommand records an externally observed payment outcome.
type RecordPaymentOutcomeCommand struct {
	CheckoutID       string
	Status           domain.PaymentStatus
	PaymentReference string
	PaidAt           *time.Time
}

// CheckoutService creates checkouts from baskets and records payment outcomes.
type CheckoutService interface {
	CheckoutBasket(ctx context.Context, cmd CheckoutBasketCommand) (Checkout, error)
	GetCheckout(ctx context.Context, checkoutID string) (Checkout, error)
	RecordPaymentOutcome(ctx context.Context, cmd RecordPaymentOutcomeCommand) (Checkout, error)
}

// CreateOrderFromCheckoutCommand materializes a paid checkout into an order.
type CreateOrderFromCheckoutCommand struct {
	CheckoutID string
}

// OrderService finalizes paid checkouts into immutable orders.
type OrderService interface {
	CreateFromCheckout(ctx context.Context, cmd CreateOrderFromCheckoutCommand) (Order, error)
	GetOrder(ctx context.Context, orderID string) (Order, error)
}

// OrderReceivedMessage is the payload announced when an order is finalized.
// Downstream consumers fetch the full order through the URI.
type OrderReceivedMessage struct {
	OrderID   string    `json:"order_id"`
	OrderURI  string    `json:"order_uri"`
	Reference string    `json:"reference,omitempty"`
	OrderedAt time.Time `json:"ordered_at"`
}

// OrderReceivedPublisher announces finalized orders to downstream consumers.
type OrderReceivedPublisher interface {
	PublishOrderReceived(ctx context.Context, message OrderReceivedMessage) (string, error)
}
