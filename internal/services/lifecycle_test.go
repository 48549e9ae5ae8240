package services

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/docfield/api/internal/domain"
)

// Walks the full lifecycle: basket with a 50-unit item and zero postage,
// checkout, payment, order. A second materialization must conflict and leave
// the first order intact.
func TestBasketToOrderLifecycle(t *testing.T) {
	baskets := newMemBasketRepo()
	checkouts := newMemCheckoutRepo()
	orders := newMemOrderRepo()
	publisher := &capturePublisher{}
	links := NewLinkBuilder("/api/v1")
	clock := func() time.Time { return time.Date(2026, 2, 3, 9, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	basketSvc, err := NewBasketService(BasketServiceDeps{Baskets: baskets, Links: links, Clock: clock})
	if err != nil {
		t.Fatalf("NewBasketService: %v", err)
	}
	checkoutSvc, err := NewCheckoutService(CheckoutServiceDeps{Baskets: baskets, Checkouts: checkouts, Links: links, Clock: clock})
	if err != nil {
		t.Fatalf("NewCheckoutService: %v", err)
	}
	orderSvc, err := NewOrderService(OrderServiceDeps{Orders: orders, Checkouts: checkouts, Publisher: publisher, Links: links, Clock: clock})
	if err != nil {
		t.Fatalf("NewOrderService: %v", err)
	}

	item := domain.Item{
		ID:          "item-1",
		Kind:        domain.KindMissingImageDelivery,
		ItemCosts:   []domain.ItemCost{{CalculatedCost: "50"}},
		PostageCost: "0",
		Options:     &domain.MissingImageDeliveryItemOptions{FilingHistoryID: "doc-1"},
	}
	if _, err := basketSvc.AddItem(ctx, AddItemCommand{UserID: "user-1", Item: item}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	checkout, err := checkoutSvc.CheckoutBasket(ctx, CheckoutBasketCommand{UserID: "user-1", UserEmail: "jane@example.com"})
	if err != nil {
		t.Fatalf("CheckoutBasket: %v", err)
	}
	if checkout.TotalOrderCost != "50" {
		t.Fatalf("expected total 50, got %q", checkout.TotalOrderCost)
	}

	if _, err := checkoutSvc.RecordPaymentOutcome(ctx, RecordPaymentOutcomeCommand{
		CheckoutID:       checkout.ID,
		Status:           domain.PaymentStatusPaid,
		PaymentReference: "pay-ref-1",
	}); err != nil {
		t.Fatalf("RecordPaymentOutcome: %v", err)
	}

	order, err := orderSvc.CreateFromCheckout(ctx, CreateOrderFromCheckoutCommand{CheckoutID: checkout.ID})
	if err != nil {
		t.Fatalf("CreateFromCheckout: %v", err)
	}
	if order.ID != checkout.ID {
		t.Fatalf("order id %q should equal checkout id %q", order.ID, checkout.ID)
	}
	if order.TotalOrderCost != "50" {
		t.Fatalf("expected total 50, got %q", order.TotalOrderCost)
	}

	_, err = orderSvc.CreateFromCheckout(ctx, CreateOrderFromCheckoutCommand{CheckoutID: checkout.ID})
	if !errors.Is(err, ErrOrderConflict) {
		t.Fatalf("expected ErrOrderConflict, got %v", err)
	}

	stored, err := orderSvc.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if stored.TotalOrderCost != "50" {
		t.Fatalf("first order must stay intact, got total %q", stored.TotalOrderCost)
	}
	if len(publisher.messages) != 1 {
		t.Fatalf("expected a single published message, got %d", len(publisher.messages))
	}
}
