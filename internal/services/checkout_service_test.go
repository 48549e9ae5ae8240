package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	domain "github.com/docfield/api/internal/domain"
)

func newTestCheckoutService(t *testing.T, baskets *memBasketRepo, checkouts *memCheckoutRepo) CheckoutService {
	t.Helper()
	svc, err := NewCheckoutService(CheckoutServiceDeps{
		Baskets:     baskets,
		Checkouts:   checkouts,
		Links:       NewLinkBuilder("/api/v1"),
		Clock:       func() time.Time { return time.Date(2026, 2, 3, 11, 0, 0, 0, time.UTC) },
		IDGenerator: func() string { return "chk_TEST0000000000000000000001" },
	})
	if err != nil {
		t.Fatalf("NewCheckoutService: %v", err)
	}
	return svc
}

func basketWithItem(userID string) domain.Basket {
	details := domain.DeliveryDetails{
		Forename:     "Jane",
		Surname:      "Doe",
		AddressLine1: "1 Main Street",
		Locality:     "Cardiff",
	}
	return domain.Basket{
		ID:              userID,
		DeliveryDetails: &details,
		Items:           []domain.Item{certificateItem("item-1")},
		Etag:            "etag-0",
		CreatedAt:       time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt:       time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestCheckoutBasketSnapshotsBasket(t *testing.T) {
	baskets := newMemBasketRepo()
	checkouts := newMemCheckoutRepo()
	baskets.baskets["user-1"] = basketWithItem("user-1")
	svc := newTestCheckoutService(t, baskets, checkouts)

	checkout, err := svc.CheckoutBasket(context.Background(), CheckoutBasketCommand{
		UserID:    "user-1",
		UserEmail: "jane@example.com",
	})
	if err != nil {
		t.Fatalf("CheckoutBasket: %v", err)
	}

	if !strings.HasPrefix(checkout.ID, "chk_") {
		t.Fatalf("unexpected checkout id %q", checkout.ID)
	}
	if checkout.PaymentStatus != domain.PaymentStatusPending {
		t.Fatalf("new checkout should be pending, got %s", checkout.PaymentStatus)
	}
	if checkout.TotalOrderCost != "1500" {
		t.Fatalf("unexpected total %q", checkout.TotalOrderCost)
	}
	if checkout.CheckedOutBy.ID != "user-1" || checkout.CheckedOutBy.Email != "jane@example.com" {
		t.Fatalf("unexpected checked-out-by %#v", checkout.CheckedOutBy)
	}
	if len(checkout.Items) != 1 || checkout.Items[0].ID != "item-1" {
		t.Fatalf("items not snapshotted: %#v", checkout.Items)
	}
	if checkout.Links.Self == "" || checkout.Links.Payment == "" {
		t.Fatalf("links not built: %#v", checkout.Links)
	}
	if checkout.Reference == "" {
		t.Fatal("expected a reference")
	}
	if _, ok := checkouts.checkouts[checkout.ID]; !ok {
		t.Fatal("checkout was not persisted")
	}
}

func TestCheckoutBasketClearsItemsKeepsDelivery(t *testing.T) {
	baskets := newMemBasketRepo()
	checkouts := newMemCheckoutRepo()
	baskets.baskets["user-1"] = basketWithItem("user-1")
	svc := newTestCheckoutService(t, baskets, checkouts)

	if _, err := svc.CheckoutBasket(context.Background(), CheckoutBasketCommand{UserID: "user-1"}); err != nil {
		t.Fatalf("CheckoutBasket: %v", err)
	}

	basket := baskets.baskets["user-1"]
	if len(basket.Items) != 0 {
		t.Fatalf("basket should be cleared, got %d items", len(basket.Items))
	}
	if basket.DeliveryDetails == nil || basket.DeliveryDetails.AddressLine1 != "1 Main Street" {
		t.Fatalf("delivery details should survive the clear: %#v", basket.DeliveryDetails)
	}
	if basket.Etag == "etag-0" {
		t.Fatal("etag should be restamped on clear")
	}
}

func TestCheckoutBasketEmptyBasket(t *testing.T) {
	baskets := newMemBasketRepo()
	baskets.baskets["user-1"] = domain.Basket{ID: "user-1"}
	svc := newTestCheckoutService(t, baskets, newMemCheckoutRepo())

	_, err := svc.CheckoutBasket(context.Background(), CheckoutBasketCommand{UserID: "user-1"})
	if !errors.Is(err, ErrCheckoutBasketEmpty) {
		t.Fatalf("expected ErrCheckoutBasketEmpty, got %v", err)
	}
}

func TestCheckoutBasketMissingBasket(t *testing.T) {
	svc := newTestCheckoutService(t, newMemBasketRepo(), newMemCheckoutRepo())

	_, err := svc.CheckoutBasket(context.Background(), CheckoutBasketCommand{UserID: "user-1"})
	if !errors.Is(err, ErrCheckoutNotFound) {
		t.Fatalf("expected ErrCheckoutNotFound, got %v", err)
	}
}

func TestCheckoutBasketInvalidCostPropagates(t *testing.T) {
	baskets := newMemBasketRepo()
	basket := basketWithItem("user-1")
	basket.Items[0].ItemCosts = []domain.ItemCost{{CalculatedCost: "garbage"}}
	baskets.baskets["user-1"] = basket
	svc := newTestCheckoutService(t, baskets, newMemCheckoutRepo())

	_, err := svc.CheckoutBasket(context.Background(), CheckoutBasketCommand{UserID: "user-1"})
	if !errors.Is(err, ErrInvalidCostAmount) {
		t.Fatalf("expected ErrInvalidCostAmount, got %v", err)
	}
}

func TestRecordPaymentOutcomePaid(t *testing.T) {
	baskets := newMemBasketRepo()
	checkouts := newMemCheckoutRepo()
	baskets.baskets["user-1"] = basketWithItem("user-1")
	svc := newTestCheckoutService(t, baskets, checkouts)
	ctx := context.Background()

	created, err := svc.CheckoutBasket(ctx, CheckoutBasketCommand{UserID: "user-1"})
	if err != nil {
		t.Fatalf("CheckoutBasket: %v", err)
	}

	updated, err := svc.RecordPaymentOutcome(ctx, RecordPaymentOutcomeCommand{
		CheckoutID:       created.ID,
		Status:           domain.PaymentStatusPaid,
		PaymentReference: "pay-ref-1",
	})
	if err != nil {
		t.Fatalf("RecordPaymentOutcome: %v", err)
	}

	if updated.PaymentStatus != domain.PaymentStatusPaid {
		t.Fatalf("expected paid, got %s", updated.PaymentStatus)
	}
	if updated.PaidAt == nil || updated.PaidAt.IsZero() {
		t.Fatal("paid-at should be stamped")
	}
	if updated.PaymentReference != "pay-ref-1" {
		t.Fatalf("unexpected payment reference %q", updated.PaymentReference)
	}
	if updated.TotalOrderCost != created.TotalOrderCost || len(updated.Items) != len(created.Items) {
		t.Fatal("only payment fields should change")
	}
	if updated.Etag == created.Etag {
		t.Fatal("etag should be restamped")
	}
}

func TestRecordPaymentOutcomeIllegalTransition(t *testing.T) {
	baskets := newMemBasketRepo()
	checkouts := newMemCheckoutRepo()
	baskets.baskets["user-1"] = basketWithItem("user-1")
	svc := newTestCheckoutService(t, baskets, checkouts)
	ctx := context.Background()

	created, err := svc.CheckoutBasket(ctx, CheckoutBasketCommand{UserID: "user-1"})
	if err != nil {
		t.Fatalf("CheckoutBasket: %v", err)
	}
	if _, err := svc.RecordPaymentOutcome(ctx, RecordPaymentOutcomeCommand{
		CheckoutID: created.ID,
		Status:     domain.PaymentStatusPaid,
	}); err != nil {
		t.Fatalf("RecordPaymentOutcome: %v", err)
	}

	_, err = svc.RecordPaymentOutcome(ctx, RecordPaymentOutcomeCommand{
		CheckoutID: created.ID,
		Status:     domain.PaymentStatusPending,
	})
	if !errors.Is(err, ErrCheckoutInvalidState) {
		t.Fatalf("expected ErrCheckoutInvalidState, got %v", err)
	}
}

func TestRecordPaymentOutcomeUnknownStatus(t *testing.T) {
	svc := newTestCheckoutService(t, newMemBasketRepo(), newMemCheckoutRepo())

	_, err := svc.RecordPaymentOutcome(context.Background(), RecordPaymentOutcomeCommand{
		CheckoutID: "chk_x",
		Status:     domain.PaymentStatus("settled"),
	})
	if !errors.Is(err, ErrCheckoutInvalidInput) {
		t.Fatalf("expected ErrCheckoutInvalidInput, got %v", err)
	}
}
