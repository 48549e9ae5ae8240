package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	domain "github.com/docfield/api/internal/domain"
	"github.com/docfield/api/internal/services"
)

func newCheckoutRouter(checkouts services.CheckoutService, orders services.OrderService) chi.Router {
	r := chi.NewRouter()
	r.Route("/api/v1/checkouts", NewCheckoutHandlers(checkouts, orders).Routes)
	return r
}

func ownedCheckout(status domain.PaymentStatus) domain.Checkout {
	return domain.Checkout{
		ID:            "chk_1",
		CheckedOutBy:  domain.ActionedBy{ID: "user-1", Email: "jane@example.com"},
		PaymentStatus: status,
		Reference:     "ORD-000001-000002",
	}
}

func TestGetCheckout(t *testing.T) {
	checkouts := &stubCheckoutService{
		getFn: func(_ context.Context, checkoutID string) (services.Checkout, error) {
			if checkoutID != "chk_1" {
				t.Fatalf("unexpected checkout id %q", checkoutID)
			}
			return ownedCheckout(domain.PaymentStatusPending), nil
		},
	}
	router := newCheckoutRouter(checkouts, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authenticatedRequest(http.MethodGet, "/api/v1/checkouts/chk_1", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGetCheckoutHidesOtherUsers(t *testing.T) {
	checkouts := &stubCheckoutService{
		getFn: func(context.Context, string) (services.Checkout, error) {
			checkout := ownedCheckout(domain.PaymentStatusPending)
			checkout.CheckedOutBy.ID = "someone-else"
			return checkout, nil
		},
	}
	router := newCheckoutRouter(checkouts, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authenticatedRequest(http.MethodGet, "/api/v1/checkouts/chk_1", ""))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestPatchPaymentPaidTriggersOrder(t *testing.T) {
	checkouts := &stubCheckoutService{
		recordFn: func(_ context.Context, cmd services.RecordPaymentOutcomeCommand) (services.Checkout, error) {
			if cmd.Status != domain.PaymentStatusPaid {
				t.Fatalf("unexpected status %s", cmd.Status)
			}
			return ownedCheckout(domain.PaymentStatusPaid), nil
		},
	}
	created := false
	orders := &stubOrderService{
		createFn: func(_ context.Context, cmd services.CreateOrderFromCheckoutCommand) (services.Order, error) {
			created = true
			return domain.Order{ID: cmd.CheckoutID}, nil
		},
	}
	router := newCheckoutRouter(checkouts, orders)

	body := `{"status": "paid", "payment_reference": "pay-ref-1"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authenticatedRequest(http.MethodPatch, "/api/v1/checkouts/chk_1/payment", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !created {
		t.Fatal("paid outcome should trigger order materialization")
	}
}

func TestPatchPaymentFailedDoesNotTriggerOrder(t *testing.T) {
	checkouts := &stubCheckoutService{
		recordFn: func(context.Context, services.RecordPaymentOutcomeCommand) (services.Checkout, error) {
			return ownedCheckout(domain.PaymentStatusFailed), nil
		},
	}
	orders := &stubOrderService{
		createFn: func(context.Context, services.CreateOrderFromCheckoutCommand) (services.Order, error) {
			t.Fatal("failed outcome must not materialize an order")
			return domain.Order{}, nil
		},
	}
	router := newCheckoutRouter(checkouts, orders)

	body := `{"status": "failed"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authenticatedRequest(http.MethodPatch, "/api/v1/checkouts/chk_1/payment", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestPatchPaymentIllegalTransition(t *testing.T) {
	checkouts := &stubCheckoutService{
		recordFn: func(context.Context, services.RecordPaymentOutcomeCommand) (services.Checkout, error) {
			return domain.Checkout{}, services.ErrCheckoutInvalidState
		},
	}
	router := newCheckoutRouter(checkouts, nil)

	body := `{"status": "pending"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authenticatedRequest(http.MethodPatch, "/api/v1/checkouts/chk_1/payment", body))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestPatchPaymentOrderConflict(t *testing.T) {
	checkouts := &stubCheckoutService{
		recordFn: func(context.Context, services.RecordPaymentOutcomeCommand) (services.Checkout, error) {
			return ownedCheckout(domain.PaymentStatusPaid), nil
		},
	}
	orders := &stubOrderService{
		createFn: func(context.Context, services.CreateOrderFromCheckoutCommand) (services.Order, error) {
			return domain.Order{}, services.ErrOrderConflict
		},
	}
	router := newCheckoutRouter(checkouts, orders)

	body := `{"status": "paid"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authenticatedRequest(http.MethodPatch, "/api/v1/checkouts/chk_1/payment", body))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestPatchPaymentStoreFailure(t *testing.T) {
	checkouts := &stubCheckoutService{
		recordFn: func(context.Context, services.RecordPaymentOutcomeCommand) (services.Checkout, error) {
			return ownedCheckout(domain.PaymentStatusPaid), nil
		},
	}
	orders := &stubOrderService{
		createFn: func(context.Context, services.CreateOrderFromCheckoutCommand) (services.Order, error) {
			return domain.Order{}, services.ErrOrderStoreFailed
		},
	}
	router := newCheckoutRouter(checkouts, orders)

	body := `{"status": "paid"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authenticatedRequest(http.MethodPatch, "/api/v1/checkouts/chk_1/payment", body))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
