package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	domain "github.com/docfield/api/internal/domain"
	"github.com/docfield/api/internal/platform/httpx"
	"github.com/docfield/api/internal/platform/requestctx"
	"github.com/docfield/api/internal/services"
)

const maxPaymentBodySize = 16 * 1024

// CheckoutHandlers exposes checkout retrieval and payment outcome recording.
// A paid outcome triggers order materialization.
type CheckoutHandlers struct {
	checkouts services.CheckoutService
	orders    services.OrderService
}

// NewCheckoutHandlers constructs handlers over the checkout and order services.
func NewCheckoutHandlers(checkouts services.CheckoutService, orders services.OrderService) *CheckoutHandlers {
	return &CheckoutHandlers{
		checkouts: checkouts,
		orders:    orders,
	}
}

// Routes wires the /checkouts endpoints onto the provided router.
func (h *CheckoutHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/{checkoutId}", h.getCheckout)
	r.Patch("/{checkoutId}/payment", h.patchPayment)
}

func (h *CheckoutHandlers) getCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requestctx.IdentityFrom(ctx)
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("unauthorized", "authentication required", http.StatusUnauthorized))
		return
	}

	checkout, err := h.checkouts.GetCheckout(ctx, chi.URLParam(r, "checkoutId"))
	if err != nil {
		writeCheckoutError(ctx, w, err)
		return
	}
	if checkout.CheckedOutBy.ID != identity.UserID {
		httpx.WriteError(ctx, w, httpx.NewError("checkout_not_found", "checkout not found", http.StatusNotFound))
		return
	}

	payload, err := buildCheckoutPayload(checkout)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("internal_server_error", "failed to render checkout", http.StatusInternalServerError))
		return
	}
	writeJSONResponse(w, http.StatusOK, payload)
}

type paymentOutcomeRequest struct {
	Status           string     `json:"status"`
	PaymentReference string     `json:"payment_reference"`
	PaidAt           *time.Time `json:"paid_at"`
}

func (h *CheckoutHandlers) patchPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := requestctx.IdentityFrom(ctx); !ok {
		httpx.WriteError(ctx, w, httpx.NewError("unauthorized", "authentication required", http.StatusUnauthorized))
		return
	}

	body, err := readLimitedBody(r, maxPaymentBodySize)
	if err != nil {
		writeBodyError(ctx, w, err)
		return
	}

	var req paymentOutcomeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body is not valid JSON", http.StatusBadRequest))
		return
	}

	checkout, err := h.checkouts.RecordPaymentOutcome(ctx, services.RecordPaymentOutcomeCommand{
		CheckoutID:       chi.URLParam(r, "checkoutId"),
		Status:           domain.PaymentStatus(req.Status),
		PaymentReference: req.PaymentReference,
		PaidAt:           req.PaidAt,
	})
	if err != nil {
		writeCheckoutError(ctx, w, err)
		return
	}

	// A successful payment finalizes the checkout into an order.
	if checkout.PaymentStatus == domain.PaymentStatusPaid && h.orders != nil {
		if _, err := h.orders.CreateFromCheckout(ctx, services.CreateOrderFromCheckoutCommand{CheckoutID: checkout.ID}); err != nil {
			writeOrderError(ctx, w, err)
			return
		}
	}

	payload, err := buildCheckoutPayload(checkout)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("internal_server_error", "failed to render checkout", http.StatusInternalServerError))
		return
	}
	writeJSONResponse(w, http.StatusOK, payload)
}

func writeCheckoutError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrCheckoutInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrCheckoutBasketEmpty):
		httpx.WriteError(ctx, w, httpx.NewError("basket_empty", "basket contains no items", http.StatusConflict))
	case errors.Is(err, services.ErrCheckoutNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("checkout_not_found", "checkout not found", http.StatusNotFound))
	case errors.Is(err, services.ErrCheckoutInvalidState):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_payment_transition", err.Error(), http.StatusConflict))
	case errors.Is(err, services.ErrCheckoutConflict):
		httpx.WriteError(ctx, w, httpx.NewError("checkout_conflict", "checkout has been modified; refresh and retry", http.StatusConflict))
	case errors.Is(err, services.ErrInvalidCostAmount):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_cost_amount", err.Error(), http.StatusInternalServerError))
	case errors.Is(err, domain.ErrUnknownItemKind), errors.Is(err, domain.ErrItemOptionsDecode):
		httpx.WriteError(ctx, w, httpx.NewError("internal_server_error", "stored checkout could not be read", http.StatusInternalServerError))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("internal_server_error", "internal server error", http.StatusInternalServerError))
	}
}
