package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	domain "github.com/docfield/api/internal/domain"
	"github.com/docfield/api/internal/platform/httpx"
	"github.com/docfield/api/internal/platform/requestctx"
	"github.com/docfield/api/internal/services"
)

// OrderHandlers exposes read access to finalized orders.
type OrderHandlers struct {
	orders services.OrderService
}

// NewOrderHandlers constructs handlers over the order service.
func NewOrderHandlers(orders services.OrderService) *OrderHandlers {
	return &OrderHandlers{orders: orders}
}

// Routes wires the /orders endpoints onto the provided router.
func (h *OrderHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/{orderId}", h.getOrder)
}

func (h *OrderHandlers) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requestctx.IdentityFrom(ctx)
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("unauthorized", "authentication required", http.StatusUnauthorized))
		return
	}

	order, err := h.orders.GetOrder(ctx, chi.URLParam(r, "orderId"))
	if err != nil {
		writeOrderError(ctx, w, err)
		return
	}
	if order.OrderedBy.ID != identity.UserID {
		httpx.WriteError(ctx, w, httpx.NewError("order_not_found", "order not found", http.StatusNotFound))
		return
	}

	payload, err := buildOrderPayload(order)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("internal_server_error", "failed to render order", http.StatusInternalServerError))
		return
	}
	writeJSONResponse(w, http.StatusOK, payload)
}

func writeOrderError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrOrderInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrOrderNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("order_not_found", "order not found", http.StatusNotFound))
	case errors.Is(err, services.ErrOrderConflict):
		httpx.WriteError(ctx, w, httpx.NewError("order_exists", "an order already exists for this checkout", http.StatusConflict))
	case errors.Is(err, services.ErrOrderNotPaid):
		httpx.WriteError(ctx, w, httpx.NewError("checkout_not_paid", err.Error(), http.StatusConflict))
	case errors.Is(err, services.ErrOrderStoreFailed):
		httpx.WriteError(ctx, w, httpx.NewError("order_store_failed", "order could not be stored", http.StatusInternalServerError))
	case errors.Is(err, domain.ErrUnknownItemKind), errors.Is(err, domain.ErrItemOptionsDecode):
		httpx.WriteError(ctx, w, httpx.NewError("internal_server_error", "stored order could not be read", http.StatusInternalServerError))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("internal_server_error", "internal server error", http.StatusInternalServerError))
	}
}
