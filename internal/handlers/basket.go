package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	domain "github.com/docfield/api/internal/domain"
	"github.com/docfield/api/internal/platform/httpx"
	"github.com/docfield/api/internal/platform/requestctx"
	"github.com/docfield/api/internal/services"
)

const maxBasketBodySize = 64 * 1024

// BasketHandlers exposes the authenticated basket endpoints, including the
// checkout creation that freezes the basket.
type BasketHandlers struct {
	baskets   services.BasketService
	checkouts services.CheckoutService
}

// NewBasketHandlers constructs handlers over the basket and checkout services.
func NewBasketHandlers(baskets services.BasketService, checkouts services.CheckoutService) *BasketHandlers {
	return &BasketHandlers{
		baskets:   baskets,
		checkouts: checkouts,
	}
}

// Routes wires the /basket endpoints onto the provided router.
func (h *BasketHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.getBasket)
	r.Patch("/", h.patchBasket)
	r.Post("/items", h.addItem)
	r.Post("/checkouts", h.createCheckout)
}

func (h *BasketHandlers) getBasket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requestctx.IdentityFrom(ctx)
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("unauthorized", "authentication required", http.StatusUnauthorized))
		return
	}

	basket, err := h.baskets.GetOrCreateBasket(ctx, identity.UserID)
	if err != nil {
		h.writeBasketError(ctx, w, err)
		return
	}

	payload, err := buildBasketPayload(basket)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("internal_server_error", "failed to render basket", http.StatusInternalServerError))
		return
	}
	writeJSONResponse(w, http.StatusOK, payload)
}

type updateBasketRequest struct {
	DeliveryDetails *deliveryDetailsPayload `json:"delivery_details"`
}

func (h *BasketHandlers) patchBasket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requestctx.IdentityFrom(ctx)
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("unauthorized", "authentication required", http.StatusUnauthorized))
		return
	}

	body, err := readLimitedBody(r, maxBasketBodySize)
	if err != nil {
		writeBodyError(ctx, w, err)
		return
	}

	var req updateBasketRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body is not valid JSON", http.StatusBadRequest))
		return
	}
	if req.DeliveryDetails == nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "delivery_details is required", http.StatusBadRequest))
		return
	}

	basket, err := h.baskets.UpdateDeliveryDetails(ctx, services.UpdateDeliveryDetailsCommand{
		UserID: identity.UserID,
		DeliveryDetails: domain.DeliveryDetails{
			Forename:     req.DeliveryDetails.Forename,
			Surname:      req.DeliveryDetails.Surname,
			AddressLine1: req.DeliveryDetails.AddressLine1,
			AddressLine2: req.DeliveryDetails.AddressLine2,
			Locality:     req.DeliveryDetails.Locality,
			Region:       req.DeliveryDetails.Region,
			PostalCode:   req.DeliveryDetails.PostalCode,
			Country:      req.DeliveryDetails.Country,
			PoBox:        req.DeliveryDetails.PoBox,
		},
	})
	if err != nil {
		h.writeBasketError(ctx, w, err)
		return
	}

	payload, err := buildBasketPayload(basket)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("internal_server_error", "failed to render basket", http.StatusInternalServerError))
		return
	}
	writeJSONResponse(w, http.StatusOK, payload)
}

type addItemRequest struct {
	ID                    string            `json:"id"`
	CompanyName           string            `json:"company_name"`
	CompanyNumber         string            `json:"company_number"`
	CustomerReference     string            `json:"customer_reference"`
	Description           string            `json:"description"`
	DescriptionIdentifier string            `json:"description_identifier"`
	DescriptionValues     map[string]string `json:"description_values"`
	Kind                  string            `json:"kind"`
	ItemCosts             []itemCostPayload `json:"item_costs"`
	ItemOptions           map[string]any    `json:"item_options"`
	PostageCost           string            `json:"postage_cost"`
	PostalDelivery        bool              `json:"postal_delivery"`
	Quantity              int               `json:"quantity"`
}

func (h *BasketHandlers) addItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requestctx.IdentityFrom(ctx)
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("unauthorized", "authentication required", http.StatusUnauthorized))
		return
	}

	body, err := readLimitedBody(r, maxBasketBodySize)
	if err != nil {
		writeBodyError(ctx, w, err)
		return
	}

	var req addItemRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body is not valid JSON", http.StatusBadRequest))
		return
	}

	options, err := domain.DecodeItemOptions(req.Kind, req.ItemOptions)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	costs := make([]domain.ItemCost, 0, len(req.ItemCosts))
	for _, cost := range req.ItemCosts {
		costs = append(costs, domain.ItemCost{
			DiscountApplied: cost.DiscountApplied,
			ItemCost:        cost.ItemCost,
			CalculatedCost:  cost.CalculatedCost,
			ProductType:     cost.ProductType,
		})
	}

	basket, err := h.baskets.AddItem(ctx, services.AddItemCommand{
		UserID: identity.UserID,
		Item: domain.Item{
			ID:                    req.ID,
			CompanyName:           req.CompanyName,
			CompanyNumber:         req.CompanyNumber,
			CustomerReference:     req.CustomerReference,
			Description:           req.Description,
			DescriptionIdentifier: req.DescriptionIdentifier,
			DescriptionValues:     req.DescriptionValues,
			Kind:                  req.Kind,
			ItemCosts:             costs,
			Options:               options,
			PostageCost:           req.PostageCost,
			PostalDelivery:        req.PostalDelivery,
			Quantity:              req.Quantity,
		},
	})
	if err != nil {
		h.writeBasketError(ctx, w, err)
		return
	}

	payload, err := buildBasketPayload(basket)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("internal_server_error", "failed to render basket", http.StatusInternalServerError))
		return
	}
	writeJSONResponse(w, http.StatusCreated, payload)
}

func (h *BasketHandlers) createCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requestctx.IdentityFrom(ctx)
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("unauthorized", "authentication required", http.StatusUnauthorized))
		return
	}
	if h.checkouts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("checkout_service_unavailable", "checkout service is unavailable", http.StatusServiceUnavailable))
		return
	}

	checkout, err := h.checkouts.CheckoutBasket(ctx, services.CheckoutBasketCommand{
		UserID:    identity.UserID,
		UserEmail: identity.Email,
	})
	if err != nil {
		writeCheckoutError(ctx, w, err)
		return
	}

	payload, err := buildCheckoutPayload(checkout)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("internal_server_error", "failed to render checkout", http.StatusInternalServerError))
		return
	}
	w.Header().Set("Location", checkout.Links.Self)
	writeJSONResponse(w, http.StatusCreated, payload)
}

func (h *BasketHandlers) writeBasketError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrBasketInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrBasketNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("basket_not_found", "basket not found", http.StatusNotFound))
	case errors.Is(err, domain.ErrUnknownItemKind), errors.Is(err, domain.ErrItemOptionsDecode):
		httpx.WriteError(ctx, w, httpx.NewError("internal_server_error", "stored basket could not be read", http.StatusInternalServerError))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("internal_server_error", "internal server error", http.StatusInternalServerError))
	}
}

func writeBodyError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, errBodyTooLarge) {
		httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", "request body exceeds allowed size", http.StatusRequestEntityTooLarge))
		return
	}
	httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
}
