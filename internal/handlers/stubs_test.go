package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/docfield/api/internal/platform/requestctx"
	"github.com/docfield/api/internal/services"
)

func newBodyReader(s string) *strings.Reader { return strings.NewReader(s) }

type stubBasketService struct {
	getOrCreateFn func(ctx context.Context, userID string) (services.Basket, error)
	addItemFn     func(ctx context.Context, cmd services.AddItemCommand) (services.Basket, error)
	updateFn      func(ctx context.Context, cmd services.UpdateDeliveryDetailsCommand) (services.Basket, error)
}

func (s *stubBasketService) GetOrCreateBasket(ctx context.Context, userID string) (services.Basket, error) {
	return s.getOrCreateFn(ctx, userID)
}

func (s *stubBasketService) AddItem(ctx context.Context, cmd services.AddItemCommand) (services.Basket, error) {
	return s.addItemFn(ctx, cmd)
}

func (s *stubBasketService) UpdateDeliveryDetails(ctx context.Context, cmd services.UpdateDeliveryDetailsCommand) (services.Basket, error) {
	return s.updateFn(ctx, cmd)
}

type stubCheckoutService struct {
	checkoutFn func(ctx context.Context, cmd services.CheckoutBasketCommand) (services.Checkout, error)
	getFn      func(ctx context.Context, checkoutID string) (services.Checkout, error)
	recordFn   func(ctx context.Context, cmd services.RecordPaymentOutcomeCommand) (services.Checkout, error)
}

func (s *stubCheckoutService) CheckoutBasket(ctx context.Context, cmd services.CheckoutBasketCommand) (services.Checkout, error) {
	return s.checkoutFn(ctx, cmd)
}

func (s *stubCheckoutService) GetCheckout(ctx context.Context, checkoutID string) (services.Checkout, error) {
	return s.getFn(ctx, checkoutID)
}

func (s *stubCheckoutService) RecordPaymentOutcome(ctx context.Context, cmd services.RecordPaymentOutcomeCommand) (services.Checkout, error) {
	return s.recordFn(ctx, cmd)
}

type stubOrderService struct {
	createFn func(ctx context.Context, cmd services.CreateOrderFromCheckoutCommand) (services.Order, error)
	getFn    func(ctx context.Context, orderID string) (services.Order, error)
}

func (s *stubOrderService) CreateFromCheckout(ctx context.Context, cmd services.CreateOrderFromCheckoutCommand) (services.Order, error) {
	return s.createFn(ctx, cmd)
}

func (s *stubOrderService) GetOrder(ctx context.Context, orderID string) (services.Order, error) {
	return s.getFn(ctx, orderID)
}

func authenticatedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, newBodyReader(body))
	}
	ctx := requestctx.WithIdentity(req.Context(), requestctx.Identity{
		UserID: "user-1",
		Email:  "jane@example.com",
	})
	return req.WithContext(ctx)
}
