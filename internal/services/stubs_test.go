package services

import (
	"context"
	"fmt"

	domain "github.com/docfield/api/internal/domain"
)

type stubRepoError struct {
	msg         string
	notFound    bool
	conflict    bool
	unavailable bool
}

func (e *stubRepoError) Error() string       { return e.msg }
func (e *stubRepoError) IsNotFound() bool    { return e.notFound }
func (e *stubRepoError) IsConflict() bool    { return e.conflict }
func (e *stubRepoError) IsUnavailable() bool { return e.unavailable }

func notFoundErr(kind, id string) error {
	return &stubRepoError{msg: fmt.Sprintf("%s %s not found", kind, id), notFound: true}
}

func conflictErr(kind, id string) error {
	return &stubRepoError{msg: fmt.Sprintf("%s %s already exists", kind, id), conflict: true}
}

type memBasketRepo struct {
	baskets   map[string]domain.Basket
	upsertErr error
}

func newMemBasketRepo() *memBasketRepo {
	return &memBasketRepo{baskets: make(map[string]domain.Basket)}
}

func (r *memBasketRepo) Upsert(_ context.Context, basket domain.Basket) (domain.Basket, error) {
	if r.upsertErr != nil {
		return domain.Basket{}, r.upsertErr
	}
	r.baskets[basket.ID] = basket
	return basket, nil
}

func (r *memBasketRepo) FindByUser(_ context.Context, userID string) (domain.Basket, error) {
	basket, ok := r.baskets[userID]
	if !ok {
		return domain.Basket{}, notFoundErr("basket", userID)
	}
	return basket, nil
}

type memCheckoutRepo struct {
	checkouts map[string]domain.Checkout
	insertErr error
	updateErr error
}

func newMemCheckoutRepo() *memCheckoutRepo {
	return &memCheckoutRepo{checkouts: make(map[string]domain.Checkout)}
}

func (r *memCheckoutRepo) Insert(_ context.Context, checkout domain.Checkout) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	if _, ok := r.checkouts[checkout.ID]; ok {
		return conflictErr("checkout", checkout.ID)
	}
	r.checkouts[checkout.ID] = checkout
	return nil
}

func (r *memCheckoutRepo) Update(_ context.Context, checkout domain.Checkout) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.checkouts[checkout.ID]; !ok {
		return notFoundErr("checkout", checkout.ID)
	}
	r.checkouts[checkout.ID] = checkout
	return nil
}

func (r *memCheckoutRepo) FindByID(_ context.Context, checkoutID string) (domain.Checkout, error) {
	checkout, ok := r.checkouts[checkoutID]
	if !ok {
		return domain.Checkout{}, notFoundErr("checkout", checkoutID)
	}
	return checkout, nil
}

type memOrderRepo struct {
	orders      map[string]domain.Order
	insertErr   error
	insertCalls int
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[string]domain.Order)}
}

func (r *memOrderRepo) Insert(_ context.Context, order domain.Order) error {
	r.insertCalls++
	if r.insertErr != nil {
		return r.insertErr
	}
	if _, ok := r.orders[order.ID]; ok {
		return conflictErr("order", order.ID)
	}
	r.orders[order.ID] = order
	return nil
}

func (r *memOrderRepo) FindByID(_ context.Context, orderID string) (domain.Order, error) {
	order, ok := r.orders[orderID]
	if !ok {
		return domain.Order{}, notFoundErr("order", orderID)
	}
	return order, nil
}

type capturePublisher struct {
	messages []OrderReceivedMessage
	err      error
}

func (p *capturePublisher) PublishOrderReceived(_ context.Context, message OrderReceivedMessage) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.messages = append(p.messages, message)
	return fmt.Sprintf("msg-%d", len(p.messages)), nil
}
