package services

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"

	domain "github.com/docfield/api/internal/domain"
)

// LinkBuilder produces canonical resource URIs under the configured base path.
type LinkBuilder struct {
	basePath string
}

// NewLinkBuilder constructs a LinkBuilder rooted at basePath.
func NewLinkBuilder(basePath string) LinkBuilder {
	trimmed := strings.TrimRight(strings.TrimSpace(basePath), "/")
	if trimmed == "" {
		trimmed = "/api/v1"
	}
	return LinkBuilder{basePath: trimmed}
}

// BasketLink returns the URI of the caller's basket resource.
func (b LinkBuilder) BasketLink() string {
	return b.basePath + "/basket"
}

// ItemLink returns the URI of a basket item.
func (b LinkBuilder) ItemLink(itemID string) domain.ItemLinks {
	return domain.ItemLinks{Self: fmt.Sprintf("%s/basket/items/%s", b.basePath, itemID)}
}

// CheckoutLinks returns the URIs attached to a checkout.
func (b LinkBuilder) CheckoutLinks(checkoutID string) domain.CheckoutLinks {
	self := fmt.Sprintf("%s/checkouts/%s", b.basePath, checkoutID)
	return domain.CheckoutLinks{
		Self:    self,
		Payment: self + "/payment",
	}
}

// OrderLinks returns the URIs attached to an order.
func (b LinkBuilder) OrderLinks(orderID string) domain.OrderLinks {
	return domain.OrderLinks{Self: fmt.Sprintf("%s/orders/%s", b.basePath, orderID)}
}

// OrderURI returns the canonical order URI used in published messages.
func (b LinkBuilder) OrderURI(orderID string) string {
	return b.OrderLinks(orderID).Self
}

// newEtag generates an opaque entity tag for optimistic concurrency checks.
func newEtag() string {
	sum := sha256.Sum256([]byte(uuid.NewString()))
	return hex.EncodeToString(sum[:])
}

// newReference generates a human-quotable order reference.
func newReference() string {
	id := uuid.New()
	first := binary.BigEndian.Uint32(id[0:4]) % 1000000
	second := binary.BigEndian.Uint32(id[4:8]) % 1000000
	return fmt.Sprintf("ORD-%06d-%06d", first, second)
}
