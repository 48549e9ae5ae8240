package domain

import (
	"time"
)

// DeliveryDetails captures the postal destination a customer entered for a basket.
// The same structure is snapshotted onto checkouts and orders.
type DeliveryDetails struct {
	Forename     string
	Surname      string
	AddressLine1 string
	AddressLine2 string
	Locality     string
	Region       string
	PostalCode   string
	Country      string
	PoBox        string
}

// ItemCost is one priced component of an item, all amounts in minor currency
// units carried as decimal strings.
type ItemCost struct {
	DiscountApplied string
	ItemCost        string
	CalculatedCost  string
	ProductType     string
}

// ItemLinks holds the canonical URI for an item resource.
type ItemLinks struct {
	Self string
}

// Item is a single document product held in a basket and snapshotted into
// checkouts and orders. The Kind discriminator determines the concrete shape
// of Options; the two always agree.
type Item struct {
	ID                    string
	CompanyName           string
	CompanyNumber         string
	CustomerReference     string
	Description           string
	DescriptionIdentifier string
	DescriptionValues     map[string]string
	Etag                  string
	Kind                  string
	Links                 ItemLinks
	ItemCosts             []ItemCost
	Options               ItemOptions
	PostageCost           string
	TotalItemCost         string
	PostalDelivery        bool
	Quantity              int
}

// Basket aggregates the mutable pre-checkout state for a user. The basket id
// is the user id: one basket per user, never a generated identity.
type Basket struct {
	ID              string
	DeliveryDetails *DeliveryDetails
	Items           []Item
	Etag            string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ActionedBy identifies the authenticated user behind a checkout or order.
type ActionedBy struct {
	ID    string
	Email string
}

// CheckoutLinks holds the canonical URIs attached to a checkout.
type CheckoutLinks struct {
	Self    string
	Payment string
}

// PaymentStatus enumerates the payment outcomes recorded against a checkout.
// Transitions are driven by the external payment collaborator; the table below
// guards which outcome changes the service will accept.
type PaymentStatus string

const (
	// PaymentStatusPending indicates payment has not started.
	PaymentStatusPending PaymentStatus = "pending"
	// PaymentStatusInProgress indicates the payment session is underway.
	PaymentStatusInProgress PaymentStatus = "in-progress"
	// PaymentStatusPaid indicates payment completed successfully.
	PaymentStatusPaid PaymentStatus = "paid"
	// PaymentStatusFailed indicates the payment attempt failed.
	PaymentStatusFailed PaymentStatus = "failed"
	// PaymentStatusExpired indicates the payment session timed out.
	PaymentStatusExpired PaymentStatus = "expired"
	// PaymentStatusNoFunds indicates the payment was declined for lack of funds.
	PaymentStatusNoFunds PaymentStatus = "no-funds"
)

var paymentStatusTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:    {PaymentStatusInProgress, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusExpired, PaymentStatusNoFunds},
	PaymentStatusInProgress: {PaymentStatusPaid, PaymentStatusFailed, PaymentStatusExpired, PaymentStatusNoFunds},
}

// CanTransitionTo reports whether the payment status may move to target.
// Terminal states admit no further transitions.
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	if s == target {
		return true
	}
	next, ok := paymentStatusTransitions[s]
	if !ok {
		return false
	}
	for _, candidate := range next {
		if candidate == target {
			return true
		}
	}
	return false
}

// Checkout is the immutable snapshot of a basket item created to carry it
// through payment. Only the payment outcome fields mutate after creation.
type Checkout struct {
	ID               string
	CheckedOutBy     ActionedBy
	DeliveryDetails  *DeliveryDetails
	Items            []Item
	Links            CheckoutLinks
	PaymentStatus    PaymentStatus
	PaymentReference string
	PaidAt           *time.Time
	Reference        string
	TotalOrderCost   string
	Etag             string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// OrderLinks holds the canonical URI for an order resource.
type OrderLinks struct {
	Self string
}

// Order is the finalized, read-only record created from a paid checkout.
// It shares the checkout's id; that shared id is the idempotency key.
type Order struct {
	ID               string
	OrderedAt        time.Time
	OrderedBy        ActionedBy
	DeliveryDetails  *DeliveryDetails
	Items            []Item
	Links            OrderLinks
	PaymentReference string
	Reference        string
	TotalOrderCost   string
	Etag             string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
