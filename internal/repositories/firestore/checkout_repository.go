package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "github.com/docfield/api/internal/domain"
	pfirestore "github.com/docfield/api/internal/platform/firestore"
	"github.com/docfield/api/internal/repositories"
)

const checkoutCollection = "checkouts"

// CheckoutRepository persists checkout snapshots within Firestore.
type CheckoutRepository struct {
	base *pfirestore.BaseRepository[checkoutDocument]
}

// NewCheckoutRepository constructs a Firestore-backed checkout repository.
func NewCheckoutRepository(provider *pfirestore.Provider) (*CheckoutRepository, error) {
	if provider == nil {
		return nil, errors.New("checkout repository requires firestore provider")
	}
	base := pfirestore.NewBaseRepository[checkoutDocument](provider, checkoutCollection, nil, nil)
	return &CheckoutRepository{base: base}, nil
}

// Insert writes a new checkout document. Inserting under an existing id
// surfaces as a conflict.
func (r *CheckoutRepository) Insert(ctx context.Context, checkout domain.Checkout) error {
	if r == nil || r.base == nil {
		return errors.New("checkout repository not initialised")
	}
	doc, err := encodeCheckout(checkout)
	if err != nil {
		return err
	}
	_, err = r.base.Create(ctx, strings.TrimSpace(checkout.ID), doc)
	return err
}

// Update replaces the stored checkout document.
func (r *CheckoutRepository) Update(ctx context.Context, checkout domain.Checkout) error {
	if r == nil || r.base == nil {
		return errors.New("checkout repository not initialised")
	}
	doc, err := encodeCheckout(checkout)
	if err != nil {
		return err
	}
	doc.UpdatedAt = time.Now().UTC()
	_, err = r.base.Set(ctx, strings.TrimSpace(checkout.ID), doc)
	return err
}

// FindByID loads a checkout by its identifier.
func (r *CheckoutRepository) FindByID(ctx context.Context, checkoutID string) (domain.Checkout, error) {
	if r == nil || r.base == nil {
		return domain.Checkout{}, errors.New("checkout repository not initialised")
	}
	id := strings.TrimSpace(checkoutID)
	if id == "" {
		return domain.Checkout{}, errors.New("checkout repository: checkout id is required")
	}

	doc, err := r.base.Get(ctx, id)
	if err != nil {
		return domain.Checkout{}, err
	}
	return decodeCheckout(doc.ID, doc.Data)
}

func encodeCheckout(checkout domain.Checkout) (checkoutDocument, error) {
	if strings.TrimSpace(checkout.ID) == "" {
		return checkoutDocument{}, errors.New("checkout repository: checkout id is required")
	}

	items, err := encodeItems(checkout.Items)
	if err != nil {
		return checkoutDocument{}, err
	}

	now := time.Now().UTC()
	createdAt := checkout.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = now
	}
	updatedAt := checkout.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = now
	}

	return checkoutDocument{
		CheckedOutBy: actionedByDocument{
			ID:    checkout.CheckedOutBy.ID,
			Email: checkout.CheckedOutBy.Email,
		},
		DeliveryDetails:  encodeDeliveryDetails(checkout.DeliveryDetails),
		Items:            items,
		Links:            checkoutLinksDocument{Self: checkout.Links.Self, Payment: checkout.Links.Payment},
		PaymentStatus:    string(checkout.PaymentStatus),
		PaymentReference: checkout.PaymentReference,
		PaidAt:           checkout.PaidAt,
		Reference:        checkout.Reference,
		TotalOrderCost:   checkout.TotalOrderCost,
		Etag:             checkout.Etag,
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
	}, nil
}

func decodeCheckout(id string, doc checkoutDocument) (domain.Checkout, error) {
	items, err := decodeItems(doc.Items)
	if err != nil {
		return domain.Checkout{}, err
	}

	return domain.Checkout{
		ID: id,
		CheckedOutBy: domain.ActionedBy{
			ID:    doc.CheckedOutBy.ID,
			Email: doc.CheckedOutBy.Email,
		},
		DeliveryDetails:  decodeDeliveryDetails(doc.DeliveryDetails),
		Items:            items,
		Links:            domain.CheckoutLinks{Self: doc.Links.Self, Payment: doc.Links.Payment},
		PaymentStatus:    domain.PaymentStatus(doc.PaymentStatus),
		PaymentReference: doc.PaymentReference,
		PaidAt:           doc.PaidAt,
		Reference:        doc.Reference,
		TotalOrderCost:   doc.TotalOrderCost,
		Etag:             doc.Etag,
		CreatedAt:        doc.CreatedAt,
		UpdatedAt:        doc.UpdatedAt,
	}, nil
}

var _ repositories.CheckoutRepository = (*CheckoutRepository)(nil)
