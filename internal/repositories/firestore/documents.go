package firestore

import (
	"fmt"
	"time"

	domain "github.com/docfield/api/internal/domain"
)

type deliveryDetailsDocument struct {
	Forename     string `firestore:"forename"`
	Surname      string `firestore:"surname"`
	AddressLine1 string `firestore:"addressLine1"`
	AddressLine2 string `firestore:"addressLine2,omitempty"`
	Locality     string `firestore:"locality"`
	Region       string `firestore:"region,omitempty"`
	PostalCode   string `firestore:"postalCode,omitempty"`
	Country      string `firestore:"country,omitempty"`
	PoBox        string `firestore:"poBox,omitempty"`
}

type itemCostDocument struct {
	DiscountApplied string `firestore:"discountApplied"`
	ItemCost        string `firestore:"itemCost"`
	CalculatedCost  string `firestore:"calculatedCost"`
	ProductType     string `firestore:"productType"`
}

type itemLinksDocument struct {
	Self string `firestore:"self"`
}

type itemDocument struct {
	ID                    string             `firestore:"id"`
	CompanyName           string             `firestore:"companyName,omitempty"`
	CompanyNumber         string             `firestore:"companyNumber,omitempty"`
	CustomerReference     string             `firestore:"customerReference,omitempty"`
	Description           string             `firestore:"description,omitempty"`
	DescriptionIdentifier string             `firestore:"descriptionIdentifier,omitempty"`
	DescriptionValues     map[string]string  `firestore:"descriptionValues,omitempty"`
	Etag                  string             `firestore:"etag,omitempty"`
	Kind                  string             `firestore:"kind"`
	Links                 itemLinksDocument  `firestore:"links"`
	ItemCosts             []itemCostDocument `firestore:"itemCosts,omitempty"`
	Options               map[string]any     `firestore:"itemOptions,omitempty"`
	PostageCost           string             `firestore:"postageCost,omitempty"`
	TotalItemCost         string             `firestore:"totalItemCost,omitempty"`
	PostalDelivery        bool               `firestore:"postalDelivery"`
	Quantity              int                `firestore:"quantity"`
}

type actionedByDocument struct {
	ID    string `firestore:"id"`
	Email string `firestore:"email,omitempty"`
}

type basketDocument struct {
	DeliveryDetails *deliveryDetailsDocument `firestore:"deliveryDetails,omitempty"`
	Items           []itemDocument           `firestore:"items,omitempty"`
	Etag            string                   `firestore:"etag,omitempty"`
	CreatedAt       time.Time                `firestore:"createdAt"`
	UpdatedAt       time.Time                `firestore:"updatedAt"`
}

type checkoutLinksDocument struct {
	Self    string `firestore:"self"`
	Payment string `firestore:"payment"`
}

type checkoutDocument struct {
	CheckedOutBy     actionedByDocument       `firestore:"checkedOutBy"`
	DeliveryDetails  *deliveryDetailsDocument `firestore:"deliveryDetails,omitempty"`
	Items            []itemDocument           `firestore:"items"`
	Links            checkoutLinksDocument    `firestore:"links"`
	PaymentStatus    string                   `firestore:"paymentStatus"`
	PaymentReference string                   `firestore:"paymentReference,omitempty"`
	PaidAt           *time.Time               `firestore:"paidAt,omitempty"`
	Reference        string                   `firestore:"reference"`
	TotalOrderCost   string                   `firestore:"totalOrderCost"`
	Etag             string                   `firestore:"etag,omitempty"`
	CreatedAt        time.Time                `firestore:"createdAt"`
	UpdatedAt        time.Time                `firestore:"updatedAt"`
}

type orderLinksDocument struct {
	Self string `firestore:"self"`
}

type orderDocument struct {
	OrderedAt        time.Time                `firestore:"orderedAt"`
	OrderedBy        actionedByDocument       `firestore:"orderedBy"`
	DeliveryDetails  *deliveryDetailsDocument `firestore:"deliveryDetails,omitempty"`
	Items            []itemDocument           `firestore:"items"`
	Links            orderLinksDocument       `firestore:"links"`
	PaymentReference string                   `firestore:"paymentReference,omitempty"`
	Reference        string                   `firestore:"reference"`
	TotalOrderCost   string                   `firestore:"totalOrderCost"`
	Etag             string                   `firestore:"etag,omitempty"`
	CreatedAt        time.Time                `firestore:"createdAt"`
	UpdatedAt        time.Time                `firestore:"updatedAt"`
}

func encodeDeliveryDetails(details *domain.DeliveryDetails) *deliveryDetailsDocument {
	if details == nil {
		return nil
	}
	return &deliveryDetailsDocument{
		Forename:     details.Forename,
		Surname:      details.Surname,
		AddressLine1: details.AddressLine1,
		AddressLine2: details.AddressLine2,
		Locality:     details.Locality,
		Region:       details.Region,
		PostalCode:   details.PostalCode,
		Country:      details.Country,
		PoBox:        details.PoBox,
	}
}

func decodeDeliveryDetails(doc *deliveryDetailsDocument) *domain.DeliveryDetails {
	if doc == nil {
		return nil
	}
	return &domain.DeliveryDetails{
		Forename:     doc.Forename,
		Surname:      doc.Surname,
		AddressLine1: doc.AddressLine1,
		AddressLine2: doc.AddressLine2,
		Locality:     doc.Locality,
		Region:       doc.Region,
		PostalCode:   doc.PostalCode,
		Country:      doc.Country,
		PoBox:        doc.PoBox,
	}
}

func encodeItem(item domain.Item) (itemDocument, error) {
	options, err := domain.EncodeItemOptions(item.Options)
	if err != nil {
		return itemDocument{}, fmt.Errorf("item %s: %w", item.ID, err)
	}

	costs := make([]itemCostDocument, 0, len(item.ItemCosts))
	for _, cost := range item.ItemCosts {
		costs = append(costs, itemCostDocument{
			DiscountApplied: cost.DiscountApplied,
			ItemCost:        cost.ItemCost,
			CalculatedCost:  cost.CalculatedCost,
			ProductType:     cost.ProductType,
		})
	}
	if len(costs) == 0 {
		costs = nil
	}

	return itemDocument{
		ID:                    item.ID,
		CompanyName:           item.CompanyName,
		CompanyNumber:         item.CompanyNumber,
		CustomerReference:     item.CustomerReference,
		Description:           item.Description,
		DescriptionIdentifier: item.DescriptionIdentifier,
		DescriptionValues:     item.DescriptionValues,
		Etag:                  item.Etag,
		Kind:                  item.Kind,
		Links:                 itemLinksDocument{Self: item.Links.Self},
		ItemCosts:             costs,
		Options:               options,
		PostageCost:           item.PostageCost,
		TotalItemCost:         item.TotalItemCost,
		PostalDelivery:        item.PostalDelivery,
		Quantity:              item.Quantity,
	}, nil
}

func decodeItem(doc itemDocument) (domain.Item, error) {
	options, err := domain.DecodeItemOptions(doc.Kind, doc.Options)
	if err != nil {
		return domain.Item{}, fmt.Errorf("item %s: %w", doc.ID, err)
	}

	costs := make([]domain.ItemCost, 0, len(doc.ItemCosts))
	for _, cost := range doc.ItemCosts {
		costs = append(costs, domain.ItemCost{
			DiscountApplied: cost.DiscountApplied,
			ItemCost:        cost.ItemCost,
			CalculatedCost:  cost.CalculatedCost,
			ProductType:     cost.ProductType,
		})
	}
	if len(costs) == 0 {
		costs = nil
	}

	return domain.Item{
		ID:                    doc.ID,
		CompanyName:           doc.CompanyName,
		CompanyNumber:         doc.CompanyNumber,
		CustomerReference:     doc.CustomerReference,
		Description:           doc.Description,
		DescriptionIdentifier: doc.DescriptionIdentifier,
		DescriptionValues:     doc.DescriptionValues,
		Etag:                  doc.Etag,
		Kind:                  doc.Kind,
		Links:                 domain.ItemLinks{Self: doc.Links.Self},
		ItemCosts:             costs,
		Options:               options,
		PostageCost:           doc.PostageCost,
		TotalItemCost:         doc.TotalItemCost,
		PostalDelivery:        doc.PostalDelivery,
		Quantity:              doc.Quantity,
	}, nil
}

func encodeItems(items []domain.Item) ([]itemDocument, error) {
	if len(items) == 0 {
		return nil, nil
	}
	out := make([]itemDocument, 0, len(items))
	for _, item := range items {
		doc, err := encodeItem(item)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func decodeItems(docs []itemDocument) ([]domain.Item, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	out := make([]domain.Item, 0, len(docs))
	for _, doc := range docs {
		item, err := decodeItem(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
