package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	domain "github.com/docfield/api/internal/domain"
)

var errBodyTooLarge = errors.New("request body too large")

func readLimitedBody(r *http.Request, limit int64) ([]byte, error) {
	if r == nil || r.Body == nil {
		return nil, nil
	}
	defer r.Body.Close()

	body, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, errBodyTooLarge
	}
	return body, nil
}

func writeJSONResponse(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type deliveryDetailsPayload struct {
	Forename     string `json:"forename"`
	Surname      string `json:"surname"`
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2,omitempty"`
	Locality     string `json:"locality"`
	Region       string `json:"region,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	Country      string `json:"country,omitempty"`
	PoBox        string `json:"po_box,omitempty"`
}

type itemCostPayload struct {
	DiscountApplied string `json:"discount_applied"`
	ItemCost        string `json:"item_cost"`
	CalculatedCost  string `json:"calculated_cost"`
	ProductType     string `json:"product_type"`
}

type itemLinksPayload struct {
	Self string `json:"self"`
}

type itemPayload struct {
	ID                    string            `json:"id"`
	CompanyName           string            `json:"company_name,omitempty"`
	CompanyNumber         string            `json:"company_number,omitempty"`
	CustomerReference     string            `json:"customer_reference,omitempty"`
	Description           string            `json:"description,omitempty"`
	DescriptionIdentifier string            `json:"description_identifier,omitempty"`
	DescriptionValues     map[string]string `json:"description_values,omitempty"`
	Etag                  string            `json:"etag,omitempty"`
	Kind                  string            `json:"kind"`
	Links                 itemLinksPayload  `json:"links"`
	ItemCosts             []itemCostPayload `json:"item_costs,omitempty"`
	ItemOptions           map[string]any    `json:"item_options,omitempty"`
	PostageCost           string            `json:"postage_cost,omitempty"`
	TotalItemCost         string            `json:"total_item_cost,omitempty"`
	PostalDelivery        bool              `json:"postal_delivery"`
	Quantity              int               `json:"quantity"`
}

type actionedByPayload struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

type basketPayload struct {
	ID              string                  `json:"id"`
	DeliveryDetails *deliveryDetailsPayload `json:"delivery_details,omitempty"`
	Items           []itemPayload           `json:"items"`
	Etag            string                  `json:"etag,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

type checkoutLinksPayload struct {
	Self    string `json:"self"`
	Payment string `json:"payment"`
}

type checkoutPayload struct {
	ID               string                  `json:"id"`
	CheckedOutBy     actionedByPayload       `json:"checked_out_by"`
	DeliveryDetails  *deliveryDetailsPayload `json:"delivery_details,omitempty"`
	Items            []itemPayload           `json:"items"`
	Links            checkoutLinksPayload    `json:"links"`
	PaymentStatus    string                  `json:"payment_status"`
	PaymentReference string                  `json:"payment_reference,omitempty"`
	PaidAt           *time.Time              `json:"paid_at,omitempty"`
	Reference        string                  `json:"reference"`
	TotalOrderCost   string                  `json:"total_order_cost"`
	Etag             string                  `json:"etag,omitempty"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

type orderLinksPayload struct {
	Self string `json:"self"`
}

type orderPayload struct {
	ID               string                  `json:"id"`
	OrderedAt        time.Time               `json:"ordered_at"`
	OrderedBy        actionedByPayload       `json:"ordered_by"`
	DeliveryDetails  *deliveryDetailsPayload `json:"delivery_details,omitempty"`
	Items            []itemPayload           `json:"items"`
	Links            orderLinksPayload       `json:"links"`
	PaymentReference string                  `json:"payment_reference,omitempty"`
	Reference        string                  `json:"reference"`
	TotalOrderCost   string                  `json:"total_order_cost"`
	Etag             string                  `json:"etag,omitempty"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

func buildDeliveryDetailsPayload(details *domain.DeliveryDetails) *deliveryDetailsPayload {
	if details == nil {
		return nil
	}
	return &deliveryDetailsPayload{
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

func buildItemPayload(item domain.Item) (itemPayload, error) {
	options, err := domain.EncodeItemOptions(item.Options)
	if err != nil {
		return itemPayload{}, err
	}

	costs := make([]itemCostPayload, 0, len(item.ItemCosts))
	for _, cost := range item.ItemCosts {
		costs = append(costs, itemCostPayload{
			DiscountApplied: cost.DiscountApplied,
			ItemCost:        cost.ItemCost,
			CalculatedCost:  cost.CalculatedCost,
			ProductType:     cost.ProductType,
		})
	}
	if len(costs) == 0 {
		costs = nil
	}

	return itemPayload{
		ID:                    item.ID,
		CompanyName:           item.CompanyName,
		CompanyNumber:         item.CompanyNumber,
		CustomerReference:     item.CustomerReference,
		Description:           item.Description,
		DescriptionIdentifier: item.DescriptionIdentifier,
		DescriptionValues:     item.DescriptionValues,
		Etag:                  item.Etag,
		Kind:                  item.Kind,
		Links:                 itemLinksPayload{Self: item.Links.Self},
		ItemCosts:             costs,
		ItemOptions:           options,
		PostageCost:           item.PostageCost,
		TotalItemCost:         item.TotalItemCost,
		PostalDelivery:        item.PostalDelivery,
		Quantity:              item.Quantity,
	}, nil
}

func buildItemPayloads(items []domain.Item) ([]itemPayload, error) {
	out := make([]itemPayload, 0, len(items))
	for _, item := range items {
		payload, err := buildItemPayload(item)
		if err != nil {
			return nil, err
		}
		out = append(out, payload)
	}
	return out, nil
}

func buildBasketPayload(basket domain.Basket) (basketPayload, error) {
	items, err := buildItemPayloads(basket.Items)
	if err != nil {
		return basketPayload{}, err
	}
	return basketPayload{
		ID:              basket.ID,
		DeliveryDetails: buildDeliveryDetailsPayload(basket.DeliveryDetails),
		Items:           items,
		Etag:            basket.Etag,
		CreatedAt:       basket.CreatedAt,
		UpdatedAt:       basket.UpdatedAt,
	}, nil
}

func buildCheckoutPayload(checkout domain.Checkout) (checkoutPayload, error) {
	items, err := buildItemPayloads(checkout.Items)
	if err != nil {
		return checkoutPayload{}, err
	}
	return checkoutPayload{
		ID: checkout.ID,
		CheckedOutBy: actionedByPayload{
			ID:    checkout.CheckedOutBy.ID,
			Email: checkout.CheckedOutBy.Email,
		},
		DeliveryDetails:  buildDeliveryDetailsPayload(checkout.DeliveryDetails),
		Items:            items,
		Links:            checkoutLinksPayload{Self: checkout.Links.Self, Payment: checkout.Links.Payment},
		PaymentStatus:    string(checkout.PaymentStatus),
		PaymentReference: checkout.PaymentReference,
		PaidAt:           checkout.PaidAt,
		Reference:        checkout.Reference,
		TotalOrderCost:   checkout.TotalOrderCost,
		Etag:             checkout.Etag,
		CreatedAt:        checkout.CreatedAt,
		UpdatedAt:        checkout.UpdatedAt,
	}, nil
}

func buildOrderPayload(order domain.Order) (orderPayload, error) {
	items, err := buildItemPayloads(order.Items)
	if err != nil {
		return orderPayload{}, err
	}
	return orderPayload{
		ID:        order.ID,
		OrderedAt: order.OrderedAt,
		OrderedBy: actionedByPayload{
			ID:    order.OrderedBy.ID,
			Email: order.OrderedBy.Email,
		},
		DeliveryDetails:  buildDeliveryDetailsPayload(order.DeliveryDetails),
		Items:            items,
		Links:            orderLinksPayload{Self: order.Links.Self},
		PaymentReference: order.PaymentReference,
		Reference:        order.Reference,
		TotalOrderCost:   order.TotalOrderCost,
		Etag:             order.Etag,
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.UpdatedAt,
	}, nil
}
