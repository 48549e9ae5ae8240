package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Item kind discriminators. Each maps to exactly one ItemOptions variant.
const (
	KindCertificate          = "item#certificate"
	KindCertifiedCopy        = "item#certified-copy"
	KindMissingImageDelivery = "item#missing-image-delivery"
)

// ErrUnknownItemKind indicates an item's kind has no registered options
// variant. This is a data/schema mismatch, fatal to the read that hit it.
var ErrUnknownItemKind = errors.New("item options: unknown kind")

// ErrItemOptionsDecode indicates an options document was present but could
// not be decoded into the variant selected by the item's kind.
var ErrItemOptionsDecode = errors.New("item options: decode failed")

// ItemOptions is the closed set of per-kind item configuration variants.
// The kind discriminator selects the concrete type; implementations are
// sealed to this package.
type ItemOptions interface {
	ItemKind() string
}

// DirectorOrSecretaryDetails controls which officer attributes appear on a
// certificate.
type DirectorOrSecretaryDetails struct {
	IncludeAddress            bool   `json:"include_address,omitempty"`
	IncludeAppointmentDate    bool   `json:"include_appointment_date,omitempty"`
	IncludeBasicInformation   bool   `json:"include_basic_information,omitempty"`
	IncludeCountryOfResidence bool   `json:"include_country_of_residence,omitempty"`
	IncludeDobType            string `json:"include_dob_type,omitempty"`
	IncludeNationality        bool   `json:"include_nationality,omitempty"`
	IncludeOccupation         bool   `json:"include_occupation,omitempty"`
	Forename                  string `json:"forename,omitempty"`
	Surname                   string `json:"surname,omitempty"`
}

// RegisteredOfficeAddressDetails controls registered office disclosure on a
// certificate.
type RegisteredOfficeAddressDetails struct {
	IncludeAddressRecordsType string `json:"include_address_records_type,omitempty"`
	IncludeDates              bool   `json:"include_dates,omitempty"`
}

// CertificateItemOptions configures a company certificate item.
type CertificateItemOptions struct {
	CertificateType                  string                          `json:"certificate_type,omitempty"`
	CollectionLocation               string                          `json:"collection_location,omitempty"`
	ContactNumber                    string                          `json:"contact_number,omitempty"`
	DeliveryMethod                   string                          `json:"delivery_method,omitempty"`
	DeliveryTimescale                string                          `json:"delivery_timescale,omitempty"`
	DirectorDetails                  *DirectorOrSecretaryDetails     `json:"director_details,omitempty"`
	SecretaryDetails                 *DirectorOrSecretaryDetails     `json:"secretary_details,omitempty"`
	RegisteredOfficeAddressDetails   *RegisteredOfficeAddressDetails `json:"registered_office_address_details,omitempty"`
	ForeName                         string                          `json:"forename,omitempty"`
	Surname                          string                          `json:"surname,omitempty"`
	IncludeCompanyObjectsInformation bool                            `json:"include_company_objects_information,omitempty"`
	IncludeEmailCopy                 bool                            `json:"include_email_copy,omitempty"`
	IncludeGoodStandingInformation   bool                            `json:"include_good_standing_information,omitempty"`
}

// ItemKind implements ItemOptions.
func (*CertificateItemOptions) ItemKind() string { return KindCertificate }

// FilingHistoryDocument references one filing to be certified or delivered.
type FilingHistoryDocument struct {
	FilingHistoryDate              string         `json:"filing_history_date,omitempty"`
	FilingHistoryDescription       string         `json:"filing_history_description,omitempty"`
	FilingHistoryDescriptionValues map[string]any `json:"filing_history_description_values,omitempty"`
	FilingHistoryID                string         `json:"filing_history_id,omitempty"`
	FilingHistoryType              string         `json:"filing_history_type,omitempty"`
	FilingHistoryCost              string         `json:"filing_history_cost,omitempty"`
}

// CertifiedCopyItemOptions configures a certified copy item.
type CertifiedCopyItemOptions struct {
	DeliveryMethod         string                  `json:"delivery_method,omitempty"`
	DeliveryTimescale      string                  `json:"delivery_timescale,omitempty"`
	FilingHistoryDocuments []FilingHistoryDocument `json:"filing_history_documents,omitempty"`
}

// ItemKind implements ItemOptions.
func (*CertifiedCopyItemOptions) ItemKind() string { return KindCertifiedCopy }

// MissingImageDeliveryItemOptions configures a missing image delivery item.
type MissingImageDeliveryItemOptions struct {
	FilingHistoryDate              string         `json:"filing_history_date,omitempty"`
	FilingHistoryDescription       string         `json:"filing_history_description,omitempty"`
	FilingHistoryDescriptionValues map[string]any `json:"filing_history_description_values,omitempty"`
	FilingHistoryID                string         `json:"filing_history_id,omitempty"`
	FilingHistoryType              string         `json:"filing_history_type,omitempty"`
	FilingHistoryCategory          string         `json:"filing_history_category,omitempty"`
}

// ItemKind implements ItemOptions.
func (*MissingImageDeliveryItemOptions) ItemKind() string { return KindMissingImageDelivery }

// itemOptionsRegistry maps each known kind to a constructor for its variant.
// New kinds register here and nowhere else.
var itemOptionsRegistry = map[string]func() ItemOptions{
	KindCertificate:          func() ItemOptions { return &CertificateItemOptions{} },
	KindCertifiedCopy:        func() ItemOptions { return &CertifiedCopyItemOptions{} },
	KindMissingImageDelivery: func() ItemOptions { return &MissingImageDeliveryItemOptions{} },
}

// ResolveItemOptions returns a zero-valued options variant for the given kind,
// or ErrUnknownItemKind when the kind has no registry entry.
func ResolveItemOptions(kind string) (ItemOptions, error) {
	construct, ok := itemOptionsRegistry[strings.TrimSpace(kind)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownItemKind, kind)
	}
	return construct(), nil
}

// DecodeItemOptions rehydrates the generic options document read from storage
// into the variant selected by kind. A nil document yields nil options: not
// every stored item snapshot carries options. Decode failures wrap the cause
// and must fail the surrounding read.
func DecodeItemOptions(kind string, raw map[string]any) (ItemOptions, error) {
	if raw == nil {
		return nil, nil
	}

	options, err := ResolveItemOptions(kind)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: kind %s: %v", ErrItemOptionsDecode, kind, err)
	}
	if err := json.Unmarshal(data, options); err != nil {
		return nil, fmt.Errorf("%w: kind %s: %v", ErrItemOptionsDecode, kind, err)
	}
	return options, nil
}

// EncodeItemOptions converts a typed options variant back into the generic
// document shape written to storage. Nil options encode to a nil document.
func EncodeItemOptions(options ItemOptions) (map[string]any, error) {
	if options == nil {
		return nil, nil
	}

	data, err := json.Marshal(options)
	if err != nil {
		return nil, fmt.Errorf("item options: encode %s: %w", options.ItemKind(), err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("item options: encode %s: %w", options.ItemKind(), err)
	}
	return doc, nil
}
