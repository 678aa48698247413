// Package lookup holds the reference tables (statuses, types, methods) the other contexts point at.
// Every table shares one shape, so a single kind-keyed aggregate serves all of them.
package lookup

import (
	"strings"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// Kind identifies one reference table
type Kind string

const (
	KindAccountStatus    Kind = "account_status"
	KindAccountType      Kind = "account_type"
	KindActivityStatus   Kind = "activity_status"
	KindActivityType     Kind = "activity_type"
	KindAddressType      Kind = "address_type"
	KindPhoneType        Kind = "phone_type"
	KindQuoteStatus      Kind = "quote_status"
	KindSalesOrderStatus Kind = "sales_order_status"
	KindPaymentMethod    Kind = "payment_method"
)

// kindInfo describes how a kind is addressed and labelled
type kindInfo struct {
	slug  string
	label string
}

var kinds = map[Kind]kindInfo{
	KindAccountStatus:    {slug: "account-statuses", label: "account status"},
	KindAccountType:      {slug: "account-types", label: "account type"},
	KindActivityStatus:   {slug: "activity-statuses", label: "activity status"},
	KindActivityType:     {slug: "activity-types", label: "activity type"},
	KindAddressType:      {slug: "address-types", label: "address type"},
	KindPhoneType:        {slug: "phone-types", label: "phone type"},
	KindQuoteStatus:      {slug: "quote-statuses", label: "quote status"},
	KindSalesOrderStatus: {slug: "sales-order-statuses", label: "sales order status"},
	KindPaymentMethod:    {slug: "payment-methods", label: "payment method"},
}

// Kinds returns every known kind
func Kinds() []Kind {
	return []Kind{
		KindAccountStatus, KindAccountType,
		KindActivityStatus, KindActivityType,
		KindAddressType, KindPhoneType,
		KindQuoteStatus, KindSalesOrderStatus,
		KindPaymentMethod,
	}
}

// IsValid reports whether k is a known kind
func (k Kind) IsValid() bool {
	_, ok := kinds[k]
	return ok
}

// Slug is the URL path segment for the kind, e.g. "account-statuses"
func (k Kind) Slug() string {
	return kinds[k].slug
}

// Label is the human name for the kind, e.g. "account status"
func (k Kind) Label() string {
	if info, ok := kinds[k]; ok {
		return info.label
	}
	return string(k)
}

// KindFromSlug resolves a URL path segment to a kind
func KindFromSlug(slug string) (Kind, bool) {
	for k, info := range kinds {
		if info.slug == slug {
			return k, true
		}
	}
	return "", false
}

// NormalizeValue is the case-insensitive form used for uniqueness checks.
// A Caser is stateful, so each call gets its own.
func NormalizeValue(value string) string {
	return cases.Fold().String(strings.TrimSpace(value))
}

// Lookup is one row of a reference table
type Lookup struct {
	shared.BaseEntity
	Kind        Kind
	Value       string
	Description string
}

// Fields are the caller-supplied attributes of a lookup
type Fields struct {
	Value           string
	Description     string
	OrdinalPosition int
}

// NewLookup creates an active lookup of kind
func NewLookup(kind Kind, f Fields, createdBy, modifiedBy uuid.UUID) *Lookup {
	return &Lookup{
		BaseEntity:  shared.NewBaseEntity(f.OrdinalPosition, createdBy, modifiedBy),
		Kind:        kind,
		Value:       strings.TrimSpace(f.Value),
		Description: f.Description,
	}
}

// Apply overwrites the caller-supplied attributes. Kind never changes.
func (l *Lookup) Apply(f Fields, actor uuid.UUID) {
	l.Value = strings.TrimSpace(f.Value)
	l.Description = f.Description
	l.OrdinalPosition = f.OrdinalPosition
	l.Touch(actor)
}
