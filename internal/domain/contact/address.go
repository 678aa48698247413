package contact

import (
	"strings"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Address is a postal address that can be linked to people and companies
type Address struct {
	shared.BaseEntity
	Line1         string
	Line2         string
	City          string
	StateProvince string
	PostalCode    string
	Country       string
	AddressTypeID uuid.UUID
}

// AddressFields are the caller-supplied attributes of an address
type AddressFields struct {
	Line1           string
	Line2           string
	City            string
	StateProvince   string
	PostalCode      string
	Country         string
	AddressTypeID   uuid.UUID
	OrdinalPosition int
}

// NewAddress creates a new active address
func NewAddress(f AddressFields, createdBy, modifiedBy uuid.UUID) *Address {
	a := &Address{BaseEntity: shared.NewBaseEntity(f.OrdinalPosition, createdBy, modifiedBy)}
	a.assign(f)
	return a
}

// Apply overwrites the caller-supplied attributes and stamps the actor
func (a *Address) Apply(f AddressFields, actor uuid.UUID) {
	a.assign(f)
	a.OrdinalPosition = f.OrdinalPosition
	a.Touch(actor)
}

// SingleLine renders the address on one line, skipping empty parts
func (a *Address) SingleLine() string {
	parts := make([]string, 0, 6)
	for _, s := range []string{a.Line1, a.Line2, a.City, a.StateProvince, a.PostalCode, a.Country} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

func (a *Address) assign(f AddressFields) {
	a.Line1 = strings.TrimSpace(f.Line1)
	a.Line2 = strings.TrimSpace(f.Line2)
	a.City = strings.TrimSpace(f.City)
	a.StateProvince = strings.TrimSpace(f.StateProvince)
	a.PostalCode = strings.TrimSpace(f.PostalCode)
	a.Country = strings.TrimSpace(f.Country)
	a.AddressTypeID = f.AddressTypeID
}
