// Package sales models products, quotes with their line items, and sales orders.
package sales

import (
	"strings"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is something the organization sells
type Product struct {
	shared.BaseEntity
	Name        string
	SKU         string
	Description string
	UnitPrice   decimal.Decimal
}

// ProductFields are the caller-supplied attributes of a product
type ProductFields struct {
	Name            string
	SKU             string
	Description     string
	UnitPrice       decimal.Decimal
	OrdinalPosition int
}

// NewProduct creates a new active product
func NewProduct(f ProductFields, createdBy, modifiedBy uuid.UUID) *Product {
	p := &Product{BaseEntity: shared.NewBaseEntity(f.OrdinalPosition, createdBy, modifiedBy)}
	p.assign(f)
	return p
}

// Apply overwrites the caller-supplied attributes and stamps the actor
func (p *Product) Apply(f ProductFields, actor uuid.UUID) {
	p.assign(f)
	p.OrdinalPosition = f.OrdinalPosition
	p.Touch(actor)
}

func (p *Product) assign(f ProductFields) {
	p.Name = strings.TrimSpace(f.Name)
	p.SKU = strings.ToUpper(strings.TrimSpace(f.SKU))
	p.Description = f.Description
	p.UnitPrice = f.UnitPrice.Round(4)
}
