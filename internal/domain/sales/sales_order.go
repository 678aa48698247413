package sales

import (
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesOrder is a confirmed order placed by an account, optionally from a quote
type SalesOrder struct {
	shared.BaseEntity
	OrderNumber        string
	AccountID          uuid.UUID
	QuoteID            *uuid.UUID
	SalesOrderStatusID uuid.UUID
	OrderDate          time.Time
	ShipDate           *time.Time
	TotalAmount        decimal.Decimal
	Notes              string
}

// SalesOrderFields are the caller-supplied attributes of a sales order
type SalesOrderFields struct {
	OrderNumber        string
	AccountID          uuid.UUID
	QuoteID            *uuid.UUID
	SalesOrderStatusID uuid.UUID
	OrderDate          time.Time
	ShipDate           *time.Time
	TotalAmount        decimal.Decimal
	Notes              string
	OrdinalPosition    int
}

// NewSalesOrder creates a new active sales order
func NewSalesOrder(f SalesOrderFields, createdBy, modifiedBy uuid.UUID) *SalesOrder {
	o := &SalesOrder{BaseEntity: shared.NewBaseEntity(f.OrdinalPosition, createdBy, modifiedBy)}
	o.assign(f)
	return o
}

// Apply overwrites the caller-supplied attributes and stamps the actor
func (o *SalesOrder) Apply(f SalesOrderFields, actor uuid.UUID) {
	o.assign(f)
	o.OrdinalPosition = f.OrdinalPosition
	o.Touch(actor)
}

// IsShipped reports whether a ship date is recorded
func (o *SalesOrder) IsShipped() bool {
	return o.ShipDate != nil
}

func (o *SalesOrder) assign(f SalesOrderFields) {
	o.OrderNumber = strings.TrimSpace(f.OrderNumber)
	o.AccountID = f.AccountID
	o.QuoteID = f.QuoteID
	o.SalesOrderStatusID = f.SalesOrderStatusID
	o.OrderDate = f.OrderDate
	o.ShipDate = f.ShipDate
	o.TotalAmount = f.TotalAmount.Round(2)
	o.Notes = f.Notes
}
