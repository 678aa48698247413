// Package payment models money received against sales orders.
package payment

import (
	"context"
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is an amount an account paid toward a sales order
type Payment struct {
	shared.BaseEntity
	SalesOrderID    uuid.UUID
	AccountID       uuid.UUID
	PaymentMethodID uuid.UUID
	Amount          decimal.Decimal
	PaymentDate     time.Time
	ReferenceNumber string
	Notes           string
}

// Fields are the caller-supplied attributes of a payment
type Fields struct {
	SalesOrderID    uuid.UUID
	AccountID       uuid.UUID
	PaymentMethodID uuid.UUID
	Amount          decimal.Decimal
	PaymentDate     time.Time
	ReferenceNumber string
	Notes           string
	OrdinalPosition int
}

// NewPayment creates a new active payment
func NewPayment(f Fields, createdBy, modifiedBy uuid.UUID) *Payment {
	p := &Payment{BaseEntity: shared.NewBaseEntity(f.OrdinalPosition, createdBy, modifiedBy)}
	p.assign(f)
	return p
}

// Apply overwrites the caller-supplied attributes and stamps the actor
func (p *Payment) Apply(f Fields, actor uuid.UUID) {
	p.assign(f)
	p.OrdinalPosition = f.OrdinalPosition
	p.Touch(actor)
}

func (p *Payment) assign(f Fields) {
	p.SalesOrderID = f.SalesOrderID
	p.AccountID = f.AccountID
	p.PaymentMethodID = f.PaymentMethodID
	p.Amount = f.Amount.Round(2)
	p.PaymentDate = f.PaymentDate
	p.ReferenceNumber = strings.TrimSpace(f.ReferenceNumber)
	p.Notes = f.Notes
}

// Repository defines the interface for payment persistence
type Repository interface {
	shared.Repository[Payment]

	// GetBySalesOrderID finds active payments against an order, oldest first
	GetBySalesOrderID(ctx context.Context, salesOrderID uuid.UUID) ([]Payment, error)

	// GetByAccountID finds active payments made by an account, oldest first
	GetByAccountID(ctx context.Context, accountID uuid.UUID) ([]Payment, error)
}
