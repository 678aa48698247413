package payment

import (
	"time"

	"github.com/crm/backend/internal/application/cqrs"
	"github.com/crm/backend/internal/domain/payment"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreatePaymentCommand records money received against an order
type CreatePaymentCommand struct {
	SalesOrderID    uuid.UUID       `json:"sales_order_id" validate:"required"`
	AccountID       uuid.UUID       `json:"account_id" validate:"required"`
	PaymentMethodID uuid.UUID       `json:"payment_method_id" validate:"required"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentDate     time.Time       `json:"payment_date" validate:"required"`
	ReferenceNumber string          `json:"reference_number" validate:"max=50"`
	Notes           string          `json:"notes" validate:"max=1000"`
	OrdinalPosition int             `json:"ordinal_position" validate:"min=0"`
	CreatedBy       uuid.UUID       `json:"-"`
	ModifiedBy      uuid.UUID       `json:"-"`
	CorrelationID   string          `json:"-"`
}

// UpdatePaymentCommand replaces the editable fields of a payment
type UpdatePaymentCommand struct {
	ID              uuid.UUID       `json:"-"`
	SalesOrderID    uuid.UUID       `json:"sales_order_id" validate:"required"`
	AccountID       uuid.UUID       `json:"account_id" validate:"required"`
	PaymentMethodID uuid.UUID       `json:"payment_method_id" validate:"required"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentDate     time.Time       `json:"payment_date" validate:"required"`
	ReferenceNumber string          `json:"reference_number" validate:"max=50"`
	Notes           string          `json:"notes" validate:"max=1000"`
	OrdinalPosition int             `json:"ordinal_position" validate:"min=0"`
	ModifiedBy      uuid.UUID       `json:"-"`
	CorrelationID   string          `json:"-"`
}

// DeletePaymentCommand retires a payment
type DeletePaymentCommand struct {
	ID            uuid.UUID
	ModifiedBy    uuid.UUID
	CorrelationID string
}

// GetPaymentByIDQuery fetches one payment
type GetPaymentByIDQuery struct {
	ID             uuid.UUID
	IncludeRetired bool
}

// ListPaymentsQuery pages through active payments
type ListPaymentsQuery struct {
	Filter shared.Filter
}

// PaymentDTO is the details shape of a payment
type PaymentDTO struct {
	ID              uuid.UUID       `json:"id"`
	SalesOrderID    uuid.UUID       `json:"sales_order_id"`
	OrderNumber     string          `json:"order_number"`
	AccountID       uuid.UUID       `json:"account_id"`
	AccountName     string          `json:"account_name"`
	PaymentMethodID uuid.UUID       `json:"payment_method_id"`
	PaymentMethod   string          `json:"payment_method"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentDate     time.Time       `json:"payment_date"`
	ReferenceNumber string          `json:"reference_number"`
	Notes           string          `json:"notes"`
	cqrs.AuditDTO
}

// PaymentSummary is the list shape of a payment
type PaymentSummary struct {
	ID              uuid.UUID       `json:"id"`
	OrderNumber     string          `json:"order_number"`
	AccountName     string          `json:"account_name"`
	PaymentMethod   string          `json:"payment_method"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentDate     time.Time       `json:"payment_date"`
	ReferenceNumber string          `json:"reference_number"`
	OrdinalPosition int             `json:"ordinal_position"`
	Active          bool            `json:"active"`
}

// ToPaymentDTO maps a payment to its details DTO
func ToPaymentDTO(p *payment.Payment) *PaymentDTO {
	return &PaymentDTO{
		ID:              p.ID,
		SalesOrderID:    p.SalesOrderID,
		AccountID:       p.AccountID,
		PaymentMethodID: p.PaymentMethodID,
		Amount:          p.Amount,
		PaymentDate:     p.PaymentDate,
		ReferenceNumber: p.ReferenceNumber,
		Notes:           p.Notes,
		AuditDTO:        cqrs.ToAuditDTO(&p.BaseEntity),
	}
}

// ToPaymentSummary maps a payment to its list DTO
func ToPaymentSummary(p *payment.Payment) PaymentSummary {
	return PaymentSummary{
		ID:              p.ID,
		Amount:          p.Amount,
		PaymentDate:     p.PaymentDate,
		ReferenceNumber: p.ReferenceNumber,
		OrdinalPosition: p.OrdinalPosition,
		Active:          p.IsActive(),
	}
}

func (c CreatePaymentCommand) fields() payment.Fields {
	return payment.Fields{
		SalesOrderID: c.SalesOrderID, AccountID: c.AccountID, PaymentMethodID: c.PaymentMethodID,
		Amount: c.Amount, PaymentDate: c.PaymentDate, ReferenceNumber: c.ReferenceNumber,
		Notes: c.Notes, OrdinalPosition: c.OrdinalPosition,
	}
}

func (c UpdatePaymentCommand) fields() payment.Fields {
	return payment.Fields{
		SalesOrderID: c.SalesOrderID, AccountID: c.AccountID, PaymentMethodID: c.PaymentMethodID,
		Amount: c.Amount, PaymentDate: c.PaymentDate, ReferenceNumber: c.ReferenceNumber,
		Notes: c.Notes, OrdinalPosition: c.OrdinalPosition,
	}
}
