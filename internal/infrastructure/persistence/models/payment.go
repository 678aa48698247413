package models

import (
	"time"

	"github.com/crm/backend/internal/domain/payment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentModel is the persistence model for the Payment domain entity
type PaymentModel struct {
	EntityModel
	SalesOrderID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	PaymentMethodID uuid.UUID       `gorm:"type:uuid;not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaymentDate     time.Time       `gorm:"not null"`
	ReferenceNumber string          `gorm:"type:varchar(50)"`
	Notes           string          `gorm:"type:varchar(1000)"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment
func (m *PaymentModel) ToDomain() *payment.Payment {
	return &payment.Payment{
		BaseEntity:      m.EntityModel.ToDomain(),
		SalesOrderID:    m.SalesOrderID,
		AccountID:       m.AccountID,
		PaymentMethodID: m.PaymentMethodID,
		Amount:          m.Amount,
		PaymentDate:     m.PaymentDate.UTC(),
		ReferenceNumber: m.ReferenceNumber,
		Notes:           m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Payment
func (m *PaymentModel) FromDomain(p *payment.Payment) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.SalesOrderID = p.SalesOrderID
	m.AccountID = p.AccountID
	m.PaymentMethodID = p.PaymentMethodID
	m.Amount = p.Amount
	m.PaymentDate = p.PaymentDate.UTC()
	m.ReferenceNumber = p.ReferenceNumber
	m.Notes = p.Notes
}
