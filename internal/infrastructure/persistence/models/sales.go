package models

import (
	"time"

	"github.com/crm/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product domain entity
type ProductModel struct {
	EntityModel
	Name        string          `gorm:"type:varchar(100);not null;index"`
	SKU         string          `gorm:"column:sku;type:varchar(50)"`
	Description string          `gorm:"type:text"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *sales.Product {
	return &sales.Product{
		BaseEntity:  m.EntityModel.ToDomain(),
		Name:        m.Name,
		SKU:         m.SKU,
		Description: m.Description,
		UnitPrice:   m.UnitPrice,
	}
}

// FromDomain populates the persistence model from a domain Product
func (m *ProductModel) FromDomain(p *sales.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Name = p.Name
	m.SKU = p.SKU
	m.Description = p.Description
	m.UnitPrice = p.UnitPrice
}

// QuoteModel is the persistence model for the Quote domain entity.
// Line items live in their own table and are loaded separately.
type QuoteModel struct {
	EntityModel
	QuoteNumber    string     `gorm:"type:varchar(50);not null;index"`
	AccountID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	QuoteStatusID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	QuoteDate      time.Time  `gorm:"not null"`
	ExpirationDate *time.Time
	Notes          string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (QuoteModel) TableName() string {
	return "quotes"
}

// ToDomain converts the persistence model to a domain Quote without line items
func (m *QuoteModel) ToDomain() *sales.Quote {
	return &sales.Quote{
		BaseEntity:     m.EntityModel.ToDomain(),
		QuoteNumber:    m.QuoteNumber,
		AccountID:      m.AccountID,
		QuoteStatusID:  m.QuoteStatusID,
		QuoteDate:      m.QuoteDate.UTC(),
		ExpirationDate: timePtrUTC(m.ExpirationDate),
		Notes:          m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Quote
func (m *QuoteModel) FromDomain(q *sales.Quote) {
	m.FromDomainBaseEntity(q.BaseEntity)
	m.QuoteNumber = q.QuoteNumber
	m.AccountID = q.AccountID
	m.QuoteStatusID = q.QuoteStatusID
	m.QuoteDate = q.QuoteDate.UTC()
	m.ExpirationDate = timePtrUTC(q.ExpirationDate)
	m.Notes = q.Notes
}

// QuoteLineItemModel is the persistence model for the QuoteLineItem domain entity
type QuoteLineItemModel struct {
	EntityModel
	QuoteID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity        int             `gorm:"not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Notes           string          `gorm:"type:varchar(1000)"`
}

// TableName returns the table name for GORM
func (QuoteLineItemModel) TableName() string {
	return "quote_line_items"
}

// ToDomain converts the persistence model to a domain QuoteLineItem
func (m *QuoteLineItemModel) ToDomain() *sales.QuoteLineItem {
	return &sales.QuoteLineItem{
		BaseEntity:      m.EntityModel.ToDomain(),
		QuoteID:         m.QuoteID,
		ProductID:       m.ProductID,
		Quantity:        m.Quantity,
		UnitPrice:       m.UnitPrice,
		DiscountPercent: m.DiscountPercent,
		Notes:           m.Notes,
	}
}

// FromDomain populates the persistence model from a domain QuoteLineItem
func (m *QuoteLineItemModel) FromDomain(li *sales.QuoteLineItem) {
	m.FromDomainBaseEntity(li.BaseEntity)
	m.QuoteID = li.QuoteID
	m.ProductID = li.ProductID
	m.Quantity = li.Quantity
	m.UnitPrice = li.UnitPrice
	m.DiscountPercent = li.DiscountPercent
	m.Notes = li.Notes
}

// SalesOrderModel is the persistence model for the SalesOrder domain entity
type SalesOrderModel struct {
	EntityModel
	OrderNumber        string          `gorm:"type:varchar(50);not null;index"`
	AccountID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	QuoteID            *uuid.UUID      `gorm:"type:uuid"`
	SalesOrderStatusID uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderDate          time.Time       `gorm:"not null;index"`
	ShipDate           *time.Time
	TotalAmount        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Notes              string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SalesOrderModel) TableName() string {
	return "sales_orders"
}

// ToDomain converts the persistence model to a domain SalesOrder
func (m *SalesOrderModel) ToDomain() *sales.SalesOrder {
	return &sales.SalesOrder{
		BaseEntity:         m.EntityModel.ToDomain(),
		OrderNumber:        m.OrderNumber,
		AccountID:          m.AccountID,
		QuoteID:            m.QuoteID,
		SalesOrderStatusID: m.SalesOrderStatusID,
		OrderDate:          m.OrderDate.UTC(),
		ShipDate:           timePtrUTC(m.ShipDate),
		TotalAmount:        m.TotalAmount,
		Notes:              m.Notes,
	}
}

// FromDomain populates the persistence model from a domain SalesOrder
func (m *SalesOrderModel) FromDomain(o *sales.SalesOrder) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.OrderNumber = o.OrderNumber
	m.AccountID = o.AccountID
	m.QuoteID = o.QuoteID
	m.SalesOrderStatusID = o.SalesOrderStatusID
	m.OrderDate = o.OrderDate.UTC()
	m.ShipDate = timePtrUTC(o.ShipDate)
	m.TotalAmount = o.TotalAmount
	m.Notes = o.Notes
}
