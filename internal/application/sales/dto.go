package sales

import (
	"time"

	"github.com/crm/backend/internal/application/cqrs"
	"github.com/crm/backend/internal/domain/sales"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductCommand represents a request to add a product to the catalog
type CreateProductCommand struct {
	Name            string          `json:"name" validate:"required,notblank,max=100"`
	SKU             string          `json:"sku" validate:"max=50"`
	Description     string          `json:"description" validate:"max=2000"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	OrdinalPosition int             `json:"ordinal_position" validate:"min=0"`
	CreatedBy       uuid.UUID       `json:"-"`
	ModifiedBy      uuid.UUID       `json:"-"`
	CorrelationID   string          `json:"-"`
}

// UpdateProductCommand replaces the editable fields of a product
type UpdateProductCommand struct {
	ID              uuid.UUID       `json:"-"`
	Name            string          `json:"name" validate:"required,notblank,max=100"`
	SKU             string          `json:"sku" validate:"max=50"`
	Description     string          `json:"description" validate:"max=2000"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	OrdinalPosition int             `json:"ordinal_position" validate:"min=0"`
	ModifiedBy      uuid.UUID       `json:"-"`
	CorrelationID   string          `json:"-"`
}

// CreateQuoteCommand represents a request to create a quote
type CreateQuoteCommand struct {
	QuoteNumber     string     `json:"quote_number" validate:"required,notblank,max=50"`
	AccountID       uuid.UUID  `json:"account_id" validate:"required"`
	QuoteStatusID   uuid.UUID  `json:"quote_status_id" validate:"required"`
	QuoteDate       time.Time  `json:"quote_date" validate:"required"`
	ExpirationDate  *time.Time `json:"expiration_date"`
	Notes           string     `json:"notes" validate:"max=4000"`
	OrdinalPosition int        `json:"ordinal_position" validate:"min=0"`
	CreatedBy       uuid.UUID  `json:"-"`
	ModifiedBy      uuid.UUID  `json:"-"`
	CorrelationID   string     `json:"-"`
}

// UpdateQuoteCommand replaces the editable fields of a quote
type UpdateQuoteCommand struct {
	ID              uuid.UUID  `json:"-"`
	QuoteNumber     string     `json:"quote_number" validate:"required,notblank,max=50"`
	AccountID       uuid.UUID  `json:"account_id" validate:"required"`
	QuoteStatusID   uuid.UUID  `json:"quote_status_id" validate:"required"`
	QuoteDate       time.Time  `json:"quote_date" validate:"required"`
	ExpirationDate  *time.Time `json:"expiration_date"`
	Notes           string     `json:"notes" validate:"max=4000"`
	OrdinalPosition int        `json:"ordinal_position" validate:"min=0"`
	ModifiedBy      uuid.UUID  `json:"-"`
	CorrelationID   string     `json:"-"`
}

// CreateLineItemCommand adds a product line to a quote
type CreateLineItemCommand struct {
	QuoteID         uuid.UUID       `json:"quote_id" validate:"required"`
	ProductID       uuid.UUID       `json:"product_id" validate:"required"`
	Quantity        int             `json:"quantity" validate:"min=1"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Notes           string          `json:"notes" validate:"max=1000"`
	OrdinalPosition int             `json:"ordinal_position" validate:"min=0"`
	CreatedBy       uuid.UUID       `json:"-"`
	ModifiedBy      uuid.UUID       `json:"-"`
	CorrelationID   string          `json:"-"`
}

// UpdateLineItemCommand replaces the editable fields of a line item. The quote never changes.
type UpdateLineItemCommand struct {
	ID              uuid.UUID       `json:"-"`
	ProductID       uuid.UUID       `json:"product_id" validate:"required"`
	Quantity        int             `json:"quantity" validate:"min=1"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Notes           string          `json:"notes" validate:"max=1000"`
	OrdinalPosition int             `json:"ordinal_position" validate:"min=0"`
	ModifiedBy      uuid.UUID       `json:"-"`
	CorrelationID   string          `json:"-"`
}

// CreateSalesOrderCommand represents a request to place an order
type CreateSalesOrderCommand struct {
	OrderNumber        string          `json:"order_number" validate:"required,notblank,max=50"`
	AccountID          uuid.UUID       `json:"account_id" validate:"required"`
	QuoteID            *uuid.UUID      `json:"quote_id"`
	SalesOrderStatusID uuid.UUID       `json:"sales_order_status_id" validate:"required"`
	OrderDate          time.Time       `json:"order_date" validate:"required"`
	ShipDate           *time.Time      `json:"ship_date"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	Notes              string          `json:"notes" validate:"max=4000"`
	OrdinalPosition    int             `json:"ordinal_position" validate:"min=0"`
	CreatedBy          uuid.UUID       `json:"-"`
	ModifiedBy         uuid.UUID       `json:"-"`
	CorrelationID      string          `json:"-"`
}

// UpdateSalesOrderCommand replaces the editable fields of an order
type UpdateSalesOrderCommand struct {
	ID                 uuid.UUID       `json:"-"`
	OrderNumber        string          `json:"order_number" validate:"required,notblank,max=50"`
	AccountID          uuid.UUID       `json:"account_id" validate:"required"`
	QuoteID            *uuid.UUID      `json:"quote_id"`
	SalesOrderStatusID uuid.UUID       `json:"sales_order_status_id" validate:"required"`
	OrderDate          time.Time       `json:"order_date" validate:"required"`
	ShipDate           *time.Time      `json:"ship_date"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	Notes              string          `json:"notes" validate:"max=4000"`
	OrdinalPosition    int             `json:"ordinal_position" validate:"min=0"`
	ModifiedBy         uuid.UUID       `json:"-"`
	CorrelationID      string          `json:"-"`
}

// DeleteCommand retires a sales record
type DeleteCommand struct {
	ID            uuid.UUID
	ModifiedBy    uuid.UUID
	CorrelationID string
}

// GetByIDQuery fetches one sales record
type GetByIDQuery struct {
	ID             uuid.UUID
	IncludeRetired bool
}

// ListQuery pages through active records
type ListQuery struct {
	Filter shared.Filter
}

// GetProductByNameQuery finds a product by name
type GetProductByNameQuery struct {
	Name string `validate:"required,max=100"`
}

// GetByStatusQuery selects quotes or orders by status value
type GetByStatusQuery struct {
	Status string `validate:"required,max=50"`
}

// GetOrdersByDateRangeQuery selects orders placed between From and To inclusive
type GetOrdersByDateRangeQuery struct {
	From time.Time `validate:"required"`
	To   time.Time `validate:"required"`
}

// ProductDTO is the details shape of a product
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	cqrs.AuditDTO
}

// ProductSummary is the list shape of a product
type ProductSummary struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	SKU             string          `json:"sku"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	OrdinalPosition int             `json:"ordinal_position"`
	Active          bool            `json:"active"`
}

// LineItemDTO is a quote line with its computed total
type LineItemDTO struct {
	ID              uuid.UUID       `json:"id"`
	QuoteID         uuid.UUID       `json:"quote_id"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	LineTotal       decimal.Decimal `json:"line_total"`
	Notes           string          `json:"notes"`
	OrdinalPosition int             `json:"ordinal_position"`
	Active          bool            `json:"active"`
}

// QuoteDTO is the details shape of a quote, with line items and total
type QuoteDTO struct {
	ID             uuid.UUID       `json:"id"`
	QuoteNumber    string          `json:"quote_number"`
	AccountID      uuid.UUID       `json:"account_id"`
	AccountName    string          `json:"account_name"`
	QuoteStatusID  uuid.UUID       `json:"quote_status_id"`
	QuoteStatus    string          `json:"quote_status"`
	QuoteDate      time.Time       `json:"quote_date"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
	Notes          string          `json:"notes"`
	LineItems      []LineItemDTO   `json:"line_items"`
	Total          decimal.Decimal `json:"total"`
	cqrs.AuditDTO
}

// QuoteSummary is the list shape of a quote
type QuoteSummary struct {
	ID              uuid.UUID  `json:"id"`
	QuoteNumber     string     `json:"quote_number"`
	AccountName     string     `json:"account_name"`
	QuoteStatus     string     `json:"quote_status"`
	QuoteDate       time.Time  `json:"quote_date"`
	ExpirationDate  *time.Time `json:"expiration_date,omitempty"`
	OrdinalPosition int        `json:"ordinal_position"`
	Active          bool       `json:"active"`
}

// SalesOrderDTO is the details shape of a sales order
type SalesOrderDTO struct {
	ID                 uuid.UUID       `json:"id"`
	OrderNumber        string          `json:"order_number"`
	AccountID          uuid.UUID       `json:"account_id"`
	AccountName        string          `json:"account_name"`
	QuoteID            *uuid.UUID      `json:"quote_id,omitempty"`
	SalesOrderStatusID uuid.UUID       `json:"sales_order_status_id"`
	SalesOrderStatus   string          `json:"sales_order_status"`
	OrderDate          time.Time       `json:"order_date"`
	ShipDate           *time.Time      `json:"ship_date,omitempty"`
	Shipped            bool            `json:"shipped"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	Notes              string          `json:"notes"`
	cqrs.AuditDTO
}

// SalesOrderSummary is the list shape of a sales order
type SalesOrderSummary struct {
	ID               uuid.UUID       `json:"id"`
	OrderNumber      string          `json:"order_number"`
	AccountName      string          `json:"account_name"`
	SalesOrderStatus string          `json:"sales_order_status"`
	OrderDate        time.Time       `json:"order_date"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	Shipped          bool            `json:"shipped"`
	OrdinalPosition  int             `json:"ordinal_position"`
	Active           bool            `json:"active"`
}

// ToProductDTO maps a product to its details DTO
func ToProductDTO(p *sales.Product) *ProductDTO {
	return &ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		SKU:         p.SKU,
		Description: p.Description,
		UnitPrice:   p.UnitPrice,
		AuditDTO:    cqrs.ToAuditDTO(&p.BaseEntity),
	}
}

// ToProductSummary maps a product to its list DTO
func ToProductSummary(p *sales.Product) ProductSummary {
	return ProductSummary{
		ID:              p.ID,
		Name:            p.Name,
		SKU:             p.SKU,
		UnitPrice:       p.UnitPrice,
		OrdinalPosition: p.OrdinalPosition,
		Active:          p.IsActive(),
	}
}

// ToLineItemDTO maps a line item and computes its total
func ToLineItemDTO(li *sales.QuoteLineItem) LineItemDTO {
	return LineItemDTO{
		ID:              li.ID,
		QuoteID:         li.QuoteID,
		ProductID:       li.ProductID,
		Quantity:        li.Quantity,
		UnitPrice:       li.UnitPrice,
		DiscountPercent: li.DiscountPercent,
		LineTotal:       li.LineTotal(),
		Notes:           li.Notes,
		OrdinalPosition: li.OrdinalPosition,
		Active:          li.IsActive(),
	}
}

// ToQuoteDTO maps a quote with whatever line items are loaded on it
func ToQuoteDTO(q *sales.Quote) *QuoteDTO {
	return &QuoteDTO{
		ID:             q.ID,
		QuoteNumber:    q.QuoteNumber,
		AccountID:      q.AccountID,
		QuoteStatusID:  q.QuoteStatusID,
		QuoteDate:      q.QuoteDate,
		ExpirationDate: q.ExpirationDate,
		Notes:          q.Notes,
		LineItems:      cqrs.Map(q.LineItems, ToLineItemDTO),
		Total:          q.Total(),
		AuditDTO:       cqrs.ToAuditDTO(&q.BaseEntity),
	}
}

// ToQuoteSummary maps a quote to its list DTO
func ToQuoteSummary(q *sales.Quote) QuoteSummary {
	return QuoteSummary{
		ID:              q.ID,
		QuoteNumber:     q.QuoteNumber,
		QuoteDate:       q.QuoteDate,
		ExpirationDate:  q.ExpirationDate,
		OrdinalPosition: q.OrdinalPosition,
		Active:          q.IsActive(),
	}
}

// ToSalesOrderDTO maps an order to its details DTO
func ToSalesOrderDTO(o *sales.SalesOrder) *SalesOrderDTO {
	return &SalesOrderDTO{
		ID:                 o.ID,
		OrderNumber:        o.OrderNumber,
		AccountID:          o.AccountID,
		QuoteID:            o.QuoteID,
		SalesOrderStatusID: o.SalesOrderStatusID,
		OrderDate:          o.OrderDate,
		ShipDate:           o.ShipDate,
		Shipped:            o.IsShipped(),
		TotalAmount:        o.TotalAmount,
		Notes:              o.Notes,
		AuditDTO:           cqrs.ToAuditDTO(&o.BaseEntity),
	}
}

// ToSalesOrderSummary maps an order to its list DTO
func ToSalesOrderSummary(o *sales.SalesOrder) SalesOrderSummary {
	return SalesOrderSummary{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		OrderDate:       o.OrderDate,
		TotalAmount:     o.TotalAmount,
		Shipped:         o.IsShipped(),
		OrdinalPosition: o.OrdinalPosition,
		Active:          o.IsActive(),
	}
}

func (c CreateProductCommand) fields() sales.ProductFields {
	return sales.ProductFields{Name: c.Name, SKU: c.SKU, Description: c.Description, UnitPrice: c.UnitPrice, OrdinalPosition: c.OrdinalPosition}
}

func (c UpdateProductCommand) fields() sales.ProductFields {
	return sales.ProductFields{Name: c.Name, SKU: c.SKU, Description: c.Description, UnitPrice: c.UnitPrice, OrdinalPosition: c.OrdinalPosition}
}

func (c CreateQuoteCommand) fields() sales.QuoteFields {
	return sales.QuoteFields{
		QuoteNumber: c.QuoteNumber, AccountID: c.AccountID, QuoteStatusID: c.QuoteStatusID,
		QuoteDate: c.QuoteDate, ExpirationDate: c.ExpirationDate, Notes: c.Notes,
		OrdinalPosition: c.OrdinalPosition,
	}
}

func (c UpdateQuoteCommand) fields() sales.QuoteFields {
	return sales.QuoteFields{
		QuoteNumber: c.QuoteNumber, AccountID: c.AccountID, QuoteStatusID: c.QuoteStatusID,
		QuoteDate: c.QuoteDate, ExpirationDate: c.ExpirationDate, Notes: c.Notes,
		OrdinalPosition: c.OrdinalPosition,
	}
}

func (c CreateLineItemCommand) fields() sales.LineItemFields {
	return sales.LineItemFields{
		QuoteID: c.QuoteID, ProductID: c.ProductID, Quantity: c.Quantity,
		UnitPrice: c.UnitPrice, DiscountPercent: c.DiscountPercent, Notes: c.Notes,
		OrdinalPosition: c.OrdinalPosition,
	}
}

func (c UpdateLineItemCommand) fields() sales.LineItemFields {
	return sales.LineItemFields{
		ProductID: c.ProductID, Quantity: c.Quantity,
		UnitPrice: c.UnitPrice, DiscountPercent: c.DiscountPercent, Notes: c.Notes,
		OrdinalPosition: c.OrdinalPosition,
	}
}

func (c CreateSalesOrderCommand) fields() sales.SalesOrderFields {
	return sales.SalesOrderFields{
		OrderNumber: c.OrderNumber, AccountID: c.AccountID, QuoteID: c.QuoteID,
		SalesOrderStatusID: c.SalesOrderStatusID, OrderDate: c.OrderDate, ShipDate: c.ShipDate,
		TotalAmount: c.TotalAmount, Notes: c.Notes, OrdinalPosition: c.OrdinalPosition,
	}
}

func (c UpdateSalesOrderCommand) fields() sales.SalesOrderFields {
	return sales.SalesOrderFields{
		OrderNumber: c.OrderNumber, AccountID: c.AccountID, QuoteID: c.QuoteID,
		SalesOrderStatusID: c.SalesOrderStatusID, OrderDate: c.OrderDate, ShipDate: c.ShipDate,
		TotalAmount: c.TotalAmount, Notes: c.Notes, OrdinalPosition: c.OrdinalPosition,
	}
}
