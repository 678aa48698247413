package sales

import (
	"context"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	shared.Repository[Product]

	// GetByName finds the active product with the name, case-insensitively
	GetByName(ctx context.Context, name string) (*Product, error)

	// ExistsByName checks if another active product uses the name
	ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)
}

// QuoteRepository defines the interface for quote persistence
type QuoteRepository interface {
	shared.Repository[Quote]

	// LoadLineItems fills quote.LineItems with its active line items
	LoadLineItems(ctx context.Context, quote *Quote) error

	// GetByStatusID finds active quotes with the given status
	GetByStatusID(ctx context.Context, statusID uuid.UUID) ([]Quote, error)

	// GetByAccountID finds active quotes for an account
	GetByAccountID(ctx context.Context, accountID uuid.UUID) ([]Quote, error)

	// ExistsByQuoteNumber checks if another active quote uses the number
	ExistsByQuoteNumber(ctx context.Context, number string, excludeID uuid.UUID) (bool, error)
}

// QuoteLineItemRepository defines the interface for quote line item persistence
type QuoteLineItemRepository interface {
	shared.Repository[QuoteLineItem]

	// GetByQuoteID finds the active line items of a quote in display order
	GetByQuoteID(ctx context.Context, quoteID uuid.UUID) ([]QuoteLineItem, error)
}

// SalesOrderRepository defines the interface for sales order persistence
type SalesOrderRepository interface {
	shared.Repository[SalesOrder]

	// GetByStatusID finds active orders with the given status
	GetByStatusID(ctx context.Context, statusID uuid.UUID) ([]SalesOrder, error)

	// GetByOrderDateRange finds active orders with from <= order date <= to
	GetByOrderDateRange(ctx context.Context, from, to time.Time) ([]SalesOrder, error)

	// ExistsByOrderNumber checks if another active order uses the number
	ExistsByOrderNumber(ctx context.Context, number string, excludeID uuid.UUID) (bool, error)
}
