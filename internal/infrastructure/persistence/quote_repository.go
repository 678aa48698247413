package persistence

import (
	"context"

	"github.com/crm/backend/internal/domain/sales"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormQuoteRepository implements sales.QuoteRepository using GORM
type GormQuoteRepository struct {
	*gormRepository[sales.Quote, models.QuoteModel, *models.QuoteModel]
	lineItems *GormQuoteLineItemRepository
}

// NewGormQuoteRepository creates a new GormQuoteRepository
func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{
		gormRepository: newGormRepository[sales.Quote, models.QuoteModel, *models.QuoteModel](
			db, []string{"quote_number", "quote_date", "expiration_date"}, "quote_number", "notes"),
		lineItems: NewGormQuoteLineItemRepository(db),
	}
}

// LoadLineItems fills quote.LineItems with its active line items in display order
func (r *GormQuoteRepository) LoadLineItems(ctx context.Context, quote *sales.Quote) error {
	items, err := r.lineItems.GetByQuoteID(ctx, quote.ID)
	if err != nil {
		return err
	}
	quote.LineItems = items
	return nil
}

// GetByStatusID finds active quotes with the given status
func (r *GormQuoteRepository) GetByStatusID(ctx context.Context, statusID uuid.UUID) ([]sales.Quote, error) {
	return r.findWhere(ctx, "quote_date", "quote_status_id = ?", statusID)
}

// GetByAccountID finds active quotes for an account
func (r *GormQuoteRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID) ([]sales.Quote, error) {
	return r.findWhere(ctx, "quote_date", "account_id = ?", accountID)
}

// ExistsByQuoteNumber checks if another active quote uses the number
func (r *GormQuoteRepository) ExistsByQuoteNumber(ctx context.Context, number string, excludeID uuid.UUID) (bool, error) {
	return r.existsOther(ctx, "quote_number", number, excludeID)
}

// GormQuoteLineItemRepository implements sales.QuoteLineItemRepository using GORM
type GormQuoteLineItemRepository struct {
	*gormRepository[sales.QuoteLineItem, models.QuoteLineItemModel, *models.QuoteLineItemModel]
}

// NewGormQuoteLineItemRepository creates a new GormQuoteLineItemRepository
func NewGormQuoteLineItemRepository(db *gorm.DB) *GormQuoteLineItemRepository {
	return &GormQuoteLineItemRepository{
		gormRepository: newGormRepository[sales.QuoteLineItem, models.QuoteLineItemModel, *models.QuoteLineItemModel](
			db, []string{"quantity", "unit_price"}, "notes"),
	}
}

// GetByQuoteID finds the active line items of a quote in display order
func (r *GormQuoteLineItemRepository) GetByQuoteID(ctx context.Context, quoteID uuid.UUID) ([]sales.QuoteLineItem, error) {
	return r.findWhere(ctx, "ordinal_position", "quote_id = ?", quoteID)
}

var (
	_ sales.QuoteRepository         = (*GormQuoteRepository)(nil)
	_ sales.QuoteLineItemRepository = (*GormQuoteLineItemRepository)(nil)
)
