package sales

import (
	"context"

	"github.com/crm/backend/internal/application/cqrs"
	"github.com/crm/backend/internal/domain/sales"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const lineItemEntity = "quote_line_item"

var hundred = decimal.NewFromInt(100)

// LineItemService handles quote line item commands and queries
type LineItemService struct {
	repo     sales.QuoteLineItemRepository
	quotes   sales.QuoteRepository
	products sales.ProductRepository
	events   shared.EventPublisher
	logger   *zap.Logger
}

// NewLineItemService creates a new LineItemService
func NewLineItemService(
	repo sales.QuoteLineItemRepository,
	quotes sales.QuoteRepository,
	products sales.ProductRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *LineItemService {
	return &LineItemService{repo: repo, quotes: quotes, products: products, events: events, logger: logger}
}

// Create adds a line to an active quote
func (s *LineItemService) Create(ctx context.Context, cmd CreateLineItemCommand) (*LineItemDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "quote_line_item.create",
		zap.String("quote_id", cmd.QuoteID.String()),
		zap.String("correlation_id", cmd.CorrelationID),
	)
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("created_by", cmd.CreatedBy), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return nil, op.Fail(err, "Rejected line item create")
	}
	checks := append(s.checks(cmd.fields()),
		cqrs.Exists("quote_id", "quote", cmd.QuoteID, s.quotes.Exists))
	if err := cqrs.Validate(ctx, cmd, checks...); err != nil {
		return nil, op.Fail(err, "Line item validation failed")
	}

	li := sales.NewQuoteLineItem(cmd.fields(), cmd.CreatedBy, cmd.ModifiedBy)
	if err := s.repo.Add(ctx, li); err != nil {
		return nil, op.Fail(err, "Failed to create line item")
	}

	op.Publish(ctx, s.events, shared.NewEntityChanged(lineItemEntity, li.ID, shared.ChangeCreated, cmd.CreatedBy))
	op.Succeed("Line item created", zap.String("line_item_id", li.ID.String()))
	return cqrs.Resolve(ctx, op, li, plainLineItem, s.details), nil
}

// Update replaces the editable fields of an active line item
func (s *LineItemService) Update(ctx context.Context, cmd UpdateLineItemCommand) (*LineItemDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "quote_line_item.update",
		zap.String("line_item_id", cmd.ID.String()),
		zap.String("correlation_id", cmd.CorrelationID),
	)
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", cmd.ID), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return nil, op.Fail(err, "Rejected line item update")
	}
	if err := cqrs.Validate(ctx, cmd, s.checks(cmd.fields())...); err != nil {
		return nil, op.Fail(err, "Line item validation failed")
	}

	li, err := s.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		return nil, op.Fail(err, "Failed to load line item")
	}
	li.Apply(cmd.fields(), cmd.ModifiedBy)
	if err := s.repo.Update(ctx, li); err != nil {
		return nil, op.Fail(err, "Failed to update line item")
	}

	op.Publish(ctx, s.events, shared.NewEntityChanged(lineItemEntity, li.ID, shared.ChangeUpdated, cmd.ModifiedBy))
	op.Succeed("Line item updated")
	return cqrs.Resolve(ctx, op, li, plainLineItem, s.details), nil
}

// Delete retires a line item; false when missing or already retired
func (s *LineItemService) Delete(ctx context.Context, cmd DeleteCommand) (bool, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "quote_line_item.delete",
		zap.String("line_item_id", cmd.ID.String()),
		zap.String("correlation_id", cmd.CorrelationID),
	)
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", cmd.ID), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return false, op.Fail(err, "Rejected line item delete")
	}
	return cqrs.Retire[sales.QuoteLineItem](ctx, op, s.repo, s.events, lineItemEntity, cmd.ID, cmd.ModifiedBy)
}

// GetByID returns a line item with its product name
func (s *LineItemService) GetByID(ctx context.Context, q GetByIDQuery) (*LineItemDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "quote_line_item.get_by_id", zap.String("line_item_id", q.ID.String()))
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", q.ID)); err != nil {
		return nil, op.Fail(err, "Rejected line item query")
	}
	li, err := cqrs.Load[sales.QuoteLineItem](ctx, s.repo, q.ID, q.IncludeRetired)
	if err != nil {
		return nil, op.Fail(err, "Failed to get line item")
	}
	dto, err := s.details(ctx, li)
	if err != nil {
		return nil, op.Fail(err, "Failed to resolve line item product")
	}

	op.Succeed("Line item fetched")
	return dto, nil
}

// GetByQuote lists the active lines of a quote in display order
func (s *LineItemService) GetByQuote(ctx context.Context, quoteID uuid.UUID) ([]LineItemDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "quote_line_item.get_by_quote", zap.String("quote_id", quoteID.String()))
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("quote_id", quoteID)); err != nil {
		return nil, op.Fail(err, "Rejected line item query")
	}
	lines, err := s.repo.GetByQuoteID(ctx, quoteID)
	if err != nil {
		return nil, op.Fail(err, "Failed to get line items by quote")
	}
	items, err := s.withProducts(ctx, lines)
	if err != nil {
		return nil, op.Fail(err, "Failed to resolve line item products")
	}

	op.Succeed("Line items fetched", zap.Int("count", len(items)))
	return items, nil
}

func (s *LineItemService) checks(f sales.LineItemFields) []cqrs.Check {
	return []cqrs.Check{
		cqrs.Exists("product_id", "product", f.ProductID, s.products.Exists),
		cqrs.DecimalAtLeast("unit_price", f.UnitPrice, decimal.Zero),
		cqrs.DecimalBetween("discount_percent", f.DiscountPercent, decimal.Zero, hundred),
	}
}

func (s *LineItemService) withProducts(ctx context.Context, lines []sales.QuoteLineItem) ([]LineItemDTO, error) {
	ids := cqrs.DistinctIDs(lines, func(li *sales.QuoteLineItem) *uuid.UUID { return cqrs.Ref(li.ProductID) })
	names, err := productNames(ctx, s.products, ids)
	if err != nil {
		return nil, err
	}
	return cqrs.Map(lines, func(li *sales.QuoteLineItem) LineItemDTO {
		dto := ToLineItemDTO(li)
		dto.ProductName = names[li.ProductID]
		return dto
	}), nil
}

func (s *LineItemService) details(ctx context.Context, li *sales.QuoteLineItem) (*LineItemDTO, error) {
	items, err := s.withProducts(ctx, []sales.QuoteLineItem{*li})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

func plainLineItem(li *sales.QuoteLineItem) *LineItemDTO {
	dto := ToLineItemDTO(li)
	return &dto
}
