package sales

import (
	"context"
	"errors"
	"strings"

	"github.com/crm/backend/internal/application/cqrs"
	"github.com/crm/backend/internal/domain/account"
	"github.com/crm/backend/internal/domain/lookup"
	"github.com/crm/backend/internal/domain/sales"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const quoteEntity = "quote"

// QuoteService handles quote commands and queries
type QuoteService struct {
	repo     sales.QuoteRepository
	products sales.ProductRepository
	accounts account.Repository
	lookups  lookup.Repository
	events   shared.EventPublisher
	logger   *zap.Logger
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(
	repo sales.QuoteRepository,
	products sales.ProductRepository,
	accounts account.Repository,
	lookups lookup.Repository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *QuoteService {
	return &QuoteService{
		repo:     repo,
		products: products,
		accounts: accounts,
		lookups:  lookups,
		events:   events,
		logger:   logger,
	}
}

// Create creates a quote without line items
func (s *QuoteService) Create(ctx context.Context, cmd CreateQuoteCommand) (*QuoteDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "quote.create", zap.String("correlation_id", cmd.CorrelationID))
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("created_by", cmd.CreatedBy), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return nil, op.Fail(err, "Rejected quote create")
	}
	if err := cqrs.Validate(ctx, cmd, s.checks(cmd.fields(), uuid.Nil)...); err != nil {
		return nil, op.Fail(err, "Quote validation failed")
	}

	q := sales.NewQuote(cmd.fields(), cmd.CreatedBy, cmd.ModifiedBy)
	if err := s.repo.Add(ctx, q); err != nil {
		return nil, op.Fail(err, "Failed to create quote")
	}

	op.Publish(ctx, s.events, shared.NewEntityChanged(quoteEntity, q.ID, shared.ChangeCreated, cmd.CreatedBy))
	op.Succeed("Quote created", zap.String("quote_id", q.ID.String()))
	return cqrs.Resolve(ctx, op, q, ToQuoteDTO, s.details), nil
}

// Update replaces the header fields of an active quote. Line items are untouched.
func (s *QuoteService) Update(ctx context.Context, cmd UpdateQuoteCommand) (*QuoteDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "quote.update",
		zap.String("quote_id", cmd.ID.String()),
		zap.String("correlation_id", cmd.CorrelationID),
	)
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", cmd.ID), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return nil, op.Fail(err, "Rejected quote update")
	}
	if err := cqrs.Validate(ctx, cmd, s.checks(cmd.fields(), cmd.ID)...); err != nil {
		return nil, op.Fail(err, "Quote validation failed")
	}

	q, err := s.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		return nil, op.Fail(err, "Failed to load quote")
	}
	q.Apply(cmd.fields(), cmd.ModifiedBy)
	if err := s.repo.Update(ctx, q); err != nil {
		return nil, op.Fail(err, "Failed to update quote")
	}

	op.Publish(ctx, s.events, shared.NewEntityChanged(quoteEntity, q.ID, shared.ChangeUpdated, cmd.ModifiedBy))
	if err := s.repo.LoadLineItems(ctx, q); err != nil {
		op.Logger().Warn("Failed to load line items for updated quote", zap.Error(err))
	}
	op.Succeed("Quote updated")
	return cqrs.Resolve(ctx, op, q, ToQuoteDTO, s.details), nil
}

// Delete retires a quote; false when missing or already retired
func (s *QuoteService) Delete(ctx context.Context, cmd DeleteCommand) (bool, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "quote.delete",
		zap.String("quote_id", cmd.ID.String()),
		zap.String("correlation_id", cmd.CorrelationID),
	)
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", cmd.ID), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return false, op.Fail(err, "Rejected quote delete")
	}
	return cqrs.Retire[sales.Quote](ctx, op, s.repo, s.events, quoteEntity, cmd.ID, cmd.ModifiedBy)
}

// GetByID returns a quote with its line items, product names and total
func (s *QuoteService) GetByID(ctx context.Context, q GetByIDQuery) (*QuoteDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "quote.get_by_id", zap.String("quote_id", q.ID.String()))
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", q.ID)); err != nil {
		return nil, op.Fail(err, "Rejected quote query")
	}
	quote, err := cqrs.Load[sales.Quote](ctx, s.repo, q.ID, q.IncludeRetired)
	if err != nil {
		return nil, op.Fail(err, "Failed to get quote")
	}
	if err := s.repo.LoadLineItems(ctx, quote); err != nil {
		return nil, op.Fail(err, "Failed to load quote line items")
	}
	dto, err := s.details(ctx, quote)
	if err != nil {
		return nil, op.Fail(err, "Failed to resolve quote references")
	}

	op.Succeed("Quote fetched", zap.Int("line_items", len(dto.LineItems)))
	return dto, nil
}

// List pages through active quotes
func (s *QuoteService) List(ctx context.Context, q ListQuery) (*shared.Paginated[QuoteSummary], error) {
	ctx, op := cqrs.Start(ctx, s.logger, "quote.list")
	defer op.End()

	page, err := cqrs.Page[sales.Quote, QuoteSummary](ctx, s.repo, q.Filter, s.summaries)
	if err != nil {
		return nil, op.Fail(err, "Failed to list quotes")
	}

	op.Succeed("Quotes listed", zap.Int("count", len(page.Items)))
	return page, nil
}

// GetByStatus lists active quotes whose status value matches. An unknown status yields an empty list.
func (s *QuoteService) GetByStatus(ctx context.Context, q GetByStatusQuery) ([]QuoteSummary, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "quote.get_by_status", zap.String("status", q.Status))
	defer op.End()

	if err := cqrs.Validate(ctx, q); err != nil {
		return nil, op.Fail(err, "Quote query validation failed")
	}
	status, err := s.lookups.GetByValue(ctx, lookup.KindQuoteStatus, strings.TrimSpace(q.Status))
	if errors.Is(err, shared.ErrNotFound) {
		op.Noop("Unknown quote status")
		return []QuoteSummary{}, nil
	}
	if err != nil {
		return nil, op.Fail(err, "Failed to resolve quote status")
	}
	items, err := s.repo.GetByStatusID(ctx, status.ID)
	if err != nil {
		return nil, op.Fail(err, "Failed to get quotes by status")
	}
	out, err := s.summaries(ctx, items)
	if err != nil {
		return nil, op.Fail(err, "Failed to resolve quote references")
	}

	op.Succeed("Quotes fetched", zap.Int("count", len(out)))
	return out, nil
}

// GetByAccount lists active quotes for an account
func (s *QuoteService) GetByAccount(ctx context.Context, accountID uuid.UUID) ([]QuoteSummary, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "quote.get_by_account", zap.String("account_id", accountID.String()))
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("account_id", accountID)); err != nil {
		return nil, op.Fail(err, "Rejected quote query")
	}
	items, err := s.repo.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, op.Fail(err, "Failed to get quotes by account")
	}
	out, err := s.summaries(ctx, items)
	if err != nil {
		return nil, op.Fail(err, "Failed to resolve quote references")
	}

	op.Succeed("Quotes fetched", zap.Int("count", len(out)))
	return out, nil
}

func (s *QuoteService) checks(f sales.QuoteFields, excludeID uuid.UUID) []cqrs.Check {
	number := strings.TrimSpace(f.QuoteNumber)
	return []cqrs.Check{
		cqrs.Exists("account_id", "account", f.AccountID, s.accounts.Exists),
		cqrs.LookupExists("quote_status_id", s.lookups, lookup.KindQuoteStatus, f.QuoteStatusID),
		cqrs.NotBefore("expiration_date", f.ExpirationDate, "quote_date", &f.QuoteDate),
		cqrs.Unique("quote_number", "a quote numbered "+number+" already exists", func(ctx context.Context) (bool, error) {
			return s.repo.ExistsByQuoteNumber(ctx, number, excludeID)
		}),
	}
}

type quoteNames struct {
	statuses map[uuid.UUID]string
	accounts map[uuid.UUID]string
	products map[uuid.UUID]string
}

func (s *QuoteService) names(ctx context.Context, quotes []sales.Quote, lines []sales.QuoteLineItem) (*quoteNames, error) {
	statusIDs := cqrs.DistinctIDs(quotes, func(q *sales.Quote) *uuid.UUID { return cqrs.Ref(q.QuoteStatusID) })
	accountIDs := cqrs.DistinctIDs(quotes, func(q *sales.Quote) *uuid.UUID { return cqrs.Ref(q.AccountID) })
	productIDs := cqrs.DistinctIDs(lines, func(li *sales.QuoteLineItem) *uuid.UUID { return cqrs.Ref(li.ProductID) })

	n := &quoteNames{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		n.statuses, err = cqrs.LookupNames(gctx, s.lookups, statusIDs)
		return err
	})
	g.Go(func() error {
		var err error
		n.accounts, err = cqrs.Names[account.Account](gctx, accountIDs, s.accounts.GetByIDs,
			func(a *account.Account) string { return a.Name })
		return err
	})
	g.Go(func() error {
		var err error
		n.products, err = productNames(gctx, s.products, productIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *QuoteService) details(ctx context.Context, q *sales.Quote) (*QuoteDTO, error) {
	n, err := s.names(ctx, []sales.Quote{*q}, q.LineItems)
	if err != nil {
		return nil, err
	}
	dto := ToQuoteDTO(q)
	dto.AccountName = n.accounts[q.AccountID]
	dto.QuoteStatus = n.statuses[q.QuoteStatusID]
	for i := range dto.LineItems {
		dto.LineItems[i].ProductName = n.products[dto.LineItems[i].ProductID]
	}
	return dto, nil
}

func (s *QuoteService) summaries(ctx context.Context, items []sales.Quote) ([]QuoteSummary, error) {
	n, err := s.names(ctx, items, nil)
	if err != nil {
		return nil, err
	}
	return cqrs.Map(items, func(q *sales.Quote) QuoteSummary {
		sum := ToQuoteSummary(q)
		sum.AccountName = n.accounts[q.AccountID]
		sum.QuoteStatus = n.statuses[q.QuoteStatusID]
		return sum
	}), nil
}

func productNames(ctx context.Context, products sales.ProductRepository, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	return cqrs.Names[sales.Product](ctx, ids, products.GetByIDs, func(p *sales.Product) string { return p.Name })
}
