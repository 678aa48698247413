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
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const orderEntity = "sales_order"

// SalesOrderService handles sales order commands and queries
type SalesOrderService struct {
	repo     sales.SalesOrderRepository
	quotes   sales.QuoteRepository
	accounts account.Repository
	lookups  lookup.Repository
	events   shared.EventPublisher
	logger   *zap.Logger
}

// NewSalesOrderService creates a new SalesOrderService
func NewSalesOrderService(
	repo sales.SalesOrderRepository,
	quotes sales.QuoteRepository,
	accounts account.Repository,
	lookups lookup.Repository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *SalesOrderService {
	return &SalesOrderService{
		repo:     repo,
		quotes:   quotes,
		accounts: accounts,
		lookups:  lookups,
		events:   events,
		logger:   logger,
	}
}

// Create places a sales order
func (s *SalesOrderService) Create(ctx context.Context, cmd CreateSalesOrderCommand) (*SalesOrderDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "sales_order.create", zap.String("correlation_id", cmd.CorrelationID))
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("created_by", cmd.CreatedBy), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return nil, op.Fail(err, "Rejected sales order create")
	}
	if err := cqrs.Validate(ctx, cmd, s.checks(cmd.fields(), uuid.Nil)...); err != nil {
		return nil, op.Fail(err, "Sales order validation failed")
	}

	o := sales.NewSalesOrder(cmd.fields(), cmd.CreatedBy, cmd.ModifiedBy)
	if err := s.repo.Add(ctx, o); err != nil {
		return nil, op.Fail(err, "Failed to create sales order")
	}

	op.Publish(ctx, s.events, shared.NewEntityChanged(orderEntity, o.ID, shared.ChangeCreated, cmd.CreatedBy))
	op.Succeed("Sales order created", zap.String("sales_order_id", o.ID.String()))
	return cqrs.Resolve(ctx, op, o, ToSalesOrderDTO, s.details), nil
}

// Update replaces the editable fields of an active order
func (s *SalesOrderService) Update(ctx context.Context, cmd UpdateSalesOrderCommand) (*SalesOrderDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "sales_order.update",
		zap.String("sales_order_id", cmd.ID.String()),
		zap.String("correlation_id", cmd.CorrelationID),
	)
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", cmd.ID), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return nil, op.Fail(err, "Rejected sales order update")
	}
	if err := cqrs.Validate(ctx, cmd, s.checks(cmd.fields(), cmd.ID)...); err != nil {
		return nil, op.Fail(err, "Sales order validation failed")
	}

	o, err := s.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		return nil, op.Fail(err, "Failed to load sales order")
	}
	o.Apply(cmd.fields(), cmd.ModifiedBy)
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, op.Fail(err, "Failed to update sales order")
	}

	op.Publish(ctx, s.events, shared.NewEntityChanged(orderEntity, o.ID, shared.ChangeUpdated, cmd.ModifiedBy))
	op.Succeed("Sales order updated")
	return cqrs.Resolve(ctx, op, o, ToSalesOrderDTO, s.details), nil
}

// Delete retires an order; false when missing or already retired
func (s *SalesOrderService) Delete(ctx context.Context, cmd DeleteCommand) (bool, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "sales_order.delete",
		zap.String("sales_order_id", cmd.ID.String()),
		zap.String("correlation_id", cmd.CorrelationID),
	)
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", cmd.ID), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return false, op.Fail(err, "Rejected sales order delete")
	}
	return cqrs.Retire[sales.SalesOrder](ctx, op, s.repo, s.events, orderEntity, cmd.ID, cmd.ModifiedBy)
}

// GetByID returns an order with its account and status names
func (s *SalesOrderService) GetByID(ctx context.Context, q GetByIDQuery) (*SalesOrderDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "sales_order.get_by_id", zap.String("sales_order_id", q.ID.String()))
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", q.ID)); err != nil {
		return nil, op.Fail(err, "Rejected sales order query")
	}
	o, err := cqrs.Load[sales.SalesOrder](ctx, s.repo, q.ID, q.IncludeRetired)
	if err != nil {
		return nil, op.Fail(err, "Failed to get sales order")
	}
	dto, err := s.details(ctx, o)
	if err != nil {
		return nil, op.Fail(err, "Failed to resolve sales order references")
	}

	op.Succeed("Sales order fetched")
	return dto, nil
}

// List pages through active orders
func (s *SalesOrderService) List(ctx context.Context, q ListQuery) (*shared.Paginated[SalesOrderSummary], error) {
	ctx, op := cqrs.Start(ctx, s.logger, "sales_order.list")
	defer op.End()

	page, err := cqrs.Page[sales.SalesOrder, SalesOrderSummary](ctx, s.repo, q.Filter, s.summaries)
	if err != nil {
		return nil, op.Fail(err, "Failed to list sales orders")
	}

	op.Succeed("Sales orders listed", zap.Int("count", len(page.Items)))
	return page, nil
}

// GetByStatus lists active orders whose status value matches. An unknown status yields an empty list.
func (s *SalesOrderService) GetByStatus(ctx context.Context, q GetByStatusQuery) ([]SalesOrderSummary, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "sales_order.get_by_status", zap.String("status", q.Status))
	defer op.End()

	if err := cqrs.Validate(ctx, q); err != nil {
		return nil, op.Fail(err, "Sales order query validation failed")
	}
	status, err := s.lookups.GetByValue(ctx, lookup.KindSalesOrderStatus, strings.TrimSpace(q.Status))
	if errors.Is(err, shared.ErrNotFound) {
		op.Noop("Unknown sales order status")
		return []SalesOrderSummary{}, nil
	}
	if err != nil {
		return nil, op.Fail(err, "Failed to resolve sales order status")
	}
	items, err := s.repo.GetByStatusID(ctx, status.ID)
	if err != nil {
		return nil, op.Fail(err, "Failed to get sales orders by status")
	}
	out, err := s.summaries(ctx, items)
	if err != nil {
		return nil, op.Fail(err, "Failed to resolve sales order references")
	}

	op.Succeed("Sales orders fetched", zap.Int("count", len(out)))
	return out, nil
}

// GetByOrderDateRange lists active orders placed between From and To inclusive
func (s *SalesOrderService) GetByOrderDateRange(ctx context.Context, q GetOrdersByDateRangeQuery) ([]SalesOrderSummary, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "sales_order.get_by_order_date_range",
		zap.Time("from", q.From),
		zap.Time("to", q.To),
	)
	defer op.End()

	if err := cqrs.Validate(ctx, q, cqrs.NotBefore("to", &q.To, "from", &q.From)); err != nil {
		return nil, op.Fail(err, "Sales order query validation failed")
	}
	items, err := s.repo.GetByOrderDateRange(ctx, q.From, q.To)
	if err != nil {
		return nil, op.Fail(err, "Failed to get sales orders by date")
	}
	out, err := s.summaries(ctx, items)
	if err != nil {
		return nil, op.Fail(err, "Failed to resolve sales order references")
	}

	op.Succeed("Sales orders fetched", zap.Int("count", len(out)))
	return out, nil
}

func (s *SalesOrderService) checks(f sales.SalesOrderFields, excludeID uuid.UUID) []cqrs.Check {
	number := strings.TrimSpace(f.OrderNumber)
	return []cqrs.Check{
		cqrs.Exists("account_id", "account", f.AccountID, s.accounts.Exists),
		cqrs.ExistsIfSet("quote_id", "quote", f.QuoteID, s.quotes.Exists),
		cqrs.LookupExists("sales_order_status_id", s.lookups, lookup.KindSalesOrderStatus, f.SalesOrderStatusID),
		cqrs.NotBefore("ship_date", f.ShipDate, "order_date", &f.OrderDate),
		cqrs.DecimalAtLeast("total_amount", f.TotalAmount, decimal.Zero),
		cqrs.Unique("order_number", "a sales order numbered "+number+" already exists", func(ctx context.Context) (bool, error) {
			return s.repo.ExistsByOrderNumber(ctx, number, excludeID)
		}),
	}
}

func (s *SalesOrderService) names(ctx context.Context, items []sales.SalesOrder) (statuses, accounts map[uuid.UUID]string, err error) {
	statusIDs := cqrs.DistinctIDs(items, func(o *sales.SalesOrder) *uuid.UUID { return cqrs.Ref(o.SalesOrderStatusID) })
	accountIDs := cqrs.DistinctIDs(items, func(o *sales.SalesOrder) *uuid.UUID { return cqrs.Ref(o.AccountID) })

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		statuses, err = cqrs.LookupNames(gctx, s.lookups, statusIDs)
		return err
	})
	g.Go(func() error {
		var err error
		accounts, err = cqrs.Names[account.Account](gctx, accountIDs, s.accounts.GetByIDs,
			func(a *account.Account) string { return a.Name })
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return statuses, accounts, nil
}

func (s *SalesOrderService) summaries(ctx context.Context, items []sales.SalesOrder) ([]SalesOrderSummary, error) {
	statuses, accounts, err := s.names(ctx, items)
	if err != nil {
		return nil, err
	}
	return cqrs.Map(items, func(o *sales.SalesOrder) SalesOrderSummary {
		sum := ToSalesOrderSummary(o)
		sum.SalesOrderStatus = statuses[o.SalesOrderStatusID]
		sum.AccountName = accounts[o.AccountID]
		return sum
	}), nil
}

func (s *SalesOrderService) details(ctx context.Context, o *sales.SalesOrder) (*SalesOrderDTO, error) {
	statuses, accounts, err := s.names(ctx, []sales.SalesOrder{*o})
	if err != nil {
		return nil, err
	}
	dto := ToSalesOrderDTO(o)
	dto.SalesOrderStatus = statuses[o.SalesOrderStatusID]
	dto.AccountName = accounts[o.AccountID]
	return dto, nil
}
