package payment

import (
	"context"

	"github.com/crm/backend/internal/application/cqrs"
	"github.com/crm/backend/internal/domain/account"
	"github.com/crm/backend/internal/domain/lookup"
	"github.com/crm/backend/internal/domain/payment"
	"github.com/crm/backend/internal/domain/sales"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const entityName = "payment"

// PaymentService handles payment commands and queries
type PaymentService struct {
	repo     payment.Repository
	orders   sales.SalesOrderRepository
	accounts account.Repository
	lookups  lookup.Repository
	events   shared.EventPublisher
	logger   *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	repo payment.Repository,
	orders sales.SalesOrderRepository,
	accounts account.Repository,
	lookups lookup.Repository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		repo:     repo,
		orders:   orders,
		accounts: accounts,
		lookups:  lookups,
		events:   events,
		logger:   logger,
	}
}

// Create records a payment
func (s *PaymentService) Create(ctx context.Context, cmd CreatePaymentCommand) (*PaymentDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "payment.create",
		zap.String("sales_order_id", cmd.SalesOrderID.String()),
		zap.String("correlation_id", cmd.CorrelationID),
	)
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("created_by", cmd.CreatedBy), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return nil, op.Fail(err, "Rejected payment create")
	}
	if err := cqrs.Validate(ctx, cmd, s.checks(cmd.fields())...); err != nil {
		return nil, op.Fail(err, "Payment validation failed")
	}

	p := payment.NewPayment(cmd.fields(), cmd.CreatedBy, cmd.ModifiedBy)
	if err := s.repo.Add(ctx, p); err != nil {
		return nil, op.Fail(err, "Failed to create payment")
	}

	op.Publish(ctx, s.events, shared.NewEntityChanged(entityName, p.ID, shared.ChangeCreated, cmd.CreatedBy))
	op.Succeed("Payment created",
		zap.String("payment_id", p.ID.String()),
		zap.String("amount", p.Amount.StringFixed(2)),
	)
	return cqrs.Resolve(ctx, op, p, ToPaymentDTO, s.details), nil
}

// Update replaces the editable fields of an active payment
func (s *PaymentService) Update(ctx context.Context, cmd UpdatePaymentCommand) (*PaymentDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "payment.update",
		zap.String("payment_id", cmd.ID.String()),
		zap.String("correlation_id", cmd.CorrelationID),
	)
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", cmd.ID), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return nil, op.Fail(err, "Rejected payment update")
	}
	if err := cqrs.Validate(ctx, cmd, s.checks(cmd.fields())...); err != nil {
		return nil, op.Fail(err, "Payment validation failed")
	}

	p, err := s.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		return nil, op.Fail(err, "Failed to load payment")
	}
	p.Apply(cmd.fields(), cmd.ModifiedBy)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, op.Fail(err, "Failed to update payment")
	}

	op.Publish(ctx, s.events, shared.NewEntityChanged(entityName, p.ID, shared.ChangeUpdated, cmd.ModifiedBy))
	op.Succeed("Payment updated")
	return cqrs.Resolve(ctx, op, p, ToPaymentDTO, s.details), nil
}

// Delete retires a payment; false when missing or already retired
func (s *PaymentService) Delete(ctx context.Context, cmd DeletePaymentCommand) (bool, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "payment.delete",
		zap.String("payment_id", cmd.ID.String()),
		zap.String("correlation_id", cmd.CorrelationID),
	)
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", cmd.ID), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return false, op.Fail(err, "Rejected payment delete")
	}
	return cqrs.Retire[payment.Payment](ctx, op, s.repo, s.events, entityName, cmd.ID, cmd.ModifiedBy)
}

// GetByID returns a payment with its order number, account and method names
func (s *PaymentService) GetByID(ctx context.Context, q GetPaymentByIDQuery) (*PaymentDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "payment.get_by_id", zap.String("payment_id", q.ID.String()))
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", q.ID)); err != nil {
		return nil, op.Fail(err, "Rejected payment query")
	}
	p, err := cqrs.Load[payment.Payment](ctx, s.repo, q.ID, q.IncludeRetired)
	if err != nil {
		return nil, op.Fail(err, "Failed to get payment")
	}
	dto, err := s.details(ctx, p)
	if err != nil {
		return nil, op.Fail(err, "Failed to resolve payment references")
	}

	op.Succeed("Payment fetched")
	return dto, nil
}

// List pages through active payments
func (s *PaymentService) List(ctx context.Context, q ListPaymentsQuery) (*shared.Paginated[PaymentSummary], error) {
	ctx, op := cqrs.Start(ctx, s.logger, "payment.list")
	defer op.End()

	page, err := cqrs.Page[payment.Payment, PaymentSummary](ctx, s.repo, q.Filter, s.summaries)
	if err != nil {
		return nil, op.Fail(err, "Failed to list payments")
	}

	op.Succeed("Payments listed", zap.Int("count", len(page.Items)))
	return page, nil
}

// GetBySalesOrder lists active payments against an order, oldest first
func (s *PaymentService) GetBySalesOrder(ctx context.Context, salesOrderID uuid.UUID) ([]PaymentSummary, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "payment.get_by_sales_order", zap.String("sales_order_id", salesOrderID.String()))
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("sales_order_id", salesOrderID)); err != nil {
		return nil, op.Fail(err, "Rejected payment query")
	}
	items, err := s.repo.GetBySalesOrderID(ctx, salesOrderID)
	if err != nil {
		return nil, op.Fail(err, "Failed to get payments by sales order")
	}
	out, err := s.summaries(ctx, items)
	if err != nil {
		return nil, op.Fail(err, "Failed to resolve payment references")
	}

	op.Succeed("Payments fetched", zap.Int("count", len(out)))
	return out, nil
}

// GetByAccount lists active payments made by an account, oldest first
func (s *PaymentService) GetByAccount(ctx context.Context, accountID uuid.UUID) ([]PaymentSummary, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "payment.get_by_account", zap.String("account_id", accountID.String()))
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("account_id", accountID)); err != nil {
		return nil, op.Fail(err, "Rejected payment query")
	}
	items, err := s.repo.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, op.Fail(err, "Failed to get payments by account")
	}
	out, err := s.summaries(ctx, items)
	if err != nil {
		return nil, op.Fail(err, "Failed to resolve payment references")
	}

	op.Succeed("Payments fetched", zap.Int("count", len(out)))
	return out, nil
}

func (s *PaymentService) checks(f payment.Fields) []cqrs.Check {
	return []cqrs.Check{
		cqrs.Exists("sales_order_id", "sales order", f.SalesOrderID, s.orders.Exists),
		cqrs.Exists("account_id", "account", f.AccountID, s.accounts.Exists),
		cqrs.LookupExists("payment_method_id", s.lookups, lookup.KindPaymentMethod, f.PaymentMethodID),
		cqrs.DecimalAbove("amount", f.Amount, decimal.Zero),
	}
}

type paymentNames struct {
	orders   map[uuid.UUID]string
	accounts map[uuid.UUID]string
	methods  map[uuid.UUID]string
}

func (s *PaymentService) names(ctx context.Context, items []payment.Payment) (*paymentNames, error) {
	orderIDs := cqrs.DistinctIDs(items, func(p *payment.Payment) *uuid.UUID { return cqrs.Ref(p.SalesOrderID) })
	accountIDs := cqrs.DistinctIDs(items, func(p *payment.Payment) *uuid.UUID { return cqrs.Ref(p.AccountID) })
	methodIDs := cqrs.DistinctIDs(items, func(p *payment.Payment) *uuid.UUID { return cqrs.Ref(p.PaymentMethodID) })

	n := &paymentNames{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		n.orders, err = cqrs.Names[sales.SalesOrder](gctx, orderIDs, s.orders.GetByIDs,
			func(o *sales.SalesOrder) string { return o.OrderNumber })
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
		n.methods, err = cqrs.LookupNames(gctx, s.lookups, methodIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *PaymentService) summaries(ctx context.Context, items []payment.Payment) ([]PaymentSummary, error) {
	n, err := s.names(ctx, items)
	if err != nil {
		return nil, err
	}
	return cqrs.Map(items, func(p *payment.Payment) PaymentSummary {
		sum := ToPaymentSummary(p)
		sum.OrderNumber = n.orders[p.SalesOrderID]
		sum.AccountName = n.accounts[p.AccountID]
		sum.PaymentMethod = n.methods[p.PaymentMethodID]
		return sum
	}), nil
}

func (s *PaymentService) details(ctx context.Context, p *payment.Payment) (*PaymentDTO, error) {
	n, err := s.names(ctx, []payment.Payment{*p})
	if err != nil {
		return nil, err
	}
	dto := ToPaymentDTO(p)
	dto.OrderNumber = n.orders[p.SalesOrderID]
	dto.AccountName = n.accounts[p.AccountID]
	dto.PaymentMethod = n.methods[p.PaymentMethodID]
	return dto, nil
}
