package account

import (
	"context"
	"errors"
	"strings"

	"github.com/crm/backend/internal/application/cqrs"
	"github.com/crm/backend/internal/domain/account"
	"github.com/crm/backend/internal/domain/contact"
	"github.com/crm/backend/internal/domain/lookup"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const entityName = "account"

// AccountService handles account commands and queries
type AccountService struct {
	repo      account.Repository
	lookups   lookup.Repository
	companies contact.CompanyRepository
	events    shared.EventPublisher
	logger    *zap.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(
	repo account.Repository,
	lookups lookup.Repository,
	companies contact.CompanyRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		repo:      repo,
		lookups:   lookups,
		companies: companies,
		events:    events,
		logger:    logger,
	}
}

// Create creates a new account
func (s *AccountService) Create(ctx context.Context, cmd CreateAccountCommand) (*AccountDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "account.create", zap.String("correlation_id", cmd.CorrelationID))
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("created_by", cmd.CreatedBy), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return nil, op.Fail(err, "Rejected account create")
	}
	if err := cqrs.Validate(ctx, cmd, s.checks(cmd.fields(), uuid.Nil)...); err != nil {
		return nil, op.Fail(err, "Account validation failed")
	}

	a := account.NewAccount(cmd.fields(), cmd.CreatedBy, cmd.ModifiedBy)
	if err := s.repo.Add(ctx, a); err != nil {
		return nil, op.Fail(err, "Failed to create account")
	}

	op.Publish(ctx, s.events, shared.NewEntityChanged(entityName, a.ID, shared.ChangeCreated, cmd.CreatedBy))
	op.Succeed("Account created", zap.String("account_id", a.ID.String()))
	return cqrs.Resolve(ctx, op, a, ToAccountDTO, s.details), nil
}

// Update replaces the editable fields of an active account
func (s *AccountService) Update(ctx context.Context, cmd UpdateAccountCommand) (*AccountDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "account.update",
		zap.String("account_id", cmd.ID.String()),
		zap.String("correlation_id", cmd.CorrelationID),
	)
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", cmd.ID), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return nil, op.Fail(err, "Rejected account update")
	}
	if err := cqrs.Validate(ctx, cmd, s.checks(cmd.fields(), cmd.ID)...); err != nil {
		return nil, op.Fail(err, "Account validation failed")
	}

	a, err := s.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		return nil, op.Fail(err, "Failed to load account")
	}
	a.Apply(cmd.fields(), cmd.ModifiedBy)
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, op.Fail(err, "Failed to update account")
	}

	op.Publish(ctx, s.events, shared.NewEntityChanged(entityName, a.ID, shared.ChangeUpdated, cmd.ModifiedBy))
	op.Succeed("Account updated")
	return cqrs.Resolve(ctx, op, a, ToAccountDTO, s.details), nil
}

// Delete retires an account; false when it is missing or already retired
func (s *AccountService) Delete(ctx context.Context, cmd DeleteAccountCommand) (bool, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "account.delete",
		zap.String("account_id", cmd.ID.String()),
		zap.String("correlation_id", cmd.CorrelationID),
	)
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", cmd.ID), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return false, op.Fail(err, "Rejected account delete")
	}
	return cqrs.Retire[account.Account](ctx, op, s.repo, s.events, entityName, cmd.ID, cmd.ModifiedBy)
}

// GetByID returns an account with its status, type and company names
func (s *AccountService) GetByID(ctx context.Context, q GetAccountByIDQuery) (*AccountDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "account.get_by_id", zap.String("account_id", q.ID.String()))
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", q.ID)); err != nil {
		return nil, op.Fail(err, "Rejected account query")
	}
	a, err := cqrs.Load[account.Account](ctx, s.repo, q.ID, q.IncludeRetired)
	if err != nil {
		return nil, op.Fail(err, "Failed to get account")
	}
	dto, err := s.details(ctx, a)
	if err != nil {
		return nil, op.Fail(err, "Failed to resolve account names")
	}

	op.Succeed("Account fetched")
	return dto, nil
}

// List pages through active accounts
func (s *AccountService) List(ctx context.Context, q ListAccountsQuery) (*shared.Paginated[AccountSummary], error) {
	ctx, op := cqrs.Start(ctx, s.logger, "account.list")
	defer op.End()

	page, err := cqrs.Page[account.Account, AccountSummary](ctx, s.repo, q.Filter, s.summaries)
	if err != nil {
		return nil, op.Fail(err, "Failed to list accounts")
	}

	op.Succeed("Accounts listed", zap.Int("count", len(page.Items)))
	return page, nil
}

// GetByStatus lists active accounts whose status value matches, case-insensitively.
// An unknown status value yields an empty list.
func (s *AccountService) GetByStatus(ctx context.Context, q GetAccountsByStatusQuery) ([]AccountSummary, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "account.get_by_status", zap.String("status", q.Status))
	defer op.End()

	items, err := s.byLookup(ctx, q, lookup.KindAccountStatus, q.Status, s.repo.GetByStatusID)
	if err != nil {
		return nil, op.Fail(err, "Failed to get accounts by status")
	}

	op.Succeed("Accounts fetched", zap.Int("count", len(items)))
	return items, nil
}

// GetByType lists active accounts whose type value matches
func (s *AccountService) GetByType(ctx context.Context, q GetAccountsByTypeQuery) ([]AccountSummary, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "account.get_by_type", zap.String("type", q.Type))
	defer op.End()

	items, err := s.byLookup(ctx, q, lookup.KindAccountType, q.Type, s.repo.GetByTypeID)
	if err != nil {
		return nil, op.Fail(err, "Failed to get accounts by type")
	}

	op.Succeed("Accounts fetched", zap.Int("count", len(items)))
	return items, nil
}

func (s *AccountService) byLookup(
	ctx context.Context,
	q any,
	kind lookup.Kind,
	value string,
	find func(ctx context.Context, id uuid.UUID) ([]account.Account, error),
) ([]AccountSummary, error) {
	if err := cqrs.Validate(ctx, q); err != nil {
		return nil, err
	}
	l, err := s.lookups.GetByValue(ctx, kind, strings.TrimSpace(value))
	if errors.Is(err, shared.ErrNotFound) {
		return []AccountSummary{}, nil
	}
	if err != nil {
		return nil, err
	}
	items, err := find(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	return s.summaries(ctx, items)
}

func (s *AccountService) checks(f account.Fields, excludeID uuid.UUID) []cqrs.Check {
	number := strings.TrimSpace(f.AccountNumber)
	return []cqrs.Check{
		cqrs.LookupExists("account_status_id", s.lookups, lookup.KindAccountStatus, f.AccountStatusID),
		cqrs.LookupExists("account_type_id", s.lookups, lookup.KindAccountType, f.AccountTypeID),
		cqrs.ExistsIfSet("company_id", "company", f.CompanyID, s.companies.Exists),
		cqrs.When(number != "", cqrs.Unique("account_number", "an account numbered "+number+" already exists",
			func(ctx context.Context) (bool, error) {
				return s.repo.ExistsByAccountNumber(ctx, number, excludeID)
			})),
	}
}

// names resolves lookup values and company names for a batch of accounts.
// The two reads are independent and run concurrently.
func (s *AccountService) names(ctx context.Context, items []account.Account) (lookups, companies map[uuid.UUID]string, err error) {
	lookupIDs := cqrs.DistinctIDs(items,
		func(a *account.Account) *uuid.UUID { return cqrs.Ref(a.AccountStatusID) },
		func(a *account.Account) *uuid.UUID { return cqrs.Ref(a.AccountTypeID) },
	)
	companyIDs := cqrs.DistinctIDs(items, func(a *account.Account) *uuid.UUID { return a.CompanyID })

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lookups, err = cqrs.LookupNames(gctx, s.lookups, lookupIDs)
		return err
	})
	g.Go(func() error {
		var err error
		companies, err = cqrs.Names[contact.Company](gctx, companyIDs, s.companies.GetByIDs,
			func(c *contact.Company) string { return c.Name })
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return lookups, companies, nil
}

func (s *AccountService) summaries(ctx context.Context, items []account.Account) ([]AccountSummary, error) {
	lookups, companies, err := s.names(ctx, items)
	if err != nil {
		return nil, err
	}
	return cqrs.Map(items, func(a *account.Account) AccountSummary {
		sum := ToAccountSummary(a)
		sum.AccountStatus = lookups[a.AccountStatusID]
		sum.AccountType = lookups[a.AccountTypeID]
		sum.CompanyName = cqrs.NameOf(companies, a.CompanyID)
		return sum
	}), nil
}

func (s *AccountService) details(ctx context.Context, a *account.Account) (*AccountDTO, error) {
	lookups, companies, err := s.names(ctx, []account.Account{*a})
	if err != nil {
		return nil, err
	}
	dto := ToAccountDTO(a)
	dto.AccountStatus = lookups[a.AccountStatusID]
	dto.AccountType = lookups[a.AccountTypeID]
	dto.CompanyName = cqrs.NameOf(companies, a.CompanyID)
	return dto, nil
}
