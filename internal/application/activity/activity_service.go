package activity

import (
	"context"
	"errors"
	"strings"

	"github.com/crm/backend/internal/application/cqrs"
	"github.com/crm/backend/internal/domain/account"
	"github.com/crm/backend/internal/domain/activity"
	"github.com/crm/backend/internal/domain/contact"
	"github.com/crm/backend/internal/domain/lookup"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const activityEntity = "activity"

// ActivityService handles activity commands and queries
type ActivityService struct {
	repo     activity.Repository
	lookups  lookup.Repository
	accounts account.Repository
	people   contact.PersonRepository
	events   shared.EventPublisher
	logger   *zap.Logger
}

// NewActivityService creates a new ActivityService
func NewActivityService(
	repo activity.Repository,
	lookups lookup.Repository,
	accounts account.Repository,
	people contact.PersonRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *ActivityService {
	return &ActivityService{
		repo:     repo,
		lookups:  lookups,
		accounts: accounts,
		people:   people,
		events:   events,
		logger:   logger,
	}
}

// Create records a new activity
func (s *ActivityService) Create(ctx context.Context, cmd CreateActivityCommand) (*ActivityDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "activity.create", zap.String("correlation_id", cmd.CorrelationID))
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("created_by", cmd.CreatedBy), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return nil, op.Fail(err, "Rejected activity create")
	}
	if err := cqrs.Validate(ctx, cmd, s.checks(cmd.fields())...); err != nil {
		return nil, op.Fail(err, "Activity validation failed")
	}

	a := activity.NewActivity(cmd.fields(), cmd.CreatedBy, cmd.ModifiedBy)
	if err := s.repo.Add(ctx, a); err != nil {
		return nil, op.Fail(err, "Failed to create activity")
	}

	op.Publish(ctx, s.events, shared.NewEntityChanged(activityEntity, a.ID, shared.ChangeCreated, cmd.CreatedBy))
	op.Succeed("Activity created", zap.String("activity_id", a.ID.String()))
	return cqrs.Resolve(ctx, op, a, ToActivityDTO, s.details), nil
}

// Update replaces the editable fields of an active activity
func (s *ActivityService) Update(ctx context.Context, cmd UpdateActivityCommand) (*ActivityDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "activity.update",
		zap.String("activity_id", cmd.ID.String()),
		zap.String("correlation_id", cmd.CorrelationID),
	)
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", cmd.ID), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return nil, op.Fail(err, "Rejected activity update")
	}
	if err := cqrs.Validate(ctx, cmd, s.checks(cmd.fields())...); err != nil {
		return nil, op.Fail(err, "Activity validation failed")
	}

	a, err := s.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		return nil, op.Fail(err, "Failed to load activity")
	}
	a.Apply(cmd.fields(), cmd.ModifiedBy)
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, op.Fail(err, "Failed to update activity")
	}

	op.Publish(ctx, s.events, shared.NewEntityChanged(activityEntity, a.ID, shared.ChangeUpdated, cmd.ModifiedBy))
	op.Succeed("Activity updated")
	return cqrs.Resolve(ctx, op, a, ToActivityDTO, s.details), nil
}

// Delete retires an activity; false when missing or already retired
func (s *ActivityService) Delete(ctx context.Context, cmd DeleteCommand) (bool, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "activity.delete",
		zap.String("activity_id", cmd.ID.String()),
		zap.String("correlation_id", cmd.CorrelationID),
	)
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", cmd.ID), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return false, op.Fail(err, "Rejected activity delete")
	}
	return cqrs.Retire[activity.Activity](ctx, op, s.repo, s.events, activityEntity, cmd.ID, cmd.ModifiedBy)
}

// GetByID returns an activity with its type, status, account and person names
func (s *ActivityService) GetByID(ctx context.Context, q GetByIDQuery) (*ActivityDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "activity.get_by_id", zap.String("activity_id", q.ID.String()))
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", q.ID)); err != nil {
		return nil, op.Fail(err, "Rejected activity query")
	}
	a, err := cqrs.Load[activity.Activity](ctx, s.repo, q.ID, q.IncludeRetired)
	if err != nil {
		return nil, op.Fail(err, "Failed to get activity")
	}
	dto, err := s.details(ctx, a)
	if err != nil {
		return nil, op.Fail(err, "Failed to resolve activity references")
	}

	op.Succeed("Activity fetched")
	return dto, nil
}

// List pages through active activities
func (s *ActivityService) List(ctx context.Context, q ListQuery) (*shared.Paginated[ActivitySummary], error) {
	ctx, op := cqrs.Start(ctx, s.logger, "activity.list")
	defer op.End()

	page, err := cqrs.Page[activity.Activity, ActivitySummary](ctx, s.repo, q.Filter, s.summaries)
	if err != nil {
		return nil, op.Fail(err, "Failed to list activities")
	}

	op.Succeed("Activities listed", zap.Int("count", len(page.Items)))
	return page, nil
}

// GetByStatus lists active activities whose status value matches
func (s *ActivityService) GetByStatus(ctx context.Context, q GetByLookupQuery) ([]ActivitySummary, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "activity.get_by_status", zap.String("status", q.Value))
	defer op.End()

	items, err := s.byLookup(ctx, q, lookup.KindActivityStatus, s.repo.GetByStatusID)
	if err != nil {
		return nil, op.Fail(err, "Failed to get activities by status")
	}

	op.Succeed("Activities fetched", zap.Int("count", len(items)))
	return items, nil
}

// GetByType lists active activities whose type value matches
func (s *ActivityService) GetByType(ctx context.Context, q GetByLookupQuery) ([]ActivitySummary, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "activity.get_by_type", zap.String("type", q.Value))
	defer op.End()

	items, err := s.byLookup(ctx, q, lookup.KindActivityType, s.repo.GetByTypeID)
	if err != nil {
		return nil, op.Fail(err, "Failed to get activities by type")
	}

	op.Succeed("Activities fetched", zap.Int("count", len(items)))
	return items, nil
}

// GetByAccount lists active activities recorded against an account
func (s *ActivityService) GetByAccount(ctx context.Context, accountID uuid.UUID) ([]ActivitySummary, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "activity.get_by_account", zap.String("account_id", accountID.String()))
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("account_id", accountID)); err != nil {
		return nil, op.Fail(err, "Rejected activity query")
	}
	items, err := s.repo.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, op.Fail(err, "Failed to get activities by account")
	}
	out, err := s.summaries(ctx, items)
	if err != nil {
		return nil, op.Fail(err, "Failed to resolve activity references")
	}

	op.Succeed("Activities fetched", zap.Int("count", len(out)))
	return out, nil
}

func (s *ActivityService) byLookup(
	ctx context.Context,
	q GetByLookupQuery,
	kind lookup.Kind,
	find func(ctx context.Context, id uuid.UUID) ([]activity.Activity, error),
) ([]ActivitySummary, error) {
	if err := cqrs.Validate(ctx, q); err != nil {
		return nil, err
	}
	l, err := s.lookups.GetByValue(ctx, kind, strings.TrimSpace(q.Value))
	if errors.Is(err, shared.ErrNotFound) {
		return []ActivitySummary{}, nil
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

func (s *ActivityService) checks(f activity.Fields) []cqrs.Check {
	return []cqrs.Check{
		cqrs.LookupExists("activity_type_id", s.lookups, lookup.KindActivityType, f.ActivityTypeID),
		cqrs.LookupExists("activity_status_id", s.lookups, lookup.KindActivityStatus, f.ActivityStatusID),
		cqrs.ExistsIfSet("account_id", "account", f.AccountID, s.accounts.Exists),
		cqrs.ExistsIfSet("person_id", "person", f.PersonID, s.people.Exists),
		cqrs.NotBefore("completion_date", f.CompletionDate, "start_date", &f.StartDate),
	}
}

type activityNames struct {
	lookups  map[uuid.UUID]string
	accounts map[uuid.UUID]string
	people   map[uuid.UUID]string
}

// names resolves every reference of a batch of activities, one read per target table
func (s *ActivityService) names(ctx context.Context, items []activity.Activity) (*activityNames, error) {
	lookupIDs := cqrs.DistinctIDs(items,
		func(a *activity.Activity) *uuid.UUID { return cqrs.Ref(a.ActivityTypeID) },
		func(a *activity.Activity) *uuid.UUID { return cqrs.Ref(a.ActivityStatusID) },
	)
	accountIDs := cqrs.DistinctIDs(items, func(a *activity.Activity) *uuid.UUID { return a.AccountID })
	personIDs := cqrs.DistinctIDs(items, func(a *activity.Activity) *uuid.UUID { return a.PersonID })

	n := &activityNames{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		n.lookups, err = cqrs.LookupNames(gctx, s.lookups, lookupIDs)
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
		n.people, err = cqrs.Names[contact.Person](gctx, personIDs, s.people.GetByIDs,
			func(p *contact.Person) string { return p.FullName() })
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *ActivityService) summaries(ctx context.Context, items []activity.Activity) ([]ActivitySummary, error) {
	n, err := s.names(ctx, items)
	if err != nil {
		return nil, err
	}
	return cqrs.Map(items, func(a *activity.Activity) ActivitySummary {
		sum := ToActivitySummary(a)
		sum.ActivityType = n.lookups[a.ActivityTypeID]
		sum.ActivityStatus = n.lookups[a.ActivityStatusID]
		sum.AccountName = cqrs.NameOf(n.accounts, a.AccountID)
		sum.PersonName = cqrs.NameOf(n.people, a.PersonID)
		return sum
	}), nil
}

func (s *ActivityService) details(ctx context.Context, a *activity.Activity) (*ActivityDTO, error) {
	n, err := s.names(ctx, []activity.Activity{*a})
	if err != nil {
		return nil, err
	}
	dto := ToActivityDTO(a)
	dto.ActivityType = n.lookups[a.ActivityTypeID]
	dto.ActivityStatus = n.lookups[a.ActivityStatusID]
	dto.AccountName = cqrs.NameOf(n.accounts, a.AccountID)
	dto.PersonName = cqrs.NameOf(n.people, a.PersonID)
	return dto, nil
}
