package activity

import (
	"context"

	"github.com/crm/backend/internal/application/cqrs"
	"github.com/crm/backend/internal/domain/activity"
	"github.com/crm/backend/internal/domain/contact"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const callEntity = "call"

// CallService handles call log commands and queries
type CallService struct {
	repo       activity.CallRepository
	activities activity.Repository
	people     contact.PersonRepository
	phones     contact.PhoneRepository
	events     shared.EventPublisher
	logger     *zap.Logger
}

// NewCallService creates a new CallService
func NewCallService(
	repo activity.CallRepository,
	activities activity.Repository,
	people contact.PersonRepository,
	phones contact.PhoneRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *CallService {
	return &CallService{
		repo:       repo,
		activities: activities,
		people:     people,
		phones:     phones,
		events:     events,
		logger:     logger,
	}
}

// Create logs a call
func (s *CallService) Create(ctx context.Context, cmd CreateCallCommand) (*CallDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "call.create", zap.String("correlation_id", cmd.CorrelationID))
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("created_by", cmd.CreatedBy), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return nil, op.Fail(err, "Rejected call create")
	}
	if err := cqrs.Validate(ctx, cmd, s.checks(cmd.fields())...); err != nil {
		return nil, op.Fail(err, "Call validation failed")
	}

	c := activity.NewCall(cmd.fields(), cmd.CreatedBy, cmd.ModifiedBy)
	if err := s.repo.Add(ctx, c); err != nil {
		return nil, op.Fail(err, "Failed to create call")
	}

	op.Publish(ctx, s.events, shared.NewEntityChanged(callEntity, c.ID, shared.ChangeCreated, cmd.CreatedBy))
	op.Succeed("Call created", zap.String("call_id", c.ID.String()))
	return cqrs.Resolve(ctx, op, c, ToCallDTO, s.details), nil
}

// Update replaces the editable fields of an active call
func (s *CallService) Update(ctx context.Context, cmd UpdateCallCommand) (*CallDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "call.update",
		zap.String("call_id", cmd.ID.String()),
		zap.String("correlation_id", cmd.CorrelationID),
	)
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", cmd.ID), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return nil, op.Fail(err, "Rejected call update")
	}
	if err := cqrs.Validate(ctx, cmd, s.checks(cmd.fields())...); err != nil {
		return nil, op.Fail(err, "Call validation failed")
	}

	c, err := s.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		return nil, op.Fail(err, "Failed to load call")
	}
	c.Apply(cmd.fields(), cmd.ModifiedBy)
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, op.Fail(err, "Failed to update call")
	}

	op.Publish(ctx, s.events, shared.NewEntityChanged(callEntity, c.ID, shared.ChangeUpdated, cmd.ModifiedBy))
	op.Succeed("Call updated")
	return cqrs.Resolve(ctx, op, c, ToCallDTO, s.details), nil
}

// Delete retires a call; false when missing or already retired
func (s *CallService) Delete(ctx context.Context, cmd DeleteCommand) (bool, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "call.delete",
		zap.String("call_id", cmd.ID.String()),
		zap.String("correlation_id", cmd.CorrelationID),
	)
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", cmd.ID), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return false, op.Fail(err, "Rejected call delete")
	}
	return cqrs.Retire[activity.Call](ctx, op, s.repo, s.events, callEntity, cmd.ID, cmd.ModifiedBy)
}

// GetByID returns a call with the person's name
func (s *CallService) GetByID(ctx context.Context, q GetByIDQuery) (*CallDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "call.get_by_id", zap.String("call_id", q.ID.String()))
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", q.ID)); err != nil {
		return nil, op.Fail(err, "Rejected call query")
	}
	c, err := cqrs.Load[activity.Call](ctx, s.repo, q.ID, q.IncludeRetired)
	if err != nil {
		return nil, op.Fail(err, "Failed to get call")
	}
	dto, err := s.details(ctx, c)
	if err != nil {
		return nil, op.Fail(err, "Failed to resolve call person")
	}

	op.Succeed("Call fetched")
	return dto, nil
}

// List pages through active calls
func (s *CallService) List(ctx context.Context, q ListQuery) (*shared.Paginated[CallSummary], error) {
	ctx, op := cqrs.Start(ctx, s.logger, "call.list")
	defer op.End()

	page, err := cqrs.Page[activity.Call, CallSummary](ctx, s.repo, q.Filter, s.summaries)
	if err != nil {
		return nil, op.Fail(err, "Failed to list calls")
	}

	op.Succeed("Calls listed", zap.Int("count", len(page.Items)))
	return page, nil
}

// GetByPerson lists active calls with a person, most recent first
func (s *CallService) GetByPerson(ctx context.Context, personID uuid.UUID) ([]CallSummary, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "call.get_by_person", zap.String("person_id", personID.String()))
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("person_id", personID)); err != nil {
		return nil, op.Fail(err, "Rejected call query")
	}
	items, err := s.repo.GetByPersonID(ctx, personID)
	if err != nil {
		return nil, op.Fail(err, "Failed to get calls by person")
	}
	out, err := s.summaries(ctx, items)
	if err != nil {
		return nil, op.Fail(err, "Failed to resolve call people")
	}

	op.Succeed("Calls fetched", zap.Int("count", len(out)))
	return out, nil
}

func (s *CallService) checks(f activity.CallFields) []cqrs.Check {
	return []cqrs.Check{
		cqrs.Exists("person_id", "person", f.PersonID, s.people.Exists),
		cqrs.Exists("phone_id", "phone", f.PhoneID, s.phones.Exists),
		cqrs.ExistsIfSet("activity_id", "activity", f.ActivityID, s.activities.Exists),
	}
}

func (s *CallService) personNames(ctx context.Context, items []activity.Call) (map[uuid.UUID]string, error) {
	ids := cqrs.DistinctIDs(items, func(c *activity.Call) *uuid.UUID { return cqrs.Ref(c.PersonID) })
	return cqrs.Names[contact.Person](ctx, ids, s.people.GetByIDs,
		func(p *contact.Person) string { return p.FullName() })
}

func (s *CallService) summaries(ctx context.Context, items []activity.Call) ([]CallSummary, error) {
	people, err := s.personNames(ctx, items)
	if err != nil {
		return nil, err
	}
	return cqrs.Map(items, func(c *activity.Call) CallSummary {
		sum := ToCallSummary(c)
		sum.PersonName = people[c.PersonID]
		return sum
	}), nil
}

func (s *CallService) details(ctx context.Context, c *activity.Call) (*CallDTO, error) {
	people, err := s.personNames(ctx, []activity.Call{*c})
	if err != nil {
		return nil, err
	}
	dto := ToCallDTO(c)
	dto.PersonName = people[c.PersonID]
	return dto, nil
}
