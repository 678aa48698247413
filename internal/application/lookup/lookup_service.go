package lookup

import (
	"context"
	"errors"

	"github.com/crm/backend/internal/application/cqrs"
	"github.com/crm/backend/internal/domain/lookup"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const entityName = "lookup"

// LookupService handles reference table operations for every lookup kind
type LookupService struct {
	repo   lookup.Repository
	events shared.EventPublisher
	logger *zap.Logger
}

// NewLookupService creates a new LookupService
func NewLookupService(repo lookup.Repository, events shared.EventPublisher, logger *zap.Logger) *LookupService {
	return &LookupService{
		repo:   repo,
		events: events,
		logger: logger,
	}
}

// Create adds a new value to the reference table of cmd.Kind
func (s *LookupService) Create(ctx context.Context, cmd CreateLookupCommand) (*LookupDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "lookup.create",
		zap.String("kind", string(cmd.Kind)),
		zap.String("correlation_id", cmd.CorrelationID),
	)
	defer op.End()

	if err := guardKind(cmd.Kind); err != nil {
		return nil, op.Fail(err, "Rejected lookup create")
	}
	if err := cqrs.Guard(cqrs.ID("created_by", cmd.CreatedBy), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return nil, op.Fail(err, "Rejected lookup create")
	}
	if err := cqrs.Validate(ctx, cmd, s.uniqueValue(cmd.Kind, cmd.Value, uuid.Nil)); err != nil {
		return nil, op.Fail(err, "Lookup validation failed")
	}

	l := lookup.NewLookup(cmd.Kind, cmd.fields(), cmd.CreatedBy, cmd.ModifiedBy)
	if err := s.repo.Add(ctx, l); err != nil {
		return nil, op.Fail(err, "Failed to create lookup")
	}

	op.Publish(ctx, s.events, shared.NewEntityChanged(entityName, l.ID, shared.ChangeCreated, cmd.CreatedBy))
	op.Succeed("Lookup created", zap.String("lookup_id", l.ID.String()), zap.String("value", l.Value))
	return ToLookupDTO(l), nil
}

// Update replaces the editable fields of an active value
func (s *LookupService) Update(ctx context.Context, cmd UpdateLookupCommand) (*LookupDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "lookup.update",
		zap.String("lookup_id", cmd.ID.String()),
		zap.String("correlation_id", cmd.CorrelationID),
	)
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", cmd.ID), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return nil, op.Fail(err, "Rejected lookup update")
	}

	l, err := s.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		return nil, op.Fail(err, "Failed to load lookup")
	}
	if err := cqrs.Validate(ctx, cmd, s.uniqueValue(l.Kind, cmd.Value, cmd.ID)); err != nil {
		return nil, op.Fail(err, "Lookup validation failed")
	}

	l.Apply(cmd.fields(), cmd.ModifiedBy)
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, op.Fail(err, "Failed to update lookup")
	}

	op.Publish(ctx, s.events, shared.NewEntityChanged(entityName, l.ID, shared.ChangeUpdated, cmd.ModifiedBy))
	op.Succeed("Lookup updated")
	return ToLookupDTO(l), nil
}

// Delete retires an active value. It returns false when the value is missing or already retired.
func (s *LookupService) Delete(ctx context.Context, cmd DeleteLookupCommand) (bool, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "lookup.delete",
		zap.String("lookup_id", cmd.ID.String()),
		zap.String("correlation_id", cmd.CorrelationID),
	)
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", cmd.ID), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return false, op.Fail(err, "Rejected lookup delete")
	}

	l, err := s.repo.GetByID(ctx, cmd.ID)
	if errors.Is(err, shared.ErrNotFound) {
		op.Noop("Lookup not found or already retired")
		return false, nil
	}
	if err != nil {
		return false, op.Fail(err, "Failed to load lookup")
	}

	l.Retire(cmd.ModifiedBy)
	deleted, err := s.repo.Delete(ctx, l)
	if err != nil {
		return false, op.Fail(err, "Failed to delete lookup")
	}
	if !deleted {
		op.Noop("Lookup was retired concurrently")
		return false, nil
	}

	op.Publish(ctx, s.events, shared.NewEntityChanged(entityName, l.ID, shared.ChangeRetired, cmd.ModifiedBy))
	op.Succeed("Lookup retired")
	return true, nil
}

// GetByID returns one value
func (s *LookupService) GetByID(ctx context.Context, q GetLookupByIDQuery) (*LookupDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "lookup.get_by_id", zap.String("lookup_id", q.ID.String()))
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", q.ID)); err != nil {
		return nil, op.Fail(err, "Rejected lookup query")
	}

	get := s.repo.GetByID
	if q.IncludeRetired {
		get = s.repo.GetAnyByID
	}
	l, err := get(ctx, q.ID)
	if err != nil {
		return nil, op.Fail(err, "Failed to get lookup")
	}

	op.Succeed("Lookup fetched")
	return ToLookupDTO(l), nil
}

// List pages through the active values of a kind
func (s *LookupService) List(ctx context.Context, q ListLookupsQuery) (*shared.Paginated[LookupSummary], error) {
	ctx, op := cqrs.Start(ctx, s.logger, "lookup.list", zap.String("kind", string(q.Kind)))
	defer op.End()

	if err := guardKind(q.Kind); err != nil {
		return nil, op.Fail(err, "Rejected lookup list")
	}

	filter := q.Filter.Normalize()
	items, err := s.repo.GetAll(ctx, q.Kind, filter)
	if err != nil {
		return nil, op.Fail(err, "Failed to list lookups")
	}
	total, err := s.repo.Count(ctx, q.Kind, filter)
	if err != nil {
		return nil, op.Fail(err, "Failed to count lookups")
	}

	page := shared.NewPaginated(cqrs.Map(items, ToLookupSummary), total, filter.Page, filter.PageSize)
	op.Succeed("Lookups listed", zap.Int("count", len(items)))
	return &page, nil
}

// GetByValue finds the active value of a kind with the given text
func (s *LookupService) GetByValue(ctx context.Context, q GetLookupByValueQuery) (*LookupDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "lookup.get_by_value",
		zap.String("kind", string(q.Kind)),
		zap.String("value", q.Value),
	)
	defer op.End()

	if err := guardKind(q.Kind); err != nil {
		return nil, op.Fail(err, "Rejected lookup query")
	}
	if err := cqrs.Validate(ctx, q); err != nil {
		return nil, op.Fail(err, "Lookup query validation failed")
	}

	l, err := s.repo.GetByValue(ctx, q.Kind, q.Value)
	if err != nil {
		return nil, op.Fail(err, "Failed to get lookup by value")
	}

	op.Succeed("Lookup fetched")
	return ToLookupDTO(l), nil
}

// GetByOrdinalPosition finds the active values of a kind at a display position
func (s *LookupService) GetByOrdinalPosition(ctx context.Context, q GetLookupsByOrdinalPositionQuery) ([]LookupSummary, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "lookup.get_by_ordinal_position",
		zap.String("kind", string(q.Kind)),
		zap.Int("ordinal_position", q.OrdinalPosition),
	)
	defer op.End()

	if err := guardKind(q.Kind); err != nil {
		return nil, op.Fail(err, "Rejected lookup query")
	}
	if err := cqrs.Validate(ctx, q); err != nil {
		return nil, op.Fail(err, "Lookup query validation failed")
	}

	items, err := s.repo.GetByOrdinalPosition(ctx, q.Kind, q.OrdinalPosition)
	if err != nil {
		return nil, op.Fail(err, "Failed to get lookups by ordinal position")
	}

	op.Succeed("Lookups fetched", zap.Int("count", len(items)))
	return cqrs.Map(items, ToLookupSummary), nil
}

func (s *LookupService) uniqueValue(kind lookup.Kind, value string, excludeID uuid.UUID) cqrs.Check {
	return cqrs.Unique("value", "a "+kind.Label()+" named "+value+" already exists",
		func(ctx context.Context) (bool, error) {
			return s.repo.ExistsByValue(ctx, kind, value, excludeID)
		})
}

func guardKind(kind lookup.Kind) error {
	if !kind.IsValid() {
		return shared.NewInvalidArgumentError("unknown lookup kind " + string(kind))
	}
	return nil
}
