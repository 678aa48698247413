package contact

import (
	"context"
	"errors"
	"strings"

	"github.com/crm/backend/internal/application/cqrs"
	"github.com/crm/backend/internal/domain/contact"
	"github.com/crm/backend/internal/domain/lookup"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PhoneService handles phone commands and queries
type PhoneService struct {
	repo    contact.PhoneRepository
	lookups lookup.Repository
	events  shared.EventPublisher
	logger  *zap.Logger
}

// NewPhoneService creates a new PhoneService
func NewPhoneService(repo contact.PhoneRepository, lookups lookup.Repository, events shared.EventPublisher, logger *zap.Logger) *PhoneService {
	return &PhoneService{repo: repo, lookups: lookups, events: events, logger: logger}
}

// Create creates a new phone
func (s *PhoneService) Create(ctx context.Context, cmd CreatePhoneCommand) (*PhoneDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "phone.create", zap.String("correlation_id", cmd.CorrelationID))
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("created_by", cmd.CreatedBy), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return nil, op.Fail(err, "Rejected phone create")
	}
	if err := cqrs.Validate(ctx, cmd,
		cqrs.LookupExists("phone_type_id", s.lookups, lookup.KindPhoneType, cmd.PhoneTypeID),
	); err != nil {
		return nil, op.Fail(err, "Phone validation failed")
	}

	p := contact.NewPhone(cmd.fields(), cmd.CreatedBy, cmd.ModifiedBy)
	if err := s.repo.Add(ctx, p); err != nil {
		return nil, op.Fail(err, "Failed to create phone")
	}

	op.Publish(ctx, s.events, shared.NewEntityChanged("phone", p.ID, shared.ChangeCreated, cmd.CreatedBy))
	op.Succeed("Phone created", zap.String("phone_id", p.ID.String()))
	return cqrs.Resolve(ctx, op, p, ToPhoneDTO, s.details), nil
}

// Update replaces the editable fields of an active phone
func (s *PhoneService) Update(ctx context.Context, cmd UpdatePhoneCommand) (*PhoneDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "phone.update",
		zap.String("phone_id", cmd.ID.String()),
		zap.String("correlation_id", cmd.CorrelationID),
	)
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", cmd.ID), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return nil, op.Fail(err, "Rejected phone update")
	}
	if err := cqrs.Validate(ctx, cmd,
		cqrs.LookupExists("phone_type_id", s.lookups, lookup.KindPhoneType, cmd.PhoneTypeID),
	); err != nil {
		return nil, op.Fail(err, "Phone validation failed")
	}

	p, err := s.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		return nil, op.Fail(err, "Failed to load phone")
	}
	p.Apply(cmd.fields(), cmd.ModifiedBy)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, op.Fail(err, "Failed to update phone")
	}

	op.Publish(ctx, s.events, shared.NewEntityChanged("phone", p.ID, shared.ChangeUpdated, cmd.ModifiedBy))
	op.Succeed("Phone updated")
	return cqrs.Resolve(ctx, op, p, ToPhoneDTO, s.details), nil
}

// Delete retires a phone; false when missing or already retired
func (s *PhoneService) Delete(ctx context.Context, cmd DeleteCommand) (bool, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "phone.delete",
		zap.String("phone_id", cmd.ID.String()),
		zap.String("correlation_id", cmd.CorrelationID),
	)
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", cmd.ID), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return false, op.Fail(err, "Rejected phone delete")
	}
	return cqrs.Retire[contact.Phone](ctx, op, s.repo, s.events, "phone", cmd.ID, cmd.ModifiedBy)
}

// GetByID returns a phone with its type name
func (s *PhoneService) GetByID(ctx context.Context, q GetByIDQuery) (*PhoneDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "phone.get_by_id", zap.String("phone_id", q.ID.String()))
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", q.ID)); err != nil {
		return nil, op.Fail(err, "Rejected phone query")
	}
	p, err := cqrs.Load[contact.Phone](ctx, s.repo, q.ID, q.IncludeRetired)
	if err != nil {
		return nil, op.Fail(err, "Failed to get phone")
	}
	dto, err := s.details(ctx, p)
	if err != nil {
		return nil, op.Fail(err, "Failed to resolve phone type")
	}

	op.Succeed("Phone fetched")
	return dto, nil
}

// List pages through active phones
func (s *PhoneService) List(ctx context.Context, q ListQuery) (*shared.Paginated[PhoneSummary], error) {
	ctx, op := cqrs.Start(ctx, s.logger, "phone.list")
	defer op.End()

	page, err := cqrs.Page[contact.Phone, PhoneSummary](ctx, s.repo, q.Filter, s.summaries)
	if err != nil {
		return nil, op.Fail(err, "Failed to list phones")
	}

	op.Succeed("Phones listed", zap.Int("count", len(page.Items)))
	return page, nil
}

// GetByType lists active phones whose type value matches. An unknown type yields an empty list.
func (s *PhoneService) GetByType(ctx context.Context, q GetPhonesByTypeQuery) ([]PhoneSummary, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "phone.get_by_type", zap.String("type", q.Type))
	defer op.End()

	if err := cqrs.Validate(ctx, q); err != nil {
		return nil, op.Fail(err, "Phone query validation failed")
	}
	t, err := s.lookups.GetByValue(ctx, lookup.KindPhoneType, strings.TrimSpace(q.Type))
	if errors.Is(err, shared.ErrNotFound) {
		op.Noop("Unknown phone type")
		return []PhoneSummary{}, nil
	}
	if err != nil {
		return nil, op.Fail(err, "Failed to resolve phone type")
	}
	items, err := s.repo.GetByTypeID(ctx, t.ID)
	if err != nil {
		return nil, op.Fail(err, "Failed to get phones by type")
	}

	op.Succeed("Phones fetched", zap.Int("count", len(items)))
	return phoneSummaries(items, map[uuid.UUID]string{t.ID: t.Value}), nil
}

func (s *PhoneService) summaries(ctx context.Context, items []contact.Phone) ([]PhoneSummary, error) {
	ids := cqrs.DistinctIDs(items, func(p *contact.Phone) *uuid.UUID { return cqrs.Ref(p.PhoneTypeID) })
	names, err := cqrs.LookupNames(ctx, s.lookups, ids)
	if err != nil {
		return nil, err
	}
	return phoneSummaries(items, names), nil
}

func (s *PhoneService) details(ctx context.Context, p *contact.Phone) (*PhoneDTO, error) {
	names, err := cqrs.LookupNames(ctx, s.lookups, []uuid.UUID{p.PhoneTypeID})
	if err != nil {
		return nil, err
	}
	dto := ToPhoneDTO(p)
	dto.PhoneType = names[p.PhoneTypeID]
	return dto, nil
}
