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

// AddressService handles address commands and queries
type AddressService struct {
	repo    contact.AddressRepository
	lookups lookup.Repository
	events  shared.EventPublisher
	logger  *zap.Logger
}

// NewAddressService creates a new AddressService
func NewAddressService(repo contact.AddressRepository, lookups lookup.Repository, events shared.EventPublisher, logger *zap.Logger) *AddressService {
	return &AddressService{repo: repo, lookups: lookups, events: events, logger: logger}
}

// Create creates a new address
func (s *AddressService) Create(ctx context.Context, cmd CreateAddressCommand) (*AddressDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "address.create", zap.String("correlation_id", cmd.CorrelationID))
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("created_by", cmd.CreatedBy), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return nil, op.Fail(err, "Rejected address create")
	}
	if err := cqrs.Validate(ctx, cmd,
		cqrs.LookupExists("address_type_id", s.lookups, lookup.KindAddressType, cmd.AddressTypeID),
	); err != nil {
		return nil, op.Fail(err, "Address validation failed")
	}

	a := contact.NewAddress(cmd.fields(), cmd.CreatedBy, cmd.ModifiedBy)
	if err := s.repo.Add(ctx, a); err != nil {
		return nil, op.Fail(err, "Failed to create address")
	}

	op.Publish(ctx, s.events, shared.NewEntityChanged("address", a.ID, shared.ChangeCreated, cmd.CreatedBy))
	op.Succeed("Address created", zap.String("address_id", a.ID.String()))
	return cqrs.Resolve(ctx, op, a, ToAddressDTO, s.details), nil
}

// Update replaces the editable fields of an active address
func (s *AddressService) Update(ctx context.Context, cmd UpdateAddressCommand) (*AddressDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "address.update",
		zap.String("address_id", cmd.ID.String()),
		zap.String("correlation_id", cmd.CorrelationID),
	)
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", cmd.ID), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return nil, op.Fail(err, "Rejected address update")
	}
	if err := cqrs.Validate(ctx, cmd,
		cqrs.LookupExists("address_type_id", s.lookups, lookup.KindAddressType, cmd.AddressTypeID),
	); err != nil {
		return nil, op.Fail(err, "Address validation failed")
	}

	a, err := s.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		return nil, op.Fail(err, "Failed to load address")
	}
	a.Apply(cmd.fields(), cmd.ModifiedBy)
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, op.Fail(err, "Failed to update address")
	}

	op.Publish(ctx, s.events, shared.NewEntityChanged("address", a.ID, shared.ChangeUpdated, cmd.ModifiedBy))
	op.Succeed("Address updated")
	return cqrs.Resolve(ctx, op, a, ToAddressDTO, s.details), nil
}

// Delete retires an address; false when missing or already retired
func (s *AddressService) Delete(ctx context.Context, cmd DeleteCommand) (bool, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "address.delete",
		zap.String("address_id", cmd.ID.String()),
		zap.String("correlation_id", cmd.CorrelationID),
	)
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", cmd.ID), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return false, op.Fail(err, "Rejected address delete")
	}
	return cqrs.Retire[contact.Address](ctx, op, s.repo, s.events, "address", cmd.ID, cmd.ModifiedBy)
}

// GetByID returns an address with its type name
func (s *AddressService) GetByID(ctx context.Context, q GetByIDQuery) (*AddressDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "address.get_by_id", zap.String("address_id", q.ID.String()))
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", q.ID)); err != nil {
		return nil, op.Fail(err, "Rejected address query")
	}
	a, err := cqrs.Load[contact.Address](ctx, s.repo, q.ID, q.IncludeRetired)
	if err != nil {
		return nil, op.Fail(err, "Failed to get address")
	}
	dto, err := s.details(ctx, a)
	if err != nil {
		return nil, op.Fail(err, "Failed to resolve address type")
	}

	op.Succeed("Address fetched")
	return dto, nil
}

// List pages through active addresses
func (s *AddressService) List(ctx context.Context, q ListQuery) (*shared.Paginated[AddressSummary], error) {
	ctx, op := cqrs.Start(ctx, s.logger, "address.list")
	defer op.End()

	page, err := cqrs.Page[contact.Address, AddressSummary](ctx, s.repo, q.Filter, s.summaries)
	if err != nil {
		return nil, op.Fail(err, "Failed to list addresses")
	}

	op.Succeed("Addresses listed", zap.Int("count", len(page.Items)))
	return page, nil
}

// GetByType lists active addresses whose type value matches. An unknown type yields an empty list.
func (s *AddressService) GetByType(ctx context.Context, q GetAddressesByTypeQuery) ([]AddressSummary, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "address.get_by_type", zap.String("type", q.Type))
	defer op.End()

	if err := cqrs.Validate(ctx, q); err != nil {
		return nil, op.Fail(err, "Address query validation failed")
	}
	t, err := s.lookups.GetByValue(ctx, lookup.KindAddressType, strings.TrimSpace(q.Type))
	if errors.Is(err, shared.ErrNotFound) {
		op.Noop("Unknown address type")
		return []AddressSummary{}, nil
	}
	if err != nil {
		return nil, op.Fail(err, "Failed to resolve address type")
	}
	items, err := s.repo.GetByTypeID(ctx, t.ID)
	if err != nil {
		return nil, op.Fail(err, "Failed to get addresses by type")
	}

	op.Succeed("Addresses fetched", zap.Int("count", len(items)))
	return addressSummaries(items, map[uuid.UUID]string{t.ID: t.Value}), nil
}

func (s *AddressService) summaries(ctx context.Context, items []contact.Address) ([]AddressSummary, error) {
	ids := cqrs.DistinctIDs(items, func(a *contact.Address) *uuid.UUID { return cqrs.Ref(a.AddressTypeID) })
	names, err := cqrs.LookupNames(ctx, s.lookups, ids)
	if err != nil {
		return nil, err
	}
	return addressSummaries(items, names), nil
}

func (s *AddressService) details(ctx context.Context, a *contact.Address) (*AddressDTO, error) {
	names, err := cqrs.LookupNames(ctx, s.lookups, []uuid.UUID{a.AddressTypeID})
	if err != nil {
		return nil, err
	}
	dto := ToAddressDTO(a)
	dto.AddressType = names[a.AddressTypeID]
	return dto, nil
}
