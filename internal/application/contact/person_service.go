package contact

import (
	"context"

	"github.com/crm/backend/internal/application/cqrs"
	"github.com/crm/backend/internal/domain/contact"
	"github.com/crm/backend/internal/domain/lookup"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PersonService handles person commands and queries
type PersonService struct {
	repo            contact.PersonRepository
	personPhones    shared.JunctionRepository
	personAddresses shared.JunctionRepository
	linked          linked
	events          shared.EventPublisher
	logger          *zap.Logger
}

// PersonServiceDeps groups what PersonService reads besides people
type PersonServiceDeps struct {
	Phones          contact.PhoneRepository
	Addresses       contact.AddressRepository
	PersonPhones    shared.JunctionRepository
	PersonAddresses shared.JunctionRepository
	Lookups         lookup.Repository
}

// NewPersonService creates a new PersonService
func NewPersonService(repo contact.PersonRepository, deps PersonServiceDeps, events shared.EventPublisher, logger *zap.Logger) *PersonService {
	return &PersonService{
		repo:            repo,
		personPhones:    deps.PersonPhones,
		personAddresses: deps.PersonAddresses,
		linked:          linked{phones: deps.Phones, addresses: deps.Addresses, lookups: deps.Lookups},
		events:          events,
		logger:          logger,
	}
}

// Create creates a new person
func (s *PersonService) Create(ctx context.Context, cmd CreatePersonCommand) (*PersonDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "person.create", zap.String("correlation_id", cmd.CorrelationID))
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("created_by", cmd.CreatedBy), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return nil, op.Fail(err, "Rejected person create")
	}
	if err := cqrs.Validate(ctx, cmd, s.uniqueEmail(cmd.Email, uuid.Nil)); err != nil {
		return nil, op.Fail(err, "Person validation failed")
	}

	p := contact.NewPerson(cmd.fields(), cmd.CreatedBy, cmd.ModifiedBy)
	if err := s.repo.Add(ctx, p); err != nil {
		return nil, op.Fail(err, "Failed to create person")
	}

	op.Publish(ctx, s.events, shared.NewEntityChanged("person", p.ID, shared.ChangeCreated, cmd.CreatedBy))
	op.Succeed("Person created", zap.String("person_id", p.ID.String()))
	return cqrs.Resolve(ctx, op, p, ToPersonDTO, s.details), nil
}

// Update replaces the editable fields of an active person
func (s *PersonService) Update(ctx context.Context, cmd UpdatePersonCommand) (*PersonDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "person.update",
		zap.String("person_id", cmd.ID.String()),
		zap.String("correlation_id", cmd.CorrelationID),
	)
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", cmd.ID), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return nil, op.Fail(err, "Rejected person update")
	}
	if err := cqrs.Validate(ctx, cmd, s.uniqueEmail(cmd.Email, cmd.ID)); err != nil {
		return nil, op.Fail(err, "Person validation failed")
	}

	p, err := s.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		return nil, op.Fail(err, "Failed to load person")
	}
	p.Apply(cmd.fields(), cmd.ModifiedBy)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, op.Fail(err, "Failed to update person")
	}

	op.Publish(ctx, s.events, shared.NewEntityChanged("person", p.ID, shared.ChangeUpdated, cmd.ModifiedBy))
	op.Succeed("Person updated")
	return cqrs.Resolve(ctx, op, p, ToPersonDTO, s.details), nil
}

// Delete retires a person; false when missing or already retired
func (s *PersonService) Delete(ctx context.Context, cmd DeleteCommand) (bool, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "person.delete",
		zap.String("person_id", cmd.ID.String()),
		zap.String("correlation_id", cmd.CorrelationID),
	)
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", cmd.ID), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return false, op.Fail(err, "Rejected person delete")
	}
	return cqrs.Retire[contact.Person](ctx, op, s.repo, s.events, "person", cmd.ID, cmd.ModifiedBy)
}

// GetByID returns a person with linked phones and addresses
func (s *PersonService) GetByID(ctx context.Context, q GetByIDQuery) (*PersonDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "person.get_by_id", zap.String("person_id", q.ID.String()))
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", q.ID)); err != nil {
		return nil, op.Fail(err, "Rejected person query")
	}
	p, err := cqrs.Load[contact.Person](ctx, s.repo, q.ID, q.IncludeRetired)
	if err != nil {
		return nil, op.Fail(err, "Failed to get person")
	}

	dto, err := s.details(ctx, p)
	if err != nil {
		return nil, op.Fail(err, "Failed to load person contact details")
	}

	op.Succeed("Person fetched")
	return dto, nil
}

// List pages through active people
func (s *PersonService) List(ctx context.Context, q ListQuery) (*shared.Paginated[PersonSummary], error) {
	ctx, op := cqrs.Start(ctx, s.logger, "person.list")
	defer op.End()

	page, err := cqrs.Page[contact.Person, PersonSummary](ctx, s.repo, q.Filter, cqrs.Plain(ToPersonSummary))
	if err != nil {
		return nil, op.Fail(err, "Failed to list people")
	}

	op.Succeed("People listed", zap.Int("count", len(page.Items)))
	return page, nil
}

// GetByEmail finds the active person with an email address
func (s *PersonService) GetByEmail(ctx context.Context, q GetPersonByEmailQuery) (*PersonDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "person.get_by_email")
	defer op.End()

	if err := cqrs.Validate(ctx, q); err != nil {
		return nil, op.Fail(err, "Person query validation failed")
	}
	p, err := s.repo.GetByEmail(ctx, contact.NormalizeEmail(q.Email))
	if err != nil {
		return nil, op.Fail(err, "Failed to get person by email")
	}

	dto, err := s.details(ctx, p)
	if err != nil {
		return nil, op.Fail(err, "Failed to load person contact details")
	}

	op.Succeed("Person fetched")
	return dto, nil
}

func (s *PersonService) uniqueEmail(email string, excludeID uuid.UUID) cqrs.Check {
	normalized := contact.NormalizeEmail(email)
	return cqrs.When(normalized != "", cqrs.Unique("email", "a person with email "+normalized+" already exists",
		func(ctx context.Context) (bool, error) {
			return s.repo.ExistsByEmail(ctx, normalized, excludeID)
		}))
}

func (s *PersonService) details(ctx context.Context, p *contact.Person) (*PersonDTO, error) {
	dto := ToPersonDTO(p)
	var err error
	dto.Phones, dto.Addresses, err = s.linked.load(ctx, s.personPhones, s.personAddresses, p.ID)
	if err != nil {
		return nil, err
	}
	return dto, nil
}
