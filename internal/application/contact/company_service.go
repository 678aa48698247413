package contact

import (
	"context"
	"strings"

	"github.com/crm/backend/internal/application/cqrs"
	"github.com/crm/backend/internal/domain/contact"
	"github.com/crm/backend/internal/domain/lookup"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CompanyService handles company commands and queries
type CompanyService struct {
	repo             contact.CompanyRepository
	companyPhones    shared.JunctionRepository
	companyAddresses shared.JunctionRepository
	linked           linked
	events           shared.EventPublisher
	logger           *zap.Logger
}

// CompanyServiceDeps groups what CompanyService reads besides companies
type CompanyServiceDeps struct {
	Phones           contact.PhoneRepository
	Addresses        contact.AddressRepository
	CompanyPhones    shared.JunctionRepository
	CompanyAddresses shared.JunctionRepository
	Lookups          lookup.Repository
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(repo contact.CompanyRepository, deps CompanyServiceDeps, events shared.EventPublisher, logger *zap.Logger) *CompanyService {
	return &CompanyService{
		repo:             repo,
		companyPhones:    deps.CompanyPhones,
		companyAddresses: deps.CompanyAddresses,
		linked:           linked{phones: deps.Phones, addresses: deps.Addresses, lookups: deps.Lookups},
		events:           events,
		logger:           logger,
	}
}

// Create creates a new company
func (s *CompanyService) Create(ctx context.Context, cmd CreateCompanyCommand) (*CompanyDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "company.create", zap.String("correlation_id", cmd.CorrelationID))
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("created_by", cmd.CreatedBy), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return nil, op.Fail(err, "Rejected company create")
	}
	if err := cqrs.Validate(ctx, cmd, s.uniqueName(cmd.Name, uuid.Nil)); err != nil {
		return nil, op.Fail(err, "Company validation failed")
	}

	c := contact.NewCompany(cmd.fields(), cmd.CreatedBy, cmd.ModifiedBy)
	if err := s.repo.Add(ctx, c); err != nil {
		return nil, op.Fail(err, "Failed to create company")
	}

	op.Publish(ctx, s.events, shared.NewEntityChanged("company", c.ID, shared.ChangeCreated, cmd.CreatedBy))
	op.Succeed("Company created", zap.String("company_id", c.ID.String()))
	return cqrs.Resolve(ctx, op, c, ToCompanyDTO, s.details), nil
}

// Update replaces the editable fields of an active company
func (s *CompanyService) Update(ctx context.Context, cmd UpdateCompanyCommand) (*CompanyDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "company.update",
		zap.String("company_id", cmd.ID.String()),
		zap.String("correlation_id", cmd.CorrelationID),
	)
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", cmd.ID), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return nil, op.Fail(err, "Rejected company update")
	}
	if err := cqrs.Validate(ctx, cmd, s.uniqueName(cmd.Name, cmd.ID)); err != nil {
		return nil, op.Fail(err, "Company validation failed")
	}

	c, err := s.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		return nil, op.Fail(err, "Failed to load company")
	}
	c.Apply(cmd.fields(), cmd.ModifiedBy)
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, op.Fail(err, "Failed to update company")
	}

	op.Publish(ctx, s.events, shared.NewEntityChanged("company", c.ID, shared.ChangeUpdated, cmd.ModifiedBy))
	op.Succeed("Company updated")
	return cqrs.Resolve(ctx, op, c, ToCompanyDTO, s.details), nil
}

// Delete retires a company; false when missing or already retired
func (s *CompanyService) Delete(ctx context.Context, cmd DeleteCommand) (bool, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "company.delete",
		zap.String("company_id", cmd.ID.String()),
		zap.String("correlation_id", cmd.CorrelationID),
	)
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", cmd.ID), cqrs.ID("modified_by", cmd.ModifiedBy)); err != nil {
		return false, op.Fail(err, "Rejected company delete")
	}
	return cqrs.Retire[contact.Company](ctx, op, s.repo, s.events, "company", cmd.ID, cmd.ModifiedBy)
}

// GetByID returns a company with linked phones and addresses
func (s *CompanyService) GetByID(ctx context.Context, q GetByIDQuery) (*CompanyDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "company.get_by_id", zap.String("company_id", q.ID.String()))
	defer op.End()

	if err := cqrs.Guard(cqrs.ID("id", q.ID)); err != nil {
		return nil, op.Fail(err, "Rejected company query")
	}
	c, err := cqrs.Load[contact.Company](ctx, s.repo, q.ID, q.IncludeRetired)
	if err != nil {
		return nil, op.Fail(err, "Failed to get company")
	}

	dto, err := s.details(ctx, c)
	if err != nil {
		return nil, op.Fail(err, "Failed to load company contact details")
	}

	op.Succeed("Company fetched")
	return dto, nil
}

// List pages through active companies
func (s *CompanyService) List(ctx context.Context, q ListQuery) (*shared.Paginated[CompanySummary], error) {
	ctx, op := cqrs.Start(ctx, s.logger, "company.list")
	defer op.End()

	page, err := cqrs.Page[contact.Company, CompanySummary](ctx, s.repo, q.Filter, cqrs.Plain(ToCompanySummary))
	if err != nil {
		return nil, op.Fail(err, "Failed to list companies")
	}

	op.Succeed("Companies listed", zap.Int("count", len(page.Items)))
	return page, nil
}

// GetByName finds the active company with a name, case-insensitively
func (s *CompanyService) GetByName(ctx context.Context, q GetCompanyByNameQuery) (*CompanyDTO, error) {
	ctx, op := cqrs.Start(ctx, s.logger, "company.get_by_name", zap.String("name", q.Name))
	defer op.End()

	if err := cqrs.Validate(ctx, q); err != nil {
		return nil, op.Fail(err, "Company query validation failed")
	}
	c, err := s.repo.GetByName(ctx, strings.TrimSpace(q.Name))
	if err != nil {
		return nil, op.Fail(err, "Failed to get company by name")
	}

	dto, err := s.details(ctx, c)
	if err != nil {
		return nil, op.Fail(err, "Failed to load company contact details")
	}

	op.Succeed("Company fetched")
	return dto, nil
}

func (s *CompanyService) uniqueName(name string, excludeID uuid.UUID) cqrs.Check {
	name = strings.TrimSpace(name)
	return cqrs.Unique("name", "a company named "+name+" already exists", func(ctx context.Context) (bool, error) {
		return s.repo.ExistsByName(ctx, name, excludeID)
	})
}

func (s *CompanyService) details(ctx context.Context, c *contact.Company) (*CompanyDTO, error) {
	dto := ToCompanyDTO(c)
	var err error
	dto.Phones, dto.Addresses, err = s.linked.load(ctx, s.companyPhones, s.companyAddresses, c.ID)
	if err != nil {
		return nil, err
	}
	return dto, nil
}
