package contact

import (
	"context"
	"errors"

	"github.com/crm/backend/internal/application/cqrs"
	"github.com/crm/backend/internal/domain/contact"
	"github.com/crm/backend/internal/domain/lookup"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PersonPhoneCommand links or unlinks a phone and a person
type PersonPhoneCommand struct {
	PersonID      uuid.UUID
	PhoneID       uuid.UUID
	ModifiedBy    uuid.UUID
	CorrelationID string
}

// CompanyPhoneCommand links or unlinks a phone and a company
type CompanyPhoneCommand struct {
	CompanyID     uuid.UUID
	PhoneID       uuid.UUID
	ModifiedBy    uuid.UUID
	CorrelationID string
}

// PersonAddressCommand links or unlinks an address and a person
type PersonAddressCommand struct {
	PersonID      uuid.UUID
	AddressID     uuid.UUID
	ModifiedBy    uuid.UUID
	CorrelationID string
}

// CompanyAddressCommand links or unlinks an address and a company
type CompanyAddressCommand struct {
	CompanyID     uuid.UUID
	AddressID     uuid.UUID
	ModifiedBy    uuid.UUID
	CorrelationID string
}

// AssociationServiceDeps are the repositories behind the four contact junctions
type AssociationServiceDeps struct {
	People           contact.PersonRepository
	Companies        contact.CompanyRepository
	Phones           contact.PhoneRepository
	Addresses        contact.AddressRepository
	Lookups          lookup.Repository
	PersonPhones     shared.JunctionRepository
	CompanyPhones    shared.JunctionRepository
	PersonAddresses  shared.JunctionRepository
	CompanyAddresses shared.JunctionRepository
}

// side is one end of a junction
type side struct {
	field  string
	label  string
	exists cqrs.ExistsFunc
}

// junction describes one association: the contact is always the first key
type junction struct {
	name  contact.Association
	links shared.JunctionRepository
	owner side
	item  side
}

// AssociationService links phones and addresses to people and companies
type AssociationService struct {
	personPhones     junction
	companyPhones    junction
	personAddresses  junction
	companyAddresses junction
	linked           linked
	events           shared.EventPublisher
	logger           *zap.Logger
}

// NewAssociationService creates a new AssociationService
func NewAssociationService(deps AssociationServiceDeps, events shared.EventPublisher, logger *zap.Logger) *AssociationService {
	person := side{field: "person_id", label: "person", exists: deps.People.Exists}
	company := side{field: "company_id", label: "company", exists: deps.Companies.Exists}
	phone := side{field: "phone_id", label: "phone", exists: deps.Phones.Exists}
	address := side{field: "address_id", label: "address", exists: deps.Addresses.Exists}

	return &AssociationService{
		personPhones:     junction{name: contact.PersonPhones, links: deps.PersonPhones, owner: person, item: phone},
		companyPhones:    junction{name: contact.CompanyPhones, links: deps.CompanyPhones, owner: company, item: phone},
		personAddresses:  junction{name: contact.PersonAddresses, links: deps.PersonAddresses, owner: person, item: address},
		companyAddresses: junction{name: contact.CompanyAddresses, links: deps.CompanyAddresses, owner: company, item: address},
		linked:           linked{phones: deps.Phones, addresses: deps.Addresses, lookups: deps.Lookups},
		events:           events,
		logger:           logger,
	}
}

// AddPhoneToPerson links a phone to a person. It returns true when a link was created or
// reactivated and false when the two were already linked.
func (s *AssociationService) AddPhoneToPerson(ctx context.Context, cmd PersonPhoneCommand) (bool, error) {
	return s.add(ctx, s.personPhones, cmd.PersonID, cmd.PhoneID, cmd.ModifiedBy, cmd.CorrelationID)
}

// RemovePhoneFromPerson unlinks a phone from a person; false when no active link exists
func (s *AssociationService) RemovePhoneFromPerson(ctx context.Context, cmd PersonPhoneCommand) (bool, error) {
	return s.remove(ctx, s.personPhones, cmd.PersonID, cmd.PhoneID, cmd.ModifiedBy, cmd.CorrelationID)
}

// IsPhoneAssociatedWithPerson reports whether an active link exists
func (s *AssociationService) IsPhoneAssociatedWithPerson(ctx context.Context, personID, phoneID uuid.UUID) (bool, error) {
	return s.isLinked(ctx, s.personPhones, personID, phoneID)
}

// GetPhonesForPerson lists the active phones linked to a person
func (s *AssociationService) GetPhonesForPerson(ctx context.Context, personID uuid.UUID) ([]PhoneSummary, error) {
	return s.phonesFor(ctx, s.personPhones, personID)
}

// AddPhoneToCompany links a phone to a company
func (s *AssociationService) AddPhoneToCompany(ctx context.Context, cmd CompanyPhoneCommand) (bool, error) {
	return s.add(ctx, s.companyPhones, cmd.CompanyID, cmd.PhoneID, cmd.ModifiedBy, cmd.CorrelationID)
}

// RemovePhoneFromCompany unlinks a phone from a company
func (s *AssociationService) RemovePhoneFromCompany(ctx context.Context, cmd CompanyPhoneCommand) (bool, error) {
	return s.remove(ctx, s.companyPhones, cmd.CompanyID, cmd.PhoneID, cmd.ModifiedBy, cmd.CorrelationID)
}

// IsPhoneAssociatedWithCompany reports whether an active link exists
func (s *AssociationService) IsPhoneAssociatedWithCompany(ctx context.Context, companyID, phoneID uuid.UUID) (bool, error) {
	return s.isLinked(ctx, s.companyPhones, companyID, phoneID)
}

// GetPhonesForCompany lists the active phones linked to a company
func (s *AssociationService) GetPhonesForCompany(ctx context.Context, companyID uuid.UUID) ([]PhoneSummary, error) {
	return s.phonesFor(ctx, s.companyPhones, companyID)
}

// AddAddressToPerson links an address to a person
func (s *AssociationService) AddAddressToPerson(ctx context.Context, cmd PersonAddressCommand) (bool, error) {
	return s.add(ctx, s.personAddresses, cmd.PersonID, cmd.AddressID, cmd.ModifiedBy, cmd.CorrelationID)
}

// RemoveAddressFromPerson unlinks an address from a person
func (s *AssociationService) RemoveAddressFromPerson(ctx context.Context, cmd PersonAddressCommand) (bool, error) {
	return s.remove(ctx, s.personAddresses, cmd.PersonID, cmd.AddressID, cmd.ModifiedBy, cmd.CorrelationID)
}

// IsAddressAssociatedWithPerson reports whether an active link exists
func (s *AssociationService) IsAddressAssociatedWithPerson(ctx context.Context, personID, addressID uuid.UUID) (bool, error) {
	return s.isLinked(ctx, s.personAddresses, personID, addressID)
}

// GetAddressesForPerson lists the active addresses linked to a person
func (s *AssociationService) GetAddressesForPerson(ctx context.Context, personID uuid.UUID) ([]AddressSummary, error) {
	return s.addressesFor(ctx, s.personAddresses, personID)
}

// AddAddressToCompany links an address to a company
func (s *AssociationService) AddAddressToCompany(ctx context.Context, cmd CompanyAddressCommand) (bool, error) {
	return s.add(ctx, s.companyAddresses, cmd.CompanyID, cmd.AddressID, cmd.ModifiedBy, cmd.CorrelationID)
}

// RemoveAddressFromCompany unlinks an address from a company
func (s *AssociationService) RemoveAddressFromCompany(ctx context.Context, cmd CompanyAddressCommand) (bool, error) {
	return s.remove(ctx, s.companyAddresses, cmd.CompanyID, cmd.AddressID, cmd.ModifiedBy, cmd.CorrelationID)
}

// IsAddressAssociatedWithCompany reports whether an active link exists
func (s *AssociationService) IsAddressAssociatedWithCompany(ctx context.Context, companyID, addressID uuid.UUID) (bool, error) {
	return s.isLinked(ctx, s.companyAddresses, companyID, addressID)
}

// GetAddressesForCompany lists the active addresses linked to a company
func (s *AssociationService) GetAddressesForCompany(ctx context.Context, companyID uuid.UUID) ([]AddressSummary, error) {
	return s.addressesFor(ctx, s.companyAddresses, companyID)
}

func (s *AssociationService) add(ctx context.Context, j junction, ownerID, itemID, actor uuid.UUID, correlationID string) (bool, error) {
	ctx, op := cqrs.Start(ctx, s.logger, string(j.name)+".add",
		zap.String(j.owner.field, ownerID.String()),
		zap.String(j.item.field, itemID.String()),
		zap.String("correlation_id", correlationID),
	)
	defer op.End()

	if err := cqrs.Guard(cqrs.ID(j.owner.field, ownerID), cqrs.ID(j.item.field, itemID), cqrs.ID("modified_by", actor)); err != nil {
		return false, op.Fail(err, "Rejected association")
	}
	if err := cqrs.Validate(ctx, struct{}{},
		cqrs.Exists(j.owner.field, j.owner.label, ownerID, j.owner.exists),
		cqrs.Exists(j.item.field, j.item.label, itemID, j.item.exists),
	); err != nil {
		return false, op.Fail(err, "Association validation failed")
	}

	link, err := j.links.GetAnyByID(ctx, ownerID, itemID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		link = shared.NewJunction(ownerID, itemID, actor)
		if err := j.links.Add(ctx, link); err != nil {
			return false, op.Fail(err, "Failed to create association")
		}
		op.Publish(ctx, s.events, shared.NewEntityChanged(string(j.name), ownerID, shared.ChangeCreated, actor))
		op.Succeed("Association created")
		return true, nil
	case err != nil:
		return false, op.Fail(err, "Failed to load association")
	}

	if !link.Reactivate(actor) {
		op.Noop("Association already active")
		return false, nil
	}
	if err := j.links.Update(ctx, link); err != nil {
		return false, op.Fail(err, "Failed to reactivate association")
	}
	op.Publish(ctx, s.events, shared.NewEntityChanged(string(j.name), ownerID, shared.ChangeUpdated, actor))
	op.Succeed("Association reactivated")
	return true, nil
}

func (s *AssociationService) remove(ctx context.Context, j junction, ownerID, itemID, actor uuid.UUID, correlationID string) (bool, error) {
	ctx, op := cqrs.Start(ctx, s.logger, string(j.name)+".remove",
		zap.String(j.owner.field, ownerID.String()),
		zap.String(j.item.field, itemID.String()),
		zap.String("correlation_id", correlationID),
	)
	defer op.End()

	if err := cqrs.Guard(cqrs.ID(j.owner.field, ownerID), cqrs.ID(j.item.field, itemID), cqrs.ID("modified_by", actor)); err != nil {
		return false, op.Fail(err, "Rejected association removal")
	}

	link, err := j.links.GetByID(ctx, ownerID, itemID)
	if errors.Is(err, shared.ErrNotFound) {
		op.Noop("No active association")
		return false, nil
	}
	if err != nil {
		return false, op.Fail(err, "Failed to load association")
	}

	link.Retire(actor)
	removed, err := j.links.Delete(ctx, link)
	if err != nil {
		return false, op.Fail(err, "Failed to remove association")
	}
	if !removed {
		op.Noop("Association was removed concurrently")
		return false, nil
	}

	op.Publish(ctx, s.events, shared.NewEntityChanged(string(j.name), ownerID, shared.ChangeRetired, actor))
	op.Succeed("Association removed")
	return true, nil
}

func (s *AssociationService) isLinked(ctx context.Context, j junction, ownerID, itemID uuid.UUID) (bool, error) {
	ctx, op := cqrs.Start(ctx, s.logger, string(j.name)+".exists")
	defer op.End()

	if err := cqrs.Guard(cqrs.ID(j.owner.field, ownerID), cqrs.ID(j.item.field, itemID)); err != nil {
		return false, op.Fail(err, "Rejected association query")
	}
	_, err := j.links.GetByID(ctx, ownerID, itemID)
	if errors.Is(err, shared.ErrNotFound) {
		op.Succeed("Association checked", zap.Bool("linked", false))
		return false, nil
	}
	if err != nil {
		return false, op.Fail(err, "Failed to check association")
	}

	op.Succeed("Association checked", zap.Bool("linked", true))
	return true, nil
}

func (s *AssociationService) phonesFor(ctx context.Context, j junction, ownerID uuid.UUID) ([]PhoneSummary, error) {
	ctx, op := cqrs.Start(ctx, s.logger, string(j.name)+".list", zap.String(j.owner.field, ownerID.String()))
	defer op.End()

	if err := cqrs.Guard(cqrs.ID(j.owner.field, ownerID)); err != nil {
		return nil, op.Fail(err, "Rejected association query")
	}
	phones, err := follow(ctx, j.links, ownerID, s.linked.phones.GetByIDs)
	if err != nil {
		return nil, op.Fail(err, "Failed to load linked phones")
	}
	ids := cqrs.DistinctIDs(phones, func(p *contact.Phone) *uuid.UUID { return cqrs.Ref(p.PhoneTypeID) })
	names, err := cqrs.LookupNames(ctx, s.linked.lookups, ids)
	if err != nil {
		return nil, op.Fail(err, "Failed to resolve phone types")
	}

	op.Succeed("Linked phones listed", zap.Int("count", len(phones)))
	return phoneSummaries(phones, names), nil
}

func (s *AssociationService) addressesFor(ctx context.Context, j junction, ownerID uuid.UUID) ([]AddressSummary, error) {
	ctx, op := cqrs.Start(ctx, s.logger, string(j.name)+".list", zap.String(j.owner.field, ownerID.String()))
	defer op.End()

	if err := cqrs.Guard(cqrs.ID(j.owner.field, ownerID)); err != nil {
		return nil, op.Fail(err, "Rejected association query")
	}
	addresses, err := follow(ctx, j.links, ownerID, s.linked.addresses.GetByIDs)
	if err != nil {
		return nil, op.Fail(err, "Failed to load linked addresses")
	}
	ids := cqrs.DistinctIDs(addresses, func(a *contact.Address) *uuid.UUID { return cqrs.Ref(a.AddressTypeID) })
	names, err := cqrs.LookupNames(ctx, s.linked.lookups, ids)
	if err != nil {
		return nil, op.Fail(err, "Failed to resolve address types")
	}

	op.Succeed("Linked addresses listed", zap.Int("count", len(addresses)))
	return addressSummaries(addresses, names), nil
}
