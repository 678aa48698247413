package contact

import (
	"time"

	"github.com/crm/backend/internal/application/cqrs"
	"github.com/crm/backend/internal/domain/contact"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// =============================================================================
// Person
// =============================================================================

// CreatePersonCommand represents a request to create a person
type CreatePersonCommand struct {
	FirstName       string     `json:"first_name" validate:"required,notblank,max=50"`
	MiddleName      string     `json:"middle_name" validate:"max=50"`
	LastName        string     `json:"last_name" validate:"required,notblank,max=50"`
	Title           string     `json:"title" validate:"max=100"`
	Email           string     `json:"email" validate:"omitempty,email,max=100"`
	BirthDate       *time.Time `json:"birth_date"`
	OrdinalPosition int        `json:"ordinal_position" validate:"min=0"`
	CreatedBy       uuid.UUID  `json:"-"`
	ModifiedBy      uuid.UUID  `json:"-"`
	CorrelationID   string     `json:"-"`
}

// UpdatePersonCommand replaces the editable fields of a person
type UpdatePersonCommand struct {
	ID              uuid.UUID  `json:"-"`
	FirstName       string     `json:"first_name" validate:"required,notblank,max=50"`
	MiddleName      string     `json:"middle_name" validate:"max=50"`
	LastName        string     `json:"last_name" validate:"required,notblank,max=50"`
	Title           string     `json:"title" validate:"max=100"`
	Email           string     `json:"email" validate:"omitempty,email,max=100"`
	BirthDate       *time.Time `json:"birth_date"`
	OrdinalPosition int        `json:"ordinal_position" validate:"min=0"`
	ModifiedBy      uuid.UUID  `json:"-"`
	CorrelationID   string     `json:"-"`
}

// GetPersonByEmailQuery finds the active person with an email address
type GetPersonByEmailQuery struct {
	Email string `validate:"required,email,max=100"`
}

// PersonDTO is the details shape of a person, with linked phones and addresses
type PersonDTO struct {
	ID         uuid.UUID        `json:"id"`
	FirstName  string           `json:"first_name"`
	MiddleName string           `json:"middle_name"`
	LastName   string           `json:"last_name"`
	FullName   string           `json:"full_name"`
	Title      string           `json:"title"`
	Email      string           `json:"email"`
	BirthDate  *time.Time       `json:"birth_date,omitempty"`
	Phones     []PhoneSummary   `json:"phones"`
	Addresses  []AddressSummary `json:"addresses"`
	cqrs.AuditDTO
}

// PersonSummary is the list shape of a person
type PersonSummary struct {
	ID              uuid.UUID `json:"id"`
	FullName        string    `json:"full_name"`
	Title           string    `json:"title"`
	Email           string    `json:"email"`
	OrdinalPosition int       `json:"ordinal_position"`
	Active          bool      `json:"active"`
}

// ToPersonDTO maps a person to its details DTO without linked records
func ToPersonDTO(p *contact.Person) *PersonDTO {
	return &PersonDTO{
		ID:         p.ID,
		FirstName:  p.FirstName,
		MiddleName: p.MiddleName,
		LastName:   p.LastName,
		FullName:   p.FullName(),
		Title:      p.Title,
		Email:      p.Email,
		BirthDate:  p.BirthDate,
		Phones:     []PhoneSummary{},
		Addresses:  []AddressSummary{},
		AuditDTO:   cqrs.ToAuditDTO(&p.BaseEntity),
	}
}

// ToPersonSummary maps a person to its list DTO
func ToPersonSummary(p *contact.Person) PersonSummary {
	return PersonSummary{
		ID:              p.ID,
		FullName:        p.FullName(),
		Title:           p.Title,
		Email:           p.Email,
		OrdinalPosition: p.OrdinalPosition,
		Active:          p.IsActive(),
	}
}

func (c CreatePersonCommand) fields() contact.PersonFields {
	return contact.PersonFields{
		FirstName: c.FirstName, MiddleName: c.MiddleName, LastName: c.LastName,
		Title: c.Title, Email: c.Email, BirthDate: c.BirthDate, OrdinalPosition: c.OrdinalPosition,
	}
}

func (c UpdatePersonCommand) fields() contact.PersonFields {
	return contact.PersonFields{
		FirstName: c.FirstName, MiddleName: c.MiddleName, LastName: c.LastName,
		Title: c.Title, Email: c.Email, BirthDate: c.BirthDate, OrdinalPosition: c.OrdinalPosition,
	}
}

// =============================================================================
// Company
// =============================================================================

// CreateCompanyCommand represents a request to create a company
type CreateCompanyCommand struct {
	Name            string    `json:"name" validate:"required,notblank,max=100"`
	Website         string    `json:"website" validate:"omitempty,url,max=500"`
	Industry        string    `json:"industry" validate:"max=100"`
	Description     string    `json:"description" validate:"max=2000"`
	OrdinalPosition int       `json:"ordinal_position" validate:"min=0"`
	CreatedBy       uuid.UUID `json:"-"`
	ModifiedBy      uuid.UUID `json:"-"`
	CorrelationID   string    `json:"-"`
}

// UpdateCompanyCommand replaces the editable fields of a company
type UpdateCompanyCommand struct {
	ID              uuid.UUID `json:"-"`
	Name            string    `json:"name" validate:"required,notblank,max=100"`
	Website         string    `json:"website" validate:"omitempty,url,max=500"`
	Industry        string    `json:"industry" validate:"max=100"`
	Description     string    `json:"description" validate:"max=2000"`
	OrdinalPosition int       `json:"ordinal_position" validate:"min=0"`
	ModifiedBy      uuid.UUID `json:"-"`
	CorrelationID   string    `json:"-"`
}

// GetCompanyByNameQuery finds the active company with a name
type GetCompanyByNameQuery struct {
	Name string `validate:"required,max=100"`
}

// CompanyDTO is the details shape of a company, with linked phones and addresses
type CompanyDTO struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Website     string           `json:"website"`
	Industry    string           `json:"industry"`
	Description string           `json:"description"`
	Phones      []PhoneSummary   `json:"phones"`
	Addresses   []AddressSummary `json:"addresses"`
	cqrs.AuditDTO
}

// CompanySummary is the list shape of a company
type CompanySummary struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Industry        string    `json:"industry"`
	OrdinalPosition int       `json:"ordinal_position"`
	Active          bool      `json:"active"`
}

// ToCompanyDTO maps a company to its details DTO without linked records
func ToCompanyDTO(c *contact.Company) *CompanyDTO {
	return &CompanyDTO{
		ID:          c.ID,
		Name:        c.Name,
		Website:     c.Website,
		Industry:    c.Industry,
		Description: c.Description,
		Phones:      []PhoneSummary{},
		Addresses:   []AddressSummary{},
		AuditDTO:    cqrs.ToAuditDTO(&c.BaseEntity),
	}
}

// ToCompanySummary maps a company to its list DTO
func ToCompanySummary(c *contact.Company) CompanySummary {
	return CompanySummary{
		ID:              c.ID,
		Name:            c.Name,
		Industry:        c.Industry,
		OrdinalPosition: c.OrdinalPosition,
		Active:          c.IsActive(),
	}
}

func (c CreateCompanyCommand) fields() contact.CompanyFields {
	return contact.CompanyFields{
		Name: c.Name, Website: c.Website, Industry: c.Industry,
		Description: c.Description, OrdinalPosition: c.OrdinalPosition,
	}
}

func (c UpdateCompanyCommand) fields() contact.CompanyFields {
	return contact.CompanyFields{
		Name: c.Name, Website: c.Website, Industry: c.Industry,
		Description: c.Description, OrdinalPosition: c.OrdinalPosition,
	}
}

// =============================================================================
// Address
// =============================================================================

// CreateAddressCommand represents a request to create an address
type CreateAddressCommand struct {
	Line1           string    `json:"line1" validate:"required,notblank,max=100"`
	Line2           string    `json:"line2" validate:"max=100"`
	City            string    `json:"city" validate:"required,notblank,max=50"`
	StateProvince   string    `json:"state_province" validate:"max=50"`
	PostalCode      string    `json:"postal_code" validate:"required,notblank,max=20"`
	Country         string    `json:"country" validate:"required,notblank,max=50"`
	AddressTypeID   uuid.UUID `json:"address_type_id" validate:"required"`
	OrdinalPosition int       `json:"ordinal_position" validate:"min=0"`
	CreatedBy       uuid.UUID `json:"-"`
	ModifiedBy      uuid.UUID `json:"-"`
	CorrelationID   string    `json:"-"`
}

// UpdateAddressCommand replaces the editable fields of an address
type UpdateAddressCommand struct {
	ID              uuid.UUID `json:"-"`
	Line1           string    `json:"line1" validate:"required,notblank,max=100"`
	Line2           string    `json:"line2" validate:"max=100"`
	City            string    `json:"city" validate:"required,notblank,max=50"`
	StateProvince   string    `json:"state_province" validate:"max=50"`
	PostalCode      string    `json:"postal_code" validate:"required,notblank,max=20"`
	Country         string    `json:"country" validate:"required,notblank,max=50"`
	AddressTypeID   uuid.UUID `json:"address_type_id" validate:"required"`
	OrdinalPosition int       `json:"ordinal_position" validate:"min=0"`
	ModifiedBy      uuid.UUID `json:"-"`
	CorrelationID   string    `json:"-"`
}

// GetAddressesByTypeQuery finds addresses whose type has the given value, e.g. "Billing"
type GetAddressesByTypeQuery struct {
	Type string `validate:"required,max=50"`
}

// AddressDTO is the details shape of an address
type AddressDTO struct {
	ID            uuid.UUID `json:"id"`
	Line1         string    `json:"line1"`
	Line2         string    `json:"line2"`
	City          string    `json:"city"`
	StateProvince string    `json:"state_province"`
	PostalCode    string    `json:"postal_code"`
	Country       string    `json:"country"`
	AddressTypeID uuid.UUID `json:"address_type_id"`
	AddressType   string    `json:"address_type"`
	cqrs.AuditDTO
}

// AddressSummary is the list shape of an address
type AddressSummary struct {
	ID              uuid.UUID `json:"id"`
	SingleLine      string    `json:"single_line"`
	AddressType     string    `json:"address_type"`
	OrdinalPosition int       `json:"ordinal_position"`
	Active          bool      `json:"active"`
}

// ToAddressDTO maps an address to its details DTO
func ToAddressDTO(a *contact.Address) *AddressDTO {
	return &AddressDTO{
		ID:            a.ID,
		Line1:         a.Line1,
		Line2:         a.Line2,
		City:          a.City,
		StateProvince: a.StateProvince,
		PostalCode:    a.PostalCode,
		Country:       a.Country,
		AddressTypeID: a.AddressTypeID,
		AuditDTO:      cqrs.ToAuditDTO(&a.BaseEntity),
	}
}

// ToAddressSummary maps an address to its list DTO
func ToAddressSummary(a *contact.Address) AddressSummary {
	return AddressSummary{
		ID:              a.ID,
		SingleLine:      a.SingleLine(),
		OrdinalPosition: a.OrdinalPosition,
		Active:          a.IsActive(),
	}
}

func (c CreateAddressCommand) fields() contact.AddressFields {
	return contact.AddressFields{
		Line1: c.Line1, Line2: c.Line2, City: c.City, StateProvince: c.StateProvince,
		PostalCode: c.PostalCode, Country: c.Country, AddressTypeID: c.AddressTypeID,
		OrdinalPosition: c.OrdinalPosition,
	}
}

func (c UpdateAddressCommand) fields() contact.AddressFields {
	return contact.AddressFields{
		Line1: c.Line1, Line2: c.Line2, City: c.City, StateProvince: c.StateProvince,
		PostalCode: c.PostalCode, Country: c.Country, AddressTypeID: c.AddressTypeID,
		OrdinalPosition: c.OrdinalPosition,
	}
}

// =============================================================================
// Phone
// =============================================================================

// CreatePhoneCommand represents a request to create a phone
type CreatePhoneCommand struct {
	AreaCode        int       `json:"area_code" validate:"min=100,max=999"`
	Number          string    `json:"number" validate:"required,notblank,max=20"`
	Extension       string    `json:"extension" validate:"max=10"`
	PhoneTypeID     uuid.UUID `json:"phone_type_id" validate:"required"`
	OrdinalPosition int       `json:"ordinal_position" validate:"min=0"`
	CreatedBy       uuid.UUID `json:"-"`
	ModifiedBy      uuid.UUID `json:"-"`
	CorrelationID   string    `json:"-"`
}

// UpdatePhoneCommand replaces the editable fields of a phone
type UpdatePhoneCommand struct {
	ID              uuid.UUID `json:"-"`
	AreaCode        int       `json:"area_code" validate:"min=100,max=999"`
	Number          string    `json:"number" validate:"required,notblank,max=20"`
	Extension       string    `json:"extension" validate:"max=10"`
	PhoneTypeID     uuid.UUID `json:"phone_type_id" validate:"required"`
	OrdinalPosition int       `json:"ordinal_position" validate:"min=0"`
	ModifiedBy      uuid.UUID `json:"-"`
	CorrelationID   string    `json:"-"`
}

// GetPhonesByTypeQuery finds phones whose type has the given value, e.g. "Mobile"
type GetPhonesByTypeQuery struct {
	Type string `validate:"required,max=50"`
}

// PhoneDTO is the details shape of a phone
type PhoneDTO struct {
	ID          uuid.UUID `json:"id"`
	AreaCode    int       `json:"area_code"`
	Number      string    `json:"number"`
	Extension   string    `json:"extension"`
	Formatted   string    `json:"formatted"`
	PhoneTypeID uuid.UUID `json:"phone_type_id"`
	PhoneType   string    `json:"phone_type"`
	cqrs.AuditDTO
}

// PhoneSummary is the list shape of a phone
type PhoneSummary struct {
	ID              uuid.UUID `json:"id"`
	Formatted       string    `json:"formatted"`
	PhoneType       string    `json:"phone_type"`
	OrdinalPosition int       `json:"ordinal_position"`
	Active          bool      `json:"active"`
}

// ToPhoneDTO maps a phone to its details DTO
func ToPhoneDTO(p *contact.Phone) *PhoneDTO {
	return &PhoneDTO{
		ID:          p.ID,
		AreaCode:    p.AreaCode,
		Number:      p.Number,
		Extension:   p.Extension,
		Formatted:   p.Formatted(),
		PhoneTypeID: p.PhoneTypeID,
		AuditDTO:    cqrs.ToAuditDTO(&p.BaseEntity),
	}
}

// ToPhoneSummary maps a phone to its list DTO
func ToPhoneSummary(p *contact.Phone) PhoneSummary {
	return PhoneSummary{
		ID:              p.ID,
		Formatted:       p.Formatted(),
		OrdinalPosition: p.OrdinalPosition,
		Active:          p.IsActive(),
	}
}

func (c CreatePhoneCommand) fields() contact.PhoneFields {
	return contact.PhoneFields{
		AreaCode: c.AreaCode, Number: c.Number, Extension: c.Extension,
		PhoneTypeID: c.PhoneTypeID, OrdinalPosition: c.OrdinalPosition,
	}
}

func (c UpdatePhoneCommand) fields() contact.PhoneFields {
	return contact.PhoneFields{
		AreaCode: c.AreaCode, Number: c.Number, Extension: c.Extension,
		PhoneTypeID: c.PhoneTypeID, OrdinalPosition: c.OrdinalPosition,
	}
}

// =============================================================================
// Shared
// =============================================================================

// DeleteCommand retires a person, company, address or phone
type DeleteCommand struct {
	ID            uuid.UUID
	ModifiedBy    uuid.UUID
	CorrelationID string
}

// GetByIDQuery fetches one contact record
type GetByIDQuery struct {
	ID             uuid.UUID
	IncludeRetired bool
}

// ListQuery pages through active contact records
type ListQuery struct {
	Filter shared.Filter
}
