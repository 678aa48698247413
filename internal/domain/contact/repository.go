package contact

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PersonRepository defines the interface for person persistence
type PersonRepository interface {
	shared.Repository[Person]

	// GetByEmail finds the active person with the email
	GetByEmail(ctx context.Context, email string) (*Person, error)

	// ExistsByEmail checks if another active person uses the email
	ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)
}

// CompanyRepository defines the interface for company persistence
type CompanyRepository interface {
	shared.Repository[Company]

	// GetByName finds the active company with the name, case-insensitively
	GetByName(ctx context.Context, name string) (*Company, error)

	// ExistsByName checks if another active company uses the name
	ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)
}

// AddressRepository defines the interface for address persistence
type AddressRepository interface {
	shared.Repository[Address]

	// GetByTypeID finds active addresses of the given type
	GetByTypeID(ctx context.Context, typeID uuid.UUID) ([]Address, error)
}

// PhoneRepository defines the interface for phone persistence
type PhoneRepository interface {
	shared.Repository[Phone]

	// GetByTypeID finds active phones of the given type
	GetByTypeID(ctx context.Context, typeID uuid.UUID) ([]Phone, error)
}

// Association names a junction between a contact and a phone or address.
// The contact is always the first key.
type Association string

const (
	PersonPhones     Association = "person_phones"
	CompanyPhones    Association = "company_phones"
	PersonAddresses  Association = "person_addresses"
	CompanyAddresses Association = "company_addresses"
)
