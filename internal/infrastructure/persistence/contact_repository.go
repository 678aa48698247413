package persistence

import (
	"context"

	"github.com/crm/backend/internal/domain/contact"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPersonRepository implements contact.PersonRepository using GORM
type GormPersonRepository struct {
	*gormRepository[contact.Person, models.PersonModel, *models.PersonModel]
}

// NewGormPersonRepository creates a new GormPersonRepository
func NewGormPersonRepository(db *gorm.DB) *GormPersonRepository {
	return &GormPersonRepository{
		gormRepository: newGormRepository[contact.Person, models.PersonModel, *models.PersonModel](
			db, []string{"first_name", "last_name", "email"}, "first_name", "last_name", "email"),
	}
}

// GetByEmail finds the active person with the email
func (r *GormPersonRepository) GetByEmail(ctx context.Context, email string) (*contact.Person, error) {
	return r.firstWhere(ctx, "email = ?", contact.NormalizeEmail(email))
}

// ExistsByEmail checks if another active person uses the email
func (r *GormPersonRepository) ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	return r.existsOther(ctx, "email", email, excludeID)
}

// GormCompanyRepository implements contact.CompanyRepository using GORM
type GormCompanyRepository struct {
	*gormRepository[contact.Company, models.CompanyModel, *models.CompanyModel]
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{
		gormRepository: newGormRepository[contact.Company, models.CompanyModel, *models.CompanyModel](
			db, []string{"name", "industry"}, "name", "industry", "website"),
	}
}

// GetByName finds the active company with the name, case-insensitively
func (r *GormCompanyRepository) GetByName(ctx context.Context, name string) (*contact.Company, error) {
	return r.firstWhere(ctx, "LOWER(name) = LOWER(?)", name)
}

// ExistsByName checks if another active company uses the name
func (r *GormCompanyRepository) ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	return r.existsOther(ctx, "name", name, excludeID)
}

// GormAddressRepository implements contact.AddressRepository using GORM
type GormAddressRepository struct {
	*gormRepository[contact.Address, models.AddressModel, *models.AddressModel]
}

// NewGormAddressRepository creates a new GormAddressRepository
func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{
		gormRepository: newGormRepository[contact.Address, models.AddressModel, *models.AddressModel](
			db, []string{"city", "postal_code", "country"}, "line1", "city", "postal_code", "country"),
	}
}

// GetByTypeID finds active addresses of the given type
func (r *GormAddressRepository) GetByTypeID(ctx context.Context, typeID uuid.UUID) ([]contact.Address, error) {
	return r.findWhere(ctx, "ordinal_position", "address_type_id = ?", typeID)
}

// GormPhoneRepository implements contact.PhoneRepository using GORM
type GormPhoneRepository struct {
	*gormRepository[contact.Phone, models.PhoneModel, *models.PhoneModel]
}

// NewGormPhoneRepository creates a new GormPhoneRepository
func NewGormPhoneRepository(db *gorm.DB) *GormPhoneRepository {
	return &GormPhoneRepository{
		gormRepository: newGormRepository[contact.Phone, models.PhoneModel, *models.PhoneModel](
			db, []string{"area_code", "number"}, "number"),
	}
}

// GetByTypeID finds active phones of the given type
func (r *GormPhoneRepository) GetByTypeID(ctx context.Context, typeID uuid.UUID) ([]contact.Phone, error) {
	return r.findWhere(ctx, "ordinal_position", "phone_type_id = ?", typeID)
}

var (
	_ contact.PersonRepository  = (*GormPersonRepository)(nil)
	_ contact.CompanyRepository = (*GormCompanyRepository)(nil)
	_ contact.AddressRepository = (*GormAddressRepository)(nil)
	_ contact.PhoneRepository   = (*GormPhoneRepository)(nil)
)
