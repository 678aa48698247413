package models

import (
	"time"

	"github.com/google/uuid"
)

// LinkColumns are the lifecycle and audit columns of a junction table
type LinkColumns struct {
	Lifecycle    string    `gorm:"type:varchar(10);not null;default:'active';index"`
	CreatedBy    uuid.UUID `gorm:"type:uuid;not null"`
	CreatedDate  time.Time `gorm:"not null"`
	ModifiedBy   uuid.UUID `gorm:"type:uuid;not null"`
	ModifiedDate time.Time `gorm:"not null"`
}

// PersonPhoneModel links a person to a phone
type PersonPhoneModel struct {
	PersonID uuid.UUID `gorm:"type:uuid;primaryKey"`
	PhoneID  uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	LinkColumns
}

// TableName returns the table name for GORM
func (PersonPhoneModel) TableName() string { return "person_phones" }

// CompanyPhoneModel links a company to a phone
type CompanyPhoneModel struct {
	CompanyID uuid.UUID `gorm:"type:uuid;primaryKey"`
	PhoneID   uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	LinkColumns
}

// TableName returns the table name for GORM
func (CompanyPhoneModel) TableName() string { return "company_phones" }

// PersonAddressModel links a person to an address
type PersonAddressModel struct {
	PersonID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	AddressID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	LinkColumns
}

// TableName returns the table name for GORM
func (PersonAddressModel) TableName() string { return "person_addresses" }

// CompanyAddressModel links a company to an address
type CompanyAddressModel struct {
	CompanyID uuid.UUID `gorm:"type:uuid;primaryKey"`
	AddressID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	LinkColumns
}

// TableName returns the table name for GORM
func (CompanyAddressModel) TableName() string { return "company_addresses" }

// All returns every model in creation order, for AutoMigrate on databases without SQL migrations
func All() []any {
	return []any{
		&LookupModel{},
		&CompanyModel{},
		&AccountModel{},
		&PersonModel{},
		&AddressModel{},
		&PhoneModel{},
		&PersonPhoneModel{},
		&CompanyPhoneModel{},
		&PersonAddressModel{},
		&CompanyAddressModel{},
		&ActivityModel{},
		&CallModel{},
		&ProductModel{},
		&QuoteModel{},
		&QuoteLineItemModel{},
		&SalesOrderModel{},
		&PaymentModel{},
	}
}
