package models

import (
	"time"

	"github.com/crm/backend/internal/domain/contact"
	"github.com/google/uuid"
)

// PersonModel is the persistence model for the Person domain entity
type PersonModel struct {
	EntityModel
	FirstName  string     `gorm:"type:varchar(50);not null"`
	MiddleName string     `gorm:"type:varchar(50)"`
	LastName   string     `gorm:"type:varchar(50);not null;index"`
	Title      string     `gorm:"type:varchar(100)"`
	Email      string     `gorm:"type:varchar(255);index"`
	BirthDate  *time.Time `gorm:"type:date"`
}

// TableName returns the table name for GORM
func (PersonModel) TableName() string {
	return "people"
}

// ToDomain converts the persistence model to a domain Person
func (m *PersonModel) ToDomain() *contact.Person {
	return &contact.Person{
		BaseEntity: m.EntityModel.ToDomain(),
		FirstName:  m.FirstName,
		MiddleName: m.MiddleName,
		LastName:   m.LastName,
		Title:      m.Title,
		Email:      m.Email,
		BirthDate:  timePtrUTC(m.BirthDate),
	}
}

// FromDomain populates the persistence model from a domain Person
func (m *PersonModel) FromDomain(p *contact.Person) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.FirstName = p.FirstName
	m.MiddleName = p.MiddleName
	m.LastName = p.LastName
	m.Title = p.Title
	m.Email = p.Email
	m.BirthDate = timePtrUTC(p.BirthDate)
}

// CompanyModel is the persistence model for the Company domain entity
type CompanyModel struct {
	EntityModel
	Name        string `gorm:"type:varchar(100);not null;index"`
	Website     string `gorm:"type:varchar(500)"`
	Industry    string `gorm:"type:varchar(100)"`
	Description string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CompanyModel) TableName() string {
	return "companies"
}

// ToDomain converts the persistence model to a domain Company
func (m *CompanyModel) ToDomain() *contact.Company {
	return &contact.Company{
		BaseEntity:  m.EntityModel.ToDomain(),
		Name:        m.Name,
		Website:     m.Website,
		Industry:    m.Industry,
		Description: m.Description,
	}
}

// FromDomain populates the persistence model from a domain Company
func (m *CompanyModel) FromDomain(c *contact.Company) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.Website = c.Website
	m.Industry = c.Industry
	m.Description = c.Description
}

// AddressModel is the persistence model for the Address domain entity
type AddressModel struct {
	EntityModel
	Line1         string    `gorm:"column:line1;type:varchar(100);not null"`
	Line2         string    `gorm:"column:line2;type:varchar(100)"`
	City          string    `gorm:"type:varchar(100);not null"`
	StateProvince string    `gorm:"type:varchar(100)"`
	PostalCode    string    `gorm:"type:varchar(20)"`
	Country       string    `gorm:"type:varchar(100)"`
	AddressTypeID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (AddressModel) TableName() string {
	return "addresses"
}

// ToDomain converts the persistence model to a domain Address
func (m *AddressModel) ToDomain() *contact.Address {
	return &contact.Address{
		BaseEntity:    m.EntityModel.ToDomain(),
		Line1:         m.Line1,
		Line2:         m.Line2,
		City:          m.City,
		StateProvince: m.StateProvince,
		PostalCode:    m.PostalCode,
		Country:       m.Country,
		AddressTypeID: m.AddressTypeID,
	}
}

// FromDomain populates the persistence model from a domain Address
func (m *AddressModel) FromDomain(a *contact.Address) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Line1 = a.Line1
	m.Line2 = a.Line2
	m.City = a.City
	m.StateProvince = a.StateProvince
	m.PostalCode = a.PostalCode
	m.Country = a.Country
	m.AddressTypeID = a.AddressTypeID
}

// PhoneModel is the persistence model for the Phone domain entity
type PhoneModel struct {
	EntityModel
	AreaCode    int       `gorm:"not null"`
	Number      string    `gorm:"type:varchar(20);not null"`
	Extension   string    `gorm:"type:varchar(10)"`
	PhoneTypeID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (PhoneModel) TableName() string {
	return "phones"
}

// ToDomain converts the persistence model to a domain Phone
func (m *PhoneModel) ToDomain() *contact.Phone {
	return &contact.Phone{
		BaseEntity:  m.EntityModel.ToDomain(),
		AreaCode:    m.AreaCode,
		Number:      m.Number,
		Extension:   m.Extension,
		PhoneTypeID: m.PhoneTypeID,
	}
}

// FromDomain populates the persistence model from a domain Phone
func (m *PhoneModel) FromDomain(p *contact.Phone) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.AreaCode = p.AreaCode
	m.Number = p.Number
	m.Extension = p.Extension
	m.PhoneTypeID = p.PhoneTypeID
}
