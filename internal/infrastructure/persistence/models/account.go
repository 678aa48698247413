package models

import (
	"github.com/crm/backend/internal/domain/account"
	"github.com/google/uuid"
)

// AccountModel is the persistence model for the Account domain entity
type AccountModel struct {
	EntityModel
	Name            string     `gorm:"type:varchar(100);not null;index"`
	AccountNumber   string     `gorm:"type:varchar(50);index"`
	Description     string     `gorm:"type:text"`
	AccountStatusID uuid.UUID  `gorm:"type:uuid;not null;index"`
	AccountTypeID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	CompanyID       *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account
func (m *AccountModel) ToDomain() *account.Account {
	return &account.Account{
		BaseEntity:      m.EntityModel.ToDomain(),
		Name:            m.Name,
		AccountNumber:   m.AccountNumber,
		Description:     m.Description,
		AccountStatusID: m.AccountStatusID,
		AccountTypeID:   m.AccountTypeID,
		CompanyID:       m.CompanyID,
	}
}

// FromDomain populates the persistence model from a domain Account
func (m *AccountModel) FromDomain(a *account.Account) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Name = a.Name
	m.AccountNumber = a.AccountNumber
	m.Description = a.Description
	m.AccountStatusID = a.AccountStatusID
	m.AccountTypeID = a.AccountTypeID
	m.CompanyID = a.CompanyID
}
