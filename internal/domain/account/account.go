package account

import (
	"strings"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Account is a customer organization or individual the CRM tracks
type Account struct {
	shared.BaseEntity
	Name            string
	AccountNumber   string
	Description     string
	AccountStatusID uuid.UUID
	AccountTypeID   uuid.UUID
	CompanyID       *uuid.UUID
}

// Fields are the caller-supplied attributes of an account
type Fields struct {
	Name            string
	AccountNumber   string
	Description     string
	AccountStatusID uuid.UUID
	AccountTypeID   uuid.UUID
	CompanyID       *uuid.UUID
	OrdinalPosition int
}

// NewAccount creates a new active account
func NewAccount(f Fields, createdBy, modifiedBy uuid.UUID) *Account {
	a := &Account{BaseEntity: shared.NewBaseEntity(f.OrdinalPosition, createdBy, modifiedBy)}
	a.assign(f)
	return a
}

// Apply overwrites the caller-supplied attributes and stamps the actor
func (a *Account) Apply(f Fields, actor uuid.UUID) {
	a.assign(f)
	a.OrdinalPosition = f.OrdinalPosition
	a.Touch(actor)
}

func (a *Account) assign(f Fields) {
	a.Name = strings.TrimSpace(f.Name)
	a.AccountNumber = strings.TrimSpace(f.AccountNumber)
	a.Description = f.Description
	a.AccountStatusID = f.AccountStatusID
	a.AccountTypeID = f.AccountTypeID
	a.CompanyID = f.CompanyID
}
