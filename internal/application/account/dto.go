package account

import (
	"github.com/crm/backend/internal/application/cqrs"
	"github.com/crm/backend/internal/domain/account"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CreateAccountCommand represents a request to create an account
type CreateAccountCommand struct {
	Name            string     `json:"name" validate:"required,notblank,max=100"`
	AccountNumber   string     `json:"account_number" validate:"max=50"`
	Description     string     `json:"description" validate:"max=2000"`
	AccountStatusID uuid.UUID  `json:"account_status_id" validate:"required"`
	AccountTypeID   uuid.UUID  `json:"account_type_id" validate:"required"`
	CompanyID       *uuid.UUID `json:"company_id"`
	OrdinalPosition int        `json:"ordinal_position" validate:"min=0"`
	CreatedBy       uuid.UUID  `json:"-"`
	ModifiedBy      uuid.UUID  `json:"-"`
	CorrelationID   string     `json:"-"`
}

// UpdateAccountCommand replaces the editable fields of an account
type UpdateAccountCommand struct {
	ID              uuid.UUID  `json:"-"`
	Name            string     `json:"name" validate:"required,notblank,max=100"`
	AccountNumber   string     `json:"account_number" validate:"max=50"`
	Description     string     `json:"description" validate:"max=2000"`
	AccountStatusID uuid.UUID  `json:"account_status_id" validate:"required"`
	AccountTypeID   uuid.UUID  `json:"account_type_id" validate:"required"`
	CompanyID       *uuid.UUID `json:"company_id"`
	OrdinalPosition int        `json:"ordinal_position" validate:"min=0"`
	ModifiedBy      uuid.UUID  `json:"-"`
	CorrelationID   string     `json:"-"`
}

// DeleteAccountCommand retires an account
type DeleteAccountCommand struct {
	ID            uuid.UUID
	ModifiedBy    uuid.UUID
	CorrelationID string
}

// GetAccountByIDQuery fetches one account with its related names
type GetAccountByIDQuery struct {
	ID             uuid.UUID
	IncludeRetired bool
}

// ListAccountsQuery pages through active accounts
type ListAccountsQuery struct {
	Filter shared.Filter
}

// GetAccountsByStatusQuery finds accounts whose status has the given value, e.g. "Active"
type GetAccountsByStatusQuery struct {
	Status string `validate:"required,max=50"`
}

// GetAccountsByTypeQuery finds accounts whose type has the given value
type GetAccountsByTypeQuery struct {
	Type string `validate:"required,max=50"`
}

// AccountDTO is the details shape of an account
type AccountDTO struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	AccountNumber   string     `json:"account_number"`
	Description     string     `json:"description"`
	AccountStatusID uuid.UUID  `json:"account_status_id"`
	AccountStatus   string     `json:"account_status"`
	AccountTypeID   uuid.UUID  `json:"account_type_id"`
	AccountType     string     `json:"account_type"`
	CompanyID       *uuid.UUID `json:"company_id,omitempty"`
	CompanyName     string     `json:"company_name,omitempty"`
	cqrs.AuditDTO
}

// AccountSummary is the list shape of an account
type AccountSummary struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	AccountNumber   string    `json:"account_number"`
	AccountStatus   string    `json:"account_status"`
	AccountType     string    `json:"account_type"`
	CompanyName     string    `json:"company_name,omitempty"`
	OrdinalPosition int       `json:"ordinal_position"`
	Active          bool      `json:"active"`
}

// ToAccountDTO maps an account to its details DTO. Names are filled by the caller.
func ToAccountDTO(a *account.Account) *AccountDTO {
	return &AccountDTO{
		ID:              a.ID,
		Name:            a.Name,
		AccountNumber:   a.AccountNumber,
		Description:     a.Description,
		AccountStatusID: a.AccountStatusID,
		AccountTypeID:   a.AccountTypeID,
		CompanyID:       a.CompanyID,
		AuditDTO:        cqrs.ToAuditDTO(&a.BaseEntity),
	}
}

// ToAccountSummary maps an account to its list DTO. Names are filled by the caller.
func ToAccountSummary(a *account.Account) AccountSummary {
	return AccountSummary{
		ID:              a.ID,
		Name:            a.Name,
		AccountNumber:   a.AccountNumber,
		OrdinalPosition: a.OrdinalPosition,
		Active:          a.IsActive(),
	}
}

func (c CreateAccountCommand) fields() account.Fields {
	return account.Fields{
		Name:            c.Name,
		AccountNumber:   c.AccountNumber,
		Description:     c.Description,
		AccountStatusID: c.AccountStatusID,
		AccountTypeID:   c.AccountTypeID,
		CompanyID:       c.CompanyID,
		OrdinalPosition: c.OrdinalPosition,
	}
}

func (c UpdateAccountCommand) fields() account.Fields {
	return account.Fields{
		Name:            c.Name,
		AccountNumber:   c.AccountNumber,
		Description:     c.Description,
		AccountStatusID: c.AccountStatusID,
		AccountTypeID:   c.AccountTypeID,
		CompanyID:       c.CompanyID,
		OrdinalPosition: c.OrdinalPosition,
	}
}
