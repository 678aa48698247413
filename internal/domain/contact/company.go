package contact

import (
	"strings"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Company is an organization contact
type Company struct {
	shared.BaseEntity
	Name        string
	Website     string
	Industry    string
	Description string
}

// CompanyFields are the caller-supplied attributes of a company
type CompanyFields struct {
	Name            string
	Website         string
	Industry        string
	Description     string
	OrdinalPosition int
}

// NewCompany creates a new active company
func NewCompany(f CompanyFields, createdBy, modifiedBy uuid.UUID) *Company {
	c := &Company{BaseEntity: shared.NewBaseEntity(f.OrdinalPosition, createdBy, modifiedBy)}
	c.assign(f)
	return c
}

// Apply overwrites the caller-supplied attributes and stamps the actor
func (c *Company) Apply(f CompanyFields, actor uuid.UUID) {
	c.assign(f)
	c.OrdinalPosition = f.OrdinalPosition
	c.Touch(actor)
}

func (c *Company) assign(f CompanyFields) {
	c.Name = strings.TrimSpace(f.Name)
	c.Website = strings.TrimSpace(f.Website)
	c.Industry = strings.TrimSpace(f.Industry)
	c.Description = f.Description
}
