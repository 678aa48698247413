package contact

import (
	"fmt"
	"strings"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Phone is a telephone number that can be linked to people and companies
type Phone struct {
	shared.BaseEntity
	AreaCode    int
	Number      string
	Extension   string
	PhoneTypeID uuid.UUID
}

// PhoneFields are the caller-supplied attributes of a phone
type PhoneFields struct {
	AreaCode        int
	Number          string
	Extension       string
	PhoneTypeID     uuid.UUID
	OrdinalPosition int
}

// NewPhone creates a new active phone
func NewPhone(f PhoneFields, createdBy, modifiedBy uuid.UUID) *Phone {
	p := &Phone{BaseEntity: shared.NewBaseEntity(f.OrdinalPosition, createdBy, modifiedBy)}
	p.assign(f)
	return p
}

// Apply overwrites the caller-supplied attributes and stamps the actor
func (p *Phone) Apply(f PhoneFields, actor uuid.UUID) {
	p.assign(f)
	p.OrdinalPosition = f.OrdinalPosition
	p.Touch(actor)
}

// Formatted renders the number as "(555) 0100 x12"
func (p *Phone) Formatted() string {
	s := fmt.Sprintf("(%03d) %s", p.AreaCode, p.Number)
	if p.Extension != "" {
		s += " x" + p.Extension
	}
	return s
}

func (p *Phone) assign(f PhoneFields) {
	p.AreaCode = f.AreaCode
	p.Number = strings.TrimSpace(f.Number)
	p.Extension = strings.TrimSpace(f.Extension)
	p.PhoneTypeID = f.PhoneTypeID
}
