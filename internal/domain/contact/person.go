// Package contact models people, companies and the phones and addresses linked to them.
package contact

import (
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Person is an individual contact
type Person struct {
	shared.BaseEntity
	FirstName  string
	MiddleName string
	LastName   string
	Title      string
	Email      string
	BirthDate  *time.Time
}

// PersonFields are the caller-supplied attributes of a person
type PersonFields struct {
	FirstName       string
	MiddleName      string
	LastName        string
	Title           string
	Email           string
	BirthDate       *time.Time
	OrdinalPosition int
}

// NewPerson creates a new active person
func NewPerson(f PersonFields, createdBy, modifiedBy uuid.UUID) *Person {
	p := &Person{BaseEntity: shared.NewBaseEntity(f.OrdinalPosition, createdBy, modifiedBy)}
	p.assign(f)
	return p
}

// Apply overwrites the caller-supplied attributes and stamps the actor
func (p *Person) Apply(f PersonFields, actor uuid.UUID) {
	p.assign(f)
	p.OrdinalPosition = f.OrdinalPosition
	p.Touch(actor)
}

// FullName joins the non-empty name parts
func (p *Person) FullName() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.FirstName, p.MiddleName, p.LastName} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func (p *Person) assign(f PersonFields) {
	p.FirstName = strings.TrimSpace(f.FirstName)
	p.MiddleName = strings.TrimSpace(f.MiddleName)
	p.LastName = strings.TrimSpace(f.LastName)
	p.Title = strings.TrimSpace(f.Title)
	p.Email = NormalizeEmail(f.Email)
	p.BirthDate = f.BirthDate
}

// NormalizeEmail lowercases and trims an address for storage and comparison
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
