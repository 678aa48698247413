package models

import (
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EntityModel provides the identity, ordering, lifecycle and audit columns every CRM table carries.
// It maps to the domain's BaseEntity.
type EntityModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrdinalPosition int       `gorm:"not null;default:0;index"`
	Lifecycle       string    `gorm:"type:varchar(10);not null;default:'active';index"`
	CreatedBy       uuid.UUID `gorm:"type:uuid;not null"`
	CreatedDate     time.Time `gorm:"not null"`
	ModifiedBy      uuid.UUID `gorm:"type:uuid;not null"`
	ModifiedDate    time.Time `gorm:"not null"`
}

// Entity gives generic repositories access to the shared columns of any model
func (m *EntityModel) Entity() *EntityModel {
	return m
}

// ToDomain converts EntityModel to domain BaseEntity
func (m *EntityModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:              m.ID,
		OrdinalPosition: m.OrdinalPosition,
		Lifecycle:       shared.Lifecycle(m.Lifecycle),
		Audit:           auditToDomain(m.CreatedBy, m.CreatedDate, m.ModifiedBy, m.ModifiedDate),
	}
}

// FromDomainBaseEntity populates EntityModel from domain BaseEntity
func (m *EntityModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.OrdinalPosition = e.OrdinalPosition
	m.Lifecycle = e.Lifecycle.String()
	m.CreatedBy = e.CreatedBy
	m.CreatedDate = e.CreatedDate.UTC()
	m.ModifiedBy = e.ModifiedBy
	m.ModifiedDate = e.ModifiedDate.UTC()
}

// JunctionModel is the row shape of every many-to-many table once its two key columns are
// aliased to first_id and second_id.
type JunctionModel struct {
	FirstID      uuid.UUID
	SecondID     uuid.UUID
	Lifecycle    string
	CreatedBy    uuid.UUID
	CreatedDate  time.Time
	ModifiedBy   uuid.UUID
	ModifiedDate time.Time
}

// ToDomain converts JunctionModel to a domain Junction
func (m *JunctionModel) ToDomain() *shared.Junction {
	return &shared.Junction{
		FirstID:   m.FirstID,
		SecondID:  m.SecondID,
		Lifecycle: shared.Lifecycle(m.Lifecycle),
		Audit:     auditToDomain(m.CreatedBy, m.CreatedDate, m.ModifiedBy, m.ModifiedDate),
	}
}

func auditToDomain(createdBy uuid.UUID, created time.Time, modifiedBy uuid.UUID, modified time.Time) shared.Audit {
	return shared.Audit{
		CreatedBy:    createdBy,
		CreatedDate:  created.UTC(),
		ModifiedBy:   modifiedBy,
		ModifiedDate: modified.UTC(),
	}
}

// timePtrUTC normalizes an optional date before it is written
func timePtrUTC(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
