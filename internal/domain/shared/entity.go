package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is implemented by every CRM record through an embedded BaseEntity.
type Entity interface {
	GetID() uuid.UUID
	Base() *BaseEntity
}

// Audit is the attribution quadruple carried by every record.
// CreatedBy and CreatedDate are written once; ModifiedBy and ModifiedDate move on every mutation.
type Audit struct {
	CreatedBy    uuid.UUID
	CreatedDate  time.Time
	ModifiedBy   uuid.UUID
	ModifiedDate time.Time
}

// NewAudit stamps a fresh record. CreatedDate and ModifiedDate are the same instant.
func NewAudit(createdBy, modifiedBy uuid.UUID) Audit {
	now := Now()
	return Audit{
		CreatedBy:    createdBy,
		CreatedDate:  now,
		ModifiedBy:   modifiedBy,
		ModifiedDate: now,
	}
}

// Touch records a mutation by actor. ModifiedDate always moves forward, even when the
// wall clock has not advanced past the previous stamp.
func (a *Audit) Touch(actor uuid.UUID) {
	now := Now()
	if !now.After(a.ModifiedDate) {
		now = a.ModifiedDate.Add(time.Microsecond)
	}
	a.ModifiedBy = actor
	a.ModifiedDate = now
}

// BaseEntity holds identity, ordering, lifecycle and audit fields shared by all records
type BaseEntity struct {
	ID              uuid.UUID
	OrdinalPosition int
	Lifecycle       Lifecycle
	Audit
}

// NewBaseEntity creates an active entity with a new ID
func NewBaseEntity(ordinalPosition int, createdBy, modifiedBy uuid.UUID) BaseEntity {
	return BaseEntity{
		ID:              uuid.New(),
		OrdinalPosition: ordinalPosition,
		Lifecycle:       LifecycleActive,
		Audit:           NewAudit(createdBy, modifiedBy),
	}
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// Base gives generic code access to the embedded fields
func (e *BaseEntity) Base() *BaseEntity {
	return e
}

// IsActive reports whether the entity is visible to default reads
func (e *BaseEntity) IsActive() bool {
	return e.Lifecycle == LifecycleActive
}

// Retire moves the entity out of the active lifecycle and stamps the actor.
// Returns false if it was already retired.
func (e *BaseEntity) Retire(actor uuid.UUID) bool {
	if !e.IsActive() {
		return false
	}
	e.Lifecycle = LifecycleRetired
	e.Touch(actor)
	return true
}

// Reorder changes the display position and stamps the actor
func (e *BaseEntity) Reorder(ordinalPosition int, actor uuid.UUID) {
	e.OrdinalPosition = ordinalPosition
	e.Touch(actor)
}

// Now returns the current time at the precision stored by the database
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
