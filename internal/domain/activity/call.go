package activity

import (
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Direction says who placed a call
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// Call is a logged telephone conversation with a person
type Call struct {
	shared.BaseEntity
	PersonID        uuid.UUID
	PhoneID         uuid.UUID
	ActivityID      *uuid.UUID
	Direction       Direction
	CallDate        time.Time
	DurationSeconds int
	Notes           string
}

// CallFields are the caller-supplied attributes of a call
type CallFields struct {
	PersonID        uuid.UUID
	PhoneID         uuid.UUID
	ActivityID      *uuid.UUID
	Direction       Direction
	CallDate        time.Time
	DurationSeconds int
	Notes           string
	OrdinalPosition int
}

// NewCall creates a new active call
func NewCall(f CallFields, createdBy, modifiedBy uuid.UUID) *Call {
	c := &Call{BaseEntity: shared.NewBaseEntity(f.OrdinalPosition, createdBy, modifiedBy)}
	c.assign(f)
	return c
}

// Apply overwrites the caller-supplied attributes and stamps the actor
func (c *Call) Apply(f CallFields, actor uuid.UUID) {
	c.assign(f)
	c.OrdinalPosition = f.OrdinalPosition
	c.Touch(actor)
}

// Duration returns the call length
func (c *Call) Duration() time.Duration {
	return time.Duration(c.DurationSeconds) * time.Second
}

func (c *Call) assign(f CallFields) {
	c.PersonID = f.PersonID
	c.PhoneID = f.PhoneID
	c.ActivityID = f.ActivityID
	c.Direction = f.Direction
	c.CallDate = f.CallDate
	c.DurationSeconds = f.DurationSeconds
	c.Notes = f.Notes
}
