package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent represents an event that occurred in the domain
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
}

// BaseDomainEvent provides common fields for all domain events
type BaseDomainEvent struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	AggID     uuid.UUID `json:"aggregate_id"`
	AggType   string    `json:"aggregate_type"`
}

// EventID returns the unique event identifier
func (e *BaseDomainEvent) EventID() uuid.UUID {
	return e.ID
}

// EventType returns the type of the event
func (e *BaseDomainEvent) EventType() string {
	return e.Type
}

// OccurredAt returns when the event occurred
func (e *BaseDomainEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID returns the ID of the record that produced this event
func (e *BaseDomainEvent) AggregateID() uuid.UUID {
	return e.AggID
}

// AggregateType returns the type of the record
func (e *BaseDomainEvent) AggregateType() string {
	return e.AggType
}

// NewBaseDomainEvent creates a new base domain event
func NewBaseDomainEvent(eventType, aggType string, aggID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Timestamp: time.Now(),
		AggID:     aggID,
		AggType:   aggType,
	}
}

// ChangeKind is what happened to a record
type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
	ChangeRetired ChangeKind = "retired"
)

// EntityChangedEventType is the event type of every EntityChanged
const EntityChangedEventType = "EntityChanged"

// EntityChanged announces a committed mutation of any CRM record
type EntityChanged struct {
	BaseDomainEvent
	Change ChangeKind `json:"change"`
	Actor  uuid.UUID  `json:"actor"`
}

// NewEntityChanged builds the event for entity (e.g. "account") with the given id
func NewEntityChanged(entity string, id uuid.UUID, change ChangeKind, actor uuid.UUID) *EntityChanged {
	return &EntityChanged{
		BaseDomainEvent: NewBaseDomainEvent(EntityChangedEventType, entity, id),
		Change:          change,
		Actor:           actor,
	}
}
