package event

import (
	"fmt"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Envelope is the wire form of a change notification
type Envelope struct {
	EventID    uuid.UUID         `json:"event_id"`
	EventType  string            `json:"event_type"`
	Entity     string            `json:"entity"`
	EntityID   uuid.UUID         `json:"entity_id"`
	Change     shared.ChangeKind `json:"change,omitempty"`
	Actor      uuid.UUID         `json:"actor,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// NewEnvelope flattens a domain event. Fields only EntityChanged carries stay empty for
// other event types.
func NewEnvelope(event shared.DomainEvent) Envelope {
	env := Envelope{
		EventID:    event.EventID(),
		EventType:  event.EventType(),
		Entity:     event.AggregateType(),
		EntityID:   event.AggregateID(),
		OccurredAt: event.OccurredAt().UTC(),
	}
	if changed, ok := event.(*shared.EntityChanged); ok {
		env.Change = changed.Change
		env.Actor = changed.Actor
	}
	return env
}

// Serialize encodes event as an Envelope
func Serialize(event shared.DomainEvent) ([]byte, error) {
	b, err := json.Marshal(NewEnvelope(event))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event %s: %w", event.EventID(), err)
	}
	return b, nil
}

// Deserialize decodes an Envelope back into an EntityChanged
func Deserialize(data []byte) (*shared.EntityChanged, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if env.EventType != shared.EntityChangedEventType {
		return nil, fmt.Errorf("unknown event type: %s", env.EventType)
	}
	return &shared.EntityChanged{
		BaseDomainEvent: shared.BaseDomainEvent{
			ID:        env.EventID,
			Type:      env.EventType,
			Timestamp: env.OccurredAt,
			AggID:     env.EntityID,
			AggType:   env.Entity,
		},
		Change: env.Change,
		Actor:  env.Actor,
	}, nil
}
