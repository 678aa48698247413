package event

import (
	"testing"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialize_EntityChanged(t *testing.T) {
	event := accountChanged(shared.ChangeRetired)

	data, err := Serialize(event)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.Equal(t, "EntityChanged", wire["event_type"])
	assert.Equal(t, "account", wire["entity"])
	assert.Equal(t, event.AggregateID().String(), wire["entity_id"])
	assert.Equal(t, "retired", wire["change"])
	assert.Equal(t, busActor.String(), wire["actor"])

	back, err := Deserialize(data)
	require.NoError(t, err)
	assert.Equal(t, event.EventID(), back.EventID())
	assert.Equal(t, event.AggregateID(), back.AggregateID())
	assert.Equal(t, shared.ChangeRetired, back.Change)
	assert.Equal(t, busActor, back.Actor)
	assert.True(t, event.OccurredAt().Equal(back.OccurredAt()))
}

func TestNewEnvelope_OtherEvents(t *testing.T) {
	base := shared.NewBaseDomainEvent("Custom", "quote", uuid.New())

	env := NewEnvelope(&base)
	assert.Equal(t, "Custom", env.EventType)
	assert.Equal(t, "quote", env.Entity)
	assert.Empty(t, env.Change)
	assert.Equal(t, uuid.Nil, env.Actor)
}

func TestDeserialize_Errors(t *testing.T) {
	_, err := Deserialize([]byte("{not json"))
	assert.Error(t, err)

	_, err = Deserialize([]byte(`{"event_type":"Custom"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown event type")
}
