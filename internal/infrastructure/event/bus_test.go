package event

import (
	"context"
	"errors"
	"testing"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var busActor = uuid.MustParse("11111111-1111-1111-1111-111111111111")

func accountChanged(change shared.ChangeKind) *shared.EntityChanged {
	return shared.NewEntityChanged("account", uuid.New(), change, busActor)
}

type panickingHandler struct{}

func (panickingHandler) Handle(context.Context, shared.DomainEvent) error { panic("boom") }
func (panickingHandler) EventTypes() []string                           { return nil }

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := testutil.NewMockEventHandler(shared.EntityChangedEventType)
	bus.Subscribe(handler)

	created := accountChanged(shared.ChangeCreated)
	retired := accountChanged(shared.ChangeRetired)
	require.NoError(t, bus.Publish(context.Background(), created, retired))

	handled := handler.Handled()
	require.Len(t, handled, 2)
	assert.Same(t, created, handled[0])
	assert.Same(t, retired, handled[1])
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandlerTypes(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := testutil.NewMockEventHandler(shared.EntityChangedEventType)
	bus.Subscribe(handler, "SomethingElse")

	require.NoError(t, bus.Publish(context.Background(), accountChanged(shared.ChangeCreated)))
	assert.Zero(t, handler.HandledCount())
}

func TestInMemoryEventBus_FailuresDoNotStopDelivery(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core))

	failing := testutil.NewMockEventHandler()
	failing.SetError(errors.New("sink down"))
	healthy := testutil.NewMockEventHandler()

	bus.Subscribe(failing)
	bus.Subscribe(panickingHandler{})
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), accountChanged(shared.ChangeUpdated))
	require.NoError(t, err, "handler failures never fail the publisher")
	assert.Equal(t, 1, healthy.HandledCount())

	failures := recorded.FilterMessage("Handler failed to process event").All()
	require.Len(t, failures, 2)
	assert.Equal(t, "account", failures[0].ContextMap()["aggregate_type"])
	assert.Contains(t, failures[1].ContextMap()["error"], "handler panicked: boom")
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := testutil.NewMockEventHandler()
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), accountChanged(shared.ChangeCreated)))
	assert.Zero(t, handler.HandledCount())
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	ctx := context.Background()

	assert.False(t, bus.Running())
	require.NoError(t, bus.Start(ctx))
	assert.True(t, bus.Running())
	require.NoError(t, bus.Stop(ctx))
	assert.False(t, bus.Running())
}
