package event

import (
	"testing"

	"github.com/crm/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry(t *testing.T) {
	r := NewHandlerRegistry()
	typed := testutil.NewMockEventHandler()
	wildcard := testutil.NewMockEventHandler()

	r.Register(typed, "EntityChanged", "Other")
	r.Register(wildcard)

	t.Run("typed handlers come before wildcard handlers", func(t *testing.T) {
		handlers := r.GetHandlers("EntityChanged")
		assert.Len(t, handlers, 2)
		assert.Same(t, typed, handlers[0])
		assert.Same(t, wildcard, handlers[1])
	})

	t.Run("unknown types reach only wildcard handlers", func(t *testing.T) {
		handlers := r.GetHandlers("Unknown")
		assert.Len(t, handlers, 1)
		assert.Same(t, wildcard, handlers[0])
	})

	t.Run("len counts distinct handlers", func(t *testing.T) {
		assert.Equal(t, 2, r.Len())
	})

	t.Run("unregister removes every registration", func(t *testing.T) {
		r.Unregister(typed)
		assert.Len(t, r.GetHandlers("EntityChanged"), 1)
		assert.Len(t, r.GetHandlers("Other"), 1)
		assert.Equal(t, 1, r.Len())

		r.Unregister(wildcard)
		assert.Empty(t, r.GetHandlers("EntityChanged"))
		assert.Zero(t, r.Len())
	})
}
