package persistence

import (
	"context"
	"testing"

	"github.com/crm/backend/internal/domain/lookup"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLookup(kind lookup.Kind, value string, position int) *lookup.Lookup {
	return lookup.NewLookup(kind, lookup.Fields{Value: value, OrdinalPosition: position}, testActor, testActor)
}

func TestGormLookupRepository_KindScoping(t *testing.T) {
	repo := NewGormLookupRepository(newTestDB(t))
	ctx := context.Background()

	open := newLookup(lookup.KindAccountStatus, "Open", 1)
	closed := newLookup(lookup.KindAccountStatus, "Closed", 2)
	wire := newLookup(lookup.KindPaymentMethod, "Wire Transfer", 1)
	for _, l := range []*lookup.Lookup{open, closed, wire} {
		require.NoError(t, repo.Add(ctx, l))
	}

	t.Run("exists only within its kind", func(t *testing.T) {
		ok, err := repo.Exists(ctx, lookup.KindAccountStatus, open.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.Exists(ctx, lookup.KindAccountType, open.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("lists and counts one kind", func(t *testing.T) {
		items, err := repo.GetAll(ctx, lookup.KindAccountStatus, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "Open", items[0].Value)
		assert.Equal(t, lookup.KindAccountStatus, items[1].Kind)

		n, err := repo.Count(ctx, lookup.KindPaymentMethod, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("GetByIDs spans kinds", func(t *testing.T) {
		items, err := repo.GetByIDs(ctx, []uuid.UUID{open.ID, wire.ID})
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("value lookups are case-insensitive", func(t *testing.T) {
		got, err := repo.GetByValue(ctx, lookup.KindPaymentMethod, "  wire TRANSFER ")
		require.NoError(t, err)
		assert.Equal(t, wire.ID, got.ID)

		_, err = repo.GetByValue(ctx, lookup.KindAccountStatus, "Wire Transfer")
		assert.ErrorIs(t, err, shared.ErrNotFound)

		taken, err := repo.ExistsByValue(ctx, lookup.KindAccountStatus, "OPEN", uuid.Nil)
		require.NoError(t, err)
		assert.True(t, taken)

		self, err := repo.ExistsByValue(ctx, lookup.KindAccountStatus, "open", open.ID)
		require.NoError(t, err)
		assert.False(t, self)
	})

	t.Run("by ordinal position", func(t *testing.T) {
		items, err := repo.GetByOrdinalPosition(ctx, lookup.KindAccountStatus, 2)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, closed.ID, items[0].ID)
	})

	t.Run("retired values can be reused", func(t *testing.T) {
		closed.Retire(testActor)
		deleted, err := repo.Delete(ctx, closed)
		require.NoError(t, err)
		require.True(t, deleted)

		taken, err := repo.ExistsByValue(ctx, lookup.KindAccountStatus, "Closed", uuid.Nil)
		require.NoError(t, err)
		assert.False(t, taken)
	})
}

func TestGormLookupRepository_Update(t *testing.T) {
	repo := NewGormLookupRepository(newTestDB(t))
	ctx := context.Background()

	l := newLookup(lookup.KindPhoneType, "Mobile", 0)
	require.NoError(t, repo.Add(ctx, l))

	l.Apply(lookup.Fields{Value: "Cell", Description: "cellular", OrdinalPosition: 4}, testActor)
	require.NoError(t, repo.Update(ctx, l))

	got, err := repo.GetByValue(ctx, lookup.KindPhoneType, "cell")
	require.NoError(t, err)
	assert.Equal(t, "Cell", got.Value)
	assert.Equal(t, "cellular", got.Description)
	assert.Equal(t, 4, got.OrdinalPosition)
	assert.Equal(t, lookup.KindPhoneType, got.Kind)
}
