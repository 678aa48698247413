//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/lookup"
	"github.com/crm/backend/internal/infrastructure/cache"
	"github.com/crm/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisIdempotencyStore(t *testing.T) {
	client := NewTestRedis(t)
	store := cache.NewRedisIdempotencyStore(client, "test:idem:")
	ctx := context.Background()

	fresh, err := store.MarkProcessed(ctx, "POST /accounts|a|k1", time.Minute)
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = store.MarkProcessed(ctx, "POST /accounts|a|k1", time.Minute)
	require.NoError(t, err)
	assert.False(t, fresh)

	seen, err := store.IsProcessed(ctx, "POST /accounts|a|k1")
	require.NoError(t, err)
	assert.True(t, seen)

	require.NoError(t, store.Forget(ctx, "POST /accounts|a|k1"))
	fresh, err = store.MarkProcessed(ctx, "POST /accounts|a|k1", time.Minute)
	require.NoError(t, err)
	assert.True(t, fresh)

	ttl, err := client.TTL(ctx, "test:idem:POST /accounts|a|k1").Result()
	require.NoError(t, err)
	assert.InDelta(t, time.Minute.Seconds(), ttl.Seconds(), 5)
}

// Two cache instances share Redis; an update through one evicts the other's local copy.
func TestCachedLookupRepository_CrossInstanceInvalidation(t *testing.T) {
	db := NewTestDB(t)
	client := NewTestRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	newInstance := func() *cache.CachedLookupRepository {
		invalidator := cache.NewLookupInvalidator(client, cache.WithInvalidationChannel("test:lookups"))
		t.Cleanup(func() { _ = invalidator.Close() })
		repo := cache.NewCachedLookupRepository(
			persistence.NewGormLookupRepository(db),
			cache.WithRemoteStore(cache.NewRedisStore(client)),
			cache.WithInvalidator(invalidator),
		)
		go func() { _ = repo.StartInvalidationSubscription(ctx) }()
		return repo
	}
	writer, reader := newInstance(), newInstance()

	seeded, err := reader.GetByValue(ctx, lookup.KindPhoneType, "Mobile")
	require.NoError(t, err)

	cached, err := reader.GetByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mobile", cached.Value)
	require.Equal(t, 1, reader.LocalSize())

	// let both subscriptions attach before publishing
	time.Sleep(200 * time.Millisecond)

	updated, err := writer.GetByID(ctx, seeded.ID)
	require.NoError(t, err)
	updated.Apply(lookup.Fields{Value: "Cell", OrdinalPosition: updated.OrdinalPosition}, actor)
	require.NoError(t, writer.Update(ctx, updated))

	require.Eventually(t, func() bool { return reader.LocalSize() == 0 }, 5*time.Second, 50*time.Millisecond)

	fresh, err := reader.GetByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cell", fresh.Value)
}
