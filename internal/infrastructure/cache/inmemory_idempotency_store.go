package cache

import (
	"context"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	gocache "github.com/patrickmn/go-cache"
)

const idempotencyCleanupInterval = 5 * time.Minute

// InMemoryIdempotencyStore implements IdempotencyStore on an in-process go-cache.
// This is suitable for single-instance deployments and testing.
type InMemoryIdempotencyStore struct {
	entries *gocache.Cache
}

// NewInMemoryIdempotencyStore creates a new in-memory idempotency store.
// go-cache removes expired keys in the background.
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return &InMemoryIdempotencyStore{
		entries: gocache.New(gocache.NoExpiration, idempotencyCleanupInterval),
	}
}

// MarkProcessed marks a key as processed with a TTL.
// Returns true if the key was newly marked, false if it was already processed.
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, key string, ttl time.Duration) (bool, error) {
	// Add fails while an unexpired item exists, which makes check-and-set atomic
	if err := s.entries.Add(key, struct{}{}, ttl); err != nil {
		return false, nil
	}
	return true, nil
}

// IsProcessed checks if a key has already been processed
func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	_, found := s.entries.Get(key)
	return found, nil
}

// Forget releases a key
func (s *InMemoryIdempotencyStore) Forget(_ context.Context, key string) error {
	s.entries.Delete(key)
	return nil
}

// Close drops every entry. Safe to call multiple times.
func (s *InMemoryIdempotencyStore) Close() error {
	s.entries.Flush()
	return nil
}

// Size returns the number of entries in the store (for testing/monitoring)
func (s *InMemoryIdempotencyStore) Size() int {
	return s.entries.ItemCount()
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
