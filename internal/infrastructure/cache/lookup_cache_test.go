package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/lookup"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// memStore is a map-backed Store standing in for Redis
type memStore struct {
	mu      sync.Mutex
	items   map[string][]byte
	failGet bool
}

func newMemStore() *memStore {
	return &memStore{items: map[string][]byte{}}
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failGet {
		return nil, false, errors.New("connection refused")
	}
	b, ok := s.items[key]
	return b, ok, nil
}

func (s *memStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

func (s *memStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.items, k)
	}
	return nil
}

func (s *memStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[key]
	return ok
}

var cacheActor = uuid.MustParse("11111111-1111-1111-1111-111111111111")

func newStatus(value string) *lookup.Lookup {
	return lookup.NewLookup(lookup.KindAccountStatus, lookup.Fields{Value: value}, cacheActor, cacheActor)
}

func TestCachedLookupRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	active := newStatus("Active")

	t.Run("second read is served locally", func(t *testing.T) {
		inner := new(testutil.MockLookupRepository)
		inner.On("GetByID", mock.Anything, active.ID).Return(active, nil).Once()
		c := NewCachedLookupRepository(inner)

		for i := 0; i < 3; i++ {
			got, err := c.GetByID(ctx, active.ID)
			require.NoError(t, err)
			assert.Equal(t, "Active", got.Value)
		}
		inner.AssertExpectations(t)
		assert.Equal(t, 1, c.LocalSize())
	})

	t.Run("returned values are copies", func(t *testing.T) {
		inner := new(testutil.MockLookupRepository)
		inner.On("GetByID", mock.Anything, active.ID).Return(active, nil).Once()
		c := NewCachedLookupRepository(inner)

		first, err := c.GetByID(ctx, active.ID)
		require.NoError(t, err)
		first.Value = "mutated"

		second, err := c.GetByID(ctx, active.ID)
		require.NoError(t, err)
		assert.Equal(t, "Active", second.Value)
	})

	t.Run("not found is not cached", func(t *testing.T) {
		inner := new(testutil.MockLookupRepository)
		id := uuid.New()
		inner.On("GetByID", mock.Anything, id).Return(nil, shared.ErrNotFound).Twice()
		c := NewCachedLookupRepository(inner)

		for i := 0; i < 2; i++ {
			_, err := c.GetByID(ctx, id)
			assert.ErrorIs(t, err, shared.ErrNotFound)
		}
		inner.AssertExpectations(t)
	})

	t.Run("remote tier fills the local tier", func(t *testing.T) {
		store := newMemStore()
		warm := NewCachedLookupRepository(stubLoader(active), WithRemoteStore(store))
		_, err := warm.GetByID(ctx, active.ID)
		require.NoError(t, err)
		require.True(t, store.has("crm:lookup:"+active.ID.String()))

		inner := new(testutil.MockLookupRepository)
		cold := NewCachedLookupRepository(inner, WithRemoteStore(store))
		got, err := cold.GetByID(ctx, active.ID)
		require.NoError(t, err)
		assert.Equal(t, active.ID, got.ID)
		assert.True(t, active.CreatedDate.Equal(got.CreatedDate))
		inner.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		assert.Equal(t, 1, cold.LocalSize())
	})

	t.Run("remote failures fall through to the repository", func(t *testing.T) {
		store := newMemStore()
		store.failGet = true
		inner := new(testutil.MockLookupRepository)
		inner.On("GetByID", mock.Anything, active.ID).Return(active, nil).Once()
		c := NewCachedLookupRepository(inner, WithRemoteStore(store))

		got, err := c.GetByID(ctx, active.ID)
		require.NoError(t, err)
		assert.Equal(t, active.ID, got.ID)
	})
}

func TestCachedLookupRepository_ConcurrentMissesLoadOnce(t *testing.T) {
	active := newStatus("Active")
	release := make(chan struct{})

	inner := new(testutil.MockLookupRepository)
	inner.On("GetByID", mock.Anything, active.ID).
		Run(func(mock.Arguments) { <-release }).
		Return(active, nil).
		Once()
	c := NewCachedLookupRepository(inner)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := c.GetByID(context.Background(), active.ID)
			assert.NoError(t, err)
			assert.Equal(t, active.ID, got.ID)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	inner.AssertNumberOfCalls(t, "GetByID", 1)
}

func TestCachedLookupRepository_GetByIDs(t *testing.T) {
	ctx := context.Background()
	a, b := newStatus("Active"), newStatus("Dormant")
	unknown := uuid.New()

	inner := new(testutil.MockLookupRepository)
	inner.On("GetByID", mock.Anything, a.ID).Return(a, nil).Once()
	inner.On("GetByIDs", mock.Anything, []uuid.UUID{b.ID, unknown}).Return([]lookup.Lookup{*b}, nil).Once()
	c := NewCachedLookupRepository(inner)

	_, err := c.GetByID(ctx, a.ID)
	require.NoError(t, err)

	got, err := c.GetByIDs(ctx, []uuid.UUID{a.ID, b.ID, a.ID, unknown})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID}, []uuid.UUID{got[0].ID, got[1].ID})

	again, err := c.GetByIDs(ctx, []uuid.UUID{a.ID, b.ID})
	require.NoError(t, err)
	assert.Len(t, again, 2)
	inner.AssertExpectations(t)
}

func TestCachedLookupRepository_Exists(t *testing.T) {
	ctx := context.Background()
	status := newStatus("Active")
	missing := uuid.New()
	boom := errors.New("db down")
	broken := uuid.New()

	inner := new(testutil.MockLookupRepository)
	inner.On("GetByID", mock.Anything, status.ID).Return(status, nil).Once()
	inner.On("GetByID", mock.Anything, missing).Return(nil, shared.ErrNotFound)
	inner.On("GetByID", mock.Anything, broken).Return(nil, boom)
	c := NewCachedLookupRepository(inner)

	ok, err := c.Exists(ctx, lookup.KindAccountStatus, status.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.Exists(ctx, lookup.KindAccountType, status.ID)
	require.NoError(t, err)
	assert.False(t, ok, "an id of one kind never satisfies another")

	ok, err = c.Exists(ctx, lookup.KindAccountStatus, missing)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = c.Exists(ctx, lookup.KindAccountStatus, broken)
	assert.ErrorIs(t, err, boom)
}

func TestCachedLookupRepository_MutationsEvict(t *testing.T) {
	ctx := context.Background()
	status := newStatus("Active")
	store := newMemStore()

	inner := new(testutil.MockLookupRepository)
	inner.On("GetByID", mock.Anything, status.ID).Return(status, nil).Twice()
	inner.On("Update", mock.Anything, status).Return(nil).Once()
	inner.On("Delete", mock.Anything, status).Return(true, nil).Once()
	c := NewCachedLookupRepository(inner, WithRemoteStore(store))
	key := "crm:lookup:" + status.ID.String()

	_, err := c.GetByID(ctx, status.ID)
	require.NoError(t, err)
	require.True(t, store.has(key))

	require.NoError(t, c.Update(ctx, status))
	assert.Zero(t, c.LocalSize())
	assert.False(t, store.has(key))

	_, err = c.GetByID(ctx, status.ID)
	require.NoError(t, err)

	deleted, err := c.Delete(ctx, status)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Zero(t, c.LocalSize())
	inner.AssertExpectations(t)
}

func TestCachedLookupRepository_LoadOverlappingDeleteIsNotCached(t *testing.T) {
	ctx := context.Background()
	status := newStatus("Dormant")
	snapshot := *status
	store := newMemStore()
	loading := make(chan struct{})
	release := make(chan struct{})

	inner := new(testutil.MockLookupRepository)
	inner.On("GetByID", mock.Anything, status.ID).
		Run(func(mock.Arguments) {
			close(loading)
			<-release
		}).
		Return(&snapshot, nil).
		Once()
	inner.On("Delete", mock.Anything, status).
		Run(func(mock.Arguments) { status.Retire(cacheActor) }).
		Return(true, nil).
		Once()
	inner.On("GetByID", mock.Anything, status.ID).Return(nil, shared.ErrNotFound)
	c := NewCachedLookupRepository(inner, WithRemoteStore(store))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.GetByID(ctx, status.ID)
	}()
	<-loading

	deleted, err := c.Delete(ctx, status)
	require.NoError(t, err)
	require.True(t, deleted)

	close(release)
	<-done

	assert.Zero(t, c.LocalSize())
	assert.False(t, store.has("crm:lookup:"+status.ID.String()))

	ok, err := c.Exists(ctx, lookup.KindAccountStatus, status.ID)
	require.NoError(t, err)
	assert.False(t, ok, "a retired lookup must not be served from the cache")
}

func TestCachedLookupRepository_RetiredNotStored(t *testing.T) {
	retired := newStatus("Old")
	retired.Retire(cacheActor)

	c := NewCachedLookupRepository(new(testutil.MockLookupRepository))
	c.store(context.Background(), retired, c.currentGeneration())
	assert.Zero(t, c.LocalSize())
}

func TestCachedLookupRepository_PassThrough(t *testing.T) {
	ctx := context.Background()
	status := newStatus("Active")

	inner := new(testutil.MockLookupRepository)
	inner.On("GetByValue", mock.Anything, lookup.KindAccountStatus, "active").Return(status, nil).Once()
	c := NewCachedLookupRepository(inner)

	got, err := c.GetByValue(ctx, lookup.KindAccountStatus, "active")
	require.NoError(t, err)
	assert.Equal(t, status.ID, got.ID)
	inner.AssertExpectations(t)
}

// stubLoader returns a mock that serves l on every GetByID
func stubLoader(l *lookup.Lookup) *testutil.MockLookupRepository {
	m := new(testutil.MockLookupRepository)
	m.On("GetByID", mock.Anything, l.ID).Return(l, nil)
	return m
}
