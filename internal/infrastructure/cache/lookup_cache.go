package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/crm/backend/internal/domain/lookup"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var lookupCacheRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "crm_lookup_cache_requests_total",
		Help: "Lookup cache reads by tier and result",
	},
	[]string{"tier", "result"},
)

// LookupCacheConfig controls the tiers of CachedLookupRepository
type LookupCacheConfig struct {
	LocalTTL        time.Duration
	CleanupInterval time.Duration
	RemoteTTL       time.Duration
	KeyPrefix       string
}

// DefaultLookupCacheConfig returns the configuration used when none is given
func DefaultLookupCacheConfig() LookupCacheConfig {
	return LookupCacheConfig{
		LocalTTL:        5 * time.Minute,
		CleanupInterval: 10 * time.Minute,
		RemoteTTL:       30 * time.Minute,
		KeyPrefix:       "crm:lookup:",
	}
}

// LookupCacheConfigFrom converts the cache section of the application config
func LookupCacheConfigFrom(c config.CacheConfig) LookupCacheConfig {
	return LookupCacheConfig{
		LocalTTL:        c.LocalTTL,
		CleanupInterval: c.CleanupInterval,
		RemoteTTL:       c.RemoteTTL,
		KeyPrefix:       c.KeyPrefix,
	}
}

// CachedLookupRepository decorates a lookup.Repository with a read-through cache on the id reads
// every validation path makes (GetByID, GetByIDs, Exists). The in-process tier is go-cache; an
// optional Store (Redis) is shared between instances. Concurrent misses on one id load once.
// Only active lookups are cached, and every mutation through the decorator evicts the id.
// Evictions advance a generation; a load that overlapped one does not populate the cache.
type CachedLookupRepository struct {
	lookup.Repository

	local       *gocache.Cache
	remote      Store
	invalidator *LookupInvalidator
	config      LookupCacheConfig
	logger      *zap.Logger
	group       singleflight.Group

	mu         sync.Mutex
	generation uint64
}

// CachedLookupOption configures a CachedLookupRepository
type CachedLookupOption func(*CachedLookupRepository)

// WithRemoteStore adds a shared second tier
func WithRemoteStore(store Store) CachedLookupOption {
	return func(c *CachedLookupRepository) {
		c.remote = store
	}
}

// WithInvalidator broadcasts evictions to other instances
func WithInvalidator(invalidator *LookupInvalidator) CachedLookupOption {
	return func(c *CachedLookupRepository) {
		c.invalidator = invalidator
	}
}

// WithLookupCacheConfig sets TTLs and the key prefix
func WithLookupCacheConfig(cfg LookupCacheConfig) CachedLookupOption {
	return func(c *CachedLookupRepository) {
		c.config = cfg
	}
}

// WithCacheLogger sets the logger
func WithCacheLogger(logger *zap.Logger) CachedLookupOption {
	return func(c *CachedLookupRepository) {
		c.logger = logger
	}
}

// NewCachedLookupRepository wraps inner
func NewCachedLookupRepository(inner lookup.Repository, opts ...CachedLookupOption) *CachedLookupRepository {
	c := &CachedLookupRepository{
		Repository: inner,
		config:     DefaultLookupCacheConfig(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.local = gocache.New(c.config.LocalTTL, c.config.CleanupInterval)
	return c
}

// GetByID returns the active lookup, reading through the cache tiers
func (c *CachedLookupRepository) GetByID(ctx context.Context, id uuid.UUID) (*lookup.Lookup, error) {
	if l, ok := c.getLocal(id); ok {
		return l, nil
	}

	key := c.key(id)
	v, err, _ := c.group.Do(key, func() (any, error) {
		gen := c.currentGeneration()
		if l, ok := c.getRemote(ctx, id); ok {
			c.setLocal(key, l, gen)
			return l, nil
		}
		lookupCacheRequests.WithLabelValues("source", "load").Inc()
		l, err := c.Repository.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		c.store(ctx, l, gen)
		return l, nil
	})
	if err != nil {
		return nil, err
	}
	l := *v.(*lookup.Lookup)
	return &l, nil
}

// GetByIDs returns the active lookups among ids. Cached entries are served from the cache and
// the rest are loaded in one query.
func (c *CachedLookupRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]lookup.Lookup, error) {
	gen := c.currentGeneration()
	out := make([]lookup.Lookup, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	var missing []uuid.UUID
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if l, ok := c.getLocal(id); ok {
			out = append(out, *l)
			continue
		}
		if l, ok := c.getRemote(ctx, id); ok {
			c.setLocal(c.key(id), l, gen)
			out = append(out, *l)
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return out, nil
	}

	lookupCacheRequests.WithLabelValues("source", "load").Add(float64(len(missing)))
	loaded, err := c.Repository.GetByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for i := range loaded {
		c.store(ctx, &loaded[i], gen)
	}
	return append(out, loaded...), nil
}

// Exists reports whether an active lookup of kind has the id
func (c *CachedLookupRepository) Exists(ctx context.Context, kind lookup.Kind, id uuid.UUID) (bool, error) {
	l, err := c.GetByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return l.Kind == kind, nil
}

// Update writes through and evicts the id
func (c *CachedLookupRepository) Update(ctx context.Context, l *lookup.Lookup) error {
	err := c.Repository.Update(ctx, l)
	c.Invalidate(ctx, l.ID)
	return err
}

// Delete writes through and evicts the id
func (c *CachedLookupRepository) Delete(ctx context.Context, l *lookup.Lookup) (bool, error) {
	deleted, err := c.Repository.Delete(ctx, l)
	c.Invalidate(ctx, l.ID)
	return deleted, err
}

// Invalidate evicts ids from both tiers and tells other instances to drop them too.
// The remote tier goes first so a load starting after the local eviction cannot read it back.
// Failures are logged; a stale remote entry expires with RemoteTTL.
func (c *CachedLookupRepository) Invalidate(ctx context.Context, ids ...uuid.UUID) {
	if len(ids) == 0 {
		return
	}
	if c.remote != nil {
		keys := make([]string, len(ids))
		for i, id := range ids {
			keys[i] = c.key(id)
		}
		if err := c.remote.Delete(ctx, keys...); err != nil {
			c.logger.Warn("Failed to evict lookups from remote cache", zap.Error(err))
		}
	}
	c.evictLocal(ids...)

	if c.invalidator != nil {
		if err := c.invalidator.Publish(ctx, ids...); err != nil {
			c.logger.Warn("Failed to publish lookup invalidation", zap.Error(err))
		}
	}
}

// StartInvalidationSubscription evicts ids other instances publish. It blocks until ctx is done.
func (c *CachedLookupRepository) StartInvalidationSubscription(ctx context.Context) error {
	if c.invalidator == nil {
		return nil
	}
	return c.invalidator.Subscribe(ctx, c.evictLocal)
}

// LocalSize returns the number of entries in the in-process tier
func (c *CachedLookupRepository) LocalSize() int {
	return c.local.ItemCount()
}

func (c *CachedLookupRepository) evictLocal(ids ...uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	for _, id := range ids {
		key := c.key(id)
		c.local.Delete(key)
		c.group.Forget(key)
	}
}

func (c *CachedLookupRepository) currentGeneration() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// setLocal caches l unless an eviction happened since gen was read
func (c *CachedLookupRepository) setLocal(key string, l *lookup.Lookup, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return false
	}
	c.local.Set(key, *l, gocache.DefaultExpiration)
	return true
}

func (c *CachedLookupRepository) key(id uuid.UUID) string {
	return c.config.KeyPrefix + id.String()
}

func (c *CachedLookupRepository) getLocal(id uuid.UUID) (*lookup.Lookup, bool) {
	v, ok := c.local.Get(c.key(id))
	if !ok {
		lookupCacheRequests.WithLabelValues("local", "miss").Inc()
		return nil, false
	}
	lookupCacheRequests.WithLabelValues("local", "hit").Inc()
	l := v.(lookup.Lookup)
	return &l, true
}

func (c *CachedLookupRepository) getRemote(ctx context.Context, id uuid.UUID) (*lookup.Lookup, bool) {
	if c.remote == nil {
		return nil, false
	}
	b, ok, err := c.remote.Get(ctx, c.key(id))
	if err != nil {
		c.logger.Warn("Remote lookup cache read failed", zap.String("lookup_id", id.String()), zap.Error(err))
		return nil, false
	}
	if !ok {
		lookupCacheRequests.WithLabelValues("remote", "miss").Inc()
		return nil, false
	}
	var l lookup.Lookup
	if err := json.Unmarshal(b, &l); err != nil {
		c.logger.Warn("Discarding undecodable lookup cache entry", zap.String("lookup_id", id.String()), zap.Error(err))
		return nil, false
	}
	lookupCacheRequests.WithLabelValues("remote", "hit").Inc()
	return &l, true
}

func (c *CachedLookupRepository) store(ctx context.Context, l *lookup.Lookup, gen uint64) {
	if !l.IsActive() {
		return
	}
	key := c.key(l.ID)
	if !c.setLocal(key, l, gen) || c.remote == nil {
		return
	}
	b, err := json.Marshal(l)
	if err != nil {
		c.logger.Warn("Failed to encode lookup for remote cache", zap.Error(err))
		return
	}
	if err := c.remote.Set(ctx, key, b, c.config.RemoteTTL); err != nil {
		c.logger.Warn("Remote lookup cache write failed", zap.String("lookup_id", l.ID.String()), zap.Error(err))
		return
	}
	// an eviction raced the remote write
	if c.currentGeneration() != gen {
		c.local.Delete(key)
		if err := c.remote.Delete(ctx, key); err != nil {
			c.logger.Warn("Failed to evict lookups from remote cache", zap.Error(err))
		}
	}
}

var _ lookup.Repository = (*CachedLookupRepository)(nil)
