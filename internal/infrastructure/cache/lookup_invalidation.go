package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultInvalidationChannel = "crm:lookup:invalidate"
	defaultCloseTimeout        = 5 * time.Second
)

// InvalidationMessage names lookups whose cached copies are stale
type InvalidationMessage struct {
	IDs       []uuid.UUID `json:"ids"`
	Timestamp int64       `json:"timestamp"`
}

// LookupInvalidator fans lookup evictions out to every instance over Redis Pub/Sub
type LookupInvalidator struct {
	client    *redis.Client
	channel   string
	logger    *zap.Logger
	cancelFn  context.CancelFunc
	doneCh    chan struct{}
	doneOnce  sync.Once
	mu        sync.Mutex
	isRunning bool
}

// LookupInvalidatorOption configures a LookupInvalidator
type LookupInvalidatorOption func(*LookupInvalidator)

// WithInvalidationChannel sets the Pub/Sub channel name
func WithInvalidationChannel(channel string) LookupInvalidatorOption {
	return func(i *LookupInvalidator) {
		i.channel = channel
	}
}

// WithInvalidatorLogger sets the logger for the invalidator
func WithInvalidatorLogger(logger *zap.Logger) LookupInvalidatorOption {
	return func(i *LookupInvalidator) {
		i.logger = logger
	}
}

// NewLookupInvalidator creates an invalidator on an existing client.
// The caller retains ownership of the client.
func NewLookupInvalidator(client *redis.Client, opts ...LookupInvalidatorOption) *LookupInvalidator {
	i := &LookupInvalidator{
		client:  client,
		channel: defaultInvalidationChannel,
		logger:  zap.NewNop(),
		doneCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Publish announces that ids changed
func (i *LookupInvalidator) Publish(ctx context.Context, ids ...uuid.UUID) error {
	data, err := json.Marshal(InvalidationMessage{IDs: ids, Timestamp: time.Now().UnixNano()})
	if err != nil {
		return fmt.Errorf("failed to marshal invalidation message: %w", err)
	}
	if err := i.client.Publish(ctx, i.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish invalidation message: %w", err)
	}
	i.logger.Debug("Published lookup invalidation", zap.Int("count", len(ids)), zap.String("channel", i.channel))
	return nil
}

// Subscribe invokes evict for every message received until ctx is done or Close is called.
// It blocks, so callers run it in a goroutine.
func (i *LookupInvalidator) Subscribe(ctx context.Context, evict func(ids ...uuid.UUID)) error {
	i.mu.Lock()
	if i.isRunning {
		i.mu.Unlock()
		return fmt.Errorf("subscription already running")
	}
	i.isRunning = true
	subCtx, cancel := context.WithCancel(ctx)
	i.cancelFn = cancel
	i.mu.Unlock()

	defer func() {
		i.mu.Lock()
		i.isRunning = false
		i.mu.Unlock()
		i.markDone()
	}()

	pubsub := i.client.Subscribe(subCtx, i.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(subCtx); err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}
	i.logger.Info("Subscribed to lookup invalidation channel", zap.String("channel", i.channel))

	ch := pubsub.Channel()
	for {
		select {
		case <-subCtx.Done():
			i.logger.Info("Lookup invalidation subscription stopped")
			return subCtx.Err()
		case msg, ok := <-ch:
			if !ok {
				i.logger.Warn("Lookup invalidation channel closed")
				return nil
			}
			var m InvalidationMessage
			if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
				i.logger.Error("Failed to unmarshal invalidation message",
					zap.String("payload", msg.Payload),
					zap.Error(err))
				continue
			}
			evict(m.IDs...)
		}
	}
}

func (i *LookupInvalidator) markDone() {
	i.doneOnce.Do(func() {
		close(i.doneCh)
	})
}

// Close stops a running subscription
func (i *LookupInvalidator) Close() error {
	i.mu.Lock()
	cancelFn := i.cancelFn
	i.mu.Unlock()

	if cancelFn == nil {
		return nil
	}
	cancelFn()
	select {
	case <-i.doneCh:
	case <-time.After(defaultCloseTimeout):
		i.logger.Warn("Timeout waiting for subscription to stop")
	}
	return nil
}
