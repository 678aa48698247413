package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// IdempotencyKeyHeader names the client-chosen key of a retried create
	IdempotencyKeyHeader = "Idempotency-Key"
	// MaxIdempotencyKeyLength bounds the key so it fits any store
	MaxIdempotencyKeyLength = 255
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Store shared.IdempotencyStore
	TTL   time.Duration
}

// Idempotency rejects a POST whose Idempotency-Key was already used on the same route.
// A failed request releases its key so the client can retry it. Requests without the
// header pass through, and so does every request while the store is unreachable.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" || c.Request.Method != http.MethodPost || cfg.Store == nil {
			c.Next()
			return
		}
		if len(key) > MaxIdempotencyKeyLength {
			abort(c, dto.ErrCodeBadRequest, "Idempotency-Key must not exceed 255 characters")
			return
		}

		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		scoped := scopeKey(c, key)

		fresh, err := cfg.Store.MarkProcessed(ctx, scoped, cfg.TTL)
		if err != nil {
			log.Warn("Idempotency store unavailable", zap.String("idempotency_key", key), zap.Error(err))
			c.Next()
			return
		}
		if !fresh {
			log.Info("Duplicate request rejected", zap.String("idempotency_key", key))
			abort(c, dto.ErrCodeDuplicateRequest, "A request with this Idempotency-Key was already processed")
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			// the request context may already be canceled
			if err := cfg.Store.Forget(context.WithoutCancel(ctx), scoped); err != nil {
				log.Warn("Failed to release idempotency key", zap.String("idempotency_key", key), zap.Error(err))
			}
		}
	}
}

// scopeKey ties a key to the route and actor so two clients cannot collide
func scopeKey(c *gin.Context, key string) string {
	actor := "anonymous"
	if id, ok := GetActorID(c); ok {
		actor = id.String()
	}
	return c.Request.Method + " " + c.FullPath() + "|" + actor + "|" + key
}
