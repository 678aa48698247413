package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/crm/backend/internal/infrastructure/cache"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) MarkProcessed(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("redis down")
}
func (failingStore) IsProcessed(context.Context, string) (bool, error) { return false, nil }
func (failingStore) Forget(context.Context, string) error            { return nil }
func (failingStore) Close() error                                     { return nil }

func idempotentRouter(cfg IdempotencyConfig, status *int, calls *int) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), Idempotency(cfg))
	handler := func(c *gin.Context) {
		*calls++
		c.Status(*status)
	}
	router.POST("/accounts", handler)
	router.POST("/people", handler)
	router.PUT("/accounts", handler)
	return router
}

func send(router *gin.Engine, method, path, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIdempotency(t *testing.T) {
	t.Run("second post with the same key is rejected", func(t *testing.T) {
		status, calls := http.StatusCreated, 0
		router := idempotentRouter(IdempotencyConfig{Store: cache.NewInMemoryIdempotencyStore(), TTL: time.Minute}, &status, &calls)

		assert.Equal(t, http.StatusCreated, send(router, http.MethodPost, "/accounts", "k1").Code)
		w := send(router, http.MethodPost, "/accounts", "k1")

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, 1, calls)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeDuplicateRequest, resp.Error.Code)
		assert.NotEmpty(t, resp.Error.RequestID)
	})

	t.Run("keys are scoped per route", func(t *testing.T) {
		status, calls := http.StatusCreated, 0
		router := idempotentRouter(IdempotencyConfig{Store: cache.NewInMemoryIdempotencyStore(), TTL: time.Minute}, &status, &calls)

		send(router, http.MethodPost, "/accounts", "k1")
		assert.Equal(t, http.StatusCreated, send(router, http.MethodPost, "/people", "k1").Code)
		assert.Equal(t, 2, calls)
	})

	t.Run("failed request releases the key", func(t *testing.T) {
		status, calls := http.StatusBadRequest, 0
		store := cache.NewInMemoryIdempotencyStore()
		router := idempotentRouter(IdempotencyConfig{Store: store, TTL: time.Minute}, &status, &calls)

		assert.Equal(t, http.StatusBadRequest, send(router, http.MethodPost, "/accounts", "k1").Code)
		assert.Equal(t, 0, store.Size())

		status = http.StatusCreated
		assert.Equal(t, http.StatusCreated, send(router, http.MethodPost, "/accounts", "k1").Code)
		assert.Equal(t, 2, calls)
	})

	t.Run("requests without a key or not posts pass", func(t *testing.T) {
		status, calls := http.StatusOK, 0
		router := idempotentRouter(IdempotencyConfig{Store: cache.NewInMemoryIdempotencyStore(), TTL: time.Minute}, &status, &calls)

		send(router, http.MethodPost, "/accounts", "")
		send(router, http.MethodPost, "/accounts", "")
		send(router, http.MethodPut, "/accounts", "k1")
		send(router, http.MethodPut, "/accounts", "k1")
		assert.Equal(t, 4, calls)
	})

	t.Run("oversized key", func(t *testing.T) {
		status, calls := http.StatusCreated, 0
		router := idempotentRouter(IdempotencyConfig{Store: cache.NewInMemoryIdempotencyStore(), TTL: time.Minute}, &status, &calls)

		w := send(router, http.MethodPost, "/accounts", strings.Repeat("k", MaxIdempotencyKeyLength+1))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Zero(t, calls)
	})

	t.Run("store failure fails open", func(t *testing.T) {
		status, calls := http.StatusCreated, 0
		router := idempotentRouter(IdempotencyConfig{Store: failingStore{}, TTL: time.Minute}, &status, &calls)

		send(router, http.MethodPost, "/accounts", "k1")
		assert.Equal(t, http.StatusCreated, send(router, http.MethodPost, "/accounts", "k1").Code)
		assert.Equal(t, 2, calls)
	})
}
