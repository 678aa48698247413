package router

import (
	"fmt"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/interfaces/http/handler"
	"github.com/crm/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultMaxBodyBytes bounds request bodies
const DefaultMaxBodyBytes int64 = 1 << 20

// EngineConfig is everything the HTTP engine is assembled from
type EngineConfig struct {
	Config         *config.Config
	Logger         *zap.Logger
	Registry       *prometheus.Registry
	TracerProvider trace.TracerProvider
	JWT            *auth.JWTService
	Idempotency    shared.IdempotencyStore
	Health         *handler.HealthHandler
	Handlers       Handlers
	MaxBodyBytes   int64
}

// NewEngine builds the gin engine: global middleware, probes, /metrics and the
// versioned API. Middleware order matters: the request id must exist before the
// logger copies it, and the actor before spans and idempotency keys read it.
func NewEngine(ec EngineConfig) (*gin.Engine, error) {
	cfg := ec.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	reg := ec.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	metrics, err := middleware.NewHTTPMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("failed to register http metrics: %w", err)
	}

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(ec.Logger),
		logger.Recovery(ec.Logger),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			Enabled:        cfg.Telemetry.Enabled,
			TracerProvider: ec.TracerProvider,
		}),
		metrics.Middleware(),
		middleware.Secure(middleware.DefaultSecurityConfig(cfg.IsProduction())),
		middleware.CORS(cfg.HTTP),
	)
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow, cfg.HTTP.RateLimitBurst)
		engine.Use(middleware.RateLimit(limiter))
	}
	maxBody := ec.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	engine.Use(middleware.BodyLimit(maxBody))

	if ec.Health != nil {
		engine.GET("/health", ec.Health.Health)
		engine.GET("/ready", ec.Health.Ready)
	}
	// operation counters and the Go runtime collectors live on the default registry
	gatherers := prometheus.Gatherers{reg, prometheus.DefaultGatherer}
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{Registry: reg})))

	var systemActor uuid.UUID
	if cfg.JWT.SystemActor != "" {
		if systemActor, err = uuid.Parse(cfg.JWT.SystemActor); err != nil {
			return nil, fmt.Errorf("invalid jwt.system_actor: %w", err)
		}
	}

	api := []gin.HandlerFunc{
		middleware.JWTAuth(middleware.JWTMiddlewareConfig{
			JWTService:  ec.JWT,
			Required:    cfg.JWT.Required,
			SystemActor: systemActor,
			Logger:      ec.Logger,
		}),
		middleware.SpanEnricher(),
	}
	if cfg.Idempotency.Enabled && ec.Idempotency != nil {
		api = append(api, middleware.Idempotency(middleware.IdempotencyConfig{
			Store: ec.Idempotency,
			TTL:   cfg.Idempotency.TTL,
		}))
	}

	r := NewRouter(engine, WithAPIVersion("v1"), WithMiddleware(api...))
	for _, g := range ec.Handlers.Groups() {
		r.Register(g)
	}
	r.Setup()

	return engine, nil
}
