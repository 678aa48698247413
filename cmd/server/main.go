package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crm/backend/internal/domain/lookup"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/infrastructure/cache"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/crm/backend/internal/infrastructure/event"
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/infrastructure/persistence"
	"github.com/crm/backend/internal/infrastructure/telemetry"
	"github.com/crm/backend/internal/interfaces/http/handler"
	"github.com/crm/backend/internal/interfaces/http/router"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "go.uber.org/automaxprocs"
)

// version is stamped at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration: "+err.Error())
		os.Exit(1)
	}

	log, err := logger.New(logger.FromAppConfig(cfg.Log))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialize logger: "+err.Error())
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		_ = logger.Sync(log)
		os.Exit(1)
	}
	log.Info("Server exited gracefully")
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	log.Info("Starting CRM backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
	)

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.FromAppConfig(cfg.Telemetry), log)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer shutdown(log, "tracer provider", tp.Shutdown)

	reg := prometheus.NewRegistry()

	db, err := openDatabase(cfg, log, reg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("Failed to close database", zap.Error(err))
		}
	}()

	// Redis is optional: the lookup cache keeps its local tier and idempotency
	// falls back to memory when it is disabled or unreachable.
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		if redisClient, err = cache.NewRedisClient(cfg.Redis); err != nil {
			log.Warn("Redis unavailable, continuing without shared cache", zap.Error(err))
			redisClient = nil
		} else {
			defer func() { _ = redisClient.Close() }()
			log.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr()))
		}
	}

	bus := event.NewInMemoryEventBus(log)
	if cfg.Events.KafkaEnabled {
		forwarder := event.NewKafkaForwarder(event.NewKafkaWriter(cfg.Events), log)
		bus.Subscribe(forwarder)
		defer func() {
			if err := forwarder.Close(); err != nil {
				log.Warn("Failed to close Kafka writer", zap.Error(err))
			}
		}()
		log.Info("Forwarding change events to Kafka",
			zap.Strings("brokers", cfg.Events.KafkaBrokers),
			zap.String("topic", cfg.Events.KafkaTopic),
		)
	}
	if err := bus.Start(ctx); err != nil {
		return fmt.Errorf("event bus: %w", err)
	}
	defer shutdown(log, "event bus", bus.Stop)

	g, gctx := errgroup.WithContext(ctx)

	var lookups lookup.Repository = persistence.NewGormLookupRepository(db.DB)
	if cfg.Cache.Enabled {
		opts := []cache.CachedLookupOption{
			cache.WithLookupCacheConfig(cache.LookupCacheConfigFrom(cfg.Cache)),
			cache.WithCacheLogger(log),
		}
		if redisClient != nil {
			invalidator := cache.NewLookupInvalidator(redisClient, cache.WithInvalidatorLogger(log))
			defer func() { _ = invalidator.Close() }()
			opts = append(opts, cache.WithRemoteStore(cache.NewRedisStore(redisClient)), cache.WithInvalidator(invalidator))
		}
		cached := cache.NewCachedLookupRepository(lookups, opts...)
		g.Go(func() error {
			if err := cached.StartInvalidationSubscription(gctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Warn("Lookup invalidation subscription ended, local entries expire by TTL only", zap.Error(err))
			}
			return nil
		})
		lookups = cached
	}

	var idempotency shared.IdempotencyStore
	if cfg.Idempotency.Enabled {
		factoryOpts := []cache.IdempotencyStoreFactoryOption{cache.WithLogger(log)}
		if redisClient != nil {
			factoryOpts = append(factoryOpts, cache.WithRedisClient(redisClient))
		}
		if idempotency, err = cache.NewIdempotencyStoreFactory(cfg.Redis, factoryOpts...).CreateStore(); err != nil {
			return fmt.Errorf("idempotency store: %w", err)
		}
		defer func() { _ = idempotency.Close() }()
	}

	checks := []handler.ReadinessCheck{{Name: "database", Check: db.Ping}}
	if redisClient != nil {
		checks = append(checks, handler.ReadinessCheck{Name: "redis", Check: func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}})
	}

	engine, err := router.NewEngine(router.EngineConfig{
		Config:      cfg,
		Logger:      log,
		Registry:    reg,
		JWT:         auth.NewJWTService(cfg.JWT),
		Idempotency: idempotency,
		Health:      handler.NewHealthHandler(cfg.App.Name, version, checks...),
		Handlers:    buildHandlers(db.DB, lookups, bus, log),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	g.Go(func() error {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openDatabase connects with SQL logging, tracing and pool metrics attached.
// SQLite gets its schema from AutoMigrate; the other drivers are migrated by cmd/migrate.
func openDatabase(cfg *config.Config, log *zap.Logger, reg prometheus.Registerer) (*persistence.Database, error) {
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Database.SlowQuery),
	)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		return nil, err
	}

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		plugin := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Database.SlowQuery,
			DBSystem:        telemetry.DBSystemFor(cfg.Database.Driver),
		}, log)
		if err := plugin.Register(db.DB); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("db tracing: %w", err)
		}
	}

	metrics, err := telemetry.NewDBMetrics(reg, telemetry.DBMetricsConfig{
		DBName:             cfg.Database.DBName,
		SlowQueryThreshold: cfg.Database.SlowQuery,
	}, log)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db metrics: %w", err)
	}
	if err := metrics.Register(db.DB); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db metrics: %w", err)
	}

	if cfg.Database.Driver == "sqlite" {
		if err := db.AutoMigrate(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
	}

	log.Info("Connected to database",
		zap.String("driver", cfg.Database.Driver),
		zap.String("database", cfg.Database.DBName),
	)
	return db, nil
}

func shutdown(log *zap.Logger, name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Warn("Shutdown failed", zap.String("component", name), zap.Error(err))
	}
}
