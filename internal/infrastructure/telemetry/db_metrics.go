package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBMetricsConfig holds configuration for database metrics collection.
type DBMetricsConfig struct {
	DBName             string
	SlowQueryThreshold time.Duration
}

// DBMetrics records per-statement counters and latency plus connection pool stats.
type DBMetrics struct {
	queries   *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	slow      *prometheus.CounterVec
	registry  prometheus.Registerer
	config    DBMetricsConfig
	logger    *zap.Logger
	collector prometheus.Collector
}

// NewDBMetrics creates the collectors and registers them on reg
func NewDBMetrics(reg prometheus.Registerer, cfg DBMetricsConfig, logger *zap.Logger) (*DBMetrics, error) {
	if cfg.SlowQueryThreshold <= 0 {
		cfg.SlowQueryThreshold = 200 * time.Millisecond
	}
	m := &DBMetrics{
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crm_db_queries_total",
			Help: "Database statements by operation, table and outcome",
		}, []string{"operation", "table", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "crm_db_query_duration_seconds",
			Help:    "Database statement latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"operation"}),
		slow: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crm_db_slow_queries_total",
			Help: "Database statements slower than the configured threshold",
		}, []string{"operation"}),
		registry: reg,
		config:   cfg,
		logger:   logger,
	}
	for _, c := range []prometheus.Collector{m.queries, m.duration, m.slow} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register db metrics: %w", err)
		}
	}
	return m, nil
}

// Register installs the statement callbacks on db and exports its pool stats
func (m *DBMetrics) Register(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	m.collector = collectors.NewDBStatsCollector(sqlDB, m.config.DBName)
	if err := m.registry.Register(m.collector); err != nil {
		return fmt.Errorf("failed to register pool stats: %w", err)
	}

	cb := db.Callback()
	steps := []struct {
		op            string
		before, after callbackHook
	}{
		{"create", cb.Create().Before("gorm:create"), cb.Create().After("gorm:create")},
		{"query", cb.Query().Before("gorm:query"), cb.Query().After("gorm:query")},
		{"update", cb.Update().Before("gorm:update"), cb.Update().After("gorm:update")},
		{"delete", cb.Delete().Before("gorm:delete"), cb.Delete().After("gorm:delete")},
		{"row", cb.Row().Before("gorm:row"), cb.Row().After("gorm:row")},
		{"raw", cb.Raw().Before("gorm:raw"), cb.Raw().After("gorm:raw")},
	}
	for _, s := range steps {
		if err := s.before.Register("metrics:before_"+s.op, markMetricsStart); err != nil {
			return err
		}
		if err := s.after.Register("metrics:after_"+s.op, m.observe(s.op)); err != nil {
			return err
		}
	}

	m.logger.Info("Database metrics enabled",
		zap.String("db_name", m.config.DBName),
		zap.Duration("slow_query_threshold", m.config.SlowQueryThreshold),
	)
	return nil
}

// Unregister removes every collector from the registry
func (m *DBMetrics) Unregister() {
	for _, c := range []prometheus.Collector{m.queries, m.duration, m.slow, m.collector} {
		if c != nil {
			m.registry.Unregister(c)
		}
	}
}

const metricsStartKey contextKey = "metrics_query_start_time"

func markMetricsStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, metricsStartKey, time.Now())
	}
}

func (m *DBMetrics) observe(op string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		outcome := "success"
		switch {
		case db.Error == nil:
		case errors.Is(db.Error, gorm.ErrRecordNotFound):
			outcome = "not_found"
		default:
			outcome = "error"
		}
		m.queries.WithLabelValues(op, db.Statement.Table, outcome).Inc()

		if db.Statement.Context == nil {
			return
		}
		start, ok := db.Statement.Context.Value(metricsStartKey).(time.Time)
		if !ok {
			return
		}
		elapsed := time.Since(start)
		m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
		if elapsed > m.config.SlowQueryThreshold {
			m.slow.WithLabelValues(op).Inc()
		}
	}
}
