package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func instrumentedDB(t *testing.T, threshold time.Duration) (*gorm.DB, *DBMetrics, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m, err := NewDBMetrics(reg, DBMetricsConfig{DBName: "crm", SlowQueryThreshold: threshold}, zap.NewNop())
	require.NoError(t, err)

	db := setupTestDB(t)
	require.NoError(t, m.Register(db))
	return db, m, reg
}

func TestDBMetrics_CountsStatements(t *testing.T) {
	db, m, _ := instrumentedDB(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, db.WithContext(ctx).Create(&noteModel{Body: "a"}).Error)
	require.NoError(t, db.WithContext(ctx).Create(&noteModel{Body: "b"}).Error)

	var n noteModel
	require.ErrorIs(t, db.WithContext(ctx).First(&n, 99).Error, gorm.ErrRecordNotFound)

	assert.Equal(t, 2.0, promtest.ToFloat64(m.queries.WithLabelValues("create", "note_models", "success")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.queries.WithLabelValues("query", "note_models", "not_found")))
	assert.Equal(t, 0.0, promtest.ToFloat64(m.slow.WithLabelValues("create")))
	assert.Equal(t, 2, promtest.CollectAndCount(m.duration))
}

func TestDBMetrics_SlowQueries(t *testing.T) {
	db, m, _ := instrumentedDB(t, time.Nanosecond)

	require.NoError(t, db.WithContext(context.Background()).Create(&noteModel{Body: "a"}).Error)
	assert.Equal(t, 1.0, promtest.ToFloat64(m.slow.WithLabelValues("create")))
}

func TestDBMetrics_PoolStatsExported(t *testing.T) {
	_, m, reg := instrumentedDB(t, time.Hour)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "go_sql_open_connections")

	m.Unregister()
	families, err = reg.Gather()
	require.NoError(t, err)
	assert.Empty(t, families)
}

func TestNewDBMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewDBMetrics(reg, DBMetricsConfig{}, zap.NewNop())
	require.NoError(t, err)

	_, err = NewDBMetrics(reg, DBMetricsConfig{}, zap.NewNop())
	assert.Error(t, err)
}
