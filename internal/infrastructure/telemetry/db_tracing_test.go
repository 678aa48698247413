package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type noteModel struct {
	ID   uint   `gorm:"primaryKey"`
	Body string `gorm:"size:100"`
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&noteModel{}))
	return db
}

func tracedDB(t *testing.T, cfg DBTracingConfig) (*gorm.DB, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	cfg.Enabled = true
	cfg.DBSystem = "sqlite"
	cfg.TracerProvider = sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	db := setupTestDB(t)
	require.NoError(t, NewDBTracingPlugin(cfg, zap.NewNop()).Register(db))
	return db, recorder
}

func attrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestDBSystemFor(t *testing.T) {
	assert.Equal(t, "postgresql", DBSystemFor("postgres"))
	assert.Equal(t, "postgresql", DBSystemFor(""))
	assert.Equal(t, "mysql", DBSystemFor("mysql"))
	assert.Equal(t, "sqlite", DBSystemFor("sqlite"))
}

func TestDBTracingPlugin_Disabled(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop()).Register(db))
	assert.NoError(t, db.Create(&noteModel{Body: "x"}).Error)
}

func TestDBTracingPlugin_AnnotatesSpans(t *testing.T) {
	db, recorder := tracedDB(t, DBTracingConfig{SlowQueryThresh: time.Hour})

	require.NoError(t, db.WithContext(context.Background()).Create(&noteModel{Body: "hello"}).Error)

	var found bool
	for _, span := range recorder.Ended() {
		a := attrs(span)
		if a["db.sql.table"].AsString() != "note_models" {
			continue
		}
		found = true
		assert.Equal(t, int64(1), a["db.rows_affected"].AsInt64())
		_, slow := a["db.slow_query"]
		assert.False(t, slow)
	}
	assert.True(t, found, "expected a span for the insert")
}

func TestDBTracingPlugin_MarksErrors(t *testing.T) {
	db, recorder := tracedDB(t, DBTracingConfig{SlowQueryThresh: time.Hour})

	err := db.WithContext(context.Background()).Exec("SELECT * FROM missing_table").Error
	require.Error(t, err)

	var errored bool
	for _, span := range recorder.Ended() {
		if span.Status().Code == codes.Error {
			errored = true
		}
	}
	assert.True(t, errored)
}

func TestDBTracingPlugin_SlowQuery(t *testing.T) {
	db, recorder := tracedDB(t, DBTracingConfig{SlowQueryThresh: time.Nanosecond})

	require.NoError(t, db.WithContext(context.Background()).Create(&noteModel{Body: "slow"}).Error)

	var slow bool
	for _, span := range recorder.Ended() {
		if attrs(span)["db.slow_query"].AsBool() {
			slow = true
			require.NotEmpty(t, span.Events())
			assert.Equal(t, "slow_query_warning", span.Events()[0].Name)
		}
	}
	assert.True(t, slow)
}
