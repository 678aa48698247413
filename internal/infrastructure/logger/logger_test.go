package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.Equal(t, "stdout", cfg.Output)
	assert.NotEmpty(t, cfg.TimeFormat)
}

func TestProductionConfig(t *testing.T) {
	cfg := ProductionConfig()

	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "stdout", cfg.Output)
}

func TestFromAppConfig(t *testing.T) {
	cfg := FromAppConfig(config.LogConfig{
		Level:      "debug",
		Format:     "json",
		Output:     "file",
		File:       "logs/crm.log",
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 7,
		Compress:   true,
	})

	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "file", cfg.Output)
	assert.Equal(t, FileConfig{Path: "logs/crm.log", MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 7, Compress: true}, cfg.File)
	assert.NotEmpty(t, cfg.TimeFormat)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{name: "default config", cfg: DefaultConfig()},
		{name: "production config", cfg: ProductionConfig()},
		{name: "debug level", cfg: &Config{Level: "debug", Format: "console", Output: "stderr"}},
		{name: "empty time format", cfg: &Config{Level: "info", Format: "json", Output: "stdout"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestNew_RotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "crm.log")
	logger, err := New(&Config{
		Level:  "info",
		Format: "json",
		Output: "file",
		File:   FileConfig{Path: path, MaxSizeMB: 1, MaxBackups: 1},
	})
	require.NoError(t, err)

	logger.Info("account created", zap.String("account_id", "a-1"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"account created"`)
	assert.Contains(t, string(data), `"account_id":"a-1"`)
}

func TestNewForEnvironment(t *testing.T) {
	for _, env := range []string{"development", "production", "staging"} {
		t.Run(env, func(t *testing.T) {
			logger, err := NewForEnvironment(env)
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"unknown", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.level))
		})
	}
}

func TestCreateWriter(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"stdout", &Config{Output: "stdout"}},
		{"stderr", &Config{Output: "stderr"}},
		{"upper case", &Config{Output: "STDOUT"}},
		{"empty", &Config{}},
		{"file without path falls back to stdout", &Config{Output: "file"}},
		{"bare path", &Config{Output: filepath.Join(t.TempDir(), "bare.log")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, createWriter(tt.cfg))
		})
	}
}

func TestWithAndNamed(t *testing.T) {
	logger, err := NewForEnvironment("development")
	require.NoError(t, err)

	assert.NotEqual(t, logger, With(logger, zap.String("key", "value")))
	assert.NotEqual(t, logger, Named(logger, "persistence"))
}
