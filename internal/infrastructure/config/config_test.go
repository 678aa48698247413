package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "crm-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "crm", cfg.Database.DBName)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	assert.Equal(t, 200*time.Millisecond, cfg.Database.SlowQuery)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.False(t, cfg.Redis.Enabled)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "crm:lookup:", cfg.Cache.KeyPrefix)
	assert.True(t, cfg.Idempotency.Enabled)
	assert.Equal(t, 24*time.Hour, cfg.Idempotency.TTL)
	assert.Equal(t, "crm.entity-changed", cfg.Events.KafkaTopic)
	assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
	assert.Contains(t, cfg.HTTP.CORSAllowHeaders, "Idempotency-Key")
	assert.False(t, cfg.IsProduction())
}

func TestFromViper_Environment(t *testing.T) {
	t.Setenv("CRM_APP_PORT", "9090")
	t.Setenv("CRM_DATABASE_DRIVER", "mysql")
	t.Setenv("CRM_DATABASE_MAX_OPEN_CONNS", "50")
	t.Setenv("CRM_CACHE_ENABLED", "false")
	t.Setenv("CRM_EVENTS_KAFKA_ENABLED", "true")
	t.Setenv("CRM_EVENTS_KAFKA_BROKERS", "kafka-1:9092 kafka-2:9092")
	t.Setenv("CRM_JWT_SYSTEM_ACTOR", "00000000-0000-0000-0000-000000000001")

	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
	assert.False(t, cfg.Cache.Enabled)
	assert.True(t, cfg.Events.KafkaEnabled)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Events.KafkaBrokers)
}

func TestFromViper_ConfigFile(t *testing.T) {
	v := viper.New()
	v.SetConfigType("toml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
[database]
driver = "sqlite"
path = ":memory:"

[idempotency]
enabled = false
ttl = "1h"
`)))

	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, ":memory:", cfg.Database.DSN())
	assert.False(t, cfg.Idempotency.Enabled)
	assert.Equal(t, time.Hour, cfg.Idempotency.TTL)
}

func TestFromViper_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "unknown driver",
			env:     map[string]string{"CRM_DATABASE_DRIVER": "oracle"},
			wantErr: "database.driver",
		},
		{
			name:    "idle exceeds open",
			env:     map[string]string{"CRM_DATABASE_MAX_OPEN_CONNS": "5", "CRM_DATABASE_MAX_IDLE_CONNS": "10"},
			wantErr: "cannot exceed",
		},
		{
			name:    "system actor not a uuid",
			env:     map[string]string{"CRM_JWT_SYSTEM_ACTOR": "root"},
			wantErr: "jwt.system_actor",
		},
		{
			name:    "kafka without brokers",
			env:     map[string]string{"CRM_EVENTS_KAFKA_ENABLED": "true"},
			wantErr: "events.kafka.brokers",
		},
		{
			name:    "production with default secret",
			env:     map[string]string{"CRM_APP_ENV": "production", "CRM_DATABASE_PASSWORD": "pw"},
			wantErr: "jwt.secret",
		},
		{
			name: "production without database password",
			env: map[string]string{
				"CRM_APP_ENV":    "production",
				"CRM_JWT_SECRET": strings.Repeat("s", 32),
			},
			wantErr: "database.password",
		},
		{
			name: "production with wildcard origin",
			env: map[string]string{
				"CRM_APP_ENV":                "production",
				"CRM_JWT_SECRET":             strings.Repeat("s", 32),
				"CRM_DATABASE_PASSWORD":      "pw",
				"CRM_HTTP_CORS_ALLOW_ORIGINS": "*",
			},
			wantErr: "cors_allow_origins",
		},
		{
			name:    "sampling ratio out of range",
			env:     map[string]string{"CRM_TELEMETRY_SAMPLING_RATIO": "1.5"},
			wantErr: "sampling_ratio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromViper(viper.New())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("postgres escapes credentials", func(t *testing.T) {
		d := DatabaseConfig{Driver: "postgres", User: "crm", Password: "p@ss/word", Host: "db", Port: 5432, DBName: "crm", SSLMode: "require"}
		assert.Equal(t, "postgres://crm:p%40ss%2Fword@db:5432/crm?sslmode=require", d.DSN())
	})
	t.Run("mysql", func(t *testing.T) {
		d := DatabaseConfig{Driver: "mysql", User: "crm", Password: "pw", Host: "db", Port: 3306, DBName: "crm"}
		assert.Equal(t, "crm:pw@tcp(db:3306)/crm?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true", d.DSN())
	})
	t.Run("sqlite", func(t *testing.T) {
		d := DatabaseConfig{Driver: "sqlite", Path: "file.db"}
		assert.Equal(t, "file.db", d.DSN())
	})
}
