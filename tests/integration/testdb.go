//go:build integration

// Package integration runs repositories, services and the Redis-backed stores
// against real PostgreSQL and Redis containers started with testcontainers.
package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/crm/backend/internal/infrastructure/migration"
	"github.com/crm/backend/internal/infrastructure/persistence"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	_ "github.com/lib/pq"
)

var (
	pgOnce      sync.Once
	pgContainer *tcpostgres.PostgresContainer
	pgConfig    config.DatabaseConfig
	pgErr       error

	redisOnce      sync.Once
	redisContainer testcontainers.Container
	redisAddr      string
	redisErr       error
)

func TestMain(m *testing.M) {
	code := m.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if pgContainer != nil {
		_ = pgContainer.Terminate(ctx)
	}
	if redisContainer != nil {
		_ = redisContainer.Terminate(ctx)
	}
	os.Exit(code)
}

// startPostgres runs one container for the package and applies the embedded migrations once
func startPostgres(t *testing.T) config.DatabaseConfig {
	t.Helper()
	pgOnce.Do(func() {
		ctx := context.Background()
		pgContainer, pgErr = tcpostgres.Run(ctx,
			"postgres:16-alpine",
			tcpostgres.WithDatabase("crm_test"),
			tcpostgres.WithUsername("postgres"),
			tcpostgres.WithPassword("postgres"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second)),
		)
		if pgErr != nil {
			return
		}

		host, err := pgContainer.Host(ctx)
		if err != nil {
			pgErr = err
			return
		}
		port, err := pgContainer.MappedPort(ctx, "5432/tcp")
		if err != nil {
			pgErr = err
			return
		}
		pgConfig = config.DatabaseConfig{
			Driver:   "postgres",
			Host:     host,
			Port:     port.Int(),
			User:     "postgres",
			Password: "postgres",
			DBName:   "crm_test",
			SSLMode:  "disable",
		}
		pgErr = migrateUp(pgConfig.DSN())
	})
	require.NoError(t, pgErr, "failed to start PostgreSQL")
	return pgConfig
}

func migrateUp(dsn string) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := migration.New(db, "postgres", zap.NewNop())
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}

// NewTestDB connects to the shared container and truncates every table except the seeded lookups
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	cfg := startPostgres(t)
	cfg.MaxOpenConns = 5
	cfg.MaxIdleConns = 2

	var gl gormlogger.Interface
	if os.Getenv("TEST_DB_DEBUG") != "" {
		gl = gormlogger.Default.LogMode(gormlogger.Info)
	}
	db, err := persistence.NewDatabase(&cfg, gl)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cleanTables(t, db.DB)
	return db.DB
}

func cleanTables(t *testing.T, db *gorm.DB) {
	t.Helper()
	var tables []string
	require.NoError(t, db.Raw(`
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public'
		AND tablename NOT IN ('schema_migrations', 'lookups')
	`).Scan(&tables).Error)

	for _, table := range tables {
		require.NoError(t, db.Exec(fmt.Sprintf("TRUNCATE TABLE %q CASCADE", table)).Error)
	}
	// keep the seeded reference values, drop the ones tests add
	require.NoError(t, db.Exec(`DELETE FROM lookups WHERE created_by <> '00000000-0000-0000-0000-000000000000'`).Error)
}

// NewTestRedis returns a client on a shared Redis container, flushed for the test
func NewTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	redisOnce.Do(func() {
		ctx := context.Background()
		redisContainer, redisErr = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "redis:7-alpine",
				ExposedPorts: []string{"6379/tcp"},
				WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
			},
			Started: true,
		})
		if redisErr != nil {
			return
		}
		redisAddr, redisErr = redisContainer.Endpoint(ctx, "")
	})
	require.NoError(t, redisErr, "failed to start Redis")

	client := redis.NewClient(&redis.Options{Addr: redisAddr})
	require.NoError(t, client.FlushDB(context.Background()).Err())
	t.Cleanup(func() { _ = client.Close() })
	return client
}
