package migratortest

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for pgtestdb
	"github.com/peterldowns/pgtestdb"
	"github.com/stretchr/testify/require"

	"github.com/screwyprof/vesting/migrator"
	"github.com/screwyprof/vesting/pkg/pgxdb"
)

// CreateTestDatabase creates a test database with schema migrations applied.
// Returns the connection pool ready for use.
func CreateTestDatabase(t *testing.T, migrationsDir string) *pgxpool.Pool {
	t.Helper()

	return createTestDatabaseWithMigrator(t, migrator.NewSchemaMigrator(migrationsDir))
}

// CreateSeededTestDatabase creates a test database with migrations applied and
// the seeded deployment instantiated. The template is reused across tests with
// the same seed.
func CreateSeededTestDatabase(t *testing.T, migrationsDir string, seed migrator.Seed) *pgxpool.Pool {
	t.Helper()

	return createTestDatabaseWithMigrator(t, migrator.NewSeededMigrator(migrationsDir, seed))
}

// createTestDatabaseWithMigrator creates a test database using the provided migrator
func createTestDatabaseWithMigrator(t *testing.T, migratorInstance pgtestdb.Migrator) *pgxpool.Pool {
	t.Helper()

	config := createTestDatabaseConfig()

	// Create test database and get its config
	dbConfig := pgtestdb.Custom(t, config, migratorInstance)

	// Small pool with short lifetimes, tests fail fast
	poolConfig, err := pgxdb.ParseConfig(dbConfig.URL(),
		pgxdb.WithPoolSize(1, 4),
		pgxdb.WithLifetimes(10*time.Minute, time.Minute),
		pgxdb.WithConnectTimeout(5*time.Second),
	)
	require.NoError(t, err)

	// Connect to the test database using test context for proper lifecycle management
	pool, err := pgxpool.NewWithConfig(t.Context(), poolConfig)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	t.Logf("testdbconf: %s", dbConfig.URL())

	return pool
}

// createTestDatabaseConfig creates the standard pgtestdb configuration for vesting tests
func createTestDatabaseConfig() pgtestdb.Config {
	return pgtestdb.Config{
		DriverName: "pgx",
		User:       "vesting",
		Password:   "vesting",
		Host:       "localhost",
		Port:       "5432",
		Options:    "sslmode=disable",
	}
}
