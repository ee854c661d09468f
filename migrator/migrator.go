package migrator

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/peterldowns/pgtestdb"
	"github.com/peterldowns/pgtestdb/migrators/sqlmigrator"
	migrate "github.com/rubenv/sql-migrate"

	"github.com/screwyprof/vesting/pkg/pgxdb"
	"github.com/screwyprof/vesting/service"
	"github.com/screwyprof/vesting/service/store/pgxstore"
	"github.com/screwyprof/vesting/vesting"
)

// Migration constants
const (
	migrationsTableName = "schema_migrations"
	schemaHashPrefix    = "schema_only_"
	seededHashPrefix    = "seeded_deployment_"
)

// Migration-related errors
var (
	ErrMigrationExecution = errors.New("migration execution failed")
	ErrSeedFailed         = errors.New("deployment seeding failed")
)

// Seed describes the deployment written into a fresh database.
type Seed struct {
	Deployment service.Deployment `json:"deployment"`
	// Schedule, when set, is configured by the deployment owner.
	Schedule *vesting.Schedule `json:"schedule,omitempty"`
}

// SchemaMigrator applies only database schema migrations
// Used for production and tests that need schema-only setup
type SchemaMigrator struct {
	migrationsDir string
}

// NewSchemaMigrator creates a migrator that applies schema migrations only
func NewSchemaMigrator(migrationsDir string) *SchemaMigrator {
	return &SchemaMigrator{
		migrationsDir: migrationsDir,
	}
}

func (m *SchemaMigrator) Hash() (string, error) {
	baseHash, err := migrationsHash(m.migrationsDir)
	if err != nil {
		return "", err
	}
	return schemaHashPrefix + baseHash, nil
}

func (m *SchemaMigrator) Migrate(ctx context.Context, db *sql.DB, conf pgtestdb.Config) error {
	return applyMigrations(db, m.migrationsDir)
}

// SeededMigrator applies schema migrations and instantiates a deployment.
// Used for web API tests that need a deployment to talk to
type SeededMigrator struct {
	migrationsDir string
	seed          Seed
}

// NewSeededMigrator creates a migrator that applies schema + seeds a deployment
func NewSeededMigrator(migrationsDir string, seed Seed) *SeededMigrator {
	return &SeededMigrator{
		migrationsDir: migrationsDir,
		seed:          seed,
	}
}

func (m *SeededMigrator) Hash() (string, error) {
	baseHash, err := migrationsHash(m.migrationsDir)
	if err != nil {
		return "", err
	}

	doc, err := json.Marshal(m.seed)
	if err != nil {
		return "", fmt.Errorf("failed to hash seed: %w", err)
	}
	sum := sha256.Sum256(doc)

	return seededHashPrefix + baseHash + "_" + hex.EncodeToString(sum[:8]), nil
}

func (m *SeededMigrator) Migrate(ctx context.Context, db *sql.DB, conf pgtestdb.Config) error {
	if err := applyMigrations(db, m.migrationsDir); err != nil {
		return err
	}

	pool, err := pgxdb.NewConnection(ctx, conf.URL(), pgxdb.WithPoolSize(1, 1))
	if err != nil {
		return err
	}
	defer pool.Close()

	return SeedDeployment(ctx, pool, m.seed)
}

// ApplyMigrations applies database migrations using sql-migrate with the provided pgx pool
func ApplyMigrations(pool *pgxpool.Pool, migrationsDir string) error {
	// Create sql.DB from the pgx pool for sql-migrate
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	return applyMigrations(db, migrationsDir)
}

// SeedDeployment instantiates the seeded deployment unless one exists, then
// configures its schedule if the seed has one.
func SeedDeployment(ctx context.Context, pool *pgxpool.Pool, seed Seed) error {
	store, _ := pgxstore.New(pool)
	svc := service.New(store, service.WithLogger(slog.Default()))

	err := svc.Instantiate(ctx, seed.Deployment)
	if errors.Is(err, vesting.ErrConflict) {
		slog.InfoContext(ctx, "Deployment already instantiated, skipping seed")
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSeedFailed, err)
	}

	if seed.Schedule == nil {
		return nil
	}
	if err := svc.Configure(ctx, seed.Deployment.Owner, *seed.Schedule); err != nil {
		return fmt.Errorf("%w: %w", ErrSeedFailed, err)
	}
	return nil
}

func migrationsHash(migrationsDir string) (string, error) {
	source := &migrate.FileMigrationSource{Dir: migrationsDir}
	migrationSet := &migrate.MigrationSet{TableName: migrationsTableName}
	sqlMigrator := sqlmigrator.New(source, migrationSet)

	baseHash, err := sqlMigrator.Hash()
	if err != nil {
		return "", fmt.Errorf("failed to calculate migration hash for %s: %w", migrationsDir, err)
	}
	return baseHash, nil
}

// applyMigrations applies database migrations using sql-migrate
func applyMigrations(db *sql.DB, migrationsDir string) error {
	source := &migrate.FileMigrationSource{Dir: migrationsDir}
	migrationSet := &migrate.MigrationSet{TableName: migrationsTableName}

	_, err := migrationSet.Exec(db, "postgres", source, migrate.Up)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMigrationExecution, err)
	}
	return nil
}
