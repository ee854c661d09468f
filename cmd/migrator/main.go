package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/screwyprof/vesting/migrator"
	"github.com/screwyprof/vesting/migrator/config"
	"github.com/screwyprof/vesting/pkg/logger"
	"github.com/screwyprof/vesting/pkg/pgxdb"
	"github.com/screwyprof/vesting/service"
	"github.com/screwyprof/vesting/vesting"
)

// These values are overridden at build time using -ldflags
var (
	version = "dev"
	date    = "unknown"
)

func main() {
	// Load configuration from environment
	cfg := config.New()

	// Initialize logger and set as default
	log := logger.NewFromConfig(logger.Config{
		LogLevel:         cfg.LogLevel,
		LogHumanFriendly: cfg.LogHumanFriendly,
	})
	slog.SetDefault(log)

	log.Info("Starting database migrator service",
		slog.String("migrationsDir", cfg.MigrationsDir),
		slog.String("owner", cfg.Owner),
		slog.String("version", version),
		slog.String("date", date),
	)

	// Create a context that cancels on SIGINT/SIGTERM _or_ when the timeout elapses
	baseCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(baseCtx, cfg.OperationTimeout)
	defer cancel()

	// Connect to database
	db, err := pgxdb.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("Failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Apply migrations
	log.Info("Applying database migrations")
	if err := migrator.ApplyMigrations(db, cfg.MigrationsDir); err != nil {
		log.Error("Failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}
	log.Info("Database migrations applied successfully")

	// Seed the deployment if an owner is specified
	if cfg.Owner != "" {
		seed, err := seedFromConfig(cfg)
		if err != nil {
			log.Error("Failed to read schedule", slog.Any("error", err))
			os.Exit(1)
		}

		log.Info("Seeding deployment", slog.String("manager", cfg.Manager), slog.String("splitter", cfg.Splitter))
		if err := migrator.SeedDeployment(ctx, db, seed); err != nil {
			log.Error("Failed to seed deployment", slog.Any("error", err))
			os.Exit(1)
		}
		log.Info("Deployment seeded successfully")
	}

	log.Info("Database migrator completed successfully")
}

func seedFromConfig(cfg config.Config) (migrator.Seed, error) {
	seed := migrator.Seed{
		Deployment: service.Deployment{
			Owner:    vesting.Address(cfg.Owner),
			Manager:  vesting.Address(cfg.Manager),
			Splitter: vesting.Address(cfg.Splitter),
			Pool:     cfg.SplitPool,
			Account:  cfg.SplitAccount,
		},
	}
	if cfg.ScheduleFile == "" {
		return seed, nil
	}

	doc, err := os.ReadFile(cfg.ScheduleFile)
	if err != nil {
		return migrator.Seed{}, err
	}
	schedule, err := vesting.ParseSchedule(doc)
	if err != nil {
		return migrator.Seed{}, err
	}
	seed.Schedule = &schedule
	return seed, nil
}
