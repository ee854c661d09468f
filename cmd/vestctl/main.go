package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/screwyprof/vesting/cmd/vestctl/config"
	"github.com/screwyprof/vesting/pkg/logger"
)

var (
	version = "dev"
	date    = "unknown"
)

func main() {
	cfg := config.New()

	// Results go to stdout, logs to stderr
	log := logger.NewFromConfig(logger.Config{
		LogLevel:         cfg.LogLevel,
		LogHumanFriendly: cfg.LogHumanFriendly,
		Output:           os.Stderr,
	})
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(cfg, log).ExecuteContext(ctx); err != nil {
		log.ErrorContext(ctx, "Command failed", slog.Any("error", err))
		os.Exit(1)
	}
}
