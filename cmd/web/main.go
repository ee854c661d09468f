package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/screwyprof/vesting/autovest"
	"github.com/screwyprof/vesting/pkg/logger"
	"github.com/screwyprof/vesting/pkg/metrics"
	"github.com/screwyprof/vesting/pkg/pgxdb"
	"github.com/screwyprof/vesting/service"
	"github.com/screwyprof/vesting/service/store/memstore"
	"github.com/screwyprof/vesting/service/store/pgxstore"
	"github.com/screwyprof/vesting/vesting"
	"github.com/screwyprof/vesting/web/config"
	"github.com/screwyprof/vesting/web/handler"
)

var (
	version = "dev"
	date    = "unknown"
)

const metricsRoute = http.MethodGet + " " + "/metrics"

func main() {
	// Load configuration
	cfg := config.New()

	// Initialize logger and set as default
	log := logger.NewFromConfig(logger.Config{
		LogLevel:         cfg.LogLevel,
		LogHumanFriendly: cfg.LogHumanFriendly,
	})
	slog.SetDefault(log)

	// Prepare context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.InfoContext(ctx, "Vesting Web API Service starting",
		slog.String("version", version),
		slog.String("date", date),
		slog.String("store", cfg.Store),
	)

	if err := run(ctx, cfg, log); err != nil {
		log.ErrorContext(ctx, "Service failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.InfoContext(ctx, "Server exited gracefully")
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	store, storeCloser, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer storeCloser()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc := service.New(store,
		service.WithLogger(log),
		service.WithMetrics(metrics.New(registry)),
	)

	if err := instantiate(ctx, svc, cfg, log); err != nil {
		return err
	}

	// Create HTTP server
	mux := http.NewServeMux()
	handler.NewMgmt(svc).AddRoutes(mux)
	handler.NewRpt(svc).AddRoutes(mux)
	handler.NewBalances(svc).AddRoutes(mux)
	mux.Handle(metricsRoute, promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	addr := net.JoinHostPort(cfg.HTTPHost, cfg.HTTPPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           logger.NewMiddleware(log)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.InfoContext(gctx, "Server started", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.InfoContext(gctx, "Shutting down server...")

		// Give outstanding requests time to complete
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if cfg.AutovestInterval > 0 {
		g.Go(func() error {
			events, done := autovest.NewService(svc, autovest.WithInterval(cfg.AutovestInterval)).Start(gctx)
			subCloser := setupEventLogging(gctx, events, log)
			<-done
			subCloser()
			return nil
		})
	}

	return g.Wait()
}

func openStore(ctx context.Context, cfg config.Config) (service.Store, func(), error) {
	switch cfg.Store {
	case config.StoreMemory:
		return memstore.New(), func() {}, nil
	case config.StorePostgres:
		db, err := pgxdb.NewConnection(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		store, storeCloser := pgxstore.New(db)
		return store, storeCloser, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// instantiate creates the configured deployment unless one exists already.
func instantiate(ctx context.Context, svc *service.Service, cfg config.Config, log *slog.Logger) error {
	if cfg.Owner == "" {
		return nil
	}

	err := svc.Instantiate(ctx, service.Deployment{
		Owner:    vesting.Address(cfg.Owner),
		Manager:  vesting.Address(cfg.Manager),
		Splitter: vesting.Address(cfg.Splitter),
		Pool:     cfg.SplitPool,
		Account:  cfg.SplitAccount,
	})
	if errors.Is(err, vesting.ErrConflict) {
		log.InfoContext(ctx, "Deployment already instantiated")
		return nil
	}
	return err
}

// setupEventLogging configures event handlers using slog directly
func setupEventLogging(ctx context.Context, events <-chan autovest.Event, log *slog.Logger) func() {
	return autovest.NewSubscriber(events,
		autovest.OnStarted(func(event autovest.Started) {
			log.InfoContext(ctx, "Autovest started",
				slog.String("startedAt", event.StartedAt.Format(logger.BritishTimeFormat)),
				slog.Duration("interval", event.Interval),
			)
		}),
		autovest.OnVestCompleted(func(event autovest.VestCompleted) {
			log.InfoContext(ctx, "Vest completed",
				slog.String("amount", event.Amount.String()),
				slog.Int("transfers", event.Transfers),
			)
		}),
		autovest.OnVestSkipped(func(event autovest.VestSkipped) {
			log.DebugContext(ctx, "Vest skipped", slog.String("reason", event.Reason.Error()))
		}),
		autovest.OnVestFailed(func(event autovest.VestFailed) {
			log.ErrorContext(ctx, "Vest failed", slog.Any("error", event.Err))
		}),
		autovest.OnShutdown(func(event autovest.Shutdown) {
			log.InfoContext(ctx, "Autovest stopped", slog.String("reason", event.Reason.Error()))
		}),
	)
}
