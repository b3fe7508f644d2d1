package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/seanwirkus/Animal-Crossing-CE/migrations/catalog"
	"github.com/seanwirkus/Animal-Crossing-CE/pkg/app"
	"github.com/seanwirkus/Animal-Crossing-CE/pkg/config"
	"github.com/seanwirkus/Animal-Crossing-CE/pkg/events"
	"github.com/seanwirkus/Animal-Crossing-CE/pkg/httpx"
	"github.com/seanwirkus/Animal-Crossing-CE/pkg/logger"
	"github.com/seanwirkus/Animal-Crossing-CE/pkg/migrator"
	"github.com/seanwirkus/Animal-Crossing-CE/pkg/telemetry"
	catalogapi "github.com/seanwirkus/Animal-Crossing-CE/services/catalog/application/api"
	catalogsvcs "github.com/seanwirkus/Animal-Crossing-CE/services/catalog/application/services"
	catalogevents "github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain/events"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, config.ErrHelpWanted) {
			fmt.Println(strings.TrimPrefix(err.Error(), config.ErrHelpWanted.Error()+": "))
			return
		}
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer tel.Shutdown(context.Background()) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	if !events.Supported(cfg.DatabaseURL) || cfg.RedisURL == "" {
		log.Error("worker needs a postgres CATALOG_DATABASE_URL and a REDIS_URL")
		os.Exit(1) //nolint:gocritic
	}

	a, err := app.Connect(ctx, cfg, log)
	if err != nil {
		log.Error("failed to connect", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer a.Close() //nolint:errcheck
	a.Telemetry = tel

	if err := migrator.RunMigrations(ctx, a.Db, catalog.FS, log); err != nil {
		log.Error("failed to migrate snapshot store", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	if err := a.EventBus.StartForwarder(ctx); err != nil {
		log.Error("failed to start event forwarder", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	if err := registerSubscribers(ctx, a); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	var srv *http.Server
	if cfg.HTTPAddr != "" {
		srv = httpx.NewServer(cfg.HTTPAddr, newRouter(a))
		go func() {
			log.Info("read API listening", "addr", srv.Addr, "env", cfg.Environment)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("read API failed", "error", err)
				stop()
			}
		}()
	}

	<-ctx.Done()
	log.Info("shutting down worker...")

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("forced read API shutdown", "error", err)
		}
	}

	// EventBus.Close() (via a.Close) waits up to 30s for in-flight handlers.
	log.Info("worker stopped")
}

// newRouter builds the read API: health, metrics and the catalog endpoints.
func newRouter(a *app.Application) *chi.Mux {
	cfg := a.Config
	r := httpx.NewRouter(
		httpx.ServerConfig{
			IsDevelopment:      cfg.Environment == config.EnvDevelopment,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
			RequestsPerMinute:  cfg.RateLimitPerMinute,
		},
		logger.Recovery(a.Logger),
		telemetry.SentryMiddleware(),
		otelhttp.NewMiddleware(cfg.ServiceName),
		logger.Middleware(a.Logger),
	)

	checks := httpx.HealthChecks{"database": nil, "redis": nil, "event_bus": nil}
	if a.Db != nil {
		checks["database"] = a.Db
	}
	if a.Redis != nil {
		checks["redis"] = a.Redis
	}
	if a.EventBus != nil {
		checks["event_bus"] = a.EventBus
	}
	r.Get("/healthz", httpx.HealthHandler(checks))
	if a.Telemetry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(a.Telemetry.Gatherer(), promhttp.HandlerOpts{}))
	}
	catalogapi.CatalogRoutes(r, a)
	return r
}

// registerSubscribers wires all catalog event handlers.
func registerSubscribers(ctx context.Context, a *app.Application) error {
	svcs := catalogsvcs.New(a)
	errCh, err := a.EventBus.Subscribe(ctx, catalogevents.TopicCatalogPublished, handleCatalogPublished(svcs.Snapshots, a.Logger))
	if err != nil {
		return err
	}

	// Drain subscriber errors in background so the channel never blocks.
	go func() {
		for err := range errCh {
			a.Logger.ErrorContext(ctx, "subscriber error",
				"topic", catalogevents.TopicCatalogPublished,
				"error", err,
			)
		}
	}()

	a.Logger.Info("event subscribers registered", "topics", []string{catalogevents.TopicCatalogPublished})
	return nil
}

// refresher is the part of SnapshotService the handler needs.
type refresher interface {
	Refresh(ctx context.Context, contentHash string) (bool, error)
}

// handleCatalogPublished returns a handler for catalog.published events.
// Handlers must be idempotent; EventBus retries up to 3x on failure.
// Refresh skips the reload when the cache already holds the content hash.
func handleCatalogPublished(snapshots refresher, log logger.Logger) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		var evt catalogevents.CatalogPublishedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			// A malformed payload will never succeed; drop it.
			log.ErrorContext(ctx, "discarding malformed catalog.published payload", "error", err)
			return nil
		}

		refreshed, err := snapshots.Refresh(ctx, evt.ContentHash)
		if err != nil {
			return fmt.Errorf("refresh cache for run %s: %w", evt.RunID, err)
		}
		log.InfoContext(ctx, "catalog.published handled",
			"run_id", evt.RunID,
			"records", evt.RecordCount,
			"refreshed", refreshed,
		)
		return nil
	}
}
