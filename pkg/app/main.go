// Package app holds the shared infrastructure handed to catalog services.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/seanwirkus/Animal-Crossing-CE/pkg/cache"
	"github.com/seanwirkus/Animal-Crossing-CE/pkg/config"
	"github.com/seanwirkus/Animal-Crossing-CE/pkg/database"
	"github.com/seanwirkus/Animal-Crossing-CE/pkg/events"
	"github.com/seanwirkus/Animal-Crossing-CE/pkg/logger"
	"github.com/seanwirkus/Animal-Crossing-CE/pkg/telemetry"
)

// Application holds shared infrastructure dependencies for the catalog
// commands. Db, EventBus and Redis are nil when not configured.
//
// Logging: app.Logger is backed by a trace-aware handler; use the context
// methods so trace_id and span_id are attached:
//
//	app.Logger.InfoContext(ctx, "snapshot stored", "run_id", id)
type Application struct {
	Config    *config.Config
	Db        *database.Database
	Logger    logger.Logger
	EventBus  *events.EventBus
	Redis     *cache.RedisClient
	Telemetry *telemetry.Telemetry
}

// Connect opens the optional sinks named by cfg. The event bus is opened
// in forwarder mode and only on PostgreSQL. On error everything opened so
// far is closed.
func Connect(ctx context.Context, cfg *config.Config, log logger.Logger) (*Application, error) {
	a := &Application{Config: cfg, Logger: log}

	if cfg.DatabaseURL != "" {
		db, err := database.Open(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		a.Db = db

		if events.Supported(cfg.DatabaseURL) {
			bus, err := events.Open(cfg, log)
			if err != nil {
				_ = a.Close()
				return nil, fmt.Errorf("connect event bus: %w", err)
			}
			a.EventBus = bus
		}
	}

	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisClient(ctx, cfg)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.Redis = rc
		log.DebugContext(ctx, "redis connected")
	}

	return a, nil
}

// Close releases every connection Connect opened.
func (a *Application) Close() error {
	var errs []error
	if a.EventBus != nil {
		errs = append(errs, a.EventBus.Close())
	}
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.Db != nil {
		errs = append(errs, a.Db.Close())
	}
	return errors.Join(errs...)
}
