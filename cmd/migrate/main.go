package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/seanwirkus/Animal-Crossing-CE/migrations/catalog"
	"github.com/seanwirkus/Animal-Crossing-CE/pkg/config"
	"github.com/seanwirkus/Animal-Crossing-CE/pkg/database"
	"github.com/seanwirkus/Animal-Crossing-CE/pkg/logger"
	"github.com/seanwirkus/Animal-Crossing-CE/pkg/migrator"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, config.ErrHelpWanted) {
			fmt.Println(err)
			return nil
		}
		return err
	}
	if cfg.DatabaseURL == "" {
		return errors.New("CATALOG_DATABASE_URL is required")
	}

	log := logger.New(cfg)
	ctx := context.Background()

	db, err := database.Open(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck

	return migrator.RunMigrations(ctx, db, catalog.FS, log)
}
