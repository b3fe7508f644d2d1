// Package migrator applies embedded goose migrations to the catalog store.
package migrator

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	"github.com/seanwirkus/Animal-Crossing-CE/pkg/database"
	"github.com/seanwirkus/Animal-Crossing-CE/pkg/logger"
)

// RunMigrations applies every pending migration found at the root of files.
func RunMigrations(ctx context.Context, db *database.Database, files fs.FS, log logger.Logger) error {
	goose.SetBaseFS(files)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(&gooseLogger{log: log})

	if err := goose.SetDialect(db.Dialect().GooseDialect()); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db.DB(), "."); err != nil {
		return fmt.Errorf("failed to up migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, db.DB())
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	log.InfoContext(ctx, "migrations applied", "dialect", db.Dialect(), "version", version)
	return nil
}

// gooseLogger routes goose output through the structured logger at debug
// level. Fatalf is only reached by goose's own CLI helpers.
type gooseLogger struct{ log logger.Logger }

func (l *gooseLogger) Printf(format string, v ...any) {
	l.log.Debug(fmt.Sprintf(format, v...))
}

func (l *gooseLogger) Fatalf(format string, v ...any) {
	l.log.Error(fmt.Sprintf(format, v...))
	panic(fmt.Sprintf(format, v...))
}
