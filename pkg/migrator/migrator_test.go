package migrator

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/seanwirkus/Animal-Crossing-CE/pkg/database"
	"github.com/seanwirkus/Animal-Crossing-CE/pkg/logger"
)

func TestRunMigrations_SQLite(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, "sqlite://:memory:", logger.Discard())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close() //nolint:errcheck

	files := fstest.MapFS{
		"00001_widgets.sql": {Data: []byte("-- +goose Up\nCREATE TABLE widgets (id TEXT PRIMARY KEY);\n\n-- +goose Down\nDROP TABLE widgets;\n")},
	}

	for i := 0; i < 2; i++ {
		if err := RunMigrations(ctx, db, files, logger.Discard()); err != nil {
			t.Fatalf("RunMigrations pass %d: %v", i+1, err)
		}
	}

	if _, err := db.DB().ExecContext(ctx, "INSERT INTO widgets (id) VALUES ('a')"); err != nil {
		t.Fatalf("migrated table not usable: %v", err)
	}
}
