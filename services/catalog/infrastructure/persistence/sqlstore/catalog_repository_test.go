package sqlstore

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/seanwirkus/Animal-Crossing-CE/migrations/catalog"
	"github.com/seanwirkus/Animal-Crossing-CE/pkg/database"
	"github.com/seanwirkus/Animal-Crossing-CE/pkg/logger"
	"github.com/seanwirkus/Animal-Crossing-CE/pkg/migrator"
	catalogdomain "github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain"
	"github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain/models"
	"github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain/repositories"
)

func newRepo(t *testing.T) *CatalogRepository {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, "sqlite://:memory:", logger.Discard())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := migrator.RunMigrations(ctx, db, catalog.FS, logger.Discard()); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	return NewCatalogRepository(db, nil)
}

func sampleRecords() []*models.ItemRecord {
	return []*models.ItemRecord{
		models.NewItemRecord(models.RecordInput{
			ID: "fish_sea_bass", Name: "Sea Bass", Category: models.CategoryFish,
			BaseValue: 400, Rarity: models.RarityCommon, Description: "Sea bass!",
			SeasonTags:   []models.Season{models.SeasonWinter, models.SeasonSpring},
			TimeWindows:  []models.TimeWindow{{StartHour: 16, EndHour: 9}},
			Requirements: []string{"LocationPier"},
		}),
		models.NewItemRecord(models.RecordInput{
			ID: "bug_common_butterfly", Name: "Common Butterfly", Category: models.CategoryBug,
			BaseValue: 160, Rarity: models.RarityCommon,
		}),
	}
}

func TestCatalogRepository_ReplaceAndRead(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	recs := sampleRecords()
	runID := uuid.New()

	if err := repo.Replace(ctx, repositories.Snapshot{RunID: runID, ContentHash: "abc", Records: recs}); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	n, err := repo.Count(ctx)
	if err != nil || n != 2 {
		t.Fatalf("Count = %d, %v", n, err)
	}

	got, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !reflect.DeepEqual(got, recs) {
		t.Errorf("List mismatch:\n got %+v\nwant %+v", got, recs)
	}

	bass, err := repo.Get(ctx, "fish_sea_bass")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !reflect.DeepEqual(bass, recs[0]) {
		t.Errorf("Get = %+v", bass)
	}

	butterfly, err := repo.Get(ctx, "bug_common_butterfly")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if butterfly.Requirements != nil {
		t.Errorf("absent requirements should stay nil, got %v", butterfly.Requirements)
	}

	gotRun, hash, err := repo.LatestRun(ctx)
	if err != nil || gotRun != runID || hash != "abc" {
		t.Errorf("LatestRun = %s, %q, %v", gotRun, hash, err)
	}
}

func TestCatalogRepository_ReplaceSwapsEverything(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	recs := sampleRecords()

	if err := repo.Replace(ctx, repositories.Snapshot{RunID: uuid.New(), ContentHash: "one", Records: recs}); err != nil {
		t.Fatal(err)
	}
	repo.now = func() time.Time { return time.Now().Add(time.Minute) }
	second := uuid.New()
	if err := repo.Replace(ctx, repositories.Snapshot{RunID: second, ContentHash: "two", Records: recs[1:]}); err != nil {
		t.Fatal(err)
	}

	if _, err := repo.Get(ctx, "fish_sea_bass"); !errors.Is(err, catalogdomain.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound after replace, got %v", err)
	}
	if n, _ := repo.Count(ctx); n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
	if run, hash, _ := repo.LatestRun(ctx); run != second || hash != "two" {
		t.Errorf("LatestRun = %s, %q", run, hash)
	}
}

func TestCatalogRepository_ReplaceRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	recs := sampleRecords()
	if err := repo.Replace(ctx, repositories.Snapshot{RunID: uuid.New(), Records: recs}); err != nil {
		t.Fatal(err)
	}

	// A duplicate id violates the primary key midway through the insert.
	dup := []*models.ItemRecord{recs[1], recs[1]}
	if err := repo.Replace(ctx, repositories.Snapshot{RunID: uuid.New(), Records: dup}); err == nil {
		t.Fatal("expected an error for duplicate ids")
	}

	if n, _ := repo.Count(ctx); n != 2 {
		t.Errorf("failed replace must keep the old snapshot, Count = %d", n)
	}
}

func TestCatalogRepository_Empty(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	run, hash, err := repo.LatestRun(ctx)
	if err != nil || run != uuid.Nil || hash != "" {
		t.Errorf("LatestRun on empty store = %s, %q, %v", run, hash, err)
	}
	recs, err := repo.List(ctx)
	if err != nil || len(recs) != 0 {
		t.Errorf("List on empty store = %v, %v", recs, err)
	}
}
