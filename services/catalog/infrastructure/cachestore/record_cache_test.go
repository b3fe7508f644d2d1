package cachestore

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/redis/go-redis/v9"

	pkgcache "github.com/seanwirkus/Animal-Crossing-CE/pkg/cache"
	catalogdomain "github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain"
	"github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain/models"
)

type memoryStore struct {
	hash string
	recs map[string]pkgcache.CachedRecord
}

func (m *memoryStore) Publish(_ context.Context, contentHash string, recs []pkgcache.CachedRecord) error {
	m.hash = contentHash
	m.recs = make(map[string]pkgcache.CachedRecord, len(recs))
	for _, r := range recs {
		m.recs[r.ID] = r
	}
	return nil
}

func (m *memoryStore) Get(_ context.Context, id string) (*pkgcache.CachedRecord, error) {
	r, ok := m.recs[id]
	if !ok {
		return nil, redis.Nil
	}
	return &r, nil
}

func (m *memoryStore) ContentHash(context.Context) (string, error) { return m.hash, nil }

func TestRecordCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{}
	c := &RecordCache{store: store}

	recs := []*models.ItemRecord{
		models.NewItemRecord(models.RecordInput{
			ID: "fish_coelacanth", Name: "Coelacanth", Category: models.CategoryFish,
			BaseValue: 15000, Rarity: models.RarityUltraRare,
			SeasonTags:   []models.Season{models.SeasonWinter},
			TimeWindows:  []models.TimeWindow{{StartHour: 0, EndHour: 24}},
			Requirements: []string{"LocationSea"},
		}),
		models.NewItemRecord(models.RecordInput{
			ID: "bug_ant", Name: "Ant", Category: models.CategoryBug, BaseValue: 80, Rarity: models.RarityCommon,
		}),
	}
	if err := c.Publish(ctx, "h1", recs); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if store.recs["fish_coelacanth"].Rarity != "UltraRare" || store.recs["fish_coelacanth"].BaseValue != 15000 {
		t.Errorf("unexpected cached fields: %+v", store.recs["fish_coelacanth"])
	}

	for _, want := range recs {
		got, err := c.Get(ctx, want.ID)
		if err != nil {
			t.Fatalf("Get(%s): %v", want.ID, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Get(%s) = %+v, want %+v", want.ID, got, want)
		}
	}

	if hash, _ := c.ContentHash(ctx); hash != "h1" {
		t.Errorf("ContentHash = %q", hash)
	}
}

func TestRecordCache_GetMissing(t *testing.T) {
	c := &RecordCache{store: &memoryStore{}}
	if _, err := c.Get(context.Background(), "nope"); !errors.Is(err, catalogdomain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}
