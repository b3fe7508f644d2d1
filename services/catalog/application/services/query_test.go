package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/seanwirkus/Animal-Crossing-CE/pkg/logger"
	catalogdomain "github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain"
	"github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain/models"
)

type fakeReader struct {
	records map[string]*models.ItemRecord
	err     error
}

func (f *fakeReader) Get(_ context.Context, id string) (*models.ItemRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	if rec, ok := f.records[id]; ok {
		return rec, nil
	}
	return nil, fmt.Errorf("%w: %s", catalogdomain.ErrRecordNotFound, id)
}

func record(id string, cat models.Category) *models.ItemRecord {
	return models.NewItemRecord(models.RecordInput{ID: id, Name: id, Category: cat, Rarity: models.RarityCommon})
}

func TestQueryService_Get(t *testing.T) {
	koi := record("fish_koi", models.CategoryFish)
	ant := record("bug_ant", models.CategoryBug)
	repo := &fakeRepo{stored: []*models.ItemRecord{koi, ant}}

	tests := []struct {
		name       string
		cache      *fakeReader
		id         string
		wantSource Source
		wantErr    error
	}{
		{"cache hit", &fakeReader{records: map[string]*models.ItemRecord{"fish_koi": koi}}, "fish_koi", SourceCache, nil},
		{"cache miss falls back", &fakeReader{}, "bug_ant", SourceStore, nil},
		{"cache down falls back", &fakeReader{err: errors.New("redis down")}, "bug_ant", SourceStore, nil},
		{"no cache", nil, "fish_koi", SourceStore, nil},
		{"unknown id", &fakeReader{}, "fish_nope", "", catalogdomain.ErrRecordNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var reader recordReader
			if tt.cache != nil {
				reader = tt.cache
			}
			svc := NewQueryService(repo, reader, logger.Discard())
			rec, source, err := svc.Get(context.Background(), tt.id)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if rec.ID != tt.id || source != tt.wantSource {
				t.Errorf("got (%s, %s), want (%s, %s)", rec.ID, source, tt.id, tt.wantSource)
			}
		})
	}
}

func TestQueryService_Get_CacheOnlyMiss(t *testing.T) {
	svc := NewQueryService(nil, &fakeReader{}, logger.Discard())
	if _, _, err := svc.Get(context.Background(), "fish_koi"); !errors.Is(err, catalogdomain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestQueryService_List(t *testing.T) {
	repo := &fakeRepo{stored: []*models.ItemRecord{
		record("fish_sea_bass", models.CategoryFish),
		record("bug_ant", models.CategoryBug),
		record("fish_koi", models.CategoryFish),
		record("fish_carp", models.CategoryFish),
	}}
	svc := NewQueryService(repo, nil, logger.Discard())

	tests := []struct {
		name      string
		q         ListQuery
		wantTotal int
		wantIDs   []string
	}{
		{"all", ListQuery{}, 4, []string{"fish_sea_bass", "bug_ant", "fish_koi", "fish_carp"}},
		{"by category", ListQuery{Category: models.CategoryFish}, 3, []string{"fish_sea_bass", "fish_koi", "fish_carp"}},
		{"paged", ListQuery{Category: models.CategoryFish, Limit: 1, Offset: 1}, 3, []string{"fish_koi"}},
		{"past the end", ListQuery{Offset: 10}, 4, nil},
		{"unknown category", ListQuery{Category: "Fossil"}, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.List(context.Background(), tt.q)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if page.Total != tt.wantTotal || len(page.Records) != len(tt.wantIDs) {
				t.Fatalf("got total %d with %d records", page.Total, len(page.Records))
			}
			for i, id := range tt.wantIDs {
				if page.Records[i].ID != id {
					t.Errorf("record %d = %s, want %s", i, page.Records[i].ID, id)
				}
			}
		})
	}
}

func TestQueryService_List_Invalid(t *testing.T) {
	svc := NewQueryService(&fakeRepo{}, nil, logger.Discard())
	for _, q := range []ListQuery{{Limit: -1}, {Limit: MaxListLimit + 1}, {Offset: -1}} {
		if _, err := svc.List(context.Background(), q); !errors.Is(err, catalogdomain.ErrInvalidQuery) {
			t.Errorf("List(%+v): expected ErrInvalidQuery, got %v", q, err)
		}
	}
	if _, err := NewQueryService(nil, nil, logger.Discard()).List(context.Background(), ListQuery{}); err == nil {
		t.Error("expected an error without a snapshot store")
	}
}
