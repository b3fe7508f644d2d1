// Package cachestore adapts the Redis catalog cache to catalog records.
package cachestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	pkgcache "github.com/seanwirkus/Animal-Crossing-CE/pkg/cache"
	catalogdomain "github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain"
	"github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain/models"
)

// cacheStore is the subset of pkgcache.CatalogCache used here.
type cacheStore interface {
	Publish(ctx context.Context, contentHash string, recs []pkgcache.CachedRecord) error
	Get(ctx context.Context, id string) (*pkgcache.CachedRecord, error)
	ContentHash(ctx context.Context) (string, error)
}

// RecordCache implements repositories.CatalogCache.
type RecordCache struct {
	store cacheStore
}

// NewRecordCache returns a RecordCache writing through c.
func NewRecordCache(c *pkgcache.CatalogCache) *RecordCache {
	return &RecordCache{store: c}
}

// Publish replaces the cached catalog with records.
func (c *RecordCache) Publish(ctx context.Context, contentHash string, records []*models.ItemRecord) error {
	cached := make([]pkgcache.CachedRecord, 0, len(records))
	for _, rec := range records {
		payload, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode record %s: %w", rec.ID, err)
		}
		cached = append(cached, pkgcache.CachedRecord{
			ID:        rec.ID,
			Name:      rec.Name,
			Category:  string(rec.Category),
			Rarity:    string(rec.Rarity),
			BaseValue: rec.BaseValue,
			Payload:   payload,
		})
	}
	return c.store.Publish(ctx, contentHash, cached)
}

// Get returns the cached record for id. Returns ErrRecordNotFound if absent.
func (c *RecordCache) Get(ctx context.Context, id string) (*models.ItemRecord, error) {
	cached, err := c.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", catalogdomain.ErrRecordNotFound, id)
		}
		return nil, err
	}
	var rec models.ItemRecord
	if err := json.Unmarshal(cached.Payload, &rec); err != nil {
		return nil, fmt.Errorf("decode record %s: %w", id, err)
	}
	return models.NewItemRecord(models.RecordInput{
		ID:           rec.ID,
		Name:         rec.Name,
		Category:     rec.Category,
		BaseValue:    rec.BaseValue,
		Rarity:       rec.Rarity,
		Description:  rec.Description,
		SeasonTags:   rec.SeasonTags,
		TimeWindows:  rec.TimeWindows,
		Requirements: rec.Requirements,
	}), nil
}

// ContentHash reports the hash of the cached catalog.
func (c *RecordCache) ContentHash(ctx context.Context) (string, error) {
	return c.store.ContentHash(ctx)
}
