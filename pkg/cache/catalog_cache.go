package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// CachedRecord is the read model stored per catalog record. The scalar
// fields are stored as hash fields for cheap lookups; Payload carries the
// full record encoded by the caller.
type CachedRecord struct {
	ID        string
	Name      string
	Category  string
	Rarity    string
	BaseValue int
	Payload   []byte
}

// CatalogCache stores the latest catalog in Redis. Under the client
// namespace it keeps one hash per record at item:{id}, the id set ids and
// the string content_hash.
type CatalogCache struct {
	rdb *redis.Client
	key func(parts ...string) string
}

// NewCatalogCache creates a CatalogCache backed by r.
func NewCatalogCache(r *RedisClient) *CatalogCache {
	return &CatalogCache{rdb: r.rdb, key: r.Key}
}

// Publish replaces the cached catalog with recs. Records missing from recs
// are removed. All writes happen in one MULTI/EXEC transaction.
func (c *CatalogCache) Publish(ctx context.Context, contentHash string, recs []CachedRecord) error {
	idsKey := c.key("ids")
	previous, err := c.rdb.SMembers(ctx, idsKey).Result()
	if err != nil {
		return fmt.Errorf("cache read ids: %w", err)
	}

	keep := make(map[string]bool, len(recs))
	for _, rec := range recs {
		keep[rec.ID] = true
	}

	_, err = c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range previous {
			if !keep[id] {
				pipe.Del(ctx, c.key("item", id))
			}
		}
		pipe.Del(ctx, idsKey)
		ids := make([]any, 0, len(recs))
		for _, rec := range recs {
			key := c.key("item", rec.ID)
			pipe.Del(ctx, key)
			pipe.HSet(ctx, key,
				"id", rec.ID,
				"name", rec.Name,
				"category", rec.Category,
				"rarity", rec.Rarity,
				"base_value", rec.BaseValue,
				"payload", rec.Payload,
			)
			ids = append(ids, rec.ID)
		}
		if len(ids) > 0 {
			pipe.SAdd(ctx, idsKey, ids...)
		}
		pipe.Set(ctx, c.key("content_hash"), contentHash, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("cache publish: %w", err)
	}
	return nil
}

// Get returns the cached record for id.
// Returns redis.Nil when the record is not cached.
func (c *CatalogCache) Get(ctx context.Context, id string) (*CachedRecord, error) {
	vals, err := c.rdb.HGetAll(ctx, c.key("item", id)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil
	}

	baseValue, err := strconv.Atoi(vals["base_value"])
	if err != nil {
		return nil, fmt.Errorf("cache parse base_value: %w", err)
	}
	return &CachedRecord{
		ID:        vals["id"],
		Name:      vals["name"],
		Category:  vals["category"],
		Rarity:    vals["rarity"],
		BaseValue: baseValue,
		Payload:   []byte(vals["payload"]),
	}, nil
}

// IDs returns the cached record ids in no particular order.
func (c *CatalogCache) IDs(ctx context.Context) ([]string, error) {
	ids, err := c.rdb.SMembers(ctx, c.key("ids")).Result()
	if err != nil {
		return nil, fmt.Errorf("cache ids: %w", err)
	}
	return ids, nil
}

// ContentHash returns the hash of the cached catalog, or "" when nothing
// has been published.
func (c *CatalogCache) ContentHash(ctx context.Context) (string, error) {
	hash, err := c.rdb.Get(ctx, c.key("content_hash")).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("cache content hash: %w", err)
	}
	return hash, nil
}
