// Package cache keeps the catalog read model in Redis.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/seanwirkus/Animal-Crossing-CE/pkg/config"
)

// RedisClient is a Redis connection plus the key namespace the catalog
// lives under, so several environments can share one server.
type RedisClient struct {
	rdb       *redis.Client
	namespace string
}

// NewRedisClient connects to cfg.RedisURL and pings it. Commands run one
// pipeline per publish, so the pool stays small and writes get a longer
// deadline than reads.
func NewRedisClient(ctx context.Context, cfg *config.Config) (*RedisClient, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	if opts.ClientName == "" {
		opts.ClientName = cfg.ServiceName
	}
	opts.PoolSize = 4
	opts.MaxRetries = 2
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 10 * time.Second

	rc := &RedisClient{rdb: redis.NewClient(opts), namespace: strings.Trim(cfg.RedisNamespace, ":")}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		_ = rc.rdb.Close()
		return nil, err
	}
	return rc, nil
}

// Key joins parts under the client's namespace: Key("item", "fish_koi") is
// "catalog:item:fish_koi" for the namespace "catalog".
func (r *RedisClient) Key(parts ...string) string {
	if r.namespace == "" {
		return strings.Join(parts, ":")
	}
	return r.namespace + ":" + strings.Join(parts, ":")
}

// Ping checks the connection.
func (r *RedisClient) Ping(ctx context.Context) error {
	if err := r.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: ping: %w", err)
	}
	return nil
}

// Close releases the pool.
func (r *RedisClient) Close() error {
	if err := r.rdb.Close(); err != nil {
		return fmt.Errorf("redis: close: %w", err)
	}
	return nil
}
