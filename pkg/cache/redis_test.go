package cache

import (
	"context"
	"errors"
	"os"
	"sort"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/seanwirkus/Animal-Crossing-CE/pkg/config"
)

func newTestConfig(url string) *config.Config {
	return &config.Config{RedisURL: url, RedisNamespace: "catalog-test", ServiceName: "catalog-test"}
}

func TestKey(t *testing.T) {
	tests := []struct {
		namespace string
		want      string
	}{
		{"catalog", "catalog:item:fish_koi"},
		{"", "item:fish_koi"},
	}
	for _, tt := range tests {
		rc := &RedisClient{namespace: tt.namespace}
		if got := rc.Key("item", "fish_koi"); got != tt.want {
			t.Errorf("Key with namespace %q = %q, want %q", tt.namespace, got, tt.want)
		}
	}
}

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), newTestConfig("not-a-valid-url"))
	if err == nil {
		t.Fatal("expected error for invalid URL, got nil")
	}
}

func TestNewRedisClient_UnreachableHost(t *testing.T) {
	_, err := NewRedisClient(context.Background(), newTestConfig("redis://localhost:19999"))
	if err == nil {
		t.Fatal("expected error when Redis is unreachable, got nil")
	}
}

// Integration tests: skipped unless REDIS_URL is set.
func TestRedisIntegration(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set; skipping integration tests")
	}

	t.Run("NewRedisClient_Success", func(t *testing.T) {
		rc, err := NewRedisClient(context.Background(), newTestConfig(redisURL))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer rc.Close() //nolint:errcheck
	})

	t.Run("Ping_Success", func(t *testing.T) {
		rc, err := NewRedisClient(context.Background(), newTestConfig(redisURL))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer rc.Close() //nolint:errcheck

		if err := rc.Ping(context.Background()); err != nil {
			t.Fatalf("Ping failed: %v", err)
		}
	})

	t.Run("CatalogCache_PublishReplaces", func(t *testing.T) {
		ctx := context.Background()
		rc, err := NewRedisClient(ctx, newTestConfig(redisURL))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer rc.Close() //nolint:errcheck

		cc := NewCatalogCache(rc)
		first := []CachedRecord{
			{ID: "fish_sea_bass", Name: "Sea Bass", Category: "Fish", Rarity: "Common", BaseValue: 400, Payload: []byte(`{"id":"fish_sea_bass"}`)},
			{ID: "bug_tarantula", Name: "Tarantula", Category: "Bug", Rarity: "UltraRare", BaseValue: 8000, Payload: []byte(`{"id":"bug_tarantula"}`)},
		}
		if err := cc.Publish(ctx, "hash-1", first); err != nil {
			t.Fatalf("Publish: %v", err)
		}
		got, err := cc.Get(ctx, "bug_tarantula")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.BaseValue != 8000 || string(got.Payload) != `{"id":"bug_tarantula"}` {
			t.Errorf("unexpected record: %+v", got)
		}

		if err := cc.Publish(ctx, "hash-2", first[:1]); err != nil {
			t.Fatalf("Publish: %v", err)
		}
		if _, err := cc.Get(ctx, "bug_tarantula"); !errors.Is(err, redis.Nil) {
			t.Errorf("expected redis.Nil for a dropped record, got %v", err)
		}
		ids, err := cc.IDs(ctx)
		if err != nil {
			t.Fatal(err)
		}
		sort.Strings(ids)
		if len(ids) != 1 || ids[0] != "fish_sea_bass" {
			t.Errorf("IDs = %v", ids)
		}
		if hash, _ := cc.ContentHash(ctx); hash != "hash-2" {
			t.Errorf("ContentHash = %q", hash)
		}
	})
}
