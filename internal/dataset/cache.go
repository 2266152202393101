// internal/dataset/cache.go
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"agri-insights/internal/common/config"
)

// Cache stores raw fetched records in Redis so a refresh inside the TTL
// avoids re-downloading from the remote API.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache creates a Redis-backed record cache.
func NewCache(cfg config.RedisConfig) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	return &Cache{
		client: rdb,
		ttl:    time.Duration(cfg.CacheTTL) * time.Second,
	}
}

// NewCacheWithClient wraps an existing client (used by tests with miniredis).
func NewCacheWithClient(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Ping tests the Redis connection.
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func (c *Cache) key(resourceID string) string {
	return "dataset:raw:" + resourceID
}

// GetRecords returns cached raw records for a resource, ok=false on miss.
func (c *Cache) GetRecords(ctx context.Context, resourceID string) ([]map[string]interface{}, bool) {
	raw, err := c.client.Get(ctx, c.key(resourceID)).Result()
	if err != nil {
		return nil, false
	}

	var records []map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, false
	}
	return records, true
}

// SetRecords caches raw records for a resource with the configured TTL.
func (c *Cache) SetRecords(ctx context.Context, resourceID string, records []map[string]interface{}) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	return c.client.Set(ctx, c.key(resourceID), raw, c.ttl).Err()
}

// Invalidate drops the cached records for a resource.
func (c *Cache) Invalidate(ctx context.Context, resourceID string) error {
	return c.client.Del(ctx, c.key(resourceID)).Err()
}
