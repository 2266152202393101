package dataset

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheWithClient(client, time.Minute)
}

func TestCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t)

	records := []map[string]interface{}{
		{"state": "Karnataka", "district": "Mysuru", "crop": "Rice", "year": "2021", "production_tonnes": "100.5"},
	}

	_, hit := cache.GetRecords(ctx, "agri-001")
	assert.False(t, hit)

	require.NoError(t, cache.SetRecords(ctx, "agri-001", records))

	cached, hit := cache.GetRecords(ctx, "agri-001")
	require.True(t, hit)
	assert.Equal(t, records, cached)
}

func TestCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t)

	records := []map[string]interface{}{{"state": "Kerala", "year": "2021", "annual_rainfall_mm": "2800"}}
	require.NoError(t, cache.SetRecords(ctx, "rain-001", records))
	require.NoError(t, cache.Invalidate(ctx, "rain-001"))

	_, hit := cache.GetRecords(ctx, "rain-001")
	assert.False(t, hit)
}

func TestCache_KeysAreScopedByResource(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t)

	require.NoError(t, cache.SetRecords(ctx, "agri-001", []map[string]interface{}{{"state": "Karnataka"}}))

	_, hit := cache.GetRecords(ctx, "rain-001")
	assert.False(t, hit)
}

func TestCache_Ping(t *testing.T) {
	cache := newTestCache(t)
	assert.NoError(t, cache.Ping(context.Background()))
}
