package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kendall-wood/blackbuy-backend/internal/domain"
)

func newTestRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewRedisCacheFromClient(client)
	t.Cleanup(func() { cache.Close() })
	return cache, mr
}

func TestRedisCacheSetGet(t *testing.T) {
	cache, _ := newTestRedisCache(t)
	ctx := context.Background()

	value := map[string]interface{}{"name": "curl cream", "price": 12.5}
	require.NoError(t, cache.Set(ctx, "k", value, time.Minute))

	got, err := cache.Get(ctx, "k")
	require.NoError(t, err)

	m, ok := got.(map[string]interface{})
	require.True(t, ok, "value is %T, want map", got)
	assert.Equal(t, "curl cream", m["name"])
	assert.Equal(t, 12.5, m["price"])
}

func TestRedisCacheMiss(t *testing.T) {
	cache, _ := newTestRedisCache(t)

	_, err := cache.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCacheTTL(t *testing.T) {
	cache, mr := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", "v", time.Minute))

	mr.FastForward(2 * time.Minute)

	_, err := cache.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCacheDeleteAndExists(t *testing.T) {
	cache, _ := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", "v", time.Minute))

	exists, err := cache.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, cache.Delete(ctx, "k"))

	exists, err = cache.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRedisCachePing(t *testing.T) {
	cache, mr := newTestRedisCache(t)

	require.NoError(t, cache.Ping(context.Background()))

	mr.Close()
	err := cache.Ping(context.Background())
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)
}

func TestNewRedisCacheRejectsBadURL(t *testing.T) {
	_, err := NewRedisCache("not-a-url")
	assert.Error(t, err)
}
