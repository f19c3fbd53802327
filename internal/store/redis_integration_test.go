//go:build integration

package store_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelaro/shortly/internal/shortlink"
	"github.com/avelaro/shortly/internal/store"
)

func getRedisAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

func newIntegrationClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: getRedisAddr()})
	t.Cleanup(func() { _ = client.Close() })

	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	return client
}

func TestRateLimitRedisStoreIntegration(t *testing.T) {
	client := newIntegrationClient(t)
	s := store.NewRateLimitRedisStore(client)
	ctx := context.Background()

	t.Run("incr and count", func(t *testing.T) {
		key := "it-incr"
		t.Cleanup(func() { client.Del(context.Background(), "ratelimit:"+key) })

		count, err := s.Incr(ctx, key, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		count, err = s.Count(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("first incr sets an expiry", func(t *testing.T) {
		key := "it-expiry"
		t.Cleanup(func() { client.Del(context.Background(), "ratelimit:"+key) })

		_, err := s.Incr(ctx, key, time.Minute)
		require.NoError(t, err)

		ttl, err := client.TTL(ctx, "ratelimit:"+key).Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
	})

	t.Run("reset removes the key", func(t *testing.T) {
		key := "it-reset"

		_, err := s.Incr(ctx, key, time.Minute)
		require.NoError(t, err)

		require.NoError(t, s.Reset(ctx, key))

		count, err := s.Count(ctx, key)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestRedisCacheLinkStoreIntegration(t *testing.T) {
	client := newIntegrationClient(t)
	backing := store.NewMemoryLinkStore()
	cached := store.NewRedisCacheLinkStore(backing, client, time.Minute)
	ctx := context.Background()

	t.Cleanup(func() { client.Del(context.Background(), "link:it-cache") })

	require.NoError(t, cached.Create(ctx, &shortlink.ShortLink{
		Code:    "it-cache",
		LongURL: "https://example.com/cached",
		OwnerID: "owner1",
	}))

	longURL, err := cached.Resolve(ctx, "it-cache")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/cached", longURL)

	require.NoError(t, cached.DeleteByCode(ctx, "it-cache", "owner1"))

	_, err = cached.Resolve(ctx, "it-cache")
	assert.ErrorIs(t, err, shortlink.ErrNotFound)
}
