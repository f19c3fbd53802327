package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelaro/shortly/internal/shortlink"
	"github.com/avelaro/shortly/internal/store"
)

func TestRedisCacheLinkStore(t *testing.T) {
	newCached := func(t *testing.T) (*store.RedisCacheLinkStore, *store.MemoryLinkStore, *miniredis.Miniredis) {
		t.Helper()

		client, mr := newRedisClient(t)
		backing := store.NewMemoryLinkStore()
		cached := store.NewRedisCacheLinkStore(backing, client, time.Hour)

		return cached, backing, mr
	}

	t.Run("create writes through to the cache", func(t *testing.T) {
		cached, _, mr := newCached(t)

		require.NoError(t, cached.Create(context.Background(), &shortlink.ShortLink{
			Code:    "abc",
			LongURL: "https://example.com/long",
			OwnerID: "owner1",
		}))

		val, err := mr.Get("link:abc")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/long", val)
	})

	t.Run("resolve serves from the cache", func(t *testing.T) {
		cached, backing, _ := newCached(t)

		require.NoError(t, cached.Create(context.Background(), &shortlink.ShortLink{
			Code:    "abc",
			LongURL: "https://example.com/long",
			OwnerID: "owner1",
		}))

		// Remove the backing row; a cached resolve must still succeed.
		require.NoError(t, backing.DeleteByCode(context.Background(), "abc", "owner1"))

		longURL, err := cached.Resolve(context.Background(), "abc")

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/long", longURL)
	})

	t.Run("cache miss falls back to the store and repopulates", func(t *testing.T) {
		cached, backing, mr := newCached(t)

		require.NoError(t, backing.Create(context.Background(), &shortlink.ShortLink{
			Code:    "abc",
			LongURL: "https://example.com/long",
			OwnerID: "owner1",
		}))

		longURL, err := cached.Resolve(context.Background(), "abc")

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/long", longURL)

		val, err := mr.Get("link:abc")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/long", val)
	})

	t.Run("delete invalidates the cache", func(t *testing.T) {
		cached, _, mr := newCached(t)

		require.NoError(t, cached.Create(context.Background(), &shortlink.ShortLink{
			Code:    "abc",
			LongURL: "https://example.com/long",
			OwnerID: "owner1",
		}))

		require.NoError(t, cached.DeleteByCode(context.Background(), "abc", "owner1"))

		assert.False(t, mr.Exists("link:abc"))

		_, err := cached.Resolve(context.Background(), "abc")
		assert.ErrorIs(t, err, shortlink.ErrNotFound)
	})

	t.Run("unknown code is not found", func(t *testing.T) {
		cached, _, _ := newCached(t)

		_, err := cached.Resolve(context.Background(), "nope")

		assert.ErrorIs(t, err, shortlink.ErrNotFound)
	})
}
