package shortlink_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avelaro/shortly/internal/shortlink"
	"github.com/avelaro/shortly/internal/store"
)

// sequentialCodes yields code-1, code-2, ... so collision retries are
// observable.
func sequentialCodes() shortlink.CodeGenerator {
	n := 0

	return func() string {
		n++

		return fmt.Sprintf("code-%d", n)
	}
}

func newAllocator(t *testing.T) (*shortlink.Allocator, *store.MemoryLinkStore) {
	t.Helper()

	repo := store.NewMemoryLinkStore()

	return shortlink.NewAllocator(repo, sequentialCodes(), "http://localhost:8888", zap.NewNop()), repo
}

func TestShorten(t *testing.T) {
	t.Run("mints a code and derives the short url", func(t *testing.T) {
		allocator, _ := newAllocator(t)

		link, err := allocator.Shorten(context.Background(), "https://example.com/long", "owner1")

		require.NoError(t, err)
		assert.Equal(t, "code-1", link.Code)
		assert.Equal(t, "https://example.com/long", link.LongURL)
		assert.Equal(t, "http://localhost:8888/code-1", link.ShortURL)
		assert.Equal(t, "owner1", link.OwnerID)
	})

	t.Run("is idempotent per owner", func(t *testing.T) {
		allocator, _ := newAllocator(t)

		first, err := allocator.Shorten(context.Background(), "https://example.com/long", "owner1")
		require.NoError(t, err)

		second, err := allocator.Shorten(context.Background(), "https://example.com/long", "owner1")
		require.NoError(t, err)

		assert.Equal(t, first.Code, second.Code)

		links, err := allocator.ListFor(context.Background(), "owner1")
		require.NoError(t, err)
		assert.Len(t, links, 1)
	})

	t.Run("same url from another owner gets its own code", func(t *testing.T) {
		allocator, _ := newAllocator(t)

		link1, err := allocator.Shorten(context.Background(), "https://example.com/long", "owner1")
		require.NoError(t, err)

		link2, err := allocator.Shorten(context.Background(), "https://example.com/long", "owner2")
		require.NoError(t, err)

		assert.NotEqual(t, link1.Code, link2.Code)
	})

	t.Run("retries on code collision", func(t *testing.T) {
		repo := store.NewMemoryLinkStore()

		// Pre-claim the first code the generator will produce.
		require.NoError(t, repo.Create(context.Background(), &shortlink.ShortLink{
			Code:    "code-1",
			LongURL: "https://example.com/other",
			OwnerID: "owner9",
		}))

		allocator := shortlink.NewAllocator(repo, sequentialCodes(), "http://localhost:8888", zap.NewNop())

		link, err := allocator.Shorten(context.Background(), "https://example.com/long", "owner1")

		require.NoError(t, err)
		assert.Equal(t, "code-2", link.Code)
	})
}

func TestGetByCode(t *testing.T) {
	t.Run("returns the owner's link", func(t *testing.T) {
		allocator, _ := newAllocator(t)

		created, err := allocator.Shorten(context.Background(), "https://example.com/long", "owner1")
		require.NoError(t, err)

		link, err := allocator.GetByCode(context.Background(), created.Code, "owner1")

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/long", link.LongURL)
	})

	t.Run("another owner's code is not found", func(t *testing.T) {
		allocator, _ := newAllocator(t)

		created, err := allocator.Shorten(context.Background(), "https://example.com/long", "owner1")
		require.NoError(t, err)

		_, err = allocator.GetByCode(context.Background(), created.Code, "owner2")

		assert.ErrorIs(t, err, shortlink.ErrNotFound)
	})
}

func TestListFor(t *testing.T) {
	t.Run("returns only the owner's links", func(t *testing.T) {
		allocator, _ := newAllocator(t)

		_, err := allocator.Shorten(context.Background(), "https://example.com/a", "owner1")
		require.NoError(t, err)
		_, err = allocator.Shorten(context.Background(), "https://example.com/b", "owner1")
		require.NoError(t, err)
		_, err = allocator.Shorten(context.Background(), "https://example.com/c", "owner2")
		require.NoError(t, err)

		links, err := allocator.ListFor(context.Background(), "owner1")

		require.NoError(t, err)
		assert.Len(t, links, 2)
	})

	t.Run("empty for an owner with no links", func(t *testing.T) {
		allocator, _ := newAllocator(t)

		links, err := allocator.ListFor(context.Background(), "owner1")

		require.NoError(t, err)
		assert.Empty(t, links)
	})
}

func TestDeleteByCode(t *testing.T) {
	t.Run("removes the owner's link", func(t *testing.T) {
		allocator, _ := newAllocator(t)

		created, err := allocator.Shorten(context.Background(), "https://example.com/long", "owner1")
		require.NoError(t, err)

		require.NoError(t, allocator.DeleteByCode(context.Background(), created.Code, "owner1"))

		_, err = allocator.GetByCode(context.Background(), created.Code, "owner1")
		assert.ErrorIs(t, err, shortlink.ErrNotFound)
	})

	t.Run("another owner's code is not found", func(t *testing.T) {
		allocator, _ := newAllocator(t)

		created, err := allocator.Shorten(context.Background(), "https://example.com/long", "owner1")
		require.NoError(t, err)

		err = allocator.DeleteByCode(context.Background(), created.Code, "owner2")

		assert.ErrorIs(t, err, shortlink.ErrNotFound)
	})

	t.Run("unknown code is not found", func(t *testing.T) {
		allocator, _ := newAllocator(t)

		err := allocator.DeleteByCode(context.Background(), "nope", "owner1")

		assert.ErrorIs(t, err, shortlink.ErrNotFound)
	})
}

func TestResolve(t *testing.T) {
	t.Run("resolves any owner's code", func(t *testing.T) {
		allocator, _ := newAllocator(t)

		created, err := allocator.Shorten(context.Background(), "https://example.com/long", "owner1")
		require.NoError(t, err)

		longURL, err := allocator.Resolve(context.Background(), created.Code)

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/long", longURL)
	})

	t.Run("unknown code is not found", func(t *testing.T) {
		allocator, _ := newAllocator(t)

		_, err := allocator.Resolve(context.Background(), "nope")

		assert.ErrorIs(t, err, shortlink.ErrNotFound)
	})
}
