package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/avelaro/shortly/internal/shortlink"
)

// RedisCacheLinkStore wraps a shortlink.Repository with Redis caching on
// the redirect path. Resolve is the hot read and the only cached
// operation; everything else passes through, with invalidation on delete.
type RedisCacheLinkStore struct {
	store  shortlink.Repository
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCacheLinkStore creates a Redis-cached link store decorator.
func NewRedisCacheLinkStore(store shortlink.Repository, client *redis.Client, ttl time.Duration) *RedisCacheLinkStore {
	return &RedisCacheLinkStore{
		store:  store,
		client: client,
		prefix: "link:",
		ttl:    ttl,
	}
}

func (r *RedisCacheLinkStore) Create(ctx context.Context, link *shortlink.ShortLink) error {
	if err := r.store.Create(ctx, link); err != nil {
		return err
	}

	// Write-through so a fresh link redirects without a store read.
	r.cache(ctx, link.Code, link.LongURL)

	return nil
}

func (r *RedisCacheLinkStore) GetByLongURL(ctx context.Context, longURL, ownerID string) (*shortlink.ShortLink, error) {
	return r.store.GetByLongURL(ctx, longURL, ownerID)
}

func (r *RedisCacheLinkStore) GetByCode(ctx context.Context, code, ownerID string) (*shortlink.ShortLink, error) {
	return r.store.GetByCode(ctx, code, ownerID)
}

func (r *RedisCacheLinkStore) ListByOwner(ctx context.Context, ownerID string) ([]shortlink.ShortLink, error) {
	return r.store.ListByOwner(ctx, ownerID)
}

func (r *RedisCacheLinkStore) DeleteByCode(ctx context.Context, code, ownerID string) error {
	if err := r.store.DeleteByCode(ctx, code, ownerID); err != nil {
		return err
	}

	_ = r.client.Del(ctx, r.prefix+code).Err()

	return nil
}

func (r *RedisCacheLinkStore) Resolve(ctx context.Context, code string) (string, error) {
	longURL, err := r.client.Get(ctx, r.prefix+code).Result()
	if err == nil {
		return longURL, nil
	}

	if !errors.Is(err, redis.Nil) {
		// Cache trouble should not take down the redirect path.
		return r.store.Resolve(ctx, code)
	}

	longURL, err = r.store.Resolve(ctx, code)
	if err != nil {
		return "", err
	}

	r.cache(ctx, code, longURL)

	return longURL, nil
}

func (r *RedisCacheLinkStore) cache(ctx context.Context, code, longURL string) {
	_ = r.client.Set(ctx, r.prefix+code, longURL, r.ttl).Err()
}

var _ shortlink.Repository = (*RedisCacheLinkStore)(nil)
