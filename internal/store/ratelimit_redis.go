package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitPrefix = "ratelimit:"

// RateLimitRedisStore is a Redis implementation of ratelimit.Store. The
// window start is modeled by the key's TTL: EXPIRE is set when the counter
// is first incremented and the key vanishes when the window elapses.
type RateLimitRedisStore struct {
	client *redis.Client
}

// NewRateLimitRedisStore creates a Redis-backed rate limit store.
func NewRateLimitRedisStore(client *redis.Client) *RateLimitRedisStore {
	return &RateLimitRedisStore{client: client}
}

func (s *RateLimitRedisStore) Count(ctx context.Context, key string) (int64, error) {
	count, err := s.client.Get(ctx, rateLimitPrefix+key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}

		return 0, err
	}

	return count, nil
}

func (s *RateLimitRedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := s.client.Incr(ctx, rateLimitPrefix+key).Result()
	if err != nil {
		return 0, err
	}

	if count == 1 {
		if err := s.client.Expire(ctx, rateLimitPrefix+key, window).Err(); err != nil {
			return 0, err
		}
	}

	return count, nil
}

func (s *RateLimitRedisStore) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, rateLimitPrefix+key).Err()
}
