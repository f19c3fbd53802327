package ratelimit

import (
	"context"
	"time"
)

// Store defines the ephemeral window storage for the rate limiter.
type Store interface {
	// Count returns the number of recorded sends in the current window for
	// the key, or zero when no window exists or the window has elapsed.
	Count(ctx context.Context, key string) (int64, error)

	// Incr records a send and returns the new count. The window starts at
	// the first record and is preserved by subsequent ones.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)

	// Reset drops the window for the key.
	Reset(ctx context.Context, key string) error
}

// FixedWindowLimiter bounds sends per client key over a fixed time bucket.
// This is an approximation of sliding-window behavior: a client can burst up
// to 2x the limit across a window boundary. Chosen for O(1) storage per key;
// callers must not assume sub-window precision.
type FixedWindowLimiter struct {
	store  Store
	limit  int64
	window time.Duration
}

// NewFixedWindowLimiter creates a limiter allowing limit sends per window.
func NewFixedWindowLimiter(store Store, limit int64, window time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{store: store, limit: limit, window: window}
}

// Allow reports whether the key has budget left in its current window. A
// missing window counts as zero.
func (l *FixedWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := l.store.Count(ctx, key)
	if err != nil {
		return false, err
	}

	return count < l.limit, nil
}

// Record consumes one unit of the key's budget. Concurrent Allow/Record on
// the same key may overcount slightly; the store's increment is atomic but
// the check-then-record pair is not.
func (l *FixedWindowLimiter) Record(ctx context.Context, key string) error {
	_, err := l.store.Incr(ctx, key, l.window)

	return err
}

// Reset zeroes the counter for the key, used when a new account claims it.
func (l *FixedWindowLimiter) Reset(ctx context.Context, key string) error {
	return l.store.Reset(ctx, key)
}
