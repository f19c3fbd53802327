package store

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count     int64
	startedAt time.Time
	duration  time.Duration
}

func (w *window) elapsed(now time.Time) bool {
	return now.Sub(w.startedAt) >= w.duration
}

// RateLimitMemoryStore is an in-memory implementation of ratelimit.Store
// using fixed windows: {count, windowStartedAt} per key.
type RateLimitMemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

// NewRateLimitMemoryStore creates a new in-memory rate limit store.
func NewRateLimitMemoryStore() *RateLimitMemoryStore {
	return &RateLimitMemoryStore{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (s *RateLimitMemoryStore) WithClock(clock func() time.Time) *RateLimitMemoryStore {
	s.now = clock

	return s
}

func (s *RateLimitMemoryStore) Count(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	if !ok || w.elapsed(s.now()) {
		// An elapsed window counts as absent; it is lazily replaced on
		// the next Incr.
		return 0, nil
	}

	return w.count, nil
}

func (s *RateLimitMemoryStore) Incr(_ context.Context, key string, windowDur time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	if !ok || w.elapsed(s.now()) {
		w = &window{startedAt: s.now(), duration: windowDur}
		s.windows[key] = w
	}

	w.count++

	return w.count, nil
}

func (s *RateLimitMemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.windows, key)

	return nil
}
