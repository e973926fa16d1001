package store

import (
	"context"
	"sync"
	"time"
)

// RateLimitMemoryStore is a process-local implementation of ratelimit.Store,
// used in tests and for single-instance deployments that run without redis.
type RateLimitMemoryStore struct {
	mu     sync.Mutex
	visits map[string][]time.Time
}

// NewRateLimitMemoryStore creates a new in-memory rate limit store.
func NewRateLimitMemoryStore() *RateLimitMemoryStore {
	return &RateLimitMemoryStore{
		visits: make(map[string][]time.Time),
	}
}

// Record appends the request and counts what remains inside the window.
// Timestamps are only ever appended, so everything that slid out of the
// window sits at the front of the slice.
func (s *RateLimitMemoryStore) Record(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-window)

	visits := s.visits[key]

	expired := 0
	for expired < len(visits) && !visits[expired].After(cutoff) {
		expired++
	}

	visits = append(visits[expired:], now)
	s.visits[key] = visits

	return int64(len(visits)), nil
}
