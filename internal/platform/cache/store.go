package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/match-tracker/internal/platform/resilience"
)

// Store caches answers from external collaborators (token introspection,
// club-management checks) for a fixed TTL. Loads for the same key are
// collapsed so a burst of requests produces one upstream call.
type Store struct {
	ttl    time.Duration
	flight resilience.SingleFlight

	mu      sync.RWMutex
	entries map[string]storedValue
}

type storedValue struct {
	value  any
	expiry time.Time
}

func (v storedValue) live(now time.Time) bool {
	return v.expiry.IsZero() || v.expiry.After(now)
}

// NewStore builds a Store. A non-positive ttl means entries never expire.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		entries: make(map[string]storedValue),
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	s.mu.RLock()
	v, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !v.live(time.Now()) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false
	}

	return v.value, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	v := storedValue{value: value}
	if s.ttl > 0 {
		v.expiry = time.Now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[key] = v
	s.mu.Unlock()
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// GetOrLoad returns the cached value for key, loading and caching it on a
// miss. Concurrent misses for the same key share one loader call. An empty
// key bypasses the cache entirely.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		// Another flight may have filled the entry while we waited.
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}

		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}
