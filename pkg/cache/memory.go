package cache

import (
	"context"
	"sync"
	"time"
)

// Clock abstracts wall-clock time so tests can simulate TTL expiry without
// real waiting.
type Clock interface {
	Now() time.Time
}

// SystemClock is the default Clock using the real wall clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

type memoryEntry struct {
	value   string
	expires time.Time
}

// MemoryStore is an in-process Store with explicit TTL bookkeeping. It serves
// deterministic tests and single-instance deployments without Redis.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	clock   Clock
}

// NewMemoryStore creates an in-memory token store. A nil clock defaults to
// the system clock.
func NewMemoryStore(clock Clock) *MemoryStore {
	if clock == nil {
		clock = SystemClock{}
	}
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		clock:   clock,
	}
}

// Get retrieves a value by key. Expired entries are evicted on read.
func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		CacheMisses.Inc()
		return "", false
	}
	if s.clock.Now().After(entry.expires) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		CacheMisses.Inc()
		return "", false
	}

	CacheHits.WithLabelValues("memory").Inc()
	return entry.value, true
}

// Set stores a value with a TTL, overwriting any existing entry.
func (s *MemoryStore) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	s.mu.Lock()
	s.entries[key] = memoryEntry{
		value:   value,
		expires: s.clock.Now().Add(ttl),
	}
	s.mu.Unlock()
}

// Ping always succeeds for the in-memory backend.
func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

// Close clears all entries.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.entries = make(map[string]memoryEntry)
	s.mu.Unlock()
	return nil
}
