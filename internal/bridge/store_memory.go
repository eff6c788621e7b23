package bridge

import (
	"context"
	"sync"
	"time"

	"discountgate/pkg/platform/sentinel"
)

// InMemoryKV implements KV with a mutex-guarded map. It backs development
// setups and unit tests; deployments sharing state across instances use the
// redis implementation instead.
type InMemoryKV struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	clock   func() time.Time
}

type memoryEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// NewInMemoryKV creates an empty in-memory store.
func NewInMemoryKV() *InMemoryKV {
	return &InMemoryKV{
		entries: make(map[string]memoryEntry),
		clock:   time.Now,
	}
}

// WithClock overrides the time source for expiry tests.
func (s *InMemoryKV) WithClock(clock func() time.Time) *InMemoryKV {
	s.clock = clock
	return s
}

func (s *InMemoryKV) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return "", sentinel.ErrNotFound
	}
	if !entry.expiresAt.IsZero() && s.clock().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return "", sentinel.ErrNotFound
	}
	return entry.value, nil
}

func (s *InMemoryKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = s.clock().Add(ttl)
	}
	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()
	return nil
}

func (s *InMemoryKV) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}
