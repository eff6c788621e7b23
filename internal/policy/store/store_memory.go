package store

import (
	"context"
	"sync"
	"time"

	"discountgate/pkg/platform/sentinel"
)

// InMemory implements Store with a mutex-guarded map. Used in development and
// unit tests; production uses the Postgres store.
type InMemory struct {
	mu       sync.RWMutex
	policies map[string]Record
}

// NewInMemory creates an empty in-memory policy store.
func NewInMemory() *InMemory {
	return &InMemory{policies: make(map[string]Record)}
}

func (s *InMemory) Get(ctx context.Context, storeID string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.policies[storeID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := rec
	out.RestrictedCodes = append([]string(nil), rec.RestrictedCodes...)
	return &out, nil
}

func (s *InMemory) Put(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *rec
	stored.RestrictedCodes = append([]string(nil), rec.RestrictedCodes...)
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = time.Now()
	}
	s.policies[rec.StoreID] = stored
	return nil
}
