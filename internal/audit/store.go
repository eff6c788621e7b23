package audit

import (
	"context"
	"sync"
)

// Store is the append-only audit sink contract.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByStore(ctx context.Context, storeID string) ([]Event, error)
}

// InMemoryStore keeps events in memory. It backs tests and single-instance
// deployments without a broker.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

// NewInMemoryStore creates an empty in-memory audit store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(ctx context.Context, event Event) error {
	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()
	return nil
}

func (s *InMemoryStore) ListByStore(ctx context.Context, storeID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Event
	for _, ev := range s.events {
		if ev.StoreID == storeID {
			out = append(out, ev)
		}
	}
	return out, nil
}
