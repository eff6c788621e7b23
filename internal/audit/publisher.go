package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Publisher captures structured audit events. Implementations are append-only
// sinks: the in-memory store for tests and single-instance runs, the kafka
// publisher for deployments with a broker.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// StorePublisher writes events to a Store, filling in ID and timestamp so
// callers only describe what happened.
type StorePublisher struct {
	store Store
}

func NewStorePublisher(store Store) *StorePublisher {
	return &StorePublisher{store: store}
}

func (p *StorePublisher) Emit(ctx context.Context, event Event) error {
	prepare(&event)
	return p.store.Append(ctx, event)
}

// Fanout emits to every configured publisher, returning the first error after
// attempting all of them.
type Fanout []Publisher

func (f Fanout) Emit(ctx context.Context, event Event) error {
	prepare(&event)
	var firstErr error
	for _, p := range f {
		if err := p.Emit(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func prepare(event *Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
}
