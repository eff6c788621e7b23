package audit

import (
	"context"
	"log/slog"
)

// InboxPublisher queues events for a Worker without ever blocking the caller.
// When the inbox is full the event is dropped and logged; the decision path
// always wins over audit completeness.
type InboxPublisher struct {
	inbox  chan Event
	logger *slog.Logger
}

func NewInboxPublisher(size int, logger *slog.Logger) *InboxPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &InboxPublisher{
		inbox:  make(chan Event, size),
		logger: logger,
	}
}

func (p *InboxPublisher) Emit(ctx context.Context, event Event) error {
	prepare(&event)
	select {
	case p.inbox <- event:
	default:
		p.logger.WarnContext(ctx, "audit inbox full, event dropped",
			"kind", string(event.Kind),
			"store_id", event.StoreID,
		)
	}
	return nil
}

// Inbox is the channel a Worker consumes.
func (p *InboxPublisher) Inbox() <-chan Event {
	return p.inbox
}
