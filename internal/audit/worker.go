package audit

import (
	"context"
	"log/slog"
)

// Worker consumes audit events from a channel and hands them to a publisher.
// It decouples the request path from slow sinks: handlers push to the inbox
// and move on. Publish failures are logged and skipped so one degraded sink
// cannot stall the loop.
type Worker struct {
	publisher Publisher
	inbox     <-chan Event
	logger    *slog.Logger
}

func NewWorker(publisher Publisher, inbox <-chan Event) *Worker {
	return &Worker{publisher: publisher, inbox: inbox, logger: slog.Default()}
}

// WithLogger sets the diagnostic logger.
func (w *Worker) WithLogger(logger *slog.Logger) *Worker {
	w.logger = logger
	return w
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.publisher.Emit(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "audit publish failed",
					"kind", string(event.Kind),
					"store_id", event.StoreID,
					"error", err,
				)
			}
		}
	}
}
