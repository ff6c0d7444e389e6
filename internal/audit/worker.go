package audit

import (
	"context"
	"log/slog"
)

// Sink receives the streamed copy of audit events.
type Sink interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopSink discards events; used when no brokers are configured.
type NopSink struct{}

func (NopSink) Publish(context.Context, Event) error { return nil }
func (NopSink) Close() error                         { return nil }

// Worker drains the publisher's inbox into the sink. Sink failures are
// logged and skipped; the local store already holds the event.
type Worker struct {
	inbox  <-chan Event
	sink   Sink
	logger *slog.Logger
}

func NewWorker(inbox <-chan Event, sink Sink, logger *slog.Logger) *Worker {
	return &Worker{inbox: inbox, sink: sink, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Publish(ctx, event); err != nil && w.logger != nil {
				w.logger.ErrorContext(ctx, "audit stream publish failed",
					"action", event.Action,
					"event_id", event.ID,
					"error", err,
				)
			}
		}
	}
}
