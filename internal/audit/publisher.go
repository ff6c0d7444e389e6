package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"medledger/pkg/requestcontext"
)

// Publisher captures structured audit events. The local store append is
// synchronous; fan-out to the stream sink happens on the worker goroutine so
// a slow broker never blocks a login.
type Publisher struct {
	store  Store
	inbox  chan Event
	logger *slog.Logger
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

func WithLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) { p.logger = logger }
}

// WithBuffer sets the stream hand-off buffer size.
func WithBuffer(n int) PublisherOption {
	return func(p *Publisher) { p.inbox = make(chan Event, n) }
}

func NewPublisher(store Store, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		store: store,
		inbox: make(chan Event, 256),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Inbox is the channel the worker drains.
func (p *Publisher) Inbox() <-chan Event { return p.inbox }

// Emit records an event. A full stream buffer drops the stream copy (with a
// log line) rather than backpressuring the caller; the store copy always
// lands first.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}

	if err := p.store.Append(ctx, event); err != nil {
		return err
	}

	select {
	case p.inbox <- event:
	default:
		if p.logger != nil {
			p.logger.WarnContext(ctx, "audit stream buffer full, dropping stream copy",
				"action", event.Action,
				"event_id", event.ID,
			)
		}
	}
	return nil
}
