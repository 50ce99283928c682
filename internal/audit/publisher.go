package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"minimarket/pkg/requestcontext"
)

// Store is an append-only audit sink.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
type Publisher struct {
	store  Store
	logger *slog.Logger
}

func NewPublisher(store Store, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{store: store, logger: logger}
}

// Emit stamps the event with request metadata and appends it. Failures are
// logged and returned; callers treat audit as best effort once their own
// write has succeeded.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if p == nil {
		return nil
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	event.Timestamp = event.Timestamp.UTC().Truncate(time.Microsecond)
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.ClientIP == "" {
		event.ClientIP = requestcontext.ClientIP(ctx)
	}
	if event.Device == "" {
		event.Device = requestcontext.DeviceLabel(ctx)
	}
	if err := p.store.Append(ctx, event); err != nil {
		p.logger.ErrorContext(ctx, "failed to append audit event",
			"error", err,
			"event_type", event.Type,
			"aggregate_id", event.AggregateID,
			"request_id", event.RequestID,
		)
		return err
	}
	return nil
}
