package audit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Outbox is the read side of an audit store that supports relaying.
type Outbox interface {
	FetchUnpublished(ctx context.Context, limit int) ([]Event, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error
}

// Sink receives relayed events, in order.
type Sink interface {
	Publish(ctx context.Context, events []Event) error
}

// Relay drains the outbox into a sink on a fixed interval. Delivery is at
// least once: a crash between Publish and MarkPublished resends the batch.
type Relay struct {
	outbox    Outbox
	sink      Sink
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
	now       func() time.Time
}

func NewRelay(outbox Outbox, sink Sink, interval time.Duration, batchSize int, logger *slog.Logger) *Relay {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{
		outbox:    outbox,
		sink:      sink,
		interval:  interval,
		batchSize: batchSize,
		logger:    logger,
		now:       time.Now,
	}
}

// Run relays until ctx is cancelled. Failed batches are retried on the next tick.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := r.RelayOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
				r.logger.WarnContext(ctx, "audit relay batch failed", "error", err)
			}
		}
	}
}

// RelayOnce moves batches until the outbox is drained and returns how many
// events were published.
func (r *Relay) RelayOnce(ctx context.Context) (int, error) {
	total := 0
	for {
		batch, err := r.outbox.FetchUnpublished(ctx, r.batchSize)
		if err != nil {
			return total, err
		}
		if len(batch) == 0 {
			return total, nil
		}
		if err := r.sink.Publish(ctx, batch); err != nil {
			return total, err
		}
		ids := make([]uuid.UUID, len(batch))
		for i, e := range batch {
			ids[i] = e.ID
		}
		if err := r.outbox.MarkPublished(ctx, ids, r.now()); err != nil {
			return total, err
		}
		total += len(batch)
		if len(batch) < r.batchSize {
			return total, nil
		}
	}
}
