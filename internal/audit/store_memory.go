package audit

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore keeps events in process. It doubles as an outbox so the relay
// can run against it in single-node setups and tests. With a capacity, the
// oldest events are dropped once it is exceeded.
type InMemoryStore struct {
	mu        sync.Mutex
	events    []Event
	published map[uuid.UUID]time.Time
	capacity  int
}

type InMemoryOption func(*InMemoryStore)

// WithCapacity bounds the number of retained events. Zero means unbounded.
func WithCapacity(n int) InMemoryOption {
	return func(s *InMemoryStore) {
		s.capacity = n
	}
}

func NewInMemoryStore(opts ...InMemoryOption) *InMemoryStore {
	s := &InMemoryStore{published: make(map[uuid.UUID]time.Time)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	if s.capacity > 0 && len(s.events) > s.capacity {
		drop := len(s.events) - s.capacity
		for _, e := range s.events[:drop] {
			delete(s.published, e.ID)
		}
		s.events = slices.Clone(s.events[drop:])
	}
	return nil
}

// PurgePublished drops events relayed at or before cutoff and returns how many
// were removed. Unpublished events are kept.
func (s *InMemoryStore) PurgePublished(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	kept := s.events[:0]
	for _, e := range s.events {
		if at, done := s.published[e.ID]; done && !at.After(cutoff) {
			delete(s.published, e.ID)
			n++
			continue
		}
		kept = append(kept, e)
	}
	clear(s.events[len(kept):])
	s.events = kept
	return n, nil
}

// ListAll returns every event in append order.
func (s *InMemoryStore) ListAll(_ context.Context) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.events), nil
}

func (s *InMemoryStore) FetchUnpublished(_ context.Context, limit int) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Event
	for _, e := range s.events {
		if _, done := s.published[e.ID]; done {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *InMemoryStore) MarkPublished(_ context.Context, ids []uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.published[id] = at
	}
	return nil
}
