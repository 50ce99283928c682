package audit

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	batches [][]Event
	err     error
}

func (s *recordingSink) Publish(_ context.Context, events []Event) error {
	if s.err != nil {
		return s.err
	}
	s.batches = append(s.batches, events)
	return nil
}

func seed(t *testing.T, store *InMemoryStore, n int) {
	t.Helper()
	pub := NewPublisher(store, nil)
	for i := range n {
		require.NoError(t, pub.Emit(context.Background(), Event{
			Type:        EventOrderSubmitted,
			AggregateID: fmt.Sprintf("order-%d", i),
		}))
	}
}

func TestRelayDrainsInBatches(t *testing.T) {
	store := NewInMemoryStore()
	seed(t, store, 5)
	sink := &recordingSink{}
	relay := NewRelay(store, sink, 0, 2, nil)

	n, err := relay.RelayOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	require.Len(t, sink.batches, 3)
	assert.Equal(t, "order-0", sink.batches[0][0].AggregateID)
	assert.Equal(t, "order-4", sink.batches[2][0].AggregateID)

	n, err = relay.RelayOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n, "published events are not sent twice")
}

func TestRelayKeepsEventsWhenSinkFails(t *testing.T) {
	store := NewInMemoryStore()
	seed(t, store, 2)
	sink := &recordingSink{err: errors.New("broker down")}
	relay := NewRelay(store, sink, 0, 10, nil)

	_, err := relay.RelayOnce(context.Background())
	require.Error(t, err)

	pending, err := store.FetchUnpublished(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	sink.err = nil
	n, err := relay.RelayOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
