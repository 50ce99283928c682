package kvstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minimarket/pkg/platform/sentinel"
)

func TestInMemory_TTL(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	s := NewInMemory(WithMemoryTTL(time.Hour), WithMemoryClock(func() time.Time { return now }))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "cart", "x"))
	now = now.Add(59 * time.Minute)
	_, err := s.Get(ctx, "cart")
	require.NoError(t, err)

	// a write refreshes the expiry
	require.NoError(t, s.Set(ctx, "cart", "y"))
	now = now.Add(59 * time.Minute)
	v, err := s.Get(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, "y", v)

	now = now.Add(time.Minute)
	_, err = s.Get(ctx, "cart")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestLocationKey(t *testing.T) {
	assert.Equal(t, "location_ana@example.com", LocationKey(" Ana@Example.com "))
}

type brokenStore struct{ Store }

func (brokenStore) Get(context.Context, string) (string, error) {
	return "", errors.New("connection refused")
}

func TestPing(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, Ping(ctx, NewInMemory()))
	assert.Error(t, Ping(ctx, brokenStore{}))
}

func TestInMemory_PurgeExpired(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	s := NewInMemory(WithMemoryTTL(time.Hour), WithMemoryClock(func() time.Time { return now }))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "old", "x"))
	now = now.Add(30 * time.Minute)
	require.NoError(t, s.Set(ctx, "fresh", "y"))
	now = now.Add(30 * time.Minute)

	n, err := s.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 1, s.Len())
	v, err := s.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, "y", v)

	n, err = s.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestInMemory_PurgeWithoutTTLKeepsEverything(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "cart", "x"))

	n, err := s.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1, s.Len())
}
