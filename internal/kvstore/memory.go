package kvstore

import (
	"context"
	"sync"
	"time"

	"minimarket/pkg/platform/sentinel"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// InMemory keeps entries in a map. Used in development and tests.
type InMemory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

type MemoryOption func(*InMemory)

// WithMemoryTTL expires entries ttl after their last write. Zero disables expiry.
func WithMemoryTTL(ttl time.Duration) MemoryOption {
	return func(s *InMemory) {
		s.ttl = ttl
	}
}

func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(s *InMemory) {
		s.now = now
	}
}

func NewInMemory(opts ...MemoryOption) *InMemory {
	s := &InMemory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemory) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok || (!e.expiresAt.IsZero() && !s.now().Before(e.expiresAt)) {
		return "", sentinel.ErrNotFound
	}
	return e.value, nil
}

func (s *InMemory) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := memoryEntry{value: value}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	s.entries[key] = e
	return nil
}

func (s *InMemory) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// PurgeExpired deletes expired entries and returns how many were removed.
func (s *InMemory) PurgeExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	var n int64
	for k, e := range s.entries {
		if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
			delete(s.entries, k)
			n++
		}
	}
	return n, nil
}

// Len reports the number of stored entries, expired ones included.
func (s *InMemory) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
