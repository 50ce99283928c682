// Package kvstore is the durable client-side storage used for carts and location
// selections: a string key/value store addressed through per-device scopes.
//
// Get returns sentinel.ErrNotFound for missing or expired keys. Values are
// opaque strings; callers own their serialization.
package kvstore

import (
	"context"
	"errors"
	"strings"

	"minimarket/pkg/platform/sentinel"
)

// Store is implemented by every backend (memory, Redis, Postgres, SQLite).
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Scoped confines all keys to one storage scope, mirroring how browser storage
// is private to one profile.
func Scoped(store Store, scope string) Store {
	return &scopedStore{store: store, prefix: "scope:" + scope + ":"}
}

type scopedStore struct {
	store  Store
	prefix string
}

func (s *scopedStore) Get(ctx context.Context, key string) (string, error) {
	return s.store.Get(ctx, s.prefix+key)
}

func (s *scopedStore) Set(ctx context.Context, key, value string) error {
	return s.store.Set(ctx, s.prefix+key, value)
}

func (s *scopedStore) Remove(ctx context.Context, key string) error {
	return s.store.Remove(ctx, s.prefix+key)
}

// LocationKey is the per-user key of a saved location selection.
func LocationKey(email string) string {
	return "location_" + strings.ToLower(strings.TrimSpace(email))
}

// CartKey is the fixed key of the cart record inside a scope.
const CartKey = "cart"

const healthKey = "health:ping"

// Ping reads a key that never exists. A miss means the store answered.
func Ping(ctx context.Context, store Store) error {
	_, err := store.Get(ctx, healthKey)
	if err == nil || errors.Is(err, sentinel.ErrNotFound) {
		return nil
	}
	return err
}
