// Package store persists a cart as a JSON array of lines under the fixed
// "cart" key of a storage scope.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"minimarket/internal/cart/models"
	"minimarket/internal/kvstore"
	"minimarket/pkg/platform/sentinel"
)

// ErrUnreadable marks a persisted record that no longer decodes into a cart.
var ErrUnreadable = errors.New("unreadable cart record")

// Load rehydrates the cart. A missing record is an empty cart.
func Load(ctx context.Context, kv kvstore.Store) (*models.Cart, error) {
	raw, err := kv.Get(ctx, kvstore.CartKey)
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.NewCart(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	var lines []models.Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if lines == nil {
		lines = []models.Line{}
	}
	return &models.Cart{Lines: lines}, nil
}

// Save writes the full cart state.
func Save(ctx context.Context, kv kvstore.Store, cart *models.Cart) error {
	lines := cart.Lines
	if lines == nil {
		lines = []models.Line{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := kv.Set(ctx, kvstore.CartKey, string(raw)); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// Delete removes the record entirely rather than storing an empty array.
func Delete(ctx context.Context, kv kvstore.Store) error {
	if err := kv.Remove(ctx, kvstore.CartKey); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
