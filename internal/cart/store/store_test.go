package store

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minimarket/internal/cart/models"
	"minimarket/internal/kvstore"
	id "minimarket/pkg/domain"
	"minimarket/pkg/platform/sentinel"
)

func sampleCart() *models.Cart {
	c := models.NewCart()
	for i, key := range []string{"pb-3", "pb-1", "pb-2"} {
		c.AddItem(models.Line{
			ProductBranchID: id.ProductBranchID(key),
			ProductID:       id.ProductID("p" + key),
			BranchID:        "b-1",
			BranchName:      "Centro",
			Name:            "Item " + key,
			UnitPrice:       decimal.RequireFromString("2.40"),
			Quantity:        i + 1,
			StockCeiling:    10,
		})
	}
	return c
}

func pairs(c *models.Cart) map[id.ProductBranchID]int {
	out := map[id.ProductBranchID]int{}
	for _, l := range c.Lines {
		out[l.ProductBranchID] = l.Quantity
	}
	return out
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.Scoped(kvstore.NewInMemory(), "device-1")
	original := sampleCart()

	require.NoError(t, Save(ctx, kv, original))
	loaded, err := Load(ctx, kv)
	require.NoError(t, err)

	assert.Equal(t, pairs(original), pairs(loaded))
	require.Len(t, loaded.Lines, 3)
	assert.Equal(t, id.ProductBranchID("pb-3"), loaded.Lines[0].ProductBranchID, "insertion order survives")
	assert.True(t, original.Subtotal().Equal(loaded.Subtotal()))
}

func TestClearThenReloadIsEmpty(t *testing.T) {
	ctx := context.Background()
	mem := kvstore.NewInMemory()
	kv := kvstore.Scoped(mem, "device-1")

	require.NoError(t, Save(ctx, kv, sampleCart()))
	require.NoError(t, Delete(ctx, kv))

	_, err := kv.Get(ctx, kvstore.CartKey)
	assert.ErrorIs(t, err, sentinel.ErrNotFound, "record is removed, not emptied")
	assert.Zero(t, mem.Len())

	loaded, err := Load(ctx, kv)
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())
	assert.NotNil(t, loaded.Lines)
}

func TestLoadUnreadable(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.Scoped(kvstore.NewInMemory(), "device-1")
	require.NoError(t, kv.Set(ctx, kvstore.CartKey, "{not json"))

	_, err := Load(ctx, kv)
	assert.ErrorIs(t, err, ErrUnreadable)
}
