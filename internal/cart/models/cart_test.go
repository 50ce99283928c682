package models

import (
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "minimarket/pkg/domain"
	"minimarket/pkg/testutil"
)

func line(key, branch string, qty, ceiling int) Line {
	return Line{
		ProductBranchID: id.ProductBranchID(key),
		ProductID:       id.ProductID("p-" + key),
		BranchID:        id.BranchID(branch),
		BranchName:      "Sucursal " + branch,
		Name:            "Producto " + key,
		UnitPrice:       decimal.RequireFromString("3.50"),
		Quantity:        qty,
		StockCeiling:    ceiling,
	}
}

func TestAddItem(t *testing.T) {
	testutil.Given(t, "an empty cart", func(t *testing.T) {
		testutil.When(t, "a valid line is added", func(t *testing.T) {
			c := NewCart()
			outcome := c.AddItem(line("pb-1", "b-1", 2, 5))

			testutil.Then(t, "the line is appended", func(t *testing.T) {
				assert.Equal(t, OutcomeApplied, outcome)
				require.Len(t, c.Lines, 1)
				assert.Equal(t, id.BranchID("b-1"), c.BranchID())
				assert.Equal(t, 2, c.TotalQuantity())
			})
		})

		testutil.When(t, "the quantity exceeds the line's own ceiling", func(t *testing.T) {
			c := NewCart()
			outcome := c.AddItem(line("pb-1", "b-1", 6, 5))

			testutil.Then(t, "nothing is added", func(t *testing.T) {
				assert.Equal(t, OutcomeStockExceeded, outcome)
				assert.True(t, c.IsEmpty())
			})
		})

		testutil.When(t, "the candidate is malformed", func(t *testing.T) {
			c := NewCart()
			zero := line("pb-1", "b-1", 0, 5)
			negative := line("pb-2", "b-1", 1, 5)
			negative.UnitPrice = decimal.NewFromInt(-1)
			noBranch := line("pb-3", "", 1, 5)

			testutil.Then(t, "each one is rejected", func(t *testing.T) {
				assert.Equal(t, OutcomeInvalidLine, c.AddItem(zero))
				assert.Equal(t, OutcomeInvalidLine, c.AddItem(negative))
				assert.Equal(t, OutcomeInvalidLine, c.AddItem(noBranch))
				assert.True(t, c.IsEmpty())
			})
		})
	})

	testutil.Given(t, "a cart holding branch b-1", func(t *testing.T) {
		testutil.When(t, "a line from another branch is added", func(t *testing.T) {
			c := NewCart()
			require.Equal(t, OutcomeApplied, c.AddItem(line("pb-1", "b-1", 1, 5)))
			before := c.Clone()
			outcome := c.AddItem(line("pb-9", "b-2", 1, 5))

			testutil.Then(t, "it is rejected and the cart is unchanged", func(t *testing.T) {
				assert.Equal(t, OutcomeBranchConflict, outcome)
				assert.NotEmpty(t, outcome.Warning())
				assert.Equal(t, before, c)
			})
		})

		testutil.When(t, "the same key is added twice within the ceiling", func(t *testing.T) {
			c := NewCart()
			require.Equal(t, OutcomeApplied, c.AddItem(line("pb-1", "b-1", 2, 5)))
			outcome := c.AddItem(line("pb-1", "b-1", 3, 5))

			testutil.Then(t, "one merged line holds the summed quantity", func(t *testing.T) {
				assert.Equal(t, OutcomeApplied, outcome)
				require.Len(t, c.Lines, 1)
				assert.Equal(t, 5, c.Lines[0].Quantity)
			})
		})

		testutil.When(t, "a merge would exceed the existing ceiling", func(t *testing.T) {
			c := NewCart()
			require.Equal(t, OutcomeApplied, c.AddItem(line("pb-1", "b-1", 4, 5)))
			outcome := c.AddItem(line("pb-1", "b-1", 2, 50))

			testutil.Then(t, "no partial increment happens", func(t *testing.T) {
				assert.Equal(t, OutcomeStockExceeded, outcome)
				assert.Equal(t, 4, c.Lines[0].Quantity)
				assert.Equal(t, 5, c.Lines[0].StockCeiling)
			})
		})
	})
}

func TestIncrementDecrementRemove(t *testing.T) {
	t.Run("increment checks the fetched snapshot and records it", func(t *testing.T) {
		c := NewCart()
		require.Equal(t, OutcomeApplied, c.AddItem(line("pb-1", "b-1", 2, 10)))

		assert.Equal(t, OutcomeApplied, c.IncrementLine("pb-1", 3))
		assert.Equal(t, 3, c.Lines[0].Quantity)
		assert.Equal(t, 3, c.Lines[0].StockCeiling)

		assert.Equal(t, OutcomeStockExceeded, c.IncrementLine("pb-1", 3))
		assert.Equal(t, 3, c.Lines[0].Quantity)
	})

	t.Run("increment of unknown key", func(t *testing.T) {
		assert.Equal(t, OutcomeLineNotFound, NewCart().IncrementLine("pb-1", 10))
	})

	t.Run("decrement at one removes the line", func(t *testing.T) {
		c := NewCart()
		require.Equal(t, OutcomeApplied, c.AddItem(line("pb-1", "b-1", 2, 10)))
		require.Equal(t, OutcomeApplied, c.AddItem(line("pb-2", "b-1", 1, 10)))

		assert.Equal(t, OutcomeApplied, c.DecrementLine("pb-1"))
		assert.Equal(t, 1, c.Lines[0].Quantity)
		assert.Equal(t, OutcomeApplied, c.DecrementLine("pb-1"))
		require.Len(t, c.Lines, 1)
		assert.Equal(t, id.ProductBranchID("pb-2"), c.Lines[0].ProductBranchID)
		assert.Equal(t, OutcomeLineNotFound, c.DecrementLine("pb-1"))
	})

	t.Run("remove ignores stock", func(t *testing.T) {
		c := NewCart()
		require.Equal(t, OutcomeApplied, c.AddItem(line("pb-1", "b-1", 5, 5)))
		c.ApplyStockSnapshot(map[id.ProductBranchID]int{"pb-1": 0})
		assert.Equal(t, OutcomeApplied, c.RemoveLine("pb-1"))
		assert.True(t, c.IsEmpty())
		assert.Equal(t, OutcomeLineNotFound, c.RemoveLine("pb-1"))
	})

	t.Run("emptying the cart frees the branch", func(t *testing.T) {
		c := NewCart()
		require.Equal(t, OutcomeApplied, c.AddItem(line("pb-1", "b-1", 1, 5)))
		c.Clear()
		assert.Equal(t, OutcomeApplied, c.AddItem(line("pb-9", "b-2", 1, 5)))
		assert.Equal(t, id.BranchID("b-2"), c.BranchID())
	})
}

func TestApplyStockSnapshot(t *testing.T) {
	c := NewCart()
	require.Equal(t, OutcomeApplied, c.AddItem(line("pb-1", "b-1", 3, 10)))
	require.Equal(t, OutcomeApplied, c.AddItem(line("pb-2", "b-1", 1, 10)))

	over := c.ApplyStockSnapshot(map[id.ProductBranchID]int{"pb-1": 2, "pb-9": 7})
	assert.Equal(t, []id.ProductBranchID{"pb-1"}, over)
	assert.Equal(t, 3, c.Lines[0].Quantity, "refresh never changes quantities")
	assert.Equal(t, 2, c.Lines[0].StockCeiling)
	assert.Equal(t, 10, c.Lines[1].StockCeiling, "lines missing from the snapshot keep their ceiling")
}

func TestDerivedTotals(t *testing.T) {
	c := NewCart()
	require.Equal(t, OutcomeApplied, c.AddItem(line("pb-1", "b-1", 2, 10)))
	b := line("pb-2", "b-1", 3, 10)
	b.UnitPrice = decimal.RequireFromString("1.25")
	require.Equal(t, OutcomeApplied, c.AddItem(b))

	assert.Equal(t, 5, c.TotalQuantity())
	assert.True(t, decimal.RequireFromString("10.75").Equal(c.Subtotal()), "got %s", c.Subtotal())
}

func TestAvailableStock(t *testing.T) {
	assert.Equal(t, 7, AvailableStock(10, 3))
	assert.Equal(t, 0, AvailableStock(3, 10))
	assert.Equal(t, 0, AvailableStock(0, 0))
}

// TestCartInvariants drives random operation sequences and checks the cart
// invariants after every step.
func TestCartInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	keys := []string{"pb-1", "pb-2", "pb-3", "pb-4"}
	branches := []string{"b-1", "b-2"}

	for run := 0; run < 200; run++ {
		c := NewCart()
		firstBranch := id.BranchID("")
		ceilings := map[id.ProductBranchID]int{}

		for step := 0; step < 40; step++ {
			key := keys[rng.IntN(len(keys))]
			pb := id.ProductBranchID(key)
			switch rng.IntN(5) {
			case 0, 1:
				cand := line(key, branches[rng.IntN(len(branches))], 1+rng.IntN(3), rng.IntN(8))
				if c.AddItem(cand) == OutcomeApplied {
					if firstBranch == "" {
						firstBranch = cand.BranchID
					}
					if _, seen := ceilings[pb]; !seen {
						ceilings[pb] = cand.StockCeiling
					}
				}
			case 2:
				avail := rng.IntN(8)
				if c.IncrementLine(pb, avail) == OutcomeApplied {
					ceilings[pb] = avail
				}
			case 3:
				c.DecrementLine(pb)
			case 4:
				if rng.IntN(10) == 0 {
					c.Clear()
					firstBranch = ""
					clear(ceilings)
				} else {
					c.RemoveLine(pb)
				}
			}

			seen := map[id.ProductBranchID]bool{}
			for _, l := range c.Lines {
				require.Equal(t, firstBranch, l.BranchID, "branch exclusivity")
				require.False(t, seen[l.ProductBranchID], "duplicate key %s", l.ProductBranchID)
				seen[l.ProductBranchID] = true
				require.GreaterOrEqual(t, l.Quantity, 1, "decrement floor")
				require.LessOrEqual(t, l.Quantity, ceilings[l.ProductBranchID], "stock ceiling")
			}
			for k := range ceilings {
				if !seen[k] {
					delete(ceilings, k)
				}
			}
			if c.IsEmpty() {
				firstBranch = ""
			}
		}
	}
}
