package models

import (
	"slices"

	"github.com/shopspring/decimal"

	id "minimarket/pkg/domain"
)

// Cart is the in-progress, single-branch cart of one browser profile.
//
// Invariants:
//   - every line shares the same BranchID
//   - no two lines share a ProductBranchID
//   - lines keep insertion order
//   - a mutation either applies completely or leaves the cart unchanged
//
// Totals are derived on every read and never stored.
type Cart struct {
	Lines []Line `json:"lines"`
}

func NewCart() *Cart {
	return &Cart{Lines: []Line{}}
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// BranchID is the branch every line belongs to, or "" for an empty cart.
func (c *Cart) BranchID() id.BranchID {
	if c.IsEmpty() {
		return ""
	}
	return c.Lines[0].BranchID
}

func (c *Cart) TotalQuantity() int {
	total := 0
	for _, l := range c.Lines {
		total += l.Quantity
	}
	return total
}

func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Line returns a copy of the line with the given key.
func (c *Cart) Line(key id.ProductBranchID) (Line, bool) {
	if i := c.index(key); i >= 0 {
		return c.Lines[i], true
	}
	return Line{}, false
}

func (c *Cart) index(key id.ProductBranchID) int {
	return slices.IndexFunc(c.Lines, func(l Line) bool { return l.ProductBranchID == key })
}

// AddItem adds a candidate line, merging into an existing line with the same key.
// A merge that would exceed the existing line's ceiling is rejected whole.
func (c *Cart) AddItem(line Line) Outcome {
	if !line.valid() {
		return OutcomeInvalidLine
	}
	if !c.IsEmpty() && line.BranchID != c.BranchID() {
		return OutcomeBranchConflict
	}
	if i := c.index(line.ProductBranchID); i >= 0 {
		existing := &c.Lines[i]
		if existing.Quantity+line.Quantity > existing.StockCeiling {
			return OutcomeStockExceeded
		}
		existing.Quantity += line.Quantity
		return OutcomeApplied
	}
	if line.Quantity > line.StockCeiling {
		return OutcomeStockExceeded
	}
	c.Lines = append(c.Lines, line)
	return OutcomeApplied
}

// IncrementLine adds one unit if the freshly fetched available stock allows it.
// On success the line's ceiling becomes the fetched value.
func (c *Cart) IncrementLine(key id.ProductBranchID, available int) Outcome {
	i := c.index(key)
	if i < 0 {
		return OutcomeLineNotFound
	}
	line := &c.Lines[i]
	if line.Quantity+1 > available {
		return OutcomeStockExceeded
	}
	line.Quantity++
	line.StockCeiling = available
	return OutcomeApplied
}

// DecrementLine removes one unit; a line at quantity 1 is removed entirely.
func (c *Cart) DecrementLine(key id.ProductBranchID) Outcome {
	i := c.index(key)
	if i < 0 {
		return OutcomeLineNotFound
	}
	if c.Lines[i].Quantity <= 1 {
		c.Lines = slices.Delete(c.Lines, i, i+1)
		return OutcomeApplied
	}
	c.Lines[i].Quantity--
	return OutcomeApplied
}

// RemoveLine drops the line without any stock check.
func (c *Cart) RemoveLine(key id.ProductBranchID) Outcome {
	i := c.index(key)
	if i < 0 {
		return OutcomeLineNotFound
	}
	c.Lines = slices.Delete(c.Lines, i, i+1)
	return OutcomeApplied
}

// ApplyStockSnapshot refreshes ceilings from a per-branch snapshot keyed by
// line. Quantities are untouched; lines missing from the snapshot keep their
// previous ceiling. Returns the keys whose quantity now exceeds the ceiling.
func (c *Cart) ApplyStockSnapshot(available map[id.ProductBranchID]int) []id.ProductBranchID {
	var over []id.ProductBranchID
	for i := range c.Lines {
		line := &c.Lines[i]
		avail, ok := available[line.ProductBranchID]
		if !ok {
			continue
		}
		line.StockCeiling = max(avail, 0)
		if line.Quantity > line.StockCeiling {
			over = append(over, line.ProductBranchID)
		}
	}
	return over
}

func (c *Cart) Clear() {
	c.Lines = []Line{}
}

// Clone returns a deep copy.
func (c *Cart) Clone() *Cart {
	lines := slices.Clone(c.Lines)
	if lines == nil {
		lines = []Line{}
	}
	return &Cart{Lines: lines}
}
