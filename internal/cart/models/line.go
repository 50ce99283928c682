package models

import (
	"github.com/shopspring/decimal"

	id "minimarket/pkg/domain"
)

// Line is one product-at-branch entry in the cart.
//
// Invariants:
//   - ProductBranchID is the line key and is unique within a cart
//   - Quantity >= 1 while the line exists
//   - StockCeiling >= 0; it is the last stock level observed for the line and
//     is advisory (the backend re-checks stock when the order is submitted)
//   - UnitPrice is non-negative
type Line struct {
	ProductBranchID id.ProductBranchID `json:"product_branch_id"`
	ProductID       id.ProductID       `json:"product_id"`
	BranchID        id.BranchID        `json:"branch_id"`
	BranchName      string             `json:"branch_name"`
	Name            string             `json:"name"`
	UnitPrice       decimal.Decimal    `json:"unit_price"`
	ImageRef        string             `json:"image_ref,omitempty"`
	Quantity        int                `json:"quantity"`
	StockCeiling    int                `json:"stock_ceiling"`
}

// Subtotal is unit price times quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// valid reports whether a candidate line may enter a cart.
func (l Line) valid() bool {
	return l.ProductBranchID != "" &&
		l.BranchID != "" &&
		l.Quantity >= 1 &&
		l.StockCeiling >= 0 &&
		!l.UnitPrice.IsNegative()
}

// AvailableStock derives the ceiling from a backend stock snapshot.
// Missing values count as zero and the result never goes below zero.
func AvailableStock(stock, reserved int) int {
	if avail := stock - reserved; avail > 0 {
		return avail
	}
	return 0
}
