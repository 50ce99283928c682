package handler

import (
	"minimarket/internal/cart/models"
	"minimarket/internal/cart/service"
)

type LineResponse struct {
	ProductBranchID string `json:"product_branch_id"`
	ProductID       string `json:"product_id"`
	Name            string `json:"name"`
	UnitPrice       string `json:"unit_price"`
	ImageRef        string `json:"image_ref,omitempty"`
	Quantity        int    `json:"quantity"`
	StockCeiling    int    `json:"stock_ceiling"`
	Subtotal        string `json:"subtotal"`
}

// CartResponse carries the lines plus the derived totals, recomputed per read.
type CartResponse struct {
	BranchID      string         `json:"branch_id,omitempty"`
	BranchName    string         `json:"branch_name,omitempty"`
	Lines         []LineResponse `json:"lines"`
	TotalQuantity int            `json:"total_quantity"`
	Subtotal      string         `json:"subtotal"`
}

// MutationResponse reports whether a mutation applied. Rejections are not
// HTTP errors: applied is false and warning explains why.
type MutationResponse struct {
	Applied     bool         `json:"applied"`
	Outcome     string       `json:"outcome"`
	Warning     string       `json:"warning,omitempty"`
	OverCeiling []string     `json:"over_ceiling,omitempty"`
	Cart        CartResponse `json:"cart"`
}

func FromCart(cart *models.Cart) CartResponse {
	resp := CartResponse{
		BranchID:      string(cart.BranchID()),
		Lines:         make([]LineResponse, 0, len(cart.Lines)),
		TotalQuantity: cart.TotalQuantity(),
		Subtotal:      cart.Subtotal().StringFixed(2),
	}
	for _, l := range cart.Lines {
		resp.BranchName = l.BranchName
		resp.Lines = append(resp.Lines, LineResponse{
			ProductBranchID: string(l.ProductBranchID),
			ProductID:       string(l.ProductID),
			Name:            l.Name,
			UnitPrice:       l.UnitPrice.StringFixed(2),
			ImageRef:        l.ImageRef,
			Quantity:        l.Quantity,
			StockCeiling:    l.StockCeiling,
			Subtotal:        l.Subtotal().StringFixed(2),
		})
	}
	return resp
}

func FromResult(res *service.Result) MutationResponse {
	resp := MutationResponse{
		Applied: res.Outcome.Applied(),
		Outcome: string(res.Outcome),
		Warning: res.Outcome.Warning(),
		Cart:    FromCart(res.Cart),
	}
	for _, k := range res.OverCeiling {
		resp.OverCeiling = append(resp.OverCeiling, string(k))
	}
	if len(resp.OverCeiling) > 0 && resp.Warning == "" {
		resp.Warning = "Some products now have less stock than the quantity in your cart."
	}
	return resp
}
