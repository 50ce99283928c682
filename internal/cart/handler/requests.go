package handler

import (
	"strings"

	id "minimarket/pkg/domain"
	dErrors "minimarket/pkg/domain-errors"
)

const maxLineQuantity = 99

// AddItemRequest is the HTTP request body for POST /cart/items.
type AddItemRequest struct {
	ProductBranchID string `json:"product_branch_id"`
	Quantity        int    `json:"quantity"`

	parsedID id.ProductBranchID
}

func (r *AddItemRequest) Normalize() {
	r.ProductBranchID = strings.TrimSpace(r.ProductBranchID)
	if r.Quantity == 0 {
		r.Quantity = 1
	}
}

// Validate implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *AddItemRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.ProductBranchID == "" {
		return dErrors.New(dErrors.CodeValidation, "product_branch_id is required")
	}
	parsed, err := id.ParseProductBranchID(r.ProductBranchID)
	if err != nil {
		return err
	}
	r.parsedID = parsed
	if r.Quantity < 1 || r.Quantity > maxLineQuantity {
		return dErrors.New(dErrors.CodeValidation, "quantity must be between 1 and 99")
	}
	return nil
}

func (r *AddItemRequest) ParsedID() id.ProductBranchID {
	return r.parsedID
}
