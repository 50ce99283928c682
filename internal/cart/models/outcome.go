package models

// Outcome is the result of a cart mutation. Rejections are ordinary values:
// the cart is left unchanged and the caller shows the warning.
type Outcome string

const (
	OutcomeApplied        Outcome = "applied"
	OutcomeBranchConflict Outcome = "branch_conflict"
	OutcomeStockExceeded  Outcome = "stock_exceeded"
	OutcomeLineNotFound   Outcome = "line_not_found"
	OutcomeInvalidLine    Outcome = "invalid_line"
)

func (o Outcome) Applied() bool {
	return o == OutcomeApplied
}

// Warning is the user-facing message for a rejected mutation.
func (o Outcome) Warning() string {
	switch o {
	case OutcomeBranchConflict:
		return "Only one branch may be active in a cart. Empty the cart to shop at another branch."
	case OutcomeStockExceeded:
		return "Not enough stock available for this product."
	case OutcomeLineNotFound:
		return "The product is no longer in the cart."
	case OutcomeInvalidLine:
		return "The product cannot be added to the cart."
	default:
		return ""
	}
}
