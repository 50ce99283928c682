// Package domain holds the identifier primitives shared across modules.
//
// Identifiers are assigned by the backend and are opaque to the storefront.
// Parse at trust boundaries; direct conversion skips validation.
package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"

	dErrors "minimarket/pkg/domain-errors"
)

const maxIDLength = 64

type (
	ProductBranchID string
	ProductID       string
	BranchID        string
	OrderID         string
	LocationID      string
)

func (id ProductBranchID) String() string { return string(id) }
func (id ProductID) String() string       { return string(id) }
func (id BranchID) String() string        { return string(id) }
func (id OrderID) String() string         { return string(id) }
func (id LocationID) String() string      { return string(id) }

func ParseProductBranchID(s string) (ProductBranchID, error) {
	v, err := parseID("product_branch_id", s)
	return ProductBranchID(v), err
}

func ParseBranchID(s string) (BranchID, error) {
	v, err := parseID("branch_id", s)
	return BranchID(v), err
}

func ParseOrderID(s string) (OrderID, error) {
	v, err := parseID("order_id", s)
	return OrderID(v), err
}

func ParseLocationID(s string) (LocationID, error) {
	v, err := parseID("location_id", s)
	return LocationID(v), err
}

// parseID accepts trimmed, non-empty UTF-8 tokens made of letters, digits, '-' and '_'.
// The restriction keeps IDs safe to embed in backend URL paths and storage keys.
func parseID(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, field+" is required")
	}
	if len(s) > maxIDLength || !utf8.ValidString(s) {
		return "", dErrors.New(dErrors.CodeInvalidInput, field+" is malformed")
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' {
			return "", dErrors.New(dErrors.CodeInvalidInput, field+" is malformed")
		}
	}
	return s, nil
}
