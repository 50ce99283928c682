package handler

import (
	"strings"

	id "minimarket/pkg/domain"
	dErrors "minimarket/pkg/domain-errors"
)

type SelectLocationRequest struct {
	LocationID string `json:"location_id"`

	parsedID id.LocationID
}

func (r *SelectLocationRequest) Normalize() {
	r.LocationID = strings.TrimSpace(r.LocationID)
}

func (r *SelectLocationRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.LocationID == "" {
		return dErrors.New(dErrors.CodeValidation, "location_id is required")
	}
	parsed, err := id.ParseLocationID(r.LocationID)
	if err != nil {
		return err
	}
	r.parsedID = parsed
	return nil
}

type SelectBranchRequest struct {
	BranchID string `json:"branch_id"`

	parsedID id.BranchID
}

func (r *SelectBranchRequest) Normalize() {
	r.BranchID = strings.TrimSpace(r.BranchID)
}

func (r *SelectBranchRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.BranchID == "" {
		return dErrors.New(dErrors.CodeValidation, "branch_id is required")
	}
	parsed, err := id.ParseBranchID(r.BranchID)
	if err != nil {
		return err
	}
	r.parsedID = parsed
	return nil
}
