package handler

import (
	"strings"

	"minimarket/internal/orders/models"
	dErrors "minimarket/pkg/domain-errors"
)

// TransitionRequest carries the status the operator last saw alongside the
// requested target so stale consoles are caught.
type TransitionRequest struct {
	CurrentStatus string `json:"current_status"`
	TargetStatus  string `json:"target_status"`

	current models.Status
	target  models.Status
}

func (r *TransitionRequest) Normalize() {
	r.CurrentStatus = strings.TrimSpace(r.CurrentStatus)
	r.TargetStatus = strings.TrimSpace(r.TargetStatus)
}

func (r *TransitionRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.CurrentStatus == "" || r.TargetStatus == "" {
		return dErrors.New(dErrors.CodeValidation, "current_status and target_status are required")
	}
	current, err := models.ParseStatus(r.CurrentStatus)
	if err != nil {
		return err
	}
	target, err := models.ParseStatus(r.TargetStatus)
	if err != nil {
		return err
	}
	r.current, r.target = current, target
	return nil
}
