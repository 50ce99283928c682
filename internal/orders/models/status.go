package models

import (
	"slices"
	"strings"

	dErrors "minimarket/pkg/domain-errors"
)

// Status is the lifecycle state of an order. The backend persists it; the
// storefront only decides which transitions an operator may request.
type Status string

const (
	StatusPending        Status = "PENDING"
	StatusPaid           Status = "PAID"
	StatusPreparing      Status = "PREPARING"
	StatusReadyForPickup Status = "READY_FOR_PICKUP"
	StatusDelivered      Status = "DELIVERED"
	StatusCancelled      Status = "CANCELLED"
)

// transitions is the only definition of legal moves. Validation, the admin
// listing and the CLI all read it. Targets are in display order.
var transitions = map[Status][]Status{
	StatusPending:        {StatusCancelled},
	StatusPaid:           {StatusPreparing, StatusCancelled},
	StatusPreparing:      {StatusReadyForPickup},
	StatusReadyForPickup: {StatusDelivered},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

var labels = map[Status]string{
	StatusPending:        "Pending payment",
	StatusPaid:           "Paid",
	StatusPreparing:      "Preparing",
	StatusReadyForPickup: "Ready for pickup",
	StatusDelivered:      "Delivered",
	StatusCancelled:      "Cancelled",
}

// AllStatuses lists every status in lifecycle order.
func AllStatuses() []Status {
	return []Status{
		StatusPending,
		StatusPaid,
		StatusPreparing,
		StatusReadyForPickup,
		StatusDelivered,
		StatusCancelled,
	}
}

// ParseStatus accepts any casing and surrounding whitespace.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown order status "+strings.TrimSpace(s))
	}
	return st, nil
}

func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) String() string {
	return string(s)
}

func (s Status) Label() string {
	if l, ok := labels[s]; ok {
		return l
	}
	return string(s)
}

// IsTerminal is true for statuses with no outgoing transitions, including unknown ones.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// AllowedTransitions returns the legal targets from s. The slice is a copy and
// is empty for terminal or unknown statuses.
func AllowedTransitions(s Status) []Status {
	return slices.Clone(transitions[s])
}

func (s Status) CanTransitionTo(target Status) bool {
	return slices.Contains(transitions[s], target)
}

// CheckTransition returns CodeInvariantViolation when from → to is not legal.
func CheckTransition(from, to Status) error {
	if !from.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "unknown order status "+string(from))
	}
	if !to.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "unknown order status "+string(to))
	}
	if from.IsTerminal() {
		return dErrors.New(dErrors.CodeInvariantViolation, "order is "+from.Label()+" and can no longer change status")
	}
	if !from.CanTransitionTo(to) {
		return dErrors.New(dErrors.CodeInvariantViolation, "cannot move an order from "+string(from)+" to "+string(to))
	}
	return nil
}
