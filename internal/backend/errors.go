package backend

import (
	"errors"
	"fmt"

	dErrors "minimarket/pkg/domain-errors"
	"minimarket/pkg/platform/sentinel"
)

// ErrorCategory is the normalized failure taxonomy for backend calls.
type ErrorCategory string

const (
	// ErrorNotFound indicates the requested resource doesn't exist
	ErrorNotFound ErrorCategory = "not_found"

	// ErrorConflict indicates the backend refused a write because the resource changed
	ErrorConflict ErrorCategory = "conflict"

	// ErrorRejected indicates the backend refused the request as invalid
	ErrorRejected ErrorCategory = "rejected"

	// ErrorAuthentication indicates the service token was refused
	ErrorAuthentication ErrorCategory = "authentication"

	// ErrorOutage indicates the backend is unreachable or failing
	ErrorOutage ErrorCategory = "outage"

	// ErrorTimeout indicates the backend took too long to respond
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorBadData indicates the backend returned a payload we could not read
	ErrorBadData ErrorCategory = "bad_data"
)

// ErrCircuitOpen is returned without a network call while the breaker is open.
var ErrCircuitOpen = errors.New("backend circuit open")

// Error wraps a failed backend call with its normalized category.
type Error struct {
	Category   ErrorCategory
	Op         string
	Status     int
	Message    string
	Underlying error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("backend %s [%s]", e.Op, e.Category)
	if e.Status != 0 {
		msg += fmt.Sprintf(" status %d", e.Status)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Underlying != nil {
		msg += ": " + e.Underlying.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

// Is lets callers test backend failures against the platform sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case sentinel.ErrNotFound:
		return e.Category == ErrorNotFound
	case sentinel.ErrConflict:
		return e.Category == ErrorConflict
	case sentinel.ErrUnavailable:
		return e.Category == ErrorOutage || e.Category == ErrorTimeout
	}
	return false
}

// CategoryOf extracts the category, or empty when err is not a backend error.
func CategoryOf(err error) ErrorCategory {
	var be *Error
	if errors.As(err, &be) {
		return be.Category
	}
	return ""
}

// ToDomain translates a backend failure into a domain error for handlers.
// Errors that are already domain errors pass through unchanged.
func ToDomain(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	var be *Error
	if !errors.As(err, &be) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "backend call failed")
	}
	switch be.Category {
	case ErrorNotFound:
		if notFoundMsg == "" {
			notFoundMsg = "resource not found"
		}
		return dErrors.Wrap(err, dErrors.CodeNotFound, notFoundMsg)
	case ErrorConflict:
		return dErrors.Wrap(err, dErrors.CodeConflict, messageOr(be, "the resource was changed by someone else, reload and try again"))
	case ErrorRejected:
		return dErrors.Wrap(err, dErrors.CodeBadRequest, messageOr(be, "request rejected by the backend"))
	case ErrorTimeout:
		return dErrors.Wrap(err, dErrors.CodeTimeout, "backend timed out")
	case ErrorOutage:
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "backend unavailable, try again later")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "backend call failed")
	}
}

func messageOr(be *Error, fallback string) string {
	if be.Message != "" {
		return be.Message
	}
	return fallback
}
