package checkout

import (
	"sort"
	"strings"

	dErrors "minimarket/pkg/domain-errors"
)

// ValidationError carries every field violation of a rejected checkout.
type ValidationError struct {
	Errors FieldErrors
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "checkout validation failed: " + strings.Join(fields, ", ")
}

// Unwrap exposes the domain code so generic error rendering still answers 422.
func (e *ValidationError) Unwrap() error {
	return dErrors.New(dErrors.CodeValidation, "some checkout fields are invalid")
}
