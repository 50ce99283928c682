// Package checkout validates delivery requests before an order is submitted.
// Validation is pure: no I/O and no retries.
package checkout

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	dErrors "minimarket/pkg/domain-errors"
)

// PickupAddress replaces the address when the customer collects in store.
const PickupAddress = "Retiro en tienda"

// LocalTimestampLayout is the layout a datetime-local form field submits.
const LocalTimestampLayout = "2006-01-02T15:04"

var (
	phonePattern = regexp.MustCompile(`^\d{9}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Fields is the raw checkout form.
type Fields struct {
	Name       string
	Surname    string
	Phone      string
	Email      string
	Address    string
	Pickup     bool
	DeliveryAt time.Time
}

// Field names used as keys of FieldErrors.
const (
	FieldName       = "name"
	FieldSurname    = "surname"
	FieldPhone      = "phone"
	FieldEmail      = "email"
	FieldAddress    = "address"
	FieldDeliveryAt = "delivery_at"
)

// FieldErrors maps a field to its first violated rule.
type FieldErrors map[string]string

// Result reports every violated field at once. Fields carries the normalized
// input (trimmed, pickup address applied) and is only meaningful when Valid.
type Result struct {
	Valid  bool
	Errors FieldErrors
	Fields Fields
}

// Window is the span in which a delivery may be scheduled from a given moment.
type Window struct {
	Earliest  time.Time `json:"earliest"`
	Latest    time.Time `json:"latest"`
	OpenHour  int       `json:"open_hour"`
	CloseHour int       `json:"close_hour"`
	Timezone  string    `json:"timezone"`
}

// Validator checks delivery requests against the store's hours.
//
// Invariants:
//   - OpenHour < CloseHour, both within [0, 24]
//   - MaxDaysAhead >= 0
type Validator struct {
	location     *time.Location
	maxDaysAhead int
	openHour     int
	closeHour    int
}

func NewValidator(location *time.Location, maxDaysAhead, openHour, closeHour int) (*Validator, error) {
	if location == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "location is required")
	}
	if maxDaysAhead < 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "max days ahead must not be negative")
	}
	if openHour < 0 || closeHour > 24 || openHour >= closeHour {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "store hours must satisfy 0 <= open < close <= 24")
	}
	return &Validator{
		location:     location,
		maxDaysAhead: maxDaysAhead,
		openHour:     openHour,
		closeHour:    closeHour,
	}, nil
}

func (v *Validator) Location() *time.Location {
	return v.location
}

// Validate checks every rule independently and reports all violations.
func (v *Validator) Validate(f Fields, now time.Time) Result {
	errs := FieldErrors{}
	f.Name = strings.TrimSpace(f.Name)
	f.Surname = strings.TrimSpace(f.Surname)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Email = strings.TrimSpace(f.Email)
	f.Address = strings.TrimSpace(f.Address)

	if f.Name == "" {
		errs[FieldName] = "Name is required."
	}
	if f.Surname == "" {
		errs[FieldSurname] = "Surname is required."
	}
	if f.Pickup {
		f.Address = PickupAddress
	} else if f.Address == "" {
		errs[FieldAddress] = "Address is required for delivery."
	}
	if !phonePattern.MatchString(f.Phone) {
		errs[FieldPhone] = "Phone must have exactly 9 digits."
	}
	if !emailPattern.MatchString(f.Email) {
		errs[FieldEmail] = "Email is not valid."
	}
	if msg := v.CheckDeliveryAt(f.DeliveryAt, now); msg != "" {
		errs[FieldDeliveryAt] = msg
	}

	return Result{Valid: len(errs) == 0, Errors: errs, Fields: f}
}

// CheckDeliveryAt applies every delivery time rule and returns the message of
// the first one ts breaks, or "" when ts is acceptable.
func (v *Validator) CheckDeliveryAt(ts, now time.Time) string {
	switch {
	case ts.IsZero():
		return "Delivery date and time are required."
	case !ts.After(now):
		return "Delivery must be scheduled in the future."
	case ts.After(now.AddDate(0, 0, v.maxDaysAhead)):
		return fmt.Sprintf("Delivery can be scheduled at most %d days ahead.", v.maxDaysAhead)
	case !v.SubmitEnabled(ts):
		return "Delivery must be between " + clock(v.openHour) + " and " + clock(v.closeHour) + "."
	default:
		return ""
	}
}

// SubmitEnabled is the hour-window gate alone, independent of the other rules.
func (v *Validator) SubmitEnabled(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	h := ts.In(v.location).Hour()
	return h >= v.openHour && h < v.closeHour
}

// Window reports the schedulable span from now, for form hints.
func (v *Validator) Window(now time.Time) Window {
	local := now.In(v.location)
	return Window{
		Earliest:  local,
		Latest:    local.AddDate(0, 0, v.maxDaysAhead),
		OpenHour:  v.openHour,
		CloseHour: v.closeHour,
		Timezone:  v.location.String(),
	}
}

// ParseTimestamp accepts RFC 3339 or the form's local layout, the latter
// interpreted in the store's timezone.
func (v *Validator) ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, nil
	}
	ts, err := time.ParseInLocation(LocalTimestampLayout, raw, v.location)
	if err != nil {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, "delivery_at must be RFC 3339 or YYYY-MM-DDTHH:MM")
	}
	return ts, nil
}

func clock(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}
