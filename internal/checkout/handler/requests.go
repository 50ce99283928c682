package handler

import (
	"strings"

	"minimarket/internal/checkout"
	dErrors "minimarket/pkg/domain-errors"
)

const maxFieldLength = 200

// CheckoutRequest is the body of POST /checkout and POST /checkout/validate.
type CheckoutRequest struct {
	Name       string `json:"name"`
	Surname    string `json:"surname"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	Pickup     bool   `json:"pickup"`
	DeliveryAt string `json:"delivery_at"`
}

func (r *CheckoutRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.DeliveryAt = strings.TrimSpace(r.DeliveryAt)
}

// Validate only bounds sizes; field rules belong to the checkout validator so
// that every violation is reported together.
func (r *CheckoutRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	for _, v := range []string{r.Name, r.Surname, r.Phone, r.Email, r.Address, r.DeliveryAt} {
		if len(v) > maxFieldLength {
			return dErrors.New(dErrors.CodeValidation, "fields must be at most 200 characters")
		}
	}
	return nil
}

// Fields converts the request using the validator's timestamp rules. When the
// timestamp does not parse, the returned Fields has a zero DeliveryAt and the
// error describes the timestamp, so the other fields can still be checked.
func (r *CheckoutRequest) Fields(v *checkout.Validator) (checkout.Fields, error) {
	ts, err := v.ParseTimestamp(r.DeliveryAt)
	return checkout.Fields{
		Name:       r.Name,
		Surname:    r.Surname,
		Phone:      r.Phone,
		Email:      r.Email,
		Address:    r.Address,
		Pickup:     r.Pickup,
		DeliveryAt: ts,
	}, err
}
