package handler

import (
	"time"

	"minimarket/internal/checkout"
	checkoutService "minimarket/internal/checkout/service"
)

type WindowResponse struct {
	checkout.Window
	SubmitEnabled *bool `json:"submit_enabled,omitempty"`
}

type ValidateResponse struct {
	Valid   bool   `json:"valid"`
	Address string `json:"address"`
}

// FieldErrorsResponse is the 422 body listing every invalid field.
type FieldErrorsResponse struct {
	Error            string            `json:"error"`
	ErrorDescription string            `json:"error_description"`
	Fields           map[string]string `json:"fields"`
}

type SubmissionResponse struct {
	OrderID    string    `json:"order_id"`
	PaymentURL string    `json:"payment_url,omitempty"`
	Total      string    `json:"total"`
	DeliveryAt time.Time `json:"delivery_at"`
	Address    string    `json:"address"`
}

func FromSubmission(s *checkoutService.Submission) SubmissionResponse {
	return SubmissionResponse{
		OrderID:    string(s.OrderID),
		PaymentURL: s.PaymentURL,
		Total:      s.Total.StringFixed(2),
		DeliveryAt: s.DeliveryAt,
		Address:    s.Address,
	}
}
