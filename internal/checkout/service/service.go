package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Carts,OrderSubmitter,AuditPublisher

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"minimarket/internal/audit"
	"minimarket/internal/backend"
	cartModels "minimarket/internal/cart/models"
	"minimarket/internal/checkout"
	orderModels "minimarket/internal/orders/models"
	id "minimarket/pkg/domain"
	dErrors "minimarket/pkg/domain-errors"
	"minimarket/pkg/requestcontext"
)

// Carts is the cart service as checkout sees it.
type Carts interface {
	Get(ctx context.Context, scope string) (*cartModels.Cart, error)
	Clear(ctx context.Context, scope string) error
}

type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, order orderModels.NewOrder) (*orderModels.Created, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Submission is a placed order. Payment redirection is left to the caller.
type Submission struct {
	OrderID    id.OrderID
	PaymentURL string
	Total      decimal.Decimal
	DeliveryAt time.Time
	Address    string
}

type Service struct {
	validator *checkout.Validator
	carts     Carts
	orders    OrderSubmitter
	logger    *slog.Logger
	auditor   AuditPublisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

func New(validator *checkout.Validator, carts Carts, orders OrderSubmitter, opts ...Option) (*Service, error) {
	if validator == nil {
		return nil, errors.New("validator is required")
	}
	if carts == nil {
		return nil, errors.New("cart service is required")
	}
	if orders == nil {
		return nil, errors.New("order submitter is required")
	}
	s := &Service{
		validator: validator,
		carts:     carts,
		orders:    orders,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) Validator() *checkout.Validator {
	return s.validator
}

// Submit validates the form, places the order for the scope's cart and
// clears the cart. A backend refusal leaves the cart untouched; nothing is
// retried.
func (s *Service) Submit(ctx context.Context, scope string, fields checkout.Fields) (*Submission, error) {
	res := s.validator.Validate(fields, requestcontext.Now(ctx))
	if !res.Valid {
		return nil, &checkout.ValidationError{Errors: res.Errors}
	}
	fields = res.Fields

	cart, err := s.carts.Get(ctx, scope)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, dErrors.New(dErrors.CodeConflict, "the cart is empty")
	}

	order := orderModels.NewOrder{
		CustomerName:    fields.Name,
		CustomerSurname: fields.Surname,
		Email:           fields.Email,
		Phone:           fields.Phone,
		Address:         fields.Address,
		Pickup:          fields.Pickup,
		DeliveryAt:      fields.DeliveryAt.UTC(),
		BranchID:        cart.BranchID(),
		Lines:           make([]orderModels.NewOrderLine, 0, len(cart.Lines)),
	}
	for _, l := range cart.Lines {
		order.Lines = append(order.Lines, orderModels.NewOrderLine{ProductBranchID: l.ProductBranchID, Quantity: l.Quantity})
	}

	created, err := s.orders.SubmitOrder(ctx, order)
	if err != nil {
		s.logger.WarnContext(ctx, "order submission failed",
			"branch_id", order.BranchID,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		if backend.CategoryOf(err) == backend.ErrorConflict {
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "some products no longer have enough stock, review your cart")
		}
		return nil, backend.ToDomain(err, "branch or product not found")
	}

	if err := s.carts.Clear(ctx, scope); err != nil {
		// the order exists; a stale cart is the lesser problem
		s.logger.ErrorContext(ctx, "failed to clear cart after order submission",
			"order_id", created.ID,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}

	total := cart.Subtotal()
	s.logger.InfoContext(ctx, "order submitted",
		"order_id", created.ID,
		"branch_id", order.BranchID,
		"lines", len(order.Lines),
		"request_id", requestcontext.RequestID(ctx),
	)
	if s.auditor != nil {
		_ = s.auditor.Emit(ctx, audit.Event{
			Type:        audit.EventOrderSubmitted,
			AggregateID: string(created.ID),
			Actor:       requestcontext.UserEmail(ctx),
			Attributes: map[string]string{
				"branch_id": string(order.BranchID),
				"total":     total.StringFixed(2),
				"pickup":    strconv.FormatBool(fields.Pickup),
			},
		})
	}

	return &Submission{
		OrderID:    created.ID,
		PaymentURL: created.PaymentURL,
		Total:      total,
		DeliveryAt: fields.DeliveryAt,
		Address:    fields.Address,
	}, nil
}
