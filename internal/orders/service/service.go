package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Backend,AuditPublisher

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"minimarket/internal/audit"
	"minimarket/internal/backend"
	locationModels "minimarket/internal/location/models"
	"minimarket/internal/orders/metrics"
	"minimarket/internal/orders/models"
	id "minimarket/pkg/domain"
	dErrors "minimarket/pkg/domain-errors"
	"minimarket/pkg/requestcontext"
)

// Backend is the slice of the REST backend the orders module needs.
type Backend interface {
	GetOrder(ctx context.Context, orderID id.OrderID) (*models.Order, error)
	ListOrders(ctx context.Context, filter models.Filter) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID id.OrderID, status models.Status) error
	ListBranches(ctx context.Context) ([]locationModels.Branch, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service reads orders and applies operator-requested status transitions.
// The backend owns order state; this service never mutates an order locally.
type Service struct {
	backend  Backend
	logger   *slog.Logger
	metrics  *metrics.Metrics
	auditor  AuditPublisher
	location *time.Location
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

// WithLocation sets the store timezone used to bucket orders per day.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

func New(b Backend, opts ...Option) (*Service, error) {
	if b == nil {
		return nil, errors.New("backend is required")
	}
	s := &Service{
		backend:  b,
		logger:   slog.Default(),
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// AllowedTransitions is the operator's menu for an order in status.
func (s *Service) AllowedTransitions(status models.Status) []models.Status {
	return models.AllowedTransitions(status)
}

// ApplyTransition asks the backend to move the order from lastKnown to target.
// Illegal moves are refused without calling the backend. On success the order
// is re-read and returned as the new source of truth.
func (s *Service) ApplyTransition(ctx context.Context, orderID id.OrderID, lastKnown, target models.Status) (*models.Order, error) {
	if err := models.CheckTransition(lastKnown, target); err != nil {
		s.metrics.IncrementTransition(string(lastKnown), string(target), "illegal")
		s.logger.InfoContext(ctx, "order transition refused",
			"order_id", orderID,
			"from", lastKnown,
			"to", target,
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, err
	}

	if err := s.backend.UpdateOrderStatus(ctx, orderID, target); err != nil {
		switch backend.CategoryOf(err) {
		case backend.ErrorConflict, backend.ErrorRejected:
			s.metrics.IncrementTransition(string(lastKnown), string(target), "conflict")
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "the order changed since it was loaded, reload it and try again")
		default:
			s.metrics.IncrementTransition(string(lastKnown), string(target), "error")
			return nil, backend.ToDomain(err, "order not found")
		}
	}
	s.metrics.IncrementTransition(string(lastKnown), string(target), "applied")
	s.logger.InfoContext(ctx, "order status changed",
		"order_id", orderID,
		"from", lastKnown,
		"to", target,
		"request_id", requestcontext.RequestID(ctx),
	)
	if s.auditor != nil {
		_ = s.auditor.Emit(ctx, audit.Event{
			Type:        audit.EventOrderStatusChanged,
			AggregateID: string(orderID),
			Actor:       requestcontext.UserEmail(ctx),
			Attributes:  map[string]string{"from": string(lastKnown), "to": string(target)},
		})
	}

	order, err := s.backend.GetOrder(ctx, orderID)
	if err != nil {
		return nil, backend.ToDomain(err, "order not found")
	}
	return order, nil
}

func (s *Service) Get(ctx context.Context, orderID id.OrderID) (*models.Order, error) {
	order, err := s.backend.GetOrder(ctx, orderID)
	if err != nil {
		return nil, backend.ToDomain(err, "order not found")
	}
	return order, nil
}

func (s *Service) List(ctx context.Context, filter models.Filter) ([]models.Order, error) {
	orders, err := s.backend.ListOrders(ctx, filter)
	if err != nil {
		return nil, backend.ToDomain(err, "")
	}
	return orders, nil
}

// ListForCustomer is the signed-in customer's order history.
func (s *Service) ListForCustomer(ctx context.Context, email string) ([]models.Order, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	orders, err := s.List(ctx, models.Filter{Email: email})
	if err != nil {
		return nil, err
	}
	// the backend filter is advisory; never show another customer's order
	owned := orders[:0]
	for _, o := range orders {
		if normalizeEmail(o.Email) == email {
			owned = append(owned, o)
		}
	}
	return owned, nil
}

// GetForCustomer hides orders of other customers behind not found.
func (s *Service) GetForCustomer(ctx context.Context, email string, orderID id.OrderID) (*models.Order, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if normalizeEmail(order.Email) != email {
		return nil, dErrors.New(dErrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
