package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"minimarket/internal/orders/models"
	ordersService "minimarket/internal/orders/service"
	id "minimarket/pkg/domain"
	dErrors "minimarket/pkg/domain-errors"
	"minimarket/pkg/platform/httputil"
	"minimarket/pkg/requestcontext"
)

type Service interface {
	AllowedTransitions(status models.Status) []models.Status
	ApplyTransition(ctx context.Context, orderID id.OrderID, lastKnown, target models.Status) (*models.Order, error)
	Get(ctx context.Context, orderID id.OrderID) (*models.Order, error)
	List(ctx context.Context, filter models.Filter) ([]models.Order, error)
	ListForCustomer(ctx context.Context, email string) ([]models.Order, error)
	GetForCustomer(ctx context.Context, email string, orderID id.OrderID) (*models.Order, error)
	Dashboard(ctx context.Context, now time.Time) (*ordersService.Dashboard, error)
}

// Handler serves the operator order console and the customer order history.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterAdmin mounts operator endpoints; callers add RequireAdmin.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/admin/orders/statuses", h.HandleStatuses)
	r.Get("/admin/orders", h.HandleList)
	r.Get("/admin/orders/{id}", h.HandleGet)
	r.Post("/admin/orders/{id}/status", h.HandleTransition)
	r.Get("/admin/dashboard", h.HandleDashboard)
}

// RegisterCustomer mounts the signed-in customer's order history.
func (h *Handler) RegisterCustomer(r chi.Router) {
	r.Get("/me/orders", h.HandleMyOrders)
	r.Get("/me/orders/{id}", h.HandleMyOrder)
}

// HandleStatuses handles GET /admin/orders/statuses: the full transition table.
func (h *Handler) HandleStatuses(w http.ResponseWriter, r *http.Request) {
	statuses := models.AllStatuses()
	resp := StatusTableResponse{Statuses: make([]StatusEntry, 0, len(statuses))}
	for _, st := range statuses {
		resp.Statuses = append(resp.Statuses, newStatusEntry(st, h.service.AllowedTransitions(st)))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleList handles GET /admin/orders with an optional ?status filter.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var filter models.Filter
	if raw := r.URL.Query().Get("status"); raw != "" {
		st, err := models.ParseStatus(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		filter.Status = st
	}
	orders, err := h.service.List(ctx, filter)
	if err != nil {
		h.fail(ctx, w, "list orders", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromOrders(orders, h.service.AllowedTransitions))
}

// HandleGet handles GET /admin/orders/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID, err := id.ParseOrderID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	order, err := h.service.Get(ctx, orderID)
	if err != nil {
		h.fail(ctx, w, "get order", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromOrder(order, h.service.AllowedTransitions(order.Status)))
}

// HandleTransition handles POST /admin/orders/{id}/status.
func (h *Handler) HandleTransition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID, err := id.ParseOrderID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[TransitionRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	order, err := h.service.ApplyTransition(ctx, orderID, req.current, req.target)
	if err != nil {
		h.fail(ctx, w, "apply transition", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromOrder(order, h.service.AllowedTransitions(order.Status)))
}

func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	d, err := h.service.Dashboard(ctx, requestcontext.Now(ctx))
	if err != nil {
		h.fail(ctx, w, "dashboard", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromDashboard(d))
}

// HandleMyOrders handles GET /me/orders.
func (h *Handler) HandleMyOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	email, ok := h.customer(w, ctx)
	if !ok {
		return
	}
	orders, err := h.service.ListForCustomer(ctx, email)
	if err != nil {
		h.fail(ctx, w, "list my orders", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromOrders(orders, nil))
}

// HandleMyOrder handles GET /me/orders/{id}.
func (h *Handler) HandleMyOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	email, ok := h.customer(w, ctx)
	if !ok {
		return
	}
	orderID, err := id.ParseOrderID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	order, err := h.service.GetForCustomer(ctx, email, orderID)
	if err != nil {
		h.fail(ctx, w, "get my order", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromOrder(order, nil))
}

func (h *Handler) customer(w http.ResponseWriter, ctx context.Context) (string, bool) {
	email := requestcontext.UserEmail(ctx)
	if email == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return "", false
	}
	return email, true
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, op string, err error) {
	level := slog.LevelError
	switch dErrors.CodeOf(err) {
	case dErrors.CodeNotFound, dErrors.CodeInvariantViolation, dErrors.CodeConflict, dErrors.CodeInvalidInput:
		level = slog.LevelWarn
	}
	h.logger.Log(ctx, level, "orders request failed",
		"op", op,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}
