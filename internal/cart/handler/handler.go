package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"minimarket/internal/cart/models"
	"minimarket/internal/cart/service"
	id "minimarket/pkg/domain"
	dErrors "minimarket/pkg/domain-errors"
	"minimarket/pkg/platform/httputil"
	"minimarket/pkg/requestcontext"
)

// Service defines the interface for cart operations.
type Service interface {
	Get(ctx context.Context, scope string) (*models.Cart, error)
	AddItem(ctx context.Context, scope string, pbID id.ProductBranchID, quantity int) (*service.Result, error)
	IncrementLine(ctx context.Context, scope string, key id.ProductBranchID) (*service.Result, error)
	DecrementLine(ctx context.Context, scope string, key id.ProductBranchID) (*service.Result, error)
	RemoveLine(ctx context.Context, scope string, key id.ProductBranchID) (*service.Result, error)
	Clear(ctx context.Context, scope string) error
	RefreshStock(ctx context.Context, scope string) (*service.Result, error)
}

// Handler wires cart endpoints to the cart service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts cart endpoints on the router. The cart scope middleware
// must run first.
func (h *Handler) Register(r chi.Router) {
	r.Get("/cart", h.HandleGet)
	r.Post("/cart/items", h.HandleAddItem)
	r.Post("/cart/items/{key}/increment", h.lineMutation("increment", h.service.IncrementLine))
	r.Post("/cart/items/{key}/decrement", h.lineMutation("decrement", h.service.DecrementLine))
	r.Delete("/cart/items/{key}", h.lineMutation("remove", h.service.RemoveLine))
	r.Delete("/cart", h.HandleClear)
	r.Post("/cart/stock/refresh", h.HandleRefreshStock)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scope, ok := h.scope(w, ctx)
	if !ok {
		return
	}
	cart, err := h.service.Get(ctx, scope)
	if err != nil {
		h.fail(ctx, w, "get cart", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromCart(cart))
}

// HandleAddItem handles POST /cart/items.
func (h *Handler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scope, ok := h.scope(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[AddItemRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	res, err := h.service.AddItem(ctx, scope, req.ParsedID(), req.Quantity)
	if err != nil {
		h.fail(ctx, w, "add item", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromResult(res))
}

func (h *Handler) lineMutation(op string, fn func(context.Context, string, id.ProductBranchID) (*service.Result, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		scope, ok := h.scope(w, ctx)
		if !ok {
			return
		}
		key, err := id.ParseProductBranchID(chi.URLParam(r, "key"))
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		res, err := fn(ctx, scope, key)
		if err != nil {
			h.fail(ctx, w, op+" line", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, FromResult(res))
	}
}

func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scope, ok := h.scope(w, ctx)
	if !ok {
		return
	}
	if err := h.service.Clear(ctx, scope); err != nil {
		h.fail(ctx, w, "clear cart", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleRefreshStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scope, ok := h.scope(w, ctx)
	if !ok {
		return
	}
	res, err := h.service.RefreshStock(ctx, scope)
	if err != nil {
		h.fail(ctx, w, "refresh stock", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromResult(res))
}

func (h *Handler) scope(w http.ResponseWriter, ctx context.Context) (string, bool) {
	scope := requestcontext.CartScope(ctx)
	if scope == "" {
		h.logger.ErrorContext(ctx, "cart scope missing from context despite cart scope middleware",
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "cart scope unavailable"))
		return "", false
	}
	return scope, true
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, op string, err error) {
	h.logger.ErrorContext(ctx, "cart request failed",
		"op", op,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}
