package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"minimarket/internal/backend"
	"minimarket/internal/location/models"
	id "minimarket/pkg/domain"
	dErrors "minimarket/pkg/domain-errors"
	"minimarket/pkg/platform/httputil"
	"minimarket/pkg/requestcontext"
)

type Service interface {
	ListLocations(ctx context.Context, email string) ([]models.UserLocation, error)
	Select(ctx context.Context, scope, email string, locationID id.LocationID) (*models.Selection, error)
	SelectBranch(ctx context.Context, scope, email string, branchID id.BranchID) (*models.Selection, error)
	Current(ctx context.Context, scope, email string) (*models.Selection, error)
	Clear(ctx context.Context, scope, email string) error
	Catalog(ctx context.Context, scope, email string) (models.Branch, []backend.ProductBranch, error)
}

// Handler serves the signed-in user's location context and the branch catalog
// it unlocks.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts location endpoints. Callers add RequireAuth and the cart
// scope middleware.
func (h *Handler) Register(r chi.Router) {
	r.Get("/me/locations", h.HandleListLocations)
	r.Get("/me/location", h.HandleCurrent)
	r.Put("/me/location", h.HandleSelect)
	r.Put("/me/location/branch", h.HandleSelectBranch)
	r.Delete("/me/location", h.HandleClear)
	r.Get("/catalog", h.HandleCatalog)
}

func (h *Handler) HandleListLocations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	email, ok := h.user(w, ctx)
	if !ok {
		return
	}
	locs, err := h.service.ListLocations(ctx, email)
	if err != nil {
		h.fail(ctx, w, "list locations", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromLocations(locs))
}

func (h *Handler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scope, email, ok := h.caller(w, ctx)
	if !ok {
		return
	}
	sel, err := h.service.Current(ctx, scope, email)
	if err != nil {
		h.fail(ctx, w, "current location", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromSelection(sel))
}

// HandleSelect handles PUT /me/location.
func (h *Handler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scope, email, ok := h.caller(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[SelectLocationRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	sel, err := h.service.Select(ctx, scope, email, req.parsedID)
	if err != nil {
		h.fail(ctx, w, "select location", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromSelection(sel))
}

// HandleSelectBranch handles PUT /me/location/branch.
func (h *Handler) HandleSelectBranch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scope, email, ok := h.caller(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[SelectBranchRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	sel, err := h.service.SelectBranch(ctx, scope, email, req.parsedID)
	if err != nil {
		h.fail(ctx, w, "select branch", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromSelection(sel))
}

func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scope, email, ok := h.caller(w, ctx)
	if !ok {
		return
	}
	if err := h.service.Clear(ctx, scope, email); err != nil {
		h.fail(ctx, w, "clear location", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleCatalog handles GET /catalog: products of the selected branch.
func (h *Handler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scope, email, ok := h.caller(w, ctx)
	if !ok {
		return
	}
	branch, products, err := h.service.Catalog(ctx, scope, email)
	if err != nil {
		h.fail(ctx, w, "catalog", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromCatalog(branch, products))
}

func (h *Handler) user(w http.ResponseWriter, ctx context.Context) (string, bool) {
	email := requestcontext.UserEmail(ctx)
	if email == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return "", false
	}
	return email, true
}

func (h *Handler) caller(w http.ResponseWriter, ctx context.Context) (scope, email string, ok bool) {
	if email, ok = h.user(w, ctx); !ok {
		return "", "", false
	}
	scope = requestcontext.CartScope(ctx)
	if scope == "" {
		h.logger.ErrorContext(ctx, "cart scope missing from context",
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "storage scope unavailable"))
		return "", "", false
	}
	return scope, email, true
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, op string, err error) {
	h.logger.ErrorContext(ctx, "location request failed",
		"op", op,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}
