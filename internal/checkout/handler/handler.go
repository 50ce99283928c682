package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"minimarket/internal/checkout"
	checkoutService "minimarket/internal/checkout/service"
	dErrors "minimarket/pkg/domain-errors"
	"minimarket/pkg/platform/httputil"
	"minimarket/pkg/requestcontext"
)

type Service interface {
	Submit(ctx context.Context, scope string, fields checkout.Fields) (*checkoutService.Submission, error)
}

// Handler serves the checkout form endpoints.
type Handler struct {
	service   Service
	validator *checkout.Validator
	logger    *slog.Logger
}

func New(service Service, validator *checkout.Validator, logger *slog.Logger) *Handler {
	return &Handler{service: service, validator: validator, logger: logger}
}

// RegisterPublic mounts the endpoints that need no account.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/checkout/window", h.HandleWindow)
	r.Post("/checkout/validate", h.HandleValidate)
}

// RegisterAuthenticated mounts order placement; callers add RequireAuth.
func (h *Handler) RegisterAuthenticated(r chi.Router) {
	r.Post("/checkout", h.HandleSubmit)
}

// HandleWindow handles GET /checkout/window. With ?delivery_at it also
// reports whether that time passes the store-hours gate.
func (h *Handler) HandleWindow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := WindowResponse{Window: h.validator.Window(requestcontext.Now(ctx))}
	if raw := r.URL.Query().Get("delivery_at"); raw != "" {
		ts, err := h.validator.ParseTimestamp(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		enabled := h.validator.SubmitEnabled(ts)
		resp.SubmitEnabled = &enabled
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleValidate handles POST /checkout/validate.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[CheckoutRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	fields, parseErrs := h.fields(ctx, req)
	if parseErrs != nil {
		writeFieldErrors(w, parseErrs)
		return
	}
	res := h.validator.Validate(fields, requestcontext.Now(ctx))
	if !res.Valid {
		writeFieldErrors(w, res.Errors)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ValidateResponse{Valid: true, Address: res.Fields.Address})
}

// HandleSubmit handles POST /checkout.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	if requestcontext.UserEmail(ctx) == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}
	scope := requestcontext.CartScope(ctx)
	if scope == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "cart scope unavailable"))
		return
	}
	req, ok := httputil.DecodeAndPrepare[CheckoutRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	fields, parseErrs := h.fields(ctx, req)
	if parseErrs != nil {
		writeFieldErrors(w, parseErrs)
		return
	}

	sub, err := h.service.Submit(ctx, scope, fields)
	if err != nil {
		var ve *checkout.ValidationError
		if errors.As(err, &ve) {
			writeFieldErrors(w, ve.Errors)
			return
		}
		h.logger.ErrorContext(ctx, "checkout failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromSubmission(sub))
}

// fields converts req. An unparseable delivery timestamp still runs the
// remaining rules, and the returned errors carry every violated field with the
// parse message under delivery_at.
func (h *Handler) fields(ctx context.Context, req *CheckoutRequest) (checkout.Fields, checkout.FieldErrors) {
	fields, err := req.Fields(h.validator)
	if err == nil {
		return fields, nil
	}
	res := h.validator.Validate(fields, requestcontext.Now(ctx))
	errs := res.Errors
	if errs == nil {
		errs = checkout.FieldErrors{}
	}
	errs[checkout.FieldDeliveryAt] = dErrors.MessageOf(err)
	return fields, errs
}

func writeFieldErrors(w http.ResponseWriter, errs checkout.FieldErrors) {
	httputil.WriteJSON(w, http.StatusUnprocessableEntity, FieldErrorsResponse{
		Error:            string(dErrors.CodeValidation),
		ErrorDescription: "some checkout fields are invalid",
		Fields:           errs,
	})
}
