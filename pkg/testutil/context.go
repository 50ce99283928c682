package testutil

import (
	"net/http"

	"minimarket/pkg/requestcontext"
)

// WithUser adds a signed-in customer to the request context.
// This simulates what the auth middleware would do for authenticated requests.
func WithUser(req *http.Request, email string) *http.Request {
	return req.WithContext(requestcontext.WithUserEmail(req.Context(), email))
}

// WithAdmin adds a signed-in admin to the request context.
func WithAdmin(req *http.Request, email string) *http.Request {
	ctx := requestcontext.WithUserEmail(req.Context(), email)
	ctx = requestcontext.WithUserRole(ctx, "admin")
	return req.WithContext(ctx)
}

// WithCartScope simulates the cart scope cookie middleware.
func WithCartScope(req *http.Request, scope string) *http.Request {
	return req.WithContext(requestcontext.WithCartScope(req.Context(), scope))
}
