package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"minimarket/pkg/requestcontext"
)

// RoleAdmin is the token role allowed into the back-office routes.
const RoleAdmin = "admin"

// RequireAdmin admits signed-in users with the admin role, or operator tooling
// presenting X-Admin-Token when a token is configured. Run it after auth.OptionalAuth
// so the role is already in the context.
func RequireAdmin(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if requestcontext.UserRole(ctx) == RoleAdmin {
				next.ServeHTTP(w, r)
				return
			}
			token := r.Header.Get("X-Admin-Token")
			if expectedToken != "" && token != "" &&
				subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) == 1 {
				next.ServeHTTP(w, r.WithContext(requestcontext.WithUserRole(ctx, RoleAdmin)))
				return
			}

			logger.WarnContext(ctx, "admin access denied",
				"request_id", requestcontext.RequestID(ctx),
				"email", requestcontext.UserEmail(ctx),
			)
			w.Header().Set("Content-Type", "application/json")
			if requestcontext.UserEmail(ctx) != "" {
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"forbidden","error_description":"admin role required"}`))
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"admin credentials required"}`))
		})
	}
}
