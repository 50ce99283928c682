// Package cartscope gives every browser profile a stable storage scope.
//
// The scope travels in an HttpOnly cookie. Carts and location selections are
// stored under it, so a cart survives reloads but is not shared across devices.
package cartscope

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"minimarket/pkg/requestcontext"
)

const (
	CookieName = "mm_cart"
	cookieTTL  = 365 * 24 * time.Hour
)

// Middleware reads the scope cookie, issuing a new one when it is missing or malformed.
func Middleware(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope := ""
			if c, err := r.Cookie(CookieName); err == nil {
				if id, err := uuid.Parse(c.Value); err == nil && id != uuid.Nil {
					scope = id.String()
				}
			}
			if scope == "" {
				scope = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    scope,
					Path:     "/",
					MaxAge:   int(cookieTTL.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			ctx := requestcontext.WithCartScope(r.Context(), scope)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
