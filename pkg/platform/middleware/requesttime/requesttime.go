// Package requesttime captures one "now" per request so validation, audit
// timestamps and logs inside a request agree with each other.
package requesttime

import (
	"net/http"
	"time"

	"minimarket/pkg/requestcontext"
)

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
