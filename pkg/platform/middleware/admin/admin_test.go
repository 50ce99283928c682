package admin

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"minimarket/pkg/requestcontext"
)

func TestRequireAdmin(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := RequireAdmin("ops-secret", logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name   string
		email  string
		role   string
		token  string
		status int
	}{
		{name: "admin role", email: "boss@example.com", role: RoleAdmin, status: http.StatusNoContent},
		{name: "operator token", token: "ops-secret", status: http.StatusNoContent},
		{name: "wrong token", token: "guess", status: http.StatusUnauthorized},
		{name: "customer role", email: "ana@example.com", role: "customer", status: http.StatusForbidden},
		{name: "anonymous", status: http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
			ctx := requestcontext.WithUserEmail(r.Context(), tc.email)
			ctx = requestcontext.WithUserRole(ctx, tc.role)
			r = r.WithContext(ctx)
			if tc.token != "" {
				r.Header.Set("X-Admin-Token", tc.token)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}
