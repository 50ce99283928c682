package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"minimarket/pkg/requestcontext"
)

type stubValidator struct {
	claims *JWTClaims
	err    error
}

func (s stubValidator) ValidateToken(string) (*JWTClaims, error) {
	return s.claims, s.err
}

func TestRequireAuth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var email, role string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email = requestcontext.UserEmail(r.Context())
		role = requestcontext.UserRole(r.Context())
	})

	t.Run("missing header", func(t *testing.T) {
		h := RequireAuth(stubValidator{}, logger)(next)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		h := RequireAuth(stubValidator{err: errors.New("expired")}, logger)(next)
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer abc")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid or expired token")
	})

	t.Run("valid token populates context", func(t *testing.T) {
		h := RequireAuth(stubValidator{claims: &JWTClaims{Email: "ana@example.com", Role: "customer"}}, logger)(next)
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer abc")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ana@example.com", email)
		assert.Equal(t, "customer", role)
	})
}

func TestOptionalAuth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var email string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email = requestcontext.UserEmail(r.Context())
	})
	h := OptionalAuth(stubValidator{err: errors.New("bad signature")}, logger)(next)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer abc")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, email)
}
