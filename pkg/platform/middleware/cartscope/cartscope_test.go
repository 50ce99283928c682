package cartscope

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minimarket/pkg/requestcontext"
)

func TestMiddleware(t *testing.T) {
	var scope string
	h := Middleware(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scope = requestcontext.CartScope(r.Context())
	}))

	t.Run("issues a cookie for new browsers", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cart", nil))

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, CookieName, cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, cookies[0].Value, scope)
	})

	t.Run("reuses an existing scope", func(t *testing.T) {
		existing := uuid.NewString()
		r := httptest.NewRequest(http.MethodGet, "/cart", nil)
		r.AddCookie(&http.Cookie{Name: CookieName, Value: existing})
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		assert.Equal(t, existing, scope)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("replaces a tampered cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/cart", nil)
		r.AddCookie(&http.Cookie{Name: CookieName, Value: "../../etc"})
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		assert.NotEqual(t, "../../etc", scope)
		_, err := uuid.Parse(scope)
		assert.NoError(t, err)
	})
}
