package httptransport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	cartHandler "minimarket/internal/cart/handler"
	cartMocks "minimarket/internal/cart/handler/mocks"
	cartModels "minimarket/internal/cart/models"
	ordersHandler "minimarket/internal/orders/handler"
	ordersMocks "minimarket/internal/orders/handler/mocks"
	"minimarket/internal/orders/models"
	"minimarket/pkg/platform/circuit"
	"minimarket/pkg/platform/middleware/auth"
	"minimarket/pkg/platform/middleware/cartscope"
	"minimarket/pkg/platform/middleware/request"
	"minimarket/pkg/testutil"
)

type stubTokens map[string]auth.JWTClaims

func (s stubTokens) ValidateToken(token string) (*auth.JWTClaims, error) {
	c, ok := s[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return &c, nil
}

func newTestRouter(t *testing.T, health *Health) (http.Handler, *cartMocks.MockService, *ordersMocks.MockService) {
	ctrl := gomock.NewController(t)
	carts := cartMocks.NewMockService(ctrl)
	orders := ordersMocks.NewMockService(ctrl)
	orders.EXPECT().AllowedTransitions(gomock.Any()).DoAndReturn(models.AllowedTransitions).AnyTimes()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := NewRouter(Deps{
		Logger:     logger,
		AdminToken: "ops-secret",
		Tokens: stubTokens{
			"customer": {Email: "ana@example.com", Role: "customer"},
			"admin":    {Email: "ops@example.com", Role: "admin"},
		},
		Cart:   cartHandler.New(carts, logger),
		Orders: ordersHandler.New(orders, logger),
		Health: health,
	})
	return router, carts, orders
}

func withBearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestHealth(t *testing.T) {
	t.Run("all checks pass", func(t *testing.T) {
		health := NewHealth(map[string]Check{
			"storage": func(context.Context) error { return nil },
		}, func() circuit.State { return circuit.StateClosed })
		router, _, _ := newTestRouter(t, health)

		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/health"))
		testutil.AssertStatusOK(t, rr)
		resp := testutil.UnmarshalResponse[HealthResponse](t, rr)
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, "ok", resp.Checks["storage"])
		assert.Equal(t, "closed", resp.Backend)
	})

	t.Run("open breaker degrades", func(t *testing.T) {
		health := NewHealth(nil, func() circuit.State { return circuit.StateOpen })
		router, _, _ := newTestRouter(t, health)

		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/health"))
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "status", "degraded")
	})

	t.Run("storage failure is unavailable", func(t *testing.T) {
		health := NewHealth(map[string]Check{
			"storage": func(context.Context) error { return errors.New("connection refused") },
		}, nil)
		router, _, _ := newTestRouter(t, health)

		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/health"))
		testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
		testutil.AssertJSONContains(t, rr, "status", "unavailable")
	})
}

func TestRequestIDIsEchoed(t *testing.T) {
	router, _, _ := newTestRouter(t, NewHealth(nil, nil))
	req := testutil.NewRequest(t, http.MethodGet, "/health")
	req.Header.Set(request.HeaderRequestID, "req-123")

	rr := testutil.DoRequest(router, req)
	assert.Equal(t, "req-123", rr.Header().Get(request.HeaderRequestID))
}

func TestCartIsAnonymousAndScoped(t *testing.T) {
	router, carts, _ := newTestRouter(t, nil)
	carts.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cartModels.NewCart(), nil)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/cart"))
	testutil.AssertStatusOK(t, rr)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, cartscope.CookieName, cookies[0].Name)
}

func TestCustomerRoutesRequireToken(t *testing.T) {
	router, _, orders := newTestRouter(t, nil)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/me/orders"))
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)

	orders.EXPECT().ListForCustomer(gomock.Any(), "ana@example.com").Return(nil, nil)
	rr = testutil.DoRequest(router, withBearer(testutil.NewRequest(t, http.MethodGet, "/me/orders"), "customer"))
	testutil.AssertStatusOK(t, rr)
}

func TestAdminRoutes(t *testing.T) {
	router, _, _ := newTestRouter(t, nil)
	path := "/admin/orders/statuses"

	t.Run("anonymous is unauthorized", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, path))
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})

	t.Run("customer is forbidden", func(t *testing.T) {
		rr := testutil.DoRequest(router, withBearer(testutil.NewRequest(t, http.MethodGet, path), "customer"))
		testutil.AssertStatus(t, rr, http.StatusForbidden)
	})

	t.Run("admin role is admitted", func(t *testing.T) {
		rr := testutil.DoRequest(router, withBearer(testutil.NewRequest(t, http.MethodGet, path), "admin"))
		testutil.AssertStatusOK(t, rr)
	})

	t.Run("operator token is admitted", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, path)
		req.Header.Set("X-Admin-Token", "ops-secret")
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatusOK(t, rr)
	})
}
