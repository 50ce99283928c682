// Package httptransport assembles the storefront HTTP surface: the middleware
// chain, public and authenticated route groups, health and metrics.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	cartHandler "minimarket/internal/cart/handler"
	checkoutHandler "minimarket/internal/checkout/handler"
	locationHandler "minimarket/internal/location/handler"
	ordersHandler "minimarket/internal/orders/handler"
	"minimarket/internal/platform/metrics"
	"minimarket/internal/platform/tracing"
	"minimarket/pkg/platform/middleware/admin"
	"minimarket/pkg/platform/middleware/auth"
	"minimarket/pkg/platform/middleware/cartscope"
	"minimarket/pkg/platform/middleware/metadata"
	"minimarket/pkg/platform/middleware/request"
	"minimarket/pkg/platform/middleware/requesttime"
)

const defaultRequestTimeout = 30 * time.Second

// Deps are the handlers and cross-cutting pieces the router mounts.
type Deps struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	Tokens         auth.JWTValidator
	AdminToken     string
	CookieSecure   bool
	RequestTimeout time.Duration
	ServiceName    string

	Cart     *cartHandler.Handler
	Checkout *checkoutHandler.Handler
	Orders   *ordersHandler.Handler
	Location *locationHandler.Handler
	Health   *Health
}

// NewRouter wires every endpoint behind the shared middleware chain.
//
// Route groups:
//   - public: health, metrics, cart, checkout window and validation
//   - signed-in: checkout submission, location context, catalog, order history
//   - admin: order console and dashboard
func NewRouter(d Deps) http.Handler {
	timeout := d.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	service := d.ServiceName
	if service == "" {
		service = "minimarket"
	}

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.Recovery(d.Logger))
	r.Use(request.Logger(d.Logger))
	r.Use(tracing.Middleware(service))
	r.Use(d.Metrics.LatencyMiddleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)

	if d.Health != nil {
		r.Get("/health", d.Health.ServeHTTP)
	}
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(cartscope.Middleware(d.CookieSecure))
		r.Use(request.Timeout(timeout))

		// anonymous browsing; a valid token still identifies the shopper
		r.Group(func(r chi.Router) {
			r.Use(auth.OptionalAuth(d.Tokens, d.Logger))
			if d.Cart != nil {
				d.Cart.Register(r)
			}
			if d.Checkout != nil {
				d.Checkout.RegisterPublic(r)
			}
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(d.Tokens, d.Logger))
			if d.Checkout != nil {
				d.Checkout.RegisterAuthenticated(r)
			}
			if d.Location != nil {
				d.Location.Register(r)
			}
			if d.Orders != nil {
				d.Orders.RegisterCustomer(r)
			}
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.OptionalAuth(d.Tokens, d.Logger))
			r.Use(admin.RequireAdmin(d.AdminToken, d.Logger))
			if d.Orders != nil {
				d.Orders.RegisterAdmin(r)
			}
		})
	})
	return r
}
