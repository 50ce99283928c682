package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	orderModels "minimarket/internal/orders/models"
	"minimarket/internal/platform/config"
	id "minimarket/pkg/domain"
	dErrors "minimarket/pkg/domain-errors"
	"minimarket/pkg/platform/circuit"
	"minimarket/pkg/platform/sentinel"
	"minimarket/pkg/requestcontext"
)

type ClientSuite struct {
	suite.Suite
	mux    *http.ServeMux
	server *httptest.Server
	client *Client
	calls  atomic.Int32
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	s.mux = http.NewServeMux()
	s.calls.Store(0)
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		s.mux.ServeHTTP(w, r)
	}))
	s.T().Cleanup(s.server.Close)

	client, err := New(config.BackendConfig{
		BaseURL:          s.server.URL + "/api",
		Token:            "svc-token",
		Timeout:          2 * time.Second,
		FailureThreshold: 2,
		BreakerCooldown:  time.Minute,
	})
	s.Require().NoError(err)
	s.client = client
}

func (s *ClientSuite) TestProductBranchDefaults() {
	s.mux.HandleFunc("GET /api/product-branches/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.Equal("Bearer svc-token", r.Header.Get("Authorization"))
		s.Equal("req-1", r.Header.Get("X-Request-ID"))
		_, _ = io.WriteString(w, `{"id": 17, "branchId": "3", "product": {"id": 9, "name": "Arroz", "price": "4.50"}}`)
	})

	ctx := requestcontext.WithRequestID(context.Background(), "req-1")
	pb, err := s.client.GetProductBranch(ctx, "17")
	s.Require().NoError(err)
	s.Equal(id.ProductBranchID("17"), pb.ID)
	s.Equal(id.ProductID("9"), pb.ProductID)
	s.Equal(id.BranchID("3"), pb.BranchID)
	s.Equal("Arroz", pb.Name)
	s.True(decimal.RequireFromString("4.5").Equal(pb.Price))
	s.Zero(pb.Stock, "missing stock defaults to zero")
	s.Zero(pb.StockReserved)
}

func (s *ClientSuite) TestBranchStock() {
	s.mux.HandleFunc("GET /api/branches/{id}/stock", func(w http.ResponseWriter, r *http.Request) {
		s.Equal("3", r.PathValue("id"))
		_, _ = io.WriteString(w, `[{"id": 1, "stock": 10, "stockReserved": 4}, {"id": "2"}, {"stock": 5}]`)
	})

	entries, err := s.client.BranchStock(context.Background(), "3")
	s.Require().NoError(err)
	s.Equal([]StockEntry{
		{ProductBranchID: "1", Stock: 10, StockReserved: 4},
		{ProductBranchID: "2"},
	}, entries)
}

func (s *ClientSuite) TestNearbyBranchesQuery() {
	s.mux.HandleFunc("GET /api/branches/nearby", func(w http.ResponseWriter, r *http.Request) {
		s.Equal("-12.05", r.URL.Query().Get("lat"))
		s.Equal("-77.04", r.URL.Query().Get("lng"))
		_, _ = io.WriteString(w, `[{"id": 1, "name": "Centro"}, {"id": 2}]`)
	})

	branches, err := s.client.NearbyBranches(context.Background(), -12.05, -77.04)
	s.Require().NoError(err)
	s.Require().Len(branches, 2)
	s.Equal("Centro", branches[0].Name)
	s.Equal("Branch 2", branches[1].Name)
}

func (s *ClientSuite) TestUserLocationsEscapesEmail() {
	s.mux.HandleFunc("GET /api/users/{email}/locations", func(w http.ResponseWriter, r *http.Request) {
		s.Equal("ana+x@example.com", r.PathValue("email"))
		_, _ = io.WriteString(w, `[{"id": 5, "city": "Lima", "district": "Miraflores", "latitude": -12.1, "longitude": -77.0}]`)
	})

	locs, err := s.client.UserLocations(context.Background(), "ana+x@example.com")
	s.Require().NoError(err)
	s.Require().Len(locs, 1)
	s.Equal(id.LocationID("5"), locs[0].ID)
	s.Equal("Miraflores Lima", locs[0].Label)
}

func (s *ClientSuite) TestOrderTotalsComputedWhenMissing() {
	s.mux.HandleFunc("GET /api/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{
			"id": 42, "status": "paid", "email": "Ana@Example.com",
			"branch": {"id": 3, "name": "Centro"},
			"lines": [
				{"productBranchId": 1, "quantity": 2, "unitPrice": "1.25"},
				{"quantity": 1, "productBranch": {"id": 2, "product": {"name": "Leche", "price": 3}}}
			]
		}`)
	})

	o, err := s.client.GetOrder(context.Background(), "42")
	s.Require().NoError(err)
	s.Equal(orderModels.StatusPaid, o.Status)
	s.Equal("ana@example.com", o.Email)
	s.Equal(id.BranchID("3"), o.BranchID)
	s.Require().Len(o.Lines, 2)
	s.Equal("Leche", o.Lines[1].Name)
	s.True(decimal.RequireFromString("5.5").Equal(o.Total), o.Total.String())
}

func (s *ClientSuite) TestSubmitOrderSendsPayload() {
	s.mux.HandleFunc("POST /api/orders", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		s.Require().NoError(json.NewDecoder(r.Body).Decode(&body))
		s.Equal("Retiro en tienda", body["address"])
		s.Equal("3", body["branchId"])
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id": 99, "paymentUrl": "https://pay.example/99"}`)
	})

	created, err := s.client.SubmitOrder(context.Background(), orderModels.NewOrder{
		Address:  "Retiro en tienda",
		Pickup:   true,
		BranchID: "3",
		Lines:    []orderModels.NewOrderLine{{ProductBranchID: "1", Quantity: 2}},
	})
	s.Require().NoError(err)
	s.Equal(id.OrderID("99"), created.ID)
	s.Equal("https://pay.example/99", created.PaymentURL)
}

func (s *ClientSuite) TestStatusMapping() {
	s.mux.HandleFunc("PATCH /api/orders/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		switch r.PathValue("id") {
		case "404":
			w.WriteHeader(http.StatusNotFound)
		case "409":
			w.WriteHeader(http.StatusConflict)
			_, _ = io.WriteString(w, `{"message": "order already shipped"}`)
		default:
			w.WriteHeader(http.StatusUnprocessableEntity)
		}
	})

	err := s.client.UpdateOrderStatus(context.Background(), "404", orderModels.StatusPreparing)
	s.True(errors.Is(err, sentinel.ErrNotFound))
	s.True(dErrors.HasCode(ToDomain(err, ""), dErrors.CodeNotFound))

	err = s.client.UpdateOrderStatus(context.Background(), "409", orderModels.StatusPreparing)
	s.True(errors.Is(err, sentinel.ErrConflict))
	domainErr := ToDomain(err, "")
	s.True(dErrors.HasCode(domainErr, dErrors.CodeConflict))
	s.Equal("order already shipped", dErrors.MessageOf(domainErr))

	err = s.client.UpdateOrderStatus(context.Background(), "1", orderModels.StatusPreparing)
	s.Equal(ErrorRejected, CategoryOf(err))
	s.Equal(circuit.StateClosed, s.client.BreakerState(), "4xx answers do not trip the breaker")
}

func (s *ClientSuite) TestBreakerOpensOnServerErrors() {
	s.mux.HandleFunc("GET /api/branches", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	for range 2 {
		_, err := s.client.ListBranches(context.Background())
		s.True(errors.Is(err, sentinel.ErrUnavailable))
	}
	s.Equal(circuit.StateOpen, s.client.BreakerState())
	s.Equal(int32(2), s.calls.Load())

	_, err := s.client.ListBranches(context.Background())
	s.ErrorIs(err, ErrCircuitOpen)
	s.Equal(int32(2), s.calls.Load(), "open breaker fails fast without a call")
	s.True(dErrors.HasCode(ToDomain(err, ""), dErrors.CodeUnavailable))
}

func (s *ClientSuite) TestBadPayload() {
	s.mux.HandleFunc("GET /api/branches", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"not": "a list"}`)
	})

	_, err := s.client.ListBranches(context.Background())
	s.Equal(ErrorBadData, CategoryOf(err))
	s.True(dErrors.HasCode(ToDomain(err, ""), dErrors.CodeInternal))
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	_, err := New(config.BackendConfig{BaseURL: "not a url"})
	require.Error(t, err)
}

func TestWireID(t *testing.T) {
	var v struct {
		A wireID `json:"a"`
		B wireID `json:"b"`
		C wireID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 12, "b": " x-1 ", "c": null}`), &v))
	assert.Equal(t, wireID("12"), v.A)
	assert.Equal(t, wireID("x-1"), v.B)
	assert.Equal(t, wireID(""), v.C)

	assert.Error(t, json.Unmarshal([]byte(`{"a": true}`), &v))
}
