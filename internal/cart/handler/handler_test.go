package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"minimarket/internal/cart/handler/mocks"
	"minimarket/internal/cart/models"
	"minimarket/internal/cart/service"
	id "minimarket/pkg/domain"
	dErrors "minimarket/pkg/domain-errors"
	"minimarket/pkg/testutil"
)

type CartHandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	router  chi.Router
}

func TestCartHandlerSuite(t *testing.T) {
	suite.Run(t, new(CartHandlerSuite))
}

func (s *CartHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	s.router = chi.NewRouter()
	New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
}

func (s *CartHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *CartHandlerSuite) do(req *http.Request) *httptest.ResponseRecorder {
	return testutil.DoRequest(s.router, testutil.WithCartScope(req, "device-1"))
}

func sampleCart() *models.Cart {
	return &models.Cart{Lines: []models.Line{{
		ProductBranchID: "1",
		BranchID:        "b1",
		BranchName:      "Centro",
		Name:            "Arroz",
		UnitPrice:       decimal.RequireFromString("4.5"),
		Quantity:        2,
		StockCeiling:    5,
	}}}
}

func (s *CartHandlerSuite) TestGetCartReportsDerivedTotals() {
	s.service.EXPECT().Get(gomock.Any(), "device-1").Return(sampleCart(), nil)

	rr := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/cart"))
	testutil.AssertStatusOK(s.T(), rr)
	resp := testutil.UnmarshalResponse[CartResponse](s.T(), rr)
	s.Equal("b1", resp.BranchID)
	s.Equal(2, resp.TotalQuantity)
	s.Equal("9.00", resp.Subtotal)
	s.Equal("9.00", resp.Lines[0].Subtotal)
}

func (s *CartHandlerSuite) TestAddItem() {
	s.Run("rejection is a 200 with a warning", func() {
		s.service.EXPECT().AddItem(gomock.Any(), "device-1", id.ProductBranchID("7"), 1).
			Return(&service.Result{Cart: sampleCart(), Outcome: models.OutcomeBranchConflict}, nil)

		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/cart/items", map[string]any{"product_branch_id": "7"}))
		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[MutationResponse](s.T(), rr)
		s.False(resp.Applied)
		s.Equal("branch_conflict", resp.Outcome)
		s.NotEmpty(resp.Warning)
		s.Len(resp.Cart.Lines, 1)
	})

	s.Run("quantity out of range is a validation error", func() {
		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/cart/items", map[string]any{"product_branch_id": "7", "quantity": -1}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnprocessableEntity, string(dErrors.CodeValidation))
	})

	s.Run("missing body", func() {
		rr := s.do(testutil.NewRequest(s.T(), http.MethodPost, "/cart/items"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeBadRequest))
	})

	s.Run("backend outage is a 503", func() {
		s.service.EXPECT().AddItem(gomock.Any(), "device-1", id.ProductBranchID("7"), 2).
			Return(nil, dErrors.New(dErrors.CodeUnavailable, "backend unavailable, try again later"))

		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/cart/items", map[string]any{"product_branch_id": "7", "quantity": 2}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusServiceUnavailable, string(dErrors.CodeUnavailable))
	})
}

func (s *CartHandlerSuite) TestLineMutations() {
	applied := &service.Result{Cart: sampleCart(), Outcome: models.OutcomeApplied}
	s.service.EXPECT().IncrementLine(gomock.Any(), "device-1", id.ProductBranchID("1")).Return(applied, nil)
	s.service.EXPECT().DecrementLine(gomock.Any(), "device-1", id.ProductBranchID("1")).Return(applied, nil)
	s.service.EXPECT().RemoveLine(gomock.Any(), "device-1", id.ProductBranchID("1")).
		Return(&service.Result{Cart: models.NewCart(), Outcome: models.OutcomeApplied}, nil)

	for _, req := range []*http.Request{
		testutil.NewRequest(s.T(), http.MethodPost, "/cart/items/1/increment"),
		testutil.NewRequest(s.T(), http.MethodPost, "/cart/items/1/decrement"),
		testutil.NewRequest(s.T(), http.MethodDelete, "/cart/items/1"),
	} {
		rr := s.do(req)
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "applied", true)
	}
}

func (s *CartHandlerSuite) TestInvalidKey() {
	rr := s.do(testutil.NewRequest(s.T(), http.MethodPost, "/cart/items/bad%20key/increment"))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeInvalidInput))
}

func (s *CartHandlerSuite) TestRefreshReportsLinesOverCeiling() {
	s.service.EXPECT().RefreshStock(gomock.Any(), "device-1").Return(&service.Result{
		Cart:        sampleCart(),
		Outcome:     models.OutcomeApplied,
		OverCeiling: []id.ProductBranchID{"1"},
	}, nil)

	rr := s.do(testutil.NewRequest(s.T(), http.MethodPost, "/cart/stock/refresh"))
	testutil.AssertStatusOK(s.T(), rr)
	resp := testutil.UnmarshalResponse[MutationResponse](s.T(), rr)
	s.True(resp.Applied)
	s.Equal([]string{"1"}, resp.OverCeiling)
	s.NotEmpty(resp.Warning)
}

func (s *CartHandlerSuite) TestClear() {
	s.service.EXPECT().Clear(gomock.Any(), "device-1").Return(nil)
	rr := s.do(testutil.NewRequest(s.T(), http.MethodDelete, "/cart"))
	testutil.AssertStatus(s.T(), rr, http.StatusNoContent)
}

func (s *CartHandlerSuite) TestMissingScopeIsInternal() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/cart"))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusInternalServerError, string(dErrors.CodeInternal))
}
