package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"minimarket/internal/checkout"
	"minimarket/internal/checkout/handler/mocks"
	checkoutService "minimarket/internal/checkout/service"
	dErrors "minimarket/pkg/domain-errors"
	"minimarket/pkg/requestcontext"
	"minimarket/pkg/testutil"
)

type CheckoutHandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	router  chi.Router
	now     time.Time
}

func TestCheckoutHandlerSuite(t *testing.T) {
	suite.Run(t, new(CheckoutHandlerSuite))
}

func (s *CheckoutHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)

	loc, err := time.LoadLocation("America/Lima")
	s.Require().NoError(err)
	validator, err := checkout.NewValidator(loc, 5, 9, 22)
	s.Require().NoError(err)
	s.now = time.Date(2024, 6, 1, 10, 0, 0, 0, loc)

	h := New(s.service, validator, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.router = chi.NewRouter()
	h.RegisterPublic(s.router)
	h.RegisterAuthenticated(s.router)
}

func (s *CheckoutHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *CheckoutHandlerSuite) do(req *http.Request) *httptest.ResponseRecorder {
	req = req.WithContext(requestcontext.WithTime(req.Context(), s.now))
	return testutil.DoRequest(s.router, testutil.WithCartScope(req, "device-1"))
}

func body(deliveryAt string) map[string]any {
	return map[string]any{
		"name":        "Ana",
		"surname":     "Quispe",
		"phone":       "987654321",
		"email":       "Ana@Example.com",
		"address":     "Av. Larco 123",
		"delivery_at": deliveryAt,
	}
}

func (s *CheckoutHandlerSuite) TestWindow() {
	rr := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/checkout/window?delivery_at=2024-06-01T23:00"))
	testutil.AssertStatusOK(s.T(), rr)
	resp := testutil.UnmarshalResponse[map[string]any](s.T(), rr)
	s.Equal(false, (*resp)["submit_enabled"])
	s.Equal(float64(9), (*resp)["open_hour"])
	s.Equal("America/Lima", (*resp)["timezone"])
}

func (s *CheckoutHandlerSuite) TestValidate() {
	s.Run("valid form", func() {
		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/checkout/validate", body("2024-06-03T14:00")))
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "valid", true)
	})

	s.Run("every invalid field is listed", func() {
		b := body("2024-06-07T10:00")
		b["phone"] = "98765432"
		b["email"] = "a@b"
		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/checkout/validate", b))
		testutil.AssertStatus(s.T(), rr, http.StatusUnprocessableEntity)
		resp := testutil.UnmarshalResponse[FieldErrorsResponse](s.T(), rr)
		s.Equal(string(dErrors.CodeValidation), resp.Error)
		s.Len(resp.Fields, 3)
		s.Contains(resp.Fields, checkout.FieldPhone)
		s.Contains(resp.Fields, checkout.FieldEmail)
		s.Contains(resp.Fields, checkout.FieldDeliveryAt)
	})

	s.Run("unparseable timestamp is a field error", func() {
		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/checkout/validate", body("soon")))
		testutil.AssertStatus(s.T(), rr, http.StatusUnprocessableEntity)
		resp := testutil.UnmarshalResponse[FieldErrorsResponse](s.T(), rr)
		s.Contains(resp.Fields, checkout.FieldDeliveryAt)
	})

	s.Run("unparseable timestamp does not hide other violations", func() {
		b := body("tomorrow at noon")
		b["name"] = ""
		b["phone"] = "123"
		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/checkout/validate", b))
		testutil.AssertStatus(s.T(), rr, http.StatusUnprocessableEntity)
		resp := testutil.UnmarshalResponse[FieldErrorsResponse](s.T(), rr)
		s.Len(resp.Fields, 3)
		s.Contains(resp.Fields, checkout.FieldName)
		s.Contains(resp.Fields, checkout.FieldPhone)
		s.Equal("delivery_at must be RFC 3339 or YYYY-MM-DDTHH:MM", resp.Fields[checkout.FieldDeliveryAt])
	})
}

func (s *CheckoutHandlerSuite) TestSubmit() {
	s.Run("requires a signed-in user", func() {
		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/checkout", body("2024-06-03T14:00")))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, string(dErrors.CodeUnauthorized))
	})

	s.Run("created", func() {
		s.service.EXPECT().Submit(gomock.Any(), "device-1", gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, f checkout.Fields) (*checkoutService.Submission, error) {
				s.Equal("ana@example.com", f.Email)
				s.Equal(14, f.DeliveryAt.Hour())
				return &checkoutService.Submission{OrderID: "42", Total: decimal.RequireFromString("6"), DeliveryAt: f.DeliveryAt}, nil
			})
		req := testutil.WithUser(testutil.NewJSONRequest(s.T(), http.MethodPost, "/checkout", body("2024-06-03T14:00")), "ana@example.com")
		rr := s.do(req)
		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		resp := testutil.UnmarshalResponse[SubmissionResponse](s.T(), rr)
		s.Equal("42", resp.OrderID)
		s.Equal("6.00", resp.Total)
	})

	s.Run("empty cart is a conflict", func() {
		s.service.EXPECT().Submit(gomock.Any(), "device-1", gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeConflict, "the cart is empty"))
		req := testutil.WithUser(testutil.NewJSONRequest(s.T(), http.MethodPost, "/checkout", body("2024-06-03T14:00")), "ana@example.com")
		rr := s.do(req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, string(dErrors.CodeConflict))
	})

	s.Run("unparseable timestamp reports every field without submitting", func() {
		b := body("next week")
		b["surname"] = " "
		b["email"] = "ana@"
		req := testutil.WithUser(testutil.NewJSONRequest(s.T(), http.MethodPost, "/checkout", b), "ana@example.com")
		rr := s.do(req)
		testutil.AssertStatus(s.T(), rr, http.StatusUnprocessableEntity)
		resp := testutil.UnmarshalResponse[FieldErrorsResponse](s.T(), rr)
		s.Len(resp.Fields, 3)
		s.Contains(resp.Fields, checkout.FieldSurname)
		s.Contains(resp.Fields, checkout.FieldEmail)
		s.Contains(resp.Fields, checkout.FieldDeliveryAt)
	})

	s.Run("service validation errors keep their fields", func() {
		s.service.EXPECT().Submit(gomock.Any(), "device-1", gomock.Any()).
			Return(nil, &checkout.ValidationError{Errors: checkout.FieldErrors{checkout.FieldName: "Name is required."}})
		req := testutil.WithUser(testutil.NewJSONRequest(s.T(), http.MethodPost, "/checkout", body("2024-06-03T14:00")), "ana@example.com")
		rr := s.do(req)
		testutil.AssertStatus(s.T(), rr, http.StatusUnprocessableEntity)
		resp := testutil.UnmarshalResponse[FieldErrorsResponse](s.T(), rr)
		s.Contains(resp.Fields, checkout.FieldName)
	})
}
