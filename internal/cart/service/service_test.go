package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"minimarket/internal/audit"
	"minimarket/internal/backend"
	"minimarket/internal/cart/models"
	"minimarket/internal/cart/service/mocks"
	"minimarket/internal/kvstore"
	id "minimarket/pkg/domain"
	dErrors "minimarket/pkg/domain-errors"
)

// =============================================================================
// Cart Service Test Suite
// =============================================================================
// The service owns the load, mutate and save cycle. Tests use the in-memory
// store for persistence and mocks for the backend catalog.

const scope = "device-1"

type CartServiceSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	catalog *mocks.MockCatalog
	auditor *mocks.MockAuditPublisher
	kv      *kvstore.InMemory
	service *Service
	ctx     context.Context
}

func TestCartServiceSuite(t *testing.T) {
	suite.Run(t, new(CartServiceSuite))
}

func (s *CartServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.catalog = mocks.NewMockCatalog(s.ctrl)
	s.auditor = mocks.NewMockAuditPublisher(s.ctrl)
	s.kv = kvstore.NewInMemory()
	s.ctx = context.Background()

	svc, err := New(
		kvstore.NewShardedScopeTx(s.kv, 0),
		s.catalog,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditPublisher(s.auditor),
	)
	s.Require().NoError(err)
	s.service = svc
}

func (s *CartServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func product(pbID, branchID string, stock, reserved int) *backend.ProductBranch {
	return &backend.ProductBranch{
		ID:            id.ProductBranchID(pbID),
		ProductID:     id.ProductID("p" + pbID),
		BranchID:      id.BranchID(branchID),
		BranchName:    "Branch " + branchID,
		Name:          "Product " + pbID,
		Price:         decimal.RequireFromString("2.50"),
		Stock:         stock,
		StockReserved: reserved,
	}
}

func (s *CartServiceSuite) add(pbID, branchID string, qty, stock, reserved int) *Result {
	s.T().Helper()
	s.catalog.EXPECT().GetProductBranch(gomock.Any(), id.ProductBranchID(pbID)).
		Return(product(pbID, branchID, stock, reserved), nil)
	res, err := s.service.AddItem(s.ctx, scope, id.ProductBranchID(pbID), qty)
	s.Require().NoError(err)
	return res
}

func (s *CartServiceSuite) persisted() *models.Cart {
	s.T().Helper()
	cart, err := s.service.Get(s.ctx, scope)
	s.Require().NoError(err)
	return cart
}

func (s *CartServiceSuite) TestNew() {
	s.Run("nil transaction returns error", func() {
		_, err := New(nil, s.catalog)
		s.ErrorContains(err, "scope transaction is required")
	})
	s.Run("nil catalog returns error", func() {
		_, err := New(kvstore.NewShardedScopeTx(s.kv, 0), nil)
		s.ErrorContains(err, "catalog is required")
	})
}

func (s *CartServiceSuite) TestAddItem() {
	s.Run("ceiling is derived from stock minus reserved", func() {
		res := s.add("1", "b1", 2, 10, 7)
		s.Equal(models.OutcomeApplied, res.Outcome)
		line, ok := s.persisted().Line("1")
		s.Require().True(ok)
		s.Equal(3, line.StockCeiling)
		s.Equal(2, line.Quantity)
	})

	s.Run("merge over ceiling is rejected and nothing is written", func() {
		res := s.add("1", "b1", 2, 10, 7)
		s.Equal(models.OutcomeStockExceeded, res.Outcome)
		line, _ := s.persisted().Line("1")
		s.Equal(2, line.Quantity)
	})

	s.Run("another branch is a branch conflict", func() {
		res := s.add("9", "b2", 1, 5, 0)
		s.Equal(models.OutcomeBranchConflict, res.Outcome)
		s.NotEmpty(res.Outcome.Warning())
		s.Len(s.persisted().Lines, 1)
	})

	s.Run("unknown product surfaces not found", func() {
		s.catalog.EXPECT().GetProductBranch(gomock.Any(), id.ProductBranchID("404")).
			Return(nil, &backend.Error{Category: backend.ErrorNotFound, Op: "get_product_branch"})
		_, err := s.service.AddItem(s.ctx, scope, "404", 1)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *CartServiceSuite) TestIncrementLine() {
	s.add("1", "b1", 1, 2, 0)

	s.Run("uses the fresh snapshot and refreshes the ceiling", func() {
		s.catalog.EXPECT().BranchStock(gomock.Any(), id.BranchID("b1")).
			Return([]backend.StockEntry{{ProductBranchID: "1", Stock: 8, StockReserved: 3}}, nil)
		res, err := s.service.IncrementLine(s.ctx, scope, "1")
		s.Require().NoError(err)
		s.Equal(models.OutcomeApplied, res.Outcome)
		line, _ := s.persisted().Line("1")
		s.Equal(2, line.Quantity)
		s.Equal(5, line.StockCeiling)
	})

	s.Run("rejected when the snapshot has no room", func() {
		s.catalog.EXPECT().BranchStock(gomock.Any(), id.BranchID("b1")).
			Return([]backend.StockEntry{{ProductBranchID: "1", Stock: 2}}, nil)
		res, err := s.service.IncrementLine(s.ctx, scope, "1")
		s.Require().NoError(err)
		s.Equal(models.OutcomeStockExceeded, res.Outcome)
		line, _ := s.persisted().Line("1")
		s.Equal(2, line.Quantity)
	})

	s.Run("stock fetch failure leaves the cart unchanged", func() {
		s.catalog.EXPECT().BranchStock(gomock.Any(), id.BranchID("b1")).
			Return(nil, &backend.Error{Category: backend.ErrorOutage, Op: "branch_stock"})
		_, err := s.service.IncrementLine(s.ctx, scope, "1")
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
		line, _ := s.persisted().Line("1")
		s.Equal(2, line.Quantity)
	})

	s.Run("missing line needs no stock fetch", func() {
		res, err := s.service.IncrementLine(s.ctx, scope, "nope")
		s.Require().NoError(err)
		s.Equal(models.OutcomeLineNotFound, res.Outcome)
	})
}

func (s *CartServiceSuite) TestDecrementAndRemove() {
	s.add("1", "b1", 2, 5, 0)
	s.add("2", "b1", 1, 5, 0)

	res, err := s.service.DecrementLine(s.ctx, scope, "1")
	s.Require().NoError(err)
	s.Equal(models.OutcomeApplied, res.Outcome)

	res, err = s.service.DecrementLine(s.ctx, scope, "2")
	s.Require().NoError(err)
	s.Equal(models.OutcomeApplied, res.Outcome)
	_, ok := s.persisted().Line("2")
	s.False(ok, "decrement at quantity 1 removes the line")

	res, err = s.service.RemoveLine(s.ctx, scope, "1")
	s.Require().NoError(err)
	s.True(res.Cart.IsEmpty())

	res, err = s.service.RemoveLine(s.ctx, scope, "1")
	s.Require().NoError(err)
	s.Equal(models.OutcomeLineNotFound, res.Outcome)
}

func (s *CartServiceSuite) TestClearDeletesRecord() {
	s.add("1", "b1", 1, 5, 0)
	s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e audit.Event) error {
		s.Equal(audit.EventCartCleared, e.Type)
		s.Equal(scope, e.AggregateID)
		s.Equal("1", e.Attributes["lines"])
		return nil
	})

	s.Require().NoError(s.service.Clear(s.ctx, scope))
	_, err := kvstore.Scoped(s.kv, scope).Get(s.ctx, kvstore.CartKey)
	s.Error(err, "the record is removed, not replaced by an empty array")
	s.True(s.persisted().IsEmpty())
}

func (s *CartServiceSuite) TestRefreshStock() {
	s.add("1", "b1", 3, 5, 0)
	s.add("2", "b1", 1, 5, 0)

	s.catalog.EXPECT().BranchStock(gomock.Any(), id.BranchID("b1")).
		Return([]backend.StockEntry{{ProductBranchID: "1", Stock: 2}}, nil)
	res, err := s.service.RefreshStock(s.ctx, scope)
	s.Require().NoError(err)
	s.Equal([]id.ProductBranchID{"1"}, res.OverCeiling)

	line, _ := s.persisted().Line("1")
	s.Equal(3, line.Quantity, "refresh never changes quantities")
	s.Equal(2, line.StockCeiling)
	other, _ := s.persisted().Line("2")
	s.Equal(5, other.StockCeiling, "lines missing from the snapshot keep their ceiling")
}

func (s *CartServiceSuite) TestRefreshStockOnEmptyCartSkipsBackend() {
	res, err := s.service.RefreshStock(s.ctx, scope)
	s.Require().NoError(err)
	s.True(res.Cart.IsEmpty())
}

func (s *CartServiceSuite) TestUnreadableRecordIsTreatedAsEmpty() {
	s.Require().NoError(kvstore.Scoped(s.kv, scope).Set(s.ctx, kvstore.CartKey, "{not json"))
	s.True(s.persisted().IsEmpty())

	res := s.add("1", "b1", 1, 5, 0)
	s.Equal(models.OutcomeApplied, res.Outcome)
	s.Len(s.persisted().Lines, 1)
}

type brokenStore struct{ kvstore.Store }

func (brokenStore) Get(context.Context, string) (string, error) {
	return "", errors.New("connection refused")
}

func (s *CartServiceSuite) TestStorageFailureIsUnavailable() {
	svc, err := New(kvstore.NewShardedScopeTx(brokenStore{}, 0), s.catalog)
	s.Require().NoError(err)
	_, err = svc.Get(s.ctx, scope)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
}
