package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Catalog,AuditPublisher

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"minimarket/internal/audit"
	"minimarket/internal/backend"
	"minimarket/internal/cart/metrics"
	"minimarket/internal/cart/models"
	cartstore "minimarket/internal/cart/store"
	"minimarket/internal/kvstore"
	id "minimarket/pkg/domain"
	dErrors "minimarket/pkg/domain-errors"
	"minimarket/pkg/requestcontext"
)

// Catalog is the slice of the backend the cart needs.
type Catalog interface {
	GetProductBranch(ctx context.Context, pbID id.ProductBranchID) (*backend.ProductBranch, error)
	BranchStock(ctx context.Context, branchID id.BranchID) ([]backend.StockEntry, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Result is the cart after a mutation attempt. A rejected mutation returns
// the unchanged cart with the rejection outcome and no error.
type Result struct {
	Cart        *models.Cart
	Outcome     models.Outcome
	OverCeiling []id.ProductBranchID
}

// Service runs load, mutate and save for one storage scope at a time.
type Service struct {
	tx      kvstore.ScopeTx
	catalog Catalog
	logger  *slog.Logger
	metrics *metrics.Metrics
	auditor AuditPublisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

func New(tx kvstore.ScopeTx, catalog Catalog, opts ...Option) (*Service, error) {
	if tx == nil {
		return nil, errors.New("scope transaction is required")
	}
	if catalog == nil {
		return nil, errors.New("catalog is required")
	}
	s := &Service{
		tx:      tx,
		catalog: catalog,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) Get(ctx context.Context, scope string) (*models.Cart, error) {
	var cart *models.Cart
	err := s.tx.RunInScope(ctx, scope, func(store kvstore.Store) error {
		var err error
		cart, err = s.load(ctx, store)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem resolves the product at its branch and merges it into the cart.
func (s *Service) AddItem(ctx context.Context, scope string, pbID id.ProductBranchID, quantity int) (*Result, error) {
	pb, err := s.catalog.GetProductBranch(ctx, pbID)
	if err != nil {
		return nil, backend.ToDomain(err, "product not found at this branch")
	}
	line := lineFromProduct(pb, quantity)
	return s.mutate(ctx, scope, "add_item", func(cart *models.Cart) models.Outcome {
		return cart.AddItem(line)
	})
}

// IncrementLine adds one unit after checking a fresh stock snapshot of the
// cart's branch. A failed snapshot leaves the cart unchanged.
func (s *Service) IncrementLine(ctx context.Context, scope string, key id.ProductBranchID) (*Result, error) {
	current, err := s.Get(ctx, scope)
	if err != nil {
		return nil, err
	}
	if _, ok := current.Line(key); !ok {
		return s.reject(ctx, "increment_line", current, models.OutcomeLineNotFound), nil
	}
	snapshot, err := s.stockSnapshot(ctx, current.BranchID())
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, scope, "increment_line", func(cart *models.Cart) models.Outcome {
		return cart.IncrementLine(key, snapshot[key])
	})
}

func (s *Service) DecrementLine(ctx context.Context, scope string, key id.ProductBranchID) (*Result, error) {
	return s.mutate(ctx, scope, "decrement_line", func(cart *models.Cart) models.Outcome {
		return cart.DecrementLine(key)
	})
}

func (s *Service) RemoveLine(ctx context.Context, scope string, key id.ProductBranchID) (*Result, error) {
	return s.mutate(ctx, scope, "remove_line", func(cart *models.Cart) models.Outcome {
		return cart.RemoveLine(key)
	})
}

// Clear deletes the persisted cart.
func (s *Service) Clear(ctx context.Context, scope string) error {
	var removed int
	err := s.tx.RunInScope(ctx, scope, func(store kvstore.Store) error {
		cart, err := s.load(ctx, store)
		if err != nil {
			return err
		}
		removed = len(cart.Lines)
		if err := cartstore.Delete(ctx, store); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear cart")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.metrics.IncrementMutation("clear", string(models.OutcomeApplied))
	s.emit(ctx, audit.Event{
		Type:        audit.EventCartCleared,
		AggregateID: scope,
		Actor:       requestcontext.UserEmail(ctx),
		Attributes:  map[string]string{"lines": strconv.Itoa(removed)},
	})
	return nil
}

// RefreshStock re-reads the branch snapshot and updates every line's ceiling.
// Quantities are never changed; lines now over their ceiling are reported.
func (s *Service) RefreshStock(ctx context.Context, scope string) (*Result, error) {
	current, err := s.Get(ctx, scope)
	if err != nil {
		return nil, err
	}
	if current.IsEmpty() {
		return &Result{Cart: current, Outcome: models.OutcomeApplied}, nil
	}
	branchID := current.BranchID()
	snapshot, err := s.stockSnapshot(ctx, branchID)
	if err != nil {
		return nil, err
	}

	var over []id.ProductBranchID
	res, err := s.mutate(ctx, scope, "refresh_stock", func(cart *models.Cart) models.Outcome {
		if cart.BranchID() != branchID {
			// the cart moved to another branch while the snapshot was in flight
			return models.OutcomeBranchConflict
		}
		over = cart.ApplyStockSnapshot(snapshot)
		return models.OutcomeApplied
	})
	if err != nil {
		return nil, err
	}
	res.OverCeiling = over
	s.metrics.AddLinesOverCeiling(len(over))
	return res, nil
}

// mutate applies fn under the scope lock and saves only applied mutations.
func (s *Service) mutate(ctx context.Context, scope, op string, fn func(*models.Cart) models.Outcome) (*Result, error) {
	var res *Result
	err := s.tx.RunInScope(ctx, scope, func(store kvstore.Store) error {
		cart, err := s.load(ctx, store)
		if err != nil {
			return err
		}
		outcome := fn(cart)
		if !outcome.Applied() {
			res = s.reject(ctx, op, cart, outcome)
			return nil
		}
		if err := cartstore.Save(ctx, store, cart); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save cart")
		}
		s.metrics.IncrementMutation(op, string(outcome))
		res = &Result{Cart: cart, Outcome: outcome}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Service) reject(ctx context.Context, op string, cart *models.Cart, outcome models.Outcome) *Result {
	s.metrics.IncrementMutation(op, string(outcome))
	s.logger.InfoContext(ctx, "cart mutation rejected",
		"op", op,
		"outcome", outcome,
		"request_id", requestcontext.RequestID(ctx),
	)
	return &Result{Cart: cart, Outcome: outcome}
}

// load reads the scope's cart. An unreadable record is treated as an empty
// cart; the next applied mutation overwrites it.
func (s *Service) load(ctx context.Context, store kvstore.Store) (*models.Cart, error) {
	cart, err := cartstore.Load(ctx, store)
	if errors.Is(err, cartstore.ErrUnreadable) {
		s.logger.WarnContext(ctx, "discarding unreadable cart record",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return models.NewCart(), nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "cart storage unavailable")
	}
	return cart, nil
}

// stockSnapshot maps each product at the branch to its available stock.
func (s *Service) stockSnapshot(ctx context.Context, branchID id.BranchID) (map[id.ProductBranchID]int, error) {
	entries, err := s.catalog.BranchStock(ctx, branchID)
	if err != nil {
		s.metrics.IncrementStockFetchFailure()
		s.logger.WarnContext(ctx, "stock snapshot failed",
			"branch_id", branchID,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, backend.ToDomain(err, "branch not found")
	}
	snapshot := make(map[id.ProductBranchID]int, len(entries))
	for _, e := range entries {
		snapshot[e.ProductBranchID] = models.AvailableStock(e.Stock, e.StockReserved)
	}
	return snapshot, nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	// audit failures are logged by the publisher; the cart write already happened
	_ = s.auditor.Emit(ctx, event)
}

func lineFromProduct(pb *backend.ProductBranch, quantity int) models.Line {
	return models.Line{
		ProductBranchID: pb.ID,
		ProductID:       pb.ProductID,
		BranchID:        pb.BranchID,
		BranchName:      pb.BranchName,
		Name:            pb.Name,
		UnitPrice:       pb.Price,
		ImageRef:        pb.ImageRef,
		Quantity:        quantity,
		StockCeiling:    models.AvailableStock(pb.Stock, pb.StockReserved),
	}
}
