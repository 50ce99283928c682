package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Backend

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"minimarket/internal/backend"
	"minimarket/internal/kvstore"
	"minimarket/internal/location/models"
	id "minimarket/pkg/domain"
	dErrors "minimarket/pkg/domain-errors"
	"minimarket/pkg/platform/sentinel"
	"minimarket/pkg/requestcontext"
)

// Backend is the slice of the REST backend that location selection reads.
type Backend interface {
	UserLocations(ctx context.Context, email string) ([]models.UserLocation, error)
	NearbyBranches(ctx context.Context, lat, lng float64) ([]models.Branch, error)
	BranchProducts(ctx context.Context, branchID id.BranchID) ([]backend.ProductBranch, error)
}

// Service holds the signed-in user's location selection for one storage
// scope. The selection decides which branch catalog the cart can draw from.
type Service struct {
	tx      kvstore.ScopeTx
	backend Backend
	logger  *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(tx kvstore.ScopeTx, b Backend, opts ...Option) (*Service, error) {
	if tx == nil {
		return nil, errors.New("scope transaction is required")
	}
	if b == nil {
		return nil, errors.New("backend is required")
	}
	s := &Service{tx: tx, backend: b, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ListLocations returns the addresses saved by the user.
func (s *Service) ListLocations(ctx context.Context, email string) ([]models.UserLocation, error) {
	email, err := requireEmail(email)
	if err != nil {
		return nil, err
	}
	locs, err := s.backend.UserLocations(ctx, email)
	if err != nil {
		return nil, backend.ToDomain(err, "user not found")
	}
	return locs, nil
}

// Select makes locationID the active location and loads the branches serving
// it. The location must belong to the user.
func (s *Service) Select(ctx context.Context, scope, email string, locationID id.LocationID) (*models.Selection, error) {
	locs, err := s.ListLocations(ctx, email)
	if err != nil {
		return nil, err
	}
	var loc *models.UserLocation
	for i := range locs {
		if locs[i].ID == locationID {
			loc = &locs[i]
			break
		}
	}
	if loc == nil {
		s.logger.WarnContext(ctx, "location selection refused",
			"location_id", locationID,
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, dErrors.New(dErrors.CodeForbidden, "location does not belong to the signed-in user")
	}

	branches, err := s.backend.NearbyBranches(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		return nil, backend.ToDomain(err, "no branches found")
	}
	sel := models.NewSelection(*loc, branches)

	err = s.tx.RunInScope(ctx, scope, func(store kvstore.Store) error {
		return save(ctx, store, email, sel)
	})
	if err != nil {
		return nil, storageError(err)
	}
	s.logger.InfoContext(ctx, "location selected",
		"location_id", locationID,
		"branches", len(sel.Branches),
		"request_id", requestcontext.RequestID(ctx),
	)
	return sel, nil
}

// SelectBranch switches the shopped branch among those already unlocked.
func (s *Service) SelectBranch(ctx context.Context, scope, email string, branchID id.BranchID) (*models.Selection, error) {
	email, err := requireEmail(email)
	if err != nil {
		return nil, err
	}
	var sel *models.Selection
	err = s.tx.RunInScope(ctx, scope, func(store kvstore.Store) error {
		current, err := s.load(ctx, store, email)
		if err != nil {
			return err
		}
		if current == nil {
			return dErrors.New(dErrors.CodeNotFound, "no location selected")
		}
		if !current.Unlocks(branchID) {
			return dErrors.New(dErrors.CodeForbidden, "branch does not serve the selected location")
		}
		current.BranchID = branchID
		sel = current
		return save(ctx, store, email, current)
	})
	if err != nil {
		return nil, storageError(err)
	}
	return sel, nil
}

// Current returns the stored selection or CodeNotFound when there is none.
func (s *Service) Current(ctx context.Context, scope, email string) (*models.Selection, error) {
	email, err := requireEmail(email)
	if err != nil {
		return nil, err
	}
	var sel *models.Selection
	err = s.tx.RunInScope(ctx, scope, func(store kvstore.Store) error {
		sel, err = s.load(ctx, store, email)
		return err
	})
	if err != nil {
		return nil, storageError(err)
	}
	if sel == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "no location selected")
	}
	return sel, nil
}

func (s *Service) Clear(ctx context.Context, scope, email string) error {
	email, err := requireEmail(email)
	if err != nil {
		return err
	}
	err = s.tx.RunInScope(ctx, scope, func(store kvstore.Store) error {
		return store.Remove(ctx, kvstore.LocationKey(email))
	})
	if err != nil {
		return storageError(err)
	}
	return nil
}

// Catalog lists the products of the selected branch, which is what the
// storefront offers for adding to the cart. The cart itself only enforces that
// its lines share one branch.
func (s *Service) Catalog(ctx context.Context, scope, email string) (models.Branch, []backend.ProductBranch, error) {
	sel, err := s.Current(ctx, scope, email)
	if err != nil {
		return models.Branch{}, nil, err
	}
	branch, ok := sel.ActiveBranch()
	if !ok {
		return models.Branch{}, nil, dErrors.New(dErrors.CodeConflict, "no branch serves the selected location")
	}
	products, err := s.backend.BranchProducts(ctx, branch.ID)
	if err != nil {
		return models.Branch{}, nil, backend.ToDomain(err, "branch not found")
	}
	return branch, products, nil
}

// load returns nil when nothing is stored. An unreadable record is dropped.
func (s *Service) load(ctx context.Context, store kvstore.Store, email string) (*models.Selection, error) {
	raw, err := store.Get(ctx, kvstore.LocationKey(email))
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sel models.Selection
	if err := json.Unmarshal([]byte(raw), &sel); err != nil {
		s.logger.WarnContext(ctx, "discarding unreadable location record",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, nil
	}
	if sel.BranchID != "" && !sel.Unlocks(sel.BranchID) {
		sel.BranchID = ""
	}
	return &sel, nil
}

func save(ctx context.Context, store kvstore.Store, email string, sel *models.Selection) error {
	raw, err := json.Marshal(sel)
	if err != nil {
		return err
	}
	return store.Set(ctx, kvstore.LocationKey(email), string(raw))
}

func requireEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	return email, nil
}

// storageError passes domain errors through and marks the rest as storage outages.
func storageError(err error) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeUnavailable, "location storage unavailable")
}
