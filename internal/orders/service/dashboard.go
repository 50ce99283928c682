package service

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"minimarket/internal/backend"
	locationModels "minimarket/internal/location/models"
	"minimarket/internal/orders/models"
	id "minimarket/pkg/domain"
)

const (
	dashboardDays        = 7
	dashboardTopProducts = 5
	dashboardTimeout     = 10 * time.Second
)

// Dashboard aggregates the admin overview. Revenue, branch totals and top
// products only count orders that were paid and not cancelled.
type Dashboard struct {
	StatusCounts []StatusCount
	Branches     []BranchRevenue
	OrdersPerDay []DayCount
	TopProducts  []ProductQuantity
	Revenue      decimal.Decimal
	TotalOrders  int
}

type StatusCount struct {
	Status models.Status
	Count  int
}

type BranchRevenue struct {
	BranchID   id.BranchID
	BranchName string
	Orders     int
	Revenue    decimal.Decimal
}

// DayCount is the number of orders created on one local calendar day.
type DayCount struct {
	Date  string
	Count int
}

type ProductQuantity struct {
	ProductBranchID id.ProductBranchID
	Name            string
	Quantity        int
}

// Dashboard fetches every order and every branch concurrently, then aggregates.
func (s *Service) Dashboard(ctx context.Context, now time.Time) (*Dashboard, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveDashboardLatency(time.Since(start)) }()

	ctx, cancel := context.WithTimeout(ctx, dashboardTimeout)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	var (
		orders   []models.Order
		branches []locationModels.Branch
	)
	g.Go(func() error {
		var err error
		orders, err = s.backend.ListOrders(ctx, models.Filter{})
		return err
	})
	g.Go(func() error {
		var err error
		branches, err = s.backend.ListBranches(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, backend.ToDomain(err, "")
	}
	return BuildDashboard(orders, branches, now.In(s.location)), nil
}

// BuildDashboard is the pure aggregation behind Dashboard. Days are bucketed
// in now's location.
func BuildDashboard(orders []models.Order, branches []locationModels.Branch, now time.Time) *Dashboard {
	d := &Dashboard{Revenue: decimal.Zero, TotalOrders: len(orders)}

	counts := make(map[models.Status]int, len(models.AllStatuses()))
	byBranch := make(map[id.BranchID]*BranchRevenue)
	var branchOrder []id.BranchID
	for _, b := range branches {
		byBranch[b.ID] = &BranchRevenue{BranchID: b.ID, BranchName: b.Name, Revenue: decimal.Zero}
		branchOrder = append(branchOrder, b.ID)
	}

	days := make([]DayCount, dashboardDays)
	dayIndex := make(map[string]int, dashboardDays)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for i := range dashboardDays {
		date := today.AddDate(0, 0, i-(dashboardDays-1)).Format(time.DateOnly)
		days[i] = DayCount{Date: date}
		dayIndex[date] = i
	}

	products := make(map[id.ProductBranchID]*ProductQuantity)
	for i := range orders {
		o := &orders[i]
		counts[o.Status]++

		if !o.CreatedAt.IsZero() {
			if idx, ok := dayIndex[o.CreatedAt.In(now.Location()).Format(time.DateOnly)]; ok {
				days[idx].Count++
			}
		}

		if !o.CountsTowardRevenue() {
			continue
		}
		d.Revenue = d.Revenue.Add(o.Total)

		br, ok := byBranch[o.BranchID]
		if !ok {
			br = &BranchRevenue{BranchID: o.BranchID, BranchName: o.BranchName, Revenue: decimal.Zero}
			byBranch[o.BranchID] = br
			branchOrder = append(branchOrder, o.BranchID)
		}
		br.Orders++
		br.Revenue = br.Revenue.Add(o.Total)

		for _, l := range o.Lines {
			p, ok := products[l.ProductBranchID]
			if !ok {
				p = &ProductQuantity{ProductBranchID: l.ProductBranchID, Name: l.Name}
				products[l.ProductBranchID] = p
			}
			p.Quantity += l.Quantity
		}
	}

	for _, st := range models.AllStatuses() {
		d.StatusCounts = append(d.StatusCounts, StatusCount{Status: st, Count: counts[st]})
	}
	for _, bid := range branchOrder {
		d.Branches = append(d.Branches, *byBranch[bid])
	}
	d.OrdersPerDay = days

	top := make([]ProductQuantity, 0, len(products))
	for _, p := range products {
		top = append(top, *p)
	}
	slices.SortFunc(top, func(a, b ProductQuantity) int {
		if c := cmp.Compare(b.Quantity, a.Quantity); c != 0 {
			return c
		}
		return cmp.Compare(a.ProductBranchID, b.ProductBranchID)
	})
	if len(top) > dashboardTopProducts {
		top = top[:dashboardTopProducts]
	}
	d.TopProducts = top
	return d
}
