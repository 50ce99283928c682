package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	locationModels "minimarket/internal/location/models"
	id "minimarket/pkg/domain"
)

// ProductBranch is a product as stocked at one branch.
type ProductBranch struct {
	ID            id.ProductBranchID `json:"id"`
	ProductID     id.ProductID       `json:"product_id"`
	BranchID      id.BranchID        `json:"branch_id"`
	BranchName    string             `json:"branch_name"`
	Name          string             `json:"name"`
	Category      string             `json:"category,omitempty"`
	Price         decimal.Decimal    `json:"price"`
	ImageRef      string             `json:"image_ref,omitempty"`
	Stock         int                `json:"stock"`
	StockReserved int                `json:"stock_reserved"`
}

// StockEntry is one row of a branch stock snapshot.
type StockEntry struct {
	ProductBranchID id.ProductBranchID
	Stock           int
	StockReserved   int
}

type productRef struct {
	ID       wireID           `json:"id"`
	Name     *string          `json:"name"`
	Price    *decimal.Decimal `json:"price"`
	ImageURL *string          `json:"imageUrl"`
	Category *struct {
		Name *string `json:"name"`
	} `json:"category"`
}

type branchRef struct {
	ID       wireID  `json:"id"`
	Name     *string `json:"name"`
	Address  *string `json:"address"`
	District *string `json:"district"`
}

// productBranchDTO mirrors the backend payload; nested objects and stock
// counters are optional depending on the endpoint.
type productBranchDTO struct {
	ID            wireID           `json:"id"`
	ProductID     wireID           `json:"productId"`
	BranchID      wireID           `json:"branchId"`
	Stock         *int             `json:"stock"`
	StockReserved *int             `json:"stockReserved"`
	Price         *decimal.Decimal `json:"price"`
	Product       *productRef      `json:"product"`
	Branch        *branchRef       `json:"branch"`
}

func (d productBranchDTO) toModel() ProductBranch {
	pb := ProductBranch{
		ID:            id.ProductBranchID(d.ID),
		ProductID:     id.ProductID(d.ProductID),
		BranchID:      id.BranchID(d.BranchID),
		Stock:         intOr(d.Stock, 0),
		StockReserved: intOr(d.StockReserved, 0),
		Price:         decimal.Zero,
	}
	if d.Price != nil {
		pb.Price = *d.Price
	}
	if p := d.Product; p != nil {
		pb.ProductID = id.ProductID(firstID(d.ProductID, p.ID))
		pb.Name = stringOr(p.Name, "")
		pb.ImageRef = stringOr(p.ImageURL, "")
		if d.Price == nil && p.Price != nil {
			pb.Price = *p.Price
		}
		if p.Category != nil {
			pb.Category = stringOr(p.Category.Name, "")
		}
	}
	if b := d.Branch; b != nil {
		pb.BranchID = id.BranchID(firstID(d.BranchID, b.ID))
		pb.BranchName = stringOr(b.Name, "")
	}
	if pb.Name == "" {
		pb.Name = "Product " + string(pb.ProductID)
	}
	return pb
}

func (d branchRef) toModel() locationModels.Branch {
	return locationModels.Branch{
		ID:       id.BranchID(d.ID),
		Name:     stringOr(d.Name, "Branch "+string(d.ID)),
		Address:  stringOr(d.Address, ""),
		District: stringOr(d.District, ""),
	}
}

// GetProductBranch fetches one product-at-branch with its stock counters.
func (c *Client) GetProductBranch(ctx context.Context, pbID id.ProductBranchID) (*ProductBranch, error) {
	var dto productBranchDTO
	if err := c.call(ctx, "get_product_branch", http.MethodGet, pathf("product-branches", string(pbID)), nil, nil, &dto); err != nil {
		return nil, err
	}
	if dto.ID == "" {
		dto.ID = wireID(pbID)
	}
	pb := dto.toModel()
	return &pb, nil
}

// BranchStock returns the stock snapshot for every product at the branch.
func (c *Client) BranchStock(ctx context.Context, branchID id.BranchID) ([]StockEntry, error) {
	var rows []productBranchDTO
	if err := c.call(ctx, "branch_stock", http.MethodGet, pathf("branches", string(branchID), "stock"), nil, nil, &rows); err != nil {
		return nil, err
	}
	entries := make([]StockEntry, 0, len(rows))
	for _, r := range rows {
		if r.ID == "" {
			continue
		}
		entries = append(entries, StockEntry{
			ProductBranchID: id.ProductBranchID(r.ID),
			Stock:           intOr(r.Stock, 0),
			StockReserved:   intOr(r.StockReserved, 0),
		})
	}
	return entries, nil
}

// BranchProducts lists the catalog of one branch.
func (c *Client) BranchProducts(ctx context.Context, branchID id.BranchID) ([]ProductBranch, error) {
	var rows []productBranchDTO
	if err := c.call(ctx, "branch_products", http.MethodGet, pathf("branches", string(branchID), "products"), nil, nil, &rows); err != nil {
		return nil, err
	}
	out := make([]ProductBranch, 0, len(rows))
	for _, r := range rows {
		if r.BranchID == "" && r.Branch == nil {
			r.BranchID = wireID(branchID)
		}
		out = append(out, r.toModel())
	}
	return out, nil
}

func (c *Client) ListBranches(ctx context.Context) ([]locationModels.Branch, error) {
	var rows []branchRef
	if err := c.call(ctx, "list_branches", http.MethodGet, pathf("branches"), nil, nil, &rows); err != nil {
		return nil, err
	}
	return branchesToModels(rows), nil
}

// NearbyBranches returns the branches serving the given coordinates, nearest first.
func (c *Client) NearbyBranches(ctx context.Context, lat, lng float64) ([]locationModels.Branch, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lng", strconv.FormatFloat(lng, 'f', -1, 64))
	var rows []branchRef
	if err := c.call(ctx, "nearby_branches", http.MethodGet, pathf("branches", "nearby"), q, nil, &rows); err != nil {
		return nil, err
	}
	return branchesToModels(rows), nil
}

func branchesToModels(rows []branchRef) []locationModels.Branch {
	out := make([]locationModels.Branch, 0, len(rows))
	for _, r := range rows {
		if r.ID == "" {
			continue
		}
		out = append(out, r.toModel())
	}
	return out
}
