package handler

import (
	"minimarket/internal/backend"
	cartModels "minimarket/internal/cart/models"
	"minimarket/internal/location/models"
)

type LocationListResponse struct {
	Locations []models.UserLocation `json:"locations"`
}

func FromLocations(locs []models.UserLocation) LocationListResponse {
	if locs == nil {
		locs = []models.UserLocation{}
	}
	return LocationListResponse{Locations: locs}
}

type SelectionResponse struct {
	Location    models.UserLocation `json:"location"`
	Branches    []models.Branch     `json:"branches"`
	BranchID    string              `json:"branch_id,omitempty"`
	Serviceable bool                `json:"serviceable"`
}

func FromSelection(sel *models.Selection) SelectionResponse {
	branches := sel.Branches
	if branches == nil {
		branches = []models.Branch{}
	}
	return SelectionResponse{
		Location:    sel.Location,
		Branches:    branches,
		BranchID:    string(sel.BranchID),
		Serviceable: len(branches) > 0,
	}
}

type ProductResponse struct {
	ProductBranchID string `json:"product_branch_id"`
	ProductID       string `json:"product_id"`
	Name            string `json:"name"`
	Category        string `json:"category,omitempty"`
	Price           string `json:"price"`
	ImageRef        string `json:"image_ref,omitempty"`
	Available       int    `json:"available"`
}

type CatalogResponse struct {
	BranchID   string            `json:"branch_id"`
	BranchName string            `json:"branch_name"`
	Products   []ProductResponse `json:"products"`
}

// FromCatalog renders the branch catalog with the stock a cart may still claim.
func FromCatalog(branch models.Branch, products []backend.ProductBranch) CatalogResponse {
	resp := CatalogResponse{
		BranchID:   string(branch.ID),
		BranchName: branch.Name,
		Products:   make([]ProductResponse, 0, len(products)),
	}
	for _, p := range products {
		resp.Products = append(resp.Products, ProductResponse{
			ProductBranchID: string(p.ID),
			ProductID:       string(p.ProductID),
			Name:            p.Name,
			Category:        p.Category,
			Price:           p.Price.StringFixed(2),
			ImageRef:        p.ImageRef,
			Available:       cartModels.AvailableStock(p.Stock, p.StockReserved),
		})
	}
	return resp
}
