package handler

import (
	"time"

	"minimarket/internal/orders/models"
	ordersService "minimarket/internal/orders/service"
)

type StatusEntry struct {
	Status      string   `json:"status"`
	Label       string   `json:"label"`
	Terminal    bool     `json:"terminal"`
	Transitions []string `json:"transitions"`
}

type StatusTableResponse struct {
	Statuses []StatusEntry `json:"statuses"`
}

func newStatusEntry(st models.Status, allowed []models.Status) StatusEntry {
	return StatusEntry{
		Status:      string(st),
		Label:       st.Label(),
		Terminal:    st.IsTerminal(),
		Transitions: statusStrings(allowed),
	}
}

type OrderLineResponse struct {
	ProductBranchID string `json:"product_branch_id"`
	Name            string `json:"name"`
	Quantity        int    `json:"quantity"`
	UnitPrice       string `json:"unit_price"`
	Subtotal        string `json:"subtotal"`
}

// OrderResponse renders an order. AllowedTransitions is omitted on customer
// endpoints.
type OrderResponse struct {
	ID                 string              `json:"id"`
	Status             string              `json:"status"`
	StatusLabel        string              `json:"status_label"`
	CustomerName       string              `json:"customer_name"`
	CustomerSurname    string              `json:"customer_surname"`
	Email              string              `json:"email"`
	Phone              string              `json:"phone"`
	Address            string              `json:"address"`
	DeliveryAt         *time.Time          `json:"delivery_at,omitempty"`
	BranchID           string              `json:"branch_id"`
	BranchName         string              `json:"branch_name"`
	Lines              []OrderLineResponse `json:"lines"`
	Total              string              `json:"total"`
	CreatedAt          *time.Time          `json:"created_at,omitempty"`
	AllowedTransitions []string            `json:"allowed_transitions,omitempty"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Count  int             `json:"count"`
}

func FromOrder(o *models.Order, allowed []models.Status) OrderResponse {
	resp := OrderResponse{
		ID:              string(o.ID),
		Status:          string(o.Status),
		StatusLabel:     o.Status.Label(),
		CustomerName:    o.CustomerName,
		CustomerSurname: o.CustomerSurname,
		Email:           o.Email,
		Phone:           o.Phone,
		Address:         o.Address,
		DeliveryAt:      timePtr(o.DeliveryAt),
		BranchID:        string(o.BranchID),
		BranchName:      o.BranchName,
		Lines:           make([]OrderLineResponse, 0, len(o.Lines)),
		Total:           o.Total.StringFixed(2),
		CreatedAt:       timePtr(o.CreatedAt),
	}
	for _, l := range o.Lines {
		resp.Lines = append(resp.Lines, OrderLineResponse{
			ProductBranchID: string(l.ProductBranchID),
			Name:            l.Name,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice.StringFixed(2),
			Subtotal:        l.Subtotal.StringFixed(2),
		})
	}
	if allowed != nil {
		resp.AllowedTransitions = statusStrings(allowed)
	}
	return resp
}

// FromOrders renders a listing; allowed may be nil to omit transitions.
func FromOrders(orders []models.Order, allowed func(models.Status) []models.Status) OrderListResponse {
	resp := OrderListResponse{Orders: make([]OrderResponse, 0, len(orders)), Count: len(orders)}
	for i := range orders {
		var next []models.Status
		if allowed != nil {
			next = allowed(orders[i].Status)
		}
		resp.Orders = append(resp.Orders, FromOrder(&orders[i], next))
	}
	return resp
}

type DashboardResponse struct {
	TotalOrders  int                       `json:"total_orders"`
	Revenue      string                    `json:"revenue"`
	StatusCounts map[string]int            `json:"status_counts"`
	Branches     []BranchRevenueResponse   `json:"branches"`
	OrdersPerDay []DayCountResponse        `json:"orders_per_day"`
	TopProducts  []ProductQuantityResponse `json:"top_products"`
}

type BranchRevenueResponse struct {
	BranchID   string `json:"branch_id"`
	BranchName string `json:"branch_name"`
	Orders     int    `json:"orders"`
	Revenue    string `json:"revenue"`
}

type DayCountResponse struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type ProductQuantityResponse struct {
	ProductBranchID string `json:"product_branch_id"`
	Name            string `json:"name"`
	Quantity        int    `json:"quantity"`
}

func FromDashboard(d *ordersService.Dashboard) DashboardResponse {
	resp := DashboardResponse{
		TotalOrders:  d.TotalOrders,
		Revenue:      d.Revenue.StringFixed(2),
		StatusCounts: make(map[string]int, len(d.StatusCounts)),
		Branches:     make([]BranchRevenueResponse, 0, len(d.Branches)),
		OrdersPerDay: make([]DayCountResponse, 0, len(d.OrdersPerDay)),
		TopProducts:  make([]ProductQuantityResponse, 0, len(d.TopProducts)),
	}
	for _, c := range d.StatusCounts {
		resp.StatusCounts[string(c.Status)] = c.Count
	}
	for _, b := range d.Branches {
		resp.Branches = append(resp.Branches, BranchRevenueResponse{
			BranchID:   string(b.BranchID),
			BranchName: b.BranchName,
			Orders:     b.Orders,
			Revenue:    b.Revenue.StringFixed(2),
		})
	}
	for _, day := range d.OrdersPerDay {
		resp.OrdersPerDay = append(resp.OrdersPerDay, DayCountResponse{Date: day.Date, Count: day.Count})
	}
	for _, p := range d.TopProducts {
		resp.TopProducts = append(resp.TopProducts, ProductQuantityResponse{
			ProductBranchID: string(p.ProductBranchID),
			Name:            p.Name,
			Quantity:        p.Quantity,
		})
	}
	return resp
}

func statusStrings(statuses []models.Status) []string {
	out := make([]string, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, string(st))
	}
	return out
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
