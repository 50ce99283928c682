package backend

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	orderModels "minimarket/internal/orders/models"
	id "minimarket/pkg/domain"
)

type orderLineDTO struct {
	ProductBranchID wireID           `json:"productBranchId"`
	Quantity        *int             `json:"quantity"`
	UnitPrice       *decimal.Decimal `json:"unitPrice"`
	Subtotal        *decimal.Decimal `json:"subtotal"`
	ProductBranch   *struct {
		ID      wireID      `json:"id"`
		Product *productRef `json:"product"`
	} `json:"productBranch"`
}

type orderDTO struct {
	ID              wireID           `json:"id"`
	CustomerName    *string          `json:"customerName"`
	CustomerSurname *string          `json:"customerSurname"`
	Email           *string          `json:"email"`
	Phone           *string          `json:"phone"`
	Address         *string          `json:"address"`
	DeliveryAt      *time.Time       `json:"deliveryAt"`
	Status          *string          `json:"status"`
	BranchID        wireID           `json:"branchId"`
	Branch          *branchRef       `json:"branch"`
	Total           *decimal.Decimal `json:"total"`
	Lines           []orderLineDTO   `json:"lines"`
	CreatedAt       *time.Time       `json:"createdAt"`
	UpdatedAt       *time.Time       `json:"updatedAt"`
}

func (d orderDTO) toModel() orderModels.Order {
	o := orderModels.Order{
		ID:              id.OrderID(d.ID),
		CustomerName:    stringOr(d.CustomerName, ""),
		CustomerSurname: stringOr(d.CustomerSurname, ""),
		Email:           strings.ToLower(stringOr(d.Email, "")),
		Phone:           stringOr(d.Phone, ""),
		Address:         stringOr(d.Address, ""),
		Status:          orderModels.Status(strings.ToUpper(stringOr(d.Status, string(orderModels.StatusPending)))),
		BranchID:        id.BranchID(d.BranchID),
		Lines:           make([]orderModels.Line, 0, len(d.Lines)),
	}
	if d.DeliveryAt != nil {
		o.DeliveryAt = *d.DeliveryAt
	}
	if d.CreatedAt != nil {
		o.CreatedAt = *d.CreatedAt
	}
	o.UpdatedAt = o.CreatedAt
	if d.UpdatedAt != nil {
		o.UpdatedAt = *d.UpdatedAt
	}
	if b := d.Branch; b != nil {
		o.BranchID = id.BranchID(firstID(d.BranchID, b.ID))
		o.BranchName = stringOr(b.Name, "")
	}

	computed := decimal.Zero
	for _, l := range d.Lines {
		line := l.toModel()
		computed = computed.Add(line.Subtotal)
		o.Lines = append(o.Lines, line)
	}
	o.Total = computed
	if d.Total != nil {
		o.Total = *d.Total
	}
	return o
}

func (d orderLineDTO) toModel() orderModels.Line {
	line := orderModels.Line{
		ProductBranchID: id.ProductBranchID(d.ProductBranchID),
		Quantity:        intOr(d.Quantity, 0),
		UnitPrice:       decimal.Zero,
	}
	if d.UnitPrice != nil {
		line.UnitPrice = *d.UnitPrice
	}
	if pb := d.ProductBranch; pb != nil {
		line.ProductBranchID = id.ProductBranchID(firstID(d.ProductBranchID, pb.ID))
		if pb.Product != nil {
			line.Name = stringOr(pb.Product.Name, "")
			if d.UnitPrice == nil && pb.Product.Price != nil {
				line.UnitPrice = *pb.Product.Price
			}
		}
	}
	if line.Name == "" {
		line.Name = "Product " + string(line.ProductBranchID)
	}
	if d.Subtotal != nil {
		line.Subtotal = *d.Subtotal
	} else {
		line.Subtotal = line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
	}
	return line
}

// SubmitOrder creates an order. The backend re-checks stock and may refuse.
func (c *Client) SubmitOrder(ctx context.Context, order orderModels.NewOrder) (*orderModels.Created, error) {
	var resp struct {
		ID         wireID  `json:"id"`
		PaymentURL *string `json:"paymentUrl"`
	}
	if err := c.call(ctx, "submit_order", http.MethodPost, pathf("orders"), nil, order, &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" {
		return nil, &Error{Category: ErrorBadData, Op: "submit_order", Message: "response carries no order id"}
	}
	return &orderModels.Created{ID: id.OrderID(resp.ID), PaymentURL: stringOr(resp.PaymentURL, "")}, nil
}

func (c *Client) GetOrder(ctx context.Context, orderID id.OrderID) (*orderModels.Order, error) {
	var dto orderDTO
	if err := c.call(ctx, "get_order", http.MethodGet, pathf("orders", string(orderID)), nil, nil, &dto); err != nil {
		return nil, err
	}
	if dto.ID == "" {
		dto.ID = wireID(orderID)
	}
	o := dto.toModel()
	return &o, nil
}

// ListOrders returns the orders matching filter, in backend order.
func (c *Client) ListOrders(ctx context.Context, filter orderModels.Filter) ([]orderModels.Order, error) {
	q := url.Values{}
	if filter.Email != "" {
		q.Set("email", filter.Email)
	}
	if filter.Status != "" {
		q.Set("status", string(filter.Status))
	}
	var rows []orderDTO
	if err := c.call(ctx, "list_orders", http.MethodGet, pathf("orders"), q, nil, &rows); err != nil {
		return nil, err
	}
	out := make([]orderModels.Order, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

// UpdateOrderStatus asks the backend to move the order to status. The backend
// answers 409 when the order changed since it was read.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID id.OrderID, status orderModels.Status) error {
	body := struct {
		Status orderModels.Status `json:"status"`
	}{Status: status}
	return c.call(ctx, "update_order_status", http.MethodPatch, pathf("orders", string(orderID), "status"), nil, body, nil)
}
