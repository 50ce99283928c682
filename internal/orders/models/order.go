package models

import (
	"time"

	"github.com/shopspring/decimal"

	id "minimarket/pkg/domain"
)

// Order is the backend-owned aggregate as the storefront reads it.
type Order struct {
	ID              id.OrderID      `json:"id"`
	CustomerName    string          `json:"customer_name"`
	CustomerSurname string          `json:"customer_surname"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	Address         string          `json:"address"`
	DeliveryAt      time.Time       `json:"delivery_at"`
	Status          Status          `json:"status"`
	BranchID        id.BranchID     `json:"branch_id"`
	BranchName      string          `json:"branch_name"`
	Lines           []Line          `json:"lines"`
	Total           decimal.Decimal `json:"total"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Line is one ordered product with its subtotal.
type Line struct {
	ProductBranchID id.ProductBranchID `json:"product_branch_id"`
	Name            string             `json:"name"`
	Quantity        int                `json:"quantity"`
	UnitPrice       decimal.Decimal    `json:"unit_price"`
	Subtotal        decimal.Decimal    `json:"subtotal"`
}

// CountsTowardRevenue excludes orders that were never paid or were cancelled.
func (o *Order) CountsTowardRevenue() bool {
	switch o.Status {
	case StatusPaid, StatusPreparing, StatusReadyForPickup, StatusDelivered:
		return true
	default:
		return false
	}
}

// NewOrder is the order-creation payload sent to the backend at checkout.
type NewOrder struct {
	CustomerName    string         `json:"customerName"`
	CustomerSurname string         `json:"customerSurname"`
	Email           string         `json:"email"`
	Phone           string         `json:"phone"`
	Address         string         `json:"address"`
	Pickup          bool           `json:"pickup"`
	DeliveryAt      time.Time      `json:"deliveryAt"`
	BranchID        id.BranchID    `json:"branchId"`
	Lines           []NewOrderLine `json:"lines"`
}

type NewOrderLine struct {
	ProductBranchID id.ProductBranchID `json:"productBranchId"`
	Quantity        int                `json:"quantity"`
}

// Created is the backend's answer to an order submission.
type Created struct {
	ID         id.OrderID `json:"id"`
	PaymentURL string     `json:"payment_url,omitempty"`
}

// Filter narrows order listings. Zero values mean "any".
type Filter struct {
	Email  string
	Status Status
}
