package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusNew        Status = "new"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusConfirmed, StatusInProgress, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether stock already left the building (delivered) or
// was never supposed to (cancelled). Deleting such an order keeps stock as is.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

type Order struct {
	ID              string          `json:"id"`
	OrderNumber     string          `json:"orderNumber"`
	CustomerName    string          `json:"customerName"`
	CustomerPhone   string          `json:"customerPhone"`
	CustomerAddress *string         `json:"customerAddress,omitempty"`
	Items           []LineItem      `json:"products"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Status          Status          `json:"status"`
	Notes           *string         `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// LineItem keeps the unit price the product had when the line was written.
// Product is resolved at read time and stays nil when the product is gone.
type LineItem struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Product   *ProductSummary `json:"product"`
}

type ProductSummary struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL *string         `json:"imageUrl,omitempty"`
}

type ItemInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type CreateInput struct {
	CustomerName    string      `json:"customerName"`
	CustomerPhone   string      `json:"customerPhone"`
	CustomerAddress *string     `json:"customerAddress"`
	Items           []ItemInput `json:"products"`
	Notes           *string     `json:"notes"`
	Status          *Status     `json:"status"`
}

// UpdateInput patches the non-nil fields. A nil Items keeps the current
// lines; a non-nil one replaces them and must not be empty.
type UpdateInput struct {
	CustomerName    *string     `json:"customerName"`
	CustomerPhone   *string     `json:"customerPhone"`
	CustomerAddress *string     `json:"customerAddress"`
	Items           []ItemInput `json:"products"`
	Notes           *string     `json:"notes"`
	Status          *Status     `json:"status"`
}

type ListFilter struct {
	Status *Status
	Limit  int
	Skip   int
}

type ListResult struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Skip   int     `json:"skip"`
}
