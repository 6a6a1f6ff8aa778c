package dashboard

import (
	"time"

	"github.com/shopspring/decimal"
)

type LeadCounts struct {
	Total     int
	Active    int
	Converted int
	Lost      int
}

type Revenue struct {
	Total          decimal.Decimal
	ThisMonth      decimal.Decimal
	LastMonth      decimal.Decimal
	DeliveredCount int
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type PlatformCount struct {
	Platform string `json:"platform"`
	Count    int    `json:"count"`
}

// TopProduct aggregates delivered line items. Name is nil when the product
// has since been deleted.
type TopProduct struct {
	ProductID    string          `json:"productId"`
	Name         *string         `json:"name"`
	TotalQty     int             `json:"totalQty"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}

type LowStockProduct struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Stock int             `json:"stock"`
	Price decimal.Decimal `json:"price"`
}

type RecentOrder struct {
	ID           string          `json:"id"`
	OrderNumber  string          `json:"orderNumber"`
	CustomerName string          `json:"customerName"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
}

type Stats struct {
	TotalLeads     int `json:"totalLeads"`
	ActiveLeads    int `json:"activeLeads"`
	ConvertedLeads int `json:"convertedLeads"`
	LostLeads      int `json:"lostLeads"`
	TotalOrders    int `json:"totalOrders"`
	ActiveProducts int `json:"activeProducts"`

	TotalRevenue         decimal.Decimal `json:"totalRevenue"`
	ThisMonthRevenue     decimal.Decimal `json:"thisMonthRevenue"`
	LastMonthRevenue     decimal.Decimal `json:"lastMonthRevenue"`
	RevenueChangePercent decimal.Decimal `json:"revenueChangePercent"`
	DeliveredOrders      int             `json:"deliveredOrders"`
	AverageOrderValue    decimal.Decimal `json:"averageOrderValue"`
	ConversionRate       decimal.Decimal `json:"conversionRate"`

	OrdersByStatus  []StatusCount     `json:"ordersByStatus"`
	TopProducts     []TopProduct      `json:"topProducts"`
	LeadsByPlatform []PlatformCount   `json:"leadsByPlatform"`
	LowStock        []LowStockProduct `json:"lowStockProducts"`
	RecentOrders    []RecentOrder     `json:"recentOrders"`

	GeneratedAt time.Time `json:"generatedAt"`
}
