package dashboard

import (
	"context"
	"fmt"
	"time"

	"salesdesk-be/internal/db"

	"github.com/lib/pq"
)

// Repository exposes read-only aggregates over leads, orders and products.
type Repository interface {
	LeadCounts(ctx context.Context, active []string) (LeadCounts, error)
	LeadsByPlatform(ctx context.Context) ([]PlatformCount, error)
	OrdersByStatus(ctx context.Context) ([]StatusCount, error)
	ActiveProducts(ctx context.Context) (int, error)
	Revenue(ctx context.Context, monthStart, lastMonthStart time.Time) (Revenue, error)
	TopProducts(ctx context.Context, limit int) ([]TopProduct, error)
	LowStock(ctx context.Context, below, limit int) ([]LowStockProduct, error)
	RecentOrders(ctx context.Context, limit int) ([]RecentOrder, error)
}

type repository struct {
	db db.DBTX
}

func NewRepository(conn db.DBTX) Repository {
	return &repository{db: conn}
}

func (r *repository) LeadCounts(ctx context.Context, active []string) (LeadCounts, error) {
	var c LeadCounts
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = ANY($1)),
			COUNT(*) FILTER (WHERE status = 'converted'),
			COUNT(*) FILTER (WHERE status = 'lost')
		FROM leads
	`, pq.Array(active)).Scan(&c.Total, &c.Active, &c.Converted, &c.Lost)
	if err != nil {
		return LeadCounts{}, fmt.Errorf("count leads: %w", err)
	}
	return c, nil
}

func (r *repository) LeadsByPlatform(ctx context.Context) ([]PlatformCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT platform, COUNT(*) FROM leads GROUP BY platform ORDER BY COUNT(*) DESC, platform
	`)
	if err != nil {
		return nil, fmt.Errorf("leads by platform: %w", err)
	}
	defer rows.Close()

	out := []PlatformCount{}
	for rows.Next() {
		var pc PlatformCount
		if err := rows.Scan(&pc.Platform, &pc.Count); err != nil {
			return nil, err
		}
		out = append(out, pc)
	}
	return out, rows.Err()
}

func (r *repository) OrdersByStatus(ctx context.Context) ([]StatusCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT status, COUNT(*) FROM orders GROUP BY status ORDER BY status
	`)
	if err != nil {
		return nil, fmt.Errorf("orders by status: %w", err)
	}
	defer rows.Close()

	out := []StatusCount{}
	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (r *repository) ActiveProducts(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE active`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active products: %w", err)
	}
	return n, nil
}

// Revenue sums delivered orders overall, since monthStart, and within
// [lastMonthStart, monthStart).
func (r *repository) Revenue(ctx context.Context, monthStart, lastMonthStart time.Time) (Revenue, error) {
	var rev Revenue
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(total_amount), 0),
			COALESCE(SUM(total_amount) FILTER (WHERE created_at >= $1), 0),
			COALESCE(SUM(total_amount) FILTER (WHERE created_at >= $2 AND created_at < $1), 0),
			COUNT(*)
		FROM orders
		WHERE status = 'delivered'
	`, monthStart, lastMonthStart).Scan(&rev.Total, &rev.ThisMonth, &rev.LastMonth, &rev.DeliveredCount)
	if err != nil {
		return Revenue{}, fmt.Errorf("sum revenue: %w", err)
	}
	return rev, nil
}

func (r *repository) TopProducts(ctx context.Context, limit int) ([]TopProduct, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT oi.product_id, p.name, SUM(oi.quantity) AS qty, SUM(oi.quantity * oi.price)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE o.status = 'delivered'
		GROUP BY oi.product_id, p.name
		ORDER BY qty DESC, oi.product_id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()

	out := []TopProduct{}
	for rows.Next() {
		var tp TopProduct
		if err := rows.Scan(&tp.ProductID, &tp.Name, &tp.TotalQty, &tp.TotalRevenue); err != nil {
			return nil, err
		}
		out = append(out, tp)
	}
	return out, rows.Err()
}

func (r *repository) LowStock(ctx context.Context, below, limit int) ([]LowStockProduct, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, stock, price
		FROM products
		WHERE active AND stock < $1
		ORDER BY stock ASC, name
		LIMIT $2
	`, below, limit)
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	defer rows.Close()

	out := []LowStockProduct{}
	for rows.Next() {
		var p LowStockProduct
		if err := rows.Scan(&p.ID, &p.Name, &p.Stock, &p.Price); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repository) RecentOrders(ctx context.Context, limit int) ([]RecentOrder, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_number, customer_name, total_amount, status, created_at
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent orders: %w", err)
	}
	defer rows.Close()

	out := []RecentOrder{}
	for rows.Next() {
		var o RecentOrder
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.CustomerName, &o.TotalAmount, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
