package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"salesdesk-be/internal/db"
	"salesdesk-be/internal/logger"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Repository is the order ledger. It stores orders with their line items
// and never touches product stock.
type Repository interface {
	Insert(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, filter ListFilter) ([]Order, int, error)
	Update(ctx context.Context, o *Order, replaceItems bool) error
	UpdateStatus(ctx context.Context, id string, status Status) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db      db.DBTX
	forLock bool
}

func NewRepository(conn db.DBTX) Repository {
	return &repository{db: conn}
}

// NewLockingRepository locks the order row on GetByID for the rest of tx.
func NewLockingRepository(tx *sql.Tx) Repository {
	return &repository{db: tx, forLock: true}
}

const orderColumns = `id, order_number, customer_name, customer_phone, customer_address,
	total_amount, status, notes, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var o Order
	if err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.CustomerName,
		&o.CustomerPhone,
		&o.CustomerAddress,
		&o.TotalAmount,
		&o.Status,
		&o.Notes,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) Insert(ctx context.Context, o *Order) error {
	// ON CONFLICT keeps the surrounding transaction usable so the caller can
	// retry with a fresh number.
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO orders (
			id, order_number, customer_name, customer_phone, customer_address,
			total_amount, status, notes
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (order_number) DO NOTHING
		RETURNING created_at, updated_at
	`,
		o.ID,
		o.OrderNumber,
		o.CustomerName,
		o.CustomerPhone,
		o.CustomerAddress,
		o.TotalAmount,
		o.Status,
		o.Notes,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrDuplicateOrderNumber
	}
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	return r.insertItems(ctx, o.ID, o.Items)
}

func (r *repository) insertItems(ctx context.Context, orderID string, items []LineItem) error {
	for i, item := range items {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO order_items (order_id, position, product_id, quantity, price)
			VALUES ($1,$2,$3,$4,$5)
		`,
			orderID,
			i,
			item.ProductID,
			item.Quantity,
			item.Price,
		)
		if err != nil {
			return fmt.Errorf("insert order item %d: %w", i, err)
		}
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	if r.forLock {
		query += ` FOR UPDATE`
	}

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}

	items, err := r.loadItems(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	o.Items = items[id]
	if o.Items == nil {
		o.Items = []LineItem{}
	}
	return o, nil
}

// loadItems resolves each line's product summary with a LEFT JOIN, so lines
// pointing at deleted products come back with a nil Product.
func (r *repository) loadItems(ctx context.Context, orderIDs []string) (map[string][]LineItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT oi.order_id, oi.product_id, oi.quantity, oi.price,
		       p.id, p.name, p.price, p.image_url
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.order_id, oi.position
	`, pq.Array(orderIDs))
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]LineItem, len(orderIDs))
	for rows.Next() {
		var (
			orderID      string
			item         LineItem
			productID    sql.NullString
			productName  sql.NullString
			productPrice decimal.NullDecimal
			imageURL     *string
		)
		if err := rows.Scan(
			&orderID,
			&item.ProductID,
			&item.Quantity,
			&item.Price,
			&productID,
			&productName,
			&productPrice,
			&imageURL,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		if productID.Valid {
			item.Product = &ProductSummary{
				ID:       productID.String,
				Name:     productName.String,
				Price:    productPrice.Decimal,
				ImageURL: imageURL,
			}
		}
		out[orderID] = append(out[orderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Order, int, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListOrders"),
	)

	where := ""
	args := []any{}
	argIndex := 1

	if filter.Status != nil {
		where = fmt.Sprintf(" WHERE status = $%d", argIndex)
		args = append(args, *filter.Status)
		argIndex++
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
		log.Error("failed to count orders", zap.Error(err))
		return nil, 0, err
	}

	query := `SELECT ` + orderColumns + ` FROM orders` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, filter.Limit, filter.Skip)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	orders := []Order{}
	ids := []string{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			log.Error("failed to scan order row", zap.Error(err))
			return nil, 0, err
		}
		orders = append(orders, *o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if len(ids) == 0 {
		return orders, total, nil
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		log.Error("failed to load order items", zap.Error(err))
		return nil, 0, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
		if orders[i].Items == nil {
			orders[i].Items = []LineItem{}
		}
	}

	return orders, total, nil
}

func (r *repository) Update(ctx context.Context, o *Order, replaceItems bool) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE orders SET
			customer_name = $1,
			customer_phone = $2,
			customer_address = $3,
			total_amount = $4,
			status = $5,
			notes = $6,
			updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`,
		o.CustomerName,
		o.CustomerPhone,
		o.CustomerAddress,
		o.TotalAmount,
		o.Status,
		o.Notes,
		o.ID,
	).Scan(&o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrOrderNotFound
	}
	if err != nil {
		return fmt.Errorf("update order %s: %w", o.ID, err)
	}

	if !replaceItems {
		return nil
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, o.ID); err != nil {
		return fmt.Errorf("clear order items %s: %w", o.ID, err)
	}
	return r.insertItems(ctx, o.ID, o.Items)
}

func (r *repository) UpdateStatus(ctx context.Context, id string, status Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, id)
	if err != nil {
		return fmt.Errorf("update order status %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOrderNotFound
	}
	return nil
}
