package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"salesdesk-be/internal/db"
	"salesdesk-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, filter ListFilter) ([]Product, int, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, id string, input UpdateInput) (*Product, error)
	ToggleActive(ctx context.Context, id string) (*Product, error)
	Delete(ctx context.Context, id string) error

	// AdjustStock adds delta to the product stock. It refuses to take stock
	// below zero and reports ErrInsufficientStock instead.
	AdjustStock(ctx context.Context, id string, delta int) error
}

type repository struct {
	db      db.DBTX
	forLock bool
}

func NewRepository(conn db.DBTX) Repository {
	return &repository{db: conn}
}

// NewLockingRepository reads single products with SELECT ... FOR UPDATE so
// the rows stay locked for the rest of the transaction.
func NewLockingRepository(tx *sql.Tx) Repository {
	return &repository{db: tx, forLock: true}
}

const productColumns = `id, name, name_ar, description, description_ar, price, stock, image_url, active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*Product, error) {
	var p Product
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.NameAr,
		&p.Description,
		&p.DescriptionAr,
		&p.Price,
		&p.Stock,
		&p.ImageURL,
		&p.Active,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	if r.forLock {
		query += ` FOR UPDATE`
	}

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	return p, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Product, int, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListProducts"),
	)

	where := ""
	args := []any{}
	argIndex := 1

	if filter.Active != nil {
		where = fmt.Sprintf(" WHERE active = $%d", argIndex)
		args = append(args, *filter.Active)
		argIndex++
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		log.Error("failed to count products", zap.Error(err))
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + ` FROM products` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, filter.Limit, filter.Skip)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query products", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			log.Error("failed to scan product row", zap.Error(err))
			return nil, 0, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *repository) Create(ctx context.Context, p *Product) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (
			id, name, name_ar, description, description_ar,
			price, stock, image_url, active
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at, updated_at
	`,
		p.ID,
		p.Name,
		p.NameAr,
		p.Description,
		p.DescriptionAr,
		p.Price,
		p.Stock,
		p.ImageURL,
		p.Active,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, id string, input UpdateInput) (*Product, error) {
	sets := []string{}
	args := []any{}
	argIndex := 1

	add := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if input.Name != nil {
		add("name", *input.Name)
	}
	if input.NameAr != nil {
		add("name_ar", *input.NameAr)
	}
	if input.Description != nil {
		add("description", *input.Description)
	}
	if input.DescriptionAr != nil {
		add("description_ar", *input.DescriptionAr)
	}
	if input.Price != nil {
		add("price", *input.Price)
	}
	if input.Stock != nil {
		add("stock", *input.Stock)
	}
	if input.ImageURL != nil {
		add("image_url", *input.ImageURL)
	}
	if input.Active != nil {
		add("active", *input.Active)
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf(
		"UPDATE products SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), argIndex, productColumns,
	)
	args = append(args, id)

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update product %s: %w", id, err)
	}
	return p, nil
}

func (r *repository) ToggleActive(ctx context.Context, id string) (*Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, `
		UPDATE products SET active = NOT active, updated_at = NOW()
		WHERE id = $1
		RETURNING `+productColumns, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("toggle product %s: %w", id, err)
	}
	return p, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *repository) AdjustStock(ctx context.Context, id string, delta int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET stock = stock + $1, updated_at = NOW()
		WHERE id = $2 AND stock + $1 >= 0
	`, delta, id)
	if err != nil {
		return fmt.Errorf("adjust stock %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 1 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, id,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check product %s: %w", id, err)
	}
	if !exists {
		return ErrProductNotFound
	}
	return ErrInsufficientStock
}
