package order

import (
	"context"
	"database/sql"

	"salesdesk-be/internal/db"
	"salesdesk-be/internal/product"
)

// Catalog is the slice of the product store the workflow needs.
type Catalog interface {
	GetByID(ctx context.Context, id string) (*product.Product, error)
	AdjustStock(ctx context.Context, id string, delta int) error
}

// UnitOfWork runs fn against a catalog and a ledger that share one
// transaction. Returning an error from fn discards every write made
// through them.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, catalog Catalog, ledger Repository) error) error
}

type sqlUnitOfWork struct {
	db *sql.DB
}

func NewUnitOfWork(database *sql.DB) UnitOfWork {
	return &sqlUnitOfWork{db: database}
}

func (u *sqlUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, catalog Catalog, ledger Repository) error) error {
	return db.WithTx(ctx, u.db, nil, func(tx *sql.Tx) error {
		return fn(ctx, product.NewLockingRepository(tx), NewLockingRepository(tx))
	})
}
