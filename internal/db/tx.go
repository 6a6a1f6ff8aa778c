package db

import (
	"context"
	"database/sql"
	"fmt"

	"salesdesk-be/internal/logger"

	"go.uber.org/zap"
)

// WithTx runs fn inside a transaction. The transaction commits only when fn
// returns nil; any error or panic rolls it back.
func WithTx(ctx context.Context, database *sql.DB, opts *sql.TxOptions, fn func(tx *sql.Tx) error) error {
	log := logger.FromCtx(ctx).With(zap.String("layer", "db"))

	tx, err := database.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			log.Error("failed to rollback transaction", zap.Error(rbErr))
		} else {
			log.Debug("transaction rolled back")
		}
		if p := recover(); p != nil {
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}
