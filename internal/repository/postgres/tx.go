package postgres

import (
	"context"
	"fmt"

	"github.com/SakshamTolani/ProductPro/internal/repository"
	"github.com/SakshamTolani/ProductPro/pkg/database"
)

// TxRunner implements repository.Transactor over a pgx connection pool.
// The function receives repositories bound to a single transaction, so a
// status transition and the product update it triggers commit or roll back
// as one unit.
type TxRunner struct {
	pool database.DBTX
}

// NewTxRunner creates a transaction runner backed by the given pool.
func NewTxRunner(pool database.DBTX) *TxRunner {
	return &TxRunner{pool: pool}
}

// WithinTx begins a transaction, runs fn with transaction-bound stores, and
// commits if fn returns nil. Any error from fn rolls the transaction back
// and is returned unchanged so callers keep their typed errors.
func (t *TxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context, s repository.Stores) error) error {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", storeErr(err))
	}
	defer tx.Rollback(ctx)

	stores := repository.Stores{
		Products: NewProductRepository(tx),
		Reviews:  NewReviewRepository(tx),
	}

	if err := fn(ctx, stores); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", storeErr(err))
	}

	return nil
}
