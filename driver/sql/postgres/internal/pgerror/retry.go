package pgerror

import (
	"context"
	"database/sql"
	"fmt"
)

// maxAttempts is the number of times [InTx] attempts a transaction that fails
// with a retryable error.
const maxAttempts = 5

// InTx runs fn within a transaction and commits it. The transaction is
// attempted again if it fails with one of the given error codes.
func InTx(
	ctx context.Context,
	db *sql.DB,
	fn func(context.Context, *sql.Tx) error,
	retryOn ...string,
) error {
	var err error

	for range maxAttempts {
		err = inTx(ctx, db, fn)
		if !Is(err, retryOn...) {
			return err
		}
	}

	return fmt.Errorf("transaction failed after %d attempts: %w", maxAttempts, err)
}

func inTx(
	ctx context.Context,
	db *sql.DB,
	fn func(context.Context, *sql.Tx) error,
) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("unable to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("unable to commit transaction: %w", err)
	}

	return nil
}
