package pgmap

import (
	"context"
	"database/sql"

	"github.com/dogmatiq/dirmap/driver/sql/postgres/internal/pgerror"
)

// CreateSchema creates the PostgreSQL schema elements required by [Store].
func CreateSchema(
	ctx context.Context,
	db *sql.DB,
) error {
	return pgerror.InTx(
		ctx,
		db,
		func(ctx context.Context, tx *sql.Tx) error {
			if _, err := tx.ExecContext(
				ctx,
				`CREATE SCHEMA IF NOT EXISTS dirmap`,
			); err != nil {
				return err
			}

			_, err := tx.ExecContext(
				ctx,
				`CREATE TABLE IF NOT EXISTS dirmap.entry (
					mapping TEXT NOT NULL,
					key     TEXT NOT NULL,
					value   TEXT NOT NULL,

					PRIMARY KEY (mapping, key)
				)`,
			)
			return err
		},
		// Even though we use IF NOT EXISTS in the DDL, we still need to handle
		// conflicts due to a data race bug in PostgreSQL.
		pgerror.CodeUniqueViolation,
	)
}
