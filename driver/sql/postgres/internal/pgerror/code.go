package pgerror

import (
	"errors"
	"slices"

	"github.com/jackc/pgconn"
)

// CodeUniqueViolation is the PostgreSQL error code for "unique_violation".
//
// See https://www.postgresql.org/docs/current/errcodes-appendix.html.
const CodeUniqueViolation = "23505"

// Is returns true if err is a PostgreSQL error with one of the given codes.
func Is(err error, codes ...string) bool {
	var e *pgconn.PgError
	return errors.As(err, &e) && slices.Contains(codes, e.Code)
}
