package pgtest

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dogmatiq/sqltest"
)

// Setup creates and returns a new PostgreSQL database connection for use in a
// test. The database is automatically dropped when the test ends.
//
// The test is skipped if no PostgreSQL server is available.
func Setup(t testing.TB) *sql.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	database, err := sqltest.NewDatabase(ctx, sqltest.PGXDriver, sqltest.PostgreSQL)
	if err != nil {
		t.Skipf("PostgreSQL is not available: %s", err)
	}

	t.Cleanup(func() {
		if err := database.Close(); err != nil {
			t.Error(err)
		}
	})

	db, err := database.Open()
	if err != nil {
		t.Fatalf("cannot open test database: %s", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Error(err)
		}
	})

	if err := db.PingContext(ctx); err != nil {
		t.Skipf("PostgreSQL is not available: %s", err)
	}

	return db
}
