package pgmap_test

import (
	"testing"

	"github.com/dogmatiq/dirmap/driver/sql/postgres/internal/pgtest"
	. "github.com/dogmatiq/dirmap/driver/sql/postgres/pgmap"
	"github.com/dogmatiq/dirmap/mapping"
)

func TestStore(t *testing.T) {
	db := pgtest.Setup(t)

	if err := CreateSchema(t.Context(), db); err != nil {
		t.Fatal(err)
	}

	t.Run("it tolerates the schema being created more than once", func(t *testing.T) {
		if err := CreateSchema(t.Context(), db); err != nil {
			t.Fatal(err)
		}
	})

	mapping.RunTests(
		t,
		&Store{
			DB: db,
		},
	)
}

func BenchmarkStore(b *testing.B) {
	db := pgtest.Setup(b)

	if err := CreateSchema(b.Context(), db); err != nil {
		b.Fatal(err)
	}

	mapping.RunBenchmarks(
		b,
		&Store{
			DB: db,
		},
	)
}
