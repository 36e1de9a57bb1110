package pgmap

import (
	"context"
	"database/sql"

	"github.com/dogmatiq/dirmap/mapping"
)

// Store is an implementation of [mapping.Store] that stores mappings in a
// PostgreSQL database.
//
// The schema must be created with [CreateSchema] before the store is used.
type Store struct {
	DB *sql.DB
}

// Open returns the mapping with the given name.
func (s *Store) Open(ctx context.Context, name string) (mapping.Mapping, error) {
	return &rowMapping{
		db:   s.DB,
		name: name,
	}, ctx.Err()
}
