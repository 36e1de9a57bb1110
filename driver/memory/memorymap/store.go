package memorymap

import (
	"context"
	"sync"

	"github.com/dogmatiq/dirmap/mapping"
)

// Store is an in-memory implementation of [mapping.Store].
//
// Mappings opened with the same name share the same entries.
type Store struct {
	mappings sync.Map // map[string]*state
}

// Open returns the mapping with the given name.
func (s *Store) Open(ctx context.Context, name string) (mapping.Mapping, error) {
	st, ok := s.mappings.Load(name)

	if !ok {
		st, _ = s.mappings.LoadOrStore(
			name,
			&state{},
		)
	}

	return &memoryMapping{
		name:  name,
		state: st.(*state),
	}, ctx.Err()
}
