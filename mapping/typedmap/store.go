package typedmap

import (
	"context"

	"github.com/dogmatiq/dirmap/mapping"
	"github.com/dogmatiq/dirmap/marshal"
)

// Store is a collection of mappings that associate string keys with values of
// type V.
type Store[V any, M marshal.Marshaler[V]] struct {
	mapping.Store
	Marshaler M
}

// Open returns the mapping with the given name.
func (s Store[V, M]) Open(ctx context.Context, name string) (Mapping[V, M], error) {
	m, err := s.Store.Open(ctx, name)
	return Mapping[V, M]{m, s.Marshaler}, err
}
