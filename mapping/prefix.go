package mapping

import "context"

// WithNamePrefix returns a [Store] that adds the given prefix to all mapping
// names.
func WithNamePrefix(store Store, prefix string) Store {
	return prefixedStore{store, prefix}
}

// prefixedStore is a [Store] that adds a prefix to all mapping names.
type prefixedStore struct {
	Store
	prefix string
}

func (s prefixedStore) Open(ctx context.Context, name string) (Mapping, error) {
	m, err := s.Store.Open(ctx, s.prefix+name)
	if err != nil {
		return nil, err
	}

	return renamedMapping{m, name}, nil
}
