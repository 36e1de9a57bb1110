package mapping

import "context"

// WithNameTransform returns a [Store] that uses x to transform the name of each
// mapping within s.
//
// [Mapping.Name] returns the untransformed name.
func WithNameTransform(
	s Store,
	x func(string) string,
) Store {
	return &nameTransformStore{s, x}
}

type nameTransformStore struct {
	Store
	transform func(string) string
}

func (s *nameTransformStore) Open(ctx context.Context, name string) (Mapping, error) {
	m, err := s.Store.Open(ctx, s.transform(name))
	if err != nil {
		return nil, err
	}

	return renamedMapping{m, name}, nil
}

// renamedMapping is a [Mapping] that reports a name other than that of the
// underlying mapping.
type renamedMapping struct {
	Mapping
	name string
}

func (m renamedMapping) Name() string {
	return m.name
}
