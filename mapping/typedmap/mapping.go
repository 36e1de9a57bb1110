package typedmap

import (
	"context"

	"github.com/dogmatiq/dirmap/mapping"
	"github.com/dogmatiq/dirmap/marshal"
)

// A RangeFunc is a function used to range over the key/value pairs in a
// [Mapping].
//
// If err is non-nil, ranging stops and err is propagated up the stack.
// Otherwise, if ok is false, ranging stops without any error being propagated.
type RangeFunc[V any] func(ctx context.Context, k string, v V) (ok bool, err error)

// A Mapping associates string keys with values of type V.
//
// Operations that do not involve values, such as [mapping.Mapping.Len] and
// [mapping.Mapping.Keys], are promoted from the underlying mapping.
type Mapping[V any, M marshal.Marshaler[V]] struct {
	mapping.Mapping
	marshaler M
}

// Get returns the value associated with k.
func (m Mapping[V, M]) Get(ctx context.Context, k string) (V, error) {
	text, err := m.Mapping.Get(ctx, k)
	if err != nil {
		var zero V
		return zero, err
	}
	return m.marshaler.Unmarshal(text)
}

// Set associates v with k.
func (m Mapping[V, M]) Set(ctx context.Context, k string, v V) error {
	text, err := m.marshaler.Marshal(v)
	if err != nil {
		return err
	}
	return m.Mapping.Set(ctx, k, text)
}

// Delete removes k and returns the value it was associated with.
func (m Mapping[V, M]) Delete(ctx context.Context, k string) (V, error) {
	text, err := m.Mapping.Delete(ctx, k)
	if err != nil {
		var zero V
		return zero, err
	}
	return m.marshaler.Unmarshal(text)
}

// Range invokes fn for each key/value pair in the mapping.
func (m Mapping[V, M]) Range(ctx context.Context, fn RangeFunc[V]) error {
	return m.Mapping.Range(
		ctx,
		func(ctx context.Context, k, text string) (bool, error) {
			v, err := m.marshaler.Unmarshal(text)
			if err != nil {
				return false, err
			}
			return fn(ctx, k, v)
		},
	)
}

// Values returns the values in the mapping, in the same order as
// [mapping.Mapping.Keys].
func (m Mapping[V, M]) Values(ctx context.Context) ([]V, error) {
	var values []V

	err := m.Range(
		ctx,
		func(_ context.Context, _ string, v V) (bool, error) {
			values = append(values, v)
			return true, nil
		},
	)

	return values, err
}

// GetOrDefault returns the value associated with k, or def if k is not
// present.
func (m Mapping[V, M]) GetOrDefault(ctx context.Context, k string, def V) (V, error) {
	v, err := m.Get(ctx, k)
	if mapping.IsNotFound(err) {
		return def, nil
	}
	return v, err
}

// PopOrDefault removes k and returns the value it was associated with, or def
// if k is not present.
func (m Mapping[V, M]) PopOrDefault(ctx context.Context, k string, def V) (V, error) {
	v, err := m.Delete(ctx, k)
	if mapping.IsNotFound(err) {
		return def, nil
	}
	return v, err
}

// SetIfAbsent returns the value associated with k. If k is not present, it is
// first associated with def.
func (m Mapping[V, M]) SetIfAbsent(ctx context.Context, k string, def V) (V, error) {
	var zero V

	text, err := m.marshaler.Marshal(def)
	if err != nil {
		return zero, err
	}

	text, err = m.Mapping.SetIfAbsent(ctx, k, text)
	if err != nil {
		return zero, err
	}

	return m.marshaler.Unmarshal(text)
}
