package memorymap

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/dogmatiq/dirmap/mapping"
)

// state is the in-memory state of a mapping.
type state struct {
	sync.RWMutex
	Values map[string]string
}

// memoryMapping is an implementation of [mapping.Mapping] that manipulates a
// mapping's in-memory [state].
type memoryMapping struct {
	name  string
	state *state
}

func (m *memoryMapping) Name() string {
	return m.name
}

func (m *memoryMapping) Len(ctx context.Context) (int, error) {
	m.state.RLock()
	defer m.state.RUnlock()

	return len(m.state.Values), ctx.Err()
}

func (m *memoryMapping) Get(ctx context.Context, k string) (string, error) {
	if err := mapping.ValidateKey(m.name, k); err != nil {
		return "", err
	}

	m.state.RLock()
	defer m.state.RUnlock()

	v, ok := m.state.Values[k]
	if !ok {
		return "", mapping.KeyNotFoundError{
			Mapping: m.name,
			Key:     k,
		}
	}

	return v, ctx.Err()
}

func (m *memoryMapping) Has(ctx context.Context, k string) (bool, error) {
	if err := mapping.ValidateKey(m.name, k); err != nil {
		return false, err
	}

	m.state.RLock()
	defer m.state.RUnlock()

	_, ok := m.state.Values[k]
	return ok, ctx.Err()
}

func (m *memoryMapping) Set(ctx context.Context, k, v string) error {
	if err := mapping.ValidateKey(m.name, k); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	m.state.Lock()
	defer m.state.Unlock()

	if m.state.Values == nil {
		m.state.Values = map[string]string{}
	}

	m.state.Values[k] = v

	return nil
}

func (m *memoryMapping) Delete(ctx context.Context, k string) (string, error) {
	if err := mapping.ValidateKey(m.name, k); err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.state.Lock()
	defer m.state.Unlock()

	v, ok := m.state.Values[k]
	if !ok {
		return "", mapping.KeyNotFoundError{
			Mapping: m.name,
			Key:     k,
		}
	}

	delete(m.state.Values, k)

	return v, nil
}

func (m *memoryMapping) RangeKeys(ctx context.Context, fn mapping.KeyFunc) error {
	for _, k := range m.snapshot() {
		ok, err := fn(ctx, k)
		if !ok || err != nil {
			return err
		}
	}

	return ctx.Err()
}

func (m *memoryMapping) Range(ctx context.Context, fn mapping.RangeFunc) error {
	for _, k := range m.snapshot() {
		m.state.RLock()
		v, ok := m.state.Values[k]
		m.state.RUnlock()

		if !ok {
			continue
		}

		ok, err := fn(ctx, k, v)
		if !ok || err != nil {
			return err
		}
	}

	return ctx.Err()
}

func (m *memoryMapping) Keys(ctx context.Context) ([]string, error) {
	return m.snapshot(), ctx.Err()
}

func (m *memoryMapping) Values(ctx context.Context) ([]string, error) {
	return mapping.CollectValues(ctx, m)
}

func (m *memoryMapping) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.state.Lock()
	defer m.state.Unlock()

	clear(m.state.Values)

	return nil
}

func (m *memoryMapping) GetOrDefault(ctx context.Context, k, def string) (string, error) {
	return mapping.GetOrDefault(ctx, m, k, def)
}

func (m *memoryMapping) PopOrDefault(ctx context.Context, k, def string) (string, error) {
	return mapping.PopOrDefault(ctx, m, k, def)
}

func (m *memoryMapping) SetIfAbsent(ctx context.Context, k, def string) (string, error) {
	return mapping.SetIfAbsent(ctx, m, k, def)
}

// snapshot returns the mapping's keys in lexical order.
func (m *memoryMapping) snapshot() []string {
	m.state.RLock()
	defer m.state.RUnlock()

	return slices.Sorted(maps.Keys(m.state.Values))
}
