package mapping

import (
	"context"
	"sync"
	"sync/atomic"
)

// Interceptor defines functions that are invoked around mapping operations.
//
// The functions may be changed at any time, including while the store is in
// use. Each operation observes a consistent set of functions.
type Interceptor struct {
	m     sync.Mutex
	hooks atomic.Pointer[hooks]
}

type hooks struct {
	beforeOpen   func(string) error
	beforeSet    func(string, string, string) error
	afterSet     func(string, string, string) error
	beforeDelete func(string, string) error
	afterDelete  func(string, string, string) error
}

// BeforeOpen sets the function that is invoked before a [Mapping] is opened.
func (i *Interceptor) BeforeOpen(fn func(name string) error) {
	i.update(func(h *hooks) { h.beforeOpen = fn })
}

// BeforeSet sets the function that is invoked before a key/value pair is set.
func (i *Interceptor) BeforeSet(fn func(mapping, k, v string) error) {
	i.update(func(h *hooks) { h.beforeSet = fn })
}

// AfterSet sets the function that is invoked after a key/value pair is set.
func (i *Interceptor) AfterSet(fn func(mapping, k, v string) error) {
	i.update(func(h *hooks) { h.afterSet = fn })
}

// BeforeDelete sets the function that is invoked before a key is deleted.
func (i *Interceptor) BeforeDelete(fn func(mapping, k string) error) {
	i.update(func(h *hooks) { h.beforeDelete = fn })
}

// AfterDelete sets the function that is invoked after a key is deleted. v is
// the value that was associated with the key.
func (i *Interceptor) AfterDelete(fn func(mapping, k, v string) error) {
	i.update(func(h *hooks) { h.afterDelete = fn })
}

func (i *Interceptor) update(fn func(*hooks)) {
	i.m.Lock()
	defer i.m.Unlock()

	h := i.load()
	fn(&h)
	i.hooks.Store(&h)
}

func (i *Interceptor) load() hooks {
	if h := i.hooks.Load(); h != nil {
		return *h
	}
	return hooks{}
}

// WithInterceptor returns a [Store] that invokes the functions defined by the
// given [Interceptor] when performing operations on s.
//
// [Mapping.Clear] does not invoke the delete hooks.
//
// [Mapping.PopOrDefault] and [Mapping.SetIfAbsent] are performed using the
// intercepted Get, Delete and Set operations so that the hooks observe them.
// As a result SetIfAbsent is not atomic, even if s implements it as a single
// conditional write.
func WithInterceptor(s Store, in *Interceptor) Store {
	if in == nil {
		return s
	}

	return &interceptedStore{
		Next:        s,
		Interceptor: in,
	}
}

type interceptedStore struct {
	Next        Store
	Interceptor *Interceptor
}

func (s *interceptedStore) Open(ctx context.Context, name string) (Mapping, error) {
	if fn := s.Interceptor.load().beforeOpen; fn != nil {
		if err := fn(name); err != nil {
			return nil, err
		}
	}

	next, err := s.Next.Open(ctx, name)
	if err != nil {
		return nil, err
	}

	return &interceptedMapping{
		Mapping:     next,
		Interceptor: s.Interceptor,
	}, nil
}

type interceptedMapping struct {
	Mapping
	Interceptor *Interceptor
}

func (m *interceptedMapping) Set(ctx context.Context, k, v string) error {
	name := m.Mapping.Name()
	h := m.Interceptor.load()

	if h.beforeSet != nil {
		if err := h.beforeSet(name, k, v); err != nil {
			return err
		}
	}

	if err := m.Mapping.Set(ctx, k, v); err != nil {
		return err
	}

	if h.afterSet != nil {
		return h.afterSet(name, k, v)
	}

	return nil
}

func (m *interceptedMapping) Delete(ctx context.Context, k string) (string, error) {
	name := m.Mapping.Name()
	h := m.Interceptor.load()

	if h.beforeDelete != nil {
		if err := h.beforeDelete(name, k); err != nil {
			return "", err
		}
	}

	v, err := m.Mapping.Delete(ctx, k)
	if err != nil {
		return "", err
	}

	if h.afterDelete != nil {
		if err := h.afterDelete(name, k, v); err != nil {
			return "", err
		}
	}

	return v, nil
}

func (m *interceptedMapping) PopOrDefault(ctx context.Context, k, def string) (string, error) {
	return PopOrDefault(ctx, m, k, def)
}

func (m *interceptedMapping) SetIfAbsent(ctx context.Context, k, def string) (string, error) {
	return SetIfAbsent(ctx, m, k, def)
}
