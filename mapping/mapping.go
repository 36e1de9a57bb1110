package mapping

import "context"

// A KeyFunc is a function used to range over the keys in a [Mapping].
//
// If err is non-nil, ranging stops and err is propagated up the stack.
// Otherwise, if ok is false, ranging stops without any error being propagated.
type KeyFunc func(ctx context.Context, k string) (ok bool, err error)

// A RangeFunc is a function used to range over the key/value pairs in a
// [Mapping].
//
// If err is non-nil, ranging stops and err is propagated up the stack.
// Otherwise, if ok is false, ranging stops without any error being propagated.
type RangeFunc func(ctx context.Context, k, v string) (ok bool, err error)

// A Mapping is a collection of text values indexed by unique, non-empty keys.
//
// Implementations hold no cached copy of keys or values. Each operation
// queries the underlying storage afresh, so changes made by other mappings
// (or other processes) are visible immediately.
//
// Operations that accept a key return an [InvalidKeyError] if the key is
// empty, or otherwise unusable by the implementation.
type Mapping interface {
	// Name returns the name of the mapping.
	Name() string

	// Len returns the number of entries in the mapping.
	Len(ctx context.Context) (int, error)

	// Get returns the value associated with k.
	//
	// It returns a [KeyNotFoundError] if k is not present in the mapping.
	Get(ctx context.Context, k string) (string, error)

	// Has returns true if k is present in the mapping.
	Has(ctx context.Context, k string) (bool, error)

	// Set associates v with k, replacing any existing value in its entirety.
	Set(ctx context.Context, k, v string) error

	// Delete removes k from the mapping and returns the value it was
	// associated with.
	//
	// It returns a [KeyNotFoundError] if k is not present in the mapping.
	Delete(ctx context.Context, k string) (string, error)

	// RangeKeys invokes fn for each key in the mapping in an undefined order.
	//
	// The keys are captured once, when RangeKeys is called. Entries added or
	// removed during iteration are not reflected.
	RangeKeys(ctx context.Context, fn KeyFunc) error

	// Range invokes fn for each key/value pair in the mapping in an undefined
	// order.
	//
	// The keys are captured once, when Range is called. Each value is read
	// immediately before fn is invoked for its key. Keys that are removed
	// before their value is read are skipped.
	Range(ctx context.Context, fn RangeFunc) error

	// Keys returns all keys in the mapping, in an undefined order.
	Keys(ctx context.Context) ([]string, error)

	// Values returns all values in the mapping, in the order that Keys would
	// return their keys.
	Values(ctx context.Context) ([]string, error)

	// Clear removes every entry from the mapping.
	Clear(ctx context.Context) error

	// GetOrDefault returns the value associated with k, or def if k is not
	// present in the mapping.
	GetOrDefault(ctx context.Context, k, def string) (string, error)

	// PopOrDefault removes k from the mapping and returns the value it was
	// associated with, or def if k is not present in the mapping.
	PopOrDefault(ctx context.Context, k, def string) (string, error)

	// SetIfAbsent returns the value associated with k. If k is not present in
	// the mapping, it is first associated with def.
	SetIfAbsent(ctx context.Context, k, def string) (string, error)
}

// Store is a collection of named mappings.
type Store interface {
	// Open returns the mapping with the given name.
	Open(ctx context.Context, name string) (Mapping, error)
}
