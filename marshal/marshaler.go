// Package marshal converts between Go values and the text stored in a
// mapping.
package marshal

// Marshaler is an interface for types that can marshal and unmarshal values of
// type T to and from text.
type Marshaler[T any] interface {
	Marshal(T) (string, error)
	Unmarshal(string) (T, error)
}
