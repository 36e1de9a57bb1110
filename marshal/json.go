package marshal

import "encoding/json"

// JSON is a [Marshaler] that uses the JSON encoding format.
type JSON[T any] struct{}

// Marshal returns the JSON representation of v.
func (JSON[T]) Marshal(v T) (string, error) {
	data, err := json.Marshal(v)
	return string(data), err
}

// Unmarshal returns a value of type T constructed from its JSON representation.
func (JSON[T]) Unmarshal(text string) (T, error) {
	var v T
	return v, json.Unmarshal([]byte(text), &v)
}
