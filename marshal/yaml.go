package marshal

import "gopkg.in/yaml.v3"

// YAML is a [Marshaler] that uses the YAML encoding format.
type YAML[T any] struct{}

// Marshal returns the YAML representation of v.
func (YAML[T]) Marshal(v T) (string, error) {
	data, err := yaml.Marshal(v)
	return string(data), err
}

// Unmarshal returns a value of type T constructed from its YAML representation.
func (YAML[T]) Unmarshal(text string) (T, error) {
	var v T
	return v, yaml.Unmarshal([]byte(text), &v)
}
