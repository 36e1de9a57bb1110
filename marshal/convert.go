package marshal

// Convert is a [Marshaler] that performs a type conversion between string
// types without changing the underlying text.
type Convert[T ~string] struct{}

// Marshal returns v unmodified.
func (Convert[T]) Marshal(v T) (string, error) {
	return string(v), nil
}

// Unmarshal returns text unmodified.
func (Convert[T]) Unmarshal(text string) (T, error) {
	return T(text), nil
}

// String marshals and unmarshals the built-in string type.
var String Marshaler[string] = Convert[string]{}
