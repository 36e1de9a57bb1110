package marshal

import "encoding"

// Text is a [Marshaler] for types that implement [encoding.TextMarshaler] and
// [encoding.TextUnmarshaler].
//
// S is the underlying type, T must be a pointer to S.
type Text[
	T interface {
		encoding.TextMarshaler
		encoding.TextUnmarshaler
		*S
	},
	S any,
] struct{}

// Marshal returns the text representation of v.
func (Text[T, S]) Marshal(v T) (string, error) {
	data, err := v.MarshalText()
	return string(data), err
}

// Unmarshal returns a value constructed from its text representation.
func (Text[T, S]) Unmarshal(text string) (T, error) {
	var v T = new(S)
	return v, v.UnmarshalText([]byte(text))
}
