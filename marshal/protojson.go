package marshal

import (
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// ProtoJSON is a [Marshaler] that uses the canonical JSON encoding of
// Protocol Buffers messages.
type ProtoJSON[
	T interface {
		proto.Message
		*S
	},
	S any,
] struct{}

// Marshal returns the JSON representation of v.
func (ProtoJSON[T, S]) Marshal(v T) (string, error) {
	data, err := protojson.Marshal(v)
	return string(data), err
}

// Unmarshal returns a message constructed from its JSON representation.
func (ProtoJSON[T, S]) Unmarshal(text string) (T, error) {
	var v T = new(S)
	return v, protojson.Unmarshal([]byte(text), v)
}
