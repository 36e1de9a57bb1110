package mapping

import (
	"context"
	"encoding"
	"fmt"
	"reflect"
)

// Stringify returns the canonical text representation of v.
//
// Strings are returned unchanged. Non-nil values that implement
// [encoding.TextMarshaler] use that representation. Anything else is
// formatted with [fmt.Sprint], which prefers the Error method over the String
// method and formats nil pointers as "<nil>".
func Stringify(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case encoding.TextMarshaler:
		if !isNilPointer(v) {
			if data, err := v.MarshalText(); err == nil {
				return string(data)
			}
		}
	}

	return fmt.Sprint(v)
}

func isNilPointer(v any) bool {
	r := reflect.ValueOf(v)
	return r.Kind() == reflect.Pointer && r.IsNil()
}

// SetValue associates the text representation of v with k in m.
//
// Only the text is stored; the type of v is not preserved. See [Stringify].
func SetValue(ctx context.Context, m Mapping, k string, v any) error {
	return m.Set(ctx, k, Stringify(v))
}
