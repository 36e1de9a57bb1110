package telemetry

import (
	"reflect"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/log"
	"golang.org/x/exp/constraints"
)

// Attr is an attribute attached to spans, measurements and log records.
type Attr = attribute.KeyValue

// String returns a string attribute.
func String[T ~string](k string, v T) Attr {
	return attribute.String(k, string(v))
}

// Type returns a string attribute set to the name of the type of v, with any
// pointer indirection removed.
func Type(k string, v any) Attr {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t == nil {
		return String(k, "<nil>")
	}

	return String(k, t.String())
}

// Bool returns a boolean attribute.
func Bool(k string, v bool) Attr {
	return attribute.Bool(k, v)
}

// Int returns an integer attribute.
func Int[T constraints.Integer](k string, v T) Attr {
	return attribute.Int64(k, int64(v))
}

// maxTextSize is the number of bytes of a key or value that are included in a
// [Text] attribute.
const maxTextSize = 64

// Text returns an attribute containing a key or value from a mapping, quoted
// as an ASCII Go string. Text longer than 64 bytes is truncated and the
// attribute's key is suffixed with "_truncated".
func Text(k, v string) Attr {
	if len(v) > maxTextSize {
		v = v[:maxTextSize]
		k += "_truncated"
	}

	return String(k, strconv.QuoteToASCII(v))
}

// logKeyValues converts attributes to their log record representation.
func logKeyValues(attrs []Attr) []log.KeyValue {
	kvs := make([]log.KeyValue, 0, len(attrs))

	for _, a := range attrs {
		k := string(a.Key)

		switch a.Value.Type() {
		case attribute.BOOL:
			kvs = append(kvs, log.Bool(k, a.Value.AsBool()))
		case attribute.INT64:
			kvs = append(kvs, log.Int64(k, a.Value.AsInt64()))
		case attribute.FLOAT64:
			kvs = append(kvs, log.Float64(k, a.Value.AsFloat64()))
		default:
			kvs = append(kvs, log.String(k, a.Value.Emit()))
		}
	}

	return kvs
}
