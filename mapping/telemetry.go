package mapping

import (
	"context"

	"github.com/dogmatiq/dirmap/internal/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// WithTelemetry returns a [Store] that adds telemetry to s.
func WithTelemetry(
	s Store,
	p trace.TracerProvider,
	m metric.MeterProvider,
	l log.LoggerProvider,
) Store {
	return &instrumentedStore{
		Next: s,
		Telemetry: telemetry.Provider{
			TracerProvider: p,
			MeterProvider:  m,
			LoggerProvider: l,
		},
	}
}

// instrumentedStore is a decorator that adds instrumentation to a [Store].
type instrumentedStore struct {
	Next      Store
	Telemetry telemetry.Provider
}

// Open returns the mapping with the given name.
func (s *instrumentedStore) Open(ctx context.Context, name string) (Mapping, error) {
	telem := s.Telemetry.Recorder(
		"github.com/dogmatiq/dirmap/mapping",
		telemetry.Type("mapping.store", s.Next),
		telemetry.String("mapping.name", name),
		telemetry.String("mapping.handle", uuid.NewString()),
	)

	m := &instrumentedMapping{
		Telemetry:    telem,
		OpenMappings: telem.UpDownCounter("open_mappings", "{mapping}", "The number of mapping handles that have been opened."),
		Misses:       telem.Counter("misses", "{operation}", "The number of times a specific key was requested but not present in the mapping."),
		KeyIO:        telem.Counter("key.io", "By", "The cumulative size of the keys that have been operated upon."),
		ValueIO:      telem.Counter("value.io", "By", "The cumulative size of the values that have been operated upon."),
		KeySize:      telem.Histogram("key.size", "By", "The sizes of the keys that have been operated upon."),
		ValueSize:    telem.Histogram("value.size", "By", "The sizes of the values that have been operated upon."),
	}

	ctx, span := telem.StartSpan(ctx, "mapping.open")
	defer span.End()

	next, err := s.Next.Open(ctx, name)
	if err != nil {
		m.Telemetry.Error(ctx, "mapping.open.error", err)
		return nil, err
	}

	m.Next = next

	m.OpenMappings(ctx, 1)
	m.Telemetry.Info(ctx, "mapping.open.ok", "opened mapping")

	return m, nil
}

type instrumentedMapping struct {
	Next      Mapping
	Telemetry *telemetry.Recorder

	OpenMappings telemetry.Instrument[int64]
	Misses       telemetry.Instrument[int64]
	KeyIO        telemetry.Instrument[int64]
	ValueIO      telemetry.Instrument[int64]
	KeySize      telemetry.Instrument[int64]
	ValueSize    telemetry.Instrument[int64]
}

func (m *instrumentedMapping) Name() string {
	return m.Next.Name()
}

func (m *instrumentedMapping) Len(ctx context.Context) (int, error) {
	ctx, span := m.Telemetry.StartSpan(ctx, "mapping.len")
	defer span.End()

	n, err := m.Next.Len(ctx)
	if err != nil {
		m.Telemetry.Error(ctx, "mapping.len.error", err)
		return 0, err
	}

	span.SetAttributes(
		telemetry.Int("entries", n),
	)

	m.Telemetry.Info(ctx, "mapping.len.ok", "counted entries in mapping")

	return n, nil
}

func (m *instrumentedMapping) Get(ctx context.Context, k string) (string, error) {
	ctx, span := m.startKeySpan(ctx, "mapping.get", k)
	defer span.End()

	v, err := m.Next.Get(ctx, k)
	if IsNotFound(err) {
		m.Misses(ctx, 1)

		span.SetAttributes(
			telemetry.Bool("key_present", false),
		)

		m.Telemetry.Info(ctx, "mapping.get.miss", "key is not present in mapping")
		return "", err
	} else if err != nil {
		m.Telemetry.Error(ctx, "mapping.get.error", err)
		return "", err
	}

	m.recordValue(ctx, span, v, telemetry.ReadDirection)

	span.SetAttributes(
		telemetry.Bool("key_present", true),
	)

	m.Telemetry.Info(ctx, "mapping.get.ok", "fetched value associated with key")

	return v, nil
}

func (m *instrumentedMapping) Has(ctx context.Context, k string) (bool, error) {
	ctx, span := m.startKeySpan(ctx, "mapping.has", k)
	defer span.End()

	ok, err := m.Next.Has(ctx, k)
	if err != nil {
		m.Telemetry.Error(ctx, "mapping.has.error", err)
		return false, err
	}

	span.SetAttributes(
		telemetry.Bool("key_present", ok),
	)

	if ok {
		m.Telemetry.Info(ctx, "mapping.has.ok", "key is present in mapping")
	} else {
		m.Telemetry.Info(ctx, "mapping.has.ok", "key is not present in mapping")
	}

	return ok, nil
}

func (m *instrumentedMapping) Set(ctx context.Context, k, v string) error {
	ctx, span := m.startKeySpan(ctx, "mapping.set", k)
	defer span.End()

	m.recordValue(ctx, span, v, telemetry.WriteDirection)

	if err := m.Next.Set(ctx, k, v); err != nil {
		m.Telemetry.Error(ctx, "mapping.set.error", err)
		return err
	}

	m.Telemetry.Info(ctx, "mapping.set.ok", "set key/value pair")

	return nil
}

func (m *instrumentedMapping) Delete(ctx context.Context, k string) (string, error) {
	ctx, span := m.startKeySpan(ctx, "mapping.delete", k)
	defer span.End()

	v, err := m.Next.Delete(ctx, k)
	if IsNotFound(err) {
		m.Misses(ctx, 1)

		span.SetAttributes(
			telemetry.Bool("key_present", false),
		)

		m.Telemetry.Info(ctx, "mapping.delete.miss", "key is not present in mapping")
		return "", err
	} else if err != nil {
		m.Telemetry.Error(ctx, "mapping.delete.error", err)
		return "", err
	}

	m.recordValue(ctx, span, v, telemetry.ReadDirection)

	span.SetAttributes(
		telemetry.Bool("key_present", true),
	)

	m.Telemetry.Info(ctx, "mapping.delete.ok", "deleted key/value pair")

	return v, nil
}

func (m *instrumentedMapping) RangeKeys(ctx context.Context, fn KeyFunc) error {
	ctx, span := m.Telemetry.StartSpan(ctx, "mapping.range-keys")
	defer span.End()

	var (
		count     uint64
		brokeLoop bool
	)

	m.Telemetry.Info(ctx, "mapping.range-keys.start", "reading keys")

	err := m.Next.RangeKeys(
		ctx,
		func(ctx context.Context, k string) (bool, error) {
			count++

			keySize := int64(len(k))
			m.KeyIO(ctx, keySize, telemetry.ReadDirection)
			m.KeySize(ctx, keySize, telemetry.ReadDirection)

			ok, err := fn(ctx, k)
			if ok || err != nil {
				return ok, err
			}

			brokeLoop = true
			return false, nil
		},
	)

	span.SetAttributes(
		telemetry.Int("keys_read", count),
		telemetry.Bool("reached_end", !brokeLoop && err == nil),
	)

	if err != nil {
		m.Telemetry.Error(ctx, "mapping.range-keys.error", err)
		return err
	}

	if brokeLoop {
		m.Telemetry.Info(ctx, "mapping.range-keys.break", "range aborted cleanly before visiting all keys")
	} else {
		m.Telemetry.Info(ctx, "mapping.range-keys.end", "range visited all keys")
	}

	return nil
}

func (m *instrumentedMapping) Range(ctx context.Context, fn RangeFunc) error {
	ctx, span := m.Telemetry.StartSpan(ctx, "mapping.range")
	defer span.End()

	var (
		count     uint64
		totalSize int64
		brokeLoop bool
	)

	m.Telemetry.Info(ctx, "mapping.range.start", "reading key/value pairs")

	err := m.Next.Range(
		ctx,
		func(ctx context.Context, k, v string) (bool, error) {
			count++

			keySize := int64(len(k))
			valueSize := int64(len(v))
			totalSize += keySize + valueSize

			m.KeyIO(ctx, keySize, telemetry.ReadDirection)
			m.KeySize(ctx, keySize, telemetry.ReadDirection)

			m.ValueIO(ctx, valueSize, telemetry.ReadDirection)
			m.ValueSize(ctx, valueSize, telemetry.ReadDirection)

			ok, err := fn(ctx, k, v)
			if ok || err != nil {
				return ok, err
			}

			brokeLoop = true
			return false, nil
		},
	)

	span.SetAttributes(
		telemetry.Int("pairs_read", count),
		telemetry.Int("bytes_read", totalSize),
		telemetry.Bool("reached_end", !brokeLoop && err == nil),
	)

	if err != nil {
		m.Telemetry.Error(ctx, "mapping.range.error", err)
		return err
	}

	if brokeLoop {
		m.Telemetry.Info(ctx, "mapping.range.break", "range aborted cleanly before visiting all key/value pairs")
	} else {
		m.Telemetry.Info(ctx, "mapping.range.end", "range visited all key/value pairs")
	}

	return nil
}

func (m *instrumentedMapping) Keys(ctx context.Context) ([]string, error) {
	ctx, span := m.Telemetry.StartSpan(ctx, "mapping.keys")
	defer span.End()

	keys, err := m.Next.Keys(ctx)
	if err != nil {
		m.Telemetry.Error(ctx, "mapping.keys.error", err)
		return nil, err
	}

	span.SetAttributes(
		telemetry.Int("keys_read", len(keys)),
	)

	m.Telemetry.Info(ctx, "mapping.keys.ok", "listed keys")

	return keys, nil
}

func (m *instrumentedMapping) Values(ctx context.Context) ([]string, error) {
	ctx, span := m.Telemetry.StartSpan(ctx, "mapping.values")
	defer span.End()

	values, err := m.Next.Values(ctx)
	if err != nil {
		m.Telemetry.Error(ctx, "mapping.values.error", err)
		return nil, err
	}

	var totalSize int64
	for _, v := range values {
		valueSize := int64(len(v))
		totalSize += valueSize

		m.ValueIO(ctx, valueSize, telemetry.ReadDirection)
		m.ValueSize(ctx, valueSize, telemetry.ReadDirection)
	}

	span.SetAttributes(
		telemetry.Int("values_read", len(values)),
		telemetry.Int("bytes_read", totalSize),
	)

	m.Telemetry.Info(ctx, "mapping.values.ok", "read values")

	return values, nil
}

func (m *instrumentedMapping) Clear(ctx context.Context) error {
	ctx, span := m.Telemetry.StartSpan(ctx, "mapping.clear")
	defer span.End()

	if err := m.Next.Clear(ctx); err != nil {
		m.Telemetry.Error(ctx, "mapping.clear.error", err)
		return err
	}

	m.Telemetry.Info(ctx, "mapping.clear.ok", "removed all entries")

	return nil
}

func (m *instrumentedMapping) GetOrDefault(ctx context.Context, k, def string) (string, error) {
	return GetOrDefault(ctx, m, k, def)
}

func (m *instrumentedMapping) PopOrDefault(ctx context.Context, k, def string) (string, error) {
	return PopOrDefault(ctx, m, k, def)
}

func (m *instrumentedMapping) SetIfAbsent(ctx context.Context, k, def string) (string, error) {
	ctx, span := m.startKeySpan(ctx, "mapping.set-if-absent", k)
	defer span.End()

	v, err := m.Next.SetIfAbsent(ctx, k, def)
	if err != nil {
		m.Telemetry.Error(ctx, "mapping.set-if-absent.error", err)
		return "", err
	}

	m.recordValue(ctx, span, v, telemetry.ReadDirection)

	m.Telemetry.Info(ctx, "mapping.set-if-absent.ok", "fetched or stored value associated with key")

	return v, nil
}

// startKeySpan starts a span for an operation on a single key.
func (m *instrumentedMapping) startKeySpan(
	ctx context.Context,
	name, k string,
) (context.Context, *telemetry.Span) {
	keySize := int64(len(k))

	ctx, span := m.Telemetry.StartSpan(
		ctx,
		name,
		telemetry.Text("key", k),
		telemetry.Int("key_size", keySize),
	)

	m.KeyIO(ctx, keySize, telemetry.WriteDirection)
	m.KeySize(ctx, keySize, telemetry.WriteDirection)

	return ctx, span
}

// recordValue records the size of a value that was read or written.
func (m *instrumentedMapping) recordValue(
	ctx context.Context,
	span *telemetry.Span,
	v string,
	dir telemetry.Attr,
) {
	valueSize := int64(len(v))

	m.ValueIO(ctx, valueSize, dir)
	m.ValueSize(ctx, valueSize, dir)

	span.SetAttributes(
		telemetry.Text("value", v),
		telemetry.Int("value_size", valueSize),
	)
}
