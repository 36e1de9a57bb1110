package telemetry

import (
	"runtime/debug"
	"sync"

	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Provider provides [Recorder] instances scoped to particular packages.
type Provider struct {
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	LoggerProvider log.LoggerProvider
}

// Recorder records traces, metrics and logs for operations performed on a
// single mapping handle.
type Recorder struct {
	tracer trace.Tracer
	meter  metric.Meter
	logger log.Logger

	errors     Instrument[int64]
	operations Instrument[int64]
	inFlight   Instrument[int64]
}

// Recorder returns a new [Recorder] that attaches attrs to everything it
// records.
//
// pkg is the path of the public Go package that is performing the
// instrumentation.
func (p *Provider) Recorder(pkg string, attrs ...Attr) *Recorder {
	v := moduleVersion()

	r := &Recorder{
		tracer: p.TracerProvider.Tracer(
			pkg,
			trace.WithInstrumentationVersion(v),
			trace.WithInstrumentationAttributes(attrs...),
		),
		meter: p.MeterProvider.Meter(
			pkg,
			metric.WithInstrumentationVersion(v),
			metric.WithInstrumentationAttributes(attrs...),
		),
		logger: p.LoggerProvider.Logger(
			pkg,
			log.WithInstrumentationVersion(v),
			log.WithInstrumentationAttributes(attrs...),
		),
	}

	r.errors = r.Counter("errors", "{error}", "The number of mapping operations that have failed.")
	r.operations = r.Counter("operations", "{operation}", "The number of mapping operations that have been started.")
	r.inFlight = r.UpDownCounter("operations.in_flight", "{operation}", "The number of mapping operations that are currently in progress.")

	return r
}

// moduleVersion returns the version of this module as recorded in the
// binary's build information, or "unknown".
var moduleVersion = sync.OnceValue(func() string {
	const modulePath = "github.com/dogmatiq/dirmap"

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	if info.Main.Path == modulePath && info.Main.Version != "" {
		return info.Main.Version
	}

	for _, dep := range info.Deps {
		if dep.Path == modulePath {
			return dep.Version
		}
	}

	return "unknown"
})
