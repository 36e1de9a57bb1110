package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// Span is a single mapping operation within a trace.
type Span struct {
	recorder *Recorder
	ctx      context.Context
	span     trace.Span
}

// StartSpan starts a new span as a child of any span already in ctx.
//
// The operation is counted as in-flight until [Span.End] is called.
func (r *Recorder) StartSpan(
	ctx context.Context,
	name string,
	attrs ...Attr,
) (context.Context, *Span) {
	ctx, span := r.tracer.Start(
		ctx,
		name,
		trace.WithAttributes(attrs...),
	)

	r.operations(ctx, 1)
	r.inFlight(ctx, 1)

	return ctx, &Span{r, ctx, span}
}

// SetAttributes adds attributes to the span.
func (s *Span) SetAttributes(attrs ...Attr) {
	s.span.SetAttributes(attrs...)
}

// End completes the span.
func (s *Span) End() {
	s.recorder.inFlight(s.ctx, -1)
	s.span.End()
}
