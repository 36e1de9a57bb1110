package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/trace"
)

// Info records an informational event as a log record and a span event.
func (r *Recorder) Info(
	ctx context.Context,
	event, message string,
	attrs ...Attr,
) {
	r.emit(ctx, log.SeverityInfo, event, message, attrs)
}

// Error records a failure as a log record and a span event, marks the current
// span as failed and increments the "errors" counter.
func (r *Recorder) Error(
	ctx context.Context,
	event string,
	err error,
	attrs ...Attr,
) {
	r.errors(ctx, 1)

	span := trace.SpanFromContext(ctx)
	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err)

	r.emit(
		ctx,
		log.SeverityError,
		event,
		err.Error(),
		append(attrs, String("error", err.Error())),
	)
}

func (r *Recorder) emit(
	ctx context.Context,
	severity log.Severity,
	event, message string,
	attrs []Attr,
) {
	trace.SpanFromContext(ctx).AddEvent(
		event,
		trace.WithAttributes(attrs...),
		trace.WithAttributes(String("message", message)),
	)

	if !r.logger.Enabled(ctx, log.EnabledParameters{Severity: severity}) {
		return
	}

	var rec log.Record
	rec.SetEventName(event)
	rec.SetSeverity(severity)
	rec.SetSeverityText(severity.String())
	rec.SetBody(log.StringValue(message))
	rec.AddAttributes(logKeyValues(attrs)...)

	r.logger.Emit(ctx, rec)
}
