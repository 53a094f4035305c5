package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Operation tracks one traced, measured step of a command such as parsing
// a lineage file or computing layers.
type Operation struct {
	Name      string
	StartTime time.Time
	Metrics   *Metrics

	span trace.Span
}

// StartOperation starts a span named name. If metrics is nil, metric
// recording is skipped.
func StartOperation(ctx context.Context, name string, metrics *Metrics, attrs ...attribute.KeyValue) (context.Context, *Operation) {
	ctx, span := StartSpan(ctx, name, trace.WithAttributes(attrs...))
	return ctx, &Operation{
		Name:      name,
		StartTime: time.Now(),
		Metrics:   metrics,
		span:      span,
	}
}

// Span returns the operation's span.
func (op *Operation) Span() trace.Span { return op.span }

// End closes the span and records the operation metric. subject labels the
// metric (a path, an FM name); err marks the span as failed.
func (op *Operation) End(ctx context.Context, subject string, err error) {
	duration := time.Since(op.StartTime)
	status := "ok"
	if err != nil {
		status = "error"
		op.span.RecordError(err)
		op.span.SetStatus(codes.Error, err.Error())
		op.span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
	}

	op.span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	op.span.End()

	if op.Metrics != nil {
		op.Metrics.RecordOperation(ctx, op.Name, subject, status, duration)
		if err != nil {
			op.Metrics.RecordError(ctx, op.Name, subject)
		}
	}
}

// Duration returns the elapsed time since the operation started.
func (op *Operation) Duration() time.Duration {
	return time.Since(op.StartTime)
}
