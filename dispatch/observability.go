package dispatch

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/fmtool/execution"
	"github.com/kbukum/fmtool/logger"
	"github.com/kbukum/fmtool/observability"
)

// WithTracing wraps h so each call runs inside a "dispatch.fm" span
// carrying the FM name.
func WithTracing(fm string, h Handler) Handler {
	return &tracingHandler{inner: h, fm: fm}
}

type tracingHandler struct {
	inner Handler
	fm    string
}

func (h *tracingHandler) Handle(ctx context.Context, ec execution.Context) error {
	ctx, span := observability.StartSpan(ctx, observability.SpanDispatchFM)
	defer span.End()

	span.SetAttributes(attribute.String(observability.AttrFM, h.fm))

	err := h.inner.Handle(ctx, ec)
	if err != nil {
		observability.SetSpanError(ctx, err)
	}
	return err
}

// WithMetrics wraps h with metric recording.
// Records operation count, duration, and errors.
func WithMetrics(metrics *observability.Metrics) Middleware {
	return func(fm string, h Handler) Handler {
		return &metricsHandler{inner: h, fm: fm, metrics: metrics}
	}
}

type metricsHandler struct {
	inner   Handler
	fm      string
	metrics *observability.Metrics
}

func (h *metricsHandler) Handle(ctx context.Context, ec execution.Context) error {
	start := time.Now()
	err := h.inner.Handle(ctx, ec)
	duration := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
		h.metrics.RecordError(ctx, "handler", h.fm)
	}
	h.metrics.RecordOperation(ctx, observability.SpanDispatchFM, h.fm, status, duration)

	return err
}

// WithLogging wraps h with a debug line on success and an error line on
// failure.
func WithLogging(log *logger.Logger) Middleware {
	return func(fm string, h Handler) Handler {
		return &loggingHandler{inner: h, fm: fm, log: log}
	}
}

type loggingHandler struct {
	inner Handler
	fm    string
	log   *logger.Logger
}

func (h *loggingHandler) Handle(ctx context.Context, ec execution.Context) error {
	start := time.Now()
	err := h.inner.Handle(ctx, ec)

	fields := logger.DurationFields("handler", time.Since(start))
	fields[logger.FieldFM] = h.fm

	log := h.log.WithContext(ctx)
	if err != nil {
		log.Error("handler failed", logger.MergeWithError(fields, err))
	} else {
		log.Debug("handler completed", fields)
	}

	return err
}
