package dispatch_test

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/fmtool/dispatch"
	"github.com/kbukum/fmtool/dispatch/dispatchtest"
	"github.com/kbukum/fmtool/observability"
)

func useRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return rec
}

func TestWithTracing_RecordsSpan(t *testing.T) {
	rec := useRecorder(t)
	traced := dispatch.WithTracing("ALPHA", dispatchtest.NewMockHandler(nil))

	if err := traced.Handle(context.Background(), dispatchtest.NewRecordingContext()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	spans := rec.Ended()
	if len(spans) != 1 || spans[0].Name() != observability.SpanDispatchFM {
		t.Fatalf("expected one %s span, got %d", observability.SpanDispatchFM, len(spans))
	}
	found := false
	for _, kv := range spans[0].Attributes() {
		if kv == attribute.String(observability.AttrFM, "ALPHA") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected fm attribute on span, got %v", spans[0].Attributes())
	}
}

func TestWithTracing_PropagatesError(t *testing.T) {
	useRecorder(t)
	want := errors.New("fail")
	traced := dispatch.WithTracing("BETA", dispatchtest.NewMockHandler(want))
	if err := traced.Handle(context.Background(), dispatchtest.NewRecordingContext()); !errors.Is(err, want) {
		t.Fatalf("expected handler error, got %v", err)
	}
}

func TestDispatcherSpans(t *testing.T) {
	rec := useRecorder(t)
	reg := dispatch.NewRegistry()
	mustRegister(t, reg, "A", dispatchtest.NewMockHandler(nil))
	reg.Wrap(dispatch.WithTracing)

	rc := dispatchtest.NewRecordingContext()
	if _, err := newDispatcher(reg, rc).Run(context.Background(), []string{"A", "B"}, rc); err != nil {
		t.Fatal(err)
	}

	names := map[string]bool{}
	for _, s := range rec.Ended() {
		names[s.Name()] = true
	}
	if !names[observability.SpanDispatchRun] || !names[observability.SpanDispatchFM] {
		t.Errorf("expected run and fm spans, got %v", names)
	}
}

func TestWithMetrics(t *testing.T) {
	metrics, err := observability.NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatal(err)
	}
	want := errors.New("metrics-fail")
	h := dispatch.WithMetrics(metrics)("GAMMA", dispatchtest.NewMockHandler(want))
	if err := h.Handle(context.Background(), dispatchtest.NewRecordingContext()); !errors.Is(err, want) {
		t.Fatalf("expected handler error, got %v", err)
	}

	reg := dispatch.NewRegistry()
	mustRegister(t, reg, "OK", dispatchtest.NewMockHandler(nil))
	reg.Wrap(dispatch.WithMetrics(metrics))
	rc := dispatchtest.NewRecordingContext()
	d := dispatch.New(reg, dispatch.WithLogger(rc.Logger()), dispatch.WithRecorder(metrics))
	if _, err := d.Run(context.Background(), []string{"OK", "SKIP"}, rc); err != nil {
		t.Fatal(err)
	}
}

func TestWithLogging(t *testing.T) {
	rc := dispatchtest.NewRecordingContext()
	mw := dispatch.WithLogging(rc.Logger())

	if err := mw("OK", dispatchtest.NewMockHandler(nil)).Handle(context.Background(), rc); err != nil {
		t.Fatal(err)
	}
	want := errors.New("log-fail")
	if err := mw("BAD", dispatchtest.NewMockHandler(want)).Handle(context.Background(), rc); !errors.Is(err, want) {
		t.Fatalf("expected handler error, got %v", err)
	}

	lines := rc.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d", len(lines))
	}
	if lines[0]["message"] != "handler completed" || lines[0]["fm"] != "OK" {
		t.Errorf("unexpected success line %v", lines[0])
	}
	if lines[1]["message"] != "handler failed" || lines[1]["error"] != "log-fail" {
		t.Errorf("unexpected failure line %v", lines[1])
	}
}
