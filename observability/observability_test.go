package observability

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/fmtool/component"
)

// useRecorder installs an in-memory span recorder for the test's duration.
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

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("fmtool")
	if cfg.ServiceName != "fmtool" {
		t.Errorf("expected ServiceName 'fmtool', got %s", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 || !cfg.Insecure {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("fmtool")
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", cfg.Interval)
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{2.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{0.25, "TraceIDRatioBased"},
	}
	for _, tc := range tests {
		if got := sampler(tc.rate).Description(); !strings.HasPrefix(got, tc.want) {
			t.Errorf("sampler(%v) = %s, want prefix %s", tc.rate, got, tc.want)
		}
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource("fmtool", "1.0.0", "test")
	if err != nil {
		t.Fatalf("newResource failed: %v", err)
	}
	found := false
	for _, kv := range res.Attributes() {
		if kv.Key == "service.name" && kv.Value.AsString() == "fmtool" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected service.name attribute, got %v", res.Attributes())
	}
}

func TestNewMetrics(t *testing.T) {
	metrics, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}

	ctx := context.Background()
	metrics.RecordOperation(ctx, SpanLineageParse, "lineage.txt", "ok", 50*time.Millisecond)
	metrics.RecordError(ctx, "handler", "ALPHA")
	metrics.RecordNode(ctx, "skipped")
}

func TestStartSpanAndTraceID(t *testing.T) {
	rec := useRecorder(t)

	if TraceID(context.Background()) != "" {
		t.Error("expected empty trace ID without a span")
	}

	ctx, span := StartSpan(context.Background(), SpanDispatchRun)
	if TraceID(ctx) == "" {
		t.Error("expected trace ID inside a span")
	}
	SetSpanAttribute(ctx, AttrFM, "ALPHA")
	SetSpanAttribute(ctx, AttrLayer, 2)
	SetSpanAttribute(ctx, "count", int64(3))
	SetSpanAttribute(ctx, "rate", 0.5)
	SetSpanAttribute(ctx, "dry_run", true)
	SetSpanAttribute(ctx, "remainder", []string{"X", "Y"})
	SetSpanAttribute(ctx, "ignored", struct{}{})
	span.End()

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != SpanDispatchRun {
		t.Errorf("unexpected span name %q", spans[0].Name())
	}
	if len(spans[0].Attributes()) != 6 {
		t.Errorf("expected 6 attributes, got %v", spans[0].Attributes())
	}
}

func TestSetSpanError(t *testing.T) {
	rec := useRecorder(t)

	ctx, span := StartSpan(context.Background(), "test-error")
	SetSpanError(ctx, fmt.Errorf("boom"))
	span.End()

	if len(rec.Ended()[0].Events()) != 1 {
		t.Error("expected recorded error event")
	}

	// No recording span: must not panic.
	SetSpanError(context.Background(), fmt.Errorf("no span"))
	SetSpanAttribute(context.Background(), "k", "v")
}

func TestOperationEnd(t *testing.T) {
	rec := useRecorder(t)
	metrics, _ := NewMetrics(noop.NewMeterProvider().Meter("test"))

	ctx, op := StartOperation(context.Background(), SpanLineageParse, metrics, attribute.String("path", "lineage.txt"))
	op.End(ctx, "lineage.txt", nil)

	ctx, op = StartOperation(context.Background(), SpanLineagePlan, nil)
	op.End(ctx, "", fmt.Errorf("unreadable"))

	spans := rec.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Status().Code == codes.Error {
		t.Error("successful operation must not be marked as error")
	}
	if spans[1].Status().Code != codes.Error {
		t.Error("failed operation must be marked as error")
	}
	if op.Duration() <= 0 {
		t.Error("expected positive duration")
	}
}

func TestTelemetryConfig(t *testing.T) {
	var off TelemetryConfig
	off.ApplyDefaults()
	if off.Endpoint != "" || off.Validate() != nil {
		t.Errorf("disabled config should stay empty and valid: %+v", off)
	}

	on := TelemetryConfig{Enabled: true}
	on.ApplyDefaults()
	if on.Endpoint != "localhost:4318" || on.SampleRate != 1.0 || on.Interval != 15*time.Second {
		t.Errorf("unexpected defaults: %+v", on)
	}
	if err := on.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}

	on.SampleRate = 1.5
	if err := on.Validate(); err == nil || !strings.Contains(err.Error(), "telemetry.sample_rate") {
		t.Errorf("expected sample rate error, got %v", err)
	}
}

func TestTelemetryDisabledLifecycle(t *testing.T) {
	tel := NewTelemetry(TelemetryConfig{}, "fmtool", "dev", "test")
	ctx := context.Background()

	if tel.Health(ctx).Status != component.StatusUnhealthy {
		t.Error("expected unhealthy before Start")
	}
	if err := tel.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if tel.Metrics() == nil {
		t.Error("expected metrics after Start")
	}
	if h := tel.Health(ctx); h.Status != component.StatusHealthy || h.Message != "export disabled" {
		t.Errorf("unexpected health %+v", h)
	}
	if d := tel.Describe(); d.Details != "disabled" || d.Type != "telemetry" {
		t.Errorf("unexpected description %+v", d)
	}
	if err := tel.Stop(ctx); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
}

func TestTelemetryEnabledDescribe(t *testing.T) {
	tel := NewTelemetry(TelemetryConfig{Enabled: true, Endpoint: "collector:4318", SampleRate: 0.1}, "fmtool", "dev", "test")
	if got := tel.Describe().Details; got != "otlp collector:4318 sample=0.10" {
		t.Errorf("unexpected details %q", got)
	}
}

func TestInitTracerAndMeter(t *testing.T) {
	prevTP, prevMP := otel.GetTracerProvider(), otel.GetMeterProvider()
	defer func() {
		otel.SetTracerProvider(prevTP)
		otel.SetMeterProvider(prevMP)
	}()

	// Exporters connect lazily, so construction succeeds without a collector.
	tp, err := InitTracer(context.Background(), DefaultTracerConfig("fmtool"))
	if err != nil {
		t.Fatalf("InitTracer failed: %v", err)
	}
	defer tp.Shutdown(context.Background())

	mp, err := InitMeter(context.Background(), DefaultMeterConfig("fmtool"))
	if err != nil {
		t.Fatalf("InitMeter failed: %v", err)
	}
	// Shutdown flushes to an absent collector; only construction is under test.
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = mp.Shutdown(ctx)
}
