package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/fmtool/component"
	"github.com/kbukum/fmtool/validation"
)

// TelemetryConfig is the "telemetry" section of the app config.
type TelemetryConfig struct {
	Enabled    bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string        `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64       `yaml:"sample_rate" mapstructure:"sample_rate"`
	Interval   time.Duration `yaml:"interval" mapstructure:"interval"`
}

// ApplyDefaults fills the endpoint and sample rate for an enabled exporter.
func (c *TelemetryConfig) ApplyDefaults() {
	if !c.Enabled {
		return
	}
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.Interval == 0 {
		c.Interval = 15 * time.Second
	}
}

// Validate checks the section. A disabled section is always valid.
func (c *TelemetryConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	return validation.New().
		Required("telemetry.endpoint", c.Endpoint).
		Between("telemetry.sample_rate", c.SampleRate, 0, 1).
		Err()
}

// Telemetry is the component owning the tracer and meter providers.
type Telemetry struct {
	cfg         TelemetryConfig
	service     string
	version     string
	environment string

	tp      *sdktrace.TracerProvider
	mp      *sdkmetric.MeterProvider
	metrics *Metrics
	started bool
}

var _ component.Component = (*Telemetry)(nil)
var _ component.Describable = (*Telemetry)(nil)

// NewTelemetry creates the telemetry component. Nothing is exported until Start.
func NewTelemetry(cfg TelemetryConfig, service, version, environment string) *Telemetry {
	return &Telemetry{cfg: cfg, service: service, version: version, environment: environment}
}

// Name implements component.Component.
func (t *Telemetry) Name() string { return "telemetry" }

// Start installs the OTLP exporters when enabled and creates the metric
// instruments on the resulting (or the global no-op) meter provider.
func (t *Telemetry) Start(ctx context.Context) error {
	if t.cfg.Enabled {
		tp, err := InitTracer(ctx, TracerConfig{
			ServiceName:    t.service,
			ServiceVersion: t.version,
			Environment:    t.environment,
			Endpoint:       t.cfg.Endpoint,
			Insecure:       t.cfg.Insecure,
			SampleRate:     t.cfg.SampleRate,
		})
		if err != nil {
			return err
		}
		t.tp = tp

		mp, err := InitMeter(ctx, MeterConfig{
			ServiceName:    t.service,
			ServiceVersion: t.version,
			Environment:    t.environment,
			Endpoint:       t.cfg.Endpoint,
			Insecure:       t.cfg.Insecure,
			Interval:       t.cfg.Interval,
		})
		if err != nil {
			_ = tp.Shutdown(ctx)
			t.tp = nil
			return err
		}
		t.mp = mp
	}

	metrics, err := NewMetrics(Meter(t.service))
	if err != nil {
		return err
	}
	t.metrics = metrics
	t.started = true
	return nil
}

// Stop flushes and shuts down the providers, meter first.
func (t *Telemetry) Stop(ctx context.Context) error {
	var errs []error
	if t.mp != nil {
		if err := t.mp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
		t.mp = nil
	}
	if t.tp != nil {
		if err := t.tp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
		t.tp = nil
	}
	t.started = false
	return errors.Join(errs...)
}

// Health implements component.Component.
func (t *Telemetry) Health(_ context.Context) component.Health {
	h := component.Health{Name: t.Name(), Status: component.StatusHealthy}
	if !t.started {
		h.Status = component.StatusUnhealthy
		h.Message = "not started"
	} else if !t.cfg.Enabled {
		h.Message = "export disabled"
	}
	return h
}

// Describe implements component.Describable.
func (t *Telemetry) Describe() component.Description {
	d := component.Description{Name: "Telemetry", Type: "telemetry", Details: "disabled"}
	if t.cfg.Enabled {
		d.Details = fmt.Sprintf("otlp %s sample=%.2f", t.cfg.Endpoint, t.cfg.SampleRate)
	}
	return d
}

// Metrics returns the instruments created by Start, or nil before Start.
func (t *Telemetry) Metrics() *Metrics { return t.metrics }
