package dispatch

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/fmtool/errors"
	"github.com/kbukum/fmtool/execution"
	"github.com/kbukum/fmtool/lineage"
	"github.com/kbukum/fmtool/logger"
	"github.com/kbukum/fmtool/observability"
)

// SkipNote is logged for FMs with neither a handler nor a pointer note.
const SkipNote = "no handler; BW pattern replaced elsewhere"

// Dispatcher runs FMs one at a time against a registry.
type Dispatcher struct {
	registry *Registry
	log      *logger.Logger
	metrics  *observability.Metrics
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for [RUN]/[POINTER]/[SKIP] lines.
func WithLogger(log *logger.Logger) Option {
	return func(d *Dispatcher) { d.log = log }
}

// WithRecorder records a fm.dispatched count per visited node.
func WithRecorder(m *observability.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// New creates a Dispatcher over registry.
func New(registry *Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{registry: registry}
	for _, opt := range opts {
		opt(d)
	}
	if d.log == nil {
		d.log = logger.Get("dispatch")
	}
	return d
}

// Run visits order front to back. The first handler error stops the run and
// is returned as a HANDLER_FAILED error naming the FM; nodes after it are
// not visited. Pointer and unregistered nodes never fail. ctx is checked
// before each node.
func (d *Dispatcher) Run(ctx context.Context, order []string, ec execution.Context) (*Result, error) {
	return d.run(ctx, order, nil, ec)
}

// RunPlan runs plan.Order() and records each node's layer.
func (d *Dispatcher) RunPlan(ctx context.Context, plan lineage.Plan, ec execution.Context) (*Result, error) {
	layers := make(map[string]int)
	for i, layer := range plan.Layers {
		for _, n := range layer {
			if _, ok := layers[n]; !ok {
				layers[n] = i
			}
		}
	}
	if plan.HasCycle() {
		d.log.WithContext(ctx).Warn("cycle remainder scheduled last", logger.Fields(
			"remainder", plan.Remainder,
			logger.FieldLayer, len(plan.Layers)-1,
		))
	}
	return d.run(ctx, plan.Order(), layers, ec)
}

func (d *Dispatcher) run(ctx context.Context, order []string, layers map[string]int, ec execution.Context) (*Result, error) {
	ctx, op := observability.StartOperation(ctx, observability.SpanDispatchRun, d.metrics,
		attribute.Int(observability.AttrNodes, len(order)),
	)
	log := d.log.WithContext(ctx)

	result := &Result{}
	start := time.Now()
	finish := func(err error) (*Result, error) {
		result.Duration = time.Since(start)
		op.End(ctx, "dispatch", err)
		return result, err
	}

	for _, fm := range order {
		if err := ctx.Err(); err != nil {
			return finish(errors.Canceled(err).WithDetail(logger.FieldFM, fm))
		}

		layer := -1
		if l, ok := layers[fm]; ok {
			layer = l
		}

		nr := d.visit(ctx, log, fm, ec)
		nr.Layer = layer
		result.Nodes = append(result.Nodes, nr)
		if d.metrics != nil {
			d.metrics.RecordNode(ctx, string(nr.Status))
		}

		if nr.Status == StatusFailed {
			return finish(nr.Error)
		}
	}

	log.Info("dispatch finished", result.Summary())
	return finish(nil)
}

func (d *Dispatcher) visit(ctx context.Context, log *logger.Logger, fm string, ec execution.Context) NodeResult {
	entry := d.registry.Resolve(fm)
	nr := NodeResult{Name: fm}

	switch entry.Kind {
	case KindHandler:
		log.Info(fmt.Sprintf("[RUN] %s -> handler", fm))
		start := time.Now()
		err := entry.Handler.Handle(ctx, ec)
		nr.Duration = time.Since(start)
		if err != nil {
			nr.Status = StatusFailed
			nr.Error = errors.HandlerFailed(fm, err)
			log.Error(fmt.Sprintf("[FAIL] %s: %v", fm, err), logger.Fields(logger.FieldFM, fm))
			return nr
		}
		nr.Status = StatusRan
	case KindPointer:
		nr.Status = StatusPointer
		nr.Note = entry.Note
		log.Info(fmt.Sprintf("[POINTER] %s: %s", fm, entry.Note))
	default:
		nr.Status = StatusSkipped
		nr.Note = SkipNote
		log.Info(fmt.Sprintf("[SKIP] %s: %s", fm, SkipNote))
	}
	return nr
}

// Describe resolves every FM in order without invoking anything. It backs
// dry runs.
func (d *Dispatcher) Describe(order []string) []Entry {
	entries := make([]Entry, 0, len(order))
	for _, fm := range order {
		entries = append(entries, d.registry.Resolve(fm))
	}
	return entries
}
