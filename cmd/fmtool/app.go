package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/fmtool/bootstrap"
	"github.com/kbukum/fmtool/dispatch"
	"github.com/kbukum/fmtool/errors"
	"github.com/kbukum/fmtool/lineage"
	"github.com/kbukum/fmtool/logger"
	"github.com/kbukum/fmtool/observability"
	"github.com/kbukum/fmtool/version"
)

// env is what a command task works with.
type env struct {
	cfg       *AppConfig
	telemetry *observability.Telemetry
	out       io.Writer
	log       *logger.Logger
}

// run loads config, builds the app with its telemetry component and runs
// task under bootstrap's signal handling.
func (g *globalFlags) run(cmd *cobra.Command, task func(ctx context.Context, e *env) error) error {
	cfg, err := loadConfig(g.configPath)
	if err != nil {
		return err
	}
	if g.debug {
		cfg.Debug = true
		cfg.Logging.Level = "debug"
	}
	if cfg.Version == "" {
		cfg.Version = version.Get().Short()
	}

	var opts []bootstrap.Option
	if g.logger != nil {
		opts = append(opts, bootstrap.WithLogger(g.logger))
	}
	app, err := bootstrap.NewApp(cfg, opts...)
	if err != nil {
		return err
	}

	tel := observability.NewTelemetry(cfg.Telemetry, cfg.Name, cfg.Version, cfg.Environment)
	if err := app.RegisterComponent(tel); err != nil {
		return err
	}

	e := &env{
		cfg:       cfg,
		telemetry: tel,
		out:       cmd.OutOrStdout(),
		log:       logger.Get(cmd.Name()),
	}
	return app.RunTask(cmd.Context(), func(ctx context.Context) error {
		return task(ctx, e)
	})
}

// readLineage parses the lineage file named by flag, or lineage.path.
func (e *env) readLineage(ctx context.Context, flag string) ([]lineage.Edge, error) {
	path := flag
	if path == "" {
		path = e.cfg.Lineage.Path
	}
	if path == "" {
		return nil, errors.MissingField("lineage")
	}
	edges, err := lineage.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	e.log.WithContext(ctx).Debug("lineage loaded", logger.Fields(logger.FieldPath, path, "edges", len(edges)))
	return edges, nil
}

// plan builds the graph and layers it inside a lineage.plan span. A cycle
// remainder is reported at WARN.
func (e *env) plan(ctx context.Context, edges []lineage.Edge) (*lineage.Graph, lineage.Plan) {
	ctx, op := observability.StartOperation(ctx, observability.SpanLineagePlan, e.telemetry.Metrics(),
		attribute.Int(observability.AttrEdges, len(edges)),
	)
	g := lineage.BuildGraph(edges)
	plan := g.Layers()
	op.Span().SetAttributes(attribute.Int(observability.AttrNodes, g.Len()))
	op.End(ctx, "lineage", nil)

	if plan.HasCycle() {
		e.log.WithContext(ctx).Warn("lineage has a cycle; remainder runs last", logger.Fields(
			"remainder", plan.Remainder,
		))
	}
	return g, plan
}

// registry assembles the handler registry: built-in pointers (if enabled),
// then the registry file named by flag or registry.path. Handlers are
// wrapped with tracing, logging and metrics.
func (e *env) registry(flag string, opts ...dispatch.ApplyOption) (*dispatch.Registry, error) {
	reg := dispatch.NewRegistry()
	if e.cfg.Registry.Defaults {
		reg = dispatch.NewDefaultRegistry()
	}

	path := flag
	if path == "" {
		path = e.cfg.Registry.Path
	}
	if path != "" {
		f, err := dispatch.LoadRegistryFile(path)
		if err != nil {
			return nil, err
		}
		if err := f.Apply(reg, opts...); err != nil {
			return nil, err
		}
		e.log.Debug("registry loaded", logger.Fields(
			logger.FieldPath, path,
			"handlers", reg.Count(dispatch.KindHandler),
			"pointers", reg.Count(dispatch.KindPointer),
		))
	}

	reg.Wrap(dispatch.WithTracing)
	reg.Wrap(dispatch.WithLogging(logger.Get("handler")))
	if m := e.telemetry.Metrics(); m != nil {
		reg.Wrap(dispatch.WithMetrics(m))
	}
	return reg, nil
}

// writeFile writes data to path, creating parent directories.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Internal(err).WithDetail(logger.FieldPath, dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Internal(err).WithDetail(logger.FieldPath, path)
	}
	return nil
}
