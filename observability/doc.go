// Package observability wires OpenTelemetry tracing and metrics into fmtool.
//
// Telemetry is a component that installs OTLP HTTP exporters when enabled
// and flushes them on Stop. When disabled, the global no-op providers stay
// in place and every helper here costs next to nothing.
//
//	tel := observability.NewTelemetry(cfg.Telemetry, "fmtool", version.Version)
//	_ = app.RegisterComponent(tel)
//
//	ctx, op := observability.StartOperation(ctx, "lineage.parse", metrics)
//	defer op.End(ctx, err)
package observability
