// Package dispatch executes FM handlers in lineage order.
//
// A Registry maps uppercase FM names to one of three entry kinds: an
// executable Handler, a pointer note documenting a manual migration path, or
// nothing. The Dispatcher walks a flattened layer order one node at a time:
//
//	[RUN] FM -> handler      handler invoked; an error aborts the run
//	[POINTER] FM: note       informational
//	[SKIP] FM: no handler    informational
//
// Handlers receive an execution.Context and never see the graph. Decorators
// (WithTracing, WithMetrics, WithLogging) wrap handlers with spans, metrics
// and log lines; Registry.Wrap applies one to every registered handler.
package dispatch
