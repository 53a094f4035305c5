// Package execution defines what an FM handler may touch while it runs.
//
// Handlers receive a Context: a set of table and config capabilities plus a
// logger. The dispatcher passes it through without inspecting it. Memory is
// an in-process implementation used by tests, dry runs and scaffolded
// handler tests.
package execution
