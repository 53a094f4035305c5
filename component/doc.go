// Package component defines the lifecycle interface for the long-lived
// pieces an fmtool command depends on, such as the telemetry exporters.
//
// Components are registered with the bootstrap package, started in
// registration order before a command runs, and stopped in reverse order
// once it finishes.
//
// # Interfaces
//
//   - Component: Core lifecycle interface (Start/Stop/Health)
//   - Describable: One-line description for the startup log
package component
