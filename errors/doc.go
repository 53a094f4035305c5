// Package errors provides the structured error type used across fmtool.
//
// Every failure that reaches the CLI boundary is an *AppError carrying a
// machine-readable code, a human-readable message, optional details and the
// underlying cause. Parse and graph anomalies are never errors; the only
// fatal condition in the scheduler core is a handler failure (HANDLER_FAILED).
package errors
