// Package logger provides structured logging for fmtool using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers. The dispatcher reports per-FM progress
// (ran, pointer, skipped, failed) through this package.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "console"
//
// # Usage
//
//	log := logger.Get("dispatch")
//	log.Info("[RUN] ALPHA -> handler", logger.Fields("fm", "ALPHA"))
package logger
