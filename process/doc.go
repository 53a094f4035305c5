// Package process runs external commands for command-backed FM handlers and
// for "fmtool test".
//
// Output is captured (and optionally streamed), cancellation terminates the
// whole process group, and failures come back as application errors.
package process
