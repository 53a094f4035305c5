// Package manifest builds the JSON plan of lakehouse objects a migration
// needs before any FM handler can run.
package manifest
