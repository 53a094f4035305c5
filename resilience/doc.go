// Package resilience retries flaky operations with capped exponential
// backoff. Command handlers use it to re-run an external program a bounded
// number of times before the dispatcher sees the failure.
package resilience
