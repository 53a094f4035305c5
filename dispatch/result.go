package dispatch

import "time"

// Status is the outcome of one dispatcher visit.
type Status string

const (
	StatusRan     Status = "ran"
	StatusPointer Status = "pointer"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Result holds the outcome of a run, one NodeResult per visited FM in
// execution order. Nodes after a failure are absent.
type Result struct {
	Nodes    []NodeResult
	Duration time.Duration
}

// NodeResult holds the outcome of a single FM.
type NodeResult struct {
	Name     string
	Layer    int // -1 when the run was not given a layered plan
	Status   Status
	Note     string
	Duration time.Duration
	Error    error
}

// Count returns how many nodes ended with status.
func (r *Result) Count(status Status) int {
	n := 0
	for _, nr := range r.Nodes {
		if nr.Status == status {
			n++
		}
	}
	return n
}

// Failed returns the node that aborted the run, if any.
func (r *Result) Failed() (NodeResult, bool) {
	if len(r.Nodes) == 0 {
		return NodeResult{}, false
	}
	last := r.Nodes[len(r.Nodes)-1]
	return last, last.Status == StatusFailed
}

// Summary returns per-status counts suitable for log fields.
func (r *Result) Summary() map[string]interface{} {
	return map[string]interface{}{
		string(StatusRan):     r.Count(StatusRan),
		string(StatusPointer): r.Count(StatusPointer),
		string(StatusSkipped): r.Count(StatusSkipped),
		string(StatusFailed):  r.Count(StatusFailed),
		"duration_ms":         r.Duration.Milliseconds(),
	}
}
