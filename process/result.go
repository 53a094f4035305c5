package process

import (
	"strings"
	"time"
)

// Result holds the output and status of a completed subprocess.
type Result struct {
	Stdout []byte
	Stderr []byte
	// ExitCode is the process exit code. -1 if the process was killed.
	ExitCode int
	Duration time.Duration
}

// StderrTail returns the last n lines of stderr, trimmed.
func (r *Result) StderrTail(n int) string {
	s := strings.TrimSpace(string(r.Stderr))
	if s == "" || n <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
