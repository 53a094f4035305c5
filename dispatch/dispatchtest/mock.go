package dispatchtest

import (
	"context"
	"sync"

	"github.com/kbukum/fmtool/dispatch"
	"github.com/kbukum/fmtool/execution"
)

// MockHandler is a configurable test handler. It counts calls and returns a
// preset error or delegates to a function.
type MockHandler struct {
	err     error
	fn      func(ctx context.Context, ec execution.Context) error
	journal *Journal
	name    string

	mu    sync.Mutex
	calls int
}

var _ dispatch.Handler = (*MockHandler)(nil)

// NewMockHandler creates a handler that returns err (nil for success).
func NewMockHandler(err error) *MockHandler {
	return &MockHandler{err: err}
}

// NewMockHandlerFunc creates a handler backed by fn.
func NewMockHandlerFunc(fn func(ctx context.Context, ec execution.Context) error) *MockHandler {
	return &MockHandler{fn: fn}
}

func (h *MockHandler) Handle(ctx context.Context, ec execution.Context) error {
	h.mu.Lock()
	h.calls++
	h.mu.Unlock()

	if h.journal != nil {
		h.journal.record(h.name)
	}
	if h.fn != nil {
		return h.fn(ctx, ec)
	}
	return h.err
}

// Calls returns how many times Handle was invoked.
func (h *MockHandler) Calls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls
}

// Reset clears the call counter.
func (h *MockHandler) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = 0
}

// Journal records the order in which its handlers ran.
type Journal struct {
	mu    sync.Mutex
	calls []string
}

// NewJournal creates an empty Journal.
func NewJournal() *Journal { return &Journal{} }

// Handler returns a mock handler that appends name to the journal when
// invoked and then returns err.
func (j *Journal) Handler(name string, err error) *MockHandler {
	return &MockHandler{err: err, journal: j, name: name}
}

func (j *Journal) record(name string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.calls = append(j.calls, name)
}

// Calls returns the recorded invocation order.
func (j *Journal) Calls() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.calls...)
}
