package dispatchtest

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"

	"github.com/kbukum/fmtool/execution"
	"github.com/kbukum/fmtool/logger"
)

// RecordingContext is an in-memory execution context whose logger writes
// JSON lines into a buffer, so tests can assert on dispatcher output.
type RecordingContext struct {
	*execution.Memory

	buf *syncBuffer
	log *logger.Logger
}

// NewRecordingContext creates a context logging at debug level.
func NewRecordingContext() *RecordingContext {
	buf := &syncBuffer{}
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: logger.FormatJSON}, "fmtool", buf)
	return &RecordingContext{
		Memory: execution.NewMemory(log),
		buf:    buf,
		log:    log,
	}
}

// Logger returns the recording logger.
func (c *RecordingContext) Logger() *logger.Logger { return c.log }

// Messages returns the message of every log line written so far.
func (c *RecordingContext) Messages() []string {
	var out []string
	for _, line := range c.Lines() {
		if msg, ok := line["message"].(string); ok {
			out = append(out, msg)
		}
	}
	return out
}

// Lines returns every decoded log line written so far.
func (c *RecordingContext) Lines() []map[string]interface{} {
	var out []map[string]interface{}
	for _, raw := range strings.Split(strings.TrimSpace(c.buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(raw), &m); err == nil {
			out = append(out, m)
		}
	}
	return out
}

// HasMessage reports whether any log message starts with prefix.
func (c *RecordingContext) HasMessage(prefix string) bool {
	for _, msg := range c.Messages() {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
