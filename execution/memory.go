package execution

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/kbukum/fmtool/errors"
	"github.com/kbukum/fmtool/logger"
)

// Op records one table operation performed through Memory.
type Op struct {
	Kind  string // "read" | "write" | "merge"
	Table string
	Rows  int
}

// Memory is an in-memory Context. Table names are case-insensitive.
type Memory struct {
	mu     sync.RWMutex
	tables map[string]Table
	config map[string]string
	ops    []Op
	log    *logger.Logger
}

var _ Context = (*Memory)(nil)

// NewMemory creates an empty in-memory context. A nil log discards output.
func NewMemory(log *logger.Logger) *Memory {
	if log == nil {
		log = logger.NewNop()
	}
	return &Memory{
		tables: make(map[string]Table),
		config: make(map[string]string),
		log:    log,
	}
}

// WithConfig sets config values and returns the receiver.
func (m *Memory) WithConfig(kv map[string]string) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range kv {
		m.config[k] = v
	}
	return m
}

// Seed stores a table without recording an operation.
func (m *Memory) Seed(name string, t Table) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[key(name)] = clone(t)
	return m
}

// ReadTable implements TableReader. A missing table is NOT_FOUND.
func (m *Memory) ReadTable(ctx context.Context, name string) (Table, error) {
	if err := ctx.Err(); err != nil {
		return Table{}, errors.Canceled(err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[key(name)]
	if !ok {
		return Table{}, errors.NotFound("table", name)
	}
	m.ops = append(m.ops, Op{Kind: "read", Table: name, Rows: t.Len()})
	return clone(t), nil
}

// WriteTable implements TableWriter.
func (m *Memory) WriteTable(ctx context.Context, name string, t Table, mode WriteMode) error {
	if err := ctx.Err(); err != nil {
		return errors.Canceled(err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key(name)
	next := clone(t)
	if existing, ok := m.tables[k]; ok && mode == Append {
		next.Columns = unionColumns(existing.Columns, t.Columns)
		next.Rows = append(clone(existing).Rows, next.Rows...)
	}
	m.tables[k] = next
	m.ops = append(m.ops, Op{Kind: "write", Table: name, Rows: t.Len()})
	m.log.Debug("table written", logger.Fields("table", name, "mode", mode.String(), "rows", t.Len()))
	return nil
}

// MergeTable implements TableMerger: rows whose key columns match an
// existing row replace it in place, the rest are appended.
func (m *Memory) MergeTable(ctx context.Context, name string, t Table, keys []string) error {
	if err := ctx.Err(); err != nil {
		return errors.Canceled(err)
	}
	if len(keys) == 0 {
		return errors.MissingField("merge keys")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key(name)
	target := clone(m.tables[k])
	index := make(map[string]int, len(target.Rows))
	for i, row := range target.Rows {
		index[rowKey(row, keys)] = i
	}
	for _, row := range t.Rows {
		rk := rowKey(row, keys)
		if i, ok := index[rk]; ok {
			target.Rows[i] = cloneRow(row)
			continue
		}
		index[rk] = len(target.Rows)
		target.Rows = append(target.Rows, cloneRow(row))
	}
	target.Columns = unionColumns(target.Columns, t.Columns)
	m.tables[k] = target
	m.ops = append(m.ops, Op{Kind: "merge", Table: name, Rows: t.Len()})
	return nil
}

// Config implements ConfigReader.
func (m *Memory) Config(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.config[key]
	return v, ok
}

// Logger implements Context.
func (m *Memory) Logger() *logger.Logger { return m.log }

// Ops returns the recorded operations in order.
func (m *Memory) Ops() []Op {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Op(nil), m.ops...)
}

// Table returns a stored table without recording an operation.
func (m *Memory) Table(name string) (Table, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tables[key(name)]
	return clone(t), ok
}

func key(name string) string { return strings.ToLower(strings.TrimSpace(name)) }

func rowKey(row Row, keys []string) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%v", row[k])
	}
	return strings.Join(parts, "\x00")
}

func unionColumns(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, c := range append(append([]string(nil), a...), b...) {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

func clone(t Table) Table {
	out := Table{Columns: append([]string(nil), t.Columns...)}
	if t.Rows != nil {
		out.Rows = make([]Row, len(t.Rows))
		for i, r := range t.Rows {
			out.Rows[i] = cloneRow(r)
		}
	}
	return out
}

func cloneRow(r Row) Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
