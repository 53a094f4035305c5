package execution

import (
	"context"

	"github.com/kbukum/fmtool/logger"
)

// Row is one record keyed by column name.
type Row map[string]any

// Table is an ordered set of rows with a declared column list.
type Table struct {
	Columns []string
	Rows    []Row
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// WriteMode selects how WriteTable treats existing rows.
type WriteMode int

const (
	// Overwrite replaces the table contents.
	Overwrite WriteMode = iota
	// Append adds rows after the existing ones.
	Append
)

func (m WriteMode) String() string {
	if m == Append {
		return "append"
	}
	return "overwrite"
}

// TableReader reads a table by its qualified name (catalog.schema.table).
type TableReader interface {
	ReadTable(ctx context.Context, name string) (Table, error)
}

// TableWriter writes a table by its qualified name.
type TableWriter interface {
	WriteTable(ctx context.Context, name string, t Table, mode WriteMode) error
}

// TableMerger upserts rows into a table, matching on the key columns.
type TableMerger interface {
	MergeTable(ctx context.Context, name string, t Table, keys []string) error
}

// ConfigReader looks up run-scoped settings (e.g. target catalog).
type ConfigReader interface {
	Config(key string) (string, bool)
}

// Context is the capability set handed to every FM handler.
type Context interface {
	TableReader
	TableWriter
	TableMerger
	ConfigReader
	Logger() *logger.Logger
}
