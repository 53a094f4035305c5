package manifest

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/fmtool/errors"
	"github.com/kbukum/fmtool/validation"
)

const (
	ObjectTypeTable = "TABLE"
	ActionCreate    = "CREATE"
	StatusPlanned   = "PLANNED"
	SourcePlan      = "plan"
	CreatedBy       = "fmtool"

	// TimeLayout renders created_at in UTC with a literal Z.
	TimeLayout = "2006-01-02T15:04:05Z"
)

// Item is one planned object.
type Item struct {
	PlanID        string   `json:"plan_id" validate:"required"`
	ObjectType    string   `json:"object_type" validate:"required,oneof=TABLE"`
	CatalogName   string   `json:"catalog_name" validate:"required,ident"`
	SchemaName    string   `json:"schema_name" validate:"required,ident"`
	ObjectName    string   `json:"object_name" validate:"required,ident"`
	FMSource      string   `json:"fm_source" validate:"required"`
	PlannedAction string   `json:"planned_action" validate:"required,oneof=CREATE"`
	Reason        string   `json:"reason" validate:"max=512"`
	DependsOn     []string `json:"depends_on"`
	Status        string   `json:"status" validate:"required,oneof=PLANNED"`
	CreatedAt     string   `json:"created_at" validate:"required"`
	CreatedBy     string   `json:"created_by" validate:"required"`
}

// QualifiedName returns catalog.schema.object.
func (i Item) QualifiedName() string {
	return i.CatalogName + "." + i.SchemaName + "." + i.ObjectName
}

// Manifest accumulates planned items for one plan ID.
type Manifest struct {
	PlanID string

	mu    sync.Mutex
	items []Item
	index map[string]bool
	now   func() time.Time
}

// New creates a manifest. An empty planID is replaced by a random UUID.
func New(planID string) *Manifest {
	if strings.TrimSpace(planID) == "" {
		planID = uuid.NewString()
	}
	return &Manifest{
		PlanID: planID,
		index:  make(map[string]bool),
		now:    time.Now,
	}
}

// EnsureTable plans a CREATE for catalog.schema.name. Unlike an append-only
// plan, a table is planned at most once: a repeat call (names compared
// case-insensitively) adds nothing, keeps the first entry's reason and
// dependencies, and returns false.
func (m *Manifest) EnsureTable(catalog, schema, name, reason string, dependsOn ...string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(catalog + "." + schema + "." + name)
	if m.index[key] {
		return false
	}
	m.index[key] = true

	deps := make([]string, 0, len(dependsOn))
	deps = append(deps, dependsOn...)

	m.items = append(m.items, Item{
		PlanID:        m.PlanID,
		ObjectType:    ObjectTypeTable,
		CatalogName:   catalog,
		SchemaName:    schema,
		ObjectName:    name,
		FMSource:      SourcePlan,
		PlannedAction: ActionCreate,
		Reason:        reason,
		DependsOn:     deps,
		Status:        StatusPlanned,
		CreatedAt:     m.now().UTC().Format(TimeLayout),
		CreatedBy:     CreatedBy,
	})
	return true
}

// Items returns a copy of the planned items in insertion order.
func (m *Manifest) Items() []Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Item(nil), m.items...)
}

// Len returns the number of planned items.
func (m *Manifest) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Validate checks every item and reports the first invalid one.
func (m *Manifest) Validate() error {
	for _, item := range m.Items() {
		if err := validation.Validate(item); err != nil {
			if appErr, ok := errors.AsAppError(err); ok {
				return appErr.WithDetail("object", item.QualifiedName())
			}
			return err
		}
	}
	return nil
}

// JSON validates the manifest and renders it as a 2-space indented array
// without a trailing newline.
func (m *Manifest) JSON() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	items := m.Items()
	if items == nil {
		items = []Item{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return nil, errors.Internal(err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// WriteFile renders the manifest to path.
func (m *Manifest) WriteFile(path string) error {
	data, err := m.JSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Internal(err).WithDetail("path", path)
	}
	return nil
}
