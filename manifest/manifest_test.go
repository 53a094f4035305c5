package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/fmtool/errors"
)

func fixedClock(m *Manifest) *Manifest {
	m.now = func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.FixedZone("CET", 3600)) }
	return m
}

func TestNew_GeneratesPlanID(t *testing.T) {
	m := New("")
	if _, err := uuid.Parse(m.PlanID); err != nil {
		t.Fatalf("expected generated UUID plan id, got %q", m.PlanID)
	}
	if New("P-1").PlanID != "P-1" {
		t.Error("explicit plan id should be kept")
	}
}

func TestEnsureTable(t *testing.T) {
	m := fixedClock(New("P-1"))
	if !m.EnsureTable("uc_catalog", "ref", "fx_rates", "FX conversion reference") {
		t.Fatal("expected first insert to be added")
	}
	if m.EnsureTable("UC_CATALOG", "ref", "FX_RATES", "again") {
		t.Error("duplicate table should be ignored")
	}
	m.EnsureTable("uc_catalog", "sales", "orders", "Orders", "uc_catalog.ref.fx_rates")

	items := m.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	got := items[0]
	if got.Reason != "FX conversion reference" || got.ObjectName != "fx_rates" {
		t.Errorf("repeat call must keep the first entry, got %+v", got)
	}
	if got.Reason != "FX conversion reference" {
		t.Errorf("first entry should win, got reason %q", got.Reason)
	}
	if got.PlanID != "P-1" || got.ObjectType != ObjectTypeTable || got.PlannedAction != ActionCreate ||
		got.Status != StatusPlanned || got.FMSource != SourcePlan || got.CreatedBy != CreatedBy {
		t.Errorf("unexpected constant fields: %+v", got)
	}
	if got.CreatedAt != "2024-03-01T08:30:00Z" {
		t.Errorf("expected UTC timestamp, got %q", got.CreatedAt)
	}
	if items[1].DependsOn[0] != "uc_catalog.ref.fx_rates" {
		t.Errorf("unexpected depends_on %v", items[1].DependsOn)
	}
}

func TestJSON(t *testing.T) {
	m := fixedClock(New("P-1"))
	m.EnsureTable("uc_catalog", "ref", "uom_factors", "UoM base/factors")

	data, err := m.JSON()
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}
	out := string(data)
	if !strings.HasPrefix(out, "[\n  {\n    \"plan_id\": \"P-1\",\n    \"object_type\": \"TABLE\",") {
		t.Errorf("unexpected layout:\n%s", out)
	}
	if !strings.Contains(out, `"depends_on": [],`) {
		t.Errorf("empty depends_on should render as [], got:\n%s", out)
	}
	if !strings.Contains(out, `"reason": "UoM base/factors"`) {
		t.Errorf("reason should not be escaped, got:\n%s", out)
	}
	if strings.HasSuffix(out, "\n") {
		t.Error("unexpected trailing newline")
	}

	var decoded []map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(decoded[0]) != 12 {
		t.Errorf("expected 12 keys, got %d", len(decoded[0]))
	}
}

func TestJSON_Empty(t *testing.T) {
	data, err := New("P").JSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("expected [], got %q", data)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		catalog string
		schema  string
		table   string
		wantErr bool
	}{
		{"valid", "uc_catalog", "ref", "calendar", false},
		{"empty table", "uc_catalog", "ref", "", true},
		{"dotted schema", "uc_catalog", "ref.x", "calendar", true},
		{"leading digit", "1catalog", "ref", "calendar", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := New("P")
			m.EnsureTable(tc.catalog, tc.schema, tc.table, "r")
			err := m.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("expected INVALID_INPUT, got %v", err)
			}
			if _, jerr := m.JSON(); (jerr != nil) != tc.wantErr {
				t.Errorf("JSON() should fail exactly when Validate does, got %v", jerr)
			}
		})
	}
}

func TestNewReferencePlan(t *testing.T) {
	m := NewReferencePlan("P-9")
	items := m.Items()
	if len(items) != len(DefaultReferenceTables) {
		t.Fatalf("expected %d items, got %d", len(DefaultReferenceTables), len(items))
	}
	want := []string{"fx_rates", "currency_decimals", "uom_factors", "calendar", "logsys_map"}
	for i, name := range want {
		if items[i].QualifiedName() != "uc_catalog.ref."+name {
			t.Errorf("item %d = %s, want uc_catalog.ref.%s", i, items[i].QualifiedName(), name)
		}
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	if err := NewReferencePlan("P").WriteFile(path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil || len(items) != 5 {
		t.Fatalf("unexpected file contents: %v, %d items", err, len(items))
	}
}
