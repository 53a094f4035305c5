package lineage

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/kbukum/fmtool/errors"
)

const exampleLineage = `A -> B [X]
B -> C [Y]
A -> C [X]
SKIPPED: D -> C [X]
`

func TestParse_Example(t *testing.T) {
	got := Parse(exampleLineage)
	want := []Edge{
		{Parent: "A", Child: "B", Kind: "X"},
		{Parent: "B", Child: "C", Kind: "Y"},
		{Parent: "A", Child: "C", Kind: "X"},
		{Parent: "D", Child: "C", Kind: KindSkipped, Skipped: true},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Parse() = %+v, want %+v", got, want)
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Edge
		ok   bool
	}{
		{"plain", "A -> B [x]", Edge{Parent: "A", Child: "B", Kind: "X"}, true},
		{"no spaces", "A->B[fm]", Edge{Parent: "A", Child: "B", Kind: "FM"}, true},
		{"wide spacing", "  RSDRI_ODSO_UPDATE    ->    YDNP_CHK_UOM_1   [ Fm ]  ", Edge{Parent: "RSDRI_ODSO_UPDATE", Child: "YDNP_CHK_UOM_1", Kind: "FM"}, true},
		{"tab before arrow", "A\t-> B [X]", Edge{Parent: "A", Child: "B", Kind: "X"}, true},
		{"dash in child", "A -> B-C [X]", Edge{Parent: "A", Child: "B-C", Kind: "X"}, true},
		{"dash in kind", "A -> B [FM-SUB]", Edge{Parent: "A", Child: "B", Kind: "FM-SUB"}, true},
		{"trailing text", "A -> B [X] via job 12", Edge{Parent: "A", Child: "B", Kind: "X"}, true},
		{"skipped", "SKIPPED: D -> C [anything", Edge{Parent: "D", Child: "C", Kind: "FM", Skipped: true}, true},
		{"skipped lowercase", "skipped:D->C [X]", Edge{Parent: "D", Child: "C", Kind: "FM", Skipped: true}, true},
		{"blank", "   ", Edge{}, false},
		{"comment", "# lineage export 2024-01-01", Edge{}, false},
		{"dash in parent", "MY-FM -> B [X]", Edge{}, false},
		{"missing kind", "A -> B", Edge{}, false},
		{"unterminated kind", "A -> B [X", Edge{}, false},
		{"empty kind", "A -> B []", Edge{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseLine(tc.line)
			if ok != tc.ok {
				t.Fatalf("ParseLine(%q) ok = %v, want %v", tc.line, ok, tc.ok)
			}
			if got != tc.want {
				t.Errorf("ParseLine(%q) = %+v, want %+v", tc.line, got, tc.want)
			}
		})
	}
}

func TestParse_KeepsDuplicatesAndOrder(t *testing.T) {
	got := Parse("A -> B [X]\nnoise\n\nA -> B [X]\r\nB -> C [Y]\rC -> D [Z]")
	if len(got) != 4 {
		t.Fatalf("expected 4 edges, got %d: %+v", len(got), got)
	}
	if got[0] != got[1] {
		t.Errorf("expected duplicate rows to be retained, got %+v", got[:2])
	}
	if got[3].Child != "D" {
		t.Errorf("expected carriage-return separated line to parse, got %+v", got[3])
	}
}

func TestParseReader_DropsInvalidUTF8(t *testing.T) {
	input := "A -> B\xff [X]\n"
	got, err := ParseReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Child != "B" {
		t.Fatalf("unexpected edges: %+v", got)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lineage.txt")
	if err := os.WriteFile(path, []byte(exampleLineage), 0o644); err != nil {
		t.Fatal(err)
	}

	edges, err := ReadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(edges) != 4 {
		t.Errorf("expected 4 edges, got %d", len(edges))
	}
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestReadFile_Directory(t *testing.T) {
	_, err := ReadFile(context.Background(), t.TempDir())
	if !errors.Is(err, errors.ErrCodeLineageUnreadable) {
		t.Fatalf("expected LINEAGE_UNREADABLE, got %v", err)
	}
}

func TestEdgeString(t *testing.T) {
	for _, line := range []string{"A -> B [X]", "SKIPPED: D -> C [FM]"} {
		e, ok := ParseLine(line)
		if !ok {
			t.Fatalf("ParseLine(%q) failed", line)
		}
		if e.String() != line {
			t.Errorf("String() = %q, want %q", e.String(), line)
		}
	}
}
