package lineage

import (
	"bytes"
	"strings"
	"testing"
)

func TestMermaid(t *testing.T) {
	got := Mermaid(Parse(exampleLineage + "A -> B [X]\n"))
	want := strings.Join([]string{
		"graph TD",
		`  "A" --> "B"`,
		`  "B" --> "C"`,
		`  "A" --> "C"`,
		`  "D" --> "C"`,
		`  "A" --> "B"`,
	}, "\n")
	if got != want {
		t.Fatalf("Mermaid() =\n%s\nwant\n%s", got, want)
	}
}

func TestMermaid_RoundTripLineCount(t *testing.T) {
	input := "# header\nA -> B [X]\nnot an edge\n\nSKIPPED: B -> C [\nA -> B [X]\nB- > C [X]\n"
	edges := Parse(input)

	var buf bytes.Buffer
	if err := WriteMermaid(&buf, edges); err != nil {
		t.Fatalf("WriteMermaid failed: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if lines[0] != MermaidHeader {
		t.Errorf("expected header, got %q", lines[0])
	}
	if got := len(lines) - 1; got != 3 {
		t.Errorf("expected one line per recognised edge (3), got %d: %q", got, lines[1:])
	}
	if strings.HasSuffix(buf.String(), "\n") {
		t.Error("output must not end with a newline")
	}
}

func TestMermaid_Empty(t *testing.T) {
	if got := Mermaid(nil); got != MermaidHeader {
		t.Errorf("Mermaid(nil) = %q", got)
	}
}
