package lineage

import (
	"fmt"
	"io"
	"strings"
)

// MermaidHeader is the first line of every rendered graph.
const MermaidHeader = "graph TD"

// Mermaid renders one `"parent" --> "child"` line per raw edge, in input
// order, under the MermaidHeader. There is no trailing newline.
func Mermaid(edges []Edge) string {
	lines := make([]string, 0, len(edges)+1)
	lines = append(lines, MermaidHeader)
	for _, e := range edges {
		lines = append(lines, fmt.Sprintf("  \"%s\" --> \"%s\"", e.Parent, e.Child))
	}
	return strings.Join(lines, "\n")
}

// WriteMermaid writes Mermaid(edges) to w.
func WriteMermaid(w io.Writer, edges []Edge) error {
	_, err := io.WriteString(w, Mermaid(edges))
	return err
}
