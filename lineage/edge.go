package lineage

import "fmt"

// KindSkipped is the kind assigned to edges read from SKIPPED: lines.
const KindSkipped = "FM"

// Edge is one parent -> child relation as it appeared in the lineage text.
type Edge struct {
	Parent  string `json:"parent"`
	Child   string `json:"child"`
	Kind    string `json:"kind"`
	Skipped bool   `json:"skipped,omitempty"`
}

// String renders the edge back in lineage text form.
func (e Edge) String() string {
	if e.Skipped {
		return fmt.Sprintf("SKIPPED: %s -> %s [%s]", e.Parent, e.Child, e.Kind)
	}
	return fmt.Sprintf("%s -> %s [%s]", e.Parent, e.Child, e.Kind)
}

type pair struct {
	parent, child string
}

func (e Edge) key() pair { return pair{e.Parent, e.Child} }
