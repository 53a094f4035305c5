package lineage

import (
	"context"
	"io"
	"os"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/fmtool/errors"
	"github.com/kbukum/fmtool/observability"
)

var (
	edgePattern    = regexp.MustCompile(`^([^-]+)->\s*([^\[]+)\[([^\]]+)\]`)
	skippedPattern = regexp.MustCompile(`(?i)^SKIPPED:\s*([^-]+)->\s*([^\[]+)\[`)

	whitespace = strings.NewReplacer("  ", " ")
	arrow      = strings.NewReplacer(" -", "-")
	newlines   = strings.NewReplacer("\r\n", "\n", "\r", "\n")
)

// Parse extracts edges from lineage text in the order they appear.
// Duplicates are kept. Lines matching neither shape are ignored.
func Parse(text string) []Edge {
	var edges []Edge
	for _, raw := range strings.Split(newlines.Replace(text), "\n") {
		if e, ok := ParseLine(raw); ok {
			edges = append(edges, e)
		}
	}
	return edges
}

// ParseLine parses a single line. ok is false for blank or unrecognised
// lines.
func ParseLine(raw string) (Edge, bool) {
	line := strings.TrimSpace(raw)
	if line == "" {
		return Edge{}, false
	}

	if m := skippedPattern.FindStringSubmatch(line); m != nil {
		return Edge{
			Parent:  strings.TrimSpace(m[1]),
			Child:   strings.TrimSpace(m[2]),
			Kind:    KindSkipped,
			Skipped: true,
		}, true
	}

	normalized := arrow.Replace(whitespace.Replace(line))
	m := edgePattern.FindStringSubmatch(normalized)
	if m == nil {
		return Edge{}, false
	}
	return Edge{
		Parent: strings.TrimSpace(m[1]),
		Child:  strings.TrimSpace(m[2]),
		Kind:   strings.ToUpper(strings.TrimSpace(m[3])),
	}, true
}

// ParseReader reads r to the end and parses it. Invalid UTF-8 sequences
// are dropped before parsing.
func ParseReader(r io.Reader) ([]Edge, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(strings.ToValidUTF8(string(data), "")), nil
}

// ReadFile opens a lineage file and parses it. A missing file is a
// NOT_FOUND error; any other read failure is LINEAGE_UNREADABLE.
func ReadFile(ctx context.Context, path string) ([]Edge, error) {
	ctx, op := observability.StartOperation(ctx, observability.SpanLineageParse, nil)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = errors.NotFound("lineage file", path).WithCause(err)
		} else {
			err = errors.LineageUnreadable(path, err)
		}
		op.End(ctx, path, err)
		return nil, err
	}
	defer f.Close()

	edges, err := ParseReader(f)
	if err != nil {
		err = errors.LineageUnreadable(path, err)
		op.End(ctx, path, err)
		return nil, err
	}

	op.Span().SetAttributes(attribute.Int(observability.AttrEdges, len(edges)))
	op.End(ctx, path, nil)
	return edges, nil
}
