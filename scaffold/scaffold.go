package scaffold

import (
	"bytes"
	"embed"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"unicode"

	"github.com/kbukum/fmtool/errors"
	"github.com/kbukum/fmtool/validation"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Files lists the generated files in write order. Each is rendered from
// templates/<name>.tmpl.
var Files = []string{
	"master.md",
	"design_lld.md",
	"how_to_test.md",
	"handler.go",
	"handler_test.go",
}

// Data is passed to every template.
type Data struct {
	FM      string
	Package string
}

// Result describes a completed scaffold.
type Result struct {
	Dir   string
	FM    string
	Paths []string
}

// Write renders the scaffold for fm into dir, creating dir as needed.
// fm is uppercased. Existing files are overwritten.
func Write(dir, fm string) (*Result, error) {
	if err := validation.New().FMName("fm", fm).Required("out", dir).Err(); err != nil {
		return nil, err
	}

	data := Data{FM: strings.ToUpper(fm), Package: PackageName(fm)}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Internal(err).WithDetail("path", dir)
	}

	res := &Result{Dir: dir, FM: data.FM}
	for _, name := range Files {
		var buf bytes.Buffer
		if err := templates.ExecuteTemplate(&buf, name+".tmpl", data); err != nil {
			return nil, errors.Internal(err).WithDetail("template", name)
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return nil, errors.Internal(err).WithDetail("path", path)
		}
		res.Paths = append(res.Paths, path)
	}
	return res, nil
}

// PackageName derives a Go package name from an FM name: lowercase letters
// and digits only, prefixed with "fm" when it would not start with a letter.
func PackageName(fm string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(fm) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" || !unicode.IsLetter(rune(name[0])) {
		name = "fm" + name
	}
	return name
}
