package dispatch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/kbukum/fmtool/errors"
	"github.com/kbukum/fmtool/validation"
)

// RegistryFile is the YAML registry document:
//
//	pointers:
//	  DDIF_FIELDINFO_GET: Use Spark schema & control metadata tables.
//	handlers:
//	  CONVERSION_EXIT_ALPHA_INPUT:
//	    command: ["python3", "jobs/alpha_input.py"]
//	    dir: jobs
//	    env: ["MODE=batch"]
//	    retries: 2
//	    backoff: 5s
type RegistryFile struct {
	Pointers map[string]string      `yaml:"pointers"`
	Handlers map[string]CommandSpec `yaml:"handlers"`
}

// CommandSpec describes a command-backed handler.
type CommandSpec struct {
	Command []string `yaml:"command" json:"command" validate:"required,min=1,dive,required"`
	Dir     string   `yaml:"dir" json:"dir"`
	Env     []string `yaml:"env" json:"env" validate:"dive,contains=="`
	// Retries is how many times a failed run is repeated before the
	// handler fails.
	Retries int           `yaml:"retries" json:"retries" validate:"gte=0,lte=10"`
	Backoff time.Duration `yaml:"backoff" json:"backoff" validate:"gte=0"`
}

// LoadRegistryFile reads and validates a registry file. Relative handler
// directories are resolved against the file's directory.
func LoadRegistryFile(path string) (*RegistryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("registry file", path).WithCause(err)
		}
		return nil, errors.Internal(err).WithDetail("path", path)
	}

	var f RegistryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.InvalidInput("registry", fmt.Sprintf("parsing %s", path)).WithCause(err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	base := filepath.Dir(path)
	for name, spec := range f.Handlers {
		if spec.Dir != "" && !filepath.IsAbs(spec.Dir) {
			spec.Dir = filepath.Join(base, spec.Dir)
			f.Handlers[name] = spec
		}
	}
	return &f, nil
}

// Validate checks names, notes and commands. A name may appear only once
// across both sections, regardless of case.
func (f *RegistryFile) Validate() error {
	v := validation.New()
	seen := make(map[string]string)

	for _, name := range sortedKeys(f.Pointers) {
		field := "pointers." + name
		v.FMName(field, name).Required(field, f.Pointers[name])
		if prev, dup := seen[Key(name)]; dup {
			v.AddError(field, "already defined as "+prev)
		}
		seen[Key(name)] = field
	}
	for _, name := range sortedKeys(f.Handlers) {
		field := "handlers." + name
		v.FMName(field, name)
		if prev, dup := seen[Key(name)]; dup {
			v.AddError(field, "already defined as "+prev)
		}
		seen[Key(name)] = field
		if err := validation.Validate(f.Handlers[name]); err != nil {
			v.AddError(field, err.Error())
		}
	}
	return v.Err()
}

// ApplyOption adjusts the handlers Apply builds.
type ApplyOption func(h *CommandHandler)

// WithOutput mirrors every command handler's output to w.
func WithOutput(w io.Writer) ApplyOption {
	return func(h *CommandHandler) { h.StreamTo(w) }
}

// Apply registers the file's pointers and handlers into r, replacing
// existing entries with the same name.
func (f *RegistryFile) Apply(r *Registry, opts ...ApplyOption) error {
	for name, note := range f.Pointers {
		if err := r.Point(name, note); err != nil {
			return err
		}
	}
	for name, spec := range f.Handlers {
		h, err := NewCommandHandler(name, spec)
		if err != nil {
			return err
		}
		for _, opt := range opts {
			opt(h)
		}
		if err := r.Register(name, h); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
