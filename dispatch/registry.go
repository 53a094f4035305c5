package dispatch

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/kbukum/fmtool/execution"
	"github.com/kbukum/fmtool/validation"
)

// Kind tags a registry entry.
type Kind int

const (
	KindUnregistered Kind = iota
	KindHandler
	KindPointer
)

func (k Kind) String() string {
	switch k {
	case KindHandler:
		return "handler"
	case KindPointer:
		return "pointer"
	default:
		return "unregistered"
	}
}

// Entry is the resolved registration for one FM.
type Entry struct {
	Name    string
	Kind    Kind
	Handler Handler
	Note    string
}

// Registry maps uppercase FM names to handlers or pointer notes. A name holds
// at most one entry; registering again replaces it.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Key normalises an FM name for lookup.
func Key(fm string) string {
	return strings.ToUpper(strings.TrimSpace(fm))
}

// Register adds an executable handler for fm.
func (r *Registry) Register(fm string, h Handler) error {
	v := validation.New().FMName("fm", fm).Custom(h != nil, "handler", "must not be nil")
	if err := v.Err(); err != nil {
		return err
	}
	r.put(Entry{Name: Key(fm), Kind: KindHandler, Handler: h})
	return nil
}

// RegisterFunc adds a function handler for fm.
func (r *Registry) RegisterFunc(fm string, fn func(ctx context.Context, ec execution.Context) error) error {
	return r.Register(fm, HandlerFunc(fn))
}

// Point records a manual-migration note for fm.
func (r *Registry) Point(fm, note string) error {
	v := validation.New().FMName("fm", fm).Required("note", note)
	if err := v.Err(); err != nil {
		return err
	}
	r.put(Entry{Name: Key(fm), Kind: KindPointer, Note: note})
	return nil
}

func (r *Registry) put(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[e.Name] = e
}

// Resolve returns the entry for fm. Unknown names resolve to a
// KindUnregistered entry, never an error.
func (r *Registry) Resolve(fm string) Entry {
	key := Key(fm)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[key]; ok {
		return e
	}
	return Entry{Name: key, Kind: KindUnregistered}
}

// Wrap decorates every registered handler with mw.
func (r *Registry) Wrap(mw Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, e := range r.entries {
		if e.Kind == KindHandler {
			e.Handler = mw(name, e.Handler)
			r.entries[name] = e
		}
	}
}

// List returns sorted names of all registered entries.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns how many entries of kind are registered.
func (r *Registry) Count(kind Kind) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, e := range r.entries {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
