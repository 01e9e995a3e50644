package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/specialistvlad/toolpipe/internal/tool"
)

// ErrDuplicateID is returned when a tool id is registered twice.
var ErrDuplicateID = errors.New("duplicate tool id")

// Module is the interface every builtin tool package implements to plug its
// definitions into a registry.
type Module interface {
	Register(r *Registry) error
}

// Registry holds the tool definitions for a single application instance.
// Registration happens at boot; lookups may run concurrently afterwards.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*tool.Definition
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{tools: make(map[string]*tool.Definition)}
}

// Register adds a tool definition. The definition is treated as immutable
// from this point on.
func (r *Registry) Register(def *tool.Definition) error {
	if def == nil {
		return errors.New("register: nil tool definition")
	}
	if def.ID == "" {
		return errors.New("register: tool definition has empty id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[def.ID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateID, def.ID)
	}
	r.tools[def.ID] = def
	return nil
}

// Get looks up a tool by id. A missing tool is not an error: callers decide
// what absence means for them.
func (r *Registry) Get(id string) (*tool.Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.tools[id]
	return def, ok
}

// List returns the metadata of every registered tool, sorted by id. No
// executable handle is exposed.
func (r *Registry) List() []tool.Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tool.Summary, 0, len(r.tools))
	for _, def := range r.tools {
		out = append(out, def.Summary())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
