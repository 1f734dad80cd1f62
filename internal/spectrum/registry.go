package spectrum

import (
	"sort"
	"sync"

	"github.com/yacobolo/vpcss/internal/style"
)

// Renderer is a custom CSS generator for one property.
type Renderer struct {
	Property string
	Priority int
	// Compile produces CSS text; nil uses the compiler's default.
	Compile DeclarationCompiler
	// Selectors are suffixes appended to the block selector; the renderer
	// is invoked once per suffix. Empty means the block selector itself.
	Selectors []string
	// Mapping renames top-level keys before compiling.
	Mapping map[string]string
}

// apply renames keys per Mapping.
func (r Renderer) apply(t style.Tree) style.Tree {
	if len(r.Mapping) == 0 {
		return t
	}
	out := make(style.Tree, len(t))
	for k, v := range t {
		if to, ok := r.Mapping[k]; ok {
			k = to
		}
		out[k] = v
	}
	return out
}

// Registry maps properties to renderers ordered by priority. It is safe
// for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string][]Renderer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{renderers: map[string][]Renderer{}}
}

// Register adds r, keeping the property's renderers sorted by priority.
// A renderer already registered at the same priority is replaced.
func (reg *Registry) Register(r Renderer) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	list := reg.renderers[r.Property]
	i := sort.Search(len(list), func(i int) bool { return list[i].Priority >= r.Priority })
	if i < len(list) && list[i].Priority == r.Priority {
		list[i] = r
		return
	}
	list = append(list, Renderer{})
	copy(list[i+1:], list[i:])
	list[i] = r
	reg.renderers[r.Property] = list
}

// Unregister removes the renderer of property at priority.
func (reg *Registry) Unregister(property string, priority int) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	list := reg.renderers[property]
	for i, r := range list {
		if r.Priority == priority {
			list = append(list[:i], list[i+1:]...)
			if len(list) == 0 {
				delete(reg.renderers, property)
			} else {
				reg.renderers[property] = list
			}
			return true
		}
	}
	return false
}

// Renderers returns a copy of the renderers registered for property.
func (reg *Registry) Renderers(property string) []Renderer {
	if reg == nil {
		return nil
	}
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return append([]Renderer(nil), reg.renderers[property]...)
}

// Properties returns the properties with at least one renderer, sorted.
func (reg *Registry) Properties() []string {
	if reg == nil {
		return nil
	}
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make([]string, 0, len(reg.renderers))
	for p := range reg.renderers {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
