package tool

import (
	"fmt"
	"sort"
)

// Registry is an immutable mapping from tool name to Tool, fixed for the
// lifetime of one generation request. A nil *Registry behaves like an empty
// one, so callers without tools can pass nil.
type Registry struct {
	tools map[string]Tool
}

// NewRegistry builds a Registry from the given tools. Duplicate or empty
// names are construction errors; they would make call dispatch ambiguous.
func NewRegistry(tools ...Tool) (*Registry, error) {
	m := make(map[string]Tool, len(tools))
	for _, t := range tools {
		name := t.Name()
		if name == "" {
			return nil, fmt.Errorf("tool with empty name")
		}
		if _, exists := m[name]; exists {
			return nil, fmt.Errorf("duplicate tool name %q", name)
		}
		m[name] = t
	}
	return &Registry{tools: m}, nil
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (Tool, bool) {
	if r == nil {
		return nil, false
	}
	t, ok := r.tools[name]
	return t, ok
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.tools)
}

// Names returns the registered tool names in lexical order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
