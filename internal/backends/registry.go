// Package backends holds the build backend implementations and their
// registry.
package backends

import (
	"sort"

	"go.trai.ch/pyforge/internal/core/ports"
)

// Registry is a fixed set of build backends keyed by name. It is
// constructed once at wiring time and handed to the orchestrator; there is
// no process-global registration.
type Registry struct {
	backends map[string]ports.Backend
}

// NewRegistry creates a Registry over the given backends.
func NewRegistry(backends ...ports.Backend) *Registry {
	byName := make(map[string]ports.Backend, len(backends))
	for _, b := range backends {
		byName[b.Name()] = b
	}
	return &Registry{backends: byName}
}

// Get returns the backend registered under name.
func (r *Registry) Get(name string) (ports.Backend, bool) {
	b, ok := r.backends[name]
	return b, ok
}

// Names lists registered backend names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
