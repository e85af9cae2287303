package registry

import (
	"github.com/specialistvlad/clapgo/internal/model"
)

// Module is the interface that packages contributing components implement.
type Module interface {
	Register(r *Registry)
}

// Registry collects component declarations and, once validated, holds the
// immutable descriptor model in registration order.
type Registry struct {
	sources    []ComponentSource
	components []*model.Component
	validated  bool
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{}
}

// Add queues component declarations. Declarations added after Validate are
// rejected by the next Validate call.
func (r *Registry) Add(sources ...ComponentSource) *Registry {
	r.sources = append(r.sources, sources...)
	return r
}

// Use lets each module register its components.
func (r *Registry) Use(modules ...Module) *Registry {
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// Components returns the validated descriptors in registration order. It is
// empty until Validate succeeds.
func (r *Registry) Components() []*model.Component {
	return r.components
}

// Validated reports whether Validate has succeeded.
func (r *Registry) Validated() bool {
	return r.validated
}

// Find returns the component answering to name or alias, or nil.
func (r *Registry) Find(name string) *model.Component {
	for _, c := range r.components {
		if c.Matches(name) {
			return c
		}
	}
	return nil
}

// Names returns every component name and alias.
func (r *Registry) Names() []string {
	var names []string
	for _, c := range r.components {
		names = append(names, c.Name)
		names = append(names, c.Aliases...)
	}
	return names
}

// ModuleFunc adapts a function to Module.
type ModuleFunc func(r *Registry)

// Register implements Module.
func (f ModuleFunc) Register(r *Registry) {
	f(r)
}
