// Package services is the service-resolution collaborator used to satisfy
// injected verb parameters.
package services

import (
	"fmt"
	"reflect"
	"sync"
)

// Provider resolves a service by type.
type Provider interface {
	Resolve(t reflect.Type) (any, error)
}

// Container is a simple type-keyed Provider. It is safe for concurrent use.
type Container struct {
	mu        sync.RWMutex
	instances map[reflect.Type]any
	factories map[reflect.Type]func() (any, error)
}

// NewContainer creates an empty container.
func NewContainer() *Container {
	return &Container{
		instances: make(map[reflect.Type]any),
		factories: make(map[reflect.Type]func() (any, error)),
	}
}

// Register stores an instance under its dynamic type.
func (c *Container) Register(instance any) {
	c.RegisterAs(reflect.TypeOf(instance), instance)
}

// RegisterAs stores an instance under t, typically an interface type.
func (c *Container) RegisterAs(t reflect.Type, instance any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.instances[t] = instance
}

// RegisterFactory stores a constructor called on every resolution of t.
func (c *Container) RegisterFactory(t reflect.Type, factory func() (any, error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[t] = factory
}

// Resolve returns the service registered for t.
func (c *Container) Resolve(t reflect.Type) (any, error) {
	c.mu.RLock()
	inst, ok := c.instances[t]
	factory, hasFactory := c.factories[t]
	c.mu.RUnlock()

	if ok {
		return inst, nil
	}
	if hasFactory {
		v, err := factory()
		if err != nil {
			return nil, fmt.Errorf("factory for %s failed: %w", t, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("no service registered for %s", t)
}

// Add is a typed helper around RegisterAs.
func Add[S any](c *Container, instance S) {
	c.RegisterAs(reflect.TypeFor[S](), instance)
}
