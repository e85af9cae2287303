// Package target maps a component's declared target type to the live
// instance its verbs run against.
package target

import (
	"reflect"
)

// Resolver returns the instance for a component type, or nil for static
// dispatch.
type Resolver interface {
	Resolve(t reflect.Type) any
	RegisteredTypes() []reflect.Type
}

// Instances is a Resolver backed by a fixed set of instances. A resolver is
// built fresh for each run from the instances the caller supplies.
type Instances struct {
	order []reflect.Type
	byTyp map[reflect.Type]any
}

// NewResolver indexes instances by their dynamic type. Nil instances are
// skipped; a later instance of the same type replaces an earlier one.
func NewResolver(instances ...any) *Instances {
	r := &Instances{byTyp: make(map[reflect.Type]any)}
	for _, inst := range instances {
		if inst == nil {
			continue
		}
		t := reflect.TypeOf(inst)
		if _, exists := r.byTyp[t]; !exists {
			r.order = append(r.order, t)
		}
		r.byTyp[t] = inst
	}
	return r
}

// Resolve returns the instance registered for t. When t is an interface
// type the first instance implementing it is returned.
func (r *Instances) Resolve(t reflect.Type) any {
	if r == nil || t == nil {
		return nil
	}
	if inst, ok := r.byTyp[t]; ok {
		return inst
	}
	if t.Kind() == reflect.Interface {
		for _, candidate := range r.order {
			if candidate.Implements(t) {
				return r.byTyp[candidate]
			}
		}
	}
	return nil
}

// RegisteredTypes returns the instance types in the order first seen.
func (r *Instances) RegisteredTypes() []reflect.Type {
	if r == nil {
		return nil
	}
	return r.order
}

// Func adapts a lookup function to the Resolver interface.
type Func func(t reflect.Type) any

func (f Func) Resolve(t reflect.Type) any {
	if f == nil {
		return nil
	}
	return f(t)
}

// RegisteredTypes is unknown for a function resolver.
func (f Func) RegisteredTypes() []reflect.Type {
	return nil
}

// Static is the resolver used for static dispatch: it never returns an
// instance.
var Static Resolver = Func(nil)
