package model

import (
	"context"
	"reflect"
	"slices"
	"strings"
)

// ErrorHandlerFunc is a component-level error handler. It receives the
// component's resolved target (nil for static dispatch).
type ErrorHandlerFunc func(target any, ec *ExceptionContext)

// EmptyHandlerFunc runs when a single-component parser receives no arguments.
type EmptyHandlerFunc func(ctx context.Context, target any) error

// Component is the descriptor of one registered unit of verbs.
type Component struct {
	Name        string
	Aliases     []string
	Description string
	// TargetType is the type of instance the verbs expect; the target
	// resolver is queried with it.
	TargetType reflect.Type
	Verbs      []*Verb

	ErrorHandler ErrorHandlerFunc
	EmptyHandler EmptyHandlerFunc
}

// Matches reports whether name (any case) is the component name or one of
// its aliases.
func (c *Component) Matches(name string) bool {
	name = strings.ToLower(name)
	return c.Name == name || slices.Contains(c.Aliases, name)
}

// FindVerb returns the verb selected by name or alias, or nil.
func (c *Component) FindVerb(name string) *Verb {
	for _, v := range c.Verbs {
		if v.Matches(name) {
			return v
		}
	}
	return nil
}

// DefaultVerb returns the verb marked as default, or nil.
func (c *Component) DefaultVerb() *Verb {
	for _, v := range c.Verbs {
		if v.Default {
			return v
		}
	}
	return nil
}

// VerbNames returns every verb name and alias, for suggestions.
func (c *Component) VerbNames() []string {
	var names []string
	for _, v := range c.Verbs {
		names = append(names, v.Names()...)
	}
	return names
}
