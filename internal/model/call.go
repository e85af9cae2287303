package model

import (
	"strings"
	"time"
)

// Call is the bound argument list for one verb invocation. Args is ordered
// exactly like Verb.Params.
type Call struct {
	Component *Component
	Verb      *Verb
	Target    any
	Args      []any
	Sources   []Source
}

// NewCall allocates a Call with room for every parameter of verb.
func NewCall(component *Component, verb *Verb, target any) *Call {
	return &Call{
		Component: component,
		Verb:      verb,
		Target:    target,
		Args:      make([]any, len(verb.Params)),
		Sources:   make([]Source, len(verb.Params)),
	}
}

func (c *Call) index(name string) int {
	name = strings.ToLower(name)
	for i, p := range c.Verb.Params {
		if p.Matches(name) {
			return i
		}
	}
	return -1
}

// Value returns the bound value for the named parameter.
func (c *Call) Value(name string) (any, bool) {
	i := c.index(name)
	if i < 0 {
		return nil, false
	}
	return c.Args[i], true
}

// Source returns where the named parameter's value came from.
func (c *Call) Source(name string) Source {
	i := c.index(name)
	if i < 0 {
		return SourceZero
	}
	return c.Sources[i]
}

// Get returns the named value converted to T, or T's zero value when the
// parameter is unknown or holds something else.
func Get[T any](c *Call, name string) T {
	var zero T
	v, ok := c.Value(name)
	if !ok {
		return zero
	}
	t, ok := v.(T)
	if !ok {
		return zero
	}
	return t
}

func (c *Call) String(name string) string          { return Get[string](c, name) }
func (c *Call) Int(name string) int                { return Get[int](c, name) }
func (c *Call) Float(name string) float64          { return Get[float64](c, name) }
func (c *Call) Bool(name string) bool              { return Get[bool](c, name) }
func (c *Call) Duration(name string) time.Duration { return Get[time.Duration](c, name) }
func (c *Call) Strings(name string) []string       { return Get[[]string](c, name) }
func (c *Call) Ints(name string) []int             { return Get[[]int](c, name) }
