package model

import (
	"context"
	"slices"
	"strings"
)

// HandlerFunc is the callable behind a synchronous verb. target is the
// resolved component instance, or nil for static dispatch.
type HandlerFunc func(ctx context.Context, target any, call *Call) error

// AsyncHandlerFunc is the callable behind an asynchronous verb. The returned
// channel delivers the outcome; a closed channel without a value, or a nil
// channel, means success.
type AsyncHandlerFunc func(ctx context.Context, target any, call *Call) <-chan error

// Verb describes one invokable operation.
type Verb struct {
	Name        string
	Aliases     []string
	Params      []*Parameter
	Default     bool
	Async       bool
	Description string

	Handler      HandlerFunc
	AsyncHandler AsyncHandlerFunc
}

// Names returns the primary name followed by the aliases.
func (v *Verb) Names() []string {
	return append([]string{v.Name}, v.Aliases...)
}

// Matches reports whether name (any case) selects this verb.
func (v *Verb) Matches(name string) bool {
	name = strings.ToLower(name)
	return v.Name == name || slices.Contains(v.Aliases, name)
}

// FindParam returns the parameter answering to name, or nil. Injected
// parameters are never matched by name since they are not read from tokens.
func (v *Verb) FindParam(name string) *Parameter {
	for _, p := range v.Params {
		if !p.Inject && p.Matches(name) {
			return p
		}
	}
	return nil
}
