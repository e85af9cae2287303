package engine

import (
	"slices"
	"strings"
	"sync"

	"github.com/specialistvlad/clapgo/internal/model"
)

// Registration holds the handlers of one Parser. Handlers should be set up
// before the first run; registering later is safe but racy in effect.
type Registration struct {
	mu sync.RWMutex

	errorHandler     func(ec *model.ExceptionContext)
	emptyHandler     func()
	emptyHelpHandler func(help string)
	helpHandlers     []namedHandler
	paramHandlers    []namedHandler
	preVerb          []func(vc *model.VerbContext)
	postVerb         []func(vc *model.VerbContext)
}

type namedHandler struct {
	names []string
	fn    func(value string)
}

// ErrorHandler sets the parser-level error handler. It takes precedence over
// every component-level handler.
func (r *Registration) ErrorHandler(fn func(ec *model.ExceptionContext)) *Registration {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errorHandler = fn
	return r
}

// EmptyHandler sets what runs when the arguments are empty.
func (r *Registration) EmptyHandler(fn func()) *Registration {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emptyHandler = fn
	return r
}

// EmptyHelpHandler receives the help text when the arguments are empty and
// no EmptyHandler is set.
func (r *Registration) EmptyHelpHandler(fn func(help string)) *Registration {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emptyHelpHandler = fn
	return r
}

// HelpHandler receives the help text when any of names (comma separated,
// e.g. "help,h,?") appears as a flag.
func (r *Registration) HelpHandler(names string, fn func(help string)) *Registration {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.helpHandlers = append(r.helpHandlers, namedHandler{names: splitNames(names), fn: fn})
	return r
}

// ParameterHandler consumes a global flag before binding. fn receives the
// inline value ("-x=v") or "" for a bare flag. Handled flags are removed
// from the arguments.
func (r *Registration) ParameterHandler(names string, fn func(value string)) *Registration {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paramHandlers = append(r.paramHandlers, namedHandler{names: splitNames(names), fn: fn})
	return r
}

// PreVerb adds a hook run after binding and before invocation. Setting
// VerbContext.Cancel skips the verb; the run then reports success.
func (r *Registration) PreVerb(fn func(vc *model.VerbContext)) *Registration {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.preVerb = append(r.preVerb, fn)
	return r
}

// PostVerb adds a hook run after invocation, successful or not.
func (r *Registration) PostVerb(fn func(vc *model.VerbContext)) *Registration {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.postVerb = append(r.postVerb, fn)
	return r
}

// snapshot is an immutable copy taken at the start of a run.
type snapshot struct {
	errorHandler     func(ec *model.ExceptionContext)
	emptyHandler     func()
	emptyHelpHandler func(help string)
	helpHandlers     []namedHandler
	paramHandlers    []namedHandler
	preVerb          []func(vc *model.VerbContext)
	postVerb         []func(vc *model.VerbContext)
}

func (r *Registration) snapshot() snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return snapshot{
		errorHandler:     r.errorHandler,
		emptyHandler:     r.emptyHandler,
		emptyHelpHandler: r.emptyHelpHandler,
		helpHandlers:     slices.Clone(r.helpHandlers),
		paramHandlers:    slices.Clone(r.paramHandlers),
		preVerb:          slices.Clone(r.preVerb),
		postVerb:         slices.Clone(r.postVerb),
	}
}

func findHandler(handlers []namedHandler, name string) *namedHandler {
	for i := range handlers {
		for _, n := range handlers[i].names {
			if n == name {
				return &handlers[i]
			}
		}
	}
	return nil
}

func splitNames(names string) []string {
	var out []string
	for _, n := range strings.Split(names, ",") {
		if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
			out = append(out, n)
		}
	}
	return out
}
