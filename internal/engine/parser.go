package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/specialistvlad/clapgo/internal/binder"
	"github.com/specialistvlad/clapgo/internal/clierr"
	"github.com/specialistvlad/clapgo/internal/ctxlog"
	"github.com/specialistvlad/clapgo/internal/help"
	"github.com/specialistvlad/clapgo/internal/invoker"
	"github.com/specialistvlad/clapgo/internal/model"
	"github.com/specialistvlad/clapgo/internal/registry"
	"github.com/specialistvlad/clapgo/internal/router"
	"github.com/specialistvlad/clapgo/internal/services"
	"github.com/specialistvlad/clapgo/internal/target"
)

// Exit codes reported by a run.
const (
	SuccessCode = 0
	ErrorCode   = 1
)

// Options configure a Parser.
type Options struct {
	// Logger is used for every run. Defaults to the logger in the run's
	// context.
	Logger *slog.Logger
	// Help formats help text. Defaults to help.Default{}.
	Help help.Generator
	// Services resolves injected parameters.
	Services services.Provider
	// LookupEnv reads environment variables. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
	// IgnoreUnknown drops unrecognized argument tokens instead of failing.
	IgnoreUnknown bool
	// ValidateEmpty runs validators on zero and injected values too.
	ValidateEmpty bool
	// Background runs synchronous verbs on their own goroutine.
	Background bool
}

// Parser dispatches argument vectors to the verbs of its components. It is
// safe for concurrent runs.
type Parser struct {
	components []*model.Component
	opts       Options
	register   *Registration
}

// New registers every module, validates the result and returns the parser.
func New(opts Options, modules ...registry.Module) (*Parser, error) {
	return FromRegistry(registry.New().Use(modules...), opts)
}

// FromRegistry validates r (if needed) and returns a parser over its
// components. Any problem is a clierr.Configuration error.
func FromRegistry(r *registry.Registry, opts Options) (*Parser, error) {
	ctx := context.Background()
	if opts.Logger != nil {
		ctx = ctxlog.WithLogger(ctx, opts.Logger)
	}
	if err := r.Validate(ctx); err != nil {
		return nil, err
	}

	if opts.Help == nil {
		opts.Help = help.Default{}
	}
	if opts.LookupEnv == nil {
		opts.LookupEnv = os.LookupEnv
	}

	return &Parser{
		components: r.Components(),
		opts:       opts,
		register:   &Registration{},
	}, nil
}

// Register returns the parser's handler registration.
func (p *Parser) Register() *Registration {
	return p.register
}

// Components returns the component descriptors in registration order.
func (p *Parser) Components() []*model.Component {
	return p.components
}

// HelpString renders help for every component.
func (p *Parser) HelpString() string {
	return p.opts.Help.Help(p.components)
}

// RunAsync starts a run and returns its pending exit code.
func (p *Parser) RunAsync(ctx context.Context, args []string, resolver target.Resolver) *invoker.Future[int] {
	return invoker.Go(func() (int, error) {
		return p.Run(ctx, args, resolver)
	})
}

// RunTargets runs against the given component instances.
func (p *Parser) RunTargets(ctx context.Context, args []string, targets ...any) (int, error) {
	return p.Run(ctx, args, target.NewResolver(targets...))
}

// RunStatic runs with no component instances; handlers receive the zero
// value of their target type.
func (p *Parser) RunStatic(ctx context.Context, args []string) (int, error) {
	return p.Run(ctx, args, nil)
}

// Run executes exactly one verb selected by args and returns the exit code.
// An error is returned only when no handler consumed it, or a handler asked
// for it to be rethrown; the exit code is then ErrorCode.
func (p *Parser) Run(ctx context.Context, args []string, resolver target.Resolver) (int, error) {
	if p.opts.Logger != nil {
		ctx = ctxlog.WithLogger(ctx, p.opts.Logger)
	}
	ctx = ctxlog.With(ctx, "run_id", uuid.NewString())
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Run started.", "arg_count", len(args))

	r := &run{parser: p, handlers: p.register.snapshot(), resolver: resolver}
	code, err := r.execute(ctx, args)

	logger.Debug("Run finished.", "exit_code", code, "propagated", err != nil)
	return code, err
}

// run is the state of one call to Parser.Run.
type run struct {
	parser   *Parser
	handlers snapshot
	resolver target.Resolver
}

func (r *run) execute(ctx context.Context, args []string) (int, error) {
	logger := ctxlog.FromContext(ctx)

	if router.IsEmpty(args) {
		return r.empty(ctx)
	}

	g := r.globalFlags(ctx, args)
	if g.help != nil {
		logger.Debug("Help requested.", "flag", g.helpFlag)
		if err := guard("help", func() { g.help.fn(r.parser.HelpString()) }); err != nil {
			return r.fail(ctx, err, nil, nil)
		}
		return SuccessCode, nil
	}
	for _, f := range g.params {
		logger.Debug("Global parameter handled.", "param", f.name)
		if err := guard("parameter", func() { f.handler.fn(f.value) }); err != nil {
			return r.fail(ctx, err, nil, nil)
		}
	}
	args = g.rest

	if router.IsEmpty(args) {
		return r.empty(ctx)
	}

	res, err := router.Resolve(ctx, r.parser.components, args)
	if err != nil {
		return r.fail(ctx, err, nil, nil)
	}
	return r.dispatch(ctx, res.Component, res.VerbToken, res.Rest)
}

// empty handles an argument vector with nothing in it.
func (r *run) empty(ctx context.Context) (int, error) {
	logger := ctxlog.FromContext(ctx)

	switch {
	case r.handlers.emptyHandler != nil:
		logger.Debug("Empty arguments, calling empty handler.")
		if err := guard("empty", r.handlers.emptyHandler); err != nil {
			return r.fail(ctx, err, nil, nil)
		}
		return SuccessCode, nil
	case r.handlers.emptyHelpHandler != nil:
		logger.Debug("Empty arguments, calling empty help handler.")
		if err := guard("empty help", func() { r.handlers.emptyHelpHandler(r.parser.HelpString()) }); err != nil {
			return r.fail(ctx, err, nil, nil)
		}
		return SuccessCode, nil
	case len(r.parser.components) != 1:
		logger.Debug("Empty arguments with several components, nothing to run.")
		return SuccessCode, nil
	}

	c := r.parser.components[0]
	if c.EmptyHandler != nil {
		logger.Debug("Empty arguments, calling component empty handler.", "component", c.Name)
		var err error
		if perr := guard("empty", func() { err = c.EmptyHandler(ctx, r.target(c)) }); perr != nil {
			err = perr
		}
		if err != nil {
			return r.fail(ctx, err, c, nil)
		}
		return SuccessCode, nil
	}
	if c.DefaultVerb() == nil {
		logger.Debug("Empty arguments and no default verb, nothing to run.", "component", c.Name)
		return SuccessCode, nil
	}
	return r.dispatch(ctx, c, "", nil)
}

// globalFlag is a parameter handler flag found in the arguments.
type globalFlag struct {
	handler *namedHandler
	name    string
	value   string
}

// globals are the help and parameter handler flags of a run, and the
// arguments left once they are removed.
type globals struct {
	help     *namedHandler
	helpFlag string
	params   []globalFlag
	rest     []string
}

// globalFlags finds help and parameter handler flags. Only flag positions
// count, and a name that is also a parameter of the addressed verb belongs
// to the verb.
func (r *run) globalFlags(ctx context.Context, args []string) globals {
	if len(r.handlers.helpHandlers) == 0 && len(r.handlers.paramHandlers) == 0 {
		return globals{rest: args}
	}

	verb := r.addressedVerb(ctx, args)
	var g globals
	handled := make(map[int]bool)
	for _, i := range binder.FlagIndexes(verb, args) {
		f, _ := binder.ParseFlag(args[i])
		if verb != nil && verb.FindParam(f.Name) != nil {
			continue
		}
		if h := findHandler(r.handlers.helpHandlers, f.Name); h != nil {
			if g.help == nil {
				g.help, g.helpFlag = h, f.Name
			}
			handled[i] = true
			continue
		}
		if h := findHandler(r.handlers.paramHandlers, f.Name); h != nil {
			g.params = append(g.params, globalFlag{handler: h, name: f.Name, value: f.Value})
			handled[i] = true
		}
	}

	g.rest = make([]string, 0, len(args))
	for i, a := range args {
		if !handled[i] {
			g.rest = append(g.rest, a)
		}
	}
	return g
}

// addressedVerb returns the verb args select once handler flags are set
// aside, or nil when they select none.
func (r *run) addressedVerb(ctx context.Context, args []string) *model.Verb {
	stripped := make([]string, 0, len(args))
	for _, a := range args {
		if f, ok := binder.ParseFlag(a); ok &&
			(findHandler(r.handlers.helpHandlers, f.Name) != nil || findHandler(r.handlers.paramHandlers, f.Name) != nil) {
			continue
		}
		stripped = append(stripped, a)
	}
	if router.IsEmpty(stripped) {
		return nil
	}

	res, err := router.Resolve(ctx, r.parser.components, stripped)
	if err != nil {
		return nil
	}
	verb, err := binder.SelectVerb(res.Component, res.VerbToken)
	if err != nil {
		return nil
	}
	return verb
}

func (r *run) dispatch(ctx context.Context, c *model.Component, verbToken string, tokens []string) (int, error) {
	ctx = ctxlog.With(ctx, "component", c.Name)
	opts := r.parser.opts

	verb, err := binder.SelectVerb(c, verbToken)
	if err != nil {
		return r.fail(ctx, err, c, nil)
	}
	ctx = ctxlog.With(ctx, "verb", verb.Name)

	tgt := r.target(c)
	call, err := binder.Bind(ctx, c, verb, tgt, tokens, binder.Options{
		LookupEnv:     opts.LookupEnv,
		Services:      opts.Services,
		IgnoreUnknown: opts.IgnoreUnknown,
		ValidateEmpty: opts.ValidateEmpty,
	})
	if err != nil {
		return r.fail(ctx, err, c, verb)
	}

	vc := &model.VerbContext{Component: c, Verb: verb, Call: call, Target: tgt}
	for _, hook := range r.handlers.preVerb {
		if err := guard("pre-verb", func() { hook(vc) }); err != nil {
			return r.fail(ctx, err, c, verb)
		}
		if vc.Cancel {
			ctxlog.FromContext(ctx).Debug("Verb cancelled by pre-verb hook.")
			return SuccessCode, nil
		}
	}

	_, err = invoker.Invoke(ctx, verb, tgt, call, invoker.Options{Background: opts.Background}).Wait()

	vc.Failed = err != nil
	vc.Err = err
	for _, hook := range r.handlers.postVerb {
		if herr := guard("post-verb", func() { hook(vc) }); herr != nil {
			err = errors.Join(err, herr)
		}
	}

	if err != nil {
		return r.fail(ctx, err, c, verb)
	}
	return SuccessCode, nil
}

// target resolves the live instance for c, or nil for static dispatch.
// A resolved instance of the wrong type is passed through; the verb's
// handler reports it as clierr.InvalidTarget.
func (r *run) target(c *model.Component) any {
	if r.resolver == nil {
		return nil
	}
	return r.resolver.Resolve(c.TargetType)
}

// fail runs the error chain.
func (r *run) fail(ctx context.Context, err error, c *model.Component, verb *model.Verb) (int, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Run failed.", "error", err, "kind", clierr.KindOf(err).String())

	ec := &model.ExceptionContext{Err: err, Component: c, Verb: verb}

	if h := r.handlers.errorHandler; h != nil {
		if herr := guard("error", func() { h(ec) }); herr != nil {
			return ErrorCode, herr
		}
		return r.settle(ctx, ec, "parser")
	}

	for _, comp := range r.parser.components {
		if comp.ErrorHandler == nil {
			continue
		}
		tgt := r.target(comp)
		if herr := guard("error", func() { comp.ErrorHandler(tgt, ec) }); herr != nil {
			return ErrorCode, herr
		}
		return r.settle(ctx, ec, comp.Name)
	}

	logger.Debug("No error handler registered, propagating error.")
	return ErrorCode, err
}

func (r *run) settle(ctx context.Context, ec *model.ExceptionContext, by string) (int, error) {
	logger := ctxlog.FromContext(ctx)
	if ec.Rethrow {
		logger.Debug("Error handler asked to rethrow.", "handler", by)
		return ErrorCode, ec.Err
	}
	logger.Debug("Error consumed by handler.", "handler", by)
	return ErrorCode, nil
}

// guard runs a user-supplied handler, turning a panic into an error. A
// panicking error handler replaces the error being handled.
func guard(kind string, fn func()) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%s handler panicked: %v", kind, rec)
		}
	}()
	fn()
	return nil
}
