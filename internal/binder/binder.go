// Package binder turns the tokens left over after routing into the bound,
// positional argument list of a verb.
//
// Each parameter takes its value from the first source that has one:
//
//  1. an explicit flag in the tokens
//  2. the declared environment variable, when it is set (even to "")
//  3. the default provider
//  4. the static default
//
// A required parameter with none of those fails; an optional one gets the
// zero value of its type. Injected parameters skip all of the above and are
// resolved through a services.Provider.
package binder

import (
	"context"
	"fmt"
	"os"
	"reflect"

	"github.com/specialistvlad/clapgo/internal/clierr"
	"github.com/specialistvlad/clapgo/internal/coerce"
	"github.com/specialistvlad/clapgo/internal/ctxlog"
	"github.com/specialistvlad/clapgo/internal/help"
	"github.com/specialistvlad/clapgo/internal/model"
	"github.com/specialistvlad/clapgo/internal/services"
)

// Options tune a single bind.
type Options struct {
	// LookupEnv reads environment variables. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
	// Services resolves injected parameters.
	Services services.Provider
	// IgnoreUnknown drops unrecognized tokens instead of failing.
	IgnoreUnknown bool
	// ValidateEmpty also runs validators on zero and injected values.
	ValidateEmpty bool
}

// SelectVerb finds the verb named by token in comp. An empty token selects
// the component's default verb.
func SelectVerb(comp *model.Component, token string) (*model.Verb, error) {
	if token == "" {
		if v := comp.DefaultVerb(); v != nil {
			return v, nil
		}
		return nil, &clierr.Error{
			Kind:      clierr.MissingVerb,
			Component: comp.Name,
			Message:   "no verb given and component " + comp.Name + " has no default verb",
		}
	}
	if v := comp.FindVerb(token); v != nil {
		return v, nil
	}
	return nil, &clierr.Error{
		Kind:        clierr.UnknownVerb,
		Component:   comp.Name,
		Verb:        token,
		Message:     "unknown verb " + token + " for component " + comp.Name,
		Suggestions: help.Suggest(token, comp.VerbNames()),
	}
}

// Bind produces the Call for verb from tokens.
func Bind(ctx context.Context, comp *model.Component, verb *model.Verb, target any, tokens []string, opts Options) (*model.Call, error) {
	logger := ctxlog.FromContext(ctx).With("component", comp.Name, "verb", verb.Name)
	if opts.LookupEnv == nil {
		opts.LookupEnv = os.LookupEnv
	}

	raw, err := collect(comp, verb, tokens, opts.IgnoreUnknown)
	if err != nil {
		return nil, err
	}

	call := model.NewCall(comp, verb, target)
	for i, p := range verb.Params {
		value, source, err := bindOne(ctx, comp, verb, p, raw, opts)
		if err != nil {
			return nil, err
		}
		if err := validate(comp, verb, p, value, source, opts.ValidateEmpty); err != nil {
			return nil, err
		}
		call.Args[i] = value
		call.Sources[i] = source
		logger.Debug("Bound parameter.", "param", p.Name(), "source", source.String())
	}
	return call, nil
}

func bindOne(ctx context.Context, comp *model.Component, verb *model.Verb, p *model.Parameter, raw map[*model.Parameter][]string, opts Options) (any, model.Source, error) {
	if p.Inject {
		v, err := inject(comp, verb, p, opts.Services)
		return v, model.SourceInjected, err
	}

	if texts, ok := raw[p]; ok {
		v, err := fromTokens(p, texts)
		if err != nil {
			return nil, 0, formatError(comp, verb, p, joinRaw(texts), err)
		}
		return v, model.SourceArgument, nil
	}

	if p.EnvVar != "" {
		if text, ok := opts.LookupEnv(p.EnvVar); ok {
			v, err := coerce.FromString(p, text)
			if err != nil {
				return nil, 0, formatError(comp, verb, p, text, fmt.Errorf("from environment variable %s: %w", p.EnvVar, err))
			}
			return v, model.SourceEnvironment, nil
		}
	}

	if p.Provider != nil {
		v, ok, err := p.Provider.DefaultValue(ctx, model.DefaultRequest{Component: comp.Name, Verb: verb.Name, Param: p})
		if err != nil {
			return nil, 0, &clierr.Error{
				Kind:      clierr.ParameterFormat,
				Component: comp.Name,
				Verb:      verb.Name,
				Param:     p.Name(),
				Message:   "default for parameter " + p.Name() + " could not be computed",
				Err:       err,
			}
		}
		if ok {
			converted, err := coerce.FromValue(p, v)
			if err != nil {
				return nil, 0, formatError(comp, verb, p, fmt.Sprint(v), fmt.Errorf("from %s: %w", p.Provider.Description(), err))
			}
			return converted, model.SourceProvider, nil
		}
	}

	if p.HasDefault {
		return p.Default, model.SourceDefault, nil
	}

	if p.Required {
		return nil, 0, &clierr.Error{
			Kind:      clierr.MissingRequiredParameter,
			Component: comp.Name,
			Verb:      verb.Name,
			Param:     p.Name(),
			Message:   "missing required parameter " + p.Name() + " for verb " + verb.Name,
		}
	}

	return p.Type.Zero(p.Array), model.SourceZero, nil
}

func fromTokens(p *model.Parameter, texts []string) (any, error) {
	if !p.Array {
		return coerce.FromString(p, texts[0])
	}
	var parts []string
	for _, t := range texts {
		parts = append(parts, coerce.Split(p, t)...)
	}
	return coerce.FromStrings(p, parts)
}

func inject(comp *model.Component, verb *model.Verb, p *model.Parameter, provider services.Provider) (any, error) {
	fail := func(err error) error {
		return &clierr.Error{
			Kind:      clierr.InjectionFailed,
			Component: comp.Name,
			Verb:      verb.Name,
			Param:     p.Name(),
			Message:   fmt.Sprintf("cannot inject %s (%s)", p.Name(), p.InjectType),
			Err:       err,
		}
	}
	if provider == nil {
		return nil, fail(fmt.Errorf("no service provider configured"))
	}
	v, err := provider.Resolve(p.InjectType)
	if err != nil {
		return nil, fail(err)
	}
	if v == nil || !reflect.TypeOf(v).AssignableTo(p.InjectType) {
		return nil, fail(fmt.Errorf("provider returned %T", v))
	}
	return v, nil
}

func validate(comp *model.Component, verb *model.Verb, p *model.Parameter, value any, source model.Source, always bool) error {
	if len(p.Validators) == 0 {
		return nil
	}
	if !always && (source == model.SourceZero || source == model.SourceInjected) {
		return nil
	}

	check := func(elem any) error {
		for _, v := range p.Validators {
			if err := v.Validate(elem); err != nil {
				return &clierr.Error{
					Kind:      clierr.ValidationFailed,
					Component: comp.Name,
					Verb:      verb.Name,
					Param:     p.Name(),
					Value:     fmt.Sprint(elem),
					Rule:      v.Description(),
					Message:   fmt.Sprintf("invalid value %v for parameter %s: %s", elem, p.Name(), v.Description()),
					Err:       err,
				}
			}
		}
		return nil
	}

	if !p.Array {
		return check(value)
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice {
		return check(value)
	}
	for i := 0; i < rv.Len(); i++ {
		if err := check(rv.Index(i).Interface()); err != nil {
			return err
		}
	}
	return nil
}

func formatError(comp *model.Component, verb *model.Verb, p *model.Parameter, text string, err error) error {
	return &clierr.Error{
		Kind:      clierr.ParameterFormat,
		Component: comp.Name,
		Verb:      verb.Name,
		Param:     p.Name(),
		Value:     text,
		Message:   fmt.Sprintf("cannot use %q as %s for parameter %s", text, p.TypeName(), p.Name()),
		Err:       err,
	}
}

func joinRaw(texts []string) string {
	if len(texts) == 1 {
		return texts[0]
	}
	return fmt.Sprint(texts)
}
