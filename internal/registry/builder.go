package registry

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/specialistvlad/clapgo/internal/clierr"
	"github.com/specialistvlad/clapgo/internal/model"
)

// ComponentSource is anything the registry can turn into a component
// descriptor. It is implemented by ComponentBuilder.
type ComponentSource interface {
	declaration() *declaration
}

// declaration is the raw, unvalidated form of a component.
type declaration struct {
	component *model.Component
	params    map[*model.Parameter]*paramFlags
}

// paramFlags records builder calls that the validator needs to judge but
// that the final descriptor does not keep.
type paramFlags struct {
	nilProvider   bool
	nilValidators int
}

// ComponentBuilder declares a component whose verbs run against targets of
// type T. Use a pointer type for instance verbs; verbs of a component with no
// registered target receive T's zero value.
type ComponentBuilder[T any] struct {
	decl *declaration
}

// Component starts the declaration of a component.
func Component[T any](name string) *ComponentBuilder[T] {
	return &ComponentBuilder[T]{
		decl: &declaration{
			component: &model.Component{
				Name:       strings.ToLower(name),
				TargetType: reflect.TypeFor[T](),
			},
			params: make(map[*model.Parameter]*paramFlags),
		},
	}
}

func (b *ComponentBuilder[T]) declaration() *declaration {
	return b.decl
}

// Alias adds alternative names for the component.
func (b *ComponentBuilder[T]) Alias(aliases ...string) *ComponentBuilder[T] {
	b.decl.component.Aliases = append(b.decl.component.Aliases, lowerAll(aliases)...)
	return b
}

// Describe sets the description shown in help.
func (b *ComponentBuilder[T]) Describe(text string) *ComponentBuilder[T] {
	b.decl.component.Description = text
	return b
}

// OnError declares the component-level error handler.
func (b *ComponentBuilder[T]) OnError(fn func(target T, ec *model.ExceptionContext)) *ComponentBuilder[T] {
	b.decl.component.ErrorHandler = func(target any, ec *model.ExceptionContext) {
		t, _ := target.(T)
		fn(t, ec)
	}
	return b
}

// OnEmpty declares what runs when a single-component parser gets no
// arguments. It takes precedence over the default verb.
func (b *ComponentBuilder[T]) OnEmpty(fn func(ctx context.Context, target T) error) *ComponentBuilder[T] {
	b.decl.component.EmptyHandler = func(ctx context.Context, target any) error {
		t, err := castTarget[T](target)
		if err != nil {
			return err
		}
		return fn(ctx, t)
	}
	return b
}

// Verb declares a synchronous verb.
func (b *ComponentBuilder[T]) Verb(name string, fn func(ctx context.Context, target T, call *model.Call) error) *VerbBuilder[T] {
	v := &model.Verb{Name: strings.ToLower(name)}
	if fn != nil {
		v.Handler = func(ctx context.Context, target any, call *model.Call) error {
			t, err := castTarget[T](target)
			if err != nil {
				return err
			}
			return fn(ctx, t, call)
		}
	}
	b.decl.component.Verbs = append(b.decl.component.Verbs, v)
	return &VerbBuilder[T]{parent: b, verb: v}
}

// AsyncVerb declares a verb whose handler completes asynchronously.
func (b *ComponentBuilder[T]) AsyncVerb(name string, fn func(ctx context.Context, target T, call *model.Call) <-chan error) *VerbBuilder[T] {
	v := &model.Verb{Name: strings.ToLower(name), Async: true}
	if fn != nil {
		v.AsyncHandler = func(ctx context.Context, target any, call *model.Call) <-chan error {
			t, err := castTarget[T](target)
			if err != nil {
				done := make(chan error, 1)
				done <- err
				return done
			}
			return fn(ctx, t, call)
		}
	}
	b.decl.component.Verbs = append(b.decl.component.Verbs, v)
	return &VerbBuilder[T]{parent: b, verb: v}
}

// VerbBuilder declares one verb of a component.
type VerbBuilder[T any] struct {
	parent *ComponentBuilder[T]
	verb   *model.Verb
}

// Alias adds alternative names for the verb.
func (vb *VerbBuilder[T]) Alias(aliases ...string) *VerbBuilder[T] {
	vb.verb.Aliases = append(vb.verb.Aliases, lowerAll(aliases)...)
	return vb
}

// Describe sets the description shown in help.
func (vb *VerbBuilder[T]) Describe(text string) *VerbBuilder[T] {
	vb.verb.Description = text
	return vb
}

// Default marks the verb as the one run when no verb token is given.
func (vb *VerbBuilder[T]) Default() *VerbBuilder[T] {
	vb.verb.Default = true
	return vb
}

// Param starts the declaration of the verb's next parameter. Parameters are
// bound in declaration order.
func (vb *VerbBuilder[T]) Param(name string, t model.Type) *ParamBuilder[T] {
	p := &model.Parameter{
		Names: []string{strings.ToLower(name)},
		Type:  t,
	}
	vb.verb.Params = append(vb.verb.Params, p)
	flags := &paramFlags{}
	vb.parent.decl.params[p] = flags
	return &ParamBuilder[T]{parent: vb, param: p, flags: flags}
}

// Done finishes the verb and returns to the component.
func (vb *VerbBuilder[T]) Done() *ComponentBuilder[T] {
	return vb.parent
}

// ParamBuilder declares one parameter.
type ParamBuilder[T any] struct {
	parent *VerbBuilder[T]
	param  *model.Parameter
	flags  *paramFlags
}

// Alias adds alternative names for the parameter.
func (pb *ParamBuilder[T]) Alias(aliases ...string) *ParamBuilder[T] {
	pb.param.Names = append(pb.param.Names, lowerAll(aliases)...)
	return pb
}

// Describe sets the description shown in help.
func (pb *ParamBuilder[T]) Describe(text string) *ParamBuilder[T] {
	pb.param.Description = text
	return pb
}

// Required marks the parameter as required.
func (pb *ParamBuilder[T]) Required() *ParamBuilder[T] {
	pb.param.Required = true
	return pb
}

// Default sets the static default. The value is converted to the
// parameter's type during validation.
func (pb *ParamBuilder[T]) Default(value any) *ParamBuilder[T] {
	pb.param.Default = value
	pb.param.HasDefault = true
	return pb
}

// Provider sets the default provider consulted at bind time.
func (pb *ParamBuilder[T]) Provider(p model.DefaultProvider) *ParamBuilder[T] {
	if p == nil || reflect.ValueOf(p).Kind() == reflect.Pointer && reflect.ValueOf(p).IsNil() {
		pb.flags.nilProvider = true
		return pb
	}
	pb.param.Provider = p
	return pb
}

// Env names the environment variable read when no explicit value is given.
func (pb *ParamBuilder[T]) Env(name string) *ParamBuilder[T] {
	pb.param.EnvVar = name
	return pb
}

// Array makes the parameter multi-valued. Without a separator every
// occurrence of the flag contributes one element.
func (pb *ParamBuilder[T]) Array() *ParamBuilder[T] {
	pb.param.Array = true
	return pb
}

// Separator makes the parameter multi-valued and splits each value on sep.
func (pb *ParamBuilder[T]) Separator(sep string) *ParamBuilder[T] {
	pb.param.Array = true
	pb.param.Separator = sep
	return pb
}

// Values lists the accepted values of an enum parameter.
func (pb *ParamBuilder[T]) Values(values ...string) *ParamBuilder[T] {
	pb.param.EnumValues = append(pb.param.EnumValues, values...)
	return pb
}

// Inject marks the parameter as supplied by the service provider, keyed by
// t. Injected parameters are never read from arguments.
func (pb *ParamBuilder[T]) Inject(t reflect.Type) *ParamBuilder[T] {
	pb.param.Inject = true
	pb.param.InjectType = t
	return pb
}

// Validate appends validators, run in order after binding.
func (pb *ParamBuilder[T]) Validate(validators ...model.Validator) *ParamBuilder[T] {
	for _, v := range validators {
		if v == nil {
			pb.flags.nilValidators++
			continue
		}
		pb.param.Validators = append(pb.param.Validators, v)
	}
	return pb
}

// Done finishes the parameter and returns to the verb.
func (pb *ParamBuilder[T]) Done() *VerbBuilder[T] {
	return pb.parent
}

func castTarget[T any](target any) (T, error) {
	var zero T
	if target == nil {
		return zero, nil
	}
	t, ok := target.(T)
	if !ok {
		return zero, &clierr.Error{
			Kind:    clierr.InvalidTarget,
			Message: fmt.Sprintf("target of type %T cannot serve a component of %s", target, reflect.TypeFor[T]()),
		}
	}
	return t, nil
}

func lowerAll(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		for _, part := range strings.Split(n, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, strings.ToLower(part))
			}
		}
	}
	return out
}
