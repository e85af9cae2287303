package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/clapgo/internal/clierr"
	"github.com/specialistvlad/clapgo/internal/coerce"
	"github.com/specialistvlad/clapgo/internal/ctxlog"
	"github.com/specialistvlad/clapgo/internal/model"
)

// reservedChars may not appear in component, verb or parameter names since
// the argument grammar gives them meaning.
const reservedChars = "./=: \t"

// Validate builds the descriptor model from every added declaration and
// checks it for consistency. All problems are reported together as one
// clierr.Configuration error.
func (r *Registry) Validate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	var errs []string

	if r.validated && len(r.sources) == len(r.components) {
		return nil
	}
	if r.validated {
		errs = append(errs, "components were added after the registry was validated")
		return clierr.Join(errs)
	}

	if len(r.sources) == 0 {
		errs = append(errs, "no components registered")
	}

	components := make([]*model.Component, 0, len(r.sources))
	seen := make(map[string]string)
	for _, src := range r.sources {
		decl := src.declaration()
		c := decl.component

		for _, name := range append([]string{c.Name}, c.Aliases...) {
			errs = append(errs, checkName(fmt.Sprintf("component '%s'", c.Name), name)...)
		}
		for _, name := range append([]string{c.Name}, c.Aliases...) {
			if owner, dup := seen[name]; dup {
				errs = append(errs, fmt.Sprintf("component '%s': name or alias '%s' is already used by component '%s'", c.Name, name, owner))
				continue
			}
			seen[name] = c.Name
		}

		errs = append(errs, validateComponent(decl)...)
		components = append(components, c)
	}

	if len(errs) > 0 {
		logger.Debug("Registry validation failed.", "problem_count", len(errs))
		return clierr.Join(errs)
	}

	r.components = components
	r.validated = true
	logger.Debug("Registry validation passed.", "component_count", len(components))
	return nil
}

func validateComponent(decl *declaration) []string {
	var errs []string
	c := decl.component
	prefix := fmt.Sprintf("component '%s'", c.Name)

	defaults := 0
	seen := make(map[string]string)
	for _, v := range c.Verbs {
		vprefix := fmt.Sprintf("%s, verb '%s'", prefix, v.Name)
		for _, name := range v.Names() {
			errs = append(errs, checkName(vprefix, name)...)
		}

		for _, name := range v.Names() {
			if owner, dup := seen[name]; dup {
				errs = append(errs, fmt.Sprintf("%s: name or alias '%s' is already used by verb '%s'", vprefix, name, owner))
				continue
			}
			seen[name] = v.Name
		}

		if v.Default {
			defaults++
		}
		if !v.Async && v.Handler == nil || v.Async && v.AsyncHandler == nil {
			errs = append(errs, fmt.Sprintf("%s: handler is nil", vprefix))
		}

		errs = append(errs, validateParams(vprefix, v, decl.params)...)
	}

	if defaults > 1 {
		errs = append(errs, fmt.Sprintf("%s: %d verbs are marked as default, at most one is allowed", prefix, defaults))
	}
	return errs
}

func validateParams(prefix string, v *model.Verb, flags map[*model.Parameter]*paramFlags) []string {
	var errs []string
	seen := make(map[string]string)

	for _, p := range v.Params {
		pprefix := fmt.Sprintf("%s, parameter '%s'", prefix, p.Name())
		if len(p.Names) == 0 {
			errs = append(errs, checkName(pprefix, "")...)
		}
		for _, name := range p.Names {
			errs = append(errs, checkName(pprefix, name)...)
		}

		if !p.Inject {
			for _, name := range p.Names {
				if owner, dup := seen[name]; dup {
					errs = append(errs, fmt.Sprintf("%s: name or alias '%s' is already used by parameter '%s'", pprefix, name, owner))
					continue
				}
				seen[name] = p.Name()
			}
		}

		if f := flags[p]; f != nil {
			if f.nilProvider {
				errs = append(errs, fmt.Sprintf("%s: default provider is nil", pprefix))
			}
			if f.nilValidators > 0 {
				errs = append(errs, fmt.Sprintf("%s: %d validator(s) are nil", pprefix, f.nilValidators))
			}
		}

		if p.Required && p.HasDefault {
			errs = append(errs, fmt.Sprintf("%s: parameter cannot be both required and have a default value", pprefix))
		}
		if p.Required && p.Provider != nil {
			errs = append(errs, fmt.Sprintf("%s: parameter cannot be both required and have a default provider", pprefix))
		}
		if p.Inject {
			if p.Required {
				errs = append(errs, fmt.Sprintf("%s: injected parameter cannot be required", pprefix))
			}
			if p.InjectType == nil {
				errs = append(errs, fmt.Sprintf("%s: injected parameter has no service type", pprefix))
			}
		}
		if p.Separator != "" && !p.Array {
			errs = append(errs, fmt.Sprintf("%s: separator is only allowed on array parameters", pprefix))
		}
		if p.Type == model.TypeEnum && len(p.EnumValues) == 0 {
			errs = append(errs, fmt.Sprintf("%s: enum parameter declares no values", pprefix))
		}
		if p.Type != model.TypeEnum && len(p.EnumValues) > 0 {
			errs = append(errs, fmt.Sprintf("%s: values are only allowed on enum parameters", pprefix))
		}

		for _, val := range p.Validators {
			if cv, ok := val.(model.CheckedValidator); ok {
				if err := cv.Err(); err != nil {
					errs = append(errs, fmt.Sprintf("%s: validator %q cannot be used: %v", pprefix, val.Description(), err))
					continue
				}
			}
			if tv, ok := val.(model.TypedValidator); ok && !tv.Supports(p.Type) {
				errs = append(errs, fmt.Sprintf("%s: validator %q does not apply to type %s", pprefix, val.Description(), p.Type))
			}
		}

		if p.HasDefault && !p.Inject {
			converted, err := coerce.FromValue(p, p.Default)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: default value %v is not a valid %s: %v", pprefix, p.Default, p.TypeName(), err))
			} else {
				p.Default = converted
			}
		}
	}
	return errs
}

func checkName(prefix, name string) []string {
	if name == "" {
		return []string{fmt.Sprintf("%s: name or alias is empty", prefix)}
	}
	if strings.ContainsAny(name, reservedChars) {
		return []string{fmt.Sprintf("%s: name '%s' contains a reserved character (one of %q)", prefix, name, reservedChars)}
	}
	if strings.HasPrefix(name, "-") {
		return []string{fmt.Sprintf("%s: name '%s' starts with a flag prefix", prefix, name)}
	}
	return nil
}
