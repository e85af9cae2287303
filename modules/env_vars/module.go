// Package env_vars provides the "env" component for inspecting environment
// variables.
package env_vars

import (
	"context"
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/specialistvlad/clapgo/internal/model"
	"github.com/specialistvlad/clapgo/internal/registry"
	"github.com/specialistvlad/clapgo/internal/validation"
)

// Module implements the registry.Module interface for this package and is
// the component's target.
type Module struct {
	// Environ lists the environment. Defaults to os.Environ.
	Environ func() []string
}

func (m *Module) environ() map[string]string {
	list := os.Environ
	if m != nil && m.Environ != nil {
		list = m.Environ
	}
	env := make(map[string]string)
	for _, e := range list() {
		if k, v, ok := strings.Cut(e, "="); ok {
			env[k] = v
		}
	}
	return env
}

// OnList prints NAME=value for the requested variables, or for every
// variable matching the prefix when no names are given.
func OnList(ctx context.Context, m *Module, call *model.Call) error {
	out := model.Get[io.Writer](call, "out")
	env := m.environ()

	names := call.Strings("names")
	if len(names) == 0 {
		prefix := call.String("prefix")
		for k := range env {
			if strings.HasPrefix(k, prefix) {
				names = append(names, k)
			}
		}
		sort.Strings(names)
	}

	for _, name := range names {
		v, ok := env[name]
		if !ok {
			continue
		}
		if _, err := fmt.Fprintf(out, "%s=%s\n", name, v); err != nil {
			return err
		}
	}
	return nil
}

// OnGet prints one variable's value, or the fallback when it is unset.
func OnGet(ctx context.Context, m *Module, call *model.Call) error {
	out := model.Get[io.Writer](call, "out")
	name := call.String("name")

	v, ok := m.environ()[name]
	if !ok {
		if call.Source("fallback") == model.SourceZero {
			return fmt.Errorf("environment variable %s is not set", name)
		}
		v = call.String("fallback")
	}
	_, err := fmt.Fprintln(out, v)
	return err
}

// Register registers the component with the registry.
func (m *Module) Register(r *registry.Registry) {
	writer := reflect.TypeFor[io.Writer]()
	c := registry.Component[*Module]("env").Describe("Inspects environment variables.")

	c.Verb("list", OnList).
		Alias("ls").
		Describe("Lists environment variables.").
		Param("names", model.TypeString).Alias("name").Array().Describe("Variables to show, in order. Repeat the flag for several.").Done().
		Param("prefix", model.TypeString).Env("CLAPGO_ENV_PREFIX").Describe("Only list variables starting with this prefix.").Done().
		Param("out", model.TypeString).Inject(writer)

	c.Verb("get", OnGet).
		Describe("Prints the value of one variable.").
		Param("name", model.TypeString).Alias("n").Required().Validate(validation.NotEmpty()).Done().
		Param("fallback", model.TypeString).Env("CLAPGO_ENV_FALLBACK").Describe("Printed when the variable is unset.").Done().
		Param("out", model.TypeString).Inject(writer)

	r.Add(c)
}
