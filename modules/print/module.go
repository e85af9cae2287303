// Package print provides the "print" component: it writes text to the
// injected output writer.
package print

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/specialistvlad/clapgo/internal/ctxlog"
	"github.com/specialistvlad/clapgo/internal/defaults"
	"github.com/specialistvlad/clapgo/internal/model"
	"github.com/specialistvlad/clapgo/internal/registry"
	"github.com/specialistvlad/clapgo/internal/validation"
)

// Module implements the registry.Module interface for this package. It is
// also the component's target.
type Module struct{}

// OnLine is the handler for print.line.
func OnLine(ctx context.Context, _ *Module, call *model.Call) error {
	logger := ctxlog.FromContext(ctx)
	out := model.Get[io.Writer](call, "out")

	text := call.String("text")
	if call.Bool("upper") {
		text = strings.ToUpper(text)
	}
	if tags := call.Strings("tags"); len(tags) > 0 {
		text = "[" + strings.Join(tags, ",") + "] " + text
	}

	times := call.Int("times")
	logger.Debug("Printing line.", "times", times, "times_source", call.Source("times").String())
	for i := 0; i < times; i++ {
		if _, err := fmt.Fprintln(out, text); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

// Register registers the component with the registry.
func (m *Module) Register(r *registry.Registry) {
	c := registry.Component[*Module]("print").
		Alias("p").
		Describe("Writes text to standard output.")

	c.Verb("line", OnLine).
		Alias("l").
		Default().
		Describe("Prints a line of text.").
		Param("text", model.TypeString).Alias("t").Required().Describe("Text to print.").Done().
		Param("times", model.TypeInt).Alias("n").Default(1).Provider(defaults.FromContext()).
		Validate(validation.MoreOrEqualTo(1), validation.LessOrEqualTo(100)).Describe("How many times to print it.").Done().
		Param("upper", model.TypeBool).Alias("u").Describe("Upper-case the text.").Done().
		Param("tags", model.TypeString).Separator(",").Describe("Tags prepended to the line.").Done().
		Param("out", model.TypeString).Inject(reflect.TypeFor[io.Writer]())

	r.Add(c)
}
