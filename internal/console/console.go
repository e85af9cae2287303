// Package console attaches the usual terminal behaviour to a parser: help
// on -help/-h/-?, error messages on stderr, and a -debug switch that turns
// on debug logging.
package console

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/clapgo/internal/engine"
	"github.com/specialistvlad/clapgo/internal/model"
)

// HelpNames are the flags that print help.
const HelpNames = "help,h,?"

// Attach registers the console handlers on p. level may be nil, in which
// case -debug is accepted but has no effect.
func Attach(p *engine.Parser, out, errOut io.Writer, level *slog.LevelVar) *engine.Parser {
	reg := p.Register()

	reg.HelpHandler(HelpNames, func(help string) {
		fmt.Fprintln(out, help)
	})
	reg.ParameterHandler("debug", func(string) {
		if level != nil {
			level.Set(slog.LevelDebug)
		}
	})
	reg.ErrorHandler(func(ec *model.ExceptionContext) {
		fmt.Fprintln(errOut, ec.Err.Error())
	})

	if len(p.Components()) > 1 {
		reg.EmptyHelpHandler(func(help string) {
			fmt.Fprintln(out, help)
		})
	}
	return p
}
