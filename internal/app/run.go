package app

import (
	"context"

	"github.com/specialistvlad/clapgo/internal/ctxlog"
	"github.com/specialistvlad/clapgo/internal/defaults"
	"github.com/specialistvlad/clapgo/internal/target"
)

// Run dispatches args to one verb and returns its exit code. A non-nil
// error means the failure was not consumed by an error handler.
func (a *App) Run(ctx context.Context, args []string) (int, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	if a.store != nil {
		ctx = defaults.WithStore(ctx, a.store)
	}
	a.logger.Debug("App.Run method started.", "args", args)

	targets := make([]any, len(a.modules))
	for i, m := range a.modules {
		targets[i] = m
	}
	code, err := a.parser.Run(ctx, args, target.NewResolver(targets...))

	a.logger.Debug("App.Run method finished.", "exit_code", code)
	return code, err
}
