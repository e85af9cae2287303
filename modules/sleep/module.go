// Package sleep provides the "sleep" component, whose verb completes
// asynchronously.
package sleep

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/specialistvlad/clapgo/internal/ctxlog"
	"github.com/specialistvlad/clapgo/internal/model"
	"github.com/specialistvlad/clapgo/internal/registry"
	"github.com/specialistvlad/clapgo/internal/validation"
)

// Module implements the registry.Module interface for this package and is
// the component's target.
type Module struct{}

// OnWait waits for the requested duration on its own goroutine. It stops
// early, with the context's error, when ctx is done.
func OnWait(ctx context.Context, _ *Module, call *model.Call) <-chan error {
	done := make(chan error, 1)
	d := call.Duration("for")
	out := model.Get[io.Writer](call, "out")
	logger := ctxlog.FromContext(ctx)

	go func() {
		defer close(done)
		logger.Debug("Waiting.", "duration", d)

		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			done <- fmt.Errorf("wait interrupted: %w", ctx.Err())
			return
		case <-timer.C:
		}

		if msg := call.String("message"); msg != "" {
			if _, err := fmt.Fprintln(out, msg); err != nil {
				done <- err
			}
		}
	}()
	return done
}

// Register registers the component with the registry.
func (m *Module) Register(r *registry.Registry) {
	c := registry.Component[*Module]("sleep").Describe("Waits before returning.")

	c.AsyncVerb("wait", OnWait).
		Default().
		Describe("Waits for a duration, then prints an optional message.").
		Param("for", model.TypeDuration).Alias("d").Default("1s").
		Validate(validation.DurationBetween(0, time.Hour)).Describe("How long to wait, e.g. 1m30s.").Done().
		Param("message", model.TypeString).Alias("m").Done().
		Param("out", model.TypeString).Inject(reflect.TypeFor[io.Writer]())

	r.Add(c)
}
