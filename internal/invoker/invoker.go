// Package invoker runs a bound verb and reports its outcome as a Future,
// the same way for synchronous and asynchronous handlers.
package invoker

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/specialistvlad/clapgo/internal/ctxlog"
	"github.com/specialistvlad/clapgo/internal/model"
)

// Options tune a single invocation.
type Options struct {
	// Background runs synchronous handlers on their own goroutine instead of
	// the caller's.
	Background bool
}

// Invoke runs verb's handler with call. Synchronous handlers run to
// completion before Invoke returns (unless Background is set) and yield an
// already resolved Future. Asynchronous handlers are started and their
// completion channel is awaited off the calling goroutine.
func Invoke(ctx context.Context, verb *model.Verb, target any, call *model.Call, opts Options) *Future[struct{}] {
	logger := ctxlog.FromContext(ctx).With("verb", verb.Name, "async", verb.Async)
	start := time.Now()
	logger.Debug("Invoking verb.")

	finish := func(_ struct{}, err error) (struct{}, error) {
		if err != nil {
			logger.Debug("Verb failed.", "error", err, "duration", time.Since(start))
		} else {
			logger.Debug("Verb completed.", "duration", time.Since(start))
		}
		return struct{}{}, err
	}

	if verb.Async {
		ch, err := startAsync(ctx, verb, target, call)
		if err != nil {
			return Resolved(finish(struct{}{}, err))
		}
		if ch == nil {
			return Resolved(finish(struct{}{}, nil))
		}
		return Go(func() (struct{}, error) {
			return finish(struct{}{}, awaitChannel(ch))
		})
	}

	run := func() (struct{}, error) {
		return finish(struct{}{}, runSync(ctx, verb, target, call))
	}
	if opts.Background {
		return Go(run)
	}
	return Resolved(run())
}

func runSync(ctx context.Context, verb *model.Verb, target any, call *model.Call) (err error) {
	defer recoverInto(&err, verb)
	return verb.Handler(ctx, target, call)
}

func startAsync(ctx context.Context, verb *model.Verb, target any, call *model.Call) (ch <-chan error, err error) {
	defer recoverInto(&err, verb)
	return verb.AsyncHandler(ctx, target, call), nil
}

// awaitChannel waits for the first value; a channel closed without a value
// means success.
func awaitChannel(ch <-chan error) error {
	err, ok := <-ch
	if !ok {
		return nil
	}
	return err
}

func recoverInto(err *error, verb *model.Verb) {
	if r := recover(); r != nil {
		*err = &PanicError{Verb: verb.Name, Value: r, Stack: debug.Stack()}
	}
}

// PanicError reports a handler that panicked.
type PanicError struct {
	Verb  string
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("verb %s panicked: %v", e.Verb, e.Value)
}
