package invoker

import (
	"context"
	"sync"
)

// Future is the pending result of an operation. It completes exactly once.
type Future[T any] struct {
	done  chan struct{}
	once  sync.Once
	value T
	err   error
}

// NewFuture returns an incomplete Future.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolved returns an already completed Future.
func Resolved[T any](value T, err error) *Future[T] {
	f := NewFuture[T]()
	f.Complete(value, err)
	return f
}

// Go runs fn on a new goroutine and completes the Future with its result.
func Go[T any](fn func() (T, error)) *Future[T] {
	f := NewFuture[T]()
	go func() {
		f.Complete(fn())
	}()
	return f
}

// Complete records the outcome. Calls after the first are ignored.
func (f *Future[T]) Complete(value T, err error) {
	f.once.Do(func() {
		f.value = value
		f.err = err
		close(f.done)
	})
}

// Done is closed once the Future completes.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until completion.
func (f *Future[T]) Wait() (T, error) {
	<-f.done
	return f.value, f.err
}

// Await blocks until completion or until ctx is done, whichever is first.
// Giving up on ctx does not stop the underlying operation.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Then returns a Future completed with fn applied to f's outcome.
func Then[T, U any](f *Future[T], fn func(T, error) (U, error)) *Future[U] {
	select {
	case <-f.done:
		return Resolved(fn(f.value, f.err))
	default:
	}
	return Go(func() (U, error) {
		return fn(f.Wait())
	})
}
