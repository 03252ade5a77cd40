package executor

import (
	"context"
	"sync"
)

// Outcome is a single-shot promise: exactly one of (value, error) is ever
// delivered, after which it never changes. Wait may be called any number
// of times from any goroutine.
type Outcome[T any] struct {
	done  chan struct{}
	once  sync.Once
	value T
	err   error
}

func newOutcome[T any]() *Outcome[T] {
	return &Outcome[T]{done: make(chan struct{})}
}

func (o *Outcome[T]) resolve(value T, err error) {
	o.once.Do(func() {
		o.value = value
		o.err = err
		close(o.done)
	})
}

// Done is closed once the outcome has been delivered.
func (o *Outcome[T]) Done() <-chan struct{} {
	return o.done
}

// Wait blocks until the outcome is delivered or ctx ends. A ctx failure
// while waiting reports as a NetworkError; the pipeline keeps running and
// later Wait calls can still observe its result.
func (o *Outcome[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-o.done:
		return o.value, o.err
	case <-ctx.Done():
		var zero T
		return zero, &NetworkError{Cause: ctx.Err()}
	}
}
