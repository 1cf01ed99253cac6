package analyzer

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// callWithTimeout runs fn against a deadline. If the deadline wins, fn's context is
// cancelled and ErrRemoteTimeout is returned; fn's late result is dropped.
func callWithTimeout[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1) // buffered so an abandoned call never blocks

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("remote call panicked: %v", r)}
			}
		}()
		v, err := fn(ctx)
		done <- result{value: v, err: err}
	}()

	var zero T
	select {
	case r := <-done:
		if r.err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, fmt.Errorf("%w after %s", ErrRemoteTimeout, timeout)
		}
		return r.value, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, fmt.Errorf("%w after %s", ErrRemoteTimeout, timeout)
		}
		return zero, ctx.Err()
	}
}
