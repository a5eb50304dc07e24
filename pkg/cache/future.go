package cache

import "context"

// Future is the shared result of a single producer run. Every caller that
// attaches to it observes the same value or error.
type Future[V any] struct {
	done  chan struct{}
	value V
	err   error
}

func newFuture[V any]() *Future[V] {
	return &Future[V]{done: make(chan struct{})}
}

// Resolved returns an already settled future.
func Resolved[V any](value V) *Future[V] {
	f := newFuture[V]()
	f.value = value
	close(f.done)
	return f
}

func (f *Future[V]) Done() <-chan struct{} {
	return f.done
}

func (f *Future[V]) Settled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the future settles or ctx ends. Giving up on the wait
// does not cancel the producer.
func (f *Future[V]) Wait(ctx context.Context) (V, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}
