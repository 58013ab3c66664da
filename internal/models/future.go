package models

import (
	"context"
)

// Result is what a future resolves to.
type Result[T any] struct {
	Data T
	Err  error
}

// Future is the receiving end of a job that delivers exactly one value.
type Future[T any] struct {
	c    <-chan T
	stop context.CancelFunc
}

// NewFuture wraps c, which must receive exactly one value. stop is called by
// Stop.
func NewFuture[T any](c <-chan T, stop context.CancelFunc) *Future[T] {
	return &Future[T]{c: c, stop: stop}
}

// ResolvedFuture returns a future that already holds v. Stop is a no-op.
func ResolvedFuture[T any](v T) *Future[T] {
	c := make(chan T, 1)
	c <- v
	return NewFuture(c, func() {})
}

func (f *Future[T]) C() <-chan T {
	return f.c
}

// Stop cancels the context of the job behind the future. The job still
// delivers its value.
func (f *Future[T]) Stop() {
	f.stop()
}
