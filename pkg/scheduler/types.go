package scheduler

import (
	"context"
)

// Payload is the body of a job. It receives the pool it runs on, the index of
// the worker running it and the job itself, so that it can spawn and wire
// further jobs. A non-nil error ends the loop of the worker that ran it.
type Payload func(wp *WorkerPool, worker int, self *Job) error

// Work is a unit of work run through AddWork.
type Work[T any] func(ctx context.Context) (T, error)
