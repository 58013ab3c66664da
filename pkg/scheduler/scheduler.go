package scheduler

import (
	"context"
	"fmt"

	"github.com/kubev2v/jobgraph/internal/models"
	srvErrors "github.com/kubev2v/jobgraph/pkg/errors"
)

// NewScheduler returns a started pool with nbWorkers background workers and
// no inline worker. It is meant for AddWork style usage where nothing has to
// run on the caller's goroutine.
func NewScheduler(nbWorkers int, opts ...Option) *WorkerPool {
	wp := NewWorkerPool(opts...)
	for range nbWorkers {
		wp.AddWorker(true)
	}
	wp.StartWorkers()
	return wp
}

// AddWork runs w as an independent job, one with no edges, and returns a
// future for its result. The job's context is derived from the pool: Stop on
// the future cancels it, and so does Close. Either way the job still runs to
// completion and resolves the future, typically with the context error.
//
// A pool that is closing resolves the future with context.Canceled without
// running w. A pool without live workers resolves it with a NoWorkersError.
func (wp *WorkerPool) AddWork(w Work[any]) *models.Future[models.Result[any]] {
	if wp.mainCtx.Err() != nil {
		return models.ResolvedFuture(models.Result[any]{Err: context.Canceled})
	}

	c := make(chan models.Result[any], 1)
	ctx, cancel := context.WithCancel(wp.mainCtx)

	job := wp.GetJob(workPayload(ctx, w, c), 0, false)
	switch wp.submit(job) {
	case submitDiscarded:
		cancel()
		return models.ResolvedFuture(models.Result[any]{Err: context.Canceled})
	case submitNoWorkers:
		cancel()
		wp.ReturnJob(job)
		return models.ResolvedFuture(models.Result[any]{Err: srvErrors.NewNoWorkersError()})
	}

	return models.NewFuture(c, cancel)
}

func workPayload(ctx context.Context, w Work[any], c chan models.Result[any]) Payload {
	return func(_ *WorkerPool, _ int, _ *Job) error {
		defer func() {
			if rec := recover(); rec != nil {
				c <- models.Result[any]{Err: fmt.Errorf("worker panicked: %v", rec)}
			}
		}()

		v, err := w(ctx)
		c <- models.Result[any]{Data: v, Err: err}
		return nil
	}
}
