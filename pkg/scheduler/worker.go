package scheduler

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/kubev2v/jobgraph/internal/models"
	srvErrors "github.com/kubev2v/jobgraph/pkg/errors"
	"github.com/kubev2v/jobgraph/pkg/syncutil"
)

// Worker owns a job pool and runs the loop that executes jobs: its own pool
// first, then jobs stolen from the other workers, then sleep until woken.
// Background workers run the loop on their own goroutine once the pool is
// started. The single inline worker runs it on whichever goroutine calls
// RunLoop and is the only one that executes main-thread-only jobs.
type Worker struct {
	index      int
	pool       *WorkerPool
	jobs       *JobPool
	background bool

	running atomic.Bool
	removed atomic.Bool
	state   atomic.Value

	wake   *syncutil.Signal
	cursor syncutil.Cursor

	executed atomic.Uint64
	stolen   atomic.Uint64
}

func newWorker(wp *WorkerPool, index int, background bool) *Worker {
	w := &Worker{
		index:      index,
		pool:       wp,
		background: background,
		wake:       syncutil.NewSignal(),
	}
	w.jobs = NewJobPool(func(hadWork bool) {
		if hadWork {
			wp.WakeWorkers(1)
		}
	})
	w.running.Store(true)
	w.state.Store(models.WorkerStateCreated)
	return w
}

func (w *Worker) Index() int { return w.index }

func (w *Worker) IsBackground() bool { return w.background }

func (w *Worker) State() models.WorkerState {
	return w.state.Load().(models.WorkerState)
}

func (w *Worker) JobPoolEmpty() bool {
	return w.jobs.IsEmpty()
}

func (w *Worker) JobPoolNoRunnableJobs() bool {
	return w.jobs.HasNoRunnable()
}

// RequestInactivity asks the loop to stop at its next iteration boundary. A
// payload that is running is not interrupted.
func (w *Worker) RequestInactivity() {
	w.running.Store(false)
	w.wake.Notify()
}

// live reports whether the worker still accepts new submissions.
func (w *Worker) live() bool {
	return w.running.Load() && !w.removed.Load()
}

// RunLoop executes jobs until inactivity is requested or, for the inline
// worker, until there is no job left anywhere in the pool. A payload error
// ends the loop and is returned wrapped in a PayloadError.
func (w *Worker) RunLoop() error {
	log := zap.S().Named("scheduler")
	log.Debugw("worker loop started", "worker", w.index, "background", w.background)
	defer func() {
		w.state.Store(models.WorkerStateTerminated)
		log.Debugw("worker loop exited", "worker", w.index, "executed", w.executed.Load(), "stolen", w.stolen.Load())
	}()

	// next is only non-nil while the worker holds an in-flight marker.
	next := w.idle()
	for next != nil {
		var err error
		next, err = w.execute(next)
		if err != nil {
			w.running.Store(false)
			w.pool.releaseInFlight()
			log.Errorw("worker stopped by job failure", "worker", w.index, "error", err)
			return err
		}

		if !w.running.Load() {
			w.pool.releaseInFlight()
			return nil
		}

		if next == nil {
			next = w.findWork()
		}
		if next == nil {
			w.pool.releaseInFlight()
			next = w.idle()
		}
	}

	return nil
}

// RunPulled runs a job returned by TryPullingJob on the calling goroutine as
// w, followed by the dependents it frees directly, then calls release. A
// payload error stops w like it would stop its loop.
func (w *Worker) RunPulled(job *Job, release func()) error {
	defer release()

	for job != nil {
		var err error
		job, err = w.execute(job)
		if err != nil {
			w.running.Store(false)
			zap.S().Named("scheduler").Errorw("worker stopped by job failure", "worker", w.index, "error", err)
			return err
		}
	}
	return nil
}

func (w *Worker) execute(job *Job) (*Job, error) {
	if job.mainThreadOnly && w.background {
		w.pool.mainThreadJobs.Submit(job)
		return nil, nil
	}

	w.state.Store(models.WorkerStateExecuting)
	next, err := job.run(w.pool, w.index)
	w.executed.Add(1)
	w.pool.executed.Inc()
	w.pool.ReturnJob(job)
	if err != nil {
		return nil, srvErrors.NewPayloadError(w.index, err)
	}
	return next, nil
}

// findWork looks for a runnable job in the main-thread queue (inline worker
// only), then in the worker's own pool, then in the other workers' pools.
// The caller must hold an in-flight marker.
func (w *Worker) findWork() *Job {
	return w.pool.pull(!w.background, w)
}

// idle blocks until a job is found, returning it with an in-flight marker
// held. It returns nil when the worker has to stop.
func (w *Worker) idle() *Job {
	for {
		if !w.running.Load() || w.pool.ShuttingDown() {
			return nil
		}
		if job := w.pool.tryPull(!w.background, w); job != nil {
			return job
		}

		if !w.background && w.pool.NoJobsAnywhere() {
			return nil
		}

		w.state.Store(models.WorkerStateIdle)
		w.wake.Wait(&w.cursor)
	}
}
