package scheduler

import (
	"context"
	"math/rand/v2"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kubev2v/jobgraph/internal/models"
	srvErrors "github.com/kubev2v/jobgraph/pkg/errors"
	"github.com/kubev2v/jobgraph/pkg/syncutil"
)

type submitOutcome int

const (
	submitAccepted submitOutcome = iota
	submitDiscarded
	submitNoWorkers
)

type Option func(*WorkerPool)

// WithSeed makes submit and steal target selection deterministic.
func WithSeed(seed uint64) Option {
	return func(wp *WorkerPool) {
		wp.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WorkerPool is the scheduler: it owns the workers, the main-thread queue and
// the job allocator, routes submitted jobs and detects quiescence.
//
// Workers are added with AddWorker before StartWorkers. Close is the only
// way to shut the pool down and must not be called from inside a job.
type WorkerPool struct {
	id uuid.UUID

	workers        []*Worker
	inline         *Worker
	mainThreadJobs *JobPool

	// Every operation that can create or take runnable jobs holds a read
	// lock on inFlight for its whole duration. The quiescence check and
	// Close take the write lock.
	inFlight syncutil.CountedRWMutex

	arena *jobArena

	rngMu sync.Mutex
	rng   *rand.Rand

	started      atomic.Bool
	shuttingDown atomic.Bool
	closeOnce    sync.Once
	group        errgroup.Group

	errMu sync.Mutex
	errs  *multierror.Error

	mainCtx    context.Context
	mainCancel context.CancelFunc

	submitted *xsync.Counter
	executed  *xsync.Counter
	stolen    *xsync.Counter
	discarded *xsync.Counter
}

func NewWorkerPool(opts ...Option) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())
	wp := &WorkerPool{
		id:         uuid.New(),
		arena:      newJobArena(),
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		mainCtx:    ctx,
		mainCancel: cancel,
		submitted:  xsync.NewCounter(),
		executed:   xsync.NewCounter(),
		stolen:     xsync.NewCounter(),
		discarded:  xsync.NewCounter(),
	}
	wp.mainThreadJobs = NewJobPool(func(bool) {
		if wp.inline != nil {
			wp.inline.wake.Notify()
		}
	})
	for _, opt := range opts {
		opt(wp)
	}
	return wp
}

func (wp *WorkerPool) ID() string {
	return wp.id.String()
}

// AddWorker registers a worker. Exactly one worker may be inline
// (background false); it is driven by calling its RunLoop.
func (wp *WorkerPool) AddWorker(background bool) *Worker {
	srvErrors.Assert(!wp.started.Load(), "WorkerPool", "AddWorker", "workers must be added before the pool is started")
	srvErrors.Assert(background || wp.inline == nil, "WorkerPool", "AddWorker", "a pool has at most one inline worker")

	w := newWorker(wp, len(wp.workers), background)
	wp.workers = append(wp.workers, w)
	if !background {
		wp.inline = w
	}
	return w
}

// Workers returns the registered workers in the order they were added.
func (wp *WorkerPool) Workers() []*Worker {
	return wp.workers
}

// InlineWorker returns the inline worker, or nil if none was added.
func (wp *WorkerPool) InlineWorker() *Worker {
	return wp.inline
}

// StartWorkers launches the loop of every background worker. It does nothing
// once the pool is shutting down or already started.
func (wp *WorkerPool) StartWorkers() {
	if wp.shuttingDown.Load() || !wp.started.CompareAndSwap(false, true) {
		return
	}

	for _, w := range wp.workers {
		if !w.background {
			continue
		}
		wp.group.Go(func() error {
			err := w.RunLoop()
			if err != nil {
				wp.recordError(err)
			}
			return err
		})
	}
	zap.S().Named("scheduler").Infow("worker pool started", "pool", wp.ID(), "workers", len(wp.workers))
}

// GetJob returns a configured job that is not submitted yet. dependentsHint
// sizes the dependents list.
func (wp *WorkerPool) GetJob(payload Payload, dependentsHint int, mainThreadOnly bool) *Job {
	job := wp.arena.get()
	job.configure(payload, dependentsHint, mainThreadOnly)
	return job
}

// ReturnJob recycles a job that is no longer referenced by any pool.
func (wp *WorkerPool) ReturnJob(job *Job) {
	srvErrors.Assert(job.owner.Load() == nil, "WorkerPool", "ReturnJob", "job is still owned by a pool")
	wp.arena.put(job)
}

// Submit routes job to the main-thread queue or to a randomly picked worker.
// While the pool shuts down jobs are dropped and Submit still reports
// success. It returns false only when no live worker can take the job.
func (wp *WorkerPool) Submit(job *Job) bool {
	return wp.submit(job) != submitNoWorkers
}

func (wp *WorkerPool) submit(job *Job) submitOutcome {
	srvErrors.Assert(job != nil, "WorkerPool", "Submit", "job must not be nil")
	srvErrors.Assert(job.submitted.CompareAndSwap(false, true), "WorkerPool", "Submit", "a job can only be submitted once")

	if !wp.acquireInFlight() {
		wp.discarded.Inc()
		job.discard()
		return submitDiscarded
	}
	defer wp.releaseInFlight()

	if job.mainThreadOnly {
		if wp.inline == nil || !wp.inline.live() {
			return submitNoWorkers
		}
		wp.submitted.Inc()
		wp.mainThreadJobs.Submit(job)
		return submitAccepted
	}

	n := len(wp.workers)
	if n == 0 {
		return submitNoWorkers
	}
	start := wp.randomIndex(n)
	for i := range n {
		w := wp.workers[(start+i)%n]
		if !w.live() {
			continue
		}
		wp.submitted.Inc()
		w.jobs.Submit(job)
		w.wake.Notify()
		return submitAccepted
	}
	return submitNoWorkers
}

// TryPullingJob takes one runnable job: from the main-thread queue first when
// inline is true, then from a random worker that has runnable jobs. The pool
// counts the caller as in flight until release is called. A pulled job is
// out of every pool, so it has to be run with Worker.RunPulled; releasing it
// without running it leaves its dependents blocked forever.
func (wp *WorkerPool) TryPullingJob(inline bool) (job *Job, release func()) {
	job = wp.tryPull(inline, nil)
	if job == nil {
		return nil, nil
	}

	var once sync.Once
	return job, func() { once.Do(wp.releaseInFlight) }
}

// tryPull acquires an in-flight marker and pulls a job under it. The marker
// is kept only when a job is returned.
func (wp *WorkerPool) tryPull(inline bool, own *Worker) *Job {
	if !wp.acquireInFlight() {
		return nil
	}
	if job := wp.pull(inline, own); job != nil {
		return job
	}
	wp.releaseInFlight()
	return nil
}

// pull takes one runnable job for a caller holding an in-flight marker: the
// main-thread queue when inline, then own's pool, then a random worker's
// pool. own is nil for callers outside the worker loop.
func (wp *WorkerPool) pull(inline bool, own *Worker) *Job {
	if inline {
		if job := wp.mainThreadJobs.Pull(); job != nil {
			return job
		}
	}

	if own != nil {
		own.state.Store(models.WorkerStateDraining)
		if job := own.jobs.Pull(); job != nil {
			return job
		}
		own.state.Store(models.WorkerStateStealing)
	}

	job := wp.steal()
	if job == nil {
		return nil
	}
	wp.stolen.Inc()
	if own != nil {
		own.stolen.Add(1)
	}
	return job
}

// steal pulls a runnable job from a random worker. Workers whose loop already
// ended are still scanned so their jobs are not stranded.
func (wp *WorkerPool) steal() *Job {
	n := len(wp.workers)
	if n == 0 || wp.shuttingDown.Load() {
		return nil
	}
	start := wp.randomIndex(n)
	for i := range n {
		w := wp.workers[(start+i)%n]
		if w.removed.Load() || w.jobs.HasNoRunnable() {
			continue
		}
		if job := w.jobs.Pull(); job != nil {
			return job
		}
	}
	return nil
}

// NoJobsAnywhere reports whether the pool is quiescent: nothing in flight and
// no runnable job in any pool. The in-flight lock is held exclusively for the
// whole check so no submission or steal can interleave with it.
func (wp *WorkerPool) NoJobsAnywhere() bool {
	if !wp.inFlight.TryLock() {
		return false
	}
	defer wp.inFlight.Unlock()

	if !wp.mainThreadJobs.HasNoRunnable() {
		return false
	}
	for _, w := range wp.workers {
		if !w.jobs.HasNoRunnable() {
			return false
		}
	}
	return true
}

// WakeWorkers signals n randomly chosen live workers.
func (wp *WorkerPool) WakeWorkers(n int) {
	count := len(wp.workers)
	if count == 0 {
		return
	}
	for range n {
		start := wp.randomIndex(count)
		for i := range count {
			w := wp.workers[(start+i)%count]
			if w.live() {
				w.wake.Notify()
				break
			}
		}
	}
}

// InFlight returns the number of operations currently holding the pool.
func (wp *WorkerPool) InFlight() int {
	return wp.inFlight.SharedCount()
}

func (wp *WorkerPool) ShuttingDown() bool {
	return wp.shuttingDown.Load()
}

// Close stops every worker, waits for in-flight operations to drain and for
// the background goroutines to exit. It returns the payload errors that
// stopped background workers. Calling Close more than once is safe.
func (wp *WorkerPool) Close() error {
	wp.closeOnce.Do(func() {
		log := zap.S().Named("scheduler")
		log.Debugw("closing worker pool", "pool", wp.ID())

		wp.shuttingDown.Store(true)
		wp.mainCancel()
		for _, w := range wp.workers {
			w.RequestInactivity()
			w.wake.Reset()
			w.wake.Notify()
		}

		wp.inFlight.Lock()
		for _, w := range wp.workers {
			w.removed.Store(true)
		}
		wp.inFlight.Unlock()

		_ = wp.group.Wait()
		log.Infow("worker pool closed", "pool", wp.ID(), "executed", wp.executed.Value(), "discarded", wp.discarded.Value())
	})

	wp.errMu.Lock()
	defer wp.errMu.Unlock()
	return wp.errs.ErrorOrNil()
}

// Stats returns a point-in-time view of the pool.
func (wp *WorkerPool) Stats() models.PoolStats {
	as := wp.arena.stats()
	stats := models.PoolStats{
		ID:                 wp.ID(),
		ShuttingDown:       wp.shuttingDown.Load(),
		InFlight:           wp.InFlight(),
		MainThreadRunnable: wp.mainThreadJobs.RunnableCount(),
		MainThreadBlocked:  wp.mainThreadJobs.BlockedCount(),
		Submitted:          wp.submitted.Value(),
		Executed:           wp.executed.Value(),
		Stolen:             wp.stolen.Value(),
		Discarded:          wp.discarded.Value(),
		ArenaSlots:         as.slots,
		ArenaFree:          as.free,
		ArenaReused:        as.reused,
		ArenaWaiters:       as.waiters,
		Workers:            make([]models.WorkerStats, 0, len(wp.workers)),
	}
	for _, w := range wp.workers {
		stats.Workers = append(stats.Workers, models.WorkerStats{
			Index:      w.index,
			Background: w.background,
			State:      w.State(),
			Live:       w.live(),
			Runnable:   w.jobs.RunnableCount(),
			Blocked:    w.jobs.BlockedCount(),
			Executed:   w.executed.Load(),
			Stolen:     w.stolen.Load(),
		})
	}
	return stats
}

// acquireInFlight takes a read hold on the in-flight lock. It fails once the
// pool is shutting down. The write lock is only held briefly by the
// quiescence check outside of Close, so contention is waited out.
func (wp *WorkerPool) acquireInFlight() bool {
	for {
		if wp.shuttingDown.Load() {
			return false
		}
		if wp.inFlight.TryRLock() {
			if wp.shuttingDown.Load() {
				wp.releaseInFlight()
				return false
			}
			return true
		}
		runtime.Gosched()
	}
}

// releaseInFlight drops a read hold. The last holder wakes the inline worker
// so it can check for quiescence.
func (wp *WorkerPool) releaseInFlight() {
	if wp.inFlight.RUnlock() == 0 && wp.inline != nil {
		wp.inline.wake.Notify()
	}
}

func (wp *WorkerPool) randomIndex(n int) int {
	wp.rngMu.Lock()
	defer wp.rngMu.Unlock()
	return wp.rng.IntN(n)
}

func (wp *WorkerPool) recordError(err error) {
	wp.errMu.Lock()
	defer wp.errMu.Unlock()
	wp.errs = multierror.Append(wp.errs, err)
}
