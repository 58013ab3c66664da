package scheduler

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"

	srvErrors "github.com/kubev2v/jobgraph/pkg/errors"
	"github.com/kubev2v/jobgraph/pkg/syncutil"
)

// jobRef is a non-owning reference to a dependent job. gen is the generation
// the job had when the edge was added; a mismatch means the job was recycled
// while something still depended on it.
type jobRef struct {
	job *Job
	gen uint32
}

// Job is one node of the job graph. Get jobs from WorkerPool.GetJob or
// WorkerPool.NewJob, never allocate them directly.
//
// pending and owner are the only fields touched by other goroutines once the
// job is submitted. They sit on their own cache lines.
type Job struct {
	pending atomic.Int32
	_       cpu.CacheLinePad

	owner     atomic.Pointer[JobPool]
	placed    atomic.Bool
	discarded atomic.Bool
	ownerSet  *syncutil.Signal
	_         cpu.CacheLinePad

	payload        Payload
	dependents     []jobRef
	mainThreadOnly bool
	submitted      atomic.Bool

	slot  int32
	gen   atomic.Uint32
	freed bool
}

func newJob(slot int32) *Job {
	return &Job{
		slot:     slot,
		ownerSet: syncutil.NewSignal(),
	}
}

func (j *Job) configure(payload Payload, dependentsHint int, mainThreadOnly bool) {
	j.payload = payload
	j.mainThreadOnly = mainThreadOnly
	if cap(j.dependents) < dependentsHint {
		j.dependents = make([]jobRef, 0, dependentsHint)
	}
}

// recycle clears the job for reuse and bumps its generation so stale
// references to it can be detected.
func (j *Job) recycle() {
	j.payload = nil
	clear(j.dependents)
	j.dependents = j.dependents[:0]
	j.mainThreadOnly = false
	j.pending.Store(0)
	j.owner.Store(nil)
	j.placed.Store(false)
	j.discarded.Store(false)
	j.submitted.Store(false)
	j.ownerSet.Reset()
	j.gen.Add(1)
}

// DependsOn makes j wait for other to complete.
func (j *Job) DependsOn(other *Job) {
	if other == nil {
		return
	}
	other.DependsOnMe(j)
}

// DependsOnMe makes other wait for j to complete. j must not have been
// submitted yet. other may already be submitted only while it still has
// pending dependencies that cannot complete before this call returns, which
// is the case for the dependents of the job currently running.
func (j *Job) DependsOnMe(other *Job) {
	if other == nil {
		return
	}
	srvErrors.Assert(other != j, "Job", "DependsOnMe", "a job cannot depend on itself")
	srvErrors.Assert(!j.submitted.Load(), "Job", "DependsOnMe", "edges must be added before the prerequisite is submitted")
	srvErrors.Assert(!other.submitted.Load() || other.pending.Load() > 0, "Job", "DependsOnMe", "a submitted dependent must still have pending dependencies")

	other.pending.Add(1)
	j.dependents = append(j.dependents, jobRef{job: other, gen: other.gen.Load()})
}

// CopyDependents adds every dependent of other as a dependent of j. It is
// used from inside other's payload to chain a freshly built continuation into
// the fan-in other was part of.
func (j *Job) CopyDependents(other *Job) {
	for _, ref := range other.dependents {
		j.DependsOnMe(ref.job)
	}
}

// PendingDependencies returns the number of prerequisites that have not
// completed yet.
func (j *Job) PendingDependencies() int {
	return int(j.pending.Load())
}

// DependentCount returns the number of jobs waiting on j.
func (j *Job) DependentCount() int {
	return len(j.dependents)
}

func (j *Job) MainThreadOnly() bool {
	return j.mainThreadOnly
}

// Runnable reports whether every prerequisite of j has completed.
func (j *Job) Runnable() bool {
	return j.pending.Load() == 0
}

// Owned reports whether j currently sits in a JobPool.
func (j *Job) Owned() bool {
	return j.owner.Load() != nil
}

func (j *Job) setOwner(p *JobPool) {
	j.owner.Store(p)
	if p != nil && j.placed.CompareAndSwap(false, true) {
		j.ownerSet.Notify()
	}
}

// discard marks a job dropped by a shutting down pool and releases anyone
// waiting for it to get an owner.
func (j *Job) discard() {
	j.discarded.Store(true)
	j.ownerSet.Notify()
}

// run executes the payload and releases the dependents. It returns one
// dependent freed by this completion, already detached from its pool, for the
// caller to run next. Other freed dependents are made runnable in their pools.
func (j *Job) run(wp *WorkerPool, worker int) (*Job, error) {
	srvErrors.Assert(j.pending.Load() == 0, "Job", "run", "jobs must not run while they have pending dependencies")
	srvErrors.Assert(j.owner.Load() == nil, "Job", "run", "jobs must be pulled from their pool before running")

	if j.payload != nil {
		if err := j.payload(wp, worker, j); err != nil {
			return nil, err
		}
	}

	var next *Job
	for _, ref := range j.dependents {
		dep := ref.job
		srvErrors.Assert(dep.gen.Load() == ref.gen, "Job", "run", "dependent was recycled before its prerequisites completed")

		left := dep.pending.Add(-1)
		srvErrors.Assert(left >= 0, "Job", "run", "dependency counter went negative")
		if left > 0 {
			continue
		}

		// The dependent may still be on its way into a pool.
		var c syncutil.Cursor
		dep.ownerSet.WaitUntil(&c, func() bool {
			return dep.placed.Load() || dep.discarded.Load() || dep.gen.Load() != ref.gen
		})

		// A dependent submitted after its counter reached zero went straight
		// to runnable and is not ours to move.
		owner := dep.owner.Load()
		if owner == nil || dep.gen.Load() != ref.gen {
			continue
		}
		if !owner.tryExtractBlocked(dep) {
			continue
		}
		if next == nil {
			next = dep
			continue
		}
		owner.Submit(dep)
	}

	return next, nil
}
