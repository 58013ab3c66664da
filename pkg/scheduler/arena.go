package scheduler

import (
	srvErrors "github.com/kubev2v/jobgraph/pkg/errors"
	"github.com/kubev2v/jobgraph/pkg/syncutil"
)

// jobArena hands out Job records by slot and keeps retired slots on a free
// list. A slot is only ever reused after its job was returned, and the
// generation bump done on return lets run detect references that outlived
// the job they pointed at.
type jobArena struct {
	// waiters on mu are reported as allocator contention
	mu     syncutil.CountedMutex
	slots  []*Job
	free   []int32
	reused uint64
}

func newJobArena() *jobArena {
	return &jobArena{}
}

func (a *jobArena) get() *Job {
	a.mu.Lock()
	defer a.mu.Unlock()

	if n := len(a.free); n > 0 {
		slot := a.free[n-1]
		a.free = a.free[:n-1]
		a.reused++
		job := a.slots[slot]
		job.freed = false
		return job
	}

	job := newJob(int32(len(a.slots)))
	a.slots = append(a.slots, job)
	return job
}

func (a *jobArena) put(job *Job) {
	a.mu.Lock()
	defer a.mu.Unlock()

	srvErrors.Assert(int(job.slot) < len(a.slots) && a.slots[job.slot] == job, "WorkerPool", "ReturnJob", "job does not belong to this pool")
	srvErrors.Assert(!job.freed, "WorkerPool", "ReturnJob", "job returned twice")

	job.recycle()
	job.freed = true
	a.free = append(a.free, job.slot)
}

type arenaStats struct {
	slots   int
	free    int
	reused  uint64
	waiters int
}

func (a *jobArena) stats() arenaStats {
	waiters := a.mu.LockersLeft()
	a.mu.Lock()
	defer a.mu.Unlock()
	return arenaStats{slots: len(a.slots), free: len(a.free), reused: a.reused, waiters: waiters}
}
