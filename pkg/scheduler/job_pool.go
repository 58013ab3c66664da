package scheduler

import (
	srvErrors "github.com/kubev2v/jobgraph/pkg/errors"
	"github.com/kubev2v/jobgraph/pkg/syncutil"
)

type stack[T any] []T

func (s *stack[T]) Len() int { return len(*s) }

func (s *stack[T]) Push(t T) {
	*s = append(*s, t)
}

func (s *stack[T]) Pop() T {
	old := *s
	n := len(old) - 1
	x := old[n]
	var zero T
	old[n] = zero
	*s = old[:n]
	return x
}

// JobPool stores the jobs of one worker (or the main-thread queue), split
// into runnable jobs and jobs still waiting on dependencies. Runnable jobs
// are pulled most recent first.
type JobPool struct {
	runnableMu syncutil.CountedRWMutex
	runnable   stack[*Job]

	blockedMu syncutil.CountedRWMutex
	blocked   map[*Job]struct{}

	// onRunnable is called after a job was made runnable. hadWork tells
	// whether the pool already had runnable jobs before it.
	onRunnable func(hadWork bool)
}

func NewJobPool(onRunnable func(hadWork bool)) *JobPool {
	if onRunnable == nil {
		onRunnable = func(bool) {}
	}
	return &JobPool{
		blocked:    make(map[*Job]struct{}),
		onRunnable: onRunnable,
	}
}

// Submit stores job in the pool and makes the pool its owner.
func (p *JobPool) Submit(job *Job) {
	srvErrors.Assert(job.owner.Load() == nil, "JobPool", "Submit", "a job can only be owned by one pool at a time")

	if job.Runnable() {
		p.runnableMu.Lock()
		hadWork := p.runnable.Len() > 0
		p.runnable.Push(job)
		job.setOwner(p)
		p.runnableMu.Unlock()

		p.onRunnable(hadWork)
		return
	}

	p.blockedMu.Lock()
	p.blocked[job] = struct{}{}
	job.setOwner(p)
	p.blockedMu.Unlock()
}

// Pull removes the most recently added runnable job. It returns nil when
// there is none.
func (p *JobPool) Pull() *Job {
	p.runnableMu.Lock()
	defer p.runnableMu.Unlock()

	if p.runnable.Len() == 0 {
		return nil
	}
	job := p.runnable.Pop()
	job.setOwner(nil)
	return job
}

// Promote moves a blocked job whose dependencies all completed to the
// runnable collection.
func (p *JobPool) Promote(job *Job) {
	srvErrors.Assert(job.Runnable(), "JobPool", "Promote", "only runnable jobs can be promoted")
	p.Submit(p.ExtractBlocked(job))
}

// ExtractBlocked removes job from the blocked collection and clears its
// owner, handing it to the caller.
func (p *JobPool) ExtractBlocked(job *Job) *Job {
	srvErrors.Assert(p.tryExtractBlocked(job), "JobPool", "ExtractBlocked", "job is not in this pool's blocked collection")
	return job
}

func (p *JobPool) tryExtractBlocked(job *Job) bool {
	p.blockedMu.Lock()
	defer p.blockedMu.Unlock()

	if _, ok := p.blocked[job]; !ok {
		return false
	}
	delete(p.blocked, job)
	job.setOwner(nil)
	return true
}

func (p *JobPool) IsEmpty() bool {
	p.runnableMu.RLock()
	defer p.runnableMu.RUnlock()
	p.blockedMu.RLock()
	defer p.blockedMu.RUnlock()

	return p.runnable.Len() == 0 && len(p.blocked) == 0
}

func (p *JobPool) HasNoRunnable() bool {
	return p.RunnableCount() == 0
}

func (p *JobPool) RunnableCount() int {
	p.runnableMu.RLock()
	defer p.runnableMu.RUnlock()
	return p.runnable.Len()
}

func (p *JobPool) BlockedCount() int {
	p.blockedMu.RLock()
	defer p.blockedMu.RUnlock()
	return len(p.blocked)
}
