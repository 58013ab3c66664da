package scheduler

import (
	srvErrors "github.com/kubev2v/jobgraph/pkg/errors"
)

// JobBuilder wires a job before handing it to the pool. A builder submits
// its job once; edges can no longer be added through it afterwards.
//
//	load := wp.NewJob(loadFile)
//	wp.NewJob(compile).After(load.Job()).Submit()
//	load.Submit()
type JobBuilder struct {
	wp   *WorkerPool
	job  *Job
	done bool
}

// NewJob allocates a job running payload and returns its builder.
func (wp *WorkerPool) NewJob(payload Payload) *JobBuilder {
	return &JobBuilder{wp: wp, job: wp.GetJob(payload, 0, false)}
}

// MainThreadOnly restricts the job to the inline worker.
func (b *JobBuilder) MainThreadOnly() *JobBuilder {
	b.check("MainThreadOnly")
	b.job.mainThreadOnly = true
	return b
}

// After makes the job wait for every job in prereqs. The prerequisites must
// not be submitted yet.
func (b *JobBuilder) After(prereqs ...*Job) *JobBuilder {
	b.check("After")
	for _, p := range prereqs {
		b.job.DependsOn(p)
	}
	return b
}

// Before makes every job in deps wait for this one.
func (b *JobBuilder) Before(deps ...*Job) *JobBuilder {
	b.check("Before")
	for _, d := range deps {
		b.job.DependsOnMe(d)
	}
	return b
}

// Continues gives the job the same dependents as running, so that whatever
// waited on running also waits on this job. Call it from running's payload.
func (b *JobBuilder) Continues(running *Job) *JobBuilder {
	b.check("Continues")
	b.job.CopyDependents(running)
	return b
}

// Job returns the job under construction so other builders can reference it.
func (b *JobBuilder) Job() *Job {
	return b.job
}

// Submit hands the job to the pool. See WorkerPool.Submit.
func (b *JobBuilder) Submit() bool {
	b.check("Submit")
	b.done = true
	return b.wp.Submit(b.job)
}

func (b *JobBuilder) check(op string) {
	srvErrors.Assert(!b.done, "JobBuilder", op, "a builder cannot be used after Submit")
}
