package scheduler

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	srvErrors "github.com/kubev2v/jobgraph/pkg/errors"
)

var _ = Describe("JobPool", func() {
	var (
		wp    *WorkerPool
		pool  *JobPool
		hooks []bool
	)

	BeforeEach(func() {
		wp = NewWorkerPool()
		hooks = nil
		pool = NewJobPool(func(hadWork bool) {
			hooks = append(hooks, hadWork)
		})
	})

	violation := PanicWith(BeAssignableToTypeOf(&srvErrors.ContractViolationError{}))

	It("should store runnable jobs and pull them most recent first", func() {
		a := wp.GetJob(nil, 0, false)
		b := wp.GetJob(nil, 0, false)
		c := wp.GetJob(nil, 0, false)

		pool.Submit(a)
		pool.Submit(b)
		pool.Submit(c)
		Expect(pool.RunnableCount()).To(Equal(3))
		Expect(a.Owned()).To(BeTrue())
		Expect(hooks).To(Equal([]bool{false, true, true}))

		Expect(pool.Pull()).To(BeIdenticalTo(c))
		Expect(pool.Pull()).To(BeIdenticalTo(b))
		Expect(pool.Pull()).To(BeIdenticalTo(a))
		Expect(pool.Pull()).To(BeNil())
		Expect(a.Owned()).To(BeFalse())
		Expect(pool.IsEmpty()).To(BeTrue())
	})

	It("should keep jobs with pending dependencies blocked", func() {
		prereq := wp.GetJob(nil, 1, false)
		dep := wp.GetJob(nil, 0, false)
		dep.DependsOn(prereq)

		pool.Submit(dep)
		Expect(pool.BlockedCount()).To(Equal(1))
		Expect(pool.HasNoRunnable()).To(BeTrue())
		Expect(pool.IsEmpty()).To(BeFalse())
		Expect(pool.Pull()).To(BeNil())
		Expect(hooks).To(BeEmpty())
	})

	It("should promote a blocked job once its counter reached zero", func() {
		prereq := wp.GetJob(nil, 1, false)
		dep := wp.GetJob(nil, 0, false)
		dep.DependsOn(prereq)
		pool.Submit(dep)

		Expect(func() { pool.Promote(dep) }).To(violation)

		dep.pending.Store(0)
		pool.Promote(dep)
		Expect(pool.BlockedCount()).To(BeZero())
		Expect(pool.RunnableCount()).To(Equal(1))
		Expect(dep.Owned()).To(BeTrue())
	})

	It("should hand over blocked jobs by identity", func() {
		prereq := wp.GetJob(nil, 1, false)
		dep := wp.GetJob(nil, 0, false)
		other := wp.GetJob(nil, 0, false)
		dep.DependsOn(prereq)
		pool.Submit(dep)

		Expect(pool.ExtractBlocked(dep)).To(BeIdenticalTo(dep))
		Expect(dep.Owned()).To(BeFalse())
		Expect(func() { pool.ExtractBlocked(dep) }).To(violation)
		Expect(func() { pool.ExtractBlocked(other) }).To(violation)
	})

	It("should refuse a job owned by another pool", func() {
		job := wp.GetJob(nil, 0, false)
		NewJobPool(nil).Submit(job)
		Expect(func() { pool.Submit(job) }).To(violation)
	})
})

var _ = Describe("Job", func() {
	var wp *WorkerPool

	BeforeEach(func() {
		wp = NewWorkerPool()
	})

	It("should release the first freed dependent to the caller and promote the rest", func() {
		pool := NewJobPool(nil)
		var ran []int

		root := wp.GetJob(func(*WorkerPool, int, *Job) error {
			ran = append(ran, 0)
			return nil
		}, 2, false)
		first := wp.GetJob(nil, 0, false)
		second := wp.GetJob(nil, 0, false)
		root.DependsOnMe(first)
		root.DependsOnMe(second)
		Expect(root.DependentCount()).To(Equal(2))

		pool.Submit(first)
		pool.Submit(second)
		Expect(pool.BlockedCount()).To(Equal(2))

		next, err := root.run(wp, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(ran).To(Equal([]int{0}))
		Expect(next).To(BeIdenticalTo(first))
		Expect(first.Owned()).To(BeFalse())
		Expect(pool.RunnableCount()).To(Equal(1))
		Expect(pool.Pull()).To(BeIdenticalTo(second))
	})

	It("should copy dependents for continuations", func() {
		running := wp.GetJob(nil, 1, false)
		fanIn := wp.GetJob(nil, 0, false)
		running.DependsOnMe(fanIn)

		cont := wp.GetJob(nil, 0, false)
		cont.CopyDependents(running)
		Expect(fanIn.PendingDependencies()).To(Equal(2))
		Expect(cont.DependentCount()).To(Equal(1))
	})

	It("should refuse to run a job with pending dependencies", func() {
		prereq := wp.GetJob(nil, 1, false)
		dep := wp.GetJob(nil, 0, false)
		dep.DependsOn(prereq)

		Expect(func() { _, _ = dep.run(wp, 0) }).To(PanicWith(BeAssignableToTypeOf(&srvErrors.ContractViolationError{})))
	})

	It("should bump the generation when recycled", func() {
		job := wp.GetJob(nil, 0, false)
		gen := job.gen.Load()
		wp.ReturnJob(job)
		Expect(job.gen.Load()).To(Equal(gen + 1))

		again := wp.GetJob(nil, 0, false)
		Expect(again).To(BeIdenticalTo(job))
		Expect(func() { wp.ReturnJob(again); wp.ReturnJob(again) }).To(PanicWith(BeAssignableToTypeOf(&srvErrors.ContractViolationError{})))
	})
})
