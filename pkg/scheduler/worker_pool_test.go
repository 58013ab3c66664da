package scheduler_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gleak"

	"github.com/kubev2v/jobgraph/internal/models"
	srvErrors "github.com/kubev2v/jobgraph/pkg/errors"
	"github.com/kubev2v/jobgraph/pkg/scheduler"
)

func runInline(w *scheduler.Worker) error {
	errc := make(chan error, 1)
	go func() { errc <- w.RunLoop() }()

	var err error
	Eventually(errc, 20*time.Second).Should(Receive(&err))
	return err
}

func beContractViolation() OmegaMatcher {
	return PanicWith(BeAssignableToTypeOf(&srvErrors.ContractViolationError{}))
}

var _ = Describe("WorkerPool", func() {
	var (
		wp     *scheduler.WorkerPool
		inline *scheduler.Worker
	)

	newPool := func(background int) {
		wp = scheduler.NewWorkerPool(scheduler.WithSeed(7))
		inline = wp.AddWorker(false)
		for range background {
			wp.AddWorker(true)
		}
	}

	AfterEach(func() {
		if wp != nil {
			Expect(wp.Close()).To(Succeed())
			wp = nil
		}
	})

	Describe("dependencies", func() {
		It("should not start a dependent before its prerequisite returned", func() {
			newPool(4)

			var xDone atomic.Bool
			var yStartedEarly atomic.Bool
			var yRan atomic.Int32

			x := wp.GetJob(func(*scheduler.WorkerPool, int, *scheduler.Job) error {
				time.Sleep(20 * time.Millisecond)
				xDone.Store(true)
				return nil
			}, 1, false)
			y := wp.GetJob(func(*scheduler.WorkerPool, int, *scheduler.Job) error {
				if !xDone.Load() {
					yStartedEarly.Store(true)
				}
				yRan.Add(1)
				return nil
			}, 0, false)
			y.DependsOn(x)

			Expect(wp.Submit(y)).To(BeTrue())
			Expect(wp.Submit(x)).To(BeTrue())
			wp.StartWorkers()

			Expect(runInline(inline)).To(Succeed())
			Expect(yStartedEarly.Load()).To(BeFalse())
			Expect(yRan.Load()).To(BeEquivalentTo(1))
		})

		It("should run the sink of a diamond once, after all its sources", func() {
			newPool(4)

			var done [3]atomic.Bool
			var dRuns atomic.Int32
			var dEarly atomic.Bool

			d := wp.GetJob(func(*scheduler.WorkerPool, int, *scheduler.Job) error {
				for i := range done {
					if !done[i].Load() {
						dEarly.Store(true)
					}
				}
				dRuns.Add(1)
				return nil
			}, 0, false)

			sources := make([]*scheduler.Job, 0, 3)
			for i, delay := range []time.Duration{15, 1, 8} {
				src := wp.GetJob(func(*scheduler.WorkerPool, int, *scheduler.Job) error {
					time.Sleep(delay * time.Millisecond)
					done[i].Store(true)
					return nil
				}, 1, false)
				d.DependsOn(src)
				sources = append(sources, src)
			}
			Expect(d.PendingDependencies()).To(Equal(3))

			Expect(wp.Submit(d)).To(BeTrue())
			for _, src := range sources {
				Expect(wp.Submit(src)).To(BeTrue())
			}
			wp.StartWorkers()

			Expect(runInline(inline)).To(Succeed())
			Expect(dRuns.Load()).To(BeEquivalentTo(1))
			Expect(dEarly.Load()).To(BeFalse())
		})

		It("should run a long chain in order", func() {
			newPool(4)

			const length = 1000
			var mu sync.Mutex
			order := make([]int, 0, length)

			jobs := make([]*scheduler.Job, length)
			for i := range length {
				jobs[i] = wp.GetJob(func(*scheduler.WorkerPool, int, *scheduler.Job) error {
					mu.Lock()
					order = append(order, i)
					mu.Unlock()
					return nil
				}, 1, false)
				if i > 0 {
					jobs[i].DependsOn(jobs[i-1])
				}
			}
			for i := length - 1; i >= 0; i-- {
				Expect(wp.Submit(jobs[i])).To(BeTrue())
			}
			wp.StartWorkers()

			Expect(runInline(inline)).To(Succeed())
			Expect(order).To(HaveLen(length))
			for i := range length {
				Expect(order[i]).To(Equal(i))
			}
		})

		It("should let a dependent be submitted after its prerequisite finished", func() {
			newPool(2)

			var ran atomic.Int32
			late := wp.GetJob(func(*scheduler.WorkerPool, int, *scheduler.Job) error {
				ran.Add(1)
				return nil
			}, 0, false)

			first := wp.GetJob(func(*scheduler.WorkerPool, int, *scheduler.Job) error {
				return nil
			}, 1, false)
			first.DependsOnMe(late)

			wp.StartWorkers()
			Expect(wp.Submit(first)).To(BeTrue())

			time.Sleep(50 * time.Millisecond)
			Expect(ran.Load()).To(BeZero())
			Expect(wp.Submit(late)).To(BeTrue())

			Expect(runInline(inline)).To(Succeed())
			Expect(ran.Load()).To(BeEquivalentTo(1))
		})
	})

	Describe("throughput", func() {
		It("should run every independent job exactly once", func() {
			wp = scheduler.NewWorkerPool()
			inline = wp.AddWorker(false)
			for range 4 {
				wp.AddWorker(true)
			}

			const total = 10000
			runs := make([]atomic.Int32, total)
			for i := range total {
				job := wp.GetJob(func(*scheduler.WorkerPool, int, *scheduler.Job) error {
					runs[i].Add(1)
					return nil
				}, 0, false)
				Expect(wp.Submit(job)).To(BeTrue())
			}
			wp.StartWorkers()

			Expect(runInline(inline)).To(Succeed())
			for i := range total {
				Expect(runs[i].Load()).To(BeEquivalentTo(1), "job %d", i)
			}

			stats := wp.Stats()
			Expect(stats.Submitted).To(BeEquivalentTo(total))
			Expect(stats.Executed).To(BeEquivalentTo(total))
		})

		It("should reuse job slots for jobs spawned from payloads", func() {
			newPool(2)

			var count atomic.Int32
			var spawn scheduler.Payload
			spawn = func(wp *scheduler.WorkerPool, _ int, _ *scheduler.Job) error {
				if count.Add(1) < 500 {
					wp.NewJob(spawn).Submit()
				}
				return nil
			}
			Expect(wp.NewJob(spawn).Submit()).To(BeTrue())
			wp.StartWorkers()

			Expect(runInline(inline)).To(Succeed())
			Expect(count.Load()).To(BeEquivalentTo(500))

			stats := wp.Stats()
			Expect(stats.ArenaReused).To(BeNumerically(">", 0))
			Expect(stats.ArenaSlots).To(BeNumerically("<", 10))
			Expect(stats.ArenaFree).To(Equal(stats.ArenaSlots))
		})
	})

	Describe("main-thread-only jobs", func() {
		It("should only run them on the inline worker", func() {
			newPool(4)

			const pairs = 200
			var wrongWorker atomic.Int32
			var mainRuns atomic.Int32

			for range pairs {
				m := wp.GetJob(func(_ *scheduler.WorkerPool, worker int, _ *scheduler.Job) error {
					if worker != inline.Index() {
						wrongWorker.Add(1)
					}
					mainRuns.Add(1)
					return nil
				}, 0, true)
				a := wp.GetJob(func(*scheduler.WorkerPool, int, *scheduler.Job) error {
					return nil
				}, 1, false)
				m.DependsOn(a)
				Expect(m.MainThreadOnly()).To(BeTrue())

				Expect(wp.Submit(m)).To(BeTrue())
				Expect(wp.Submit(a)).To(BeTrue())
			}
			wp.StartWorkers()

			Expect(runInline(inline)).To(Succeed())
			Expect(mainRuns.Load()).To(BeEquivalentTo(pairs))
			Expect(wrongWorker.Load()).To(BeZero())
		})

		It("should run them when submitted from a background payload", func() {
			newPool(2)

			var ranOn atomic.Int32
			ranOn.Store(-1)
			seed := wp.NewJob(func(wp *scheduler.WorkerPool, _ int, _ *scheduler.Job) error {
				wp.NewJob(func(_ *scheduler.WorkerPool, worker int, _ *scheduler.Job) error {
					ranOn.Store(int32(worker))
					return nil
				}).MainThreadOnly().Submit()
				return nil
			})
			Expect(seed.Submit()).To(BeTrue())
			wp.StartWorkers()

			Expect(runInline(inline)).To(Succeed())
			Expect(ranOn.Load()).To(BeEquivalentTo(inline.Index()))
		})

		It("should refuse them when there is no inline worker", func() {
			wp = scheduler.NewWorkerPool()
			wp.AddWorker(true)

			job := wp.GetJob(nil, 0, true)
			Expect(wp.Submit(job)).To(BeFalse())
		})
	})

	Describe("continuations", func() {
		It("should make the fan-in wait for jobs spawned with Continues", func() {
			newPool(3)

			var childDone atomic.Bool
			var finalEarly atomic.Bool
			var finalRuns atomic.Int32

			final := wp.NewJob(func(*scheduler.WorkerPool, int, *scheduler.Job) error {
				if !childDone.Load() {
					finalEarly.Store(true)
				}
				finalRuns.Add(1)
				return nil
			})
			root := wp.NewJob(func(wp *scheduler.WorkerPool, _ int, self *scheduler.Job) error {
				wp.NewJob(func(*scheduler.WorkerPool, int, *scheduler.Job) error {
					time.Sleep(20 * time.Millisecond)
					childDone.Store(true)
					return nil
				}).Continues(self).Submit()
				return nil
			}).Before(final.Job())

			Expect(final.Submit()).To(BeTrue())
			Expect(root.Submit()).To(BeTrue())
			wp.StartWorkers()

			Expect(runInline(inline)).To(Succeed())
			Expect(finalRuns.Load()).To(BeEquivalentTo(1))
			Expect(finalEarly.Load()).To(BeFalse())
		})
	})

	Describe("quiescence", func() {
		It("should report no jobs consistently once everything ran", func() {
			newPool(2)

			for range 50 {
				wp.NewJob(func(*scheduler.WorkerPool, int, *scheduler.Job) error {
					return nil
				}).Submit()
			}
			wp.StartWorkers()

			Expect(runInline(inline)).To(Succeed())
			Consistently(wp.NoJobsAnywhere, 200*time.Millisecond, 10*time.Millisecond).Should(BeTrue())
			for _, w := range wp.Workers() {
				Expect(w.JobPoolNoRunnableJobs()).To(BeTrue())
				Expect(w.JobPoolEmpty()).To(BeTrue())
			}
		})

		It("should not report quiescence while a job is runnable", func() {
			wp = scheduler.NewWorkerPool()
			wp.AddWorker(true)

			Expect(wp.NoJobsAnywhere()).To(BeTrue())
			Expect(wp.Submit(wp.GetJob(nil, 0, false))).To(BeTrue())
			Expect(wp.NoJobsAnywhere()).To(BeFalse())
		})
	})

	Describe("TryPullingJob", func() {
		It("should prefer the main-thread queue for the inline caller", func() {
			newPool(1)
			var order []string
			record := func(name string) scheduler.Payload {
				return func(*scheduler.WorkerPool, int, *scheduler.Job) error {
					order = append(order, name)
					return nil
				}
			}

			Expect(wp.NewJob(record("plain")).Submit()).To(BeTrue())
			Expect(wp.NewJob(record("main")).MainThreadOnly().Submit()).To(BeTrue())

			job, release := wp.TryPullingJob(true)
			Expect(job).NotTo(BeNil())
			Expect(wp.InFlight()).To(Equal(1))
			Expect(inline.RunPulled(job, release)).To(Succeed())
			release()
			Expect(wp.InFlight()).To(BeZero())

			job, release = wp.TryPullingJob(false)
			Expect(job).NotTo(BeNil())
			Expect(inline.RunPulled(job, release)).To(Succeed())
			Expect(order).To(Equal([]string{"main", "plain"}))

			job, release = wp.TryPullingJob(false)
			Expect(job).To(BeNil())
			Expect(release).To(BeNil())
			Expect(wp.NoJobsAnywhere()).To(BeTrue())
		})

		It("should keep the graph moving when a pulled job is run", func() {
			newPool(0)
			var xRan, yRan, zRan atomic.Bool

			x := wp.NewJob(func(*scheduler.WorkerPool, int, *scheduler.Job) error {
				xRan.Store(true)
				return nil
			})
			y := wp.NewJob(func(*scheduler.WorkerPool, int, *scheduler.Job) error {
				Expect(xRan.Load()).To(BeTrue())
				yRan.Store(true)
				return nil
			}).After(x.Job())
			z := wp.NewJob(func(*scheduler.WorkerPool, int, *scheduler.Job) error {
				Expect(xRan.Load()).To(BeTrue())
				zRan.Store(true)
				return nil
			}).After(x.Job())
			Expect(y.Submit()).To(BeTrue())
			Expect(z.Submit()).To(BeTrue())
			Expect(x.Submit()).To(BeTrue())

			job, release := wp.TryPullingJob(false)
			Expect(job).NotTo(BeNil())
			Expect(inline.RunPulled(job, release)).To(Succeed())
			Expect(xRan.Load()).To(BeTrue())
			Expect(wp.InFlight()).To(BeZero())
			// one dependent ran as the direct continuation, the other was promoted
			Expect(yRan.Load() != zRan.Load()).To(BeTrue())

			Expect(runInline(inline)).To(Succeed())
			Expect(yRan.Load()).To(BeTrue())
			Expect(zRan.Load()).To(BeTrue())
			Expect(wp.NoJobsAnywhere()).To(BeTrue())
			Expect(wp.Stats().Executed).To(BeEquivalentTo(3))
		})

		It("should release and stop the worker when a pulled payload fails", func() {
			newPool(0)
			boom := errors.New("boom")
			Expect(wp.NewJob(func(*scheduler.WorkerPool, int, *scheduler.Job) error {
				return boom
			}).Submit()).To(BeTrue())

			job, release := wp.TryPullingJob(false)
			err := inline.RunPulled(job, release)
			Expect(errors.Is(err, boom)).To(BeTrue())
			Expect(srvErrors.IsPayloadError(err)).To(BeTrue())
			Expect(wp.InFlight()).To(BeZero())
			Expect(wp.Stats().Workers[0].Live).To(BeFalse())
		})
	})

	Describe("payload errors", func() {
		It("should stop the inline worker and return the error", func() {
			wp = scheduler.NewWorkerPool()
			inline = wp.AddWorker(false)
			boom := errors.New("boom")

			wp.NewJob(func(*scheduler.WorkerPool, int, *scheduler.Job) error {
				return boom
			}).Submit()

			err := runInline(inline)
			Expect(srvErrors.IsPayloadError(err)).To(BeTrue())
			Expect(errors.Is(err, boom)).To(BeTrue())
			Expect(inline.State()).To(Equal(models.WorkerStateTerminated))
		})

		It("should report background failures from Close", func() {
			wp = scheduler.NewWorkerPool()
			w := wp.AddWorker(true)
			boom := errors.New("boom")

			wp.NewJob(func(*scheduler.WorkerPool, int, *scheduler.Job) error {
				return boom
			}).Submit()
			wp.StartWorkers()

			Eventually(w.State, 2*time.Second).Should(Equal(models.WorkerStateTerminated))
			Expect(wp.Submit(wp.GetJob(nil, 0, false))).To(BeFalse())

			err := wp.Close()
			wp = nil
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, boom)).To(BeTrue())
		})
	})

	Describe("Close", func() {
		It("should drain in-flight work and stop every goroutine", func() {
			good := gleak.Goroutines()
			newPool(4)

			started := make(chan struct{})
			unblock := make(chan struct{})
			wp.NewJob(func(*scheduler.WorkerPool, int, *scheduler.Job) error {
				close(started)
				<-unblock
				return nil
			}).Submit()
			wp.StartWorkers()
			Eventually(started, 2*time.Second).Should(BeClosed())

			closeDone := make(chan error, 1)
			go func() { closeDone <- wp.Close() }()

			Consistently(closeDone, 200*time.Millisecond).ShouldNot(Receive())
			close(unblock)
			Eventually(closeDone, 2*time.Second).Should(Receive(BeNil()))

			stats := wp.Stats()
			Expect(stats.ShuttingDown).To(BeTrue())
			Expect(stats.InFlight).To(BeZero())
			for _, w := range stats.Workers {
				Expect(w.Live).To(BeFalse())
				if w.Background {
					Expect(w.State).To(Equal(models.WorkerStateTerminated))
				}
			}
			wp = nil

			Eventually(gleak.Goroutines, 2*time.Second).ShouldNot(gleak.HaveLeaked(good))
		})

		It("should discard jobs submitted after Close", func() {
			newPool(1)
			wp.StartWorkers()
			Expect(wp.Close()).To(Succeed())

			var ran atomic.Bool
			job := wp.GetJob(func(*scheduler.WorkerPool, int, *scheduler.Job) error {
				ran.Store(true)
				return nil
			}, 0, false)
			Expect(wp.Submit(job)).To(BeTrue())
			Expect(wp.Stats().Discarded).To(BeEquivalentTo(1))

			job, release := wp.TryPullingJob(true)
			Expect(job).To(BeNil())
			Expect(release).To(BeNil())
			Expect(ran.Load()).To(BeFalse())
		})

		It("should make the inline loop return", func() {
			newPool(0)
			Expect(wp.Close()).To(Succeed())
			Expect(runInline(inline)).To(Succeed())
		})

		It("should ignore StartWorkers once shutting down", func() {
			newPool(2)
			Expect(wp.Close()).To(Succeed())
			wp.StartWorkers()
			for _, w := range wp.Workers() {
				Expect(w.State()).To(Equal(models.WorkerStateCreated))
			}
		})
	})

	Describe("Stats", func() {
		It("should describe every worker", func() {
			newPool(2)

			stats := wp.Stats()
			Expect(stats.ID).To(Equal(wp.ID()))
			Expect(stats.Workers).To(HaveLen(3))
			Expect(stats.Workers[0].Background).To(BeFalse())
			Expect(stats.Workers[1].Background).To(BeTrue())
			Expect(stats.Workers[2].Index).To(Equal(2))
			Expect(stats.Workers[0].State).To(Equal(models.WorkerStateCreated))
			Expect(stats.ArenaWaiters).To(BeZero())
		})
	})

	Describe("contract violations", func() {
		BeforeEach(func() {
			newPool(1)
		})

		It("should panic when a job is submitted twice", func() {
			job := wp.GetJob(nil, 0, false)
			Expect(wp.Submit(job)).To(BeTrue())
			Expect(func() { wp.Submit(job) }).To(beContractViolation())
		})

		It("should locate the violation in the scheduler call that detected it", func() {
			job := wp.GetJob(nil, 0, false)
			Expect(wp.Submit(job)).To(BeTrue())

			var recovered any
			func() {
				defer func() { recovered = recover() }()
				wp.Submit(job)
			}()

			cv, ok := recovered.(*srvErrors.ContractViolationError)
			Expect(ok).To(BeTrue())
			Expect(cv.Location()).To(ContainSubstring("worker_pool.go"))
		})

		It("should panic when an edge is added to a submitted prerequisite", func() {
			prereq := wp.GetJob(nil, 1, false)
			dep := wp.GetJob(nil, 0, false)
			Expect(wp.Submit(prereq)).To(BeTrue())
			Expect(func() { dep.DependsOn(prereq) }).To(beContractViolation())
		})

		It("should panic when a job depends on itself", func() {
			job := wp.GetJob(nil, 1, false)
			Expect(func() { job.DependsOn(job) }).To(beContractViolation())
		})

		It("should panic when a submitted runnable job gains a prerequisite", func() {
			prereq := wp.GetJob(nil, 1, false)
			dep := wp.GetJob(nil, 0, false)
			Expect(wp.Submit(dep)).To(BeTrue())
			Expect(func() { prereq.DependsOnMe(dep) }).To(beContractViolation())
		})

		It("should panic when an owned job is returned", func() {
			job := wp.GetJob(nil, 0, false)
			Expect(wp.Submit(job)).To(BeTrue())
			Expect(job.Owned()).To(BeTrue())
			Expect(func() { wp.ReturnJob(job) }).To(beContractViolation())
		})

		It("should panic when a builder is reused after Submit", func() {
			b := wp.NewJob(nil)
			Expect(b.Submit()).To(BeTrue())
			Expect(func() { b.MainThreadOnly() }).To(beContractViolation())
			Expect(func() { b.Submit() }).To(beContractViolation())
		})

		It("should panic when a second inline worker is added", func() {
			Expect(func() { wp.AddWorker(false) }).To(beContractViolation())
		})

		It("should panic when a worker is added after start", func() {
			wp.StartWorkers()
			Expect(func() { wp.AddWorker(true) }).To(beContractViolation())
		})
	})
})
