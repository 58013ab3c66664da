// Package scheduler implements a work-stealing worker pool that executes a
// graph of dependent jobs.
//
// A job is a payload plus a counter of prerequisites that have not completed
// yet. Jobs are wired into a directed acyclic graph before they are submitted
// and run exactly once, after every prerequisite has run. Payloads receive the
// pool and may build and submit further jobs, so the graph grows while it is
// being executed.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────────┐
//	│                            WorkerPool                               │
//	│                                                                     │
//	│  ┌──────────────┐      ┌──────────────┐      ┌──────────────┐       │
//	│  │  Worker 0    │      │  Worker 1    │      │  Worker N    │       │
//	│  │  (inline)    │      │ (background) │      │ (background) │       │
//	│  │ ┌──────────┐ │      │ ┌──────────┐ │      │ ┌──────────┐ │       │
//	│  │ │ JobPool  │ │◄────►│ │ JobPool  │ │◄────►│ │ JobPool  │ │       │
//	│  │ └──────────┘ │ steal│ └──────────┘ │ steal│ └──────────┘ │       │
//	│  └──────┬───────┘      └──────────────┘      └──────────────┘       │
//	│         │                     ▲                     ▲               │
//	│         ▼                     │   random start,     │               │
//	│  ┌──────────────┐             └── first live ───────┘               │
//	│  │ main-thread  │                      ▲                            │
//	│  │   JobPool    │◄──── mainThreadOnly ─┤                            │
//	│  └──────────────┘                      │                            │
//	│                                   Submit(job)                       │
//	│                                                                     │
//	│  inFlight (CountedRWMutex)    jobArena (slots + free list)          │
//	└─────────────────────────────────────────────────────────────────────┘
//
// # Core Components
//
// Job:
//   - Payload, pending dependency counter and list of dependents
//   - Owner pool held in an atomic pointer, nil while the job is handed off
//   - Allocated from the pool's arena and recycled after it ran
//
// JobPool:
//   - Runnable jobs in a LIFO stack, blocked jobs in a set
//   - Submit places a job by its counter, Promote moves it once it is free
//   - Calls back into the pool when runnable work piles up, so idle workers
//     can be woken
//
// Worker:
//   - Owns one JobPool and a wake Signal
//   - Runs its loop on its own goroutine (background) or on the goroutine
//     calling RunLoop (inline, at most one per pool)
//   - Only the inline worker runs main-thread-only jobs
//
// WorkerPool:
//   - Routes submissions, selects steal victims, tracks in-flight operations
//   - Detects quiescence and shuts the workers down
//
// # Job Lifecycle
//
//	┌───────────┐  GetJob   ┌────────────┐  Submit   ┌─────────────────┐
//	│  arena    │ ────────► │ configured │ ────────► │ blocked         │
//	│  (free)   │           │  (wiring)  │     │     │ pending > 0     │
//	└───────────┘           └────────────┘     │     └────────┬────────┘
//	      ▲                                    │              │ last prereq
//	      │                                    ▼              ▼ completes
//	      │                              ┌─────────────────────────┐
//	      │          ReturnJob           │ runnable                │
//	      └──────────────────────────────│ pending == 0            │
//	                 (after run)         └─────────────────────────┘
//
// Edges are added with DependsOn, DependsOnMe and CopyDependents, or through
// the JobBuilder returned by NewJob. A prerequisite must not be submitted
// when an edge is added to it; panics report violations.
//
// # Completion
//
// When a job finishes, the worker walks its dependents and decrements their
// counters. The first dependent that reaches zero is detached from its pool
// and run next on the same worker without going through a queue. The others
// are promoted to runnable in the pools that hold them, where idle workers
// can steal them.
//
// A dependent that is freed before it was submitted is waited for: the
// completing worker blocks on the job's owner signal until Submit places it
// in a pool.
//
// # Worker Loop
//
//	          ┌───────────────────────────────────┐
//	          ▼                                   │ continuation
//	   ┌─────────────┐  no continuation   ┌───────┴─────┐
//	   │  Draining   │ ◄───────────────── │  Executing  │
//	   └──────┬──────┘                    └─────────────┘
//	          │ own pool empty                   ▲
//	          ▼                                  │ stolen
//	   ┌─────────────┐ ──────────────────────────┘
//	   │  Stealing   │
//	   └──────┬──────┘
//	          │ full scan failed
//	          ▼
//	   ┌─────────────┐  quiescent (inline)  ┌────────────┐
//	   │    Idle     │ ───────────────────► │ Terminated │
//	   └─────────────┘                      └────────────┘
//
// The inline worker looks at the main-thread queue before its own pool every
// time it searches for work. Background workers leave the loop only when
// inactivity is requested or when a payload returns an error. The inline
// worker also leaves it once NoJobsAnywhere reports true, so RunLoop returns
// when the whole graph has run. Submit the first jobs before calling it.
//
// # Wake Signal
//
// Idle workers block on a syncutil.Signal. Notify is sticky: a worker that
// looked for work, found nothing and only then calls Wait still sees a
// notification sent in between, so no wakeup is lost.
//
// # Quiescence
//
// Every Submit and every search for work holds a read lock on the pool's
// in-flight lock while it touches pool state. NoJobsAnywhere takes the write
// lock with TryLock and checks every pool while holding it, so no submission
// can start or finish during the check. The last reader to leave wakes the
// inline worker so it can repeat the check.
//
// # Futures
//
// AddWork keeps the future style API on top of jobs:
//
//	wp := scheduler.NewScheduler(4)
//	defer wp.Close()
//
//	future := wp.AddWork(func(ctx context.Context) (any, error) {
//	    return "done", nil
//	})
//
//	result := <-future.C()
//
// Panics in work functions are recovered and delivered as errors. After
// Close, AddWork resolves immediately with context.Canceled.
//
// # Graceful Shutdown
//
// Close performs the shutdown:
//
//  1. Sets the shutting down latch and cancels the context of AddWork work
//  2. Requests inactivity on every worker and wakes it
//  3. Takes the in-flight write lock, which waits for running payloads
//  4. Marks every worker removed
//  5. Waits for the background goroutines and returns their errors
//
// Jobs submitted during shutdown are dropped. Close must not be called from
// inside a payload.
//
// # Usage Example
//
//	wp := scheduler.NewWorkerPool()
//	main := wp.AddWorker(false)
//	for range 4 {
//	    wp.AddWorker(true)
//	}
//
//	load := wp.NewJob(loadPayload)
//	wp.NewJob(reportPayload).After(load.Job()).MainThreadOnly().Submit()
//	load.Submit()
//
//	wp.StartWorkers()
//	if err := main.RunLoop(); err != nil {
//	    return err
//	}
//	return wp.Close()
package scheduler
