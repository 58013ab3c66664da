// Package services implements the clients of the job scheduler.
//
// Each service builds a job graph, submits it to a scheduler.WorkerPool and
// tracks its own run status. Services never drive workers themselves: the
// caller starts the pool's background workers and runs the inline worker
// loop, which returns once the graph has run.
//
// # Service Overview
//
//	cmd/jobgraph run <mode>
//	    │
//	    ▼
//	Services Layer (Runner)
//	    ├── FramePipeline ──► WorkerPool, FrameRenderer
//	    ├── SourceScanner ──► WorkerPool, source directory
//	    └── Bench ──────────► WorkerPool
//
// All three implement Runner:
//
//	type Runner interface {
//	    Start() error
//	    Status() models.RunStatus
//	}
//
// Run state machine:
//
//	┌───────┐  Start  ┌─────────┐  final job ran  ┌───────────┐
//	│ Ready │───────►│ Running │───────────────►│ Completed │
//	└───────┘         └────┬────┘                 └───────────┘
//	                       │ payload failed
//	                       ▼
//	                  ┌─────────┐
//	                  │  Error  │
//	                  └─────────┘
//
// Start can be called once. A payload failure moves the run to Error and
// stops the worker that ran it; the jobs depending on the failed one never
// run.
//
// # FramePipeline
//
// FramePipeline models a render loop:
//
//	[Init] -> [FrameStart] -> [Done]
//	                      \-> [DoneMain] (main thread only)
//
// While the renderer wants more frames, each FrameStart submits
//
//	[DoFrame] -> [FrameStart]
//
// and copies its own dependents onto the new FrameStart, so Done and
// DoneMain wait for the last frame without the graph being rebuilt. DoFrame
// fans out one job per tile the same way, so the next frame starts only after
// all tiles of the current one rendered.
//
// Usage:
//
//	pipeline := services.NewFramePipeline(wp, services.FixedFrames{Count: 60}, 4)
//	if err := pipeline.Start(); err != nil {
//	    return err
//	}
//	wp.StartWorkers()
//	err := inline.RunLoop()
//
// # SourceScanner
//
// SourceScanner lexes every regular file of a directory:
//
//	[Start] -> [Done]
//
// Start pops the queued files and submits one lex job per file, each taking
// over Start's dependents. Results are kept in a concurrent map keyed by
// path and aggregated by Summary.
//
// # Bench
//
// Bench submits independent jobs, a dependency chain and diamonds, all
// feeding a single finish job, and reports the executed job count, steals
// and elapsed time.
package services
