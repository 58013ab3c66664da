package models

// WorkerState represents where a worker is in its loop.
type WorkerState string

const (
	// WorkerStateCreated - added to the pool, loop not entered yet
	WorkerStateCreated WorkerState = "created"
	// WorkerStateExecuting - running a job payload
	WorkerStateExecuting WorkerState = "executing"
	// WorkerStateDraining - pulling from its own job pool
	WorkerStateDraining WorkerState = "draining"
	// WorkerStateStealing - scanning the other workers for runnable jobs
	WorkerStateStealing WorkerState = "stealing"
	// WorkerStateIdle - blocked on its wake signal
	WorkerStateIdle WorkerState = "idle"
	// WorkerStateTerminated - loop exited
	WorkerStateTerminated WorkerState = "terminated"
)

// WorkerStats is a point-in-time view of one worker.
type WorkerStats struct {
	Index      int         `json:"index"`
	Background bool        `json:"background"`
	State      WorkerState `json:"state"`
	Live       bool        `json:"live"`
	Runnable   int         `json:"runnable"`
	Blocked    int         `json:"blocked"`
	Executed   uint64      `json:"executed"`
	Stolen     uint64      `json:"stolen"`
}

// PoolStats is a point-in-time view of a worker pool. The counters are read
// one by one and are not a consistent snapshot.
type PoolStats struct {
	ID                 string        `json:"id"`
	ShuttingDown       bool          `json:"shuttingDown"`
	InFlight           int           `json:"inFlight"`
	MainThreadRunnable int           `json:"mainThreadRunnable"`
	MainThreadBlocked  int           `json:"mainThreadBlocked"`
	Submitted          int64         `json:"submitted"`
	Executed           int64         `json:"executed"`
	Stolen             int64         `json:"stolen"`
	Discarded          int64         `json:"discarded"`
	ArenaSlots         int           `json:"arenaSlots"`
	ArenaFree          int           `json:"arenaFree"`
	ArenaReused        uint64        `json:"arenaReused"`
	// ArenaWaiters is the number of goroutines waiting on the job allocator.
	ArenaWaiters       int           `json:"arenaWaiters"`
	Workers            []WorkerStats `json:"workers"`
}
