package models

import "fmt"

// RunMode selects the scheduler client driven by the run command.
type RunMode string

const (
	RunModeFrames RunMode = "frames"
	RunModeScan   RunMode = "scan"
	RunModeBench  RunMode = "bench"
)

func ParseRunMode(s string) (RunMode, error) {
	switch s {
	case "frames":
		return RunModeFrames, nil
	case "scan":
		return RunModeScan, nil
	case "bench":
		return RunModeBench, nil
	default:
		return "", fmt.Errorf("invalid run mode: %s", s)
	}
}

// RunState represents where a scheduler client is in its run.
type RunState string

const (
	// RunStateReady - graph not submitted yet
	RunStateReady RunState = "ready"
	// RunStateRunning - graph submitted, jobs executing
	RunStateRunning RunState = "running"
	// RunStateCompleted - the final job of the graph ran
	RunStateCompleted RunState = "completed"
	// RunStateError - a job of the graph failed
	RunStateError RunState = "error"
)

// RunStatus holds the current state of a client and the error that ended
// it, if any.
type RunStatus struct {
	Mode  RunMode  `json:"mode"`
	State RunState `json:"state"`
	Error error    `json:"-"`
}
