package models

import "time"

// FrameSummary describes a finished frame pipeline run.
type FrameSummary struct {
	Frames int `json:"frames"`
	Tiles  int `json:"tiles"`
	// DoneWorker is the worker that ran the final fan-in job.
	DoneWorker int `json:"doneWorker"`
	// DoneMainWorker is the worker that ran the main-thread fan-in job. It is
	// always the inline worker.
	DoneMainWorker int `json:"doneMainWorker"`
}

// ScanResult holds the tokens read from one source file.
type ScanResult struct {
	Path   string   `json:"path"`
	Words  int      `json:"words"`
	Tokens []uint64 `json:"tokens"`
	Worker int      `json:"worker"`
}

// ScanSummary describes a finished source scan.
type ScanSummary struct {
	Files      int          `json:"files"`
	Words      int          `json:"words"`
	Tokens     int          `json:"tokens"`
	DoneWorker int          `json:"doneWorker"`
	Results    []ScanResult `json:"results"`
}

// BenchReport describes a finished benchmark run.
type BenchReport struct {
	Independent int           `json:"independent"`
	ChainLength int           `json:"chainLength"`
	Diamonds    int           `json:"diamonds"`
	Executed    int64         `json:"executed"`
	Stolen      int64         `json:"stolen"`
	Elapsed     time.Duration `json:"elapsed"`
}

// JobsPerSecond returns the executed job rate.
func (r BenchReport) JobsPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Executed) / r.Elapsed.Seconds()
}
