package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/kubev2v/jobgraph/internal/models"
)

var (
	title = color.New(color.FgCyan, color.Bold)
	value = color.New(color.FgGreen)
)

func printField(w io.Writer, name string, v any) {
	fmt.Fprintf(w, "  %-16s %s\n", name+":", value.Sprint(v))
}

func printFrames(w io.Writer, s models.FrameSummary) {
	title.Fprintln(w, "frame pipeline completed")
	printField(w, "frames", s.Frames)
	printField(w, "tiles per frame", s.Tiles)
	printField(w, "done worker", s.DoneWorker)
	printField(w, "done main worker", s.DoneMainWorker)
}

func printScan(w io.Writer, s models.ScanSummary) {
	title.Fprintln(w, "source scan completed")
	printField(w, "files", s.Files)
	printField(w, "words", s.Words)
	printField(w, "tokens", s.Tokens)
	printField(w, "done worker", s.DoneWorker)
	for _, r := range s.Results {
		fmt.Fprintf(w, "    %s: %d words, tokens %v (worker %d)\n", r.Path, r.Words, r.Tokens, r.Worker)
	}
}

func printBench(w io.Writer, r models.BenchReport) {
	title.Fprintln(w, "benchmark completed")
	printField(w, "independent", r.Independent)
	printField(w, "chain length", r.ChainLength)
	printField(w, "diamonds", r.Diamonds)
	printField(w, "executed", r.Executed)
	printField(w, "stolen", r.Stolen)
	printField(w, "elapsed", r.Elapsed)
	printField(w, "jobs/s", fmt.Sprintf("%.0f", r.JobsPerSecond()))
}
