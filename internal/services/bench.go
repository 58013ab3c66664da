package services

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kubev2v/jobgraph/internal/models"
	"github.com/kubev2v/jobgraph/pkg/scheduler"
)

// BenchOptions sizes the graph built by Bench.
type BenchOptions struct {
	// Independent jobs with no edges between them.
	Independent int
	// ChainLength jobs each depending on the previous one.
	ChainLength int
	// Diamonds of four jobs: one source, two middles, one sink.
	Diamonds int
	// Spin is the number of loop iterations each payload burns.
	Spin int
}

// Bench measures scheduler throughput on independent jobs, a long chain and
// a set of diamonds. A finish job depends on every sink of the graph.
type Bench struct {
	runTracker

	wp   *scheduler.WorkerPool
	opts BenchOptions

	executed atomic.Int64
	sink     atomic.Uint64
	started  time.Time
	elapsed  atomic.Int64
}

func NewBench(wp *scheduler.WorkerPool, opts BenchOptions) *Bench {
	return &Bench{
		runTracker: newRunTracker(models.RunModeBench),
		wp:         wp,
		opts:       opts,
	}
}

// Start wires and submits the whole graph.
func (b *Bench) Start() error {
	if err := b.start(); err != nil {
		return err
	}

	finish := b.wp.NewJob(b.finish)
	jobs := make([]namedJob, 0, b.opts.Independent+b.opts.ChainLength+4*b.opts.Diamonds+1)

	for range b.opts.Independent {
		jobs = append(jobs, namedJob{"independent", b.wp.NewJob(b.work).Before(finish.Job())})
	}

	var prev *scheduler.JobBuilder
	for range b.opts.ChainLength {
		link := b.wp.NewJob(b.work)
		if prev != nil {
			link.After(prev.Job())
		}
		jobs = append(jobs, namedJob{"chain", link})
		prev = link
	}
	if prev != nil {
		prev.Before(finish.Job())
	}

	for range b.opts.Diamonds {
		sink := b.wp.NewJob(b.work).Before(finish.Job())
		left := b.wp.NewJob(b.work).Before(sink.Job())
		right := b.wp.NewJob(b.work).Before(sink.Job())
		source := b.wp.NewJob(b.work).Before(left.Job(), right.Job())
		jobs = append(jobs,
			namedJob{"diamond sink", sink},
			namedJob{"diamond", left},
			namedJob{"diamond", right},
			namedJob{"diamond source", source},
		)
	}
	jobs = append(jobs, namedJob{"finish", finish})

	b.started = time.Now()
	return b.submitAll(jobs...)
}

// Report returns the benchmark figures. Elapsed is zero until the finish job
// ran.
func (b *Bench) Report() models.BenchReport {
	return models.BenchReport{
		Independent: b.opts.Independent,
		ChainLength: b.opts.ChainLength,
		Diamonds:    b.opts.Diamonds,
		Executed:    b.executed.Load(),
		Stolen:      b.wp.Stats().Stolen,
		Elapsed:     time.Duration(b.elapsed.Load()),
	}
}

func (b *Bench) work(*scheduler.WorkerPool, int, *scheduler.Job) error {
	var acc uint64
	for i := range b.opts.Spin {
		acc += uint64(i) * 2654435761
	}
	b.sink.Add(acc)
	b.executed.Add(1)
	return nil
}

func (b *Bench) finish(_ *scheduler.WorkerPool, worker int, _ *scheduler.Job) error {
	b.elapsed.Store(int64(time.Since(b.started)))
	zap.S().Named("bench_service").Infow("bench done", "worker", worker, "executed", b.executed.Load(), "elapsed", time.Since(b.started))
	b.complete()
	return nil
}
