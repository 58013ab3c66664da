package services

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kubev2v/jobgraph/internal/models"
	"github.com/kubev2v/jobgraph/pkg/scheduler"
)

// FrameRenderer produces the frames driven by a FramePipeline.
type FrameRenderer interface {
	// ShouldContinue reports whether frame should be rendered.
	ShouldContinue(frame int) bool
	// RenderTile renders one tile of a frame. Tiles of a frame run
	// concurrently.
	RenderTile(frame, tile int) error
}

// FixedFrames renders Count frames, spending TileWork on every tile.
type FixedFrames struct {
	Count    int
	TileWork time.Duration
}

func (f FixedFrames) ShouldContinue(frame int) bool {
	return frame < f.Count
}

func (f FixedFrames) RenderTile(frame, tile int) error {
	if f.TileWork > 0 {
		time.Sleep(f.TileWork)
	}
	return nil
}

// FramePipeline runs a render loop as a job graph:
//
//	[Init] -> [FrameStart] -> [Done]
//	                      \-> [DoneMain] (inline worker)
//
// Every FrameStart that should continue spawns [DoFrame] -> [FrameStart] and
// hands its own dependents to the new FrameStart, so Done and DoneMain run
// once, after the last frame.
type FramePipeline struct {
	runTracker

	wp       *scheduler.WorkerPool
	renderer FrameRenderer
	tiles    int

	frames  atomic.Int32
	finals  atomic.Int32
	mu      sync.Mutex
	summary models.FrameSummary
}

func NewFramePipeline(wp *scheduler.WorkerPool, renderer FrameRenderer, tiles int) *FramePipeline {
	if tiles < 1 {
		tiles = 1
	}
	return &FramePipeline{
		runTracker: newRunTracker(models.RunModeFrames),
		wp:         wp,
		renderer:   renderer,
		tiles:      tiles,
	}
}

// Start submits the initial graph.
func (p *FramePipeline) Start() error {
	if err := p.start(); err != nil {
		return err
	}

	frameStart := p.wp.NewJob(p.frameStart)
	init := p.wp.NewJob(p.init).Before(frameStart.Job())
	done := p.wp.NewJob(p.done).After(frameStart.Job())
	doneMain := p.wp.NewJob(p.doneMain).After(frameStart.Job()).MainThreadOnly()

	return p.submitAll(
		namedJob{"init", init},
		namedJob{"frame start", frameStart},
		namedJob{"done", done},
		namedJob{"done main", doneMain},
	)
}

func (p *FramePipeline) Summary() models.FrameSummary {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.summary
	s.Frames = int(p.frames.Load())
	s.Tiles = p.tiles
	return s
}

func (p *FramePipeline) init(_ *scheduler.WorkerPool, worker int, _ *scheduler.Job) error {
	zap.S().Named("frames_service").Debugw("pipeline initialised", "worker", worker, "tiles", p.tiles)
	return nil
}

func (p *FramePipeline) frameStart(wp *scheduler.WorkerPool, worker int, self *scheduler.Job) error {
	frame := int(p.frames.Load())
	if !p.renderer.ShouldContinue(frame) {
		return nil
	}
	p.frames.Add(1)

	doFrame := wp.NewJob(p.doFrame(frame))
	next := wp.NewJob(p.frameStart).After(doFrame.Job()).Continues(self)
	doFrame.Submit()
	next.Submit()
	return nil
}

func (p *FramePipeline) doFrame(frame int) scheduler.Payload {
	return func(wp *scheduler.WorkerPool, worker int, self *scheduler.Job) error {
		zap.S().Named("frames_service").Debugw("frame", "frame", frame, "worker", worker)
		for tile := range p.tiles {
			wp.NewJob(p.renderTile(frame, tile)).Continues(self).Submit()
		}
		return nil
	}
}

func (p *FramePipeline) renderTile(frame, tile int) scheduler.Payload {
	return func(*scheduler.WorkerPool, int, *scheduler.Job) error {
		if err := p.renderer.RenderTile(frame, tile); err != nil {
			err = fmt.Errorf("frame %d tile %d: %w", frame, tile, err)
			p.fail(err)
			return err
		}
		return nil
	}
}

func (p *FramePipeline) done(_ *scheduler.WorkerPool, worker int, _ *scheduler.Job) error {
	p.mu.Lock()
	p.summary.DoneWorker = worker
	p.mu.Unlock()

	zap.S().Named("frames_service").Infow("frames done", "worker", worker, "frames", p.frames.Load())
	p.final()
	return nil
}

func (p *FramePipeline) doneMain(_ *scheduler.WorkerPool, worker int, _ *scheduler.Job) error {
	p.mu.Lock()
	p.summary.DoneMainWorker = worker
	p.mu.Unlock()

	zap.S().Named("frames_service").Infow("frames done on main worker", "worker", worker)
	p.final()
	return nil
}

func (p *FramePipeline) final() {
	if p.finals.Add(1) == 2 {
		p.complete()
	}
}
