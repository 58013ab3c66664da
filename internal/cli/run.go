package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/kubev2v/jobgraph/internal/config"
	"github.com/kubev2v/jobgraph/internal/handlers"
	"github.com/kubev2v/jobgraph/internal/models"
	"github.com/kubev2v/jobgraph/internal/server"
	"github.com/kubev2v/jobgraph/internal/services"
	"github.com/kubev2v/jobgraph/pkg/scheduler"
)

func newRunCmd(defaults *config.Configuration) *cobra.Command {
	run := &cobra.Command{
		Use:   "run",
		Short: "Run a scheduler client until its graph completes",
	}

	flags := run.PersistentFlags()
	flags.Int("workers", 0, "Total number of workers, the inline one included (default 2*NumCPU+1)")
	flags.Uint64("seed", defaults.Scheduler.Seed, "Seed of the worker selection generator, 0 picks a random one")
	flags.String("status-addr", defaults.Server.StatusAddr, "Address of the status API, empty disables it")
	flags.String("server-mode", defaults.Server.ServerMode, "Status API mode (dev, prod)")

	frames := &cobra.Command{
		Use:   "frames",
		Short: "Run the frame pipeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runClient(cmd, models.RunModeFrames)
		},
	}
	addFrameFlags(frames.Flags(), defaults.Frames)

	scan := &cobra.Command{
		Use:   "scan",
		Short: "Lex every file of a source directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runClient(cmd, models.RunModeScan)
		},
	}
	scan.Flags().String("dir", defaults.Scan.Dir, "Directory holding the sources")

	bench := &cobra.Command{
		Use:   "bench",
		Short: "Measure scheduler throughput",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runClient(cmd, models.RunModeBench)
		},
	}
	addBenchFlags(bench.Flags(), defaults.Bench)

	run.AddCommand(frames, scan, bench)
	return run
}

func addFrameFlags(fs *pflag.FlagSet, d config.Frames) {
	fs.Int("frames", d.Count, "Number of frames to render")
	fs.Int("tiles", d.Tiles, "Tile jobs per frame")
	fs.Duration("tile-work", d.TileWork, "Time spent rendering one tile")
}

func addBenchFlags(fs *pflag.FlagSet, d config.Bench) {
	fs.Int("independent", d.Independent, "Independent jobs")
	fs.Int("chain", d.ChainLength, "Length of the dependency chain")
	fs.Int("diamonds", d.Diamonds, "Number of diamond subgraphs")
	fs.Int("spin", d.Spin, "Loop iterations burned by each job")
}

// client pairs a runner with the report printed once its graph ran.
type client struct {
	runner services.Runner
	report func(w io.Writer)
}

func newClient(mode models.RunMode, wp *scheduler.WorkerPool, cfg *config.Configuration) client {
	switch mode {
	case models.RunModeFrames:
		p := services.NewFramePipeline(wp, services.FixedFrames{Count: cfg.Frames.Count, TileWork: cfg.Frames.TileWork}, cfg.Frames.Tiles)
		return client{runner: p, report: func(w io.Writer) { printFrames(w, p.Summary()) }}
	case models.RunModeScan:
		s := services.NewSourceScanner(wp, cfg.Scan.Dir)
		return client{runner: s, report: func(w io.Writer) { printScan(w, s.Summary()) }}
	default:
		b := services.NewBench(wp, services.BenchOptions{
			Independent: cfg.Bench.Independent,
			ChainLength: cfg.Bench.ChainLength,
			Diamonds:    cfg.Bench.Diamonds,
			Spin:        cfg.Bench.Spin,
		})
		return client{runner: b, report: func(w io.Writer) { printBench(w, b.Report()) }}
	}
}

func runClient(cmd *cobra.Command, mode models.RunMode) error {
	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	logger := zap.S().Named("run")
	logger.Debugw("configuration loaded", "mode", mode, "config", cfg.DebugMap())

	var opts []scheduler.Option
	if cfg.Scheduler.Seed != 0 {
		opts = append(opts, scheduler.WithSeed(cfg.Scheduler.Seed))
	}
	wp := scheduler.NewWorkerPool(opts...)
	inline := wp.AddWorker(false)
	for range cfg.Scheduler.Workers - 1 {
		wp.AddWorker(true)
	}

	c := newClient(mode, wp, cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Server.StatusAddr != "" {
		srv, err := server.NewServer(cfg, func(router *gin.RouterGroup) {
			handlers.RegisterHandlers(router, handlers.New(wp, c.runner))
		})
		if err != nil {
			_ = wp.Close()
			return err
		}
		go func() {
			if err := srv.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorw("status api stopped", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Stop(shutdownCtx)
		}()
	}

	if err := c.runner.Start(); err != nil {
		return multierror.Append(err, wp.Close()).ErrorOrNil()
	}

	// An interrupt closes the pool, which makes the inline loop return.
	finished := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			logger.Infow("interrupted, shutting down")
			_ = wp.Close()
		case <-finished:
		}
	}()

	start := time.Now()
	wp.StartWorkers()
	runErr := inline.RunLoop()
	close(finished)
	closeErr := wp.Close()

	logger.Infow("run finished", "mode", mode, "elapsed", time.Since(start), "stats", wp.Stats())

	result := multierror.Append(runErr, closeErr).ErrorOrNil()
	if status := c.runner.Status(); result == nil && status.Error != nil {
		result = status.Error
	}
	if result == nil && ctx.Err() != nil {
		result = fmt.Errorf("interrupted: %w", ctx.Err())
	}
	if result != nil {
		return fmt.Errorf("%s run failed: %w", mode, result)
	}

	c.report(cmd.OutOrStdout())
	return nil
}
