package config

import (
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	srvErrors "github.com/kubev2v/jobgraph/pkg/errors"
)

//go:generate go run github.com/ecordell/optgen -output zz_generated.configuration.go . Configuration Scheduler Server Frames Scan Bench
type Configuration struct {
	Scheduler Scheduler `debugmap:"visible"`
	Server    Server    `debugmap:"visible"`
	Frames    Frames    `debugmap:"visible"`
	Scan      Scan      `debugmap:"visible"`
	Bench     Bench     `debugmap:"visible"`
	LogFormat string    `debugmap:"visible" default:"console"`
	LogLevel  string    `debugmap:"visible" default:"info"`
}

type Scheduler struct {
	// Workers is the total number of workers, the inline one included.
	Workers int    `debugmap:"visible"`
	Seed    uint64 `debugmap:"visible"`
}

// SetDefaults sizes the pool at two workers per CPU plus the inline worker.
func (s *Scheduler) SetDefaults() {
	if s.Workers == 0 {
		s.Workers = 2*runtime.NumCPU() + 1
	}
}

type Server struct {
	ServerMode string `debugmap:"visible" default:"dev"`
	// StatusAddr is the listen address of the status API. Empty disables it.
	StatusAddr string `debugmap:"visible"`
}

type Frames struct {
	Count    int           `debugmap:"visible" default:"60"`
	Tiles    int           `debugmap:"visible" default:"4"`
	TileWork time.Duration `debugmap:"visible" default:"1ms"`
}

type Scan struct {
	Dir string `debugmap:"visible" default:"./osources"`
}

type Bench struct {
	Independent int `debugmap:"visible" default:"10000"`
	ChainLength int `debugmap:"visible" default:"1000"`
	Diamonds    int `debugmap:"visible" default:"1000"`
	Spin        int `debugmap:"visible" default:"1000"`
}

// Load overlays the keys set in v on top of the defaults. Keys are the flag
// names of the run command.
func Load(v *viper.Viper) (*Configuration, error) {
	cfg := NewConfigurationWithOptionsAndDefaults(configurationOptions(v)...)
	cfg.Scheduler.WithOptions(schedulerOptions(v)...)
	cfg.Server.WithOptions(serverOptions(v)...)
	cfg.Frames.WithOptions(framesOptions(v)...)
	cfg.Scan.WithOptions(scanOptions(v)...)
	cfg.Bench.WithOptions(benchOptions(v)...)

	if cfg.Scheduler.Workers == 0 {
		cfg.Scheduler.SetDefaults()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Configuration) Validate() error {
	switch c.LogFormat {
	case "console", "json":
	default:
		return srvErrors.NewInvalidConfigurationError("log-format", "must be console or json")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return srvErrors.NewInvalidConfigurationError("log-level", "must be debug, info, warn or error")
	}
	switch c.Server.ServerMode {
	case "dev", "prod":
	default:
		return srvErrors.NewInvalidConfigurationError("server-mode", "must be dev or prod")
	}
	if c.Scheduler.Workers < 1 {
		return srvErrors.NewInvalidConfigurationError("workers", "must be at least 1")
	}
	if c.Frames.Count < 0 || c.Frames.Tiles < 1 || c.Frames.TileWork < 0 {
		return srvErrors.NewInvalidConfigurationError("frames", "count and tile work must not be negative and tiles must be at least 1")
	}
	if c.Bench.Independent < 0 || c.Bench.ChainLength < 0 || c.Bench.Diamonds < 0 || c.Bench.Spin < 0 {
		return srvErrors.NewInvalidConfigurationError("bench", "sizes must not be negative")
	}
	return nil
}

func configurationOptions(v *viper.Viper) (opts []ConfigurationOption) {
	if v.IsSet("log-format") {
		opts = append(opts, WithLogFormat(v.GetString("log-format")))
	}
	if v.IsSet("log-level") {
		opts = append(opts, WithLogLevel(v.GetString("log-level")))
	}
	return opts
}

func schedulerOptions(v *viper.Viper) (opts []SchedulerOption) {
	if v.IsSet("workers") {
		opts = append(opts, WithWorkers(v.GetInt("workers")))
	}
	if v.IsSet("seed") {
		opts = append(opts, WithSeed(v.GetUint64("seed")))
	}
	return opts
}

func serverOptions(v *viper.Viper) (opts []ServerOption) {
	if v.IsSet("server-mode") {
		opts = append(opts, WithServerMode(v.GetString("server-mode")))
	}
	if v.IsSet("status-addr") {
		opts = append(opts, WithStatusAddr(v.GetString("status-addr")))
	}
	return opts
}

func framesOptions(v *viper.Viper) (opts []FramesOption) {
	if v.IsSet("frames") {
		opts = append(opts, WithCount(v.GetInt("frames")))
	}
	if v.IsSet("tiles") {
		opts = append(opts, WithTiles(v.GetInt("tiles")))
	}
	if v.IsSet("tile-work") {
		opts = append(opts, WithTileWork(v.GetDuration("tile-work")))
	}
	return opts
}

func scanOptions(v *viper.Viper) (opts []ScanOption) {
	if v.IsSet("dir") {
		opts = append(opts, WithDir(v.GetString("dir")))
	}
	return opts
}

func benchOptions(v *viper.Viper) (opts []BenchOption) {
	for key, with := range map[string]func(int) BenchOption{
		"independent": WithIndependent,
		"chain":       WithChainLength,
		"diamonds":    WithDiamonds,
		"spin":        WithSpin,
	} {
		if v.IsSet(key) {
			opts = append(opts, with(v.GetInt(key)))
		}
	}
	return opts
}
