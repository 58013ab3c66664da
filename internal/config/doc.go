// Package config defines the configuration structure for jobgraph.
//
// Defaults come from struct tags (github.com/creasty/defaults). Load overlays
// the values set through viper: flags of the run command, JOBGRAPH_ prefixed
// environment variables and an optional config file.
//
// # Configuration Structure
//
//	Configuration
//	├── Scheduler      - Worker pool sizing
//	├── Server         - Status API settings
//	├── Frames         - Frame pipeline client
//	├── Scan           - Source scanner client
//	├── Bench          - Benchmark client
//	├── LogFormat      - Logging format
//	└── LogLevel       - Logging verbosity
//
// # Scheduler Configuration
//
//	┌──────────────────┬──────────────┬────────────────────────────────────────┐
//	│ Field            │ Default      │ Description                            │
//	├──────────────────┼──────────────┼────────────────────────────────────────┤
//	│ Workers          │ 2*NumCPU+1   │ Total workers, inline one included     │
//	│ Seed             │ 0 (random)   │ Seed for submit/steal target selection │
//	└──────────────────┴──────────────┴────────────────────────────────────────┘
//
// # Server Configuration
//
//	┌──────────────────┬─────────┬────────────────────────────────────────┐
//	│ Field            │ Default │ Description                            │
//	├──────────────────┼─────────┼────────────────────────────────────────┤
//	│ ServerMode       │ "dev"   │ Gin mode: "prod" or "dev"              │
//	│ StatusAddr       │ ""      │ Status API address, empty disables it  │
//	└──────────────────┴─────────┴────────────────────────────────────────┘
//
// # Client Configuration
//
//	┌─────────────────────┬──────────────┬──────────────────────────────────────┐
//	│ Field               │ Default      │ Description                          │
//	├─────────────────────┼──────────────┼──────────────────────────────────────┤
//	│ Frames.Count        │ 60           │ Frames rendered                      │
//	│ Frames.Tiles        │ 4            │ Tile jobs per frame                  │
//	│ Frames.TileWork     │ 1ms          │ Simulated work per tile              │
//	│ Scan.Dir            │ ./osources   │ Directory lexed by the scanner       │
//	│ Bench.Independent   │ 10000        │ Independent jobs                     │
//	│ Bench.ChainLength   │ 1000         │ Length of the dependency chain       │
//	│ Bench.Diamonds      │ 1000         │ Four job diamonds                    │
//	│ Bench.Spin          │ 1000         │ Loop iterations per payload          │
//	└─────────────────────┴──────────────┴──────────────────────────────────────┘
//
// # Code Generation
//
// The package uses optgen to generate functional option helpers:
//
//	//go:generate go run github.com/ecordell/optgen -output zz_generated.configuration.go . Configuration Scheduler Server Frames Scan Bench
//
// Generated helpers include:
//
//   - NewConfigurationWithOptionsAndDefaults(...ConfigurationOption) - Create with defaults + options
//   - WithScheduler(Scheduler), WithFrames(Frames), etc. - Set nested structs
//   - WithWorkers(int), WithTileWork(time.Duration), etc. - Set fields of nested structs
//   - DebugMap() - Returns map for debug logging (respects debugmap tags)
//
// # Usage Example
//
// Load builds the configuration from the generated options of every key set
// in viper:
//
//	v := viper.New()
//	_ = v.BindPFlags(cmd.Flags())
//	cfg, err := config.Load(v)
//	if err != nil {
//	    return err
//	}
//
// # Debug Logging
//
// The generated DebugMap feeds structured logging:
//
//	zap.S().Infow("configuration loaded", "config", cfg.DebugMap())
package config
