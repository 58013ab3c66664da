package cli

import (
	"fmt"

	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kubev2v/jobgraph/internal/config"
)

const envPrefix = "JOBGRAPH"

// NewRootCmd creates the root cobra command for the jobgraph CLI.
func NewRootCmd() *cobra.Command {
	defaults := config.NewConfigurationWithOptionsAndDefaults()

	root := &cobra.Command{
		Use:   "jobgraph",
		Short: "Run job graphs on a work-stealing scheduler",
		Long: "jobgraph drives a cooperative job-graph scheduler with one of its clients:\n" +
			"a frame pipeline, a source scanner or a throughput benchmark.",
		PersistentPreRunE: cobrautil.CommandStack(
			cobrautil.SyncViperPreRunE(envPrefix),
			setupLogging,
		),
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.String("log-level", defaults.LogLevel, "Log level (debug, info, warn, error)")
	flags.String("log-format", defaults.LogFormat, "Log format (console, json)")

	root.AddCommand(
		newRunCmd(defaults),
		newVersionCmd(),
	)

	return root
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	level, _ := cmd.Flags().GetString("log-level")
	format, _ := cmd.Flags().GetString("log-format")

	logger, err := newLogger(level, format)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)
	return nil
}

func newLogger(level, format string) (*zap.Logger, error) {
	var cfg zap.Config
	switch format {
	case "json":
		cfg = zap.NewProductionConfig()
	case "console":
		cfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg.Level = lvl
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	return cfg.Build()
}
