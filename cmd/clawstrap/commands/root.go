// Package commands implements the CLI commands for clawstrap.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/mhoffman/clawstrap/internal/config"
	cserrors "github.com/mhoffman/clawstrap/internal/errors"
	"github.com/mhoffman/clawstrap/internal/install"
	"github.com/mhoffman/clawstrap/internal/logging"
)

// version is set at build time via ldflags.
// Default to a development version for local builds.
const version = "0.1.0"

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

// loadedConfig holds the configuration loaded at startup.
var loadedConfig *config.Config

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("clawstrap version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	loadedConfig, configLoadErr = config.Load("")
}

var rootCmd = &cobra.Command{
	Use:   "clawstrap",
	Short: "Provision assistant CLI configuration and API keys",
	Long: `clawstrap sets up the assistant CLI on this machine.

It writes the policy document (CLAUDE.md) and the settings document
(settings.json) into ~/.claude, collects your API keys interactively
without echoing them, exports them for the current session, and can
append export statements to a shell startup file so they survive
across sessions.

Pre-existing target files are copied aside with a timestamped
.bak suffix before anything overwrites them.`,
	Example: `  # Run the interactive installer
  clawstrap

  # Check preconditions without changing anything
  clawstrap doctor`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		// Surface config load problems before any command runs
		if cmd.Name() != "help" && cmd.Name() != "version" && configLoadErr != nil {
			return cserrors.NewPreconditionError(configLoadErr)
		}
		return nil
	},
	RunE: runInstall,
}

func runInstall(cmd *cobra.Command, _ []string) error {
	ins := install.New(loadedConfig,
		install.WithLogger(logging.FromContext(cmd.Context())),
	)
	return ins.Run()
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return cserrors.NewUserError(
			errors.New("cannot use --quiet and --verbose together"),
			"Choose either --quiet or --verbose")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		level = logging.LevelFromVerbosity(verbosity)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return cserrors.NewUserError(err, "failed to open log file")
		}
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: level,
		}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
