// Package cli provides the command-line interface for kondo.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/raphaelgruber/kondo-go/internal/config"
	"github.com/raphaelgruber/kondo-go/internal/metrics"
	"github.com/raphaelgruber/kondo-go/internal/models"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose      bool
	logLevelFlag string
	logFileFlag  string

	// Global config, logger and per-run state
	cfg        config.Config
	logger     = slog.New(slog.DiscardHandler)
	logCleanup = func() error { return nil }
	collector  *metrics.Collector
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "kondo",
	Short: "Tidy up messy directories",
	Long: `Kondo tidies a flat directory of files.

Group mode clusters files whose names look alike (IMG_0001.jpg, IMG_0002.jpg,
WhatsApp Chat with ...) and moves each cluster into an automatically named
folder. Categorize mode sorts files into folders by extension.

Without a subcommand kondo runs group mode when enable_smart_grouping is set
in kondo.toml and categorize mode otherwise.

Settings live in kondo.toml (see 'kondo config path').`,
	Version:       Version,
	Args:          cobra.MaximumNArgs(1),
	RunE:          runDefault,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for version and help commands
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		if createsConfig(cmd) {
			cfg = config.Load()
		} else {
			cfg = config.Read()
		}
		if logLevelFlag != "" {
			cfg.LogLevel = logLevelFlag
		}
		if logFileFlag != "" {
			cfg.LogFile = logFileFlag
			if logFileFlag == config.LogFileNone {
				cfg.LogFile = ""
			}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if err := logCleanup(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
		}
	},
}

// createsConfig reports whether cmd writes a default kondo.toml when none
// exists. Previews and the config subcommands leave the disk untouched.
func createsConfig(cmd *cobra.Command) bool {
	return cmd != planCmd && cmd != configCmd && cmd.Parent() != configCmd
}

// runDefault runs the mode selected by enable_smart_grouping.
func runDefault(cmd *cobra.Command, args []string) error {
	if cfg.EnableSmartGrouping {
		return runGroup(groupCmd, args)
	}
	return runCategorize(categorizeCmd, args)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", `log file path, or "none"`)

	// Add subcommands
	rootCmd.AddCommand(groupCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(categorizeCmd)
	rootCmd.AddCommand(configCmd)
}

// startRun validates the config, sets up logging and tags the logger with a
// short run ID. interactive keeps console logging off the UI's terminal.
func startRun(mode, dir string, interactive bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	var console io.Writer
	if verbose && !interactive {
		console = os.Stderr
	}
	l, cleanup := config.SetupLogger(cfg.LogFile, cfg.Level(), console)
	logCleanup = cleanup

	runID := uuid.New().String()[:8] // Short ID for convenience
	logger = l.With("run_id", runID)
	slog.SetDefault(logger)
	collector = metrics.NewCollector()

	logger.Info("starting kondo", "version", Version, "mode", mode, "dir", dir, "interactive", interactive)
	for _, w := range cfg.Warnings() {
		logger.Warn("config warning", "warning", w)
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
	return nil
}

// resolveDir returns the target directory argument or the working directory.
func resolveDir(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current directory: %w", err)
		}
		dir = wd
	}

	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("directory does not exist: %s", dir)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", dir)
	}
	return dir, nil
}

// logSink writes engine messages to the run logger and, when set, forwards them.
func logSink(forward func(string)) models.LogFunc {
	return func(msg string) {
		logger.Info(msg)
		if forward != nil {
			forward(msg)
		}
	}
}

// isTerminal reports whether stdout is attached to a terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
