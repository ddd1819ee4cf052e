// =============================================================================
// POSLog XML Generator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every other command
// is attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (poslog)
//   ├── generateCmd (poslog generate)
//   ├── compareCmd  (poslog compare)
//   ├── processCmd  (poslog process)
//   ├── validateCmd (poslog validate)
//   ├── xsdCmd      (poslog xsd)
//   └── versionCmd  (poslog version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads config.yaml (or --config) with POSLOG_* environment overrides
//   2. Builds the zap logger at the configured level (debug with --verbose)
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ginjaninja78/poslog-xml/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose enables debug logging.
var verbose bool

// mainConfig and logger are set by the root command before a subcommand runs.
var (
	mainConfig *config.MainConfig
	logger     = zap.NewNop()
)

// errSilent marks an error whose details were already written to stderr.
var errSilent = errors.New("command failed")

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "poslog",
	Short: "POSLog XML Generator - Render retail transactions as POSLog XML",
	Long: `POSLog XML Generator builds POSLog documents from retail transactions and
checks them against a reference document using canonical XML comparison.

Key Features:
  - Built-in default transaction, or YAML fixtures per transaction
  - Basket import from CSV and XLSX files with transformation rules
  - Validation of store and item values before rendering
  - Canonical (C14N) comparison with an element-path diff
  - Concurrent batch processing of fixture directories

Example Usage:
  poslog generate --output -              # Print the default transaction
  poslog compare --reference sample.xml   # Compare it with the reference
  poslog process --config ./my.yaml       # Generate every fixture in input_dir`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadMainConfig(cfgFile)
		if err != nil {
			return err
		}
		mainConfig = cfg

		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		lg, err := newLogger(level)
		if err != nil {
			return err
		}
		logger = lg

		logger.Debug("Loaded configuration",
			zap.String("config", cfgFile),
			zap.String("input_dir", cfg.InputDir),
			zap.String("output_dir", cfg.OutputDir),
		)
		return nil
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main().
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errSilent) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		cancel()
		os.Exit(1)
	}
}

// newLogger builds a console logger writing to stderr, so stdout stays free
// for documents.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "parse log level")
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Development = lvl == zapcore.DebugLevel
	cfg.DisableStacktrace = lvl != zapcore.DebugLevel
	cfg.OutputPaths = []string{"stderr"}

	lg, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return lg, nil
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
