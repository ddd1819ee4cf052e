// =============================================================================
// POSLog XML Generator - Generate Command
// =============================================================================
//
// This file defines the 'generate' command, which renders one transaction.
//
// COMMAND USAGE:
//   poslog generate [flags]
//
// FLAGS:
//   --fixture : Fixture file. Default: fixture_file from config, or the
//               built-in default transaction
//   --items   : CSV or XLSX basket file, replaces the fixture's basket
//   --output  : Output directory, or "-" for stdout. Default: output_dir
//   --indent  : Pretty-print the document
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/poslog-xml/internal/config"
	"github.com/ginjaninja78/poslog-xml/internal/converter"
)

// stdoutOutput selects stdout as the generate destination.
const stdoutOutput = "-"

var generateFlags struct {
	fixture string
	items   string
	output  string
	indent  bool
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a POSLog document for one transaction",
	Long: `Generate renders one transaction as a POSLog document. Without a fixture the
built-in default transaction (store 1001, two items) is used.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := *mainConfig
		if generateFlags.output != "" {
			cfg.OutputDir = generateFlags.output
		}
		if generateFlags.indent {
			cfg.Indent = true
		}

		fixture, err := loadFixture(generateFlags.fixture)
		if err != nil {
			return err
		}

		toStdout := cfg.OutputDir == stdoutOutput
		conv := converter.New(fixture, &cfg, logger).WithOptions(converter.Options{
			ItemsFile: generateFlags.items,
			SkipWrite: toStdout,
		})

		result := conv.Run(cmd.Context())
		if result.Error != nil {
			return result.Error
		}

		if toStdout {
			out := cmd.OutOrStdout()
			if _, err := out.Write(result.Document); err != nil {
				return err
			}
			if !cfg.Indent {
				_, err = out.Write([]byte("\n"))
			}
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), result.OutputFile)
		logger.Debug("Generated document",
			zap.Int("line_items", result.Stats.LineItemsCreated),
			zap.Duration("elapsed", result.Stats.ProcessingTime),
		)
		return nil
	},
}

// loadFixture loads the fixture named by flag, falling back to fixture_file
// from the main configuration. It returns nil for the default transaction.
func loadFixture(flag string) (*config.Fixture, error) {
	path := flag
	if path == "" {
		path = mainConfig.FixtureFile
	}
	if path == "" {
		return nil, nil
	}
	return config.LoadFixture(path)
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&generateFlags.fixture, "fixture", "", "Fixture file describing the transaction")
	generateCmd.Flags().StringVar(&generateFlags.items, "items", "", "CSV or XLSX file with basket items")
	generateCmd.Flags().StringVarP(&generateFlags.output, "output", "o", "", `Output directory, or "-" for stdout`)
	generateCmd.Flags().BoolVar(&generateFlags.indent, "indent", false, "Pretty-print the document")
}
