// =============================================================================
// POSLog XML Generator - Compare Command
// =============================================================================
//
// This file defines the 'compare' command, which checks a document against
// the reference document in canonical form.
//
// COMMAND USAGE:
//   poslog compare [flags] [GENERATED.xml]
//
// Without an argument the document is generated from --fixture (or the
// default transaction) and compared without being written.
//
// OUTPUT:
//   stdout : both canonical strings, generated first
//   stderr : an element-path diff when they differ
//   exit   : 0 when equal, 1 otherwise
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/poslog-xml/internal/canonical"
	"github.com/ginjaninja78/poslog-xml/internal/converter"
	"github.com/ginjaninja78/poslog-xml/pkg/utils"
)

var compareFlags struct {
	fixture   string
	items     string
	reference string
}

var compareCmd = &cobra.Command{
	Use:   "compare [GENERATED.xml]",
	Short: "Compare a document with the reference in canonical form",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reference := compareFlags.reference
		if reference == "" {
			reference = mainConfig.ReferenceFile
		}
		if !utils.FileExists(reference) {
			return errors.Wrapf(os.ErrNotExist, "reference file %s", reference)
		}

		generated, err := compareInput(cmd, args)
		if err != nil {
			return err
		}

		result, err := canonical.CompareFile(generated, reference)

		var mismatch *canonical.MismatchError
		switch {
		case errors.As(err, &mismatch):
			printCanonical(cmd, result)
			fmt.Fprint(cmd.ErrOrStderr(), mismatch.Error())
			return errSilent
		case err != nil:
			return err
		}

		printCanonical(cmd, result)
		logger.Info("Documents are canonically equal", zap.String("reference", reference))
		return nil
	},
}

// compareInput returns the document under test: the file argument, or a
// freshly generated document.
func compareInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, errors.Wrap(err, "read generated document")
		}
		return data, nil
	}

	fixture, err := loadFixture(compareFlags.fixture)
	if err != nil {
		return nil, err
	}

	result := converter.New(fixture, mainConfig, logger).WithOptions(converter.Options{
		ItemsFile: compareFlags.items,
		SkipWrite: true,
	}).Run(cmd.Context())
	if result.Error != nil {
		return nil, result.Error
	}
	return result.Document, nil
}

func printCanonical(cmd *cobra.Command, result *canonical.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "generated: %s\n", result.Generated)
	fmt.Fprintf(out, "expected:  %s\n", result.Expected)
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringVar(&compareFlags.fixture, "fixture", "", "Fixture file describing the transaction")
	compareCmd.Flags().StringVar(&compareFlags.items, "items", "", "CSV or XLSX file with basket items")
	compareCmd.Flags().StringVar(&compareFlags.reference, "reference", "", "Reference document. Default: reference_file from config")
}
