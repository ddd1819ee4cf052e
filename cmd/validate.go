// =============================================================================
// POSLog XML Generator - Validate Command
// =============================================================================
//
// This file defines the 'validate' command. It binds a fixture, imports its
// items and runs validation without generating a document.
//
// COMMAND USAGE:
//   poslog validate [--fixture f.yaml] [--items f.csv]
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/poslog-xml/internal/converter"
	"github.com/ginjaninja78/poslog-xml/internal/validation"
)

var validateFlags struct {
	fixture string
	items   string
	strict  bool
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a fixture and its basket without generating XML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fixture, err := loadFixture(validateFlags.fixture)
		if err != nil {
			return err
		}

		conv := converter.New(fixture, mainConfig, logger).WithOptions(converter.Options{
			ItemsFile:             validateFlags.items,
			TreatWarningsAsErrors: validateFlags.strict,
		})

		order, imported, err := conv.BuildOrder()
		if err != nil {
			return err
		}

		result := conv.Validate(order)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Store %s, workstation %s: %d item(s), %d imported\n",
			order.Store.RetailerStoreID, order.Store.WorkstationID, result.ItemsValidated, imported)
		fmt.Fprint(out, validation.FormatErrors(result.Errors))
		if len(result.Errors) == 0 {
			fmt.Fprintln(out)
		}

		if !result.IsValid {
			return errSilent
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateFlags.fixture, "fixture", "", "Fixture file describing the transaction")
	validateCmd.Flags().StringVar(&validateFlags.items, "items", "", "CSV or XLSX file with basket items")
	validateCmd.Flags().BoolVar(&validateFlags.strict, "strict", false, "Treat warnings as errors")
}
