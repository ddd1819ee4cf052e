package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/poslog-xml/internal/xmlwriter"
)

// xsdCmd prints the schema of the generated documents.
var xsdCmd = &cobra.Command{
	Use:   "xsd",
	Short: "Print the XSD describing generated documents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := cmd.OutOrStdout().Write(xmlwriter.GenerateXSD())
		return err
	},
}

func init() {
	rootCmd.AddCommand(xsdCmd)
}
