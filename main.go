// =============================================================================
// POSLog XML Generator - Main Entry Point
// =============================================================================
//
// USAGE:
//   poslog generate       - Render one transaction as POSLog XML
//   poslog compare        - Compare a document with the reference (C14N)
//   poslog process        - Render every fixture in the input directory
//   poslog validate       - Validate a fixture without rendering
//   poslog xsd            - Print the XSD of generated documents
//   poslog version        - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Transaction model, XML writer, canonical comparator,
//                      importers, validation and the conversion pipeline
//   - pkg/           : Shared file utilities
//   - input/         : Example fixtures for the process command
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/poslog-xml/cmd"
)

func main() {
	cmd.Execute()
}
