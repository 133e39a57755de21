// =============================================================================
// Shop Analytics - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Shop Analytics CLI application. It
// delegates command execution to the cmd package.
//
// USAGE:
//   analytics               - Interactive menu
//   analytics revenue       - Total revenue with and without tax
//   analytics stock         - Available stock per product
//   analytics top           - Best-selling products
//   analytics all           - Every report in sequence
//   analytics export        - Every report written to an XLSX workbook
//   analytics version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra) and the menu
//   - internal/      : Table readers, record parsing, aggregation, reports
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/shop-analytics/cmd"
)

func main() {
	cmd.Execute()
}
