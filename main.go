// =============================================================================
// Contractor Bill Generator - Main Entry Point
// =============================================================================
//
// USAGE:
//   billgen process       - Bill every workbook in the input directory
//   billgen validate      - Check workbooks and job files without writing
//   billgen version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Billing engine, loaders, renderers, configuration
//   - pkg/           : Shared utilities (money formatting, file management)
//   - jobs/          : One YAML file per bill job
//
// =============================================================================

package main

import (
	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/cmd"
)

func main() {
	cmd.Execute()
}
