// =============================================================================
// Contractor Bill Generator - Validate Command
// =============================================================================
//
// COMMAND USAGE:
//   billgen validate [--file F] [--strict]
//
// Checks the job files and the inputs without writing or archiving
// anything. Each input is loaded, matched to its job and run through the
// billing engine; problems are printed per input.
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/config"
	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/csvparser"
	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/validation"
	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/pkg/utils"
)

var (
	// validateFile limits validation to one input.
	validateFile string

	// strict treats warnings as errors.
	strict bool
)

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check job files and workbooks without generating bills",
	Long: `The validate command loads every job file and every input in the input
directory (or only --file), and reports what would stop a bill or change it:
bad tender terms, missing sheets, negative quantities, rows the engine would
skip and contract details missing from the documents.

The command fails when any input has errors, or warnings with --strict.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		jobs, err := config.LoadJobConfigs(mainConfig.JobsDir)
		if err != nil {
			return fmt.Errorf("failed to load job configs: %w", err)
		}
		fmt.Fprintf(out, "Loaded %d job configuration(s)\n", len(jobs))

		inputs := []string{validateFile}
		if validateFile == "" {
			inputs, err = mainConfig.FileManager().DiscoverInputs(mainConfig.InputPattern, csvparser.IsSheetDir)
			if err != nil {
				return fmt.Errorf("failed to discover inputs: %w", err)
			}
		}

		v := validation.NewValidator(validation.Options{TreatWarningsAsErrors: strict})
		invalid := 0
		for _, input := range inputs {
			name := filepath.Base(input)
			job := config.MatchJob(input, jobs)
			if job == nil {
				invalid++
				fmt.Fprintf(out, "\n%s: no job configuration matches\n", name)
				continue
			}

			result := v.CheckInput(input, job, mainConfig)
			status := "OK"
			if !result.IsValid {
				status = "INVALID"
				invalid++
			}
			fmt.Fprintf(out, "\n%s (job %s): %s\n", name, job.JobName, status)
			if result.Bill != nil {
				fmt.Fprintf(out, "  %s, grand total Rs. %s, by cheque Rs. %s\n",
					result.Bill.BillType,
					utils.FormatRupees(result.Bill.Totals.GrandTotal),
					utils.FormatRupees(result.Bill.Deductions.ByCheque))
			}
			if len(result.Issues) > 0 {
				fmt.Fprint(out, validation.FormatIssues(result.Issues))
			}
			logger.Debug("Validated input", "input", name, "errors", result.ErrorCount, "warnings", result.WarningCount)
		}

		if invalid > 0 {
			return fmt.Errorf("%d of %d input(s) are invalid", invalid, len(inputs))
		}
		fmt.Fprintf(out, "\nAll %d input(s) are valid.\n", len(inputs))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateFile, "file", "",
		"Validate only this workbook or CSV sheet directory")
	validateCmd.Flags().BoolVar(&strict, "strict", false,
		"Treat warnings as errors")
}
