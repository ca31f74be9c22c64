// =============================================================================
// Contractor Bill Generator - Process Command
// =============================================================================
//
// This file defines the 'process' command, which bills every workbook in the
// input directory.
//
// COMMAND USAGE:
//   billgen process [flags]
//
// FLAGS:
//   --dry-run     : Compute and render bills without writing or archiving
//   --single      : Process only a single input (specify with --file)
//   --file        : Path to a specific input to process (used with --single)
//   --job         : Process only inputs matching a specific job
//
// PROCESSING PIPELINE:
//   1. Load the job configurations
//   2. Discover workbooks and CSV sheet directories in the input directory
//   3. Match each input to a job
//   4. For each input (concurrently, bounded by max_concurrency):
//      a. Load the sheets
//      b. Compute the bill
//      c. Render and write the documents
//      d. Archive the input and outputs
//   5. Write the error log and the processing summary
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/config"
	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/converter"
	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/csvparser"
	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	// dryRun computes and renders bills without writing output files.
	dryRun bool

	// singleFile indicates whether to process only a single input.
	singleFile bool

	// filePath is the path to a specific input to process (used with --single).
	filePath string

	// jobName filters processing to a specific job.
	jobName string
)

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Generate contractor bills from the workbooks in the input directory",
	Long: `The process command scans the input directory for bill workbooks (and
directories of CSV sheets), matches each to a job file, and writes the bill
documents in the configured formats.

Inputs are processed concurrently. An input that fails does not stop the
others unless continue_on_error is false.

On success:
  - The documents are written to the output directory
  - The input is moved to the input archive
  - The documents are copied to the output archive

On error:
  - The error is written to an error log in the output directory
  - The input remains in the input directory

Skipped rows are listed in the error log even when the bill succeeds.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return runProcess(ctx, cmd)
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().BoolVar(&dryRun, "dry-run", false,
		"Compute and render bills without writing or archiving anything")
	processCmd.Flags().BoolVar(&singleFile, "single", false,
		"Process only a single input (use with --file)")
	processCmd.Flags().StringVar(&filePath, "file", "",
		"Path to a specific input to process (used with --single)")
	processCmd.Flags().StringVar(&jobName, "job", "",
		"Process only inputs matching a specific job")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runProcess orchestrates the bill pipeline over all inputs.
func runProcess(ctx context.Context, cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	summary := utils.ProcessingSummary{
		RunID:     uuid.NewString(),
		StartTime: time.Now(),
	}
	log := logger.With("run_id", summary.RunID)

	// =========================================================================
	// STEP 1: LOAD JOB CONFIGURATION
	// =========================================================================

	jobs, err := config.LoadJobConfigs(mainConfig.JobsDir)
	if err != nil {
		return fmt.Errorf("failed to load job configs: %w", err)
	}
	if jobName != "" {
		job, ok := jobs[jobName]
		if !ok {
			return fmt.Errorf("unknown job %q", jobName)
		}
		jobs = map[string]*config.JobConfig{jobName: job}
	}
	log.Info("Loaded job configurations", "count", len(jobs))

	files := mainConfig.FileManager()
	if !dryRun {
		if err := files.EnsureDirectories(); err != nil {
			return err
		}
		if days := mainConfig.ArchiveRetentionDays; days > 0 {
			removed, err := files.CleanOldArchives(time.Duration(days) * 24 * time.Hour)
			if err != nil {
				log.Warn("Failed to clean old archives", "error", err)
			} else if removed > 0 {
				log.Info("Removed old archives", "count", removed)
			}
		}
	}

	// =========================================================================
	// STEP 2: DISCOVER INPUTS
	// =========================================================================

	var inputs []string
	if singleFile {
		if filePath == "" {
			return fmt.Errorf("--single requires --file")
		}
		inputs = []string{filePath}
	} else {
		inputs, err = files.DiscoverInputs(mainConfig.InputPattern, csvparser.IsSheetDir)
		if err != nil {
			return fmt.Errorf("failed to discover inputs: %w", err)
		}
	}

	if len(inputs) == 0 {
		fmt.Fprintln(out, "No bill workbooks found in the input directory.")
		return nil
	}
	log.Info("Discovered inputs", "count", len(inputs))

	// =========================================================================
	// STEP 3: PROCESS INPUTS CONCURRENTLY
	// =========================================================================

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(mainConfig.MaxConcurrency)

	var (
		mu      sync.Mutex
		results []converter.Result
	)
	collect := func(r converter.Result) {
		mu.Lock()
		results = append(results, r)
		mu.Unlock()
	}

	for _, input := range inputs {
		job := config.MatchJob(input, jobs)
		if job == nil {
			if jobName != "" {
				// Filtered out, not an error.
				continue
			}
			collect(converter.Result{
				FilePath: input,
				Error:    fmt.Errorf("no job configuration matches %s", filepath.Base(input)),
			})
			continue
		}

		g.Go(func() error {
			result := converter.New(input, job, mainConfig, log).WithDryRun(dryRun).Run(gctx)
			collect(result)
			if result.Error != nil && !mainConfig.ShouldContinueOnError() {
				return fmt.Errorf("%s: %w", filepath.Base(input), result.Error)
			}
			return nil
		})
	}

	groupErr := g.Wait()

	// =========================================================================
	// STEP 4: REPORT
	// =========================================================================

	var errorEntries []utils.ErrorLogEntry
	for _, r := range results {
		summary.TotalFiles++
		name := filepath.Base(r.FilePath)

		if !r.Success {
			summary.FailedFiles++
			summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
				InputFile:    name,
				ErrorMessage: r.Error.Error(),
				ErrorType:    r.ErrorType(),
			})
			errorEntries = append(errorEntries, utils.ErrorLogEntry{
				Timestamp:    time.Now(),
				FileName:     name,
				JobName:      r.JobName,
				ErrorType:    r.ErrorType(),
				ErrorMessage: r.Error.Error(),
			})
			fmt.Fprintf(out, "  ✗ %s: %v\n", name, r.Error)
			continue
		}

		summary.SuccessfulFiles++
		summary.SkippedRows += r.Stats.SkippedRows
		summary.TotalByCheque += r.Bill.Deductions.ByCheque
		summary.ProcessedFiles = append(summary.ProcessedFiles, utils.ProcessedFileInfo{
			InputFile:   name,
			JobName:     r.JobName,
			BillType:    string(r.Bill.BillType),
			OutputFiles: r.OutputFiles,
			ArchivePath: r.ArchivePath,
			GrandTotal:  r.Bill.Totals.GrandTotal,
			ByCheque:    r.Bill.Deductions.ByCheque,
			SkippedRows: r.Stats.SkippedRows,
			ProcessTime: r.Stats.ProcessingTime,
		})
		for _, s := range r.Bill.Diagnostics {
			errorType := "row_skipped"
			if s.Kept {
				errorType = "cell_taken_as_zero"
			}
			errorEntries = append(errorEntries, utils.ErrorLogEntry{
				Timestamp:    time.Now(),
				FileName:     name,
				JobName:      r.JobName,
				ErrorType:    errorType,
				ErrorMessage: s.Reason,
				Sheet:        s.Sheet,
				RowNumber:    s.Row,
				FieldValue:   s.Value,
			})
		}
		fmt.Fprintf(out, "  ✓ %s -> %d document(s), by cheque Rs. %s\n",
			name, len(r.OutputFiles), utils.FormatRupees(r.Bill.Deductions.ByCheque))
	}
	summary.EndTime = time.Now()

	fmt.Fprintln(out, "\n=== Processing Complete ===")
	fmt.Fprintf(out, "Total inputs:    %d\n", summary.TotalFiles)
	fmt.Fprintf(out, "Successful:      %d\n", summary.SuccessfulFiles)
	fmt.Fprintf(out, "Errors:          %d\n", summary.FailedFiles)
	fmt.Fprintf(out, "Skipped rows:    %d\n", summary.SkippedRows)
	fmt.Fprintf(out, "Time elapsed:    %s\n", summary.EndTime.Sub(summary.StartTime))

	if !dryRun {
		writeReports(log, files, summary, errorEntries)
	}

	if groupErr != nil {
		return groupErr
	}
	if summary.FailedFiles > 0 {
		return fmt.Errorf("%d of %d input(s) failed", summary.FailedFiles, summary.TotalFiles)
	}
	return nil
}

// writeReports writes the error log and summary; failures are logged only.
func writeReports(log *slog.Logger, files *utils.FileManager, summary utils.ProcessingSummary, entries []utils.ErrorLogEntry) {
	if path, err := files.WriteErrorLog(entries); err != nil {
		log.Error("Failed to write error log", "error", err)
	} else if path != "" {
		log.Info("Wrote error log", "path", path)
	}

	if path, err := files.WriteSummaryLog(summary); err != nil {
		log.Error("Failed to write processing summary", "error", err)
	} else {
		log.Info("Wrote processing summary", "path", path)
	}
}
