// =============================================================================
// Contractor Bill Generator - Converter Module
// =============================================================================
//
// This module runs the bill pipeline for a single input, from reading the
// sheets to writing the documents.
//
// PIPELINE:
//   1. Load the three sheets (a workbook, or a directory of CSV sheets)
//   2. Convert the job configuration into billing parameters
//   3. Compute the bill
//   4. Build the output documents
//   5. Render the enabled formats (JSON, PDF, workbook)
//   6. Write the output files
//   7. Archive the input and the outputs
//
// CONCURRENCY:
//   A Converter owns no shared state, so the process command runs one per
//   input concurrently.
//
// =============================================================================

package converter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/billing"
	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/config"
	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/csvparser"
	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/render"
	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/types"
	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/xlsxparser"
	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/pkg/utils"
)

// Error types reported in logs and summaries.
const (
	ErrorTypeValidation = "validation"
	ErrorTypeProcessing = "processing"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single input.
type Result struct {
	// FilePath is the path to the input that was processed.
	FilePath string

	// JobName is the job whose terms were applied.
	JobName string

	// OutputFiles are the documents written, in order. Empty on failure
	// and on dry runs.
	OutputFiles []string

	// ArchivePath is where the input was moved, if it was archived.
	ArchivePath string

	// Success indicates whether the processing was successful.
	Success bool

	// Error contains the error if processing failed.
	Error error

	// Bill is the computed bill, set once computation succeeded.
	Bill *types.Bill

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ErrorType classifies Error for logs: bad input data or terms are
// "validation", everything else "processing".
func (r Result) ErrorType() string {
	if errors.Is(r.Error, billing.ErrValidation) {
		return ErrorTypeValidation
	}
	return ErrorTypeProcessing
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// MainItems is the number of work-order rows billed.
	MainItems int

	// ExtraItems is the number of extra items billed.
	ExtraItems int

	// SkippedRows is the number of rows left out of the bill.
	SkippedRows int

	// ProcessingTime is the time taken to process the input.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter runs the bill pipeline for one input.
type Converter struct {
	inputPath  string
	job        *config.JobConfig
	mainConfig *config.MainConfig
	files      *utils.FileManager
	logger     *slog.Logger
	dryRun     bool
}

// New creates a new Converter instance.
//
// PARAMETERS:
//   - inputPath: A workbook, or a directory holding the three CSV sheets.
//   - job: The job whose terms apply to the input.
//   - mainConfig: The main application configuration.
//   - logger: The logger; nil discards.
func New(inputPath string, job *config.JobConfig, mainConfig *config.MainConfig, logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Converter{
		inputPath:  inputPath,
		job:        job,
		mainConfig: mainConfig,
		files:      mainConfig.FileManager(),
		logger:     logger.With("input", filepath.Base(inputPath), "job", job.JobName),
	}
}

// WithDryRun makes Run compute and render the bill without writing or
// archiving anything.
func (c *Converter) WithDryRun(dryRun bool) *Converter {
	c.dryRun = dryRun
	return c
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the pipeline for the input. It stops between steps when ctx
// is cancelled.
//
// RETURNS:
//   - A Result struct containing the outcome of the processing.
func (c *Converter) Run(ctx context.Context) Result {
	startTime := time.Now()
	result := Result{
		FilePath: c.inputPath,
		JobName:  c.job.JobName,
	}
	fail := func(err error) Result {
		result.Error = err
		result.Stats.ProcessingTime = time.Since(startTime)
		return result
	}

	c.logger.Info("Processing input")

	// =========================================================================
	// STEP 1: LOAD SHEETS
	// =========================================================================

	sheets, err := LoadSheets(c.inputPath, c.job.CSVSettings)
	if err != nil {
		return fail(fmt.Errorf("failed to load sheets: %w", err))
	}
	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	// =========================================================================
	// STEP 2: BUILD PARAMETERS
	// =========================================================================

	params, err := c.job.Parameters(c.mainConfig)
	if err != nil {
		return fail(fmt.Errorf("invalid job %s: %w", c.job.JobName, err))
	}

	// =========================================================================
	// STEP 3: COMPUTE THE BILL
	// =========================================================================

	bill, err := billing.Compute(sheets, params, billing.Options{Logger: c.logger})
	if err != nil {
		return fail(fmt.Errorf("failed to compute bill: %w", err))
	}

	result.Bill = bill
	result.Stats.MainItems = countPriced(bill.MainItems) - len(bill.ExtraItems)
	result.Stats.ExtraItems = len(bill.ExtraItems)
	result.Stats.SkippedRows = countSkipped(bill.Diagnostics)

	c.logger.Debug("Computed bill",
		"bill_type", bill.BillType,
		"grand_total", bill.Totals.GrandTotal,
		"by_cheque", bill.Deductions.ByCheque)

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	// =========================================================================
	// STEP 4-5: BUILD AND RENDER DOCUMENTS
	// =========================================================================

	docs := billing.BuildDocuments(bill, params.Metadata, c.mainConfig.BillingOffice())

	outputs, err := c.render(docs)
	if err != nil {
		return fail(err)
	}

	if c.dryRun {
		c.logger.Info("Dry run: nothing written", "documents", len(outputs))
		result.Success = true
		result.Stats.ProcessingTime = time.Since(startTime)
		return result
	}
	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	// =========================================================================
	// STEP 6: WRITE OUTPUT FILES
	// =========================================================================

	if err := os.MkdirAll(c.mainConfig.OutputDir, 0755); err != nil {
		return fail(fmt.Errorf("failed to create output directory: %w", err))
	}

	base := c.files.GenerateOutputBaseName(c.mainConfig.OutputNameFormat, map[string]string{
		"job":   c.job.JobName,
		"input": strings.TrimSuffix(filepath.Base(c.inputPath), filepath.Ext(c.inputPath)),
	})
	for _, out := range outputs {
		path, err := c.files.WriteOutput(base, out.suffix, out.ext, out.data)
		if err != nil {
			return fail(fmt.Errorf("failed to write output: %w", err))
		}
		result.OutputFiles = append(result.OutputFiles, path)
		c.logger.Debug("Wrote output", "path", path)
	}

	// =========================================================================
	// STEP 7: ARCHIVE FILES
	// =========================================================================
	// Archival problems are logged but do not fail a bill already written.

	c.archive(&result)

	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)
	c.logger.Info("Bill generated",
		"outputs", len(result.OutputFiles),
		"skipped_rows", result.Stats.SkippedRows,
		"duration", result.Stats.ProcessingTime)

	return result
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// LoadSheets reads the sheets of an input: a directory is read as a CSV
// export, anything else as a workbook.
func LoadSheets(path string, settings config.CSVSettings) (types.Sheets, error) {
	info, err := os.Stat(path)
	if err != nil {
		return types.Sheets{}, err
	}
	if info.IsDir() {
		if !csvparser.IsSheetDir(path) {
			return types.Sheets{}, billing.NewValidationError("sheets",
				fmt.Sprintf("Directory %s holds no %s", filepath.Base(path), csvparser.FileName(types.SheetWorkOrder)))
		}
		return csvparser.LoadDir(path, settings)
	}
	return xlsxparser.Load(path)
}

// output is one rendered file before it is named.
type output struct {
	suffix string
	ext    string
	data   []byte
}

// render produces every enabled format in a fixed order.
func (c *Converter) render(docs types.Documents) ([]output, error) {
	var outputs []output

	if c.mainConfig.WantsFormat(config.FormatJSON) {
		data, err := render.JSON(docs)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, output{"documents", "json", data})
	}

	if c.mainConfig.WantsFormat(config.FormatXLSX) {
		data, err := render.Workbook(docs)
		if err != nil {
			return nil, fmt.Errorf("failed to render workbook: %w", err)
		}
		outputs = append(outputs, output{"bill", "xlsx", data})
	}

	if c.mainConfig.WantsFormat(config.FormatPDF) {
		files, err := render.PDFs(docs)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			outputs = append(outputs, output{f.Name, "pdf", f.Data})
		}
	}

	return outputs, nil
}

// archive copies the outputs and moves the input to the archives.
func (c *Converter) archive(result *Result) {
	for _, path := range result.OutputFiles {
		if _, err := c.files.ArchiveOutput(path); err != nil {
			c.logger.Warn("Failed to archive output", "path", path, "error", err)
		}
	}

	archived, err := c.files.ArchiveInput(c.inputPath)
	if err != nil {
		c.logger.Warn("Failed to archive input", "error", err)
		return
	}
	if archived != c.inputPath {
		result.ArchivePath = archived
	}
}

// countPriced counts the non-divider items.
// countSkipped counts the rows left out of the bill, not those kept with a
// cell taken as zero.
func countSkipped(diagnostics []types.RowSkip) int {
	n := 0
	for _, d := range diagnostics {
		if !d.Kept {
			n++
		}
	}
	return n
}

func countPriced(items []types.LineItem) int {
	n := 0
	for _, item := range items {
		if !item.IsDivider {
			n++
		}
	}
	return n
}
