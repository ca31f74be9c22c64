// =============================================================================
// Contractor Bill Generator - File Manager Utility
// =============================================================================
//
// This module handles the files around a bill run:
//   - Discovering workbooks (and CSV sheet directories) in the input directory
//   - Naming and writing the generated documents
//   - Archiving inputs and outputs after a successful run
//   - Writing the error log and the processing summary of a batch
//
// ARCHIVAL STRATEGY:
//   - Inputs are moved to the input archive after a successful run
//   - Outputs are copied to the output archive and stay in the output directory
//   - Failed inputs remain where they are so they can be corrected and rerun
//   - Archives older than the retention period can be cleaned at batch start
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for bill runs.
type FileManager struct {
	// InputDir is the directory where workbooks are placed.
	InputDir string

	// OutputDir is the directory where documents are written.
	OutputDir string

	// InputArchiveDir is the directory for archived workbooks.
	InputArchiveDir string

	// OutputArchiveDir is the directory for archived documents.
	OutputArchiveDir string

	// UseTimestampSubdirs creates date-based subdirectories in archives.
	// Example: input_archive/2024/01/15/bill.xlsx
	UseTimestampSubdirs bool

	// ArchiveOnSuccess determines whether to archive files after a successful run.
	ArchiveOnSuccess bool

	// now is replaced in tests.
	now func() time.Time
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(inputDir, outputDir, inputArchiveDir, outputArchiveDir string) *FileManager {
	return &FileManager{
		InputDir:         inputDir,
		OutputDir:        outputDir,
		InputArchiveDir:  inputArchiveDir,
		OutputArchiveDir: outputArchiveDir,
		ArchiveOnSuccess: true,
		now:              time.Now,
	}
}

func (fm *FileManager) clock() time.Time {
	if fm.now == nil {
		return time.Now()
	}
	return fm.now()
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates all required directories if they don't exist.
//
// RETURNS:
//   - An error if any directory cannot be created.
func (fm *FileManager) EnsureDirectories() error {
	dirs := []string{
		fm.InputDir,
		fm.OutputDir,
		fm.InputArchiveDir,
		fm.OutputArchiveDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// =============================================================================
// INPUT DISCOVERY
// =============================================================================

// DiscoverInputs scans the input directory for workbooks matching pattern
// and for subdirectories accepted by isInputDir, such as CSV sheet exports.
//
// PARAMETERS:
//   - pattern: A glob pattern to match workbooks (e.g., "*.xlsx").
//              If empty, defaults to "*.xlsx".
//   - isInputDir: Reports whether a subdirectory is an input. May be nil.
//
// RETURNS:
//   - The input paths, workbooks first, each group in name order.
//   - An error if the directory cannot be read.
func (fm *FileManager) DiscoverInputs(pattern string, isInputDir func(string) bool) ([]string, error) {
	if pattern == "" {
		pattern = "*.xlsx"
	}

	files, err := filepath.Glob(filepath.Join(fm.InputDir, pattern))
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	var result []string
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}
		// Excel lock files ("~$bill.xlsx") are not workbooks.
		if !info.IsDir() && !strings.HasPrefix(info.Name(), "~$") {
			result = append(result, file)
		}
	}

	if isInputDir == nil {
		return result, nil
	}

	entries, err := os.ReadDir(fm.InputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}
	for _, entry := range entries {
		path := filepath.Join(fm.InputDir, entry.Name())
		if entry.IsDir() && isInputDir(path) {
			result = append(result, path)
		}
	}

	return result, nil
}

// =============================================================================
// OUTPUT FILES
// =============================================================================

// GenerateOutputBaseName expands the placeholders of an output name format.
//
// PARAMETERS:
//   - format: The format string for the name.
//             Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//               any key of params, e.g. {job} and {input}
//   - params: A map of placeholder values.
//
// RETURNS:
//   - The base name, without extension. Path separators and spaces in
//     placeholder values are replaced so the name stays one file name.
//
// EXAMPLE:
//   format: "{job}_{timestamp}_{uuid}"
//   params: {"job": "boundary-wall"}
//   output: "boundary-wall_20240115_143022_a1b2c3d4-e5f6-7890-abcd-ef1234567890"
func (fm *FileManager) GenerateOutputBaseName(format string, params map[string]string) string {
	now := fm.clock()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = safeNamePart(value)
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}
	return result
}

func safeNamePart(s string) string {
	return strings.NewReplacer("/", "-", "\\", "-", " ", "_", ":", "-").Replace(strings.TrimSpace(s))
}

// WriteOutput writes one generated document as OutputDir/<base>_<suffix>.<ext>.
//
// RETURNS:
//   - The path written.
//   - An error if the file cannot be written.
func (fm *FileManager) WriteOutput(base, suffix, ext string, data []byte) (string, error) {
	name := base
	if suffix != "" {
		name += "_" + suffix
	}
	path := filepath.Join(fm.OutputDir, name+"."+ext)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return path, nil
}

// =============================================================================
// FILE ARCHIVAL
// =============================================================================

// ArchiveInput moves a workbook, or a directory of CSV sheets, to the
// input archive.
//
// PARAMETERS:
//   - path: The path to the input to archive.
//
// RETURNS:
//   - The path to the archived input.
//   - An error if archival fails.
func (fm *FileManager) ArchiveInput(path string) (string, error) {
	if !fm.ArchiveOnSuccess {
		return path, nil
	}

	archivePath := fm.getArchivePath(fm.InputArchiveDir, path)
	if err := os.MkdirAll(filepath.Dir(archivePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	if err := os.Rename(path, archivePath); err != nil {
		info, statErr := os.Stat(path)
		if statErr != nil || info.IsDir() {
			return "", fmt.Errorf("failed to move input to archive: %w", err)
		}
		// If rename fails (e.g., cross-device), try copy and delete.
		if err := copyFile(path, archivePath); err != nil {
			return "", fmt.Errorf("failed to copy file to archive: %w", err)
		}
		if err := os.Remove(path); err != nil {
			return "", fmt.Errorf("failed to remove original file: %w", err)
		}
	}

	return archivePath, nil
}

// ArchiveOutput copies a generated document to the output archive.
//
// NOTE: Outputs are copied, not moved, so they remain in the output directory.
func (fm *FileManager) ArchiveOutput(path string) (string, error) {
	if !fm.ArchiveOnSuccess {
		return path, nil
	}

	archivePath := fm.getArchivePath(fm.OutputArchiveDir, path)
	if err := os.MkdirAll(filepath.Dir(archivePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	if err := copyFile(path, archivePath); err != nil {
		return "", fmt.Errorf("failed to copy file to archive: %w", err)
	}

	return archivePath, nil
}

// getArchivePath constructs the archive path for a file.
func (fm *FileManager) getArchivePath(archiveDir, path string) string {
	name := filepath.Base(path)

	if fm.UseTimestampSubdirs {
		now := fm.clock()
		return filepath.Join(
			archiveDir,
			fmt.Sprintf("%d", now.Year()),
			fmt.Sprintf("%02d", now.Month()),
			fmt.Sprintf("%02d", now.Day()),
			name,
		)
	}

	return filepath.Join(archiveDir, name)
}

// CleanOldArchives removes archived files older than maxAge from both
// archive directories.
//
// RETURNS:
//   - The number of files removed.
//   - An error if cleaning fails.
func (fm *FileManager) CleanOldArchives(maxAge time.Duration) (int, error) {
	cutoff := fm.clock().Add(-maxAge)
	removed := 0

	for _, dir := range []string{fm.InputArchiveDir, fm.OutputArchiveDir} {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				if os.IsNotExist(err) {
					return nil
				}
				return err
			}
			if info.IsDir() {
				return nil
			}
			if info.ModTime().Before(cutoff) {
				if err := os.Remove(path); err != nil {
					return err
				}
				removed++
			}
			return nil
		})
		if err != nil {
			return removed, fmt.Errorf("failed to clean archives: %w", err)
		}
	}

	return removed, nil
}

// =============================================================================
// ERROR LOG GENERATION
// =============================================================================

// ErrorLogEntry represents a single error log entry.
type ErrorLogEntry struct {
	Timestamp    time.Time
	FileName     string
	JobName      string
	ErrorType    string
	ErrorMessage string
	Sheet        string
	RowNumber    int
	FieldValue   string
}

// WriteErrorLog writes error entries to a log file in the output directory.
//
// RETURNS:
//   - The path to the error log file, or "" when there is nothing to log.
//   - An error if writing fails.
func (fm *FileManager) WriteErrorLog(entries []ErrorLogEntry) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	now := fm.clock()
	logPath := filepath.Join(fm.OutputDir, fmt.Sprintf("error_log_%s.txt", now.Format("20060102_150405")))

	file, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to create error log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	fmt.Fprintf(writer, "Contractor Bill Generator - Error Log\n"+
		"Generated: %s\n"+
		"Total Errors: %d\n"+
		"================================================================================\n\n",
		now.Format("2006-01-02 15:04:05"),
		len(entries))

	for i, entry := range entries {
		fmt.Fprintf(writer, "Error #%d\n"+
			"  Timestamp:      %s\n"+
			"  File:           %s\n",
			i+1,
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			entry.FileName)
		if entry.JobName != "" {
			fmt.Fprintf(writer, "  Job:            %s\n", entry.JobName)
		}
		fmt.Fprintf(writer, "  Error Type:     %s\n"+
			"  Message:        %s\n",
			entry.ErrorType,
			entry.ErrorMessage)
		if entry.Sheet != "" {
			fmt.Fprintf(writer, "  Sheet:          %s\n", entry.Sheet)
		}
		if entry.RowNumber > 0 {
			fmt.Fprintf(writer, "  Row Number:     %d\n", entry.RowNumber)
		}
		if entry.FieldValue != "" {
			fmt.Fprintf(writer, "  Value:          %s\n", entry.FieldValue)
		}
		writer.WriteString("\n")
	}

	writer.WriteString("================================================================================\n" +
		"End of Error Log\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush error log: %w", err)
	}

	return logPath, nil
}

// =============================================================================
// PROCESSING SUMMARY
// =============================================================================

// ProcessingSummary contains summary information about a batch run.
type ProcessingSummary struct {
	RunID           string
	StartTime       time.Time
	EndTime         time.Time
	TotalFiles      int
	SuccessfulFiles int
	FailedFiles     int
	SkippedRows     int
	TotalByCheque   int64
	ProcessedFiles  []ProcessedFileInfo
	FailedFilesList []FailedFileInfo
}

// ProcessedFileInfo contains information about a successfully billed input.
type ProcessedFileInfo struct {
	InputFile   string
	JobName     string
	BillType    string
	OutputFiles []string
	ArchivePath string
	GrandTotal  int64
	ByCheque    int64
	SkippedRows int
	ProcessTime time.Duration
}

// FailedFileInfo contains information about a failed input.
type FailedFileInfo struct {
	InputFile    string
	ErrorMessage string
	ErrorType    string
}

// WriteSummaryLog writes a processing summary to the output directory.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func (fm *FileManager) WriteSummaryLog(summary ProcessingSummary) (string, error) {
	summaryPath := filepath.Join(fm.OutputDir,
		fmt.Sprintf("processing_summary_%s.txt", fm.clock().Format("20060102_150405")))

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	duration := summary.EndTime.Sub(summary.StartTime)
	fmt.Fprintf(writer, "Contractor Bill Generator - Processing Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Run ID:         %s\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n\n"+
		"Statistics:\n"+
		"  Total Inputs:       %d\n"+
		"  Successful:         %d\n"+
		"  Failed:             %d\n"+
		"  Skipped Rows:       %d\n"+
		"  Total By Cheque:    Rs. %s\n\n",
		summary.RunID,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		duration.String(),
		summary.TotalFiles,
		summary.SuccessfulFiles,
		summary.FailedFiles,
		summary.SkippedRows,
		FormatRupees(summary.TotalByCheque))

	if len(summary.ProcessedFiles) > 0 {
		writer.WriteString("Successful Inputs:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, pf := range summary.ProcessedFiles {
			fmt.Fprintf(writer, "  Input:        %s\n", pf.InputFile)
			fmt.Fprintf(writer, "  Job:          %s\n", pf.JobName)
			fmt.Fprintf(writer, "  Bill Type:    %s\n", pf.BillType)
			for _, out := range pf.OutputFiles {
				fmt.Fprintf(writer, "  Output:       %s\n", out)
			}
			if pf.ArchivePath != "" {
				fmt.Fprintf(writer, "  Archived To:  %s\n", pf.ArchivePath)
			}
			fmt.Fprintf(writer, "  Grand Total:  Rs. %s\n", FormatRupees(pf.GrandTotal))
			fmt.Fprintf(writer, "  By Cheque:    Rs. %s\n", FormatRupees(pf.ByCheque))
			fmt.Fprintf(writer, "  Skipped Rows: %d\n", pf.SkippedRows)
			fmt.Fprintf(writer, "  Process Time: %s\n\n", pf.ProcessTime.String())
		}
	}

	if len(summary.FailedFilesList) > 0 {
		writer.WriteString("Failed Inputs:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, ff := range summary.FailedFilesList {
			fmt.Fprintf(writer, "  File:  %s\n", ff.InputFile)
			fmt.Fprintf(writer, "  Type:  %s\n", ff.ErrorType)
			fmt.Fprintf(writer, "  Error: %s\n\n", ff.ErrorMessage)
		}
	}

	writer.WriteString("================================================================================\n" +
		"End of Summary\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}
