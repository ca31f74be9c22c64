package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *FileManager {
	t.Helper()
	root := t.TempDir()
	fm := NewFileManager(
		filepath.Join(root, "input"),
		filepath.Join(root, "output"),
		filepath.Join(root, "input_archive"),
		filepath.Join(root, "output_archive"),
	)
	fm.now = func() time.Time { return time.Date(2024, 10, 15, 9, 30, 0, 0, time.UTC) }
	require.NoError(t, fm.EnsureDirectories())
	return fm
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))
}

func TestDiscoverInputs(t *testing.T) {
	fm := newTestManager(t)
	touch(t, filepath.Join(fm.InputDir, "b.xlsx"))
	touch(t, filepath.Join(fm.InputDir, "a.xlsx"))
	touch(t, filepath.Join(fm.InputDir, "~$a.xlsx"))
	touch(t, filepath.Join(fm.InputDir, "notes.txt"))
	touch(t, filepath.Join(fm.InputDir, "wall", "work_order.csv"))
	require.NoError(t, os.MkdirAll(filepath.Join(fm.InputDir, "empty"), 0o755))

	isSheetDir := func(dir string) bool {
		_, err := os.Stat(filepath.Join(dir, "work_order.csv"))
		return err == nil
	}

	inputs, err := fm.DiscoverInputs("", isSheetDir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(fm.InputDir, "a.xlsx"),
		filepath.Join(fm.InputDir, "b.xlsx"),
		filepath.Join(fm.InputDir, "wall"),
	}, inputs)

	inputs, err = fm.DiscoverInputs("b.*", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(fm.InputDir, "b.xlsx")}, inputs)
}

func TestGenerateOutputBaseName(t *testing.T) {
	fm := newTestManager(t)

	name := fm.GenerateOutputBaseName("{job}_{input}_{timestamp}", map[string]string{
		"job":   "boundary wall",
		"input": "bills/oct",
	})
	assert.Equal(t, "boundary_wall_bills-oct_20241015_093000", name)

	withID := fm.GenerateOutputBaseName("{date}_{uuid}", nil)
	assert.True(t, strings.HasPrefix(withID, "20241015_"))
	assert.Len(t, withID, len("20241015_")+36)
}

func TestWriteOutputAndArchive(t *testing.T) {
	fm := newTestManager(t)
	fm.UseTimestampSubdirs = true

	path, err := fm.WriteOutput("wall", "certificate", "pdf", []byte("%PDF-"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(fm.OutputDir, "wall_certificate.pdf"), path)

	archived, err := fm.ArchiveOutput(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(fm.OutputArchiveDir, "2024", "10", "15", "wall_certificate.pdf"), archived)
	assert.FileExists(t, path)
	assert.FileExists(t, archived)

	input := filepath.Join(fm.InputDir, "wall.xlsx")
	touch(t, input)
	moved, err := fm.ArchiveInput(input)
	require.NoError(t, err)
	assert.NoFileExists(t, input)
	assert.FileExists(t, moved)
}

func TestArchiveInputDirectory(t *testing.T) {
	fm := newTestManager(t)
	dir := filepath.Join(fm.InputDir, "wall")
	touch(t, filepath.Join(dir, "work_order.csv"))

	moved, err := fm.ArchiveInput(dir)
	require.NoError(t, err)
	assert.NoDirExists(t, dir)
	assert.FileExists(t, filepath.Join(moved, "work_order.csv"))
}

func TestArchiveDisabled(t *testing.T) {
	fm := newTestManager(t)
	fm.ArchiveOnSuccess = false
	input := filepath.Join(fm.InputDir, "wall.xlsx")
	touch(t, input)

	got, err := fm.ArchiveInput(input)
	require.NoError(t, err)
	assert.Equal(t, input, got)
	assert.FileExists(t, input)
}

func TestCleanOldArchives(t *testing.T) {
	fm := newTestManager(t)
	old := filepath.Join(fm.InputArchiveDir, "old.xlsx")
	fresh := filepath.Join(fm.OutputArchiveDir, "fresh.pdf")
	touch(t, old)
	touch(t, fresh)
	past := fm.now().Add(-60 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))
	require.NoError(t, os.Chtimes(fresh, fm.now(), fm.now()))

	removed, err := fm.CleanOldArchives(30 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.NoFileExists(t, old)
	assert.FileExists(t, fresh)
}

func TestWriteErrorLog(t *testing.T) {
	fm := newTestManager(t)

	path, err := fm.WriteErrorLog(nil)
	require.NoError(t, err)
	assert.Empty(t, path)

	path, err = fm.WriteErrorLog([]ErrorLogEntry{{
		Timestamp:    fm.now(),
		FileName:     "wall.xlsx",
		JobName:      "wall",
		ErrorType:    "row_skipped",
		ErrorMessage: "not a number",
		Sheet:        "Bill Quantity",
		RowNumber:    23,
		FieldValue:   "abc",
	}})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	log := string(data)
	assert.Contains(t, log, "Total Errors: 1")
	assert.Contains(t, log, "Sheet:          Bill Quantity")
	assert.Contains(t, log, "Row Number:     23")
	assert.Contains(t, log, "Value:          abc")
}

func TestWriteSummaryLog(t *testing.T) {
	fm := newTestManager(t)

	path, err := fm.WriteSummaryLog(ProcessingSummary{
		RunID:           "run-1",
		StartTime:       fm.now(),
		EndTime:         fm.now().Add(2 * time.Second),
		TotalFiles:      2,
		SuccessfulFiles: 1,
		FailedFiles:     1,
		TotalByCheque:   123456,
		ProcessedFiles: []ProcessedFileInfo{{
			InputFile:   "wall.xlsx",
			JobName:     "wall",
			BillType:    "Final Bill",
			OutputFiles: []string{"wall_first_page.pdf"},
			GrandTotal:  150000,
			ByCheque:    123456,
		}},
		FailedFilesList: []FailedFileInfo{{InputFile: "road.xlsx", ErrorType: "validation", ErrorMessage: "Bill Quantity sheet is empty"}},
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(fm.OutputDir, "processing_summary_20241015_093000.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	summary := string(data)
	assert.Contains(t, summary, "Run ID:         run-1")
	assert.Contains(t, summary, "Total By Cheque:    Rs. 1,23,456")
	assert.Contains(t, summary, "Output:       wall_first_page.pdf")
	assert.Contains(t, summary, "Error: Bill Quantity sheet is empty")
}
