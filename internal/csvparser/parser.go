// =============================================================================
// Contractor Bill Generator - CSV Sheet Loader
// =============================================================================
//
// Some offices export the three bill sheets as separate CSV files instead of
// one workbook. This module reads such an export: a directory holding
//
//   work_order.csv
//   bill_quantity.csv
//   extra_items.csv
//
// Each file keeps the layout of its sheet, header block included, so the
// rows line up with billing.Layout exactly as they do in the workbook.
//
// FEATURES:
//   - Configurable delimiter (comma, pipe, tab, semicolon)
//   - Ragged rows and lazy quotes accepted
//   - A UTF-8 byte order mark from spreadsheet exports is ignored
//
// =============================================================================

package csvparser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/billing"
	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/config"
	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/types"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// =============================================================================
// LOADER FUNCTIONS
// =============================================================================

// FileName returns the CSV file name that holds a sheet, for example
// "Bill Quantity" is read from "bill_quantity.csv".
func FileName(sheet string) string {
	return strings.ReplaceAll(strings.ToLower(sheet), " ", "_") + ".csv"
}

// IsSheetDir reports whether dir looks like a CSV export of a bill, that is
// whether it holds the Work Order file.
func IsSheetDir(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, FileName(types.SheetWorkOrder)))
	return err == nil && !info.IsDir()
}

// LoadDir reads the three sheet files of a CSV export.
//
// PARAMETERS:
//   - dir: The directory holding the sheet files.
//   - settings: The CSV settings from the job configuration.
//
// RETURNS:
//   - The sheets as cell grids.
//   - A *billing.ValidationError listing missing files, or an error if a
//     file cannot be read.
func LoadDir(dir string, settings config.CSVSettings) (types.Sheets, error) {
	grids := make(map[string]types.CellGrid, len(types.RequiredSheets))
	var missing []string

	for _, sheet := range types.RequiredSheets {
		path := filepath.Join(dir, FileName(sheet))
		grid, err := Parse(path, settings)
		if errors.Is(err, fs.ErrNotExist) {
			missing = append(missing, sheet)
			continue
		}
		if err != nil {
			return types.Sheets{}, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
		}
		grids[sheet] = grid
	}

	if len(missing) > 0 {
		return types.Sheets{}, billing.NewValidationError("sheets",
			fmt.Sprintf("CSV export missing required sheets: %s", strings.Join(missing, ", ")))
	}

	return types.Sheets{
		WorkOrder:    grids[types.SheetWorkOrder],
		BillQuantity: grids[types.SheetBillQuantity],
		ExtraItems:   grids[types.SheetExtraItems],
	}, nil
}

// Parse reads one CSV file into a cell grid.
func Parse(filePath string, settings config.CSVSettings) (types.CellGrid, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ParseReader(file, settings)
}

// ParseReader reads CSV data into a cell grid.
func ParseReader(r io.Reader, settings config.CSVSettings) (types.CellGrid, error) {
	reader := bufio.NewReader(r)
	if head, err := reader.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = reader.Discard(len(utf8BOM))
	}

	csvReader := csv.NewReader(reader)
	configureReader(csvReader, settings)

	rows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return types.NewGrid(rows), nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Sheets exported from a workbook are ragged: header rows are short.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
}
