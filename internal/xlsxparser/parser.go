// =============================================================================
// Contractor Bill Generator - XLSX Workbook Loader
// =============================================================================
//
// This module reads a bill workbook into the cell grids the billing engine
// works on. A bill workbook carries three sheets:
//
//   | Sheet          | Data starts at | Holds                                   |
//   |----------------|----------------|-----------------------------------------|
//   | Work Order     | row 22         | description, unit, quantity, rate, BSR  |
//   | Bill Quantity  | row 22         | executed quantity per work-order row    |
//   | Extra Items    | row 7          | serial, BSR, description, qty, rate     |
//
// Cells are read raw (without number formatting) so that "1,200.00" shown
// in Excel reaches the engine as 1200. The loader does no arithmetic; the
// layout itself is described in billing.Layout.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/billing"
	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/types"
)

// =============================================================================
// LOADER FUNCTIONS
// =============================================================================

// Load opens an XLSX workbook and reads its three bill sheets.
//
// PARAMETERS:
//   - path: The path to the workbook.
//
// RETURNS:
//   - The sheets as cell grids.
//   - A *billing.ValidationError if a required sheet is missing, or an error
//     if the file cannot be opened or read.
func Load(path string) (types.Sheets, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return types.Sheets{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return readSheets(f)
}

// LoadReader reads a workbook from r, for example an upload held in memory.
func LoadReader(r io.Reader) (types.Sheets, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return types.Sheets{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return readSheets(f)
}

// readSheets resolves the required sheet names and reads each sheet.
func readSheets(f *excelize.File) (types.Sheets, error) {
	names, err := resolveSheetNames(f.GetSheetList())
	if err != nil {
		return types.Sheets{}, err
	}

	grids := make(map[string]types.CellGrid, len(names))
	for required, actual := range names {
		grid, err := readSheet(f, actual)
		if err != nil {
			return types.Sheets{}, fmt.Errorf("error reading sheet '%s': %w", actual, err)
		}
		grids[required] = grid
	}

	return types.Sheets{
		WorkOrder:    grids[types.SheetWorkOrder],
		BillQuantity: grids[types.SheetBillQuantity],
		ExtraItems:   grids[types.SheetExtraItems],
	}, nil
}

// resolveSheetNames maps each required sheet to the workbook's sheet. An
// exact name wins; otherwise names are compared ignoring case and
// surrounding spaces, since hand-edited workbooks often carry "Work order ".
//
// RETURNS:
//   - A map of required name to actual name.
//   - A *billing.ValidationError listing every missing sheet.
func resolveSheetNames(available []string) (map[string]string, error) {
	resolved := make(map[string]string, len(types.RequiredSheets))
	var missing []string

	for _, required := range types.RequiredSheets {
		actual := ""
		for _, name := range available {
			if name == required {
				actual = name
				break
			}
			if actual == "" && strings.EqualFold(strings.TrimSpace(name), required) {
				actual = name
			}
		}
		if actual == "" {
			missing = append(missing, required)
			continue
		}
		resolved[required] = actual
	}

	if len(missing) > 0 {
		return nil, billing.NewValidationError("sheets",
			fmt.Sprintf("Excel file missing required sheets: %s", strings.Join(missing, ", ")))
	}
	return resolved, nil
}

// readSheet reads every row of one sheet as raw values.
func readSheet(f *excelize.File, sheetName string) (types.CellGrid, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return types.NewGrid(rows), nil
}
