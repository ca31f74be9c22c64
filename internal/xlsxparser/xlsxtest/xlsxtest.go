// Package xlsxtest builds bill workbooks for tests.
package xlsxtest

import (
	"path/filepath"
	"slices"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/billing"
	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/types"
)

// Sheet is the content of one sheet, row by row.
type Sheet [][]any

// Workbook maps sheet names to their content. Sheets are written in
// RequiredSheets order first, then any others.
type Workbook map[string]Sheet

// MainRows prefixes rows with the header block of a Work Order or Bill
// Quantity sheet.
func MainRows(rows ...[]any) Sheet {
	return withHeader(billing.MainDataStartRow, rows)
}

// ExtraRows prefixes rows with the header block of an Extra Items sheet.
func ExtraRows(rows ...[]any) Sheet {
	return withHeader(billing.ExtraDataStartRow, rows)
}

func withHeader(n int, rows [][]any) Sheet {
	sheet := make(Sheet, 0, n+len(rows))
	for i := 0; i < n; i++ {
		sheet = append(sheet, []any{"Header line"})
	}
	return append(sheet, rows...)
}

// Simple returns a workbook with one priced work-order row.
func Simple(qtyWO, qtyBill, rate float64) Workbook {
	return Workbook{
		types.SheetWorkOrder:    MainRows([]any{"Earthwork", "cum", qtyWO, rate, nil, "BSR 2.1", ""}),
		types.SheetBillQuantity: MainRows([]any{"Earthwork", "cum", qtyBill}),
		types.SheetExtraItems:   ExtraRows(),
	}
}

// Write saves wb as dir/fileName and returns the path.
func Write(t testing.TB, dir, fileName string, wb Workbook) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	first := true
	write := func(sheetName string, sheet Sheet) {
		if first {
			if err := f.SetSheetName("Sheet1", sheetName); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
			first = false
		} else if _, err := f.NewSheet(sheetName); err != nil {
			t.Fatalf("new sheet %s: %v", sheetName, err)
		}
		for i, row := range sheet {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			values := row
			if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
				t.Fatalf("write %s row %d: %v", sheetName, i+1, err)
			}
		}
	}

	for _, name := range types.RequiredSheets {
		if sheet, ok := wb[name]; ok {
			write(name, sheet)
		}
	}
	for name, sheet := range wb {
		if !slices.Contains(types.RequiredSheets, name) {
			write(name, sheet)
		}
	}

	path := filepath.Join(dir, fileName)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}
