package billing

import "github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/types"

// =============================================================================
// SHEET LAYOUT
// =============================================================================
//
// The workbook layout is a fixed external contract: every bill workbook the
// department issues carries the same header block above the data. Offsets
// are 0-based row and column indices.

const (
	// MainDataStartRow is the first data row of Work Order and Bill Quantity.
	MainDataStartRow = 21

	// ExtraDataStartRow is the first data row of Extra Items.
	ExtraDataStartRow = 6

	// MinMainRows is the smallest Work Order or Bill Quantity sheet that can
	// hold a data row.
	MinMainRows = MainDataStartRow + 1

	// MinWorkOrderColumns covers description, unit, quantity and rate.
	MinWorkOrderColumns = 4
)

// noColumn marks a column a sheet does not carry.
const noColumn = -1

// SheetLayout names the columns of one sheet.
type SheetLayout struct {
	Sheet        string
	DataStartRow int
	Serial       int
	Description  int
	Unit         int
	Quantity     int
	Rate         int
	BSR          int
	Remark       int
}

// Layout is the column table for the three input sheets.
var Layout = struct {
	WorkOrder    SheetLayout
	BillQuantity SheetLayout
	ExtraItems   SheetLayout
}{
	WorkOrder: SheetLayout{
		Sheet:        types.SheetWorkOrder,
		DataStartRow: MainDataStartRow,
		Serial:       noColumn,
		Description:  0,
		Unit:         1,
		Quantity:     2,
		Rate:         3,
		BSR:          5,
		Remark:       6,
	},
	BillQuantity: SheetLayout{
		Sheet:        types.SheetBillQuantity,
		DataStartRow: MainDataStartRow,
		Serial:       noColumn,
		Description:  0,
		Unit:         1,
		Quantity:     2,
		Rate:         3,
		BSR:          5,
		Remark:       6,
	},
	ExtraItems: SheetLayout{
		Sheet:        types.SheetExtraItems,
		DataStartRow: ExtraDataStartRow,
		Serial:       0,
		BSR:          1,
		Description:  2,
		Unit:         noColumn,
		Quantity:     3,
		Rate:         4,
		Remark:       6,
	},
}

// serialFor numbers a data row from 1 when the sheet has no serial column
// or the serial cell is blank.
func (l SheetLayout) serialFor(row int) int { return row - l.DataStartRow + 1 }

// text reads a descriptive column; absent columns read as "".
func (l SheetLayout) text(g types.CellGrid, row, col int) string {
	if col == noColumn {
		return ""
	}
	return g.At(row, col).String()
}
