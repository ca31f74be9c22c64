package billing

import (
	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/types"
)

// mainSheet builds a Work Order or Bill Quantity grid with the standard
// header block followed by rows.
func mainSheet(rows ...[]string) types.CellGrid {
	raw := make([][]string, MainDataStartRow, MainDataStartRow+len(rows))
	for i := range raw {
		raw[i] = []string{"header"}
	}
	return types.NewGrid(append(raw, rows...))
}

// extraSheet builds an Extra Items grid with its header block followed by rows.
func extraSheet(rows ...[]string) types.CellGrid {
	raw := make([][]string, ExtraDataStartRow, ExtraDataStartRow+len(rows))
	for i := range raw {
		raw[i] = []string{"header"}
	}
	return types.NewGrid(append(raw, rows...))
}

// woRow is a Work Order row: description, unit, quantity, rate, -, BSR, remark.
func woRow(desc, unit, qty, rate string) []string {
	return []string{desc, unit, qty, rate, "", "BSR-1", ""}
}

// bqRow is a Bill Quantity row carrying only what the engine reads.
func bqRow(desc, qty string) []string {
	return []string{desc, "", qty}
}

func runningParams(first bool) Parameters {
	return Parameters{
		PremiumPercent: 10,
		PremiumType:    types.PremiumAbove,
		IsFirstBill:    first,
		BillType:       types.BillRunning,
	}
}

func singleRowSheets(qtyWO, qtyBill string) types.Sheets {
	return types.Sheets{
		WorkOrder:    mainSheet(woRow("Earthwork", "cum", qtyWO, "100")),
		BillQuantity: mainSheet(bqRow("Earthwork", qtyBill)),
		ExtraItems:   extraSheet(),
	}
}
