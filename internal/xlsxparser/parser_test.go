package xlsxparser

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/billing"
	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/types"
	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/xlsxparser/xlsxtest"
)

func TestLoadReadsThreeSheets(t *testing.T) {
	wb := xlsxtest.Simple(10, 12.5, 100)
	wb[types.SheetExtraItems] = xlsxtest.ExtraRows([]any{"", "BSR 9", "Railing", 3, "1,250", nil, "site"})
	path := xlsxtest.Write(t, t.TempDir(), "bill.xlsx", wb)

	sheets, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, billing.MainDataStartRow+1, sheets.WorkOrder.Rows())
	row := billing.MainDataStartRow
	assert.Equal(t, types.TextCell("Earthwork"), sheets.WorkOrder.At(row, 0))
	assert.Equal(t, types.NumberCell(10), sheets.WorkOrder.At(row, 2))
	assert.Equal(t, types.NumberCell(100), sheets.WorkOrder.At(row, 3))
	assert.Equal(t, types.NumberCell(12.5), sheets.BillQuantity.At(row, 2))

	extra := billing.ExtraDataStartRow
	assert.Equal(t, types.CellText, sheets.ExtraItems.At(extra, 4).Kind)
	assert.Equal(t, "1,250", sheets.ExtraItems.At(extra, 4).Text)
	assert.True(t, sheets.ExtraItems.At(extra, 0).IsEmpty())
}

func TestLoadFeedsTheEngine(t *testing.T) {
	path := xlsxtest.Write(t, t.TempDir(), "bill.xlsx", xlsxtest.Simple(10, 10, 100))

	sheets, err := Load(path)
	require.NoError(t, err)

	bill, err := billing.Compute(sheets, billing.Parameters{
		PremiumPercent: 10,
		PremiumType:    types.PremiumAbove,
		IsFirstBill:    true,
		BillType:       types.BillRunning,
	}, billing.Options{})
	require.NoError(t, err)
	assert.Equal(t, int64(1100), bill.Totals.BillAmount)
}

func TestLoadReportsMissingSheets(t *testing.T) {
	wb := xlsxtest.Simple(1, 1, 1)
	delete(wb, types.SheetBillQuantity)
	delete(wb, types.SheetExtraItems)
	path := xlsxtest.Write(t, t.TempDir(), "bill.xlsx", wb)

	_, err := Load(path)
	var verr *billing.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Excel file missing required sheets: Bill Quantity, Extra Items", verr.Message)
}

func TestLoadToleratesSheetNameCase(t *testing.T) {
	wb := xlsxtest.Simple(1, 1, 1)
	wb["work order "] = wb[types.SheetWorkOrder]
	delete(wb, types.SheetWorkOrder)
	path := xlsxtest.Write(t, t.TempDir(), "bill.xlsx", wb)

	sheets, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, billing.MainDataStartRow+1, sheets.WorkOrder.Rows())
}

func TestLoadReader(t *testing.T) {
	path := xlsxtest.Write(t, t.TempDir(), "bill.xlsx", xlsxtest.Simple(2, 3, 4))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	sheets, err := LoadReader(f)
	require.NoError(t, err)
	assert.Equal(t, types.NumberCell(3), sheets.BillQuantity.At(billing.MainDataStartRow, 2))
}

func TestLoadRejectsNonWorkbook(t *testing.T) {
	path := t.TempDir() + "/bill.xlsx"
	require.NoError(t, os.WriteFile(path, []byte("not a workbook"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.NotErrorIs(t, err, billing.ErrValidation)
}
