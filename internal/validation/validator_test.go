package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/billing"
	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/config"
	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/types"
	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/xlsxparser/xlsxtest"
)

func mainGrid(rows ...[]string) types.CellGrid {
	raw := make([][]string, billing.MainDataStartRow, billing.MainDataStartRow+len(rows))
	for i := range raw {
		raw[i] = []string{"header"}
	}
	return types.NewGrid(append(raw, rows...))
}

func completeParams() billing.Parameters {
	return billing.Parameters{
		PremiumPercent: 5,
		PremiumType:    types.PremiumAbove,
		IsFirstBill:    true,
		BillType:       types.BillRunning,
		Metadata: types.Metadata{
			ContractorName:  "M/s Sharma Builders",
			WorkName:        "Boundary wall",
			AgreementNo:     "48/2024-25",
			WorkOrderAmount: 5000,
			StartDate:       time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
			CompletionDate:  time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestCheckCleanInput(t *testing.T) {
	sheets := types.Sheets{
		WorkOrder:    mainGrid([]string{"Earthwork", "cum", "10", "100"}),
		BillQuantity: mainGrid([]string{"Earthwork", "cum", "10"}),
	}

	result := NewValidator(Options{}).Check(sheets, completeParams())
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Issues)
	require.NotNil(t, result.Bill)
	assert.Equal(t, int64(1050), result.Bill.Totals.BillAmount)
	assert.Equal(t, "No validation issues.", FormatIssues(result.Issues))
}

func TestCheckReportsSkippedRows(t *testing.T) {
	sheets := types.Sheets{
		WorkOrder: mainGrid(
			[]string{"Earthwork", "cum", "10", "100"},
			[]string{"Brickwork", "sqm", "5", "abc"},
		),
		BillQuantity: mainGrid(
			[]string{"Earthwork", "cum", "10"},
			[]string{"Brickwork", "sqm", "5"},
		),
	}

	result := NewValidator(Options{}).Check(sheets, completeParams())
	assert.True(t, result.IsValid)
	require.Len(t, result.Issues, 1)

	issue := result.Issues[0]
	assert.Equal(t, SeverityWarning, issue.Severity)
	assert.Equal(t, RuleRow, issue.Rule)
	assert.Equal(t, types.SheetWorkOrder, issue.Sheet)
	assert.Equal(t, billing.MainDataStartRow+2, issue.RowNumber)
	assert.Equal(t, "[WARNING] Work Order, row 23: Row left out of the bill: not a number (value: 'abc')", issue.Error())

	strict := NewValidator(Options{TreatWarningsAsErrors: true}).Check(sheets, completeParams())
	assert.False(t, strict.IsValid)
	assert.Equal(t, 0, strict.ErrorCount)
	assert.Equal(t, 1, strict.WarningCount)
}

func TestCheckReportsWorkOrderQuantityTakenAsZero(t *testing.T) {
	sheets := types.Sheets{
		WorkOrder:    mainGrid([]string{"Earthwork", "cum", "abc", "100"}),
		BillQuantity: mainGrid([]string{"Earthwork", "cum", "10"}),
	}
	params := completeParams()
	params.BillType = types.BillFinal

	result := NewValidator(Options{}).Check(sheets, params)
	assert.True(t, result.IsValid)
	require.NotNil(t, result.Bill)
	require.Len(t, result.Bill.Deviation.Items, 1)

	var rows []*Issue
	for _, issue := range result.Issues {
		if issue.Rule == RuleRow {
			rows = append(rows, issue)
		}
	}
	require.Len(t, rows, 1)
	assert.Equal(t, "[WARNING] Work Order, row 22: Row kept in the bill: work-order quantity is not a number, taken as 0 (value: 'abc')", rows[0].Error())
}

func TestCheckStructuralError(t *testing.T) {
	sheets := types.Sheets{
		WorkOrder:    mainGrid([]string{"Earthwork", "cum", "10", "100"}),
		BillQuantity: mainGrid([]string{"Earthwork", "cum", "-1"}),
	}

	result := NewValidator(Options{}).Check(sheets, completeParams())
	assert.False(t, result.IsValid)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, RuleStructure, result.Issues[0].Rule)
	assert.Contains(t, result.Issues[0].Message, "Negative quantities are not allowed")
	assert.Nil(t, result.Bill)
}

func TestCheckBadParametersStillChecksSheets(t *testing.T) {
	sheets := types.Sheets{
		WorkOrder:    mainGrid([]string{"Earthwork", "cum", "10", "100"}),
		BillQuantity: mainGrid([]string{"Earthwork", "cum", "x"}),
	}
	params := completeParams()
	params.PremiumPercent = 150

	result := NewValidator(Options{}).Check(sheets, params)
	assert.False(t, result.IsValid)
	require.Len(t, result.Issues, 2)
	assert.Equal(t, RuleParameters, result.Issues[0].Rule)
	assert.Equal(t, "PremiumPercent", result.Issues[0].Field)
	assert.Equal(t, RuleRow, result.Issues[1].Rule)
}

func TestCheckMetadataWarnings(t *testing.T) {
	sheets := types.Sheets{
		WorkOrder:    mainGrid([]string{"Earthwork", "cum", "10", "100"}),
		BillQuantity: mainGrid([]string{"Earthwork", "cum", "10"}),
	}
	params := completeParams()
	params.Metadata = types.Metadata{}
	params.BillType = types.BillFinal

	result := NewValidator(Options{}).Check(sheets, params)
	assert.True(t, result.IsValid)

	fields := make([]string, 0, len(result.Issues))
	for _, issue := range result.Issues {
		assert.Equal(t, RuleMetadata, issue.Rule)
		fields = append(fields, issue.Field)
	}
	assert.Equal(t, []string{"ContractorName", "WorkName", "AgreementNo", "WorkOrderAmount", "ActualCompletionDate"}, fields)
}

func TestCheckInput(t *testing.T) {
	wb := xlsxtest.Simple(10, 10, 100)
	delete(wb, types.SheetExtraItems)
	path := xlsxtest.Write(t, t.TempDir(), "wall.xlsx", wb)

	first := true
	job := &config.JobConfig{
		JobName: "wall",
		Bill:    config.BillSettings{PremiumType: "Below", BillType: "weekly", IsFirstBill: &first},
	}

	result := NewValidator(Options{}).CheckInput(path, job, &config.MainConfig{})
	assert.False(t, result.IsValid)
	require.Len(t, result.Issues, 2)
	assert.Equal(t, "BillType", result.Issues[0].Field)
	assert.Equal(t, RuleInput, result.Issues[1].Rule)
	assert.Equal(t, "Excel file missing required sheets: Extra Items", result.Issues[1].Message)

	report := FormatIssues(result.Issues)
	assert.Contains(t, report, "Validation completed with 2 error(s) and 0 warning(s)")
}
