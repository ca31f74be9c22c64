package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/types"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildDocumentsRunningBill(t *testing.T) {
	params := runningParams(true)
	params.Metadata = types.Metadata{
		ContractorName: "M/s Sharma Builders",
		WorkName:       "Boundary wall",
		AgreementNo:    "48/2024-25",
		StartDate:      date(2024, 4, 1),
		CompletionDate: date(2024, 9, 30),
	}

	bill, err := Compute(singleRowSheets("10", "10"), params, Options{})
	require.NoError(t, err)

	docs := BuildDocuments(bill, params.Metadata, Office{})
	assert.Nil(t, docs.Deviation)
	assert.Nil(t, docs.ExtraItems)

	h := docs.FirstPage.Header
	assert.Equal(t, "M/s Sharma Builders", h.NameOfFirm)
	assert.Equal(t, "01/04/2024", h.DateOfCommencement)
	assert.Equal(t, "30/09/2024", h.DateOfCompletion)
	assert.Empty(t, h.ActualCompletionDate)
	assert.Equal(t, "Running Bill", h.BillType)

	cert := docs.Certificate
	assert.Equal(t, int64(1100), cert.PayableAmount)
	assert.Equal(t, "One Thousand, One Hundred", cert.PayableWords)
	require.Len(t, cert.Recoveries, 5)
	assert.Equal(t, "Income Tax", cert.Recoveries[1].Name)
	assert.Equal(t, int64(22), cert.Recoveries[1].Amount)
	assert.Equal(t, Certification, cert.Certification)

	// No sanctioned amount recorded: the priced work order stands in.
	assert.Equal(t, int64(0), docs.NoteSheet.BalanceToBeDone)
	assert.NotEmpty(t, docs.NoteSheet.Notes)
}

func TestBuildDocumentsFinalBillWithExtras(t *testing.T) {
	sheets := singleRowSheets("10", "15")
	sheets.ExtraItems = extraSheet([]string{"", "", "Railing", "1", "100", "", ""})

	params := runningParams(true)
	params.BillType = types.BillFinal
	params.Metadata.WorkOrderAmount = 2000

	bill, err := Compute(sheets, params, Options{})
	require.NoError(t, err)

	docs := BuildDocuments(bill, params.Metadata, Office{})
	require.NotNil(t, docs.Deviation)
	require.NotNil(t, docs.ExtraItems)
	assert.Equal(t, bill.Deviation.Summary, docs.Deviation.Summary)
	assert.Equal(t, int64(100), docs.ExtraItems.Total)
	assert.Equal(t, "Final Bill", docs.Deviation.Header.BillType)

	// 2000 sanctioned, 1650 billed with premium.
	assert.Equal(t, int64(350), docs.NoteSheet.BalanceToBeDone)
}

func TestBillNotesProgressBands(t *testing.T) {
	tests := []struct {
		name       string
		grandTotal int64
		want       string
	}{
		{"shortfall", 8000, "Execution is below 90%"},
		{"small excess", 10300, "not more than 5%"},
		{"large excess", 12000, "requires approval of the Chief Engineer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bill := &types.Bill{
				BillType: types.BillFinal,
				Totals:   types.BillTotals{GrandTotal: tt.grandTotal},
			}
			meta := types.Metadata{WorkOrderAmount: 10000}

			notes := BillNotes(bill, meta, Office{ApprovingAuthority: "Chief Engineer"})
			assert.Contains(t, notes[1], tt.want)
		})
	}
}

func TestBillNotesWithinBandHasNoDeviationRemark(t *testing.T) {
	bill := &types.Bill{BillType: types.BillFinal, Totals: types.BillTotals{GrandTotal: 9500}}
	notes := BillNotes(bill, types.Metadata{WorkOrderAmount: 10000}, Office{})

	assert.Contains(t, notes[0], "95.00%")
	assert.Contains(t, notes[1], "Completion dates are not recorded")
}

func TestBillNotesDelay(t *testing.T) {
	bill := &types.Bill{BillType: types.BillFinal, Totals: types.BillTotals{GrandTotal: 10000}}
	meta := types.Metadata{
		WorkOrderAmount:      10000,
		StartDate:            date(2024, 1, 1),
		CompletionDate:       date(2024, 3, 1),
		ActualCompletionDate: date(2024, 3, 21),
	}

	notes := BillNotes(bill, meta, Office{})
	assert.Contains(t, notes, "Work was completed 20 days late against 60 days allowed.")
	assert.Contains(t, notes, "Time extension for the delay is approved by this office.")

	meta.ActualCompletionDate = date(2024, 5, 1)
	notes = BillNotes(bill, meta, Office{})
	assert.Contains(t, notes, "Work was completed 61 days late against 60 days allowed.")
	assert.Contains(t, notes[2], "Superintending Engineer")

	meta.ActualCompletionDate = date(2024, 2, 20)
	notes = BillNotes(bill, meta, Office{})
	assert.Contains(t, notes, "Work was completed in time.")
}

func TestBillNotesExtraItemsAndAuditor(t *testing.T) {
	bill := &types.Bill{
		BillType: types.BillRunning,
		Totals:   types.BillTotals{GrandTotal: 5000, ExtraItemsTotal: 600},
	}

	notes := BillNotes(bill, types.Metadata{WorkOrderAmount: 10000}, Office{AuditorName: "R. K. Jain"})
	assert.Contains(t, notes, "Extra items amount to 6.00% of the work order amount and require approval of the Superintending Engineer.")
	assert.Equal(t, "Auditor: R. K. Jain", notes[len(notes)-1])

	bill.Totals.ExtraItemsTotal = 300
	notes = BillNotes(bill, types.Metadata{WorkOrderAmount: 10000}, Office{})
	assert.Contains(t, notes, "Extra items amount to 3.00% of the work order amount and are approved by this office.")
	assert.Equal(t, "Please peruse the above details for necessary decision-making.", notes[len(notes)-1])
}
