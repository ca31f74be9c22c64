package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/billing"
	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/types"
)

func grid(headerRows int, rows ...[]string) types.CellGrid {
	raw := make([][]string, headerRows, headerRows+len(rows))
	for i := range raw {
		raw[i] = []string{"header"}
	}
	return types.NewGrid(append(raw, rows...))
}

// finalBillDocuments computes a final bill with an excess row, a saving
// row and one extra item, so every document is present.
func finalBillDocuments(t *testing.T) types.Documents {
	t.Helper()

	sheets := types.Sheets{
		WorkOrder: grid(billing.MainDataStartRow,
			[]string{"Earthwork", "cum", "10", "100", "", "BSR 2.1", ""},
			[]string{"=Brickwork", "sqm", "4", "250.5", "", "BSR 4.7", "east wall"},
		),
		BillQuantity: grid(billing.MainDataStartRow,
			[]string{"Earthwork", "cum", "12.25"},
			[]string{"Brickwork", "sqm", "3"},
		),
		ExtraItems: grid(billing.ExtraDataStartRow,
			[]string{"", "BSR 9.1", "Railing", "2", "1500", "", "site"},
		),
	}
	meta := types.Metadata{
		ContractorName:       "M/s Sharma Builders",
		WorkName:             "Boundary wall",
		AgreementNo:          "48/2024-25",
		WorkOrderAmount:      2500,
		StartDate:            time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		CompletionDate:       time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC),
		ActualCompletionDate: time.Date(2024, 10, 15, 0, 0, 0, 0, time.UTC),
	}
	params := billing.Parameters{
		PremiumPercent:     5,
		PremiumType:        types.PremiumAbove,
		BillType:           types.BillFinal,
		AmountPaidLastBill: 1000,
		Metadata:           meta,
	}

	bill, err := billing.Compute(sheets, params, billing.Options{})
	require.NoError(t, err)
	docs := billing.BuildDocuments(bill, meta, billing.Office{})
	require.NotNil(t, docs.Deviation)
	require.NotNil(t, docs.ExtraItems)
	return docs
}

func TestPDFsRendersEveryDocument(t *testing.T) {
	files, err := PDFs(finalBillDocuments(t))
	require.NoError(t, err)

	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
		assert.True(t, bytes.HasPrefix(f.Data, []byte("%PDF-")), "%s is not a PDF", f.Name)
	}
	assert.Equal(t, []string{NameFirstPage, NameCertificate, NameDeviation, NameExtraItems, NameNoteSheet}, names)
}

func TestPDFsSkipsAbsentDocuments(t *testing.T) {
	docs := finalBillDocuments(t)
	docs.Deviation = nil
	docs.ExtraItems = nil

	files, err := PDFs(docs)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, NameNoteSheet, files[2].Name)
}

func TestWorkbookReopens(t *testing.T) {
	data, err := Workbook(finalBillDocuments(t))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t,
		[]string{SheetFirstPage, SheetCertificate, SheetDeviation, SheetExtraItems, SheetNoteSheet},
		f.GetSheetList())

	title, err := f.GetCellValue(SheetFirstPage, "A1")
	require.NoError(t, err)
	assert.Equal(t, "CONTRACTOR BILL - FIRST PAGE", title)

	rows, err := f.GetRows(SheetFirstPage)
	require.NoError(t, err)
	var found bool
	for _, row := range rows {
		if len(row) > 1 && row[1] == "'=Brickwork" {
			found = true
		}
	}
	assert.True(t, found, "formula-like description should be escaped")
}

func TestWorkbookNumbersNotes(t *testing.T) {
	docs := finalBillDocuments(t)
	data, err := Workbook(docs)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetNoteSheet)
	require.NoError(t, err)

	number := regexp.MustCompile(`^\d+\.$`)
	var numbered []string
	for _, row := range rows {
		if len(row) > 1 && number.MatchString(row[0]) {
			numbered = append(numbered, row[0]+" "+row[1])
		}
	}
	require.Len(t, numbered, len(docs.NoteSheet.Notes))
	for i, note := range docs.NoteSheet.Notes {
		assert.Equal(t, fmt.Sprintf("%d. %s", i+1, note), numbered[i])
	}
}

func TestJSON(t *testing.T) {
	docs := finalBillDocuments(t)
	data, err := JSON(docs)
	require.NoError(t, err)

	var decoded types.Documents
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, docs.Certificate.PayableAmount, decoded.Certificate.PayableAmount)
	assert.Equal(t, docs.Deviation.Summary.NetDifference, decoded.Deviation.Summary.NetDifference)
	assert.Equal(t, "M/s Sharma Builders", decoded.FirstPage.Header.NameOfFirm)
}

func TestFormatQty(t *testing.T) {
	assert.Equal(t, "12", formatQty(12))
	assert.Equal(t, "12.250", formatQty(12.25))
	assert.Equal(t, "", blankIfZero(0))
}

func TestSanitizeExcelCell(t *testing.T) {
	assert.Equal(t, "'=SUM(A1)", sanitizeExcelCell("=SUM(A1)"))
	assert.Equal(t, "'-5", sanitizeExcelCell("-5"))
	assert.Equal(t, "Earthwork", sanitizeExcelCell("Earthwork"))
	assert.Equal(t, "", sanitizeExcelCell(""))
}
