package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/types"
)

// Workbook sheet names, in the order they are written.
const (
	SheetFirstPage   = "First Page"
	SheetCertificate = "Certificate"
	SheetDeviation   = "Deviation Statement"
	SheetExtraItems  = "Extra Items"
	SheetNoteSheet   = "Note Sheet"
)

// styles holds the style IDs shared by every sheet.
type styles struct {
	title   int
	label   int
	header  int
	cell    int
	number  int
	qty     int
	divider int
	total   int
}

type sheetWriter struct {
	name  string
	write func(*sheet)
}

// sheet writes rows top to bottom on one worksheet.
type sheet struct {
	f     *excelize.File
	name  string
	s     styles
	row   int
	width int
	err   error
}

// Workbook renders all documents into one workbook, one sheet per document.
func Workbook(docs types.Documents) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	s, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	writers := []sheetWriter{
		{SheetFirstPage, func(w *sheet) { writeFirstPage(w, docs.FirstPage) }},
		{SheetCertificate, func(w *sheet) { writeCertificate(w, docs.Certificate) }},
	}
	if docs.Deviation != nil {
		writers = append(writers, sheetWriter{SheetDeviation, func(w *sheet) { writeDeviation(w, *docs.Deviation) }})
	}
	if docs.ExtraItems != nil {
		writers = append(writers, sheetWriter{SheetExtraItems, func(w *sheet) { writeExtraItems(w, *docs.ExtraItems) }})
	}
	writers = append(writers, sheetWriter{SheetNoteSheet, func(w *sheet) { writeNoteSheet(w, docs.NoteSheet) }})

	for i, wr := range writers {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), wr.name); err != nil {
				return nil, fmt.Errorf("set sheet name: %w", err)
			}
		} else if _, err := f.NewSheet(wr.name); err != nil {
			return nil, fmt.Errorf("new sheet %s: %w", wr.name, err)
		}

		w := &sheet{f: f, name: wr.name, s: s, row: 1}
		wr.write(w)
		if w.err != nil {
			return nil, fmt.Errorf("write sheet %s: %w", wr.name, w.err)
		}
	}
	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// =============================================================================
// DOCUMENT SHEETS
// =============================================================================

func writeFirstPage(w *sheet, doc types.FirstPage) {
	w.columns(6, 48, 8, 12, 12, 16, 12, 16)
	w.title("CONTRACTOR BILL - FIRST PAGE", doc.Header)
	w.header("S.No.", "Description of item", "Unit", "Quantity", "Rate", "Amount", "BSR", "Remark")

	for _, item := range doc.Items {
		if item.IsDivider {
			w.divider(item.Description)
			continue
		}
		w.values(
			textCell(item.SerialNo), textCell(item.Description), textCell(item.Unit),
			qtyCell(item.Quantity), numberCell(item.Rate), amountCell(item.Amount),
			textCell(item.BSRReference), textCell(item.Remark),
		)
	}

	t := doc.Totals
	w.row++
	w.total("Total (Work Order items)", t.WorkOrderTotal)
	w.total(premiumLabel(t.Premium.Type, t.Premium.Percent), t.Premium.Amount)
	w.total("Bill Amount", t.BillAmount)
	if t.ExtraItemsTotal != 0 {
		w.total("Extra Items", t.ExtraItemsTotal)
	}
	w.total("Grand Total", t.GrandTotal)
	if t.AmountPaidLastBill != 0 {
		w.total("Less amount paid vide last bill", t.AmountPaidLastBill)
	}
	w.total("Payable", t.Payable)
}

func writeCertificate(w *sheet, doc types.Certificate) {
	w.columns(40, 12, 18)
	w.title("CERTIFICATE AND SIGNATURES", doc.Header)

	w.total("Grand Total", doc.Totals.GrandTotal)
	w.total("Less amount paid vide last bill", doc.Totals.AmountPaidLastBill)
	w.total("Payable Amount", doc.PayableAmount)
	w.line("Rupees " + doc.PayableWords + " Only")
	w.row++

	w.header("Recovery", "Rate (%)", "Amount")
	for _, r := range doc.Recoveries {
		rate := cellValue{}
		if r.Percent != 0 {
			rate = numberCell(r.Percent)
		}
		w.values(textCell(r.Name), rate, amountCell(r.Amount))
	}
	w.total("Total Recoveries", doc.Deductions.TotalDeductions)
	w.total("By Cheque", doc.Deductions.ByCheque)
	w.line("Rupees " + doc.Deductions.ChequeAmountWords + " Only")
	w.row++
	w.line(doc.Certification)
}

func writeDeviation(w *sheet, doc types.DeviationDocument) {
	w.columns(6, 40, 8, 10, 10, 14, 10, 14, 10, 14, 10, 14, 16)
	w.title("DEVIATION STATEMENT", doc.Header)
	w.header("S.No.", "Description", "Unit", "Qty (WO)", "Rate", "Amount (WO)",
		"Qty (Exec)", "Amount (Exec)", "Excess Qty", "Excess Amt", "Saving Qty", "Saving Amt", "BSR")

	for _, item := range doc.Items {
		w.values(
			textCell(item.SerialNo), textCell(item.Description), textCell(item.Unit),
			qtyCell(item.QtyWO), numberCell(item.Rate), amountCell(item.AmtWO),
			qtyCell(item.QtyBill), amountCell(item.AmtBill),
			qtyCell(item.ExcessQty), amountCell(item.ExcessAmt),
			qtyCell(item.SavingQty), amountCell(item.SavingAmt),
			textCell(item.BSRReference),
		)
	}

	s := doc.Summary
	w.row++
	w.summary("Total", s.WorkOrderTotal, s.ExecutedTotal, s.OverallExcess, s.OverallSaving)
	w.summary(premiumLabel(s.Premium.Type, s.Premium.Percent),
		s.TenderPremiumF, s.TenderPremiumH, s.TenderPremiumJ, s.TenderPremiumL)
	w.summary("Grand Total", s.GrandTotalF, s.GrandTotalH, s.GrandTotalJ, s.GrandTotalL)
	w.total("Net Difference", s.NetDifference)
	w.values(textCell("Deviation (%)"), numberCell(s.DeviationPercent))
}

func writeExtraItems(w *sheet, doc types.ExtraItemsDocument) {
	w.columns(6, 14, 48, 10, 12, 16, 16)
	w.title("EXTRA ITEMS", doc.Header)
	w.header("S.No.", "BSR", "Description of item", "Quantity", "Rate", "Amount", "Remark")
	for _, item := range doc.Items {
		w.values(
			textCell(item.SerialNo), textCell(item.BSRReference), textCell(item.Description),
			qtyCell(item.Quantity), numberCell(item.Rate), amountCell(item.Amount), textCell(item.Remark),
		)
	}
	w.row++
	w.total("Total Extra Items", doc.Total)
}

func writeNoteSheet(w *sheet, doc types.NoteSheet) {
	w.columns(6, 60, 18)
	w.title("BILL SCRUTINY SHEET", doc.Header)

	t := doc.Totals
	w.values(textCell(""), textCell("Work Order Amount"), numberCell(doc.Header.WorkOrderAmount))
	w.total("Bill Amount (with premium)", t.BillAmount)
	w.total("Extra Items", t.ExtraItemsTotal)
	w.total("Grand Total", t.GrandTotal)
	w.total("Payable", t.Payable)
	w.total("Total Recoveries", doc.Deductions.TotalDeductions)
	w.total("By Cheque", doc.Deductions.ByCheque)
	w.total("Balance to be done", doc.BalanceToBeDone)
	w.row++

	for i, note := range doc.Notes {
		w.values(textCell(fmt.Sprintf("%d.", i+1)), textCell(note))
	}
}

// =============================================================================
// SHEET WRITER
// =============================================================================

type cellKind int

const (
	kindText cellKind = iota
	kindNumber
	kindQty
	kindAmount
)

type cellValue struct {
	kind  cellKind
	value any
}

func textCell(s string) cellValue    { return cellValue{kindText, s} }
func numberCell(n float64) cellValue { return cellValue{kindNumber, n} }
func qtyCell(n float64) cellValue    { return cellValue{kindQty, n} }
func amountCell(n int64) cellValue   { return cellValue{kindAmount, n} }

func (c cellValue) isBlank() bool   { return c.value == nil }
func (w *sheet) ref(col int) string { return cellName(col, w.row) }

func (w *sheet) columns(widths ...float64) {
	w.width = len(widths)
	for i, width := range widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			w.fail(err)
			return
		}
		w.fail(w.f.SetColWidth(w.name, name, name, width))
	}
}

// title writes the document title merged across the sheet, followed by the
// non-empty contract details.
func (w *sheet) title(title string, h types.Header) {
	last := cellName(w.width, w.row)
	w.fail(w.f.MergeCell(w.name, w.ref(1), last))
	w.fail(w.f.SetCellValue(w.name, w.ref(1), title))
	w.fail(w.f.SetCellStyle(w.name, w.ref(1), last, w.s.title))
	w.row += 2

	details := [][2]string{
		{"Name of contractor", h.NameOfFirm},
		{"Name of work", h.NameOfWork},
		{"Agreement No.", h.AgreementNo},
		{"Work order", h.WorkOrderRef},
		{"Serial No. of bill", h.BillSerial},
		{"Bill type", h.BillType},
		{"Date of commencement", h.DateOfCommencement},
		{"Stipulated date of completion", h.DateOfCompletion},
		{"Actual date of completion", h.ActualCompletionDate},
		{"Date of measurement", h.MeasurementDate},
	}
	for _, d := range details {
		if d[1] == "" {
			continue
		}
		w.fail(w.f.SetCellValue(w.name, w.ref(1), d[0]))
		w.fail(w.f.SetCellStyle(w.name, w.ref(1), w.ref(1), w.s.label))
		w.fail(w.f.MergeCell(w.name, w.ref(2), cellName(max(w.width, 2), w.row)))
		w.fail(w.f.SetCellValue(w.name, w.ref(2), sanitizeExcelCell(d[1])))
		w.row++
	}
	w.row++
}

func (w *sheet) header(titles ...string) {
	for i, t := range titles {
		w.fail(w.f.SetCellValue(w.name, w.ref(i+1), t))
	}
	w.fail(w.f.SetCellStyle(w.name, w.ref(1), w.ref(len(titles)), w.s.header))
	w.row++
}

func (w *sheet) values(cells ...cellValue) {
	for i, c := range cells {
		ref := w.ref(i + 1)
		style := w.s.cell
		switch c.kind {
		case kindNumber, kindAmount:
			style = w.s.number
		case kindQty:
			style = w.s.qty
		}
		if !c.isBlank() {
			v := c.value
			if s, ok := v.(string); ok {
				v = sanitizeExcelCell(s)
			}
			w.fail(w.f.SetCellValue(w.name, ref, v))
		}
		w.fail(w.f.SetCellStyle(w.name, ref, ref, style))
	}
	w.row++
}

func (w *sheet) divider(label string) {
	last := cellName(w.width, w.row)
	w.fail(w.f.MergeCell(w.name, w.ref(1), last))
	w.fail(w.f.SetCellValue(w.name, w.ref(1), sanitizeExcelCell(label)))
	w.fail(w.f.SetCellStyle(w.name, w.ref(1), last, w.s.divider))
	w.row++
}

// total writes a label and an amount in the last two columns.
func (w *sheet) total(label string, value int64) {
	labelCol := max(w.width-1, 1)
	w.fail(w.f.MergeCell(w.name, w.ref(1), w.ref(labelCol)))
	w.fail(w.f.SetCellValue(w.name, w.ref(1), label))
	w.fail(w.f.SetCellStyle(w.name, w.ref(1), w.ref(labelCol), w.s.total))
	w.fail(w.f.SetCellValue(w.name, w.ref(labelCol+1), value))
	w.fail(w.f.SetCellStyle(w.name, w.ref(labelCol+1), w.ref(labelCol+1), w.s.total))
	w.row++
}

// summary lines four deviation totals up under the WO, executed, excess and
// saving amount columns.
func (w *sheet) summary(label string, f, h, j, l int64) {
	w.fail(w.f.MergeCell(w.name, w.ref(1), w.ref(5)))
	w.fail(w.f.SetCellValue(w.name, w.ref(1), label))
	for col, v := range map[int]int64{6: f, 8: h, 10: j, 12: l} {
		w.fail(w.f.SetCellValue(w.name, w.ref(col), v))
	}
	w.fail(w.f.SetCellStyle(w.name, w.ref(1), w.ref(12), w.s.total))
	w.row++
}

func (w *sheet) line(s string) {
	last := cellName(w.width, w.row)
	w.fail(w.f.MergeCell(w.name, w.ref(1), last))
	w.fail(w.f.SetCellValue(w.name, w.ref(1), sanitizeExcelCell(s)))
	w.row++
}

// fail keeps the first error; later writes become no-ops for the caller.
func (w *sheet) fail(err error) {
	if err != nil && w.err == nil {
		w.err = err
	}
}

// =============================================================================
// STYLES
// =============================================================================

func newStyles(f *excelize.File) (styles, error) {
	amountFmt := "#,##0"
	qtyFmt := "0.###"
	var s styles
	defs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&s.title, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 14},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		}},
		{&s.label, &excelize.Style{
			Font: &excelize.Font{Bold: true, Size: 10, Color: "#505050"},
		}},
		{&s.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 10},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
			Border:    thinBorders(),
		}},
		{&s.cell, &excelize.Style{
			Font:      &excelize.Font{Size: 10},
			Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
			Border:    thinBorders(),
		}},
		{&s.number, &excelize.Style{
			Font:         &excelize.Font{Size: 10},
			CustomNumFmt: &amountFmt,
			Border:       thinBorders(),
		}},
		{&s.qty, &excelize.Style{
			Font:         &excelize.Font{Size: 10},
			CustomNumFmt: &qtyFmt,
			Border:       thinBorders(),
		}},
		{&s.divider, &excelize.Style{
			Font:   &excelize.Font{Bold: true, Size: 10},
			Fill:   excelize.Fill{Type: "pattern", Color: []string{"#EBEBEB"}, Pattern: 1},
			Border: thinBorders(),
		}},
		{&s.total, &excelize.Style{
			Font:         &excelize.Font{Bold: true, Size: 10},
			Alignment:    &excelize.Alignment{Horizontal: "right"},
			CustomNumFmt: &amountFmt,
		}},
	}

	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return styles{}, fmt.Errorf("create style: %w", err)
		}
		*d.dst = id
	}
	return s, nil
}

// thinBorders returns a thin border on all four sides.
func thinBorders() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "#000000", Style: 1},
		{Type: "top", Color: "#000000", Style: 1},
		{Type: "bottom", Color: "#000000", Style: 1},
		{Type: "right", Color: "#000000", Style: 1},
	}
}

// sanitizeExcelCell stops text from a workbook being read back as a formula.
func sanitizeExcelCell(s string) string {
	if s == "" {
		return s
	}
	if strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
