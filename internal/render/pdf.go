package render

import (
	"fmt"
	"math"
	"strconv"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/types"
	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/pkg/utils"
)

// File is one rendered document. Name is the document's short name, such
// as "first_page", without extension.
type File struct {
	Name string
	Data []byte
}

// Document names, used as output file suffixes.
const (
	NameFirstPage   = "first_page"
	NameCertificate = "certificate"
	NameDeviation   = "deviation_statement"
	NameExtraItems  = "extra_items"
	NameNoteSheet   = "note_sheet"
)

var (
	headerBg   = &props.Color{Red: 33, Green: 37, Blue: 41}
	headerFont = &props.Color{Red: 255, Green: 255, Blue: 255}
	dividerBg  = &props.Color{Red: 235, Green: 235, Blue: 235}
	summaryBg  = &props.Color{Red: 245, Green: 245, Blue: 245}
	mutedFont  = &props.Color{Red: 80, Green: 80, Blue: 80}
)

// column is one column of a table: its grid width and alignment.
type column struct {
	title string
	width int
	align align.Type
}

// PDFs renders every document present in docs, in print order.
func PDFs(docs types.Documents) ([]File, error) {
	var files []File
	add := func(name string, data []byte, err error) error {
		if err != nil {
			return fmt.Errorf("render %s: %w", name, err)
		}
		files = append(files, File{Name: name, Data: data})
		return nil
	}

	data, err := FirstPagePDF(docs.FirstPage)
	if err := add(NameFirstPage, data, err); err != nil {
		return nil, err
	}
	data, err = CertificatePDF(docs.Certificate)
	if err := add(NameCertificate, data, err); err != nil {
		return nil, err
	}
	if docs.Deviation != nil {
		data, err = DeviationPDF(*docs.Deviation)
		if err := add(NameDeviation, data, err); err != nil {
			return nil, err
		}
	}
	if docs.ExtraItems != nil {
		data, err = ExtraItemsPDF(*docs.ExtraItems)
		if err := add(NameExtraItems, data, err); err != nil {
			return nil, err
		}
	}
	data, err = NoteSheetPDF(docs.NoteSheet)
	if err := add(NameNoteSheet, data, err); err != nil {
		return nil, err
	}
	return files, nil
}

// =============================================================================
// FIRST PAGE
// =============================================================================

var firstPageColumns = []column{
	{"S.No.", 1, align.Center},
	{"Description of item", 4, align.Left},
	{"Unit", 1, align.Center},
	{"Quantity", 1, align.Right},
	{"Rate", 1, align.Right},
	{"Amount", 2, align.Right},
	{"BSR", 1, align.Center},
	{"Remark", 1, align.Left},
}

// FirstPagePDF renders the itemised bill.
func FirstPagePDF(doc types.FirstPage) ([]byte, error) {
	m := newDocument(orientation.Vertical)

	addTitle(m, "CONTRACTOR BILL - FIRST PAGE", doc.Header)
	addTableHeader(m, firstPageColumns)

	for _, item := range doc.Items {
		if item.IsDivider {
			m.AddRows(row.New(7).Add(
				col.New(12).Add(text.New(item.Description, props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Left})).
					WithStyle(&props.Cell{BackgroundColor: dividerBg}),
			))
			continue
		}
		addTableRow(m, firstPageColumns, []string{
			item.SerialNo,
			item.Description,
			item.Unit,
			formatQty(item.Quantity),
			utils.FormatINR(item.Rate),
			utils.FormatRupees(item.Amount),
			item.BSRReference,
			item.Remark,
		})
	}

	t := doc.Totals
	m.AddRows(row.New(4))
	addSummaryRow(m, "Total (Work Order items)", utils.FormatRupees(t.WorkOrderTotal))
	addSummaryRow(m, premiumLabel(t.Premium.Type, t.Premium.Percent), utils.FormatRupees(t.Premium.Amount))
	addSummaryRow(m, "Bill Amount", utils.FormatRupees(t.BillAmount))
	if t.ExtraItemsTotal != 0 {
		addSummaryRow(m, "Extra Items", utils.FormatRupees(t.ExtraItemsTotal))
	}
	addSummaryRow(m, "Grand Total", utils.FormatRupees(t.GrandTotal))
	if t.AmountPaidLastBill != 0 {
		addSummaryRow(m, "Less amount paid vide last bill", utils.FormatRupees(t.AmountPaidLastBill))
	}
	addSummaryRow(m, "Payable", utils.FormatRupees(t.Payable))

	return generate(m)
}

// =============================================================================
// CERTIFICATE
// =============================================================================

var recoveryColumns = []column{
	{"Recovery", 6, align.Left},
	{"Rate", 3, align.Center},
	{"Amount", 3, align.Right},
}

// CertificatePDF renders the payment certificate with its recoveries.
func CertificatePDF(doc types.Certificate) ([]byte, error) {
	m := newDocument(orientation.Vertical)

	addTitle(m, "CERTIFICATE AND SIGNATURES", doc.Header)

	addSummaryRow(m, "Grand Total", utils.FormatRupees(doc.Totals.GrandTotal))
	addSummaryRow(m, "Less amount paid vide last bill", utils.FormatRupees(doc.Totals.AmountPaidLastBill))
	addSummaryRow(m, "Payable Amount", utils.FormatRupees(doc.PayableAmount))
	addParagraph(m, "Rupees "+doc.PayableWords+" Only", fontstyle.Italic)

	m.AddRows(row.New(4))
	addTableHeader(m, recoveryColumns)
	for _, r := range doc.Recoveries {
		rate := ""
		if r.Percent != 0 {
			rate = strconv.FormatFloat(r.Percent, 'f', -1, 64) + "%"
		}
		addTableRow(m, recoveryColumns, []string{r.Name, rate, utils.FormatRupees(r.Amount)})
	}
	addSummaryRow(m, "Total Recoveries", utils.FormatRupees(doc.Deductions.TotalDeductions))
	addSummaryRow(m, "By Cheque", utils.FormatRupees(doc.Deductions.ByCheque))
	addParagraph(m, "Rupees "+doc.Deductions.ChequeAmountWords+" Only", fontstyle.Italic)

	m.AddRows(row.New(6))
	addParagraph(m, doc.Certification, fontstyle.Normal)
	m.AddRows(row.New(18))
	m.AddRows(row.New(6).Add(
		col.New(6).Add(text.New("Assistant Engineer", props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Left})),
		col.New(6).Add(text.New("Executive Engineer", props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right})),
	))

	return generate(m)
}

// =============================================================================
// DEVIATION STATEMENT
// =============================================================================

var deviationColumns = []column{
	{"S.No.", 1, align.Center},
	{"Description", 2, align.Left},
	{"Qty (WO)", 1, align.Right},
	{"Rate", 1, align.Right},
	{"Amount (WO)", 1, align.Right},
	{"Qty (Exec)", 1, align.Right},
	{"Amount (Exec)", 1, align.Right},
	{"Excess Qty", 1, align.Right},
	{"Excess Amt", 1, align.Right},
	{"Saving Qty", 1, align.Right},
	{"Saving Amt", 1, align.Right},
}

// DeviationPDF renders the deviation statement on landscape pages.
func DeviationPDF(doc types.DeviationDocument) ([]byte, error) {
	m := newDocument(orientation.Horizontal)

	addTitle(m, "DEVIATION STATEMENT", doc.Header)
	addTableHeader(m, deviationColumns)

	for _, item := range doc.Items {
		desc := item.Description
		if item.Unit != "" {
			desc += " (" + item.Unit + ")"
		}
		addTableRow(m, deviationColumns, []string{
			item.SerialNo,
			desc,
			formatQty(item.QtyWO),
			utils.FormatINR(item.Rate),
			utils.FormatRupees(item.AmtWO),
			formatQty(item.QtyBill),
			utils.FormatRupees(item.AmtBill),
			blankIfZero(item.ExcessQty),
			blankIfZeroAmount(item.ExcessAmt),
			blankIfZero(item.SavingQty),
			blankIfZeroAmount(item.SavingAmt),
		})
	}

	s := doc.Summary
	label := premiumLabel(s.Premium.Type, s.Premium.Percent)
	m.AddRows(row.New(4))
	addDeviationTotals(m, "Total", s.WorkOrderTotal, s.ExecutedTotal, s.OverallExcess, s.OverallSaving)
	addDeviationTotals(m, label, s.TenderPremiumF, s.TenderPremiumH, s.TenderPremiumJ, s.TenderPremiumL)
	addDeviationTotals(m, "Grand Total", s.GrandTotalF, s.GrandTotalH, s.GrandTotalJ, s.GrandTotalL)

	outcome := "Net excess"
	if s.NetDifference < 0 {
		outcome = "Net saving"
	}
	m.AddRows(row.New(4))
	addParagraph(m, fmt.Sprintf("%s: Rs. %s (%.2f%% of the work order)",
		outcome, utils.FormatRupees(abs(s.NetDifference)), math.Abs(s.DeviationPercent)), fontstyle.Bold)

	return generate(m)
}

// addDeviationTotals lines the four summary figures up under the amount
// columns of the statement.
func addDeviationTotals(m core.Maroto, label string, f, h, j, l int64) {
	bold := props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Right}
	cell := &props.Cell{BackgroundColor: summaryBg}
	m.AddRows(row.New(7).Add(
		col.New(4).Add(text.New(label, bold)).WithStyle(cell),
		col.New(1).Add(text.New(utils.FormatRupees(f), bold)).WithStyle(cell),
		col.New(1).WithStyle(cell),
		col.New(1).Add(text.New(utils.FormatRupees(h), bold)).WithStyle(cell),
		col.New(1).WithStyle(cell),
		col.New(1).Add(text.New(utils.FormatRupees(j), bold)).WithStyle(cell),
		col.New(1).WithStyle(cell),
		col.New(1).Add(text.New(utils.FormatRupees(l), bold)).WithStyle(cell),
		col.New(1).WithStyle(cell),
	))
}

// =============================================================================
// EXTRA ITEMS
// =============================================================================

var extraItemColumns = []column{
	{"S.No.", 1, align.Center},
	{"BSR", 2, align.Center},
	{"Description of item", 4, align.Left},
	{"Quantity", 1, align.Right},
	{"Rate", 2, align.Right},
	{"Amount", 2, align.Right},
}

// ExtraItemsPDF renders the list of extra items.
func ExtraItemsPDF(doc types.ExtraItemsDocument) ([]byte, error) {
	m := newDocument(orientation.Vertical)

	addTitle(m, "EXTRA ITEMS", doc.Header)
	addTableHeader(m, extraItemColumns)
	for _, item := range doc.Items {
		addTableRow(m, extraItemColumns, []string{
			item.SerialNo,
			item.BSRReference,
			item.Description,
			formatQty(item.Quantity),
			utils.FormatINR(item.Rate),
			utils.FormatRupees(item.Amount),
		})
	}
	m.AddRows(row.New(4))
	addSummaryRow(m, "Total Extra Items", utils.FormatRupees(doc.Total))

	return generate(m)
}

// =============================================================================
// NOTE SHEET
// =============================================================================

// NoteSheetPDF renders the office note with its numbered remarks.
func NoteSheetPDF(doc types.NoteSheet) ([]byte, error) {
	m := newDocument(orientation.Vertical)

	title := "BILL SCRUTINY SHEET"
	if doc.Header.BillType == string(types.BillFinal) {
		title = "FINAL " + title
	}
	addTitle(m, title, doc.Header)

	t := doc.Totals
	addSummaryRow(m, "Work Order Amount", utils.FormatINR(doc.Header.WorkOrderAmount))
	addSummaryRow(m, "Bill Amount (with premium)", utils.FormatRupees(t.BillAmount))
	addSummaryRow(m, "Extra Items", utils.FormatRupees(t.ExtraItemsTotal))
	addSummaryRow(m, "Grand Total", utils.FormatRupees(t.GrandTotal))
	addSummaryRow(m, "Payable", utils.FormatRupees(t.Payable))
	addSummaryRow(m, "Total Recoveries", utils.FormatRupees(doc.Deductions.TotalDeductions))
	addSummaryRow(m, "By Cheque", utils.FormatRupees(doc.Deductions.ByCheque))
	addSummaryRow(m, "Balance to be done", utils.FormatRupees(doc.BalanceToBeDone))

	m.AddRows(row.New(6))
	for i, note := range doc.Notes {
		m.AddRows(row.New(9).Add(
			col.New(1).Add(text.New(fmt.Sprintf("%d.", i+1), props.Text{Size: 9, Align: align.Right})),
			col.New(11).Add(text.New(note, props.Text{Size: 9, Align: align.Left, Left: 2})),
		))
	}

	return generate(m)
}

// =============================================================================
// SHARED LAYOUT
// =============================================================================

func newDocument(o orientation.Type) core.Maroto {
	cfg := config.NewBuilder().
		WithOrientation(o).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()
	return maroto.New(cfg)
}

func generate(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

// addTitle prints the document title and the contract details.
func addTitle(m core.Maroto, title string, h types.Header) {
	m.AddRows(row.New(12).Add(
		col.New(12).Add(text.New(title, props.Text{Size: 14, Style: fontstyle.Bold, Align: align.Center})),
	))

	details := [][2]string{
		{"Name of contractor", h.NameOfFirm},
		{"Name of work", h.NameOfWork},
		{"Agreement No.", h.AgreementNo},
		{"Work order", h.WorkOrderRef},
		{"Serial No. of bill", h.BillSerial},
		{"Date of commencement", h.DateOfCommencement},
		{"Stipulated date of completion", h.DateOfCompletion},
		{"Actual date of completion", h.ActualCompletionDate},
		{"Date of measurement", h.MeasurementDate},
	}
	label := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Left, Color: mutedFont}
	value := props.Text{Size: 8, Align: align.Left}
	for _, d := range details {
		if d[1] == "" {
			continue
		}
		m.AddRows(row.New(5).Add(
			col.New(4).Add(text.New(d[0], label)),
			col.New(8).Add(text.New(d[1], value)),
		))
	}
	m.AddRows(row.New(4))
}

func addTableHeader(m core.Maroto, columns []column) {
	cell := &props.Cell{BackgroundColor: headerBg}
	cols := make([]core.Col, 0, len(columns))
	for _, c := range columns {
		cols = append(cols, col.New(c.width).Add(
			text.New(c.title, props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Center, Color: headerFont}),
		).WithStyle(cell))
	}
	m.AddRows(row.New(8).Add(cols...))
}

func addTableRow(m core.Maroto, columns []column, values []string) {
	cols := make([]core.Col, 0, len(columns))
	for i, c := range columns {
		cols = append(cols, col.New(c.width).Add(
			text.New(values[i], props.Text{Size: 7, Align: c.align}),
		))
	}
	m.AddRows(row.New(7).Add(cols...))
}

func addSummaryRow(m core.Maroto, label, value string) {
	cell := &props.Cell{BackgroundColor: summaryBg}
	bold := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
	m.AddRows(row.New(7).Add(
		col.New(8).Add(text.New(label, bold)).WithStyle(cell),
		col.New(4).Add(text.New(value, bold)).WithStyle(cell),
	))
}

func addParagraph(m core.Maroto, s string, style fontstyle.Type) {
	m.AddRows(row.New(10).Add(
		col.New(12).Add(text.New(s, props.Text{Size: 8, Style: style, Align: align.Left})),
	))
}

// =============================================================================
// FORMATTING
// =============================================================================

func premiumLabel(t types.PremiumType, percent float64) string {
	if t == types.PremiumFixed {
		return "Tender Premium (fixed)"
	}
	return fmt.Sprintf("Tender Premium @ %s%% %s", strconv.FormatFloat(percent, 'f', -1, 64), t)
}

// formatQty prints whole quantities without decimals and others to three
// places, the precision measurements are recorded in.
func formatQty(qty float64) string {
	if qty == math.Trunc(qty) {
		return fmt.Sprintf("%.0f", qty)
	}
	return strconv.FormatFloat(qty, 'f', 3, 64)
}

func blankIfZero(qty float64) string {
	if qty == 0 {
		return ""
	}
	return formatQty(qty)
}

func blankIfZeroAmount(amount int64) string {
	if amount == 0 {
		return ""
	}
	return utils.FormatRupees(amount)
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
