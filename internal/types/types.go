// =============================================================================
// Contractor Bill Generator - Shared Types
// =============================================================================
//
// This package contains the records that flow between the loaders, the
// billing engine and the renderers. Keeping them here avoids import cycles
// between:
//   - billing
//   - converter
//   - validation
//   - render
//
// All records are plain data. Nullable sections are pointers.
//
// =============================================================================

package types

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// SHEET NAMES
// =============================================================================

// Names of the sheets a bill workbook must contain.
const (
	SheetWorkOrder    = "Work Order"
	SheetBillQuantity = "Bill Quantity"
	SheetExtraItems   = "Extra Items"
)

// RequiredSheets lists the sheets in the order they are checked.
var RequiredSheets = []string{SheetWorkOrder, SheetBillQuantity, SheetExtraItems}

// =============================================================================
// CELL GRID
// =============================================================================

// CellKind classifies a raw cell.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellNumber
	CellText
)

// Cell is one raw spreadsheet value. Exactly one of Number or Text is
// meaningful, depending on Kind.
type Cell struct {
	Kind   CellKind
	Number float64
	Text   string
}

// NumberCell returns a numeric cell.
func NumberCell(v float64) Cell { return Cell{Kind: CellNumber, Number: v} }

// TextCell returns a text cell. Text that is only whitespace is empty.
func TextCell(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Cell{}
	}
	return Cell{Kind: CellText, Text: s}
}

// ParseCell classifies a raw string the way a spreadsheet reader sees it:
// blank is empty, a plain decimal literal is a number, anything else is text.
func ParseCell(raw string) Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Cell{}
	}
	if v, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		return NumberCell(v)
	}
	return Cell{Kind: CellText, Text: raw}
}

// IsEmpty reports whether the cell holds nothing.
func (c Cell) IsEmpty() bool { return c.Kind == CellEmpty }

// String renders the cell for descriptive columns. Numbers print without
// trailing zeros so a serial of 3 reads "3", not "3.000000".
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellText:
		return strings.TrimSpace(c.Text)
	default:
		return ""
	}
}

// CellGrid is a rectangular-ish table of raw values indexed [row][col].
// Rows may be ragged; reads outside the grid return an empty cell.
type CellGrid [][]Cell

// NewGrid builds a grid from raw strings using ParseCell.
func NewGrid(rows [][]string) CellGrid {
	grid := make(CellGrid, len(rows))
	for i, row := range rows {
		cells := make([]Cell, len(row))
		for j, raw := range row {
			cells[j] = ParseCell(raw)
		}
		grid[i] = cells
	}
	return grid
}

// Rows returns the number of rows.
func (g CellGrid) Rows() int { return len(g) }

// Width returns the length of the widest row.
func (g CellGrid) Width() int {
	width := 0
	for _, row := range g {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

// At returns the cell at (row, col), or an empty cell when out of range.
func (g CellGrid) At(row, col int) Cell {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return Cell{}
	}
	return g[row][col]
}

// RowEmpty reports whether every cell of the row is empty. Rows beyond the
// grid are empty.
func (g CellGrid) RowEmpty(row int) bool {
	if row < 0 || row >= len(g) {
		return true
	}
	for _, c := range g[row] {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// Sheets bundles the three input grids of one bill.
type Sheets struct {
	WorkOrder    CellGrid
	BillQuantity CellGrid
	ExtraItems   CellGrid
}

// =============================================================================
// BILL PARAMETERS
// =============================================================================

// PremiumType selects how the tender premium is computed.
type PremiumType string

const (
	PremiumAbove PremiumType = "Above"
	PremiumBelow PremiumType = "Below"
	PremiumFixed PremiumType = "Fixed"
)

// ParsePremiumType accepts any casing of Above, Below or Fixed.
func ParsePremiumType(s string) (PremiumType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "above":
		return PremiumAbove, true
	case "below":
		return PremiumBelow, true
	case "fixed":
		return PremiumFixed, true
	}
	return "", false
}

// BillType distinguishes running (interim) bills from the final bill.
type BillType string

const (
	BillRunning BillType = "Running Bill"
	BillFinal   BillType = "Final Bill"
)

// ParseBillType accepts "running", "running bill", "final" and "final bill"
// in any casing.
func ParseBillType(s string) (BillType, bool) {
	switch strings.ToLower(strings.Join(strings.Fields(s), " ")) {
	case "running", "running bill":
		return BillRunning, true
	case "final", "final bill":
		return BillFinal, true
	}
	return "", false
}

// IsFinal reports whether the bill closes the contract.
func (b BillType) IsFinal() bool { return b == BillFinal }

// PremiumTerms is the tender premium as agreed, before it is applied.
type PremiumTerms struct {
	Percent     float64     `json:"percent"`
	Type        PremiumType `json:"type"`
	FixedAmount float64     `json:"fixed_amount,omitempty"`
}

// Metadata is the free-text header information printed on every document.
// Zero dates are treated as absent.
type Metadata struct {
	ContractorName       string    `json:"contractor_name"`
	WorkName             string    `json:"work_name"`
	BillSerial           string    `json:"bill_serial"`
	AgreementNo          string    `json:"agreement_no"`
	WorkOrderRef         string    `json:"work_order_ref"`
	WorkOrderAmount      float64   `json:"work_order_amount"`
	StartDate            time.Time `json:"start_date"`
	CompletionDate       time.Time `json:"completion_date"`
	ActualCompletionDate time.Time `json:"actual_completion_date"`
	MeasurementDate      time.Time `json:"measurement_date"`
	OrderDate            time.Time `json:"order_date"`
}

// =============================================================================
// BILL RECORDS
// =============================================================================

// LineItem is one priced row of the bill. Amount is always the rounded
// product of Quantity and Rate. Divider rows carry only a description.
type LineItem struct {
	SerialNo     string  `json:"serial_no"`
	Description  string  `json:"description"`
	Unit         string  `json:"unit"`
	Quantity     float64 `json:"quantity"`
	Rate         float64 `json:"rate"`
	Amount       int64   `json:"amount"`
	BSRReference string  `json:"bsr_reference"`
	Remark       string  `json:"remark"`
	IsDivider    bool    `json:"is_divider,omitempty"`
}

// Premium is the tender premium as applied to the work-order total.
type Premium struct {
	Percent float64     `json:"percent"`
	Type    PremiumType `json:"type"`
	Amount  int64       `json:"amount"`
}

// BillTotals holds the bill-level sums.
type BillTotals struct {
	WorkOrderTotal     int64   `json:"work_order_total"`
	Premium            Premium `json:"premium"`
	BillAmount         int64   `json:"bill_amount"`
	ExtraItemsTotal    int64   `json:"extra_items_total"`
	GrandTotal         int64   `json:"grand_total"`
	AmountPaidLastBill int64   `json:"amount_paid_last_bill"`
	Payable            int64   `json:"payable"`
}

// DeductionSet holds the statutory deductions and the resulting cheque.
type DeductionSet struct {
	SecurityDeposit   int64  `json:"sd_amount"`
	IncomeTax         int64  `json:"it_amount"`
	GST               int64  `json:"gst_amount"`
	LabourCess        int64  `json:"lc_amount"`
	RecoveryDepositV  int64  `json:"recovery_deposit_v"`
	TotalDeductions   int64  `json:"total_deductions"`
	ByCheque          int64  `json:"by_cheque"`
	ChequeAmountWords string `json:"cheque_amount_words"`
}

// DeviationItem compares one work-order row with its executed quantity.
// At most one of ExcessQty and SavingQty is nonzero.
type DeviationItem struct {
	SerialNo     string  `json:"serial_no"`
	Description  string  `json:"description"`
	Unit         string  `json:"unit"`
	BSRReference string  `json:"bsr_reference"`
	QtyWO        float64 `json:"qty_wo"`
	Rate         float64 `json:"rate"`
	AmtWO        int64   `json:"amt_wo"`
	QtyBill      float64 `json:"qty_bill"`
	AmtBill      int64   `json:"amt_bill"`
	ExcessQty    float64 `json:"excess_qty"`
	ExcessAmt    int64   `json:"excess_amt"`
	SavingQty    float64 `json:"saving_qty"`
	SavingAmt    int64   `json:"saving_amt"`
}

// DeviationSummary totals a deviation statement. The F, H, J and L columns
// follow the printed statement: work order, executed, excess and saving.
type DeviationSummary struct {
	WorkOrderTotal   int64        `json:"work_order_total"`
	ExecutedTotal    int64        `json:"executed_total"`
	OverallExcess    int64        `json:"overall_excess"`
	OverallSaving    int64        `json:"overall_saving"`
	Premium          PremiumTerms `json:"premium"`
	TenderPremiumF   int64        `json:"tender_premium_f"`
	TenderPremiumH   int64        `json:"tender_premium_h"`
	TenderPremiumJ   int64        `json:"tender_premium_j"`
	TenderPremiumL   int64        `json:"tender_premium_l"`
	GrandTotalF      int64        `json:"grand_total_f"`
	GrandTotalH      int64        `json:"grand_total_h"`
	GrandTotalJ      int64        `json:"grand_total_j"`
	GrandTotalL      int64        `json:"grand_total_l"`
	NetDifference    int64        `json:"net_difference"`
	DeviationPercent float64      `json:"deviation_percent"`
}

// DeviationStatement is the per-row comparison plus its summary.
type DeviationStatement struct {
	Items   []DeviationItem  `json:"items"`
	Summary DeviationSummary `json:"summary"`
}

// RowSkip records a row left out of the bill and why. Kept marks a row that
// stays in the bill with one cell taken as 0.
// Row and Column are 1-based, as a user sees them in a spreadsheet.
type RowSkip struct {
	Sheet  string `json:"sheet"`
	Row    int    `json:"row"`
	Column int    `json:"column,omitempty"`
	Value  string `json:"value,omitempty"`
	Reason string `json:"reason"`
	Kept   bool   `json:"kept,omitempty"`
}

// Bill owns every computed record of one bill run. MainItems holds the
// work-order rows followed, when extra items exist, by a divider and the
// extra items. Deviation is nil unless the bill is a final bill.
type Bill struct {
	BillType    BillType            `json:"bill_type"`
	IsFirstBill bool                `json:"is_first_bill"`
	MainItems   []LineItem          `json:"main_items"`
	ExtraItems  []LineItem          `json:"extra_items"`
	Totals      BillTotals          `json:"totals"`
	Deductions  DeductionSet        `json:"deductions"`
	Deviation   *DeviationStatement `json:"deviation,omitempty"`
	Diagnostics []RowSkip           `json:"diagnostics,omitempty"`
}

// =============================================================================
// OUTPUT DOCUMENTS
// =============================================================================

// Header is the block of contract details printed at the top of documents.
// Dates are already formatted DD/MM/YYYY; absent dates are empty.
type Header struct {
	AgreementNo          string  `json:"agreement_no"`
	NameOfWork           string  `json:"name_of_work"`
	NameOfFirm           string  `json:"name_of_firm"`
	BillSerial           string  `json:"bill_serial"`
	WorkOrderRef         string  `json:"work_order_ref"`
	WorkOrderAmount      float64 `json:"work_order_amount"`
	DateOfOrder          string  `json:"date_of_order"`
	DateOfCommencement   string  `json:"date_of_commencement"`
	DateOfCompletion     string  `json:"date_of_completion"`
	ActualCompletionDate string  `json:"actual_completion_date"`
	MeasurementDate      string  `json:"measurement_date"`
	BillType             string  `json:"bill_type"`
}

// FirstPage is the itemised bill.
type FirstPage struct {
	Header Header     `json:"header"`
	Items  []LineItem `json:"items"`
	Totals BillTotals `json:"totals"`
}

// DeductionLine is one printed recovery with its rate.
type DeductionLine struct {
	Name    string  `json:"name"`
	Percent float64 `json:"percent,omitempty"`
	Amount  int64   `json:"amount"`
}

// Certificate is the payment certificate.
type Certificate struct {
	Header        Header          `json:"header"`
	Totals        BillTotals      `json:"totals"`
	PayableAmount int64           `json:"payable_amount"`
	PayableWords  string          `json:"payable_words"`
	Recoveries    []DeductionLine `json:"recoveries"`
	Deductions    DeductionSet    `json:"deductions"`
	Certification string          `json:"certification"`
}

// DeviationDocument is the deviation statement with its header.
type DeviationDocument struct {
	Header Header `json:"header"`
	DeviationStatement
}

// ExtraItemsDocument lists the items executed outside the work order.
type ExtraItemsDocument struct {
	Header Header     `json:"header"`
	Items  []LineItem `json:"items"`
	Total  int64      `json:"total"`
}

// NoteSheet is the office note that accompanies the bill.
type NoteSheet struct {
	Header          Header       `json:"header"`
	Totals          BillTotals   `json:"totals"`
	Deductions      DeductionSet `json:"deductions"`
	BalanceToBeDone int64        `json:"balance_to_be_done"`
	Notes           []string     `json:"notes"`
}

// Documents is everything a bill run produces for rendering.
type Documents struct {
	FirstPage   FirstPage           `json:"first_page"`
	Certificate Certificate         `json:"certificate"`
	Deviation   *DeviationDocument  `json:"deviation"`
	ExtraItems  *ExtraItemsDocument `json:"extra_items"`
	NoteSheet   NoteSheet           `json:"note_sheet"`
}
