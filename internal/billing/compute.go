package billing

import (
	"fmt"
	"log/slog"

	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/types"
)

// Options carries the ambient collaborators of a run.
type Options struct {
	// Logger receives skipped-row warnings. Nil discards them.
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// ValidateSheets rejects sheets that cannot hold a bill.
func ValidateSheets(sheets types.Sheets) error {
	wo, bq := sheets.WorkOrder, sheets.BillQuantity
	if wo.Rows() == 0 || bq.Rows() == 0 {
		return NewValidationError("sheets", "Work Order or Bill Quantity sheet is empty")
	}
	if wo.Rows() < MinMainRows {
		return NewValidationError("sheets",
			fmt.Sprintf("%s sheet has insufficient rows (need at least %d)", types.SheetWorkOrder, MinMainRows))
	}
	if bq.Rows() < MinMainRows {
		return NewValidationError("sheets",
			fmt.Sprintf("%s sheet has insufficient rows (need at least %d)", types.SheetBillQuantity, MinMainRows))
	}
	if wo.Width() < MinWorkOrderColumns {
		return NewValidationError("sheets",
			fmt.Sprintf("%s sheet has insufficient columns (need at least %d)", types.SheetWorkOrder, MinWorkOrderColumns))
	}
	return CheckNonNegative(bq)
}

// Compute runs the whole pipeline for one bill: validation, accumulation,
// premium, deductions and, for a final bill, the deviation statement.
//
// Compute reads nothing but its arguments, so concurrent calls are safe.
// Structural problems return a *ValidationError and no bill; rows that
// cannot be priced are skipped and listed in Bill.Diagnostics.
func Compute(sheets types.Sheets, params Parameters, opts Options) (*types.Bill, error) {
	log := opts.logger()

	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateSheets(sheets); err != nil {
		return nil, err
	}

	acc := Accumulate(sheets.WorkOrder, sheets.BillQuantity, sheets.ExtraItems)

	terms := params.Terms()
	premium := ApplyPremium(acc.WorkOrderTotal, terms)

	totals := types.BillTotals{
		WorkOrderTotal:  acc.WorkOrderTotal,
		Premium:         types.Premium{Percent: terms.Percent, Type: terms.Type, Amount: premium},
		BillAmount:      acc.WorkOrderTotal + premium,
		ExtraItemsTotal: acc.ExtraItemsTotal,
	}
	totals.GrandTotal = totals.BillAmount + totals.ExtraItemsTotal
	if !params.IsFirstBill {
		totals.AmountPaidLastBill = roundAmount(params.AmountPaidLastBill)
	}
	totals.Payable = totals.GrandTotal - totals.AmountPaidLastBill

	bill := &types.Bill{
		BillType:    params.BillType,
		IsFirstBill: params.IsFirstBill,
		MainItems:   acc.MainItems,
		ExtraItems:  acc.ExtraItems,
		Totals:      totals,
		Deductions: ApplyDeductions(totals.Payable, params.BillType, params.IsFirstBill,
			roundAmount(params.RecoveryDepositV), params.Policy),
		Diagnostics: acc.Skipped,
	}

	if params.BillType.IsFinal() {
		statement, skipped := AnalyzeDeviation(sheets.WorkOrder, sheets.BillQuantity, terms)
		bill.Deviation = statement
		bill.Diagnostics = mergeSkips(bill.Diagnostics, skipped)
	}

	for _, s := range bill.Diagnostics {
		log.Warn("row skipped",
			slog.String("sheet", s.Sheet),
			slog.Int("row", s.Row),
			slog.String("value", s.Value),
			slog.String("reason", s.Reason))
	}
	log.Debug("bill computed",
		slog.String("bill_type", string(params.BillType)),
		slog.Int("items", len(bill.MainItems)),
		slog.Int64("payable", totals.Payable),
		slog.Int64("by_cheque", bill.Deductions.ByCheque))

	return bill, nil
}

// mergeSkips appends the skips of b whose sheet row is not already in a.
func mergeSkips(a, b []types.RowSkip) []types.RowSkip {
	type key struct {
		sheet string
		row   int
	}
	seen := make(map[key]bool, len(a))
	for _, s := range a {
		seen[key{s.Sheet, s.Row}] = true
	}
	for _, s := range b {
		if !seen[key{s.Sheet, s.Row}] {
			a = append(a, s)
			seen[key{s.Sheet, s.Row}] = true
		}
	}
	return a
}
