package billing

import (
	"strconv"

	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/types"
)

// DividerDescription heads the extra items inside the main item list.
const DividerDescription = "Extra Items (With Premium)"

// Accumulation is the priced item list of a bill before premium and
// deductions are applied.
type Accumulation struct {
	// MainItems holds the work-order rows, then the divider and the extra
	// items when there are any.
	MainItems []types.LineItem

	// ExtraItems holds the extra items on their own.
	ExtraItems []types.LineItem

	// WorkOrderTotal sums the rounded amounts of the work-order rows.
	WorkOrderTotal int64

	// ExtraItemsTotal sums the rounded amounts of the extra items.
	ExtraItemsTotal int64

	// Skipped lists rows left out of the bill.
	Skipped []types.RowSkip
}

// Accumulate prices every work-order row with the executed quantity from
// the Bill Quantity sheet and appends the extra items. Quantity comes from
// Bill Quantity; rate and the descriptive columns come from the Work Order
// row at the same index. A missing Bill Quantity row means quantity 0.
//
// Rows whose Work Order side is blank are ignored. Rows with a cell that
// does not parse, or with a negative rate, are skipped and reported.
func Accumulate(workOrder, billQuantity, extraItems types.CellGrid) Accumulation {
	var acc Accumulation

	wo, bq := Layout.WorkOrder, Layout.BillQuantity
	for row := wo.DataStartRow; row < workOrder.Rows(); row++ {
		if workOrder.RowEmpty(row) {
			if !billQuantity.RowEmpty(row) {
				acc.Skipped = append(acc.Skipped, types.RowSkip{
					Sheet:  bq.Sheet,
					Row:    row + 1,
					Reason: "no matching Work Order row",
				})
			}
			continue
		}

		quantity, skip := readNumber(billQuantity, bq, row, bq.Quantity)
		if skip != nil {
			acc.Skipped = append(acc.Skipped, *skip)
			continue
		}
		rate, skip := readNumber(workOrder, wo, row, wo.Rate)
		if skip != nil {
			acc.Skipped = append(acc.Skipped, *skip)
			continue
		}
		if rate < 0 {
			acc.Skipped = append(acc.Skipped, negativeSkip(workOrder, wo, row, wo.Rate, "negative rate"))
			continue
		}

		item := types.LineItem{
			SerialNo:     strconv.Itoa(wo.serialFor(row)),
			Description:  wo.text(workOrder, row, wo.Description),
			Unit:         wo.text(workOrder, row, wo.Unit),
			Quantity:     quantity,
			Rate:         rate,
			Amount:       lineAmount(quantity, rate),
			BSRReference: wo.text(workOrder, row, wo.BSR),
			Remark:       wo.text(workOrder, row, wo.Remark),
		}
		acc.MainItems = append(acc.MainItems, item)
		acc.WorkOrderTotal += item.Amount
	}

	acc.ExtraItems, acc.ExtraItemsTotal = accumulateExtras(extraItems, &acc.Skipped)
	if len(acc.ExtraItems) > 0 {
		acc.MainItems = append(acc.MainItems, types.LineItem{
			Description: DividerDescription,
			IsDivider:   true,
		})
		acc.MainItems = append(acc.MainItems, acc.ExtraItems...)
	}

	return acc
}

// accumulateExtras prices the Extra Items sheet. Extra items carry their own
// quantity and rate and have no unit column.
func accumulateExtras(extra types.CellGrid, skipped *[]types.RowSkip) ([]types.LineItem, int64) {
	l := Layout.ExtraItems

	var (
		items []types.LineItem
		total int64
	)
	for row := l.DataStartRow; row < extra.Rows(); row++ {
		if extra.RowEmpty(row) {
			continue
		}

		quantity, skip := readNumber(extra, l, row, l.Quantity)
		if skip != nil {
			*skipped = append(*skipped, *skip)
			continue
		}
		if quantity < 0 {
			*skipped = append(*skipped, negativeSkip(extra, l, row, l.Quantity, "negative quantity"))
			continue
		}
		rate, skip := readNumber(extra, l, row, l.Rate)
		if skip != nil {
			*skipped = append(*skipped, *skip)
			continue
		}
		if rate < 0 {
			*skipped = append(*skipped, negativeSkip(extra, l, row, l.Rate, "negative rate"))
			continue
		}

		serial := l.text(extra, row, l.Serial)
		if serial == "" {
			serial = strconv.Itoa(l.serialFor(row))
		}

		item := types.LineItem{
			SerialNo:     serial,
			Description:  l.text(extra, row, l.Description),
			Quantity:     quantity,
			Rate:         rate,
			Amount:       lineAmount(quantity, rate),
			BSRReference: l.text(extra, row, l.BSR),
			Remark:       l.text(extra, row, l.Remark),
		}
		items = append(items, item)
		total += item.Amount
	}
	return items, total
}

// readNumber normalises one numeric cell, or describes why the row is skipped.
func readNumber(g types.CellGrid, l SheetLayout, row, col int) (float64, *types.RowSkip) {
	cell := g.At(row, col)
	v, err := NormalizeCell(cell)
	if err != nil {
		return 0, &types.RowSkip{
			Sheet:  l.Sheet,
			Row:    row + 1,
			Column: col + 1,
			Value:  cell.String(),
			Reason: "not a number",
		}
	}
	return v, nil
}

func negativeSkip(g types.CellGrid, l SheetLayout, row, col int, reason string) types.RowSkip {
	return types.RowSkip{
		Sheet:  l.Sheet,
		Row:    row + 1,
		Column: col + 1,
		Value:  g.At(row, col).String(),
		Reason: reason,
	}
}
