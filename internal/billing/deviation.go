package billing

import (
	"strconv"

	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/types"
)

// AnalyzeDeviation compares the work-order quantity of every row with the
// executed quantity. Rates come from the Work Order sheet. Rows are skipped
// by the same rules as Accumulate, and every other row is kept, including
// rows with no deviation, so the statement lines up with the first-page
// items. A work-order quantity that does not parse or is negative counts
// as 0 and is reported with Kept set.
//
// The tender premium is applied to each of the four summary columns. A
// fixed premium is carried by the work-order and executed columns only.
func AnalyzeDeviation(workOrder, billQuantity types.CellGrid, terms types.PremiumTerms) (*types.DeviationStatement, []types.RowSkip) {
	wo, bq := Layout.WorkOrder, Layout.BillQuantity

	var (
		items   []types.DeviationItem
		skipped []types.RowSkip
		sum     types.DeviationSummary
	)
	for row := wo.DataStartRow; row < workOrder.Rows(); row++ {
		if workOrder.RowEmpty(row) {
			continue
		}

		rate, skip := readNumber(workOrder, wo, row, wo.Rate)
		if skip != nil {
			skipped = append(skipped, *skip)
			continue
		}
		if rate < 0 {
			skipped = append(skipped, negativeSkip(workOrder, wo, row, wo.Rate, "negative rate"))
			continue
		}
		qtyBill, skip := readNumber(billQuantity, bq, row, bq.Quantity)
		if skip != nil {
			skipped = append(skipped, *skip)
			continue
		}

		// The row is billed whatever its work-order quantity holds, so an
		// unusable quantity is taken as 0 and the row stays in line.
		qtyWO, skip := readNumber(workOrder, wo, row, wo.Quantity)
		if skip == nil && qtyWO < 0 {
			s := negativeSkip(workOrder, wo, row, wo.Quantity, "work-order quantity is negative, taken as 0")
			skip = &s
		} else if skip != nil {
			skip.Reason = "work-order quantity is not a number, taken as 0"
		}
		if skip != nil {
			qtyWO = 0
			skip.Kept = true
			skipped = append(skipped, *skip)
		}

		item := types.DeviationItem{
			SerialNo:     strconv.Itoa(wo.serialFor(row)),
			Description:  wo.text(workOrder, row, wo.Description),
			Unit:         wo.text(workOrder, row, wo.Unit),
			BSRReference: wo.text(workOrder, row, wo.BSR),
			QtyWO:        qtyWO,
			Rate:         rate,
			AmtWO:        lineAmount(qtyWO, rate),
			QtyBill:      qtyBill,
			AmtBill:      lineAmount(qtyBill, rate),
		}
		switch {
		case qtyBill > qtyWO:
			item.ExcessQty = quantityDelta(qtyWO, qtyBill)
			item.ExcessAmt = lineAmount(item.ExcessQty, rate)
		case qtyBill < qtyWO:
			item.SavingQty = quantityDelta(qtyBill, qtyWO)
			item.SavingAmt = lineAmount(item.SavingQty, rate)
		}

		items = append(items, item)
		sum.WorkOrderTotal += item.AmtWO
		sum.ExecutedTotal += item.AmtBill
		sum.OverallExcess += item.ExcessAmt
		sum.OverallSaving += item.SavingAmt
	}

	sum.Premium = terms
	sum.TenderPremiumF = ApplyPremium(sum.WorkOrderTotal, terms)
	sum.TenderPremiumH = ApplyPremium(sum.ExecutedTotal, terms)
	sum.TenderPremiumJ = percentageOnly(sum.OverallExcess, terms)
	sum.TenderPremiumL = percentageOnly(sum.OverallSaving, terms)

	sum.GrandTotalF = sum.WorkOrderTotal + sum.TenderPremiumF
	sum.GrandTotalH = sum.ExecutedTotal + sum.TenderPremiumH
	sum.GrandTotalJ = sum.OverallExcess + sum.TenderPremiumJ
	sum.GrandTotalL = sum.OverallSaving + sum.TenderPremiumL

	sum.NetDifference = sum.GrandTotalH - sum.GrandTotalF
	sum.DeviationPercent = ratioPercent(float64(sum.NetDifference), float64(sum.GrandTotalF))

	return &types.DeviationStatement{Items: items, Summary: sum}, skipped
}
