package billing

import (
	"fmt"
	"time"

	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/types"
	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/pkg/utils"
)

// DateLayout is how dates are printed on every document.
const DateLayout = "02/01/2006"

// DefaultApprovingAuthority is consulted when a deviation or delay exceeds
// what the billing office may approve.
const DefaultApprovingAuthority = "Superintending Engineer"

// Thresholds of the note sheet, in percent of the work-order amount.
const (
	shortfallThreshold   = 90.0
	excessThreshold      = 105.0
	extraItemsThreshold  = 5.0
	delayApprovalPortion = 0.5
)

// Office describes who signs the note sheet.
type Office struct {
	ApprovingAuthority string
	AuditorName        string
}

func (o Office) authority() string {
	if o.ApprovingAuthority == "" {
		return DefaultApprovingAuthority
	}
	return o.ApprovingAuthority
}

// workOrderAmount is the sanctioned amount from the metadata, or the priced
// work-order total when none was recorded.
func workOrderAmount(bill *types.Bill, meta types.Metadata) float64 {
	if meta.WorkOrderAmount > 0 {
		return meta.WorkOrderAmount
	}
	return float64(bill.Totals.WorkOrderTotal)
}

// BillNotes writes the remarks of the note sheet: progress against the work
// order, deviation and delay approvals for a final bill, the share of extra
// items, and the closing lines.
func BillNotes(bill *types.Bill, meta types.Metadata, office Office) []string {
	woAmount := workOrderAmount(bill, meta)
	done := ratioPercent(float64(bill.Totals.GrandTotal), woAmount)

	notes := []string{
		fmt.Sprintf("Work has been executed to %.2f%% of the work order amount of Rs. %s.",
			done, utils.FormatINR(woAmount)),
	}

	if bill.BillType.IsFinal() {
		switch {
		case done < shortfallThreshold:
			notes = append(notes, "Execution is below 90% of the work order amount. The deviation statement is enclosed and the saving is approved by this office.")
		case done > excessThreshold:
			notes = append(notes, fmt.Sprintf("Execution exceeds the work order amount by more than 5%%. The deviation requires approval of the %s.", office.authority()))
		case done > 100:
			notes = append(notes, "Execution exceeds the work order amount by not more than 5%. The deviation is approved by this office.")
		}
		notes = append(notes, delayNotes(meta, office)...)
	}

	if bill.Totals.ExtraItemsTotal > 0 {
		share := ratioPercent(float64(bill.Totals.ExtraItemsTotal), woAmount)
		if share > extraItemsThreshold {
			notes = append(notes, fmt.Sprintf("Extra items amount to %.2f%% of the work order amount and require approval of the %s.", share, office.authority()))
		} else {
			notes = append(notes, fmt.Sprintf("Extra items amount to %.2f%% of the work order amount and are approved by this office.", share))
		}
	}

	notes = append(notes,
		"Quality control test reports are attached.",
		"Please peruse the above details for necessary decision-making.")
	if office.AuditorName != "" {
		notes = append(notes, "Auditor: "+office.AuditorName)
	}
	return notes
}

func delayNotes(meta types.Metadata, office Office) []string {
	if meta.CompletionDate.IsZero() || meta.ActualCompletionDate.IsZero() {
		return []string{"Completion dates are not recorded, so delay cannot be assessed."}
	}

	delay := daysBetween(meta.CompletionDate, meta.ActualCompletionDate)
	if delay <= 0 {
		return []string{"Work was completed in time."}
	}

	commenced := meta.StartDate
	if commenced.IsZero() {
		commenced = meta.OrderDate
	}
	if commenced.IsZero() {
		return []string{
			fmt.Sprintf("Work was completed %d days late.", delay),
			fmt.Sprintf("Time extension requires approval of the %s.", office.authority()),
		}
	}

	allowed := daysBetween(commenced, meta.CompletionDate)
	notes := []string{fmt.Sprintf("Work was completed %d days late against %d days allowed.", delay, allowed)}
	if float64(delay) > delayApprovalPortion*float64(allowed) {
		notes = append(notes, fmt.Sprintf("The delay exceeds half of the time allowed; time extension requires approval of the %s.", office.authority()))
	} else {
		notes = append(notes, "Time extension for the delay is approved by this office.")
	}
	return notes
}

// daysBetween counts calendar days from a to b.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}

// formatDate prints a date, or "" when absent.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
