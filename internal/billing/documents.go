package billing

import (
	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/types"
	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/pkg/utils"
)

// Certification is printed above the signatures of the payment certificate.
const Certification = "Certified that the measurements on which this bill is based have been recorded, " +
	"that the work has been executed according to the agreement and that the quantities " +
	"and rates charged are correct."

// BuildDocuments lays a computed bill out as the five documents of a bill
// run. Deviation is nil unless the bill carries a deviation statement and
// ExtraItems is nil when there are no extra items.
func BuildDocuments(bill *types.Bill, meta types.Metadata, office Office) types.Documents {
	header := buildHeader(bill, meta)

	docs := types.Documents{
		FirstPage: types.FirstPage{
			Header: header,
			Items:  bill.MainItems,
			Totals: bill.Totals,
		},
		Certificate: types.Certificate{
			Header:        header,
			Totals:        bill.Totals,
			PayableAmount: bill.Totals.Payable,
			PayableWords:  utils.AmountInWords(bill.Totals.Payable),
			Recoveries:    recoveryLines(bill.Deductions),
			Deductions:    bill.Deductions,
			Certification: Certification,
		},
		NoteSheet: types.NoteSheet{
			Header:          header,
			Totals:          bill.Totals,
			Deductions:      bill.Deductions,
			BalanceToBeDone: max(roundAmount(workOrderAmount(bill, meta))-bill.Totals.BillAmount, 0),
			Notes:           BillNotes(bill, meta, office),
		},
	}

	if bill.Deviation != nil {
		docs.Deviation = &types.DeviationDocument{
			Header:             header,
			DeviationStatement: *bill.Deviation,
		}
	}
	if len(bill.ExtraItems) > 0 {
		docs.ExtraItems = &types.ExtraItemsDocument{
			Header: header,
			Items:  bill.ExtraItems,
			Total:  bill.Totals.ExtraItemsTotal,
		}
	}
	return docs
}

func buildHeader(bill *types.Bill, meta types.Metadata) types.Header {
	return types.Header{
		AgreementNo:          meta.AgreementNo,
		NameOfWork:           meta.WorkName,
		NameOfFirm:           meta.ContractorName,
		BillSerial:           meta.BillSerial,
		WorkOrderRef:         meta.WorkOrderRef,
		WorkOrderAmount:      meta.WorkOrderAmount,
		DateOfOrder:          formatDate(meta.OrderDate),
		DateOfCommencement:   formatDate(meta.StartDate),
		DateOfCompletion:     formatDate(meta.CompletionDate),
		ActualCompletionDate: formatDate(meta.ActualCompletionDate),
		MeasurementDate:      formatDate(meta.MeasurementDate),
		BillType:             string(bill.BillType),
	}
}
