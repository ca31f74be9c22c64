package billing

import (
	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/types"
	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/pkg/utils"
)

// Statutory recovery rates, in percent of the payable amount.
const (
	SecurityDepositRate = 10.0
	IncomeTaxRate       = 2.0
	GSTRate             = 2.0
	LabourCessRate      = 1.0
)

// DeductionPolicy holds the switches that differ between offices. Final
// bills always carry every recovery; the switches only widen what a running
// bill carries.
type DeductionPolicy struct {
	GSTOnRunningBills        bool
	LabourCessOnRunningBills bool
}

// ApplyDeductions computes the recoveries on payable and the cheque amount.
//
//	running, first bill:     income tax
//	running, later bill:     security deposit, income tax
//	final bill:              security deposit, income tax, GST, labour cess
//
// Each recovery is rounded half up and then bumped to the next even rupee.
// A negative payable is treated as zero, and the cheque never goes below zero.
func ApplyDeductions(payable int64, billType types.BillType, isFirstBill bool, depositV int64, policy DeductionPolicy) types.DeductionSet {
	base := max(payable, 0)
	final := billType.IsFinal()

	var d types.DeductionSet
	if final || !isFirstBill {
		d.SecurityDeposit = evenPercentOf(base, SecurityDepositRate)
	}
	d.IncomeTax = evenPercentOf(base, IncomeTaxRate)
	if final || policy.GSTOnRunningBills {
		d.GST = evenPercentOf(base, GSTRate)
	}
	if final || policy.LabourCessOnRunningBills {
		d.LabourCess = evenPercentOf(base, LabourCessRate)
	}
	d.RecoveryDepositV = depositV

	d.TotalDeductions = d.SecurityDeposit + d.IncomeTax + d.GST + d.LabourCess + d.RecoveryDepositV
	d.ByCheque = max(payable-d.TotalDeductions, 0)
	d.ChequeAmountWords = utils.AmountInWords(d.ByCheque)
	return d
}

// recoveryLines lists the recoveries as printed on the certificate.
func recoveryLines(d types.DeductionSet) []types.DeductionLine {
	return []types.DeductionLine{
		{Name: "Security Deposit", Percent: SecurityDepositRate, Amount: d.SecurityDeposit},
		{Name: "Income Tax", Percent: IncomeTaxRate, Amount: d.IncomeTax},
		{Name: "GST", Percent: GSTRate, Amount: d.GST},
		{Name: "Labour Cess", Percent: LabourCessRate, Amount: d.LabourCess},
		{Name: "Recovery of Deposit V", Amount: d.RecoveryDepositV},
	}
}
