// =============================================================================
// Contractor Bill Generator - Validation Engine
// =============================================================================
//
// This module checks an input before a bill is generated from it, so the
// office can correct the workbook or the job file first. It reports:
//   - Job problems (premium out of range, missing paid amount, dates)
//   - Structural problems (missing sheets, too few rows or columns,
//     negative quantities or rates)
//   - Rows the engine would leave out of the bill, with the reason
//   - Contract details missing from the documents
//
// ERROR HANDLING:
//   - Issues are collected, not returned one at a time
//   - Each issue names the sheet, row and value involved where there is one
//   - Errors stop a bill; warnings describe a bill that would still be
//     produced but may not be what the office expects
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/billing"
	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/config"
	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/converter"
	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/types"
)

// Severities of an issue.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Rules an issue can break.
const (
	RuleInput      = "input"
	RuleParameters = "parameters"
	RuleStructure  = "structure"
	RuleRow        = "row"
	RuleMetadata   = "metadata"
)

// =============================================================================
// VALIDATION ISSUE TYPES
// =============================================================================

// Issue represents a single validation finding.
type Issue struct {
	// Severity is SeverityError or SeverityWarning.
	Severity string

	// Sheet is the sheet involved, if any.
	Sheet string

	// RowNumber is the 1-based spreadsheet row, if any.
	RowNumber int

	// Field is the parameter or metadata field involved, if any.
	Field string

	// Value is the offending value as read.
	Value string

	// Rule is the kind of check that produced the issue.
	Rule string

	// Message is a human-readable message.
	Message string
}

// Error implements the error interface.
func (i *Issue) Error() string {
	var where []string
	if i.Sheet != "" {
		where = append(where, i.Sheet)
	}
	if i.RowNumber > 0 {
		where = append(where, fmt.Sprintf("row %d", i.RowNumber))
	}
	if i.Field != "" {
		where = append(where, fmt.Sprintf("field '%s'", i.Field))
	}

	msg := fmt.Sprintf("[%s] ", strings.ToUpper(i.Severity))
	if len(where) > 0 {
		msg += strings.Join(where, ", ") + ": "
	}
	msg += i.Message
	if i.Value != "" {
		msg += fmt.Sprintf(" (value: '%s')", i.Value)
	}
	return msg
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// Result contains the results of validation.
type Result struct {
	// IsValid is true if a bill can be generated.
	IsValid bool

	// Issues contains all findings, errors and warnings.
	Issues []*Issue

	// ErrorCount is the number of errors.
	ErrorCount int

	// WarningCount is the number of warnings.
	WarningCount int

	// Bill is the bill the input would produce, when it can be computed.
	Bill *types.Bill
}

func (r *Result) add(issue *Issue, warningsAreErrors bool) {
	r.Issues = append(r.Issues, issue)
	if issue.Severity == SeverityError {
		r.ErrorCount++
		r.IsValid = false
		return
	}
	r.WarningCount++
	if warningsAreErrors {
		r.IsValid = false
	}
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Options contains options for validation.
type Options struct {
	// TreatWarningsAsErrors makes any warning invalidate the input.
	// Default: false
	TreatWarningsAsErrors bool
}

// Validator checks bill inputs.
type Validator struct {
	options Options
}

// NewValidator creates a new Validator instance.
func NewValidator(options Options) *Validator {
	return &Validator{options: options}
}

// =============================================================================
// MAIN VALIDATION FUNCTIONS
// =============================================================================

// CheckInput loads an input with the job's settings and checks it.
//
// PARAMETERS:
//   - path: A workbook, or a directory of CSV sheets.
//   - job: The job whose terms apply to the input.
//   - mainConfig: The main configuration, for the deduction policy.
//
// RETURNS:
//   - The validation result. Load failures are reported as issues.
func (v *Validator) CheckInput(path string, job *config.JobConfig, mainConfig *config.MainConfig) *Result {
	result := &Result{IsValid: true}

	params, err := job.Parameters(mainConfig)
	paramsOK := err == nil
	if err != nil {
		result.add(issueFromError(err, RuleParameters), false)
	}

	sheets, err := converter.LoadSheets(path, job.CSVSettings)
	if err != nil {
		result.add(issueFromError(err, RuleInput), false)
		return result
	}

	if !paramsOK {
		v.checkSheets(result, sheets)
		return result
	}
	v.check(result, sheets, params)
	return result
}

// Check validates sheets and parameters that are already loaded.
func (v *Validator) Check(sheets types.Sheets, params billing.Parameters) *Result {
	result := &Result{IsValid: true}
	v.check(result, sheets, params)
	return result
}

func (v *Validator) check(result *Result, sheets types.Sheets, params billing.Parameters) {
	if err := params.Validate(); err != nil {
		result.add(issueFromError(err, RuleParameters), false)
		v.checkSheets(result, sheets)
		return
	}
	v.checkParameters(result, params)

	bill, err := billing.Compute(sheets, params, billing.Options{})
	if err != nil {
		result.add(issueFromError(err, RuleStructure), false)
		return
	}
	result.Bill = bill
	v.addSkips(result, bill.Diagnostics)
}

// checkSheets checks the sheets alone, when the parameters are too broken
// to compute a bill.
func (v *Validator) checkSheets(result *Result, sheets types.Sheets) {
	if err := billing.ValidateSheets(sheets); err != nil {
		result.add(issueFromError(err, RuleStructure), false)
		return
	}
	acc := billing.Accumulate(sheets.WorkOrder, sheets.BillQuantity, sheets.ExtraItems)
	v.addSkips(result, acc.Skipped)
}

// checkParameters reports terms that are valid but probably unintended,
// and contract details the documents will print blank.
func (v *Validator) checkParameters(result *Result, params billing.Parameters) {
	warn := func(field, msg string) {
		result.add(&Issue{
			Severity: SeverityWarning,
			Field:    field,
			Rule:     RuleMetadata,
			Message:  msg,
		}, v.options.TreatWarningsAsErrors)
	}

	if params.PremiumType == types.PremiumFixed && params.PremiumFixedAmount == 0 {
		warn("PremiumFixedAmount", "Fixed premium selected but the fixed amount is zero")
	}

	m := params.Metadata
	if m.ContractorName == "" {
		warn("ContractorName", "Contractor name is not set")
	}
	if m.WorkName == "" {
		warn("WorkName", "Name of work is not set")
	}
	if m.AgreementNo == "" {
		warn("AgreementNo", "Agreement number is not set")
	}
	if m.WorkOrderAmount == 0 {
		warn("WorkOrderAmount", "Work order amount is not set; the priced work order is used instead")
	}
	if params.BillType.IsFinal() && m.ActualCompletionDate.IsZero() {
		warn("ActualCompletionDate", "Final bill without an actual completion date; delay notes are omitted")
	}
}

func (v *Validator) addSkips(result *Result, skips []types.RowSkip) {
	for _, s := range skips {
		message := "Row left out of the bill: " + s.Reason
		if s.Kept {
			message = "Row kept in the bill: " + s.Reason
		}
		result.add(&Issue{
			Severity:  SeverityWarning,
			Sheet:     s.Sheet,
			RowNumber: s.Row,
			Value:     s.Value,
			Rule:      RuleRow,
			Message:   message,
		}, v.options.TreatWarningsAsErrors)
	}
}

// issueFromError turns an error into an error-severity issue, keeping the
// field of a billing validation error.
func issueFromError(err error, rule string) *Issue {
	issue := &Issue{
		Severity: SeverityError,
		Rule:     rule,
		Message:  err.Error(),
	}
	var verr *billing.ValidationError
	if errors.As(err, &verr) {
		issue.Message = verr.Message
		if verr.Field != "sheets" {
			issue.Field = verr.Field
		}
	}
	return issue
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatIssues formats issues for display or logging.
//
// RETURNS:
//   - A formatted string containing all issues.
func FormatIssues(issues []*Issue) string {
	if len(issues) == 0 {
		return "No validation issues."
	}

	var builder strings.Builder

	errorCount := 0
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			errorCount++
		}
	}
	fmt.Fprintf(&builder, "Validation completed with %d error(s) and %d warning(s):\n\n",
		errorCount, len(issues)-errorCount)

	for i, issue := range issues {
		fmt.Fprintf(&builder, "%d. %s\n", i+1, issue.Error())
	}

	return builder.String()
}
