package billing

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/types"
)

// Parameters is the immutable request for one bill run. Everything the
// engine needs besides the sheets travels here.
type Parameters struct {
	PremiumPercent     float64           `validate:"gte=0,lte=100"`
	PremiumType        types.PremiumType `validate:"oneof=Above Below Fixed"`
	PremiumFixedAmount float64           `validate:"gte=0"`
	AmountPaidLastBill float64           `validate:"gte=0"`
	IsFirstBill        bool
	BillType           types.BillType `validate:"billtype"`
	RecoveryDepositV   float64        `validate:"gte=0"`
	Metadata           types.Metadata
	Policy             DeductionPolicy
}

// Terms returns the premium as agreed in the tender.
func (p Parameters) Terms() types.PremiumTerms {
	return types.PremiumTerms{
		Percent:     p.PremiumPercent,
		Type:        p.PremiumType,
		FixedAmount: p.PremiumFixedAmount,
	}
}

// paramMessages are the user-facing messages for fields that fail their tags.
var paramMessages = map[string]string{
	"PremiumPercent":     "Premium percentage must be between 0 and 100",
	"PremiumType":        "Premium type must be Above, Below or Fixed",
	"PremiumFixedAmount": "Fixed premium amount cannot be negative",
	"AmountPaidLastBill": "Amount paid via last bill cannot be negative",
	"BillType":           "Invalid bill type. Must be either 'Final Bill' or 'Running Bill'",
	"RecoveryDepositV":   "Recovery of Deposit V cannot be negative",
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("billtype", func(fl validator.FieldLevel) bool {
		bt := types.BillType(fl.Field().String())
		return bt == types.BillRunning || bt == types.BillFinal
	})
	return v
}

// Validate checks the parameters before any sheet is read. The first
// problem found is returned as a *ValidationError.
func (p Parameters) Validate() error {
	if err := newValidator().Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) || len(verrs) == 0 {
			return fmt.Errorf("validate parameters: %w", err)
		}
		fe := verrs[0]
		msg, ok := paramMessages[fe.Field()]
		if !ok {
			msg = fmt.Sprintf("%s failed the %q check", fe.Field(), fe.Tag())
		}
		return NewValidationError(fe.Field(), msg)
	}

	m := p.Metadata
	if !m.StartDate.IsZero() && !m.CompletionDate.IsZero() && m.StartDate.After(m.CompletionDate) {
		return NewValidationError("StartDate", "Start date cannot be after completion date")
	}
	if !p.IsFirstBill && p.AmountPaidLastBill <= 0 {
		return NewValidationError("AmountPaidLastBill", "Amount paid via last bill is mandatory for non-first bills")
	}
	return nil
}
