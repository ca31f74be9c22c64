package billing

import "github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/types"

// ApplyPremium returns the signed tender premium on base. Above and Below
// apply the percentage, negated for Below; Fixed returns the agreed amount
// whatever the base.
func ApplyPremium(base int64, terms types.PremiumTerms) int64 {
	switch terms.Type {
	case types.PremiumFixed:
		return roundAmount(terms.FixedAmount)
	case types.PremiumBelow:
		return -percentOf(base, terms.Percent)
	default:
		return percentOf(base, terms.Percent)
	}
}

// percentageOnly is ApplyPremium for columns that take a fixed premium only
// once. A fixed premium contributes nothing there.
func percentageOnly(base int64, terms types.PremiumTerms) int64 {
	if terms.Type == types.PremiumFixed {
		return 0
	}
	return ApplyPremium(base, terms)
}
