package billing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// roundAmount rounds to a whole rupee, halves away from zero.
func roundAmount(v float64) int64 {
	return decimal.NewFromFloat(v).Round(0).IntPart()
}

// lineAmount is round(quantity * rate), computed in decimal so that inputs
// such as 2.675 x 100 do not pick up binary error before rounding.
func lineAmount(quantity, rate float64) int64 {
	return decimal.NewFromFloat(quantity).Mul(decimal.NewFromFloat(rate)).Round(0).IntPart()
}

// percentOf is round(base * percent / 100).
func percentOf(base int64, percent float64) int64 {
	return percentDecimal(base, percent).Round(0).IntPart()
}

func percentDecimal(base int64, percent float64) decimal.Decimal {
	return decimal.NewFromInt(base).Mul(decimal.NewFromFloat(percent)).Div(hundred)
}

// evenPercentOf rounds base * percent / 100 half up and then bumps an odd
// result to the next even rupee, the way statutory recoveries are booked.
func evenPercentOf(base int64, percent float64) int64 {
	n := percentOf(base, percent)
	if n%2 != 0 {
		n++
	}
	return n
}

// quantityDelta returns b - a without binary noise such as 0.10000000000000009.
func quantityDelta(a, b float64) float64 {
	return decimal.NewFromFloat(b).Sub(decimal.NewFromFloat(a)).InexactFloat64()
}

// ratioPercent returns part / whole * 100 to two places, or 0 for an empty whole.
func ratioPercent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return decimal.NewFromFloat(part).Mul(hundred).Div(decimal.NewFromFloat(whole)).Round(2).InexactFloat64()
}
