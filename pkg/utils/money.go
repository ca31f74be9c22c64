package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatINR formats an amount with two decimals in the Indian numbering
// system, where after the rightmost three digits the digits are grouped in
// pairs (1,23,45,678.90). No currency symbol is added because the standard
// PDF fonts cannot draw the rupee sign; callers prefix "Rs." where needed.
func FormatINR(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	raw := fmt.Sprintf("%.2f", amount)
	intPart, decPart, _ := strings.Cut(raw, ".")

	result := applyIndianGrouping(intPart) + "." + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// FormatRupees formats a whole-rupee amount with Indian grouping (1,23,456).
func FormatRupees(amount int64) string {
	if amount < 0 {
		return "-" + applyIndianGrouping(strconv.FormatUint(uint64(-amount), 10))
	}
	return applyIndianGrouping(strconv.FormatInt(amount, 10))
}

// applyIndianGrouping inserts commas into a digit string: the rightmost
// three digits form the first group, then every two digits.
func applyIndianGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	remaining := s[:n-3]
	for len(remaining) > 2 {
		result = remaining[len(remaining)-2:] + "," + result
		remaining = remaining[:len(remaining)-2]
	}
	if len(remaining) > 0 {
		result = remaining + "," + result
	}
	return result
}
