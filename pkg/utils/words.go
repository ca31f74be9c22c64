package utils

import (
	"errors"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// =============================================================================
// AMOUNT IN WORDS
// =============================================================================
//
// Amounts are spelled in the Indian numbering system: units, hundreds,
// thousands, lakhs (1,00,000) and crores (1,00,00,000). Counts of crores are
// spelled recursively, so 1,00,000 crore reads "one lakh crore".

// MaxSpellable is the largest magnitude SpellIndian accepts.
const MaxSpellable int64 = 999_999_999_999_999

// ErrOutOfRange is returned for amounts beyond MaxSpellable.
var ErrOutOfRange = errors.New("amount out of range for words")

var smallNumbers = [...]string{
	"", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
	"seventeen", "eighteen", "nineteen",
}

var tensNames = [...]string{
	"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety",
}

// AmountInWords spells a whole-rupee amount in title case, for example
// 123456 reads "One Lakh, Twenty-Three Thousand, Four Hundred And Fifty-Six".
// Amounts that cannot be spelled fall back to their decimal digits, so the
// result is never empty.
func AmountInWords(amount int64) string {
	words, err := SpellIndian(amount)
	if err != nil {
		return strconv.FormatInt(amount, 10)
	}
	return cases.Title(language.English).String(words)
}

// SpellIndian spells n in lower case using the Indian numbering system.
func SpellIndian(n int64) (string, error) {
	switch {
	case n < -MaxSpellable || n > MaxSpellable:
		return "", ErrOutOfRange
	case n < 0:
		words, err := SpellIndian(-n)
		if err != nil {
			return "", err
		}
		return "minus " + words, nil
	case n == 0:
		return "zero", nil
	}

	var groups []string
	if crore := n / 10_000_000; crore > 0 {
		words, err := SpellIndian(crore)
		if err != nil {
			return "", err
		}
		groups = append(groups, words+" crore")
	}
	if lakh := n / 100_000 % 100; lakh > 0 {
		groups = append(groups, belowHundred(lakh)+" lakh")
	}
	if thousand := n / 1000 % 100; thousand > 0 {
		groups = append(groups, belowHundred(thousand)+" thousand")
	}

	rest := n % 100
	if hundred := n % 1000 / 100; hundred > 0 {
		group := smallNumbers[hundred] + " hundred"
		if rest > 0 {
			group += " and " + belowHundred(rest)
		}
		groups = append(groups, group)
		return strings.Join(groups, ", "), nil
	}

	words := strings.Join(groups, ", ")
	if rest == 0 {
		return words, nil
	}
	if words == "" {
		return belowHundred(rest), nil
	}
	return words + " and " + belowHundred(rest), nil
}

func belowHundred(n int64) string {
	if n < 20 {
		return smallNumbers[n]
	}
	if n%10 == 0 {
		return tensNames[n/10]
	}
	return tensNames[n/10] + "-" + smallNumbers[n%10]
}
