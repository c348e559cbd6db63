package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Two mutually exclusive amount shapes, tried in order. Requiring either a
// currency marker or a decimal point keeps bare integers — day numbers,
// reference codes, last-four digits — from being captured as amounts.
var (
	// $-anchored: optional sign, dollar sign, digits with optional thousands
	// separators, optional exactly-two-digit decimal suffix.
	reDollarAmount = regexp.MustCompile(`-?\$(?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d{2})?`)
	// Decimal-anchored: no currency marker, but the decimal point with at
	// least two digits is mandatory.
	reDecimalAmount = regexp.MustCompile(`-?(?:\d{1,3}(?:,\d{3})+|\d+)\.\d{2,}`)
)

var amountCleaner = strings.NewReplacer("$", "", ",", "")

// ParseAmount extracts a signed monetary value from a text fragment.
// Returns false when the fragment carries nothing amount-shaped.
func ParseAmount(s string) (decimal.Decimal, bool) {
	m := reDollarAmount.FindString(s)
	if m == "" {
		m = reDecimalAmount.FindString(s)
	}
	if m == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(amountCleaner.Replace(m))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// stripAmountText removes every amount-shaped substring from a line, leaving
// the text around it. Used for residual checks and for recovering a merchant
// name from a line that also prints a running balance.
func stripAmountText(s string) string {
	s = reDollarAmount.ReplaceAllString(s, "")
	s = reDecimalAmount.ReplaceAllString(s, "")
	return s
}
