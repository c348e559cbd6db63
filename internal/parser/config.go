package parser

import (
	"time"

	"github.com/shopspring/decimal"
)

// Config carries the tunable heuristics of the statement parser. Screenshot
// layouts vary wildly between banks, so every threshold is injectable rather
// than baked into the matching logic.
type Config struct {
	// DefaultYear fills in dates that appear without an explicit year
	// ("Dec 7" on a card activity screen).
	DefaultYear int

	// HeaderResidualMax: a line that parses as a date and, with all
	// date-shaped text removed, leaves fewer than this many characters is a
	// date header rather than a transaction line.
	HeaderResidualMax int

	// AmountResidualMax: a line that parses as an amount and, with the amount
	// removed, leaves fewer than this many characters is a standalone amount
	// line waiting for its merchant.
	AmountResidualMax int

	// BalanceCutoff: immediately after a merchant+amount line, a second
	// amount-bearing line is discarded as a running balance only when its
	// absolute value exceeds this cutoff. Smaller amounts start a new
	// transaction instead.
	BalanceCutoff decimal.Decimal

	// ContinuationMaxLen: trailing lines shorter than this are folded into
	// the previous description when they carry no date or amount.
	ContinuationMaxLen int

	// MinDescriptionLen: cleaned descriptions shorter than this are dropped
	// instead of emitted.
	MinDescriptionLen int

	// HeaderKeywords is the denylist of statement-chrome phrases, matched
	// case-insensitively anywhere in a line.
	HeaderKeywords []string

	// Today supplies the last-resort fallback date for documents with no
	// parseable date at all. Injectable so parses are reproducible in tests.
	Today func() time.Time
}

// DefaultConfig returns the thresholds and denylist tuned against real bank
// and card app screenshots.
func DefaultConfig() Config {
	return Config{
		DefaultYear:        time.Now().Year(),
		HeaderResidualMax:  15,
		AmountResidualMax:  5,
		BalanceCutoff:      decimal.NewFromInt(1000),
		ContinuationMaxLen: 30,
		MinDescriptionLen:  3,
		HeaderKeywords:     defaultHeaderKeywords(),
		Today:              time.Now,
	}
}

// defaultHeaderKeywords lists phrases that mark a line as statement chrome:
// running totals, navigation, column titles, legal boilerplate. Header lines
// never produce transactions.
func defaultHeaderKeywords() []string {
	return []string{
		"available balance",
		"current balance",
		"outstanding balance",
		"statement balance",
		"previous balance",
		"beginning balance",
		"ending balance",
		"new balance",
		"running balance",
		"total balance",
		"balance as of",
		"account summary",
		"account activity",
		"activity period",
		"transaction history",
		"posted transactions",
		"pending transactions",
		"recent transactions",
		"statement period",
		"payment due",
		"minimum payment",
		"credit limit",
		"available credit",
		"total spent",
		"total payments",
		"total purchases",
		"date description",
		"view all",
		"see all",
		"load more",
		"search transactions",
		"filter by",
		"member fdic",
		"all rights reserved",
		"terms and conditions",
		"privacy policy",
		"customer service",
		"routing number",
	}
}
