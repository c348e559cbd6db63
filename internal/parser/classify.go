package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// lineTag is the classification of one OCR line, decided once per line and
// consumed by the assembler.
type lineTag int

const (
	tagPlainText lineTag = iota
	tagHeader
	tagPendingMarker
	tagDateHeader
	tagAmountOnly
	tagDateAndAmount
)

// lineTokens is the once-per-line token scan: everything the classifier and
// assembler need to know about a line, so neither re-derives "does this have
// a date" across branches.
type lineTokens struct {
	text      string
	date      string // ISO date, "" when absent
	amount    decimal.Decimal
	hasAmount bool
	pending   bool
	header    bool
}

var (
	rePendingMarker = regexp.MustCompile(`(?i)^pending\b`)
	// Status-bar clocks and timestamps ("9:41", "12:30 PM") occupying a
	// whole line are chrome, not content.
	reClockLine = regexp.MustCompile(`^\d{1,2}:\d{2}(?::\d{2})?\s*(?i:AM|PM)?$`)
	// Tesseract tends to misread decimal points as semicolons in amounts.
	reSemicolonDecimal = regexp.MustCompile(`(\d);\s*(\d{2})\b`)
)

// normalizeOCRLine fixes recognition artifacts before matching: non-breaking
// spaces and semicolons standing in for decimal points.
func normalizeOCRLine(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = reSemicolonDecimal.ReplaceAllString(s, "$1.$2")
	return strings.TrimSpace(s)
}

func (a *Assembler) scanLine(line string) lineTokens {
	tok := lineTokens{text: normalizeOCRLine(line)}
	tok.header = a.isHeaderLine(tok.text)
	if d, ok := ParseDate(tok.text, a.cfg.DefaultYear); ok {
		tok.date = d
	}
	if amt, ok := ParseAmount(tok.text); ok {
		tok.amount = amt
		tok.hasAmount = true
	}
	tok.pending = !tok.header && tok.hasAmount && rePendingMarker.MatchString(tok.text)
	return tok
}

// classify tags a line. Rules are evaluated top-down, first match wins. The
// date-header rule bails when the line also carries an amount: such a line is
// a transaction head even though the date alone would leave a short residual.
func (a *Assembler) classify(tok lineTokens, st *parserState) lineTag {
	switch {
	case tok.header:
		return tagHeader
	case tok.pending:
		return tagPendingMarker
	case tok.date != "" && !tok.hasAmount && residualLen(stripDateText(tok.text)) < a.cfg.HeaderResidualMax:
		return tagDateHeader
	case st.currentDate != "" && tok.date == "" && tok.hasAmount && residualLen(stripAmountText(tok.text)) < a.cfg.AmountResidualMax:
		return tagAmountOnly
	case tok.date != "" && tok.hasAmount:
		return tagDateAndAmount
	default:
		return tagPlainText
	}
}

func (a *Assembler) isHeaderLine(s string) bool {
	if reClockLine.MatchString(s) {
		return true
	}
	lower := strings.ToLower(s)
	for _, kw := range a.cfg.HeaderKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func residualLen(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}
