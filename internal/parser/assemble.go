package parser

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/ledgerpad/statement-scan/internal/models"
)

// scanPhase is the explicit state of the line-by-line pass.
type scanPhase int

const (
	phaseSeeking scanPhase = iota
	phaseHaveDateContext
	phaseHavePendingAmount
)

// parserState is scoped to one document's parse pass. At most one of
// currentDate/pendingAmount is meaningfully active per emission: a merchant
// line resolves against whichever is populated.
type parserState struct {
	currentDate   string
	pendingAmount decimal.Decimal
	hasPending    bool
	firstDateSeen string // from the forward pre-scan, never changes
}

func (st *parserState) phase() scanPhase {
	switch {
	case st.hasPending:
		return phaseHavePendingAmount
	case st.currentDate != "":
		return phaseHaveDateContext
	default:
		return phaseSeeking
	}
}

// cursor walks the document's lines with one line of lookahead, so every
// rule's consumption is explicit.
type cursor struct {
	lines []string
	pos   int
}

func (c *cursor) next() (string, bool) {
	if c.pos >= len(c.lines) {
		return "", false
	}
	line := c.lines[c.pos]
	c.pos++
	return line, true
}

func (c *cursor) peek() (string, bool) {
	if c.pos >= len(c.lines) {
		return "", false
	}
	return c.lines[c.pos], true
}

func (c *cursor) advance() {
	if c.pos < len(c.lines) {
		c.pos++
	}
}

// Assembler reconstructs transaction records from unstructured OCR text.
// One Assembler may be reused across documents; all pass state lives in
// parserState, scoped to a single Assemble call.
type Assembler struct {
	cfg Config
}

func NewAssembler(cfg Config) *Assembler {
	if cfg.Today == nil {
		cfg.Today = DefaultConfig().Today
	}
	return &Assembler{cfg: cfg}
}

// Assemble performs one linear pass over the OCR text and emits a candidate
// transaction whenever a merchant line can be paired with a known amount and
// date. Unmatched lines are skipped, never errors: the output is reviewed by
// a human before import, so resilience beats completeness.
func (a *Assembler) Assemble(text string) []models.ParsedTransaction {
	lines := strings.Split(text, "\n")
	st := &parserState{firstDateSeen: a.prescanFirstDate(lines)}
	cur := &cursor{lines: lines}
	out := []models.ParsedTransaction{}

	for {
		line, ok := cur.next()
		if !ok {
			break
		}
		tok := a.scanLine(line)
		if tok.text == "" {
			continue
		}

		switch a.classify(tok, st) {
		case tagHeader:
			// Chrome is skipped, but a date printed inside a header still
			// anchors the document when nothing better has been seen.
			if tok.date != "" && st.currentDate == "" {
				st.currentDate = tok.date
			}

		case tagPendingMarker:
			// Pending entries carry no date context of their own.
			st.pendingAmount = tok.amount
			st.hasPending = true
			st.currentDate = ""

		case tagDateHeader:
			st.currentDate = tok.date
			st.hasPending = false

		case tagAmountOnly:
			// Layout: date header, standalone amount, then the merchant.
			st.pendingAmount = tok.amount
			st.hasPending = true

		case tagDateAndAmount:
			a.emitDateAndAmountHead(cur, st, tok, &out)

		case tagPlainText:
			a.resolvePlainText(cur, st, tok, &out)
		}
	}
	return out
}

// emitDateAndAmountHead handles a line carrying both a date and an amount:
// a transaction head whose merchant name is on the following line. An amount
// on that following line is a running balance, not a second transaction.
func (a *Assembler) emitDateAndAmountHead(cur *cursor, st *parserState, tok lineTokens, out *[]models.ParsedTransaction) {
	raw := []string{tok.text}
	var parts []string

	if next, ok := cur.peek(); ok {
		ntok := a.scanLine(next)
		if ntok.text != "" && !ntok.header && !ntok.pending && ntok.date == "" {
			cur.advance()
			raw = append(raw, ntok.text)
			desc := ntok.text
			if ntok.hasAmount {
				desc = stripAmountText(desc)
			}
			parts = append(parts, desc)
			tailParts, tailRaw := a.collectTail(cur, false)
			parts = append(parts, tailParts...)
			raw = append(raw, tailRaw...)
		}
	}

	a.emit(out, tok.date, tok.amount, parts, raw)
	st.currentDate = tok.date
	st.hasPending = false
}

// resolvePlainText decides what a free-text line means given the current
// scan phase: the merchant for a pending amount, a bare merchant+amount
// head, or stray text to skip.
func (a *Assembler) resolvePlainText(cur *cursor, st *parserState, tok lineTokens, out *[]models.ParsedTransaction) {
	switch st.phase() {
	case phaseHavePendingAmount:
		switch {
		case !tok.hasAmount && tok.date == "":
			// The merchant name for the stored amount.
			parts := []string{tok.text}
			raw := []string{tok.text}
			tailParts, tailRaw := a.collectTail(cur, false)
			parts = append(parts, tailParts...)
			raw = append(raw, tailRaw...)
			a.emit(out, a.fallbackDate(st), st.pendingAmount, parts, raw)
			st.hasPending = false
		case tok.hasAmount:
			// Merchant line with a trailing running balance; the balance is
			// discarded and only the stripped text survives.
			a.emit(out, a.fallbackDate(st), st.pendingAmount, []string{stripAmountText(tok.text)}, []string{tok.text})
			st.hasPending = false
		}
		// A date-bearing line while an amount is pending is ambiguous;
		// leave it unconsumed by the pending entry and move on.

	default:
		if tok.hasAmount && tok.date == "" {
			// Merchant and amount on one line with no prior head claiming
			// it: the amount is the transaction's own, not a balance.
			parts := []string{stripAmountText(tok.text)}
			raw := []string{tok.text}
			tailParts, tailRaw := a.collectTail(cur, true)
			parts = append(parts, tailParts...)
			raw = append(raw, tailRaw...)
			a.emit(out, a.fallbackDate(st), tok.amount, parts, raw)
		}
	}
}

// collectTail consumes continuation lines following a transaction head:
// phone numbers, URL fragments, location codes, and short plain text that
// belong to the same merchant entry. Collection stops at the first date
// line, header line, blank line, or amount-bearing line — except that with
// balanceGuard set, one immediately following amount larger than the balance
// cutoff is swallowed as a running balance.
func (a *Assembler) collectTail(cur *cursor, balanceGuard bool) (parts, raw []string) {
	guard := balanceGuard
	for {
		line, ok := cur.peek()
		if !ok {
			break
		}
		tok := a.scanLine(line)
		if tok.text == "" || tok.header || tok.date != "" {
			break
		}
		if tok.hasAmount {
			if guard && tok.amount.Abs().GreaterThan(a.cfg.BalanceCutoff) {
				cur.advance()
				raw = append(raw, tok.text)
				guard = false
				continue
			}
			break
		}
		if !a.isContinuation(tok.text) {
			break
		}
		cur.advance()
		parts = append(parts, tok.text)
		raw = append(raw, tok.text)
	}
	return parts, raw
}

// isContinuation reports whether a line plausibly extends the previous
// merchant entry rather than starting a new one. The caller has already
// ruled out blank, header, date, and amount lines.
func (a *Assembler) isContinuation(s string) bool {
	if digitCount(s) >= 10 {
		return true // phone number, possibly OCR-mangled
	}
	if looksLikeURL(s) {
		return true
	}
	if looksLikeLocationCode(s) {
		return true
	}
	return utf8.RuneCountInString(s) < a.cfg.ContinuationMaxLen
}

var reDomainFragment = regexp.MustCompile(`(?i)\b[a-z0-9-]+\.(?:com|net|org|io|co|us|gov|edu)\b`)

func looksLikeURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.Contains(lower, "http") || strings.Contains(lower, "www.") || reDomainFragment.MatchString(s)
}

// looksLikeLocationCode matches the city/state fragments OCR splits off
// merchant lines: a two-letter state code or a short all-caps token.
func looksLikeLocationCode(s string) bool {
	if utf8.RuneCountInString(s) > 12 {
		return false
	}
	hasLetter := false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			hasLetter = true
		case r == ' ' || r == '.' || r == ',':
		default:
			return false
		}
	}
	return hasLetter
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// emit cleans the accumulated description and appends the record. Rejected
// descriptions (too short, purely numeric) drop the record entirely.
func (a *Assembler) emit(out *[]models.ParsedTransaction, date string, amount decimal.Decimal, parts, raw []string) {
	desc, ok := a.cleanDescription(strings.Join(parts, " "))
	if !ok {
		return
	}
	*out = append(*out, models.ParsedTransaction{
		Date:        date,
		Amount:      amount.StringFixed(2),
		Description: desc,
		RawText:     strings.Join(raw, "\n"),
	})
}

// fallbackDate picks the best available date for an emission: the running
// date context, then the document's first seen date, then today.
func (a *Assembler) fallbackDate(st *parserState) string {
	if st.currentDate != "" {
		return st.currentDate
	}
	if st.firstDateSeen != "" {
		return st.firstDateSeen
	}
	return a.cfg.Today().Format("2006-01-02")
}

// prescanFirstDate finds the first line in the document that parses as a
// date. It anchors entries — typically pending ones — that resolve before
// any date header has been seen.
func (a *Assembler) prescanFirstDate(lines []string) string {
	for _, line := range lines {
		if d, ok := ParseDate(normalizeOCRLine(line), a.cfg.DefaultYear); ok {
			return d
		}
	}
	return ""
}

// Glyphs OCR picks up from statement UI decoration: checkmarks, bullets,
// arrows, currency and trademark marks glued onto merchant names.
var descDropGlyphs = "✓✔✗®©™¢@→←↑↓⇒➔➜»«•·●◆■□▶◀"

// cleanDescription normalizes an accumulated description: decorative glyphs
// removed, leading symbol runs stripped, internal whitespace collapsed.
// Returns false for results too short or carrying no letters.
func (a *Assembler) cleanDescription(s string) (string, bool) {
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(descDropGlyphs, r) {
			return -1
		}
		return r
	}, s)
	s = strings.TrimLeftFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) < a.cfg.MinDescriptionLen {
		return "", false
	}
	if !strings.ContainsFunc(s, unicode.IsLetter) {
		return "", false
	}
	return s, true
}
