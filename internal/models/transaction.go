package models

// ParsedTransaction is one candidate transaction extracted from a statement
// screenshot. Records are reviewable and editable in the tracker UI before
// import; nothing here is final until the user confirms the batch.
type ParsedTransaction struct {
	Date        string `json:"date"`        // ISO YYYY-MM-DD, never empty once emitted
	Amount      string `json:"amount"`      // signed decimal, two decimal places, "-" prefix for debits
	Description string `json:"description"` // cleaned merchant/memo text

	// Filled during review, not at extraction time.
	Category      string `json:"category"`
	PaymentMethod string `json:"payment_method"`
	PaidBy        string `json:"paid_by"`

	// Period context, identical for every transaction in a batch.
	Year    int `json:"year"`
	Month   int `json:"month,omitempty"`
	Quarter int `json:"quarter,omitempty"`

	SourceFile string `json:"sourceFile,omitempty"` // upload the record came from
	RawText    string `json:"rawText,omitempty"`    // OCR line(s) the record was derived from
	Error      string `json:"error,omitempty"`      // set by downstream edit validation, never by extraction
}

// PeriodType selects how a batch's period value is interpreted.
type PeriodType string

const (
	PeriodMonth   PeriodType = "month"
	PeriodQuarter PeriodType = "quarter"
	PeriodYear    PeriodType = "year"
)

// Period is the caller-supplied reporting period for a whole batch.
type Period struct {
	Type  PeriodType `json:"type"`
	Value int        `json:"value"` // month 1-12 or quarter 1-4; unused for year
}

// BatchResult aggregates one batch run: every transaction extracted across
// all uploads plus per-file warnings for files that failed or came up empty.
type BatchResult struct {
	BatchID      string              `json:"batchId"`
	Transactions []ParsedTransaction `json:"transactions"`
	Warnings     []string            `json:"warnings,omitempty"`
}
