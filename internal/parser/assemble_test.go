package parser

import (
	"reflect"
	"strings"
	"testing"
)

func TestAssembleDateAndAmountHead(t *testing.T) {
	a := NewAssembler(testConfig())

	// The amount on the merchant line is a running balance, not a second
	// transaction.
	txns := a.Assemble("Dec 18, 2025 -$330.74\nAmazon.com $1,204.11")
	if len(txns) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txns))
	}
	txn := txns[0]
	if txn.Date != "2025-12-18" {
		t.Errorf("Date = %q, want %q", txn.Date, "2025-12-18")
	}
	if txn.Amount != "-330.74" {
		t.Errorf("Amount = %q, want %q", txn.Amount, "-330.74")
	}
	if txn.Description != "Amazon.com" {
		t.Errorf("Description = %q, want %q", txn.Description, "Amazon.com")
	}
	if !strings.Contains(txn.RawText, "Amazon.com $1,204.11") {
		t.Errorf("RawText should keep the consumed merchant line, got %q", txn.RawText)
	}
}

func TestAssemblePendingUsesFirstSeenDate(t *testing.T) {
	a := NewAssembler(testConfig())

	// The pending entry resolves before any date header appears; the
	// document-wide pre-scan supplies the fallback date.
	text := strings.Join([]string{
		"Pending $12.34",
		"Starbucks",
		"Jun 1, 2025",
		"Chipotle $9.10",
	}, "\n")

	txns := a.Assemble(text)
	if len(txns) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txns))
	}

	if txns[0].Description != "Starbucks" {
		t.Errorf("txn[0].Description = %q, want %q", txns[0].Description, "Starbucks")
	}
	if txns[0].Amount != "12.34" {
		t.Errorf("txn[0].Amount = %q, want %q", txns[0].Amount, "12.34")
	}
	if txns[0].Date != "2025-06-01" {
		t.Errorf("txn[0].Date = %q, want first seen date %q", txns[0].Date, "2025-06-01")
	}

	// Chipotle is a bare merchant+amount head under the date context.
	if txns[1].Description != "Chipotle" {
		t.Errorf("txn[1].Description = %q, want %q", txns[1].Description, "Chipotle")
	}
	if txns[1].Amount != "9.10" {
		t.Errorf("txn[1].Amount = %q, want %q", txns[1].Amount, "9.10")
	}
	if txns[1].Date != "2025-06-01" {
		t.Errorf("txn[1].Date = %q, want %q", txns[1].Date, "2025-06-01")
	}
}

func TestAssemblePendingWithTrailingBalance(t *testing.T) {
	a := NewAssembler(testConfig())

	txns := a.Assemble("Pending $12.34\nStarbucks $1,234.56")
	if len(txns) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txns))
	}
	if txns[0].Amount != "12.34" {
		t.Errorf("Amount = %q, want the pending amount %q", txns[0].Amount, "12.34")
	}
	if txns[0].Description != "Starbucks" {
		t.Errorf("Description = %q, want %q", txns[0].Description, "Starbucks")
	}
}

func TestAssembleAmountOnlyUnderDateHeader(t *testing.T) {
	a := NewAssembler(testConfig())

	// Layout: date header, standalone amount line, then the merchant.
	txns := a.Assemble("Dec 7, 2025\n$45.00\nTrader Joes")
	if len(txns) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txns))
	}
	if txns[0].Date != "2025-12-07" {
		t.Errorf("Date = %q, want %q", txns[0].Date, "2025-12-07")
	}
	if txns[0].Amount != "45.00" {
		t.Errorf("Amount = %q, want %q", txns[0].Amount, "45.00")
	}
	if txns[0].Description != "Trader Joes" {
		t.Errorf("Description = %q, want %q", txns[0].Description, "Trader Joes")
	}
}

func TestAssembleContinuationLines(t *testing.T) {
	a := NewAssembler(testConfig())

	// The phone-like line joins the description; collection stops before
	// the date line, which then anchors the following entry.
	text := strings.Join([]string{
		"Pending $9.99",
		"Uber Trip",
		"888-555-0199",
		"Jan 2, 2026",
		"$15.00",
		"Lyft",
	}, "\n")

	txns := a.Assemble(text)
	if len(txns) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txns))
	}
	if txns[0].Description != "Uber Trip 888-555-0199" {
		t.Errorf("txn[0].Description = %q, want %q", txns[0].Description, "Uber Trip 888-555-0199")
	}
	if txns[1].Date != "2026-01-02" {
		t.Errorf("txn[1].Date = %q, want %q", txns[1].Date, "2026-01-02")
	}
	if txns[1].Description != "Lyft" {
		t.Errorf("txn[1].Description = %q, want %q", txns[1].Description, "Lyft")
	}
}

func TestAssembleBalanceCutoffAfterBareHead(t *testing.T) {
	a := NewAssembler(testConfig())

	// A large amount right after a merchant+amount line looks like a
	// running balance and is swallowed.
	txns := a.Assemble("Jun 1, 2025\nCoffee Shop 4.50\n2,500.00")
	if len(txns) != 1 {
		t.Fatalf("expected 1 transaction with balance swallowed, got %d", len(txns))
	}
	if txns[0].Amount != "4.50" {
		t.Errorf("Amount = %q, want %q", txns[0].Amount, "4.50")
	}

	// A small following amount starts a new transaction instead.
	txns = a.Assemble("Jun 1, 2025\nCoffee Shop 4.50\nBagel Place 8.00")
	if len(txns) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txns))
	}
	if txns[1].Description != "Bagel Place" {
		t.Errorf("txn[1].Description = %q, want %q", txns[1].Description, "Bagel Place")
	}
	if txns[1].Amount != "8.00" {
		t.Errorf("txn[1].Amount = %q, want %q", txns[1].Amount, "8.00")
	}
}

func TestCleanDescription(t *testing.T) {
	a := NewAssembler(testConfig())

	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"®¢ Starbucks ✓", "Starbucks", true},
		{"→ Uber   Trip", "Uber Trip", true},
		{"Amazon.com", "Amazon.com", true},
		{"ab", "", false},         // too short
		{"123-45", "", false},     // purely numeric
		{"✓✓✓", "", false},        // nothing left
		{"   7-Eleven", "7-Eleven", true},
	}

	for _, tt := range tests {
		got, ok := a.cleanDescription(tt.in)
		if ok != tt.ok {
			t.Errorf("cleanDescription(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if got != tt.want {
			t.Errorf("cleanDescription(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAssembleIsIdempotent(t *testing.T) {
	a := NewAssembler(testConfig())

	text := strings.Join([]string{
		"Account Activity",
		"Dec 7, 2025",
		"$45.00",
		"Trader Joes",
		"Pending $12.34",
		"Starbucks",
		"Dec 18, 2025 -$330.74",
		"Amazon.com $1,204.11",
	}, "\n")

	first := a.Assemble(text)
	second := a.Assemble(text)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated parses differ:\nfirst:  %+v\nsecond: %+v", first, second)
	}
	if len(first) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(first))
	}
}

func TestAssembleSkipsUnparseableLines(t *testing.T) {
	a := NewAssembler(testConfig())

	// Garbage OCR output produces nothing, never an error.
	txns := a.Assemble("~~ !!! ~~\n####\n\n   \nxx")
	if len(txns) != 0 {
		t.Fatalf("expected 0 transactions from garbage, got %d", len(txns))
	}
}
