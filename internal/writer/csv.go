// Package writer renders extracted transactions for download.
package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/ledgerpad/statement-scan/internal/models"
)

// CSVWriter writes transactions to CSV format.
type CSVWriter struct{}

// Write writes transactions in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, txns []models.ParsedTransaction) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	header := []string{"Date", "Amount", "Description", "Category", "Payment Method", "Paid By", "Source File"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, txn := range txns {
		row := []string{
			txn.Date,
			txn.Amount,
			txn.Description,
			txn.Category,
			txn.PaymentMethod,
			txn.PaidBy,
			txn.SourceFile,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}

// WriteString renders transactions as a CSV string.
func (w *CSVWriter) WriteString(txns []models.ParsedTransaction) (string, error) {
	var sb strings.Builder
	if err := w.Write(&sb, txns); err != nil {
		return "", err
	}
	return sb.String(), nil
}
