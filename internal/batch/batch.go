// Package batch runs the full extraction pipeline over a set of uploaded
// statement files. Files are processed strictly in upload order, one at a
// time: the OCR engine is a single external process and the caller relies
// on result order matching upload order.
package batch

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ledgerpad/statement-scan/internal/extractor"
	"github.com/ledgerpad/statement-scan/internal/imageprep"
	"github.com/ledgerpad/statement-scan/internal/models"
	"github.com/ledgerpad/statement-scan/internal/ocr"
	"github.com/ledgerpad/statement-scan/internal/parser"
)

// File is one uploaded statement, screenshot or PDF export.
type File struct {
	Name string
	Data []byte
}

// Options carries the caller-supplied context applied to every transaction
// in the batch.
type Options struct {
	Year          int
	Period        models.Period
	PaymentMethod string
}

// Orchestrator wires image preparation, OCR, and transaction assembly into
// a per-file pipeline.
type Orchestrator struct {
	rec ocr.Recognizer
	cfg parser.Config
	log zerolog.Logger
}

// New returns an orchestrator using the given recognizer and parser settings.
func New(rec ocr.Recognizer, cfg parser.Config, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{rec: rec, cfg: cfg, log: log}
}

// Run processes every file in order. A file that fails or yields no
// transactions becomes a warning, never an abort; the batch errors only
// when no file produced anything at all.
func (o *Orchestrator) Run(ctx context.Context, files []File, opts Options) (*models.BatchResult, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no statement files uploaded")
	}

	cfg := o.cfg
	cfg.DefaultYear = opts.Year

	result := &models.BatchResult{
		BatchID:      uuid.NewString(),
		Transactions: []models.ParsedTransaction{},
	}
	failed := 0

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("batch canceled: %w", err)
		}

		text, err := o.extractText(ctx, f)
		if err != nil {
			failed++
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %v", f.Name, err))
			o.log.Warn().Str("file", f.Name).Err(err).Msg("statement extraction failed")
			continue
		}

		txns := parser.NewAssembler(cfg).Assemble(text)
		if len(txns) == 0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: no transactions found", f.Name))
			o.log.Warn().Str("file", f.Name).Msg("no transactions found")
			continue
		}

		for i := range txns {
			tagTransaction(&txns[i], f.Name, opts)
		}
		result.Transactions = append(result.Transactions, txns...)
		o.log.Info().Str("file", f.Name).Int("transactions", len(txns)).Msg("processed statement")
	}

	if failed == len(files) {
		return nil, fmt.Errorf("all %d statement uploads failed: %s", len(files), strings.Join(result.Warnings, "; "))
	}
	return result, nil
}

// extractText routes a file to the right extraction path: PDF exports read
// their text layer directly, screenshots go through preprocessing and OCR.
func (o *Orchestrator) extractText(ctx context.Context, f File) (string, error) {
	if strings.EqualFold(filepath.Ext(f.Name), ".pdf") {
		return o.extractPDF(f)
	}

	img, err := imageprep.Decode(bytes.NewReader(f.Data))
	if err != nil {
		return "", err
	}
	encoded, err := imageprep.EncodePNG(imageprep.Preprocess(img))
	if err != nil {
		return "", err
	}
	text, err := o.rec.Recognize(ctx, encoded)
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return text, nil
}

// extractPDF stages the upload on disk for the PDF library, which only
// reads from files.
func (o *Orchestrator) extractPDF(f File) (string, error) {
	tmp, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to stage PDF: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(f.Data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to stage PDF: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to stage PDF: %w", err)
	}

	return extractor.ExtractTextCombined(tmp.Name())
}

func tagTransaction(txn *models.ParsedTransaction, source string, opts Options) {
	txn.SourceFile = source
	txn.Year = opts.Year
	txn.PaymentMethod = opts.PaymentMethod
	switch opts.Period.Type {
	case models.PeriodMonth:
		txn.Month = opts.Period.Value
	case models.PeriodQuarter:
		txn.Quarter = opts.Period.Value
	}
}
