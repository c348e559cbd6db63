// Package api exposes the extraction pipeline over HTTP.
package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ledgerpad/statement-scan/internal/batch"
	"github.com/ledgerpad/statement-scan/internal/models"
	"github.com/ledgerpad/statement-scan/internal/writer"
)

// Runner runs a batch of uploads through the extraction pipeline.
type Runner interface {
	Run(ctx context.Context, files []batch.File, opts batch.Options) (*models.BatchResult, error)
}

// ExtractResponse is the JSON response from the /api/extract endpoint.
type ExtractResponse struct {
	Success      bool                       `json:"success"`
	Error        string                     `json:"error,omitempty"`
	BatchID      string                     `json:"batchId,omitempty"`
	Transactions []models.ParsedTransaction `json:"transactions"`
	Warnings     []string                   `json:"warnings,omitempty"`
	Count        int                        `json:"count"`
	CSV          string                     `json:"csv,omitempty"`
}

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".pdf":  true,
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Orch Runner
	Log  zerolog.Logger
}

// Register sets up the HTTP routes.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/extract", h.HandleExtract)
}

// HandleHealth reports server liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"engine": "fiber",
	})
}

// HandleExtract accepts a multipart batch of statement screenshots or PDF
// exports plus period parameters, and returns the extracted transactions.
func (h *Handler) HandleExtract(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("Failed to parse form: %v", err))
	}

	uploads := form.File["files"]
	if len(uploads) == 0 {
		return writeError(c, fiber.StatusBadRequest, "No files uploaded. Use form field 'files'.")
	}

	opts, err := parseOptions(c)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}

	files := make([]batch.File, 0, len(uploads))
	for _, fh := range uploads {
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if !allowedExtensions[ext] {
			return writeError(c, fiber.StatusBadRequest,
				fmt.Sprintf("Unsupported file type %q for %s. Use png, jpg, jpeg, webp, or pdf.", ext, fh.Filename))
		}
		data, err := readUpload(fh)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("Failed to read %s: %v", fh.Filename, err))
		}
		files = append(files, batch.File{Name: fh.Filename, Data: data})
	}

	result, err := h.Orch.Run(c.Context(), files, opts)
	if err != nil {
		return writeError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	// nil marshals to JSON null, not [].
	txns := result.Transactions
	if txns == nil {
		txns = []models.ParsedTransaction{}
	}

	resp := ExtractResponse{
		Success:      true,
		BatchID:      result.BatchID,
		Transactions: txns,
		Warnings:     result.Warnings,
		Count:        len(txns),
	}

	if c.FormValue("csv") == "true" {
		w := &writer.CSVWriter{}
		csvText, err := w.WriteString(txns)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("CSV generation failed: %v", err))
		}
		resp.CSV = csvText
	}

	h.Log.Info().
		Str("batch_id", result.BatchID).
		Int("files", len(files)).
		Int("transactions", len(txns)).
		Int("warnings", len(result.Warnings)).
		Msg("batch extracted")

	return c.JSON(resp)
}

// parseOptions validates the period parameters that apply to the batch.
func parseOptions(c *fiber.Ctx) (batch.Options, error) {
	yearStr := c.FormValue("year")
	if yearStr == "" {
		return batch.Options{}, fmt.Errorf("missing required form field 'year'")
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 2000 || year > 2100 {
		return batch.Options{}, fmt.Errorf("invalid year %q", yearStr)
	}

	opts := batch.Options{
		Year:          year,
		PaymentMethod: c.FormValue("payment_method"),
	}

	periodType := models.PeriodType(c.FormValue("period_type", string(models.PeriodYear)))
	switch periodType {
	case models.PeriodYear:
		opts.Period = models.Period{Type: models.PeriodYear}
	case models.PeriodMonth, models.PeriodQuarter:
		valueStr := c.FormValue("period_value")
		value, err := strconv.Atoi(valueStr)
		if err != nil {
			return batch.Options{}, fmt.Errorf("invalid period_value %q", valueStr)
		}
		if periodType == models.PeriodMonth && (value < 1 || value > 12) {
			return batch.Options{}, fmt.Errorf("month must be 1-12, got %d", value)
		}
		if periodType == models.PeriodQuarter && (value < 1 || value > 4) {
			return batch.Options{}, fmt.Errorf("quarter must be 1-4, got %d", value)
		}
		opts.Period = models.Period{Type: periodType, Value: value}
	default:
		return batch.Options{}, fmt.Errorf("unknown period_type %q. Use month, quarter, or year.", periodType)
	}

	return opts, nil
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ExtractResponse{
		Success:      false,
		Error:        msg,
		Transactions: []models.ParsedTransaction{},
	})
}
