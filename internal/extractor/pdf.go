// Package extractor pulls the text layer out of PDF statement exports.
// Screenshots go through OCR instead; this path exists for users who
// download the PDF export from their banking app rather than screenshotting
// it. Extraction must never hand garbage downstream: identity-encoded fonts
// produce byte soup that the line classifier would happily misread, so
// everything is gated on a readability check.
package extractor

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// ExtractText reads a PDF file and returns the text content of each page.
// Returns an error rather than unreadable output when the text layer is
// missing or undecodable.
func ExtractText(filePath string) ([]string, error) {
	pages, err := extractWithLibrary(filePath)
	if err != nil {
		return nil, fmt.Errorf("PDF text extraction failed: %v. The file may be image-based or use custom font encodings", err)
	}
	if !IsReadableText(pages) {
		return nil, fmt.Errorf("no readable text could be extracted from PDF. The file may be image-based; upload a screenshot of the statement instead")
	}
	return pages, nil
}

// ExtractTextCombined reads a PDF and returns all text combined into one string.
func ExtractTextCombined(filePath string) (string, error) {
	pages, err := ExtractText(filePath)
	if err != nil {
		return "", err
	}
	return strings.Join(pages, "\n\n"), nil
}

// extractWithLibrary uses the ledongthuc/pdf library. The library panics on
// some malformed files, so failures are recovered into errors.
func extractWithLibrary(filePath string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	f, r, openErr := pdf.Open(filePath)
	if openErr != nil {
		return nil, openErr
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	// GetTextByRow preserves layout best; fall back to coordinate-based row
	// reconstruction when it yields nothing readable.
	pages = extractByRow(r, numPages)
	if IsReadableText(pages) {
		return pages, nil
	}
	return extractByContent(r, numPages), nil
}

func extractByRow(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			line := strings.TrimSpace(strings.Join(parts, " "))
			if line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// extractByContent groups text objects by Y coordinate to reconstruct rows,
// then orders each row by X.
func extractByContent(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		if len(content.Text) == 0 {
			continue
		}

		type textItem struct {
			x float64
			s string
		}
		rowMap := make(map[int][]textItem)
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			yKey := int(math.Round(t.Y))
			rowMap[yKey] = append(rowMap[yKey], textItem{x: t.X, s: t.S})
		}

		// PDF Y runs bottom-to-top.
		yKeys := make([]int, 0, len(rowMap))
		for y := range rowMap {
			yKeys = append(yKeys, y)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(yKeys)))

		var lines []string
		for _, y := range yKeys {
			items := rowMap[y]
			sort.Slice(items, func(a, b int) bool {
				return items[a].x < items[b].x
			})
			var parts []string
			var prevX float64
			for j, item := range items {
				if j > 0 && item.x-prevX > 15 {
					parts = append(parts, "  ")
				}
				parts = append(parts, item.s)
				prevX = item.x
			}
			line := strings.TrimSpace(strings.Join(parts, ""))
			if line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// statementWords appear in virtually all card and bank statements. Text
// containing none of them is treated as extraction garbage.
var statementWords = []string{
	"balance", "payment", "pending", "purchase", "transaction",
	"account", "date", "amount", "total", "card", "credit", "debit",
	"statement", "deposit", "withdrawal", "transfer", "posted", "activity",
}

// IsReadableText checks that pages contain enough text, that it is actually
// readable rather than binary garbage, and that it contains at least one
// word a statement would have. Requires >50 chars and >60% readable ASCII.
func IsReadableText(pages []string) bool {
	if totalTextLen(pages) <= 50 {
		return false
	}
	if textQuality(pages) <= 0.6 {
		return false
	}
	return containsStatementWords(pages)
}

// textQuality returns the ratio of basic ASCII readable characters to total
// characters. Strict ASCII on purpose: unicode.IsLetter matches the accented
// garbage identity-encoded fonts produce.
func textQuality(pages []string) float64 {
	total := 0
	readable := 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
				(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
				strings.ContainsRune(".,-/:;()'\"$%&@#!?+=*", r) {
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

func containsStatementWords(pages []string) bool {
	combined := strings.ToLower(strings.Join(pages, " "))
	for _, word := range statementWords {
		if strings.Contains(combined, word) {
			return true
		}
	}
	return false
}

func totalTextLen(pages []string) int {
	n := 0
	for _, p := range pages {
		n += len(strings.TrimSpace(p))
	}
	return n
}
