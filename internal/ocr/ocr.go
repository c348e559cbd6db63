// Package ocr turns preprocessed statement images into raw text by
// shelling out to the Tesseract engine.
package ocr

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Recognizer extracts text from an encoded image. Implementations must be
// safe for sequential reuse across a batch.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// Tesseract runs the tesseract binary against a temp file.
// Requires: tesseract (tesseract-ocr).
type Tesseract struct {
	Binary string
	Lang   string
	// PSM 4 = single column of text of variable sizes (good for statements).
	PSM string
}

// NewTesseract returns a recognizer with the standard engine settings.
func NewTesseract() *Tesseract {
	return &Tesseract{Binary: "tesseract", Lang: "eng", PSM: "4"}
}

// Available reports whether the engine binary can be found on PATH.
func (t *Tesseract) Available() bool {
	_, err := exec.LookPath(t.Binary)
	return err == nil
}

// Recognize writes the image to a temp file, invokes tesseract on it, and
// reads the text it produced.
func (t *Tesseract) Recognize(ctx context.Context, image []byte) (string, error) {
	tmpDir, err := os.MkdirTemp("", "ocr-scan-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	imgFile := filepath.Join(tmpDir, "page.png")
	if err := os.WriteFile(imgFile, image, 0o600); err != nil {
		return "", fmt.Errorf("failed to write page image: %v", err)
	}

	// tesseract <input> <output_base> -l eng --psm 4
	// Output goes to <output_base>.txt
	outBase := filepath.Join(tmpDir, "page-ocr")
	cmd := exec.CommandContext(ctx, t.Binary, imgFile, outBase, "-l", t.Lang, "--psm", t.PSM)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("tesseract failed: %v (output: %s)", err, string(out))
	}

	data, err := os.ReadFile(outBase + ".txt")
	if err != nil {
		return "", fmt.Errorf("failed to read tesseract output: %v", err)
	}

	return strings.TrimSpace(string(data)), nil
}
