// Package extraction turns uploaded resume files into plain text. DOCX and
// PDF inputs get structural extraction first with an OCR fallback for scanned
// documents; image inputs go straight through OCR.
package extraction

import (
	"context"
	"path/filepath"
	"strings"
)

// DefaultMinTextLength is the minimum number of characters a structural
// extraction must yield before it is trusted. Shorter results are assumed to
// come from scanned documents and trigger the OCR fallback.
const DefaultMinTextLength = 100

// Options configures an Extractor. Zero values select the defaults: the
// standard length threshold and the Tesseract OCR engine.
type Options struct {
	MinTextLength int
	OCR           Engine
}

// Extractor dispatches extraction by file extension.
type Extractor struct {
	minTextLength int
	ocr           Engine

	// Injection points for PDF handling, overridable in tests.
	pdfText   func(data []byte) (string, error)
	pdfRaster func(data []byte) ([][]byte, error)
}

// New constructs an Extractor from the given options.
func New(opts Options) *Extractor {
	if opts.MinTextLength <= 0 {
		opts.MinTextLength = DefaultMinTextLength
	}
	if opts.OCR == nil {
		opts.OCR = NewTesseractEngine()
	}
	return &Extractor{
		minTextLength: opts.MinTextLength,
		ocr:           opts.OCR,
		pdfText:       extractPDFText,
		pdfRaster:     rasterizePDF,
	}
}

// Read extracts plain text from the file contents, choosing the strategy by
// the filename's extension. Unknown extensions yield an
// UnsupportedFormatError.
func (e *Extractor) Read(ctx context.Context, data []byte, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".docx":
		return e.readDocx(ctx, data)
	case ".pdf":
		return e.readPDF(ctx, data)
	case ".png", ".jpg", ".jpeg":
		return e.readImage(ctx, data)
	default:
		return "", &UnsupportedFormatError{Extension: ext}
	}
}

// trusted reports whether a structural extraction carries enough text to
// skip the OCR fallback.
func (e *Extractor) trusted(text string) bool {
	return len(strings.TrimSpace(text)) > e.minTextLength
}
