package extraction

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
)

// readPDF tries the PDF's text layer first. When that fails or comes back
// too short, every page is rasterized and OCRed in page order.
func (e *Extractor) readPDF(ctx context.Context, data []byte) (string, error) {
	text, err := e.pdfText(data)
	if err == nil && e.trusted(text) {
		return strings.TrimSpace(text), nil
	}

	images, rasterErr := e.pdfRaster(data)
	if rasterErr != nil {
		if err != nil {
			return "", &ExtractionError{Message: "failed to read pdf text layer and to rasterize pages", Cause: rasterErr}
		}
		return "", &ExtractionError{Message: "failed to rasterize pdf pages", Cause: rasterErr}
	}
	return recognizeAll(ctx, e.ocr, images)
}

// extractPDFText reads the embedded text layer page by page.
func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read page %d: %w", i, err)
		}
		builder.WriteString(pageText)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}

// rasterizePDF renders every page to a PNG through MuPDF.
func rasterizePDF(data []byte) ([][]byte, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf for rendering: %w", err)
	}
	defer doc.Close()

	images := make([][]byte, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		img, err := doc.Image(i)
		if err != nil {
			return nil, fmt.Errorf("failed to render page %d: %w", i+1, err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("failed to encode page %d: %w", i+1, err)
		}
		images = append(images, buf.Bytes())
	}
	return images, nil
}
