package extraction

import (
	"context"
	"strings"

	"github.com/jonathan/resume-rebuilder/internal/docx"
)

// readDocx extracts the document's paragraph and table text in document
// order. When the result is too short to trust, every embedded image part is
// OCRed instead; a package without images yields an empty string.
func (e *Extractor) readDocx(ctx context.Context, data []byte) (string, error) {
	doc, err := docx.Open(data)
	if err != nil {
		return "", &ExtractionError{Message: "failed to open docx package", Cause: err}
	}

	text := strings.TrimSpace(doc.Text())
	if e.trusted(text) {
		return text, nil
	}

	images, err := doc.ImageParts()
	if err != nil {
		return "", &ExtractionError{Message: "failed to enumerate docx image parts", Cause: err}
	}
	if len(images) == 0 {
		return "", nil
	}
	return recognizeAll(ctx, e.ocr, images)
}
