package extraction

import (
	"context"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Engine recognizes text in a single encoded image (PNG or JPEG bytes).
type Engine interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// TesseractEngine implements Engine on top of the gosseract client. Each
// recognition uses a fresh client so engines are safe for concurrent use.
type TesseractEngine struct {
	clientFactory func() *gosseract.Client
}

// NewTesseractEngine constructs a Tesseract-backed OCR engine.
func NewTesseractEngine() *TesseractEngine {
	return &TesseractEngine{clientFactory: gosseract.NewClient}
}

// Recognize performs OCR on one image and returns the trimmed plain text.
func (e *TesseractEngine) Recognize(ctx context.Context, image []byte) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(image); err != nil {
		return "", &OCRError{Message: "failed to set image", Cause: err}
	}
	text, err := c.Text()
	if err != nil {
		return "", &OCRError{Message: "failed to recognize text", Cause: err}
	}
	return strings.TrimSpace(text), nil
}

// recognizeAll runs the engine over every image in order and joins the
// non-empty results with newlines.
func recognizeAll(ctx context.Context, engine Engine, images [][]byte) (string, error) {
	var parts []string
	for _, img := range images {
		text, err := engine.Recognize(ctx, img)
		if err != nil {
			return "", err
		}
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n"), nil
}
