package extraction

import "context"

// readImage runs OCR on the raw image bytes. There is no structural layer to
// prefer, so no threshold applies.
func (e *Extractor) readImage(ctx context.Context, data []byte) (string, error) {
	return e.ocr.Recognize(ctx, data)
}
