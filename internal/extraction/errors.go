package extraction

import "fmt"

// UnsupportedFormatError indicates the input file's extension maps to no
// known extraction strategy.
type UnsupportedFormatError struct {
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %q", e.Extension)
}

// ExtractionError represents a failure to pull text out of a document.
type ExtractionError struct {
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction error: %s", e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// OCRError represents a failure inside the OCR engine.
type OCRError struct {
	Message string
	Cause   error
}

func (e *OCRError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ocr error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("ocr error: %s", e.Message)
}

func (e *OCRError) Unwrap() error {
	return e.Cause
}
