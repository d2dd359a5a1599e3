package population

import "fmt"

// TemplateError represents a failure to load or serialize the template
// document.
type TemplateError struct {
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("template error: %s", e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}
