// Package server provides the HTTP REST API for the resume rebuilder.
package server

import (
	"net/http"

	"github.com/jonathan/resume-rebuilder/internal/extraction"
	"github.com/jonathan/resume-rebuilder/internal/population"
	"github.com/jonathan/resume-rebuilder/internal/structuring"
)

// HTTPStatus returns the appropriate HTTP status code for a pipeline error.
func HTTPStatus(err error) int {
	switch err.(type) {
	case *extraction.UnsupportedFormatError:
		return http.StatusUnsupportedMediaType
	case *population.TemplateError:
		return http.StatusBadRequest
	case *extraction.ExtractionError, *extraction.OCRError:
		return http.StatusUnprocessableEntity
	case *structuring.ParseError:
		return http.StatusBadGateway
	case *structuring.APICallError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
