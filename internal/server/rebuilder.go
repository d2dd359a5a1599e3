package server

import (
	"context"

	"github.com/jonathan/resume-rebuilder/internal/extraction"
	"github.com/jonathan/resume-rebuilder/internal/population"
	"github.com/jonathan/resume-rebuilder/internal/structuring"
	"github.com/jonathan/resume-rebuilder/internal/types"
)

// Rebuilder runs the three pipeline stages. Handlers depend on this
// interface so tests can inject a fake without OCR or network calls.
type Rebuilder interface {
	Extract(ctx context.Context, data []byte, filename string) (string, error)
	Structure(ctx context.Context, resumeText string) (*types.ResumeProfile, error)
	Generate(templateBytes []byte, profile *types.ResumeProfile) ([]byte, error)
}

// PipelineRebuilder is the production Rebuilder backed by the extraction,
// structuring, and population packages.
type PipelineRebuilder struct {
	extractor *extraction.Extractor
	apiKey    string
}

// NewPipelineRebuilder creates a Rebuilder using the given Gemini API key
// and minimum trusted text length for the OCR fallback decision.
func NewPipelineRebuilder(apiKey string, minTextLength int) *PipelineRebuilder {
	return &PipelineRebuilder{
		extractor: extraction.New(extraction.Options{MinTextLength: minTextLength}),
		apiKey:    apiKey,
	}
}

func (p *PipelineRebuilder) Extract(ctx context.Context, data []byte, filename string) (string, error) {
	return p.extractor.Read(ctx, data, filename)
}

func (p *PipelineRebuilder) Structure(ctx context.Context, resumeText string) (*types.ResumeProfile, error) {
	return structuring.StructureResume(ctx, resumeText, p.apiKey)
}

func (p *PipelineRebuilder) Generate(templateBytes []byte, profile *types.ResumeProfile) ([]byte, error) {
	return population.Generate(templateBytes, profile)
}
