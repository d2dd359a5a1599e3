// Package structuring turns raw resume text into a structured ResumeProfile
// using LLM extraction.
package structuring

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/jonathan/resume-rebuilder/internal/llm"
	"github.com/jonathan/resume-rebuilder/internal/prompts"
	internalschemas "github.com/jonathan/resume-rebuilder/internal/schemas"
	"github.com/jonathan/resume-rebuilder/internal/types"
	"github.com/jonathan/resume-rebuilder/schemas"
)

// StructureResume extracts a structured ResumeProfile from raw resume text.
// Missing fields come back as empty strings and empty lists, never nil.
func StructureResume(ctx context.Context, resumeText string, apiKey string) (*types.ResumeProfile, error) {
	if apiKey == "" {
		return nil, &APICallError{Message: "API key is required"}
	}
	if strings.TrimSpace(resumeText) == "" {
		return nil, &ParseError{Message: "resume text is empty"}
	}

	// Initialize LLM client with default config
	config := llm.DefaultConfig()
	client, err := llm.NewClient(ctx, config, apiKey)
	if err != nil {
		return nil, &APICallError{
			Message: "failed to create LLM client",
			Cause:   err,
		}
	}
	defer func() { _ = client.Close() }()

	prompt := buildStructuringPrompt(resumeText)

	// TierStandard is enough for schema-guided extraction
	responseText, err := client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &APICallError{
			Message: "failed to generate content from LLM",
			Cause:   err,
		}
	}

	return ParseProfile(responseText)
}

// ParseProfile decodes an LLM JSON response into a normalized ResumeProfile.
func ParseProfile(responseText string) (*types.ResumeProfile, error) {
	responseText = llm.CleanJSONBlock(responseText)

	checkShape(responseText)

	var profile types.ResumeProfile
	if err := json.Unmarshal([]byte(responseText), &profile); err != nil {
		return nil, &ParseError{
			Message: "failed to parse JSON response",
			Cause:   err,
		}
	}

	profile.Normalize()
	return &profile, nil
}

// buildStructuringPrompt constructs the prompt for structured extraction
func buildStructuringPrompt(resumeText string) string {
	template := prompts.MustGet("structuring.json", "extract-resume-profile")
	return prompts.Format(template, map[string]string{
		"ResumeText": resumeText,
	})
}

// checkShape validates the response against the profile schema. Shape
// violations are logged, not fatal: decoding plus normalization decides what
// the pipeline actually uses.
func checkShape(responseText string) {
	err := internalschemas.ValidateJSONString(schemas.ResumeProfile, responseText)
	if err == nil {
		return
	}
	var validationErr *internalschemas.ValidationError
	if errors.As(err, &validationErr) {
		log.Printf("Warning: LLM response deviates from profile schema: %v", validationErr)
		return
	}
	log.Printf("Warning: profile schema check failed: %v", err)
}
