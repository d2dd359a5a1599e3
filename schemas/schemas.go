// Package schemas holds the JSON Schema contracts for structured artifacts,
// embedded at compile time so validation needs no filesystem access.
package schemas

import _ "embed"

// ResumeProfile is the JSON Schema for structured resume data returned by
// the LLM structuring step.
//
//go:embed resume_profile.schema.json
var ResumeProfile string
