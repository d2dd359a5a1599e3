package db

import (
	"time"

	"github.com/google/uuid"
)

// Run represents a rebuild run record
type Run struct {
	ID             uuid.UUID  `json:"id"`
	SourceFilename string     `json:"source_filename"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// ArtifactStep constants for known artifact types
const (
	StepRawText       = "raw_text"
	StepResumeProfile = "resume_profile"
	StepDocument      = "document"
)

// ArtifactCategory constants group artifacts by pipeline stage
const (
	CategoryExtraction  = "extraction"
	CategoryStructuring = "structuring"
	CategoryPopulation  = "population"
)

// ArtifactMeta describes a stored artifact without its payload
type ArtifactMeta struct {
	Step      string    `json:"step"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}
