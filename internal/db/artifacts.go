package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/resume-rebuilder/internal/types"
)

// GetResumeProfileByRunID loads the structured resume profile for a run
func (db *DB) GetResumeProfileByRunID(ctx context.Context, runID uuid.UUID) (*types.ResumeProfile, error) {
	content, err := db.GetArtifact(ctx, runID, StepResumeProfile)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, nil
	}

	var profile types.ResumeProfile
	if err := json.Unmarshal(content, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resume profile: %w", err)
	}
	return &profile, nil
}

// GetRawTextByRunID loads the extracted resume text for a run
func (db *DB) GetRawTextByRunID(ctx context.Context, runID uuid.UUID) (string, error) {
	return db.GetTextArtifact(ctx, runID, StepRawText)
}

// GetDocumentByRunID loads the generated DOCX bytes for a run
func (db *DB) GetDocumentByRunID(ctx context.Context, runID uuid.UUID) ([]byte, error) {
	return db.GetBinaryArtifact(ctx, runID, StepDocument)
}
