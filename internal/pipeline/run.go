// Package pipeline provides the high-level orchestration for the resume rebuild process.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-rebuilder/internal/db"
	"github.com/jonathan/resume-rebuilder/internal/extraction"
	"github.com/jonathan/resume-rebuilder/internal/observability"
	"github.com/jonathan/resume-rebuilder/internal/population"
	"github.com/jonathan/resume-rebuilder/internal/structuring"
	"github.com/jonathan/resume-rebuilder/internal/types"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	InputPath     string
	TemplatePath  string
	OutputPath    string
	APIKey        string
	MinTextLength int
	Verbose       bool
	DatabaseURL   string
	OnProgress    ProgressCallback
}

// Result holds the artifacts produced by a pipeline run
type Result struct {
	RunID    uuid.UUID
	RawText  string
	Profile  *types.ResumeProfile
	Document []byte
}

// Runner executes the extract, structure, and generate stages. Stage
// functions are fields so tests can stub the LLM and OCR boundaries.
type Runner struct {
	extract   func(ctx context.Context, data []byte, filename string) (string, error)
	structure func(ctx context.Context, rawText, apiKey string) (*types.ResumeProfile, error)
	generate  func(template []byte, profile *types.ResumeProfile) ([]byte, error)
}

// NewRunner builds a Runner wired to the real pipeline stages
func NewRunner(minTextLength int) *Runner {
	extractor := extraction.New(extraction.Options{MinTextLength: minTextLength})
	return &Runner{
		extract:   extractor.Read,
		structure: structuring.StructureResume,
		generate:  population.Generate,
	}
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, step, category, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{
			Step:     step,
			Category: category,
			Message:  message,
			Content:  content,
		})
	}
}

// RunPipeline orchestrates the full resume rebuild pipeline
func RunPipeline(ctx context.Context, opts RunOptions) (*Result, error) {
	return NewRunner(opts.MinTextLength).Run(ctx, opts)
}

// Run executes all three stages against the configured options
func (r *Runner) Run(ctx context.Context, opts RunOptions) (*Result, error) {
	printer := observability.NewPrinter(os.Stdout)

	// Initialize database connection if configured
	var database *db.DB
	var runID uuid.UUID
	if opts.DatabaseURL != "" {
		var err error
		database, err = db.Connect(ctx, opts.DatabaseURL)
		if err != nil {
			fmt.Printf("Warning: Failed to connect to database: %v\n", err)
			fmt.Printf("Continuing without database persistence...\n")
		} else {
			defer database.Close()
			if opts.Verbose {
				fmt.Printf("[VERBOSE] Connected to database\n")
			}
		}
	}

	inputData, err := os.ReadFile(opts.InputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	templateData, err := os.ReadFile(opts.TemplatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}

	if database != nil {
		runID, err = database.CreateRun(ctx, filepath.Base(opts.InputPath))
		if err != nil {
			fmt.Printf("Warning: Failed to create database run: %v\n", err)
		} else if opts.Verbose {
			fmt.Printf("[VERBOSE] Created database run: %s\n", runID)
		}
	}

	fmt.Printf("Step 1/3: Extracting text from %s...\n", opts.InputPath)
	rawText, err := r.extract(ctx, inputData, opts.InputPath)
	if err != nil {
		failRun(ctx, database, runID)
		return nil, fmt.Errorf("text extraction failed: %w", err)
	}
	if opts.Verbose {
		printer.PrintExtractedText(rawText)
	}
	emitProgress(&opts, db.StepRawText, db.CategoryExtraction,
		fmt.Sprintf("Extracted %d characters", len(rawText)), nil)
	if database != nil && runID != uuid.Nil {
		_ = database.SaveTextArtifact(ctx, runID, db.StepRawText, db.CategoryExtraction, rawText)
	}

	fmt.Printf("Step 2/3: Structuring resume data...\n")
	profile, err := r.structure(ctx, rawText, opts.APIKey)
	if err != nil {
		failRun(ctx, database, runID)
		return nil, fmt.Errorf("resume structuring failed: %w", err)
	}
	if opts.Verbose {
		printer.PrintResumeProfile(profile)
	}
	emitProgress(&opts, db.StepResumeProfile, db.CategoryStructuring,
		fmt.Sprintf("Structured resume profile for %s", profile.Name), profile)
	if database != nil && runID != uuid.Nil {
		_ = database.SaveArtifact(ctx, runID, db.StepResumeProfile, db.CategoryStructuring, profile)
	}

	fmt.Printf("Step 3/3: Populating template %s...\n", opts.TemplatePath)
	document, err := r.generate(templateData, profile)
	if err != nil {
		failRun(ctx, database, runID)
		return nil, fmt.Errorf("template population failed: %w", err)
	}
	emitProgress(&opts, db.StepDocument, db.CategoryPopulation,
		fmt.Sprintf("Generated document (%d bytes)", len(document)), nil)
	if database != nil && runID != uuid.Nil {
		_ = database.SaveBinaryArtifact(ctx, runID, db.StepDocument, db.CategoryPopulation, document)
		_ = database.CompleteRun(ctx, runID, "completed")
	}

	if opts.OutputPath != "" {
		if err := os.WriteFile(opts.OutputPath, document, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write output file: %w", err)
		}
		if opts.Verbose {
			printer.PrintDocumentSummary(opts.OutputPath, len(document))
		}
		fmt.Printf("Done! Resume written to %s\n", opts.OutputPath)
	}

	return &Result{
		RunID:    runID,
		RawText:  rawText,
		Profile:  profile,
		Document: document,
	}, nil
}

// failRun marks the database run as failed, if one exists
func failRun(ctx context.Context, database *db.DB, runID uuid.UUID) {
	if database != nil && runID != uuid.Nil {
		_ = database.CompleteRun(ctx, runID, "failed")
	}
}

// BatchItem pairs one input resume with its output path
type BatchItem struct {
	InputPath  string
	OutputPath string
}

// RunBatch rebuilds several resumes concurrently. Each item runs the full
// pipeline independently; the first error cancels the remaining work.
func RunBatch(ctx context.Context, opts RunOptions, items []BatchItem, concurrency int) error {
	return NewRunner(opts.MinTextLength).RunBatch(ctx, opts, items, concurrency)
}

// RunBatch runs the pipeline for each item with bounded concurrency
func (r *Runner) RunBatch(ctx context.Context, opts RunOptions, items []BatchItem, concurrency int) error {
	if concurrency <= 0 {
		concurrency = 4
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, item := range items {
		g.Go(func() error {
			itemOpts := opts
			itemOpts.InputPath = item.InputPath
			itemOpts.OutputPath = item.OutputPath
			if _, err := r.Run(gCtx, itemOpts); err != nil {
				return fmt.Errorf("rebuild of %s failed: %w", item.InputPath, err)
			}
			return nil
		})
	}

	return g.Wait()
}
