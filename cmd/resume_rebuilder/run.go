package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-rebuilder/internal/config"
	"github.com/jonathan/resume-rebuilder/internal/pipeline"
	"github.com/spf13/cobra"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full resume rebuild pipeline end-to-end",
	Long: `Orchestrates the entire rebuild process: extraction -> structuring -> population.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values. With --batch, every supported resume in the given directory is rebuilt concurrently.`,
	RunE: runPipelineCmd,
}

var (
	runConfigPath    string
	runInput         string
	runTemplate      string
	runOutput        string
	runAPIKey        string
	runDatabaseURL   string
	runMinTextLength int
	runBatchDir      string
	runOutDir        string
	runConcurrency   int
	runVerbose       bool
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVarP(&runInput, "input", "i", "", "Path to the resume file (.docx, .pdf, .png, .jpg, .jpeg)")
	runCommand.Flags().StringVarP(&runTemplate, "template", "t", "", "Path to the DOCX template")
	runCommand.Flags().StringVarP(&runOutput, "out", "o", "", "Output path for the populated document")
	runCommand.Flags().IntVar(&runMinTextLength, "min-text-length", 0, "Minimum character count to trust native text before falling back to OCR")
	runCommand.Flags().StringVar(&runBatchDir, "batch", "", "Directory of resumes to rebuild (mutually exclusive with --input)")
	runCommand.Flags().StringVar(&runOutDir, "out-dir", "", "Output directory for batch mode (default: alongside each input)")
	runCommand.Flags().IntVar(&runConcurrency, "concurrency", 0, "Number of resumes rebuilt in parallel in batch mode")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed debug information")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	// Database URL for artifact persistence
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if runConfigPath != "" {
		loadedCfg, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		cfg = *loadedCfg
		if runVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", runConfigPath)
		}
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("input") {
		cfg.Input = runInput
	}
	if cmd.Flags().Changed("template") {
		cfg.Template = runTemplate
	}
	if cmd.Flags().Changed("out") {
		cfg.Output = runOutput
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = runAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = runDatabaseURL
	}
	if cmd.Flags().Changed("min-text-length") {
		cfg.MinTextLength = runMinTextLength
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency = runConcurrency
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = runVerbose
	}

	// Step 3: Apply defaults for unset values
	cfg = cfg.MergeWithDefaults(config.Config{
		Template:      "templates/resume_template.docx",
		MinTextLength: 0,
		Concurrency:   4,
	})

	// Step 4: Validate required fields
	if runBatchDir == "" && cfg.Input == "" {
		return fmt.Errorf("either --input or --batch must be provided (via flag or config)")
	}
	if runBatchDir != "" && cfg.Input != "" {
		return fmt.Errorf("--input and --batch are mutually exclusive; provide only one")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Step 5: API Key handling
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}

	// Step 6: Database URL handling (optional, run proceeds without persistence)
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	opts := pipeline.RunOptions{
		InputPath:     cfg.Input,
		TemplatePath:  cfg.Template,
		OutputPath:    cfg.Output,
		APIKey:        cfg.APIKey,
		MinTextLength: cfg.MinTextLength,
		Verbose:       cfg.Verbose,
		DatabaseURL:   cfg.DatabaseURL,
	}

	if runBatchDir != "" {
		items, err := collectBatchItems(runBatchDir, runOutDir)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return fmt.Errorf("no supported resume files found in %s", runBatchDir)
		}
		fmt.Fprintf(os.Stdout, "Rebuilding %d resumes from %s\n", len(items), runBatchDir)
		return pipeline.RunBatch(ctx, opts, items, cfg.Concurrency)
	}

	if opts.OutputPath == "" {
		opts.OutputPath = rebuiltPath(cfg.Input, "")
	}
	_, err := pipeline.RunPipeline(ctx, opts)
	return err
}

// collectBatchItems lists supported resume files in dir and pairs each with
// an output path under outDir (or next to the input when outDir is empty).
func collectBatchItems(dir, outDir string) ([]pipeline.BatchItem, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch directory: %w", err)
	}

	var items []pipeline.BatchItem
	for _, entry := range entries {
		if entry.IsDir() || !supportedResume(entry.Name()) {
			continue
		}
		input := filepath.Join(dir, entry.Name())
		items = append(items, pipeline.BatchItem{
			InputPath:  input,
			OutputPath: rebuiltPath(input, outDir),
		})
	}
	return items, nil
}

func supportedResume(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".docx", ".pdf", ".png", ".jpg", ".jpeg":
		return true
	default:
		return false
	}
}

// rebuiltPath derives the output document path for an input resume.
func rebuiltPath(input, outDir string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if outDir == "" {
		outDir = filepath.Dir(input)
	}
	return filepath.Join(outDir, stem+"_rebuilt.docx")
}
