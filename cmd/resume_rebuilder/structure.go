package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/resume-rebuilder/internal/observability"
	"github.com/jonathan/resume-rebuilder/internal/structuring"
	"github.com/spf13/cobra"
)

var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Structure raw resume text into a profile via the LLM",
	Long:  "Send extracted resume text to Gemini and parse the response into a structured resume profile JSON document.",
	RunE:  runStructure,
}

var (
	structureInput   string
	structureOut     string
	structureAPIKey  string
	structureVerbose bool
)

func init() {
	structureCmd.Flags().StringVarP(&structureInput, "input", "i", "", "Path to a file containing the extracted resume text")
	structureCmd.Flags().StringVarP(&structureOut, "out", "o", "", "Output file for the profile JSON (default: stdout)")
	structureCmd.Flags().StringVar(&structureAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	structureCmd.Flags().BoolVarP(&structureVerbose, "verbose", "v", false, "Print detailed debug information")

	structureCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(structureCmd)
}

func runStructure(_ *cobra.Command, _ []string) error {
	apiKey := structureAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}

	text, err := os.ReadFile(structureInput)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	profile, err := structuring.StructureResume(context.Background(), string(text), apiKey)
	if err != nil {
		return fmt.Errorf("failed to structure resume: %w", err)
	}

	if structureVerbose {
		observability.NewPrinter(os.Stdout).PrintResumeProfile(profile)
	}

	encoded, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	if structureOut == "" {
		fmt.Fprintln(os.Stdout, string(encoded))
		return nil
	}

	if err := os.WriteFile(structureOut, encoded, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Resume profile written to %s\n", structureOut)
	return nil
}
