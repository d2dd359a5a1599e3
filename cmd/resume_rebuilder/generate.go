package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/resume-rebuilder/internal/observability"
	"github.com/jonathan/resume-rebuilder/internal/population"
	"github.com/jonathan/resume-rebuilder/internal/types"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Populate a DOCX template from a resume profile",
	Long:  "Load a structured resume profile JSON file and a DOCX template, substitute the placeholder tokens, expand the repeating table rows, and write the populated document.",
	RunE:  runGenerate,
}

var (
	generateProfile  string
	generateTemplate string
	generateOut      string
	generateVerbose  bool
)

func init() {
	generateCmd.Flags().StringVarP(&generateProfile, "profile", "p", "", "Path to the resume profile JSON file")
	generateCmd.Flags().StringVarP(&generateTemplate, "template", "t", "", "Path to the DOCX template")
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "Output path for the populated document")
	generateCmd.Flags().BoolVarP(&generateVerbose, "verbose", "v", false, "Print detailed debug information")

	generateCmd.MarkFlagRequired("profile")
	generateCmd.MarkFlagRequired("template")
	generateCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(_ *cobra.Command, _ []string) error {
	profileData, err := os.ReadFile(generateProfile)
	if err != nil {
		return fmt.Errorf("failed to read profile file: %w", err)
	}

	var profile types.ResumeProfile
	if err := json.Unmarshal(profileData, &profile); err != nil {
		return fmt.Errorf("failed to parse profile JSON: %w", err)
	}
	profile.Normalize()

	templateData, err := os.ReadFile(generateTemplate)
	if err != nil {
		return fmt.Errorf("failed to read template file: %w", err)
	}

	document, err := population.Generate(templateData, &profile)
	if err != nil {
		return fmt.Errorf("failed to generate document: %w", err)
	}

	if err := os.WriteFile(generateOut, document, 0o644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	if generateVerbose {
		observability.NewPrinter(os.Stdout).PrintDocumentSummary(generateOut, len(document))
	}

	fmt.Fprintf(os.Stdout, "Document written to %s\n", generateOut)
	return nil
}
