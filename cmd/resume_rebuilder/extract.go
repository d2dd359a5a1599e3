package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-rebuilder/internal/extraction"
	"github.com/jonathan/resume-rebuilder/internal/observability"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract raw text from a resume file",
	Long:  "Extract text from a DOCX, PDF, or image resume. Falls back to Tesseract OCR when the native text layer is missing or too short to trust.",
	RunE:  runExtract,
}

var (
	extractInput     string
	extractOut       string
	extractMinLength int
	extractVerbose   bool
)

func init() {
	extractCmd.Flags().StringVarP(&extractInput, "input", "i", "", "Path to the resume file (.docx, .pdf, .png, .jpg, .jpeg)")
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "", "Output file for the extracted text (default: stdout)")
	extractCmd.Flags().IntVar(&extractMinLength, "min-text-length", 0, "Minimum character count to trust native text before falling back to OCR")
	extractCmd.Flags().BoolVarP(&extractVerbose, "verbose", "v", false, "Print detailed debug information")

	extractCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(_ *cobra.Command, _ []string) error {
	data, err := os.ReadFile(extractInput)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	extractor := extraction.New(extraction.Options{MinTextLength: extractMinLength})
	text, err := extractor.Read(context.Background(), data, filepath.Base(extractInput))
	if err != nil {
		return fmt.Errorf("failed to extract text: %w", err)
	}

	if extractVerbose {
		observability.NewPrinter(os.Stdout).PrintExtractedText(text)
	}

	if extractOut == "" {
		fmt.Fprintln(os.Stdout, text)
		return nil
	}

	if err := os.WriteFile(extractOut, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Extracted text written to %s\n", extractOut)
	return nil
}
