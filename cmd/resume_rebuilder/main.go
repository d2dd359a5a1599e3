// Package main provides the entry point for the Resume Rebuilder CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_rebuilder",
	Short: "Resume Rebuilder pipeline",
	Long:  "Resume Rebuilder extracts text from uploaded resumes (with OCR fallback for scans), structures it into a profile via Gemini, and populates a DOCX template with the result.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
