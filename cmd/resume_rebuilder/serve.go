package main

import (
	"fmt"
	"os"

	"github.com/jonathan/resume-rebuilder/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort          int
	serveTemplate      string
	serveMinTextLength int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for rebuilding resumes: upload a file, get back a populated DOCX.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVarP(&serveTemplate, "template", "t", "templates/resume_template.docx", "Default DOCX template used when requests do not upload one")
	serveCmd.Flags().IntVar(&serveMinTextLength, "min-text-length", 0, "Minimum character count to trust native text before falling back to OCR")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	// Get API key from environment
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	// Database is optional; without it runs are not persisted
	databaseURL := os.Getenv("DATABASE_URL")

	cfg := server.Config{
		Port:          servePort,
		DatabaseURL:   databaseURL,
		APIKey:        apiKey,
		TemplatePath:  serveTemplate,
		MinTextLength: serveMinTextLength,
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
