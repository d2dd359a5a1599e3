// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Input    string `json:"input,omitempty" validate:"omitempty,file"`    // Path to the source resume (docx, pdf, or image)
	Template string `json:"template,omitempty" validate:"omitempty,file"` // Path to the DOCX template
	Output   string `json:"output,omitempty"`                             // Path for the generated document

	// Behavior
	APIKey        string `json:"api_key,omitempty"`                                        // Gemini API key
	DatabaseURL   string `json:"database_url,omitempty"`                                   // PostgreSQL connection URL
	MinTextLength int    `json:"min_text_length,omitempty" validate:"gte=0"`               // OCR fallback threshold in characters
	Concurrency   int    `json:"concurrency,omitempty" validate:"gte=0,lte=64"`            // Batch worker limit
	ListenAddr    string `json:"listen_addr,omitempty" validate:"omitempty,hostname_port"` // Server bind address
	Verbose       bool   `json:"verbose,omitempty"`                                        // Print detailed debug information
}

var validate = validator.New()

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("config error: field %q fails %q validation", first.Field(), first.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Input == "" {
		result.Input = defaults.Input
	}
	if result.Template == "" {
		result.Template = defaults.Template
	}
	if result.Output == "" {
		result.Output = defaults.Output
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.ListenAddr == "" {
		result.ListenAddr = defaults.ListenAddr
	}

	// Int fields: use default if zero
	if result.MinTextLength == 0 {
		result.MinTextLength = defaults.MinTextLength
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
