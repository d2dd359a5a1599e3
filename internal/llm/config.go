// Package llm provides centralized LLM configuration and client abstractions.
// This package enables easy switching between model tiers and future multi-provider support.
package llm

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: classification, basic summarization
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning: structured extraction
	TierStandard ModelTier = "standard"
	// TierAdvanced is for complex reasoning tasks
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider, the only one currently wired.
const ProviderGemini Provider = "gemini"

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return "" // No model configured
}
