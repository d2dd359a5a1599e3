package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
}

func TestGetModel_Fallback(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite: "fallback-model",
		},
	}

	// Unknown tier should fallback to TierStandard, then TierLite
	assert.Equal(t, "fallback-model", config.GetModel("unknown"))
}

func TestGetModel_EmptyConfig(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models:   map[ModelTier]string{},
	}

	// Empty config should return empty string
	assert.Equal(t, "", config.GetModel(TierAdvanced))
}

func TestModelTierConstants(t *testing.T) {
	assert.Equal(t, ModelTier("lite"), TierLite)
	assert.Equal(t, ModelTier("standard"), TierStandard)
	assert.Equal(t, ModelTier("advanced"), TierAdvanced)
}
