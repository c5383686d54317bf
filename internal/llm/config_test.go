package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/docsynth/internal/types"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "gemini-2.5-flash", config.GetModel(types.ProviderGemini))
	assert.Equal(t, "gpt-4o-mini", config.GetModel(types.ProviderOpenAI))
	assert.Equal(t, "https://api.groq.com/openai/v1", config.GetBaseURL(types.ProviderGroq))
	assert.Equal(t, "", config.GetBaseURL(types.ProviderGemini))
}

func TestGetModel_EmptyConfig(t *testing.T) {
	config := &Config{}

	assert.Equal(t, "", config.GetModel(types.ProviderAnthropic))
	assert.Equal(t, "", config.GetBaseURL(types.ProviderOllama))
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	newConfig := config.WithModel(types.ProviderOpenAI, "gpt-4o")

	// Original should be unchanged
	assert.Equal(t, "gpt-4o-mini", config.GetModel(types.ProviderOpenAI))
	assert.Equal(t, "gpt-4o", newConfig.GetModel(types.ProviderOpenAI))

	// Other providers should be copied
	assert.Equal(t, "command-r", newConfig.GetModel(types.ProviderCohere))
}

func TestWithBaseURL(t *testing.T) {
	config := DefaultConfig()
	newConfig := config.WithBaseURL(types.ProviderOllama, "http://gpu-box:11434")

	assert.Equal(t, "http://localhost:11434", config.GetBaseURL(types.ProviderOllama))
	assert.Equal(t, "http://gpu-box:11434", newConfig.GetBaseURL(types.ProviderOllama))
}

func TestWithModel_NilMaps(t *testing.T) {
	newConfig := (&Config{}).WithModel(types.ProviderGroq, "llama3-8b-8192")
	assert.Equal(t, "llama3-8b-8192", newConfig.GetModel(types.ProviderGroq))
}
