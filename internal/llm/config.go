package llm

import "github.com/jonathan/docsynth/internal/types"

// Config holds the model and endpoint for each provider kind
type Config struct {
	Models   map[types.ProviderKind]string
	BaseURLs map[types.ProviderKind]string
}

// DefaultConfig returns the default model and endpoint per provider
func DefaultConfig() *Config {
	return &Config{
		Models: map[types.ProviderKind]string{
			types.ProviderGemini:    "gemini-2.5-flash",
			types.ProviderOpenAI:    "gpt-4o-mini",
			types.ProviderAnthropic: "claude-3-haiku-20240307",
			types.ProviderGroq:      "llama3-70b-8192",
			types.ProviderTogether:  "mistralai/Mixtral-8x7B-Instruct-v0.1",
			types.ProviderCohere:    "command-r",
			types.ProviderOllama:    "llama3.1",
		},
		BaseURLs: map[types.ProviderKind]string{
			types.ProviderOpenAI:    "https://api.openai.com/v1",
			types.ProviderAnthropic: "https://api.anthropic.com",
			types.ProviderGroq:      "https://api.groq.com/openai/v1",
			types.ProviderTogether:  "https://api.together.xyz/v1",
			types.ProviderCohere:    "https://api.cohere.com",
			types.ProviderOllama:    "http://localhost:11434",
		},
	}
}

// GetModel returns the model name for a provider kind
func (c *Config) GetModel(kind types.ProviderKind) string {
	return c.Models[kind]
}

// GetBaseURL returns the endpoint for a provider kind
func (c *Config) GetBaseURL(kind types.ProviderKind) string {
	return c.BaseURLs[kind]
}

// WithModel returns a new Config with a specific model for a provider
func (c *Config) WithModel(kind types.ProviderKind, model string) *Config {
	next := c.clone()
	next.Models[kind] = model
	return next
}

// WithBaseURL returns a new Config with a specific endpoint for a provider
func (c *Config) WithBaseURL(kind types.ProviderKind, baseURL string) *Config {
	next := c.clone()
	next.BaseURLs[kind] = baseURL
	return next
}

func (c *Config) clone() *Config {
	next := &Config{
		Models:   make(map[types.ProviderKind]string, len(c.Models)),
		BaseURLs: make(map[types.ProviderKind]string, len(c.BaseURLs)),
	}
	for k, v := range c.Models {
		next.Models[k] = v
	}
	for k, v := range c.BaseURLs {
		next.BaseURLs[k] = v
	}
	return next
}
