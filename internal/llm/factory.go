package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jonathan/docsynth/internal/types"
)

// NewProvider builds the client for desc using its credential.
// For Ollama the credential is the server URL.
func NewProvider(ctx context.Context, desc types.ProviderDescriptor, creds Credentials, cfg *Config, httpClient *http.Client) (Provider, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	secret := creds[desc.Kind]
	if secret == "" {
		return nil, fmt.Errorf("no credentials for provider %s (set %s)", desc.Kind, EnvVar(desc.Kind))
	}
	baseURL := cfg.GetBaseURL(desc.Kind)

	switch desc.Kind {
	case types.ProviderGemini:
		return NewGeminiClient(ctx, desc, secret)
	case types.ProviderOpenAI, types.ProviderGroq, types.ProviderTogether:
		return NewOpenAIClient(desc, baseURL, secret, httpClient)
	case types.ProviderAnthropic:
		return NewAnthropicClient(desc, baseURL, secret, httpClient)
	case types.ProviderCohere:
		return NewCohereClient(desc, baseURL, secret, httpClient)
	case types.ProviderOllama:
		return NewOllamaClient(desc, secret, httpClient)
	default:
		return nil, fmt.Errorf("unsupported provider kind: %s", desc.Kind)
	}
}

// NewProviders builds a client for every detected descriptor.
// Providers that fail to construct are reported in the returned error map and skipped.
func NewProviders(ctx context.Context, descs []types.ProviderDescriptor, creds Credentials, cfg *Config, httpClient *http.Client) ([]Provider, map[types.ProviderKind]error) {
	var providers []Provider
	failed := map[types.ProviderKind]error{}
	for _, d := range descs {
		p, err := NewProvider(ctx, d, creds, cfg, httpClient)
		if err != nil {
			failed[d.Kind] = err
			continue
		}
		providers = append(providers, p)
	}
	return providers, failed
}
