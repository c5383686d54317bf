// Package llm provides clients for external text-generation providers behind a single
// Provider interface, plus provider detection from credentials.
package llm

import (
	"context"

	"github.com/jonathan/docsynth/internal/types"
)

// Default generation parameters
const (
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 4000
)

// Params controls a single generation call
type Params struct {
	Temperature float64
	MaxTokens   int
	// JSON asks the provider for a JSON-only response where supported
	JSON bool
}

// DefaultParams returns the default generation parameters
func DefaultParams() Params {
	return Params{Temperature: DefaultTemperature, MaxTokens: DefaultMaxTokens}
}

// WithDefaults fills zero fields from DefaultParams
func (p Params) WithDefaults() Params {
	if p.Temperature == 0 {
		p.Temperature = DefaultTemperature
	}
	if p.MaxTokens == 0 {
		p.MaxTokens = DefaultMaxTokens
	}
	return p
}

// Response is the text returned by a provider
type Response struct {
	Text       string
	Model      string
	TokensUsed int
}

// Provider is an abstraction over text-generation providers
type Provider interface {
	// Descriptor returns the immutable description of this provider
	Descriptor() types.ProviderDescriptor
	// Generate sends the prompt and returns the provider's text
	Generate(ctx context.Context, prompt string, params Params) (Response, error)
	// Close releases any resources held by the client
	Close() error
}
