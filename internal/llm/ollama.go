package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jonathan/docsynth/internal/types"
)

// OllamaClient implements Provider for a local Ollama server
type OllamaClient struct {
	http    *http.Client
	desc    types.ProviderDescriptor
	baseURL string
}

// NewOllamaClient creates a client for the Ollama server at baseURL
func NewOllamaClient(desc types.ProviderDescriptor, baseURL string, httpClient *http.Client) (*OllamaClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required for %s", desc.Name)
	}
	if httpClient == nil {
		httpClient = DefaultHTTPClient()
	}
	return &OllamaClient{http: httpClient, desc: desc, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Format  string        `json:"format,omitempty"`
	Options ollamaOptions `json:"options"`
}

type ollamaResponse struct {
	Response        string `json:"response"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

// Descriptor returns the provider descriptor
func (c *OllamaClient) Descriptor() types.ProviderDescriptor {
	return c.desc
}

// Generate runs a non-streaming completion
func (c *OllamaClient) Generate(ctx context.Context, prompt string, params Params) (Response, error) {
	params = params.WithDefaults()
	req := ollamaRequest{
		Model:   c.desc.Model,
		Prompt:  prompt,
		Options: ollamaOptions{Temperature: params.Temperature, NumPredict: params.MaxTokens},
	}
	if params.JSON {
		req.Format = "json"
	}

	var out ollamaResponse
	if err := postJSON(ctx, c.http, c.desc.Name, c.baseURL+"/api/generate", nil, req, &out); err != nil {
		return Response{}, err
	}
	if strings.TrimSpace(out.Response) == "" {
		return Response{}, &MalformedResponseError{Provider: c.desc.Name, Message: "empty response"}
	}
	return Response{
		Text:       out.Response,
		Model:      c.desc.Model,
		TokensUsed: out.PromptEvalCount + out.EvalCount,
	}, nil
}

// Close is a no-op
func (c *OllamaClient) Close() error {
	return nil
}
