package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jonathan/docsynth/internal/types"
)

// OpenAIClient implements Provider for the OpenAI chat completions API.
// Groq and Together expose the same protocol and share this client.
type OpenAIClient struct {
	http    *http.Client
	desc    types.ProviderDescriptor
	baseURL string
	apiKey  string
}

// NewOpenAIClient creates a client for an OpenAI-compatible endpoint
func NewOpenAIClient(desc types.ProviderDescriptor, baseURL, apiKey string, httpClient *http.Client) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required for %s", desc.Name)
	}
	if httpClient == nil {
		httpClient = DefaultHTTPClient()
	}
	return &OpenAIClient{http: httpClient, desc: desc, baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type openAIRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type openAIResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// Descriptor returns the provider descriptor
func (c *OpenAIClient) Descriptor() types.ProviderDescriptor {
	return c.desc
}

// Generate sends a single user message and returns the first choice
func (c *OpenAIClient) Generate(ctx context.Context, prompt string, params Params) (Response, error) {
	params = params.WithDefaults()
	req := openAIRequest{
		Model:       c.desc.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
	}
	if params.JSON && c.desc.Kind != types.ProviderTogether {
		req.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	var out openAIResponse
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}
	if err := postJSON(ctx, c.http, c.desc.Name, c.baseURL+"/chat/completions", headers, req, &out); err != nil {
		return Response{}, err
	}

	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return Response{}, &MalformedResponseError{Provider: c.desc.Name, Message: "no choices in response"}
	}
	return Response{
		Text:       out.Choices[0].Message.Content,
		Model:      c.desc.Model,
		TokensUsed: out.Usage.TotalTokens,
	}, nil
}

// Close is a no-op; the underlying http.Client is shared
func (c *OpenAIClient) Close() error {
	return nil
}
