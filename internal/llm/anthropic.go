package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jonathan/docsynth/internal/types"
)

const anthropicVersion = "2023-06-01"

// AnthropicClient implements Provider for the Anthropic messages API
type AnthropicClient struct {
	http    *http.Client
	desc    types.ProviderDescriptor
	baseURL string
	apiKey  string
}

// NewAnthropicClient creates a new Anthropic client
func NewAnthropicClient(desc types.ProviderDescriptor, baseURL, apiKey string, httpClient *http.Client) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if httpClient == nil {
		httpClient = DefaultHTTPClient()
	}
	return &AnthropicClient{http: httpClient, desc: desc, baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey}, nil
}

type anthropicRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Descriptor returns the provider descriptor
func (c *AnthropicClient) Descriptor() types.ProviderDescriptor {
	return c.desc
}

// Generate sends the prompt as a single user turn and joins the text blocks
func (c *AnthropicClient) Generate(ctx context.Context, prompt string, params Params) (Response, error) {
	params = params.WithDefaults()
	req := anthropicRequest{
		Model:       c.desc.Model,
		MaxTokens:   params.MaxTokens,
		Temperature: params.Temperature,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
	}
	headers := map[string]string{
		"x-api-key":         c.apiKey,
		"anthropic-version": anthropicVersion,
	}

	var out anthropicResponse
	if err := postJSON(ctx, c.http, c.desc.Name, c.baseURL+"/v1/messages", headers, req, &out); err != nil {
		return Response{}, err
	}

	var parts []string
	for _, block := range out.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	text := strings.Join(parts, "")
	if strings.TrimSpace(text) == "" {
		return Response{}, &MalformedResponseError{Provider: c.desc.Name, Message: "no text blocks in response"}
	}
	return Response{
		Text:       text,
		Model:      c.desc.Model,
		TokensUsed: out.Usage.InputTokens + out.Usage.OutputTokens,
	}, nil
}

// Close is a no-op
func (c *AnthropicClient) Close() error {
	return nil
}
