package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jonathan/docsynth/internal/types"
)

// CohereClient implements Provider for the Cohere v2 chat API
type CohereClient struct {
	http    *http.Client
	desc    types.ProviderDescriptor
	baseURL string
	apiKey  string
}

// NewCohereClient creates a new Cohere client
func NewCohereClient(desc types.ProviderDescriptor, baseURL, apiKey string, httpClient *http.Client) (*CohereClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if httpClient == nil {
		httpClient = DefaultHTTPClient()
	}
	return &CohereClient{http: httpClient, desc: desc, baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey}, nil
}

type cohereRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type cohereResponse struct {
	Message struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"message"`
	Usage struct {
		Tokens struct {
			InputTokens  float64 `json:"input_tokens"`
			OutputTokens float64 `json:"output_tokens"`
		} `json:"tokens"`
	} `json:"usage"`
}

// Descriptor returns the provider descriptor
func (c *CohereClient) Descriptor() types.ProviderDescriptor {
	return c.desc
}

// Generate sends the prompt as a single user message
func (c *CohereClient) Generate(ctx context.Context, prompt string, params Params) (Response, error) {
	params = params.WithDefaults()
	req := cohereRequest{
		Model:       c.desc.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
	}
	if params.JSON {
		req.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	var out cohereResponse
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}
	if err := postJSON(ctx, c.http, c.desc.Name, c.baseURL+"/v2/chat", headers, req, &out); err != nil {
		return Response{}, err
	}

	var parts []string
	for _, block := range out.Message.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	text := strings.Join(parts, "")
	if strings.TrimSpace(text) == "" {
		return Response{}, &MalformedResponseError{Provider: c.desc.Name, Message: "no text content in response"}
	}
	return Response{
		Text:       text,
		Model:      c.desc.Model,
		TokensUsed: int(out.Usage.Tokens.InputTokens + out.Usage.Tokens.OutputTokens),
	}, nil
}

// Close is a no-op
func (c *CohereClient) Close() error {
	return nil
}
