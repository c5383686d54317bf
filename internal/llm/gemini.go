package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/jonathan/docsynth/internal/types"
)

// GeminiClient implements Provider for Google Gemini through the official SDK
type GeminiClient struct {
	client *genai.Client
	desc   types.ProviderDescriptor
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, desc types.ProviderDescriptor, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{client: client, desc: desc}, nil
}

// Descriptor returns the provider descriptor
func (c *GeminiClient) Descriptor() types.ProviderDescriptor {
	return c.desc
}

// Generate generates text content with the configured model
func (c *GeminiClient) Generate(ctx context.Context, prompt string, params Params) (Response, error) {
	if c.desc.Model == "" {
		return Response{}, fmt.Errorf("no model configured for %s", c.desc.Name)
	}
	params = params.WithDefaults()

	model := c.client.GenerativeModel(c.desc.Model)
	model.SetTemperature(float32(params.Temperature))
	model.SetMaxOutputTokens(int32(params.MaxTokens))
	if params.JSON {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return Response{}, fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return Response{}, &MalformedResponseError{Provider: c.desc.Name, Message: err.Error()}
	}

	out := Response{Text: text, Model: c.desc.Model}
	if resp.UsageMetadata != nil {
		out.TokensUsed = int(resp.UsageMetadata.TotalTokenCount)
	}
	return out, nil
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
