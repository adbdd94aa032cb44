package completion

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient answers questions through the Google Gemini SDK.
type GeminiClient struct {
	client *genai.Client
}

var _ Completer = (*GeminiClient)(nil)

// NewGeminiClient creates a Gemini-backed Completer.
func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiClient{client: client}, nil
}

func (g *GeminiClient) Complete(ctx context.Context, req Request) (string, error) {
	m := g.client.GenerativeModel(req.Model)
	if req.MaxTokens > 0 {
		m.SetMaxOutputTokens(int32(req.MaxTokens))
	}

	var parts []genai.Part
	for _, p := range req.Parts {
		if p.Text != "" {
			parts = append(parts, genai.Text(p.Text))
		}
		if len(p.ImageData) > 0 {
			// genai wants the bare format, not a full MIME type.
			format := strings.TrimPrefix(p.ImageMIME, "image/")
			if format == "" {
				format = "jpeg"
			}
			parts = append(parts, genai.ImageData(format, p.ImageData))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("completion request has no content")
	}

	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("gemini generate content failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini response has no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("gemini response has no text parts")
	}
	return sb.String(), nil
}

// Close releases the underlying SDK client.
func (g *GeminiClient) Close() error {
	return g.client.Close()
}
