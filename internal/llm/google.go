package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Google calls the Gemini API.
type Google struct {
	client    *genai.Client
	model     string
	maxTokens int
}

// NewGoogle creates a Gemini generator.
func NewGoogle(ctx context.Context, s Settings) (*Google, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  s.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create google client: %w", err)
	}
	model := s.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &Google{client: client, model: model, maxTokens: s.MaxTokens}, nil
}

// Name returns the provider identifier.
func (g *Google) Name() string {
	return "google"
}

// Generate sends the prompt and joins the text parts of the first candidate.
func (g *Google) Generate(ctx context.Context, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{MaxOutputTokens: int32(g.maxTokens)}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("google generate: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("google returned no candidates")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			b.WriteString(part.Text)
		}
	}
	return b.String(), nil
}
