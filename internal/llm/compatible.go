package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const defaultCompatibleBaseURL = "https://api.deepseek.com/v1"

// Compatible talks to any OpenAI-compatible chat endpoint, DeepSeek by default.
type Compatible struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewCompatible creates a generator for an OpenAI-compatible endpoint.
func NewCompatible(s Settings) *Compatible {
	cfg := openai.DefaultConfig(s.APIKey)
	cfg.BaseURL = s.BaseURL
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultCompatibleBaseURL
	}
	model := s.Model
	if model == "" {
		model = "deepseek-chat"
	}
	return &Compatible{client: openai.NewClientWithConfig(cfg), model: model, maxTokens: s.MaxTokens}
}

// Name returns the provider identifier.
func (g *Compatible) Name() string {
	return "compatible"
}

// Generate sends the prompt at a low temperature.
func (g *Compatible) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   g.maxTokens,
		Temperature: 0.1,
	})
	if err != nil {
		return "", fmt.Errorf("compatible completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("compatible endpoint returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
