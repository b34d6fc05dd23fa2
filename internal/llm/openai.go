package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAI calls the chat completions API.
type OpenAI struct {
	client    openai.Client
	model     string
	maxTokens int
}

// NewOpenAI creates an OpenAI generator.
func NewOpenAI(s Settings) *OpenAI {
	opts := []option.RequestOption{option.WithAPIKey(s.APIKey)}
	if s.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(s.BaseURL))
	}
	model := s.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAI{client: openai.NewClient(opts...), model: model, maxTokens: s.MaxTokens}
}

// Name returns the provider identifier.
func (g *OpenAI) Name() string {
	return "openai"
}

// Generate sends the prompt as a single user message.
func (g *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxCompletionTokens: openai.Int(int64(g.maxTokens)),
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
