// Package llm wraps the generative-text providers used to read checkpoint headlines.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotConfigured is returned by New when no provider was selected or a key is missing.
var ErrNotConfigured = errors.New("llm provider not configured")

// Generator turns a prompt into text.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Settings selects and configures a provider.
type Settings struct {
	Provider  string
	Model     string
	APIKey    string
	BaseURL   string
	MaxTokens int
}

const defaultMaxTokens = 1024

// New builds the generator named by s.Provider: openai, anthropic, google or compatible.
func New(ctx context.Context, s Settings) (Generator, error) {
	provider := strings.ToLower(strings.TrimSpace(s.Provider))
	if provider == "" || provider == "none" {
		return nil, ErrNotConfigured
	}
	if s.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", provider, ErrNotConfigured)
	}
	if s.MaxTokens <= 0 {
		s.MaxTokens = defaultMaxTokens
	}

	switch provider {
	case "openai":
		return NewOpenAI(s), nil
	case "anthropic":
		return NewAnthropic(s), nil
	case "google", "gemini":
		return NewGoogle(ctx, s)
	case "compatible", "deepseek":
		return NewCompatible(s), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", s.Provider)
	}
}

type timeoutGenerator struct {
	next    Generator
	timeout time.Duration
}

// WithTimeout bounds every Generate call on next. A non-positive timeout returns next unchanged.
func WithTimeout(next Generator, timeout time.Duration) Generator {
	if timeout <= 0 {
		return next
	}
	return &timeoutGenerator{next: next, timeout: timeout}
}

func (g *timeoutGenerator) Name() string { return g.next.Name() }

func (g *timeoutGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return g.next.Generate(ctx, prompt)
}
