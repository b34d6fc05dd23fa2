package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Providers configures the upstream collaborators of the brief service.
type Providers struct {
	FlightStatusURL string `env:"FLIGHT_STATUS_URL,default=https://api.aviationstack.com/v1"`
	FlightStatusKey string `env:"FLIGHT_STATUS_KEY"`

	WeatherURL string `env:"WEATHER_URL,default=https://api.open-meteo.com"`

	CheckpointURL string `env:"CHECKPOINT_URL"`
	CheckpointKey string `env:"CHECKPOINT_KEY"`

	NewsURL     string `env:"NEWS_URL,default=https://news.google.com"`
	NewsRecency string `env:"NEWS_RECENCY,default=3d"`

	// HeadlineSource selects the fallback searcher: rss or elasticsearch.
	HeadlineSource string `env:"HEADLINE_SOURCE,default=rss"`

	HTTPTimeout time.Duration `env:"PROVIDER_HTTP_TIMEOUT,default=8s"`
	HTTPRetries int           `env:"PROVIDER_HTTP_RETRIES,default=2"`

	CheckpointPrimaryTimeout time.Duration `env:"CHECKPOINT_PRIMARY_TIMEOUT,default=5s"`
	CheckpointWaitsTTL       time.Duration `env:"CHECKPOINT_WAITS_TTL,default=10m"`
	HeadlineSearchTTL        time.Duration `env:"HEADLINE_SEARCH_TTL,default=3m"`

	RiskProfile string `env:"RISK_PROFILE,default=operational"`

	LLM LLM `env:",prefix=LLM_"`
}

// LLM selects the generative-text provider used by the checkpoint fallback.
type LLM struct {
	Provider  string        `env:"PROVIDER,default=none"`
	Model     string        `env:"MODEL"`
	APIKey    string        `env:"API_KEY"`
	BaseURL   string        `env:"BASE_URL"`
	MaxTokens int           `env:"MAX_TOKENS,default=1024"`
	Timeout   time.Duration `env:"TIMEOUT,default=12s"`
}

// LoadProviders reads provider settings from the environment.
func LoadProviders(ctx context.Context) (*Providers, error) {
	var c Providers
	if err := envconfig.Process(ctx, &c); err != nil {
		return nil, fmt.Errorf("process provider config: %w", err)
	}
	return validateProviders(&c)
}

// LoadProvidersFrom is LoadProviders with an explicit lookuper, for tests and the CLI.
func LoadProvidersFrom(ctx context.Context, l envconfig.Lookuper) (*Providers, error) {
	var c Providers
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &c, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("process provider config: %w", err)
	}
	return validateProviders(&c)
}

func validateProviders(c *Providers) (*Providers, error) {
	c.HeadlineSource = strings.ToLower(strings.TrimSpace(c.HeadlineSource))
	switch c.HeadlineSource {
	case "rss", "elasticsearch":
	default:
		return nil, fmt.Errorf("HEADLINE_SOURCE must be rss or elasticsearch, got %q", c.HeadlineSource)
	}
	if c.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("PROVIDER_HTTP_TIMEOUT must be positive")
	}
	if c.HTTPRetries < 0 {
		return nil, fmt.Errorf("PROVIDER_HTTP_RETRIES cannot be negative")
	}
	if c.CheckpointPrimaryTimeout <= 0 {
		return nil, fmt.Errorf("CHECKPOINT_PRIMARY_TIMEOUT must be positive")
	}
	if c.HeadlineSearchTTL > c.CheckpointWaitsTTL {
		return nil, fmt.Errorf("HEADLINE_SEARCH_TTL cannot exceed CHECKPOINT_WAITS_TTL")
	}
	if c.LLM.MaxTokens <= 0 {
		return nil, fmt.Errorf("LLM_MAX_TOKENS must be positive")
	}
	return c, nil
}
