// Package app wires configured providers into a brief service. The API and the CLI share it.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/DeafMist/flight-risk-radar/backend/internal/airports"
	"github.com/DeafMist/flight-risk-radar/backend/internal/brief"
	"github.com/DeafMist/flight-risk-radar/backend/internal/checkpoint"
	"github.com/DeafMist/flight-risk-radar/backend/internal/config"
	"github.com/DeafMist/flight-risk-radar/backend/internal/intel"
	"github.com/DeafMist/flight-risk-radar/backend/internal/llm"
	"github.com/DeafMist/flight-risk-radar/backend/internal/logger"
	"github.com/DeafMist/flight-risk-radar/backend/internal/providers"
	"github.com/DeafMist/flight-risk-radar/backend/internal/risk"
)

// HeadlineIndex is the Elasticsearch-backed searcher used when HEADLINE_SOURCE=elasticsearch.
type HeadlineIndex interface {
	checkpoint.HeadlineSearcher
}

// App holds the wired service and the directory it was built with.
type App struct {
	Service  *brief.Service
	Airports *airports.Directory
	// LLM names the generator behind the checkpoint fallback, or "keywords" when none is configured.
	LLM string
	// Profile names the risk calibration the aggregator runs with.
	Profile string
}

// Build constructs the brief service from cfg. index may be nil unless cfg selects it.
func Build(ctx context.Context, cfg *config.Providers, index HeadlineIndex, log *slog.Logger) (*App, error) {
	if log == nil {
		log = logger.Discard()
	}

	dir, err := airports.Default()
	if err != nil {
		return nil, fmt.Errorf("load airports: %w", err)
	}

	profile, err := risk.ProfileByName(cfg.RiskProfile)
	if err != nil {
		return nil, err
	}

	httpClient := providers.NewHTTPClient(cfg.HTTPTimeout, cfg.HTTPRetries)

	var ops brief.OperationsFetcher
	if cfg.FlightStatusKey != "" {
		ops = providers.NewFlightStatusClient(httpClient, cfg.FlightStatusURL, cfg.FlightStatusKey)
	} else {
		log.Warn("FLIGHT_STATUS_KEY not set, operations will score as not found")
	}

	var waits checkpoint.WaitFetcher
	if cfg.CheckpointURL != "" {
		waits = providers.NewCachedWaits(
			providers.NewCheckpointWaitClient(httpClient, cfg.CheckpointURL, cfg.CheckpointKey),
			cfg.CheckpointWaitsTTL,
		)
	} else {
		log.Info("CHECKPOINT_URL not set, checkpoint waits come from headlines only")
	}

	var search checkpoint.HeadlineSearcher
	switch cfg.HeadlineSource {
	case "elasticsearch":
		if index == nil {
			return nil, errors.New("HEADLINE_SOURCE=elasticsearch requires an elasticsearch client")
		}
		search = index
	default:
		search = providers.NewNewsSearchClient(httpClient, cfg.NewsURL, cfg.NewsRecency)
	}
	search = providers.NewCachedSearch(search, cfg.HeadlineSearchTTL)

	summarizer, name, err := buildSummarizer(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}

	resolver := checkpoint.NewResolver(
		waits,
		search,
		dir,
		intel.NewExtractor(summarizer, log),
		cfg.CheckpointPrimaryTimeout,
		log,
	)

	agg := risk.NewAggregator(profile)
	svc := brief.NewService(
		ops,
		providers.NewWeatherClient(httpClient, cfg.WeatherURL, dir),
		resolver,
		search,
		agg,
		brief.WithLogger(log),
	)

	active := agg.Profile()
	log.Info("brief service ready",
		slog.String("profile", active.Name),
		slog.Float64("yellow_at", active.GreenBelow),
		slog.Float64("red_at", active.YellowBelow),
		slog.String("headlines", cfg.HeadlineSource),
		slog.String("llm", name),
	)
	return &App{Service: svc, Airports: dir, LLM: name, Profile: active.Name}, nil
}

func buildSummarizer(ctx context.Context, cfg config.LLM) (intel.Summarizer, string, error) {
	gen, err := llm.New(ctx, llm.Settings{
		Provider:  cfg.Provider,
		Model:     cfg.Model,
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		MaxTokens: cfg.MaxTokens,
	})
	if errors.Is(err, llm.ErrNotConfigured) {
		return nil, intel.MethodKeywords, nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("init llm: %w", err)
	}
	return intel.NewLLMSummarizer(llm.WithTimeout(gen, cfg.Timeout)), gen.Name(), nil
}
