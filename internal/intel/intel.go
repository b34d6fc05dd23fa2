// Package intel reads checkpoint-related headlines into a SecurityIntelligenceEstimate.
package intel

import (
	"context"
	"log/slog"

	"github.com/DeafMist/flight-risk-radar/backend/internal/logger"
	"github.com/DeafMist/flight-risk-radar/backend/internal/models"
)

// NeutralScore is used when there is nothing to read or a reading is unusable.
const NeutralScore = 0.15

const (
	MethodLLM      = "llm"
	MethodKeywords = "keywords"
	MethodDefault  = "default"
)

// Summarizer turns headlines into a structured estimate.
type Summarizer interface {
	SummarizeHeadlines(ctx context.Context, airport string, headlines []models.NewsHeadline) (models.SecurityIntelligenceEstimate, error)
}

// Extractor prefers the summarizer and falls back to keyword matching.
type Extractor struct {
	summarizer Summarizer
	log        *slog.Logger
}

// NewExtractor creates an extractor. A nil summarizer means keywords only.
func NewExtractor(summarizer Summarizer, log *slog.Logger) *Extractor {
	if log == nil {
		log = logger.Discard()
	}
	return &Extractor{summarizer: summarizer, log: log}
}

// DefaultEstimate is returned when there are no headlines at all.
func DefaultEstimate() models.SecurityIntelligenceEstimate {
	return models.SecurityIntelligenceEstimate{
		Score:      NeutralScore,
		Issues:     []string{},
		WaitBucket: models.WaitUnknown,
		Advisory:   "No recent checkpoint news; allow the usual screening time.",
		Confidence: models.ConfidenceLow,
		Method:     MethodDefault,
	}
}

// Extract never fails; summarizer errors degrade to KeywordEstimate.
func (e *Extractor) Extract(ctx context.Context, airport string, headlines []models.NewsHeadline) models.SecurityIntelligenceEstimate {
	if len(headlines) == 0 {
		return DefaultEstimate()
	}
	if e.summarizer == nil {
		return KeywordEstimate(headlines)
	}

	est, err := e.summarizer.SummarizeHeadlines(ctx, airport, headlines)
	if err != nil {
		e.log.Warn("summarize headlines failed, using keywords",
			slog.String("airport", airport),
			slog.Int("headlines", len(headlines)),
			slog.Any("err", err),
		)
		return KeywordEstimate(headlines)
	}
	return est
}
