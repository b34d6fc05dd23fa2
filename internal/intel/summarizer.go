package intel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/DeafMist/flight-risk-radar/backend/internal/llm"
	"github.com/DeafMist/flight-risk-radar/backend/internal/models"
)

// ErrNoJSON is returned when a reply carries no JSON object.
var ErrNoJSON = errors.New("reply contains no json object")

// maxPromptHeadlines bounds the prompt size.
const maxPromptHeadlines = 12

// LLMSummarizer asks a generator for a JSON estimate.
type LLMSummarizer struct {
	gen llm.Generator
}

// NewLLMSummarizer wraps gen.
func NewLLMSummarizer(gen llm.Generator) *LLMSummarizer {
	return &LLMSummarizer{gen: gen}
}

type llmReply struct {
	Score      *float64 `json:"score"`
	Issues     []string `json:"issues"`
	WaitBucket string   `json:"waitBucket"`
	Advisory   string   `json:"advisory"`
	Confidence string   `json:"confidence"`
}

// SummarizeHeadlines implements Summarizer.
func (s *LLMSummarizer) SummarizeHeadlines(ctx context.Context, airport string, headlines []models.NewsHeadline) (models.SecurityIntelligenceEstimate, error) {
	out, err := s.gen.Generate(ctx, BuildPrompt(airport, headlines))
	if err != nil {
		return models.SecurityIntelligenceEstimate{}, fmt.Errorf("generate estimate: %w", err)
	}
	return ParseEstimate(out)
}

// BuildPrompt renders the rubric and the headlines.
func BuildPrompt(airport string, headlines []models.NewsHeadline) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You assess airport security checkpoint conditions at %s from news headlines.\n\n", airport)
	b.WriteString("Headlines:\n")
	for i, h := range headlines {
		if i == maxPromptHeadlines {
			break
		}
		date := "undated"
		if !h.Published.IsZero() {
			date = h.Published.UTC().Format("2006-01-02")
		}
		fmt.Fprintf(&b, "- [%s] %s", date, strings.TrimSpace(h.Title))
		if h.Source != "" {
			fmt.Fprintf(&b, " (%s)", h.Source)
		}
		b.WriteString("\n")
	}
	b.WriteString(`
Score the risk that checkpoint delays cause a missed flight:
0.0-0.2 none, 0.2-0.4 minor, 0.4-0.6 moderate, 0.6-0.8 significant, 0.8-1.0 severe.
Confidence: low = generic or irrelevant headlines, medium = airport mentioned but non-specific,
high = specific and recent.

Reply with a single JSON object and nothing else:
{"score": number, "issues": [string], "waitBucket": "unknown|low|moderate|high|severe",
 "advisory": string, "confidence": "low|medium|high"}
`)
	return b.String()
}

// ParseEstimate extracts and normalizes the JSON object in a reply.
func ParseEstimate(reply string) (models.SecurityIntelligenceEstimate, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return models.SecurityIntelligenceEstimate{}, ErrNoJSON
	}

	var r llmReply
	if err := json.Unmarshal([]byte(reply[start:end+1]), &r); err != nil {
		return models.SecurityIntelligenceEstimate{}, fmt.Errorf("decode estimate: %w", err)
	}

	score := NeutralScore
	if r.Score != nil && !math.IsNaN(*r.Score) && *r.Score >= 0 && *r.Score <= 1 {
		score = *r.Score
	}

	issues := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		if s := strings.TrimSpace(issue); s != "" {
			issues = append(issues, s)
		}
	}

	return models.SecurityIntelligenceEstimate{
		Score:      score,
		Issues:     issues,
		WaitBucket: normalizeBucket(r.WaitBucket),
		Advisory:   strings.TrimSpace(r.Advisory),
		Confidence: normalizeConfidence(r.Confidence),
		Method:     MethodLLM,
	}, nil
}

func normalizeBucket(raw string) models.WaitBucket {
	switch b := models.WaitBucket(strings.ToLower(strings.TrimSpace(raw))); b {
	case models.WaitLow, models.WaitModerate, models.WaitHigh, models.WaitSevere:
		return b
	default:
		return models.WaitUnknown
	}
}

func normalizeConfidence(raw string) models.Confidence {
	switch c := models.Confidence(strings.ToLower(strings.TrimSpace(raw))); c {
	case models.ConfidenceMedium, models.ConfidenceHigh:
		return c
	default:
		return models.ConfidenceLow
	}
}
