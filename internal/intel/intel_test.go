package intel_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DeafMist/flight-risk-radar/backend/internal/intel"
	"github.com/DeafMist/flight-risk-radar/backend/internal/models"
)

type stubSummarizer struct {
	calls int
	est   models.SecurityIntelligenceEstimate
	err   error
}

func (s *stubSummarizer) SummarizeHeadlines(_ context.Context, _ string, _ []models.NewsHeadline) (models.SecurityIntelligenceEstimate, error) {
	s.calls++
	return s.est, s.err
}

type stubGenerator struct {
	reply  string
	err    error
	prompt string
}

func (g *stubGenerator) Name() string { return "stub" }

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompt = prompt
	return g.reply, g.err
}

func headlines(titles ...string) []models.NewsHeadline {
	out := make([]models.NewsHeadline, 0, len(titles))
	for _, t := range titles {
		out = append(out, models.NewsHeadline{Title: t, Source: "example.com"})
	}
	return out
}

func TestExtractNoHeadlinesSkipsSummarizer(t *testing.T) {
	stub := &stubSummarizer{}
	est := intel.NewExtractor(stub, nil).Extract(context.Background(), "JFK", nil)

	require.Equal(t, 0, stub.calls)
	require.Equal(t, intel.NeutralScore, est.Score)
	require.Equal(t, models.ConfidenceLow, est.Confidence)
	require.Empty(t, est.Issues)
	require.Equal(t, intel.MethodDefault, est.Method)
}

func TestExtractUsesSummarizer(t *testing.T) {
	stub := &stubSummarizer{est: models.SecurityIntelligenceEstimate{
		Score:      0.62,
		WaitBucket: models.WaitHigh,
		Confidence: models.ConfidenceHigh,
		Method:     intel.MethodLLM,
	}}
	est := intel.NewExtractor(stub, nil).Extract(context.Background(), "JFK", headlines("JFK lines long"))

	require.Equal(t, 1, stub.calls)
	require.Equal(t, 0.62, est.Score)
	require.Equal(t, intel.MethodLLM, est.Method)
}

func TestExtractFallsBackToKeywords(t *testing.T) {
	stub := &stubSummarizer{err: errors.New("unreachable")}
	est := intel.NewExtractor(stub, nil).Extract(context.Background(), "ATL",
		headlines("TSA officers walk off job in strike at ATL"))

	require.Equal(t, 1, stub.calls)
	require.Equal(t, intel.MethodKeywords, est.Method)
	require.GreaterOrEqual(t, est.Score, 0.70)
	require.Equal(t, models.ConfidenceMedium, est.Confidence)
}

func TestKeywordEstimate(t *testing.T) {
	tests := []struct {
		name       string
		titles     []string
		minScore   float64
		bucket     models.WaitBucket
		confidence models.Confidence
	}{
		{name: "closure", titles: []string{"Terminal 4 evacuated after alarm"}, minScore: 0.85, bucket: models.WaitSevere, confidence: models.ConfidenceMedium},
		{name: "security incident", titles: []string{"Suspicious package prompts checkpoint halt"}, minScore: 0.80, bucket: models.WaitSevere, confidence: models.ConfidenceMedium},
		{name: "protest", titles: []string{"Protest outside departures hall"}, minScore: 0.70, bucket: models.WaitHigh, confidence: models.ConfidenceMedium},
		{name: "outage", titles: []string{"Screening outage slows travelers"}, minScore: 0.65, bucket: models.WaitHigh, confidence: models.ConfidenceMedium},
		{name: "long waits", titles: []string{"Travelers report long lines at security"}, minScore: 0.50, bucket: models.WaitModerate, confidence: models.ConfidenceMedium},
		{name: "staffing", titles: []string{"Federal shutdown strains TSA staffing"}, minScore: 0.45, bucket: models.WaitModerate, confidence: models.ConfidenceMedium},
		{name: "nothing relevant", titles: []string{"New lounge opens in concourse B"}, minScore: 0.15, bucket: models.WaitUnknown, confidence: models.ConfidenceLow},
		{name: "closed inside another word", titles: []string{"TSA disclosed new liquids policy at JFK"}, minScore: 0.15, bucket: models.WaitUnknown, confidence: models.ConfidenceLow},
		{name: "enclosed", titles: []string{"Enclosed walkway to Terminal B reopens"}, minScore: 0.15, bucket: models.WaitUnknown, confidence: models.ConfidenceLow},
		{name: "sick-outs end", titles: []string{"Sick-outs end as screeners sign contract"}, minScore: 0.15, bucket: models.WaitUnknown, confidence: models.ConfidenceLow},
		{name: "lightning strike", titles: []string{"Lightning strike damages jet bridge at Denver"}, minScore: 0.15, bucket: models.WaitUnknown, confidence: models.ConfidenceLow},
		{name: "inflected closure", titles: []string{"Checkpoint closures ordered at Terminal 2"}, minScore: 0.85, bucket: models.WaitSevere, confidence: models.ConfidenceMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est := intel.KeywordEstimate(headlines(tt.titles...))
			require.GreaterOrEqual(t, est.Score, tt.minScore)
			require.LessOrEqual(t, est.Score, 1.0)
			require.Equal(t, tt.bucket, est.WaitBucket)
			require.Equal(t, tt.confidence, est.Confidence)
		})
	}
}

func TestKeywordEstimateCombinesByMaximum(t *testing.T) {
	est := intel.KeywordEstimate(headlines(
		"Staffing shortage at checkpoint",
		"Bomb threat clears concourse",
	))
	require.Equal(t, 0.80, est.Score)
	require.Equal(t, []string{"security incident", "staffing"}, est.Issues)
}

func TestKeywordEstimateIgnoresPartialWords(t *testing.T) {
	est := intel.KeywordEstimate(headlines("TSA disclosed new liquids policy at JFK"))
	require.Equal(t, intel.NeutralScore, est.Score)
	require.Empty(t, est.Issues)
	require.Equal(t, intel.MethodKeywords, est.Method)
}

func TestLLMSummarizerParsesReply(t *testing.T) {
	gen := &stubGenerator{reply: "Here you go:\n```json\n{\"score\": 0.55, \"issues\": [\"staffing\", \" \"], \"waitBucket\": \"Moderate\", \"advisory\": \"Arrive early\", \"confidence\": \"medium\"}\n```"}
	s := intel.NewLLMSummarizer(gen)

	published := time.Date(2025, 10, 3, 12, 0, 0, 0, time.UTC)
	est, err := s.SummarizeHeadlines(context.Background(), "SFO", []models.NewsHeadline{
		{Title: "SFO checkpoint staffing thin", Published: published, Source: "sfgate.com"},
	})
	require.NoError(t, err)
	require.Equal(t, 0.55, est.Score)
	require.Equal(t, []string{"staffing"}, est.Issues)
	require.Equal(t, models.WaitModerate, est.WaitBucket)
	require.Equal(t, models.ConfidenceMedium, est.Confidence)
	require.Equal(t, intel.MethodLLM, est.Method)

	require.Contains(t, gen.prompt, "SFO")
	require.Contains(t, gen.prompt, "[2025-10-03] SFO checkpoint staffing thin (sfgate.com)")
	require.Contains(t, gen.prompt, "0.8-1.0 severe")
}

func TestParseEstimateNormalizes(t *testing.T) {
	tests := []struct {
		name       string
		reply      string
		score      float64
		bucket     models.WaitBucket
		confidence models.Confidence
	}{
		{name: "out of range", reply: `{"score": 7, "waitBucket": "high", "confidence": "high"}`, score: intel.NeutralScore, bucket: models.WaitHigh, confidence: models.ConfidenceHigh},
		{name: "negative", reply: `{"score": -0.2}`, score: intel.NeutralScore, bucket: models.WaitUnknown, confidence: models.ConfidenceLow},
		{name: "missing score", reply: `{"waitBucket": "enormous", "confidence": "certain"}`, score: intel.NeutralScore, bucket: models.WaitUnknown, confidence: models.ConfidenceLow},
		{name: "bounds kept", reply: `{"score": 1}`, score: 1, bucket: models.WaitUnknown, confidence: models.ConfidenceLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est, err := intel.ParseEstimate(tt.reply)
			require.NoError(t, err)
			require.Equal(t, tt.score, est.Score)
			require.Equal(t, tt.bucket, est.WaitBucket)
			require.Equal(t, tt.confidence, est.Confidence)
		})
	}
}

func TestParseEstimateMalformed(t *testing.T) {
	_, err := intel.ParseEstimate("no json here")
	require.ErrorIs(t, err, intel.ErrNoJSON)

	_, err = intel.ParseEstimate(`{"score": "high"`)
	require.ErrorIs(t, err, intel.ErrNoJSON)

	_, err = intel.ParseEstimate(`{"score": "high"}`)
	require.Error(t, err)
}

func TestExtractMalformedReplyFallsBack(t *testing.T) {
	gen := &stubGenerator{reply: "I cannot help with that."}
	ex := intel.NewExtractor(intel.NewLLMSummarizer(gen), nil)

	est := ex.Extract(context.Background(), "ORD", headlines("ORD security lines stretch past baggage claim"))
	require.Equal(t, intel.MethodKeywords, est.Method)
	require.True(t, strings.Contains(gen.prompt, "ORD"))
}
