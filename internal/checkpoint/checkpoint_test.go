package checkpoint_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DeafMist/flight-risk-radar/backend/internal/airports"
	"github.com/DeafMist/flight-risk-radar/backend/internal/checkpoint"
	"github.com/DeafMist/flight-risk-radar/backend/internal/intel"
	"github.com/DeafMist/flight-risk-radar/backend/internal/models"
)

type stubWaits struct {
	records []models.CheckpointWaitRecord
	err     error
	block   chan struct{}
}

func (s *stubWaits) CheckpointWaits(_ context.Context, _ string) ([]models.CheckpointWaitRecord, error) {
	if s.block != nil {
		// Ignores the context on purpose.
		<-s.block
	}
	return s.records, s.err
}

type stubSearch struct {
	mu      sync.Mutex
	queries []string
	hits    map[string][]models.NewsHeadline
	err     error
}

func (s *stubSearch) SearchHeadlines(_ context.Context, query string, _ int) ([]models.NewsHeadline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	return s.hits[query], nil
}

type stubSummarizer struct{ calls int }

func (s *stubSummarizer) SummarizeHeadlines(_ context.Context, _ string, _ []models.NewsHeadline) (models.SecurityIntelligenceEstimate, error) {
	s.calls++
	return models.SecurityIntelligenceEstimate{}, errors.New("offline")
}

func directory(t *testing.T) *airports.Directory {
	t.Helper()
	dir, err := airports.Default()
	require.NoError(t, err)
	return dir
}

func records(waits ...float64) []models.CheckpointWaitRecord {
	base := time.Date(2025, 10, 3, 12, 0, 0, 0, time.UTC)
	out := make([]models.CheckpointWaitRecord, 0, len(waits))
	for i, w := range waits {
		out = append(out, models.CheckpointWaitRecord{Timestamp: base.Add(-time.Duration(i) * 10 * time.Minute), WaitMinutes: w})
	}
	return out
}

func TestResolvePrimary(t *testing.T) {
	search := &stubSearch{}
	r := checkpoint.NewResolver(&stubWaits{records: records(12, 18)}, search, directory(t), nil, time.Second, nil)

	res := r.Resolve(context.Background(), "JFK")
	require.Equal(t, checkpoint.ProvenancePrimary, res.Provenance())
	require.Len(t, res.(checkpoint.Primary).Records, 2)
	require.Empty(t, search.queries)
}

func TestResolveFallbackOnTimeout(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	search := &stubSearch{hits: map[string][]models.NewsHeadline{
		"JFK TSA wait times": {{Title: "JFK security lines stretch for hours - NY Post"}},
	}}
	r := checkpoint.NewResolver(&stubWaits{block: block}, search, directory(t), nil, 20*time.Millisecond, nil)

	start := time.Now()
	res := r.Resolve(context.Background(), "JFK")
	require.Less(t, time.Since(start), time.Second)
	require.Equal(t, checkpoint.ProvenanceFallback, res.Provenance())
}

func TestResolveFallbackOnError(t *testing.T) {
	search := &stubSearch{hits: map[string][]models.NewsHeadline{
		"JFK TSA wait times":                                      {{Title: "JFK TSA staffing shortage - AP"}},
		"JFK airport security lines":                              {{Title: "JFK TSA staffing shortage - Reuters"}},
		"John F. Kennedy International Airport security checkpoint": {{Title: "Federal shutdown slows screening at JFK"}},
	}}
	r := checkpoint.NewResolver(&stubWaits{err: errors.New("503")}, search, directory(t), nil, time.Second, nil)

	res := r.Resolve(context.Background(), "JFK")
	fb, ok := res.(checkpoint.Fallback)
	require.True(t, ok)
	require.Len(t, fb.Headlines, 2)
	require.Equal(t, intel.MethodKeywords, fb.Estimate.Method)
	require.Equal(t, models.ConfidenceMedium, fb.Estimate.Confidence)
	require.Len(t, search.queries, 4)
}

func TestResolveFallbackOnEmptyTelemetry(t *testing.T) {
	summarizer := &stubSummarizer{}
	search := &stubSearch{hits: map[string][]models.NewsHeadline{
		"LAX TSA wait times": {{Title: "LAX lines long"}},
	}}
	r := checkpoint.NewResolver(&stubWaits{}, search, directory(t), intel.NewExtractor(summarizer, nil), time.Second, nil)

	res := r.Resolve(context.Background(), "LAX")
	require.Equal(t, checkpoint.ProvenanceFallback, res.Provenance())
	require.Equal(t, 1, summarizer.calls)
}

func TestResolveUnavailable(t *testing.T) {
	tests := []struct {
		name   string
		search checkpoint.HeadlineSearcher
	}{
		{name: "no hits", search: &stubSearch{}},
		{name: "search errors", search: &stubSearch{err: errors.New("rss down")}},
		{name: "no searcher", search: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := checkpoint.NewResolver(&stubWaits{err: errors.New("down")}, tt.search, nil, nil, time.Second, nil)
			res := r.Resolve(context.Background(), "ZZZ")
			require.Equal(t, checkpoint.ProvenanceUnavailable, res.Provenance())
		})
	}
}

func TestQueries(t *testing.T) {
	r := checkpoint.NewResolver(nil, nil, directory(t), nil, 0, nil)
	require.Equal(t, []string{
		"SFO TSA wait times",
		"SFO airport security lines",
		"San Francisco International Airport TSA",
		"San Francisco International Airport security checkpoint",
	}, r.Queries("SFO"))

	require.Len(t, r.Queries("ZZZ"), 2)
}

func TestScoreNamesProvenance(t *testing.T) {
	primary := checkpoint.Score(checkpoint.Primary{Records: records(40, 40)}, 120)
	require.True(t, strings.HasPrefix(primary.Explanation, "primary telemetry:"))
	require.Equal(t, 0.50, primary.Score)

	fallback := checkpoint.Score(checkpoint.Fallback{
		Estimate:  models.SecurityIntelligenceEstimate{Score: 0.45, WaitBucket: models.WaitModerate, Confidence: models.ConfidenceMedium, Method: intel.MethodKeywords},
		Headlines: []models.NewsHeadline{{Title: "a"}, {Title: "b"}},
	}, 120)
	require.Contains(t, fallback.Explanation, "fallback from 2 headlines")
	require.Equal(t, 0.45, fallback.Score)

	missing := checkpoint.Score(checkpoint.Unavailable{}, 120)
	require.True(t, strings.HasPrefix(missing.Explanation, "unavailable:"))
	require.Equal(t, 0.15, missing.Score)
}

func TestScaleWaits(t *testing.T) {
	res := checkpoint.ScaleWaits(checkpoint.Primary{Records: records(40, 60)}, 0.5)
	p := res.(checkpoint.Primary)
	require.Equal(t, 20.0, p.Records[0].WaitMinutes)
	require.Equal(t, 30.0, p.Records[1].WaitMinutes)

	require.Equal(t, checkpoint.Unavailable{}, checkpoint.ScaleWaits(checkpoint.Unavailable{}, 0.5))
}
