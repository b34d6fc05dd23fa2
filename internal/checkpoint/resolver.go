package checkpoint

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/DeafMist/flight-risk-radar/backend/internal/airports"
	"github.com/DeafMist/flight-risk-radar/backend/internal/intel"
	"github.com/DeafMist/flight-risk-radar/backend/internal/logger"
	"github.com/DeafMist/flight-risk-radar/backend/internal/models"
	"github.com/DeafMist/flight-risk-radar/backend/internal/processing"
)

// DefaultPrimaryTimeout bounds the telemetry fetch regardless of the caller's deadline.
const DefaultPrimaryTimeout = 5 * time.Second

const searchLimit = 10

// WaitFetcher returns checkpoint telemetry for an airport.
type WaitFetcher interface {
	CheckpointWaits(ctx context.Context, iata string) ([]models.CheckpointWaitRecord, error)
}

// HeadlineSearcher runs a free-text headline search.
type HeadlineSearcher interface {
	SearchHeadlines(ctx context.Context, query string, limit int) ([]models.NewsHeadline, error)
}

// AirportDirectory resolves airport names for name-keyed queries.
type AirportDirectory interface {
	Lookup(iata string) (airports.Airport, bool)
}

// Resolver runs the primary-then-fallback state machine.
type Resolver struct {
	waits     WaitFetcher
	search    HeadlineSearcher
	dir       AirportDirectory
	extractor *intel.Extractor
	timeout   time.Duration
	log       *slog.Logger
}

// NewResolver wires a resolver. Any collaborator except extractor may be nil.
func NewResolver(waits WaitFetcher, search HeadlineSearcher, dir AirportDirectory, extractor *intel.Extractor, timeout time.Duration, log *slog.Logger) *Resolver {
	if timeout <= 0 {
		timeout = DefaultPrimaryTimeout
	}
	if log == nil {
		log = logger.Discard()
	}
	if extractor == nil {
		extractor = intel.NewExtractor(nil, log)
	}
	return &Resolver{
		waits:     waits,
		search:    search,
		dir:       dir,
		extractor: extractor,
		timeout:   timeout,
		log:       log,
	}
}

// Resolve never fails; upstream errors move it toward Fallback or Unavailable.
func (r *Resolver) Resolve(ctx context.Context, iata string) Resolution {
	records, err := r.fetchPrimary(ctx, iata)
	if err != nil {
		r.log.Warn("checkpoint telemetry failed", slog.String("iata", iata), slog.Any("err", err))
	}
	if len(records) > 0 {
		return Primary{Records: records}
	}

	headlines := r.searchFallback(ctx, iata)
	if len(headlines) == 0 {
		return Unavailable{}
	}

	name := iata
	if a, ok := r.lookup(iata); ok {
		name = fmt.Sprintf("%s (%s)", a.Name, iata)
	}
	return Fallback{
		Estimate:  r.extractor.Extract(ctx, name, headlines),
		Headlines: headlines,
	}
}

type primaryResult struct {
	records []models.CheckpointWaitRecord
	err     error
}

// fetchPrimary returns when the fetcher does or the timeout fires, whichever is first.
func (r *Resolver) fetchPrimary(ctx context.Context, iata string) ([]models.CheckpointWaitRecord, error) {
	if r.waits == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	done := make(chan primaryResult, 1)
	go func() {
		records, err := r.waits.CheckpointWaits(ctx, iata)
		done <- primaryResult{records: records, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("fetch checkpoint waits: %w", res.err)
		}
		return res.records, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("fetch checkpoint waits: %w", ctx.Err())
	}
}

// Queries lists the fallback search variants for an airport.
func (r *Resolver) Queries(iata string) []string {
	queries := []string{
		iata + " TSA wait times",
		iata + " airport security lines",
	}
	if a, ok := r.lookup(iata); ok && a.Name != "" {
		queries = append(queries,
			a.Name+" TSA",
			a.Name+" security checkpoint",
		)
	}
	return queries
}

func (r *Resolver) searchFallback(ctx context.Context, iata string) []models.NewsHeadline {
	if r.search == nil {
		return nil
	}

	var all []models.NewsHeadline
	for _, q := range r.Queries(iata) {
		hits, err := r.search.SearchHeadlines(ctx, q, searchLimit)
		if err != nil {
			r.log.Warn("checkpoint headline search failed", slog.String("query", q), slog.Any("err", err))
			continue
		}
		all = append(all, hits...)
	}
	return processing.DedupeHeadlines(all)
}

func (r *Resolver) lookup(iata string) (airports.Airport, bool) {
	if r.dir == nil {
		return airports.Airport{}, false
	}
	return r.dir.Lookup(iata)
}
