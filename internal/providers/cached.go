package providers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/DeafMist/flight-risk-radar/backend/internal/cache"
	"github.com/DeafMist/flight-risk-radar/backend/internal/models"
)

const (
	// DefaultWaitsTTL is the cache lifetime of averaged checkpoint telemetry.
	DefaultWaitsTTL = 10 * time.Minute
	// DefaultSearchTTL is shorter because the news corpus moves faster than telemetry.
	DefaultSearchTTL = 3 * time.Minute

	cacheCapacity = 512
)

type waitFetcher interface {
	CheckpointWaits(ctx context.Context, iata string) ([]models.CheckpointWaitRecord, error)
}

type headlineSearcher interface {
	SearchHeadlines(ctx context.Context, query string, limit int) ([]models.NewsHeadline, error)
}

// CachedWaits memoizes successful telemetry fetches per airport.
type CachedWaits struct {
	next  waitFetcher
	cache *cache.TTL[[]models.CheckpointWaitRecord]
}

// NewCachedWaits wraps next with a ttl cache.
func NewCachedWaits(next waitFetcher, ttl time.Duration) *CachedWaits {
	return &CachedWaits{next: next, cache: cache.NewTTL[[]models.CheckpointWaitRecord](cacheCapacity, ttl)}
}

// CheckpointWaits implements the telemetry fetcher.
func (c *CachedWaits) CheckpointWaits(ctx context.Context, iata string) ([]models.CheckpointWaitRecord, error) {
	key := strings.ToUpper(iata)
	if recs, ok := c.cache.Get(key); ok {
		return recs, nil
	}
	recs, err := c.next.CheckpointWaits(ctx, iata)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, recs)
	return recs, nil
}

// CachedSearch memoizes successful headline searches per query and limit.
type CachedSearch struct {
	next  headlineSearcher
	cache *cache.TTL[[]models.NewsHeadline]
}

// NewCachedSearch wraps next with a ttl cache.
func NewCachedSearch(next headlineSearcher, ttl time.Duration) *CachedSearch {
	return &CachedSearch{next: next, cache: cache.NewTTL[[]models.NewsHeadline](cacheCapacity, ttl)}
}

// SearchHeadlines implements the headline searcher.
func (c *CachedSearch) SearchHeadlines(ctx context.Context, query string, limit int) ([]models.NewsHeadline, error) {
	key := strings.ToLower(strings.TrimSpace(query)) + "#" + strconv.Itoa(limit)
	if hits, ok := c.cache.Get(key); ok {
		return hits, nil
	}
	hits, err := c.next.SearchHeadlines(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, hits)
	return hits, nil
}
