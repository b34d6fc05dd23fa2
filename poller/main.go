package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mmcdole/gofeed"

	"github.com/DeafMist/flight-risk-radar/backend/internal/cache"
	"github.com/DeafMist/flight-risk-radar/backend/internal/config"
	"github.com/DeafMist/flight-risk-radar/backend/internal/logger"
	"github.com/DeafMist/flight-risk-radar/backend/internal/mq"
	"github.com/DeafMist/flight-risk-radar/backend/internal/processing"
	"github.com/DeafMist/flight-risk-radar/backend/internal/providers"
)

const (
	seenCapacity = 5000
	seenTTL      = 48 * time.Hour
)

type feedFetcher interface {
	Fetch(ctx context.Context, url string) (*gofeed.Feed, error)
}

type rssFetcher struct {
	client *resty.Client
	parser *gofeed.Parser
}

func newRSSFetcher(client *resty.Client) *rssFetcher {
	return &rssFetcher{client: client, parser: gofeed.NewParser()}
}

func (f *rssFetcher) Fetch(ctx context.Context, url string) (*gofeed.Feed, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/rss+xml, application/xml;q=0.9, */*;q=0.8").
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("fetch feed: status %d", resp.StatusCode())
	}
	feed, err := f.parser.ParseString(string(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return feed, nil
}

func main() {
	log := logger.New("poller")
	cfg, err := config.LoadPoller()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	writer := mq.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer writer.Close()

	fetcher := newRSSFetcher(providers.NewHTTPClient(cfg.FetchTimeout, 2))
	seen := cache.NewSeen(seenCapacity, seenTTL)

	log.Info("poller started",
		slog.String("topic", cfg.KafkaTopic),
		slog.Int("feeds", len(cfg.Feeds)),
		slog.Duration("interval", cfg.Interval),
	)

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	pollAll(ctx, log, fetcher, writer, seen, cfg.Feeds)
	for {
		select {
		case <-ctx.Done():
			log.Info("shutdown signal received")
			return
		case <-ticker.C:
			pollAll(ctx, log, fetcher, writer, seen, cfg.Feeds)
		}
	}
}

func pollAll(ctx context.Context, log *slog.Logger, fetcher feedFetcher, w mq.MessageWriter, seen *cache.Seen, feeds []string) int {
	var total int
	for _, url := range feeds {
		n, err := pollFeed(ctx, fetcher, w, seen, url)
		total += n
		if err != nil {
			log.Warn("poll feed failed", slog.String("feed", url), slog.Any("err", err))
			continue
		}
		log.Debug("polled feed", slog.String("feed", url), slog.Int("published", n))
	}
	if total > 0 {
		log.Info("poll completed", slog.Int("published", total))
	}
	return total
}

// pollFeed publishes the feed items not already published; it stops at the first write error.
func pollFeed(ctx context.Context, fetcher feedFetcher, w mq.MessageWriter, seen *cache.Seen, url string) (int, error) {
	feed, err := fetcher.Fetch(ctx, url)
	if err != nil {
		return 0, err
	}

	var published int
	for _, item := range feed.Items {
		raw, ok := fromItem(item, url)
		if !ok {
			continue
		}
		key := raw.Link
		if key == "" {
			key = processing.NormalizeTitle(raw.Title)
		}
		if seen.IsSeen(key) {
			continue
		}
		if err := mq.PublishJSON(ctx, w, key, raw); err != nil {
			return published, err
		}
		seen.MarkSeen(key)
		published++
	}
	return published, nil
}

func fromItem(item *gofeed.Item, feedURL string) (mq.RawHeadline, bool) {
	if item == nil {
		return mq.RawHeadline{}, false
	}
	raw := mq.RawHeadline{
		Title:   strings.TrimSpace(item.Title),
		Summary: strings.TrimSpace(item.Description),
		Link:    strings.TrimSpace(item.Link),
		Feed:    feedURL,
	}
	if raw.Title == "" && raw.Summary == "" {
		return raw, false
	}
	if item.PublishedParsed != nil {
		raw.Published = item.PublishedParsed.UTC().Format(time.RFC3339)
	} else {
		raw.Published = strings.TrimSpace(item.Published)
	}
	raw.Source = processing.SourceFromLink(raw.Link)
	return raw, true
}
