package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/DeafMist/flight-risk-radar/backend/internal/cache"
	"github.com/DeafMist/flight-risk-radar/backend/internal/logger"
	"github.com/DeafMist/flight-risk-radar/backend/internal/mq"
	"github.com/DeafMist/flight-risk-radar/backend/internal/providers"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Airport news</title>
<item><title>TSA lines stretch at JFK</title><link>https://www.reuters.com/a</link><description>Waits top an hour.</description><pubDate>Fri, 03 Oct 2025 10:00:00 GMT</pubDate></item>
<item><title> </title><link>https://example.com/empty</link></item>
<item><title>Ground stop at SFO</title><link>https://apnews.com/b</link></item>
</channel></rss>`

type stubWriter struct {
	msgs []kafka.Message
	err  error
}

func (s *stubWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if s.err != nil {
		return s.err
	}
	s.msgs = append(s.msgs, msgs...)
	return nil
}

type stubFetcher struct {
	feeds map[string]*gofeed.Feed
}

func (s *stubFetcher) Fetch(_ context.Context, url string) (*gofeed.Feed, error) {
	f, ok := s.feeds[url]
	if !ok {
		return nil, errors.New("no such feed")
	}
	return f, nil
}

func TestRSSFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(feedXML))
	}))
	t.Cleanup(srv.Close)

	f := newRSSFetcher(providers.NewHTTPClient(2*time.Second, 0))
	feed, err := f.Fetch(context.Background(), srv.URL+"/rss")
	require.NoError(t, err)
	require.Len(t, feed.Items, 3)

	_, err = f.Fetch(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
}

func TestPollFeedPublishesOnce(t *testing.T) {
	feed, err := gofeed.NewParser().ParseString(feedXML)
	require.NoError(t, err)
	fetcher := &stubFetcher{feeds: map[string]*gofeed.Feed{"feed-a": feed}}
	w := &stubWriter{}
	seen := cache.NewSeen(100, time.Hour)

	n, err := pollFeed(context.Background(), fetcher, w, seen, "feed-a")
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Len(t, w.msgs, 2)
	require.Equal(t, "https://www.reuters.com/a", string(w.msgs[0].Key))

	first, err := mq.ParseMessageJSON[mq.RawHeadline](w.msgs[0])
	require.NoError(t, err)
	require.Equal(t, "TSA lines stretch at JFK", first.Title)
	require.Equal(t, "Waits top an hour.", first.Summary)
	require.Equal(t, "2025-10-03T10:00:00Z", first.Published)
	require.Equal(t, "reuters.com", first.Source)
	require.Equal(t, "feed-a", first.Feed)

	n, err = pollFeed(context.Background(), fetcher, w, seen, "feed-a")
	require.NoError(t, err)
	require.Zero(t, n)
	require.Len(t, w.msgs, 2)
}

func TestPollAllContinuesPastFailures(t *testing.T) {
	feed, err := gofeed.NewParser().ParseString(feedXML)
	require.NoError(t, err)
	fetcher := &stubFetcher{feeds: map[string]*gofeed.Feed{"ok": feed}}

	total := pollAll(context.Background(), logger.Discard(), fetcher, &stubWriter{}, cache.NewSeen(100, time.Hour), []string{"broken", "ok"})
	require.Equal(t, 2, total)
}

func TestPollFeedWriteError(t *testing.T) {
	feed, err := gofeed.NewParser().ParseString(feedXML)
	require.NoError(t, err)
	fetcher := &stubFetcher{feeds: map[string]*gofeed.Feed{"ok": feed}}
	seen := cache.NewSeen(100, time.Hour)

	_, err = pollFeed(context.Background(), fetcher, &stubWriter{err: errors.New("broker down")}, seen, "ok")
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "broker down"))
	require.False(t, seen.IsSeen("https://www.reuters.com/a"))
}
