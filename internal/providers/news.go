package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/mmcdole/gofeed"

	"github.com/DeafMist/flight-risk-radar/backend/internal/models"
	"github.com/DeafMist/flight-risk-radar/backend/internal/processing"
)

// NewsSearchClient searches headlines through the Google News RSS endpoint.
type NewsSearchClient struct {
	client  *resty.Client
	parser  *gofeed.Parser
	baseURL string
	recency string
}

// NewNewsSearchClient creates the RSS search provider. recency is a Google News "when:"
// window such as "3d"; empty disables it.
func NewNewsSearchClient(client *resty.Client, baseURL, recency string) *NewsSearchClient {
	return &NewsSearchClient{
		client:  client,
		parser:  gofeed.NewParser(),
		baseURL: strings.TrimRight(baseURL, "/"),
		recency: recency,
	}
}

// SearchHeadlines returns up to limit headlines for query, in feed order.
func (c *NewsSearchClient) SearchHeadlines(ctx context.Context, query string, limit int) ([]models.NewsHeadline, error) {
	q := strings.TrimSpace(query)
	if c.recency != "" {
		q += " when:" + c.recency
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":    q,
			"hl":   "en-US",
			"gl":   "US",
			"ceid": "US:en",
		}).
		Get(c.baseURL + "/rss/search")
	if err != nil {
		return nil, fmt.Errorf("fetch news rss: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, statusError("news rss", resp)
	}

	feed, err := c.parser.ParseString(string(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse news rss: %w", err)
	}
	return HeadlinesFromFeed(feed, limit), nil
}

// HeadlinesFromFeed converts feed items, skipping untitled ones.
func HeadlinesFromFeed(feed *gofeed.Feed, limit int) []models.NewsHeadline {
	if feed == nil {
		return nil
	}
	out := make([]models.NewsHeadline, 0, len(feed.Items))
	for _, item := range feed.Items {
		if limit > 0 && len(out) == limit {
			break
		}
		if item == nil || strings.TrimSpace(item.Title) == "" {
			continue
		}
		h := models.NewsHeadline{
			Title:  strings.TrimSpace(item.Title),
			Link:   strings.TrimSpace(item.Link),
			Source: processing.SourceFromLink(item.Link),
		}
		if item.PublishedParsed != nil {
			h.Published = item.PublishedParsed.UTC()
		} else if item.UpdatedParsed != nil {
			h.Published = item.UpdatedParsed.UTC()
		}
		if h.Source == "" {
			h.Source = feed.Title
		}
		out = append(out, h)
	}
	return out
}
