package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/DeafMist/flight-risk-radar/backend/internal/logger"
	"github.com/DeafMist/flight-risk-radar/backend/internal/models"
)

// RecentWindow bounds SearchHeadlines to fresh documents.
const RecentWindow = 72 * time.Hour

// Client wraps go-elasticsearch with helpers for the headline index.
type Client struct {
	es    *elasticsearch.Client
	index string
	log   *slog.Logger
	now   func() time.Time
}

// SearchParams narrow the headline search query.
type SearchParams struct {
	Query    string
	Keywords []string
	Source   string
	From     int
	Size     int
	Sort     string
	Start    *time.Time
	End      *time.Time
}

// SearchResult bundles hits and total count.
type SearchResult struct {
	Total int64                     `json:"total"`
	Items []models.HeadlineDocument `json:"items"`
}

// New instantiates the Elasticsearch client.
func New(addr, index string, log *slog.Logger) (*Client, error) {
	return NewWithConfig(elasticsearch.Config{Addresses: []string{addr}}, index, log)
}

// NewWithConfig allows a custom transport, used by tests.
func NewWithConfig(cfg elasticsearch.Config, index string, log *slog.Logger) (*Client, error) {
	es, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Client{es: es, index: index, log: log, now: time.Now}, nil
}

// Ping checks if Elasticsearch is available.
func (c *Client) Ping(ctx context.Context) error {
	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("ping elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping failed: %s", res.Status())
	}
	return nil
}

var indexMapping = map[string]any{
	"mappings": map[string]any{
		"properties": map[string]any{
			"id":        map[string]any{"type": "keyword"},
			"title":     map[string]any{"type": "text"},
			"text":      map[string]any{"type": "text"},
			"link":      map[string]any{"type": "keyword", "index": false},
			"timestamp": map[string]any{"type": "date"},
			"keywords":  map[string]any{"type": "keyword"},
			"source":    map[string]any{"type": "keyword"},
		},
	},
}

// EnsureIndex creates the headline index with its mapping if it does not exist.
func (c *Client) EnsureIndex(ctx context.Context) error {
	res, err := c.es.Indices.Exists([]string{c.index}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	payload, err := json.Marshal(indexMapping)
	if err != nil {
		return fmt.Errorf("marshal mapping: %w", err)
	}
	res, err = c.es.Indices.Create(c.index,
		c.es.Indices.Create.WithContext(ctx),
		c.es.Indices.Create.WithBody(bytes.NewReader(payload)),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		// A concurrent creator is fine.
		if strings.Contains(string(body), "resource_already_exists_exception") {
			return nil
		}
		return fmt.Errorf("create index failed: %s", strings.TrimSpace(string(body)))
	}
	c.log.Info("created headline index", slog.String("index", c.index))
	return nil
}

// IndexHeadline writes a document into Elasticsearch.
func (c *Client) IndexHeadline(ctx context.Context, doc models.HeadlineDocument) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal doc: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      c.index,
		DocumentID: doc.ID,
		Body:       bytes.NewReader(payload),
		Refresh:    "false",
	}

	res, err := req.Do(ctx, c.es)
	if err != nil {
		return fmt.Errorf("index doc: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("index doc failed: %s", strings.TrimSpace(string(body)))
	}
	return nil
}

// SearchHeadlines runs a relevance search over recent headlines, so the index can serve as
// the checkpoint fallback and news searcher.
func (c *Client) SearchHeadlines(ctx context.Context, query string, limit int) ([]models.NewsHeadline, error) {
	start := c.now().Add(-RecentWindow)
	res, err := c.Search(ctx, SearchParams{
		Query: query,
		Size:  limit,
		Sort:  "_score:desc",
		Start: &start,
	})
	if err != nil {
		return nil, err
	}

	out := make([]models.NewsHeadline, 0, len(res.Items))
	for _, doc := range res.Items {
		out = append(out, doc.Headline())
	}
	return out, nil
}

// Search executes a bool query with optional filters.
func (c *Client) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	payload, err := json.Marshal(buildSearchBody(params))
	if err != nil {
		return nil, fmt.Errorf("marshal search body: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(bytes.NewReader(payload)),
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		data, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("search failed: %s", strings.TrimSpace(string(data)))
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.HeadlineDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	items := make([]models.HeadlineDocument, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		items = append(items, hit.Source)
	}
	return &SearchResult{Total: parsed.Hits.Total.Value, Items: items}, nil
}

func buildSearchBody(params SearchParams) map[string]any {
	if params.Size <= 0 {
		params.Size = 20
	}
	if params.Size > 200 {
		params.Size = 200
	}
	if params.From < 0 {
		params.From = 0
	}

	must := make([]map[string]any, 0, 1)
	filters := make([]map[string]any, 0, 3)

	if params.Query != "" {
		must = append(must, map[string]any{
			"multi_match": map[string]any{
				"query":  params.Query,
				"fields": []string{"title^2", "text", "keywords"},
			},
		})
	}
	if len(params.Keywords) > 0 {
		filters = append(filters, map[string]any{
			"terms": map[string]any{"keywords": params.Keywords},
		})
	}
	if params.Source != "" {
		filters = append(filters, map[string]any{
			"term": map[string]any{"source": params.Source},
		})
	}
	if params.Start != nil || params.End != nil {
		rangeQuery := map[string]any{}
		if params.Start != nil {
			rangeQuery["gte"] = params.Start.UTC().Format(time.RFC3339)
		}
		if params.End != nil {
			rangeQuery["lte"] = params.End.UTC().Format(time.RFC3339)
		}
		filters = append(filters, map[string]any{
			"range": map[string]any{"timestamp": rangeQuery},
		})
	}

	boolQuery := map[string]any{}
	if len(must) > 0 {
		boolQuery["must"] = must
	}
	if len(filters) > 0 {
		boolQuery["filter"] = filters
	}
	if len(must) == 0 && len(filters) == 0 {
		boolQuery["must"] = []map[string]any{{"match_all": map[string]any{}}}
	}

	field, order := "timestamp", "desc"
	if params.Sort != "" {
		parts := strings.SplitN(params.Sort, ":", 2)
		if parts[0] != "" {
			field = parts[0]
		}
		if len(parts) > 1 && parts[1] != "" {
			order = parts[1]
		}
	}

	return map[string]any{
		"from":             params.From,
		"size":             params.Size,
		"track_total_hits": true,
		"query":            map[string]any{"bool": boolQuery},
		"sort":             []map[string]any{{field: map[string]any{"order": order}}},
	}
}

// DeleteOlderThan removes documents older than maxAge using batched delete-by-query.
// It loops until a batch returns fewer deleted documents than the requested batchSize.
func (c *Client) DeleteOlderThan(ctx context.Context, maxAge time.Duration, batchSize int) (int64, error) {
	if batchSize <= 0 {
		batchSize = 1000
	}

	cutoff := c.now().Add(-maxAge).UTC().Format(time.RFC3339)
	payload, err := json.Marshal(map[string]any{
		"query": map[string]any{
			"range": map[string]any{
				"timestamp": map[string]any{"lte": cutoff},
			},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("marshal delete body: %w", err)
	}

	var total int64
	for {
		deleted, err := c.deleteBatch(ctx, payload, batchSize)
		total += deleted
		if err != nil {
			return total, err
		}
		if deleted < int64(batchSize) {
			return total, nil
		}
	}
}

func (c *Client) deleteBatch(ctx context.Context, payload []byte, batchSize int) (int64, error) {
	res, err := c.es.DeleteByQuery(
		[]string{c.index},
		bytes.NewReader(payload),
		c.es.DeleteByQuery.WithContext(ctx),
		c.es.DeleteByQuery.WithWaitForCompletion(true),
		c.es.DeleteByQuery.WithConflicts("proceed"),
		c.es.DeleteByQuery.WithScrollSize(batchSize),
		c.es.DeleteByQuery.WithMaxDocs(batchSize),
	)
	if err != nil {
		return 0, fmt.Errorf("delete by query: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		data, _ := io.ReadAll(res.Body)
		return 0, fmt.Errorf("delete by query failed: %s", strings.TrimSpace(string(data)))
	}

	var parsed struct {
		Deleted int64 `json:"deleted"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("decode delete response: %w", err)
	}
	return parsed.Deleted, nil
}

// Health checks cluster health.
func (c *Client) Health(ctx context.Context) error {
	res, err := c.es.Cluster.Health(c.es.Cluster.Health.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("cluster health: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(res.Body)
		return fmt.Errorf("cluster health bad: %s", strings.TrimSpace(string(data)))
	}
	return nil
}
