package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/DeafMist/flight-risk-radar/backend/internal/models"
)

// CheckpointWaitClient reads checkpoint wait telemetry. The feed is loosely typed: waits arrive
// as numbers or strings and timestamps in several layouts.
type CheckpointWaitClient struct {
	client  *resty.Client
	baseURL string
	apiKey  string
}

// NewCheckpointWaitClient creates the telemetry provider.
func NewCheckpointWaitClient(client *resty.Client, baseURL, apiKey string) *CheckpointWaitClient {
	return &CheckpointWaitClient{client: client, baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey}
}

// flexNumber accepts 12, 12.5, "12", "12 min" or null.
type flexNumber struct {
	value float64
	ok    bool
}

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		fields := strings.Fields(s)
		if len(fields) == 0 {
			return nil
		}
		if v, err := strconv.ParseFloat(fields[0], 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			n.value, n.ok = v, true
		}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	n.value, n.ok = v, true
	return nil
}

type waitRecord struct {
	Timestamp   string     `json:"timestamp"`
	Created     string     `json:"created_datetime"`
	WaitMinutes flexNumber `json:"waitMinutes"`
	WaitTime    flexNumber `json:"wait_time"`
}

// CheckpointWaits returns records newest first. Records without a parseable wait are dropped;
// undated ones are kept with a zero timestamp for the scorer to discard.
func (c *CheckpointWaitClient) CheckpointWaits(ctx context.Context, iata string) ([]models.CheckpointWaitRecord, error) {
	req := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParam("airport", strings.ToUpper(iata))
	if c.apiKey != "" {
		req.SetHeader("X-API-Key", c.apiKey)
	}

	resp, err := req.Get(c.baseURL + "/waits")
	if err != nil {
		return nil, fmt.Errorf("fetch checkpoint waits: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, statusError("checkpoint waits", resp)
	}

	raw, err := unwrapList(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("decode checkpoint waits: %w", err)
	}

	out := make([]models.CheckpointWaitRecord, 0, len(raw))
	for _, r := range raw {
		wait := r.WaitMinutes
		if !wait.ok {
			wait = r.WaitTime
		}
		if !wait.ok {
			continue
		}
		stamp := r.Timestamp
		if stamp == "" {
			stamp = r.Created
		}
		ts, _ := parseTimestamp(stamp)
		out = append(out, models.CheckpointWaitRecord{Timestamp: ts, WaitMinutes: wait.value})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

// unwrapList accepts either a bare array or {"data": [...]}.
func unwrapList(body []byte) ([]waitRecord, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		var list []waitRecord
		err := json.Unmarshal(body, &list)
		return list, err
	}
	var wrapped struct {
		Data []waitRecord `json:"data"`
	}
	err := json.Unmarshal(body, &wrapped)
	return wrapped.Data, err
}
