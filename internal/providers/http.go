// Package providers fetches the raw upstream payloads a brief is built from.
package providers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	// ErrNotFound means the upstream answered but had no data for the request.
	ErrNotFound = errors.New("not found")
	// ErrUnknownAirport means the airport is missing from the directory.
	ErrUnknownAirport = errors.New("unknown airport")
)

// NewHTTPClient returns the resty client shared by the providers. Retries live here, not in
// the scoring core.
func NewHTTPClient(timeout time.Duration, retries int) *resty.Client {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetRetryCount(retries)
	client.SetRetryWaitTime(500 * time.Millisecond)
	client.SetRetryMaxWaitTime(2 * time.Second)
	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		return err != nil || r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= http.StatusInternalServerError
	})
	client.SetHeader("User-Agent", "flight-risk-radar/1.0")
	return client
}

func statusError(name string, resp *resty.Response) error {
	if resp.StatusCode() == http.StatusNotFound {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return fmt.Errorf("%s returned status %d", name, resp.StatusCode())
}
