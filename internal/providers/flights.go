package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/DeafMist/flight-risk-radar/backend/internal/models"
)

// FlightStatusClient reads flight operations from the AviationStack /flights endpoint.
type FlightStatusClient struct {
	client    *resty.Client
	baseURL   string
	accessKey string
}

// NewFlightStatusClient creates the operations provider.
func NewFlightStatusClient(client *resty.Client, baseURL, accessKey string) *FlightStatusClient {
	return &FlightStatusClient{client: client, baseURL: strings.TrimRight(baseURL, "/"), accessKey: accessKey}
}

type aviationStackEndpoint struct {
	Iata      string  `json:"iata"`
	Scheduled *string `json:"scheduled"`
	Estimated *string `json:"estimated"`
	Actual    *string `json:"actual"`
}

type aviationStackResponse struct {
	Data []struct {
		FlightDate   string                `json:"flight_date"`
		FlightStatus string                `json:"flight_status"`
		Departure    aviationStackEndpoint `json:"departure"`
		Arrival      aviationStackEndpoint `json:"arrival"`
		Flight       struct {
			Iata string `json:"iata"`
		} `json:"flight"`
	} `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// FlightSnapshot returns the first matching flight for the date, or ErrNotFound.
func (c *FlightStatusClient) FlightSnapshot(ctx context.Context, flightIata, date string) (*models.FlightOperationsSnapshot, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParams(map[string]string{
			"access_key":  c.accessKey,
			"flight_iata": flightIata,
			"flight_date": date,
		}).
		Get(c.baseURL + "/flights")
	if err != nil {
		return nil, fmt.Errorf("fetch flight status: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, statusError("flight status", resp)
	}

	var parsed aviationStackResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("decode flight status: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("flight status error %s: %s", parsed.Error.Code, parsed.Error.Message)
	}
	if len(parsed.Data) == 0 {
		return nil, fmt.Errorf("flight %s on %s: %w", flightIata, date, ErrNotFound)
	}

	f := parsed.Data[0]
	iata := f.Flight.Iata
	if iata == "" {
		iata = flightIata
	}
	return &models.FlightOperationsSnapshot{
		FlightIata: strings.ToUpper(iata),
		Status:     strings.ToLower(f.FlightStatus),
		Departure:  endpoint(f.Departure),
		Arrival:    endpoint(f.Arrival),
	}, nil
}

func endpoint(e aviationStackEndpoint) models.FlightEndpoint {
	return models.FlightEndpoint{
		Iata:      strings.ToUpper(e.Iata),
		Scheduled: parseTime(e.Scheduled),
		Estimated: parseTime(e.Estimated),
		Actual:    parseTime(e.Actual),
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"1/2/2006 3:04:05 PM",
}

func parseTime(raw *string) *time.Time {
	if raw == nil {
		return nil
	}
	ts, ok := parseTimestamp(*raw)
	if !ok {
		return nil
	}
	return &ts
}

func parseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}
