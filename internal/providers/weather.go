package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/DeafMist/flight-risk-radar/backend/internal/airports"
	"github.com/DeafMist/flight-risk-radar/backend/internal/models"
)

const weatherVariables = "wind_speed_10m,wind_gusts_10m,visibility,precipitation,weather_code"

// WeatherClient reads hourly forecasts from Open-Meteo.
type WeatherClient struct {
	client  *resty.Client
	baseURL string
	dir     *airports.Directory
}

// NewWeatherClient creates the weather provider; dir geocodes IATA codes.
func NewWeatherClient(client *resty.Client, baseURL string, dir *airports.Directory) *WeatherClient {
	return &WeatherClient{client: client, baseURL: strings.TrimRight(baseURL, "/"), dir: dir}
}

type openMeteoResponse struct {
	Current *struct {
		Time        string   `json:"time"`
		WindSpeed   *float64 `json:"wind_speed_10m"`
		WindGusts   *float64 `json:"wind_gusts_10m"`
		Visibility  *float64 `json:"visibility"`
		Precip      *float64 `json:"precipitation"`
		WeatherCode *int     `json:"weather_code"`
	} `json:"current"`
	Hourly struct {
		Time        []string   `json:"time"`
		WindSpeed   []*float64 `json:"wind_speed_10m"`
		WindGusts   []*float64 `json:"wind_gusts_10m"`
		Visibility  []*float64 `json:"visibility"`
		Precip      []*float64 `json:"precipitation"`
		WeatherCode []*int     `json:"weather_code"`
	} `json:"hourly"`
}

// Forecast returns the next two days of hourly weather at the airport.
func (c *WeatherClient) Forecast(ctx context.Context, iata string) (*models.AirportWeatherForecast, error) {
	a, ok := c.dir.Lookup(iata)
	if !ok {
		return nil, fmt.Errorf("geocode %s: %w", iata, ErrUnknownAirport)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParams(map[string]string{
			"latitude":        strconv.FormatFloat(a.Lat, 'f', 4, 64),
			"longitude":       strconv.FormatFloat(a.Lon, 'f', 4, 64),
			"hourly":          weatherVariables,
			"current":         weatherVariables,
			"wind_speed_unit": "kmh",
			"timezone":        "UTC",
			"forecast_days":   "2",
		}).
		Get(c.baseURL + "/v1/forecast")
	if err != nil {
		return nil, fmt.Errorf("fetch forecast: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, statusError("forecast", resp)
	}

	var parsed openMeteoResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("decode forecast: %w", err)
	}

	out := &models.AirportWeatherForecast{Iata: a.Iata}
	h := parsed.Hourly
	for i, raw := range h.Time {
		ts, ok := parseTimestamp(raw)
		if !ok {
			continue
		}
		out.Hours = append(out.Hours, models.WeatherHour{
			Time:         ts,
			WindKph:      value(at(h.WindSpeed, i)),
			GustKph:      value(at(h.WindGusts, i)),
			VisibilityKm: metersToKm(at(h.Visibility, i)),
			PrecipMm:     value(at(h.Precip, i)),
			Condition:    conditionText(at(h.WeatherCode, i)),
		})
	}

	if cur := parsed.Current; cur != nil {
		if ts, ok := parseTimestamp(cur.Time); ok {
			out.Current = &models.WeatherHour{
				Time:         ts,
				WindKph:      value(cur.WindSpeed),
				GustKph:      value(cur.WindGusts),
				VisibilityKm: metersToKm(cur.Visibility),
				PrecipMm:     value(cur.Precip),
				Condition:    conditionText(cur.WeatherCode),
			}
		}
	}
	return out, nil
}

func at[T any](s []*T, i int) *T {
	if i < len(s) {
		return s[i]
	}
	return nil
}

func value(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func metersToKm(v *float64) *float64 {
	if v == nil || *v < 0 {
		return nil
	}
	km := *v / 1000
	return &km
}

// conditionText maps WMO weather codes to the words the weather scorer keys on.
func conditionText(code *int) string {
	if code == nil {
		return ""
	}
	switch c := *code; {
	case c == 0:
		return "clear sky"
	case c <= 3:
		return "partly cloudy"
	case c == 45 || c == 48:
		return "fog"
	case c == 56 || c == 57:
		return "freezing drizzle"
	case c >= 51 && c <= 55:
		return "drizzle"
	case c == 66 || c == 67:
		return "freezing rain"
	case c >= 61 && c <= 65:
		return "rain"
	case c >= 71 && c <= 77:
		return "snow"
	case c >= 80 && c <= 82:
		return "rain showers"
	case c == 85 || c == 86:
		return "snow showers"
	case c == 95:
		return "thunderstorm"
	case c == 96 || c == 99:
		return "thunderstorm with hail"
	default:
		return "unknown"
	}
}
