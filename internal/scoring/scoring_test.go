package scoring_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DeafMist/flight-risk-radar/backend/internal/models"
	"github.com/DeafMist/flight-risk-radar/backend/internal/scoring"
)

var base = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func at(offset time.Duration) *time.Time {
	t := base.Add(offset)
	return &t
}

func ptr(v float64) *float64 { return &v }

func TestScoreOperationsDelayBands(t *testing.T) {
	tests := []struct {
		name  string
		delay time.Duration
		want  float64
	}{
		{name: "on time", delay: 0, want: 0.05},
		{name: "15min", delay: 15 * time.Minute, want: 0.05},
		{name: "30min", delay: 30 * time.Minute, want: 0.15},
		{name: "45min", delay: 45 * time.Minute, want: 0.35},
		{name: "2h", delay: 2 * time.Hour, want: 0.60},
		{name: "3h", delay: 3 * time.Hour, want: 0.85},
		{name: "early counts as drift", delay: -40 * time.Minute, want: 0.35},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := &models.FlightOperationsSnapshot{
				Status:    "scheduled",
				Departure: models.FlightEndpoint{Iata: "JFK", Scheduled: at(0), Estimated: at(tt.delay)},
				Arrival:   models.FlightEndpoint{Iata: "LAX", Scheduled: at(6 * time.Hour)},
			}
			got := scoring.ScoreOperations(snap)
			require.InDelta(t, tt.want, got.Score, 1e-9)
		})
	}
}

func TestScoreOperationsUsesWorstEndpoint(t *testing.T) {
	snap := &models.FlightOperationsSnapshot{
		Status:    "scheduled",
		Departure: models.FlightEndpoint{Scheduled: at(0), Estimated: at(10 * time.Minute)},
		Arrival:   models.FlightEndpoint{Scheduled: at(5 * time.Hour), Actual: at(5*time.Hour + 90*time.Minute)},
	}
	require.InDelta(t, 0.60, scoring.ScoreOperations(snap).Score, 1e-9)
}

func TestScoreOperationsStatusOverrides(t *testing.T) {
	tests := []struct {
		status string
		delay  time.Duration
		want   float64
	}{
		{status: "cancelled", delay: 0, want: 1.0},
		{status: "Canceled", delay: 3 * time.Hour, want: 1.0},
		{status: "diverted", delay: 0, want: 0.95},
		{status: "landed", delay: 3 * time.Hour, want: 0.05},
		{status: "active", delay: 0, want: 0.10},
		{status: "active", delay: 45 * time.Minute, want: 0.35},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			snap := &models.FlightOperationsSnapshot{
				Status:    tt.status,
				Departure: models.FlightEndpoint{Scheduled: at(0), Estimated: at(tt.delay)},
			}
			require.InDelta(t, tt.want, scoring.ScoreOperations(snap).Score, 1e-9)
		})
	}
}

func TestScoreOperationsFlightNotFound(t *testing.T) {
	got := scoring.ScoreOperations(nil)
	require.Equal(t, scoring.FlightNotFoundScore, got.Score)
	require.Contains(t, got.Explanation, "flight not found")
}

func calmHours(n int) []models.WeatherHour {
	hours := make([]models.WeatherHour, 0, n)
	for i := 0; i < n; i++ {
		hours = append(hours, models.WeatherHour{
			Time:         base.Add(time.Duration(i) * time.Hour),
			WindKph:      8,
			GustKph:      12,
			VisibilityKm: ptr(20),
			Condition:    "Clear sky",
		})
	}
	return hours
}

func TestScoreWeatherCalm(t *testing.T) {
	got := scoring.ScoreWeather("lax", &models.AirportWeatherForecast{Hours: calmHours(12)}, 0)
	require.InDelta(t, 0.05, got.Score, 1e-9)
	require.Contains(t, got.Explanation, "LAX")
}

func TestScoreWeatherSingleFeatureDominates(t *testing.T) {
	hours := calmHours(6)
	hours[3].VisibilityKm = ptr(0.5)

	got := scoring.ScoreWeather("SFO", &models.AirportWeatherForecast{Hours: hours}, scoring.DefaultWeatherWindow)
	require.GreaterOrEqual(t, got.Score, 0.85)
	require.Contains(t, got.Explanation, "very low visibility")
}

func TestScoreWeatherThunderstormFloor(t *testing.T) {
	hours := calmHours(6)
	hours[0].WindKph = 45
	hours[2].Condition = "Thunderstorm with slight hail"

	got := scoring.ScoreWeather("JFK", &models.AirportWeatherForecast{Hours: hours}, scoring.DefaultWeatherWindow)
	require.GreaterOrEqual(t, got.Score, 0.70)
	require.Contains(t, got.Explanation, "thunderstorm")
}

func TestScoreWeatherFeatureBands(t *testing.T) {
	tests := []struct {
		name  string
		tweak func(h *models.WeatherHour)
		want  float64
	}{
		{name: "wind 25", tweak: func(h *models.WeatherHour) { h.WindKph = 25 }, want: 0.15},
		{name: "wind 60", tweak: func(h *models.WeatherHour) { h.WindKph = 60 }, want: 0.70},
		{name: "wind 80", tweak: func(h *models.WeatherHour) { h.WindKph = 80 }, want: 0.90},
		{name: "gust 50", tweak: func(h *models.WeatherHour) { h.GustKph = 50 }, want: 0.50},
		{name: "gust 70", tweak: func(h *models.WeatherHour) { h.GustKph = 70 }, want: 0.75},
		{name: "vis 4", tweak: func(h *models.WeatherHour) { h.VisibilityKm = ptr(4) }, want: 0.35},
		{name: "precip 12", tweak: func(h *models.WeatherHour) { h.PrecipMm = 12 }, want: 0.55},
		{name: "snow", tweak: func(h *models.WeatherHour) { h.Condition = "Heavy snow fall" }, want: 0.60},
		{name: "fog with low vis", tweak: func(h *models.WeatherHour) { h.Condition = "Fog"; h.VisibilityKm = ptr(2.5) }, want: 0.50},
		{name: "fog with good vis", tweak: func(h *models.WeatherHour) { h.Condition = "Fog"; h.VisibilityKm = ptr(8) }, want: 0.10},
		{name: "rain heavy", tweak: func(h *models.WeatherHour) { h.Condition = "Rain showers"; h.PrecipMm = 6 }, want: 0.40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hours := calmHours(6)
			tt.tweak(&hours[1])
			got := scoring.ScoreWeather("ORD", &models.AirportWeatherForecast{Hours: hours}, scoring.DefaultWeatherWindow)
			require.InDelta(t, tt.want, got.Score, 1e-9)
		})
	}
}

func TestScoreWeatherAnchoredWindow(t *testing.T) {
	hours := calmHours(12)
	hours[10].Condition = "Thunderstorm"
	current := hours[0]

	got := scoring.ScoreWeather("DEN", &models.AirportWeatherForecast{Current: &current, Hours: hours}, 3*time.Hour)
	require.InDelta(t, 0.05, got.Score, 1e-9)

	got = scoring.ScoreWeather("DEN", &models.AirportWeatherForecast{Current: &current, Hours: hours}, 12*time.Hour)
	require.InDelta(t, 0.70, got.Score, 1e-9)
}

func TestScoreWeatherUnanchoredUsesFirstSixHours(t *testing.T) {
	hours := calmHours(12)
	hours[8].Condition = "Thunderstorm"

	got := scoring.ScoreWeather("DEN", &models.AirportWeatherForecast{Hours: hours}, 24*time.Hour)
	require.InDelta(t, 0.05, got.Score, 1e-9)
}

func TestScoreWeatherUnavailable(t *testing.T) {
	for _, f := range []*models.AirportWeatherForecast{nil, {Iata: "BOS"}} {
		got := scoring.ScoreWeather("BOS", f, 0)
		require.Equal(t, scoring.WeatherUnavailableScore, got.Score)
		require.Contains(t, got.Explanation, "unavailable")
	}
}

func waits(minutes ...float64) []models.CheckpointWaitRecord {
	out := make([]models.CheckpointWaitRecord, 0, len(minutes))
	for i, m := range minutes {
		out = append(out, models.CheckpointWaitRecord{Timestamp: base.Add(-time.Duration(i) * 15 * time.Minute), WaitMinutes: m})
	}
	return out
}

func TestScoreCheckpointWait(t *testing.T) {
	tests := []struct {
		name    string
		records []models.CheckpointWaitRecord
		lead    int
		want    float64
	}{
		{name: "short lead dominates", records: waits(2, 3), lead: 30, want: 0.90},
		{name: "lead under an hour", records: waits(2, 3), lead: 50, want: 0.70},
		{name: "lead under 90", records: waits(2, 3), lead: 75, want: 0.40},
		{name: "ample lead", records: waits(30, 35), lead: 200, want: 0.05},
		{name: "ample lead but crisis", records: waits(60, 50), lead: 200, want: 0.40},
		{name: "quiet checkpoint", records: waits(5, 6, 4), lead: 120, want: 0.05},
		{name: "moderate average", records: waits(40, 40), lead: 120, want: 0.50},
		{name: "spike over 60", records: waits(5, 5, 5, 5, 5, 70), lead: 100, want: 0.45},
		{name: "spike over 90", records: waits(5, 5, 5, 5, 5, 95), lead: 100, want: 0.60},
		{name: "crowded", records: waits(50, 55), lead: 150, want: 0.70},
		{name: "no records", records: nil, lead: 120, want: scoring.CheckpointMissingScore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoring.ScoreCheckpointWait(tt.records, tt.lead)
			require.InDelta(t, tt.want, got.Score, 1e-9)
		})
	}
}

func TestScoreCheckpointWaitUsesNewestSixValidRecords(t *testing.T) {
	records := waits(5, 5, 5, 5, 5, 5, 120, 120)
	records = append(records,
		models.CheckpointWaitRecord{WaitMinutes: 200},
		models.CheckpointWaitRecord{Timestamp: base, WaitMinutes: -4},
		models.CheckpointWaitRecord{Timestamp: base, WaitMinutes: math.NaN()},
	)

	got := scoring.ScoreCheckpointWait(records, 120)
	require.InDelta(t, 0.05, got.Score, 1e-9)
	require.Contains(t, got.Explanation, "6 samples")
}

func TestScoreCheckpointEstimate(t *testing.T) {
	est := models.SecurityIntelligenceEstimate{
		Score:      0.5,
		Issues:     []string{"staffing"},
		WaitBucket: models.WaitHigh,
		Confidence: models.ConfidenceMedium,
	}
	got := scoring.ScoreCheckpointEstimate(est, 120)
	require.InDelta(t, 0.5, got.Score, 1e-9)
	require.Contains(t, got.Explanation, "staffing")

	got = scoring.ScoreCheckpointEstimate(est, 40)
	require.InDelta(t, 0.90, got.Score, 1e-9)
}

func TestScoreNews(t *testing.T) {
	tests := []struct {
		name   string
		titles []string
		min    float64
		max    float64
		tag    string
	}{
		{name: "empty", titles: nil, min: 0, max: 0.10},
		{name: "blank titles", titles: []string{" ", ""}, min: 0, max: 0.10},
		{name: "unrelated", titles: []string{"Airline launches new lounge"}, min: 0.10, max: 0.10},
		{name: "strike", titles: []string{"Pilots announce strike vote", "Union warns of walkout"}, min: 0.75, max: 0.80, tag: "strike"},
		{name: "outage", titles: []string{"Airline IT outage snarls check-in"}, min: 0.70, max: 0.75, tag: "outage"},
		{name: "ground stop", titles: []string{"FAA issues ground stop at Newark"}, min: 0.65, max: 0.70, tag: "ground_stop"},
		{name: "generic delay", titles: []string{"Flights delayed at O'Hare"}, min: 0.30, max: 0.40, tag: "delay"},
		{name: "maintenance", titles: []string{"Jet returns to gate for maintenance"}, min: 0.25, max: 0.30, tag: "maintenance"},
		{name: "lightning strike", titles: []string{"Lightning strike damages parked jet at Denver"}, min: 0.10, max: 0.10},
		{name: "brainstorms", titles: []string{"Airline CEO brainstorms new loyalty perks"}, min: 0.10, max: 0.10},
		{name: "storms", titles: []string{"Storms slow departures from Dallas"}, min: 0.30, max: 0.40, tag: "delay"},
		{name: "striking crews", titles: []string{"Striking ground crews block Heathrow gates"}, min: 0.75, max: 0.80, tag: "strike"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoring.ScoreNews(tt.titles)
			require.GreaterOrEqual(t, got.Score, tt.min)
			require.LessOrEqual(t, got.Score, tt.max)
			if tt.tag != "" {
				require.Contains(t, got.Explanation, tt.tag)
			}
		})
	}
}

func TestScoreNewsCombinesByMaximum(t *testing.T) {
	got := scoring.ScoreNews([]string{
		"Strike looms as storms bring delays and maintenance backlog, airport closed runway closure",
	})
	require.InDelta(t, 0.78, got.Score, 1e-9)
	require.Contains(t, got.Explanation, "closure")
	require.Contains(t, got.Explanation, "strike")
}
