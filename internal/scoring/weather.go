package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/DeafMist/flight-risk-radar/backend/internal/models"
)

// DefaultWeatherWindow is the forecast horizon considered around the current hour.
const DefaultWeatherWindow = 6 * time.Hour

const unanchoredSampleHours = 6

// hazard features collected over the sampled hours.
type weatherFeatures struct {
	hours      int
	maxWind    float64
	maxGust    float64
	minVis     float64
	hasVis     bool
	maxPrecip  float64
	conditions map[string]struct{}
}

// ScoreWeather scores one airport's forecast. Each hazard proposes a score and the
// highest proposal wins, so a single severe hour is never averaged away.
func ScoreWeather(iata string, forecast *models.AirportWeatherForecast, window time.Duration) Signal {
	label := strings.ToUpper(strings.TrimSpace(iata))
	if label == "" {
		label = "airport"
	}
	if window <= 0 {
		window = DefaultWeatherWindow
	}

	sample := sampleHours(forecast, window)
	if len(sample) == 0 {
		return Signal{
			Score:       WeatherUnavailableScore,
			Explanation: fmt.Sprintf("%s: forecast unavailable, assuming mild risk", label),
		}
	}

	f := extractFeatures(sample)
	score, hazards := proposeWeatherScore(f)

	parts := []string{
		fmt.Sprintf("wind %.0fkph", f.maxWind),
		fmt.Sprintf("gust %.0fkph", f.maxGust),
	}
	if f.hasVis {
		parts = append(parts, fmt.Sprintf("vis %.1fkm", f.minVis))
	}
	parts = append(parts, fmt.Sprintf("precip %.1fmm", f.maxPrecip))
	if len(hazards) > 0 {
		parts = append(parts, "hazards: "+strings.Join(hazards, ", "))
	}

	return Signal{
		Score:       clamp01(score),
		Explanation: fmt.Sprintf("%s: %s over %dh", label, strings.Join(parts, ", "), f.hours),
	}
}

// sampleHours restricts the series to [anchor, anchor+window] when the feed exposes a
// current hour, and otherwise (or when that window is empty) to the first six hours.
func sampleHours(forecast *models.AirportWeatherForecast, window time.Duration) []models.WeatherHour {
	if forecast == nil {
		return nil
	}

	hours := make([]models.WeatherHour, 0, len(forecast.Hours))
	for _, h := range forecast.Hours {
		if !h.Time.IsZero() {
			hours = append(hours, h)
		}
	}
	sort.SliceStable(hours, func(i, j int) bool { return hours[i].Time.Before(hours[j].Time) })

	var sample []models.WeatherHour
	if forecast.Current != nil && !forecast.Current.Time.IsZero() {
		anchor := forecast.Current.Time.Truncate(time.Hour)
		end := anchor.Add(window)
		for _, h := range hours {
			if !h.Time.Before(anchor) && !h.Time.After(end) {
				sample = append(sample, h)
			}
		}
	}
	if len(sample) == 0 {
		n := unanchoredSampleHours
		if n > len(hours) {
			n = len(hours)
		}
		sample = append(sample, hours[:n]...)
	}
	if len(sample) > 0 && forecast.Current != nil {
		sample = append(sample, *forecast.Current)
	}
	return sample
}

func extractFeatures(sample []models.WeatherHour) weatherFeatures {
	f := weatherFeatures{
		hours:      len(sample),
		minVis:     math.Inf(1),
		conditions: make(map[string]struct{}),
	}
	for _, h := range sample {
		f.maxWind = math.Max(f.maxWind, nonNegative(h.WindKph))
		f.maxGust = math.Max(f.maxGust, nonNegative(h.GustKph))
		f.maxPrecip = math.Max(f.maxPrecip, nonNegative(h.PrecipMm))
		if h.VisibilityKm != nil && *h.VisibilityKm >= 0 && !math.IsNaN(*h.VisibilityKm) {
			f.hasVis = true
			f.minVis = math.Min(f.minVis, *h.VisibilityKm)
		}
		cond := strings.ToLower(h.Condition)
		for _, kw := range conditionKeywords {
			for _, term := range kw.terms {
				if strings.Contains(cond, term) {
					f.conditions[kw.tag] = struct{}{}
				}
			}
		}
	}
	if !f.hasVis {
		f.minVis = 0
	}
	return f
}

var conditionKeywords = []struct {
	tag   string
	terms []string
}{
	{tag: "thunderstorm", terms: []string{"thunder", "lightning"}},
	{tag: "snow", terms: []string{"snow", "ice", "sleet", "freezing", "blizzard", "hail"}},
	{tag: "fog", terms: []string{"fog", "mist", "haze"}},
	{tag: "rain", terms: []string{"rain", "shower", "drizzle"}},
}

func proposeWeatherScore(f weatherFeatures) (float64, []string) {
	var hazards []string
	propose := func(current, candidate float64, hazard string) float64 {
		if candidate > current {
			current = candidate
		}
		if hazard != "" {
			hazards = append(hazards, hazard)
		}
		return current
	}

	score := windBand(f.maxWind)
	if score >= 0.40 {
		hazards = append(hazards, "strong wind")
	}

	switch {
	case f.maxGust > 65:
		score = propose(score, 0.75, "severe gusts")
	case f.maxGust > 45:
		score = propose(score, 0.50, "gusts")
	}

	if f.hasVis {
		switch {
		case f.minVis < 1:
			score = propose(score, 0.85, "very low visibility")
		case f.minVis < 2:
			score = propose(score, 0.60, "low visibility")
		case f.minVis < 5:
			score = propose(score, 0.35, "reduced visibility")
		case f.minVis < 10:
			score = propose(score, 0.10, "")
		}
	}

	switch {
	case f.maxPrecip > 10:
		score = propose(score, 0.55, "heavy precipitation")
	case f.maxPrecip > 5:
		score = propose(score, 0.35, "moderate precipitation")
	case f.maxPrecip > 1:
		score = propose(score, 0.15, "")
	}

	if _, ok := f.conditions["thunderstorm"]; ok {
		score = propose(score, 0.70, "thunderstorm")
	}
	if _, ok := f.conditions["snow"]; ok {
		score = propose(score, 0.60, "snow/ice")
	}
	if _, ok := f.conditions["fog"]; ok && f.hasVis && f.minVis < 3 {
		score = propose(score, 0.50, "fog")
	}
	if _, ok := f.conditions["rain"]; ok && f.maxPrecip > 5 {
		score = propose(score, 0.40, "rain")
	}

	return score, hazards
}

func windBand(kph float64) float64 {
	switch {
	case kph < 20:
		return 0.05
	case kph < 35:
		return 0.15
	case kph < 50:
		return 0.40
	case kph < 70:
		return 0.70
	default:
		return 0.90
	}
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
