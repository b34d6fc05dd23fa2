// Package scoring turns raw provider payloads into comparable [0,1] risk signals.
//
// Every scorer is total: absent or malformed input degrades to a documented fallback
// score with an explanation naming the fallback, never to an error.
package scoring

import "math"

// Signal is a scored risk dimension with a human-readable explanation.
type Signal struct {
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
}

// Fallback scores used when a provider yields nothing usable.
const (
	FlightNotFoundScore     = 0.25
	WeatherUnavailableScore = 0.20
	CheckpointMissingScore  = 0.15
	NewsQuietScore          = 0.05
)

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
