package scoring

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/DeafMist/flight-risk-radar/backend/internal/models"
)

type band struct {
	upTo  float64
	score float64
}

// delay bands in minutes, inclusive upper bound.
var delayBands = []band{
	{upTo: 15, score: 0.05},
	{upTo: 30, score: 0.15},
	{upTo: 60, score: 0.35},
	{upTo: 120, score: 0.60},
}

const longDelayScore = 0.85

// ScoreOperations scores the operational state of a flight. A nil snapshot means the
// flight could not be found.
func ScoreOperations(snap *models.FlightOperationsSnapshot) Signal {
	if snap == nil {
		return Signal{
			Score:       FlightNotFoundScore,
			Explanation: "flight not found; operations status unknown",
		}
	}

	delay := math.Max(endpointDelay(snap.Departure), endpointDelay(snap.Arrival))
	score := longDelayScore
	for _, b := range delayBands {
		if delay <= b.upTo {
			score = b.score
			break
		}
	}

	status := strings.ToLower(strings.TrimSpace(snap.Status))
	label := status
	if label == "" {
		label = "unknown"
	}

	switch {
	case strings.Contains(status, "cancel"):
		score = 1.0
	case strings.Contains(status, "divert"):
		score = 0.95
	case strings.Contains(status, "landed"):
		score = 0.05
	case strings.Contains(status, "active"):
		score = math.Max(score, 0.10)
	}

	return Signal{
		Score:       clamp01(score),
		Explanation: fmt.Sprintf("status=%s, delay %.0fmin", label, delay),
	}
}

// endpointDelay is the absolute drift in minutes between the schedule and the best
// available observation. Missing timestamps count as no drift.
func endpointDelay(ep models.FlightEndpoint) float64 {
	if ep.Scheduled == nil {
		return 0
	}
	observed := ep.Actual
	if observed == nil {
		observed = ep.Estimated
	}
	if observed == nil {
		return 0
	}
	return math.Abs(observed.Sub(*ep.Scheduled).Round(time.Second).Minutes())
}
