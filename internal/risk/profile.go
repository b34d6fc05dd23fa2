// Package risk fuses the five component signals into a RiskBrief.
package risk

import (
	"fmt"
	"math"
	"strings"

	"github.com/DeafMist/flight-risk-radar/backend/internal/models"
)

// Profile is a calibration: one weight per component plus the tier thresholds.
type Profile struct {
	Name        string
	Weights     map[models.ComponentKey]float64
	GreenBelow  float64
	YellowBelow float64
}

const weightTolerance = 1e-9

// MustProfile panics unless the weights cover exactly the five components and sum to 1.
func MustProfile(p Profile) Profile {
	if err := p.Validate(); err != nil {
		panic(err)
	}
	return p
}

// Validate checks the weight and threshold invariants.
func (p Profile) Validate() error {
	if len(p.Weights) != len(models.ComponentKeys) {
		return fmt.Errorf("profile %s: want %d weights, got %d", p.Name, len(models.ComponentKeys), len(p.Weights))
	}
	var sum float64
	for _, key := range models.ComponentKeys {
		w, ok := p.Weights[key]
		if !ok {
			return fmt.Errorf("profile %s: missing weight for %s", p.Name, key)
		}
		if w < 0 {
			return fmt.Errorf("profile %s: negative weight for %s", p.Name, key)
		}
		sum += w
	}
	if math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("profile %s: weights sum to %v, want 1", p.Name, sum)
	}
	if !(0 < p.GreenBelow && p.GreenBelow < p.YellowBelow && p.YellowBelow <= 1) {
		return fmt.Errorf("profile %s: thresholds must satisfy 0 < green < yellow <= 1", p.Name)
	}
	return nil
}

// TierFor maps an aggregate score to a tier.
func (p Profile) TierFor(score float64) models.Tier {
	switch {
	case score < p.GreenBelow:
		return models.TierGreen
	case score < p.YellowBelow:
		return models.TierYellow
	default:
		return models.TierRed
	}
}

// Operational is the canonical calibration.
var Operational = MustProfile(Profile{
	Name: "operational",
	Weights: map[models.ComponentKey]float64{
		models.ComponentOps:        0.40,
		models.ComponentWeatherDep: 0.20,
		models.ComponentWeatherArr: 0.15,
		models.ComponentTSA:        0.15,
		models.ComponentNews:       0.10,
	},
	GreenBelow:  0.30,
	YellowBelow: 0.60,
})

// NewsWeighted leans on disruption news and arrival weather.
var NewsWeighted = MustProfile(Profile{
	Name: "news_weighted",
	Weights: map[models.ComponentKey]float64{
		models.ComponentOps:        0.25,
		models.ComponentWeatherDep: 0.20,
		models.ComponentWeatherArr: 0.20,
		models.ComponentTSA:        0.10,
		models.ComponentNews:       0.25,
	},
	GreenBelow:  0.25,
	YellowBelow: 0.55,
})

// ProfileByName returns a named profile; an empty name selects Operational.
func ProfileByName(name string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", Operational.Name:
		return Operational, nil
	case NewsWeighted.Name:
		return NewsWeighted, nil
	default:
		return Profile{}, fmt.Errorf("unknown risk profile %q", name)
	}
}
