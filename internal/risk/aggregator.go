package risk

import (
	"fmt"
	"math"
	"sort"

	"github.com/DeafMist/flight-risk-radar/backend/internal/models"
	"github.com/DeafMist/flight-risk-radar/backend/internal/recommend"
	"github.com/DeafMist/flight-risk-radar/backend/internal/scoring"
)

// MaxTopSignals bounds the ranked signal list.
const MaxTopSignals = 3

// MissingSignalScore stands in for a component the caller did not supply.
const MissingSignalScore = 0.20

// BriefMeta identifies the flight a brief is about.
type BriefMeta struct {
	FlightIata string
	Date       string
	DepIata    string
	ArrIata    string
}

// Aggregator combines signals under a fixed profile.
type Aggregator struct {
	profile Profile
}

// NewAggregator validates p and returns an aggregator for it.
func NewAggregator(p Profile) *Aggregator {
	return &Aggregator{profile: MustProfile(p)}
}

// Profile returns the calibration in use.
func (a *Aggregator) Profile() Profile {
	return a.profile
}

// Assemble builds the brief. A missing signal scores MissingSignalScore.
func (a *Aggregator) Assemble(meta BriefMeta, signals map[models.ComponentKey]scoring.Signal) *models.RiskBrief {
	components := make([]models.RiskComponent, 0, len(models.ComponentKeys))
	var total float64
	for _, key := range models.ComponentKeys {
		sig, ok := signals[key]
		if !ok {
			sig = scoring.Signal{Score: MissingSignalScore, Explanation: "no signal"}
		}
		c := models.RiskComponent{
			Key:         key,
			Score:       round3(clamp01(sig.Score)),
			Explanation: sig.Explanation,
			Weight:      a.profile.Weights[key],
		}
		total += c.Contribution()
		components = append(components, c)
	}

	score := round3(clamp01(total))
	tier := a.profile.TierFor(score)

	return &models.RiskBrief{
		FlightIata:         meta.FlightIata,
		Date:               meta.Date,
		DepIata:            meta.DepIata,
		ArrIata:            meta.ArrIata,
		RiskScore:          score,
		Tier:               tier,
		Components:         components,
		TopSignals:         TopSignals(components),
		RecommendedActions: recommend.Actions(tier, components),
	}
}

// TopSignals ranks components by contribution, ties in canonical order, and renders the top three.
func TopSignals(components []models.RiskComponent) []string {
	ranked := make([]models.RiskComponent, len(components))
	copy(ranked, components)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Contribution() > ranked[j].Contribution()
	})

	n := min(MaxTopSignals, len(ranked))
	out := make([]string, 0, n)
	for _, c := range ranked[:n] {
		out = append(out, RenderSignal(c))
	}
	return out
}

// RenderSignal formats a component as "{key}: {explanation} (×{weight})".
func RenderSignal(c models.RiskComponent) string {
	return fmt.Sprintf("%s: %s (×%.2f)", c.Key, c.Explanation, c.Weight)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
