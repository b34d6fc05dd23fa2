// Package checkpoint decides which evidence backs the checkpoint-wait component and scores it.
package checkpoint

import (
	"fmt"

	"github.com/DeafMist/flight-risk-radar/backend/internal/models"
	"github.com/DeafMist/flight-risk-radar/backend/internal/scoring"
)

// Provenance names the evidentiary basis of a resolution.
type Provenance string

const (
	ProvenancePrimary     Provenance = "primary"
	ProvenanceFallback    Provenance = "fallback"
	ProvenanceUnavailable Provenance = "unavailable"
)

// Resolution is one of Primary, Fallback or Unavailable.
type Resolution interface {
	Provenance() Provenance
	sealed()
}

// Primary carries telemetry records; it always holds at least one.
type Primary struct {
	Records []models.CheckpointWaitRecord
}

// Fallback carries the headline-derived estimate and the headlines behind it.
type Fallback struct {
	Estimate  models.SecurityIntelligenceEstimate
	Headlines []models.NewsHeadline
}

// Unavailable means neither telemetry nor headlines were found.
type Unavailable struct{}

func (Primary) Provenance() Provenance     { return ProvenancePrimary }
func (Fallback) Provenance() Provenance    { return ProvenanceFallback }
func (Unavailable) Provenance() Provenance { return ProvenanceUnavailable }

func (Primary) sealed()     {}
func (Fallback) sealed()    {}
func (Unavailable) sealed() {}

// ScaleWaits returns res with every telemetry wait multiplied by factor. Other variants are
// returned unchanged.
func ScaleWaits(res Resolution, factor float64) Resolution {
	p, ok := res.(Primary)
	if !ok || factor <= 0 || factor == 1 {
		return res
	}
	scaled := make([]models.CheckpointWaitRecord, len(p.Records))
	for i, r := range p.Records {
		scaled[i] = models.CheckpointWaitRecord{Timestamp: r.Timestamp, WaitMinutes: r.WaitMinutes * factor}
	}
	return Primary{Records: scaled}
}

// Score turns a resolution into the tsa signal, naming the provenance in the explanation.
func Score(res Resolution, leadMinutes int) scoring.Signal {
	var sig scoring.Signal
	switch r := res.(type) {
	case Primary:
		sig = scoring.ScoreCheckpointWait(r.Records, leadMinutes)
		sig.Explanation = "primary telemetry: " + sig.Explanation
	case Fallback:
		sig = scoring.ScoreCheckpointEstimate(r.Estimate, leadMinutes)
		sig.Explanation = fmt.Sprintf("fallback from %d headlines (%s): %s",
			len(r.Headlines), r.Estimate.Method, sig.Explanation)
	case Unavailable, nil:
		sig = scoring.ScoreCheckpointMissing(leadMinutes)
		sig.Explanation = "unavailable: " + sig.Explanation
	default:
		panic(fmt.Sprintf("checkpoint: unhandled resolution %T", res))
	}
	return sig
}
