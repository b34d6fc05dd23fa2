package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/DeafMist/flight-risk-radar/backend/internal/models"
)

// maxWaitSamples bounds how many recent telemetry records are averaged.
const maxWaitSamples = 6

// ScoreCheckpointWait scores observed checkpoint waits against the traveler's lead time.
func ScoreCheckpointWait(records []models.CheckpointWaitRecord, leadMinutes int) Signal {
	if short, ok := shortLeadScore(leadMinutes); ok {
		return Signal{
			Score:       short,
			Explanation: fmt.Sprintf("lead time %dmin leaves little room for any checkpoint wait", leadMinutes),
		}
	}

	recent := recentRecords(records)
	if len(recent) == 0 {
		return Signal{
			Score:       CheckpointMissingScore,
			Explanation: fmt.Sprintf("no checkpoint wait data; lead time %dmin", leadMinutes),
		}
	}

	var sum, peak float64
	for _, r := range recent {
		sum += r.WaitMinutes
		peak = math.Max(peak, r.WaitMinutes)
	}
	avg := sum / float64(len(recent))

	var score float64
	if leadMinutes >= 180 {
		score = 0.05
	} else {
		score = averageWaitBand(avg)
		switch {
		case peak > 90:
			score = math.Max(score, 0.60)
		case peak > 60:
			score = math.Max(score, 0.45)
		}
	}
	if leadMinutes >= 120 && avg > 45 {
		score = math.Max(score, 0.40)
	}

	return Signal{
		Score: clamp01(score),
		Explanation: fmt.Sprintf("avg wait %.0fmin, max %.0fmin over %d samples; lead time %dmin",
			avg, peak, len(recent), leadMinutes),
	}
}

// ScoreCheckpointEstimate scores a text-intelligence estimate. Short lead times still
// dominate, exactly as they do for telemetry.
func ScoreCheckpointEstimate(est models.SecurityIntelligenceEstimate, leadMinutes int) Signal {
	score := clamp01(est.Score)
	if short, ok := shortLeadScore(leadMinutes); ok {
		score = math.Max(score, short)
	}

	explanation := fmt.Sprintf("wait %s, confidence %s", est.WaitBucket, est.Confidence)
	if len(est.Issues) > 0 {
		explanation += "; issues: " + strings.Join(est.Issues, ", ")
	}
	return Signal{Score: score, Explanation: explanation}
}

// ScoreCheckpointMissing is the signal when neither telemetry nor headlines exist.
func ScoreCheckpointMissing(leadMinutes int) Signal {
	return ScoreCheckpointWait(nil, leadMinutes)
}

func shortLeadScore(leadMinutes int) (float64, bool) {
	switch {
	case leadMinutes < 45:
		return 0.90, true
	case leadMinutes < 60:
		return 0.70, true
	case leadMinutes < 90:
		return 0.40, true
	default:
		return 0, false
	}
}

func averageWaitBand(avg float64) float64 {
	switch {
	case avg < 10:
		return 0.05
	case avg < 20:
		return 0.15
	case avg < 30:
		return 0.30
	case avg < 45:
		return 0.50
	default:
		return 0.70
	}
}

// recentRecords drops undated or negative samples and keeps the newest few.
func recentRecords(records []models.CheckpointWaitRecord) []models.CheckpointWaitRecord {
	valid := make([]models.CheckpointWaitRecord, 0, len(records))
	for _, r := range records {
		if r.Timestamp.IsZero() || r.WaitMinutes < 0 || math.IsNaN(r.WaitMinutes) || math.IsInf(r.WaitMinutes, 0) {
			continue
		}
		valid = append(valid, r)
	}
	sort.SliceStable(valid, func(i, j int) bool { return valid[i].Timestamp.After(valid[j].Timestamp) })
	if len(valid) > maxWaitSamples {
		valid = valid[:maxWaitSamples]
	}
	return valid
}
