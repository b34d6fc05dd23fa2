package intel

import (
	"sort"
	"strings"

	"github.com/DeafMist/flight-risk-radar/backend/internal/models"
	"github.com/DeafMist/flight-risk-radar/backend/internal/processing"
)

type issueClass struct {
	issue string
	score float64
	terms processing.KeywordSet
}

var issueClasses = []issueClass{
	{issue: "closure", score: 0.85, terms: processing.NewKeywordSet("closed", "closure*", "evacuat*", "shut down terminal*")},
	{issue: "security incident", score: 0.80, terms: processing.NewKeywordSet("breach*", "suspicious package*", "lockdown*", "shooting", "bomb threat*", "security incident*")},
	{issue: "strike", score: 0.70, terms: processing.NewKeywordSet("strike", "strikes", "protest", "protests", "protesters", "walkout", "walkouts", "sickout", "sick-out")},
	{issue: "outage", score: 0.65, terms: processing.NewKeywordSet("outage*", "system failure*", "systems down", "glitch*")},
	{issue: "long waits", score: 0.50, terms: processing.NewKeywordSet("long line*", "long wait*", "hours-long", "hour-long", "wait times soar", "lines stretch", "record wait*")},
	{issue: "staffing", score: 0.45, terms: processing.NewKeywordSet("staffing", "shutdown", "shortage*", "callout*", "call out", "calling out", "unpaid", "short-staffed")},
}

// KeywordEstimate is the deterministic reading used when no summarizer is available.
func KeywordEstimate(headlines []models.NewsHeadline) models.SecurityIntelligenceEstimate {
	titles := make([]string, 0, len(headlines))
	for _, h := range headlines {
		titles = append(titles, strings.ToLower(h.Title))
	}
	text := processing.MaskIncidental(strings.Join(titles, " | "))

	var score float64
	issues := []string{}
	for _, c := range issueClasses {
		if c.terms.Match(text) {
			issues = append(issues, c.issue)
			if c.score > score {
				score = c.score
			}
		}
	}
	sort.Strings(issues)

	if len(issues) == 0 {
		return models.SecurityIntelligenceEstimate{
			Score:      NeutralScore,
			Issues:     issues,
			WaitBucket: models.WaitUnknown,
			Advisory:   "Headlines found but none describe checkpoint disruption.",
			Confidence: models.ConfidenceLow,
			Method:     MethodKeywords,
		}
	}

	bucket := BucketFor(score)
	return models.SecurityIntelligenceEstimate{
		Score:      score,
		Issues:     issues,
		WaitBucket: bucket,
		Advisory:   advisoryFor(bucket),
		Confidence: models.ConfidenceMedium,
		Method:     MethodKeywords,
	}
}

// BucketFor maps a score to its wait bucket.
func BucketFor(score float64) models.WaitBucket {
	switch {
	case score >= 0.8:
		return models.WaitSevere
	case score >= 0.6:
		return models.WaitHigh
	case score >= 0.4:
		return models.WaitModerate
	default:
		return models.WaitLow
	}
}

func advisoryFor(bucket models.WaitBucket) string {
	switch bucket {
	case models.WaitSevere:
		return "Checkpoint operations may be disrupted; check the airport's status before leaving."
	case models.WaitHigh:
		return "Expect long security lines; arrive well ahead of the usual time."
	case models.WaitModerate:
		return "Security lines may run longer than normal; add a buffer."
	default:
		return "No significant checkpoint issues reported."
	}
}
