package scoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/DeafMist/flight-risk-radar/backend/internal/processing"
)

type keywordClass struct {
	tag   string
	score float64
	terms processing.KeywordSet
}

// newsClasses are disjoint severity floors; a batch scores as the highest matched class.
var newsClasses = []keywordClass{
	{tag: "strike", score: 0.78, terms: processing.NewKeywordSet("strike", "strikes", "striking", "walkout*", "walk out", "labor action", "labour action", "industrial action", "picket*")},
	{tag: "outage", score: 0.72, terms: processing.NewKeywordSet("outage*", "system failure", "it failure", "cyberattack*", "cyber attack*", "ransomware", "computer glitch*", "systems down")},
	{tag: "ground_stop", score: 0.68, terms: processing.NewKeywordSet("ground stop*", "ground delay program", "groundstop*")},
	{tag: "atc_staffing", score: 0.60, terms: processing.NewKeywordSet("air traffic control", "atc staffing", "controller shortage*", "faa staffing")},
	{tag: "severe_weather", score: 0.60, terms: processing.NewKeywordSet("hurricane*", "blizzard*", "typhoon*", "tornado*", "winter storm*", "tropical storm*", "nor'easter*", "ice storm*")},
	{tag: "mass_cancellation", score: 0.60, terms: processing.NewKeywordSet("cancellations", "flights canceled", "flights cancelled", "mass cancel*", "grounded")},
	{tag: "closure", score: 0.60, terms: processing.NewKeywordSet("runway closed", "runway closure", "airport closed", "airport closure", "terminal closed", "evacuat*")},
	{tag: "delay", score: 0.35, terms: processing.NewKeywordSet("delay", "delays", "delayed", "storm", "storms")},
	{tag: "maintenance", score: 0.28, terms: processing.NewKeywordSet("maintenance", "crew shortage", "pilot shortage", "staff shortage", "mechanical")},
}

const unclassifiedNewsScore = 0.10

// ScoreNews scores a batch of disruption-news titles already filtered to the flight's
// airline and route.
func ScoreNews(titles []string) Signal {
	hits := make([]string, 0, len(titles))
	for _, t := range titles {
		if s := strings.TrimSpace(t); s != "" {
			hits = append(hits, s)
		}
	}
	if len(hits) == 0 {
		return Signal{Score: NewsQuietScore, Explanation: "no disruption news found"}
	}

	text := processing.MaskIncidental(strings.ToLower(strings.Join(hits, " | ")))
	score, tags := matchClasses(text, newsClasses)
	if len(tags) == 0 {
		return Signal{
			Score:       unclassifiedNewsScore,
			Explanation: fmt.Sprintf("%d headlines, no disruption keywords", len(hits)),
		}
	}

	return Signal{
		Score:       clamp01(score),
		Explanation: fmt.Sprintf("%d headlines; tags: %s", len(hits), strings.Join(tags, ", ")),
	}
}

// matchClasses returns the maximum score across matched classes and the sorted tags.
func matchClasses(text string, classes []keywordClass) (float64, []string) {
	var score float64
	var tags []string
	for _, c := range classes {
		if c.terms.Match(text) {
			tags = append(tags, c.tag)
			if c.score > score {
				score = c.score
			}
		}
	}
	sort.Strings(tags)
	return score, tags
}
