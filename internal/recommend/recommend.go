// Package recommend maps a tier and its components to traveler actions.
package recommend

import "github.com/DeafMist/flight-risk-radar/backend/internal/models"

// SeverityThreshold is the component score above which a red brief adds a targeted advisory.
const SeverityThreshold = 0.5

var tierActions = map[models.Tier][]string{
	models.TierGreen: {
		"Proceed as planned.",
		"Check flight status once more before leaving for the airport.",
	},
	models.TierYellow: {
		"Add a 30-minute buffer to your airport arrival time.",
		"Enable airline notifications for gate and schedule changes.",
		"Keep your airline's app or rebooking line handy.",
	},
	models.TierRed: {
		"Arrive at least 60 minutes earlier than usual.",
		"Review same-day change and rebooking options with your airline now.",
		"Identify an alternate flight or route in case of cancellation.",
	},
}

var advisories = map[models.ComponentKey]string{
	models.ComponentOps:        "Flight operations are disrupted: confirm departure time and gate with the airline.",
	models.ComponentWeatherDep: "Severe weather at departure: expect de-icing, ground holds or diversions.",
	models.ComponentWeatherArr: "Severe weather at arrival: allow for holding patterns and missed connections.",
	models.ComponentTSA:        "Security checkpoint delays likely: use expedited screening if eligible.",
	models.ComponentNews:       "Disruption news on this route: watch for strikes, outages or ground stops.",
}

// Actions is deterministic: the same tier and components always yield the same list.
func Actions(tier models.Tier, components []models.RiskComponent) []string {
	base := tierActions[tier]
	out := make([]string, 0, len(base)+len(advisories))
	out = append(out, base...)
	if tier != models.TierRed {
		return out
	}

	byKey := make(map[models.ComponentKey]float64, len(components))
	for _, c := range components {
		byKey[c.Key] = c.Score
	}
	for _, key := range models.ComponentKeys {
		if byKey[key] > SeverityThreshold {
			out = append(out, advisories[key])
		}
	}
	return out
}
