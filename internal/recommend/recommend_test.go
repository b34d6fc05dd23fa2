package recommend_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DeafMist/flight-risk-radar/backend/internal/models"
	"github.com/DeafMist/flight-risk-radar/backend/internal/recommend"
)

func components(scores map[models.ComponentKey]float64) []models.RiskComponent {
	out := make([]models.RiskComponent, 0, len(models.ComponentKeys))
	for _, key := range models.ComponentKeys {
		out = append(out, models.RiskComponent{Key: key, Score: scores[key]})
	}
	return out
}

func TestActionsPerTier(t *testing.T) {
	hot := components(map[models.ComponentKey]float64{models.ComponentWeatherDep: 0.9})

	green := recommend.Actions(models.TierGreen, hot)
	require.Len(t, green, 2)

	yellow := recommend.Actions(models.TierYellow, hot)
	require.Len(t, yellow, 3)
	require.NotContains(t, yellow, "Severe weather at departure: expect de-icing, ground holds or diversions.")
}

func TestActionsRedAddsTargetedAdvisories(t *testing.T) {
	got := recommend.Actions(models.TierRed, components(map[models.ComponentKey]float64{
		models.ComponentNews:       0.78,
		models.ComponentOps:        0.85,
		models.ComponentWeatherDep: 0.5,
		models.ComponentTSA:        0.51,
	}))

	require.Len(t, got, 6)
	require.Equal(t, "Flight operations are disrupted: confirm departure time and gate with the airline.", got[3])
	require.Equal(t, "Security checkpoint delays likely: use expedited screening if eligible.", got[4])
	require.Equal(t, "Disruption news on this route: watch for strikes, outages or ground stops.", got[5])
}

func TestActionsDeterministic(t *testing.T) {
	in := components(map[models.ComponentKey]float64{
		models.ComponentWeatherArr: 0.7,
		models.ComponentOps:        0.6,
	})
	first := recommend.Actions(models.TierRed, in)
	for range 20 {
		require.Equal(t, first, recommend.Actions(models.TierRed, in))
	}
}

func TestActionsDoNotAliasTierList(t *testing.T) {
	a := recommend.Actions(models.TierGreen, nil)
	a[0] = "changed"
	require.Equal(t, "Proceed as planned.", recommend.Actions(models.TierGreen, nil)[0])
}
