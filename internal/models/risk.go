package models

// ComponentKey names one of the five risk dimensions of a brief.
type ComponentKey string

const (
	ComponentOps        ComponentKey = "ops"
	ComponentWeatherDep ComponentKey = "weather_dep"
	ComponentWeatherArr ComponentKey = "weather_arr"
	ComponentTSA        ComponentKey = "tsa"
	ComponentNews       ComponentKey = "news"
)

// ComponentKeys lists the components in canonical order.
var ComponentKeys = []ComponentKey{
	ComponentOps,
	ComponentWeatherDep,
	ComponentWeatherArr,
	ComponentTSA,
	ComponentNews,
}

// Tier is the discretized risk level.
type Tier string

const (
	TierGreen  Tier = "green"
	TierYellow Tier = "yellow"
	TierRed    Tier = "red"
)

// Severity ranks green 0, yellow 1 and red 2; unknown tiers rank -1.
func (t Tier) Severity() int {
	switch t {
	case TierGreen:
		return 0
	case TierYellow:
		return 1
	case TierRed:
		return 2
	default:
		return -1
	}
}

// WaitBucket is the qualitative checkpoint wait estimate.
type WaitBucket string

const (
	WaitUnknown  WaitBucket = "unknown"
	WaitLow      WaitBucket = "low"
	WaitModerate WaitBucket = "moderate"
	WaitHigh     WaitBucket = "high"
	WaitSevere   WaitBucket = "severe"
)

// Confidence describes how specific the headlines behind an estimate were.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Rank orders confidence levels.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 2
	case ConfidenceMedium:
		return 1
	default:
		return 0
	}
}

// SecurityIntelligenceEstimate is the structured reading of checkpoint-related headlines.
type SecurityIntelligenceEstimate struct {
	Score      float64    `json:"score"`
	Issues     []string   `json:"issues"`
	WaitBucket WaitBucket `json:"waitBucket"`
	Advisory   string     `json:"advisory"`
	Confidence Confidence `json:"confidence"`
	// Method records which path produced the estimate: "llm", "keywords" or "default".
	Method string `json:"method"`
}

// RiskComponent is one weighted dimension of a brief.
type RiskComponent struct {
	Key         ComponentKey `json:"key"`
	Score       float64      `json:"score"`
	Explanation string       `json:"explanation"`
	Weight      float64      `json:"weight"`
}

// Contribution is the component's share of the aggregate score.
func (c RiskComponent) Contribution() float64 {
	return c.Score * c.Weight
}

// RiskBrief is the fused risk judgment for one flight on one date.
type RiskBrief struct {
	FlightIata         string          `json:"flightIata"`
	Date               string          `json:"date"`
	DepIata            string          `json:"depIata"`
	ArrIata            string          `json:"arrIata"`
	RiskScore          float64         `json:"riskScore"`
	Tier               Tier            `json:"tier"`
	Components         []RiskComponent `json:"components"`
	TopSignals         []string        `json:"topSignals"`
	RecommendedActions []string        `json:"recommendedActions"`
}

// Component returns the component with the given key.
func (b *RiskBrief) Component(key ComponentKey) (RiskComponent, bool) {
	for _, c := range b.Components {
		if c.Key == key {
			return c, true
		}
	}
	return RiskComponent{}, false
}
