package model

// RiskLevel is the three-tier rating used for answers, submissions and
// derived vulnerability records.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"

	// RiskPending is the display value for entities nobody has rated yet.
	// It is never persisted.
	RiskPending RiskLevel = "pending"
)

func (r RiskLevel) Valid() bool {
	return r == RiskLow || r == RiskMedium || r == RiskHigh
}

// Score maps a risk level onto the numeric scale of vulnerability records.
// Unknown values score as low.
func (r RiskLevel) Score() float64 {
	switch r {
	case RiskHigh:
		return 75
	case RiskMedium:
		return 50
	default:
		return 25
	}
}

// EffectiveRisk resolves a rating from an optional admin override and an
// optional system value. The admin value always wins; with neither set the
// result is pending.
func EffectiveRisk(adminLevel, systemLevel *RiskLevel) RiskLevel {
	if adminLevel != nil {
		return *adminLevel
	}
	if systemLevel != nil {
		return *systemLevel
	}
	return RiskPending
}

// DefaultReviewRecommendation is attached to high-risk answers whose question
// carries no preset recommendation.
const DefaultReviewRecommendation = "Review required to address potential security concerns."

// DefaultRemediation is the remediation text for synthetic findings on
// derived vulnerability records.
const DefaultRemediation = "Review and address the high-risk audit finding."

var fallbackRecommendations = map[RiskLevel]string{
	RiskHigh:   "Immediate action required. This poses significant security risks and should be addressed within 24-48 hours.",
	RiskMedium: "Action recommended within 1-2 weeks. Monitor closely and plan remediation.",
	RiskLow:    "Consider improvements when possible. Include in next security review cycle.",
}

// FallbackRecommendation returns the stock remediation advice for a level.
func FallbackRecommendation(level RiskLevel) string {
	if text, ok := fallbackRecommendations[level]; ok {
		return text
	}
	return fallbackRecommendations[RiskLow]
}
