package service

import (
	"github.com/tmkhang/Margays/internal/model"
)

// Aggregation thresholds, in percent of all answers on a submission.
//
// A separate legacy verification table used 50%/30% cutoffs; the live
// behavior has always been 40%/20% and that is what this service keeps.
const (
	highRiskHighThresholdPct   = 40
	highRiskMediumThresholdPct = 20
	mediumRiskThresholdPct     = 50
)

// RiskAggregatorService rolls per-answer risk levels up into one submission
// risk level.
type RiskAggregatorService interface {
	AggregateRisk(levels []model.RiskLevel) model.RiskLevel
}

type riskAggregatorService struct{}

func NewRiskAggregatorService() RiskAggregatorService {
	return &riskAggregatorService{}
}

// AggregateRisk applies the threshold policy, first match wins:
// >=40% high answers is high, >=20% high is medium, >=50% medium is medium,
// any high at all is at least medium, otherwise low. The any-high floor keeps
// a single bad answer from being averaged away. Pure and idempotent: the same
// snapshot always yields the same result.
func (s *riskAggregatorService) AggregateRisk(levels []model.RiskLevel) model.RiskLevel {
	if len(levels) == 0 {
		return model.RiskLow
	}

	var highCount, mediumCount int
	for _, level := range levels {
		switch level {
		case model.RiskHigh:
			highCount++
		case model.RiskMedium:
			mediumCount++
		}
	}

	total := len(levels)
	highPct := float64(highCount) / float64(total) * 100
	mediumPct := float64(mediumCount) / float64(total) * 100

	switch {
	case highPct >= highRiskHighThresholdPct:
		return model.RiskHigh
	case highPct >= highRiskMediumThresholdPct:
		return model.RiskMedium
	case mediumPct >= mediumRiskThresholdPct:
		return model.RiskMedium
	case highCount > 0:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

// effectiveLevels collects the effective risk of each answer for aggregation.
// Answers with neither an admin nor a system value count as low.
func effectiveLevels(answers []model.Answer) []model.RiskLevel {
	levels := make([]model.RiskLevel, 0, len(answers))
	for i := range answers {
		level := answers[i].EffectiveRiskLevel()
		if !level.Valid() {
			level = model.RiskLow
		}
		levels = append(levels, level)
	}
	return levels
}
