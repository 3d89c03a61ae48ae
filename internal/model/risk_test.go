package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(level RiskLevel) *RiskLevel {
	return &level
}

func TestEffectiveRisk(t *testing.T) {
	assert.Equal(t, RiskHigh, EffectiveRisk(ptr(RiskHigh), ptr(RiskLow)), "admin override wins")
	assert.Equal(t, RiskMedium, EffectiveRisk(nil, ptr(RiskMedium)))
	assert.Equal(t, RiskPending, EffectiveRisk(nil, nil))
}

func TestRiskLevelScore(t *testing.T) {
	assert.Equal(t, 75.0, RiskHigh.Score())
	assert.Equal(t, 50.0, RiskMedium.Score())
	assert.Equal(t, 25.0, RiskLow.Score())
	assert.Equal(t, 25.0, RiskPending.Score())
}

func TestRiskLevelValid(t *testing.T) {
	assert.True(t, RiskLow.Valid())
	assert.True(t, RiskMedium.Valid())
	assert.True(t, RiskHigh.Valid())
	assert.False(t, RiskPending.Valid())
	assert.False(t, RiskLevel("critical").Valid())
}

func TestFallbackRecommendation(t *testing.T) {
	assert.Contains(t, FallbackRecommendation(RiskHigh), "Immediate action")
	assert.Contains(t, FallbackRecommendation(RiskMedium), "1-2 weeks")
	assert.Contains(t, FallbackRecommendation(RiskLow), "next security review")
	assert.Equal(t, FallbackRecommendation(RiskLow), FallbackRecommendation(RiskLevel("unknown")))
}

func TestSubmissionEffectiveOverallRisk(t *testing.T) {
	s := Submission{SystemOverallRisk: ptr(RiskMedium)}
	assert.Equal(t, RiskMedium, s.EffectiveOverallRisk())

	s.AdminOverallRisk = ptr(RiskLow)
	assert.Equal(t, RiskLow, s.EffectiveOverallRisk())
}

func TestAnswerIsReviewed(t *testing.T) {
	var a Answer
	assert.False(t, a.IsReviewed())

	reviewer := uint(7)
	a.ReviewedBy = &reviewer
	assert.True(t, a.IsReviewed())
}
