package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tmkhang/Margays/internal/model"
)

func levels(counts map[model.RiskLevel]int) []model.RiskLevel {
	var out []model.RiskLevel
	for level, n := range counts {
		for i := 0; i < n; i++ {
			out = append(out, level)
		}
	}
	return out
}

func TestAggregateRisk(t *testing.T) {
	agg := NewRiskAggregatorService()

	tests := []struct {
		name   string
		counts map[model.RiskLevel]int
		want   model.RiskLevel
	}{
		{
			name:   "no answers is low",
			counts: map[model.RiskLevel]int{},
			want:   model.RiskLow,
		},
		{
			name:   "all low stays low",
			counts: map[model.RiskLevel]int{model.RiskLow: 5},
			want:   model.RiskLow,
		},
		{
			name:   "forty percent high is high",
			counts: map[model.RiskLevel]int{model.RiskHigh: 2, model.RiskLow: 3},
			want:   model.RiskHigh,
		},
		{
			name:   "twenty percent high is medium",
			counts: map[model.RiskLevel]int{model.RiskHigh: 1, model.RiskLow: 4},
			want:   model.RiskMedium,
		},
		{
			name:   "sixty percent medium is medium",
			counts: map[model.RiskLevel]int{model.RiskMedium: 3, model.RiskLow: 2},
			want:   model.RiskMedium,
		},
		{
			name:   "medium below half stays low",
			counts: map[model.RiskLevel]int{model.RiskMedium: 2, model.RiskLow: 3},
			want:   model.RiskLow,
		},
		{
			name:   "single high among many is floored to medium",
			counts: map[model.RiskLevel]int{model.RiskHigh: 1, model.RiskLow: 99},
			want:   model.RiskMedium,
		},
		{
			name:   "two of three high is high",
			counts: map[model.RiskLevel]int{model.RiskHigh: 2, model.RiskLow: 1},
			want:   model.RiskHigh,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, agg.AggregateRisk(levels(tc.counts)))
		})
	}
}

func TestAggregateRiskIsIdempotent(t *testing.T) {
	agg := NewRiskAggregatorService()
	input := []model.RiskLevel{model.RiskHigh, model.RiskLow, model.RiskMedium, model.RiskLow}

	first := agg.AggregateRisk(input)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, agg.AggregateRisk(input))
	}
}

func TestEffectiveLevels(t *testing.T) {
	high := model.RiskHigh
	low := model.RiskLow

	answers := []model.Answer{
		{SystemRiskLevel: &low, AdminRiskLevel: &high},
		{SystemRiskLevel: &high},
		{}, // never rated, counts as low
	}

	got := effectiveLevels(answers)
	assert.Equal(t, []model.RiskLevel{model.RiskHigh, model.RiskHigh, model.RiskLow}, got)
}
