package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tmkhang/Margays/internal/model"
)

func mfaQuestion() *model.Question {
	return &model.Question{
		ID:              1,
		Question:        "Is multi-factor authentication enforced for all accounts?",
		PossibleAnswers: model.StringList{"Yes", "Partially", "No", model.AnswerOthers},
		RiskCriteria: model.RiskCriteria{
			model.RiskHigh:   {"No"},
			model.RiskMedium: {"Partially"},
			model.RiskLow:    {"Yes"},
		},
	}
}

func TestEvaluateAnswerRisk(t *testing.T) {
	evaluator := NewRiskEvaluatorService()
	question := mfaQuestion()

	tests := []struct {
		name     string
		answer   string
		isCustom bool
		want     model.RiskLevel
	}{
		{"high criteria match", "No", false, model.RiskHigh},
		{"medium criteria match", "Partially", false, model.RiskMedium},
		{"low criteria match", "Yes", false, model.RiskLow},
		{"custom answer defaults to low", "we use hardware keys", true, model.RiskLow},
		{"unmatched answer defaults to low", "Unknown option", false, model.RiskLow},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, evaluator.EvaluateAnswerRisk(question, tc.answer, tc.isCustom))
		})
	}
}

func TestEvaluateAnswerRiskHighWinsOverlap(t *testing.T) {
	evaluator := NewRiskEvaluatorService()
	question := &model.Question{
		ID:              2,
		PossibleAnswers: model.StringList{"Sometimes"},
		RiskCriteria: model.RiskCriteria{
			model.RiskHigh: {"Sometimes"},
			model.RiskLow:  {"Sometimes"},
		},
	}

	assert.Equal(t, model.RiskHigh, evaluator.EvaluateAnswerRisk(question, "Sometimes", false))
}

func TestEvaluateAnswerRiskCustomIgnoresCriteria(t *testing.T) {
	evaluator := NewRiskEvaluatorService()
	question := mfaQuestion()

	// Even free text equal to a high-risk option scores low when custom.
	assert.Equal(t, model.RiskLow, evaluator.EvaluateAnswerRisk(question, "No", true))
}
