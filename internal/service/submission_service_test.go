package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmkhang/Margays/internal/dto"
	"github.com/tmkhang/Margays/internal/model"
)

func TestNormalizeAnswer(t *testing.T) {
	question := mfaQuestion()

	t.Run("direct option", func(t *testing.T) {
		text, isCustom, err := normalizeAnswer(question, dto.SubmissionAnswerDTO{QuestionID: 1, Answer: "No"}, 0)
		require.NoError(t, err)
		assert.Equal(t, "No", text)
		assert.False(t, isCustom)
	})

	t.Run("others substitutes free text", func(t *testing.T) {
		item := dto.SubmissionAnswerDTO{QuestionID: 1, Answer: model.AnswerOthers, CustomAnswer: "we use passkeys"}
		text, isCustom, err := normalizeAnswer(question, item, 0)
		require.NoError(t, err)
		assert.Equal(t, "we use passkeys", text)
		assert.True(t, isCustom)
	})

	t.Run("others without text is rejected", func(t *testing.T) {
		item := dto.SubmissionAnswerDTO{QuestionID: 1, Answer: model.AnswerOthers}
		_, _, err := normalizeAnswer(question, item, 2)
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "answers.2.custom_answer", validationErr.Field)
	})

	t.Run("unknown option rejected when others not allowed", func(t *testing.T) {
		strict := &model.Question{
			ID:              5,
			PossibleAnswers: model.StringList{"Yes", "No"},
		}
		_, _, err := normalizeAnswer(strict, dto.SubmissionAnswerDTO{QuestionID: 5, Answer: "Maybe"}, 1)
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "answers.1.answer", validationErr.Field)
	})

	t.Run("free text accepted when others allowed", func(t *testing.T) {
		text, isCustom, err := normalizeAnswer(question, dto.SubmissionAnswerDTO{QuestionID: 1, Answer: "half the fleet"}, 0)
		require.NoError(t, err)
		assert.Equal(t, "half the fleet", text)
		assert.True(t, isCustom)
	})
}

func TestRecommendationFor(t *testing.T) {
	preset := "Roll out MFA to remaining accounts within a week."
	withPreset := &model.Question{PossibleRecommendation: &preset}
	withoutPreset := &model.Question{}

	tests := []struct {
		name     string
		question *model.Question
		level    model.RiskLevel
		want     string
	}{
		{"high uses preset", withPreset, model.RiskHigh, preset},
		{"high without preset uses default", withoutPreset, model.RiskHigh, model.DefaultReviewRecommendation},
		{"medium uses stock advice", withPreset, model.RiskMedium, model.FallbackRecommendation(model.RiskMedium)},
		{"low uses stock advice", withoutPreset, model.RiskLow, model.FallbackRecommendation(model.RiskLow)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, recommendationFor(tc.question, tc.level))
		})
	}
}

func TestDedupeAnswers(t *testing.T) {
	got := dedupeAnswers([]string{"Yes", "No", "Yes", "Others", "No"})
	assert.Equal(t, model.StringList{"Yes", "No", "Others"}, got)
}

func TestValidateCriteria(t *testing.T) {
	answers := model.StringList{"Yes", "No", model.AnswerOthers}

	t.Run("valid", func(t *testing.T) {
		criteria := model.RiskCriteria{
			model.RiskHigh: {"No"},
			model.RiskLow:  {"Yes", model.AnswerOthers},
		}
		assert.NoError(t, validateCriteria(criteria, answers))
	})

	t.Run("unknown level", func(t *testing.T) {
		criteria := model.RiskCriteria{"critical": {"No"}}
		var validationErr *ValidationError
		require.ErrorAs(t, validateCriteria(criteria, answers), &validationErr)
	})

	t.Run("criteria answer outside options", func(t *testing.T) {
		criteria := model.RiskCriteria{model.RiskHigh: {"Never"}}
		var validationErr *ValidationError
		require.ErrorAs(t, validateCriteria(criteria, answers), &validationErr)
	})
}

func TestReviewProgress(t *testing.T) {
	assert.Equal(t, 0.0, reviewProgress(0, 0))
	assert.Equal(t, 50.0, reviewProgress(1, 2))
	assert.Equal(t, 33.33, reviewProgress(1, 3))
	assert.Equal(t, 100.0, reviewProgress(4, 4))
}
