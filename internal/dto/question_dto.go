package dto

import (
	"time"

	"github.com/tmkhang/Margays/internal/model"
)

// CreateQuestionRequest is used for both creating and updating catalog
// questions. Risk criteria values accept either a single string or a list.
type CreateQuestionRequest struct {
	Question               string             `json:"question" binding:"required,max=1000"`
	Description            *string            `json:"description" binding:"omitempty,max=2000"`
	Category               string             `json:"category" binding:"required,max=255"`
	PossibleAnswers        []string           `json:"possible_answers" binding:"required,min=1,dive,required,max=255"`
	RiskCriteria           model.RiskCriteria `json:"risk_criteria" binding:"required"`
	PossibleRecommendation *string            `json:"possible_recommendation" binding:"omitempty,max=2000"`
}

type QuestionResponse struct {
	ID                     uint               `json:"id"`
	Question               string             `json:"question"`
	Description            *string            `json:"description,omitempty"`
	Category               string             `json:"category"`
	PossibleAnswers        []string           `json:"possible_answers"`
	RiskCriteria           model.RiskCriteria `json:"risk_criteria"`
	PossibleRecommendation *string            `json:"possible_recommendation,omitempty"`
	CreatedAt              time.Time          `json:"created_at"`
	UpdatedAt              time.Time          `json:"updated_at"`
}

// AnswerDistributionDTO is the share of responses one option received.
type AnswerDistributionDTO struct {
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// QuestionUsageDTO summarizes how a question has been answered across all
// submissions.
type QuestionUsageDTO struct {
	TotalResponses     int64                            `json:"total_responses"`
	AnswerDistribution map[string]AnswerDistributionDTO `json:"answer_distribution"`
}

// QuestionStatisticsDTO is the admin statistics view of one question.
type QuestionStatisticsDTO struct {
	QuestionResponse
	AnswersCount       int64            `json:"answers_count"`
	HighRiskCount      int64            `json:"high_risk_count"`
	PendingReviewCount int64            `json:"pending_review_count"`
	UsageStats         QuestionUsageDTO `json:"usage_stats"`
}
