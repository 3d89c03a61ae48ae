package dto

import (
	"time"

	"github.com/tmkhang/Margays/internal/model"
)

// SubmissionAnswerDTO is one answer inside a new audit submission. Selecting
// "Others" with a non-empty custom_answer records the free text instead.
type SubmissionAnswerDTO struct {
	QuestionID   uint   `json:"question_id" binding:"required"`
	Answer       string `json:"answer" binding:"required"`
	CustomAnswer string `json:"custom_answer" binding:"omitempty,max=1000"`
}

// CreateSubmissionRequest is the payload for submitting a completed audit.
type CreateSubmissionRequest struct {
	Title   string                `json:"title" binding:"required,max=255"`
	Answers []SubmissionAnswerDTO `json:"answers" binding:"required,min=1,dive"`
}

// UserSummaryDTO identifies a user on submission and review payloads.
type UserSummaryDTO struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AnswerResponseDTO is one answer within a submission detail view.
type AnswerResponseDTO struct {
	ID              uint              `json:"id"`
	SubmissionID    uint              `json:"submission_id"`
	QuestionID      uint              `json:"question_id"`
	Answer          string            `json:"answer"`
	IsCustomAnswer  bool              `json:"is_custom_answer"`
	SystemRiskLevel *model.RiskLevel  `json:"system_risk_level,omitempty"`
	AdminRiskLevel  *model.RiskLevel  `json:"admin_risk_level,omitempty"`
	EffectiveRisk   model.RiskLevel   `json:"effective_risk"`
	Status          string            `json:"status"`
	AdminNotes      *string           `json:"admin_notes,omitempty"`
	Recommendation  string            `json:"recommendation,omitempty"`
	ReviewedBy      *uint             `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time        `json:"reviewed_at,omitempty"`
	Question        *QuestionResponse `json:"question,omitempty"`
	Reviewer        *UserSummaryDTO   `json:"reviewer,omitempty"`
}

// SubmissionSummaryDTO is one row of the submissions list.
type SubmissionSummaryDTO struct {
	ID                   uint             `json:"id"`
	Title                string           `json:"title"`
	User                 *UserSummaryDTO  `json:"user,omitempty"`
	Status               string           `json:"status"`
	SystemOverallRisk    *model.RiskLevel `json:"system_overall_risk,omitempty"`
	AdminOverallRisk     *model.RiskLevel `json:"admin_overall_risk,omitempty"`
	EffectiveOverallRisk model.RiskLevel  `json:"effective_overall_risk"`
	ReviewProgress       float64          `json:"review_progress"`
	Reviewer             *UserSummaryDTO  `json:"reviewer,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
	ReviewedAt           *time.Time       `json:"reviewed_at,omitempty"`
	AnswersCount         int64            `json:"answers_count"`
	ReviewedAnswersCount int64            `json:"reviewed_answers_count"`
}

// SubmissionDetailDTO is the full submission view including all answers.
type SubmissionDetailDTO struct {
	ID                   uint                `json:"id"`
	Title                string              `json:"title"`
	Status               string              `json:"status"`
	SystemOverallRisk    *model.RiskLevel    `json:"system_overall_risk,omitempty"`
	AdminOverallRisk     *model.RiskLevel    `json:"admin_overall_risk,omitempty"`
	EffectiveOverallRisk model.RiskLevel     `json:"effective_overall_risk"`
	AdminSummary         *string             `json:"admin_summary,omitempty"`
	User                 *UserSummaryDTO     `json:"user,omitempty"`
	Reviewer             *UserSummaryDTO     `json:"reviewer,omitempty"`
	Answers              []AnswerResponseDTO `json:"answers"`
	ReviewProgress       float64             `json:"review_progress"`
	CreatedAt            time.Time           `json:"created_at"`
	ReviewedAt           *time.Time          `json:"reviewed_at,omitempty"`
}
