package dto

import "github.com/tmkhang/Margays/internal/model"

// ReviewAnswerRequest rates a single answer during admin review.
type ReviewAnswerRequest struct {
	AdminRiskLevel string `json:"admin_risk_level" binding:"required,oneof=low medium high"`
	AdminNotes     string `json:"admin_notes" binding:"omitempty,max=1000"`
	Recommendation string `json:"recommendation" binding:"omitempty,min=5,max=1000"`
}

// BulkReviewItem rates one answer inside a bulk review.
type BulkReviewItem struct {
	AnswerID       uint   `json:"answer_id" binding:"required"`
	AdminRiskLevel string `json:"admin_risk_level" binding:"required,oneof=low medium high"`
	AdminNotes     string `json:"admin_notes" binding:"omitempty,max=1000"`
	Recommendation string `json:"recommendation" binding:"omitempty,min=5,max=1000"`
}

// BulkReviewRequest reviews several answers of one submission atomically.
type BulkReviewRequest struct {
	Answers []BulkReviewItem `json:"answers" binding:"required,min=1,dive"`
}

// CompleteReviewRequest closes out a fully reviewed submission.
type CompleteReviewRequest struct {
	AdminOverallRisk string  `json:"admin_overall_risk" binding:"required,oneof=low medium high"`
	AdminSummary     *string `json:"admin_summary" binding:"omitempty,max=2000"`
}

// ReviewAnswerResultDTO reports the outcome of reviewing one answer.
type ReviewAnswerResultDTO struct {
	Message          string            `json:"message"`
	Answer           AnswerResponseDTO `json:"answer"`
	SubmissionStatus string            `json:"submission_status"`
	ReviewProgress   float64           `json:"review_progress"`
}

// BulkReviewResultDTO reports the outcome of a bulk review.
type BulkReviewResultDTO struct {
	Message          string  `json:"message"`
	ReviewedCount    int     `json:"reviewed_count"`
	SkippedCount     int     `json:"skipped_count"`
	SubmissionStatus string  `json:"submission_status"`
	ReviewProgress   float64 `json:"review_progress"`
}

// CompleteReviewResultDTO reports a completed review and, when derivation
// fired, the vulnerability record it produced.
type CompleteReviewResultDTO struct {
	Message             string                  `json:"message"`
	Submission          SubmissionDetailDTO     `json:"submission"`
	VulnerabilityRecord *VulnerabilityRecordDTO `json:"vulnerability_record,omitempty"`
}

// RecalculateRiskResultDTO reports an idempotent system-risk recalculation.
type RecalculateRiskResultDTO struct {
	SubmissionID      uint             `json:"submission_id"`
	PreviousRisk      *model.RiskLevel `json:"previous_risk,omitempty"`
	SystemOverallRisk model.RiskLevel  `json:"system_overall_risk"`
	Changed           bool             `json:"changed"`
}
