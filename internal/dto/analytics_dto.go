package dto

import (
	"time"

	"github.com/tmkhang/Margays/internal/model"
	"github.com/tmkhang/Margays/internal/repository"
)

// RecentSubmissionDTO is one row of the dashboard's recent-activity list.
type RecentSubmissionDTO struct {
	ID                   uint            `json:"id"`
	Title                string          `json:"title"`
	User                 string          `json:"user"`
	Status               string          `json:"status"`
	EffectiveOverallRisk model.RiskLevel `json:"effective_overall_risk"`
	ReviewProgress       float64         `json:"review_progress"`
	CreatedAt            time.Time       `json:"created_at"`
}

// DashboardDTO is the admin review-queue overview.
type DashboardDTO struct {
	PendingReviews      int64                 `json:"pending_reviews"`
	UnderReview         int64                 `json:"under_review"`
	CompletedToday      int64                 `json:"completed_today"`
	HighRiskSubmissions int64                 `json:"high_risk_submissions"`
	PendingAnswers      int64                 `json:"pending_answers"`
	RecentSubmissions   []RecentSubmissionDTO `json:"recent_submissions"`
}

// AnalyticsSummaryDTO carries the headline counters of the analytics view.
type AnalyticsSummaryDTO struct {
	TotalSubmissions  int64   `json:"total_submissions"`
	CompletedReviews  int64   `json:"completed_reviews"`
	PendingReviews    int64   `json:"pending_reviews"`
	AverageReviewTime float64 `json:"average_review_time"`
}

// RiskDistributionDTO groups submission counts by risk level, for both the
// system-computed and admin-assigned values.
type RiskDistributionDTO struct {
	System map[model.RiskLevel]int64 `json:"system"`
	Admin  map[model.RiskLevel]int64 `json:"admin"`
}

// AnalyticsDTO is the full admin analytics payload.
type AnalyticsDTO struct {
	Summary          AnalyticsSummaryDTO          `json:"summary"`
	RiskDistribution RiskDistributionDTO          `json:"risk_distribution"`
	QuestionInsights []repository.QuestionInsight `json:"question_insights"`
}
