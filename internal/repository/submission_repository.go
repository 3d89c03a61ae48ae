package repository

import (
	"time"

	"github.com/tmkhang/Margays/internal/model"
	"gorm.io/gorm"
)

// SubmissionListing carries per-submission review counters for list views.
type SubmissionListing struct {
	model.Submission
	AnswersCount         int64
	ReviewedAnswersCount int64
}

// RiskDistribution is one bucket of a grouped risk count.
type RiskDistribution struct {
	Risk  model.RiskLevel
	Count int64
}

// QuestionInsight aggregates high-risk frequency per question for analytics.
type QuestionInsight struct {
	Question           string  `json:"question"`
	Category           string  `json:"category"`
	TotalAnswers       int64   `json:"total_answers"`
	HighRiskCount      int64   `json:"high_risk_count"`
	HighRiskPercentage float64 `json:"high_risk_percentage"`
}

type SubmissionRepository interface {
	FindByID(id uint) (*model.Submission, error)
	FindByIDWithDetails(id uint) (*model.Submission, error)
	FindAll(userID *uint) ([]SubmissionListing, error)
	CountByStatus(status string) (int64, error)
	CountCompletedSince(since time.Time) (int64, error)
	CountActiveHighRisk() (int64, error)
	FindRecent(limit int) ([]model.Submission, error)
	RiskDistribution(column string) ([]RiskDistribution, error)
	QuestionInsights(minAnswers int64, limit int) ([]QuestionInsight, error)
	AverageReviewHours() (float64, error)
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) FindByID(id uint) (*model.Submission, error) {
	var submission model.Submission
	if err := r.db.First(&submission, id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepository) FindByIDWithDetails(id uint) (*model.Submission, error) {
	var submission model.Submission
	err := r.db.
		Preload("User").
		Preload("Reviewer").
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.id ASC")
		}).
		Preload("Answers.Question").
		Preload("Answers.Reviewer").
		First(&submission, id).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepository) FindAll(userID *uint) ([]SubmissionListing, error) {
	var submissions []model.Submission
	query := r.db.Preload("User").Preload("Reviewer")
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	if err := query.Order("created_at DESC").Find(&submissions).Error; err != nil {
		return nil, err
	}
	if len(submissions) == 0 {
		return []SubmissionListing{}, nil
	}

	ids := make([]uint, len(submissions))
	for i := range submissions {
		ids[i] = submissions[i].ID
	}

	type answerCounts struct {
		SubmissionID uint
		Total        int64
		Reviewed     int64
	}
	var counts []answerCounts
	err := r.db.Model(&model.Answer{}).
		Select("submission_id, COUNT(*) AS total, SUM(CASE WHEN reviewed_by IS NOT NULL THEN 1 ELSE 0 END) AS reviewed").
		Where("submission_id IN ?", ids).
		Group("submission_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	countsByID := make(map[uint]answerCounts, len(counts))
	for _, c := range counts {
		countsByID[c.SubmissionID] = c
	}

	listings := make([]SubmissionListing, len(submissions))
	for i := range submissions {
		c := countsByID[submissions[i].ID]
		listings[i] = SubmissionListing{
			Submission:           submissions[i],
			AnswersCount:         c.Total,
			ReviewedAnswersCount: c.Reviewed,
		}
	}
	return listings, nil
}

func (r *submissionRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Submission{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *submissionRepository) CountCompletedSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.Submission{}).
		Where("status = ? AND reviewed_at >= ?", model.SubmissionCompleted, since).
		Count(&count).Error
	return count, err
}

func (r *submissionRepository) CountActiveHighRisk() (int64, error) {
	var count int64
	err := r.db.Model(&model.Submission{}).
		Where("status IN ?", []string{model.SubmissionSubmitted, model.SubmissionUnderReview}).
		Where("admin_overall_risk = ? OR (admin_overall_risk IS NULL AND system_overall_risk = ?)", model.RiskHigh, model.RiskHigh).
		Count(&count).Error
	return count, err
}

func (r *submissionRepository) FindRecent(limit int) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.db.Preload("User").Order("created_at DESC").Limit(limit).Find(&submissions).Error
	return submissions, err
}

// RiskDistribution groups submissions by the given risk column
// ("system_overall_risk" or "admin_overall_risk").
func (r *submissionRepository) RiskDistribution(column string) ([]RiskDistribution, error) {
	var buckets []RiskDistribution
	err := r.db.Model(&model.Submission{}).
		Select(column+" AS risk, COUNT(*) AS count").
		Where(column + " IS NOT NULL").
		Group(column).
		Scan(&buckets).Error
	return buckets, err
}

func (r *submissionRepository) QuestionInsights(minAnswers int64, limit int) ([]QuestionInsight, error) {
	var insights []QuestionInsight
	err := r.db.Model(&model.Answer{}).
		Select("questions.question, questions.category, " +
			"COUNT(*) AS total_answers, " +
			"SUM(CASE WHEN COALESCE(answers.admin_risk_level, answers.system_risk_level) = 'high' THEN 1 ELSE 0 END) AS high_risk_count, " +
			"ROUND(SUM(CASE WHEN COALESCE(answers.admin_risk_level, answers.system_risk_level) = 'high' THEN 1 ELSE 0 END) * 100.0 / COUNT(*), 2) AS high_risk_percentage").
		Joins("JOIN questions ON questions.id = answers.question_id").
		Group("questions.id, questions.question, questions.category").
		Having("COUNT(*) >= ?", minAnswers).
		Order("high_risk_percentage DESC").
		Limit(limit).
		Scan(&insights).Error
	return insights, err
}

func (r *submissionRepository) AverageReviewHours() (float64, error) {
	var result struct {
		AvgHours float64
	}
	err := r.db.Model(&model.Submission{}).
		Select("COALESCE(AVG(EXTRACT(EPOCH FROM (reviewed_at - created_at)) / 3600.0), 0) AS avg_hours").
		Where("status = ? AND reviewed_at IS NOT NULL", model.SubmissionCompleted).
		Scan(&result).Error
	return result.AvgHours, err
}
