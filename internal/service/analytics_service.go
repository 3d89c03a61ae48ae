package service

import (
	"fmt"
	"time"

	"github.com/tmkhang/Margays/internal/dto"
	"github.com/tmkhang/Margays/internal/model"
	"github.com/tmkhang/Margays/internal/repository"
)

const (
	recentSubmissionsLimit = 10
	questionInsightsLimit  = 10

	// Questions with fewer answers than this produce noisy percentages and
	// are excluded from insights.
	questionInsightsMinAnswers = 3
)

// AnalyticsService serves the admin dashboard and analytics views from
// repository aggregates.
type AnalyticsService interface {
	Dashboard() (*dto.DashboardDTO, error)
	Analytics() (*dto.AnalyticsDTO, error)
}

type analyticsService struct {
	submissionRepo repository.SubmissionRepository
	answerRepo     repository.AnswerRepository
}

func NewAnalyticsService(submissionRepo repository.SubmissionRepository, answerRepo repository.AnswerRepository) AnalyticsService {
	return &analyticsService{submissionRepo: submissionRepo, answerRepo: answerRepo}
}

func (s *analyticsService) Dashboard() (*dto.DashboardDTO, error) {
	pendingReviews, err := s.submissionRepo.CountByStatus(model.SubmissionSubmitted)
	if err != nil {
		return nil, fmt.Errorf("error counting pending reviews: %w", err)
	}
	underReview, err := s.submissionRepo.CountByStatus(model.SubmissionUnderReview)
	if err != nil {
		return nil, fmt.Errorf("error counting submissions under review: %w", err)
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	completedToday, err := s.submissionRepo.CountCompletedSince(startOfDay)
	if err != nil {
		return nil, fmt.Errorf("error counting completed reviews: %w", err)
	}

	highRisk, err := s.submissionRepo.CountActiveHighRisk()
	if err != nil {
		return nil, fmt.Errorf("error counting high risk submissions: %w", err)
	}
	pendingAnswers, err := s.answerRepo.CountPendingReview()
	if err != nil {
		return nil, fmt.Errorf("error counting pending answers: %w", err)
	}

	recent, err := s.recentSubmissions()
	if err != nil {
		return nil, err
	}

	return &dto.DashboardDTO{
		PendingReviews:      pendingReviews,
		UnderReview:         underReview,
		CompletedToday:      completedToday,
		HighRiskSubmissions: highRisk,
		PendingAnswers:      pendingAnswers,
		RecentSubmissions:   recent,
	}, nil
}

func (s *analyticsService) Analytics() (*dto.AnalyticsDTO, error) {
	listings, err := s.submissionRepo.FindAll(nil)
	if err != nil {
		return nil, fmt.Errorf("error fetching submissions for analytics: %w", err)
	}

	var completed, pending int64
	for i := range listings {
		switch listings[i].Status {
		case model.SubmissionCompleted:
			completed++
		case model.SubmissionSubmitted, model.SubmissionUnderReview:
			pending++
		}
	}

	avgHours, err := s.submissionRepo.AverageReviewHours()
	if err != nil {
		return nil, fmt.Errorf("error computing average review time: %w", err)
	}

	systemDist, err := s.riskBuckets("system_overall_risk")
	if err != nil {
		return nil, err
	}
	adminDist, err := s.riskBuckets("admin_overall_risk")
	if err != nil {
		return nil, err
	}

	insights, err := s.submissionRepo.QuestionInsights(questionInsightsMinAnswers, questionInsightsLimit)
	if err != nil {
		return nil, fmt.Errorf("error computing question insights: %w", err)
	}

	return &dto.AnalyticsDTO{
		Summary: dto.AnalyticsSummaryDTO{
			TotalSubmissions:  int64(len(listings)),
			CompletedReviews:  completed,
			PendingReviews:    pending,
			AverageReviewTime: avgHours,
		},
		RiskDistribution: dto.RiskDistributionDTO{
			System: systemDist,
			Admin:  adminDist,
		},
		QuestionInsights: insights,
	}, nil
}

func (s *analyticsService) recentSubmissions() ([]dto.RecentSubmissionDTO, error) {
	submissions, err := s.submissionRepo.FindRecent(recentSubmissionsLimit)
	if err != nil {
		return nil, fmt.Errorf("error fetching recent submissions: %w", err)
	}
	recent := make([]dto.RecentSubmissionDTO, 0, len(submissions))
	for i := range submissions {
		sub := &submissions[i]
		answers, err := s.answerRepo.FindBySubmission(sub.ID)
		if err != nil {
			return nil, err
		}
		recent = append(recent, dto.RecentSubmissionDTO{
			ID:                   sub.ID,
			Title:                sub.Title,
			User:                 sub.User.Name,
			Status:               sub.Status,
			EffectiveOverallRisk: sub.EffectiveOverallRisk(),
			ReviewProgress:       answersProgress(answers),
			CreatedAt:            sub.CreatedAt,
		})
	}
	return recent, nil
}

func (s *analyticsService) riskBuckets(column string) (map[model.RiskLevel]int64, error) {
	buckets, err := s.submissionRepo.RiskDistribution(column)
	if err != nil {
		return nil, fmt.Errorf("error computing risk distribution for %s: %w", column, err)
	}
	dist := map[model.RiskLevel]int64{
		model.RiskLow:    0,
		model.RiskMedium: 0,
		model.RiskHigh:   0,
	}
	for _, bucket := range buckets {
		dist[bucket.Risk] = bucket.Count
	}
	return dist, nil
}
