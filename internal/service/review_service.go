package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tmkhang/Margays/internal/dto"
	"github.com/tmkhang/Margays/internal/model"
	"github.com/tmkhang/Margays/internal/repository"
	"gorm.io/gorm"
)

// ReviewService drives the admin review workflow. Submission status only
// moves forward (submitted, under_review, completed) and answer reviews are
// first-write-wins: once an admin has rated an answer it stays rated.
type ReviewService interface {
	ReviewAnswer(adminID uint, submissionID, answerID uint, req dto.ReviewAnswerRequest) (*dto.ReviewAnswerResultDTO, error)
	BulkReviewAnswers(adminID uint, submissionID uint, req dto.BulkReviewRequest) (*dto.BulkReviewResultDTO, error)
	CompleteReview(adminID uint, submissionID uint, req dto.CompleteReviewRequest) (*dto.CompleteReviewResultDTO, error)
	RecalculateSystemRisk(submissionID uint) (*dto.RecalculateRiskResultDTO, error)
}

type reviewService struct {
	db             *gorm.DB
	submissionRepo repository.SubmissionRepository
	answerRepo     repository.AnswerRepository
	questionRepo   repository.QuestionRepository
	userRepo       repository.UserRepository
	aggregator     RiskAggregatorService
	vulnerability  VulnerabilityService
}

func NewReviewService(
	db *gorm.DB,
	submissionRepo repository.SubmissionRepository,
	answerRepo repository.AnswerRepository,
	questionRepo repository.QuestionRepository,
	userRepo repository.UserRepository,
	aggregator RiskAggregatorService,
	vulnerability VulnerabilityService,
) ReviewService {
	return &reviewService{
		db:             db,
		submissionRepo: submissionRepo,
		answerRepo:     answerRepo,
		questionRepo:   questionRepo,
		userRepo:       userRepo,
		aggregator:     aggregator,
		vulnerability:  vulnerability,
	}
}

// verifyReviewer confirms the reviewing admin exists. reviewed_by is a
// foreign key to users, so a stale identity header would otherwise surface
// as a constraint violation mid-transaction.
func (s *reviewService) verifyReviewer(adminID uint) error {
	if _, err := s.userRepo.FindByID(adminID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrForbidden
		}
		return err
	}
	return nil
}

func (s *reviewService) ReviewAnswer(adminID uint, submissionID, answerID uint, req dto.ReviewAnswerRequest) (*dto.ReviewAnswerResultDTO, error) {
	if err := s.verifyReviewer(adminID); err != nil {
		return nil, err
	}
	submission, err := s.loadReviewableSubmission(submissionID)
	if err != nil {
		return nil, err
	}

	answer, err := s.answerRepo.FindByID(answerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if answer.SubmissionID != submission.ID {
		return nil, newValidationError("answer_id", "answer %d does not belong to submission %d", answerID, submissionID)
	}

	level := model.RiskLevel(req.AdminRiskLevel)
	recommendation, err := s.resolveRecommendation(req.Recommendation, level, answer.QuestionID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		applied, err := applyAnswerReview(tx, answerID, adminID, level, req.AdminNotes, recommendation)
		if err != nil {
			return err
		}
		if !applied {
			return &ConflictError{
				Message:    fmt.Sprintf("answer %d has already been reviewed", answerID),
				Suggestion: "reload the submission to see the existing review",
			}
		}
		return markUnderReview(tx, submission)
	}); err != nil {
		return nil, err
	}

	reviewed, err := s.answerRepo.FindByIDWithDetails(answerID)
	if err != nil {
		return nil, err
	}
	progress, status, err := s.reviewState(submissionID)
	if err != nil {
		return nil, err
	}

	return &dto.ReviewAnswerResultDTO{
		Message:          "Answer reviewed successfully",
		Answer:           toAnswerDTO(reviewed),
		SubmissionStatus: status,
		ReviewProgress:   progress,
	}, nil
}

func (s *reviewService) BulkReviewAnswers(adminID uint, submissionID uint, req dto.BulkReviewRequest) (*dto.BulkReviewResultDTO, error) {
	if err := s.verifyReviewer(adminID); err != nil {
		return nil, err
	}
	submission, err := s.loadReviewableSubmission(submissionID)
	if err != nil {
		return nil, err
	}

	answers, err := s.answerRepo.FindBySubmission(submissionID)
	if err != nil {
		return nil, fmt.Errorf("error loading answers: %w", err)
	}
	questionOf := make(map[uint]uint, len(answers))
	for i := range answers {
		questionOf[answers[i].ID] = answers[i].QuestionID
	}
	for i, item := range req.Answers {
		if _, ok := questionOf[item.AnswerID]; !ok {
			return nil, newValidationError(fmt.Sprintf("answers.%d.answer_id", i), "answer %d does not belong to submission %d", item.AnswerID, submissionID)
		}
	}

	var reviewedCount, skippedCount int
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range req.Answers {
			level := model.RiskLevel(item.AdminRiskLevel)
			recommendation, err := s.resolveRecommendation(item.Recommendation, level, questionOf[item.AnswerID])
			if err != nil {
				return err
			}
			applied, err := applyAnswerReview(tx, item.AnswerID, adminID, level, item.AdminNotes, recommendation)
			if err != nil {
				return err
			}
			if applied {
				reviewedCount++
			} else {
				skippedCount++
			}
		}
		return markUnderReview(tx, submission)
	}); err != nil {
		return nil, err
	}

	progress, status, err := s.reviewState(submissionID)
	if err != nil {
		return nil, err
	}

	return &dto.BulkReviewResultDTO{
		Message:          fmt.Sprintf("Reviewed %d answers (%d already reviewed)", reviewedCount, skippedCount),
		ReviewedCount:    reviewedCount,
		SkippedCount:     skippedCount,
		SubmissionStatus: status,
		ReviewProgress:   progress,
	}, nil
}

func (s *reviewService) CompleteReview(adminID uint, submissionID uint, req dto.CompleteReviewRequest) (*dto.CompleteReviewResultDTO, error) {
	if err := s.verifyReviewer(adminID); err != nil {
		return nil, err
	}
	submission, err := s.loadReviewableSubmission(submissionID)
	if err != nil {
		return nil, err
	}

	overall := model.RiskLevel(req.AdminOverallRisk)
	now := time.Now()
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		// Recount inside the transaction so a review racing with completion
		// cannot slip a pending answer past the guard.
		var pending int64
		err := tx.Model(&model.Answer{}).
			Where("submission_id = ?", submission.ID).
			Where("status = ? OR reviewed_by IS NULL", model.AnswerPending).
			Count(&pending).Error
		if err != nil {
			return err
		}
		if pending > 0 {
			return &IncompleteReviewError{PendingCount: pending}
		}
		applied, err := completeSubmission(tx, submission.ID, adminID, overall, req.AdminSummary, now)
		if err != nil {
			return err
		}
		if !applied {
			return &ConflictError{
				Message:    fmt.Sprintf("submission %d review is already completed", submissionID),
				Suggestion: "completed reviews cannot be modified",
			}
		}
		return nil
	}); err != nil {
		var incomplete *IncompleteReviewError
		if errors.As(err, &incomplete) {
			return nil, incomplete
		}
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			return nil, conflict
		}
		log.Error().Err(err).Uint("submissionID", submissionID).Msg("Failed to complete review")
		return nil, fmt.Errorf("database error completing review: %w", err)
	}

	completed, err := s.submissionRepo.FindByIDWithDetails(submissionID)
	if err != nil {
		return nil, err
	}

	result := &dto.CompleteReviewResultDTO{
		Message:    "Review completed successfully",
		Submission: toSubmissionDetailDTO(completed),
	}

	// Derivation runs after the completion commit and never rolls it back:
	// a failure here leaves the review completed and is only logged.
	record, err := s.vulnerability.DeriveFromSubmission(completed)
	if err != nil {
		log.Error().Err(err).Uint("submissionID", submissionID).Msg("Vulnerability derivation failed after review completion")
	} else if record != nil {
		result.VulnerabilityRecord = toVulnerabilityDTO(record)
	}
	return result, nil
}

// RecalculateSystemRisk re-runs aggregation over the submission's current
// answer levels. Idempotent: repeated calls on an unchanged submission report
// no change.
func (s *reviewService) RecalculateSystemRisk(submissionID uint) (*dto.RecalculateRiskResultDTO, error) {
	submission, err := s.submissionRepo.FindByIDWithDetails(submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	recalculated := s.aggregator.AggregateRisk(effectiveLevels(submission.Answers))
	previous := submission.SystemOverallRisk
	changed := previous == nil || *previous != recalculated

	if changed {
		if err := s.db.Model(&model.Submission{}).
			Where("id = ?", submissionID).
			Update("system_overall_risk", recalculated).Error; err != nil {
			return nil, fmt.Errorf("database error updating system risk: %w", err)
		}
		log.Info().
			Uint("submissionID", submissionID).
			Str("systemOverallRisk", string(recalculated)).
			Msg("System overall risk recalculated")
	}

	return &dto.RecalculateRiskResultDTO{
		SubmissionID:      submissionID,
		PreviousRisk:      previous,
		SystemOverallRisk: recalculated,
		Changed:           changed,
	}, nil
}

// loadReviewableSubmission fetches a submission that is still open for review
// actions. Completed submissions are immutable.
func (s *reviewService) loadReviewableSubmission(submissionID uint) (*model.Submission, error) {
	submission, err := s.submissionRepo.FindByID(submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if submission.Status == model.SubmissionCompleted {
		return nil, &ConflictError{
			Message:    fmt.Sprintf("submission %d review is already completed", submissionID),
			Suggestion: "completed reviews cannot be modified",
		}
	}
	return submission, nil
}

// resolveRecommendation returns the supplied recommendation, or the stock one
// for the admin's rating when none was given. High ratings prefer the
// question's preset text, so the question is loaded even when archived.
func (s *reviewService) resolveRecommendation(supplied string, level model.RiskLevel, questionID uint) (string, error) {
	if supplied != "" {
		return supplied, nil
	}
	questions, err := s.questionRepo.FindByIDsIncludingArchived([]uint{questionID})
	if err != nil {
		return "", fmt.Errorf("error loading question %d: %w", questionID, err)
	}
	if len(questions) == 0 {
		return recommendationFor(&model.Question{}, level), nil
	}
	return recommendationFor(&questions[0], level), nil
}

// applyAnswerReview writes one answer review guarded on reviewed_by IS NULL,
// so concurrent admins cannot overwrite each other. Returns false when the
// answer was already reviewed.
func applyAnswerReview(tx *gorm.DB, answerID, adminID uint, level model.RiskLevel, notes, recommendation string) (bool, error) {
	result := tx.Model(&model.Answer{}).
		Where("id = ? AND reviewed_by IS NULL", answerID).
		Updates(map[string]interface{}{
			"admin_risk_level": level,
			"status":           model.AnswerReviewed,
			"reviewed_by":      adminID,
			"reviewed_at":      time.Now(),
			"admin_notes":      strings.TrimSpace(notes),
			"recommendation":   recommendation,
		})
	if result.Error != nil {
		return false, fmt.Errorf("database error reviewing answer %d: %w", answerID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// completeSubmission finalizes the review guarded on the submission not
// already being completed, so completion stays terminal even when a second
// admin raced past the pre-transaction status read. Returns false when another
// reviewer completed first.
func completeSubmission(tx *gorm.DB, submissionID, adminID uint, overall model.RiskLevel, summary *string, at time.Time) (bool, error) {
	result := tx.Model(&model.Submission{}).
		Where("id = ? AND status <> ?", submissionID, model.SubmissionCompleted).
		Updates(map[string]interface{}{
			"status":             model.SubmissionCompleted,
			"admin_overall_risk": overall,
			"admin_summary":      summary,
			"reviewed_by":        adminID,
			"reviewed_at":        at,
		})
	if result.Error != nil {
		return false, fmt.Errorf("database error completing submission %d: %w", submissionID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// markUnderReview moves a submitted submission into under_review. Submissions
// already under review are left untouched.
func markUnderReview(tx *gorm.DB, submission *model.Submission) error {
	if submission.Status != model.SubmissionSubmitted {
		return nil
	}
	err := tx.Model(&model.Submission{}).
		Where("id = ? AND status = ?", submission.ID, model.SubmissionSubmitted).
		Update("status", model.SubmissionUnderReview).Error
	if err != nil {
		return fmt.Errorf("database error updating submission status: %w", err)
	}
	submission.Status = model.SubmissionUnderReview
	return nil
}

// reviewState reports current progress and status after a review action.
func (s *reviewService) reviewState(submissionID uint) (float64, string, error) {
	answers, err := s.answerRepo.FindBySubmission(submissionID)
	if err != nil {
		return 0, "", err
	}
	submission, err := s.submissionRepo.FindByID(submissionID)
	if err != nil {
		return 0, "", err
	}
	return answersProgress(answers), submission.Status, nil
}
