package service

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tmkhang/Margays/internal/dto"
	"github.com/tmkhang/Margays/internal/model"
	"github.com/tmkhang/Margays/internal/repository"
	"gorm.io/gorm"
)

// SubmissionService handles audit submission intake and read access.
// Creation rates every answer and rolls the results up in one transaction, so
// a stored submission is never missing its risk assessment.
type SubmissionService interface {
	CreateSubmission(userID uint, req dto.CreateSubmissionRequest) (*dto.SubmissionDetailDTO, error)
	ListSubmissions(principal model.Principal) ([]dto.SubmissionSummaryDTO, error)
	GetSubmission(principal model.Principal, id uint) (*dto.SubmissionDetailDTO, error)
}

type submissionService struct {
	db             *gorm.DB
	submissionRepo repository.SubmissionRepository
	questionRepo   repository.QuestionRepository
	evaluator      RiskEvaluatorService
	aggregator     RiskAggregatorService
}

func NewSubmissionService(
	db *gorm.DB,
	submissionRepo repository.SubmissionRepository,
	questionRepo repository.QuestionRepository,
	evaluator RiskEvaluatorService,
	aggregator RiskAggregatorService,
) SubmissionService {
	return &submissionService{
		db:             db,
		submissionRepo: submissionRepo,
		questionRepo:   questionRepo,
		evaluator:      evaluator,
		aggregator:     aggregator,
	}
}

func (s *submissionService) CreateSubmission(userID uint, req dto.CreateSubmissionRequest) (*dto.SubmissionDetailDTO, error) {
	questions, err := s.resolveQuestions(req.Answers)
	if err != nil {
		return nil, err
	}

	answers := make([]model.Answer, 0, len(req.Answers))
	levels := make([]model.RiskLevel, 0, len(req.Answers))
	for i, item := range req.Answers {
		question := questions[item.QuestionID]

		text, isCustom, err := normalizeAnswer(question, item, i)
		if err != nil {
			return nil, err
		}

		level := s.evaluator.EvaluateAnswerRisk(question, text, isCustom)
		levels = append(levels, level)

		systemLevel := level
		answers = append(answers, model.Answer{
			QuestionID:      question.ID,
			Answer:          text,
			IsCustomAnswer:  isCustom,
			SystemRiskLevel: &systemLevel,
			Status:          model.AnswerPending,
			Recommendation:  recommendationFor(question, level),
		})
	}

	overall := s.aggregator.AggregateRisk(levels)
	submission := model.Submission{
		UserID:            userID,
		Title:             req.Title,
		Status:            model.SubmissionSubmitted,
		SystemOverallRisk: &overall,
		Answers:           answers,
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&submission).Error
	}); err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Failed to create submission")
		return nil, fmt.Errorf("database error creating submission: %w", err)
	}

	log.Info().
		Uint("submissionID", submission.ID).
		Uint("userID", userID).
		Str("systemOverallRisk", string(overall)).
		Int("answers", len(answers)).
		Msg("Submission created")

	detail, err := s.submissionRepo.FindByIDWithDetails(submission.ID)
	if err != nil {
		return nil, err
	}
	result := toSubmissionDetailDTO(detail)
	return &result, nil
}

func (s *submissionService) ListSubmissions(principal model.Principal) ([]dto.SubmissionSummaryDTO, error) {
	var ownerFilter *uint
	if !principal.Admin {
		ownerFilter = &principal.UserID
	}
	listings, err := s.submissionRepo.FindAll(ownerFilter)
	if err != nil {
		return nil, fmt.Errorf("error fetching submissions: %w", err)
	}
	summaries := make([]dto.SubmissionSummaryDTO, len(listings))
	for i := range listings {
		summaries[i] = toSubmissionSummaryDTO(&listings[i])
	}
	return summaries, nil
}

func (s *submissionService) GetSubmission(principal model.Principal, id uint) (*dto.SubmissionDetailDTO, error) {
	submission, err := s.submissionRepo.FindByIDWithDetails(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !principal.Admin && submission.UserID != principal.UserID {
		return nil, ErrForbidden
	}
	result := toSubmissionDetailDTO(submission)
	return &result, nil
}

// resolveQuestions loads every referenced question and rejects requests that
// answer the same question twice or reference an archived or unknown one.
func (s *submissionService) resolveQuestions(items []dto.SubmissionAnswerDTO) (map[uint]*model.Question, error) {
	ids := make([]uint, 0, len(items))
	seen := make(map[uint]struct{}, len(items))
	for i, item := range items {
		if _, dup := seen[item.QuestionID]; dup {
			return nil, newValidationError(fmt.Sprintf("answers.%d.question_id", i), "question %d is answered more than once", item.QuestionID)
		}
		seen[item.QuestionID] = struct{}{}
		ids = append(ids, item.QuestionID)
	}

	questions, err := s.questionRepo.FindByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("error loading questions: %w", err)
	}
	byID := make(map[uint]*model.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}
	for i, item := range items {
		if _, ok := byID[item.QuestionID]; !ok {
			return nil, newValidationError(fmt.Sprintf("answers.%d.question_id", i), "question %d does not exist or is archived", item.QuestionID)
		}
	}
	return byID, nil
}

// normalizeAnswer resolves the stored answer text. Selecting the "Others"
// option substitutes the free text and marks the answer as custom.
func normalizeAnswer(question *model.Question, item dto.SubmissionAnswerDTO, index int) (string, bool, error) {
	if item.Answer == model.AnswerOthers && question.AllowsCustomAnswers() {
		if item.CustomAnswer == "" {
			return "", false, newValidationError(fmt.Sprintf("answers.%d.custom_answer", index), "custom answer text is required when selecting %q", model.AnswerOthers)
		}
		return item.CustomAnswer, true, nil
	}
	if !question.IsValidAnswer(item.Answer) {
		return "", false, newValidationError(fmt.Sprintf("answers.%d.answer", index), "%q is not a valid answer for question %d", item.Answer, question.ID)
	}
	return item.Answer, !question.PossibleAnswers.Contains(item.Answer), nil
}

// recommendationFor picks the answer recommendation: high-risk answers get
// the question's preset text when one exists, everything else gets the stock
// advice for its level.
func recommendationFor(question *model.Question, level model.RiskLevel) string {
	if level == model.RiskHigh {
		if question.PossibleRecommendation != nil && *question.PossibleRecommendation != "" {
			return *question.PossibleRecommendation
		}
		return model.DefaultReviewRecommendation
	}
	return model.FallbackRecommendation(level)
}
