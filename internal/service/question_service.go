package service

import (
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/tmkhang/Margays/internal/dto"
	"github.com/tmkhang/Margays/internal/model"
	"github.com/tmkhang/Margays/internal/repository"
	"gorm.io/gorm"
)

// QuestionService manages the audit question catalog. Questions referenced by
// answers are archived instead of deleted and may only receive cosmetic edits.
type QuestionService interface {
	CreateQuestion(req dto.CreateQuestionRequest) (*dto.QuestionResponse, error)
	GetQuestion(id uint) (*dto.QuestionResponse, error)
	GetAllQuestions() ([]dto.QuestionResponse, error)
	UpdateQuestion(id uint, req dto.CreateQuestionRequest) (*dto.QuestionResponse, error)
	ArchiveQuestion(id uint) error
	RestoreQuestion(id uint) (*dto.QuestionResponse, error)
	GetArchivedQuestions() ([]dto.QuestionResponse, error)
	GetQuestionStatistics() ([]dto.QuestionStatisticsDTO, error)
}

type questionService struct {
	repo repository.QuestionRepository
}

func NewQuestionService(repo repository.QuestionRepository) QuestionService {
	return &questionService{repo: repo}
}

func (s *questionService) CreateQuestion(req dto.CreateQuestionRequest) (*dto.QuestionResponse, error) {
	answers := dedupeAnswers(req.PossibleAnswers)
	if err := validateCriteria(req.RiskCriteria, answers); err != nil {
		return nil, err
	}

	question := model.Question{
		Question:               req.Question,
		Description:            req.Description,
		Category:               req.Category,
		PossibleAnswers:        answers,
		RiskCriteria:           req.RiskCriteria,
		PossibleRecommendation: req.PossibleRecommendation,
	}
	if err := s.repo.Create(&question); err != nil {
		log.Error().Err(err).Msg("Failed to create question")
		return nil, fmt.Errorf("database error creating question: %w", err)
	}
	return toQuestionResponse(&question), nil
}

func (s *questionService) GetQuestion(id uint) (*dto.QuestionResponse, error) {
	question, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toQuestionResponse(question), nil
}

func (s *questionService) GetAllQuestions() ([]dto.QuestionResponse, error) {
	questions, err := s.repo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("error fetching questions: %w", err)
	}
	responses := make([]dto.QuestionResponse, len(questions))
	for i := range questions {
		responses[i] = *toQuestionResponse(&questions[i])
	}
	return responses, nil
}

func (s *questionService) UpdateQuestion(id uint, req dto.CreateQuestionRequest) (*dto.QuestionResponse, error) {
	question, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	inUse, err := s.repo.HasAnswers(id)
	if err != nil {
		return nil, err
	}
	if inUse {
		// Structural fields are frozen once answers reference the question;
		// only cosmetic metadata may change.
		if req.Question != question.Question ||
			!sameAnswerSet(dedupeAnswers(req.PossibleAnswers), question.PossibleAnswers) ||
			!reflect.DeepEqual(req.RiskCriteria, question.RiskCriteria) {
			return nil, &ConflictError{
				Message:    "cannot modify question structure that is referenced in existing answers",
				Suggestion: "create a new question instead or archive this one",
			}
		}
		question.Description = req.Description
		question.Category = req.Category
	} else {
		answers := dedupeAnswers(req.PossibleAnswers)
		if err := validateCriteria(req.RiskCriteria, answers); err != nil {
			return nil, err
		}
		question.Question = req.Question
		question.Description = req.Description
		question.Category = req.Category
		question.PossibleAnswers = answers
		question.RiskCriteria = req.RiskCriteria
		question.PossibleRecommendation = req.PossibleRecommendation
	}

	if err := s.repo.Update(question); err != nil {
		log.Error().Err(err).Uint("questionID", id).Msg("Failed to update question")
		return nil, fmt.Errorf("database error updating question: %w", err)
	}
	return toQuestionResponse(question), nil
}

func (s *questionService) ArchiveQuestion(id uint) error {
	if _, err := s.repo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.repo.Archive(id)
}

func (s *questionService) RestoreQuestion(id uint) (*dto.QuestionResponse, error) {
	question, err := s.repo.Restore(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error restoring question: %w", err)
	}
	return toQuestionResponse(question), nil
}

func (s *questionService) GetArchivedQuestions() ([]dto.QuestionResponse, error) {
	questions, err := s.repo.FindArchived()
	if err != nil {
		return nil, fmt.Errorf("error fetching archived questions: %w", err)
	}
	responses := make([]dto.QuestionResponse, len(questions))
	for i := range questions {
		responses[i] = *toQuestionResponse(&questions[i])
	}
	return responses, nil
}

func (s *questionService) GetQuestionStatistics() ([]dto.QuestionStatisticsDTO, error) {
	questions, err := s.repo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("error fetching questions for statistics: %w", err)
	}

	stats := make([]dto.QuestionStatisticsDTO, 0, len(questions))
	for i := range questions {
		q := &questions[i]
		total, highRisk, pending, err := s.repo.AnswerStats(q.ID)
		if err != nil {
			return nil, fmt.Errorf("error computing statistics for question %d: %w", q.ID, err)
		}

		distribution := make(map[string]dto.AnswerDistributionDTO, len(q.PossibleAnswers))
		for _, option := range q.PossibleAnswers {
			count, err := s.repo.AnswerDistribution(q.ID, option)
			if err != nil {
				return nil, err
			}
			var pct float64
			if total > 0 {
				pct = math.Round(float64(count)/float64(total)*10000) / 100
			}
			distribution[option] = dto.AnswerDistributionDTO{Count: count, Percentage: pct}
		}

		stats = append(stats, dto.QuestionStatisticsDTO{
			QuestionResponse:   *toQuestionResponse(q),
			AnswersCount:       total,
			HighRiskCount:      highRisk,
			PendingReviewCount: pending,
			UsageStats: dto.QuestionUsageDTO{
				TotalResponses:     total,
				AnswerDistribution: distribution,
			},
		})
	}
	return stats, nil
}

func toQuestionResponse(question *model.Question) *dto.QuestionResponse {
	var resp dto.QuestionResponse
	copier.Copy(&resp, question)
	resp.PossibleAnswers = []string(question.PossibleAnswers)
	resp.RiskCriteria = question.RiskCriteria
	return &resp
}

func dedupeAnswers(answers []string) model.StringList {
	seen := make(map[string]struct{}, len(answers))
	unique := make(model.StringList, 0, len(answers))
	for _, answer := range answers {
		if _, ok := seen[answer]; ok {
			continue
		}
		seen[answer] = struct{}{}
		unique = append(unique, answer)
	}
	return unique
}

func sameAnswerSet(a, b model.StringList) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func validateCriteria(criteria model.RiskCriteria, possibleAnswers model.StringList) error {
	for level := range criteria {
		if !level.Valid() {
			return newValidationError("risk_criteria", "unknown risk level %q", level)
		}
	}
	if err := model.ValidateRiskCriteria(criteria, possibleAnswers); err != nil {
		return &ValidationError{Field: "risk_criteria", Message: err.Error()}
	}
	return nil
}
