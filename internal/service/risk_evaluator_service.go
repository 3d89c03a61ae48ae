package service

import (
	"github.com/rs/zerolog/log"
	"github.com/tmkhang/Margays/internal/model"
)

// RiskEvaluatorService computes the system risk level for a single answer
// from its question's risk criteria.
type RiskEvaluatorService interface {
	EvaluateAnswerRisk(question *model.Question, answer string, isCustom bool) model.RiskLevel
}

type riskEvaluatorService struct{}

func NewRiskEvaluatorService() RiskEvaluatorService {
	return &riskEvaluatorService{}
}

// EvaluateAnswerRisk returns the risk level whose criteria contain the answer,
// checked high first. Custom free-text answers cannot be matched against
// criteria and always score low; so does any answer no criteria set mentions.
func (s *riskEvaluatorService) EvaluateAnswerRisk(question *model.Question, answer string, isCustom bool) model.RiskLevel {
	if isCustom {
		log.Debug().Uint("questionID", question.ID).Str("answer", answer).Msg("Custom answer, defaulting to low risk")
		return model.RiskLow
	}
	if level, ok := question.RiskCriteria.Match(answer); ok {
		return level
	}
	log.Debug().Uint("questionID", question.ID).Str("answer", answer).Msg("No risk criteria matched, defaulting to low")
	return model.RiskLow
}
