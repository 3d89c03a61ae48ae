package model

import (
	"time"

	"gorm.io/gorm"
)

// Submission statuses. Transitions only move forward: draft is reserved but
// unused by the current creation path, which starts at submitted.
const (
	SubmissionDraft       = "draft"
	SubmissionSubmitted   = "submitted"
	SubmissionUnderReview = "under_review"
	SubmissionCompleted   = "completed"
)

type Submission struct {
	ID                uint           `gorm:"primarykey" json:"id"`
	UserID            uint           `json:"user_id" gorm:"not null;index"`
	User              User           `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Title             string         `json:"title" gorm:"not null"`
	Status            string         `json:"status" gorm:"not null;default:'submitted';index"`
	SystemOverallRisk *RiskLevel     `json:"system_overall_risk,omitempty"`
	AdminOverallRisk  *RiskLevel     `json:"admin_overall_risk,omitempty"`
	ReviewedBy        *uint          `json:"reviewed_by,omitempty"`
	Reviewer          *User          `json:"reviewer,omitempty" gorm:"foreignKey:ReviewedBy"`
	ReviewedAt        *time.Time     `json:"reviewed_at,omitempty"`
	AdminSummary      *string        `json:"admin_summary,omitempty" gorm:"type:text"`
	Answers           []Answer       `json:"answers,omitempty" gorm:"foreignKey:SubmissionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// EffectiveOverallRisk resolves the displayed submission risk: admin override,
// then system value, then pending.
func (s *Submission) EffectiveOverallRisk() RiskLevel {
	return EffectiveRisk(s.AdminOverallRisk, s.SystemOverallRisk)
}

// HasHighRisk reports whether the submission qualifies for vulnerability
// derivation: the admin flagged the overall risk high, or at least one loaded
// answer has effective risk high. Answers must be preloaded.
func (s *Submission) HasHighRisk() bool {
	if s.AdminOverallRisk != nil && *s.AdminOverallRisk == RiskHigh {
		return true
	}
	for i := range s.Answers {
		if s.Answers[i].EffectiveRiskLevel() == RiskHigh {
			return true
		}
	}
	return false
}

// HighRiskAnswers returns the loaded answers whose effective risk is high.
func (s *Submission) HighRiskAnswers() []Answer {
	var high []Answer
	for i := range s.Answers {
		if s.Answers[i].EffectiveRiskLevel() == RiskHigh {
			high = append(high, s.Answers[i])
		}
	}
	return high
}
