package model

import (
	"time"
)

// Answer statuses. Review is one-way: once reviewed, an answer is never
// reverted to pending.
const (
	AnswerPending  = "pending"
	AnswerReviewed = "reviewed"
)

type Answer struct {
	ID              uint       `gorm:"primarykey" json:"id"`
	SubmissionID    uint       `json:"submission_id" gorm:"not null;index"`
	QuestionID      uint       `json:"question_id" gorm:"not null;index"`
	Question        Question   `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	Answer          string     `json:"answer" gorm:"type:text;not null"`
	IsCustomAnswer  bool       `json:"is_custom_answer" gorm:"not null;default:false"`
	SystemRiskLevel *RiskLevel `json:"system_risk_level,omitempty"`
	AdminRiskLevel  *RiskLevel `json:"admin_risk_level,omitempty"`
	Status          string     `json:"status" gorm:"not null;default:'pending';index"`
	ReviewedBy      *uint      `json:"reviewed_by,omitempty"`
	Reviewer        *User      `json:"reviewer,omitempty" gorm:"foreignKey:ReviewedBy"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	AdminNotes      *string    `json:"admin_notes,omitempty" gorm:"type:text"`
	Recommendation  string     `json:"recommendation" gorm:"type:text"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// EffectiveRiskLevel resolves the displayed answer risk: admin override, then
// system value, then pending.
func (a *Answer) EffectiveRiskLevel() RiskLevel {
	return EffectiveRisk(a.AdminRiskLevel, a.SystemRiskLevel)
}

// IsReviewed reports whether an admin has already rated this answer.
func (a *Answer) IsReviewed() bool {
	return a.ReviewedBy != nil
}
