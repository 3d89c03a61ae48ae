package model

import (
	"time"

	"gorm.io/gorm"
)

// Vulnerability record statuses.
const (
	VulnerabilityOpen     = "open"
	VulnerabilityResolved = "resolved"
)

// Titles used for derived records and synthetic findings.
const (
	SyntheticFindingTitle  = "Overall Security Assessment"
	DefaultFindingTitle    = "High Risk Audit Finding"
	DefaultFindingCategory = "General"
)

// VulnerabilityRecord tracks the security follow-up derived from a completed
// high-risk audit submission. SubmissionID is unique so a submission can never
// derive twice.
type VulnerabilityRecord struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	SubmissionID uint           `json:"submission_id" gorm:"not null;uniqueIndex"`
	UserID       uint           `json:"user_id" gorm:"not null;index"`
	Title        string         `json:"title" gorm:"not null"`
	Status       string         `json:"status" gorm:"not null;default:'open';index"`
	RiskScore    float64        `json:"risk_score" gorm:"not null"`
	RiskLevel    RiskLevel      `json:"risk_level" gorm:"not null"`
	Findings     []Finding      `json:"findings,omitempty" gorm:"foreignKey:RecordID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

type Finding struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	RecordID    uint       `json:"record_id" gorm:"not null;index"`
	Category    string     `json:"category" gorm:"not null;default:'General'"`
	Title       string     `json:"title" gorm:"not null"`
	Severity    RiskLevel  `json:"severity" gorm:"not null"`
	Remediation string     `json:"remediation" gorm:"type:text"`
	IsResolved  bool       `json:"is_resolved" gorm:"not null;default:false"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
