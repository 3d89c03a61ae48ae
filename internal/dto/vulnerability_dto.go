package dto

import (
	"time"

	"github.com/tmkhang/Margays/internal/model"
)

type FindingDTO struct {
	ID          uint            `json:"id"`
	Category    string          `json:"category"`
	Title       string          `json:"title"`
	Severity    model.RiskLevel `json:"severity"`
	Remediation string          `json:"remediation"`
	IsResolved  bool            `json:"is_resolved"`
	ResolvedAt  *time.Time      `json:"resolved_at,omitempty"`
}

type VulnerabilityRecordDTO struct {
	ID           uint            `json:"id"`
	SubmissionID uint            `json:"submission_id"`
	UserID       uint            `json:"user_id"`
	Title        string          `json:"title"`
	Status       string          `json:"status"`
	RiskScore    float64         `json:"risk_score"`
	RiskLevel    model.RiskLevel `json:"risk_level"`
	Findings     []FindingDTO    `json:"findings,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// UpdateVulnerabilityStatusRequest moves a record between open and resolved.
type UpdateVulnerabilityStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=open resolved"`
}
