package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmkhang/Margays/internal/model"
)

func riskPtr(level model.RiskLevel) *model.RiskLevel {
	return &level
}

func TestBuildFindingsFromHighRiskAnswers(t *testing.T) {
	submission := &model.Submission{
		ID:               10,
		UserID:           3,
		Status:           model.SubmissionCompleted,
		AdminOverallRisk: riskPtr(model.RiskMedium),
		Answers: []model.Answer{
			{
				SystemRiskLevel: riskPtr(model.RiskHigh),
				Recommendation:  "Enforce MFA for all accounts",
				Question: model.Question{
					ID:       1,
					Question: "Is multi-factor authentication enforced?",
					Category: "Access Control",
				},
			},
			{
				SystemRiskLevel: riskPtr(model.RiskLow),
				AdminRiskLevel:  riskPtr(model.RiskHigh),
				Question: model.Question{
					ID:       2,
					Question: "Are backups tested regularly?",
					Category: "Resilience",
				},
			},
			{
				SystemRiskLevel: riskPtr(model.RiskLow),
			},
		},
	}

	findings := buildFindings(submission)
	require.Len(t, findings, 2)

	assert.Equal(t, "Is multi-factor authentication enforced?", findings[0].Title)
	assert.Equal(t, "Access Control", findings[0].Category)
	assert.Equal(t, model.RiskHigh, findings[0].Severity)
	assert.Equal(t, "Enforce MFA for all accounts", findings[0].Remediation)

	// Admin-overridden high answer without recommendation gets the default.
	assert.Equal(t, "Are backups tested regularly?", findings[1].Title)
	assert.Equal(t, model.DefaultRemediation, findings[1].Remediation)
}

func TestBuildFindingsSyntheticForAdminHighOnly(t *testing.T) {
	submission := &model.Submission{
		ID:               11,
		Status:           model.SubmissionCompleted,
		AdminOverallRisk: riskPtr(model.RiskHigh),
		Answers: []model.Answer{
			{SystemRiskLevel: riskPtr(model.RiskLow)},
			{SystemRiskLevel: riskPtr(model.RiskMedium)},
		},
	}

	findings := buildFindings(submission)
	require.Len(t, findings, 1)
	assert.Equal(t, model.SyntheticFindingTitle, findings[0].Title)
	assert.Equal(t, model.DefaultFindingCategory, findings[0].Category)
	assert.Equal(t, model.RiskHigh, findings[0].Severity)
	assert.Equal(t, model.DefaultRemediation, findings[0].Remediation)
}

func TestHighRiskQualification(t *testing.T) {
	tests := []struct {
		name       string
		submission model.Submission
		qualifies  bool
	}{
		{
			name: "admin high with no high answers qualifies",
			submission: model.Submission{
				Status:           model.SubmissionCompleted,
				AdminOverallRisk: riskPtr(model.RiskHigh),
				Answers:          []model.Answer{{SystemRiskLevel: riskPtr(model.RiskLow)}},
			},
			qualifies: true,
		},
		{
			name: "single high answer qualifies",
			submission: model.Submission{
				Status:           model.SubmissionCompleted,
				AdminOverallRisk: riskPtr(model.RiskLow),
				Answers:          []model.Answer{{SystemRiskLevel: riskPtr(model.RiskHigh)}},
			},
			qualifies: true,
		},
		{
			name: "admin low and no high answers does not qualify",
			submission: model.Submission{
				Status:           model.SubmissionCompleted,
				AdminOverallRisk: riskPtr(model.RiskLow),
				Answers:          []model.Answer{{SystemRiskLevel: riskPtr(model.RiskMedium)}},
			},
			qualifies: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.qualifies, tc.submission.HasHighRisk())
		})
	}
}
