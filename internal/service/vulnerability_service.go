package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tmkhang/Margays/internal/dto"
	"github.com/tmkhang/Margays/internal/model"
	"github.com/tmkhang/Margays/internal/repository"
	"gorm.io/gorm"
)

// VulnerabilityService derives vulnerability records from completed high-risk
// submissions and manages their lifecycle.
type VulnerabilityService interface {
	DeriveFromSubmission(submission *model.Submission) (*model.VulnerabilityRecord, error)
	ListRecords(principal model.Principal) ([]dto.VulnerabilityRecordDTO, error)
	GetRecord(principal model.Principal, id uint) (*dto.VulnerabilityRecordDTO, error)
	UpdateStatus(id uint, status string) (*dto.VulnerabilityRecordDTO, error)
}

type vulnerabilityService struct {
	db   *gorm.DB
	repo repository.VulnerabilityRepository
}

func NewVulnerabilityService(db *gorm.DB, repo repository.VulnerabilityRepository) VulnerabilityService {
	return &vulnerabilityService{db: db, repo: repo}
}

// DeriveFromSubmission creates the vulnerability record for a completed
// high-risk submission. Submissions that do not qualify, or that already have
// a record, yield nil without error. Answers must be preloaded.
func (s *vulnerabilityService) DeriveFromSubmission(submission *model.Submission) (*model.VulnerabilityRecord, error) {
	if submission.Status != model.SubmissionCompleted || !submission.HasHighRisk() {
		return nil, nil
	}

	exists, err := s.repo.ExistsForSubmission(submission.ID)
	if err != nil {
		return nil, fmt.Errorf("error checking existing vulnerability record: %w", err)
	}
	if exists {
		log.Debug().Uint("submissionID", submission.ID).Msg("Vulnerability record already exists, skipping derivation")
		return nil, nil
	}

	// A qualifying submission without any overall rating is still high risk
	// by definition.
	effective := submission.EffectiveOverallRisk()
	if !effective.Valid() {
		effective = model.RiskHigh
	}
	record := model.VulnerabilityRecord{
		SubmissionID: submission.ID,
		UserID:       submission.UserID,
		Title:        fmt.Sprintf("High Risk Audit - %s", submission.Title),
		Status:       model.VulnerabilityOpen,
		RiskScore:    effective.Score(),
		RiskLevel:    effective,
		Findings:     buildFindings(submission),
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&record).Error
	}); err != nil {
		return nil, fmt.Errorf("database error creating vulnerability record: %w", err)
	}

	log.Info().
		Uint("recordID", record.ID).
		Uint("submissionID", submission.ID).
		Str("riskLevel", string(effective)).
		Int("findings", len(record.Findings)).
		Msg("Vulnerability record derived")
	return &record, nil
}

func (s *vulnerabilityService) ListRecords(principal model.Principal) ([]dto.VulnerabilityRecordDTO, error) {
	var ownerFilter *uint
	if !principal.Admin {
		ownerFilter = &principal.UserID
	}
	records, err := s.repo.FindAll(ownerFilter)
	if err != nil {
		return nil, fmt.Errorf("error fetching vulnerability records: %w", err)
	}
	results := make([]dto.VulnerabilityRecordDTO, len(records))
	for i := range records {
		results[i] = *toVulnerabilityDTO(&records[i])
	}
	return results, nil
}

func (s *vulnerabilityService) GetRecord(principal model.Principal, id uint) (*dto.VulnerabilityRecordDTO, error) {
	record, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !principal.Admin && record.UserID != principal.UserID {
		return nil, ErrForbidden
	}
	return toVulnerabilityDTO(record), nil
}

func (s *vulnerabilityService) UpdateStatus(id uint, status string) (*dto.VulnerabilityRecordDTO, error) {
	record, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	record.Status = status
	if status == model.VulnerabilityResolved {
		now := time.Now()
		for i := range record.Findings {
			if !record.Findings[i].IsResolved {
				record.Findings[i].IsResolved = true
				record.Findings[i].ResolvedAt = &now
			}
		}
	}
	if err := s.repo.Update(record); err != nil {
		return nil, fmt.Errorf("database error updating vulnerability record: %w", err)
	}
	return toVulnerabilityDTO(record), nil
}

// buildFindings turns the high-risk answers into findings. An admin-high
// submission with no individual high-risk answer still gets one synthetic
// finding covering the overall assessment.
func buildFindings(submission *model.Submission) []model.Finding {
	highRisk := submission.HighRiskAnswers()
	if len(highRisk) == 0 {
		return []model.Finding{{
			Category:    model.DefaultFindingCategory,
			Title:       model.SyntheticFindingTitle,
			Severity:    model.RiskHigh,
			Remediation: model.DefaultRemediation,
		}}
	}

	findings := make([]model.Finding, 0, len(highRisk))
	for i := range highRisk {
		answer := &highRisk[i]

		category := model.DefaultFindingCategory
		title := model.DefaultFindingTitle
		if answer.Question.ID != 0 {
			category = answer.Question.Category
			title = answer.Question.Question
		}
		remediation := answer.Recommendation
		if remediation == "" {
			remediation = model.DefaultRemediation
		}
		findings = append(findings, model.Finding{
			Category:    category,
			Title:       title,
			Severity:    model.RiskHigh,
			Remediation: remediation,
		})
	}
	return findings
}
