package service

import (
	"math"

	"github.com/tmkhang/Margays/internal/dto"
	"github.com/tmkhang/Margays/internal/model"
	"github.com/tmkhang/Margays/internal/repository"
)

func toUserSummary(user *model.User) *dto.UserSummaryDTO {
	if user == nil || user.ID == 0 {
		return nil
	}
	return &dto.UserSummaryDTO{ID: user.ID, Name: user.Name, Email: user.Email}
}

func toAnswerDTO(answer *model.Answer) dto.AnswerResponseDTO {
	resp := dto.AnswerResponseDTO{
		ID:              answer.ID,
		SubmissionID:    answer.SubmissionID,
		QuestionID:      answer.QuestionID,
		Answer:          answer.Answer,
		IsCustomAnswer:  answer.IsCustomAnswer,
		SystemRiskLevel: answer.SystemRiskLevel,
		AdminRiskLevel:  answer.AdminRiskLevel,
		EffectiveRisk:   answer.EffectiveRiskLevel(),
		Status:          answer.Status,
		AdminNotes:      answer.AdminNotes,
		Recommendation:  answer.Recommendation,
		ReviewedBy:      answer.ReviewedBy,
		ReviewedAt:      answer.ReviewedAt,
		Reviewer:        toUserSummary(answer.Reviewer),
	}
	if answer.Question.ID != 0 {
		resp.Question = toQuestionResponse(&answer.Question)
	}
	return resp
}

// reviewProgress is the share of answers already rated by an admin, in
// percent rounded to two decimals.
func reviewProgress(reviewed, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(reviewed)/float64(total)*10000) / 100
}

func answersProgress(answers []model.Answer) float64 {
	var reviewed int64
	for i := range answers {
		if answers[i].IsReviewed() {
			reviewed++
		}
	}
	return reviewProgress(reviewed, int64(len(answers)))
}

func toSubmissionSummaryDTO(listing *repository.SubmissionListing) dto.SubmissionSummaryDTO {
	return dto.SubmissionSummaryDTO{
		ID:                   listing.ID,
		Title:                listing.Title,
		User:                 toUserSummary(&listing.User),
		Status:               listing.Status,
		SystemOverallRisk:    listing.SystemOverallRisk,
		AdminOverallRisk:     listing.AdminOverallRisk,
		EffectiveOverallRisk: listing.EffectiveOverallRisk(),
		ReviewProgress:       reviewProgress(listing.ReviewedAnswersCount, listing.AnswersCount),
		Reviewer:             toUserSummary(listing.Reviewer),
		CreatedAt:            listing.CreatedAt,
		ReviewedAt:           listing.ReviewedAt,
		AnswersCount:         listing.AnswersCount,
		ReviewedAnswersCount: listing.ReviewedAnswersCount,
	}
}

func toSubmissionDetailDTO(submission *model.Submission) dto.SubmissionDetailDTO {
	answers := make([]dto.AnswerResponseDTO, len(submission.Answers))
	for i := range submission.Answers {
		answers[i] = toAnswerDTO(&submission.Answers[i])
	}
	return dto.SubmissionDetailDTO{
		ID:                   submission.ID,
		Title:                submission.Title,
		Status:               submission.Status,
		SystemOverallRisk:    submission.SystemOverallRisk,
		AdminOverallRisk:     submission.AdminOverallRisk,
		EffectiveOverallRisk: submission.EffectiveOverallRisk(),
		AdminSummary:         submission.AdminSummary,
		User:                 toUserSummary(&submission.User),
		Reviewer:             toUserSummary(submission.Reviewer),
		Answers:              answers,
		ReviewProgress:       answersProgress(submission.Answers),
		CreatedAt:            submission.CreatedAt,
		ReviewedAt:           submission.ReviewedAt,
	}
}

func toFindingDTO(finding *model.Finding) dto.FindingDTO {
	return dto.FindingDTO{
		ID:          finding.ID,
		Category:    finding.Category,
		Title:       finding.Title,
		Severity:    finding.Severity,
		Remediation: finding.Remediation,
		IsResolved:  finding.IsResolved,
		ResolvedAt:  finding.ResolvedAt,
	}
}

func toVulnerabilityDTO(record *model.VulnerabilityRecord) *dto.VulnerabilityRecordDTO {
	findings := make([]dto.FindingDTO, len(record.Findings))
	for i := range record.Findings {
		findings[i] = toFindingDTO(&record.Findings[i])
	}
	return &dto.VulnerabilityRecordDTO{
		ID:           record.ID,
		SubmissionID: record.SubmissionID,
		UserID:       record.UserID,
		Title:        record.Title,
		Status:       record.Status,
		RiskScore:    record.RiskScore,
		RiskLevel:    record.RiskLevel,
		Findings:     findings,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
}
