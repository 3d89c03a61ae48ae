package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmkhang/Margays/internal/dto"
	"github.com/tmkhang/Margays/internal/model"
	"github.com/tmkhang/Margays/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newReviewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Question{},
		&model.Submission{},
		&model.Answer{},
		&model.VulnerabilityRecord{},
		&model.Finding{},
	))
	return db
}

func newReviewTestService(t *testing.T) (ReviewService, *gorm.DB) {
	t.Helper()
	db := newReviewTestDB(t)
	svc := NewReviewService(
		db,
		repository.NewSubmissionRepository(db),
		repository.NewAnswerRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewUserRepository(db),
		NewRiskAggregatorService(),
		NewVulnerabilityService(db, repository.NewVulnerabilityRepository(db)),
	)
	return svc, db
}

type reviewFixture struct {
	admin      model.User
	otherAdmin model.User
	owner      model.User
	submission model.Submission
	answers    []model.Answer
}

// seedReviewFixture creates a submitted two-answer submission: answers[0]
// rated high by the system, answers[1] rated low.
func seedReviewFixture(t *testing.T, db *gorm.DB) reviewFixture {
	t.Helper()

	admin := model.User{Name: "Alice Admin", Email: "alice@example.com", Role: model.RoleAdmin}
	otherAdmin := model.User{Name: "Bob Admin", Email: "bob@example.com", Role: model.RoleAdmin}
	owner := model.User{Name: "Carol User", Email: "carol@example.com", Role: model.RoleUser}
	require.NoError(t, db.Create(&admin).Error)
	require.NoError(t, db.Create(&otherAdmin).Error)
	require.NoError(t, db.Create(&owner).Error)

	question := model.Question{
		Question:        "Is multi-factor authentication enforced for all accounts?",
		Category:        "Access Control",
		PossibleAnswers: model.StringList{"Yes", "No"},
		RiskCriteria: model.RiskCriteria{
			model.RiskHigh: {"No"},
			model.RiskLow:  {"Yes"},
		},
	}
	require.NoError(t, db.Create(&question).Error)

	submission := model.Submission{
		UserID:            owner.ID,
		Title:             "Quarterly access audit",
		Status:            model.SubmissionSubmitted,
		SystemOverallRisk: riskPtr(model.RiskHigh),
		Answers: []model.Answer{
			{
				QuestionID:      question.ID,
				Answer:          "No",
				SystemRiskLevel: riskPtr(model.RiskHigh),
				Status:          model.AnswerPending,
			},
			{
				QuestionID:      question.ID,
				Answer:          "Yes",
				SystemRiskLevel: riskPtr(model.RiskLow),
				Status:          model.AnswerPending,
			},
		},
	}
	require.NoError(t, db.Create(&submission).Error)

	return reviewFixture{
		admin:      admin,
		otherAdmin: otherAdmin,
		owner:      owner,
		submission: submission,
		answers:    submission.Answers,
	}
}

func reloadSubmission(t *testing.T, db *gorm.DB, id uint) model.Submission {
	t.Helper()
	var submission model.Submission
	require.NoError(t, db.First(&submission, id).Error)
	return submission
}

func reloadAnswer(t *testing.T, db *gorm.DB, id uint) model.Answer {
	t.Helper()
	var answer model.Answer
	require.NoError(t, db.First(&answer, id).Error)
	return answer
}

func TestReviewAnswerMovesSubmissionUnderReview(t *testing.T) {
	svc, db := newReviewTestService(t)
	fx := seedReviewFixture(t, db)

	result, err := svc.ReviewAnswer(fx.admin.ID, fx.submission.ID, fx.answers[0].ID, dto.ReviewAnswerRequest{
		AdminRiskLevel: "high",
		AdminNotes:     "No MFA on privileged accounts",
	})
	require.NoError(t, err)

	assert.Equal(t, model.SubmissionUnderReview, result.SubmissionStatus)
	assert.Equal(t, 50.0, result.ReviewProgress)

	answer := reloadAnswer(t, db, fx.answers[0].ID)
	require.NotNil(t, answer.ReviewedBy)
	assert.Equal(t, fx.admin.ID, *answer.ReviewedBy)
	require.NotNil(t, answer.AdminRiskLevel)
	assert.Equal(t, model.RiskHigh, *answer.AdminRiskLevel)
	assert.Equal(t, model.AnswerReviewed, answer.Status)

	submission := reloadSubmission(t, db, fx.submission.ID)
	assert.Equal(t, model.SubmissionUnderReview, submission.Status)
}

func TestReviewAnswerAlreadyReviewedConflicts(t *testing.T) {
	svc, db := newReviewTestService(t)
	fx := seedReviewFixture(t, db)

	_, err := svc.ReviewAnswer(fx.admin.ID, fx.submission.ID, fx.answers[0].ID, dto.ReviewAnswerRequest{
		AdminRiskLevel: "high",
	})
	require.NoError(t, err)

	_, err = svc.ReviewAnswer(fx.otherAdmin.ID, fx.submission.ID, fx.answers[0].ID, dto.ReviewAnswerRequest{
		AdminRiskLevel: "low",
	})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)

	// First reviewer's rating stays in place.
	answer := reloadAnswer(t, db, fx.answers[0].ID)
	require.NotNil(t, answer.ReviewedBy)
	assert.Equal(t, fx.admin.ID, *answer.ReviewedBy)
	assert.Equal(t, model.RiskHigh, *answer.AdminRiskLevel)
}

func TestBulkReviewSkipsAlreadyReviewedAnswers(t *testing.T) {
	svc, db := newReviewTestService(t)
	fx := seedReviewFixture(t, db)

	_, err := svc.ReviewAnswer(fx.admin.ID, fx.submission.ID, fx.answers[0].ID, dto.ReviewAnswerRequest{
		AdminRiskLevel: "high",
	})
	require.NoError(t, err)
	before := reloadAnswer(t, db, fx.answers[0].ID)

	result, err := svc.BulkReviewAnswers(fx.otherAdmin.ID, fx.submission.ID, dto.BulkReviewRequest{
		Answers: []dto.BulkReviewItem{
			{AnswerID: fx.answers[0].ID, AdminRiskLevel: "low"},
			{AnswerID: fx.answers[1].ID, AdminRiskLevel: "low"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.ReviewedCount)
	assert.Equal(t, 1, result.SkippedCount)
	assert.Equal(t, 100.0, result.ReviewProgress)

	// The skipped answer keeps the first reviewer's verdict untouched.
	after := reloadAnswer(t, db, fx.answers[0].ID)
	assert.Equal(t, *before.ReviewedBy, *after.ReviewedBy)
	assert.Equal(t, *before.AdminRiskLevel, *after.AdminRiskLevel)
	assert.True(t, before.ReviewedAt.Equal(*after.ReviewedAt))

	second := reloadAnswer(t, db, fx.answers[1].ID)
	require.NotNil(t, second.ReviewedBy)
	assert.Equal(t, fx.otherAdmin.ID, *second.ReviewedBy)
}

func TestBulkReviewRejectsForeignAnswer(t *testing.T) {
	svc, db := newReviewTestService(t)
	fx := seedReviewFixture(t, db)

	_, err := svc.BulkReviewAnswers(fx.admin.ID, fx.submission.ID, dto.BulkReviewRequest{
		Answers: []dto.BulkReviewItem{
			{AnswerID: fx.answers[0].ID + 1000, AdminRiskLevel: "low"},
		},
	})
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)

	// Nothing was applied.
	answer := reloadAnswer(t, db, fx.answers[0].ID)
	assert.Nil(t, answer.ReviewedBy)
}

func TestCompleteReviewRejectsPendingAnswers(t *testing.T) {
	svc, db := newReviewTestService(t)
	fx := seedReviewFixture(t, db)

	_, err := svc.ReviewAnswer(fx.admin.ID, fx.submission.ID, fx.answers[0].ID, dto.ReviewAnswerRequest{
		AdminRiskLevel: "high",
	})
	require.NoError(t, err)

	_, err = svc.CompleteReview(fx.admin.ID, fx.submission.ID, dto.CompleteReviewRequest{
		AdminOverallRisk: "high",
	})
	var incomplete *IncompleteReviewError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, int64(1), incomplete.PendingCount)

	submission := reloadSubmission(t, db, fx.submission.ID)
	assert.Equal(t, model.SubmissionUnderReview, submission.Status)
	assert.Nil(t, submission.ReviewedBy)
}

func TestCompleteReviewDerivesVulnerabilityRecord(t *testing.T) {
	svc, db := newReviewTestService(t)
	fx := seedReviewFixture(t, db)

	_, err := svc.BulkReviewAnswers(fx.admin.ID, fx.submission.ID, dto.BulkReviewRequest{
		Answers: []dto.BulkReviewItem{
			{AnswerID: fx.answers[0].ID, AdminRiskLevel: "high"},
			{AnswerID: fx.answers[1].ID, AdminRiskLevel: "low"},
		},
	})
	require.NoError(t, err)

	summary := "Privileged access lacks MFA"
	result, err := svc.CompleteReview(fx.admin.ID, fx.submission.ID, dto.CompleteReviewRequest{
		AdminOverallRisk: "high",
		AdminSummary:     &summary,
	})
	require.NoError(t, err)

	require.NotNil(t, result.VulnerabilityRecord)
	assert.Equal(t, "High Risk Audit - Quarterly access audit", result.VulnerabilityRecord.Title)

	submission := reloadSubmission(t, db, fx.submission.ID)
	assert.Equal(t, model.SubmissionCompleted, submission.Status)
	require.NotNil(t, submission.AdminOverallRisk)
	assert.Equal(t, model.RiskHigh, *submission.AdminOverallRisk)
	require.NotNil(t, submission.ReviewedBy)
	assert.Equal(t, fx.admin.ID, *submission.ReviewedBy)
	assert.NotNil(t, submission.ReviewedAt)

	var records int64
	require.NoError(t, db.Model(&model.VulnerabilityRecord{}).Count(&records).Error)
	assert.Equal(t, int64(1), records)
}

func TestCompleteReviewLowRiskSkipsDerivation(t *testing.T) {
	svc, db := newReviewTestService(t)
	fx := seedReviewFixture(t, db)

	_, err := svc.BulkReviewAnswers(fx.admin.ID, fx.submission.ID, dto.BulkReviewRequest{
		Answers: []dto.BulkReviewItem{
			{AnswerID: fx.answers[0].ID, AdminRiskLevel: "low"},
			{AnswerID: fx.answers[1].ID, AdminRiskLevel: "low"},
		},
	})
	require.NoError(t, err)

	result, err := svc.CompleteReview(fx.admin.ID, fx.submission.ID, dto.CompleteReviewRequest{
		AdminOverallRisk: "low",
	})
	require.NoError(t, err)
	assert.Nil(t, result.VulnerabilityRecord)

	var records int64
	require.NoError(t, db.Model(&model.VulnerabilityRecord{}).Count(&records).Error)
	assert.Equal(t, int64(0), records)
}

func TestCompleteReviewIsTerminal(t *testing.T) {
	svc, db := newReviewTestService(t)
	fx := seedReviewFixture(t, db)

	_, err := svc.BulkReviewAnswers(fx.admin.ID, fx.submission.ID, dto.BulkReviewRequest{
		Answers: []dto.BulkReviewItem{
			{AnswerID: fx.answers[0].ID, AdminRiskLevel: "low"},
			{AnswerID: fx.answers[1].ID, AdminRiskLevel: "low"},
		},
	})
	require.NoError(t, err)

	_, err = svc.CompleteReview(fx.admin.ID, fx.submission.ID, dto.CompleteReviewRequest{
		AdminOverallRisk: "low",
	})
	require.NoError(t, err)

	_, err = svc.CompleteReview(fx.otherAdmin.ID, fx.submission.ID, dto.CompleteReviewRequest{
		AdminOverallRisk: "high",
	})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)

	// The first admin's verdict survives the second attempt.
	submission := reloadSubmission(t, db, fx.submission.ID)
	assert.Equal(t, model.SubmissionCompleted, submission.Status)
	assert.Equal(t, model.RiskLow, *submission.AdminOverallRisk)
	assert.Equal(t, fx.admin.ID, *submission.ReviewedBy)
}

// Two admins can both read the submission as reviewable before either commits.
// The guarded update must let exactly one of them win.
func TestCompleteSubmissionGuardWinsRace(t *testing.T) {
	svc, db := newReviewTestService(t)
	fx := seedReviewFixture(t, db)

	_, err := svc.BulkReviewAnswers(fx.admin.ID, fx.submission.ID, dto.BulkReviewRequest{
		Answers: []dto.BulkReviewItem{
			{AnswerID: fx.answers[0].ID, AdminRiskLevel: "low"},
			{AnswerID: fx.answers[1].ID, AdminRiskLevel: "low"},
		},
	})
	require.NoError(t, err)

	now := time.Now()
	applied, err := completeSubmission(db, fx.submission.ID, fx.admin.ID, model.RiskLow, nil, now)
	require.NoError(t, err)
	assert.True(t, applied)

	// Second write with a stale view of the status matches zero rows.
	applied, err = completeSubmission(db, fx.submission.ID, fx.otherAdmin.ID, model.RiskHigh, nil, now)
	require.NoError(t, err)
	assert.False(t, applied)

	submission := reloadSubmission(t, db, fx.submission.ID)
	assert.Equal(t, model.RiskLow, *submission.AdminOverallRisk)
	assert.Equal(t, fx.admin.ID, *submission.ReviewedBy)
}

func TestReviewAnswerUnknownReviewerForbidden(t *testing.T) {
	svc, db := newReviewTestService(t)
	fx := seedReviewFixture(t, db)

	_, err := svc.ReviewAnswer(9999, fx.submission.ID, fx.answers[0].ID, dto.ReviewAnswerRequest{
		AdminRiskLevel: "high",
	})
	assert.ErrorIs(t, err, ErrForbidden)
}
