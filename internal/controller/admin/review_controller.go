package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/tmkhang/Margays/internal/controller"
	"github.com/tmkhang/Margays/internal/dto"
	"github.com/tmkhang/Margays/internal/middleware"
	"github.com/tmkhang/Margays/internal/service"
)

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{reviewService: reviewService}
}

// ReviewAnswer godoc
// @Summary (Admin) Review a single answer
// @Description Rate one answer of a submission. The first review wins; re-reviewing a rated answer is rejected.
// @Tags Admin - Review
// @Accept json
// @Produce json
// @Param id path int true "Submission ID"
// @Param answer_id path int true "Answer ID"
// @Param review body dto.ReviewAnswerRequest true "Admin rating, notes and optional recommendation override"
// @Success 200 {object} dto.ReviewAnswerResultDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or ID"
// @Failure 404 {object} dto.ErrorResponse "Submission or answer not found"
// @Failure 409 {object} dto.ErrorResponse "Answer already reviewed or review completed"
// @Failure 422 {object} dto.ErrorResponse "Answer does not belong to the submission"
// @Router /admin/audit-submissions/{id}/answers/{answer_id}/review [put]
func (c *ReviewController) ReviewAnswer(ctx *gin.Context) {
	submissionID, ok := controller.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	answerID, ok := controller.ParseIDParam(ctx, "answer_id")
	if !ok {
		return
	}
	var req dto.ReviewAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin ReviewAnswer: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	principal := middleware.GetPrincipal(ctx)
	result, err := c.reviewService.ReviewAnswer(principal.UserID, submissionID, answerID, req)
	if err != nil {
		controller.WriteServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// BulkReviewAnswers godoc
// @Summary (Admin) Review several answers at once
// @Description Rate multiple answers of one submission in a single transaction. Already-reviewed answers are skipped and counted.
// @Tags Admin - Review
// @Accept json
// @Produce json
// @Param id path int true "Submission ID"
// @Param reviews body dto.BulkReviewRequest true "Answer ratings"
// @Success 200 {object} dto.BulkReviewResultDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or ID"
// @Failure 404 {object} dto.ErrorResponse "Submission not found"
// @Failure 409 {object} dto.ErrorResponse "Review already completed"
// @Failure 422 {object} dto.ErrorResponse "An answer does not belong to the submission"
// @Router /admin/audit-submissions/{id}/answers/bulk-review [put]
func (c *ReviewController) BulkReviewAnswers(ctx *gin.Context) {
	submissionID, ok := controller.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.BulkReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin BulkReviewAnswers: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	principal := middleware.GetPrincipal(ctx)
	result, err := c.reviewService.BulkReviewAnswers(principal.UserID, submissionID, req)
	if err != nil {
		controller.WriteServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// CompleteReview godoc
// @Summary (Admin) Complete a submission review
// @Description Close the review with an overall admin rating. Every answer must be reviewed first. Completed high-risk submissions derive a vulnerability record.
// @Tags Admin - Review
// @Accept json
// @Produce json
// @Param id path int true "Submission ID"
// @Param completion body dto.CompleteReviewRequest true "Overall admin risk and optional summary"
// @Success 200 {object} dto.CompleteReviewResultDTO
// @Failure 400 {object} dto.ErrorResponse "Answers still pending review"
// @Failure 404 {object} dto.ErrorResponse "Submission not found"
// @Failure 409 {object} dto.ErrorResponse "Review already completed"
// @Router /admin/audit-submissions/{id}/complete [put]
func (c *ReviewController) CompleteReview(ctx *gin.Context) {
	submissionID, ok := controller.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.CompleteReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CompleteReview: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	principal := middleware.GetPrincipal(ctx)
	result, err := c.reviewService.CompleteReview(principal.UserID, submissionID, req)
	if err != nil {
		controller.WriteServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// RecalculateRisk godoc
// @Summary (Admin) Recalculate system overall risk
// @Description Re-run risk aggregation over the submission's current answer levels. Idempotent fix-up for historical data.
// @Tags Admin - Review
// @Produce json
// @Param id path int true "Submission ID"
// @Success 200 {object} dto.RecalculateRiskResultDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 404 {object} dto.ErrorResponse "Submission not found"
// @Router /admin/audit-submissions/{id}/recalculate-risk [post]
func (c *ReviewController) RecalculateRisk(ctx *gin.Context) {
	submissionID, ok := controller.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	result, err := c.reviewService.RecalculateSystemRisk(submissionID)
	if err != nil {
		controller.WriteServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}
