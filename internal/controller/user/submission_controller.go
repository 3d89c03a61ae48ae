package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/tmkhang/Margays/internal/controller"
	"github.com/tmkhang/Margays/internal/dto"
	"github.com/tmkhang/Margays/internal/middleware"
	"github.com/tmkhang/Margays/internal/service"
)

type SubmissionController struct {
	submissionService service.SubmissionService
}

func NewSubmissionController(submissionService service.SubmissionService) *SubmissionController {
	return &SubmissionController{submissionService: submissionService}
}

// CreateSubmission godoc
// @Summary Submit a completed audit
// @Description Submit answers to audit questions. Every answer is risk-rated and the overall risk is computed before the submission is stored.
// @Tags Submissions
// @Accept json
// @Produce json
// @Param submission body dto.CreateSubmissionRequest true "Title and answers"
// @Success 201 {object} dto.SubmissionDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 422 {object} dto.ErrorResponse "An answer is invalid for its question"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /audit-submissions [post]
func (c *SubmissionController) CreateSubmission(ctx *gin.Context) {
	var req dto.CreateSubmissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateSubmission: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	principal := middleware.GetPrincipal(ctx)
	detail, err := c.submissionService.CreateSubmission(principal.UserID, req)
	if err != nil {
		controller.WriteServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, detail)
}

// ListSubmissions godoc
// @Summary List audit submissions
// @Description Users see their own submissions; admins see everything.
// @Tags Submissions
// @Produce json
// @Success 200 {array} dto.SubmissionSummaryDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /audit-submissions [get]
func (c *SubmissionController) ListSubmissions(ctx *gin.Context) {
	principal := middleware.GetPrincipal(ctx)
	submissions, err := c.submissionService.ListSubmissions(principal)
	if err != nil {
		controller.WriteServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, submissions)
}

// GetSubmission godoc
// @Summary Get one audit submission with all answers
// @Tags Submissions
// @Produce json
// @Param id path int true "Submission ID"
// @Success 200 {object} dto.SubmissionDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 403 {object} dto.ErrorResponse "Submission belongs to another user"
// @Failure 404 {object} dto.ErrorResponse "Submission not found"
// @Router /audit-submissions/{id} [get]
func (c *SubmissionController) GetSubmission(ctx *gin.Context) {
	id, ok := controller.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	principal := middleware.GetPrincipal(ctx)
	detail, err := c.submissionService.GetSubmission(principal, id)
	if err != nil {
		controller.WriteServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, detail)
}
