package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/tmkhang/Margays/internal/controller"
	"github.com/tmkhang/Margays/internal/dto"
	"github.com/tmkhang/Margays/internal/service"
)

type QuestionController struct {
	questionService service.QuestionService
}

func NewQuestionController(questionService service.QuestionService) *QuestionController {
	return &QuestionController{questionService: questionService}
}

// CreateQuestion godoc
// @Summary (Admin) Create an audit question
// @Description Create a question with its possible answers and the risk criteria mapping answers to risk levels.
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Param question body dto.CreateQuestionRequest true "Question definition"
// @Success 201 {object} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 422 {object} dto.ErrorResponse "Risk criteria reference unknown answers"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/audit-questions [post]
func (c *QuestionController) CreateQuestion(ctx *gin.Context) {
	var req dto.CreateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateQuestion: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.questionService.CreateQuestion(req)
	if err != nil {
		controller.WriteServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// UpdateQuestion godoc
// @Summary (Admin) Update an audit question
// @Description Update a question. Once answers reference it, only description and category may change.
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Param id path int true "Question ID"
// @Param question body dto.CreateQuestionRequest true "Updated question definition"
// @Success 200 {object} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or ID"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Failure 409 {object} dto.ErrorResponse "Question structure is referenced by answers"
// @Failure 422 {object} dto.ErrorResponse "Risk criteria reference unknown answers"
// @Router /admin/audit-questions/{id} [put]
func (c *QuestionController) UpdateQuestion(ctx *gin.Context) {
	id, ok := controller.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.CreateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.questionService.UpdateQuestion(id, req)
	if err != nil {
		controller.WriteServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ArchiveQuestion godoc
// @Summary (Admin) Archive an audit question
// @Description Soft-delete a question. Existing answers keep referencing it and archived questions can be restored.
// @Tags Admin - Questions
// @Param id path int true "Question ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /admin/audit-questions/{id} [delete]
func (c *QuestionController) ArchiveQuestion(ctx *gin.Context) {
	id, ok := controller.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.questionService.ArchiveQuestion(id); err != nil {
		controller.WriteServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{
		Message: "Question archived successfully",
		Note:    "Existing answers still reference this question; restore it at any time",
	})
}

// GetArchivedQuestions godoc
// @Summary (Admin) List archived audit questions
// @Tags Admin - Questions
// @Produce json
// @Success 200 {array} dto.QuestionResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/audit-questions/archived [get]
func (c *QuestionController) GetArchivedQuestions(ctx *gin.Context) {
	questions, err := c.questionService.GetArchivedQuestions()
	if err != nil {
		controller.WriteServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, questions)
}

// RestoreQuestion godoc
// @Summary (Admin) Restore an archived audit question
// @Tags Admin - Questions
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {object} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 404 {object} dto.ErrorResponse "No archived question with this ID"
// @Router /admin/audit-questions/{id}/restore [post]
func (c *QuestionController) RestoreQuestion(ctx *gin.Context) {
	id, ok := controller.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	resp, err := c.questionService.RestoreQuestion(id)
	if err != nil {
		controller.WriteServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetQuestionStatistics godoc
// @Summary (Admin) Per-question usage statistics
// @Description Answer counts, high-risk counts and answer distribution for every active question.
// @Tags Admin - Questions
// @Produce json
// @Success 200 {array} dto.QuestionStatisticsDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/audit-questions/statistics [get]
func (c *QuestionController) GetQuestionStatistics(ctx *gin.Context) {
	stats, err := c.questionService.GetQuestionStatistics()
	if err != nil {
		controller.WriteServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}
