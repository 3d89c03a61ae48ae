package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tmkhang/Margays/internal/controller"
	"github.com/tmkhang/Margays/internal/service"
)

type QuestionController struct {
	questionService service.QuestionService
}

func NewQuestionController(questionService service.QuestionService) *QuestionController {
	return &QuestionController{questionService: questionService}
}

// GetAllQuestions godoc
// @Summary List active audit questions
// @Description The questionnaire presented to users. Archived questions are excluded.
// @Tags Questions
// @Produce json
// @Success 200 {array} dto.QuestionResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /audit-questions [get]
func (c *QuestionController) GetAllQuestions(ctx *gin.Context) {
	questions, err := c.questionService.GetAllQuestions()
	if err != nil {
		controller.WriteServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, questions)
}

// GetQuestion godoc
// @Summary Get one audit question
// @Tags Questions
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {object} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /audit-questions/{id} [get]
func (c *QuestionController) GetQuestion(ctx *gin.Context) {
	id, ok := controller.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	question, err := c.questionService.GetQuestion(id)
	if err != nil {
		controller.WriteServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, question)
}
