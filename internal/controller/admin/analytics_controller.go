package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tmkhang/Margays/internal/controller"
	"github.com/tmkhang/Margays/internal/service"
)

type AnalyticsController struct {
	analyticsService service.AnalyticsService
}

func NewAnalyticsController(analyticsService service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{analyticsService: analyticsService}
}

// Dashboard godoc
// @Summary (Admin) Review queue dashboard
// @Description Pending and in-progress review counters plus recent submissions.
// @Tags Admin - Analytics
// @Produce json
// @Success 200 {object} dto.DashboardDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/dashboard [get]
func (c *AnalyticsController) Dashboard(ctx *gin.Context) {
	dashboard, err := c.analyticsService.Dashboard()
	if err != nil {
		controller.WriteServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dashboard)
}

// Analytics godoc
// @Summary (Admin) Audit analytics
// @Description Submission totals, review throughput, risk distribution and the questions most often answered high-risk.
// @Tags Admin - Analytics
// @Produce json
// @Success 200 {object} dto.AnalyticsDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/analytics [get]
func (c *AnalyticsController) Analytics(ctx *gin.Context) {
	analytics, err := c.analyticsService.Analytics()
	if err != nil {
		controller.WriteServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, analytics)
}
