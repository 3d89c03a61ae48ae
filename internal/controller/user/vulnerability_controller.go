package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tmkhang/Margays/internal/controller"
	"github.com/tmkhang/Margays/internal/middleware"
	"github.com/tmkhang/Margays/internal/service"
)

type VulnerabilityController struct {
	vulnerabilityService service.VulnerabilityService
}

func NewVulnerabilityController(vulnerabilityService service.VulnerabilityService) *VulnerabilityController {
	return &VulnerabilityController{vulnerabilityService: vulnerabilityService}
}

// ListRecords godoc
// @Summary List vulnerability records
// @Description Records derived from completed high-risk audits. Users see their own records; admins see everything.
// @Tags Vulnerabilities
// @Produce json
// @Success 200 {array} dto.VulnerabilityRecordDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /vulnerability-records [get]
func (c *VulnerabilityController) ListRecords(ctx *gin.Context) {
	principal := middleware.GetPrincipal(ctx)
	records, err := c.vulnerabilityService.ListRecords(principal)
	if err != nil {
		controller.WriteServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, records)
}

// GetRecord godoc
// @Summary Get one vulnerability record with its findings
// @Tags Vulnerabilities
// @Produce json
// @Param id path int true "Vulnerability record ID"
// @Success 200 {object} dto.VulnerabilityRecordDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 403 {object} dto.ErrorResponse "Record belongs to another user"
// @Failure 404 {object} dto.ErrorResponse "Record not found"
// @Router /vulnerability-records/{id} [get]
func (c *VulnerabilityController) GetRecord(ctx *gin.Context) {
	id, ok := controller.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	principal := middleware.GetPrincipal(ctx)
	record, err := c.vulnerabilityService.GetRecord(principal, id)
	if err != nil {
		controller.WriteServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, record)
}
