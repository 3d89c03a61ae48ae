package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/tmkhang/Margays/internal/controller"
	"github.com/tmkhang/Margays/internal/dto"
	"github.com/tmkhang/Margays/internal/service"
)

type VulnerabilityController struct {
	vulnerabilityService service.VulnerabilityService
}

func NewVulnerabilityController(vulnerabilityService service.VulnerabilityService) *VulnerabilityController {
	return &VulnerabilityController{vulnerabilityService: vulnerabilityService}
}

// UpdateStatus godoc
// @Summary (Admin) Update vulnerability record status
// @Description Move a derived vulnerability record between open and resolved. Resolving also resolves its findings.
// @Tags Admin - Vulnerabilities
// @Accept json
// @Produce json
// @Param id path int true "Vulnerability record ID"
// @Param status body dto.UpdateVulnerabilityStatusRequest true "New status"
// @Success 200 {object} dto.VulnerabilityRecordDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or ID"
// @Failure 404 {object} dto.ErrorResponse "Record not found"
// @Router /admin/vulnerability-records/{id}/status [put]
func (c *VulnerabilityController) UpdateStatus(ctx *gin.Context) {
	id, ok := controller.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateVulnerabilityStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin UpdateVulnerabilityStatus: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	record, err := c.vulnerabilityService.UpdateStatus(id, req.Status)
	if err != nil {
		controller.WriteServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, record)
}
