package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/voxbill/voxbill/internal/logger"
	"github.com/voxbill/voxbill/internal/service"
)

type HierarchyHandler struct {
	hierarchyService service.HierarchyService
	logger           *logger.Logger
}

func NewHierarchyHandler(hierarchyService service.HierarchyService, logger *logger.Logger) *HierarchyHandler {
	return &HierarchyHandler{
		hierarchyService: hierarchyService,
		logger:           logger,
	}
}

// GetResellerStats godoc
// @Summary Get reseller dashboard stats
// @Description Aggregate counts, today's usage, and pooled balance for the reseller's subtree
// @Tags Hierarchy
// @Produce json
// @Param id path string true "Reseller account ID"
// @Success 200 {object} dto.ResellerStatsResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /resellers/{id}/stats [get]
func (h *HierarchyHandler) GetResellerStats(c *gin.Context) {
	stats, err := h.hierarchyService.ResellerStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		NewErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetCompanyStats godoc
// @Summary Get company dashboard stats
// @Description User count, channel pool state, today's usage, and balance for the company's subtree
// @Tags Hierarchy
// @Produce json
// @Param id path string true "Company account ID"
// @Success 200 {object} dto.CompanyStatsResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /companies/{id}/stats [get]
func (h *HierarchyHandler) GetCompanyStats(c *gin.Context) {
	stats, err := h.hierarchyService.CompanyStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		NewErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
