package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coursegen/internal/api/middleware"
	"coursegen/internal/service"
)

// DashboardHandler handles the caller's dashboard summary
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Summary handles dashboard requests
// @Summary Dashboard summary
// @Description Totals over the caller's own courses, chapters, subtopics and slides
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=models.DashboardSummary}
// @Failure 401 {object} models.APIResponse
// @Failure 503 {object} models.APIResponse
// @Router /api/dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.dashboardService.Summary(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, summary)
}
