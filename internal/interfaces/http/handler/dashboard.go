package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/application/storefront"
)

// DashboardHandler serves the customer dashboard
type DashboardHandler struct {
	BaseHandler
	dashboardService *storefront.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *storefront.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboard godoc
// @Summary      Customer dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} dto.Response{data=storefront.Dashboard}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	viewer := getViewer(c)
	if viewer == nil {
		h.Unauthorized(c, storefront.ErrSignInRequired.Message)
		return
	}

	dashboard, err := h.dashboardService.Dashboard(c.Request.Context(), viewer)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dashboard)
}
