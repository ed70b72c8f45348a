package handler

import (
	reportapp "github.com/bizsuite/backend/internal/application/report"
	"github.com/gin-gonic/gin"
)

// ReportHandler handles cross-module dashboard endpoints
type ReportHandler struct {
	BaseHandler
	dashboardService *reportapp.DashboardService
}

// NewReportHandler creates a new report handler
func NewReportHandler(dashboardService *reportapp.DashboardService) *ReportHandler {
	return &ReportHandler{dashboardService: dashboardService}
}

// Dashboard godoc
// @Summary      Business dashboard
// @Description  Sales, finance, HR, project and alert sections in one view
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.Response{data=reportapp.DashboardResponse}
// @Router       /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	dashboard, err := h.dashboardService.Dashboard(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dashboard)
}
