package handler

import (
	insightapp "github.com/bizsuite/backend/internal/application/insight"
	"github.com/bizsuite/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// InsightHandler handles business insight endpoints
type InsightHandler struct {
	BaseHandler
	insightService *insightapp.InsightService
}

// NewInsightHandler creates a new insight handler
func NewInsightHandler(insightService *insightapp.InsightService) *InsightHandler {
	return &InsightHandler{insightService: insightService}
}

// GenerateResult reports how many insights a scan produced
type GenerateResult struct {
	Generated int `json:"generated"`
}

// List godoc
// @Summary      List insights
// @Tags         insights
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        category query string false "Filter by category"
// @Param        severity query string false "Filter by severity"
// @Param        unacknowledged query bool false "Only unacknowledged insights"
// @Success      200 {object} dto.Response{data=[]insightapp.InsightResponse}
// @Router       /insights [get]
func (h *InsightHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := insightapp.InsightListFilter{
		Page:           listReq.Page,
		PageSize:       listReq.PageSize,
		OrderBy:        listReq.OrderBy,
		OrderDir:       listReq.OrderDir,
		Category:       c.Query("category"),
		Severity:       c.Query("severity"),
		Unacknowledged: c.Query("unacknowledged") == "true",
	}

	insights, total, err := h.insightService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, insights, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @Summary      Get insight by ID
// @Tags         insights
// @Produce      json
// @Param        id path string true "Insight ID"
// @Success      200 {object} dto.Response{data=insightapp.InsightResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /insights/{id} [get]
func (h *InsightHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	insightID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid insight ID")
		return
	}

	insight, err := h.insightService.GetByID(c.Request.Context(), tenantID, insightID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, insight)
}

// Acknowledge godoc
// @Summary      Acknowledge insight
// @Tags         insights
// @Accept       json
// @Produce      json
// @Param        id path string true "Insight ID"
// @Param        request body insightapp.AcknowledgeInsightRequest true "Acknowledger"
// @Success      200 {object} dto.Response{data=insightapp.InsightResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /insights/{id}/acknowledge [post]
func (h *InsightHandler) Acknowledge(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	insightID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid insight ID")
		return
	}

	var req insightapp.AcknowledgeInsightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	insight, err := h.insightService.Acknowledge(c.Request.Context(), tenantID, insightID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, insight)
}

// Delete godoc
// @Summary      Delete insight
// @Tags         insights
// @Produce      json
// @Param        id path string true "Insight ID"
// @Success      204
// @Router       /insights/{id} [delete]
func (h *InsightHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	insightID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid insight ID")
		return
	}

	if err := h.insightService.Delete(c.Request.Context(), tenantID, insightID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Generate godoc
// @Summary      Scan for new insights
// @Description  Run the signal generators against current business data
// @Tags         insights
// @Produce      json
// @Success      200 {object} dto.Response{data=GenerateResult}
// @Router       /insights/generate [post]
func (h *InsightHandler) Generate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	generated, err := h.insightService.GenerateInsights(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, GenerateResult{Generated: generated})
}
