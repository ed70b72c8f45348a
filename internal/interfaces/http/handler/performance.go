package handler

import (
	"time"

	insightapp "github.com/bizsuite/backend/internal/application/insight"
	"github.com/bizsuite/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// PerformanceHandler handles performance metric and alert endpoints
type PerformanceHandler struct {
	BaseHandler
	performanceService *insightapp.PerformanceService
}

// NewPerformanceHandler creates a new performance handler
func NewPerformanceHandler(performanceService *insightapp.PerformanceService) *PerformanceHandler {
	return &PerformanceHandler{performanceService: performanceService}
}

// EvaluateResult reports how many alerts an evaluation raised
type EvaluateResult struct {
	Raised int `json:"raised"`
}

// RecordMetric godoc
// @Summary      Record metric sample
// @Tags         performance
// @Accept       json
// @Produce      json
// @Param        request body insightapp.RecordMetricRequest true "Sample"
// @Success      201 {object} dto.Response{data=insightapp.MetricResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /performance/metrics [post]
func (h *PerformanceHandler) RecordMetric(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req insightapp.RecordMetricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	metric, err := h.performanceService.Record(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, metric)
}

// ListMetrics godoc
// @Summary      List metric samples
// @Tags         performance
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        name query string false "Filter by metric name"
// @Param        from query string false "Range start (RFC3339)"
// @Param        to query string false "Range end (RFC3339)"
// @Success      200 {object} dto.Response{data=[]insightapp.MetricResponse}
// @Router       /performance/metrics [get]
func (h *PerformanceHandler) ListMetrics(c *gin.Context) {
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

	filter := insightapp.MetricListFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		Name:     c.Query("name"),
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.BadRequest(c, "Invalid from timestamp")
			return
		}
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.BadRequest(c, "Invalid to timestamp")
			return
		}
		filter.To = &to
	}

	metrics, err := h.performanceService.ListMetrics(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, metrics)
}

// MetricNames godoc
// @Summary      Distinct metric names
// @Tags         performance
// @Produce      json
// @Success      200 {object} dto.Response{data=[]string}
// @Router       /performance/metrics/names [get]
func (h *PerformanceHandler) MetricNames(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	names, err := h.performanceService.MetricNames(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, names)
}

// Summary godoc
// @Summary      Metric summary
// @Description  Rolling count, average, min and max for one metric
// @Tags         performance
// @Produce      json
// @Param        name path string true "Metric name"
// @Success      200 {object} dto.Response{data=insightapp.MetricSummaryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /performance/metrics/{name}/summary [get]
func (h *PerformanceHandler) Summary(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	summary, err := h.performanceService.Summary(c.Request.Context(), tenantID, c.Param("name"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// ListAlerts godoc
// @Summary      List performance alerts
// @Tags         performance
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        status query string false "Filter by status"
// @Success      200 {object} dto.Response{data=[]insightapp.AlertResponse}
// @Router       /performance/alerts [get]
func (h *PerformanceHandler) ListAlerts(c *gin.Context) {
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

	filter := insightapp.AlertListFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		Status:   c.Query("status"),
	}

	alerts, total, err := h.performanceService.ListAlerts(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, alerts, total, filter.Page, filter.PageSize)
}

// ResolveAlert godoc
// @Summary      Resolve alert
// @Tags         performance
// @Accept       json
// @Produce      json
// @Param        id path string true "Alert ID"
// @Param        request body insightapp.ResolveAlertRequest true "Resolver"
// @Success      200 {object} dto.Response{data=insightapp.AlertResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /performance/alerts/{id}/resolve [post]
func (h *PerformanceHandler) ResolveAlert(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	alertID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid alert ID")
		return
	}

	var req insightapp.ResolveAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	alert, err := h.performanceService.ResolveAlert(c.Request.Context(), tenantID, alertID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, alert)
}

// EvaluateAlerts godoc
// @Summary      Evaluate alert thresholds
// @Description  Compare recent metric values against their baselines
// @Tags         performance
// @Produce      json
// @Success      200 {object} dto.Response{data=EvaluateResult}
// @Router       /performance/alerts/evaluate [post]
func (h *PerformanceHandler) EvaluateAlerts(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	raised, err := h.performanceService.EvaluateAlerts(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, EvaluateResult{Raised: raised})
}
