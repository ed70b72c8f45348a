package handler

import (
	crmapp "github.com/bizsuite/backend/internal/application/crm"
	"github.com/bizsuite/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// DealHandler handles sales pipeline endpoints
type DealHandler struct {
	BaseHandler
	dealService *crmapp.DealService
}

// NewDealHandler creates a new deal handler
func NewDealHandler(dealService *crmapp.DealService) *DealHandler {
	return &DealHandler{dealService: dealService}
}

// Create godoc
// @Summary      Create deal
// @Tags         crm
// @Accept       json
// @Produce      json
// @Param        request body crmapp.CreateDealRequest true "Deal"
// @Success      201 {object} dto.Response{data=crmapp.DealResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /crm/deals [post]
func (h *DealHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req crmapp.CreateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	deal, err := h.dealService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, deal)
}

// List godoc
// @Summary      List deals
// @Tags         crm
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        stage query string false "Filter by stage"
// @Param        owner query string false "Filter by owner"
// @Param        search query string false "Search in title and customer"
// @Success      200 {object} dto.Response{data=[]crmapp.DealResponse}
// @Router       /crm/deals [get]
func (h *DealHandler) List(c *gin.Context) {
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

	filter := crmapp.DealListFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		OrderBy:  listReq.OrderBy,
		OrderDir: listReq.OrderDir,
		Search:   listReq.Search,
		Stage:    c.Query("stage"),
		Owner:    c.Query("owner"),
	}

	deals, total, err := h.dealService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, deals, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @Summary      Get deal by ID
// @Tags         crm
// @Produce      json
// @Param        id path string true "Deal ID"
// @Success      200 {object} dto.Response{data=crmapp.DealResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /crm/deals/{id} [get]
func (h *DealHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	dealID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid deal ID")
		return
	}

	deal, err := h.dealService.GetByID(c.Request.Context(), tenantID, dealID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, deal)
}

// GetByCode godoc
// @Summary      Get deal by code
// @Tags         crm
// @Produce      json
// @Param        code path string true "Deal code"
// @Success      200 {object} dto.Response{data=crmapp.DealResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /crm/deals/code/{code} [get]
func (h *DealHandler) GetByCode(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	deal, err := h.dealService.GetByCode(c.Request.Context(), tenantID, c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, deal)
}

// Update godoc
// @Summary      Update deal
// @Tags         crm
// @Accept       json
// @Produce      json
// @Param        id path string true "Deal ID"
// @Param        request body crmapp.UpdateDealRequest true "Fields to update"
// @Success      200 {object} dto.Response{data=crmapp.DealResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /crm/deals/{id} [put]
func (h *DealHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	dealID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid deal ID")
		return
	}

	var req crmapp.UpdateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	deal, err := h.dealService.Update(c.Request.Context(), tenantID, dealID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, deal)
}

// Advance godoc
// @Summary      Advance deal stage
// @Tags         crm
// @Accept       json
// @Produce      json
// @Param        id path string true "Deal ID"
// @Param        request body crmapp.AdvanceDealRequest true "Target stage"
// @Success      200 {object} dto.Response{data=crmapp.DealResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /crm/deals/{id}/advance [post]
func (h *DealHandler) Advance(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	dealID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid deal ID")
		return
	}

	var req crmapp.AdvanceDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	deal, err := h.dealService.Advance(c.Request.Context(), tenantID, dealID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, deal)
}

// Win godoc
// @Summary      Mark deal won
// @Tags         crm
// @Produce      json
// @Param        id path string true "Deal ID"
// @Success      200 {object} dto.Response{data=crmapp.DealResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /crm/deals/{id}/win [post]
func (h *DealHandler) Win(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	dealID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid deal ID")
		return
	}

	deal, err := h.dealService.Win(c.Request.Context(), tenantID, dealID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, deal)
}

// Lose godoc
// @Summary      Mark deal lost
// @Tags         crm
// @Accept       json
// @Produce      json
// @Param        id path string true "Deal ID"
// @Param        request body crmapp.LoseDealRequest true "Loss reason"
// @Success      200 {object} dto.Response{data=crmapp.DealResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /crm/deals/{id}/lose [post]
func (h *DealHandler) Lose(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	dealID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid deal ID")
		return
	}

	var req crmapp.LoseDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	deal, err := h.dealService.Lose(c.Request.Context(), tenantID, dealID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, deal)
}

// Delete godoc
// @Summary      Delete deal
// @Tags         crm
// @Produce      json
// @Param        id path string true "Deal ID"
// @Success      204
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /crm/deals/{id} [delete]
func (h *DealHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	dealID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid deal ID")
		return
	}

	if err := h.dealService.Delete(c.Request.Context(), tenantID, dealID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// PipelineSummary godoc
// @Summary      Pipeline overview
// @Description  Per-stage counts and amounts plus weighted totals
// @Tags         crm
// @Produce      json
// @Success      200 {object} dto.Response{data=crmapp.PipelineSummaryResponse}
// @Router       /crm/deals/stats/pipeline [get]
func (h *DealHandler) PipelineSummary(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	summary, err := h.dealService.PipelineSummary(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}
