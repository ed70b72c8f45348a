package handler

import (
	"strconv"

	crmapp "github.com/bizsuite/backend/internal/application/crm"
	"github.com/bizsuite/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// OpportunityHandler handles pre-pipeline opportunity endpoints
type OpportunityHandler struct {
	BaseHandler
	opportunityService *crmapp.OpportunityService
}

// NewOpportunityHandler creates a new opportunity handler
func NewOpportunityHandler(opportunityService *crmapp.OpportunityService) *OpportunityHandler {
	return &OpportunityHandler{opportunityService: opportunityService}
}

// Create godoc
// @Summary      Create opportunity
// @Tags         crm
// @Accept       json
// @Produce      json
// @Param        request body crmapp.CreateOpportunityRequest true "Opportunity"
// @Success      201 {object} dto.Response{data=crmapp.OpportunityResponse}
// @Router       /crm/opportunities [post]
func (h *OpportunityHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req crmapp.CreateOpportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	opportunity, err := h.opportunityService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, opportunity)
}

// List godoc
// @Summary      List opportunities
// @Tags         crm
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        status query string false "Filter by status"
// @Param        min_score query number false "Minimum qualification score"
// @Success      200 {object} dto.Response{data=[]crmapp.OpportunityResponse}
// @Router       /crm/opportunities [get]
func (h *OpportunityHandler) List(c *gin.Context) {
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

	filter := crmapp.OpportunityListFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		OrderBy:  listReq.OrderBy,
		OrderDir: listReq.OrderDir,
		Search:   listReq.Search,
		Status:   c.Query("status"),
	}
	if raw := c.Query("min_score"); raw != "" {
		minScore, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			h.BadRequest(c, "Invalid min_score")
			return
		}
		filter.MinScore = &minScore
	}

	opportunities, total, err := h.opportunityService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, opportunities, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @Summary      Get opportunity by ID
// @Tags         crm
// @Produce      json
// @Param        id path string true "Opportunity ID"
// @Success      200 {object} dto.Response{data=crmapp.OpportunityResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /crm/opportunities/{id} [get]
func (h *OpportunityHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	opportunityID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid opportunity ID")
		return
	}

	opportunity, err := h.opportunityService.GetByID(c.Request.Context(), tenantID, opportunityID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, opportunity)
}

// Update godoc
// @Summary      Update opportunity
// @Tags         crm
// @Accept       json
// @Produce      json
// @Param        id path string true "Opportunity ID"
// @Param        request body crmapp.UpdateOpportunityRequest true "Fields to update"
// @Success      200 {object} dto.Response{data=crmapp.OpportunityResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /crm/opportunities/{id} [put]
func (h *OpportunityHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	opportunityID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid opportunity ID")
		return
	}

	var req crmapp.UpdateOpportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	opportunity, err := h.opportunityService.Update(c.Request.Context(), tenantID, opportunityID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, opportunity)
}

// Convert godoc
// @Summary      Convert opportunity to deal
// @Description  Creates a pipeline deal from a qualified opportunity
// @Tags         crm
// @Accept       json
// @Produce      json
// @Param        id path string true "Opportunity ID"
// @Param        request body crmapp.ConvertOpportunityRequest true "Deal details"
// @Success      201 {object} dto.Response{data=crmapp.DealResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /crm/opportunities/{id}/convert [post]
func (h *OpportunityHandler) Convert(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	opportunityID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid opportunity ID")
		return
	}

	var req crmapp.ConvertOpportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	deal, err := h.opportunityService.Convert(c.Request.Context(), tenantID, opportunityID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, deal)
}

// Drop godoc
// @Summary      Drop opportunity
// @Tags         crm
// @Accept       json
// @Produce      json
// @Param        id path string true "Opportunity ID"
// @Param        request body crmapp.DropOpportunityRequest true "Drop reason"
// @Success      200 {object} dto.Response{data=crmapp.OpportunityResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /crm/opportunities/{id}/drop [post]
func (h *OpportunityHandler) Drop(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	opportunityID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid opportunity ID")
		return
	}

	var req crmapp.DropOpportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	opportunity, err := h.opportunityService.Drop(c.Request.Context(), tenantID, opportunityID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, opportunity)
}

// Delete godoc
// @Summary      Delete opportunity
// @Tags         crm
// @Produce      json
// @Param        id path string true "Opportunity ID"
// @Success      204
// @Router       /crm/opportunities/{id} [delete]
func (h *OpportunityHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	opportunityID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid opportunity ID")
		return
	}

	if err := h.opportunityService.Delete(c.Request.Context(), tenantID, opportunityID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
