package handler

import (
	"context"

	"github.com/bizsuite/backend/internal/application/identity"
	"github.com/bizsuite/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TenantHandler handles tenant administration endpoints
type TenantHandler struct {
	BaseHandler
	tenantService *identity.TenantService
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(tenantService *identity.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// SetPlanRequest changes a tenant's subscription plan
type SetPlanRequest struct {
	Plan string `json:"plan" binding:"required,oneof=free standard enterprise"`
}

// Create godoc
// @Summary      Provision a tenant
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        request body identity.CreateTenantRequest true "Tenant"
// @Success      201 {object} dto.Response{data=identity.TenantResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tenants [post]
func (h *TenantHandler) Create(c *gin.Context) {
	var req identity.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tenant, err := h.tenantService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, tenant)
}

// List godoc
// @Summary      List tenants
// @Tags         tenants
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        status query string false "Filter by status"
// @Param        plan query string false "Filter by plan"
// @Success      200 {object} dto.Response{data=[]identity.TenantResponse}
// @Router       /tenants [get]
func (h *TenantHandler) List(c *gin.Context) {
	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := identity.TenantListFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		OrderBy:  listReq.OrderBy,
		OrderDir: listReq.OrderDir,
		Search:   listReq.Search,
		Status:   c.Query("status"),
		Plan:     c.Query("plan"),
	}

	tenants, total, err := h.tenantService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, tenants, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @Summary      Get tenant by ID
// @Tags         tenants
// @Produce      json
// @Param        id path string true "Tenant ID"
// @Success      200 {object} dto.Response{data=identity.TenantResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tenants/{id} [get]
func (h *TenantHandler) GetByID(c *gin.Context) {
	tenantID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	tenant, err := h.tenantService.GetByID(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenant)
}

// GetByCode godoc
// @Summary      Get tenant by code
// @Tags         tenants
// @Produce      json
// @Param        code path string true "Tenant code"
// @Success      200 {object} dto.Response{data=identity.TenantResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tenants/code/{code} [get]
func (h *TenantHandler) GetByCode(c *gin.Context) {
	tenant, err := h.tenantService.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenant)
}

// Update godoc
// @Summary      Update tenant
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        id path string true "Tenant ID"
// @Param        request body identity.UpdateTenantRequest true "Fields to update"
// @Success      200 {object} dto.Response{data=identity.TenantResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tenants/{id} [put]
func (h *TenantHandler) Update(c *gin.Context) {
	tenantID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req identity.UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tenant, err := h.tenantService.Update(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenant)
}

// SetPlan godoc
// @Summary      Change tenant plan
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        id path string true "Tenant ID"
// @Param        request body SetPlanRequest true "New plan"
// @Success      200 {object} dto.Response{data=identity.TenantResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tenants/{id}/plan [put]
func (h *TenantHandler) SetPlan(c *gin.Context) {
	tenantID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req SetPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tenant, err := h.tenantService.SetPlan(c.Request.Context(), tenantID, req.Plan)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenant)
}

// Activate godoc
// @Summary      Activate tenant
// @Tags         tenants
// @Produce      json
// @Param        id path string true "Tenant ID"
// @Success      200 {object} dto.Response{data=identity.TenantResponse}
// @Router       /tenants/{id}/activate [post]
func (h *TenantHandler) Activate(c *gin.Context) {
	h.changeStatus(c, h.tenantService.Activate)
}

// Deactivate godoc
// @Summary      Deactivate tenant
// @Tags         tenants
// @Produce      json
// @Param        id path string true "Tenant ID"
// @Success      200 {object} dto.Response{data=identity.TenantResponse}
// @Router       /tenants/{id}/deactivate [post]
func (h *TenantHandler) Deactivate(c *gin.Context) {
	h.changeStatus(c, h.tenantService.Deactivate)
}

// Suspend godoc
// @Summary      Suspend tenant
// @Tags         tenants
// @Produce      json
// @Param        id path string true "Tenant ID"
// @Success      200 {object} dto.Response{data=identity.TenantResponse}
// @Router       /tenants/{id}/suspend [post]
func (h *TenantHandler) Suspend(c *gin.Context) {
	h.changeStatus(c, h.tenantService.Suspend)
}

// Delete godoc
// @Summary      Delete tenant
// @Tags         tenants
// @Produce      json
// @Param        id path string true "Tenant ID"
// @Success      204
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tenants/{id} [delete]
func (h *TenantHandler) Delete(c *gin.Context) {
	tenantID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	if err := h.tenantService.Delete(c.Request.Context(), tenantID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// CountByStatus godoc
// @Summary      Tenant counts per status
// @Tags         tenants
// @Produce      json
// @Success      200 {object} dto.Response{data=map[string]int64}
// @Router       /tenants/stats/count [get]
func (h *TenantHandler) CountByStatus(c *gin.Context) {
	counts, err := h.tenantService.CountByStatus(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, counts)
}

func (h *TenantHandler) changeStatus(c *gin.Context, change func(ctx context.Context, tenantID uuid.UUID) (*identity.TenantResponse, error)) {
	tenantID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	tenant, err := change(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenant)
}
