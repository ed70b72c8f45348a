package handler

import (
	"context"

	hrapp "github.com/bizsuite/backend/internal/application/hr"
	"github.com/bizsuite/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LeaveHandler handles leave request endpoints
type LeaveHandler struct {
	BaseHandler
	leaveService *hrapp.LeaveService
}

// NewLeaveHandler creates a new leave handler
func NewLeaveHandler(leaveService *hrapp.LeaveService) *LeaveHandler {
	return &LeaveHandler{leaveService: leaveService}
}

// Create godoc
// @Summary      Create leave request
// @Tags         hr
// @Accept       json
// @Produce      json
// @Param        request body hrapp.CreateLeaveRequestRequest true "Leave request"
// @Success      201 {object} dto.Response{data=hrapp.LeaveRequestResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /hr/leaves [post]
func (h *LeaveHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req hrapp.CreateLeaveRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	leave, err := h.leaveService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, leave)
}

// List godoc
// @Summary      List leave requests
// @Tags         hr
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        status query string false "Filter by status"
// @Param        employee_id query string false "Filter by employee"
// @Success      200 {object} dto.Response{data=[]hrapp.LeaveRequestResponse}
// @Router       /hr/leaves [get]
func (h *LeaveHandler) List(c *gin.Context) {
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

	filter := hrapp.LeaveListFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		OrderBy:  listReq.OrderBy,
		OrderDir: listReq.OrderDir,
		Status:   c.Query("status"),
	}
	if raw := c.Query("employee_id"); raw != "" {
		employeeID, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid employee_id")
			return
		}
		filter.EmployeeID = &employeeID
	}

	leaves, total, err := h.leaveService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, leaves, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @Summary      Get leave request by ID
// @Tags         hr
// @Produce      json
// @Param        id path string true "Leave request ID"
// @Success      200 {object} dto.Response{data=hrapp.LeaveRequestResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /hr/leaves/{id} [get]
func (h *LeaveHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	requestID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid leave request ID")
		return
	}

	leave, err := h.leaveService.GetByID(c.Request.Context(), tenantID, requestID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, leave)
}

// Update godoc
// @Summary      Update leave request
// @Description  Only draft requests can be edited
// @Tags         hr
// @Accept       json
// @Produce      json
// @Param        id path string true "Leave request ID"
// @Param        request body hrapp.UpdateLeaveRequestRequest true "Fields to update"
// @Success      200 {object} dto.Response{data=hrapp.LeaveRequestResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /hr/leaves/{id} [put]
func (h *LeaveHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	requestID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid leave request ID")
		return
	}

	var req hrapp.UpdateLeaveRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	leave, err := h.leaveService.Update(c.Request.Context(), tenantID, requestID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, leave)
}

// Submit godoc
// @Summary      Submit leave request for approval
// @Tags         hr
// @Produce      json
// @Param        id path string true "Leave request ID"
// @Success      200 {object} dto.Response{data=hrapp.LeaveRequestResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /hr/leaves/{id}/submit [post]
func (h *LeaveHandler) Submit(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	requestID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid leave request ID")
		return
	}

	leave, err := h.leaveService.Submit(c.Request.Context(), tenantID, requestID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, leave)
}

// Approve godoc
// @Summary      Approve leave request
// @Tags         hr
// @Accept       json
// @Produce      json
// @Param        id path string true "Leave request ID"
// @Param        request body hrapp.DecideLeaveRequest true "Decision"
// @Success      200 {object} dto.Response{data=hrapp.LeaveRequestResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /hr/leaves/{id}/approve [post]
func (h *LeaveHandler) Approve(c *gin.Context) {
	h.decide(c, h.leaveService.Approve)
}

// Reject godoc
// @Summary      Reject leave request
// @Tags         hr
// @Accept       json
// @Produce      json
// @Param        id path string true "Leave request ID"
// @Param        request body hrapp.DecideLeaveRequest true "Decision"
// @Success      200 {object} dto.Response{data=hrapp.LeaveRequestResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /hr/leaves/{id}/reject [post]
func (h *LeaveHandler) Reject(c *gin.Context) {
	h.decide(c, h.leaveService.Reject)
}

// Cancel godoc
// @Summary      Cancel leave request
// @Tags         hr
// @Produce      json
// @Param        id path string true "Leave request ID"
// @Success      200 {object} dto.Response{data=hrapp.LeaveRequestResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /hr/leaves/{id}/cancel [post]
func (h *LeaveHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	requestID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid leave request ID")
		return
	}

	leave, err := h.leaveService.Cancel(c.Request.Context(), tenantID, requestID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, leave)
}

// Delete godoc
// @Summary      Delete leave request
// @Tags         hr
// @Produce      json
// @Param        id path string true "Leave request ID"
// @Success      204
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /hr/leaves/{id} [delete]
func (h *LeaveHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	requestID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid leave request ID")
		return
	}

	if err := h.leaveService.Delete(c.Request.Context(), tenantID, requestID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Balance godoc
// @Summary      Leave balance for employee
// @Description  Approved days per leave type for the current year
// @Tags         hr
// @Produce      json
// @Param        id path string true "Employee ID"
// @Success      200 {object} dto.Response{data=hrapp.LeaveBalanceResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /hr/employees/{id}/leave-balance [get]
func (h *LeaveHandler) Balance(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	employeeID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid employee ID")
		return
	}

	balance, err := h.leaveService.Balance(c.Request.Context(), tenantID, employeeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, balance)
}

// leaveDecision is the shape shared by approve and reject
type leaveDecision func(ctx context.Context, tenantID, requestID uuid.UUID, req hrapp.DecideLeaveRequest) (*hrapp.LeaveRequestResponse, error)

func (h *LeaveHandler) decide(c *gin.Context, decide leaveDecision) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	requestID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid leave request ID")
		return
	}

	var req hrapp.DecideLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	leave, err := decide(c.Request.Context(), tenantID, requestID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, leave)
}
