package handler

import (
	hrapp "github.com/bizsuite/backend/internal/application/hr"
	"github.com/bizsuite/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// EmployeeHandler handles employee directory endpoints
type EmployeeHandler struct {
	BaseHandler
	employeeService *hrapp.EmployeeService
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(employeeService *hrapp.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// Create godoc
// @Summary      Hire employee
// @Tags         hr
// @Accept       json
// @Produce      json
// @Param        request body hrapp.CreateEmployeeRequest true "Employee"
// @Success      201 {object} dto.Response{data=hrapp.EmployeeResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /hr/employees [post]
func (h *EmployeeHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req hrapp.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	employee, err := h.employeeService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, employee)
}

// List godoc
// @Summary      List employees
// @Tags         hr
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        status query string false "Filter by status"
// @Param        department query string false "Filter by department"
// @Success      200 {object} dto.Response{data=[]hrapp.EmployeeResponse}
// @Router       /hr/employees [get]
func (h *EmployeeHandler) List(c *gin.Context) {
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

	filter := hrapp.EmployeeListFilter{
		Page:       listReq.Page,
		PageSize:   listReq.PageSize,
		OrderBy:    listReq.OrderBy,
		OrderDir:   listReq.OrderDir,
		Search:     listReq.Search,
		Status:     c.Query("status"),
		Department: c.Query("department"),
	}

	employees, total, err := h.employeeService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, employees, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @Summary      Get employee by ID
// @Tags         hr
// @Produce      json
// @Param        id path string true "Employee ID"
// @Success      200 {object} dto.Response{data=hrapp.EmployeeResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /hr/employees/{id} [get]
func (h *EmployeeHandler) GetByID(c *gin.Context) {
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

	employee, err := h.employeeService.GetByID(c.Request.Context(), tenantID, employeeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, employee)
}

// GetByNumber godoc
// @Summary      Get employee by number
// @Tags         hr
// @Produce      json
// @Param        number path string true "Employee number"
// @Success      200 {object} dto.Response{data=hrapp.EmployeeResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /hr/employees/number/{number} [get]
func (h *EmployeeHandler) GetByNumber(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	employee, err := h.employeeService.GetByNumber(c.Request.Context(), tenantID, c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, employee)
}

// Update godoc
// @Summary      Update employee
// @Tags         hr
// @Accept       json
// @Produce      json
// @Param        id path string true "Employee ID"
// @Param        request body hrapp.UpdateEmployeeRequest true "Fields to update"
// @Success      200 {object} dto.Response{data=hrapp.EmployeeResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /hr/employees/{id} [put]
func (h *EmployeeHandler) Update(c *gin.Context) {
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

	var req hrapp.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	employee, err := h.employeeService.Update(c.Request.Context(), tenantID, employeeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, employee)
}

// Terminate godoc
// @Summary      Terminate employee
// @Tags         hr
// @Produce      json
// @Param        id path string true "Employee ID"
// @Success      200 {object} dto.Response{data=hrapp.EmployeeResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /hr/employees/{id}/terminate [post]
func (h *EmployeeHandler) Terminate(c *gin.Context) {
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

	employee, err := h.employeeService.Terminate(c.Request.Context(), tenantID, employeeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, employee)
}

// Delete godoc
// @Summary      Delete employee
// @Tags         hr
// @Produce      json
// @Param        id path string true "Employee ID"
// @Success      204
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /hr/employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *gin.Context) {
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

	if err := h.employeeService.Delete(c.Request.Context(), tenantID, employeeID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
