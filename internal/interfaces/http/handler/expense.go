package handler

import (
	"context"

	financeapp "github.com/bizsuite/backend/internal/application/finance"
	"github.com/bizsuite/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ExpenseHandler handles expense tracking endpoints
type ExpenseHandler struct {
	BaseHandler
	expenseService *financeapp.ExpenseService
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenseService *financeapp.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// ConfirmReceiptRequest confirms a completed receipt upload
type ConfirmReceiptRequest struct {
	StorageKey string `json:"storage_key" binding:"required,max=512"`
}

// Create godoc
// @Summary      Create expense
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        request body financeapp.CreateExpenseRequest true "Expense"
// @Success      201 {object} dto.Response{data=financeapp.ExpenseResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /finance/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req financeapp.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	expense, err := h.expenseService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, expense)
}

// List godoc
// @Summary      List expenses
// @Tags         finance
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        status query string false "Filter by status"
// @Param        category query string false "Filter by category"
// @Success      200 {object} dto.Response{data=[]financeapp.ExpenseResponse}
// @Router       /finance/expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
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

	filter := financeapp.ExpenseListFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		OrderBy:  listReq.OrderBy,
		OrderDir: listReq.OrderDir,
		Search:   listReq.Search,
		Status:   c.Query("status"),
		Category: c.Query("category"),
	}

	expenses, total, err := h.expenseService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, expenses, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @Summary      Get expense by ID
// @Tags         finance
// @Produce      json
// @Param        id path string true "Expense ID"
// @Success      200 {object} dto.Response{data=financeapp.ExpenseResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /finance/expenses/{id} [get]
func (h *ExpenseHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	expenseID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid expense ID")
		return
	}

	expense, err := h.expenseService.GetByID(c.Request.Context(), tenantID, expenseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, expense)
}

// Update godoc
// @Summary      Update expense
// @Description  Only draft expenses can be edited
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id path string true "Expense ID"
// @Param        request body financeapp.UpdateExpenseRequest true "Fields to update"
// @Success      200 {object} dto.Response{data=financeapp.ExpenseResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /finance/expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	expenseID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid expense ID")
		return
	}

	var req financeapp.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	expense, err := h.expenseService.Update(c.Request.Context(), tenantID, expenseID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, expense)
}

// Submit godoc
// @Summary      Submit expense for approval
// @Description  Requires an uploaded receipt
// @Tags         finance
// @Produce      json
// @Param        id path string true "Expense ID"
// @Success      200 {object} dto.Response{data=financeapp.ExpenseResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /finance/expenses/{id}/submit [post]
func (h *ExpenseHandler) Submit(c *gin.Context) {
	h.transition(c, h.expenseService.Submit)
}

// Approve godoc
// @Summary      Approve expense
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id path string true "Expense ID"
// @Param        request body financeapp.DecideExpenseRequest true "Decision"
// @Success      200 {object} dto.Response{data=financeapp.ExpenseResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /finance/expenses/{id}/approve [post]
func (h *ExpenseHandler) Approve(c *gin.Context) {
	h.decide(c, h.expenseService.Approve)
}

// Reject godoc
// @Summary      Reject expense
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id path string true "Expense ID"
// @Param        request body financeapp.DecideExpenseRequest true "Decision"
// @Success      200 {object} dto.Response{data=financeapp.ExpenseResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /finance/expenses/{id}/reject [post]
func (h *ExpenseHandler) Reject(c *gin.Context) {
	h.decide(c, h.expenseService.Reject)
}

// MarkPaid godoc
// @Summary      Mark expense paid
// @Tags         finance
// @Produce      json
// @Param        id path string true "Expense ID"
// @Success      200 {object} dto.Response{data=financeapp.ExpenseResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /finance/expenses/{id}/pay [post]
func (h *ExpenseHandler) MarkPaid(c *gin.Context) {
	h.transition(c, h.expenseService.MarkPaid)
}

// Cancel godoc
// @Summary      Cancel expense
// @Tags         finance
// @Produce      json
// @Param        id path string true "Expense ID"
// @Success      200 {object} dto.Response{data=financeapp.ExpenseResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /finance/expenses/{id}/cancel [post]
func (h *ExpenseHandler) Cancel(c *gin.Context) {
	h.transition(c, h.expenseService.Cancel)
}

// Delete godoc
// @Summary      Delete expense
// @Tags         finance
// @Produce      json
// @Param        id path string true "Expense ID"
// @Success      204
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /finance/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	expenseID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid expense ID")
		return
	}

	if err := h.expenseService.Delete(c.Request.Context(), tenantID, expenseID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RequestReceiptUpload godoc
// @Summary      Request receipt upload URL
// @Description  Returns a presigned URL for uploading the receipt file
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id path string true "Expense ID"
// @Param        request body financeapp.ReceiptUploadRequest true "File details"
// @Success      200 {object} dto.Response{data=financeapp.ReceiptURLResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /finance/expenses/{id}/receipt/upload-url [post]
func (h *ExpenseHandler) RequestReceiptUpload(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	expenseID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid expense ID")
		return
	}

	var req financeapp.ReceiptUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.expenseService.RequestReceiptUpload(c.Request.Context(), tenantID, expenseID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ConfirmReceiptUpload godoc
// @Summary      Confirm receipt upload
// @Description  Attach the uploaded receipt to the expense
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id path string true "Expense ID"
// @Param        request body ConfirmReceiptRequest true "Storage key"
// @Success      200 {object} dto.Response{data=financeapp.ExpenseResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /finance/expenses/{id}/receipt/confirm [post]
func (h *ExpenseHandler) ConfirmReceiptUpload(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	expenseID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid expense ID")
		return
	}

	var req ConfirmReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	expense, err := h.expenseService.ConfirmReceiptUpload(c.Request.Context(), tenantID, expenseID, req.StorageKey)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, expense)
}

// ReceiptDownloadURL godoc
// @Summary      Get receipt download URL
// @Tags         finance
// @Produce      json
// @Param        id path string true "Expense ID"
// @Success      200 {object} dto.Response{data=financeapp.ReceiptURLResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /finance/expenses/{id}/receipt [get]
func (h *ExpenseHandler) ReceiptDownloadURL(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	expenseID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid expense ID")
		return
	}

	result, err := h.expenseService.ReceiptDownloadURL(c.Request.Context(), tenantID, expenseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Summary godoc
// @Summary      Expense overview
// @Description  Totals per category and status
// @Tags         finance
// @Produce      json
// @Success      200 {object} dto.Response{data=financeapp.ExpenseSummaryResponse}
// @Router       /finance/expenses/stats/summary [get]
func (h *ExpenseHandler) Summary(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	summary, err := h.expenseService.Summary(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// expenseTransition is the shape shared by submit, pay and cancel
type expenseTransition func(ctx context.Context, tenantID, expenseID uuid.UUID) (*financeapp.ExpenseResponse, error)

// expenseDecision is the shape shared by approve and reject
type expenseDecision func(ctx context.Context, tenantID, expenseID uuid.UUID, req financeapp.DecideExpenseRequest) (*financeapp.ExpenseResponse, error)

func (h *ExpenseHandler) transition(c *gin.Context, change expenseTransition) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	expenseID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid expense ID")
		return
	}

	expense, err := change(c.Request.Context(), tenantID, expenseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, expense)
}

func (h *ExpenseHandler) decide(c *gin.Context, decide expenseDecision) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	expenseID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid expense ID")
		return
	}

	var req financeapp.DecideExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	expense, err := decide(c.Request.Context(), tenantID, expenseID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, expense)
}
