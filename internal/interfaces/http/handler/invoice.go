package handler

import (
	"context"

	financeapp "github.com/bizsuite/backend/internal/application/finance"
	"github.com/bizsuite/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InvoiceHandler handles accounts receivable endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *financeapp.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *financeapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Create godoc
// @Summary      Create invoice
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        request body financeapp.CreateInvoiceRequest true "Invoice"
// @Success      201 {object} dto.Response{data=financeapp.InvoiceResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /finance/invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req financeapp.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, invoice)
}

// List godoc
// @Summary      List invoices
// @Tags         finance
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        status query string false "Filter by status"
// @Param        overdue query bool false "Only overdue invoices"
// @Success      200 {object} dto.Response{data=[]financeapp.InvoiceResponse}
// @Router       /finance/invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
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

	filter := financeapp.InvoiceListFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		OrderBy:  listReq.OrderBy,
		OrderDir: listReq.OrderDir,
		Search:   listReq.Search,
		Status:   c.Query("status"),
		Overdue:  c.Query("overdue") == "true",
	}

	invoices, total, err := h.invoiceService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, invoices, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @Summary      Get invoice by ID
// @Tags         finance
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} dto.Response{data=financeapp.InvoiceResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /finance/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// GetByNumber godoc
// @Summary      Get invoice by number
// @Tags         finance
// @Produce      json
// @Param        number path string true "Invoice number"
// @Success      200 {object} dto.Response{data=financeapp.InvoiceResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /finance/invoices/number/{number} [get]
func (h *InvoiceHandler) GetByNumber(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	invoice, err := h.invoiceService.GetByNumber(c.Request.Context(), tenantID, c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// Update godoc
// @Summary      Update invoice
// @Description  Only draft invoices can be edited
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Param        request body financeapp.UpdateInvoiceRequest true "Fields to update"
// @Success      200 {object} dto.Response{data=financeapp.InvoiceResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /finance/invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req financeapp.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.Update(c.Request.Context(), tenantID, invoiceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// AddItem godoc
// @Summary      Add invoice line item
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Param        request body financeapp.CreateInvoiceItemRequest true "Line item"
// @Success      200 {object} dto.Response{data=financeapp.InvoiceResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /finance/invoices/{id}/items [post]
func (h *InvoiceHandler) AddItem(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req financeapp.CreateInvoiceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.AddItem(c.Request.Context(), tenantID, invoiceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// UpdateItem godoc
// @Summary      Update invoice line item
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Param        item_id path string true "Item ID"
// @Param        request body financeapp.CreateInvoiceItemRequest true "Line item"
// @Success      200 {object} dto.Response{data=financeapp.InvoiceResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /finance/invoices/{id}/items/{item_id} [put]
func (h *InvoiceHandler) UpdateItem(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	itemID, err := parseIDParam(c, "item_id")
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	var req financeapp.CreateInvoiceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.UpdateItem(c.Request.Context(), tenantID, invoiceID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// RemoveItem godoc
// @Summary      Remove invoice line item
// @Tags         finance
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Param        item_id path string true "Item ID"
// @Success      200 {object} dto.Response{data=financeapp.InvoiceResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /finance/invoices/{id}/items/{item_id} [delete]
func (h *InvoiceHandler) RemoveItem(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	itemID, err := parseIDParam(c, "item_id")
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	invoice, err := h.invoiceService.RemoveItem(c.Request.Context(), tenantID, invoiceID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// Issue godoc
// @Summary      Issue invoice
// @Description  Freeze the invoice and start the payment clock
// @Tags         finance
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} dto.Response{data=financeapp.InvoiceResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /finance/invoices/{id}/issue [post]
func (h *InvoiceHandler) Issue(c *gin.Context) {
	h.transition(c, h.invoiceService.Issue)
}

// MarkPaid godoc
// @Summary      Mark invoice paid
// @Tags         finance
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} dto.Response{data=financeapp.InvoiceResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /finance/invoices/{id}/pay [post]
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	h.transition(c, h.invoiceService.MarkPaid)
}

// Void godoc
// @Summary      Void invoice
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Param        request body financeapp.VoidInvoiceRequest true "Void reason"
// @Success      200 {object} dto.Response{data=financeapp.InvoiceResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /finance/invoices/{id}/void [post]
func (h *InvoiceHandler) Void(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req financeapp.VoidInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.Void(c.Request.Context(), tenantID, invoiceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// Delete godoc
// @Summary      Delete invoice
// @Tags         finance
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      204
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /finance/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), tenantID, invoiceID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ReceivablesSummary godoc
// @Summary      Receivables overview
// @Description  Outstanding and overdue invoice totals
// @Tags         finance
// @Produce      json
// @Success      200 {object} dto.Response{data=financeapp.ReceivablesSummaryResponse}
// @Router       /finance/invoices/stats/receivables [get]
func (h *InvoiceHandler) ReceivablesSummary(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	summary, err := h.invoiceService.ReceivablesSummary(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// invoiceTransition is the shape shared by issue and pay
type invoiceTransition func(ctx context.Context, tenantID, invoiceID uuid.UUID) (*financeapp.InvoiceResponse, error)

func (h *InvoiceHandler) transition(c *gin.Context, change invoiceTransition) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := change(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}
