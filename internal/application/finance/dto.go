package finance

import (
	"time"

	"github.com/bizsuite/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest contains fields for creating a draft invoice
type CreateInvoiceRequest struct {
	Number       string                     `json:"number" binding:"required,min=1,max=50"`
	CustomerName string                     `json:"customer_name" binding:"required,min=1,max=200"`
	TaxRate      *decimal.Decimal           `json:"tax_rate"`
	DueDate      *time.Time                 `json:"due_date"`
	Notes        string                     `json:"notes" binding:"max=2000"`
	Items        []CreateInvoiceItemRequest `json:"items" binding:"dive"`
}

// CreateInvoiceItemRequest contains fields for an invoice line item
type CreateInvoiceItemRequest struct {
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// UpdateInvoiceRequest contains fields for updating a draft invoice
type UpdateInvoiceRequest struct {
	TaxRate *decimal.Decimal `json:"tax_rate"`
	DueDate *time.Time       `json:"due_date"`
	Notes   *string          `json:"notes" binding:"omitempty,max=2000"`
}

// VoidInvoiceRequest carries the reason for voiding an invoice
type VoidInvoiceRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// InvoiceItemResponse is the line item representation
type InvoiceItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceResponse is the full invoice representation
type InvoiceResponse struct {
	ID           uuid.UUID             `json:"id"`
	TenantID     uuid.UUID             `json:"tenant_id"`
	Number       string                `json:"number"`
	CustomerName string                `json:"customer_name"`
	Items        []InvoiceItemResponse `json:"items"`
	Subtotal     decimal.Decimal       `json:"subtotal"`
	TaxRate      decimal.Decimal       `json:"tax_rate"`
	TaxAmount    decimal.Decimal       `json:"tax_amount"`
	Total        decimal.Decimal       `json:"total"`
	DueDate      *time.Time            `json:"due_date,omitempty"`
	Status       string                `json:"status"`
	Overdue      bool                  `json:"overdue"`
	Notes        string                `json:"notes,omitempty"`
	IssuedAt     *time.Time            `json:"issued_at,omitempty"`
	PaidAt       *time.Time            `json:"paid_at,omitempty"`
	VoidedAt     *time.Time            `json:"voided_at,omitempty"`
	VoidReason   string                `json:"void_reason,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// InvoiceListFilter contains list filtering options for invoices
type InvoiceListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Status   string
	Overdue  bool
}

// ReceivablesSummaryResponse aggregates outstanding and overdue invoice totals
type ReceivablesSummaryResponse struct {
	OutstandingCount  int64           `json:"outstanding_count"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
	OverdueCount      int64           `json:"overdue_count"`
	OverdueAmount     decimal.Decimal `json:"overdue_amount"`
	AsOf              time.Time       `json:"as_of"`
}

// ToInvoiceResponse converts a domain invoice to a response DTO
func ToInvoiceResponse(inv *finance.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, len(inv.Items))
	for i, item := range inv.Items {
		items[i] = InvoiceItemResponse{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		}
	}

	return InvoiceResponse{
		ID:           inv.ID,
		TenantID:     inv.TenantID,
		Number:       inv.Number,
		CustomerName: inv.CustomerName,
		Items:        items,
		Subtotal:     inv.Subtotal,
		TaxRate:      inv.TaxRate,
		TaxAmount:    inv.TaxAmount,
		Total:        inv.Total,
		DueDate:      inv.DueDate,
		Status:       string(inv.Status),
		Overdue:      inv.IsOverdue(time.Now()),
		Notes:        inv.Notes,
		IssuedAt:     inv.IssuedAt,
		PaidAt:       inv.PaidAt,
		VoidedAt:     inv.VoidedAt,
		VoidReason:   inv.VoidReason,
		CreatedAt:    inv.CreatedAt,
		UpdatedAt:    inv.UpdatedAt,
	}
}

// ToInvoiceResponses converts a slice of domain invoices
func ToInvoiceResponses(invoices []finance.Invoice) []InvoiceResponse {
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	return responses
}

// CreateExpenseRequest contains fields for creating a draft expense
type CreateExpenseRequest struct {
	Number       string          `json:"number" binding:"required,min=1,max=50"`
	Category     string          `json:"category" binding:"required,oneof=travel meals equipment software office other"`
	Description  string          `json:"description" binding:"required,min=1,max=1000"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	IncurredDate time.Time       `json:"incurred_date" binding:"required"`
}

// UpdateExpenseRequest contains fields for updating a draft expense
type UpdateExpenseRequest struct {
	Category     *string          `json:"category" binding:"omitempty,oneof=travel meals equipment software office other"`
	Description  *string          `json:"description" binding:"omitempty,min=1,max=1000"`
	Amount       *decimal.Decimal `json:"amount"`
	IncurredDate *time.Time       `json:"incurred_date"`
}

// DecideExpenseRequest carries the approver for approve/reject operations
type DecideExpenseRequest struct {
	Approver string `json:"approver" binding:"required,max=100"`
	Reason   string `json:"reason" binding:"max=500"`
}

// ReceiptUploadRequest describes the receipt file about to be uploaded
type ReceiptUploadRequest struct {
	FileName    string `json:"file_name" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required,max=100"`
}

// ReceiptURLResponse carries a presigned receipt URL
type ReceiptURLResponse struct {
	URL        string    `json:"url"`
	StorageKey string    `json:"storage_key"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ExpenseResponse is the full expense representation
type ExpenseResponse struct {
	ID           uuid.UUID       `json:"id"`
	TenantID     uuid.UUID       `json:"tenant_id"`
	Number       string          `json:"number"`
	Category     string          `json:"category"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	IncurredDate time.Time       `json:"incurred_date"`
	Status       string          `json:"status"`
	HasReceipt   bool            `json:"has_receipt"`
	SubmittedAt  *time.Time      `json:"submitted_at,omitempty"`
	DecidedAt    *time.Time      `json:"decided_at,omitempty"`
	DecidedBy    string          `json:"decided_by,omitempty"`
	DecisionNote string          `json:"decision_note,omitempty"`
	PaidAt       *time.Time      `json:"paid_at,omitempty"`
	CancelledAt  *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ExpenseListFilter contains list filtering options for expenses
type ExpenseListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Status   string
	Category string
}

// CategoryTotalResponse aggregates expense amounts for one category
type CategoryTotalResponse struct {
	Category string          `json:"category"`
	Count    int64           `json:"count"`
	Amount   decimal.Decimal `json:"amount"`
}

// ExpenseSummaryResponse is the per-category expense breakdown
type ExpenseSummaryResponse struct {
	Categories  []CategoryTotalResponse `json:"categories"`
	TotalAmount decimal.Decimal         `json:"total_amount"`
}

// ToExpenseResponse converts a domain expense to a response DTO
func ToExpenseResponse(e *finance.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:           e.ID,
		TenantID:     e.TenantID,
		Number:       e.Number,
		Category:     string(e.Category),
		Description:  e.Description,
		Amount:       e.Amount,
		IncurredDate: e.IncurredDate,
		Status:       string(e.Status),
		HasReceipt:   e.HasReceipt(),
		SubmittedAt:  e.SubmittedAt,
		DecidedAt:    e.DecidedAt,
		DecidedBy:    e.DecidedBy,
		DecisionNote: e.DecisionNote,
		PaidAt:       e.PaidAt,
		CancelledAt:  e.CancelledAt,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

// ToExpenseResponses converts a slice of domain expenses
func ToExpenseResponses(expenses []finance.Expense) []ExpenseResponse {
	responses := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		responses[i] = ToExpenseResponse(&expenses[i])
	}
	return responses
}
