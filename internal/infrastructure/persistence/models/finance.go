package models

import (
	"time"

	"github.com/bizsuite/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the GORM model for invoices.
// Number is unique per tenant, enforced by migration.
type InvoiceModel struct {
	TenantAggregateModel
	Number       string             `gorm:"type:varchar(50);not null;index"`
	CustomerName string             `gorm:"type:varchar(200);not null"`
	Items        []InvoiceItemModel `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	Subtotal     decimal.Decimal    `gorm:"type:decimal(15,2);not null;default:0"`
	TaxRate      decimal.Decimal    `gorm:"type:decimal(5,2);not null;default:0"`
	TaxAmount    decimal.Decimal    `gorm:"type:decimal(15,2);not null;default:0"`
	Total        decimal.Decimal    `gorm:"type:decimal(15,2);not null;default:0"`
	DueDate      *time.Time         `gorm:"index"`
	Status       string             `gorm:"type:varchar(20);not null;default:'draft';index"`
	Notes        string             `gorm:"type:text"`
	IssuedAt     *time.Time         `gorm:""`
	PaidAt       *time.Time         `gorm:""`
	VoidedAt     *time.Time         `gorm:""`
	VoidReason   string             `gorm:"type:varchar(500)"`
}

// TableName returns the table name
func (InvoiceModel) TableName() string {
	return "invoices"
}

// InvoiceItemModel is the GORM model for invoice line items.
// Items are owned by their invoice and loaded with it.
type InvoiceItemModel struct {
	BaseModel
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:varchar(500);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
}

// TableName returns the table name
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// ToDomain converts the model to a domain invoice item
func (m *InvoiceItemModel) ToDomain() finance.InvoiceItem {
	return finance.InvoiceItem{
		ID:          m.ID,
		InvoiceID:   m.InvoiceID,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		Amount:      m.Amount,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromDomain populates the model from a domain invoice item
func (m *InvoiceItemModel) FromDomain(item finance.InvoiceItem) {
	m.ID = item.ID
	m.CreatedAt = item.CreatedAt
	m.UpdatedAt = item.UpdatedAt
	m.InvoiceID = item.InvoiceID
	m.Description = item.Description
	m.Quantity = item.Quantity
	m.UnitPrice = item.UnitPrice
	m.Amount = item.Amount
}

// ToDomain converts the model to a domain invoice
func (m *InvoiceModel) ToDomain() *finance.Invoice {
	items := make([]finance.InvoiceItem, len(m.Items))
	for i, item := range m.Items {
		items[i] = item.ToDomain()
	}

	inv := &finance.Invoice{
		Number:       m.Number,
		CustomerName: m.CustomerName,
		Items:        items,
		Subtotal:     m.Subtotal,
		TaxRate:      m.TaxRate,
		TaxAmount:    m.TaxAmount,
		Total:        m.Total,
		DueDate:      m.DueDate,
		Status:       finance.InvoiceStatus(m.Status),
		Notes:        m.Notes,
		IssuedAt:     m.IssuedAt,
		PaidAt:       m.PaidAt,
		VoidedAt:     m.VoidedAt,
		VoidReason:   m.VoidReason,
	}
	m.PopulateTenantAggregateRoot(&inv.TenantAggregateRoot)
	return inv
}

// FromDomain populates the model from a domain invoice
func (m *InvoiceModel) FromDomain(inv *finance.Invoice) {
	m.FromDomainTenantAggregateRoot(inv.TenantAggregateRoot)
	m.Number = inv.Number
	m.CustomerName = inv.CustomerName
	m.Subtotal = inv.Subtotal
	m.TaxRate = inv.TaxRate
	m.TaxAmount = inv.TaxAmount
	m.Total = inv.Total
	m.DueDate = inv.DueDate
	m.Status = string(inv.Status)
	m.Notes = inv.Notes
	m.IssuedAt = inv.IssuedAt
	m.PaidAt = inv.PaidAt
	m.VoidedAt = inv.VoidedAt
	m.VoidReason = inv.VoidReason

	m.Items = make([]InvoiceItemModel, len(inv.Items))
	for i, item := range inv.Items {
		m.Items[i].FromDomain(item)
	}
}

// InvoiceModelFromDomain creates a model from a domain invoice
func InvoiceModelFromDomain(inv *finance.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// ExpenseModel is the GORM model for expenses.
// Number is unique per tenant, enforced by migration.
type ExpenseModel struct {
	TenantAggregateModel
	Number       string          `gorm:"type:varchar(50);not null;index"`
	Category     string          `gorm:"type:varchar(20);not null;index"`
	Description  string          `gorm:"type:varchar(500);not null"`
	Amount       decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	IncurredDate time.Time       `gorm:"not null;index"`
	Status       string          `gorm:"type:varchar(20);not null;default:'draft';index"`
	ReceiptKey   string          `gorm:"type:varchar(500)"`
	SubmittedAt  *time.Time      `gorm:""`
	DecidedAt    *time.Time      `gorm:""`
	DecidedBy    string          `gorm:"type:varchar(100)"`
	DecisionNote string          `gorm:"type:varchar(500)"`
	PaidAt       *time.Time      `gorm:""`
	CancelledAt  *time.Time      `gorm:""`
}

// TableName returns the table name
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToDomain converts the model to a domain expense
func (m *ExpenseModel) ToDomain() *finance.Expense {
	e := &finance.Expense{
		Number:       m.Number,
		Category:     finance.ExpenseCategory(m.Category),
		Description:  m.Description,
		Amount:       m.Amount,
		IncurredDate: m.IncurredDate,
		Status:       finance.ExpenseStatus(m.Status),
		ReceiptKey:   m.ReceiptKey,
		SubmittedAt:  m.SubmittedAt,
		DecidedAt:    m.DecidedAt,
		DecidedBy:    m.DecidedBy,
		DecisionNote: m.DecisionNote,
		PaidAt:       m.PaidAt,
		CancelledAt:  m.CancelledAt,
	}
	m.PopulateTenantAggregateRoot(&e.TenantAggregateRoot)
	return e
}

// FromDomain populates the model from a domain expense
func (m *ExpenseModel) FromDomain(e *finance.Expense) {
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	m.Number = e.Number
	m.Category = string(e.Category)
	m.Description = e.Description
	m.Amount = e.Amount
	m.IncurredDate = e.IncurredDate
	m.Status = string(e.Status)
	m.ReceiptKey = e.ReceiptKey
	m.SubmittedAt = e.SubmittedAt
	m.DecidedAt = e.DecidedAt
	m.DecidedBy = e.DecidedBy
	m.DecisionNote = e.DecisionNote
	m.PaidAt = e.PaidAt
	m.CancelledAt = e.CancelledAt
}

// ExpenseModelFromDomain creates a model from a domain expense
func ExpenseModelFromDomain(e *finance.Expense) *ExpenseModel {
	m := &ExpenseModel{}
	m.FromDomain(e)
	return m
}
