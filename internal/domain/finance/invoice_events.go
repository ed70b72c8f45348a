package finance

import (
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeInvoice = "Invoice"

// Event type constants
const (
	EventTypeInvoiceCreated = "InvoiceCreated"
	EventTypeInvoiceIssued  = "InvoiceIssued"
	EventTypeInvoicePaid    = "InvoicePaid"
	EventTypeInvoiceVoided  = "InvoiceVoided"
)

// InvoiceCreatedEvent is published when a new invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	Number       string `json:"number"`
	CustomerName string `json:"customer_name"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(invoice *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, invoice.ID, invoice.TenantID),
		Number:          invoice.Number,
		CustomerName:    invoice.CustomerName,
	}
}

// InvoiceIssuedEvent is published when an invoice is issued
type InvoiceIssuedEvent struct {
	shared.BaseDomainEvent
	Number string          `json:"number"`
	Total  decimal.Decimal `json:"total"`
}

// NewInvoiceIssuedEvent creates a new InvoiceIssuedEvent
func NewInvoiceIssuedEvent(invoice *Invoice) *InvoiceIssuedEvent {
	return &InvoiceIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceIssued, AggregateTypeInvoice, invoice.ID, invoice.TenantID),
		Number:          invoice.Number,
		Total:           invoice.Total,
	}
}

// InvoicePaidEvent is published when an invoice is paid in full
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	Number string          `json:"number"`
	Total  decimal.Decimal `json:"total"`
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(invoice *Invoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaid, AggregateTypeInvoice, invoice.ID, invoice.TenantID),
		Number:          invoice.Number,
		Total:           invoice.Total,
	}
}

// InvoiceVoidedEvent is published when an invoice is voided
type InvoiceVoidedEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
	Reason string `json:"reason"`
}

// NewInvoiceVoidedEvent creates a new InvoiceVoidedEvent
func NewInvoiceVoidedEvent(invoice *Invoice, reason string) *InvoiceVoidedEvent {
	return &InvoiceVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceVoided, AggregateTypeInvoice, invoice.ID, invoice.TenantID),
		Number:          invoice.Number,
		Reason:          reason,
	}
}
