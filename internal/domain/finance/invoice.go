package finance

import (
	"fmt"
	"time"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft  InvoiceStatus = "draft"
	InvoiceStatusIssued InvoiceStatus = "issued"
	InvoiceStatusPaid   InvoiceStatus = "paid"
	InvoiceStatusVoid   InvoiceStatus = "void"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusIssued, InvoiceStatusPaid, InvoiceStatusVoid:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDraft:
		return target == InvoiceStatusIssued || target == InvoiceStatusVoid
	case InvoiceStatusIssued:
		return target == InvoiceStatusPaid || target == InvoiceStatusVoid
	case InvoiceStatusPaid, InvoiceStatusVoid:
		return false // Terminal states
	}
	return false
}

// InvoiceItem represents a line item on an invoice
type InvoiceItem struct {
	ID          uuid.UUID
	InvoiceID   uuid.UUID
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal // Quantity * UnitPrice
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewInvoiceItem creates a new invoice line item
func NewInvoiceItem(invoiceID uuid.UUID, description string, quantity decimal.Decimal, unitPrice valueobject.Money) (*InvoiceItem, error) {
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Item description cannot be empty")
	}
	if len(description) > 500 {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Item description cannot exceed 500 characters")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	return &InvoiceItem{
		ID:          uuid.New(),
		InvoiceID:   invoiceID,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount(),
		Amount:      quantity.Mul(unitPrice.Amount()).Round(2),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Update updates the item and recalculates its amount
func (i *InvoiceItem) Update(description string, quantity decimal.Decimal, unitPrice valueobject.Money) error {
	if description == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Item description cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	i.Description = description
	i.Quantity = quantity
	i.UnitPrice = unitPrice.Amount()
	i.Amount = quantity.Mul(unitPrice.Amount()).Round(2)
	i.UpdatedAt = time.Now()

	return nil
}

// Invoice represents an invoice aggregate root.
// Items and tax are editable only while the invoice is in draft.
type Invoice struct {
	shared.TenantAggregateRoot
	Number       string // Invoice number, unique per tenant
	CustomerName string
	Items        []InvoiceItem
	Subtotal     decimal.Decimal // Sum of item amounts
	TaxRate      decimal.Decimal // Percent, e.g. 8.25
	TaxAmount    decimal.Decimal
	Total        decimal.Decimal // Subtotal + TaxAmount
	DueDate      *time.Time
	Status       InvoiceStatus
	Notes        string
	IssuedAt     *time.Time
	PaidAt       *time.Time
	VoidedAt     *time.Time
	VoidReason   string
}

// NewInvoice creates a new draft invoice
func NewInvoice(tenantID uuid.UUID, number, customerName string) (*Invoice, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Invoice number cannot be empty")
	}
	if len(number) > 50 {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Invoice number cannot exceed 50 characters")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}

	invoice := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              number,
		CustomerName:        customerName,
		Items:               make([]InvoiceItem, 0),
		Subtotal:            decimal.Zero,
		TaxRate:             decimal.Zero,
		TaxAmount:           decimal.Zero,
		Total:               decimal.Zero,
		Status:              InvoiceStatusDraft,
	}

	invoice.AddDomainEvent(NewInvoiceCreatedEvent(invoice))

	return invoice, nil
}

// AddItem adds a line item. Only allowed in draft status.
func (inv *Invoice) AddItem(description string, quantity decimal.Decimal, unitPrice valueobject.Money) (*InvoiceItem, error) {
	if inv.Status != InvoiceStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-draft invoice")
	}

	item, err := NewInvoiceItem(inv.ID, description, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	inv.Items = append(inv.Items, *item)
	inv.recalculateTotals()
	inv.UpdatedAt = time.Now()

	return item, nil
}

// UpdateItem updates an existing line item. Only allowed in draft status.
func (inv *Invoice) UpdateItem(itemID uuid.UUID, description string, quantity decimal.Decimal, unitPrice valueobject.Money) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items on a non-draft invoice")
	}

	for idx := range inv.Items {
		if inv.Items[idx].ID == itemID {
			if err := inv.Items[idx].Update(description, quantity, unitPrice); err != nil {
				return err
			}
			inv.recalculateTotals()
			inv.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Invoice item not found")
}

// RemoveItem removes a line item. Only allowed in draft status.
func (inv *Invoice) RemoveItem(itemID uuid.UUID) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a non-draft invoice")
	}

	for idx, item := range inv.Items {
		if item.ID == itemID {
			inv.Items = append(inv.Items[:idx], inv.Items[idx+1:]...)
			inv.recalculateTotals()
			inv.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Invoice item not found")
}

// SetTaxRate sets the tax rate in percent. Only allowed in draft status.
func (inv *Invoice) SetTaxRate(rate decimal.Decimal) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot change tax on a non-draft invoice")
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
	}

	inv.TaxRate = rate
	inv.recalculateTotals()
	inv.UpdatedAt = time.Now()

	return nil
}

// SetDueDate sets the payment due date
func (inv *Invoice) SetDueDate(dueDate time.Time) error {
	if inv.Status == InvoiceStatusPaid || inv.Status == InvoiceStatusVoid {
		return shared.NewDomainError("INVALID_STATE", "Cannot change due date on a closed invoice")
	}

	inv.DueDate = &dueDate
	inv.UpdatedAt = time.Now()

	return nil
}

// SetNotes sets the invoice notes
func (inv *Invoice) SetNotes(notes string) {
	inv.Notes = notes
	inv.UpdatedAt = time.Now()
}

// Issue finalizes the invoice and sends it to the customer.
// Requires at least one line item.
func (inv *Invoice) Issue() error {
	if !inv.Status.CanTransitionTo(InvoiceStatusIssued) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot issue invoice in %s status", inv.Status))
	}
	if len(inv.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot issue an invoice without items")
	}

	now := time.Now()
	inv.Status = InvoiceStatusIssued
	inv.IssuedAt = &now
	inv.UpdatedAt = now
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceIssuedEvent(inv))

	return nil
}

// MarkPaid records full payment of the invoice
func (inv *Invoice) MarkPaid() error {
	if !inv.Status.CanTransitionTo(InvoiceStatusPaid) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark invoice paid in %s status", inv.Status))
	}

	now := time.Now()
	inv.Status = InvoiceStatusPaid
	inv.PaidAt = &now
	inv.UpdatedAt = now
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoicePaidEvent(inv))

	return nil
}

// Void cancels the invoice. Allowed from draft and issued.
func (inv *Invoice) Void(reason string) error {
	if !inv.Status.CanTransitionTo(InvoiceStatusVoid) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot void invoice in %s status", inv.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Void reason is required")
	}

	now := time.Now()
	inv.Status = InvoiceStatusVoid
	inv.VoidedAt = &now
	inv.VoidReason = reason
	inv.UpdatedAt = now
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceVoidedEvent(inv, reason))

	return nil
}

// recalculateTotals recalculates subtotal, tax, and total
func (inv *Invoice) recalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range inv.Items {
		subtotal = subtotal.Add(item.Amount)
	}
	inv.Subtotal = subtotal
	inv.TaxAmount = subtotal.Mul(inv.TaxRate).Div(decimal.NewFromInt(100)).Round(2)
	inv.Total = inv.Subtotal.Add(inv.TaxAmount)
}

// IsOverdue returns true if the invoice is issued, unpaid, and past its due date
func (inv *Invoice) IsOverdue(now time.Time) bool {
	if inv.Status != InvoiceStatusIssued || inv.DueDate == nil {
		return false
	}
	return now.After(*inv.DueDate)
}

// GetTotalMoney returns the total as Money
func (inv *Invoice) GetTotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(inv.Total)
}

// GetItem returns an item by its ID
func (inv *Invoice) GetItem(itemID uuid.UUID) *InvoiceItem {
	for idx := range inv.Items {
		if inv.Items[idx].ID == itemID {
			return &inv.Items[idx]
		}
	}
	return nil
}

// ItemCount returns the number of line items
func (inv *Invoice) ItemCount() int {
	return len(inv.Items)
}

// IsDraft returns true if the invoice is a draft
func (inv *Invoice) IsDraft() bool {
	return inv.Status == InvoiceStatusDraft
}

// IsTerminal returns true if the invoice is paid or void
func (inv *Invoice) IsTerminal() bool {
	return inv.Status == InvoiceStatusPaid || inv.Status == InvoiceStatusVoid
}
