package finance

import (
	"context"
	"time"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceivablesSummary aggregates outstanding and overdue invoice totals
type ReceivablesSummary struct {
	OutstandingCount  int64
	OutstandingAmount decimal.Decimal
	OverdueCount      int64
	OverdueAmount     decimal.Decimal
}

// CategoryTotal aggregates expense amounts per category
type CategoryTotal struct {
	Category ExpenseCategory
	Count    int64
	Amount   decimal.Decimal
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByID finds an invoice by ID within a tenant, items included
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)

	// FindByNumber finds an invoice by number within a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*Invoice, error)

	// FindAll finds all invoices for a tenant
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Invoice, error)

	// FindByStatus finds invoices by status
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status InvoiceStatus, filter shared.Filter) ([]Invoice, error)

	// FindOverdue finds issued invoices whose due date is before the given time
	FindOverdue(ctx context.Context, tenantID uuid.UUID, asOf time.Time, filter shared.Filter) ([]Invoice, error)

	// Save creates or updates an invoice with its items
	Save(ctx context.Context, invoice *Invoice) error

	// Delete deletes an invoice within a tenant
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// Count counts invoices for a tenant
	Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// SummarizeReceivables computes outstanding and overdue totals as of the given time
	SummarizeReceivables(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (*ReceivablesSummary, error)

	// ExistsByNumber checks if an invoice with the given number exists in the tenant
	ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error)
}

// ExpenseRepository defines the interface for expense persistence
type ExpenseRepository interface {
	// FindByID finds an expense by ID within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Expense, error)

	// FindByNumber finds an expense by number within a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*Expense, error)

	// FindAll finds all expenses for a tenant
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Expense, error)

	// FindByStatus finds expenses by status
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status ExpenseStatus, filter shared.Filter) ([]Expense, error)

	// FindByCategory finds expenses in a category
	FindByCategory(ctx context.Context, tenantID uuid.UUID, category ExpenseCategory, filter shared.Filter) ([]Expense, error)

	// Save creates or updates an expense
	Save(ctx context.Context, expense *Expense) error

	// Delete deletes an expense within a tenant
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// Count counts expenses for a tenant
	Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// SummarizeByCategory sums non-cancelled expense amounts per category
	SummarizeByCategory(ctx context.Context, tenantID uuid.UUID) ([]CategoryTotal, error)

	// ExistsByNumber checks if an expense with the given number exists in the tenant
	ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error)
}
