package finance

import (
	"fmt"
	"time"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseCategory represents the category of an expense
type ExpenseCategory string

const (
	ExpenseCategoryTravel    ExpenseCategory = "travel"
	ExpenseCategoryMeals     ExpenseCategory = "meals"
	ExpenseCategoryEquipment ExpenseCategory = "equipment"
	ExpenseCategorySoftware  ExpenseCategory = "software"
	ExpenseCategoryOffice    ExpenseCategory = "office"
	ExpenseCategoryOther     ExpenseCategory = "other"
)

// IsValid checks if the category is a valid ExpenseCategory
func (c ExpenseCategory) IsValid() bool {
	switch c {
	case ExpenseCategoryTravel, ExpenseCategoryMeals, ExpenseCategoryEquipment,
		ExpenseCategorySoftware, ExpenseCategoryOffice, ExpenseCategoryOther:
		return true
	}
	return false
}

// String returns the string representation of ExpenseCategory
func (c ExpenseCategory) String() string {
	return string(c)
}

// ExpenseStatus represents the status of an expense
type ExpenseStatus string

const (
	ExpenseStatusDraft     ExpenseStatus = "draft"
	ExpenseStatusSubmitted ExpenseStatus = "submitted"
	ExpenseStatusApproved  ExpenseStatus = "approved"
	ExpenseStatusRejected  ExpenseStatus = "rejected"
	ExpenseStatusPaid      ExpenseStatus = "paid"
	ExpenseStatusCancelled ExpenseStatus = "cancelled"
)

// IsValid checks if the status is a valid ExpenseStatus
func (s ExpenseStatus) IsValid() bool {
	switch s {
	case ExpenseStatusDraft, ExpenseStatusSubmitted, ExpenseStatusApproved,
		ExpenseStatusRejected, ExpenseStatusPaid, ExpenseStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ExpenseStatus
func (s ExpenseStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s ExpenseStatus) CanTransitionTo(target ExpenseStatus) bool {
	switch s {
	case ExpenseStatusDraft:
		return target == ExpenseStatusSubmitted || target == ExpenseStatusCancelled
	case ExpenseStatusSubmitted:
		return target == ExpenseStatusApproved || target == ExpenseStatusRejected || target == ExpenseStatusCancelled
	case ExpenseStatusApproved:
		return target == ExpenseStatusPaid || target == ExpenseStatusCancelled
	case ExpenseStatusRejected, ExpenseStatusPaid, ExpenseStatusCancelled:
		return false // Terminal states
	}
	return false
}

// Expense represents an expense claim aggregate root
type Expense struct {
	shared.TenantAggregateRoot
	Number       string // Expense number, unique per tenant
	Category     ExpenseCategory
	Description  string
	Amount       decimal.Decimal
	IncurredDate time.Time
	Status       ExpenseStatus
	ReceiptKey   string // S3 object key of the uploaded receipt
	SubmittedAt  *time.Time
	DecidedAt    *time.Time
	DecidedBy    string
	DecisionNote string
	PaidAt       *time.Time
	CancelledAt  *time.Time
}

// NewExpense creates a new draft expense
func NewExpense(tenantID uuid.UUID, number string, category ExpenseCategory, description string, amount valueobject.Money, incurredDate time.Time) (*Expense, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Expense number cannot be empty")
	}
	if len(number) > 50 {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Expense number cannot exceed 50 characters")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown expense category")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Expense amount must be positive")
	}
	if incurredDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Incurred date is required")
	}

	return &Expense{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              number,
		Category:            category,
		Description:         description,
		Amount:              amount.Amount(),
		IncurredDate:        incurredDate,
		Status:              ExpenseStatusDraft,
	}, nil
}

// Update updates the expense details. Only allowed in draft status.
func (e *Expense) Update(category ExpenseCategory, description string, amount valueobject.Money, incurredDate time.Time) error {
	if e.Status != ExpenseStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft expenses can be edited")
	}
	if !category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Unknown expense category")
	}
	if description == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Expense amount must be positive")
	}

	e.Category = category
	e.Description = description
	e.Amount = amount.Amount()
	e.IncurredDate = incurredDate
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// AttachReceipt stores the object key of an uploaded receipt.
// Allowed until the expense is paid or cancelled.
func (e *Expense) AttachReceipt(objectKey string) error {
	if e.Status == ExpenseStatusPaid || e.Status == ExpenseStatusCancelled || e.Status == ExpenseStatusRejected {
		return shared.NewDomainError("INVALID_STATE", "Cannot attach a receipt to a closed expense")
	}
	if objectKey == "" {
		return shared.NewDomainError("INVALID_RECEIPT", "Receipt object key cannot be empty")
	}

	e.ReceiptKey = objectKey
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// Submit submits the expense for approval
func (e *Expense) Submit() error {
	if !e.Status.CanTransitionTo(ExpenseStatusSubmitted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot submit expense in %s status", e.Status))
	}

	now := time.Now()
	e.Status = ExpenseStatusSubmitted
	e.SubmittedAt = &now
	e.UpdatedAt = now
	e.IncrementVersion()

	e.AddDomainEvent(NewExpenseSubmittedEvent(e))

	return nil
}

// Approve approves a submitted expense
func (e *Expense) Approve(approver string) error {
	if !e.Status.CanTransitionTo(ExpenseStatusApproved) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve expense in %s status", e.Status))
	}
	if approver == "" {
		return shared.NewDomainError("INVALID_APPROVER", "Approver is required")
	}

	now := time.Now()
	e.Status = ExpenseStatusApproved
	e.DecidedAt = &now
	e.DecidedBy = approver
	e.UpdatedAt = now
	e.IncrementVersion()

	e.AddDomainEvent(NewExpenseApprovedEvent(e))

	return nil
}

// Reject rejects a submitted expense with a reason
func (e *Expense) Reject(approver, reason string) error {
	if !e.Status.CanTransitionTo(ExpenseStatusRejected) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reject expense in %s status", e.Status))
	}
	if approver == "" {
		return shared.NewDomainError("INVALID_APPROVER", "Approver is required")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Rejection reason is required")
	}

	now := time.Now()
	e.Status = ExpenseStatusRejected
	e.DecidedAt = &now
	e.DecidedBy = approver
	e.DecisionNote = reason
	e.UpdatedAt = now
	e.IncrementVersion()

	e.AddDomainEvent(NewExpenseRejectedEvent(e))

	return nil
}

// MarkPaid records reimbursement of an approved expense
func (e *Expense) MarkPaid() error {
	if !e.Status.CanTransitionTo(ExpenseStatusPaid) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot pay expense in %s status", e.Status))
	}

	now := time.Now()
	e.Status = ExpenseStatusPaid
	e.PaidAt = &now
	e.UpdatedAt = now
	e.IncrementVersion()

	e.AddDomainEvent(NewExpensePaidEvent(e))

	return nil
}

// Cancel cancels the expense. Allowed from draft, submitted, and approved.
func (e *Expense) Cancel() error {
	if !e.Status.CanTransitionTo(ExpenseStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel expense in %s status", e.Status))
	}

	now := time.Now()
	e.Status = ExpenseStatusCancelled
	e.CancelledAt = &now
	e.UpdatedAt = now
	e.IncrementVersion()

	return nil
}

// GetAmountMoney returns the amount as Money
func (e *Expense) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(e.Amount)
}

// HasReceipt returns true if a receipt has been attached
func (e *Expense) HasReceipt() bool {
	return e.ReceiptKey != ""
}

// IsTerminal returns true if the expense reached a final state
func (e *Expense) IsTerminal() bool {
	return e.Status == ExpenseStatusRejected || e.Status == ExpenseStatusPaid || e.Status == ExpenseStatusCancelled
}
