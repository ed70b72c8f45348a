package finance

import (
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeExpense = "Expense"

// Event type constants
const (
	EventTypeExpenseSubmitted = "ExpenseSubmitted"
	EventTypeExpenseApproved  = "ExpenseApproved"
	EventTypeExpenseRejected  = "ExpenseRejected"
	EventTypeExpensePaid      = "ExpensePaid"
)

// ExpenseSubmittedEvent is published when an expense is submitted for approval
type ExpenseSubmittedEvent struct {
	shared.BaseDomainEvent
	Number   string          `json:"number"`
	Category ExpenseCategory `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// NewExpenseSubmittedEvent creates a new ExpenseSubmittedEvent
func NewExpenseSubmittedEvent(expense *Expense) *ExpenseSubmittedEvent {
	return &ExpenseSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpenseSubmitted, AggregateTypeExpense, expense.ID, expense.TenantID),
		Number:          expense.Number,
		Category:        expense.Category,
		Amount:          expense.Amount,
	}
}

// ExpenseApprovedEvent is published when an expense is approved
type ExpenseApprovedEvent struct {
	shared.BaseDomainEvent
	Number     string          `json:"number"`
	Amount     decimal.Decimal `json:"amount"`
	ApprovedBy string          `json:"approved_by"`
}

// NewExpenseApprovedEvent creates a new ExpenseApprovedEvent
func NewExpenseApprovedEvent(expense *Expense) *ExpenseApprovedEvent {
	return &ExpenseApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpenseApproved, AggregateTypeExpense, expense.ID, expense.TenantID),
		Number:          expense.Number,
		Amount:          expense.Amount,
		ApprovedBy:      expense.DecidedBy,
	}
}

// ExpenseRejectedEvent is published when an expense is rejected
type ExpenseRejectedEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
	Reason string `json:"reason"`
}

// NewExpenseRejectedEvent creates a new ExpenseRejectedEvent
func NewExpenseRejectedEvent(expense *Expense) *ExpenseRejectedEvent {
	return &ExpenseRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpenseRejected, AggregateTypeExpense, expense.ID, expense.TenantID),
		Number:          expense.Number,
		Reason:          expense.DecisionNote,
	}
}

// ExpensePaidEvent is published when an approved expense is reimbursed
type ExpensePaidEvent struct {
	shared.BaseDomainEvent
	Number string          `json:"number"`
	Amount decimal.Decimal `json:"amount"`
}

// NewExpensePaidEvent creates a new ExpensePaidEvent
func NewExpensePaidEvent(expense *Expense) *ExpensePaidEvent {
	return &ExpensePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpensePaid, AggregateTypeExpense, expense.ID, expense.TenantID),
		Number:          expense.Number,
		Amount:          expense.Amount,
	}
}
