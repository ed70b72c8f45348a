package finance

import (
	"testing"
	"time"

	"github.com/bizsuite/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExpense(t *testing.T) *Expense {
	t.Helper()
	expense, err := NewExpense(uuid.New(), "EXP-001", ExpenseCategoryTravel, "Flight to client site", valueobject.NewMoneyUSDFromFloat(420.50), time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return expense
}

func TestNewExpense(t *testing.T) {
	tenantID := uuid.New()
	incurred := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)

	t.Run("creates draft expense", func(t *testing.T) {
		expense, err := NewExpense(tenantID, "EXP-001", ExpenseCategoryTravel, "Flight", valueobject.NewMoneyUSDFromFloat(420.50), incurred)

		require.NoError(t, err)
		assert.Equal(t, ExpenseStatusDraft, expense.Status)
		assert.False(t, expense.HasReceipt())
	})

	t.Run("fails with unknown category", func(t *testing.T) {
		_, err := NewExpense(tenantID, "EXP-001", ExpenseCategory("entertainment"), "Flight", valueobject.NewMoneyUSDFromFloat(420.50), incurred)

		assert.Error(t, err)
	})

	t.Run("fails with non-positive amount", func(t *testing.T) {
		_, err := NewExpense(tenantID, "EXP-001", ExpenseCategoryTravel, "Flight", valueobject.ZeroUSD(), incurred)

		assert.Error(t, err)
	})

	t.Run("fails with zero incurred date", func(t *testing.T) {
		_, err := NewExpense(tenantID, "EXP-001", ExpenseCategoryTravel, "Flight", valueobject.NewMoneyUSDFromFloat(1), time.Time{})

		assert.Error(t, err)
	})
}

func TestExpenseStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    ExpenseStatus
		to      ExpenseStatus
		allowed bool
	}{
		{ExpenseStatusDraft, ExpenseStatusSubmitted, true},
		{ExpenseStatusDraft, ExpenseStatusApproved, false},
		{ExpenseStatusSubmitted, ExpenseStatusApproved, true},
		{ExpenseStatusSubmitted, ExpenseStatusRejected, true},
		{ExpenseStatusApproved, ExpenseStatusPaid, true},
		{ExpenseStatusApproved, ExpenseStatusCancelled, true},
		{ExpenseStatusRejected, ExpenseStatusSubmitted, false},
		{ExpenseStatusPaid, ExpenseStatusCancelled, false},
		{ExpenseStatusCancelled, ExpenseStatusSubmitted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestExpense_Lifecycle(t *testing.T) {
	t.Run("submit, approve, pay", func(t *testing.T) {
		expense := newTestExpense(t)

		require.NoError(t, expense.Submit())
		assert.Equal(t, ExpenseStatusSubmitted, expense.Status)
		assert.NotNil(t, expense.SubmittedAt)

		require.NoError(t, expense.Approve("manager1"))
		assert.Equal(t, ExpenseStatusApproved, expense.Status)
		assert.Equal(t, "manager1", expense.DecidedBy)

		require.NoError(t, expense.MarkPaid())
		assert.Equal(t, ExpenseStatusPaid, expense.Status)
		assert.NotNil(t, expense.PaidAt)
		assert.True(t, expense.IsTerminal())

		events := expense.GetDomainEvents()
		assert.Len(t, events, 3)
		_, ok := events[2].(*ExpensePaidEvent)
		assert.True(t, ok)
	})

	t.Run("reject with reason", func(t *testing.T) {
		expense := newTestExpense(t)
		require.NoError(t, expense.Submit())

		err := expense.Reject("manager1", "missing receipt")

		require.NoError(t, err)
		assert.Equal(t, ExpenseStatusRejected, expense.Status)
		assert.Equal(t, "missing receipt", expense.DecisionNote)
	})

	t.Run("reject requires reason", func(t *testing.T) {
		expense := newTestExpense(t)
		require.NoError(t, expense.Submit())

		err := expense.Reject("manager1", "")

		assert.Error(t, err)
	})

	t.Run("cannot pay unapproved expense", func(t *testing.T) {
		expense := newTestExpense(t)
		require.NoError(t, expense.Submit())

		err := expense.MarkPaid()

		assert.Error(t, err)
	})

	t.Run("cancel from approved", func(t *testing.T) {
		expense := newTestExpense(t)
		require.NoError(t, expense.Submit())
		require.NoError(t, expense.Approve("manager1"))

		err := expense.Cancel()

		require.NoError(t, err)
		assert.Equal(t, ExpenseStatusCancelled, expense.Status)
	})

	t.Run("cannot cancel paid expense", func(t *testing.T) {
		expense := newTestExpense(t)
		require.NoError(t, expense.Submit())
		require.NoError(t, expense.Approve("manager1"))
		require.NoError(t, expense.MarkPaid())

		err := expense.Cancel()

		assert.Error(t, err)
	})
}

func TestExpense_Update(t *testing.T) {
	t.Run("edits draft", func(t *testing.T) {
		expense := newTestExpense(t)

		err := expense.Update(ExpenseCategoryMeals, "Client dinner", valueobject.NewMoneyUSDFromFloat(85), expense.IncurredDate)

		require.NoError(t, err)
		assert.Equal(t, ExpenseCategoryMeals, expense.Category)
		assert.Equal(t, "85", expense.Amount.String())
	})

	t.Run("cannot edit after submission", func(t *testing.T) {
		expense := newTestExpense(t)
		require.NoError(t, expense.Submit())

		err := expense.Update(ExpenseCategoryMeals, "Client dinner", valueobject.NewMoneyUSDFromFloat(85), expense.IncurredDate)

		assert.Error(t, err)
	})
}

func TestExpense_AttachReceipt(t *testing.T) {
	t.Run("attaches receipt key", func(t *testing.T) {
		expense := newTestExpense(t)

		err := expense.AttachReceipt("receipts/tenant-a/exp-001.pdf")

		require.NoError(t, err)
		assert.True(t, expense.HasReceipt())
		assert.Equal(t, "receipts/tenant-a/exp-001.pdf", expense.ReceiptKey)
	})

	t.Run("allowed while submitted", func(t *testing.T) {
		expense := newTestExpense(t)
		require.NoError(t, expense.Submit())

		err := expense.AttachReceipt("receipts/tenant-a/exp-001.pdf")

		require.NoError(t, err)
	})

	t.Run("rejects empty key", func(t *testing.T) {
		expense := newTestExpense(t)

		err := expense.AttachReceipt("")

		assert.Error(t, err)
	})

	t.Run("cannot attach to paid expense", func(t *testing.T) {
		expense := newTestExpense(t)
		require.NoError(t, expense.Submit())
		require.NoError(t, expense.Approve("manager1"))
		require.NoError(t, expense.MarkPaid())

		err := expense.AttachReceipt("receipts/late.pdf")

		assert.Error(t, err)
	})
}
