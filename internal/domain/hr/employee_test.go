package hr

import (
	"testing"
	"time"

	"github.com/bizsuite/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEmployee(t *testing.T) *Employee {
	t.Helper()
	emp, err := NewEmployee(uuid.New(), "EMP-001", "Jordan Lee", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), valueobject.NewMoneyUSDFromFloat(85000))
	require.NoError(t, err)
	emp.ClearDomainEvents()
	return emp
}

func TestNewEmployee(t *testing.T) {
	tenantID := uuid.New()
	hireDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("creates active employee", func(t *testing.T) {
		emp, err := NewEmployee(tenantID, "EMP-001", "Jordan Lee", hireDate, valueobject.NewMoneyUSDFromFloat(85000))

		require.NoError(t, err)
		assert.Equal(t, tenantID, emp.TenantID)
		assert.Equal(t, "EMP-001", emp.Number)
		assert.Equal(t, EmployeeStatusActive, emp.Status)
		assert.True(t, emp.IsActive())

		events := emp.GetDomainEvents()
		assert.Len(t, events, 1)
		_, ok := events[0].(*EmployeeHiredEvent)
		assert.True(t, ok)
	})

	t.Run("fails with empty number", func(t *testing.T) {
		_, err := NewEmployee(tenantID, "", "Jordan Lee", hireDate, valueobject.NewMoneyUSDFromFloat(85000))

		assert.Error(t, err)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewEmployee(tenantID, "EMP-001", "", hireDate, valueobject.NewMoneyUSDFromFloat(85000))

		assert.Error(t, err)
	})

	t.Run("fails with zero hire date", func(t *testing.T) {
		_, err := NewEmployee(tenantID, "EMP-001", "Jordan Lee", time.Time{}, valueobject.NewMoneyUSDFromFloat(85000))

		assert.Error(t, err)
	})

	t.Run("fails with negative salary", func(t *testing.T) {
		_, err := NewEmployee(tenantID, "EMP-001", "Jordan Lee", hireDate, valueobject.NewMoneyUSDFromFloat(-1))

		assert.Error(t, err)
	})
}

func TestEmployee_Update(t *testing.T) {
	t.Run("updates editable fields", func(t *testing.T) {
		emp := newTestEmployee(t)

		err := emp.Update("Jordan Lee", "Jordan@Example.com", "Engineering", "Staff Engineer")

		require.NoError(t, err)
		assert.Equal(t, "jordan@example.com", emp.Email)
		assert.Equal(t, "Engineering", emp.Department)
		assert.Equal(t, "Staff Engineer", emp.Position)
	})

	t.Run("fails with invalid email", func(t *testing.T) {
		emp := newTestEmployee(t)

		err := emp.Update("Jordan Lee", "not-an-email", "", "")

		assert.Error(t, err)
	})

	t.Run("cannot update terminated employee", func(t *testing.T) {
		emp := newTestEmployee(t)
		require.NoError(t, emp.Terminate())

		err := emp.Update("Jordan Lee", "", "", "")

		assert.Error(t, err)
	})
}

func TestEmployee_SetSalary(t *testing.T) {
	t.Run("updates salary", func(t *testing.T) {
		emp := newTestEmployee(t)

		err := emp.SetSalary(valueobject.NewMoneyUSDFromFloat(95000))

		require.NoError(t, err)
		assert.Equal(t, "95000", emp.Salary.String())
	})

	t.Run("rejects negative salary", func(t *testing.T) {
		emp := newTestEmployee(t)

		err := emp.SetSalary(valueobject.NewMoneyUSDFromFloat(-5))

		assert.Error(t, err)
	})
}

func TestEmployee_LeaveTransitions(t *testing.T) {
	t.Run("starts and returns from leave", func(t *testing.T) {
		emp := newTestEmployee(t)

		require.NoError(t, emp.StartLeave())
		assert.Equal(t, EmployeeStatusOnLeave, emp.Status)

		require.NoError(t, emp.ReturnFromLeave())
		assert.Equal(t, EmployeeStatusActive, emp.Status)
	})

	t.Run("cannot start leave twice", func(t *testing.T) {
		emp := newTestEmployee(t)
		require.NoError(t, emp.StartLeave())

		err := emp.StartLeave()

		assert.Error(t, err)
	})

	t.Run("cannot return when not on leave", func(t *testing.T) {
		emp := newTestEmployee(t)

		err := emp.ReturnFromLeave()

		assert.Error(t, err)
	})
}

func TestEmployee_Terminate(t *testing.T) {
	t.Run("terminates active employee", func(t *testing.T) {
		emp := newTestEmployee(t)

		err := emp.Terminate()

		require.NoError(t, err)
		assert.True(t, emp.IsTerminated())
		assert.NotNil(t, emp.TerminatedAt)

		events := emp.GetDomainEvents()
		assert.Len(t, events, 1)
		_, ok := events[0].(*EmployeeTerminatedEvent)
		assert.True(t, ok)
	})

	t.Run("terminates employee on leave", func(t *testing.T) {
		emp := newTestEmployee(t)
		require.NoError(t, emp.StartLeave())

		err := emp.Terminate()

		require.NoError(t, err)
		assert.True(t, emp.IsTerminated())
	})

	t.Run("termination is terminal", func(t *testing.T) {
		emp := newTestEmployee(t)
		require.NoError(t, emp.Terminate())

		assert.Error(t, emp.Terminate())
		assert.Error(t, emp.StartLeave())
	})
}
