package hr

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EmployeeStatus represents the status of an employee
type EmployeeStatus string

const (
	EmployeeStatusActive     EmployeeStatus = "active"
	EmployeeStatusOnLeave    EmployeeStatus = "on_leave"
	EmployeeStatusTerminated EmployeeStatus = "terminated" // Terminal, rehire is not supported
)

// IsValid checks if the status is a valid EmployeeStatus
func (s EmployeeStatus) IsValid() bool {
	switch s {
	case EmployeeStatusActive, EmployeeStatusOnLeave, EmployeeStatusTerminated:
		return true
	}
	return false
}

// String returns the string representation of EmployeeStatus
func (s EmployeeStatus) String() string {
	return string(s)
}

// Employee represents an employee aggregate root
type Employee struct {
	shared.TenantAggregateRoot
	Number       string // Employee number, unique per tenant
	Name         string
	Email        string
	Department   string
	Position     string
	HireDate     time.Time
	Salary       decimal.Decimal
	Status       EmployeeStatus
	TerminatedAt *time.Time
}

// NewEmployee creates a new active employee
func NewEmployee(tenantID uuid.UUID, number, name string, hireDate time.Time, salary valueobject.Money) (*Employee, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Employee number cannot be empty")
	}
	if len(number) > 50 {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Employee number cannot exceed 50 characters")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Employee name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Employee name cannot exceed 200 characters")
	}
	if hireDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_HIRE_DATE", "Hire date is required")
	}
	if salary.IsNegative() {
		return nil, shared.NewDomainError("INVALID_SALARY", "Salary cannot be negative")
	}

	employee := &Employee{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              number,
		Name:                name,
		HireDate:            hireDate,
		Salary:              salary.Amount(),
		Status:              EmployeeStatusActive,
	}

	employee.AddDomainEvent(NewEmployeeHiredEvent(employee))

	return employee, nil
}

// Update updates the employee's editable fields
func (e *Employee) Update(name, email, department, position string) error {
	if e.Status == EmployeeStatusTerminated {
		return shared.NewDomainError("INVALID_STATE", "Cannot update a terminated employee")
	}
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Employee name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Employee name cannot exceed 200 characters")
	}
	if email != "" {
		if err := validateEmployeeEmail(email); err != nil {
			return err
		}
		email = strings.ToLower(strings.TrimSpace(email))
	}

	e.Name = name
	e.Email = email
	e.Department = department
	e.Position = position
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// SetSalary updates the employee's salary
func (e *Employee) SetSalary(salary valueobject.Money) error {
	if e.Status == EmployeeStatusTerminated {
		return shared.NewDomainError("INVALID_STATE", "Cannot update a terminated employee")
	}
	if salary.IsNegative() {
		return shared.NewDomainError("INVALID_SALARY", "Salary cannot be negative")
	}

	e.Salary = salary.Amount()
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// StartLeave flips the employee to on_leave
func (e *Employee) StartLeave() error {
	if e.Status != EmployeeStatusActive {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot start leave for %s employee", e.Status))
	}

	oldStatus := e.Status
	e.Status = EmployeeStatusOnLeave
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	e.AddDomainEvent(NewEmployeeStatusChangedEvent(e, oldStatus, EmployeeStatusOnLeave))

	return nil
}

// ReturnFromLeave flips the employee back to active
func (e *Employee) ReturnFromLeave() error {
	if e.Status != EmployeeStatusOnLeave {
		return shared.NewDomainError("INVALID_STATE", "Employee is not on leave")
	}

	e.Status = EmployeeStatusActive
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	e.AddDomainEvent(NewEmployeeStatusChangedEvent(e, EmployeeStatusOnLeave, EmployeeStatusActive))

	return nil
}

// Terminate permanently ends the employment. Terminal.
func (e *Employee) Terminate() error {
	if e.Status == EmployeeStatusTerminated {
		return shared.NewDomainError("ALREADY_TERMINATED", "Employee is already terminated")
	}

	oldStatus := e.Status
	now := time.Now()
	e.Status = EmployeeStatusTerminated
	e.TerminatedAt = &now
	e.UpdatedAt = now
	e.IncrementVersion()

	e.AddDomainEvent(NewEmployeeTerminatedEvent(e, oldStatus))

	return nil
}

// GetSalaryMoney returns the salary as Money
func (e *Employee) GetSalaryMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(e.Salary)
}

// IsActive returns true if the employee is active
func (e *Employee) IsActive() bool {
	return e.Status == EmployeeStatusActive
}

// IsTerminated returns true if the employee has been terminated
func (e *Employee) IsTerminated() bool {
	return e.Status == EmployeeStatusTerminated
}

func validateEmployeeEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
