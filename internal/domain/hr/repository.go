package hr

import (
	"context"
	"time"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LeaveBalance summarizes approved leave days per type for an employee
type LeaveBalance struct {
	Type LeaveType
	Days float64
}

// EmployeeRepository defines the interface for employee persistence
type EmployeeRepository interface {
	// FindByID finds an employee by ID within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Employee, error)

	// FindByNumber finds an employee by employee number within a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*Employee, error)

	// FindAll finds all employees for a tenant
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Employee, error)

	// FindByStatus finds employees by status
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status EmployeeStatus, filter shared.Filter) ([]Employee, error)

	// FindByDepartment finds employees in a department
	FindByDepartment(ctx context.Context, tenantID uuid.UUID, department string, filter shared.Filter) ([]Employee, error)

	// Save creates or updates an employee
	Save(ctx context.Context, employee *Employee) error

	// Delete deletes an employee within a tenant
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// Count counts employees for a tenant
	Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByNumber checks if an employee with the given number exists in the tenant
	ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error)
}

// LeaveRequestRepository defines the interface for leave request persistence
type LeaveRequestRepository interface {
	// FindByID finds a leave request by ID within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*LeaveRequest, error)

	// FindAll finds all leave requests for a tenant
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]LeaveRequest, error)

	// FindByEmployee finds leave requests for an employee
	FindByEmployee(ctx context.Context, tenantID, employeeID uuid.UUID, filter shared.Filter) ([]LeaveRequest, error)

	// FindByStatus finds leave requests by status
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status LeaveStatus, filter shared.Filter) ([]LeaveRequest, error)

	// FindApprovedOverlapping finds approved requests for the employee that
	// overlap the given date range
	FindApprovedOverlapping(ctx context.Context, tenantID, employeeID uuid.UUID, start, end time.Time) ([]LeaveRequest, error)

	// SummarizeByType sums approved leave days per type for an employee
	SummarizeByType(ctx context.Context, tenantID, employeeID uuid.UUID) ([]LeaveBalance, error)

	// SumDaysByStatus sums requested days across all requests in a status
	SumDaysByStatus(ctx context.Context, tenantID uuid.UUID, status LeaveStatus) (float64, error)

	// Save creates or updates a leave request
	Save(ctx context.Context, request *LeaveRequest) error

	// Delete deletes a leave request within a tenant
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// Count counts leave requests for a tenant
	Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}
