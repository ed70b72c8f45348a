package hr

import (
	"time"

	"github.com/bizsuite/backend/internal/domain/hr"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateEmployeeRequest contains fields for creating an employee
type CreateEmployeeRequest struct {
	Number     string          `json:"number" binding:"required,min=1,max=50"`
	Name       string          `json:"name" binding:"required,min=1,max=200"`
	Email      string          `json:"email" binding:"omitempty,email,max=200"`
	Department string          `json:"department" binding:"max=100"`
	Position   string          `json:"position" binding:"max=100"`
	HireDate   time.Time       `json:"hire_date" binding:"required"`
	Salary     decimal.Decimal `json:"salary"`
}

// UpdateEmployeeRequest contains fields for updating an employee
type UpdateEmployeeRequest struct {
	Name       *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Email      *string          `json:"email" binding:"omitempty,email,max=200"`
	Department *string          `json:"department" binding:"omitempty,max=100"`
	Position   *string          `json:"position" binding:"omitempty,max=100"`
	Salary     *decimal.Decimal `json:"salary"`
}

// EmployeeResponse is the full employee representation
type EmployeeResponse struct {
	ID           uuid.UUID       `json:"id"`
	TenantID     uuid.UUID       `json:"tenant_id"`
	Number       string          `json:"number"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Department   string          `json:"department"`
	Position     string          `json:"position"`
	HireDate     time.Time       `json:"hire_date"`
	Salary       decimal.Decimal `json:"salary"`
	Status       string          `json:"status"`
	TerminatedAt *time.Time      `json:"terminated_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// EmployeeListFilter contains list filtering options for employees
type EmployeeListFilter struct {
	Page       int
	PageSize   int
	OrderBy    string
	OrderDir   string
	Search     string
	Status     string
	Department string
}

// ToEmployeeResponse converts a domain employee to a response DTO
func ToEmployeeResponse(e *hr.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID,
		TenantID:     e.TenantID,
		Number:       e.Number,
		Name:         e.Name,
		Email:        e.Email,
		Department:   e.Department,
		Position:     e.Position,
		HireDate:     e.HireDate,
		Salary:       e.Salary,
		Status:       string(e.Status),
		TerminatedAt: e.TerminatedAt,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

// ToEmployeeResponses converts a slice of domain employees
func ToEmployeeResponses(employees []hr.Employee) []EmployeeResponse {
	responses := make([]EmployeeResponse, len(employees))
	for i := range employees {
		responses[i] = ToEmployeeResponse(&employees[i])
	}
	return responses
}

// CreateLeaveRequestRequest contains fields for creating a leave request
type CreateLeaveRequestRequest struct {
	EmployeeID uuid.UUID `json:"employee_id" binding:"required"`
	Type       string    `json:"type" binding:"required,oneof=annual sick unpaid parental"`
	StartDate  time.Time `json:"start_date" binding:"required"`
	EndDate    time.Time `json:"end_date" binding:"required"`
	Days       float64   `json:"days" binding:"required,gt=0"`
	Reason     string    `json:"reason"`
}

// UpdateLeaveRequestRequest contains fields for updating a draft leave request
type UpdateLeaveRequestRequest struct {
	Type      *string    `json:"type" binding:"omitempty,oneof=annual sick unpaid parental"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Days      *float64   `json:"days" binding:"omitempty,gt=0"`
	Reason    *string    `json:"reason"`
}

// DecideLeaveRequest carries the approver for approve/reject operations
type DecideLeaveRequest struct {
	Approver string `json:"approver" binding:"required,max=100"`
	Reason   string `json:"reason"`
}

// LeaveRequestResponse is the full leave request representation
type LeaveRequestResponse struct {
	ID           uuid.UUID  `json:"id"`
	TenantID     uuid.UUID  `json:"tenant_id"`
	EmployeeID   uuid.UUID  `json:"employee_id"`
	Type         string     `json:"type"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      time.Time  `json:"end_date"`
	Days         float64    `json:"days"`
	Reason       string     `json:"reason"`
	Status       string     `json:"status"`
	SubmittedAt  *time.Time `json:"submitted_at,omitempty"`
	DecidedAt    *time.Time `json:"decided_at,omitempty"`
	DecidedBy    string     `json:"decided_by,omitempty"`
	DecisionNote string     `json:"decision_note,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// LeaveListFilter contains list filtering options for leave requests
type LeaveListFilter struct {
	Page       int
	PageSize   int
	OrderBy    string
	OrderDir   string
	Status     string
	EmployeeID *uuid.UUID
}

// LeaveBalanceResponse is the per-type approved leave summary for an employee
type LeaveBalanceResponse struct {
	EmployeeID uuid.UUID          `json:"employee_id"`
	Balances   map[string]float64 `json:"balances"`
	TotalDays  float64            `json:"total_days"`
}

// ToLeaveRequestResponse converts a domain leave request to a response DTO
func ToLeaveRequestResponse(l *hr.LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:           l.ID,
		TenantID:     l.TenantID,
		EmployeeID:   l.EmployeeID,
		Type:         string(l.Type),
		StartDate:    l.StartDate,
		EndDate:      l.EndDate,
		Days:         l.Days,
		Reason:       l.Reason,
		Status:       string(l.Status),
		SubmittedAt:  l.SubmittedAt,
		DecidedAt:    l.DecidedAt,
		DecidedBy:    l.DecidedBy,
		DecisionNote: l.DecisionNote,
		CancelledAt:  l.CancelledAt,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

// ToLeaveRequestResponses converts a slice of domain leave requests
func ToLeaveRequestResponses(requests []hr.LeaveRequest) []LeaveRequestResponse {
	responses := make([]LeaveRequestResponse, len(requests))
	for i := range requests {
		responses[i] = ToLeaveRequestResponse(&requests[i])
	}
	return responses
}
