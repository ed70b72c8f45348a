package hr

import (
	"fmt"
	"time"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LeaveType represents the category of a leave request
type LeaveType string

const (
	LeaveTypeAnnual   LeaveType = "annual"
	LeaveTypeSick     LeaveType = "sick"
	LeaveTypeUnpaid   LeaveType = "unpaid"
	LeaveTypeParental LeaveType = "parental"
)

// IsValid checks if the type is a valid LeaveType
func (t LeaveType) IsValid() bool {
	switch t {
	case LeaveTypeAnnual, LeaveTypeSick, LeaveTypeUnpaid, LeaveTypeParental:
		return true
	}
	return false
}

// String returns the string representation of LeaveType
func (t LeaveType) String() string {
	return string(t)
}

// LeaveStatus represents the status of a leave request
type LeaveStatus string

const (
	LeaveStatusDraft     LeaveStatus = "draft"
	LeaveStatusSubmitted LeaveStatus = "submitted"
	LeaveStatusApproved  LeaveStatus = "approved"
	LeaveStatusRejected  LeaveStatus = "rejected"
	LeaveStatusCancelled LeaveStatus = "cancelled"
)

// IsValid checks if the status is a valid LeaveStatus
func (s LeaveStatus) IsValid() bool {
	switch s {
	case LeaveStatusDraft, LeaveStatusSubmitted, LeaveStatusApproved, LeaveStatusRejected, LeaveStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of LeaveStatus
func (s LeaveStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s LeaveStatus) CanTransitionTo(target LeaveStatus) bool {
	switch s {
	case LeaveStatusDraft:
		return target == LeaveStatusSubmitted || target == LeaveStatusCancelled
	case LeaveStatusSubmitted:
		return target == LeaveStatusApproved || target == LeaveStatusRejected || target == LeaveStatusCancelled
	case LeaveStatusApproved, LeaveStatusRejected, LeaveStatusCancelled:
		return false // Terminal states
	}
	return false
}

// LeaveRequest represents a leave request aggregate root
type LeaveRequest struct {
	shared.TenantAggregateRoot
	EmployeeID   uuid.UUID
	Type         LeaveType
	StartDate    time.Time
	EndDate      time.Time
	Days         float64 // Working days requested, supports half days
	Reason       string
	Status       LeaveStatus
	SubmittedAt  *time.Time
	DecidedAt    *time.Time
	DecidedBy    string
	DecisionNote string
	CancelledAt  *time.Time
}

// NewLeaveRequest creates a new draft leave request
func NewLeaveRequest(tenantID, employeeID uuid.UUID, leaveType LeaveType, startDate, endDate time.Time, days float64) (*LeaveRequest, error) {
	if employeeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EMPLOYEE", "Employee ID cannot be empty")
	}
	if !leaveType.IsValid() {
		return nil, shared.NewDomainError("INVALID_LEAVE_TYPE", "Unknown leave type")
	}
	if startDate.IsZero() || endDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATES", "Start and end dates are required")
	}
	if endDate.Before(startDate) {
		return nil, shared.NewDomainError("INVALID_DATES", "End date cannot be before start date")
	}
	if days <= 0 {
		return nil, shared.NewDomainError("INVALID_DAYS", "Day count must be positive")
	}

	return &LeaveRequest{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		EmployeeID:          employeeID,
		Type:                leaveType,
		StartDate:           startDate,
		EndDate:             endDate,
		Days:                days,
		Status:              LeaveStatusDraft,
	}, nil
}

// Update updates the request's details
// Only allowed in draft status
func (l *LeaveRequest) Update(leaveType LeaveType, startDate, endDate time.Time, days float64, reason string) error {
	if l.Status != LeaveStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft requests can be edited")
	}
	if !leaveType.IsValid() {
		return shared.NewDomainError("INVALID_LEAVE_TYPE", "Unknown leave type")
	}
	if endDate.Before(startDate) {
		return shared.NewDomainError("INVALID_DATES", "End date cannot be before start date")
	}
	if days <= 0 {
		return shared.NewDomainError("INVALID_DAYS", "Day count must be positive")
	}

	l.Type = leaveType
	l.StartDate = startDate
	l.EndDate = endDate
	l.Days = days
	l.Reason = reason
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// Submit submits the request for approval
func (l *LeaveRequest) Submit() error {
	if !l.Status.CanTransitionTo(LeaveStatusSubmitted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot submit request in %s status", l.Status))
	}

	now := time.Now()
	l.Status = LeaveStatusSubmitted
	l.SubmittedAt = &now
	l.UpdatedAt = now
	l.IncrementVersion()

	l.AddDomainEvent(NewLeaveSubmittedEvent(l))

	return nil
}

// Approve approves a submitted request
func (l *LeaveRequest) Approve(approver string) error {
	if !l.Status.CanTransitionTo(LeaveStatusApproved) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve request in %s status", l.Status))
	}
	if approver == "" {
		return shared.NewDomainError("INVALID_APPROVER", "Approver is required")
	}

	now := time.Now()
	l.Status = LeaveStatusApproved
	l.DecidedAt = &now
	l.DecidedBy = approver
	l.UpdatedAt = now
	l.IncrementVersion()

	l.AddDomainEvent(NewLeaveApprovedEvent(l))

	return nil
}

// Reject rejects a submitted request with a reason
func (l *LeaveRequest) Reject(approver, reason string) error {
	if !l.Status.CanTransitionTo(LeaveStatusRejected) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reject request in %s status", l.Status))
	}
	if approver == "" {
		return shared.NewDomainError("INVALID_APPROVER", "Approver is required")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Rejection reason is required")
	}

	now := time.Now()
	l.Status = LeaveStatusRejected
	l.DecidedAt = &now
	l.DecidedBy = approver
	l.DecisionNote = reason
	l.UpdatedAt = now
	l.IncrementVersion()

	l.AddDomainEvent(NewLeaveRejectedEvent(l))

	return nil
}

// Cancel cancels the request. Allowed from draft and submitted.
func (l *LeaveRequest) Cancel() error {
	if !l.Status.CanTransitionTo(LeaveStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel request in %s status", l.Status))
	}

	now := time.Now()
	l.Status = LeaveStatusCancelled
	l.CancelledAt = &now
	l.UpdatedAt = now
	l.IncrementVersion()

	l.AddDomainEvent(NewLeaveCancelledEvent(l))

	return nil
}

// Overlaps returns true if the request's date range overlaps the given range
func (l *LeaveRequest) Overlaps(start, end time.Time) bool {
	return !l.EndDate.Before(start) && !l.StartDate.After(end)
}

// CoversDate returns true if the given date falls within the leave range
func (l *LeaveRequest) CoversDate(date time.Time) bool {
	day := date.Truncate(24 * time.Hour)
	start := l.StartDate.Truncate(24 * time.Hour)
	end := l.EndDate.Truncate(24 * time.Hour)
	return !day.Before(start) && !day.After(end)
}

// IsApproved returns true if the request has been approved
func (l *LeaveRequest) IsApproved() bool {
	return l.Status == LeaveStatusApproved
}

// IsTerminal returns true if the request reached a final state
func (l *LeaveRequest) IsTerminal() bool {
	return l.Status == LeaveStatusApproved || l.Status == LeaveStatusRejected || l.Status == LeaveStatusCancelled
}
