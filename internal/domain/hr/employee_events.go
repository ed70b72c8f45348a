package hr

import (
	"github.com/bizsuite/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeEmployee     = "Employee"
	AggregateTypeLeaveRequest = "LeaveRequest"
)

// Event type constants
const (
	EventTypeEmployeeHired         = "EmployeeHired"
	EventTypeEmployeeStatusChanged = "EmployeeStatusChanged"
	EventTypeEmployeeTerminated    = "EmployeeTerminated"
	EventTypeLeaveSubmitted        = "LeaveSubmitted"
	EventTypeLeaveApproved         = "LeaveApproved"
	EventTypeLeaveRejected         = "LeaveRejected"
	EventTypeLeaveCancelled        = "LeaveCancelled"
)

// EmployeeHiredEvent is published when a new employee is created
type EmployeeHiredEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
	Name   string `json:"name"`
}

// NewEmployeeHiredEvent creates a new EmployeeHiredEvent
func NewEmployeeHiredEvent(employee *Employee) *EmployeeHiredEvent {
	return &EmployeeHiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEmployeeHired, AggregateTypeEmployee, employee.ID, employee.TenantID),
		Number:          employee.Number,
		Name:            employee.Name,
	}
}

// EmployeeStatusChangedEvent is published when an employee's status changes
type EmployeeStatusChangedEvent struct {
	shared.BaseDomainEvent
	Number    string         `json:"number"`
	OldStatus EmployeeStatus `json:"old_status"`
	NewStatus EmployeeStatus `json:"new_status"`
}

// NewEmployeeStatusChangedEvent creates a new EmployeeStatusChangedEvent
func NewEmployeeStatusChangedEvent(employee *Employee, oldStatus, newStatus EmployeeStatus) *EmployeeStatusChangedEvent {
	return &EmployeeStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEmployeeStatusChanged, AggregateTypeEmployee, employee.ID, employee.TenantID),
		Number:          employee.Number,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// EmployeeTerminatedEvent is published when an employee is terminated
type EmployeeTerminatedEvent struct {
	shared.BaseDomainEvent
	Number    string         `json:"number"`
	Name      string         `json:"name"`
	OldStatus EmployeeStatus `json:"old_status"`
}

// NewEmployeeTerminatedEvent creates a new EmployeeTerminatedEvent
func NewEmployeeTerminatedEvent(employee *Employee, oldStatus EmployeeStatus) *EmployeeTerminatedEvent {
	return &EmployeeTerminatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEmployeeTerminated, AggregateTypeEmployee, employee.ID, employee.TenantID),
		Number:          employee.Number,
		Name:            employee.Name,
		OldStatus:       oldStatus,
	}
}

// LeaveSubmittedEvent is published when a leave request is submitted for approval
type LeaveSubmittedEvent struct {
	shared.BaseDomainEvent
	EmployeeID string    `json:"employee_id"`
	Type       LeaveType `json:"type"`
	Days       float64   `json:"days"`
}

// NewLeaveSubmittedEvent creates a new LeaveSubmittedEvent
func NewLeaveSubmittedEvent(leave *LeaveRequest) *LeaveSubmittedEvent {
	return &LeaveSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeaveSubmitted, AggregateTypeLeaveRequest, leave.ID, leave.TenantID),
		EmployeeID:      leave.EmployeeID.String(),
		Type:            leave.Type,
		Days:            leave.Days,
	}
}

// LeaveApprovedEvent is published when a leave request is approved
type LeaveApprovedEvent struct {
	shared.BaseDomainEvent
	EmployeeID string    `json:"employee_id"`
	Type       LeaveType `json:"type"`
	Days       float64   `json:"days"`
	ApprovedBy string    `json:"approved_by"`
}

// NewLeaveApprovedEvent creates a new LeaveApprovedEvent
func NewLeaveApprovedEvent(leave *LeaveRequest) *LeaveApprovedEvent {
	return &LeaveApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeaveApproved, AggregateTypeLeaveRequest, leave.ID, leave.TenantID),
		EmployeeID:      leave.EmployeeID.String(),
		Type:            leave.Type,
		Days:            leave.Days,
		ApprovedBy:      leave.DecidedBy,
	}
}

// LeaveRejectedEvent is published when a leave request is rejected
type LeaveRejectedEvent struct {
	shared.BaseDomainEvent
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

// NewLeaveRejectedEvent creates a new LeaveRejectedEvent
func NewLeaveRejectedEvent(leave *LeaveRequest) *LeaveRejectedEvent {
	return &LeaveRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeaveRejected, AggregateTypeLeaveRequest, leave.ID, leave.TenantID),
		EmployeeID:      leave.EmployeeID.String(),
		Reason:          leave.DecisionNote,
	}
}

// LeaveCancelledEvent is published when a leave request is cancelled
type LeaveCancelledEvent struct {
	shared.BaseDomainEvent
	EmployeeID string `json:"employee_id"`
}

// NewLeaveCancelledEvent creates a new LeaveCancelledEvent
func NewLeaveCancelledEvent(leave *LeaveRequest) *LeaveCancelledEvent {
	return &LeaveCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeaveCancelled, AggregateTypeLeaveRequest, leave.ID, leave.TenantID),
		EmployeeID:      leave.EmployeeID.String(),
	}
}
