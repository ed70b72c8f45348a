package models

import (
	"time"

	"github.com/bizsuite/backend/internal/domain/hr"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EmployeeModel is the GORM model for employees.
// Number is unique per tenant, enforced by migration.
type EmployeeModel struct {
	TenantAggregateModel
	Number       string          `gorm:"type:varchar(50);not null;index"`
	Name         string          `gorm:"type:varchar(100);not null"`
	Email        string          `gorm:"type:varchar(255)"`
	Department   string          `gorm:"type:varchar(100);index"`
	Position     string          `gorm:"type:varchar(100)"`
	HireDate     time.Time       `gorm:"not null"`
	Salary       decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Status       string          `gorm:"type:varchar(20);not null;default:'active';index"`
	TerminatedAt *time.Time      `gorm:""`
}

// TableName returns the table name
func (EmployeeModel) TableName() string {
	return "employees"
}

// ToDomain converts the model to a domain employee
func (m *EmployeeModel) ToDomain() *hr.Employee {
	e := &hr.Employee{
		Number:       m.Number,
		Name:         m.Name,
		Email:        m.Email,
		Department:   m.Department,
		Position:     m.Position,
		HireDate:     m.HireDate,
		Salary:       m.Salary,
		Status:       hr.EmployeeStatus(m.Status),
		TerminatedAt: m.TerminatedAt,
	}
	m.PopulateTenantAggregateRoot(&e.TenantAggregateRoot)
	return e
}

// FromDomain populates the model from a domain employee
func (m *EmployeeModel) FromDomain(e *hr.Employee) {
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	m.Number = e.Number
	m.Name = e.Name
	m.Email = e.Email
	m.Department = e.Department
	m.Position = e.Position
	m.HireDate = e.HireDate
	m.Salary = e.Salary
	m.Status = string(e.Status)
	m.TerminatedAt = e.TerminatedAt
}

// EmployeeModelFromDomain creates a model from a domain employee
func EmployeeModelFromDomain(e *hr.Employee) *EmployeeModel {
	m := &EmployeeModel{}
	m.FromDomain(e)
	return m
}

// LeaveRequestModel is the GORM model for leave requests.
type LeaveRequestModel struct {
	TenantAggregateModel
	EmployeeID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	LeaveType    string     `gorm:"type:varchar(20);not null"`
	StartDate    time.Time  `gorm:"not null;index"`
	EndDate      time.Time  `gorm:"not null"`
	Days         float64    `gorm:"not null"`
	Reason       string     `gorm:"type:varchar(500)"`
	Status       string     `gorm:"type:varchar(20);not null;default:'draft';index"`
	SubmittedAt  *time.Time `gorm:""`
	DecidedAt    *time.Time `gorm:""`
	DecidedBy    string     `gorm:"type:varchar(100)"`
	DecisionNote string     `gorm:"type:varchar(500)"`
	CancelledAt  *time.Time `gorm:""`
}

// TableName returns the table name
func (LeaveRequestModel) TableName() string {
	return "leave_requests"
}

// ToDomain converts the model to a domain leave request
func (m *LeaveRequestModel) ToDomain() *hr.LeaveRequest {
	r := &hr.LeaveRequest{
		EmployeeID:   m.EmployeeID,
		Type:         hr.LeaveType(m.LeaveType),
		StartDate:    m.StartDate,
		EndDate:      m.EndDate,
		Days:         m.Days,
		Reason:       m.Reason,
		Status:       hr.LeaveStatus(m.Status),
		SubmittedAt:  m.SubmittedAt,
		DecidedAt:    m.DecidedAt,
		DecidedBy:    m.DecidedBy,
		DecisionNote: m.DecisionNote,
		CancelledAt:  m.CancelledAt,
	}
	m.PopulateTenantAggregateRoot(&r.TenantAggregateRoot)
	return r
}

// FromDomain populates the model from a domain leave request
func (m *LeaveRequestModel) FromDomain(r *hr.LeaveRequest) {
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	m.EmployeeID = r.EmployeeID
	m.LeaveType = string(r.Type)
	m.StartDate = r.StartDate
	m.EndDate = r.EndDate
	m.Days = r.Days
	m.Reason = r.Reason
	m.Status = string(r.Status)
	m.SubmittedAt = r.SubmittedAt
	m.DecidedAt = r.DecidedAt
	m.DecidedBy = r.DecidedBy
	m.DecisionNote = r.DecisionNote
	m.CancelledAt = r.CancelledAt
}

// LeaveRequestModelFromDomain creates a model from a domain leave request
func LeaveRequestModelFromDomain(r *hr.LeaveRequest) *LeaveRequestModel {
	m := &LeaveRequestModel{}
	m.FromDomain(r)
	return m
}
