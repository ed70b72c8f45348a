package models

import (
	"time"

	"github.com/bizsuite/backend/internal/domain/project"
)

// TaskModel is the GORM model for project tasks.
// Code is unique per tenant, enforced by migration.
type TaskModel struct {
	TenantAggregateModel
	Code           string     `gorm:"type:varchar(50);not null;index"`
	Title          string     `gorm:"type:varchar(200);not null"`
	Description    string     `gorm:"type:text"`
	ProjectName    string     `gorm:"type:varchar(200);index"`
	Assignee       string     `gorm:"type:varchar(100);index"`
	Priority       string     `gorm:"type:varchar(20);not null;default:'medium'"`
	Status         string     `gorm:"type:varchar(20);not null;default:'todo';index"`
	DueDate        *time.Time `gorm:"index"`
	EstimatedHours float64    `gorm:"not null;default:0"`
	SpentHours     float64    `gorm:"not null;default:0"`
	StartedAt      *time.Time `gorm:""`
	CompletedAt    *time.Time `gorm:""`
	CancelledAt    *time.Time `gorm:""`
	CancelReason   string     `gorm:"type:varchar(500)"`
}

// TableName returns the table name
func (TaskModel) TableName() string {
	return "tasks"
}

// ToDomain converts the model to a domain task
func (m *TaskModel) ToDomain() *project.Task {
	t := &project.Task{
		Code:           m.Code,
		Title:          m.Title,
		Description:    m.Description,
		ProjectName:    m.ProjectName,
		Assignee:       m.Assignee,
		Priority:       project.TaskPriority(m.Priority),
		Status:         project.TaskStatus(m.Status),
		DueDate:        m.DueDate,
		EstimatedHours: m.EstimatedHours,
		SpentHours:     m.SpentHours,
		StartedAt:      m.StartedAt,
		CompletedAt:    m.CompletedAt,
		CancelledAt:    m.CancelledAt,
		CancelReason:   m.CancelReason,
	}
	m.PopulateTenantAggregateRoot(&t.TenantAggregateRoot)
	return t
}

// FromDomain populates the model from a domain task
func (m *TaskModel) FromDomain(t *project.Task) {
	m.FromDomainTenantAggregateRoot(t.TenantAggregateRoot)
	m.Code = t.Code
	m.Title = t.Title
	m.Description = t.Description
	m.ProjectName = t.ProjectName
	m.Assignee = t.Assignee
	m.Priority = string(t.Priority)
	m.Status = string(t.Status)
	m.DueDate = t.DueDate
	m.EstimatedHours = t.EstimatedHours
	m.SpentHours = t.SpentHours
	m.StartedAt = t.StartedAt
	m.CompletedAt = t.CompletedAt
	m.CancelledAt = t.CancelledAt
	m.CancelReason = t.CancelReason
}

// TaskModelFromDomain creates a model from a domain task
func TaskModelFromDomain(t *project.Task) *TaskModel {
	m := &TaskModel{}
	m.FromDomain(t)
	return m
}
