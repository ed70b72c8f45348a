package project

import (
	"time"

	"github.com/bizsuite/backend/internal/domain/project"
	"github.com/google/uuid"
)

// CreateTaskRequest contains fields for creating a task
type CreateTaskRequest struct {
	Code           string     `json:"code" binding:"required,min=1,max=50"`
	Title          string     `json:"title" binding:"required,min=1,max=200"`
	Description    string     `json:"description" binding:"max=5000"`
	ProjectName    string     `json:"project_name" binding:"required,min=1,max=200"`
	Assignee       string     `json:"assignee" binding:"max=100"`
	Priority       string     `json:"priority" binding:"required,oneof=low medium high urgent"`
	DueDate        *time.Time `json:"due_date"`
	EstimatedHours float64    `json:"estimated_hours" binding:"gte=0"`
}

// UpdateTaskRequest contains fields for updating a task
type UpdateTaskRequest struct {
	Title          *string    `json:"title" binding:"omitempty,min=1,max=200"`
	Description    *string    `json:"description" binding:"omitempty,max=5000"`
	Priority       *string    `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Assignee       *string    `json:"assignee" binding:"omitempty,max=100"`
	DueDate        *time.Time `json:"due_date"`
	EstimatedHours *float64   `json:"estimated_hours" binding:"omitempty,gte=0"`
}

// CancelTaskRequest carries the reason for cancelling a task
type CancelTaskRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// LogHoursRequest records worked hours on a task
type LogHoursRequest struct {
	Hours float64 `json:"hours" binding:"required,gt=0"`
}

// TaskResponse is the full task representation
type TaskResponse struct {
	ID             uuid.UUID  `json:"id"`
	TenantID       uuid.UUID  `json:"tenant_id"`
	Code           string     `json:"code"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	ProjectName    string     `json:"project_name"`
	Assignee       string     `json:"assignee,omitempty"`
	Priority       string     `json:"priority"`
	Status         string     `json:"status"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	Overdue        bool       `json:"overdue"`
	EstimatedHours float64    `json:"estimated_hours"`
	SpentHours     float64    `json:"spent_hours"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
	CancelReason   string     `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TaskListFilter contains list filtering options for tasks
type TaskListFilter struct {
	Page        int
	PageSize    int
	OrderBy     string
	OrderDir    string
	Search      string
	Status      string
	Priority    string
	ProjectName string
	Assignee    string
}

// ProjectProgressResponse is the per-status task breakdown for a project
type ProjectProgressResponse struct {
	ProjectName     string  `json:"project_name"`
	Total           int64   `json:"total"`
	Todo            int64   `json:"todo"`
	InProgress      int64   `json:"in_progress"`
	Review          int64   `json:"review"`
	Done            int64   `json:"done"`
	Cancelled       int64   `json:"cancelled"`
	PercentComplete float64 `json:"percent_complete"`
}

// ToTaskResponse converts a domain task to a response DTO
func ToTaskResponse(t *project.Task) TaskResponse {
	return TaskResponse{
		ID:             t.ID,
		TenantID:       t.TenantID,
		Code:           t.Code,
		Title:          t.Title,
		Description:    t.Description,
		ProjectName:    t.ProjectName,
		Assignee:       t.Assignee,
		Priority:       string(t.Priority),
		Status:         string(t.Status),
		DueDate:        t.DueDate,
		Overdue:        t.IsOverdue(time.Now()),
		EstimatedHours: t.EstimatedHours,
		SpentHours:     t.SpentHours,
		StartedAt:      t.StartedAt,
		CompletedAt:    t.CompletedAt,
		CancelledAt:    t.CancelledAt,
		CancelReason:   t.CancelReason,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

// ToTaskResponses converts a slice of domain tasks
func ToTaskResponses(tasks []project.Task) []TaskResponse {
	responses := make([]TaskResponse, len(tasks))
	for i := range tasks {
		responses[i] = ToTaskResponse(&tasks[i])
	}
	return responses
}
