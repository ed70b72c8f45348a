package project

import (
	"fmt"
	"time"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TaskPriority represents the priority of a task
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// IsValid checks if the priority is a valid TaskPriority
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

// String returns the string representation of TaskPriority
func (p TaskPriority) String() string {
	return string(p)
}

// TaskStatus represents the status of a task
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// IsValid checks if the status is a valid TaskStatus
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusReview, TaskStatusDone, TaskStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of TaskStatus
func (s TaskStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// Review can bounce back to in_progress, done can be reopened.
func (s TaskStatus) CanTransitionTo(target TaskStatus) bool {
	switch s {
	case TaskStatusTodo:
		return target == TaskStatusInProgress || target == TaskStatusCancelled
	case TaskStatusInProgress:
		return target == TaskStatusReview || target == TaskStatusCancelled
	case TaskStatusReview:
		return target == TaskStatusDone || target == TaskStatusInProgress || target == TaskStatusCancelled
	case TaskStatusDone:
		return target == TaskStatusInProgress // Reopen
	case TaskStatusCancelled:
		return false // Terminal
	}
	return false
}

// Task represents a project task aggregate root
type Task struct {
	shared.TenantAggregateRoot
	Code           string // Task code, unique per tenant
	Title          string
	Description    string
	ProjectName    string
	Assignee       string
	Priority       TaskPriority
	Status         TaskStatus
	DueDate        *time.Time
	EstimatedHours float64
	SpentHours     float64
	StartedAt      *time.Time
	CompletedAt    *time.Time
	CancelledAt    *time.Time
	CancelReason   string
}

// NewTask creates a new task in the todo status
func NewTask(tenantID uuid.UUID, code, title, projectName string, priority TaskPriority) (*Task, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Task code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Task code cannot exceed 50 characters")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Task title cannot be empty")
	}
	if len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Task title cannot exceed 200 characters")
	}
	if projectName == "" {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project name cannot be empty")
	}
	if !priority.IsValid() {
		return nil, shared.NewDomainError("INVALID_PRIORITY", "Unknown task priority")
	}

	task := &Task{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Title:               title,
		ProjectName:         projectName,
		Priority:            priority,
		Status:              TaskStatusTodo,
	}

	task.AddDomainEvent(NewTaskCreatedEvent(task))

	return task, nil
}

// Update updates the task's editable fields
func (t *Task) Update(title, description string, priority TaskPriority) error {
	if t.Status == TaskStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot update a cancelled task")
	}
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Task title cannot be empty")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Task title cannot exceed 200 characters")
	}
	if !priority.IsValid() {
		return shared.NewDomainError("INVALID_PRIORITY", "Unknown task priority")
	}

	t.Title = title
	t.Description = description
	t.Priority = priority
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// Assign sets the task assignee
func (t *Task) Assign(assignee string) error {
	if t.Status == TaskStatusCancelled || t.Status == TaskStatusDone {
		return shared.NewDomainError("INVALID_STATE", "Cannot reassign a closed task")
	}
	if len(assignee) > 100 {
		return shared.NewDomainError("INVALID_ASSIGNEE", "Assignee cannot exceed 100 characters")
	}

	t.Assignee = assignee
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// SetDueDate sets the task due date
func (t *Task) SetDueDate(dueDate time.Time) error {
	if t.Status == TaskStatusCancelled || t.Status == TaskStatusDone {
		return shared.NewDomainError("INVALID_STATE", "Cannot update a closed task")
	}

	t.DueDate = &dueDate
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// SetEstimate sets the estimated hours
func (t *Task) SetEstimate(hours float64) error {
	if hours < 0 {
		return shared.NewDomainError("INVALID_HOURS", "Estimated hours cannot be negative")
	}

	t.EstimatedHours = hours
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// LogHours adds worked hours to the task
func (t *Task) LogHours(hours float64) error {
	if t.Status == TaskStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot log hours on a cancelled task")
	}
	if hours <= 0 {
		return shared.NewDomainError("INVALID_HOURS", "Logged hours must be positive")
	}

	t.SpentHours += hours
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// Start moves the task from todo to in_progress
func (t *Task) Start() error {
	if !t.Status.CanTransitionTo(TaskStatusInProgress) || t.Status != TaskStatusTodo {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot start task in %s status", t.Status))
	}

	now := time.Now()
	t.Status = TaskStatusInProgress
	t.StartedAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTaskStatusChangedEvent(t, TaskStatusTodo, TaskStatusInProgress))

	return nil
}

// SubmitForReview moves the task from in_progress to review
func (t *Task) SubmitForReview() error {
	if t.Status != TaskStatusInProgress {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot submit task for review in %s status", t.Status))
	}

	t.Status = TaskStatusReview
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	t.AddDomainEvent(NewTaskStatusChangedEvent(t, TaskStatusInProgress, TaskStatusReview))

	return nil
}

// RequestChanges bounces the task from review back to in_progress
func (t *Task) RequestChanges() error {
	if t.Status != TaskStatusReview {
		return shared.NewDomainError("INVALID_STATE", "Task is not in review")
	}

	t.Status = TaskStatusInProgress
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	t.AddDomainEvent(NewTaskStatusChangedEvent(t, TaskStatusReview, TaskStatusInProgress))

	return nil
}

// Complete moves the task from review to done
func (t *Task) Complete() error {
	if !t.Status.CanTransitionTo(TaskStatusDone) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete task in %s status", t.Status))
	}

	now := time.Now()
	t.Status = TaskStatusDone
	t.CompletedAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTaskCompletedEvent(t))

	return nil
}

// Reopen moves a done task back to in_progress
func (t *Task) Reopen() error {
	if t.Status != TaskStatusDone {
		return shared.NewDomainError("INVALID_STATE", "Only done tasks can be reopened")
	}

	t.Status = TaskStatusInProgress
	t.CompletedAt = nil
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	t.AddDomainEvent(NewTaskStatusChangedEvent(t, TaskStatusDone, TaskStatusInProgress))

	return nil
}

// Cancel cancels the task. Not allowed once done.
func (t *Task) Cancel(reason string) error {
	if !t.Status.CanTransitionTo(TaskStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel task in %s status", t.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	oldStatus := t.Status
	now := time.Now()
	t.Status = TaskStatusCancelled
	t.CancelledAt = &now
	t.CancelReason = reason
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTaskStatusChangedEvent(t, oldStatus, TaskStatusCancelled))

	return nil
}

// IsOverdue returns true if the task is open and past its due date
func (t *Task) IsOverdue(now time.Time) bool {
	if t.Status == TaskStatusDone || t.Status == TaskStatusCancelled || t.DueDate == nil {
		return false
	}
	return now.After(*t.DueDate)
}

// IsOpen returns true if the task is neither done nor cancelled
func (t *Task) IsOpen() bool {
	return t.Status != TaskStatusDone && t.Status != TaskStatusCancelled
}

// IsDone returns true if the task is done
func (t *Task) IsDone() bool {
	return t.Status == TaskStatusDone
}
