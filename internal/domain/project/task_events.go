package project

import (
	"github.com/bizsuite/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeTask = "Task"

// Event type constants
const (
	EventTypeTaskCreated       = "TaskCreated"
	EventTypeTaskStatusChanged = "TaskStatusChanged"
	EventTypeTaskCompleted     = "TaskCompleted"
	EventTypeTaskDeleted       = "TaskDeleted"
)

// TaskCreatedEvent is published when a new task is created
type TaskCreatedEvent struct {
	shared.BaseDomainEvent
	Code        string       `json:"code"`
	Title       string       `json:"title"`
	ProjectName string       `json:"project_name"`
	Priority    TaskPriority `json:"priority"`
}

// NewTaskCreatedEvent creates a new TaskCreatedEvent
func NewTaskCreatedEvent(task *Task) *TaskCreatedEvent {
	return &TaskCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskCreated, AggregateTypeTask, task.ID, task.TenantID),
		Code:            task.Code,
		Title:           task.Title,
		ProjectName:     task.ProjectName,
		Priority:        task.Priority,
	}
}

// TaskStatusChangedEvent is published when a task's status changes
type TaskStatusChangedEvent struct {
	shared.BaseDomainEvent
	Code      string     `json:"code"`
	OldStatus TaskStatus `json:"old_status"`
	NewStatus TaskStatus `json:"new_status"`
}

// NewTaskStatusChangedEvent creates a new TaskStatusChangedEvent
func NewTaskStatusChangedEvent(task *Task, oldStatus, newStatus TaskStatus) *TaskStatusChangedEvent {
	return &TaskStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskStatusChanged, AggregateTypeTask, task.ID, task.TenantID),
		Code:            task.Code,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// TaskCompletedEvent is published when a task is completed
type TaskCompletedEvent struct {
	shared.BaseDomainEvent
	Code        string  `json:"code"`
	ProjectName string  `json:"project_name"`
	SpentHours  float64 `json:"spent_hours"`
}

// NewTaskCompletedEvent creates a new TaskCompletedEvent
func NewTaskCompletedEvent(task *Task) *TaskCompletedEvent {
	return &TaskCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskCompleted, AggregateTypeTask, task.ID, task.TenantID),
		Code:            task.Code,
		ProjectName:     task.ProjectName,
		SpentHours:      task.SpentHours,
	}
}

// TaskDeletedEvent is published when a task is deleted
type TaskDeletedEvent struct {
	shared.BaseDomainEvent
	Code  string `json:"code"`
	Title string `json:"title"`
}

// NewTaskDeletedEvent creates a new TaskDeletedEvent
func NewTaskDeletedEvent(task *Task) *TaskDeletedEvent {
	return &TaskDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskDeleted, AggregateTypeTask, task.ID, task.TenantID),
		Code:            task.Code,
		Title:           task.Title,
	}
}
