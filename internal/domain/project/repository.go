package project

import (
	"context"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProjectProgress aggregates task counts per status for a project
type ProjectProgress struct {
	ProjectName string
	Total       int64
	Todo        int64
	InProgress  int64
	Review      int64
	Done        int64
	Cancelled   int64
}

// TaskRepository defines the interface for task persistence
type TaskRepository interface {
	// FindByID finds a task by ID within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Task, error)

	// FindByCode finds a task by code within a tenant
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Task, error)

	// FindAll finds all tasks for a tenant
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Task, error)

	// FindByStatus finds tasks by status
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status TaskStatus, filter shared.Filter) ([]Task, error)

	// FindByProject finds tasks belonging to a project
	FindByProject(ctx context.Context, tenantID uuid.UUID, projectName string, filter shared.Filter) ([]Task, error)

	// FindByAssignee finds tasks assigned to someone
	FindByAssignee(ctx context.Context, tenantID uuid.UUID, assignee string, filter shared.Filter) ([]Task, error)

	// Save creates or updates a task
	Save(ctx context.Context, task *Task) error

	// Delete deletes a task within a tenant
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// Count counts tasks for a tenant
	Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// SummarizeProject returns per-status task counts for a project
	SummarizeProject(ctx context.Context, tenantID uuid.UUID, projectName string) (*ProjectProgress, error)

	// ExistsByCode checks if a task with the given code exists in the tenant
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
}
