package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/bizsuite/backend/internal/domain/project"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTaskRepository implements TaskRepository using GORM
type GormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GormTaskRepository
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// FindByID finds a task by ID within a tenant
func (r *GormTaskRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*project.Task, error) {
	var model models.TaskModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a task by code within a tenant
func (r *GormTaskRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*project.Task, error) {
	var model models.TaskModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND LOWER(code) = ?", tenantID, strings.ToLower(code)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all tasks for a tenant
func (r *GormTaskRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]project.Task, error) {
	var taskModels []models.TaskModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.TaskModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&taskModels).Error; err != nil {
		return nil, err
	}
	return toDomainTasks(taskModels), nil
}

// FindByStatus finds tasks by status
func (r *GormTaskRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status project.TaskStatus, filter shared.Filter) ([]project.Task, error) {
	var taskModels []models.TaskModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.TaskModel{}).
			Where("tenant_id = ? AND status = ?", tenantID, status),
		filter,
	)

	if err := query.Find(&taskModels).Error; err != nil {
		return nil, err
	}
	return toDomainTasks(taskModels), nil
}

// FindByProject finds tasks belonging to a project
func (r *GormTaskRepository) FindByProject(ctx context.Context, tenantID uuid.UUID, projectName string, filter shared.Filter) ([]project.Task, error) {
	var taskModels []models.TaskModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.TaskModel{}).
			Where("tenant_id = ? AND project_name = ?", tenantID, projectName),
		filter,
	)

	if err := query.Find(&taskModels).Error; err != nil {
		return nil, err
	}
	return toDomainTasks(taskModels), nil
}

// FindByAssignee finds tasks assigned to someone
func (r *GormTaskRepository) FindByAssignee(ctx context.Context, tenantID uuid.UUID, assignee string, filter shared.Filter) ([]project.Task, error) {
	var taskModels []models.TaskModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.TaskModel{}).
			Where("tenant_id = ? AND assignee = ?", tenantID, assignee),
		filter,
	)

	if err := query.Find(&taskModels).Error; err != nil {
		return nil, err
	}
	return toDomainTasks(taskModels), nil
}

// Save creates or updates a task
func (r *GormTaskRepository) Save(ctx context.Context, task *project.Task) error {
	model := models.TaskModelFromDomain(task)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a task within a tenant
func (r *GormTaskRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.TaskModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts tasks for a tenant
func (r *GormTaskRepository) Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.TaskModel{}).Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		keyword := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR code ILIKE ?", keyword, keyword)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "project_name":
			query = query.Where("project_name = ?", value)
		case "assignee":
			query = query.Where("assignee = ?", value)
		}
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// statusCountRow is the scan target for the per-status aggregation
type statusCountRow struct {
	Status string
	Count  int64
}

// SummarizeProject returns per-status task counts for a project
func (r *GormTaskRepository) SummarizeProject(ctx context.Context, tenantID uuid.UUID, projectName string) (*project.ProjectProgress, error) {
	var rows []statusCountRow
	if err := r.db.WithContext(ctx).Model(&models.TaskModel{}).
		Select("status, COUNT(*) as count").
		Where("tenant_id = ? AND project_name = ?", tenantID, projectName).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	progress := &project.ProjectProgress{ProjectName: projectName}
	for _, row := range rows {
		progress.Total += row.Count
		switch project.TaskStatus(row.Status) {
		case project.TaskStatusTodo:
			progress.Todo = row.Count
		case project.TaskStatusInProgress:
			progress.InProgress = row.Count
		case project.TaskStatusReview:
			progress.Review = row.Count
		case project.TaskStatusDone:
			progress.Done = row.Count
		case project.TaskStatusCancelled:
			progress.Cancelled = row.Count
		}
	}
	return progress, nil
}

// ExistsByCode checks if a task with the given code exists in the tenant
func (r *GormTaskRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.TaskModel{}).
		Where("tenant_id = ? AND LOWER(code) = ?", tenantID, strings.ToLower(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies keyword search, whitelisted sorting, and pagination
func (r *GormTaskRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		keyword := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR code ILIKE ? OR description ILIKE ?", keyword, keyword, keyword)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "priority":
			query = query.Where("priority = ?", value)
		case "project_name":
			query = query.Where("project_name = ?", value)
		case "assignee":
			query = query.Where("assignee = ?", value)
		case "due_before":
			query = query.Where("due_date IS NOT NULL AND due_date < ?", value)
		}
	}

	sortField := ValidateSortField(filter.OrderBy, TaskSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	return applyPagination(query, filter)
}

func toDomainTasks(taskModels []models.TaskModel) []project.Task {
	tasks := make([]project.Task, len(taskModels))
	for i, model := range taskModels {
		tasks[i] = *model.ToDomain()
	}
	return tasks
}
