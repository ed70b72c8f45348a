package project

import (
	"context"

	"github.com/bizsuite/backend/internal/domain/project"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaskService handles project task operations
type TaskService struct {
	taskRepo       project.TaskRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo project.TaskRepository, logger *zap.Logger) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		logger:   logger,
	}
}

// SetEventPublisher sets the event publisher for audit and integration events
func (s *TaskService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new task in the todo status
func (s *TaskService) Create(ctx context.Context, tenantID uuid.UUID, req CreateTaskRequest) (*TaskResponse, error) {
	exists, err := s.taskRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Task with this code already exists")
	}

	task, err := project.NewTask(tenantID, req.Code, req.Title, req.ProjectName, project.TaskPriority(req.Priority))
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		if err := task.Update(req.Title, req.Description, task.Priority); err != nil {
			return nil, err
		}
	}
	if req.Assignee != "" {
		if err := task.Assign(req.Assignee); err != nil {
			return nil, err
		}
	}
	if req.DueDate != nil {
		if err := task.SetDueDate(*req.DueDate); err != nil {
			return nil, err
		}
	}
	if req.EstimatedHours > 0 {
		if err := task.SetEstimate(req.EstimatedHours); err != nil {
			return nil, err
		}
	}

	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, task)

	s.logger.Info("Task created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("task_id", task.ID.String()),
		zap.String("code", task.Code))

	response := ToTaskResponse(task)
	return &response, nil
}

// GetByID retrieves a task by ID
func (s *TaskService) GetByID(ctx context.Context, tenantID, taskID uuid.UUID) (*TaskResponse, error) {
	task, err := s.taskRepo.FindByID(ctx, tenantID, taskID)
	if err != nil {
		return nil, err
	}

	response := ToTaskResponse(task)
	return &response, nil
}

// GetByCode retrieves a task by its code
func (s *TaskService) GetByCode(ctx context.Context, tenantID uuid.UUID, code string) (*TaskResponse, error) {
	task, err := s.taskRepo.FindByCode(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}

	response := ToTaskResponse(task)
	return &response, nil
}

// List retrieves tasks with filtering and pagination
func (s *TaskService) List(ctx context.Context, tenantID uuid.UUID, filter TaskListFilter) ([]TaskResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Priority != "" {
		domainFilter.Filters["priority"] = filter.Priority
	}
	if filter.ProjectName != "" {
		domainFilter.Filters["project_name"] = filter.ProjectName
	}

	var (
		tasks []project.Task
		err   error
	)
	if filter.Assignee != "" {
		tasks, err = s.taskRepo.FindByAssignee(ctx, tenantID, filter.Assignee, domainFilter)
	} else {
		tasks, err = s.taskRepo.FindAll(ctx, tenantID, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.taskRepo.Count(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToTaskResponses(tasks), total, nil
}

// Update updates a task's editable fields
func (s *TaskService) Update(ctx context.Context, tenantID, taskID uuid.UUID, req UpdateTaskRequest) (*TaskResponse, error) {
	task, err := s.taskRepo.FindByID(ctx, tenantID, taskID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil || req.Description != nil || req.Priority != nil {
		title := task.Title
		description := task.Description
		priority := task.Priority

		if req.Title != nil {
			title = *req.Title
		}
		if req.Description != nil {
			description = *req.Description
		}
		if req.Priority != nil {
			priority = project.TaskPriority(*req.Priority)
		}

		if err := task.Update(title, description, priority); err != nil {
			return nil, err
		}
	}

	if req.Assignee != nil {
		if err := task.Assign(*req.Assignee); err != nil {
			return nil, err
		}
	}
	if req.DueDate != nil {
		if err := task.SetDueDate(*req.DueDate); err != nil {
			return nil, err
		}
	}
	if req.EstimatedHours != nil {
		if err := task.SetEstimate(*req.EstimatedHours); err != nil {
			return nil, err
		}
	}

	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}

	response := ToTaskResponse(task)
	return &response, nil
}

// Start moves a todo task to in_progress
func (s *TaskService) Start(ctx context.Context, tenantID, taskID uuid.UUID) (*TaskResponse, error) {
	return s.transition(ctx, tenantID, taskID, func(t *project.Task) error { return t.Start() })
}

// SubmitForReview moves an in_progress task to review
func (s *TaskService) SubmitForReview(ctx context.Context, tenantID, taskID uuid.UUID) (*TaskResponse, error) {
	return s.transition(ctx, tenantID, taskID, func(t *project.Task) error { return t.SubmitForReview() })
}

// RequestChanges bounces a task in review back to in_progress
func (s *TaskService) RequestChanges(ctx context.Context, tenantID, taskID uuid.UUID) (*TaskResponse, error) {
	return s.transition(ctx, tenantID, taskID, func(t *project.Task) error { return t.RequestChanges() })
}

// Complete moves a task in review to done
func (s *TaskService) Complete(ctx context.Context, tenantID, taskID uuid.UUID) (*TaskResponse, error) {
	response, err := s.transition(ctx, tenantID, taskID, func(t *project.Task) error { return t.Complete() })
	if err != nil {
		return nil, err
	}

	s.logger.Info("Task completed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("task_id", taskID.String()))

	return response, nil
}

// Reopen moves a done task back to in_progress
func (s *TaskService) Reopen(ctx context.Context, tenantID, taskID uuid.UUID) (*TaskResponse, error) {
	return s.transition(ctx, tenantID, taskID, func(t *project.Task) error { return t.Reopen() })
}

// Cancel cancels an open task with a reason
func (s *TaskService) Cancel(ctx context.Context, tenantID, taskID uuid.UUID, req CancelTaskRequest) (*TaskResponse, error) {
	return s.transition(ctx, tenantID, taskID, func(t *project.Task) error { return t.Cancel(req.Reason) })
}

// LogHours records worked hours on a task
func (s *TaskService) LogHours(ctx context.Context, tenantID, taskID uuid.UUID, req LogHoursRequest) (*TaskResponse, error) {
	return s.transition(ctx, tenantID, taskID, func(t *project.Task) error { return t.LogHours(req.Hours) })
}

// Delete removes a task. Open tasks must be cancelled first.
func (s *TaskService) Delete(ctx context.Context, tenantID, taskID uuid.UUID) error {
	task, err := s.taskRepo.FindByID(ctx, tenantID, taskID)
	if err != nil {
		return err
	}

	if task.IsOpen() {
		return shared.NewDomainError("CANNOT_DELETE", "Cancel or complete the task before deleting it")
	}

	return s.taskRepo.Delete(ctx, tenantID, taskID)
}

// Progress returns the per-status task breakdown for a project.
// Percent complete counts done tasks against non-cancelled ones.
func (s *TaskService) Progress(ctx context.Context, tenantID uuid.UUID, projectName string) (*ProjectProgressResponse, error) {
	if projectName == "" {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project name cannot be empty")
	}

	progress, err := s.taskRepo.SummarizeProject(ctx, tenantID, projectName)
	if err != nil {
		return nil, err
	}

	response := &ProjectProgressResponse{
		ProjectName: progress.ProjectName,
		Total:       progress.Total,
		Todo:        progress.Todo,
		InProgress:  progress.InProgress,
		Review:      progress.Review,
		Done:        progress.Done,
		Cancelled:   progress.Cancelled,
	}

	active := progress.Total - progress.Cancelled
	if active > 0 {
		response.PercentComplete = float64(progress.Done) / float64(active) * 100
	}

	return response, nil
}

func (s *TaskService) transition(ctx context.Context, tenantID, taskID uuid.UUID, change func(*project.Task) error) (*TaskResponse, error) {
	task, err := s.taskRepo.FindByID(ctx, tenantID, taskID)
	if err != nil {
		return nil, err
	}

	if err := change(task); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, task)

	response := ToTaskResponse(task)
	return &response, nil
}

func (s *TaskService) publishEvents(ctx context.Context, task *project.Task) {
	if s.eventPublisher == nil {
		return
	}

	events := task.GetDomainEvents()
	if len(events) == 0 {
		return
	}

	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish task events",
			zap.String("task_id", task.ID.String()),
			zap.Error(err))
	}
	task.ClearDomainEvents()
}
