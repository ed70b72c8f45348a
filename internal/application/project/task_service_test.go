package project

import (
	"context"
	"testing"

	"github.com/bizsuite/backend/internal/domain/project"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*project.Task, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Task), args.Error(1)
}

func (m *MockTaskRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*project.Task, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Task), args.Error(1)
}

func (m *MockTaskRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]project.Task, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]project.Task), args.Error(1)
}

func (m *MockTaskRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status project.TaskStatus, filter shared.Filter) ([]project.Task, error) {
	args := m.Called(ctx, tenantID, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]project.Task), args.Error(1)
}

func (m *MockTaskRepository) FindByProject(ctx context.Context, tenantID uuid.UUID, projectName string, filter shared.Filter) ([]project.Task, error) {
	args := m.Called(ctx, tenantID, projectName, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]project.Task), args.Error(1)
}

func (m *MockTaskRepository) FindByAssignee(ctx context.Context, tenantID uuid.UUID, assignee string, filter shared.Filter) ([]project.Task, error) {
	args := m.Called(ctx, tenantID, assignee, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]project.Task), args.Error(1)
}

func (m *MockTaskRepository) Save(ctx context.Context, task *project.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockTaskRepository) Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) SummarizeProject(ctx context.Context, tenantID uuid.UUID, projectName string) (*project.ProjectProgress, error) {
	args := m.Called(ctx, tenantID, projectName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.ProjectProgress), args.Error(1)
}

func (m *MockTaskRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

var _ project.TaskRepository = (*MockTaskRepository)(nil)

// ============================================================================
// Test Helper Functions
// ============================================================================

func newTaskTestTenantID() uuid.UUID {
	return uuid.MustParse("44444444-4444-4444-4444-444444444444")
}

func createTestTask(t *testing.T, tenantID uuid.UUID) *project.Task {
	t.Helper()

	task, err := project.NewTask(tenantID, "TASK-001", "Implement checkout flow", "Webshop", project.TaskPriorityHigh)
	require.NoError(t, err)

	task.ClearDomainEvents()
	return task
}

func createReviewTask(t *testing.T, tenantID uuid.UUID) *project.Task {
	t.Helper()

	task := createTestTask(t, tenantID)
	require.NoError(t, task.Start())
	require.NoError(t, task.SubmitForReview())
	task.ClearDomainEvents()
	return task
}

// ============================================================================
// Tests
// ============================================================================

func TestTaskService_Create_Success(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	service := NewTaskService(mockRepo, zap.NewNop())

	ctx := context.Background()
	tenantID := newTaskTestTenantID()

	mockRepo.On("ExistsByCode", ctx, tenantID, "TASK-001").Return(false, nil)
	mockRepo.On("Save", ctx, mock.AnythingOfType("*project.Task")).Return(nil)

	result, err := service.Create(ctx, tenantID, CreateTaskRequest{
		Code:           "TASK-001",
		Title:          "Implement checkout flow",
		Description:    "Cart to payment confirmation",
		ProjectName:    "Webshop",
		Assignee:       "jdoe",
		Priority:       "high",
		EstimatedHours: 16,
	})

	require.NoError(t, err)
	assert.Equal(t, "todo", result.Status)
	assert.Equal(t, "high", result.Priority)
	assert.Equal(t, "jdoe", result.Assignee)
	assert.Equal(t, float64(16), result.EstimatedHours)
	mockRepo.AssertExpectations(t)
}

func TestTaskService_Create_DuplicateCode(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	service := NewTaskService(mockRepo, zap.NewNop())

	ctx := context.Background()
	tenantID := newTaskTestTenantID()

	mockRepo.On("ExistsByCode", ctx, tenantID, "TASK-001").Return(true, nil)

	_, err := service.Create(ctx, tenantID, CreateTaskRequest{
		Code:        "TASK-001",
		Title:       "Implement checkout flow",
		ProjectName: "Webshop",
		Priority:    "high",
	})

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestTaskService_Start(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	service := NewTaskService(mockRepo, zap.NewNop())

	ctx := context.Background()
	tenantID := newTaskTestTenantID()
	task := createTestTask(t, tenantID)

	mockRepo.On("FindByID", ctx, tenantID, task.ID).Return(task, nil)
	mockRepo.On("Save", ctx, task).Return(nil)

	result, err := service.Start(ctx, tenantID, task.ID)

	require.NoError(t, err)
	assert.Equal(t, "in_progress", result.Status)
	assert.NotNil(t, result.StartedAt)
	mockRepo.AssertExpectations(t)
}

func TestTaskService_Complete_FromTodoRejected(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	service := NewTaskService(mockRepo, zap.NewNop())

	ctx := context.Background()
	tenantID := newTaskTestTenantID()
	task := createTestTask(t, tenantID)

	mockRepo.On("FindByID", ctx, tenantID, task.ID).Return(task, nil)

	_, err := service.Complete(ctx, tenantID, task.ID)

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestTaskService_ReviewRoundTrip(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	service := NewTaskService(mockRepo, zap.NewNop())

	ctx := context.Background()
	tenantID := newTaskTestTenantID()
	task := createReviewTask(t, tenantID)

	mockRepo.On("FindByID", ctx, tenantID, task.ID).Return(task, nil)
	mockRepo.On("Save", ctx, task).Return(nil)

	bounced, err := service.RequestChanges(ctx, tenantID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "in_progress", bounced.Status)

	reviewed, err := service.SubmitForReview(ctx, tenantID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "review", reviewed.Status)

	completed, err := service.Complete(ctx, tenantID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "done", completed.Status)
	assert.NotNil(t, completed.CompletedAt)
	mockRepo.AssertExpectations(t)
}

func TestTaskService_Reopen_DoneTask(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	service := NewTaskService(mockRepo, zap.NewNop())

	ctx := context.Background()
	tenantID := newTaskTestTenantID()
	task := createReviewTask(t, tenantID)
	require.NoError(t, task.Complete())
	task.ClearDomainEvents()

	mockRepo.On("FindByID", ctx, tenantID, task.ID).Return(task, nil)
	mockRepo.On("Save", ctx, task).Return(nil)

	result, err := service.Reopen(ctx, tenantID, task.ID)

	require.NoError(t, err)
	assert.Equal(t, "in_progress", result.Status)
	assert.Nil(t, result.CompletedAt)
	mockRepo.AssertExpectations(t)
}

func TestTaskService_Cancel_RequiresReason(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	service := NewTaskService(mockRepo, zap.NewNop())

	ctx := context.Background()
	tenantID := newTaskTestTenantID()
	task := createTestTask(t, tenantID)

	mockRepo.On("FindByID", ctx, tenantID, task.ID).Return(task, nil)

	_, err := service.Cancel(ctx, tenantID, task.ID, CancelTaskRequest{})

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_REASON", domainErr.Code)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestTaskService_Cancel_DoneTaskRejected(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	service := NewTaskService(mockRepo, zap.NewNop())

	ctx := context.Background()
	tenantID := newTaskTestTenantID()
	task := createReviewTask(t, tenantID)
	require.NoError(t, task.Complete())
	task.ClearDomainEvents()

	mockRepo.On("FindByID", ctx, tenantID, task.ID).Return(task, nil)

	_, err := service.Cancel(ctx, tenantID, task.ID, CancelTaskRequest{Reason: "scope change"})

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestTaskService_LogHours_Accumulates(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	service := NewTaskService(mockRepo, zap.NewNop())

	ctx := context.Background()
	tenantID := newTaskTestTenantID()
	task := createTestTask(t, tenantID)

	mockRepo.On("FindByID", ctx, tenantID, task.ID).Return(task, nil)
	mockRepo.On("Save", ctx, task).Return(nil)

	_, err := service.LogHours(ctx, tenantID, task.ID, LogHoursRequest{Hours: 3})
	require.NoError(t, err)

	result, err := service.LogHours(ctx, tenantID, task.ID, LogHoursRequest{Hours: 2.5})
	require.NoError(t, err)
	assert.Equal(t, 5.5, result.SpentHours)
	mockRepo.AssertExpectations(t)
}

func TestTaskService_Delete_OpenTaskRejected(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	service := NewTaskService(mockRepo, zap.NewNop())

	ctx := context.Background()
	tenantID := newTaskTestTenantID()
	task := createTestTask(t, tenantID)

	mockRepo.On("FindByID", ctx, tenantID, task.ID).Return(task, nil)

	err := service.Delete(ctx, tenantID, task.ID)

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CANNOT_DELETE", domainErr.Code)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskService_List_AssigneeFilter(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	service := NewTaskService(mockRepo, zap.NewNop())

	ctx := context.Background()
	tenantID := newTaskTestTenantID()
	task := createTestTask(t, tenantID)

	expectedFilter := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == 20 && f.OrderBy == "created_at" && f.OrderDir == "desc"
	})
	mockRepo.On("FindByAssignee", ctx, tenantID, "jdoe", expectedFilter).Return([]project.Task{*task}, nil)
	mockRepo.On("Count", ctx, tenantID, expectedFilter).Return(int64(1), nil)

	results, total, err := service.List(ctx, tenantID, TaskListFilter{Assignee: "jdoe"})

	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, int64(1), total)
	mockRepo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskService_Progress(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	service := NewTaskService(mockRepo, zap.NewNop())

	ctx := context.Background()
	tenantID := newTaskTestTenantID()

	mockRepo.On("SummarizeProject", ctx, tenantID, "Webshop").Return(&project.ProjectProgress{
		ProjectName: "Webshop",
		Total:       10,
		Todo:        2,
		InProgress:  3,
		Review:      1,
		Done:        2,
		Cancelled:   2,
	}, nil)

	result, err := service.Progress(ctx, tenantID, "Webshop")

	require.NoError(t, err)
	assert.Equal(t, int64(10), result.Total)
	assert.InDelta(t, 25.0, result.PercentComplete, 0.001)
	mockRepo.AssertExpectations(t)
}

func TestTaskService_Progress_EmptyProjectName(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	service := NewTaskService(mockRepo, zap.NewNop())

	_, err := service.Progress(context.Background(), newTaskTestTenantID(), "")

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_PROJECT", domainErr.Code)
	mockRepo.AssertNotCalled(t, "SummarizeProject", mock.Anything, mock.Anything, mock.Anything)
}
