package hr

import (
	"context"
	"testing"
	"time"

	"github.com/bizsuite/backend/internal/domain/hr"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEmployeeService_Create_Success(t *testing.T) {
	mockRepo := new(MockEmployeeRepository)
	service := NewEmployeeService(mockRepo, zap.NewNop())

	ctx := context.Background()
	tenantID := newLeaveTestTenantID()

	mockRepo.On("ExistsByNumber", ctx, tenantID, "EMP-001").Return(false, nil)
	mockRepo.On("Save", ctx, mock.AnythingOfType("*hr.Employee")).Return(nil)

	result, err := service.Create(ctx, tenantID, CreateEmployeeRequest{
		Number:     "EMP-001",
		Name:       "Sam Lee",
		Email:      "sam@acme.test",
		Department: "Engineering",
		Position:   "Developer",
		HireDate:   time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC),
		Salary:     decimal.NewFromInt(60000),
	})

	require.NoError(t, err)
	assert.Equal(t, "EMP-001", result.Number)
	assert.Equal(t, "sam@acme.test", result.Email)
	assert.Equal(t, "Engineering", result.Department)
	assert.Equal(t, "active", result.Status)
	mockRepo.AssertExpectations(t)
}

func TestEmployeeService_Create_DuplicateNumber(t *testing.T) {
	mockRepo := new(MockEmployeeRepository)
	service := NewEmployeeService(mockRepo, zap.NewNop())

	ctx := context.Background()
	tenantID := newLeaveTestTenantID()

	mockRepo.On("ExistsByNumber", ctx, tenantID, "EMP-001").Return(true, nil)

	_, err := service.Create(ctx, tenantID, CreateEmployeeRequest{
		Number:   "EMP-001",
		Name:     "Sam Lee",
		HireDate: time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC),
		Salary:   decimal.NewFromInt(60000),
	})

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestEmployeeService_Update_TerminatedRejected(t *testing.T) {
	mockRepo := new(MockEmployeeRepository)
	service := NewEmployeeService(mockRepo, zap.NewNop())

	ctx := context.Background()
	tenantID := newLeaveTestTenantID()
	employee := createTestEmployee(t, tenantID)
	require.NoError(t, employee.Terminate())

	mockRepo.On("FindByID", ctx, tenantID, employee.ID).Return(employee, nil)

	name := "New Name"
	_, err := service.Update(ctx, tenantID, employee.ID, UpdateEmployeeRequest{Name: &name})

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestEmployeeService_Update_Salary(t *testing.T) {
	mockRepo := new(MockEmployeeRepository)
	service := NewEmployeeService(mockRepo, zap.NewNop())

	ctx := context.Background()
	tenantID := newLeaveTestTenantID()
	employee := createTestEmployee(t, tenantID)

	mockRepo.On("FindByID", ctx, tenantID, employee.ID).Return(employee, nil)
	mockRepo.On("Save", ctx, employee).Return(nil)

	salary := decimal.NewFromInt(65000)
	result, err := service.Update(ctx, tenantID, employee.ID, UpdateEmployeeRequest{Salary: &salary})

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(65000).Equal(result.Salary))
	mockRepo.AssertExpectations(t)
}

func TestEmployeeService_Terminate(t *testing.T) {
	mockRepo := new(MockEmployeeRepository)
	service := NewEmployeeService(mockRepo, zap.NewNop())

	ctx := context.Background()
	tenantID := newLeaveTestTenantID()
	employee := createTestEmployee(t, tenantID)

	mockRepo.On("FindByID", ctx, tenantID, employee.ID).Return(employee, nil)
	mockRepo.On("Save", ctx, employee).Return(nil)

	result, err := service.Terminate(ctx, tenantID, employee.ID)

	require.NoError(t, err)
	assert.Equal(t, "terminated", result.Status)
	assert.NotNil(t, result.TerminatedAt)
	mockRepo.AssertExpectations(t)
}

func TestEmployeeService_Terminate_AlreadyTerminated(t *testing.T) {
	mockRepo := new(MockEmployeeRepository)
	service := NewEmployeeService(mockRepo, zap.NewNop())

	ctx := context.Background()
	tenantID := newLeaveTestTenantID()
	employee := createTestEmployee(t, tenantID)
	require.NoError(t, employee.Terminate())

	mockRepo.On("FindByID", ctx, tenantID, employee.ID).Return(employee, nil)

	_, err := service.Terminate(ctx, tenantID, employee.ID)

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_TERMINATED", domainErr.Code)
}

func TestEmployeeService_Delete_ActiveRejected(t *testing.T) {
	mockRepo := new(MockEmployeeRepository)
	service := NewEmployeeService(mockRepo, zap.NewNop())

	ctx := context.Background()
	tenantID := newLeaveTestTenantID()
	employee := createTestEmployee(t, tenantID)

	mockRepo.On("FindByID", ctx, tenantID, employee.ID).Return(employee, nil)

	err := service.Delete(ctx, tenantID, employee.ID)

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CANNOT_DELETE", domainErr.Code)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestEmployeeService_List_DepartmentFilter(t *testing.T) {
	mockRepo := new(MockEmployeeRepository)
	service := NewEmployeeService(mockRepo, zap.NewNop())

	ctx := context.Background()
	tenantID := newLeaveTestTenantID()
	employee := createTestEmployee(t, tenantID)

	expectedFilter := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == 20 && f.Filters["department"] == "Engineering"
	})
	mockRepo.On("FindAll", ctx, tenantID, expectedFilter).Return([]hr.Employee{*employee}, nil)
	mockRepo.On("Count", ctx, tenantID, expectedFilter).Return(int64(1), nil)

	results, total, err := service.List(ctx, tenantID, EmployeeListFilter{Department: "Engineering"})

	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, int64(1), total)
	mockRepo.AssertExpectations(t)
}
