package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/bizsuite/backend/internal/domain/hr"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormEmployeeRepository implements EmployeeRepository using GORM
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewGormEmployeeRepository creates a new GormEmployeeRepository
func NewGormEmployeeRepository(db *gorm.DB) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// FindByID finds an employee by ID within a tenant
func (r *GormEmployeeRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*hr.Employee, error) {
	var model models.EmployeeModel
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

// FindByNumber finds an employee by employee number within a tenant
func (r *GormEmployeeRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*hr.Employee, error) {
	var model models.EmployeeModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND LOWER(number) = ?", tenantID, strings.ToLower(number)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all employees for a tenant
func (r *GormEmployeeRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]hr.Employee, error) {
	var employeeModels []models.EmployeeModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.EmployeeModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&employeeModels).Error; err != nil {
		return nil, err
	}
	return toDomainEmployees(employeeModels), nil
}

// FindByStatus finds employees by status
func (r *GormEmployeeRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status hr.EmployeeStatus, filter shared.Filter) ([]hr.Employee, error) {
	var employeeModels []models.EmployeeModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.EmployeeModel{}).
			Where("tenant_id = ? AND status = ?", tenantID, status),
		filter,
	)

	if err := query.Find(&employeeModels).Error; err != nil {
		return nil, err
	}
	return toDomainEmployees(employeeModels), nil
}

// FindByDepartment finds employees in a department
func (r *GormEmployeeRepository) FindByDepartment(ctx context.Context, tenantID uuid.UUID, department string, filter shared.Filter) ([]hr.Employee, error) {
	var employeeModels []models.EmployeeModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.EmployeeModel{}).
			Where("tenant_id = ? AND department = ?", tenantID, department),
		filter,
	)

	if err := query.Find(&employeeModels).Error; err != nil {
		return nil, err
	}
	return toDomainEmployees(employeeModels), nil
}

// Save creates or updates an employee
func (r *GormEmployeeRepository) Save(ctx context.Context, employee *hr.Employee) error {
	model := models.EmployeeModelFromDomain(employee)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes an employee within a tenant
func (r *GormEmployeeRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.EmployeeModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts employees for a tenant
func (r *GormEmployeeRepository) Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.EmployeeModel{}).Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		keyword := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR number ILIKE ? OR email ILIKE ?", keyword, keyword, keyword)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "department":
			query = query.Where("department = ?", value)
		}
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByNumber checks if an employee with the given number exists in the tenant
func (r *GormEmployeeRepository) ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.EmployeeModel{}).
		Where("tenant_id = ? AND LOWER(number) = ?", tenantID, strings.ToLower(number)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies keyword search, whitelisted sorting, and pagination
func (r *GormEmployeeRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		keyword := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR number ILIKE ? OR email ILIKE ?", keyword, keyword, keyword)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "department":
			query = query.Where("department = ?", value)
		case "position":
			query = query.Where("position = ?", value)
		}
	}

	sortField := ValidateSortField(filter.OrderBy, EmployeeSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	return applyPagination(query, filter)
}

func toDomainEmployees(employeeModels []models.EmployeeModel) []hr.Employee {
	employees := make([]hr.Employee, len(employeeModels))
	for i, model := range employeeModels {
		employees[i] = *model.ToDomain()
	}
	return employees
}
