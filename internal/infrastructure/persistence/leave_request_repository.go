package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/bizsuite/backend/internal/domain/hr"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLeaveRequestRepository implements LeaveRequestRepository using GORM
type GormLeaveRequestRepository struct {
	db *gorm.DB
}

// NewGormLeaveRequestRepository creates a new GormLeaveRequestRepository
func NewGormLeaveRequestRepository(db *gorm.DB) *GormLeaveRequestRepository {
	return &GormLeaveRequestRepository{db: db}
}

// FindByID finds a leave request by ID within a tenant
func (r *GormLeaveRequestRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*hr.LeaveRequest, error) {
	var model models.LeaveRequestModel
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

// FindAll finds all leave requests for a tenant
func (r *GormLeaveRequestRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]hr.LeaveRequest, error) {
	var requestModels []models.LeaveRequestModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.LeaveRequestModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&requestModels).Error; err != nil {
		return nil, err
	}
	return toDomainLeaveRequests(requestModels), nil
}

// FindByEmployee finds leave requests for an employee
func (r *GormLeaveRequestRepository) FindByEmployee(ctx context.Context, tenantID, employeeID uuid.UUID, filter shared.Filter) ([]hr.LeaveRequest, error) {
	var requestModels []models.LeaveRequestModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.LeaveRequestModel{}).
			Where("tenant_id = ? AND employee_id = ?", tenantID, employeeID),
		filter,
	)

	if err := query.Find(&requestModels).Error; err != nil {
		return nil, err
	}
	return toDomainLeaveRequests(requestModels), nil
}

// FindByStatus finds leave requests by status
func (r *GormLeaveRequestRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status hr.LeaveStatus, filter shared.Filter) ([]hr.LeaveRequest, error) {
	var requestModels []models.LeaveRequestModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.LeaveRequestModel{}).
			Where("tenant_id = ? AND status = ?", tenantID, status),
		filter,
	)

	if err := query.Find(&requestModels).Error; err != nil {
		return nil, err
	}
	return toDomainLeaveRequests(requestModels), nil
}

// FindApprovedOverlapping finds approved requests for the employee that
// overlap the given date range
func (r *GormLeaveRequestRepository) FindApprovedOverlapping(ctx context.Context, tenantID, employeeID uuid.UUID, start, end time.Time) ([]hr.LeaveRequest, error) {
	var requestModels []models.LeaveRequestModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND employee_id = ? AND status = ?", tenantID, employeeID, hr.LeaveStatusApproved).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Order("start_date ASC").
		Find(&requestModels).Error; err != nil {
		return nil, err
	}
	return toDomainLeaveRequests(requestModels), nil
}

// leaveBalanceRow is the scan target for the per-type aggregation
type leaveBalanceRow struct {
	LeaveType string
	Days      float64
}

// SummarizeByType sums approved leave days per type for an employee
func (r *GormLeaveRequestRepository) SummarizeByType(ctx context.Context, tenantID, employeeID uuid.UUID) ([]hr.LeaveBalance, error) {
	var rows []leaveBalanceRow
	if err := r.db.WithContext(ctx).Model(&models.LeaveRequestModel{}).
		Select("leave_type, COALESCE(SUM(days), 0) as days").
		Where("tenant_id = ? AND employee_id = ? AND status = ?", tenantID, employeeID, hr.LeaveStatusApproved).
		Group("leave_type").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	balances := make([]hr.LeaveBalance, len(rows))
	for i, row := range rows {
		balances[i] = hr.LeaveBalance{
			Type: hr.LeaveType(row.LeaveType),
			Days: row.Days,
		}
	}
	return balances, nil
}

// SumDaysByStatus sums requested days across all requests in a status
func (r *GormLeaveRequestRepository) SumDaysByStatus(ctx context.Context, tenantID uuid.UUID, status hr.LeaveStatus) (float64, error) {
	var total float64
	if err := r.db.WithContext(ctx).Model(&models.LeaveRequestModel{}).
		Select("COALESCE(SUM(days), 0)").
		Where("tenant_id = ? AND status = ?", tenantID, status).
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// Save creates or updates a leave request
func (r *GormLeaveRequestRepository) Save(ctx context.Context, request *hr.LeaveRequest) error {
	model := models.LeaveRequestModelFromDomain(request)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a leave request within a tenant
func (r *GormLeaveRequestRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.LeaveRequestModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts leave requests for a tenant
func (r *GormLeaveRequestRepository) Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.LeaveRequestModel{}).Where("tenant_id = ?", tenantID)

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "employee_id":
			query = query.Where("employee_id = ?", value)
		}
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filtering, whitelisted sorting, and pagination
func (r *GormLeaveRequestRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "leave_type":
			query = query.Where("leave_type = ?", value)
		case "from":
			query = query.Where("start_date >= ?", value)
		case "to":
			query = query.Where("end_date <= ?", value)
		}
	}

	sortField := ValidateSortField(filter.OrderBy, LeaveRequestSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	return applyPagination(query, filter)
}

func toDomainLeaveRequests(requestModels []models.LeaveRequestModel) []hr.LeaveRequest {
	requests := make([]hr.LeaveRequest, len(requestModels))
	for i, model := range requestModels {
		requests[i] = *model.ToDomain()
	}
	return requests
}
