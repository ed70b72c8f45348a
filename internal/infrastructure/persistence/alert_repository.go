package persistence

import (
	"context"
	"errors"

	"github.com/bizsuite/backend/internal/domain/insight"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAlertRepository implements AlertRepository using GORM
type GormAlertRepository struct {
	db *gorm.DB
}

// NewGormAlertRepository creates a new GormAlertRepository
func NewGormAlertRepository(db *gorm.DB) *GormAlertRepository {
	return &GormAlertRepository{db: db}
}

// FindByID finds an alert by ID within a tenant
func (r *GormAlertRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*insight.PerformanceAlert, error) {
	var model models.PerformanceAlertModel
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

// FindOpenByMetric finds the open alert for a metric, if any.
// Returns nil without error when no open alert exists.
func (r *GormAlertRepository) FindOpenByMetric(ctx context.Context, tenantID uuid.UUID, metricName string) (*insight.PerformanceAlert, error) {
	var model models.PerformanceAlertModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND metric_name = ? AND status = ?", tenantID, metricName, insight.AlertStatusOpen).
		Order("triggered_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all alerts for a tenant
func (r *GormAlertRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]insight.PerformanceAlert, error) {
	var alertModels []models.PerformanceAlertModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.PerformanceAlertModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&alertModels).Error; err != nil {
		return nil, err
	}
	return toDomainAlerts(alertModels), nil
}

// FindByStatus finds alerts by status
func (r *GormAlertRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status insight.AlertStatus, filter shared.Filter) ([]insight.PerformanceAlert, error) {
	var alertModels []models.PerformanceAlertModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.PerformanceAlertModel{}).
			Where("tenant_id = ? AND status = ?", tenantID, status),
		filter,
	)

	if err := query.Find(&alertModels).Error; err != nil {
		return nil, err
	}
	return toDomainAlerts(alertModels), nil
}

// Save creates or updates an alert
func (r *GormAlertRepository) Save(ctx context.Context, alert *insight.PerformanceAlert) error {
	model := models.PerformanceAlertModelFromDomain(alert)
	return r.db.WithContext(ctx).Save(model).Error
}

// Count counts alerts for a tenant
func (r *GormAlertRepository) Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.PerformanceAlertModel{}).Where("tenant_id = ?", tenantID)

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "severity":
			query = query.Where("severity = ?", value)
		case "metric_name":
			query = query.Where("metric_name = ?", value)
		}
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountOpen counts open alerts for a tenant
func (r *GormAlertRepository) CountOpen(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PerformanceAlertModel{}).
		Where("tenant_id = ? AND status = ?", tenantID, insight.AlertStatusOpen).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filtering, whitelisted sorting, and pagination
func (r *GormAlertRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "severity":
			query = query.Where("severity = ?", value)
		case "metric_name":
			query = query.Where("metric_name = ?", value)
		}
	}

	sortField := ValidateSortField(filter.OrderBy, AlertSortFields, "triggered_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	return applyPagination(query, filter)
}

func toDomainAlerts(alertModels []models.PerformanceAlertModel) []insight.PerformanceAlert {
	alerts := make([]insight.PerformanceAlert, len(alertModels))
	for i, model := range alertModels {
		alerts[i] = *model.ToDomain()
	}
	return alerts
}
