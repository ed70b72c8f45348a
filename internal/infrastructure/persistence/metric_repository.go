package persistence

import (
	"context"
	"time"

	"github.com/bizsuite/backend/internal/domain/insight"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMetricRepository implements MetricRepository using GORM
type GormMetricRepository struct {
	db *gorm.DB
}

// NewGormMetricRepository creates a new GormMetricRepository
func NewGormMetricRepository(db *gorm.DB) *GormMetricRepository {
	return &GormMetricRepository{db: db}
}

// Save records a metric sample
func (r *GormMetricRepository) Save(ctx context.Context, metric *insight.PerformanceMetric) error {
	model := models.PerformanceMetricModelFromDomain(metric)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByName finds samples of a metric within a time range
func (r *GormMetricRepository) FindByName(ctx context.Context, tenantID uuid.UUID, name string, from, to time.Time, filter shared.Filter) ([]insight.PerformanceMetric, error) {
	var metricModels []models.PerformanceMetricModel
	query := applyPagination(
		r.db.WithContext(ctx).Model(&models.PerformanceMetricModel{}).
			Where("tenant_id = ? AND name = ?", tenantID, name).
			Where("recorded_at >= ? AND recorded_at <= ?", from, to).
			Order("recorded_at DESC"),
		filter,
	)

	if err := query.Find(&metricModels).Error; err != nil {
		return nil, err
	}
	return toDomainMetrics(metricModels), nil
}

// FindAll finds all samples for a tenant
func (r *GormMetricRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]insight.PerformanceMetric, error) {
	var metricModels []models.PerformanceMetricModel
	query := r.db.WithContext(ctx).Model(&models.PerformanceMetricModel{}).
		Where("tenant_id = ?", tenantID)

	for key, value := range filter.Filters {
		if key == "name" {
			query = query.Where("name = ?", value)
		}
	}

	sortField := ValidateSortField(filter.OrderBy, MetricSortFields, "recorded_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = applyPagination(query.Order(sortField+" "+sortOrder), filter)

	if err := query.Find(&metricModels).Error; err != nil {
		return nil, err
	}
	return toDomainMetrics(metricModels), nil
}

// metricSummaryRow is the scan target for the window aggregation
type metricSummaryRow struct {
	Count int64
	Avg   float64
	Min   float64
	Max   float64
}

// Summarize computes avg/min/max over a window for a metric
func (r *GormMetricRepository) Summarize(ctx context.Context, tenantID uuid.UUID, name string, from, to time.Time) (*insight.MetricSummary, error) {
	var row metricSummaryRow
	if err := r.db.WithContext(ctx).Model(&models.PerformanceMetricModel{}).
		Select("COUNT(*) as count, COALESCE(AVG(value), 0) as avg, COALESCE(MIN(value), 0) as min, COALESCE(MAX(value), 0) as max").
		Where("tenant_id = ? AND name = ?", tenantID, name).
		Where("recorded_at >= ? AND recorded_at <= ?", from, to).
		Scan(&row).Error; err != nil {
		return nil, err
	}

	return &insight.MetricSummary{
		Name:  name,
		Count: row.Count,
		Avg:   row.Avg,
		Min:   row.Min,
		Max:   row.Max,
		From:  from,
		To:    to,
	}, nil
}

// DistinctNames lists the metric names recorded for a tenant
func (r *GormMetricRepository) DistinctNames(ctx context.Context, tenantID uuid.UUID) ([]string, error) {
	var names []string
	if err := r.db.WithContext(ctx).Model(&models.PerformanceMetricModel{}).
		Where("tenant_id = ?", tenantID).
		Distinct("name").
		Order("name ASC").
		Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

// DeleteOlderThan removes samples recorded before the cutoff.
// Used by the retention job; returns the number of rows removed.
func (r *GormMetricRepository) DeleteOlderThan(ctx context.Context, tenantID uuid.UUID, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND recorded_at < ?", tenantID, cutoff).
		Delete(&models.PerformanceMetricModel{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func toDomainMetrics(metricModels []models.PerformanceMetricModel) []insight.PerformanceMetric {
	metrics := make([]insight.PerformanceMetric, len(metricModels))
	for i, model := range metricModels {
		metrics[i] = *model.ToDomain()
	}
	return metrics
}
