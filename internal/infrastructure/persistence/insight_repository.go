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

// GormInsightRepository implements InsightRepository using GORM
type GormInsightRepository struct {
	db *gorm.DB
}

// NewGormInsightRepository creates a new GormInsightRepository
func NewGormInsightRepository(db *gorm.DB) *GormInsightRepository {
	return &GormInsightRepository{db: db}
}

// FindByID finds an insight by ID within a tenant
func (r *GormInsightRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*insight.AIInsight, error) {
	var model models.AIInsightModel
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

// FindAll finds all insights for a tenant
func (r *GormInsightRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]insight.AIInsight, error) {
	var insightModels []models.AIInsightModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.AIInsightModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&insightModels).Error; err != nil {
		return nil, err
	}
	return toDomainInsights(insightModels), nil
}

// FindByCategory finds insights in a category
func (r *GormInsightRepository) FindByCategory(ctx context.Context, tenantID uuid.UUID, category insight.InsightCategory, filter shared.Filter) ([]insight.AIInsight, error) {
	var insightModels []models.AIInsightModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.AIInsightModel{}).
			Where("tenant_id = ? AND category = ?", tenantID, category),
		filter,
	)

	if err := query.Find(&insightModels).Error; err != nil {
		return nil, err
	}
	return toDomainInsights(insightModels), nil
}

// FindUnacknowledged finds insights not yet acknowledged
func (r *GormInsightRepository) FindUnacknowledged(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]insight.AIInsight, error) {
	var insightModels []models.AIInsightModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.AIInsightModel{}).
			Where("tenant_id = ? AND acknowledged = false", tenantID),
		filter,
	)

	if err := query.Find(&insightModels).Error; err != nil {
		return nil, err
	}
	return toDomainInsights(insightModels), nil
}

// Save creates or updates an insight
func (r *GormInsightRepository) Save(ctx context.Context, ins *insight.AIInsight) error {
	model := models.AIInsightModelFromDomain(ins)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes an insight within a tenant
func (r *GormInsightRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.AIInsightModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts insights for a tenant
func (r *GormInsightRepository) Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.AIInsightModel{}).Where("tenant_id = ?", tenantID)

	for key, value := range filter.Filters {
		switch key {
		case "category":
			query = query.Where("category = ?", value)
		case "severity":
			query = query.Where("severity = ?", value)
		case "acknowledged":
			query = query.Where("acknowledged = ?", value)
		}
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filtering, whitelisted sorting, and pagination
func (r *GormInsightRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		keyword := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR body ILIKE ?", keyword, keyword)
	}

	for key, value := range filter.Filters {
		switch key {
		case "category":
			query = query.Where("category = ?", value)
		case "severity":
			query = query.Where("severity = ?", value)
		case "acknowledged":
			query = query.Where("acknowledged = ?", value)
		}
	}

	sortField := ValidateSortField(filter.OrderBy, InsightSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	return applyPagination(query, filter)
}

func toDomainInsights(insightModels []models.AIInsightModel) []insight.AIInsight {
	insights := make([]insight.AIInsight, len(insightModels))
	for i, model := range insightModels {
		insights[i] = *model.ToDomain()
	}
	return insights
}
