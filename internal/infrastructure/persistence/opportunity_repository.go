package persistence

import (
	"context"
	"errors"

	"github.com/bizsuite/backend/internal/domain/crm"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOpportunityRepository implements OpportunityRepository using GORM
type GormOpportunityRepository struct {
	db *gorm.DB
}

// NewGormOpportunityRepository creates a new GormOpportunityRepository
func NewGormOpportunityRepository(db *gorm.DB) *GormOpportunityRepository {
	return &GormOpportunityRepository{db: db}
}

// FindByID finds an opportunity by ID within a tenant
func (r *GormOpportunityRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*crm.Opportunity, error) {
	var model models.OpportunityModel
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

// FindAll finds all opportunities for a tenant
func (r *GormOpportunityRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]crm.Opportunity, error) {
	var oppModels []models.OpportunityModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.OpportunityModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&oppModels).Error; err != nil {
		return nil, err
	}
	return toDomainOpportunities(oppModels), nil
}

// FindByStatus finds opportunities by status
func (r *GormOpportunityRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status crm.OpportunityStatus, filter shared.Filter) ([]crm.Opportunity, error) {
	var oppModels []models.OpportunityModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.OpportunityModel{}).
			Where("tenant_id = ? AND status = ?", tenantID, status),
		filter,
	)

	if err := query.Find(&oppModels).Error; err != nil {
		return nil, err
	}
	return toDomainOpportunities(oppModels), nil
}

// FindOpenByMinScore finds open opportunities at or above a score threshold
func (r *GormOpportunityRepository) FindOpenByMinScore(ctx context.Context, tenantID uuid.UUID, minScore float64, filter shared.Filter) ([]crm.Opportunity, error) {
	var oppModels []models.OpportunityModel
	query := applyPagination(
		r.db.WithContext(ctx).Model(&models.OpportunityModel{}).
			Where("tenant_id = ? AND status = ? AND score >= ?", tenantID, crm.OpportunityStatusOpen, minScore).
			Order("score DESC"),
		filter,
	)

	if err := query.Find(&oppModels).Error; err != nil {
		return nil, err
	}
	return toDomainOpportunities(oppModels), nil
}

// Save creates or updates an opportunity
func (r *GormOpportunityRepository) Save(ctx context.Context, opportunity *crm.Opportunity) error {
	model := models.OpportunityModelFromDomain(opportunity)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes an opportunity within a tenant
func (r *GormOpportunityRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.OpportunityModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts opportunities for a tenant
func (r *GormOpportunityRepository) Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.OpportunityModel{}).Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		keyword := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR customer_name ILIKE ?", keyword, keyword)
	}
	for key, value := range filter.Filters {
		if key == "status" {
			query = query.Where("status = ?", value)
		}
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies keyword search, whitelisted sorting, and pagination
func (r *GormOpportunityRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		keyword := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR customer_name ILIKE ?", keyword, keyword)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "source":
			query = query.Where("source = ?", value)
		case "min_score":
			query = query.Where("score >= ?", value)
		}
	}

	sortField := ValidateSortField(filter.OrderBy, OpportunitySortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	return applyPagination(query, filter)
}

func toDomainOpportunities(oppModels []models.OpportunityModel) []crm.Opportunity {
	opportunities := make([]crm.Opportunity, len(oppModels))
	for i, model := range oppModels {
		opportunities[i] = *model.ToDomain()
	}
	return opportunities
}
