package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/bizsuite/backend/internal/domain/crm"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormDealRepository implements DealRepository using GORM
type GormDealRepository struct {
	db *gorm.DB
}

// NewGormDealRepository creates a new GormDealRepository
func NewGormDealRepository(db *gorm.DB) *GormDealRepository {
	return &GormDealRepository{db: db}
}

// FindByID finds a deal by ID within a tenant
func (r *GormDealRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*crm.Deal, error) {
	var model models.DealModel
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

// FindByCode finds a deal by code within a tenant
func (r *GormDealRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*crm.Deal, error) {
	var model models.DealModel
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

// FindAll finds all deals for a tenant
func (r *GormDealRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]crm.Deal, error) {
	var dealModels []models.DealModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.DealModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&dealModels).Error; err != nil {
		return nil, err
	}
	return toDomainDeals(dealModels), nil
}

// FindByStage finds deals in a given stage
func (r *GormDealRepository) FindByStage(ctx context.Context, tenantID uuid.UUID, stage crm.DealStage, filter shared.Filter) ([]crm.Deal, error) {
	var dealModels []models.DealModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.DealModel{}).
			Where("tenant_id = ? AND stage = ?", tenantID, stage),
		filter,
	)

	if err := query.Find(&dealModels).Error; err != nil {
		return nil, err
	}
	return toDomainDeals(dealModels), nil
}

// FindByOwner finds deals assigned to an owner
func (r *GormDealRepository) FindByOwner(ctx context.Context, tenantID uuid.UUID, owner string, filter shared.Filter) ([]crm.Deal, error) {
	var dealModels []models.DealModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.DealModel{}).
			Where("tenant_id = ? AND owner = ?", tenantID, owner),
		filter,
	)

	if err := query.Find(&dealModels).Error; err != nil {
		return nil, err
	}
	return toDomainDeals(dealModels), nil
}

// Save creates or updates a deal
func (r *GormDealRepository) Save(ctx context.Context, deal *crm.Deal) error {
	model := models.DealModelFromDomain(deal)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a deal within a tenant
func (r *GormDealRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.DealModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts deals for a tenant
func (r *GormDealRepository) Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.DealModel{}).Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		keyword := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR code ILIKE ? OR customer_name ILIKE ?", keyword, keyword, keyword)
	}
	for key, value := range filter.Filters {
		if key == "stage" {
			query = query.Where("stage = ?", value)
		}
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// stageSummaryRow is the scan target for the pipeline aggregation
type stageSummaryRow struct {
	Stage       string
	Count       int64
	TotalAmount decimal.Decimal
}

// SummarizeByStage returns count and total amount per pipeline stage
func (r *GormDealRepository) SummarizeByStage(ctx context.Context, tenantID uuid.UUID) ([]crm.StageSummary, error) {
	var rows []stageSummaryRow
	if err := r.db.WithContext(ctx).Model(&models.DealModel{}).
		Select("stage, COUNT(*) as count, COALESCE(SUM(amount), 0) as total_amount").
		Where("tenant_id = ?", tenantID).
		Group("stage").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	summaries := make([]crm.StageSummary, len(rows))
	for i, row := range rows {
		summaries[i] = crm.StageSummary{
			Stage:       crm.DealStage(row.Stage),
			Count:       row.Count,
			TotalAmount: row.TotalAmount,
		}
	}
	return summaries, nil
}

// ExistsByCode checks if a deal with the given code exists in the tenant
func (r *GormDealRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.DealModel{}).
		Where("tenant_id = ? AND LOWER(code) = ?", tenantID, strings.ToLower(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies keyword search, whitelisted sorting, and pagination
func (r *GormDealRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		keyword := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR code ILIKE ? OR customer_name ILIKE ?", keyword, keyword, keyword)
	}

	for key, value := range filter.Filters {
		switch key {
		case "stage":
			query = query.Where("stage = ?", value)
		case "owner":
			query = query.Where("owner = ?", value)
		case "min_amount":
			query = query.Where("amount >= ?", value)
		case "max_amount":
			query = query.Where("amount <= ?", value)
		}
	}

	sortField := ValidateSortField(filter.OrderBy, DealSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	return applyPagination(query, filter)
}

func toDomainDeals(dealModels []models.DealModel) []crm.Deal {
	deals := make([]crm.Deal, len(dealModels))
	for i, model := range dealModels {
		deals[i] = *model.ToDomain()
	}
	return deals
}
