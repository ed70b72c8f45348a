package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/bizsuite/backend/internal/domain/identity"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTenantRepository is the GORM-backed identity.TenantRepository.
// Tenants are platform-level rows, so no tenant scoping applies here.
type GormTenantRepository struct {
	db *gorm.DB
}

func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// firstTenant runs the query and maps GORM's not-found to the domain error
func firstTenant(query *gorm.DB) (*identity.Tenant, error) {
	var model models.TenantModel
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormTenantRepository) listTenants(query *gorm.DB, filter shared.Filter) ([]identity.Tenant, error) {
	var rows []models.TenantModel
	if err := r.applyFilter(query, filter).Find(&rows).Error; err != nil {
		return nil, err
	}

	tenants := make([]identity.Tenant, len(rows))
	for i, row := range rows {
		tenants[i] = *row.ToDomain()
	}
	return tenants, nil
}

func (r *GormTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	return firstTenant(r.db.WithContext(ctx).Where("id = ?", id))
}

// FindByCode matches the code case-insensitively
func (r *GormTenantRepository) FindByCode(ctx context.Context, code string) (*identity.Tenant, error) {
	return firstTenant(r.db.WithContext(ctx).Where("LOWER(code) = ?", strings.ToLower(code)))
}

func (r *GormTenantRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Tenant, error) {
	return r.listTenants(r.db.WithContext(ctx).Model(&models.TenantModel{}), filter)
}

func (r *GormTenantRepository) FindByStatus(ctx context.Context, status identity.TenantStatus, filter shared.Filter) ([]identity.Tenant, error) {
	return r.listTenants(
		r.db.WithContext(ctx).Model(&models.TenantModel{}).Where("status = ?", status),
		filter,
	)
}

func (r *GormTenantRepository) FindByPlan(ctx context.Context, plan identity.TenantPlan, filter shared.Filter) ([]identity.Tenant, error) {
	return r.listTenants(
		r.db.WithContext(ctx).Model(&models.TenantModel{}).Where("plan = ?", plan),
		filter,
	)
}

// Save upserts the aggregate by primary key
func (r *GormTenantRepository) Save(ctx context.Context, tenant *identity.Tenant) error {
	return r.db.WithContext(ctx).Save(models.TenantModelFromDomain(tenant)).Error
}

func (r *GormTenantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TenantModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormTenantRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := searchTenants(r.db.WithContext(ctx).Model(&models.TenantModel{}), filter.Search)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormTenantRepository) CountByStatus(ctx context.Context, status identity.TenantStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TenantModel{}).
		Where("status = ?", status).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormTenantRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TenantModel{}).
		Where("LOWER(code) = ?", strings.ToLower(code)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// searchTenants narrows by keyword across name and code
func searchTenants(query *gorm.DB, search string) *gorm.DB {
	if search == "" {
		return query
	}
	keyword := "%" + search + "%"
	return query.Where("name ILIKE ? OR code ILIKE ?", keyword, keyword)
}

func (r *GormTenantRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchTenants(query, filter.Search)

	sortField := ValidateSortField(filter.OrderBy, TenantSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	return applyPagination(query, filter)
}
