package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/bizsuite/backend/internal/domain/finance"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormExpenseRepository implements ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// FindByID finds an expense by ID within a tenant
func (r *GormExpenseRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*finance.Expense, error) {
	var model models.ExpenseModel
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

// FindByNumber finds an expense by number within a tenant
func (r *GormExpenseRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*finance.Expense, error) {
	var model models.ExpenseModel
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

// FindAll finds all expenses for a tenant
func (r *GormExpenseRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.Expense, error) {
	var expenseModels []models.ExpenseModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.ExpenseModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&expenseModels).Error; err != nil {
		return nil, err
	}
	return toDomainExpenses(expenseModels), nil
}

// FindByStatus finds expenses by status
func (r *GormExpenseRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status finance.ExpenseStatus, filter shared.Filter) ([]finance.Expense, error) {
	var expenseModels []models.ExpenseModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.ExpenseModel{}).
			Where("tenant_id = ? AND status = ?", tenantID, status),
		filter,
	)

	if err := query.Find(&expenseModels).Error; err != nil {
		return nil, err
	}
	return toDomainExpenses(expenseModels), nil
}

// FindByCategory finds expenses in a category
func (r *GormExpenseRepository) FindByCategory(ctx context.Context, tenantID uuid.UUID, category finance.ExpenseCategory, filter shared.Filter) ([]finance.Expense, error) {
	var expenseModels []models.ExpenseModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.ExpenseModel{}).
			Where("tenant_id = ? AND category = ?", tenantID, category),
		filter,
	)

	if err := query.Find(&expenseModels).Error; err != nil {
		return nil, err
	}
	return toDomainExpenses(expenseModels), nil
}

// Save creates or updates an expense
func (r *GormExpenseRepository) Save(ctx context.Context, expense *finance.Expense) error {
	model := models.ExpenseModelFromDomain(expense)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes an expense within a tenant
func (r *GormExpenseRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.ExpenseModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts expenses for a tenant
func (r *GormExpenseRepository) Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ExpenseModel{}).Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		keyword := "%" + filter.Search + "%"
		query = query.Where("number ILIKE ? OR description ILIKE ?", keyword, keyword)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "category":
			query = query.Where("category = ?", value)
		}
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// categoryTotalRow is the scan target for the per-category aggregation
type categoryTotalRow struct {
	Category string
	Count    int64
	Amount   decimal.Decimal
}

// SummarizeByCategory sums non-cancelled expense amounts per category
func (r *GormExpenseRepository) SummarizeByCategory(ctx context.Context, tenantID uuid.UUID) ([]finance.CategoryTotal, error) {
	var rows []categoryTotalRow
	if err := r.db.WithContext(ctx).Model(&models.ExpenseModel{}).
		Select("category, COUNT(*) as count, COALESCE(SUM(amount), 0) as amount").
		Where("tenant_id = ? AND status != ?", tenantID, finance.ExpenseStatusCancelled).
		Group("category").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make([]finance.CategoryTotal, len(rows))
	for i, row := range rows {
		totals[i] = finance.CategoryTotal{
			Category: finance.ExpenseCategory(row.Category),
			Count:    row.Count,
			Amount:   row.Amount,
		}
	}
	return totals, nil
}

// ExistsByNumber checks if an expense with the given number exists in the tenant
func (r *GormExpenseRepository) ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ExpenseModel{}).
		Where("tenant_id = ? AND LOWER(number) = ?", tenantID, strings.ToLower(number)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies keyword search, whitelisted sorting, and pagination
func (r *GormExpenseRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		keyword := "%" + filter.Search + "%"
		query = query.Where("number ILIKE ? OR description ILIKE ?", keyword, keyword)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "category":
			query = query.Where("category = ?", value)
		case "incurred_from":
			query = query.Where("incurred_date >= ?", value)
		case "incurred_to":
			query = query.Where("incurred_date <= ?", value)
		}
	}

	sortField := ValidateSortField(filter.OrderBy, ExpenseSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	return applyPagination(query, filter)
}

func toDomainExpenses(expenseModels []models.ExpenseModel) []finance.Expense {
	expenses := make([]finance.Expense, len(expenseModels))
	for i, model := range expenseModels {
		expenses[i] = *model.ToDomain()
	}
	return expenses
}
