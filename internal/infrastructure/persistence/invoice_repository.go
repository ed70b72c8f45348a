package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bizsuite/backend/internal/domain/finance"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice by ID within a tenant, items included
func (r *GormInvoiceRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*finance.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds an invoice by number within a tenant
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*finance.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND LOWER(number) = ?", tenantID, strings.ToLower(number)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all invoices for a tenant
func (r *GormInvoiceRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
			Preload("Items").
			Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toDomainInvoices(invoiceModels), nil
}

// FindByStatus finds invoices by status
func (r *GormInvoiceRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status finance.InvoiceStatus, filter shared.Filter) ([]finance.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
			Preload("Items").
			Where("tenant_id = ? AND status = ?", tenantID, status),
		filter,
	)

	if err := query.Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toDomainInvoices(invoiceModels), nil
}

// FindOverdue finds issued invoices whose due date is before the given time
func (r *GormInvoiceRepository) FindOverdue(ctx context.Context, tenantID uuid.UUID, asOf time.Time, filter shared.Filter) ([]finance.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	query := applyPagination(
		r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
			Preload("Items").
			Where("tenant_id = ? AND status = ?", tenantID, finance.InvoiceStatusIssued).
			Where("due_date IS NOT NULL AND due_date < ?", asOf).
			Order("due_date ASC"),
		filter,
	)

	if err := query.Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toDomainInvoices(invoiceModels), nil
}

// Save creates or updates an invoice with its items.
// Stale item rows are removed so the stored lines always mirror the aggregate.
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *finance.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		keepIDs := make([]uuid.UUID, len(model.Items))
		for i, item := range model.Items {
			keepIDs[i] = item.ID
		}

		itemQuery := tx.Where("invoice_id = ?", model.ID)
		if len(keepIDs) > 0 {
			itemQuery = itemQuery.Where("id NOT IN ?", keepIDs)
		}
		if err := itemQuery.Delete(&models.InvoiceItemModel{}).Error; err != nil {
			return err
		}

		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(model).Error
	})
}

// Delete deletes an invoice within a tenant
func (r *GormInvoiceRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.InvoiceModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("invoice_id = ?", id).Delete(&models.InvoiceItemModel{}).Error
	})
}

// Count counts invoices for a tenant
func (r *GormInvoiceRepository) Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		keyword := "%" + filter.Search + "%"
		query = query.Where("number ILIKE ? OR customer_name ILIKE ?", keyword, keyword)
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

// receivablesRow is the scan target for a single outstanding/overdue bucket
type receivablesRow struct {
	Count  int64
	Amount decimal.Decimal
}

// SummarizeReceivables computes outstanding and overdue totals as of the given time
func (r *GormInvoiceRepository) SummarizeReceivables(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (*finance.ReceivablesSummary, error) {
	var outstanding receivablesRow
	if err := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Select("COUNT(*) as count, COALESCE(SUM(total), 0) as amount").
		Where("tenant_id = ? AND status = ?", tenantID, finance.InvoiceStatusIssued).
		Scan(&outstanding).Error; err != nil {
		return nil, err
	}

	var overdue receivablesRow
	if err := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Select("COUNT(*) as count, COALESCE(SUM(total), 0) as amount").
		Where("tenant_id = ? AND status = ?", tenantID, finance.InvoiceStatusIssued).
		Where("due_date IS NOT NULL AND due_date < ?", asOf).
		Scan(&overdue).Error; err != nil {
		return nil, err
	}

	return &finance.ReceivablesSummary{
		OutstandingCount:  outstanding.Count,
		OutstandingAmount: outstanding.Amount,
		OverdueCount:      overdue.Count,
		OverdueAmount:     overdue.Amount,
	}, nil
}

// ExistsByNumber checks if an invoice with the given number exists in the tenant
func (r *GormInvoiceRepository) ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("tenant_id = ? AND LOWER(number) = ?", tenantID, strings.ToLower(number)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies keyword search, whitelisted sorting, and pagination
func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		keyword := "%" + filter.Search + "%"
		query = query.Where("number ILIKE ? OR customer_name ILIKE ?", keyword, keyword)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "customer_name":
			query = query.Where("customer_name = ?", value)
		case "due_before":
			query = query.Where("due_date IS NOT NULL AND due_date < ?", value)
		}
	}

	sortField := ValidateSortField(filter.OrderBy, InvoiceSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	return applyPagination(query, filter)
}

func toDomainInvoices(invoiceModels []models.InvoiceModel) []finance.Invoice {
	invoices := make([]finance.Invoice, len(invoiceModels))
	for i, model := range invoiceModels {
		invoices[i] = *model.ToDomain()
	}
	return invoices
}
