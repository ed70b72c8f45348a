package persistence

import (
	"context"
	"errors"

	"github.com/bizsuite/backend/internal/domain/audit"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAuditRepository implements EntryRepository using GORM.
// The audit trail is append-only, so there is no update or delete path.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Save appends an audit entry
func (r *GormAuditRepository) Save(ctx context.Context, entry *audit.AuditEntry) error {
	model := models.AuditEntryModelFromDomain(entry)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds an entry by ID within a tenant
func (r *GormAuditRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*audit.AuditEntry, error) {
	var model models.AuditEntryModel
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

// Search finds entries matching the query, newest first
func (r *GormAuditRepository) Search(ctx context.Context, tenantID uuid.UUID, query audit.Query, filter shared.Filter) ([]audit.AuditEntry, error) {
	var entryModels []models.AuditEntryModel
	q := applyPagination(
		r.applyQuery(
			r.db.WithContext(ctx).Model(&models.AuditEntryModel{}).Where("tenant_id = ?", tenantID),
			query,
		).Order("created_at DESC"),
		filter,
	)

	if err := q.Find(&entryModels).Error; err != nil {
		return nil, err
	}

	entries := make([]audit.AuditEntry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = *model.ToDomain()
	}
	return entries, nil
}

// Count counts entries matching the query
func (r *GormAuditRepository) Count(ctx context.Context, tenantID uuid.UUID, query audit.Query) (int64, error) {
	var count int64
	q := r.applyQuery(
		r.db.WithContext(ctx).Model(&models.AuditEntryModel{}).Where("tenant_id = ?", tenantID),
		query,
	)

	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyQuery narrows the listing; zero values mean "any"
func (r *GormAuditRepository) applyQuery(q *gorm.DB, query audit.Query) *gorm.DB {
	if query.ActorID != uuid.Nil {
		q = q.Where("actor_id = ?", query.ActorID)
	}
	if query.Action != "" {
		q = q.Where("action = ?", query.Action)
	}
	if query.EntityType != "" {
		q = q.Where("entity_type = ?", query.EntityType)
	}
	if query.EntityID != uuid.Nil {
		q = q.Where("entity_id = ?", query.EntityID)
	}
	if !query.From.IsZero() {
		q = q.Where("created_at >= ?", query.From)
	}
	if !query.To.IsZero() {
		q = q.Where("created_at <= ?", query.To)
	}
	return q
}
