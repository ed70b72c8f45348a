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

// GormDecisionRepository implements DecisionRepository using GORM
type GormDecisionRepository struct {
	db *gorm.DB
}

// NewGormDecisionRepository creates a new GormDecisionRepository
func NewGormDecisionRepository(db *gorm.DB) *GormDecisionRepository {
	return &GormDecisionRepository{db: db}
}

// FindByID finds a decision by ID within a tenant
func (r *GormDecisionRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*insight.AutonomousDecision, error) {
	var model models.DecisionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindAll finds all decisions for a tenant
func (r *GormDecisionRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]insight.AutonomousDecision, error) {
	var decisionModels []models.DecisionModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.DecisionModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&decisionModels).Error; err != nil {
		return nil, err
	}
	return toDomainDecisions(decisionModels)
}

// FindByType finds decisions of a given type
func (r *GormDecisionRepository) FindByType(ctx context.Context, tenantID uuid.UUID, decisionType insight.DecisionType, filter shared.Filter) ([]insight.AutonomousDecision, error) {
	var decisionModels []models.DecisionModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.DecisionModel{}).
			Where("tenant_id = ? AND decision_type = ?", tenantID, decisionType),
		filter,
	)

	if err := query.Find(&decisionModels).Error; err != nil {
		return nil, err
	}
	return toDomainDecisions(decisionModels)
}

// CountByOutcome counts accepted and rejected decisions of a type.
// Feeds the learning multiplier.
func (r *GormDecisionRepository) CountByOutcome(ctx context.Context, tenantID uuid.UUID, decisionType insight.DecisionType) (accepted, rejected int64, err error) {
	base := r.db.WithContext(ctx).Model(&models.DecisionModel{}).
		Where("tenant_id = ? AND decision_type = ?", tenantID, decisionType)

	if err = base.Session(&gorm.Session{}).
		Where("status = ?", insight.DecisionStatusAccepted).
		Count(&accepted).Error; err != nil {
		return 0, 0, err
	}
	if err = base.Session(&gorm.Session{}).
		Where("status = ?", insight.DecisionStatusRejected).
		Count(&rejected).Error; err != nil {
		return 0, 0, err
	}
	return accepted, rejected, nil
}

// Save creates or updates a decision
func (r *GormDecisionRepository) Save(ctx context.Context, decision *insight.AutonomousDecision) error {
	model, err := models.DecisionModelFromDomain(decision)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(model).Error
}

// Count counts decisions for a tenant
func (r *GormDecisionRepository) Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.DecisionModel{}).Where("tenant_id = ?", tenantID)

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "decision_type":
			query = query.Where("decision_type = ?", value)
		}
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filtering, whitelisted sorting, and pagination
func (r *GormDecisionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "decision_type":
			query = query.Where("decision_type = ?", value)
		case "risk":
			query = query.Where("risk_assessment = ?", value)
		}
	}

	sortField := ValidateSortField(filter.OrderBy, DecisionSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	return applyPagination(query, filter)
}

func toDomainDecisions(decisionModels []models.DecisionModel) ([]insight.AutonomousDecision, error) {
	decisions := make([]insight.AutonomousDecision, len(decisionModels))
	for i, model := range decisionModels {
		decision, err := model.ToDomain()
		if err != nil {
			return nil, err
		}
		decisions[i] = *decision
	}
	return decisions, nil
}
