package crm

import (
	"context"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StageSummary aggregates open pipeline value per stage
type StageSummary struct {
	Stage       DealStage
	Count       int64
	TotalAmount decimal.Decimal
}

// DealRepository defines the interface for deal persistence
type DealRepository interface {
	// FindByID finds a deal by ID within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Deal, error)

	// FindByCode finds a deal by code within a tenant
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Deal, error)

	// FindAll finds all deals for a tenant
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Deal, error)

	// FindByStage finds deals in a given stage
	FindByStage(ctx context.Context, tenantID uuid.UUID, stage DealStage, filter shared.Filter) ([]Deal, error)

	// FindByOwner finds deals assigned to an owner
	FindByOwner(ctx context.Context, tenantID uuid.UUID, owner string, filter shared.Filter) ([]Deal, error)

	// Save creates or updates a deal
	Save(ctx context.Context, deal *Deal) error

	// Delete deletes a deal within a tenant
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// Count counts deals for a tenant
	Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// SummarizeByStage returns count and total amount per pipeline stage
	SummarizeByStage(ctx context.Context, tenantID uuid.UUID) ([]StageSummary, error)

	// ExistsByCode checks if a deal with the given code exists in the tenant
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
}

// OpportunityRepository defines the interface for opportunity persistence
type OpportunityRepository interface {
	// FindByID finds an opportunity by ID within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Opportunity, error)

	// FindAll finds all opportunities for a tenant
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Opportunity, error)

	// FindByStatus finds opportunities by status
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status OpportunityStatus, filter shared.Filter) ([]Opportunity, error)

	// FindOpenByMinScore finds open opportunities at or above a score threshold
	FindOpenByMinScore(ctx context.Context, tenantID uuid.UUID, minScore float64, filter shared.Filter) ([]Opportunity, error)

	// Save creates or updates an opportunity
	Save(ctx context.Context, opportunity *Opportunity) error

	// Delete deletes an opportunity within a tenant
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// Count counts opportunities for a tenant
	Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}
