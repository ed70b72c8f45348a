package insight

import (
	"context"
	"time"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InsightRepository defines the interface for AI insight persistence
type InsightRepository interface {
	// FindByID finds an insight by ID within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*AIInsight, error)

	// FindAll finds all insights for a tenant
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]AIInsight, error)

	// FindByCategory finds insights in a category
	FindByCategory(ctx context.Context, tenantID uuid.UUID, category InsightCategory, filter shared.Filter) ([]AIInsight, error)

	// FindUnacknowledged finds insights not yet acknowledged
	FindUnacknowledged(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]AIInsight, error)

	// Save creates or updates an insight
	Save(ctx context.Context, insight *AIInsight) error

	// Delete deletes an insight within a tenant
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// Count counts insights for a tenant
	Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// DecisionRepository defines the interface for autonomous decision persistence
type DecisionRepository interface {
	// FindByID finds a decision by ID within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*AutonomousDecision, error)

	// FindAll finds all decisions for a tenant
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]AutonomousDecision, error)

	// FindByType finds decisions of a given type
	FindByType(ctx context.Context, tenantID uuid.UUID, decisionType DecisionType, filter shared.Filter) ([]AutonomousDecision, error)

	// CountByOutcome counts accepted and rejected decisions of a type.
	// Feeds the learning multiplier.
	CountByOutcome(ctx context.Context, tenantID uuid.UUID, decisionType DecisionType) (accepted, rejected int64, err error)

	// Save creates or updates a decision
	Save(ctx context.Context, decision *AutonomousDecision) error

	// Count counts decisions for a tenant
	Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// MetricRepository defines the interface for performance metric persistence
type MetricRepository interface {
	// Save records a metric sample
	Save(ctx context.Context, metric *PerformanceMetric) error

	// FindByName finds samples of a metric within a time range
	FindByName(ctx context.Context, tenantID uuid.UUID, name string, from, to time.Time, filter shared.Filter) ([]PerformanceMetric, error)

	// FindAll finds all samples for a tenant
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PerformanceMetric, error)

	// Summarize computes avg/min/max over a window for a metric
	Summarize(ctx context.Context, tenantID uuid.UUID, name string, from, to time.Time) (*MetricSummary, error)

	// DistinctNames lists the metric names recorded for a tenant
	DistinctNames(ctx context.Context, tenantID uuid.UUID) ([]string, error)
}

// AlertRepository defines the interface for performance alert persistence
type AlertRepository interface {
	// FindByID finds an alert by ID within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*PerformanceAlert, error)

	// FindOpenByMetric finds the open alert for a metric, if any.
	// Returns nil without error when no open alert exists.
	FindOpenByMetric(ctx context.Context, tenantID uuid.UUID, metricName string) (*PerformanceAlert, error)

	// FindAll finds all alerts for a tenant
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PerformanceAlert, error)

	// FindByStatus finds alerts by status
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status AlertStatus, filter shared.Filter) ([]PerformanceAlert, error)

	// Save creates or updates an alert
	Save(ctx context.Context, alert *PerformanceAlert) error

	// Count counts alerts for a tenant
	Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// CountOpen counts open alerts for a tenant
	CountOpen(ctx context.Context, tenantID uuid.UUID) (int64, error)
}
