package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/bizsuite/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MetricPruner removes metric samples recorded before a cutoff
type MetricPruner interface {
	DeleteOlderThan(ctx context.Context, tenantID uuid.UUID, cutoff time.Time) (int64, error)
}

// AlertEvaluator compares recent metric activity against baselines and
// raises or resolves performance alerts. Returns the number of alerts raised.
type AlertEvaluator interface {
	EvaluateAlerts(ctx context.Context, tenantID uuid.UUID) (int, error)
}

// InsightGenerator derives business insights from tenant aggregates.
// Returns the number of insights generated.
type InsightGenerator interface {
	GenerateInsights(ctx context.Context, tenantID uuid.UUID) (int, error)
}

// MaintenanceExecutor dispatches maintenance jobs to the services that do
// the actual work
type MaintenanceExecutor struct {
	insightCfg config.InsightConfig
	pruner     MetricPruner
	evaluator  AlertEvaluator
	generator  InsightGenerator
	logger     *zap.Logger
}

// NewMaintenanceExecutor creates a new maintenance executor
func NewMaintenanceExecutor(
	insightCfg config.InsightConfig,
	pruner MetricPruner,
	evaluator AlertEvaluator,
	generator InsightGenerator,
	logger *zap.Logger,
) *MaintenanceExecutor {
	return &MaintenanceExecutor{
		insightCfg: insightCfg,
		pruner:     pruner,
		evaluator:  evaluator,
		generator:  generator,
		logger:     logger,
	}
}

// Execute runs the work for a single job
func (e *MaintenanceExecutor) Execute(ctx context.Context, job *Job) error {
	switch job.Type {
	case JobTypeMetricRetention:
		return e.pruneMetrics(ctx, job.TenantID)
	case JobTypeAlertEvaluation:
		return e.evaluateAlerts(ctx, job.TenantID)
	case JobTypeInsightGeneration:
		return e.generateInsights(ctx, job.TenantID)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidJobType, job.Type)
	}
}

// pruneMetrics deletes samples older than the configured retention window
func (e *MaintenanceExecutor) pruneMetrics(ctx context.Context, tenantID uuid.UUID) error {
	cutoff := time.Now().Add(-e.insightCfg.MetricRetention)

	deleted, err := e.pruner.DeleteOlderThan(ctx, tenantID, cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune metrics: %w", err)
	}

	if deleted > 0 {
		e.logger.Info("Pruned aged metric samples",
			zap.String("tenant_id", tenantID.String()),
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff),
		)
	}
	return nil
}

func (e *MaintenanceExecutor) evaluateAlerts(ctx context.Context, tenantID uuid.UUID) error {
	raised, err := e.evaluator.EvaluateAlerts(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("failed to evaluate alerts: %w", err)
	}

	if raised > 0 {
		e.logger.Info("Performance alerts raised",
			zap.String("tenant_id", tenantID.String()),
			zap.Int("raised", raised),
		)
	}
	return nil
}

func (e *MaintenanceExecutor) generateInsights(ctx context.Context, tenantID uuid.UUID) error {
	generated, err := e.generator.GenerateInsights(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("failed to generate insights: %w", err)
	}

	e.logger.Info("Insight generation completed",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("generated", generated),
	)
	return nil
}

// Ensure MaintenanceExecutor implements JobExecutor
var _ JobExecutor = (*MaintenanceExecutor)(nil)
