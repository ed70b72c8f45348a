package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the suite.
// It tracks deal pipeline activity, invoicing, and alert health.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	dealClosedTotal    *Counter
	dealAmountTotal    *Counter
	invoiceIssuedTotal *Counter
	decisionTotal      *Counter

	// Gauge metrics (point-in-time values)
	openAlertCount   *Gauge
	pendingLeaveDays *FloatGauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data providers for periodic collection
	alertProvider AlertMetricsProvider
}

// AlertMetricsProvider provides alert data for periodic metrics collection.
// This interface lets the telemetry layer query alert state without
// depending on the insight domain directly.
type AlertMetricsProvider interface {
	// GetOpenAlertCount returns the number of open performance alerts for a tenant
	GetOpenAlertCount(ctx context.Context, tenantID uuid.UUID) (int64, error)

	// GetPendingLeaveDays returns the total days of leave awaiting approval for a tenant
	GetPendingLeaveDays(ctx context.Context, tenantID uuid.UUID) (float64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	AlertProvider   AlertMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:         cfg.Meter,
		logger:        logger,
		stopChan:      make(chan struct{}),
		alertProvider: cfg.AlertProvider,
	}

	var err error

	// Deal metrics
	bm.dealClosedTotal, err = NewCounter(
		cfg.Meter,
		"suite_deal_closed_total",
		"Total number of deals closed (won or lost)",
		"{deals}",
	)
	if err != nil {
		return nil, err
	}

	bm.dealAmountTotal, err = NewCounter(
		cfg.Meter,
		"suite_deal_amount_total",
		"Total won deal amount in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	// Invoice metrics
	bm.invoiceIssuedTotal, err = NewCounter(
		cfg.Meter,
		"suite_invoice_issued_total",
		"Total number of invoices issued",
		"{invoices}",
	)
	if err != nil {
		return nil, err
	}

	// Decision metrics
	bm.decisionTotal, err = NewCounter(
		cfg.Meter,
		"suite_decision_total",
		"Total number of autonomous decisions generated",
		"{decisions}",
	)
	if err != nil {
		return nil, err
	}

	// Alert gauge metrics
	bm.openAlertCount, err = NewGauge(
		cfg.Meter,
		"suite_open_alert_count",
		"Number of open performance alerts",
		"{alerts}",
	)
	if err != nil {
		return nil, err
	}

	bm.pendingLeaveDays, err = NewFloatGauge(
		cfg.Meter,
		"suite_pending_leave_days",
		"Total days of leave awaiting approval",
		"{days}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Deal Metrics
// =============================================================================

// DealOutcome represents the terminal stage of a deal for metrics labeling.
type DealOutcome string

const (
	DealOutcomeWon  DealOutcome = "won"
	DealOutcomeLost DealOutcome = "lost"
)

// RecordDealClosed records a deal reaching a terminal stage.
// This should be called from the application layer when a deal is won or lost.
func (bm *BusinessMetrics) RecordDealClosed(ctx context.Context, tenantID uuid.UUID, outcome DealOutcome) {
	bm.dealClosedTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrDealStage.String(string(outcome)),
	)
}

// RecordDealWon records both the closure and the won amount.
func (bm *BusinessMetrics) RecordDealWon(ctx context.Context, tenantID uuid.UUID, amount decimal.Decimal) {
	bm.RecordDealClosed(ctx, tenantID, DealOutcomeWon)

	// Convert to cents
	amountCents := amount.Mul(decimal.NewFromInt(100)).IntPart()
	bm.dealAmountTotal.Add(ctx, amountCents,
		AttrTenantID.String(tenantID.String()),
	)
}

// =============================================================================
// Invoice Metrics
// =============================================================================

// RecordInvoiceIssued records an invoice being issued.
func (bm *BusinessMetrics) RecordInvoiceIssued(ctx context.Context, tenantID uuid.UUID) {
	bm.invoiceIssuedTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
	)
}

// =============================================================================
// Decision Metrics
// =============================================================================

// RecordDecisionGenerated records an autonomous decision being generated.
func (bm *BusinessMetrics) RecordDecisionGenerated(ctx context.Context, tenantID uuid.UUID, decisionType string) {
	bm.decisionTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrDecisionType.String(decisionType),
	)
}

// =============================================================================
// Alert Metrics
// =============================================================================

// RecordOpenAlertCount records the current number of open alerts.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordOpenAlertCount(ctx context.Context, tenantID uuid.UUID, count int64) {
	bm.openAlertCount.Record(ctx, count,
		AttrTenantID.String(tenantID.String()),
	)
}

// RecordPendingLeaveDays records the total days of leave awaiting approval.
func (bm *BusinessMetrics) RecordPendingLeaveDays(ctx context.Context, tenantID uuid.UUID, days float64) {
	bm.pendingLeaveDays.Record(ctx, days,
		AttrTenantID.String(tenantID.String()),
	)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// TenantProvider provides tenant IDs for periodic metrics collection.
type TenantProvider interface {
	GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects alert and leave metrics every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, tenantProvider, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectGaugeMetrics(ctx, tenantProvider)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectGaugeMetrics(ctx, tenantProvider)
		}
	}
}

// collectGaugeMetrics collects gauge metrics for all tenants.
func (bm *BusinessMetrics) collectGaugeMetrics(ctx context.Context, tenantProvider TenantProvider) {
	if bm.alertProvider == nil {
		bm.logger.Debug("No alert provider configured, skipping gauge metrics collection")
		return
	}

	tenantIDs, err := tenantProvider.GetActiveTenantIDs(ctx)
	if err != nil {
		bm.logger.Error("Failed to get tenant IDs for metrics collection", zap.Error(err))
		return
	}

	for _, tenantID := range tenantIDs {
		bm.collectTenantGaugeMetrics(ctx, tenantID)
	}
}

// collectTenantGaugeMetrics collects gauge metrics for a single tenant.
func (bm *BusinessMetrics) collectTenantGaugeMetrics(ctx context.Context, tenantID uuid.UUID) {
	openAlerts, err := bm.alertProvider.GetOpenAlertCount(ctx, tenantID)
	if err != nil {
		bm.logger.Warn("Failed to get open alert count for tenant",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordOpenAlertCount(ctx, tenantID, openAlerts)
	}

	pendingDays, err := bm.alertProvider.GetPendingLeaveDays(ctx, tenantID)
	if err != nil {
		bm.logger.Warn("Failed to get pending leave days for tenant",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordPendingLeaveDays(ctx, tenantID, pendingDays)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
