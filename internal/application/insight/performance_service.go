package insight

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bizsuite/backend/internal/domain/insight"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/infrastructure/cache"
	"github.com/bizsuite/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// systemResolver marks alerts closed by the evaluator rather than a user
const systemResolver = "system"

const metricSummaryCachePrefix = "metric_summary:"

// PerformanceService ingests metric samples, serves rolling summaries,
// and evaluates alert thresholds against each metric's own baseline
type PerformanceService struct {
	metricRepo  insight.MetricRepository
	alertRepo   insight.AlertRepository
	reportCache cache.ReportCache
	cfg         config.InsightConfig
	logger      *zap.Logger
}

// NewPerformanceService creates a new PerformanceService
func NewPerformanceService(
	metricRepo insight.MetricRepository,
	alertRepo insight.AlertRepository,
	reportCache cache.ReportCache,
	cfg config.InsightConfig,
	logger *zap.Logger,
) *PerformanceService {
	return &PerformanceService{
		metricRepo:  metricRepo,
		alertRepo:   alertRepo,
		reportCache: reportCache,
		cfg:         cfg,
		logger:      logger,
	}
}

// Record ingests one metric sample and invalidates the cached summary
func (s *PerformanceService) Record(ctx context.Context, tenantID uuid.UUID, req RecordMetricRequest) (*MetricResponse, error) {
	recordedAt := time.Time{}
	if req.RecordedAt != nil {
		recordedAt = *req.RecordedAt
	}

	metric, err := insight.NewPerformanceMetric(tenantID, req.Name, req.Value, req.Unit, recordedAt)
	if err != nil {
		return nil, err
	}

	if err := s.metricRepo.Save(ctx, metric); err != nil {
		return nil, err
	}

	if s.reportCache != nil {
		if err := s.reportCache.Invalidate(ctx, tenantID, metricSummaryCachePrefix+metric.Name); err != nil {
			s.logger.Warn("Failed to invalidate metric summary cache",
				zap.String("metric", metric.Name),
				zap.Error(err))
		}
	}

	response := ToMetricResponse(metric)
	return &response, nil
}

// ListMetrics retrieves metric samples, optionally narrowed to one metric
// and time range
func (s *PerformanceService) ListMetrics(ctx context.Context, tenantID uuid.UUID, filter MetricListFilter) ([]MetricResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 100
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "recorded_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}

	if filter.Name == "" {
		metrics, err := s.metricRepo.FindAll(ctx, tenantID, domainFilter)
		if err != nil {
			return nil, err
		}
		return ToMetricResponses(metrics), nil
	}

	now := time.Now()
	from := now.Add(-s.cfg.MetricRetention)
	to := now
	if filter.From != nil {
		from = *filter.From
	}
	if filter.To != nil {
		to = *filter.To
	}

	metrics, err := s.metricRepo.FindByName(ctx, tenantID, filter.Name, from, to, domainFilter)
	if err != nil {
		return nil, err
	}
	return ToMetricResponses(metrics), nil
}

// MetricNames lists the metric names recorded for a tenant
func (s *PerformanceService) MetricNames(ctx context.Context, tenantID uuid.UUID) ([]string, error) {
	return s.metricRepo.DistinctNames(ctx, tenantID)
}

// Summary returns the rolling avg/min/max of a metric over the configured
// window. Results are cached until the next sample for the metric arrives.
func (s *PerformanceService) Summary(ctx context.Context, tenantID uuid.UUID, name string) (*MetricSummaryResponse, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Metric name cannot be empty")
	}

	cacheKey := metricSummaryCachePrefix + name
	if s.reportCache != nil {
		if payload, err := s.reportCache.Get(ctx, tenantID, cacheKey); err != nil {
			s.logger.Warn("Metric summary cache read failed", zap.Error(err))
		} else if payload != nil {
			var cached MetricSummaryResponse
			if err := json.Unmarshal(payload, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	to := time.Now()
	from := to.Add(-s.cfg.RollupWindow)

	summary, err := s.metricRepo.Summarize(ctx, tenantID, name, from, to)
	if err != nil {
		return nil, err
	}

	response := &MetricSummaryResponse{
		Name:  summary.Name,
		Count: summary.Count,
		Avg:   summary.Avg,
		Min:   summary.Min,
		Max:   summary.Max,
		From:  summary.From,
		To:    summary.To,
	}

	if s.reportCache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.reportCache.Set(ctx, tenantID, cacheKey, payload, cache.DefaultReportTTL); err != nil {
				s.logger.Warn("Metric summary cache write failed", zap.Error(err))
			}
		}
	}

	return response, nil
}

// ListAlerts retrieves alerts with filtering and pagination
func (s *PerformanceService) ListAlerts(ctx context.Context, tenantID uuid.UUID, filter AlertListFilter) ([]AlertResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "triggered_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}

	var (
		alerts []insight.PerformanceAlert
		err    error
	)
	if filter.Status != "" {
		alerts, err = s.alertRepo.FindByStatus(ctx, tenantID, insight.AlertStatus(filter.Status), domainFilter)
	} else {
		alerts, err = s.alertRepo.FindAll(ctx, tenantID, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.alertRepo.Count(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToAlertResponses(alerts), total, nil
}

// ResolveAlert closes an open alert
func (s *PerformanceService) ResolveAlert(ctx context.Context, tenantID, alertID uuid.UUID, req ResolveAlertRequest) (*AlertResponse, error) {
	alert, err := s.alertRepo.FindByID(ctx, tenantID, alertID)
	if err != nil {
		return nil, err
	}

	if err := alert.Resolve(req.Resolver); err != nil {
		return nil, err
	}

	if err := s.alertRepo.Save(ctx, alert); err != nil {
		return nil, err
	}

	s.logger.Info("Alert resolved",
		zap.String("tenant_id", tenantID.String()),
		zap.String("alert_id", alertID.String()),
		zap.String("resolver", req.Resolver))

	response := ToAlertResponse(alert)
	return &response, nil
}

// EvaluateAlerts compares each metric's recent average against its own
// historical baseline. A recent average at or above baseline times the
// configured ratio opens or escalates an alert; a recovered metric
// auto-resolves its open alert. At most one open alert exists per metric.
// Returns the number of alerts newly raised.
func (s *PerformanceService) EvaluateAlerts(ctx context.Context, tenantID uuid.UUID) (int, error) {
	names, err := s.metricRepo.DistinctNames(ctx, tenantID)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	recentFrom := now.Add(-s.cfg.RollupWindow)
	baselineFrom := now.Add(-s.cfg.MetricRetention)

	raised := 0
	for _, name := range names {
		recent, err := s.metricRepo.Summarize(ctx, tenantID, name, recentFrom, now)
		if err != nil {
			return raised, err
		}

		baseline, err := s.metricRepo.Summarize(ctx, tenantID, name, baselineFrom, recentFrom)
		if err != nil {
			return raised, err
		}
		if recent.Count == 0 || baseline.Count == 0 || baseline.Avg <= 0 {
			continue
		}

		threshold := insight.MetricThreshold{
			Warning:  baseline.Avg * s.cfg.AlertWarningRatio,
			Critical: baseline.Avg * s.cfg.AlertCriticalRatio,
		}
		severity, breached := threshold.Evaluate(recent.Avg)

		open, err := s.alertRepo.FindOpenByMetric(ctx, tenantID, name)
		if err != nil {
			return raised, err
		}

		if !breached {
			if open != nil {
				if err := open.Resolve(systemResolver); err != nil {
					return raised, err
				}
				if err := s.alertRepo.Save(ctx, open); err != nil {
					return raised, err
				}
				s.logger.Info("Alert auto-resolved",
					zap.String("tenant_id", tenantID.String()),
					zap.String("metric", name))
			}
			continue
		}

		breachedLevel := threshold.Warning
		if severity == insight.AlertSeverityCritical {
			breachedLevel = threshold.Critical
		}

		if open != nil {
			if err := open.Refresh(severity, breachedLevel, recent.Avg); err != nil {
				return raised, err
			}
			if err := s.alertRepo.Save(ctx, open); err != nil {
				return raised, err
			}
			continue
		}

		alert, err := insight.NewPerformanceAlert(tenantID, name, severity, breachedLevel, recent.Avg)
		if err != nil {
			return raised, err
		}
		if err := s.alertRepo.Save(ctx, alert); err != nil {
			return raised, err
		}
		raised++

		s.logger.Warn("Performance alert raised",
			zap.String("tenant_id", tenantID.String()),
			zap.String("metric", name),
			zap.String("severity", string(severity)),
			zap.Float64("value", recent.Avg),
			zap.Float64("threshold", breachedLevel))
	}

	return raised, nil
}
