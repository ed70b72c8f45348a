package insight

import (
	"time"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AlertSeverity represents how badly a threshold was breached
type AlertSeverity string

const (
	AlertSeverityWarning  AlertSeverity = "warning"
	AlertSeverityCritical AlertSeverity = "critical"
)

// AlertStatus represents the lifecycle of an alert
type AlertStatus string

const (
	AlertStatusOpen     AlertStatus = "open"
	AlertStatusResolved AlertStatus = "resolved"
)

// PerformanceMetric is a single named sample, e.g. api_latency_ms=240
type PerformanceMetric struct {
	shared.TenantAggregateRoot
	Name       string
	Value      float64
	Unit       string
	RecordedAt time.Time
}

// NewPerformanceMetric records a new metric sample
func NewPerformanceMetric(tenantID uuid.UUID, name string, value float64, unit string, recordedAt time.Time) (*PerformanceMetric, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Metric name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Metric name cannot exceed 100 characters")
	}
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	return &PerformanceMetric{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Value:               value,
		Unit:                unit,
		RecordedAt:          recordedAt,
	}, nil
}

// MetricThreshold holds the breach levels for a metric.
// A sample at or above Critical is critical, at or above Warning is a warning.
type MetricThreshold struct {
	Warning  float64
	Critical float64
}

// Evaluate classifies a sample value against the threshold.
// Returns the severity and true when the value breaches a level.
func (t MetricThreshold) Evaluate(value float64) (AlertSeverity, bool) {
	if value >= t.Critical {
		return AlertSeverityCritical, true
	}
	if value >= t.Warning {
		return AlertSeverityWarning, true
	}
	return "", false
}

// PerformanceAlert records a threshold breach for a metric.
// At most one open alert exists per metric name and tenant; repeated
// breaches escalate or refresh the open alert instead of duplicating it.
type PerformanceAlert struct {
	shared.TenantAggregateRoot
	MetricName  string
	Severity    AlertSeverity
	Threshold   float64 // The breached threshold level
	Value       float64 // The sample value that triggered or last refreshed the alert
	Status      AlertStatus
	TriggeredAt time.Time
	ResolvedAt  *time.Time
	ResolvedBy  string
}

// NewPerformanceAlert opens a new alert for a threshold breach
func NewPerformanceAlert(tenantID uuid.UUID, metricName string, severity AlertSeverity, threshold, value float64) (*PerformanceAlert, error) {
	if metricName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Metric name cannot be empty")
	}
	if severity != AlertSeverityWarning && severity != AlertSeverityCritical {
		return nil, shared.NewDomainError("INVALID_SEVERITY", "Unknown alert severity")
	}

	return &PerformanceAlert{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		MetricName:          metricName,
		Severity:            severity,
		Threshold:           threshold,
		Value:               value,
		Status:              AlertStatusOpen,
		TriggeredAt:         time.Now(),
	}, nil
}

// Refresh updates an open alert with a newer breaching sample.
// Severity only escalates; a warning-level sample does not downgrade an
// open critical alert.
func (a *PerformanceAlert) Refresh(severity AlertSeverity, threshold, value float64) error {
	if a.Status != AlertStatusOpen {
		return shared.NewDomainError("INVALID_STATE", "Cannot refresh a resolved alert")
	}

	if severity == AlertSeverityCritical && a.Severity == AlertSeverityWarning {
		a.Severity = AlertSeverityCritical
		a.Threshold = threshold
	}
	a.Value = value
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// Resolve closes the alert
func (a *PerformanceAlert) Resolve(resolver string) error {
	if a.Status != AlertStatusOpen {
		return shared.NewDomainError("ALREADY_RESOLVED", "Alert is already resolved")
	}
	if resolver == "" {
		return shared.NewDomainError("INVALID_RESOLVER", "Resolver is required")
	}

	now := time.Now()
	a.Status = AlertStatusResolved
	a.ResolvedAt = &now
	a.ResolvedBy = resolver
	a.UpdatedAt = now
	a.IncrementVersion()

	return nil
}

// IsOpen returns true if the alert has not been resolved
func (a *PerformanceAlert) IsOpen() bool {
	return a.Status == AlertStatusOpen
}

// MetricSummary aggregates samples of one metric over a window
type MetricSummary struct {
	Name  string
	Count int64
	Avg   float64
	Min   float64
	Max   float64
	From  time.Time
	To    time.Time
}
