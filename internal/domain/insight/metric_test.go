package insight

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPerformanceMetric(t *testing.T) {
	tenantID := uuid.New()

	t.Run("records sample", func(t *testing.T) {
		recorded := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
		metric, err := NewPerformanceMetric(tenantID, "api_latency_ms", 240, "ms", recorded)

		require.NoError(t, err)
		assert.Equal(t, "api_latency_ms", metric.Name)
		assert.Equal(t, 240.0, metric.Value)
		assert.Equal(t, recorded, metric.RecordedAt)
	})

	t.Run("defaults recorded time to now", func(t *testing.T) {
		metric, err := NewPerformanceMetric(tenantID, "api_latency_ms", 240, "ms", time.Time{})

		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), metric.RecordedAt, time.Second)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewPerformanceMetric(tenantID, "", 240, "ms", time.Now())

		assert.Error(t, err)
	})
}

func TestMetricThreshold_Evaluate(t *testing.T) {
	threshold := MetricThreshold{Warning: 500, Critical: 1000}

	tests := []struct {
		name     string
		value    float64
		severity AlertSeverity
		breached bool
	}{
		{"below warning", 499, "", false},
		{"at warning", 500, AlertSeverityWarning, true},
		{"between levels", 750, AlertSeverityWarning, true},
		{"at critical", 1000, AlertSeverityCritical, true},
		{"above critical", 2000, AlertSeverityCritical, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			severity, breached := threshold.Evaluate(tt.value)
			assert.Equal(t, tt.breached, breached)
			assert.Equal(t, tt.severity, severity)
		})
	}
}

func TestPerformanceAlert(t *testing.T) {
	tenantID := uuid.New()

	newOpenAlert := func(t *testing.T, severity AlertSeverity) *PerformanceAlert {
		t.Helper()
		alert, err := NewPerformanceAlert(tenantID, "api_latency_ms", severity, 500, 620)
		require.NoError(t, err)
		return alert
	}

	t.Run("opens alert", func(t *testing.T) {
		alert := newOpenAlert(t, AlertSeverityWarning)

		assert.Equal(t, AlertStatusOpen, alert.Status)
		assert.True(t, alert.IsOpen())
		assert.Equal(t, 620.0, alert.Value)
	})

	t.Run("refresh escalates warning to critical", func(t *testing.T) {
		alert := newOpenAlert(t, AlertSeverityWarning)

		err := alert.Refresh(AlertSeverityCritical, 1000, 1200)

		require.NoError(t, err)
		assert.Equal(t, AlertSeverityCritical, alert.Severity)
		assert.Equal(t, 1000.0, alert.Threshold)
		assert.Equal(t, 1200.0, alert.Value)
	})

	t.Run("refresh never downgrades severity", func(t *testing.T) {
		alert := newOpenAlert(t, AlertSeverityCritical)

		err := alert.Refresh(AlertSeverityWarning, 500, 610)

		require.NoError(t, err)
		assert.Equal(t, AlertSeverityCritical, alert.Severity)
		assert.Equal(t, 610.0, alert.Value)
	})

	t.Run("resolves open alert", func(t *testing.T) {
		alert := newOpenAlert(t, AlertSeverityWarning)

		err := alert.Resolve("oncall")

		require.NoError(t, err)
		assert.Equal(t, AlertStatusResolved, alert.Status)
		assert.Equal(t, "oncall", alert.ResolvedBy)
		assert.NotNil(t, alert.ResolvedAt)
		assert.False(t, alert.IsOpen())
	})

	t.Run("cannot resolve twice", func(t *testing.T) {
		alert := newOpenAlert(t, AlertSeverityWarning)
		require.NoError(t, alert.Resolve("oncall"))

		assert.Error(t, alert.Resolve("oncall"))
	})

	t.Run("cannot refresh resolved alert", func(t *testing.T) {
		alert := newOpenAlert(t, AlertSeverityWarning)
		require.NoError(t, alert.Resolve("oncall"))

		assert.Error(t, alert.Refresh(AlertSeverityCritical, 1000, 1500))
	})

	t.Run("rejects unknown severity", func(t *testing.T) {
		_, err := NewPerformanceAlert(tenantID, "api_latency_ms", AlertSeverity("fatal"), 500, 620)

		assert.Error(t, err)
	})
}
