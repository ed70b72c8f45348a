package models

import (
	"encoding/json"
	"time"

	"github.com/bizsuite/backend/internal/domain/insight"
	"github.com/bizsuite/backend/internal/domain/shared"
)

// AIInsightModel is the GORM model for AI-generated insights.
type AIInsightModel struct {
	TenantAggregateModel
	Category       string     `gorm:"type:varchar(20);not null;index"`
	Severity       string     `gorm:"type:varchar(20);not null;index"`
	Title          string     `gorm:"type:varchar(200);not null"`
	Body           string     `gorm:"type:text"`
	Evidence       string     `gorm:"type:jsonb;default:'{}'"`
	Acknowledged   bool       `gorm:"not null;default:false;index"`
	AcknowledgedAt *time.Time `gorm:""`
	AcknowledgedBy string     `gorm:"type:varchar(100)"`
}

// TableName returns the table name
func (AIInsightModel) TableName() string {
	return "ai_insights"
}

// ToDomain converts the model to a domain insight
func (m *AIInsightModel) ToDomain() *insight.AIInsight {
	ins := &insight.AIInsight{
		Category:       insight.InsightCategory(m.Category),
		Severity:       insight.InsightSeverity(m.Severity),
		Title:          m.Title,
		Body:           m.Body,
		Evidence:       m.Evidence,
		Acknowledged:   m.Acknowledged,
		AcknowledgedAt: m.AcknowledgedAt,
		AcknowledgedBy: m.AcknowledgedBy,
	}
	m.PopulateTenantAggregateRoot(&ins.TenantAggregateRoot)
	return ins
}

// FromDomain populates the model from a domain insight
func (m *AIInsightModel) FromDomain(ins *insight.AIInsight) {
	m.FromDomainTenantAggregateRoot(ins.TenantAggregateRoot)
	m.Category = string(ins.Category)
	m.Severity = string(ins.Severity)
	m.Title = ins.Title
	m.Body = ins.Body
	m.Evidence = ins.Evidence
	m.Acknowledged = ins.Acknowledged
	m.AcknowledgedAt = ins.AcknowledgedAt
	m.AcknowledgedBy = ins.AcknowledgedBy
}

// AIInsightModelFromDomain creates a model from a domain insight
func AIInsightModelFromDomain(ins *insight.AIInsight) *AIInsightModel {
	m := &AIInsightModel{}
	m.FromDomain(ins)
	return m
}

// DecisionModel is the GORM model for autonomous decisions.
// Options are stored as a JSON array in a jsonb column.
type DecisionModel struct {
	TenantAggregateModel
	DecisionType   string     `gorm:"type:varchar(30);not null;index"`
	Context        string     `gorm:"type:text"`
	Options        string     `gorm:"type:jsonb;not null;default:'[]'"`
	Recommended    string     `gorm:"type:varchar(200)"`
	Reasoning      string     `gorm:"type:text"`
	RiskAssessment string     `gorm:"type:varchar(20);not null"`
	Multiplier     float64    `gorm:"not null;default:1"`
	Status         string     `gorm:"type:varchar(20);not null;default:'pending';index"`
	DecidedAt      *time.Time `gorm:""`
	DecidedBy      string     `gorm:"type:varchar(100)"`
}

// TableName returns the table name
func (DecisionModel) TableName() string {
	return "autonomous_decisions"
}

// ToDomain converts the model to a domain decision.
// Returns an error if the stored options JSON is corrupt.
func (m *DecisionModel) ToDomain() (*insight.AutonomousDecision, error) {
	var options []insight.DecisionOption
	if m.Options != "" {
		if err := json.Unmarshal([]byte(m.Options), &options); err != nil {
			return nil, shared.NewDomainError("CORRUPT_OPTIONS", "Failed to decode decision options: "+err.Error())
		}
	}

	d := &insight.AutonomousDecision{
		Type:           insight.DecisionType(m.DecisionType),
		Context:        m.Context,
		Options:        options,
		Recommended:    m.Recommended,
		Reasoning:      m.Reasoning,
		RiskAssessment: insight.RiskBand(m.RiskAssessment),
		Multiplier:     m.Multiplier,
		Status:         insight.DecisionStatus(m.Status),
		DecidedAt:      m.DecidedAt,
		DecidedBy:      m.DecidedBy,
	}
	m.PopulateTenantAggregateRoot(&d.TenantAggregateRoot)
	return d, nil
}

// FromDomain populates the model from a domain decision
func (m *DecisionModel) FromDomain(d *insight.AutonomousDecision) error {
	optionsJSON, err := json.Marshal(d.Options)
	if err != nil {
		return shared.NewDomainError("INVALID_OPTIONS", "Failed to encode decision options: "+err.Error())
	}

	m.FromDomainTenantAggregateRoot(d.TenantAggregateRoot)
	m.DecisionType = string(d.Type)
	m.Context = d.Context
	m.Options = string(optionsJSON)
	m.Recommended = d.Recommended
	m.Reasoning = d.Reasoning
	m.RiskAssessment = string(d.RiskAssessment)
	m.Multiplier = d.Multiplier
	m.Status = string(d.Status)
	m.DecidedAt = d.DecidedAt
	m.DecidedBy = d.DecidedBy
	return nil
}

// DecisionModelFromDomain creates a model from a domain decision
func DecisionModelFromDomain(d *insight.AutonomousDecision) (*DecisionModel, error) {
	m := &DecisionModel{}
	if err := m.FromDomain(d); err != nil {
		return nil, err
	}
	return m, nil
}

// PerformanceMetricModel is the GORM model for performance metric samples.
// Samples are append-only and pruned by the retention job.
type PerformanceMetricModel struct {
	TenantAggregateModel
	Name       string    `gorm:"type:varchar(100);not null;index:idx_metrics_name_recorded"`
	Value      float64   `gorm:"not null"`
	Unit       string    `gorm:"type:varchar(20)"`
	RecordedAt time.Time `gorm:"not null;index:idx_metrics_name_recorded"`
}

// TableName returns the table name
func (PerformanceMetricModel) TableName() string {
	return "performance_metrics"
}

// ToDomain converts the model to a domain metric
func (m *PerformanceMetricModel) ToDomain() *insight.PerformanceMetric {
	pm := &insight.PerformanceMetric{
		Name:       m.Name,
		Value:      m.Value,
		Unit:       m.Unit,
		RecordedAt: m.RecordedAt,
	}
	m.PopulateTenantAggregateRoot(&pm.TenantAggregateRoot)
	return pm
}

// FromDomain populates the model from a domain metric
func (m *PerformanceMetricModel) FromDomain(pm *insight.PerformanceMetric) {
	m.FromDomainTenantAggregateRoot(pm.TenantAggregateRoot)
	m.Name = pm.Name
	m.Value = pm.Value
	m.Unit = pm.Unit
	m.RecordedAt = pm.RecordedAt
}

// PerformanceMetricModelFromDomain creates a model from a domain metric
func PerformanceMetricModelFromDomain(pm *insight.PerformanceMetric) *PerformanceMetricModel {
	m := &PerformanceMetricModel{}
	m.FromDomain(pm)
	return m
}

// PerformanceAlertModel is the GORM model for performance alerts.
type PerformanceAlertModel struct {
	TenantAggregateModel
	MetricName  string     `gorm:"type:varchar(100);not null;index"`
	Severity    string     `gorm:"type:varchar(20);not null"`
	Threshold   float64    `gorm:"not null"`
	Value       float64    `gorm:"not null"`
	Status      string     `gorm:"type:varchar(20);not null;default:'open';index"`
	TriggeredAt time.Time  `gorm:"not null"`
	ResolvedAt  *time.Time `gorm:""`
	ResolvedBy  string     `gorm:"type:varchar(100)"`
}

// TableName returns the table name
func (PerformanceAlertModel) TableName() string {
	return "performance_alerts"
}

// ToDomain converts the model to a domain alert
func (m *PerformanceAlertModel) ToDomain() *insight.PerformanceAlert {
	a := &insight.PerformanceAlert{
		MetricName:  m.MetricName,
		Severity:    insight.AlertSeverity(m.Severity),
		Threshold:   m.Threshold,
		Value:       m.Value,
		Status:      insight.AlertStatus(m.Status),
		TriggeredAt: m.TriggeredAt,
		ResolvedAt:  m.ResolvedAt,
		ResolvedBy:  m.ResolvedBy,
	}
	m.PopulateTenantAggregateRoot(&a.TenantAggregateRoot)
	return a
}

// FromDomain populates the model from a domain alert
func (m *PerformanceAlertModel) FromDomain(a *insight.PerformanceAlert) {
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.MetricName = a.MetricName
	m.Severity = string(a.Severity)
	m.Threshold = a.Threshold
	m.Value = a.Value
	m.Status = string(a.Status)
	m.TriggeredAt = a.TriggeredAt
	m.ResolvedAt = a.ResolvedAt
	m.ResolvedBy = a.ResolvedBy
}

// PerformanceAlertModelFromDomain creates a model from a domain alert
func PerformanceAlertModelFromDomain(a *insight.PerformanceAlert) *PerformanceAlertModel {
	m := &PerformanceAlertModel{}
	m.FromDomain(a)
	return m
}
