package insight

import (
	"time"

	"github.com/bizsuite/backend/internal/domain/insight"
	"github.com/google/uuid"
)

// AcknowledgeInsightRequest carries the acknowledging user
type AcknowledgeInsightRequest struct {
	User string `json:"user" binding:"required,max=100"`
}

// InsightResponse is the full insight representation
type InsightResponse struct {
	ID             uuid.UUID  `json:"id"`
	TenantID       uuid.UUID  `json:"tenant_id"`
	Category       string     `json:"category"`
	Severity       string     `json:"severity"`
	Title          string     `json:"title"`
	Body           string     `json:"body"`
	Evidence       string     `json:"evidence"`
	Acknowledged   bool       `json:"acknowledged"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	AcknowledgedBy string     `json:"acknowledged_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// InsightListFilter contains list filtering options for insights
type InsightListFilter struct {
	Page           int
	PageSize       int
	OrderBy        string
	OrderDir       string
	Category       string
	Severity       string
	Unacknowledged bool
}

// ToInsightResponse converts a domain insight to a response DTO
func ToInsightResponse(i *insight.AIInsight) InsightResponse {
	return InsightResponse{
		ID:             i.ID,
		TenantID:       i.TenantID,
		Category:       string(i.Category),
		Severity:       string(i.Severity),
		Title:          i.Title,
		Body:           i.Body,
		Evidence:       i.Evidence,
		Acknowledged:   i.Acknowledged,
		AcknowledgedAt: i.AcknowledgedAt,
		AcknowledgedBy: i.AcknowledgedBy,
		CreatedAt:      i.CreatedAt,
	}
}

// ToInsightResponses converts a slice of domain insights
func ToInsightResponses(insights []insight.AIInsight) []InsightResponse {
	responses := make([]InsightResponse, len(insights))
	for i := range insights {
		responses[i] = ToInsightResponse(&insights[i])
	}
	return responses
}

// RequestDecisionRequest asks the engine to score options for a situation
type RequestDecisionRequest struct {
	Type    string `json:"type" binding:"required,oneof=pricing staffing budget scheduling"`
	Context string `json:"context" binding:"max=2000"`
}

// ReviewDecisionRequest carries the reviewer for accept/reject operations
type ReviewDecisionRequest struct {
	Reviewer string `json:"reviewer" binding:"required,max=100"`
}

// DecisionOptionResponse is a scored candidate option
type DecisionOptionResponse struct {
	Label       string  `json:"label"`
	Description string  `json:"description"`
	Impact      float64 `json:"impact"`
	Cost        float64 `json:"cost"`
	Risk        float64 `json:"risk"`
	Feasibility float64 `json:"feasibility"`
	Score       float64 `json:"score"`
}

// DecisionResponse is the full decision representation
type DecisionResponse struct {
	ID             uuid.UUID                `json:"id"`
	TenantID       uuid.UUID                `json:"tenant_id"`
	Type           string                   `json:"type"`
	Context        string                   `json:"context,omitempty"`
	Options        []DecisionOptionResponse `json:"options"`
	Recommended    string                   `json:"recommended"`
	Reasoning      string                   `json:"reasoning"`
	RiskAssessment string                   `json:"risk_assessment"`
	Multiplier     float64                  `json:"multiplier"`
	Status         string                   `json:"status"`
	DecidedAt      *time.Time               `json:"decided_at,omitempty"`
	DecidedBy      string                   `json:"decided_by,omitempty"`
	CreatedAt      time.Time                `json:"created_at"`
}

// DecisionListFilter contains list filtering options for decisions
type DecisionListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Type     string
	Status   string
}

// ToDecisionResponse converts a domain decision to a response DTO
func ToDecisionResponse(d *insight.AutonomousDecision) DecisionResponse {
	options := make([]DecisionOptionResponse, len(d.Options))
	for i, opt := range d.Options {
		options[i] = DecisionOptionResponse{
			Label:       opt.Label,
			Description: opt.Description,
			Impact:      opt.Impact,
			Cost:        opt.Cost,
			Risk:        opt.Risk,
			Feasibility: opt.Feasibility,
			Score:       opt.Score,
		}
	}

	return DecisionResponse{
		ID:             d.ID,
		TenantID:       d.TenantID,
		Type:           string(d.Type),
		Context:        d.Context,
		Options:        options,
		Recommended:    d.Recommended,
		Reasoning:      d.Reasoning,
		RiskAssessment: string(d.RiskAssessment),
		Multiplier:     d.Multiplier,
		Status:         string(d.Status),
		DecidedAt:      d.DecidedAt,
		DecidedBy:      d.DecidedBy,
		CreatedAt:      d.CreatedAt,
	}
}

// ToDecisionResponses converts a slice of domain decisions
func ToDecisionResponses(decisions []insight.AutonomousDecision) []DecisionResponse {
	responses := make([]DecisionResponse, len(decisions))
	for i := range decisions {
		responses[i] = ToDecisionResponse(&decisions[i])
	}
	return responses
}

// RecordMetricRequest ingests one metric sample
type RecordMetricRequest struct {
	Name       string     `json:"name" binding:"required,min=1,max=100"`
	Value      float64    `json:"value"`
	Unit       string     `json:"unit" binding:"max=20"`
	RecordedAt *time.Time `json:"recorded_at"`
}

// MetricResponse is one recorded sample
type MetricResponse struct {
	ID         uuid.UUID `json:"id"`
	TenantID   uuid.UUID `json:"tenant_id"`
	Name       string    `json:"name"`
	Value      float64   `json:"value"`
	Unit       string    `json:"unit,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// MetricListFilter contains list filtering options for metric samples
type MetricListFilter struct {
	Page     int
	PageSize int
	Name     string
	From     *time.Time
	To       *time.Time
}

// MetricSummaryResponse is the rolling aggregation of one metric
type MetricSummaryResponse struct {
	Name  string    `json:"name"`
	Count int64     `json:"count"`
	Avg   float64   `json:"avg"`
	Min   float64   `json:"min"`
	Max   float64   `json:"max"`
	From  time.Time `json:"from"`
	To    time.Time `json:"to"`
}

// ToMetricResponse converts a domain metric sample to a response DTO
func ToMetricResponse(m *insight.PerformanceMetric) MetricResponse {
	return MetricResponse{
		ID:         m.ID,
		TenantID:   m.TenantID,
		Name:       m.Name,
		Value:      m.Value,
		Unit:       m.Unit,
		RecordedAt: m.RecordedAt,
	}
}

// ToMetricResponses converts a slice of domain metric samples
func ToMetricResponses(metrics []insight.PerformanceMetric) []MetricResponse {
	responses := make([]MetricResponse, len(metrics))
	for i := range metrics {
		responses[i] = ToMetricResponse(&metrics[i])
	}
	return responses
}

// ResolveAlertRequest carries the resolving user
type ResolveAlertRequest struct {
	Resolver string `json:"resolver" binding:"required,max=100"`
}

// AlertResponse is the full alert representation
type AlertResponse struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	MetricName  string     `json:"metric_name"`
	Severity    string     `json:"severity"`
	Threshold   float64    `json:"threshold"`
	Value       float64    `json:"value"`
	Status      string     `json:"status"`
	TriggeredAt time.Time  `json:"triggered_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy  string     `json:"resolved_by,omitempty"`
}

// AlertListFilter contains list filtering options for alerts
type AlertListFilter struct {
	Page     int
	PageSize int
	Status   string
}

// ToAlertResponse converts a domain alert to a response DTO
func ToAlertResponse(a *insight.PerformanceAlert) AlertResponse {
	return AlertResponse{
		ID:          a.ID,
		TenantID:    a.TenantID,
		MetricName:  a.MetricName,
		Severity:    string(a.Severity),
		Threshold:   a.Threshold,
		Value:       a.Value,
		Status:      string(a.Status),
		TriggeredAt: a.TriggeredAt,
		ResolvedAt:  a.ResolvedAt,
		ResolvedBy:  a.ResolvedBy,
	}
}

// ToAlertResponses converts a slice of domain alerts
func ToAlertResponses(alerts []insight.PerformanceAlert) []AlertResponse {
	responses := make([]AlertResponse, len(alerts))
	for i := range alerts {
		responses[i] = ToAlertResponse(&alerts[i])
	}
	return responses
}

// VoiceMatchRequest carries the spoken or typed phrase
type VoiceMatchRequest struct {
	Text string `json:"text" binding:"required,max=500"`
}

// VoiceMatchResponse is the resolved intent with captured slots
type VoiceMatchResponse struct {
	Matched bool              `json:"matched"`
	Intent  string            `json:"intent,omitempty"`
	Slots   map[string]string `json:"slots,omitempty"`
}
