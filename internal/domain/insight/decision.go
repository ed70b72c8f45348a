package insight

import (
	"fmt"
	"time"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DecisionType represents the kind of decision being made
type DecisionType string

const (
	DecisionTypePricing    DecisionType = "pricing"
	DecisionTypeStaffing   DecisionType = "staffing"
	DecisionTypeBudget     DecisionType = "budget"
	DecisionTypeScheduling DecisionType = "scheduling"
)

// IsValid checks if the type is a valid DecisionType
func (t DecisionType) IsValid() bool {
	switch t {
	case DecisionTypePricing, DecisionTypeStaffing, DecisionTypeBudget, DecisionTypeScheduling:
		return true
	}
	return false
}

// String returns the string representation of DecisionType
func (t DecisionType) String() string {
	return string(t)
}

// DecisionStatus represents the review status of a decision
type DecisionStatus string

const (
	DecisionStatusPending  DecisionStatus = "pending"
	DecisionStatusAccepted DecisionStatus = "accepted"
	DecisionStatusRejected DecisionStatus = "rejected"
)

// RiskBand classifies the residual risk of the recommended option
type RiskBand string

const (
	RiskBandLow    RiskBand = "low"
	RiskBandMedium RiskBand = "medium"
	RiskBandHigh   RiskBand = "high"
)

// DecisionOption is a candidate course of action.
// Impact, Cost, Risk, and Feasibility are 0-100 factor scores.
type DecisionOption struct {
	Label       string  `json:"label"`
	Description string  `json:"description"`
	Impact      float64 `json:"impact"`
	Cost        float64 `json:"cost"`
	Risk        float64 `json:"risk"`
	Feasibility float64 `json:"feasibility"`
	Score       float64 `json:"score"`
}

// Base factor weights for option scoring. Cost and risk count against an
// option, so their contributions use the 100-complement.
const (
	weightImpact      = 0.35
	weightCost        = 0.25
	weightRisk        = 0.25
	weightFeasibility = 0.15
)

// LearningMultiplier derives a weight adjustment from historical review
// outcomes. A track record of accepted recommendations shifts weight toward
// impact; rejections shift it toward caution. Returns 1.0 with no history,
// clamped to [0.5, 1.5].
func LearningMultiplier(accepted, rejected int64) float64 {
	total := accepted + rejected
	if total == 0 {
		return 1.0
	}
	m := 1.0 + 0.5*float64(accepted-rejected)/float64(total)
	if m < 0.5 {
		m = 0.5
	}
	if m > 1.5 {
		m = 1.5
	}
	return m
}

// ScoreOption computes the weighted score of an option.
// The learning multiplier scales the impact weight up and the risk weight
// down when history favors acceptance, and the reverse when it does not.
func ScoreOption(option DecisionOption, multiplier float64) float64 {
	if multiplier <= 0 {
		multiplier = 1.0
	}
	wImpact := weightImpact * multiplier
	wRisk := weightRisk * (2.0 - multiplier)

	score := option.Impact*wImpact +
		(100-option.Cost)*weightCost +
		(100-option.Risk)*wRisk +
		option.Feasibility*weightFeasibility

	if score < 0 {
		score = 0
	}
	return score
}

// riskBandFor classifies an option's risk score into a band
func riskBandFor(risk float64) RiskBand {
	switch {
	case risk <= 33:
		return RiskBandLow
	case risk <= 66:
		return RiskBandMedium
	default:
		return RiskBandHigh
	}
}

// GenerateOptions returns the canned candidate options for a decision type
func GenerateOptions(decisionType DecisionType) ([]DecisionOption, error) {
	switch decisionType {
	case DecisionTypePricing:
		return []DecisionOption{
			{Label: "raise_prices", Description: "Raise list prices by 5% across active plans", Impact: 70, Cost: 20, Risk: 55, Feasibility: 85},
			{Label: "hold_prices", Description: "Keep current pricing and revisit next quarter", Impact: 30, Cost: 5, Risk: 15, Feasibility: 100},
			{Label: "promo_discount", Description: "Run a 10% limited-time discount to win pipeline deals", Impact: 60, Cost: 50, Risk: 40, Feasibility: 75},
		}, nil
	case DecisionTypeStaffing:
		return []DecisionOption{
			{Label: "hire_now", Description: "Open two additional roles in the constrained team", Impact: 75, Cost: 70, Risk: 35, Feasibility: 60},
			{Label: "contract_support", Description: "Bring in contractors for the next two quarters", Impact: 55, Cost: 50, Risk: 30, Feasibility: 80},
			{Label: "rebalance", Description: "Rebalance existing staff toward the busiest projects", Impact: 40, Cost: 10, Risk: 25, Feasibility: 90},
		}, nil
	case DecisionTypeBudget:
		return []DecisionOption{
			{Label: "cut_discretionary", Description: "Cut discretionary spend by 15% for the quarter", Impact: 50, Cost: 15, Risk: 30, Feasibility: 90},
			{Label: "reallocate_growth", Description: "Shift 10% of operations budget into growth initiatives", Impact: 70, Cost: 40, Risk: 55, Feasibility: 65},
			{Label: "hold_budget", Description: "Hold allocations steady and monitor variance monthly", Impact: 25, Cost: 5, Risk: 10, Feasibility: 100},
		}, nil
	case DecisionTypeScheduling:
		return []DecisionOption{
			{Label: "compress_timeline", Description: "Compress the delivery timeline with parallel workstreams", Impact: 65, Cost: 45, Risk: 60, Feasibility: 55},
			{Label: "extend_deadline", Description: "Extend the deadline by two weeks to protect quality", Impact: 45, Cost: 20, Risk: 20, Feasibility: 90},
			{Label: "descope", Description: "Cut non-essential scope to hit the current date", Impact: 55, Cost: 25, Risk: 35, Feasibility: 80},
		}, nil
	default:
		return nil, shared.NewDomainError("INVALID_DECISION_TYPE", "Unknown decision type")
	}
}

// AutonomousDecision represents a scored recommendation awaiting review
type AutonomousDecision struct {
	shared.TenantAggregateRoot
	Type           DecisionType
	Context        string // Free-form description of the situation
	Options        []DecisionOption
	Recommended    string // Label of the max-scoring option
	Reasoning      string
	RiskAssessment RiskBand
	Multiplier     float64 // Learning multiplier used at scoring time
	Status         DecisionStatus
	DecidedAt      *time.Time
	DecidedBy      string
}

// NewAutonomousDecision scores the given options and records the
// recommendation. Options are scored in place.
func NewAutonomousDecision(tenantID uuid.UUID, decisionType DecisionType, context string, options []DecisionOption, multiplier float64) (*AutonomousDecision, error) {
	if !decisionType.IsValid() {
		return nil, shared.NewDomainError("INVALID_DECISION_TYPE", "Unknown decision type")
	}
	if len(options) == 0 {
		return nil, shared.NewDomainError("NO_OPTIONS", "At least one option is required")
	}
	if multiplier <= 0 {
		multiplier = 1.0
	}

	best := 0
	for i := range options {
		options[i].Score = ScoreOption(options[i], multiplier)
		if options[i].Score > options[best].Score {
			best = i
		}
	}
	recommended := options[best]

	reasoning := fmt.Sprintf(
		"Selected %q (score %.1f) out of %d options. Expected impact %.0f against cost %.0f, with risk %.0f and feasibility %.0f. Historical review outcomes weighted scoring by %.2f.",
		recommended.Label, recommended.Score, len(options),
		recommended.Impact, recommended.Cost, recommended.Risk, recommended.Feasibility,
		multiplier,
	)

	return &AutonomousDecision{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Type:                decisionType,
		Context:             context,
		Options:             options,
		Recommended:         recommended.Label,
		Reasoning:           reasoning,
		RiskAssessment:      riskBandFor(recommended.Risk),
		Multiplier:          multiplier,
		Status:              DecisionStatusPending,
	}, nil
}

// Accept marks the recommendation as accepted by a reviewer
func (d *AutonomousDecision) Accept(reviewer string) error {
	if d.Status != DecisionStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Decision is already %s", d.Status))
	}
	if reviewer == "" {
		return shared.NewDomainError("INVALID_REVIEWER", "Reviewer is required")
	}

	now := time.Now()
	d.Status = DecisionStatusAccepted
	d.DecidedAt = &now
	d.DecidedBy = reviewer
	d.UpdatedAt = now
	d.IncrementVersion()

	return nil
}

// Reject marks the recommendation as rejected by a reviewer
func (d *AutonomousDecision) Reject(reviewer string) error {
	if d.Status != DecisionStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Decision is already %s", d.Status))
	}
	if reviewer == "" {
		return shared.NewDomainError("INVALID_REVIEWER", "Reviewer is required")
	}

	now := time.Now()
	d.Status = DecisionStatusRejected
	d.DecidedAt = &now
	d.DecidedBy = reviewer
	d.UpdatedAt = now
	d.IncrementVersion()

	return nil
}

// RecommendedOption returns the recommended option, or nil if not found
func (d *AutonomousDecision) RecommendedOption() *DecisionOption {
	for i := range d.Options {
		if d.Options[i].Label == d.Recommended {
			return &d.Options[i]
		}
	}
	return nil
}

// IsPending returns true if the decision awaits review
func (d *AutonomousDecision) IsPending() bool {
	return d.Status == DecisionStatusPending
}
