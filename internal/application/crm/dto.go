package crm

import (
	"time"

	"github.com/bizsuite/backend/internal/domain/crm"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateDealRequest contains fields for creating a deal
type CreateDealRequest struct {
	Code              string          `json:"code" binding:"required,min=1,max=50"`
	Title             string          `json:"title" binding:"required,min=1,max=200"`
	CustomerName      string          `json:"customer_name" binding:"required,max=200"`
	CustomerContact   string          `json:"customer_contact" binding:"max=200"`
	Amount            decimal.Decimal `json:"amount"`
	ExpectedCloseDate *time.Time      `json:"expected_close_date"`
	Owner             string          `json:"owner" binding:"max=100"`
	Source            string          `json:"source" binding:"max=100"`
	Notes             string          `json:"notes"`
}

// UpdateDealRequest contains fields for updating a deal
type UpdateDealRequest struct {
	Title             *string          `json:"title" binding:"omitempty,min=1,max=200"`
	CustomerName      *string          `json:"customer_name" binding:"omitempty,max=200"`
	CustomerContact   *string          `json:"customer_contact" binding:"omitempty,max=200"`
	Amount            *decimal.Decimal `json:"amount"`
	ExpectedCloseDate *time.Time       `json:"expected_close_date"`
	Owner             *string          `json:"owner" binding:"omitempty,max=100"`
	Source            *string          `json:"source" binding:"omitempty,max=100"`
	Notes             *string          `json:"notes"`
	Probability       *int             `json:"probability" binding:"omitempty,min=0,max=100"`
}

// AdvanceDealRequest moves a deal to the next pipeline stage
type AdvanceDealRequest struct {
	Stage string `json:"stage" binding:"required"`
}

// LoseDealRequest closes a deal as lost
type LoseDealRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// DealResponse is the full deal representation
type DealResponse struct {
	ID                uuid.UUID       `json:"id"`
	TenantID          uuid.UUID       `json:"tenant_id"`
	Code              string          `json:"code"`
	Title             string          `json:"title"`
	CustomerName      string          `json:"customer_name"`
	CustomerContact   string          `json:"customer_contact"`
	Amount            decimal.Decimal `json:"amount"`
	WeightedAmount    decimal.Decimal `json:"weighted_amount"`
	Stage             string          `json:"stage"`
	Probability       int             `json:"probability"`
	ExpectedCloseDate *time.Time      `json:"expected_close_date,omitempty"`
	Owner             string          `json:"owner"`
	Source            string          `json:"source"`
	Notes             string          `json:"notes"`
	WonAt             *time.Time      `json:"won_at,omitempty"`
	LostAt            *time.Time      `json:"lost_at,omitempty"`
	LostReason        string          `json:"lost_reason,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// DealListFilter contains list filtering options for deals
type DealListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Stage    string
	Owner    string
}

// StageSummaryResponse is one pipeline stage's aggregate
type StageSummaryResponse struct {
	Stage       string          `json:"stage"`
	Count       int64           `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// PipelineSummaryResponse is the pipeline overview
type PipelineSummaryResponse struct {
	Stages        []StageSummaryResponse `json:"stages"`
	OpenCount     int64                  `json:"open_count"`
	OpenAmount    decimal.Decimal        `json:"open_amount"`
	WeightedTotal decimal.Decimal        `json:"weighted_total"`
}

// ToDealResponse converts a domain deal to a response DTO
func ToDealResponse(d *crm.Deal) DealResponse {
	return DealResponse{
		ID:                d.ID,
		TenantID:          d.TenantID,
		Code:              d.Code,
		Title:             d.Title,
		CustomerName:      d.CustomerName,
		CustomerContact:   d.CustomerContact,
		Amount:            d.Amount,
		WeightedAmount:    d.WeightedAmount(),
		Stage:             string(d.Stage),
		Probability:       d.Probability,
		ExpectedCloseDate: d.ExpectedCloseDate,
		Owner:             d.Owner,
		Source:            d.Source,
		Notes:             d.Notes,
		WonAt:             d.WonAt,
		LostAt:            d.LostAt,
		LostReason:        d.LostReason,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

// ToDealResponses converts a slice of domain deals
func ToDealResponses(deals []crm.Deal) []DealResponse {
	responses := make([]DealResponse, len(deals))
	for i := range deals {
		responses[i] = ToDealResponse(&deals[i])
	}
	return responses
}

// CreateOpportunityRequest contains fields for creating an opportunity
type CreateOpportunityRequest struct {
	Name         string          `json:"name" binding:"required,min=1,max=200"`
	CustomerName string          `json:"customer_name" binding:"max=200"`
	Value        decimal.Decimal `json:"value"`
	Source       string          `json:"source" binding:"max=100"`
	Notes        string          `json:"notes"`
}

// UpdateOpportunityRequest contains fields for updating an opportunity
type UpdateOpportunityRequest struct {
	Name         *string          `json:"name" binding:"omitempty,min=1,max=200"`
	CustomerName *string          `json:"customer_name" binding:"omitempty,max=200"`
	Value        *decimal.Decimal `json:"value"`
	Source       *string          `json:"source" binding:"omitempty,max=100"`
	Notes        *string          `json:"notes"`
}

// ConvertOpportunityRequest converts an opportunity into a new deal
type ConvertOpportunityRequest struct {
	DealCode  string `json:"deal_code" binding:"required,min=1,max=50"`
	DealTitle string `json:"deal_title" binding:"omitempty,max=200"`
	Owner     string `json:"owner" binding:"omitempty,max=100"`
}

// DropOpportunityRequest drops an opportunity
type DropOpportunityRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// OpportunityResponse is the full opportunity representation
type OpportunityResponse struct {
	ID           uuid.UUID       `json:"id"`
	TenantID     uuid.UUID       `json:"tenant_id"`
	Name         string          `json:"name"`
	CustomerName string          `json:"customer_name"`
	DealID       *uuid.UUID      `json:"deal_id,omitempty"`
	Value        decimal.Decimal `json:"value"`
	Status       string          `json:"status"`
	Score        float64         `json:"score"`
	ScoredAt     *time.Time      `json:"scored_at,omitempty"`
	Source       string          `json:"source"`
	Notes        string          `json:"notes"`
	DroppedAt    *time.Time      `json:"dropped_at,omitempty"`
	DropReason   string          `json:"drop_reason,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// OpportunityListFilter contains list filtering options for opportunities
type OpportunityListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Status   string
	MinScore *float64
}

// ToOpportunityResponse converts a domain opportunity to a response DTO
func ToOpportunityResponse(o *crm.Opportunity) OpportunityResponse {
	return OpportunityResponse{
		ID:           o.ID,
		TenantID:     o.TenantID,
		Name:         o.Name,
		CustomerName: o.CustomerName,
		DealID:       o.DealID,
		Value:        o.Value,
		Status:       string(o.Status),
		Score:        o.Score,
		ScoredAt:     o.ScoredAt,
		Source:       o.Source,
		Notes:        o.Notes,
		DroppedAt:    o.DroppedAt,
		DropReason:   o.DropReason,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

// ToOpportunityResponses converts a slice of domain opportunities
func ToOpportunityResponses(opportunities []crm.Opportunity) []OpportunityResponse {
	responses := make([]OpportunityResponse, len(opportunities))
	for i := range opportunities {
		responses[i] = ToOpportunityResponse(&opportunities[i])
	}
	return responses
}
