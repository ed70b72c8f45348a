package crm

import (
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeDeal = "Deal"

// Event type constants
const (
	EventTypeDealCreated      = "DealCreated"
	EventTypeDealStageChanged = "DealStageChanged"
	EventTypeDealWon          = "DealWon"
	EventTypeDealLost         = "DealLost"
	EventTypeDealDeleted      = "DealDeleted"
)

// DealCreatedEvent is published when a new deal enters the pipeline
type DealCreatedEvent struct {
	shared.BaseDomainEvent
	Code         string          `json:"code"`
	Title        string          `json:"title"`
	CustomerName string          `json:"customer_name"`
	Amount       decimal.Decimal `json:"amount"`
	Stage        DealStage       `json:"stage"`
}

// NewDealCreatedEvent creates a new DealCreatedEvent
func NewDealCreatedEvent(deal *Deal) *DealCreatedEvent {
	return &DealCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealCreated, AggregateTypeDeal, deal.ID, deal.TenantID),
		Code:            deal.Code,
		Title:           deal.Title,
		CustomerName:    deal.CustomerName,
		Amount:          deal.Amount,
		Stage:           deal.Stage,
	}
}

// DealStageChangedEvent is published when a deal moves through the pipeline
type DealStageChangedEvent struct {
	shared.BaseDomainEvent
	Code     string    `json:"code"`
	OldStage DealStage `json:"old_stage"`
	NewStage DealStage `json:"new_stage"`
}

// NewDealStageChangedEvent creates a new DealStageChangedEvent
func NewDealStageChangedEvent(deal *Deal, oldStage, newStage DealStage) *DealStageChangedEvent {
	return &DealStageChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealStageChanged, AggregateTypeDeal, deal.ID, deal.TenantID),
		Code:            deal.Code,
		OldStage:        oldStage,
		NewStage:        newStage,
	}
}

// DealWonEvent is published when a deal closes as won
type DealWonEvent struct {
	shared.BaseDomainEvent
	Code     string          `json:"code"`
	Amount   decimal.Decimal `json:"amount"`
	OldStage DealStage       `json:"old_stage"`
}

// NewDealWonEvent creates a new DealWonEvent
func NewDealWonEvent(deal *Deal, oldStage DealStage) *DealWonEvent {
	return &DealWonEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealWon, AggregateTypeDeal, deal.ID, deal.TenantID),
		Code:            deal.Code,
		Amount:          deal.Amount,
		OldStage:        oldStage,
	}
}

// DealLostEvent is published when a deal closes as lost
type DealLostEvent struct {
	shared.BaseDomainEvent
	Code     string    `json:"code"`
	OldStage DealStage `json:"old_stage"`
	Reason   string    `json:"reason"`
}

// NewDealLostEvent creates a new DealLostEvent
func NewDealLostEvent(deal *Deal, oldStage DealStage, reason string) *DealLostEvent {
	return &DealLostEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealLost, AggregateTypeDeal, deal.ID, deal.TenantID),
		Code:            deal.Code,
		OldStage:        oldStage,
		Reason:          reason,
	}
}

// DealDeletedEvent is published when a deal is deleted
type DealDeletedEvent struct {
	shared.BaseDomainEvent
	Code  string `json:"code"`
	Title string `json:"title"`
}

// NewDealDeletedEvent creates a new DealDeletedEvent
func NewDealDeletedEvent(deal *Deal) *DealDeletedEvent {
	return &DealDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealDeleted, AggregateTypeDeal, deal.ID, deal.TenantID),
		Code:            deal.Code,
		Title:           deal.Title,
	}
}
