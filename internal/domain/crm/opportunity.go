package crm

import (
	"fmt"
	"time"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OpportunityStatus represents the status of an opportunity
type OpportunityStatus string

const (
	OpportunityStatusOpen      OpportunityStatus = "open"
	OpportunityStatusConverted OpportunityStatus = "converted"
	OpportunityStatusDropped   OpportunityStatus = "dropped"
)

// IsValid checks if the status is a valid OpportunityStatus
func (s OpportunityStatus) IsValid() bool {
	switch s {
	case OpportunityStatusOpen, OpportunityStatusConverted, OpportunityStatusDropped:
		return true
	}
	return false
}

// String returns the string representation of OpportunityStatus
func (s OpportunityStatus) String() string {
	return string(s)
}

// Opportunity represents a lead that may become a deal.
// Score is maintained by the insight services.
type Opportunity struct {
	shared.TenantAggregateRoot
	Name         string
	CustomerName string
	DealID       *uuid.UUID // Set when the opportunity is converted into a deal
	Value        decimal.Decimal
	Status       OpportunityStatus
	Score        float64 // 0-100, heuristic priority score
	ScoredAt     *time.Time
	Source       string
	Notes        string
	DroppedAt    *time.Time
	DropReason   string
}

// NewOpportunity creates a new open opportunity
func NewOpportunity(tenantID uuid.UUID, name, customerName string, value valueobject.Money) (*Opportunity, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Opportunity name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Opportunity name cannot exceed 200 characters")
	}
	if value.IsNegative() {
		return nil, shared.NewDomainError("INVALID_VALUE", "Opportunity value cannot be negative")
	}

	return &Opportunity{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		CustomerName:        customerName,
		Value:               value.Amount(),
		Status:              OpportunityStatusOpen,
	}, nil
}

// Update updates the opportunity's editable fields
// Only allowed while open
func (o *Opportunity) Update(name, customerName, source string, value valueobject.Money) error {
	if o.Status != OpportunityStatusOpen {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot update opportunity in %s status", o.Status))
	}
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Opportunity name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Opportunity name cannot exceed 200 characters")
	}
	if value.IsNegative() {
		return shared.NewDomainError("INVALID_VALUE", "Opportunity value cannot be negative")
	}

	o.Name = name
	o.CustomerName = customerName
	o.Source = source
	o.Value = value.Amount()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// SetNotes sets the opportunity notes
func (o *Opportunity) SetNotes(notes string) {
	o.Notes = notes
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// UpdateScore records a new heuristic score for the opportunity
func (o *Opportunity) UpdateScore(score float64) error {
	if score < 0 || score > 100 {
		return shared.NewDomainError("INVALID_SCORE", "Score must be between 0 and 100")
	}

	now := time.Now()
	o.Score = score
	o.ScoredAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

// Convert marks the opportunity as converted into the given deal
func (o *Opportunity) Convert(dealID uuid.UUID) error {
	if o.Status != OpportunityStatusOpen {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot convert opportunity in %s status", o.Status))
	}
	if dealID == uuid.Nil {
		return shared.NewDomainError("INVALID_DEAL", "Deal ID cannot be empty")
	}

	o.Status = OpportunityStatusConverted
	o.DealID = &dealID
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// Drop marks the opportunity as dropped
func (o *Opportunity) Drop(reason string) error {
	if o.Status != OpportunityStatusOpen {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot drop opportunity in %s status", o.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Drop reason is required")
	}

	now := time.Now()
	o.Status = OpportunityStatusDropped
	o.DroppedAt = &now
	o.DropReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

// GetValueMoney returns the opportunity value as Money
func (o *Opportunity) GetValueMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(o.Value)
}

// IsOpen returns true if the opportunity is still open
func (o *Opportunity) IsOpen() bool {
	return o.Status == OpportunityStatusOpen
}
