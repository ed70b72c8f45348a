package crm

import (
	"fmt"
	"time"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DealStage represents the pipeline stage of a deal
type DealStage string

const (
	DealStageLead        DealStage = "lead"
	DealStageQualified   DealStage = "qualified"
	DealStageProposal    DealStage = "proposal"
	DealStageNegotiation DealStage = "negotiation"
	DealStageWon         DealStage = "won"
	DealStageLost        DealStage = "lost"
)

// IsValid checks if the stage is a valid DealStage
func (s DealStage) IsValid() bool {
	switch s {
	case DealStageLead, DealStageQualified, DealStageProposal, DealStageNegotiation, DealStageWon, DealStageLost:
		return true
	}
	return false
}

// String returns the string representation of DealStage
func (s DealStage) String() string {
	return string(s)
}

// IsTerminal returns true for won and lost
func (s DealStage) IsTerminal() bool {
	return s == DealStageWon || s == DealStageLost
}

// CanTransitionTo checks if the stage can transition to the target stage.
// The pipeline only moves forward; any non-terminal stage can go to lost.
func (s DealStage) CanTransitionTo(target DealStage) bool {
	switch s {
	case DealStageLead:
		return target == DealStageQualified || target == DealStageLost
	case DealStageQualified:
		return target == DealStageProposal || target == DealStageLost
	case DealStageProposal:
		return target == DealStageNegotiation || target == DealStageLost
	case DealStageNegotiation:
		return target == DealStageWon || target == DealStageLost
	case DealStageWon, DealStageLost:
		return false // Terminal states
	}
	return false
}

// defaultProbability returns the default win probability for a stage
func defaultProbability(stage DealStage) int {
	switch stage {
	case DealStageLead:
		return 10
	case DealStageQualified:
		return 25
	case DealStageProposal:
		return 50
	case DealStageNegotiation:
		return 75
	case DealStageWon:
		return 100
	case DealStageLost:
		return 0
	}
	return 0
}

// Deal represents a sales deal aggregate root.
// It tracks a potential sale through the pipeline from lead to won or lost.
type Deal struct {
	shared.TenantAggregateRoot
	Code              string
	Title             string
	CustomerName      string
	CustomerContact   string
	Amount            decimal.Decimal
	Stage             DealStage
	Probability       int // Win probability in percent, 0-100
	ExpectedCloseDate *time.Time
	Owner             string
	Source            string
	Notes             string
	WonAt             *time.Time
	LostAt            *time.Time
	LostReason        string
}

// NewDeal creates a new deal in the lead stage
func NewDeal(tenantID uuid.UUID, code, title, customerName string, amount valueobject.Money) (*Deal, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Deal code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Deal code cannot exceed 50 characters")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Deal title cannot be empty")
	}
	if len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Deal title cannot exceed 200 characters")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Deal amount cannot be negative")
	}

	deal := &Deal{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Title:               title,
		CustomerName:        customerName,
		Amount:              amount.Amount(),
		Stage:               DealStageLead,
		Probability:         defaultProbability(DealStageLead),
	}

	deal.AddDomainEvent(NewDealCreatedEvent(deal))

	return deal, nil
}

// Update updates the deal's editable fields
// Not allowed once the deal is in a terminal stage
func (d *Deal) Update(title, customerName, customerContact string, amount valueobject.Money) error {
	if d.Stage.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot update a closed deal")
	}
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Deal title cannot be empty")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Deal title cannot exceed 200 characters")
	}
	if customerName == "" {
		return shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Deal amount cannot be negative")
	}

	d.Title = title
	d.CustomerName = customerName
	d.CustomerContact = customerContact
	d.Amount = amount.Amount()
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	return nil
}

// SetOwner assigns the deal to an owner
func (d *Deal) SetOwner(owner string) error {
	if d.Stage.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot reassign a closed deal")
	}
	if len(owner) > 100 {
		return shared.NewDomainError("INVALID_OWNER", "Owner cannot exceed 100 characters")
	}

	d.Owner = owner
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	return nil
}

// SetSource sets where the deal originated from
func (d *Deal) SetSource(source string) {
	d.Source = source
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
}

// SetNotes sets the deal notes
func (d *Deal) SetNotes(notes string) {
	d.Notes = notes
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
}

// SetExpectedCloseDate sets the expected close date
func (d *Deal) SetExpectedCloseDate(date time.Time) error {
	if d.Stage.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot update a closed deal")
	}

	d.ExpectedCloseDate = &date
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	return nil
}

// SetProbability overrides the win probability
func (d *Deal) SetProbability(probability int) error {
	if d.Stage.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot update a closed deal")
	}
	if probability < 0 || probability > 100 {
		return shared.NewDomainError("INVALID_PROBABILITY", "Probability must be between 0 and 100")
	}

	d.Probability = probability
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	return nil
}

// Advance moves the deal to the next pipeline stage.
// Terminal transitions use Win and Lose instead.
func (d *Deal) Advance(target DealStage) error {
	if target == DealStageWon || target == DealStageLost {
		return shared.NewDomainError("INVALID_STATE", "Use win or lose to close a deal")
	}
	if !d.Stage.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move deal from %s to %s", d.Stage, target))
	}

	oldStage := d.Stage
	d.Stage = target
	d.Probability = defaultProbability(target)
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	d.AddDomainEvent(NewDealStageChangedEvent(d, oldStage, target))

	return nil
}

// Win closes the deal as won. Only allowed from the negotiation stage.
func (d *Deal) Win() error {
	if !d.Stage.CanTransitionTo(DealStageWon) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot win deal in %s stage", d.Stage))
	}

	oldStage := d.Stage
	now := time.Now()
	d.Stage = DealStageWon
	d.Probability = 100
	d.WonAt = &now
	d.UpdatedAt = now
	d.IncrementVersion()

	d.AddDomainEvent(NewDealWonEvent(d, oldStage))

	return nil
}

// Lose closes the deal as lost. Allowed from any non-terminal stage.
func (d *Deal) Lose(reason string) error {
	if !d.Stage.CanTransitionTo(DealStageLost) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot lose deal in %s stage", d.Stage))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Lost reason is required")
	}

	oldStage := d.Stage
	now := time.Now()
	d.Stage = DealStageLost
	d.Probability = 0
	d.LostAt = &now
	d.LostReason = reason
	d.UpdatedAt = now
	d.IncrementVersion()

	d.AddDomainEvent(NewDealLostEvent(d, oldStage, reason))

	return nil
}

// GetAmountMoney returns the deal amount as Money
func (d *Deal) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(d.Amount)
}

// WeightedAmount returns amount * probability, the expected value of the deal
func (d *Deal) WeightedAmount() decimal.Decimal {
	return d.Amount.Mul(decimal.NewFromInt(int64(d.Probability))).Div(decimal.NewFromInt(100)).Round(2)
}

// IsOpen returns true if the deal is still in the pipeline
func (d *Deal) IsOpen() bool {
	return !d.Stage.IsTerminal()
}

// IsWon returns true if the deal closed as won
func (d *Deal) IsWon() bool {
	return d.Stage == DealStageWon
}

// IsLost returns true if the deal closed as lost
func (d *Deal) IsLost() bool {
	return d.Stage == DealStageLost
}
