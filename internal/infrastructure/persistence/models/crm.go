package models

import (
	"time"

	"github.com/bizsuite/backend/internal/domain/crm"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DealModel is the GORM model for deals.
// Code is unique per tenant, enforced by migration.
type DealModel struct {
	TenantAggregateModel
	Code              string          `gorm:"type:varchar(50);not null;index"`
	Title             string          `gorm:"type:varchar(200);not null"`
	CustomerName      string          `gorm:"type:varchar(200);not null"`
	CustomerContact   string          `gorm:"type:varchar(200)"`
	Amount            decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Stage             string          `gorm:"type:varchar(20);not null;default:'lead';index"`
	Probability       int             `gorm:"not null;default:0"`
	ExpectedCloseDate *time.Time      `gorm:""`
	Owner             string          `gorm:"type:varchar(100);index"`
	Source            string          `gorm:"type:varchar(100)"`
	Notes             string          `gorm:"type:text"`
	WonAt             *time.Time      `gorm:""`
	LostAt            *time.Time      `gorm:""`
	LostReason        string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name
func (DealModel) TableName() string {
	return "deals"
}

// ToDomain converts the model to a domain deal
func (m *DealModel) ToDomain() *crm.Deal {
	d := &crm.Deal{
		Code:              m.Code,
		Title:             m.Title,
		CustomerName:      m.CustomerName,
		CustomerContact:   m.CustomerContact,
		Amount:            m.Amount,
		Stage:             crm.DealStage(m.Stage),
		Probability:       m.Probability,
		ExpectedCloseDate: m.ExpectedCloseDate,
		Owner:             m.Owner,
		Source:            m.Source,
		Notes:             m.Notes,
		WonAt:             m.WonAt,
		LostAt:            m.LostAt,
		LostReason:        m.LostReason,
	}
	m.PopulateTenantAggregateRoot(&d.TenantAggregateRoot)
	return d
}

// FromDomain populates the model from a domain deal
func (m *DealModel) FromDomain(d *crm.Deal) {
	m.FromDomainTenantAggregateRoot(d.TenantAggregateRoot)
	m.Code = d.Code
	m.Title = d.Title
	m.CustomerName = d.CustomerName
	m.CustomerContact = d.CustomerContact
	m.Amount = d.Amount
	m.Stage = string(d.Stage)
	m.Probability = d.Probability
	m.ExpectedCloseDate = d.ExpectedCloseDate
	m.Owner = d.Owner
	m.Source = d.Source
	m.Notes = d.Notes
	m.WonAt = d.WonAt
	m.LostAt = d.LostAt
	m.LostReason = d.LostReason
}

// DealModelFromDomain creates a model from a domain deal
func DealModelFromDomain(d *crm.Deal) *DealModel {
	m := &DealModel{}
	m.FromDomain(d)
	return m
}

// OpportunityModel is the GORM model for sales opportunities.
type OpportunityModel struct {
	TenantAggregateModel
	Name         string          `gorm:"type:varchar(200);not null"`
	CustomerName string          `gorm:"type:varchar(200);not null"`
	DealID       *uuid.UUID      `gorm:"type:uuid;index"`
	Value        decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Status       string          `gorm:"type:varchar(20);not null;default:'open';index"`
	Score        float64         `gorm:"not null;default:0"`
	ScoredAt     *time.Time      `gorm:""`
	Source       string          `gorm:"type:varchar(100)"`
	Notes        string          `gorm:"type:text"`
	DroppedAt    *time.Time      `gorm:""`
	DropReason   string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name
func (OpportunityModel) TableName() string {
	return "opportunities"
}

// ToDomain converts the model to a domain opportunity
func (m *OpportunityModel) ToDomain() *crm.Opportunity {
	o := &crm.Opportunity{
		Name:         m.Name,
		CustomerName: m.CustomerName,
		DealID:       m.DealID,
		Value:        m.Value,
		Status:       crm.OpportunityStatus(m.Status),
		Score:        m.Score,
		ScoredAt:     m.ScoredAt,
		Source:       m.Source,
		Notes:        m.Notes,
		DroppedAt:    m.DroppedAt,
		DropReason:   m.DropReason,
	}
	m.PopulateTenantAggregateRoot(&o.TenantAggregateRoot)
	return o
}

// FromDomain populates the model from a domain opportunity
func (m *OpportunityModel) FromDomain(o *crm.Opportunity) {
	m.FromDomainTenantAggregateRoot(o.TenantAggregateRoot)
	m.Name = o.Name
	m.CustomerName = o.CustomerName
	m.DealID = o.DealID
	m.Value = o.Value
	m.Status = string(o.Status)
	m.Score = o.Score
	m.ScoredAt = o.ScoredAt
	m.Source = o.Source
	m.Notes = o.Notes
	m.DroppedAt = o.DroppedAt
	m.DropReason = o.DropReason
}

// OpportunityModelFromDomain creates a model from a domain opportunity
func OpportunityModelFromDomain(o *crm.Opportunity) *OpportunityModel {
	m := &OpportunityModel{}
	m.FromDomain(o)
	return m
}
