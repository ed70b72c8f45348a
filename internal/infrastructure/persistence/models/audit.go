package models

import (
	"github.com/bizsuite/backend/internal/domain/audit"
	"github.com/google/uuid"
)

// AuditEntryModel is the GORM model for audit trail entries.
// The table is append-only, entries are never updated or deleted.
type AuditEntryModel struct {
	TenantAggregateModel
	ActorID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ActorName  string    `gorm:"type:varchar(100);not null"`
	Action     string    `gorm:"type:varchar(20);not null;index"`
	EntityType string    `gorm:"type:varchar(50);not null;index"`
	EntityID   uuid.UUID `gorm:"type:uuid;index"`
	Summary    string    `gorm:"type:varchar(500)"`
	RequestID  string    `gorm:"type:varchar(100)"`
	Payload    []byte    `gorm:"type:jsonb"`
}

// TableName returns the table name
func (AuditEntryModel) TableName() string {
	return "audit_entries"
}

// ToDomain converts the model to a domain audit entry
func (m *AuditEntryModel) ToDomain() *audit.AuditEntry {
	e := &audit.AuditEntry{
		ActorID:    m.ActorID,
		ActorName:  m.ActorName,
		Action:     audit.AuditAction(m.Action),
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		Summary:    m.Summary,
		RequestID:  m.RequestID,
		Payload:    m.Payload,
	}
	m.PopulateTenantAggregateRoot(&e.TenantAggregateRoot)
	return e
}

// FromDomain populates the model from a domain audit entry
func (m *AuditEntryModel) FromDomain(e *audit.AuditEntry) {
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	m.ActorID = e.ActorID
	m.ActorName = e.ActorName
	m.Action = string(e.Action)
	m.EntityType = e.EntityType
	m.EntityID = e.EntityID
	m.Summary = e.Summary
	m.RequestID = e.RequestID
	m.Payload = e.Payload
}

// AuditEntryModelFromDomain creates a model from a domain audit entry
func AuditEntryModelFromDomain(e *audit.AuditEntry) *AuditEntryModel {
	m := &AuditEntryModel{}
	m.FromDomain(e)
	return m
}
