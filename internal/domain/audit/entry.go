package audit

import (
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AuditAction represents the kind of change recorded in the trail
type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
	AuditActionLogin  AuditAction = "login"
	AuditActionExport AuditAction = "export"
)

// IsValid checks if the action is a valid AuditAction
func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionCreate, AuditActionUpdate, AuditActionDelete, AuditActionLogin, AuditActionExport:
		return true
	}
	return false
}

// String returns the string representation of AuditAction
func (a AuditAction) String() string {
	return string(a)
}

// AuditEntry is an immutable record of a change made inside a tenant.
// Entries are append-only; nothing mutates them after creation.
type AuditEntry struct {
	shared.TenantAggregateRoot
	ActorID    uuid.UUID
	ActorName  string
	Action     AuditAction
	EntityType string
	EntityID   uuid.UUID
	Summary    string
	RequestID  string
	Payload    []byte
}

// TableName returns the table name for GORM
func (e *AuditEntry) TableName() string {
	return "audit_entries"
}

// NewAuditEntry creates an audit record for an action on an entity
func NewAuditEntry(tenantID, actorID uuid.UUID, actorName string, action AuditAction, entityType string, entityID uuid.UUID, summary string) (*AuditEntry, error) {
	if !action.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACTION", "Unknown audit action")
	}
	if entityType == "" {
		return nil, shared.NewDomainError("INVALID_ENTITY_TYPE", "Entity type cannot be empty")
	}
	if len(summary) > 500 {
		summary = summary[:500]
	}

	return &AuditEntry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ActorID:             actorID,
		ActorName:           actorName,
		Action:              action,
		EntityType:          entityType,
		EntityID:            entityID,
		Summary:             summary,
	}, nil
}

// WithRequestID attaches the originating request ID for correlation
func (e *AuditEntry) WithRequestID(requestID string) *AuditEntry {
	e.RequestID = requestID
	return e
}

// WithPayload attaches the serialized domain event that produced the entry
func (e *AuditEntry) WithPayload(payload []byte) *AuditEntry {
	e.Payload = payload
	return e
}
