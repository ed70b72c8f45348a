package audit

import (
	"encoding/json"
	"time"

	"github.com/bizsuite/backend/internal/domain/audit"
	"github.com/google/uuid"
)

// AuditEntryResponse is the API representation of an audit trail entry
type AuditEntryResponse struct {
	ID         uuid.UUID       `json:"id"`
	TenantID   uuid.UUID       `json:"tenant_id"`
	ActorID    uuid.UUID       `json:"actor_id,omitempty"`
	ActorName  string          `json:"actor_name,omitempty"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   uuid.UUID       `json:"entity_id"`
	Summary    string          `json:"summary,omitempty"`
	RequestID  string          `json:"request_id,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// AuditListFilter contains search options for the audit trail
type AuditListFilter struct {
	Page       int
	PageSize   int
	ActorID    uuid.UUID
	Action     string
	EntityType string
	EntityID   uuid.UUID
	From       *time.Time
	To         *time.Time
}

// ToAuditEntryResponse converts a domain entry to a response DTO
func ToAuditEntryResponse(e *audit.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:         e.ID,
		TenantID:   e.TenantID,
		ActorID:    e.ActorID,
		ActorName:  e.ActorName,
		Action:     e.Action.String(),
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Summary:    e.Summary,
		RequestID:  e.RequestID,
		Payload:    e.Payload,
		CreatedAt:  e.CreatedAt,
	}
}

// ToAuditEntryResponses converts a slice of domain entries to response DTOs
func ToAuditEntryResponses(entries []audit.AuditEntry) []AuditEntryResponse {
	responses := make([]AuditEntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToAuditEntryResponse(&entries[i])
	}
	return responses
}
