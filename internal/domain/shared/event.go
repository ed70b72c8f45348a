package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the contract every module event satisfies. Aggregates
// raise events on state changes; the in-process bus fans them out to
// subscribers such as the audit trail and cache invalidation.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
	TenantID() uuid.UUID
}

// BaseDomainEvent implements the DomainEvent accessors. Module events
// embed it and add their own payload fields; the json tags shape the
// serialized form stored with audit entries.
type BaseDomainEvent struct {
	ID      uuid.UUID `json:"id"`
	Type    string    `json:"type"`
	At      time.Time `json:"occurred_at"`
	AggID   uuid.UUID `json:"aggregate_id"`
	AggType string    `json:"aggregate_type"`
	Tenant  uuid.UUID `json:"tenant_id"`
}

// NewBaseDomainEvent stamps a new event for the given aggregate
func NewBaseDomainEvent(eventType, aggType string, aggID, tenantID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:      uuid.New(),
		Type:    eventType,
		At:      time.Now(),
		AggID:   aggID,
		AggType: aggType,
		Tenant:  tenantID,
	}
}

// EventID returns the unique event identifier
func (e *BaseDomainEvent) EventID() uuid.UUID {
	return e.ID
}

// EventType returns the event's type name
func (e *BaseDomainEvent) EventType() string {
	return e.Type
}

// OccurredAt returns when the event was raised
func (e *BaseDomainEvent) OccurredAt() time.Time {
	return e.At
}

// AggregateID returns the ID of the aggregate that raised the event
func (e *BaseDomainEvent) AggregateID() uuid.UUID {
	return e.AggID
}

// AggregateType returns the raising aggregate's type name
func (e *BaseDomainEvent) AggregateType() string {
	return e.AggType
}

// TenantID returns the owning tenant
func (e *BaseDomainEvent) TenantID() uuid.UUID {
	return e.Tenant
}
