package identity

import (
	"github.com/bizsuite/backend/internal/domain/shared"
)

const AggregateTypeTenant = "Tenant"

const (
	EventTypeTenantCreated       = "TenantCreated"
	EventTypeTenantUpdated       = "TenantUpdated"
	EventTypeTenantStatusChanged = "TenantStatusChanged"
	EventTypeTenantPlanChanged   = "TenantPlanChanged"
	EventTypeTenantDeleted       = "TenantDeleted"
)

// tenantEvent builds the base envelope. A tenant is its own tenant
// scope, so aggregate ID and tenant ID coincide.
func tenantEvent(eventType string, t *Tenant) shared.BaseDomainEvent {
	return shared.NewBaseDomainEvent(eventType, AggregateTypeTenant, t.ID, t.ID)
}

// TenantCreatedEvent records a newly provisioned tenant
type TenantCreatedEvent struct {
	shared.BaseDomainEvent
	Code   string       `json:"code"`
	Name   string       `json:"name"`
	Status TenantStatus `json:"status"`
	Plan   TenantPlan   `json:"plan"`
}

func NewTenantCreatedEvent(t *Tenant) *TenantCreatedEvent {
	return &TenantCreatedEvent{
		BaseDomainEvent: tenantEvent(EventTypeTenantCreated, t),
		Code:            t.Code,
		Name:            t.Name,
		Status:          t.Status,
		Plan:            t.Plan,
	}
}

// TenantUpdatedEvent records profile changes
type TenantUpdatedEvent struct {
	shared.BaseDomainEvent
	Code    string `json:"code"`
	Name    string `json:"name"`
	Contact string `json:"contact,omitempty"`
	Email   string `json:"email,omitempty"`
}

func NewTenantUpdatedEvent(t *Tenant) *TenantUpdatedEvent {
	return &TenantUpdatedEvent{
		BaseDomainEvent: tenantEvent(EventTypeTenantUpdated, t),
		Code:            t.Code,
		Name:            t.Name,
		Contact:         t.Contact,
		Email:           t.Email,
	}
}

// TenantStatusChangedEvent records activation and suspension moves
type TenantStatusChangedEvent struct {
	shared.BaseDomainEvent
	Code      string       `json:"code"`
	OldStatus TenantStatus `json:"old_status"`
	NewStatus TenantStatus `json:"new_status"`
}

func NewTenantStatusChangedEvent(t *Tenant, oldStatus, newStatus TenantStatus) *TenantStatusChangedEvent {
	return &TenantStatusChangedEvent{
		BaseDomainEvent: tenantEvent(EventTypeTenantStatusChanged, t),
		Code:            t.Code,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// TenantPlanChangedEvent records subscription plan moves
type TenantPlanChangedEvent struct {
	shared.BaseDomainEvent
	Code    string     `json:"code"`
	OldPlan TenantPlan `json:"old_plan"`
	NewPlan TenantPlan `json:"new_plan"`
}

func NewTenantPlanChangedEvent(t *Tenant, oldPlan, newPlan TenantPlan) *TenantPlanChangedEvent {
	return &TenantPlanChangedEvent{
		BaseDomainEvent: tenantEvent(EventTypeTenantPlanChanged, t),
		Code:            t.Code,
		OldPlan:         oldPlan,
		NewPlan:         newPlan,
	}
}

// TenantDeletedEvent records a tenant removal
type TenantDeletedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

func NewTenantDeletedEvent(t *Tenant) *TenantDeletedEvent {
	return &TenantDeletedEvent{
		BaseDomainEvent: tenantEvent(EventTypeTenantDeleted, t),
		Code:            t.Code,
		Name:            t.Name,
	}
}
