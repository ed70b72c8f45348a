package event

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/bizsuite/backend/internal/domain/crm"
	"github.com/bizsuite/backend/internal/domain/finance"
	"github.com/bizsuite/backend/internal/domain/hr"
	"github.com/bizsuite/backend/internal/domain/identity"
	"github.com/bizsuite/backend/internal/domain/project"
	"github.com/bizsuite/backend/internal/domain/shared"
)

// EventSerializer converts domain events to and from JSON. Decoding
// needs the concrete Go type behind each event type string, so every
// event must be registered before it can round-trip.
type EventSerializer struct {
	mu       sync.RWMutex
	registry map[string]reflect.Type
}

func NewEventSerializer() *EventSerializer {
	return &EventSerializer{
		registry: make(map[string]reflect.Type),
	}
}

// NewEventSerializerWithDefaults returns a serializer that already knows
// every event the domain publishes
func NewEventSerializerWithDefaults() *EventSerializer {
	s := NewEventSerializer()
	s.RegisterDomainEvents()
	return s
}

// Register maps an event type string to the concrete type of the given
// instance. The string must match the event's EventType().
func (s *EventSerializer) Register(eventType string, eventInstance shared.DomainEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := reflect.TypeOf(eventInstance)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	s.registry[eventType] = t
}

// RegisterDomainEvents registers every event type the domain publishes
func (s *EventSerializer) RegisterDomainEvents() {
	s.Register(identity.EventTypeTenantCreated, &identity.TenantCreatedEvent{})
	s.Register(identity.EventTypeTenantUpdated, &identity.TenantUpdatedEvent{})
	s.Register(identity.EventTypeTenantStatusChanged, &identity.TenantStatusChangedEvent{})
	s.Register(identity.EventTypeTenantPlanChanged, &identity.TenantPlanChangedEvent{})
	s.Register(identity.EventTypeTenantDeleted, &identity.TenantDeletedEvent{})
	s.Register(identity.EventTypeUserCreated, &identity.UserCreatedEvent{})
	s.Register(identity.EventTypeUserPasswordChanged, &identity.UserPasswordChangedEvent{})
	s.Register(identity.EventTypeUserStatusChanged, &identity.UserStatusChangedEvent{})
	s.Register(identity.EventTypeUserRoleChanged, &identity.UserRoleChangedEvent{})
	s.Register(identity.EventTypeUserDeleted, &identity.UserDeletedEvent{})

	s.Register(crm.EventTypeDealCreated, &crm.DealCreatedEvent{})
	s.Register(crm.EventTypeDealStageChanged, &crm.DealStageChangedEvent{})
	s.Register(crm.EventTypeDealWon, &crm.DealWonEvent{})
	s.Register(crm.EventTypeDealLost, &crm.DealLostEvent{})
	s.Register(crm.EventTypeDealDeleted, &crm.DealDeletedEvent{})

	s.Register(hr.EventTypeEmployeeHired, &hr.EmployeeHiredEvent{})
	s.Register(hr.EventTypeEmployeeStatusChanged, &hr.EmployeeStatusChangedEvent{})
	s.Register(hr.EventTypeEmployeeTerminated, &hr.EmployeeTerminatedEvent{})
	s.Register(hr.EventTypeLeaveSubmitted, &hr.LeaveSubmittedEvent{})
	s.Register(hr.EventTypeLeaveApproved, &hr.LeaveApprovedEvent{})
	s.Register(hr.EventTypeLeaveRejected, &hr.LeaveRejectedEvent{})
	s.Register(hr.EventTypeLeaveCancelled, &hr.LeaveCancelledEvent{})

	s.Register(finance.EventTypeInvoiceCreated, &finance.InvoiceCreatedEvent{})
	s.Register(finance.EventTypeInvoiceIssued, &finance.InvoiceIssuedEvent{})
	s.Register(finance.EventTypeInvoicePaid, &finance.InvoicePaidEvent{})
	s.Register(finance.EventTypeInvoiceVoided, &finance.InvoiceVoidedEvent{})
	s.Register(finance.EventTypeExpenseSubmitted, &finance.ExpenseSubmittedEvent{})
	s.Register(finance.EventTypeExpenseApproved, &finance.ExpenseApprovedEvent{})
	s.Register(finance.EventTypeExpenseRejected, &finance.ExpenseRejectedEvent{})
	s.Register(finance.EventTypeExpensePaid, &finance.ExpensePaidEvent{})

	s.Register(project.EventTypeTaskCreated, &project.TaskCreatedEvent{})
	s.Register(project.EventTypeTaskStatusChanged, &project.TaskStatusChangedEvent{})
	s.Register(project.EventTypeTaskCompleted, &project.TaskCompletedEvent{})
	s.Register(project.EventTypeTaskDeleted, &project.TaskDeletedEvent{})
}

func (s *EventSerializer) Serialize(event shared.DomainEvent) ([]byte, error) {
	return json.Marshal(event)
}

// Deserialize decodes data into a fresh instance of the registered type
func (s *EventSerializer) Deserialize(eventType string, data []byte) (shared.DomainEvent, error) {
	s.mu.RLock()
	t, ok := s.registry[eventType]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	eventPtr := reflect.New(t).Interface()
	if err := json.Unmarshal(data, eventPtr); err != nil {
		return nil, fmt.Errorf("unmarshal %s event: %w", eventType, err)
	}

	event, ok := eventPtr.(shared.DomainEvent)
	if !ok {
		return nil, fmt.Errorf("event type %s does not implement DomainEvent", eventType)
	}
	return event, nil
}

func (s *EventSerializer) IsRegistered(eventType string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.registry[eventType]
	return ok
}

func (s *EventSerializer) RegisteredTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	types := make([]string, 0, len(s.registry))
	for t := range s.registry {
		types = append(types, t)
	}
	return types
}
