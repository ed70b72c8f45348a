package event

import (
	"testing"

	"github.com/bizsuite/backend/internal/domain/crm"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventSerializer_RoundTrip(t *testing.T) {
	serializer := NewEventSerializerWithDefaults()

	deal := &crm.Deal{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(uuid.New()),
		Code:                "deal-001",
		Title:               "Annual license",
		CustomerName:        "Acme Corp",
		Amount:              decimal.NewFromInt(5000),
		Stage:               crm.DealStageLead,
	}
	original := crm.NewDealCreatedEvent(deal)

	data, err := serializer.Serialize(original)
	require.NoError(t, err)

	restored, err := serializer.Deserialize(crm.EventTypeDealCreated, data)
	require.NoError(t, err)

	created, ok := restored.(*crm.DealCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, original.EventID(), created.EventID())
	assert.Equal(t, original.TenantID(), created.TenantID())
	assert.Equal(t, "deal-001", created.Code)
	assert.True(t, created.Amount.Equal(decimal.NewFromInt(5000)))
}

func TestEventSerializer_UnknownType(t *testing.T) {
	serializer := NewEventSerializer()

	_, err := serializer.Deserialize("NoSuchEvent", []byte(`{}`))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown event type")
}

func TestEventSerializer_RegistersAllDomainEvents(t *testing.T) {
	serializer := NewEventSerializerWithDefaults()

	for _, eventType := range []string{
		"TenantCreated", "UserCreated",
		"DealCreated", "DealWon", "DealLost",
		"EmployeeHired", "LeaveApproved",
		"InvoiceIssued", "ExpenseSubmitted",
		"TaskCompleted",
	} {
		assert.True(t, serializer.IsRegistered(eventType), eventType)
	}
}
