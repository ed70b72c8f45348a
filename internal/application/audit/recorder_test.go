package audit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/bizsuite/backend/internal/domain/audit"
	"github.com/bizsuite/backend/internal/domain/crm"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/valueobject"
	"github.com/bizsuite/backend/internal/infrastructure/event"
	"github.com/bizsuite/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) Save(ctx context.Context, entry *audit.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*audit.AuditEntry, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*audit.AuditEntry), args.Error(1)
}

func (m *MockEntryRepository) Search(ctx context.Context, tenantID uuid.UUID, query audit.Query, filter shared.Filter) ([]audit.AuditEntry, error) {
	args := m.Called(ctx, tenantID, query, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]audit.AuditEntry), args.Error(1)
}

func (m *MockEntryRepository) Count(ctx context.Context, tenantID uuid.UUID, query audit.Query) (int64, error) {
	args := m.Called(ctx, tenantID, query)
	return args.Get(0).(int64), args.Error(1)
}

var _ audit.EntryRepository = (*MockEntryRepository)(nil)

// ============================================================================
// Test Helper Functions
// ============================================================================

func newAuditTestTenantID() uuid.UUID {
	return uuid.MustParse("66666666-6666-6666-6666-666666666666")
}

func newTestDeal(t *testing.T, tenantID uuid.UUID) *crm.Deal {
	t.Helper()

	deal, err := crm.NewDeal(tenantID, "DEAL-001", "Annual license renewal", "Initech",
		valueobject.NewMoneyUSD(decimal.NewFromInt(48000)))
	require.NoError(t, err)
	return deal
}

// ============================================================================
// Tests
// ============================================================================

func TestRecorder_Handle_CreateEvent(t *testing.T) {
	repo := new(MockEntryRepository)
	recorder := NewRecorder(repo, nil, zap.NewNop())

	tenantID := newAuditTestTenantID()
	deal := newTestDeal(t, tenantID)
	event := crm.NewDealCreatedEvent(deal)

	repo.On("Save", mock.Anything, mock.MatchedBy(func(e *audit.AuditEntry) bool {
		return e.TenantID == tenantID &&
			e.Action == audit.AuditActionCreate &&
			e.EntityType == "Deal" &&
			e.EntityID == deal.ID &&
			e.Summary == "deal created"
	})).Return(nil)

	err := recorder.Handle(context.Background(), event)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestRecorder_Handle_StatusChangeIsUpdate(t *testing.T) {
	repo := new(MockEntryRepository)
	recorder := NewRecorder(repo, nil, zap.NewNop())

	tenantID := newAuditTestTenantID()
	deal := newTestDeal(t, tenantID)
	event := crm.NewDealStageChangedEvent(deal, crm.DealStageLead, crm.DealStageQualified)

	repo.On("Save", mock.Anything, mock.MatchedBy(func(e *audit.AuditEntry) bool {
		return e.Action == audit.AuditActionUpdate &&
			e.Summary == "deal stage changed"
	})).Return(nil)

	err := recorder.Handle(context.Background(), event)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestRecorder_Handle_DeleteEvent(t *testing.T) {
	repo := new(MockEntryRepository)
	recorder := NewRecorder(repo, nil, zap.NewNop())

	tenantID := newAuditTestTenantID()
	deal := newTestDeal(t, tenantID)
	event := crm.NewDealDeletedEvent(deal)

	repo.On("Save", mock.Anything, mock.MatchedBy(func(e *audit.AuditEntry) bool {
		return e.Action == audit.AuditActionDelete
	})).Return(nil)

	err := recorder.Handle(context.Background(), event)

	require.NoError(t, err)
}

func TestRecorder_Handle_CapturesActorAndRequestID(t *testing.T) {
	repo := new(MockEntryRepository)
	recorder := NewRecorder(repo, nil, zap.NewNop())

	tenantID := newAuditTestTenantID()
	deal := newTestDeal(t, tenantID)
	actorID := uuid.New()

	ctx := context.Background()
	ctx, _ = logger.WithUserID(ctx, zap.NewNop(), actorID.String())
	ctx, _ = logger.WithRequestID(ctx, zap.NewNop(), "req-777")

	repo.On("Save", mock.Anything, mock.MatchedBy(func(e *audit.AuditEntry) bool {
		return e.ActorID == actorID && e.RequestID == "req-777"
	})).Return(nil)

	err := recorder.Handle(ctx, crm.NewDealCreatedEvent(deal))

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestRecorder_Handle_AsyncBusKeepsActorAttribution(t *testing.T) {
	repo := new(MockEntryRepository)
	recorder := NewRecorder(repo, nil, zap.NewNop())

	bus := event.NewInMemoryEventBus(zap.NewNop(), event.BusConfig{Async: true, BufferSize: 4, WorkerCount: 1})
	bus.Subscribe(recorder)
	require.NoError(t, bus.Start(context.Background()))

	tenantID := newAuditTestTenantID()
	deal := newTestDeal(t, tenantID)
	actorID := uuid.New()

	ctx := context.Background()
	ctx, _ = logger.WithUserID(ctx, zap.NewNop(), actorID.String())
	ctx, _ = logger.WithRequestID(ctx, zap.NewNop(), "req-async-9")

	repo.On("Save", mock.Anything, mock.MatchedBy(func(e *audit.AuditEntry) bool {
		return e.ActorID == actorID && e.RequestID == "req-async-9"
	})).Return(nil)

	require.NoError(t, bus.Publish(ctx, crm.NewDealCreatedEvent(deal)))
	// Stop drains the queue, so the entry is persisted before the assert
	require.NoError(t, bus.Stop(context.Background()))

	repo.AssertExpectations(t)
}

func TestRecorder_Handle_NoActorFallsBackToSystem(t *testing.T) {
	repo := new(MockEntryRepository)
	recorder := NewRecorder(repo, nil, zap.NewNop())

	tenantID := newAuditTestTenantID()
	deal := newTestDeal(t, tenantID)

	repo.On("Save", mock.Anything, mock.MatchedBy(func(e *audit.AuditEntry) bool {
		return e.ActorID == uuid.Nil && e.ActorName == "system"
	})).Return(nil)

	err := recorder.Handle(context.Background(), crm.NewDealCreatedEvent(deal))

	require.NoError(t, err)
}

func TestRecorder_Handle_AttachesSerializedPayload(t *testing.T) {
	repo := new(MockEntryRepository)
	recorder := NewRecorder(repo, event.NewEventSerializerWithDefaults(), zap.NewNop())

	tenantID := newAuditTestTenantID()
	deal := newTestDeal(t, tenantID)

	repo.On("Save", mock.Anything, mock.MatchedBy(func(e *audit.AuditEntry) bool {
		if len(e.Payload) == 0 {
			return false
		}
		var decoded map[string]interface{}
		if err := json.Unmarshal(e.Payload, &decoded); err != nil {
			return false
		}
		return decoded["code"] == "DEAL-001"
	})).Return(nil)

	err := recorder.Handle(context.Background(), crm.NewDealCreatedEvent(deal))

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestRecorder_Handle_SaveFailureIsSwallowed(t *testing.T) {
	repo := new(MockEntryRepository)
	recorder := NewRecorder(repo, nil, zap.NewNop())

	tenantID := newAuditTestTenantID()
	deal := newTestDeal(t, tenantID)

	repo.On("Save", mock.Anything, mock.Anything).Return(assert.AnError)

	err := recorder.Handle(context.Background(), crm.NewDealCreatedEvent(deal))

	assert.NoError(t, err)
}

func TestRecorder_RecordLogin(t *testing.T) {
	repo := new(MockEntryRepository)
	recorder := NewRecorder(repo, nil, zap.NewNop())

	tenantID := newAuditTestTenantID()
	userID := uuid.New()

	repo.On("Save", mock.Anything, mock.MatchedBy(func(e *audit.AuditEntry) bool {
		return e.Action == audit.AuditActionLogin &&
			e.ActorID == userID &&
			e.ActorName == "jdoe" &&
			e.EntityType == "User" &&
			e.EntityID == userID
	})).Return(nil)

	recorder.RecordLogin(context.Background(), tenantID, userID, "jdoe")

	repo.AssertExpectations(t)
}

func TestTrailService_Search(t *testing.T) {
	repo := new(MockEntryRepository)
	service := NewTrailService(repo, zap.NewNop())

	ctx := context.Background()
	tenantID := newAuditTestTenantID()
	actorID := uuid.New()

	entry, err := audit.NewAuditEntry(tenantID, actorID, "jdoe",
		audit.AuditActionUpdate, "Deal", uuid.New(), "deal stage changed")
	require.NoError(t, err)

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	expectedQuery := audit.Query{ActorID: actorID, Action: audit.AuditActionUpdate, From: from}
	expectedFilter := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == 50 && f.OrderBy == "created_at" && f.OrderDir == "desc"
	})

	repo.On("Search", ctx, tenantID, expectedQuery, expectedFilter).
		Return([]audit.AuditEntry{*entry}, nil)
	repo.On("Count", ctx, tenantID, expectedQuery).Return(int64(1), nil)

	results, total, err := service.Search(ctx, tenantID, AuditListFilter{
		ActorID: actorID,
		Action:  "update",
		From:    &from,
	})

	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "deal stage changed", results[0].Summary)
	repo.AssertExpectations(t)
}

func TestTrailService_GetByID(t *testing.T) {
	repo := new(MockEntryRepository)
	service := NewTrailService(repo, zap.NewNop())

	ctx := context.Background()
	tenantID := newAuditTestTenantID()

	entry, err := audit.NewAuditEntry(tenantID, uuid.New(), "jdoe",
		audit.AuditActionCreate, "Invoice", uuid.New(), "invoice created")
	require.NoError(t, err)

	repo.On("FindByID", ctx, tenantID, entry.ID).Return(entry, nil)

	result, err := service.GetByID(ctx, tenantID, entry.ID)

	require.NoError(t, err)
	assert.Equal(t, "create", result.Action)
	assert.Equal(t, "Invoice", result.EntityType)
}
