package insight

import (
	"context"
	"testing"

	"github.com/bizsuite/backend/internal/domain/insight"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type MockDecisionRepository struct {
	mock.Mock
}

func (m *MockDecisionRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*insight.AutonomousDecision, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*insight.AutonomousDecision), args.Error(1)
}

func (m *MockDecisionRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]insight.AutonomousDecision, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]insight.AutonomousDecision), args.Error(1)
}

func (m *MockDecisionRepository) FindByType(ctx context.Context, tenantID uuid.UUID, decisionType insight.DecisionType, filter shared.Filter) ([]insight.AutonomousDecision, error) {
	args := m.Called(ctx, tenantID, decisionType, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]insight.AutonomousDecision), args.Error(1)
}

func (m *MockDecisionRepository) CountByOutcome(ctx context.Context, tenantID uuid.UUID, decisionType insight.DecisionType) (int64, int64, error) {
	args := m.Called(ctx, tenantID, decisionType)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockDecisionRepository) Save(ctx context.Context, decision *insight.AutonomousDecision) error {
	args := m.Called(ctx, decision)
	return args.Error(0)
}

func (m *MockDecisionRepository) Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

var _ insight.DecisionRepository = (*MockDecisionRepository)(nil)

// ============================================================================
// Test Helper Functions
// ============================================================================

func newDecisionService() (*DecisionService, *MockDecisionRepository) {
	repo := new(MockDecisionRepository)
	return NewDecisionService(repo, zap.NewNop()), repo
}

func createTestDecision(t *testing.T, tenantID uuid.UUID) *insight.AutonomousDecision {
	t.Helper()

	options, err := insight.GenerateOptions(insight.DecisionTypeBudget)
	require.NoError(t, err)

	decision, err := insight.NewAutonomousDecision(tenantID, insight.DecisionTypeBudget,
		"Q3 spend is tracking 12% over plan", options, 1.0)
	require.NoError(t, err)

	return decision
}

// ============================================================================
// Tests
// ============================================================================

func TestDecisionService_Request_NoHistory(t *testing.T) {
	service, repo := newDecisionService()

	ctx := context.Background()
	tenantID := newInsightTestTenantID()

	repo.On("CountByOutcome", ctx, tenantID, insight.DecisionTypePricing).
		Return(int64(0), int64(0), nil)
	repo.On("Save", ctx, mock.AnythingOfType("*insight.AutonomousDecision")).Return(nil)

	result, err := service.Request(ctx, tenantID, RequestDecisionRequest{
		Type:    "pricing",
		Context: "Churn is flat and competitors raised prices last month",
	})

	require.NoError(t, err)
	assert.Equal(t, 1.0, result.Multiplier)
	assert.Equal(t, "pending", result.Status)
	assert.Len(t, result.Options, 3)
	// Without review history the cautious option wins on low cost and risk
	assert.Equal(t, "hold_prices", result.Recommended)
	assert.Equal(t, "low", result.RiskAssessment)
	repo.AssertExpectations(t)
}

func TestDecisionService_Request_AcceptanceHistoryShiftsRecommendation(t *testing.T) {
	service, repo := newDecisionService()

	ctx := context.Background()
	tenantID := newInsightTestTenantID()

	repo.On("CountByOutcome", ctx, tenantID, insight.DecisionTypePricing).
		Return(int64(10), int64(0), nil)
	repo.On("Save", ctx, mock.AnythingOfType("*insight.AutonomousDecision")).Return(nil)

	result, err := service.Request(ctx, tenantID, RequestDecisionRequest{Type: "pricing"})

	require.NoError(t, err)
	assert.Equal(t, 1.5, result.Multiplier)
	// A run of accepted recommendations weights impact over risk
	assert.Equal(t, "raise_prices", result.Recommended)
	assert.Equal(t, "medium", result.RiskAssessment)
}

func TestDecisionService_Request_RejectionHistoryKeepsCaution(t *testing.T) {
	service, repo := newDecisionService()

	ctx := context.Background()
	tenantID := newInsightTestTenantID()

	repo.On("CountByOutcome", ctx, tenantID, insight.DecisionTypePricing).
		Return(int64(0), int64(10), nil)
	repo.On("Save", ctx, mock.AnythingOfType("*insight.AutonomousDecision")).Return(nil)

	result, err := service.Request(ctx, tenantID, RequestDecisionRequest{Type: "pricing"})

	require.NoError(t, err)
	assert.Equal(t, 0.5, result.Multiplier)
	assert.Equal(t, "hold_prices", result.Recommended)
}

func TestDecisionService_Request_UnknownType(t *testing.T) {
	service, repo := newDecisionService()

	ctx := context.Background()
	tenantID := newInsightTestTenantID()

	_, err := service.Request(ctx, tenantID, RequestDecisionRequest{Type: "merger"})

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_DECISION_TYPE", domainErr.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestDecisionService_Accept_Success(t *testing.T) {
	service, repo := newDecisionService()

	ctx := context.Background()
	tenantID := newInsightTestTenantID()
	decision := createTestDecision(t, tenantID)

	repo.On("FindByID", ctx, tenantID, decision.ID).Return(decision, nil)
	repo.On("Save", ctx, decision).Return(nil)

	result, err := service.Accept(ctx, tenantID, decision.ID, ReviewDecisionRequest{Reviewer: "cfo"})

	require.NoError(t, err)
	assert.Equal(t, "accepted", result.Status)
	assert.Equal(t, "cfo", result.DecidedBy)
	assert.NotNil(t, result.DecidedAt)
	repo.AssertExpectations(t)
}

func TestDecisionService_Reject_Success(t *testing.T) {
	service, repo := newDecisionService()

	ctx := context.Background()
	tenantID := newInsightTestTenantID()
	decision := createTestDecision(t, tenantID)

	repo.On("FindByID", ctx, tenantID, decision.ID).Return(decision, nil)
	repo.On("Save", ctx, decision).Return(nil)

	result, err := service.Reject(ctx, tenantID, decision.ID, ReviewDecisionRequest{Reviewer: "cfo"})

	require.NoError(t, err)
	assert.Equal(t, "rejected", result.Status)
	repo.AssertExpectations(t)
}

func TestDecisionService_Accept_AlreadyReviewed(t *testing.T) {
	service, repo := newDecisionService()

	ctx := context.Background()
	tenantID := newInsightTestTenantID()
	decision := createTestDecision(t, tenantID)
	require.NoError(t, decision.Reject("cfo"))

	repo.On("FindByID", ctx, tenantID, decision.ID).Return(decision, nil)

	_, err := service.Accept(ctx, tenantID, decision.ID, ReviewDecisionRequest{Reviewer: "ceo"})

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestDecisionService_List_TypeFilter(t *testing.T) {
	service, repo := newDecisionService()

	ctx := context.Background()
	tenantID := newInsightTestTenantID()
	decision := createTestDecision(t, tenantID)

	expectedFilter := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == 20 && f.OrderBy == "created_at" && f.OrderDir == "desc"
	})
	repo.On("FindByType", ctx, tenantID, insight.DecisionTypeBudget, expectedFilter).
		Return([]insight.AutonomousDecision{*decision}, nil)
	repo.On("Count", ctx, tenantID, expectedFilter).Return(int64(1), nil)

	results, total, err := service.List(ctx, tenantID, DecisionListFilter{Type: "budget"})

	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, int64(1), total)
	repo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything, mock.Anything)
}
