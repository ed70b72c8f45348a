package finance

import (
	"context"
	"testing"
	"time"

	"github.com/bizsuite/backend/internal/domain/finance"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/valueobject"
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

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*finance.Invoice, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*finance.Invoice, error) {
	args := m.Called(ctx, tenantID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.Invoice, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status finance.InvoiceStatus, filter shared.Filter) ([]finance.Invoice, error) {
	args := m.Called(ctx, tenantID, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindOverdue(ctx context.Context, tenantID uuid.UUID, asOf time.Time, filter shared.Filter) ([]finance.Invoice, error) {
	args := m.Called(ctx, tenantID, asOf, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *finance.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) SummarizeReceivables(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (*finance.ReceivablesSummary, error) {
	args := m.Called(ctx, tenantID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.ReceivablesSummary), args.Error(1)
}

func (m *MockInvoiceRepository) ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error) {
	args := m.Called(ctx, tenantID, number)
	return args.Bool(0), args.Error(1)
}

var _ finance.InvoiceRepository = (*MockInvoiceRepository)(nil)

// ============================================================================
// Test Helper Functions
// ============================================================================

func newFinanceTestTenantID() uuid.UUID {
	return uuid.MustParse("33333333-3333-3333-3333-333333333333")
}

func createTestInvoice(t *testing.T, tenantID uuid.UUID) *finance.Invoice {
	t.Helper()

	invoice, err := finance.NewInvoice(tenantID, "INV-001", "Initech")
	require.NoError(t, err)

	_, err = invoice.AddItem("Consulting hours", decimal.NewFromInt(10), valueobject.NewMoneyUSD(decimal.NewFromInt(150)))
	require.NoError(t, err)

	invoice.ClearDomainEvents()
	return invoice
}

func issueTestInvoice(t *testing.T, invoice *finance.Invoice) {
	t.Helper()

	require.NoError(t, invoice.Issue())
	invoice.ClearDomainEvents()
}

// ============================================================================
// Tests
// ============================================================================

func TestInvoiceService_Create_Success(t *testing.T) {
	mockRepo := new(MockInvoiceRepository)
	service := NewInvoiceService(mockRepo, zap.NewNop())

	ctx := context.Background()
	tenantID := newFinanceTestTenantID()

	mockRepo.On("ExistsByNumber", ctx, tenantID, "INV-001").Return(false, nil)
	mockRepo.On("Save", ctx, mock.AnythingOfType("*finance.Invoice")).Return(nil)

	taxRate := decimal.NewFromInt(10)
	result, err := service.Create(ctx, tenantID, CreateInvoiceRequest{
		Number:       "INV-001",
		CustomerName: "Initech",
		TaxRate:      &taxRate,
		Items: []CreateInvoiceItemRequest{
			{Description: "Consulting hours", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(150)},
			{Description: "Travel", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(500)},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "draft", result.Status)
	assert.Len(t, result.Items, 2)
	assert.True(t, decimal.NewFromInt(2000).Equal(result.Subtotal))
	assert.True(t, decimal.NewFromInt(200).Equal(result.TaxAmount))
	assert.True(t, decimal.NewFromInt(2200).Equal(result.Total))
	mockRepo.AssertExpectations(t)
}

func TestInvoiceService_Create_DuplicateNumber(t *testing.T) {
	mockRepo := new(MockInvoiceRepository)
	service := NewInvoiceService(mockRepo, zap.NewNop())

	ctx := context.Background()
	tenantID := newFinanceTestTenantID()

	mockRepo.On("ExistsByNumber", ctx, tenantID, "INV-001").Return(true, nil)

	_, err := service.Create(ctx, tenantID, CreateInvoiceRequest{
		Number:       "INV-001",
		CustomerName: "Initech",
	})

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestInvoiceService_Issue_Success(t *testing.T) {
	mockRepo := new(MockInvoiceRepository)
	service := NewInvoiceService(mockRepo, zap.NewNop())

	ctx := context.Background()
	tenantID := newFinanceTestTenantID()
	invoice := createTestInvoice(t, tenantID)

	mockRepo.On("FindByID", ctx, tenantID, invoice.ID).Return(invoice, nil)
	mockRepo.On("Save", ctx, invoice).Return(nil)

	result, err := service.Issue(ctx, tenantID, invoice.ID)

	require.NoError(t, err)
	assert.Equal(t, "issued", result.Status)
	assert.NotNil(t, result.IssuedAt)
	mockRepo.AssertExpectations(t)
}

func TestInvoiceService_Issue_WithoutItemsRejected(t *testing.T) {
	mockRepo := new(MockInvoiceRepository)
	service := NewInvoiceService(mockRepo, zap.NewNop())

	ctx := context.Background()
	tenantID := newFinanceTestTenantID()
	invoice, err := finance.NewInvoice(tenantID, "INV-002", "Initech")
	require.NoError(t, err)
	invoice.ClearDomainEvents()

	mockRepo.On("FindByID", ctx, tenantID, invoice.ID).Return(invoice, nil)

	_, err = service.Issue(ctx, tenantID, invoice.ID)

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NO_ITEMS", domainErr.Code)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestInvoiceService_MarkPaid_FromDraftRejected(t *testing.T) {
	mockRepo := new(MockInvoiceRepository)
	service := NewInvoiceService(mockRepo, zap.NewNop())

	ctx := context.Background()
	tenantID := newFinanceTestTenantID()
	invoice := createTestInvoice(t, tenantID)

	mockRepo.On("FindByID", ctx, tenantID, invoice.ID).Return(invoice, nil)

	_, err := service.MarkPaid(ctx, tenantID, invoice.ID)

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestInvoiceService_MarkPaid_FromIssued(t *testing.T) {
	mockRepo := new(MockInvoiceRepository)
	service := NewInvoiceService(mockRepo, zap.NewNop())

	ctx := context.Background()
	tenantID := newFinanceTestTenantID()
	invoice := createTestInvoice(t, tenantID)
	issueTestInvoice(t, invoice)

	mockRepo.On("FindByID", ctx, tenantID, invoice.ID).Return(invoice, nil)
	mockRepo.On("Save", ctx, invoice).Return(nil)

	result, err := service.MarkPaid(ctx, tenantID, invoice.ID)

	require.NoError(t, err)
	assert.Equal(t, "paid", result.Status)
	assert.NotNil(t, result.PaidAt)
	mockRepo.AssertExpectations(t)
}

func TestInvoiceService_Void_RequiresReason(t *testing.T) {
	mockRepo := new(MockInvoiceRepository)
	service := NewInvoiceService(mockRepo, zap.NewNop())

	ctx := context.Background()
	tenantID := newFinanceTestTenantID()
	invoice := createTestInvoice(t, tenantID)

	mockRepo.On("FindByID", ctx, tenantID, invoice.ID).Return(invoice, nil)

	_, err := service.Void(ctx, tenantID, invoice.ID, VoidInvoiceRequest{})

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_REASON", domainErr.Code)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestInvoiceService_Void_IssuedInvoice(t *testing.T) {
	mockRepo := new(MockInvoiceRepository)
	service := NewInvoiceService(mockRepo, zap.NewNop())

	ctx := context.Background()
	tenantID := newFinanceTestTenantID()
	invoice := createTestInvoice(t, tenantID)
	issueTestInvoice(t, invoice)

	mockRepo.On("FindByID", ctx, tenantID, invoice.ID).Return(invoice, nil)
	mockRepo.On("Save", ctx, invoice).Return(nil)

	result, err := service.Void(ctx, tenantID, invoice.ID, VoidInvoiceRequest{Reason: "duplicate billing"})

	require.NoError(t, err)
	assert.Equal(t, "void", result.Status)
	assert.Equal(t, "duplicate billing", result.VoidReason)
	mockRepo.AssertExpectations(t)
}

func TestInvoiceService_AddItem_OnIssuedRejected(t *testing.T) {
	mockRepo := new(MockInvoiceRepository)
	service := NewInvoiceService(mockRepo, zap.NewNop())

	ctx := context.Background()
	tenantID := newFinanceTestTenantID()
	invoice := createTestInvoice(t, tenantID)
	issueTestInvoice(t, invoice)

	mockRepo.On("FindByID", ctx, tenantID, invoice.ID).Return(invoice, nil)

	_, err := service.AddItem(ctx, tenantID, invoice.ID, CreateInvoiceItemRequest{
		Description: "Extra work",
		Quantity:    decimal.NewFromInt(1),
		UnitPrice:   decimal.NewFromInt(100),
	})

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestInvoiceService_RemoveItem_RecalculatesTotals(t *testing.T) {
	mockRepo := new(MockInvoiceRepository)
	service := NewInvoiceService(mockRepo, zap.NewNop())

	ctx := context.Background()
	tenantID := newFinanceTestTenantID()
	invoice := createTestInvoice(t, tenantID)
	item, err := invoice.AddItem("Travel", decimal.NewFromInt(1), valueobject.NewMoneyUSD(decimal.NewFromInt(500)))
	require.NoError(t, err)

	mockRepo.On("FindByID", ctx, tenantID, invoice.ID).Return(invoice, nil)
	mockRepo.On("Save", ctx, invoice).Return(nil)

	result, err := service.RemoveItem(ctx, tenantID, invoice.ID, item.ID)

	require.NoError(t, err)
	assert.Len(t, result.Items, 1)
	assert.True(t, decimal.NewFromInt(1500).Equal(result.Subtotal))
	mockRepo.AssertExpectations(t)
}

func TestInvoiceService_Delete_IssuedRejected(t *testing.T) {
	mockRepo := new(MockInvoiceRepository)
	service := NewInvoiceService(mockRepo, zap.NewNop())

	ctx := context.Background()
	tenantID := newFinanceTestTenantID()
	invoice := createTestInvoice(t, tenantID)
	issueTestInvoice(t, invoice)

	mockRepo.On("FindByID", ctx, tenantID, invoice.ID).Return(invoice, nil)

	err := service.Delete(ctx, tenantID, invoice.ID)

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CANNOT_DELETE", domainErr.Code)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceService_List_OverdueUsesOverdueQuery(t *testing.T) {
	mockRepo := new(MockInvoiceRepository)
	service := NewInvoiceService(mockRepo, zap.NewNop())

	ctx := context.Background()
	tenantID := newFinanceTestTenantID()
	invoice := createTestInvoice(t, tenantID)

	expectedFilter := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == 20 && f.OrderBy == "created_at" && f.OrderDir == "desc"
	})
	mockRepo.On("FindOverdue", ctx, tenantID, mock.AnythingOfType("time.Time"), expectedFilter).
		Return([]finance.Invoice{*invoice}, nil)
	mockRepo.On("Count", ctx, tenantID, expectedFilter).Return(int64(1), nil)

	results, total, err := service.List(ctx, tenantID, InvoiceListFilter{Overdue: true})

	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, int64(1), total)
	mockRepo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceService_ReceivablesSummary(t *testing.T) {
	mockRepo := new(MockInvoiceRepository)
	service := NewInvoiceService(mockRepo, zap.NewNop())

	ctx := context.Background()
	tenantID := newFinanceTestTenantID()

	mockRepo.On("SummarizeReceivables", ctx, tenantID, mock.AnythingOfType("time.Time")).
		Return(&finance.ReceivablesSummary{
			OutstandingCount:  3,
			OutstandingAmount: decimal.NewFromInt(4500),
			OverdueCount:      1,
			OverdueAmount:     decimal.NewFromInt(1200),
		}, nil)

	result, err := service.ReceivablesSummary(ctx, tenantID)

	require.NoError(t, err)
	assert.Equal(t, int64(3), result.OutstandingCount)
	assert.True(t, decimal.NewFromInt(4500).Equal(result.OutstandingAmount))
	assert.Equal(t, int64(1), result.OverdueCount)
	assert.True(t, decimal.NewFromInt(1200).Equal(result.OverdueAmount))
	assert.False(t, result.AsOf.IsZero())
	mockRepo.AssertExpectations(t)
}
