package report

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/bizsuite/backend/internal/domain/crm"
	"github.com/bizsuite/backend/internal/domain/finance"
	"github.com/bizsuite/backend/internal/domain/hr"
	"github.com/bizsuite/backend/internal/domain/insight"
	"github.com/bizsuite/backend/internal/domain/project"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/valueobject"
	"github.com/bizsuite/backend/internal/infrastructure/cache"
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

type MockDealRepository struct {
	mock.Mock
}

func (m *MockDealRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*crm.Deal, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Deal), args.Error(1)
}

func (m *MockDealRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*crm.Deal, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Deal), args.Error(1)
}

func (m *MockDealRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]crm.Deal, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]crm.Deal), args.Error(1)
}

func (m *MockDealRepository) FindByStage(ctx context.Context, tenantID uuid.UUID, stage crm.DealStage, filter shared.Filter) ([]crm.Deal, error) {
	args := m.Called(ctx, tenantID, stage, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]crm.Deal), args.Error(1)
}

func (m *MockDealRepository) FindByOwner(ctx context.Context, tenantID uuid.UUID, owner string, filter shared.Filter) ([]crm.Deal, error) {
	args := m.Called(ctx, tenantID, owner, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]crm.Deal), args.Error(1)
}

func (m *MockDealRepository) Save(ctx context.Context, deal *crm.Deal) error {
	args := m.Called(ctx, deal)
	return args.Error(0)
}

func (m *MockDealRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockDealRepository) Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDealRepository) SummarizeByStage(ctx context.Context, tenantID uuid.UUID) ([]crm.StageSummary, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]crm.StageSummary), args.Error(1)
}

func (m *MockDealRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

var _ crm.DealRepository = (*MockDealRepository)(nil)

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

type MockEmployeeRepository struct {
	mock.Mock
}

func (m *MockEmployeeRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*hr.Employee, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hr.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*hr.Employee, error) {
	args := m.Called(ctx, tenantID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hr.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]hr.Employee, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]hr.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status hr.EmployeeStatus, filter shared.Filter) ([]hr.Employee, error) {
	args := m.Called(ctx, tenantID, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]hr.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) FindByDepartment(ctx context.Context, tenantID uuid.UUID, department string, filter shared.Filter) ([]hr.Employee, error) {
	args := m.Called(ctx, tenantID, department, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]hr.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) Save(ctx context.Context, employee *hr.Employee) error {
	args := m.Called(ctx, employee)
	return args.Error(0)
}

func (m *MockEmployeeRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockEmployeeRepository) Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEmployeeRepository) ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error) {
	args := m.Called(ctx, tenantID, number)
	return args.Bool(0), args.Error(1)
}

var _ hr.EmployeeRepository = (*MockEmployeeRepository)(nil)

type MockLeaveRequestRepository struct {
	mock.Mock
}

func (m *MockLeaveRequestRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*hr.LeaveRequest, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hr.LeaveRequest), args.Error(1)
}

func (m *MockLeaveRequestRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]hr.LeaveRequest, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]hr.LeaveRequest), args.Error(1)
}

func (m *MockLeaveRequestRepository) FindByEmployee(ctx context.Context, tenantID, employeeID uuid.UUID, filter shared.Filter) ([]hr.LeaveRequest, error) {
	args := m.Called(ctx, tenantID, employeeID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]hr.LeaveRequest), args.Error(1)
}

func (m *MockLeaveRequestRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status hr.LeaveStatus, filter shared.Filter) ([]hr.LeaveRequest, error) {
	args := m.Called(ctx, tenantID, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]hr.LeaveRequest), args.Error(1)
}

func (m *MockLeaveRequestRepository) FindApprovedOverlapping(ctx context.Context, tenantID, employeeID uuid.UUID, start, end time.Time) ([]hr.LeaveRequest, error) {
	args := m.Called(ctx, tenantID, employeeID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]hr.LeaveRequest), args.Error(1)
}

func (m *MockLeaveRequestRepository) SummarizeByType(ctx context.Context, tenantID, employeeID uuid.UUID) ([]hr.LeaveBalance, error) {
	args := m.Called(ctx, tenantID, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]hr.LeaveBalance), args.Error(1)
}

func (m *MockLeaveRequestRepository) SumDaysByStatus(ctx context.Context, tenantID uuid.UUID, status hr.LeaveStatus) (float64, error) {
	args := m.Called(ctx, tenantID, status)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockLeaveRequestRepository) Save(ctx context.Context, request *hr.LeaveRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockLeaveRequestRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockLeaveRequestRepository) Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

var _ hr.LeaveRequestRepository = (*MockLeaveRequestRepository)(nil)

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*project.Task, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Task), args.Error(1)
}

func (m *MockTaskRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*project.Task, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Task), args.Error(1)
}

func (m *MockTaskRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]project.Task, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]project.Task), args.Error(1)
}

func (m *MockTaskRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status project.TaskStatus, filter shared.Filter) ([]project.Task, error) {
	args := m.Called(ctx, tenantID, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]project.Task), args.Error(1)
}

func (m *MockTaskRepository) FindByProject(ctx context.Context, tenantID uuid.UUID, projectName string, filter shared.Filter) ([]project.Task, error) {
	args := m.Called(ctx, tenantID, projectName, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]project.Task), args.Error(1)
}

func (m *MockTaskRepository) FindByAssignee(ctx context.Context, tenantID uuid.UUID, assignee string, filter shared.Filter) ([]project.Task, error) {
	args := m.Called(ctx, tenantID, assignee, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]project.Task), args.Error(1)
}

func (m *MockTaskRepository) Save(ctx context.Context, task *project.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockTaskRepository) Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) SummarizeProject(ctx context.Context, tenantID uuid.UUID, projectName string) (*project.ProjectProgress, error) {
	args := m.Called(ctx, tenantID, projectName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.ProjectProgress), args.Error(1)
}

func (m *MockTaskRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

var _ project.TaskRepository = (*MockTaskRepository)(nil)

type MockAlertRepository struct {
	mock.Mock
}

func (m *MockAlertRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*insight.PerformanceAlert, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*insight.PerformanceAlert), args.Error(1)
}

func (m *MockAlertRepository) FindOpenByMetric(ctx context.Context, tenantID uuid.UUID, metricName string) (*insight.PerformanceAlert, error) {
	args := m.Called(ctx, tenantID, metricName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*insight.PerformanceAlert), args.Error(1)
}

func (m *MockAlertRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]insight.PerformanceAlert, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]insight.PerformanceAlert), args.Error(1)
}

func (m *MockAlertRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status insight.AlertStatus, filter shared.Filter) ([]insight.PerformanceAlert, error) {
	args := m.Called(ctx, tenantID, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]insight.PerformanceAlert), args.Error(1)
}

func (m *MockAlertRepository) Save(ctx context.Context, alert *insight.PerformanceAlert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockAlertRepository) Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAlertRepository) CountOpen(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

var _ insight.AlertRepository = (*MockAlertRepository)(nil)

type MockReportCache struct {
	mock.Mock
}

func (m *MockReportCache) Get(ctx context.Context, tenantID uuid.UUID, key string) ([]byte, error) {
	args := m.Called(ctx, tenantID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockReportCache) Set(ctx context.Context, tenantID uuid.UUID, key string, payload []byte, ttl time.Duration) error {
	args := m.Called(ctx, tenantID, key, payload, ttl)
	return args.Error(0)
}

func (m *MockReportCache) Invalidate(ctx context.Context, tenantID uuid.UUID, key string) error {
	args := m.Called(ctx, tenantID, key)
	return args.Error(0)
}

func (m *MockReportCache) InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

func (m *MockReportCache) Close() error {
	args := m.Called()
	return args.Error(0)
}

var _ cache.ReportCache = (*MockReportCache)(nil)

// ============================================================================
// Test Helper Functions
// ============================================================================

func newReportTestTenantID() uuid.UUID {
	return uuid.MustParse("77777777-7777-7777-7777-777777777777")
}

type dashboardMocks struct {
	dealRepo     *MockDealRepository
	invoiceRepo  *MockInvoiceRepository
	employeeRepo *MockEmployeeRepository
	leaveRepo    *MockLeaveRequestRepository
	taskRepo     *MockTaskRepository
	alertRepo    *MockAlertRepository
	reportCache  *MockReportCache
}

func newDashboardService() (*DashboardService, dashboardMocks) {
	m := dashboardMocks{
		dealRepo:     new(MockDealRepository),
		invoiceRepo:  new(MockInvoiceRepository),
		employeeRepo: new(MockEmployeeRepository),
		leaveRepo:    new(MockLeaveRequestRepository),
		taskRepo:     new(MockTaskRepository),
		alertRepo:    new(MockAlertRepository),
		reportCache:  new(MockReportCache),
	}
	service := NewDashboardService(m.dealRepo, m.invoiceRepo, m.employeeRepo,
		m.leaveRepo, m.taskRepo, m.alertRepo, m.reportCache, zap.NewNop())
	return service, m
}

// coldCache stubs every cache read as a miss and accepts all writes
func coldCache(m dashboardMocks, tenantID uuid.UUID) {
	m.reportCache.On("Get", mock.Anything, tenantID, mock.Anything).Return(nil, nil)
	m.reportCache.On("Set", mock.Anything, tenantID, mock.Anything, mock.Anything, cache.DefaultReportTTL).Return(nil)
}

func countForStatus(status string) interface{} {
	return mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["status"] == status
	})
}

func stubSections(m dashboardMocks, tenantID uuid.UUID) {
	m.dealRepo.On("SummarizeByStage", mock.Anything, tenantID).Return([]crm.StageSummary{
		{Stage: crm.DealStageLead, Count: 3, TotalAmount: decimal.NewFromInt(30000)},
		{Stage: crm.DealStageNegotiation, Count: 1, TotalAmount: decimal.NewFromInt(25000)},
		{Stage: crm.DealStageWon, Count: 2, TotalAmount: decimal.NewFromInt(40000)},
		{Stage: crm.DealStageLost, Count: 1, TotalAmount: decimal.NewFromInt(5000)},
	}, nil)
	m.invoiceRepo.On("SummarizeReceivables", mock.Anything, tenantID, mock.AnythingOfType("time.Time")).
		Return(&finance.ReceivablesSummary{
			OutstandingCount:  5,
			OutstandingAmount: decimal.NewFromInt(12000),
			OverdueCount:      2,
			OverdueAmount:     decimal.NewFromInt(4500),
		}, nil)
	m.employeeRepo.On("Count", mock.Anything, tenantID, countForStatus("active")).Return(int64(10), nil)
	m.employeeRepo.On("Count", mock.Anything, tenantID, countForStatus("on_leave")).Return(int64(2), nil)
	m.leaveRepo.On("Count", mock.Anything, tenantID, countForStatus("submitted")).Return(int64(1), nil)
	m.taskRepo.On("Count", mock.Anything, tenantID, countForStatus("todo")).Return(int64(4), nil)
	m.taskRepo.On("Count", mock.Anything, tenantID, countForStatus("in_progress")).Return(int64(2), nil)
	m.taskRepo.On("Count", mock.Anything, tenantID, countForStatus("review")).Return(int64(1), nil)
	m.alertRepo.On("CountOpen", mock.Anything, tenantID).Return(int64(3), nil)
}

// ============================================================================
// Tests
// ============================================================================

func TestDashboardService_Dashboard_AssemblesAllSections(t *testing.T) {
	service, m := newDashboardService()

	ctx := context.Background()
	tenantID := newReportTestTenantID()
	coldCache(m, tenantID)
	stubSections(m, tenantID)

	result, err := service.Dashboard(ctx, tenantID)

	require.NoError(t, err)

	assert.Len(t, result.Sales.Stages, 4)
	assert.Equal(t, int64(4), result.Sales.OpenCount)
	assert.True(t, result.Sales.OpenValue.Equal(decimal.NewFromInt(55000)))
	assert.Equal(t, int64(2), result.Sales.WonCount)
	assert.True(t, result.Sales.WonValue.Equal(decimal.NewFromInt(40000)))

	assert.Equal(t, int64(5), result.Finance.OutstandingCount)
	assert.True(t, result.Finance.OverdueAmount.Equal(decimal.NewFromInt(4500)))

	assert.Equal(t, int64(12), result.HR.Headcount)
	assert.Equal(t, int64(2), result.HR.OnLeave)
	assert.Equal(t, int64(1), result.HR.PendingLeaves)

	assert.Equal(t, int64(7), result.Projects.OpenTotal)
	assert.Equal(t, int64(3), result.Alerts.OpenAlerts)
	assert.False(t, result.GeneratedAt.IsZero())
}

func TestDashboardService_Dashboard_CachedSectionSkipsRepository(t *testing.T) {
	service, m := newDashboardService()

	ctx := context.Background()
	tenantID := newReportTestTenantID()

	cachedSales := SalesSection{
		OpenCount: 9,
		OpenValue: decimal.NewFromInt(99000),
		WonValue:  decimal.Zero,
	}
	payload, err := json.Marshal(cachedSales)
	require.NoError(t, err)

	m.reportCache.On("Get", mock.Anything, tenantID, "dashboard:sales").Return(payload, nil)
	m.reportCache.On("Get", mock.Anything, tenantID, mock.Anything).Return(nil, nil)
	m.reportCache.On("Set", mock.Anything, tenantID, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	stubSections(m, tenantID)

	result, err := service.Dashboard(ctx, tenantID)

	require.NoError(t, err)
	assert.Equal(t, int64(9), result.Sales.OpenCount)
	m.dealRepo.AssertNotCalled(t, "SummarizeByStage", mock.Anything, mock.Anything)
}

func TestDashboardService_Dashboard_CacheFailureFallsBackToRepositories(t *testing.T) {
	service, m := newDashboardService()

	ctx := context.Background()
	tenantID := newReportTestTenantID()

	m.reportCache.On("Get", mock.Anything, tenantID, mock.Anything).Return(nil, assert.AnError)
	m.reportCache.On("Set", mock.Anything, tenantID, mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)
	stubSections(m, tenantID)

	result, err := service.Dashboard(ctx, tenantID)

	require.NoError(t, err)
	assert.Equal(t, int64(12), result.HR.Headcount)
}

func TestDashboardInvalidator_DealEventDropsSalesSection(t *testing.T) {
	service, m := newDashboardService()
	invalidator := NewDashboardInvalidator(service)

	tenantID := newReportTestTenantID()
	deal, err := crm.NewDeal(tenantID, "DEAL-002", "Support contract", "Globex",
		valueobject.NewMoneyUSD(decimal.NewFromInt(12000)))
	require.NoError(t, err)

	m.reportCache.On("Invalidate", mock.Anything, tenantID, "dashboard:sales").Return(nil)

	err = invalidator.Handle(context.Background(), crm.NewDealCreatedEvent(deal))

	require.NoError(t, err)
	m.reportCache.AssertExpectations(t)
}

func TestDashboardInvalidator_IgnoresUnrelatedAggregates(t *testing.T) {
	service, m := newDashboardService()
	invalidator := NewDashboardInvalidator(service)

	tenantID := newReportTestTenantID()
	event := shared.NewBaseDomainEvent("TenantUpdated", "Tenant", uuid.New(), tenantID)

	err := invalidator.Handle(context.Background(), &event)

	require.NoError(t, err)
	m.reportCache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything, mock.Anything)
}
