package report

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bizsuite/backend/internal/domain/crm"
	"github.com/bizsuite/backend/internal/domain/finance"
	"github.com/bizsuite/backend/internal/domain/hr"
	"github.com/bizsuite/backend/internal/domain/insight"
	"github.com/bizsuite/backend/internal/domain/project"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Cache keys per dashboard section. Writes in a module invalidate only
// that module's section, the rest stay warm.
const (
	cacheKeySales    = "dashboard:sales"
	cacheKeyFinance  = "dashboard:finance"
	cacheKeyHR       = "dashboard:hr"
	cacheKeyProjects = "dashboard:projects"
	cacheKeyAlerts   = "dashboard:alerts"
)

// DashboardService assembles the cross-module tenant dashboard from
// repository aggregates. Each section is cached independently.
type DashboardService struct {
	dealRepo     crm.DealRepository
	invoiceRepo  finance.InvoiceRepository
	employeeRepo hr.EmployeeRepository
	leaveRepo    hr.LeaveRequestRepository
	taskRepo     project.TaskRepository
	alertRepo    insight.AlertRepository
	reportCache  cache.ReportCache
	logger       *zap.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	dealRepo crm.DealRepository,
	invoiceRepo finance.InvoiceRepository,
	employeeRepo hr.EmployeeRepository,
	leaveRepo hr.LeaveRequestRepository,
	taskRepo project.TaskRepository,
	alertRepo insight.AlertRepository,
	reportCache cache.ReportCache,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		dealRepo:     dealRepo,
		invoiceRepo:  invoiceRepo,
		employeeRepo: employeeRepo,
		leaveRepo:    leaveRepo,
		taskRepo:     taskRepo,
		alertRepo:    alertRepo,
		reportCache:  reportCache,
		logger:       logger,
	}
}

// Dashboard assembles the full dashboard for a tenant
func (s *DashboardService) Dashboard(ctx context.Context, tenantID uuid.UUID) (*DashboardResponse, error) {
	var response DashboardResponse

	sales, err := s.salesSection(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	response.Sales = *sales

	fin, err := s.financeSection(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	response.Finance = *fin

	workforce, err := s.hrSection(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	response.HR = *workforce

	projects, err := s.projectSection(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	response.Projects = *projects

	alerts, err := s.alertSection(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	response.Alerts = *alerts

	response.GeneratedAt = time.Now()
	return &response, nil
}

// InvalidateModule drops the cached section for one module key
func (s *DashboardService) InvalidateModule(ctx context.Context, tenantID uuid.UUID, cacheKey string) {
	if s.reportCache == nil {
		return
	}
	if err := s.reportCache.Invalidate(ctx, tenantID, cacheKey); err != nil {
		s.logger.Warn("Failed to invalidate dashboard section",
			zap.String("tenant_id", tenantID.String()),
			zap.String("key", cacheKey),
			zap.Error(err))
	}
}

func (s *DashboardService) salesSection(ctx context.Context, tenantID uuid.UUID) (*SalesSection, error) {
	var cached SalesSection
	if s.readSection(ctx, tenantID, cacheKeySales, &cached) {
		return &cached, nil
	}

	stages, err := s.dealRepo.SummarizeByStage(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	section := SalesSection{
		Stages:    make([]StageSliceResponse, 0, len(stages)),
		OpenValue: decimal.Zero,
		WonValue:  decimal.Zero,
	}
	for _, stage := range stages {
		section.Stages = append(section.Stages, StageSliceResponse{
			Stage:  stage.Stage.String(),
			Count:  stage.Count,
			Amount: stage.TotalAmount,
		})
		switch {
		case stage.Stage == crm.DealStageWon:
			section.WonCount += stage.Count
			section.WonValue = section.WonValue.Add(stage.TotalAmount)
		case !stage.Stage.IsTerminal():
			section.OpenCount += stage.Count
			section.OpenValue = section.OpenValue.Add(stage.TotalAmount)
		}
	}

	s.writeSection(ctx, tenantID, cacheKeySales, &section)
	return &section, nil
}

func (s *DashboardService) financeSection(ctx context.Context, tenantID uuid.UUID) (*FinanceSection, error) {
	var cached FinanceSection
	if s.readSection(ctx, tenantID, cacheKeyFinance, &cached) {
		return &cached, nil
	}

	summary, err := s.invoiceRepo.SummarizeReceivables(ctx, tenantID, time.Now())
	if err != nil {
		return nil, err
	}

	section := FinanceSection{
		OutstandingCount:  summary.OutstandingCount,
		OutstandingAmount: summary.OutstandingAmount,
		OverdueCount:      summary.OverdueCount,
		OverdueAmount:     summary.OverdueAmount,
	}

	s.writeSection(ctx, tenantID, cacheKeyFinance, &section)
	return &section, nil
}

func (s *DashboardService) hrSection(ctx context.Context, tenantID uuid.UUID) (*HRSection, error) {
	var cached HRSection
	if s.readSection(ctx, tenantID, cacheKeyHR, &cached) {
		return &cached, nil
	}

	active, err := s.employeeRepo.Count(ctx, tenantID, statusFilter(string(hr.EmployeeStatusActive)))
	if err != nil {
		return nil, err
	}
	onLeave, err := s.employeeRepo.Count(ctx, tenantID, statusFilter(string(hr.EmployeeStatusOnLeave)))
	if err != nil {
		return nil, err
	}
	pending, err := s.leaveRepo.Count(ctx, tenantID, statusFilter(string(hr.LeaveStatusSubmitted)))
	if err != nil {
		return nil, err
	}

	section := HRSection{
		Headcount:     active + onLeave,
		OnLeave:       onLeave,
		PendingLeaves: pending,
	}

	s.writeSection(ctx, tenantID, cacheKeyHR, &section)
	return &section, nil
}

func (s *DashboardService) projectSection(ctx context.Context, tenantID uuid.UUID) (*ProjectSection, error) {
	var cached ProjectSection
	if s.readSection(ctx, tenantID, cacheKeyProjects, &cached) {
		return &cached, nil
	}

	todo, err := s.taskRepo.Count(ctx, tenantID, statusFilter(string(project.TaskStatusTodo)))
	if err != nil {
		return nil, err
	}
	inProgress, err := s.taskRepo.Count(ctx, tenantID, statusFilter(string(project.TaskStatusInProgress)))
	if err != nil {
		return nil, err
	}
	review, err := s.taskRepo.Count(ctx, tenantID, statusFilter(string(project.TaskStatusReview)))
	if err != nil {
		return nil, err
	}

	section := ProjectSection{
		Todo:       todo,
		InProgress: inProgress,
		Review:     review,
		OpenTotal:  todo + inProgress + review,
	}

	s.writeSection(ctx, tenantID, cacheKeyProjects, &section)
	return &section, nil
}

func (s *DashboardService) alertSection(ctx context.Context, tenantID uuid.UUID) (*AlertSection, error) {
	var cached AlertSection
	if s.readSection(ctx, tenantID, cacheKeyAlerts, &cached) {
		return &cached, nil
	}

	open, err := s.alertRepo.CountOpen(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	section := AlertSection{OpenAlerts: open}

	s.writeSection(ctx, tenantID, cacheKeyAlerts, &section)
	return &section, nil
}

// readSection fills out from the cache and reports whether it hit.
// Cache failures degrade to a recompute.
func (s *DashboardService) readSection(ctx context.Context, tenantID uuid.UUID, key string, out interface{}) bool {
	if s.reportCache == nil {
		return false
	}
	payload, err := s.reportCache.Get(ctx, tenantID, key)
	if err != nil {
		s.logger.Warn("Dashboard cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if payload == nil {
		return false
	}
	return json.Unmarshal(payload, out) == nil
}

func (s *DashboardService) writeSection(ctx context.Context, tenantID uuid.UUID, key string, section interface{}) {
	if s.reportCache == nil {
		return
	}
	payload, err := json.Marshal(section)
	if err != nil {
		return
	}
	if err := s.reportCache.Set(ctx, tenantID, key, payload, cache.DefaultReportTTL); err != nil {
		s.logger.Warn("Dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func statusFilter(status string) shared.Filter {
	return shared.Filter{Filters: map[string]interface{}{"status": status}}
}
