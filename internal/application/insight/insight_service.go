package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bizsuite/backend/internal/domain/crm"
	"github.com/bizsuite/backend/internal/domain/finance"
	"github.com/bizsuite/backend/internal/domain/hr"
	"github.com/bizsuite/backend/internal/domain/insight"
	"github.com/bizsuite/backend/internal/domain/project"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Generation thresholds. Ratios compare against open counts, absolute
// floors keep tiny tenants from tripping every rule.
const (
	overdueWarningRatio  = 0.25
	overdueCriticalRatio = 0.5
	pipelineLeadFactor   = 3
	pipelineMinOpenDeals = 5
	leaveBacklogFloor    = 5
	reviewQueueFloor     = 5
)

// Data-protection checklist windows, in days. Dropped opportunities keep
// personal contact data until purged; open ones go stale without activity.
const (
	erasureRetentionDays   = 90
	staleContactDays       = 180
	erasureCriticalBacklog = 10
)

// insightDedupPageSize bounds the unacknowledged scan used for dedup
const insightDedupPageSize = 200

// scoringPageSize bounds each batch of the opportunity scoring sweep
const scoringPageSize = 100

// InsightService generates and manages AI insights over tenant data
type InsightService struct {
	insightRepo     insight.InsightRepository
	dealRepo        crm.DealRepository
	opportunityRepo crm.OpportunityRepository
	invoiceRepo     finance.InvoiceRepository
	leaveRepo       hr.LeaveRequestRepository
	taskRepo        project.TaskRepository
	logger          *zap.Logger
}

// NewInsightService creates a new InsightService
func NewInsightService(
	insightRepo insight.InsightRepository,
	dealRepo crm.DealRepository,
	opportunityRepo crm.OpportunityRepository,
	invoiceRepo finance.InvoiceRepository,
	leaveRepo hr.LeaveRequestRepository,
	taskRepo project.TaskRepository,
	logger *zap.Logger,
) *InsightService {
	return &InsightService{
		insightRepo:     insightRepo,
		dealRepo:        dealRepo,
		opportunityRepo: opportunityRepo,
		invoiceRepo:     invoiceRepo,
		leaveRepo:       leaveRepo,
		taskRepo:        taskRepo,
		logger:          logger,
	}
}

// GetByID retrieves an insight by ID
func (s *InsightService) GetByID(ctx context.Context, tenantID, insightID uuid.UUID) (*InsightResponse, error) {
	record, err := s.insightRepo.FindByID(ctx, tenantID, insightID)
	if err != nil {
		return nil, err
	}

	response := ToInsightResponse(record)
	return &response, nil
}

// List retrieves insights with filtering and pagination
func (s *InsightService) List(ctx context.Context, tenantID uuid.UUID, filter InsightListFilter) ([]InsightResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}

	if filter.Severity != "" {
		domainFilter.Filters["severity"] = filter.Severity
	}

	var (
		records []insight.AIInsight
		err     error
	)
	switch {
	case filter.Unacknowledged:
		records, err = s.insightRepo.FindUnacknowledged(ctx, tenantID, domainFilter)
	case filter.Category != "":
		records, err = s.insightRepo.FindByCategory(ctx, tenantID, insight.InsightCategory(filter.Category), domainFilter)
	default:
		records, err = s.insightRepo.FindAll(ctx, tenantID, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.insightRepo.Count(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToInsightResponses(records), total, nil
}

// Acknowledge marks an insight as seen
func (s *InsightService) Acknowledge(ctx context.Context, tenantID, insightID uuid.UUID, req AcknowledgeInsightRequest) (*InsightResponse, error) {
	record, err := s.insightRepo.FindByID(ctx, tenantID, insightID)
	if err != nil {
		return nil, err
	}

	if err := record.Acknowledge(req.User); err != nil {
		return nil, err
	}

	if err := s.insightRepo.Save(ctx, record); err != nil {
		return nil, err
	}

	response := ToInsightResponse(record)
	return &response, nil
}

// Delete removes an insight
func (s *InsightService) Delete(ctx context.Context, tenantID, insightID uuid.UUID) error {
	if _, err := s.insightRepo.FindByID(ctx, tenantID, insightID); err != nil {
		return err
	}
	return s.insightRepo.Delete(ctx, tenantID, insightID)
}

// insightCandidate is one generated observation before persistence
type insightCandidate struct {
	category insight.InsightCategory
	severity insight.InsightSeverity
	title    string
	body     string
	evidence map[string]interface{}
}

// GenerateInsights scans tenant aggregates and records new insights.
// An unacknowledged insight with the same title suppresses regeneration.
// The pass also refreshes the priority score on open opportunities so the
// min_score pipeline filter stays current. Returns the number of insights
// created.
func (s *InsightService) GenerateInsights(ctx context.Context, tenantID uuid.UUID) (int, error) {
	scored, err := s.scoreOpportunities(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	if scored > 0 {
		s.logger.Info("Opportunity scores refreshed",
			zap.String("tenant_id", tenantID.String()),
			zap.Int("scored", scored))
	}

	var candidates []insightCandidate

	if c, err := s.receivablesCandidate(ctx, tenantID); err != nil {
		return 0, err
	} else if c != nil {
		candidates = append(candidates, *c)
	}

	if c, err := s.pipelineCandidate(ctx, tenantID); err != nil {
		return 0, err
	} else if c != nil {
		candidates = append(candidates, *c)
	}

	if c, err := s.leaveBacklogCandidate(ctx, tenantID); err != nil {
		return 0, err
	} else if c != nil {
		candidates = append(candidates, *c)
	}

	if c, err := s.reviewQueueCandidate(ctx, tenantID); err != nil {
		return 0, err
	} else if c != nil {
		candidates = append(candidates, *c)
	}

	if c, err := s.complianceCandidate(ctx, tenantID); err != nil {
		return 0, err
	} else if c != nil {
		candidates = append(candidates, *c)
	}

	if len(candidates) == 0 {
		return 0, nil
	}

	open, err := s.insightRepo.FindUnacknowledged(ctx, tenantID, shared.Filter{Page: 1, PageSize: insightDedupPageSize})
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(open))
	for i := range open {
		seen[open[i].Title] = true
	}

	generated := 0
	for _, c := range candidates {
		if seen[c.title] {
			continue
		}

		evidence, err := json.Marshal(c.evidence)
		if err != nil {
			return generated, err
		}

		record, err := insight.NewAIInsight(tenantID, c.category, c.severity, c.title, c.body, string(evidence))
		if err != nil {
			return generated, err
		}

		if err := s.insightRepo.Save(ctx, record); err != nil {
			return generated, err
		}
		generated++

		s.logger.Info("Insight generated",
			zap.String("tenant_id", tenantID.String()),
			zap.String("category", string(c.category)),
			zap.String("severity", string(c.severity)),
			zap.String("title", c.title))
	}

	return generated, nil
}

// receivablesCandidate flags tenants whose overdue invoices make up a
// large share of outstanding receivables
func (s *InsightService) receivablesCandidate(ctx context.Context, tenantID uuid.UUID) (*insightCandidate, error) {
	summary, err := s.invoiceRepo.SummarizeReceivables(ctx, tenantID, time.Now())
	if err != nil {
		return nil, err
	}
	if summary.OutstandingCount == 0 || summary.OverdueCount == 0 {
		return nil, nil
	}

	ratio := float64(summary.OverdueCount) / float64(summary.OutstandingCount)
	if ratio < overdueWarningRatio {
		return nil, nil
	}

	severity := insight.InsightSeverityWarning
	if ratio >= overdueCriticalRatio {
		severity = insight.InsightSeverityCritical
	}

	return &insightCandidate{
		category: insight.InsightCategoryFinance,
		severity: severity,
		title:    "Overdue invoices piling up",
		body: fmt.Sprintf("%d of %d outstanding invoices are past due (%.0f%%), totalling %s. Chase payment or void stale invoices.",
			summary.OverdueCount, summary.OutstandingCount, ratio*100, summary.OverdueAmount.StringFixed(2)),
		evidence: map[string]interface{}{
			"outstanding_count": summary.OutstandingCount,
			"overdue_count":     summary.OverdueCount,
			"overdue_amount":    summary.OverdueAmount.InexactFloat64(),
			"overdue_ratio":     ratio,
		},
	}, nil
}

// pipelineCandidate flags pipelines where deals pool in the lead stage
// instead of progressing
func (s *InsightService) pipelineCandidate(ctx context.Context, tenantID uuid.UUID) (*insightCandidate, error) {
	stages, err := s.dealRepo.SummarizeByStage(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	var leads, advanced int64
	for _, stage := range stages {
		switch stage.Stage {
		case crm.DealStageLead:
			leads = stage.Count
		case crm.DealStageQualified, crm.DealStageProposal, crm.DealStageNegotiation:
			advanced += stage.Count
		}
	}

	if leads+advanced < pipelineMinOpenDeals || leads < advanced*pipelineLeadFactor {
		return nil, nil
	}

	return &insightCandidate{
		category: insight.InsightCategorySales,
		severity: insight.InsightSeverityNotice,
		title:    "Pipeline stuck in early stages",
		body: fmt.Sprintf("%d open deals sit in the lead stage against %d further along. Qualify or drop stale leads to keep the forecast honest.",
			leads, advanced),
		evidence: map[string]interface{}{
			"lead_count":     leads,
			"advanced_count": advanced,
		},
	}, nil
}

// leaveBacklogCandidate flags a backlog of unreviewed leave requests
func (s *InsightService) leaveBacklogCandidate(ctx context.Context, tenantID uuid.UUID) (*insightCandidate, error) {
	pending, err := s.leaveRepo.Count(ctx, tenantID, shared.Filter{
		Filters: map[string]interface{}{"status": string(hr.LeaveStatusSubmitted)},
	})
	if err != nil {
		return nil, err
	}
	if pending < leaveBacklogFloor {
		return nil, nil
	}

	return &insightCandidate{
		category: insight.InsightCategoryHR,
		severity: insight.InsightSeverityWarning,
		title:    "Leave approvals backing up",
		body:     fmt.Sprintf("%d leave requests are waiting for a decision. Unreviewed requests block planning and frustrate staff.", pending),
		evidence: map[string]interface{}{
			"pending_requests": pending,
		},
	}, nil
}

// reviewQueueCandidate flags tasks queueing in review faster than they
// are being worked
func (s *InsightService) reviewQueueCandidate(ctx context.Context, tenantID uuid.UUID) (*insightCandidate, error) {
	inReview, err := s.taskRepo.Count(ctx, tenantID, shared.Filter{
		Filters: map[string]interface{}{"status": string(project.TaskStatusReview)},
	})
	if err != nil {
		return nil, err
	}
	if inReview < reviewQueueFloor {
		return nil, nil
	}

	inProgress, err := s.taskRepo.Count(ctx, tenantID, shared.Filter{
		Filters: map[string]interface{}{"status": string(project.TaskStatusInProgress)},
	})
	if err != nil {
		return nil, err
	}
	if inReview <= inProgress {
		return nil, nil
	}

	return &insightCandidate{
		category: insight.InsightCategoryProject,
		severity: insight.InsightSeverityNotice,
		title:    "Tasks queueing in review",
		body: fmt.Sprintf("%d tasks sit in review against %d in progress. Reviews are the bottleneck; clear the queue before starting new work.",
			inReview, inProgress),
		evidence: map[string]interface{}{
			"review_count":      inReview,
			"in_progress_count": inProgress,
		},
	}, nil
}

// complianceCandidate runs the GDPR checklist over CRM contact data.
// Failing items roll up into one compliance insight.
func (s *InsightService) complianceCandidate(ctx context.Context, tenantID uuid.UUID) (*insightCandidate, error) {
	now := time.Now()

	dropped, err := s.opportunityRepo.FindByStatus(ctx, tenantID, crm.OpportunityStatusDropped,
		shared.Filter{Page: 1, PageSize: insightDedupPageSize})
	if err != nil {
		return nil, err
	}
	var erasureBacklog int
	for i := range dropped {
		if dropped[i].DroppedAt != nil && now.Sub(*dropped[i].DroppedAt) > erasureRetentionDays*24*time.Hour {
			erasureBacklog++
		}
	}

	open, err := s.opportunityRepo.FindByStatus(ctx, tenantID, crm.OpportunityStatusOpen,
		shared.Filter{Page: 1, PageSize: insightDedupPageSize})
	if err != nil {
		return nil, err
	}
	var staleContacts int
	for i := range open {
		if now.Sub(open[i].UpdatedAt) > staleContactDays*24*time.Hour {
			staleContacts++
		}
	}

	if erasureBacklog == 0 && staleContacts == 0 {
		return nil, nil
	}

	var failing []string
	if erasureBacklog > 0 {
		failing = append(failing, fmt.Sprintf("right to erasure: %d dropped opportunities still hold contact data past the %d-day retention window",
			erasureBacklog, erasureRetentionDays))
	}
	if staleContacts > 0 {
		failing = append(failing, fmt.Sprintf("data minimization: %d open opportunities had no activity for over %d days",
			staleContacts, staleContactDays))
	}

	severity := insight.InsightSeverityWarning
	if erasureBacklog >= erasureCriticalBacklog {
		severity = insight.InsightSeverityCritical
	}

	return &insightCandidate{
		category: insight.InsightCategoryCompliance,
		severity: severity,
		title:    "GDPR checklist has failing items",
		body:     fmt.Sprintf("Failed checks: %s. Purge or re-engage the affected records.", strings.Join(failing, "; ")),
		evidence: map[string]interface{}{
			"erasure_backlog":        erasureBacklog,
			"stale_contacts":         staleContacts,
			"retention_window_days":  erasureRetentionDays,
			"stale_after_days":       staleContactDays,
			"failing_check_count":    len(failing),
			"checklist_items_tested": 2,
		},
	}, nil
}

// scoreOpportunities refreshes the priority score on every open
// opportunity. Only changed scores are written back.
func (s *InsightService) scoreOpportunities(ctx context.Context, tenantID uuid.UUID) (int, error) {
	now := time.Now()
	scored := 0

	for page := 1; ; page++ {
		batch, err := s.opportunityRepo.FindByStatus(ctx, tenantID, crm.OpportunityStatusOpen,
			shared.Filter{Page: page, PageSize: scoringPageSize, OrderBy: "created_at", OrderDir: "asc"})
		if err != nil {
			return scored, err
		}

		for i := range batch {
			o := &batch[i]
			score := scoreOpportunity(o, now)
			if o.ScoredAt != nil && o.Score == score {
				continue
			}
			if err := o.UpdateScore(score); err != nil {
				return scored, err
			}
			if err := s.opportunityRepo.Save(ctx, o); err != nil {
				return scored, err
			}
			scored++
		}

		if len(batch) < scoringPageSize {
			return scored, nil
		}
	}
}

// scoreOpportunity grades an open opportunity 0-100. Deal size carries
// the most weight; recent activity and a warm source make up the rest.
func scoreOpportunity(o *crm.Opportunity, now time.Time) float64 {
	var score float64

	switch {
	case o.Value.GreaterThanOrEqual(decimal.NewFromInt(100000)):
		score += 40
	case o.Value.GreaterThanOrEqual(decimal.NewFromInt(25000)):
		score += 30
	case o.Value.GreaterThanOrEqual(decimal.NewFromInt(5000)):
		score += 20
	case o.Value.IsPositive():
		score += 10
	}

	idle := now.Sub(o.UpdatedAt)
	switch {
	case idle <= 7*24*time.Hour:
		score += 35
	case idle <= 30*24*time.Hour:
		score += 25
	case idle <= 90*24*time.Hour:
		score += 10
	}

	switch strings.ToLower(o.Source) {
	case "referral":
		score += 25
	case "website", "inbound":
		score += 15
	case "":
		// Unknown source scores nothing
	default:
		score += 5
	}

	if score > 100 {
		score = 100
	}
	return score
}
