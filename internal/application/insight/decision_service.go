package insight

import (
	"context"

	"github.com/bizsuite/backend/internal/domain/insight"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DecisionService scores candidate options and tracks review outcomes.
// Review outcomes feed the learning multiplier of future decisions of
// the same type.
type DecisionService struct {
	decisionRepo insight.DecisionRepository
	logger       *zap.Logger
}

// NewDecisionService creates a new DecisionService
func NewDecisionService(decisionRepo insight.DecisionRepository, logger *zap.Logger) *DecisionService {
	return &DecisionService{
		decisionRepo: decisionRepo,
		logger:       logger,
	}
}

// Request generates and scores the candidate options for a situation
// and persists the recommendation for review
func (s *DecisionService) Request(ctx context.Context, tenantID uuid.UUID, req RequestDecisionRequest) (*DecisionResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "insight", "request_decision")
	defer span.End()

	decisionType := insight.DecisionType(req.Type)
	telemetry.SetAttributes(span,
		"tenant_id", tenantID.String(),
		telemetry.SpanAttrDecisionType, string(decisionType),
	)

	options, err := insight.GenerateOptions(decisionType)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	accepted, rejected, err := s.decisionRepo.CountByOutcome(ctx, tenantID, decisionType)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	multiplier := insight.LearningMultiplier(accepted, rejected)

	decision, err := insight.NewAutonomousDecision(tenantID, decisionType, req.Context, options, multiplier)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.decisionRepo.Save(ctx, decision); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrDecisionID, decision.ID.String(),
		telemetry.SpanAttrRiskBand, string(decision.RiskAssessment),
	)

	s.logger.Info("Decision recommended",
		zap.String("tenant_id", tenantID.String()),
		zap.String("decision_id", decision.ID.String()),
		zap.String("type", string(decisionType)),
		zap.String("recommended", decision.Recommended),
		zap.Float64("multiplier", multiplier))

	response := ToDecisionResponse(decision)
	return &response, nil
}

// GetByID retrieves a decision by ID
func (s *DecisionService) GetByID(ctx context.Context, tenantID, decisionID uuid.UUID) (*DecisionResponse, error) {
	decision, err := s.decisionRepo.FindByID(ctx, tenantID, decisionID)
	if err != nil {
		return nil, err
	}

	response := ToDecisionResponse(decision)
	return &response, nil
}

// List retrieves decisions with filtering and pagination
func (s *DecisionService) List(ctx context.Context, tenantID uuid.UUID, filter DecisionListFilter) ([]DecisionResponse, int64, error) {
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

	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	var (
		decisions []insight.AutonomousDecision
		err       error
	)
	if filter.Type != "" {
		decisions, err = s.decisionRepo.FindByType(ctx, tenantID, insight.DecisionType(filter.Type), domainFilter)
	} else {
		decisions, err = s.decisionRepo.FindAll(ctx, tenantID, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.decisionRepo.Count(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToDecisionResponses(decisions), total, nil
}

// Accept marks a pending decision as accepted by a reviewer
func (s *DecisionService) Accept(ctx context.Context, tenantID, decisionID uuid.UUID, req ReviewDecisionRequest) (*DecisionResponse, error) {
	return s.review(ctx, tenantID, decisionID, func(d *insight.AutonomousDecision) error {
		return d.Accept(req.Reviewer)
	})
}

// Reject marks a pending decision as rejected by a reviewer
func (s *DecisionService) Reject(ctx context.Context, tenantID, decisionID uuid.UUID, req ReviewDecisionRequest) (*DecisionResponse, error) {
	return s.review(ctx, tenantID, decisionID, func(d *insight.AutonomousDecision) error {
		return d.Reject(req.Reviewer)
	})
}

func (s *DecisionService) review(ctx context.Context, tenantID, decisionID uuid.UUID, change func(*insight.AutonomousDecision) error) (*DecisionResponse, error) {
	decision, err := s.decisionRepo.FindByID(ctx, tenantID, decisionID)
	if err != nil {
		return nil, err
	}

	if err := change(decision); err != nil {
		return nil, err
	}

	if err := s.decisionRepo.Save(ctx, decision); err != nil {
		return nil, err
	}

	s.logger.Info("Decision reviewed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("decision_id", decisionID.String()),
		zap.String("status", string(decision.Status)),
		zap.String("reviewer", decision.DecidedBy))

	response := ToDecisionResponse(decision)
	return &response, nil
}
