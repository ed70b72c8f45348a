package crm

import (
	"context"

	"github.com/bizsuite/backend/internal/domain/crm"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/valueobject"
	"github.com/bizsuite/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DealService handles deal pipeline operations
type DealService struct {
	dealRepo       crm.DealRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewDealService creates a new DealService
func NewDealService(dealRepo crm.DealRepository, logger *zap.Logger) *DealService {
	return &DealService{
		dealRepo: dealRepo,
		logger:   logger,
	}
}

// SetEventPublisher sets the event publisher for audit and integration events
func (s *DealService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new deal in the lead stage
func (s *DealService) Create(ctx context.Context, tenantID uuid.UUID, req CreateDealRequest) (*DealResponse, error) {
	exists, err := s.dealRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Deal with this code already exists")
	}

	deal, err := crm.NewDeal(tenantID, req.Code, req.Title, req.CustomerName, valueobject.NewMoneyUSD(req.Amount))
	if err != nil {
		return nil, err
	}

	deal.CustomerContact = req.CustomerContact
	if req.Owner != "" {
		if err := deal.SetOwner(req.Owner); err != nil {
			return nil, err
		}
	}
	if req.Source != "" {
		deal.SetSource(req.Source)
	}
	if req.Notes != "" {
		deal.SetNotes(req.Notes)
	}
	if req.ExpectedCloseDate != nil {
		if err := deal.SetExpectedCloseDate(*req.ExpectedCloseDate); err != nil {
			return nil, err
		}
	}

	if err := s.dealRepo.Save(ctx, deal); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, deal)

	s.logger.Info("Deal created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("deal_id", deal.ID.String()),
		zap.String("code", deal.Code))

	response := ToDealResponse(deal)
	return &response, nil
}

// GetByID retrieves a deal by ID
func (s *DealService) GetByID(ctx context.Context, tenantID, dealID uuid.UUID) (*DealResponse, error) {
	deal, err := s.dealRepo.FindByID(ctx, tenantID, dealID)
	if err != nil {
		return nil, err
	}

	response := ToDealResponse(deal)
	return &response, nil
}

// GetByCode retrieves a deal by code
func (s *DealService) GetByCode(ctx context.Context, tenantID uuid.UUID, code string) (*DealResponse, error) {
	deal, err := s.dealRepo.FindByCode(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}

	response := ToDealResponse(deal)
	return &response, nil
}

// List retrieves deals with filtering and pagination
func (s *DealService) List(ctx context.Context, tenantID uuid.UUID, filter DealListFilter) ([]DealResponse, int64, error) {
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
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	if filter.Stage != "" {
		domainFilter.Filters["stage"] = filter.Stage
	}
	if filter.Owner != "" {
		domainFilter.Filters["owner"] = filter.Owner
	}

	deals, err := s.dealRepo.FindAll(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.dealRepo.Count(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToDealResponses(deals), total, nil
}

// Update updates a deal's editable fields
func (s *DealService) Update(ctx context.Context, tenantID, dealID uuid.UUID, req UpdateDealRequest) (*DealResponse, error) {
	deal, err := s.dealRepo.FindByID(ctx, tenantID, dealID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil || req.CustomerName != nil || req.CustomerContact != nil || req.Amount != nil {
		title := deal.Title
		customerName := deal.CustomerName
		customerContact := deal.CustomerContact
		amount := deal.Amount

		if req.Title != nil {
			title = *req.Title
		}
		if req.CustomerName != nil {
			customerName = *req.CustomerName
		}
		if req.CustomerContact != nil {
			customerContact = *req.CustomerContact
		}
		if req.Amount != nil {
			amount = *req.Amount
		}

		if err := deal.Update(title, customerName, customerContact, valueobject.NewMoneyUSD(amount)); err != nil {
			return nil, err
		}
	}

	if req.Owner != nil {
		if err := deal.SetOwner(*req.Owner); err != nil {
			return nil, err
		}
	}
	if req.Source != nil {
		deal.SetSource(*req.Source)
	}
	if req.Notes != nil {
		deal.SetNotes(*req.Notes)
	}
	if req.ExpectedCloseDate != nil {
		if err := deal.SetExpectedCloseDate(*req.ExpectedCloseDate); err != nil {
			return nil, err
		}
	}
	if req.Probability != nil {
		if err := deal.SetProbability(*req.Probability); err != nil {
			return nil, err
		}
	}

	if err := s.dealRepo.Save(ctx, deal); err != nil {
		return nil, err
	}

	response := ToDealResponse(deal)
	return &response, nil
}

// Advance moves a deal forward in the pipeline
func (s *DealService) Advance(ctx context.Context, tenantID, dealID uuid.UUID, req AdvanceDealRequest) (*DealResponse, error) {
	stage := crm.DealStage(req.Stage)
	if !stage.IsValid() {
		return nil, shared.NewDomainError("INVALID_STAGE", "Unknown pipeline stage")
	}

	return s.transition(ctx, tenantID, dealID, func(d *crm.Deal) error { return d.Advance(stage) })
}

// Win closes a deal as won
func (s *DealService) Win(ctx context.Context, tenantID, dealID uuid.UUID) (*DealResponse, error) {
	return s.transition(ctx, tenantID, dealID, func(d *crm.Deal) error { return d.Win() })
}

// Lose closes a deal as lost with a reason
func (s *DealService) Lose(ctx context.Context, tenantID, dealID uuid.UUID, req LoseDealRequest) (*DealResponse, error) {
	return s.transition(ctx, tenantID, dealID, func(d *crm.Deal) error { return d.Lose(req.Reason) })
}

func (s *DealService) transition(ctx context.Context, tenantID, dealID uuid.UUID, change func(*crm.Deal) error) (*DealResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "crm", "deal_transition")
	defer span.End()

	telemetry.SetAttributes(span,
		"tenant_id", tenantID.String(),
		telemetry.SpanAttrDealID, dealID.String(),
	)

	deal, err := s.dealRepo.FindByID(ctx, tenantID, dealID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := change(deal); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.dealRepo.Save(ctx, deal); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrDealStage, string(deal.Stage))
	s.publishEvents(ctx, deal)

	s.logger.Info("Deal stage changed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("deal_id", dealID.String()),
		zap.String("stage", string(deal.Stage)))

	response := ToDealResponse(deal)
	return &response, nil
}

// Delete removes a deal. Closed deals are kept for reporting.
func (s *DealService) Delete(ctx context.Context, tenantID, dealID uuid.UUID) error {
	deal, err := s.dealRepo.FindByID(ctx, tenantID, dealID)
	if err != nil {
		return err
	}

	if deal.IsWon() {
		return shared.NewDomainError("CANNOT_DELETE", "Won deals cannot be deleted")
	}

	return s.dealRepo.Delete(ctx, tenantID, dealID)
}

// PipelineSummary returns count and value per stage plus open totals
func (s *DealService) PipelineSummary(ctx context.Context, tenantID uuid.UUID) (*PipelineSummaryResponse, error) {
	summaries, err := s.dealRepo.SummarizeByStage(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	response := &PipelineSummaryResponse{
		Stages:        make([]StageSummaryResponse, 0, len(summaries)),
		OpenAmount:    decimal.Zero,
		WeightedTotal: decimal.Zero,
	}

	for _, summary := range summaries {
		response.Stages = append(response.Stages, StageSummaryResponse{
			Stage:       string(summary.Stage),
			Count:       summary.Count,
			TotalAmount: summary.TotalAmount,
		})

		if !summary.Stage.IsTerminal() {
			response.OpenCount += summary.Count
			response.OpenAmount = response.OpenAmount.Add(summary.TotalAmount)
			weight := decimal.NewFromInt(int64(stageProbability(summary.Stage)))
			response.WeightedTotal = response.WeightedTotal.Add(
				summary.TotalAmount.Mul(weight).Div(decimal.NewFromInt(100)))
		}
	}

	response.WeightedTotal = response.WeightedTotal.Round(2)

	return response, nil
}

// stageProbability mirrors the default per-stage win probability
func stageProbability(stage crm.DealStage) int {
	switch stage {
	case crm.DealStageLead:
		return 10
	case crm.DealStageQualified:
		return 25
	case crm.DealStageProposal:
		return 50
	case crm.DealStageNegotiation:
		return 75
	case crm.DealStageWon:
		return 100
	}
	return 0
}

// publishEvents publishes the deal's pending domain events
func (s *DealService) publishEvents(ctx context.Context, deal *crm.Deal) {
	if s.eventPublisher == nil {
		return
	}

	events := deal.GetDomainEvents()
	if len(events) == 0 {
		return
	}

	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish deal events",
			zap.String("deal_id", deal.ID.String()),
			zap.Error(err))
	}
	deal.ClearDomainEvents()
}
