package crm

import (
	"context"

	"github.com/bizsuite/backend/internal/domain/crm"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OpportunityService handles opportunity operations including conversion to deals
type OpportunityService struct {
	opportunityRepo crm.OpportunityRepository
	dealRepo        crm.DealRepository
	eventPublisher  shared.EventPublisher
	logger          *zap.Logger
}

// NewOpportunityService creates a new OpportunityService
func NewOpportunityService(
	opportunityRepo crm.OpportunityRepository,
	dealRepo crm.DealRepository,
	logger *zap.Logger,
) *OpportunityService {
	return &OpportunityService{
		opportunityRepo: opportunityRepo,
		dealRepo:        dealRepo,
		logger:          logger,
	}
}

// SetEventPublisher sets the event publisher for audit and integration events
func (s *OpportunityService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new open opportunity
func (s *OpportunityService) Create(ctx context.Context, tenantID uuid.UUID, req CreateOpportunityRequest) (*OpportunityResponse, error) {
	opportunity, err := crm.NewOpportunity(tenantID, req.Name, req.CustomerName, valueobject.NewMoneyUSD(req.Value))
	if err != nil {
		return nil, err
	}

	opportunity.Source = req.Source
	if req.Notes != "" {
		opportunity.SetNotes(req.Notes)
	}

	if err := s.opportunityRepo.Save(ctx, opportunity); err != nil {
		return nil, err
	}

	s.logger.Info("Opportunity created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("opportunity_id", opportunity.ID.String()))

	response := ToOpportunityResponse(opportunity)
	return &response, nil
}

// GetByID retrieves an opportunity by ID
func (s *OpportunityService) GetByID(ctx context.Context, tenantID, opportunityID uuid.UUID) (*OpportunityResponse, error) {
	opportunity, err := s.opportunityRepo.FindByID(ctx, tenantID, opportunityID)
	if err != nil {
		return nil, err
	}

	response := ToOpportunityResponse(opportunity)
	return &response, nil
}

// List retrieves opportunities with filtering and pagination
func (s *OpportunityService) List(ctx context.Context, tenantID uuid.UUID, filter OpportunityListFilter) ([]OpportunityResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "score"
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

	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	var (
		opportunities []crm.Opportunity
		err           error
	)
	if filter.MinScore != nil {
		opportunities, err = s.opportunityRepo.FindOpenByMinScore(ctx, tenantID, *filter.MinScore, domainFilter)
	} else {
		opportunities, err = s.opportunityRepo.FindAll(ctx, tenantID, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.opportunityRepo.Count(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToOpportunityResponses(opportunities), total, nil
}

// Update updates an open opportunity's editable fields
func (s *OpportunityService) Update(ctx context.Context, tenantID, opportunityID uuid.UUID, req UpdateOpportunityRequest) (*OpportunityResponse, error) {
	opportunity, err := s.opportunityRepo.FindByID(ctx, tenantID, opportunityID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.CustomerName != nil || req.Source != nil || req.Value != nil {
		name := opportunity.Name
		customerName := opportunity.CustomerName
		source := opportunity.Source
		value := opportunity.Value

		if req.Name != nil {
			name = *req.Name
		}
		if req.CustomerName != nil {
			customerName = *req.CustomerName
		}
		if req.Source != nil {
			source = *req.Source
		}
		if req.Value != nil {
			value = *req.Value
		}

		if err := opportunity.Update(name, customerName, source, valueobject.NewMoneyUSD(value)); err != nil {
			return nil, err
		}
	}

	if req.Notes != nil {
		opportunity.SetNotes(*req.Notes)
	}

	if err := s.opportunityRepo.Save(ctx, opportunity); err != nil {
		return nil, err
	}

	response := ToOpportunityResponse(opportunity)
	return &response, nil
}

// Convert turns an open opportunity into a new deal in the lead stage.
// The opportunity keeps a reference to the created deal.
func (s *OpportunityService) Convert(ctx context.Context, tenantID, opportunityID uuid.UUID, req ConvertOpportunityRequest) (*DealResponse, error) {
	opportunity, err := s.opportunityRepo.FindByID(ctx, tenantID, opportunityID)
	if err != nil {
		return nil, err
	}
	if !opportunity.IsOpen() {
		return nil, shared.NewDomainError("INVALID_STATE", "Only open opportunities can be converted")
	}

	exists, err := s.dealRepo.ExistsByCode(ctx, tenantID, req.DealCode)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Deal with this code already exists")
	}

	title := req.DealTitle
	if title == "" {
		title = opportunity.Name
	}

	deal, err := crm.NewDeal(tenantID, req.DealCode, title, opportunity.CustomerName, opportunity.GetValueMoney())
	if err != nil {
		return nil, err
	}
	if req.Owner != "" {
		if err := deal.SetOwner(req.Owner); err != nil {
			return nil, err
		}
	}
	deal.SetSource(opportunity.Source)

	if err := s.dealRepo.Save(ctx, deal); err != nil {
		return nil, err
	}

	if err := opportunity.Convert(deal.ID); err != nil {
		return nil, err
	}
	if err := s.opportunityRepo.Save(ctx, opportunity); err != nil {
		return nil, err
	}
	s.publishDealEvents(ctx, deal)

	s.logger.Info("Opportunity converted to deal",
		zap.String("tenant_id", tenantID.String()),
		zap.String("opportunity_id", opportunityID.String()),
		zap.String("deal_id", deal.ID.String()))

	response := ToDealResponse(deal)
	return &response, nil
}

// Drop marks an opportunity as dropped with a reason
func (s *OpportunityService) Drop(ctx context.Context, tenantID, opportunityID uuid.UUID, req DropOpportunityRequest) (*OpportunityResponse, error) {
	opportunity, err := s.opportunityRepo.FindByID(ctx, tenantID, opportunityID)
	if err != nil {
		return nil, err
	}

	if err := opportunity.Drop(req.Reason); err != nil {
		return nil, err
	}

	if err := s.opportunityRepo.Save(ctx, opportunity); err != nil {
		return nil, err
	}

	response := ToOpportunityResponse(opportunity)
	return &response, nil
}

// Delete removes an opportunity
func (s *OpportunityService) Delete(ctx context.Context, tenantID, opportunityID uuid.UUID) error {
	opportunity, err := s.opportunityRepo.FindByID(ctx, tenantID, opportunityID)
	if err != nil {
		return err
	}

	if opportunity.Status == crm.OpportunityStatusConverted {
		return shared.NewDomainError("CANNOT_DELETE", "Converted opportunities cannot be deleted")
	}

	return s.opportunityRepo.Delete(ctx, tenantID, opportunityID)
}

func (s *OpportunityService) publishDealEvents(ctx context.Context, deal *crm.Deal) {
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
