package audit

import (
	"context"

	"github.com/bizsuite/backend/internal/domain/audit"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TrailService serves read access to the audit trail
type TrailService struct {
	entryRepo audit.EntryRepository
	logger    *zap.Logger
}

// NewTrailService creates a new TrailService
func NewTrailService(entryRepo audit.EntryRepository, logger *zap.Logger) *TrailService {
	return &TrailService{
		entryRepo: entryRepo,
		logger:    logger,
	}
}

// GetByID retrieves a single audit entry
func (s *TrailService) GetByID(ctx context.Context, tenantID, entryID uuid.UUID) (*AuditEntryResponse, error) {
	entry, err := s.entryRepo.FindByID(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}

	response := ToAuditEntryResponse(entry)
	return &response, nil
}

// Search retrieves audit entries matching the filter, newest first
func (s *TrailService) Search(ctx context.Context, tenantID uuid.UUID, filter AuditListFilter) ([]AuditEntryResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}

	query := audit.Query{
		ActorID:    filter.ActorID,
		Action:     audit.AuditAction(filter.Action),
		EntityType: filter.EntityType,
		EntityID:   filter.EntityID,
	}
	if filter.From != nil {
		query.From = *filter.From
	}
	if filter.To != nil {
		query.To = *filter.To
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}

	entries, err := s.entryRepo.Search(ctx, tenantID, query, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.entryRepo.Count(ctx, tenantID, query)
	if err != nil {
		return nil, 0, err
	}

	return ToAuditEntryResponses(entries), total, nil
}
