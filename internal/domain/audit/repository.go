package audit

import (
	"context"
	"time"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Query narrows an audit trail listing. Zero values mean "any".
type Query struct {
	ActorID    uuid.UUID
	Action     AuditAction
	EntityType string
	EntityID   uuid.UUID
	From       time.Time
	To         time.Time
}

// EntryRepository defines the interface for audit trail persistence.
// Entries are append-only so there is no update or delete.
type EntryRepository interface {
	// Save appends an audit entry
	Save(ctx context.Context, entry *AuditEntry) error

	// FindByID finds an entry by ID within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*AuditEntry, error)

	// Search finds entries matching the query, newest first
	Search(ctx context.Context, tenantID uuid.UUID, query Query, filter shared.Filter) ([]AuditEntry, error)

	// Count counts entries matching the query
	Count(ctx context.Context, tenantID uuid.UUID, query Query) (int64, error)
}
